package inputval

import (
	"testing"

	"github.com/dalemusser/stratalaunch/internal/app/system/apperr"
)

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		// Valid emails
		{"user@example.com", true},
		{"user.name@example.com", true},
		{"user+tag@example.com", true},
		{"user@subdomain.example.com", true},
		{"user123@example.co.uk", true},
		{"a@b.c", true},

		// Invalid emails
		{"", false},
		{"   ", false},
		{"notanemail", false},
		{"user@example", false},
		{"@example.com", false},
		{"user@", false},
		{"user@.com", false},
		{"user example.com", false},
		{"user@@example.com", false},
		{"user@exa mple.com", false},
		{"user@example.", false},
		{"Name <user@example.com>", false},
		{"us\ver@example.com", false},
		{"us\u00a0er@example.com", false},
		{"user@exa\u2003mple.com", false},
		{"user@example.c\u0085om", false},
		{"user@example.com\t", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			got := IsValidEmail(tt.email)
			if got != tt.want {
				t.Errorf("IsValidEmail(%q) = %v, want %v", tt.email, got, tt.want)
			}
		})
	}
}

type surveyInput struct {
	Email          string `json:"email" validate:"required,signupemail"`
	Frustration    string `json:"frustration" validate:"required"`
	AICoachHelp    string `json:"ai_coach_help" validate:"required"`
	ConfidenceArea string `json:"confidence_area" validate:"required"`
	Extra          string `json:"additional_features"`
}

func TestCheck(t *testing.T) {
	valid := surveyInput{
		Email:          "user@example.com",
		Frustration:    "f",
		AICoachHelp:    "a",
		ConfidenceArea: "c",
	}

	tests := []struct {
		name      string
		mutate    func(in *surveyInput)
		wantKind  apperr.Kind
		wantField string
		wantOK    bool
	}{
		{name: "valid", mutate: func(in *surveyInput) {}, wantOK: true},
		{name: "optional field blank", mutate: func(in *surveyInput) { in.Extra = "" }, wantOK: true},
		{
			name:      "missing email",
			mutate:    func(in *surveyInput) { in.Email = "" },
			wantKind:  apperr.KindMissingField,
			wantField: "email",
		},
		{
			name:      "missing confidence_area",
			mutate:    func(in *surveyInput) { in.ConfidenceArea = "" },
			wantKind:  apperr.KindMissingField,
			wantField: "confidence_area",
		},
		{
			name: "first missing field wins",
			mutate: func(in *surveyInput) {
				in.AICoachHelp = ""
				in.ConfidenceArea = ""
			},
			wantKind:  apperr.KindMissingField,
			wantField: "ai_coach_help",
		},
		{
			name: "missing field wins over invalid email",
			mutate: func(in *surveyInput) {
				in.Email = "not-an-email"
				in.ConfidenceArea = ""
			},
			wantKind:  apperr.KindMissingField,
			wantField: "confidence_area",
		},
		{
			name:     "invalid email",
			mutate:   func(in *surveyInput) { in.Email = "user@example" },
			wantKind: apperr.KindInvalidEmail,
		},
		{
			name:     "unicode space in email",
			mutate:   func(in *surveyInput) { in.Email = "us\u00a0er@example.com" },
			wantKind: apperr.KindInvalidEmail,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)

			err := Check(in)
			if tt.wantOK {
				if err != nil {
					t.Fatalf("Check() error = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Check() error = nil, want error")
			}
			if got := apperr.KindOf(err); got != tt.wantKind {
				t.Errorf("kind = %s, want %s", got, tt.wantKind)
			}
			if tt.wantField != "" {
				ae := err.(*apperr.Error)
				if ae.Field != tt.wantField {
					t.Errorf("field = %q, want %q", ae.Field, tt.wantField)
				}
			}
		})
	}
}

func TestValidate_UsesJSONNames(t *testing.T) {
	res := Validate(surveyInput{})
	if !res.HasErrors() {
		t.Fatal("Validate() returned no errors for empty input")
	}
	if res.Errors[0].Field != "email" {
		t.Errorf("first field = %q, want email", res.Errors[0].Field)
	}
	if res.First() != "email is required" {
		t.Errorf("First() = %q, want %q", res.First(), "email is required")
	}
	if len(res.Errors) != 4 {
		t.Errorf("len(Errors) = %d, want 4", len(res.Errors))
	}
}
