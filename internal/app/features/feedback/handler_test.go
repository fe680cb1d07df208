package feedbackfeature

import (
	"net/http"
	"testing"

	feedbackstore "github.com/dalemusser/stratalaunch/internal/app/store/feedback"
	"github.com/dalemusser/stratalaunch/internal/app/system/dbconn"
	"github.com/dalemusser/stratalaunch/internal/app/system/payload"
	"github.com/dalemusser/stratalaunch/internal/domain/models"
	"github.com/dalemusser/stratalaunch/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func post(h *Handler, body string) *testutil.ResponseRecorder {
	rec := testutil.NewRecorder()
	h.Submit(rec, testutil.NewJSONRequest(http.MethodPost, "/api/feedback", body))
	return rec
}

const complete = `{
	"email": " Dev@Example.com ",
	"frustration": "  No feedback on practice answers ",
	"ai_coach_help": "Mock interviews",
	"confidence_area": "System design"
}`

func TestSubmit_StoresEveryResponse(t *testing.T) {
	conn, db := testutil.SetupAccessor(t)
	h := NewHandler(conn, nil, zap.NewNop())

	for i := 0; i < 2; i++ {
		rec := post(h, complete)
		require.Equal(t, http.StatusCreated, rec.Code)
		body := rec.DecodeJSON(t)
		assert.Equal(t, "Feedback submitted successfully!", body["message"])
		assert.Equal(t, true, body["success"])
	}

	ctx, cancel := testutil.TestContext()
	defer cancel()
	store := feedbackstore.New(db)
	n, err := store.CountByEmail(ctx, "dev@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	latest, err := store.Latest(ctx, 1)
	require.NoError(t, err)
	require.Len(t, latest, 1)
	assert.Equal(t, "No feedback on practice answers", latest[0].Frustration)
	assert.Equal(t, "", latest[0].AdditionalFeatures)
	assert.Equal(t, models.SourceSurvey, latest[0].Source)
}

func TestSubmit_MissingFieldsInOrder(t *testing.T) {
	conn := dbconn.New(dbconn.Config{}, zap.NewNop())
	h := NewHandler(conn, nil, zap.NewNop())

	tests := []struct {
		name string
		body string
		want string
	}{
		{"all missing", `{}`, "email is required"},
		{"email only", `{"email":"a@b.co"}`, "frustration is required"},
		{"blank frustration", `{"email":"a@b.co","frustration":"  ","ai_coach_help":"x","confidence_area":"y"}`, "frustration is required"},
		{"missing coach help", `{"email":"a@b.co","frustration":"x","confidence_area":"y"}`, "ai_coach_help is required"},
		{"missing confidence area", `{"email":"a@b.co","frustration":"x","ai_coach_help":"y"}`, "confidence_area is required"},
		{"missing field wins over bad email", `{"email":"bad","frustration":"x"}`, "ai_coach_help is required"},
		{"bad email", `{"email":"bad","frustration":"x","ai_coach_help":"y","confidence_area":"z"}`, "Invalid email format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(h, tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			body := rec.DecodeJSON(t)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.want, body["error"])
		})
	}
}

func TestSubmit_NoConnectionString(t *testing.T) {
	conn := dbconn.New(dbconn.Config{}, zap.NewNop())
	h := NewHandler(conn, nil, zap.NewNop())

	rec := post(h, complete)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, false, rec.DecodeJSON(t)["success"])
}

func TestReadInput_Aliases(t *testing.T) {
	in := readInput(payload.Object{
		"email":                "a@b.co",
		"frustration":          "x",
		"ai_coach_ask":         "from alias",
		"least_confident_area": "alias area",
		"other_suggestions":    "alias extra",
	})
	assert.Equal(t, "from alias", in.AICoachHelp)
	assert.Equal(t, "alias area", in.ConfidenceArea)
	assert.Equal(t, "alias extra", in.AdditionalFeatures)

	in = readInput(payload.Object{
		"ai_coach_help": "canonical",
		"ai_coach_ask":  "alias",
	})
	assert.Equal(t, "canonical", in.AICoachHelp)
}

func TestReadInput_ConvertsNonStrings(t *testing.T) {
	in := readInput(payload.Object{
		"frustration":     true,
		"confidence_area": 3,
		"ai_coach_help":   []any{"x"},
	})
	assert.Equal(t, "true", in.Frustration)
	assert.Equal(t, "3", in.ConfidenceArea)
	assert.Equal(t, `["x"]`, in.AICoachHelp)
}
