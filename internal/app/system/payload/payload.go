// Package payload decodes JSON request bodies into a loosely typed object.
//
// Submission endpoints accept whatever the marketing site sends: values are
// converted to text (or bool) with github.com/spf13/cast rather than rejected
// for having the wrong JSON type. Only a body that does not parse as JSON is
// an error; valid JSON that is not an object carries no fields.
package payload

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/dalemusser/stratalaunch/internal/app/system/apperr"
	"github.com/dalemusser/stratalaunch/internal/app/system/normalize"
	"github.com/spf13/cast"
)

// MaxBodyBytes caps the size of a request body.
const MaxBodyBytes = 64 << 10

// Object is a decoded JSON object. A nil Object behaves like an empty one.
type Object map[string]any

// Decode reads the request body as a single JSON value. An object is returned
// as is; null, arrays and scalars yield a nil Object so the caller reports the
// first required field as missing. Invalid JSON, trailing data and an
// oversized body are reported as apperr.KindInvalidPayload.
func Decode(w http.ResponseWriter, r *http.Request) (Object, error) {
	if r.Body == nil {
		return nil, apperr.InvalidPayload("", errors.New("empty body"))
	}
	body := http.MaxBytesReader(w, r.Body, MaxBodyBytes)

	dec := json.NewDecoder(body)
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, apperr.InvalidPayload("Request body too large", err)
		}
		return nil, apperr.InvalidPayload("", err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, apperr.InvalidPayload("", errors.New("unexpected data after JSON value"))
	}
	obj, _ := v.(map[string]any)
	return obj, nil
}

// Has reports whether key is present with a non-null value.
func (o Object) Has(key string) bool {
	v, ok := o[key]
	return ok && v != nil
}

// Text returns the value at key converted to trimmed text. Missing and null
// values yield "". Arrays and objects are rendered as compact JSON.
func (o Object) Text(key string) string {
	switch v := o[key].(type) {
	case nil:
		return ""
	case json.Number:
		return normalize.Text(v.String())
	case []any, map[string]any:
		b, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(b)
	default:
		return normalize.Text(cast.ToString(v))
	}
}

// FirstText returns Text for the first key that is present and non-null.
func (o Object) FirstText(keys ...string) string {
	for _, k := range keys {
		if o.Has(k) {
			return o.Text(k)
		}
	}
	return ""
}

// Object returns the nested object at key, or nil when the value is missing
// or is not an object.
func (o Object) Object(key string) Object {
	switch v := o[key].(type) {
	case map[string]any:
		return Object(v)
	case Object:
		return v
	default:
		return nil
	}
}

// Bool returns the boolean at key, or def when the key is missing or null.
// A present value that cannot be read as a boolean is an invalid payload.
func (o Object) Bool(key string, def bool) (bool, error) {
	v, ok := o[key]
	if !ok || v == nil {
		return def, nil
	}
	if n, isNum := v.(json.Number); isNum {
		v = n.String()
	}
	b, err := cast.ToBoolE(v)
	if err != nil {
		return def, apperr.InvalidPayload(key+" must be a boolean", err)
	}
	return b, nil
}
