package analyses

import (
	"bytes"
	"encoding/json"
	"errors"
	"reflect"
)

// ErrNullContext is returned when a request sends "context": null.
var ErrNullContext = errors.New("context must be a string, not null")

// Request is the body of POST /analyze. Both fields are pointers so that an
// absent field can be told apart from an empty string.
type Request struct {
	UnstructuredText *string `json:"unstructured_text" binding:"required"`
	Context          *string `json:"context"`
}

// UnmarshalJSON decodes the body and rejects an explicit null context;
// only an absent context falls back to the default.
func (r *Request) UnmarshalJSON(data []byte) error {
	type plain Request
	var body struct {
		plain
		RawContext json.RawMessage `json:"context"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return err
	}
	*r = Request(body.plain)
	if body.RawContext == nil {
		return nil
	}
	if bytes.Equal(body.RawContext, []byte("null")) {
		return ErrNullContext
	}
	var steer string
	if err := json.Unmarshal(body.RawContext, &steer); err != nil {
		return &json.UnmarshalTypeError{Value: "non-string", Type: reflect.TypeOf(steer), Field: "context"}
	}
	r.Context = &steer
	return nil
}

// NewRequest builds a Request for callers outside HTTP binding.
// A nil context takes the service default.
func NewRequest(text string, context *string) Request {
	return Request{UnstructuredText: &text, Context: context}
}

// Result is the shape the model is asked to produce. The service returns the
// model's JSON as-is; Result is only used for strict-mode checks.
type Result struct {
	Summary         string   `json:"summary" validate:"required"`
	KeyEntities     []string `json:"key_entities" validate:"required"`
	Sentiment       string   `json:"sentiment" validate:"required"`
	Recommendations []string `json:"recommendations" validate:"required"`
	PotentialRisks  []string `json:"potential_risks" validate:"required"`
}
