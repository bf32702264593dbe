package analyses

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// parseOutput checks the model text is exactly one JSON value and returns it
// as-is, so key order, number text and escaping reach the client unchanged.
func parseOutput(text string) (json.RawMessage, error) {
	dec := json.NewDecoder(strings.NewReader(text))

	var out json.RawMessage
	if err := dec.Decode(&out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("model returned no JSON value")
		}
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after top-level JSON value")
	}
	return json.RawMessage(strings.TrimSpace(text)), nil
}

// checkSchema verifies the value is an object with all five fields of the right types.
func checkSchema(raw json.RawMessage) error {
	if len(raw) == 0 || raw[0] != '{' {
		return fmt.Errorf("%w: expected a JSON object", ErrSchema)
	}

	var result Result
	if err := json.Unmarshal(raw, &result); err != nil {
		return fmt.Errorf("%w: %v", ErrSchema, err)
	}
	if err := validate.Struct(result); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fe.Field())
			}
			return fmt.Errorf("%w: missing %s", ErrSchema, strings.Join(fields, ", "))
		}
		return fmt.Errorf("%w: %v", ErrSchema, err)
	}
	return nil
}
