package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// DecodeError reports an argument map that does not fit the request schema.
// Reason never contains the offending value.
type DecodeError struct {
	Field  string
	Reason string
}

func (e *DecodeError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Decode converts loosely typed tool arguments into one of the request types.
// Unknown fields are rejected so typos surface instead of being silently dropped.
func Decode(args map[string]any, out any) error {
	raw, err := json.Marshal(args)
	if err != nil {
		return &DecodeError{Reason: "arguments are not valid JSON"}
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return toDecodeError(err)
	}
	return nil
}

func toDecodeError(err error) *DecodeError {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return &DecodeError{
			Field:  typeErr.Field,
			Reason: fmt.Sprintf("expected %s, got %s", typeErr.Type.String(), typeErr.Value),
		}
	}

	// encoding/json reports unknown fields only as text: json: unknown field "name"
	msg := err.Error()
	if name, ok := strings.CutPrefix(msg, "json: unknown field "); ok {
		return &DecodeError{
			Field:  strings.Trim(name, `"`),
			Reason: "unknown field",
		}
	}
	return &DecodeError{Reason: "malformed arguments"}
}
