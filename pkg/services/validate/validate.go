package validate

import (
	"errors"
	"fmt"
)

// ErrNotObject is returned when the decoded input is not a JSON object.
var ErrNotObject = errors.New("document must be a JSON object")

// MissingFieldError names the first required top-level key absent from a document.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing top-level key: %s", e.Field)
}

// Validate checks that value is an object holding every key in required.
// Keys are checked in order and only the first missing one is reported. Field
// types and nested structure are not inspected.
func Validate(value any, required []string) (map[string]any, error) {
	data, ok := value.(map[string]any)
	if !ok {
		return nil, ErrNotObject
	}
	for _, key := range required {
		if _, present := data[key]; !present {
			return nil, &MissingFieldError{Field: key}
		}
	}
	return data, nil
}
