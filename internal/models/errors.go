package models

import "fmt"

// ValidationError reports a request that violates the schema
// (missing or empty required field). Maps to HTTP 422.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// UnsupportedModelError reports a request naming a model other than the
// loaded one. Maps to HTTP 400.
type UnsupportedModelError struct {
	Requested string
	Active    string
}

func (e *UnsupportedModelError) Error() string {
	return fmt.Sprintf("model %q not supported, only %s is available", e.Requested, e.Active)
}

// CheckModel validates the model name of a request against the active model.
// A nil name means the field was omitted and always passes; any present
// value, the empty string included, must match.
func CheckModel(requested *string, active string) error {
	if requested == nil || *requested == active {
		return nil
	}
	return &UnsupportedModelError{Requested: *requested, Active: active}
}
