// Package web defines common components for a web application.
package web

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// Response holds the common response type for all APIs.
type Response struct {
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}

// Error wraps a given err into json friendly struct.
func Error(err error) Response {
	return Response{Error: err.Error()}
}

// BindError converts a request binding error into a response.
//
// Validation failures are reported for the first offending field.
func BindError(err error) Response {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		return Response{Error: GetErrorMsg(ve[0])}
	}

	return Error(err)
}

// GetErrorMsg returns a human readable message for the failed field validation.
func GetErrorMsg(fe validator.FieldError) string {
	field := fe.Field()

	switch fe.Tag() {
	case "required", "required_if":
		return field + " is required"
	case "currency":
		return field + " is not supported"
	case "amount":
		return field + " must be a positive amount up to 9999999999.99 with at most 2 decimals"
	case "alphanum":
		return field + " must contain only letters and digits"
	case "email":
		return field + " must be a valid email"
	case "oneof":
		return field + " must be one of: " + fe.Param()
	case "min":
		return field + " must be at least " + fe.Param()
	case "max":
		return field + " must be at most " + fe.Param()
	case "nefield":
		return field + " must differ from " + fe.Param()
	}

	return field + " is invalid"
}
