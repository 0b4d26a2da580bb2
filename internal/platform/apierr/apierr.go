package apierr

import (
	"errors"
	"fmt"
	"net/http"

	domainagg "github.com/yungbote/classbridge-backend/internal/domain/aggregates"
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// StatusFor maps an aggregate error code to its HTTP status.
func StatusFor(code domainagg.ErrorCode) int {
	switch code {
	case domainagg.CodeUnauthorized:
		return http.StatusUnauthorized
	case domainagg.CodeForbidden:
		return http.StatusForbidden
	case domainagg.CodeNotFound:
		return http.StatusNotFound
	case domainagg.CodeValidation, domainagg.CodeInvariantViolation, domainagg.CodePreconditionFailed:
		return http.StatusBadRequest
	case domainagg.CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// FromError converts any error into an API error. Coded errors keep their caller-facing
// message; uncoded errors become an opaque internal error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	code := domainagg.CodeOf(err)
	if code == "" {
		return New(http.StatusInternalServerError, string(domainagg.CodeInternal), errors.New("internal error"))
	}
	msg := domainagg.MessageOf(err, string(code))
	return New(StatusFor(code), string(code), errors.New(msg))
}
