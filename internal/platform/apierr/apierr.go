package apierr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/yungbote/fotherbys-backend/internal/domain"
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

var errInternal = errors.New("internal server error")

// FromError maps a service error onto a status and code. Internal causes are
// replaced with a generic message so store details never reach clients.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	code := domain.CodeOf(err)
	msg := errors.New(domain.MessageOf(err))
	switch code {
	case domain.CodeNotFound:
		return New(http.StatusNotFound, string(code), msg)
	case domain.CodeForbidden:
		return New(http.StatusForbidden, string(code), msg)
	case domain.CodeInvalidArgument:
		return New(http.StatusBadRequest, string(code), msg)
	case domain.CodeConflict:
		return New(http.StatusConflict, string(code), msg)
	case domain.CodeUnauthenticated:
		return New(http.StatusUnauthorized, string(code), msg)
	default:
		return New(http.StatusInternalServerError, string(domain.CodeInternal), errInternal)
	}
}
