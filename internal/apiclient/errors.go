package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failed API call.
type Kind int

const (
	KindNetwork Kind = iota + 1
	KindValidation
	KindUnauthorized
	KindServer
	KindMalformedResponse
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindValidation:
		return "validation"
	case KindUnauthorized:
		return "unauthorized"
	case KindServer:
		return "server"
	case KindMalformedResponse:
		return "malformed_response"
	default:
		return "unknown"
	}
}

// Error is returned by every Client method that fails.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Status != 0 && e.Message != "":
		return fmt.Sprintf("api request failed (%d): %s", e.Status, e.Message)
	case e.Status != 0:
		return fmt.Sprintf("api request failed with status %d", e.Status)
	case e.Err != nil:
		return fmt.Sprintf("api %s error: %v", e.Kind, e.Err)
	default:
		return fmt.Sprintf("api %s error", e.Kind)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// UserMessage is the text to show on the form, or "" when the API gave none.
func (e *Error) UserMessage() string {
	return e.Message
}

// IsKind reports whether err is an *Error of kind k.
func IsKind(err error, k Kind) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == k
}

func kindForStatus(status int) Kind {
	switch status {
	case http.StatusBadRequest, http.StatusConflict, http.StatusUnprocessableEntity:
		return KindValidation
	case http.StatusUnauthorized, http.StatusForbidden:
		return KindUnauthorized
	default:
		return KindServer
	}
}
