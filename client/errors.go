package client

import (
	"errors"
	"fmt"
	"net/http"
)

// Fallback is shown when a failure carries no server message.
const Fallback = "something went wrong"

var (
	// ErrUnauthorized means the session is missing, expired or rejected.
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	// ErrValidation covers 400, 409 and 422 answers; the message explains which field.
	ErrValidation = errors.New("validation failed")
)

// APIError is a non-success answer of the notes API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: %d %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	case ErrValidation:
		return e.Status == http.StatusBadRequest || e.Status == http.StatusConflict || e.Status == http.StatusUnprocessableEntity
	}
	return false
}

func (e *APIError) UserMessage() string {
	return e.Message
}

// Message returns the text to show a user for err: the server-provided
// message when there is one, Fallback otherwise.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var um interface{ UserMessage() string }
	if errors.As(err, &um) {
		if msg := um.UserMessage(); msg != "" {
			return msg
		}
	}
	if errors.Is(err, ErrUnauthorized) {
		return "your session has expired, please log in again"
	}
	return Fallback
}
