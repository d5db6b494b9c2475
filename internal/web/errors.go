package web

import (
	"errors"
	"net/http"
)

var ErrNotFound = errors.New("not found")

// ErrorResponse is the JSON body of a failed request.
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"requestId,omitempty"`
}

// Error carries an HTTP status with an error. Its message is shown to the
// client; any other error is reported as a bare 500.
type Error struct {
	Err    error
	Status int
}

// NewRequestError wraps err with an HTTP status code.
func NewRequestError(err error, status int) error {
	return &Error{err, status}
}

func (err *Error) Error() string {
	return err.Err.Error()
}

func (err *Error) Unwrap() error {
	return err.Err
}

// StatusOf returns the status carried by err, or 500.
func StatusOf(err error) int {
	var webErr *Error
	if errors.As(err, &webErr) {
		return webErr.Status
	}
	return http.StatusInternalServerError
}

type shutdown struct {
	Message string
}

// NewShutdownError returns an error that makes App stop the server.
func NewShutdownError(message string) error {
	return &shutdown{message}
}

func (s *shutdown) Error() string {
	return s.Message
}

func IsShutdown(err error) bool {
	var s *shutdown
	return errors.As(err, &s)
}
