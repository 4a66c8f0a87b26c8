package questionbank

import (
	"errors"
	"fmt"
)

// Envelope codes the client gives meaning to. Any code other than CodeOK is
// a failure.
const (
	CodeOK           = 0
	CodeNetworkError = -999
)

// Envelope is the uniform {code, msg, data} wrapper of every backend reply.
// Data is only meaningful when OK reports true.
type Envelope[T any] struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data T      `json:"data"`
}

// OK reports whether the envelope signals success
func (e Envelope[T]) OK() bool {
	return e.Code == CodeOK
}

// Err converts a failure envelope into ErrNetwork or a *ServerError.
// It returns nil for a successful envelope.
func (e Envelope[T]) Err() error {
	switch e.Code {
	case CodeOK:
		return nil
	case CodeNetworkError:
		return ErrNetwork
	}
	return &ServerError{Code: e.Code, Msg: e.Msg}
}

// Message is the text shown to the user for a failed envelope: the server
// message verbatim, the generic network message for transport failures, and
// fallback when the server sent nothing.
func (e Envelope[T]) Message(fallback string) string {
	if e.Code == CodeNetworkError {
		return networkErrorMessage
	}
	if e.Msg == "" {
		return fallback
	}
	return e.Msg
}

// Success builds a successful envelope
func Success[T any](msg string, data T) Envelope[T] {
	return Envelope[T]{Code: CodeOK, Msg: msg, Data: data}
}

// Failure builds a failed envelope with empty data
func Failure[T any](code int, msg string) Envelope[T] {
	var zero T
	return Envelope[T]{Code: code, Msg: msg, Data: zero}
}

func networkFailure[T any]() Envelope[T] {
	return Failure[T](CodeNetworkError, networkErrorMessage)
}

const networkErrorMessage = "network error"

var (
	// ErrMissingID is returned when an operation needs a persisted question
	// and the record has no id. No request is sent.
	ErrMissingID = errors.New("question has no id")

	// ErrNetwork marks a transport failure: the backend could not be reached
	// or answered with something that is not an envelope.
	ErrNetwork = errors.New(networkErrorMessage)

	// ErrCancelled is returned when the user declines a confirmation
	ErrCancelled = errors.New("cancelled")

	// ErrInvalidState is returned when the AI workflow is driven out of order
	ErrInvalidState = errors.New("invalid workflow state")

	// ErrPartialFailure is returned by a batch where some items failed
	ErrPartialFailure = errors.New("some items failed")

	// ErrBatchFailed is returned by a batch where every item failed
	ErrBatchFailed = errors.New("every item failed")
)

// ServerError is a failure reported by the backend in the envelope
type ServerError struct {
	Code int
	Msg  string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server error %d: %s", e.Code, e.Msg)
}

// ValidationError reports a missing or malformed input field
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}
