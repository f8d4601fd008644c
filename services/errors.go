package services

import "errors"

// ErrNotFound is returned by every operation given an unknown transcript id,
// including a repeated Delete.
var ErrNotFound = errors.New("transcript not found")

// ValidationError reports bad caller input. The request is never retried by
// the service; the caller must fix the input.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

func newValidationError(reason string) error {
	return &ValidationError{Reason: reason}
}

// SummarizationError wraps a failure of the summarization collaborator,
// including timeouts and empty model output.
type SummarizationError struct {
	Err error
}

func (e *SummarizationError) Error() string { return "summarization failed: " + e.Err.Error() }
func (e *SummarizationError) Unwrap() error { return e.Err }

// DeliveryError wraps a failure of the mail collaborator. It is returned
// only when no recipient could be delivered to; partial failures are
// reported in the send result instead.
type DeliveryError struct {
	Err error
}

func (e *DeliveryError) Error() string { return "delivery failed: " + e.Err.Error() }
func (e *DeliveryError) Unwrap() error { return e.Err }
