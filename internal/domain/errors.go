package domain

import (
	"errors"
	"fmt"
	"strings"
)

// MissingInputMessage is the client-facing message for an incomplete request.
const MissingInputMessage = "Missing sentence or image_url"

// ErrTooManyInFlight is returned when the admission bound is reached.
var ErrTooManyInFlight = errors.New("too many generations in flight")

// ValidationError reports client input that cannot be processed.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ProviderSubmissionError is returned when the provider rejects the
// generation request. Payload holds the decoded provider body, or the raw
// text when it was not JSON.
type ProviderSubmissionError struct {
	StatusCode int
	Payload    any
}

func (e *ProviderSubmissionError) Error() string {
	return fmt.Sprintf("provider rejected generation: status %d", e.StatusCode)
}

// ProviderJobFailedError is returned when a status poll reports an explicit
// failure marker. Body is the full raw status response.
type ProviderJobFailedError struct {
	JobID  string
	Status string
	Body   []byte
}

func (e *ProviderJobFailedError) Error() string {
	return "Video generation failed: " + strings.TrimSpace(string(e.Body))
}

// ProviderPollTimeoutError ends a poll loop that exceeded its configured bound.
type ProviderPollTimeoutError struct {
	JobID    string
	Attempts int
	Reason   string
}

func (e *ProviderPollTimeoutError) Error() string {
	return fmt.Sprintf("video generation %s did not finish: %s after %d polls", e.JobID, e.Reason, e.Attempts)
}

// UnexpectedError wraps transport, decoding and other failures that are
// surfaced as a generic server error.
type UnexpectedError struct {
	Op  string
	Err error
}

func (e *UnexpectedError) Error() string {
	if e.Op == "" {
		return e.Err.Error()
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *UnexpectedError) Unwrap() error { return e.Err }
