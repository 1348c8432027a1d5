package insight

import (
	"errors"
	"fmt"
)

// ErrMissingCredential is returned before any network I/O when no API key is configured.
var ErrMissingCredential = errors.New("API_KEY is missing. Please ensure your environment variable is configured.")

// ErrEmptyResponse is returned when the model answers with no output text.
var ErrEmptyResponse = errors.New("The AI model returned an empty response. This can happen if the input is too brief or restricted.")

const invalidCredentialMessage = "The API key provided is not valid. Please verify that your API key is correct and active."

// InvalidCredentialError reports that the provider rejected the request as unauthenticated or malformed (4xx).
type InvalidCredentialError struct {
	StatusCode int
	Err        error
}

func (e *InvalidCredentialError) Error() string {
	return invalidCredentialMessage
}

func (e *InvalidCredentialError) Unwrap() error {
	return e.Err
}

// MalformedResultError reports model output that does not satisfy the Result contract.
type MalformedResultError struct {
	Reason string
	Err    error
}

func (e *MalformedResultError) Error() string {
	switch {
	case e.Reason != "" && e.Err != nil:
		return fmt.Sprintf("malformed insight result: %s: %v", e.Reason, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("malformed insight result: %v", e.Err)
	case e.Reason != "":
		return "malformed insight result: " + e.Reason
	default:
		return "malformed insight result"
	}
}

func (e *MalformedResultError) Unwrap() error {
	return e.Err
}

// UpstreamError carries any other provider or transport failure. Its message is the wrapped error's message.
type UpstreamError struct {
	Err error
}

func (e *UpstreamError) Error() string {
	if e.Err == nil {
		return "upstream request failed"
	}
	return e.Err.Error()
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
