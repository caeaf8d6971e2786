package annotation

import (
	"errors"
	"fmt"
)

// Common errors returned by annotation clients and the parser
var (
	// ErrRateLimited is returned when the inference service rejects a call
	// because the API key's quota is exhausted. This is the only error class
	// the retrier backs off on.
	ErrRateLimited = errors.New("annotation request rate limited")

	// ErrHTTP is returned for non-rate-limit HTTP failures from the service.
	ErrHTTP = errors.New("annotation request failed with HTTP error")

	// ErrMalformedResponse is returned when the service responds without a
	// usable text payload.
	ErrMalformedResponse = errors.New("malformed response from annotation service")

	// ErrTransport is returned when the call never produced an HTTP response.
	ErrTransport = errors.New("annotation transport error")

	// ErrParse is returned when the raw model response cannot be decoded into
	// the expected metadata fields.
	ErrParse = errors.New("failed to parse annotation response")

	// ErrInvalidConfig is returned when an annotator is constructed with
	// invalid configuration.
	ErrInvalidConfig = errors.New("invalid annotator configuration")
)

// HTTPError carries the status code of a non-rate-limit HTTP failure.
// It wraps ErrHTTP so callers can classify with errors.Is and recover the
// status with errors.As.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("annotation request failed with HTTP status %d", e.StatusCode)
	}
	return fmt.Sprintf("annotation request failed with HTTP status %d: %s", e.StatusCode, e.Message)
}

func (e *HTTPError) Unwrap() error {
	return ErrHTTP
}

// IsRateLimited reports whether err is a rate-limit failure. It is the retry
// predicate used for annotation calls.
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}
