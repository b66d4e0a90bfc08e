package ingest

import "errors"

// ErrorClass is the taxonomy the retry policy and circuit breaker key their
// behaviour on, rather than concrete sentinel errors.
type ErrorClass string

const (
	ClassTransient          ErrorClass = "transient"
	ClassProviderHTTPError  ErrorClass = "provider_http_error"
	ClassProviderBadPayload ErrorClass = "provider_bad_payload"
	ClassBreakerOpen        ErrorClass = "breaker_open"
	ClassValidationError    ErrorClass = "validation_error"
	ClassInternalError      ErrorClass = "internal_error"
)

// SourceError wraps a provider-call failure with the source it came from and
// its error class.
type SourceError struct {
	Source string
	Class  ErrorClass
	Err    error
}

func (e *SourceError) Error() string {
	return string(e.Source) + ": " + string(e.Class) + ": " + e.Err.Error()
}

func (e *SourceError) Unwrap() error { return e.Err }

// ErrCircuitOpen is returned by CircuitBreaker.Call when the breaker rejects
// the call without invoking the underlying function.
var ErrCircuitOpen = errors.New("circuit breaker open")

// classOf extracts the ErrorClass carried by err, defaulting to
// ClassInternalError when err does not wrap a SourceError.
func classOf(err error) ErrorClass {
	var se *SourceError
	if errors.As(err, &se) {
		return se.Class
	}
	return ClassInternalError
}
