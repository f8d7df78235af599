package entsoe

import (
	"errors"
	"fmt"
)

var (
	// ErrNoData is returned when the API acknowledges the request with
	// reason code 999: the prices for the period are not published yet.
	ErrNoData = errors.New("no data available for the requested period")
	// ErrRateLimited is returned on HTTP 429 from the API.
	ErrRateLimited = errors.New("rate limited by ENTSO-E API")
	// ErrBackoffTimeout is returned when transient retries exhaust the
	// maximum elapsed time budget.
	ErrBackoffTimeout = errors.New("retry budget exhausted")
	// ErrMissingFirstPosition is returned when a period omits position 1,
	// which cannot be forward-filled.
	ErrMissingFirstPosition = errors.New("missing first period position, cannot forward-fill")
)

// TemporaryError wraps a transient upstream failure (5xx, connection error).
type TemporaryError struct {
	Detail string
}

func (e *TemporaryError) Error() string {
	return fmt.Sprintf("ENTSO-E API temporarily unavailable: %s", e.Detail)
}

// MalformedError wraps a response that could not be interpreted as either a
// price publication or an acknowledgement document.
type MalformedError struct {
	Detail string
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("malformed ENTSO-E response: %s", e.Detail)
}

// IsTransient reports whether err should be retried with backoff. Rate
// limiting, server errors and connection failures are transient; anything
// else is permanent for the current call.
func IsTransient(err error) bool {
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	var tmp *TemporaryError
	return errors.As(err, &tmp)
}
