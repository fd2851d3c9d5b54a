package sheets

import (
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/api/googleapi"
)

var (
	// ErrSpreadsheetNotFound is returned when no spreadsheet matches the configured name.
	ErrSpreadsheetNotFound = errors.New("spreadsheet not found")
	// ErrWorksheetNotFound is returned when the configured worksheet does not exist.
	ErrWorksheetNotFound = errors.New("worksheet not found")
)

// ConnectionError reports a failure to establish a session: invalid
// credentials, a missing spreadsheet or worksheet, or an unreachable service.
type ConnectionError struct {
	Spreadsheet string
	Err         error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("cannot open spreadsheet %q: %v", e.Spreadsheet, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// WriteError reports a failed append, e.g. rate limiting, permission denial
// or a transient network failure.
type WriteError struct {
	Range string
	Err   error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("cannot append row to %s: %v", e.Range, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// StatusCode returns the HTTP status of the Google API error wrapped in err,
// or 0 when err did not come from an API response.
func StatusCode(err error) int {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return 0
}

// IsRateLimited reports whether err was caused by a quota or rate limit response.
func IsRateLimited(err error) bool {
	return StatusCode(err) == http.StatusTooManyRequests
}
