package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrNotFound      = errors.New("not found")
	ErrForbidden     = errors.New("access forbidden")
	ErrTransient     = errors.New("transient service error")
	ErrRateLimited   = errors.New("rate limit exceeded")
	ErrUnauthorized  = errors.New("invalid or missing credential")
	ErrBadRequest    = errors.New("malformed request")
	ErrInvalidInput  = errors.New("invalid input")
	ErrInvalidConfig = errors.New("invalid configuration")
	ErrNoContent     = errors.New("no analyzable content")
)

// Fatal reports whether err must abort a whole run rather than be absorbed
// by per-item or per-facet recovery.
func Fatal(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrForbidden) ||
		errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrInvalidConfig)
}
