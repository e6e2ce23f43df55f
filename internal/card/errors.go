package card

import "errors"

// Sentinel error kinds for the scheduling engine. Callers classify failures
// with errors.Is: ErrStorage and ErrRateLimited are retryable, ErrUnauthorized
// and ErrSessionClosed are fatal, ErrInvalidQuality and ErrInvalidInput mean
// the input must be corrected before resubmitting.
var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrInvalidQuality = errors.New("quality must be an integer between 0 and 5")
	ErrUnauthorized   = errors.New("resource does not belong to the requesting user")
	ErrSessionClosed  = errors.New("review session is closed")
	ErrNotFound       = errors.New("not found")
	ErrConflict       = errors.New("card was modified concurrently")
	ErrStorage        = errors.New("storage failure")
	ErrRateLimited    = errors.New("too many requests")
)
