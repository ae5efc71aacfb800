package domain

import "errors"

var (
	// ErrInvalidBristolType is returned for a missing or out of range Bristol type.
	ErrInvalidBristolType = errors.New("bristol type must be an integer between 1 and 7")
	// ErrMissingCredential is returned when the AI service key is not configured.
	ErrMissingCredential = errors.New("ai credential not configured")
	// ErrRateLimited is returned when the advice endpoint window is exhausted.
	ErrRateLimited = errors.New("too many requests")
	// ErrModelUnavailable means every candidate model failed its probe.
	ErrModelUnavailable = errors.New("no available models found")
	// ErrUnparseableAdvice means the AI text did not hold a valid advice document.
	ErrUnparseableAdvice = errors.New("unparseable advice document")
)
