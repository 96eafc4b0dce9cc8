package sabertooth

import "errors"

var (
	// ErrBusy indicates a get request is already in progress.
	// This happens when asynchronous and synchronous gets are mixed.
	ErrBusy = errors.New("get in progress")
	// ErrTimedOut indicates no valid reply arrived before the timeout.
	ErrTimedOut = errors.New("get timed out")
	// ErrMismatch indicates a reply arrived which doesn't correlate to
	// the outstanding request.
	ErrMismatch = errors.New("reply mismatch")
)

// Sentinel values returned in place of a value when a get fails.
// They are out of the range of valid values.
const (
	GetTimedOut = -32768
	GetError    = -32767
	GetBusy     = -32766
)

// sentinelOf maps an error to its sentinel value.
func sentinelOf(err error) int {
	switch err {
	case ErrTimedOut:
		return GetTimedOut
	case ErrBusy:
		return GetBusy
	}
	return GetError
}
