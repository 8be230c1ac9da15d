package app

import "errors"

var (
	// ErrValidation indicates bad user input; rejected before any state change.
	ErrValidation = errors.New("invalid input")
	// ErrIndexOutOfRange indicates a reference to a food entry that does not exist.
	ErrIndexOutOfRange = errors.New("no food entry at that index")
	// ErrStaleDay indicates a mutation attempted against an out-of-date day log.
	// Re-hydrating for the current day recovers.
	ErrStaleDay = errors.New("day log is stale")
	// ErrAuthRequired indicates a remote-only operation attempted without a session.
	ErrAuthRequired = errors.New("sign in required")
	// ErrRemoteUnavailable indicates a remote store failure. The local cache
	// remains authoritative; the operation succeeded locally but is not synced.
	ErrRemoteUnavailable = errors.New("remote store unavailable")
)
