package domain

import "errors"

var (
	ErrPollNotFound = errors.New("poll not found")
	// ErrPollNotOwned covers both "poll does not exist" and "poll is owned by
	// someone else". The two cases stay indistinguishable so callers cannot
	// probe for polls they do not own.
	ErrPollNotOwned     = errors.New("poll not found or not permitted")
	ErrInvalidOption    = errors.New("invalid option for this poll")
	ErrAlreadyVoted     = errors.New("user has already voted")
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrProcedureMissing reports that the store lacks the server-side
	// update_poll_with_options function; callers fall back to manual writes.
	ErrProcedureMissing = errors.New("stored procedure not available")
)
