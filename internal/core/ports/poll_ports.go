package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/pollwise/api/internal/core/domain"
)

type PollRepository interface {
	Save(ctx context.Context, poll *domain.Poll) error
	SaveOptions(ctx context.Context, pollID uuid.UUID, options []domain.PollOption) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Poll, error)
	// GetOwned filters by poll id and owner in a single lookup; a miss is
	// always domain.ErrPollNotOwned, whatever the reason.
	GetOwned(ctx context.Context, id, ownerID uuid.UUID) (*domain.Poll, error)
	// ReplaceAtomic updates the poll and replaces its options through the
	// update_poll_with_options database function. Returns
	// domain.ErrProcedureMissing when the function is not installed.
	ReplaceAtomic(ctx context.Context, poll *domain.Poll) error
	Update(ctx context.Context, poll *domain.Poll) error
	DeleteOptions(ctx context.Context, pollID uuid.UUID) error
	Delete(ctx context.Context, pollID uuid.UUID) error
}

type PollResultRepository interface {
	GetPollOptionStats(ctx context.Context, pollID uuid.UUID) (map[uuid.UUID]domain.PollOptionStats, error)
}

type PollForm struct {
	Title              string
	Description        string
	IsPublic           bool
	AllowMultipleVotes bool
	Options            []string
}

type PollService interface {
	Create(ctx context.Context, form PollForm) (*domain.Poll, error)
	Update(ctx context.Context, pollID string, form PollForm) (*domain.Poll, error)
	Delete(ctx context.Context, pollID string) error
	GetPoll(ctx context.Context, pollID string) (*domain.Poll, error)
	GetResults(ctx context.Context, pollID string) (*domain.PollResults, error)
}
