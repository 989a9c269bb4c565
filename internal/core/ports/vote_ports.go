package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/pollwise/api/internal/core/domain"
)

type VoteRepository interface {
	Save(ctx context.Context, vote *domain.Vote) error
	HasUserVoted(ctx context.Context, pollID, userID uuid.UUID) (bool, error)
}

// VoteForm carries raw caller input; ids are validated by the service.
// VoterIP comes from the request-handling layer, never synthesized here.
type VoteForm struct {
	PollID   string
	OptionID string
	VoterIP  string
}

type VoteService interface {
	Submit(ctx context.Context, form VoteForm) error
}
