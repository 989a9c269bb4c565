package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/pollwise/api/internal/core/domain"
	"github.com/pollwise/api/internal/core/ports"
)

// ensureCanMutate authorizes update/delete. The lookup filters by poll id
// and owner in one call so a missing poll and a foreign poll produce the
// same error.
func ensureCanMutate(ctx context.Context, polls ports.PollRepository, pollID uuid.UUID, identity *domain.Identity) (*domain.Poll, error) {
	if identity == nil {
		return nil, domain.ErrNotAuthenticated
	}
	poll, err := polls.GetOwned(ctx, pollID, identity.ID)
	if err != nil {
		return nil, err
	}
	return poll, nil
}

// ensureCanVote enforces the single-vote rule for authenticated voters.
// Anonymous voters are not deduplicated; their placeholder address is not a
// reliable identity.
func ensureCanVote(ctx context.Context, votes ports.VoteRepository, poll *domain.Poll, identity *domain.Identity) error {
	if poll.AllowMultipleVotes {
		return nil
	}
	if identity == nil {
		return nil
	}
	voted, err := votes.HasUserVoted(ctx, poll.ID, identity.ID)
	if err != nil {
		return fmt.Errorf("check existing vote: %w", err)
	}
	if voted {
		return domain.ErrAlreadyVoted
	}
	return nil
}
