package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/pollwise/api/internal/core/domain"
	"github.com/pollwise/api/internal/core/ports"
)

// Used when the request layer could not determine a voter address.
const anonymousVoterPlaceholder = "anonymous-ip-placeholder"

type voteService struct {
	pollRepo ports.PollRepository
	voteRepo ports.VoteRepository
	identity ports.IdentityProvider
	cache    ports.CacheInvalidator
	logger   *slog.Logger
}

func NewVoteService(pollRepo ports.PollRepository, voteRepo ports.VoteRepository, identity ports.IdentityProvider, cache ports.CacheInvalidator, logger *slog.Logger) ports.VoteService {
	return &voteService{
		pollRepo: pollRepo,
		voteRepo: voteRepo,
		identity: identity,
		cache:    cache,
		logger:   logger,
	}
}

func (s *voteService) Submit(ctx context.Context, form ports.VoteForm) error {
	pollID, optionID, ferrs := ValidateVoteForm(form)
	if ferrs != nil {
		return domain.NewValidationError(ferrs)
	}

	ident := s.identity.Current(ctx)

	poll, err := s.pollRepo.GetByID(ctx, pollID)
	if err != nil {
		return err
	}

	validOption := false
	for _, opt := range poll.Options {
		if opt.ID == optionID {
			validOption = true
			break
		}
	}
	if !validOption {
		return domain.ErrInvalidOption
	}

	if err := ensureCanVote(ctx, s.voteRepo, poll, ident); err != nil {
		return err
	}

	vote := &domain.Vote{
		ID:        uuid.New(),
		PollID:    pollID,
		OptionID:  optionID,
		CreatedAt: time.Now(),
	}
	if ident != nil {
		userID := ident.ID
		vote.UserID = &userID
	} else {
		vote.VoterIP = form.VoterIP
		if vote.VoterIP == "" {
			vote.VoterIP = anonymousVoterPlaceholder
		}
	}

	if err := s.voteRepo.Save(ctx, vote); err != nil {
		s.logger.Error("submit vote", "poll_id", pollID, "error", err)
		return fmt.Errorf("submit vote: %w", err)
	}

	s.cache.Invalidate(ctx, pollPathBase+pollID.String())
	return nil
}
