package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/pollwise/api/internal/core/domain"
	"github.com/pollwise/api/internal/core/ports"
)

const (
	dashboardPath = "/dashboard"
	pollPathBase  = "/polls/"
)

type pollService struct {
	repo       ports.PollRepository
	resultRepo ports.PollResultRepository
	identity   ports.IdentityProvider
	cache      ports.CacheInvalidator
	logger     *slog.Logger
}

func NewPollService(repo ports.PollRepository, resultRepo ports.PollResultRepository, identity ports.IdentityProvider, cache ports.CacheInvalidator, logger *slog.Logger) ports.PollService {
	return &pollService{
		repo:       repo,
		resultRepo: resultRepo,
		identity:   identity,
		cache:      cache,
		logger:     logger,
	}
}

func (s *pollService) Create(ctx context.Context, form ports.PollForm) (*domain.Poll, error) {
	form, ferrs := ValidatePollForm(form)
	if ferrs != nil {
		return nil, domain.NewValidationError(ferrs)
	}

	ident := s.identity.Current(ctx)
	if ident == nil {
		return nil, domain.ErrNotAuthenticated
	}

	now := time.Now()
	poll := &domain.Poll{
		ID:                 uuid.New(),
		Title:              form.Title,
		Description:        form.Description,
		IsPublic:           form.IsPublic,
		AllowMultipleVotes: form.AllowMultipleVotes,
		OwnerID:            ident.ID,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	options := buildOptions(poll.ID, form.Options, now)

	if err := s.repo.Save(ctx, poll); err != nil {
		s.logger.Error("create poll", "error", err)
		return nil, fmt.Errorf("create poll: %w", err)
	}
	if err := s.repo.SaveOptions(ctx, poll.ID, options); err != nil {
		s.logger.Error("create poll options", "poll_id", poll.ID, "error", err)
		// Best-effort cleanup; a failure here may leave an orphaned poll row.
		if delErr := s.repo.Delete(ctx, poll.ID); delErr != nil {
			s.logger.Error("cleanup poll after failed option insert", "poll_id", poll.ID, "error", delErr)
		}
		return nil, fmt.Errorf("create poll options: %w", err)
	}
	poll.Options = options

	s.cache.Invalidate(ctx, dashboardPath)
	return poll, nil
}

func (s *pollService) Update(ctx context.Context, rawID string, form ports.PollForm) (*domain.Poll, error) {
	pollID, ferrs := ValidatePollID(rawID)
	if ferrs != nil {
		return nil, domain.NewValidationError(ferrs)
	}
	form, ferrs = ValidatePollForm(form)
	if ferrs != nil {
		return nil, domain.NewValidationError(ferrs)
	}

	ident := s.identity.Current(ctx)
	existing, err := ensureCanMutate(ctx, s.repo, pollID, ident)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	poll := &domain.Poll{
		ID:                 pollID,
		Title:              form.Title,
		Description:        form.Description,
		IsPublic:           form.IsPublic,
		AllowMultipleVotes: form.AllowMultipleVotes,
		OwnerID:            existing.OwnerID,
		CreatedAt:          existing.CreatedAt,
		UpdatedAt:          now,
	}
	poll.Options = buildOptions(pollID, form.Options, now)

	err = s.repo.ReplaceAtomic(ctx, poll)
	if errors.Is(err, domain.ErrProcedureMissing) {
		s.logger.Warn("update_poll_with_options missing, using manual replace", "poll_id", pollID)
		err = s.replaceManually(ctx, poll)
	}
	if err != nil {
		s.logger.Error("update poll", "poll_id", pollID, "error", err)
		return nil, fmt.Errorf("update poll: %w", err)
	}

	s.cache.Invalidate(ctx, dashboardPath, pollPathBase+pollID.String())
	return poll, nil
}

// replaceManually is the fallback when the atomic database function is not
// installed: the poll update and the option delete run concurrently, the
// option insert follows. Steps that already succeeded are not rolled back
// on a later failure.
func (s *pollService) replaceManually(ctx context.Context, poll *domain.Poll) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.repo.Update(gctx, poll)
	})
	g.Go(func() error {
		return s.repo.DeleteOptions(gctx, poll.ID)
	})
	if err := g.Wait(); err != nil {
		return err
	}
	return s.repo.SaveOptions(ctx, poll.ID, poll.Options)
}

func (s *pollService) Delete(ctx context.Context, rawID string) error {
	pollID, ferrs := ValidatePollID(rawID)
	if ferrs != nil {
		return domain.NewValidationError(ferrs)
	}

	ident := s.identity.Current(ctx)
	if _, err := ensureCanMutate(ctx, s.repo, pollID, ident); err != nil {
		return err
	}

	// Options go first; the poll row is referenced by them.
	if err := s.repo.DeleteOptions(ctx, pollID); err != nil {
		s.logger.Error("delete poll options", "poll_id", pollID, "error", err)
		return fmt.Errorf("delete poll options: %w", err)
	}
	if err := s.repo.Delete(ctx, pollID); err != nil {
		s.logger.Error("delete poll", "poll_id", pollID, "error", err)
		return fmt.Errorf("delete poll: %w", err)
	}

	s.cache.Invalidate(ctx, dashboardPath)
	return nil
}

func (s *pollService) GetPoll(ctx context.Context, rawID string) (*domain.Poll, error) {
	pollID, ferrs := ValidatePollID(rawID)
	if ferrs != nil {
		return nil, domain.NewValidationError(ferrs)
	}
	return s.repo.GetByID(ctx, pollID)
}

func (s *pollService) GetResults(ctx context.Context, rawID string) (*domain.PollResults, error) {
	pollID, ferrs := ValidatePollID(rawID)
	if ferrs != nil {
		return nil, domain.NewValidationError(ferrs)
	}

	poll, err := s.repo.GetByID(ctx, pollID)
	if err != nil {
		return nil, err
	}

	stats, err := s.resultRepo.GetPollOptionStats(ctx, pollID)
	if err != nil {
		s.logger.Error("fetch poll stats", "poll_id", pollID, "error", err)
		return nil, fmt.Errorf("fetch poll stats: %w", err)
	}

	// Options without votes still appear in the results.
	for _, opt := range poll.Options {
		if _, ok := stats[opt.ID]; !ok {
			stats[opt.ID] = domain.PollOptionStats{}
		}
	}

	return &domain.PollResults{Poll: *poll, Stats: stats}, nil
}

func buildOptions(pollID uuid.UUID, texts []string, now time.Time) []domain.PollOption {
	options := make([]domain.PollOption, len(texts))
	for i, text := range texts {
		options[i] = domain.PollOption{
			ID:        uuid.New(),
			PollID:    pollID,
			Text:      text,
			Position:  i,
			CreatedAt: now,
		}
	}
	return options
}
