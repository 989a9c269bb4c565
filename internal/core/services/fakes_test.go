package services

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/pollwise/api/internal/core/domain"
	"github.com/pollwise/api/internal/core/ports"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeIdentityProvider struct {
	identity *domain.Identity
}

func (p *fakeIdentityProvider) Current(context.Context) *domain.Identity {
	return p.identity
}

type recordingCache struct {
	invalidations [][]string
}

func (c *recordingCache) Invalidate(_ context.Context, paths ...string) {
	c.invalidations = append(c.invalidations, paths)
}

func (c *recordingCache) allPaths() []string {
	var paths []string
	for _, batch := range c.invalidations {
		paths = append(paths, batch...)
	}
	return paths
}

// fakePollRepo keeps polls and options in memory and records the order of
// mutating calls so tests can assert sequencing. The mutex matters: the
// update fallback path calls it from two goroutines.
type fakePollRepo struct {
	mu      sync.Mutex
	polls   map[uuid.UUID]*domain.Poll
	options map[uuid.UUID][]domain.PollOption
	calls   []string

	saveErr          error
	saveOptionsErr   error
	updateErr        error
	deleteErr        error
	deleteOptionsErr error
	replaceErr       error
}

func newFakePollRepo() *fakePollRepo {
	return &fakePollRepo{
		polls:   make(map[uuid.UUID]*domain.Poll),
		options: make(map[uuid.UUID][]domain.PollOption),
	}
}

func (r *fakePollRepo) Save(_ context.Context, poll *domain.Poll) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, "Save")
	if r.saveErr != nil {
		return r.saveErr
	}
	cp := *poll
	cp.Options = nil
	r.polls[poll.ID] = &cp
	return nil
}

func (r *fakePollRepo) SaveOptions(_ context.Context, pollID uuid.UUID, options []domain.PollOption) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, "SaveOptions")
	if r.saveOptionsErr != nil {
		return r.saveOptionsErr
	}
	r.options[pollID] = append(r.options[pollID], options...)
	return nil
}

func (r *fakePollRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Poll, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	poll, ok := r.polls[id]
	if !ok {
		return nil, domain.ErrPollNotFound
	}
	cp := *poll
	cp.Options = append([]domain.PollOption(nil), r.options[id]...)
	return &cp, nil
}

func (r *fakePollRepo) GetOwned(_ context.Context, id, ownerID uuid.UUID) (*domain.Poll, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	poll, ok := r.polls[id]
	if !ok || poll.OwnerID != ownerID {
		return nil, domain.ErrPollNotOwned
	}
	cp := *poll
	return &cp, nil
}

func (r *fakePollRepo) ReplaceAtomic(_ context.Context, poll *domain.Poll) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, "ReplaceAtomic")
	if r.replaceErr != nil {
		return r.replaceErr
	}
	cp := *poll
	cp.Options = nil
	r.polls[poll.ID] = &cp
	r.options[poll.ID] = append([]domain.PollOption(nil), poll.Options...)
	return nil
}

func (r *fakePollRepo) Update(_ context.Context, poll *domain.Poll) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, "Update")
	if r.updateErr != nil {
		return r.updateErr
	}
	if existing, ok := r.polls[poll.ID]; ok {
		existing.Title = poll.Title
		existing.Description = poll.Description
		existing.IsPublic = poll.IsPublic
		existing.AllowMultipleVotes = poll.AllowMultipleVotes
		existing.UpdatedAt = poll.UpdatedAt
	}
	return nil
}

func (r *fakePollRepo) DeleteOptions(_ context.Context, pollID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, "DeleteOptions")
	if r.deleteOptionsErr != nil {
		return r.deleteOptionsErr
	}
	delete(r.options, pollID)
	return nil
}

func (r *fakePollRepo) Delete(_ context.Context, pollID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, "Delete")
	if r.deleteErr != nil {
		return r.deleteErr
	}
	delete(r.polls, pollID)
	return nil
}

type fakeVoteRepo struct {
	votes   []domain.Vote
	saveErr error
}

func (r *fakeVoteRepo) Save(_ context.Context, vote *domain.Vote) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.votes = append(r.votes, *vote)
	return nil
}

func (r *fakeVoteRepo) HasUserVoted(_ context.Context, pollID, userID uuid.UUID) (bool, error) {
	for _, v := range r.votes {
		if v.PollID == pollID && v.UserID != nil && *v.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

type fakeResultRepo struct {
	votes *fakeVoteRepo
}

func (r *fakeResultRepo) GetPollOptionStats(_ context.Context, pollID uuid.UUID) (map[uuid.UUID]domain.PollOptionStats, error) {
	counts := make(map[uuid.UUID]int64)
	var total int64
	for _, v := range r.votes.votes {
		if v.PollID == pollID {
			counts[v.OptionID]++
			total++
		}
	}
	stats := make(map[uuid.UUID]domain.PollOptionStats, len(counts))
	for optionID, count := range counts {
		percentage := 0.0
		if total > 0 {
			percentage = float64(count) / float64(total) * 100
		}
		stats[optionID] = domain.PollOptionStats{VoteCount: count, Percentage: percentage}
	}
	return stats, nil
}

var _ ports.PollRepository = (*fakePollRepo)(nil)
var _ ports.VoteRepository = (*fakeVoteRepo)(nil)
var _ ports.PollResultRepository = (*fakeResultRepo)(nil)
var _ ports.IdentityProvider = (*fakeIdentityProvider)(nil)
var _ ports.CacheInvalidator = (*recordingCache)(nil)
