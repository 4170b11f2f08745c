// AngelaMos | 2026
// service_test.go

package vote

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/carterperez-dev/pollhub/internal/core"
	"github.com/carterperez-dev/pollhub/internal/poll"
)

type fakePollRepo struct {
	poll *poll.Poll
}

func (f *fakePollRepo) GetByID(_ context.Context, id string) (*poll.Poll, error) {
	if f.poll == nil || f.poll.ID != id {
		return nil, core.ErrNotFound
	}
	return f.poll, nil
}

func (f *fakePollRepo) Exists(_ context.Context, id string) (bool, error) {
	return f.poll != nil && f.poll.ID == id, nil
}

func (f *fakePollRepo) Create(context.Context, *poll.Poll) error { return nil }
func (f *fakePollRepo) List(context.Context, poll.ListPollsParams, time.Time) ([]poll.Poll, error) {
	return nil, nil
}
func (f *fakePollRepo) ListAll(context.Context) ([]poll.Poll, error)            { return nil, nil }
func (f *fakePollRepo) ListByUser(context.Context, string) ([]poll.Poll, error) { return nil, nil }
func (f *fakePollRepo) Update(context.Context, *poll.Poll, bool) error          { return nil }
func (f *fakePollRepo) Delete(context.Context, string) error                    { return nil }
func (f *fakePollRepo) CountCommentsOnOwnPolls(context.Context, string) (int, error) {
	return 0, nil
}

// fakeVoteRepo enforces the (user_id, poll_id) uniqueness the real
// table provides, so concurrent casts behave like the database.
type fakeVoteRepo struct {
	mu    sync.Mutex
	votes map[string]*Vote
}

func newFakeVoteRepo() *fakeVoteRepo {
	return &fakeVoteRepo{votes: make(map[string]*Vote)}
}

func (f *fakeVoteRepo) Create(_ context.Context, v *Vote) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := v.UserID + "/" + v.PollID
	if _, exists := f.votes[key]; exists {
		return core.ErrDuplicateKey
	}
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	v.CreatedAt = time.Now().UTC()
	f.votes[key] = v
	return nil
}

func (f *fakeVoteRepo) HasVoted(_ context.Context, userID, pollID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.votes[userID+"/"+pollID]
	return ok, nil
}

func timePtr(t time.Time) *time.Time { return &t }

func openPoll() *poll.Poll {
	pollID := uuid.New().String()
	return &poll.Poll{
		ID:     pollID,
		Title:  "Lunch spot",
		UserID: "creator",
		Options: []poll.Option{
			{ID: "opt-1", PollID: pollID, Text: "tacos"},
			{ID: "opt-2", PollID: pollID, Text: "ramen"},
		},
	}
}

func newTestService(p *poll.Poll) (*Service, *fakeVoteRepo) {
	repo := newFakeVoteRepo()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(repo, &fakePollRepo{poll: p}, logger), repo
}

func TestCastVoteGates(t *testing.T) {
	now := time.Now().UTC()

	tests := []struct {
		name     string
		mutate   func(p *poll.Poll)
		pollID   func(p *poll.Poll) string
		optionID string
		wantErr  error
	}{
		{
			name:     "success",
			pollID:   func(p *poll.Poll) string { return p.ID },
			optionID: "opt-1",
		},
		{
			name:     "poll not found",
			pollID:   func(*poll.Poll) string { return uuid.New().String() },
			optionID: "opt-1",
			wantErr:  core.ErrNotFound,
		},
		{
			name:     "expired poll",
			mutate:   func(p *poll.Poll) { p.ExpiresAt = timePtr(now.Add(-time.Hour)) },
			pollID:   func(p *poll.Poll) string { return p.ID },
			optionID: "opt-1",
			wantErr:  poll.ErrPollExpired,
		},
		{
			name:     "scheduled in the future",
			mutate:   func(p *poll.Poll) { p.ScheduledAt = timePtr(now.Add(time.Hour)) },
			pollID:   func(p *poll.Poll) string { return p.ID },
			optionID: "opt-1",
			wantErr:  poll.ErrPollNotYetAvailable,
		},
		{
			name:     "option from another poll",
			pollID:   func(p *poll.Poll) string { return p.ID },
			optionID: "foreign-option",
			wantErr:  ErrInvalidOption,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := openPoll()
			if tt.mutate != nil {
				tt.mutate(p)
			}
			svc, _ := newTestService(p)

			v, err := svc.Cast(context.Background(), "voter", tt.pollID(p), tt.optionID)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if v.PollID != p.ID || v.OptionID != tt.optionID {
				t.Errorf("vote = %+v", v)
			}
		})
	}
}

func TestCastVoteTwice(t *testing.T) {
	p := openPoll()
	svc, _ := newTestService(p)

	if _, err := svc.Cast(context.Background(), "voter", p.ID, "opt-1"); err != nil {
		t.Fatalf("first vote failed: %v", err)
	}

	// Even on a different option: the vote is per poll, not per option.
	_, err := svc.Cast(context.Background(), "voter", p.ID, "opt-2")
	if !errors.Is(err, ErrAlreadyVoted) {
		t.Errorf("second vote error = %v, want ErrAlreadyVoted", err)
	}
}

func TestCastVoteDifferentUsers(t *testing.T) {
	p := openPoll()
	svc, repo := newTestService(p)

	for _, userID := range []string{"alice", "bob", "carol"} {
		if _, err := svc.Cast(context.Background(), userID, p.ID, "opt-1"); err != nil {
			t.Fatalf("vote by %s failed: %v", userID, err)
		}
	}
	if len(repo.votes) != 3 {
		t.Errorf("stored votes = %d, want 3", len(repo.votes))
	}
}

// Two requests racing past the pre-check must still produce exactly one
// stored vote; the loser surfaces as ErrAlreadyVoted.
func TestCastVoteConcurrent(t *testing.T) {
	p := openPoll()
	svc, repo := newTestService(p)

	const attempts = 8
	errs := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Cast(context.Background(), "racer", p.ID, "opt-1")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	successes, conflicts := 0, 0
	for err := range errs {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, ErrAlreadyVoted):
			conflicts++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}

	if successes != 1 {
		t.Errorf("successes = %d, want exactly 1", successes)
	}
	if conflicts != attempts-1 {
		t.Errorf("conflicts = %d, want %d", conflicts, attempts-1)
	}
	if len(repo.votes) != 1 {
		t.Errorf("stored votes = %d, want 1", len(repo.votes))
	}
}
