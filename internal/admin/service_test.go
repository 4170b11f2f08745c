// AngelaMos | 2026
// service_test.go

package admin

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/carterperez-dev/pollhub/internal/core"
	"github.com/carterperez-dev/pollhub/internal/poll"
)

type fakeRepo struct {
	users  []UserRow
	totals Totals
}

func (f *fakeRepo) ListUsersWithCounts(context.Context) ([]UserRow, error) {
	return f.users, nil
}

func (f *fakeRepo) Totals(context.Context) (*Totals, error) {
	totals := f.totals
	return &totals, nil
}

type fakePollRepo struct {
	polls   []poll.Poll
	deleted []string
}

func (f *fakePollRepo) ListAll(context.Context) ([]poll.Poll, error) {
	return f.polls, nil
}

func (f *fakePollRepo) Delete(_ context.Context, id string) error {
	for _, p := range f.polls {
		if p.ID == id {
			f.deleted = append(f.deleted, id)
			return nil
		}
	}
	return core.ErrNotFound
}

func (f *fakePollRepo) Create(context.Context, *poll.Poll) error { return nil }
func (f *fakePollRepo) GetByID(context.Context, string) (*poll.Poll, error) {
	return nil, core.ErrNotFound
}
func (f *fakePollRepo) Exists(context.Context, string) (bool, error) { return false, nil }
func (f *fakePollRepo) List(context.Context, poll.ListPollsParams, time.Time) ([]poll.Poll, error) {
	return nil, nil
}
func (f *fakePollRepo) ListByUser(context.Context, string) ([]poll.Poll, error) { return nil, nil }
func (f *fakePollRepo) Update(context.Context, *poll.Poll, bool) error          { return nil }
func (f *fakePollRepo) CountCommentsOnOwnPolls(context.Context, string) (int, error) {
	return 0, nil
}

func newTestService(repo *fakeRepo, polls *fakePollRepo) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(repo, polls, logger)
}

func TestSnapshot(t *testing.T) {
	now := time.Now().UTC()
	future := now.Add(time.Hour)

	repo := &fakeRepo{
		users: []UserRow{
			{ID: "u1", Name: "Alice", Email: "alice@example.com", Role: "admin", PollCount: 2, VoteCount: 5},
			{ID: "u2", Name: "Bob", Email: "bob@example.com", Role: "user", PollCount: 0, VoteCount: 1},
		},
		totals: Totals{TotalUsers: 2, TotalAdmins: 1, TotalPolls: 2, TotalVotes: 6},
	}
	polls := &fakePollRepo{
		polls: []poll.Poll{
			{ID: "p1", Title: "Live", UserID: "u1", CreatedAt: now},
			// Scheduled in the future: hidden from the feed, present here.
			{ID: "p2", Title: "Scheduled", UserID: "u1", ScheduledAt: &future, CreatedAt: now},
		},
	}

	snapshot, err := newTestService(repo, polls).Snapshot(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(snapshot.Users) != 2 {
		t.Fatalf("users = %d, want 2", len(snapshot.Users))
	}
	if snapshot.Users[0].PollCount != 2 || snapshot.Users[0].VoteCount != 5 {
		t.Errorf("user counts = %+v", snapshot.Users[0])
	}

	if len(snapshot.Polls) != 2 {
		t.Errorf("polls = %d, want 2 (schedule must not filter the admin view)", len(snapshot.Polls))
	}

	want := SnapshotStats{TotalUsers: 2, TotalPolls: 2, TotalVotes: 6, TotalAdmins: 1}
	if snapshot.Stats != want {
		t.Errorf("stats = %+v, want %+v", snapshot.Stats, want)
	}
}

func TestDeletePoll(t *testing.T) {
	polls := &fakePollRepo{polls: []poll.Poll{{ID: "p1", UserID: "someone"}}}
	svc := newTestService(&fakeRepo{}, polls)

	if err := svc.DeletePoll(context.Background(), "root", "p1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(polls.deleted) != 1 || polls.deleted[0] != "p1" {
		t.Errorf("deleted = %v", polls.deleted)
	}

	err := svc.DeletePoll(context.Background(), "root", "missing")
	if !errors.Is(err, core.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}
