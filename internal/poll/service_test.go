// AngelaMos | 2026
// service_test.go

package poll

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/carterperez-dev/pollhub/internal/authz"
	"github.com/carterperez-dev/pollhub/internal/config"
	"github.com/carterperez-dev/pollhub/internal/core"
)

type fakeRepo struct {
	polls        map[string]*Poll
	commentCount int
	lastReplace  bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{polls: make(map[string]*Poll)}
}

func (f *fakeRepo) Create(_ context.Context, p *Poll) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	for i := range p.Options {
		if p.Options[i].ID == "" {
			p.Options[i].ID = uuid.New().String()
		}
		p.Options[i].PollID = p.ID
		p.Options[i].Position = i
	}
	stored := clonePoll(p)
	f.polls[p.ID] = stored
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (*Poll, error) {
	p, ok := f.polls[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	return clonePoll(p), nil
}

func (f *fakeRepo) Exists(_ context.Context, id string) (bool, error) {
	_, ok := f.polls[id]
	return ok, nil
}

func (f *fakeRepo) List(_ context.Context, params ListPollsParams, now time.Time) ([]Poll, error) {
	var out []Poll
	for _, p := range f.polls {
		if p.Visible(now) {
			out = append(out, *clonePoll(p))
		}
	}
	if params.Limit > 0 && len(out) > params.Limit {
		out = out[:params.Limit]
	}
	return out, nil
}

func (f *fakeRepo) ListAll(_ context.Context) ([]Poll, error) {
	var out []Poll
	for _, p := range f.polls {
		out = append(out, *clonePoll(p))
	}
	return out, nil
}

func (f *fakeRepo) ListByUser(_ context.Context, userID string) ([]Poll, error) {
	var out []Poll
	for _, p := range f.polls {
		if p.UserID == userID {
			out = append(out, *clonePoll(p))
		}
	}
	return out, nil
}

func (f *fakeRepo) Update(_ context.Context, p *Poll, replaceOptions bool) error {
	if _, ok := f.polls[p.ID]; !ok {
		return core.ErrNotFound
	}
	f.lastReplace = replaceOptions
	p.UpdatedAt = time.Now().UTC()
	if replaceOptions {
		for i := range p.Options {
			if p.Options[i].ID == "" {
				p.Options[i].ID = uuid.New().String()
			}
			p.Options[i].PollID = p.ID
			p.Options[i].Position = i
		}
	}
	f.polls[p.ID] = clonePoll(p)
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.polls[id]; !ok {
		return core.ErrNotFound
	}
	delete(f.polls, id)
	return nil
}

func (f *fakeRepo) CountCommentsOnOwnPolls(_ context.Context, _ string) (int, error) {
	return f.commentCount, nil
}

func clonePoll(p *Poll) *Poll {
	cp := *p
	cp.Options = make([]Option, len(p.Options))
	for i, opt := range p.Options {
		cp.Options[i] = opt
		cp.Options[i].Votes = append([]VoteRef(nil), opt.Votes...)
	}
	cp.Tags = append([]string(nil), p.Tags...)
	return &cp
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() *config.Config {
	return &config.Config{
		Poll:    config.PollConfig{DefaultListLimit: 1000, MaxListLimit: 1000},
		Comment: config.CommentConfig{MaxThreadDepth: 3},
	}
}

func newTestService(repo *fakeRepo) *Service {
	return NewService(repo, testConfig(), testLogger())
}

func userActor(id string) authz.Actor {
	return authz.Actor{UserID: id, Role: "user"}
}

func adminActor(id string) authz.Actor {
	return authz.Actor{UserID: id, Role: "admin"}
}

func TestCreatePollValidation(t *testing.T) {
	svc := newTestService(newFakeRepo())
	actor := userActor("u1")

	tests := []struct {
		name    string
		req     CreatePollRequest
		wantErr bool
	}{
		{
			name: "valid poll",
			req: CreatePollRequest{
				Title:   "Best editor?",
				Options: []string{"vim", "emacs"},
			},
		},
		{
			name: "whitespace title",
			req: CreatePollRequest{
				Title:   "   ",
				Options: []string{"a", "b"},
			},
			wantErr: true,
		},
		{
			name: "single option after trimming",
			req: CreatePollRequest{
				Title:   "Test",
				Options: []string{"only", "   "},
			},
			wantErr: true,
		},
		{
			name: "invalid category",
			req: CreatePollRequest{
				Title:    "Test",
				Category: "NONSENSE",
				Options:  []string{"a", "b"},
			},
			wantErr: true,
		},
		{
			name: "lowercase category is normalized",
			req: CreatePollRequest{
				Title:    "Test",
				Category: "sports",
				Options:  []string{"a", "b"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := svc.Create(context.Background(), actor, tt.req)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if p.UserID != actor.UserID {
				t.Errorf("poll owner = %q, want %q", p.UserID, actor.UserID)
			}
		})
	}
}

func TestCreatePollDefaultsCategory(t *testing.T) {
	svc := newTestService(newFakeRepo())

	p, err := svc.Create(context.Background(), userActor("u1"), CreatePollRequest{
		Title:   "No category",
		Options: []string{"yes", "no"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Category != CategoryGeneral {
		t.Errorf("category = %q, want %q", p.Category, CategoryGeneral)
	}
}

func TestCreatePollTrimsOptions(t *testing.T) {
	svc := newTestService(newFakeRepo())

	p, err := svc.Create(context.Background(), userActor("u1"), CreatePollRequest{
		Title:   "Trim test",
		Options: []string{"  vim  ", "emacs", "   "},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(p.Options) != 2 {
		t.Fatalf("got %d options, want 2", len(p.Options))
	}
	if p.Options[0].Text != "vim" {
		t.Errorf("option[0] = %q, want %q", p.Options[0].Text, "vim")
	}
}

func seedPoll(t *testing.T, repo *fakeRepo, owner string, options []string, votes int) *Poll {
	t.Helper()
	p := &Poll{Title: "Seeded", Category: CategoryGeneral, UserID: owner}
	for _, text := range options {
		p.Options = append(p.Options, Option{Text: text})
	}
	if err := repo.Create(context.Background(), p); err != nil {
		t.Fatalf("seeding poll: %v", err)
	}
	stored := repo.polls[p.ID]
	for i := 0; i < votes; i++ {
		stored.Options[0].Votes = append(stored.Options[0].Votes, VoteRef{
			ID:       uuid.New().String(),
			UserID:   uuid.New().String(),
			OptionID: stored.Options[0].ID,
		})
	}
	return stored
}

func TestUpdatePollOwnership(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	seeded := seedPoll(t, repo, "owner", []string{"a", "b"}, 0)

	req := UpdatePollRequest{Title: "Changed", Options: []string{"a", "b"}}

	if _, err := svc.Update(context.Background(), userActor("other"), seeded.ID, req); !errors.Is(err, core.ErrForbidden) {
		t.Errorf("stranger update error = %v, want ErrForbidden", err)
	}

	// Admins moderate but do not edit other people's polls.
	if _, err := svc.Update(context.Background(), adminActor("admin"), seeded.ID, req); !errors.Is(err, core.ErrForbidden) {
		t.Errorf("admin update error = %v, want ErrForbidden", err)
	}

	updated, err := svc.Update(context.Background(), userActor("owner"), seeded.ID, req)
	if err != nil {
		t.Fatalf("owner update failed: %v", err)
	}
	if updated.Title != "Changed" {
		t.Errorf("title = %q, want %q", updated.Title, "Changed")
	}
}

func TestUpdatePollOptionLocking(t *testing.T) {
	tests := []struct {
		name       string
		votes      int
		newOptions []string
		wantErr    error
		wantSwap   bool
	}{
		{
			name:       "no votes allows replacement",
			votes:      0,
			newOptions: []string{"x", "y", "z"},
			wantSwap:   true,
		},
		{
			name:       "no votes identical options skips replacement",
			votes:      0,
			newOptions: []string{"a", "b"},
		},
		{
			name:       "votes with identical options allowed",
			votes:      1,
			newOptions: []string{"a", "b"},
		},
		{
			name:       "votes with changed text rejected",
			votes:      1,
			newOptions: []string{"a", "changed"},
			wantErr:    ErrOptionsLocked,
		},
		{
			name:       "votes with reordered options rejected",
			votes:      1,
			newOptions: []string{"b", "a"},
			wantErr:    ErrOptionsLocked,
		},
		{
			name:       "votes with extra option rejected",
			votes:      1,
			newOptions: []string{"a", "b", "c"},
			wantErr:    ErrOptionsLocked,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeRepo()
			svc := newTestService(repo)
			seeded := seedPoll(t, repo, "owner", []string{"a", "b"}, tt.votes)

			_, err := svc.Update(context.Background(), userActor("owner"), seeded.ID, UpdatePollRequest{
				Title:   "Updated",
				Options: tt.newOptions,
			})

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if repo.lastReplace != tt.wantSwap {
				t.Errorf("options replaced = %v, want %v", repo.lastReplace, tt.wantSwap)
			}
		})
	}
}

func TestDeletePollPermissions(t *testing.T) {
	tests := []struct {
		name    string
		actor   authz.Actor
		wantErr error
	}{
		{name: "owner can delete", actor: userActor("owner")},
		{name: "admin can delete", actor: adminActor("admin")},
		{name: "stranger cannot delete", actor: userActor("other"), wantErr: core.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeRepo()
			svc := newTestService(repo)
			seeded := seedPoll(t, repo, "owner", []string{"a", "b"}, 0)

			err := svc.Delete(context.Background(), tt.actor, seeded.ID)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if _, ok := repo.polls[seeded.ID]; ok {
				t.Error("poll still present after delete")
			}
		})
	}
}

func TestDeletePollNotFound(t *testing.T) {
	svc := newTestService(newFakeRepo())
	err := svc.Delete(context.Background(), adminActor("admin"), uuid.New().String())
	if !errors.Is(err, core.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestDashboardStats(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	seedPoll(t, repo, "creator", []string{"a", "b"}, 3)
	seedPoll(t, repo, "creator", []string{"c", "d"}, 1)
	seedPoll(t, repo, "someone-else", []string{"e", "f"}, 5)
	repo.commentCount = 7

	dash, err := svc.Dashboard(context.Background(), "creator")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if dash.Stats.TotalPolls != 2 {
		t.Errorf("TotalPolls = %d, want 2", dash.Stats.TotalPolls)
	}
	if dash.Stats.TotalVotes != 4 {
		t.Errorf("TotalVotes = %d, want 4", dash.Stats.TotalVotes)
	}
	if dash.Stats.TotalComments != 7 {
		t.Errorf("TotalComments = %d, want 7", dash.Stats.TotalComments)
	}
	if dash.Stats.AvgVotesPerPoll != 2.0 {
		t.Errorf("AvgVotesPerPoll = %v, want 2.0", dash.Stats.AvgVotesPerPoll)
	}
}

func TestDashboardEmpty(t *testing.T) {
	svc := newTestService(newFakeRepo())

	dash, err := svc.Dashboard(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dash.Stats.AvgVotesPerPoll != 0 {
		t.Errorf("AvgVotesPerPoll = %v, want 0", dash.Stats.AvgVotesPerPoll)
	}
}
