// AngelaMos | 2026
// service_test.go

package comment

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/carterperez-dev/pollhub/internal/authz"
	"github.com/carterperez-dev/pollhub/internal/config"
	"github.com/carterperez-dev/pollhub/internal/core"
	"github.com/carterperez-dev/pollhub/internal/poll"
)

type fakePollRepo struct {
	existing map[string]bool
}

func (f *fakePollRepo) Exists(_ context.Context, id string) (bool, error) {
	return f.existing[id], nil
}

func (f *fakePollRepo) GetByID(_ context.Context, id string) (*poll.Poll, error) {
	if !f.existing[id] {
		return nil, core.ErrNotFound
	}
	return &poll.Poll{ID: id}, nil
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

type fakeRepo struct {
	comments       map[string]*Comment
	lastMaxDepth   int
	threadComments []Comment
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{comments: make(map[string]*Comment)}
}

func (f *fakeRepo) Create(_ context.Context, c *Comment) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	c.CreatedAt = time.Now().UTC()
	c.AuthorName = "author-" + c.UserID
	stored := *c
	f.comments[c.ID] = &stored
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (*Comment, error) {
	c, ok := f.comments[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

// ListThread mirrors the SQL contract: roots are depth 1, and rows
// deeper than maxDepth are never returned.
func (f *fakeRepo) ListThread(_ context.Context, pollID string, maxDepth int) ([]Comment, error) {
	f.lastMaxDepth = maxDepth

	byID := make(map[string]Comment, len(f.threadComments))
	for _, c := range f.threadComments {
		byID[c.ID] = c
	}
	depthOf := func(c Comment) int {
		depth := 1
		for c.ParentID != nil {
			parent, ok := byID[*c.ParentID]
			if !ok {
				break
			}
			depth++
			c = parent
		}
		return depth
	}

	rows := make([]Comment, 0, len(f.threadComments))
	for _, c := range f.threadComments {
		if c.PollID == pollID && depthOf(c) <= maxDepth {
			rows = append(rows, c)
		}
	}
	return rows, nil
}

func (f *fakeRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.comments[id]; !ok {
		return core.ErrNotFound
	}
	delete(f.comments, id)
	return nil
}

func newTestService(repo *fakeRepo, polls *fakePollRepo) *Service {
	cfg := &config.Config{Comment: config.CommentConfig{MaxThreadDepth: 3}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(repo, polls, cfg, logger)
}

func TestCreateCommentValidation(t *testing.T) {
	pollID := uuid.New().String()
	polls := &fakePollRepo{existing: map[string]bool{pollID: true}}

	tests := []struct {
		name    string
		pollID  string
		req     CreateCommentRequest
		wantErr error
	}{
		{
			name:   "valid comment",
			pollID: pollID,
			req:    CreateCommentRequest{Content: "nice poll"},
		},
		{
			name:    "whitespace only",
			pollID:  pollID,
			req:     CreateCommentRequest{Content: "   \n\t  "},
			wantErr: core.ErrInvalidInput,
		},
		{
			name:    "too long",
			pollID:  pollID,
			req:     CreateCommentRequest{Content: strings.Repeat("x", MaxContentLength+1)},
			wantErr: core.ErrInvalidInput,
		},
		{
			name:   "multibyte at limit",
			pollID: pollID,
			req:    CreateCommentRequest{Content: strings.Repeat("é", MaxContentLength)},
		},
		{
			name:    "multibyte over limit",
			pollID:  pollID,
			req:     CreateCommentRequest{Content: strings.Repeat("é", MaxContentLength+1)},
			wantErr: core.ErrInvalidInput,
		},
		{
			name:    "poll missing",
			pollID:  uuid.New().String(),
			req:     CreateCommentRequest{Content: "hello"},
			wantErr: core.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(newFakeRepo(), polls)

			c, err := svc.Create(context.Background(), "u1", tt.pollID, tt.req)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if c.Content != strings.TrimSpace(tt.req.Content) {
				t.Errorf("content = %q", c.Content)
			}
		})
	}
}

func TestCreateCommentTrims(t *testing.T) {
	pollID := uuid.New().String()
	polls := &fakePollRepo{existing: map[string]bool{pollID: true}}
	svc := newTestService(newFakeRepo(), polls)

	c, err := svc.Create(context.Background(), "u1", pollID, CreateCommentRequest{Content: "  padded  "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Content != "padded" {
		t.Errorf("content = %q, want %q", c.Content, "padded")
	}
}

func TestCreateReplyParentChecks(t *testing.T) {
	pollID := uuid.New().String()
	otherPollID := uuid.New().String()
	polls := &fakePollRepo{existing: map[string]bool{pollID: true, otherPollID: true}}
	repo := newFakeRepo()
	svc := newTestService(repo, polls)

	parent, err := svc.Create(context.Background(), "u1", pollID, CreateCommentRequest{Content: "top"})
	if err != nil {
		t.Fatalf("seeding parent: %v", err)
	}

	foreign, err := svc.Create(context.Background(), "u1", otherPollID, CreateCommentRequest{Content: "elsewhere"})
	if err != nil {
		t.Fatalf("seeding foreign parent: %v", err)
	}

	tests := []struct {
		name     string
		parentID string
		wantErr  error
	}{
		{name: "reply to existing parent", parentID: parent.ID},
		{name: "parent does not exist", parentID: uuid.New().String(), wantErr: ErrInvalidParent},
		{name: "parent on another poll", parentID: foreign.ID, wantErr: ErrInvalidParent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), "u2", pollID, CreateCommentRequest{
				Content:  "a reply",
				ParentID: &tt.parentID,
			})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestThreadUsesConfiguredDepth(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakePollRepo{existing: map[string]bool{}})

	if _, err := svc.Thread(context.Background(), uuid.New().String()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastMaxDepth != 3 {
		t.Errorf("max depth = %d, want 3", repo.lastMaxDepth)
	}
}

func TestThreadStopsAtMaxDepth(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	pollID := "p1"

	repo := newFakeRepo()
	repo.threadComments = []Comment{
		{ID: "root", PollID: pollID, Content: "level one", CreatedAt: base},
		{ID: "child", PollID: pollID, ParentID: strPtr("root"), Content: "level two", CreatedAt: base.Add(time.Minute)},
		{ID: "grandchild", PollID: pollID, ParentID: strPtr("child"), Content: "level three", CreatedAt: base.Add(2 * time.Minute)},
		{ID: "too-deep", PollID: pollID, ParentID: strPtr("grandchild"), Content: "level four", CreatedAt: base.Add(3 * time.Minute)},
	}
	svc := newTestService(repo, &fakePollRepo{existing: map[string]bool{pollID: true}})

	roots, err := svc.Thread(context.Background(), pollID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(roots) != 1 || roots[0].ID != "root" {
		t.Fatalf("roots = %+v, want single root", roots)
	}
	second := roots[0].Replies
	if len(second) != 1 || second[0].ID != "child" {
		t.Fatalf("level two = %+v", second)
	}
	third := second[0].Replies
	if len(third) != 1 || third[0].ID != "grandchild" {
		t.Fatalf("level three = %+v", third)
	}
	if len(third[0].Replies) != 0 {
		t.Errorf("level four should be cut off, got %+v", third[0].Replies)
	}
}

func TestBuildTreeOrdering(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	pollID := "p1"

	flat := []Comment{
		{ID: "top-old", PollID: pollID, Content: "first top", CreatedAt: base},
		{ID: "reply-1", PollID: pollID, ParentID: strPtr("top-old"), Content: "reply one", CreatedAt: base.Add(time.Minute)},
		{ID: "top-new", PollID: pollID, Content: "second top", CreatedAt: base.Add(2 * time.Minute)},
		{ID: "reply-2", PollID: pollID, ParentID: strPtr("top-old"), Content: "reply two", CreatedAt: base.Add(3 * time.Minute)},
		{ID: "nested", PollID: pollID, ParentID: strPtr("reply-1"), Content: "nested", CreatedAt: base.Add(4 * time.Minute)},
	}

	roots := buildTree(flat)

	if len(roots) != 2 {
		t.Fatalf("got %d roots, want 2", len(roots))
	}
	// Newest top-level comment first.
	if roots[0].ID != "top-new" || roots[1].ID != "top-old" {
		t.Errorf("root order = %s, %s", roots[0].ID, roots[1].ID)
	}

	replies := roots[1].Replies
	if len(replies) != 2 {
		t.Fatalf("got %d replies, want 2", len(replies))
	}
	// Replies stay oldest first.
	if replies[0].ID != "reply-1" || replies[1].ID != "reply-2" {
		t.Errorf("reply order = %s, %s", replies[0].ID, replies[1].ID)
	}

	if len(replies[0].Replies) != 1 || replies[0].Replies[0].ID != "nested" {
		t.Errorf("nested reply missing: %+v", replies[0].Replies)
	}
	if len(roots[0].Replies) != 0 {
		t.Errorf("expected no replies on top-new")
	}
}

func TestDeleteCommentModeration(t *testing.T) {
	pollID := uuid.New().String()
	polls := &fakePollRepo{existing: map[string]bool{pollID: true}}
	repo := newFakeRepo()
	svc := newTestService(repo, polls)

	seeded, err := svc.Create(context.Background(), "author", pollID, CreateCommentRequest{Content: "delete me"})
	if err != nil {
		t.Fatalf("seeding comment: %v", err)
	}

	tests := []struct {
		name      string
		actor     authz.Actor
		pollID    string
		commentID string
		wantErr   error
	}{
		{
			name:      "author cannot delete own comment",
			actor:     authz.Actor{UserID: "author", Role: "user"},
			pollID:    pollID,
			commentID: seeded.ID,
			wantErr:   core.ErrForbidden,
		},
		{
			name:      "poll mismatch reads as missing",
			actor:     authz.Actor{UserID: "root", Role: "admin"},
			pollID:    uuid.New().String(),
			commentID: seeded.ID,
			wantErr:   core.ErrNotFound,
		},
		{
			name:      "unknown comment",
			actor:     authz.Actor{UserID: "root", Role: "admin"},
			pollID:    pollID,
			commentID: uuid.New().String(),
			wantErr:   core.ErrNotFound,
		},
		{
			name:      "admin deletes",
			actor:     authz.Actor{UserID: "root", Role: "admin"},
			pollID:    pollID,
			commentID: seeded.ID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.Delete(context.Background(), tt.actor, tt.pollID, tt.commentID)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func strPtr(s string) *string { return &s }
