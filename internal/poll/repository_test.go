// AngelaMos | 2026
// repository_test.go

package poll

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/pollhub/internal/core"
)

func newMockRepo(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("opening sqlmock: %v", err)
	}
	sqlxDB := sqlx.NewDb(db, "sqlmock")
	t.Cleanup(func() { _ = sqlxDB.Close() })
	return NewRepository(sqlxDB), mock
}

func TestGetByIDAttachesOptionsAndVotes(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	pollRows := sqlmock.NewRows([]string{
		"id", "title", "category", "tags", "expires_at", "scheduled_at",
		"user_id", "created_at", "updated_at",
		"creator_name", "creator_email", "creator_profile_image",
	}).AddRow(
		"p1", "Best editor", "TECHNOLOGY", "go,tools", nil, nil,
		"u1", now, now,
		"carter", "carter@example.com", nil,
	)
	mock.ExpectQuery(`(?s)SELECT .+ FROM polls p`).
		WithArgs("p1").
		WillReturnRows(pollRows)

	optionRows := sqlmock.NewRows([]string{"id", "poll_id", "text", "position"}).
		AddRow("opt-1", "p1", "Vim", 0).
		AddRow("opt-2", "p1", "Emacs", 1)
	mock.ExpectQuery(`SELECT (.+) FROM options`).
		WithArgs("p1").
		WillReturnRows(optionRows)

	voteRows := sqlmock.NewRows([]string{"id", "user_id", "option_id", "created_at"}).
		AddRow("v1", "u2", "opt-1", now.Add(time.Minute))
	mock.ExpectQuery(`SELECT (.+) FROM votes`).
		WithArgs("p1").
		WillReturnRows(voteRows)

	poll, err := repo.GetByID(context.Background(), "p1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(poll.Options) != 2 {
		t.Fatalf("got %d options, want 2", len(poll.Options))
	}
	if poll.Options[0].ID != "opt-1" || poll.Options[1].ID != "opt-2" {
		t.Errorf("option order = %s, %s", poll.Options[0].ID, poll.Options[1].ID)
	}
	if len(poll.Options[0].Votes) != 1 || poll.Options[0].Votes[0].UserID != "u2" {
		t.Errorf("votes on first option = %+v", poll.Options[0].Votes)
	}
	if len(poll.Options[1].Votes) != 0 {
		t.Errorf("votes on second option = %+v", poll.Options[1].Votes)
	}
	if !poll.HasVotes() {
		t.Error("HasVotes() = false, want true")
	}
	if got := poll.VoteCount(); got != 1 {
		t.Errorf("VoteCount() = %d, want 1", got)
	}
	if optionID, ok := poll.VotedOption("u2"); !ok || optionID != "opt-1" {
		t.Errorf("VotedOption(u2) = %q, %v", optionID, ok)
	}
	if poll.Creator == nil || poll.Creator.Name != "carter" {
		t.Errorf("creator = %+v", poll.Creator)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestGetByIDWithoutVotes(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	pollRows := sqlmock.NewRows([]string{
		"id", "title", "category", "tags", "expires_at", "scheduled_at",
		"user_id", "created_at", "updated_at",
		"creator_name", "creator_email", "creator_profile_image",
	}).AddRow(
		"p1", "Lunch spot", "FOOD", nil, nil, nil,
		"u1", now, now,
		"carter", "carter@example.com", nil,
	)
	mock.ExpectQuery(`(?s)SELECT .+ FROM polls p`).
		WithArgs("p1").
		WillReturnRows(pollRows)

	optionRows := sqlmock.NewRows([]string{"id", "poll_id", "text", "position"}).
		AddRow("opt-1", "p1", "Tacos", 0).
		AddRow("opt-2", "p1", "Ramen", 1)
	mock.ExpectQuery(`SELECT (.+) FROM options`).
		WithArgs("p1").
		WillReturnRows(optionRows)

	mock.ExpectQuery(`SELECT (.+) FROM votes`).
		WithArgs("p1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "option_id", "created_at"}))

	poll, err := repo.GetByID(context.Background(), "p1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(poll.Options) != 2 {
		t.Fatalf("got %d options, want 2", len(poll.Options))
	}
	if poll.HasVotes() {
		t.Error("HasVotes() = true, want false")
	}
	for _, opt := range poll.Options {
		if opt.Votes == nil {
			t.Errorf("option %s votes not initialized", opt.ID)
		}
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestGetByIDNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`(?s)SELECT .+ FROM polls p`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	if !errors.Is(err, core.ErrNotFound) {
		t.Errorf("error = %v, want %v", err, core.ErrNotFound)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
