// AngelaMos | 2026
// repository.go

package admin

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	ListUsersWithCounts(ctx context.Context) ([]UserRow, error)
	Totals(ctx context.Context) (*Totals, error)
}

type UserRow struct {
	ID           string    `db:"id"`
	Name         string    `db:"name"`
	Email        string    `db:"email"`
	Role         string    `db:"role"`
	ProfileImage *string   `db:"profile_image"`
	CreatedAt    time.Time `db:"created_at"`
	PollCount    int       `db:"poll_count"`
	VoteCount    int       `db:"vote_count"`
}

type Totals struct {
	TotalUsers  int `db:"total_users"`
	TotalAdmins int `db:"total_admins"`
	TotalPolls  int `db:"total_polls"`
	TotalVotes  int `db:"total_votes"`
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListUsersWithCounts(ctx context.Context) ([]UserRow, error) {
	query := `
		SELECT u.id, u.name, u.email, u.role, u.profile_image, u.created_at,
			(SELECT COUNT(*) FROM polls p WHERE p.user_id = u.id) AS poll_count,
			(SELECT COUNT(*) FROM votes v WHERE v.user_id = u.id) AS vote_count
		FROM users u
		ORDER BY u.created_at DESC`

	var rows []UserRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("listing users with counts: %w", err)
	}
	return rows, nil
}

func (r *repository) Totals(ctx context.Context) (*Totals, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM users) AS total_users,
			(SELECT COUNT(*) FROM users WHERE role = 'admin') AS total_admins,
			(SELECT COUNT(*) FROM polls) AS total_polls,
			(SELECT COUNT(*) FROM votes) AS total_votes`

	var totals Totals
	if err := r.db.GetContext(ctx, &totals, query); err != nil {
		return nil, fmt.Errorf("loading totals: %w", err)
	}
	return &totals, nil
}
