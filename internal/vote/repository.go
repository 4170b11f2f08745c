// AngelaMos | 2026
// repository.go

package vote

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/pollhub/internal/core"
)

type Repository interface {
	Create(ctx context.Context, vote *Vote) error
	HasVoted(ctx context.Context, userID, pollID string) (bool, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, vote *Vote) error {
	if vote.ID == "" {
		vote.ID = uuid.New().String()
	}
	vote.CreatedAt = time.Now().UTC()

	query := `
		INSERT INTO votes (id, user_id, option_id, poll_id, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.ExecContext(ctx, query,
		vote.ID, vote.UserID, vote.OptionID, vote.PollID, vote.CreatedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return core.ErrDuplicateKey
		}
		return fmt.Errorf("inserting vote: %w", err)
	}
	return nil
}

func (r *repository) HasVoted(ctx context.Context, userID, pollID string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM votes WHERE user_id = $1 AND poll_id = $2)`
	if err := r.db.GetContext(ctx, &exists, query, userID, pollID); err != nil {
		return false, fmt.Errorf("checking existing vote: %w", err)
	}
	return exists, nil
}

func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
