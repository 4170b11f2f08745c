// AngelaMos | 2026
// repository.go

package comment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/pollhub/internal/core"
)

type Repository interface {
	Create(ctx context.Context, comment *Comment) error
	GetByID(ctx context.Context, id string) (*Comment, error)
	ListThread(ctx context.Context, pollID string, maxDepth int) ([]Comment, error)
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const commentColumns = `c.id, c.content, c.user_id, c.poll_id, c.parent_id, c.created_at,
	u.name AS author_name, u.profile_image AS author_profile_image`

func (r *repository) Create(ctx context.Context, comment *Comment) error {
	if comment.ID == "" {
		comment.ID = uuid.New().String()
	}
	comment.CreatedAt = time.Now().UTC()

	query := `
		INSERT INTO comments (id, content, user_id, poll_id, parent_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.ExecContext(ctx, query,
		comment.ID, comment.Content, comment.UserID,
		comment.PollID, comment.ParentID, comment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting comment: %w", err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Comment, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.id = $1`, commentColumns)

	var comment Comment
	if err := r.db.GetContext(ctx, &comment, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, fmt.Errorf("getting comment by id: %w", err)
	}
	return &comment, nil
}

// ListThread walks the reply tree with a recursive CTE, stopping at
// maxDepth levels. Rows come back flat and ordered; the service builds
// the tree.
func (r *repository) ListThread(ctx context.Context, pollID string, maxDepth int) ([]Comment, error) {
	query := fmt.Sprintf(`
		WITH RECURSIVE thread AS (
			SELECT c.id, c.content, c.user_id, c.poll_id, c.parent_id, c.created_at, 1 AS depth
			FROM comments c
			WHERE c.poll_id = $1 AND c.parent_id IS NULL
			UNION ALL
			SELECT c.id, c.content, c.user_id, c.poll_id, c.parent_id, c.created_at, t.depth + 1
			FROM comments c
			JOIN thread t ON c.parent_id = t.id
			WHERE t.depth < $2
		)
		SELECT %s FROM thread c
		JOIN users u ON u.id = c.user_id
		ORDER BY c.created_at ASC`, commentColumns)

	var comments []Comment
	if err := r.db.SelectContext(ctx, &comments, query, pollID, maxDepth); err != nil {
		return nil, fmt.Errorf("listing comment thread: %w", err)
	}
	return comments, nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting comment: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return core.ErrNotFound
	}
	return nil
}
