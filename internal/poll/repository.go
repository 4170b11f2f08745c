// AngelaMos | 2026
// repository.go

package poll

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
	Create(ctx context.Context, poll *Poll) error
	GetByID(ctx context.Context, id string) (*Poll, error)
	Exists(ctx context.Context, id string) (bool, error)
	List(ctx context.Context, params ListPollsParams, now time.Time) ([]Poll, error)
	ListAll(ctx context.Context) ([]Poll, error)
	ListByUser(ctx context.Context, userID string) ([]Poll, error)
	Update(ctx context.Context, poll *Poll, replaceOptions bool) error
	Delete(ctx context.Context, id string) error
	CountCommentsOnOwnPolls(ctx context.Context, userID string) (int, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const pollColumns = `p.id, p.title, p.category, p.tags, p.expires_at, p.scheduled_at,
	p.user_id, p.created_at, p.updated_at,
	u.name AS creator_name, u.email AS creator_email, u.profile_image AS creator_profile_image`

type pollRow struct {
	ID          string     `db:"id"`
	Title       string     `db:"title"`
	Category    string     `db:"category"`
	Tags        *string    `db:"tags"`
	ExpiresAt   *time.Time `db:"expires_at"`
	ScheduledAt *time.Time `db:"scheduled_at"`
	UserID      string     `db:"user_id"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`

	CreatorName         string  `db:"creator_name"`
	CreatorEmail        string  `db:"creator_email"`
	CreatorProfileImage *string `db:"creator_profile_image"`
}

func (r pollRow) toPoll() Poll {
	return Poll{
		ID:          r.ID,
		Title:       r.Title,
		Category:    r.Category,
		Tags:        splitTags(r.Tags),
		ExpiresAt:   r.ExpiresAt,
		ScheduledAt: r.ScheduledAt,
		UserID:      r.UserID,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
		Options:     []Option{},
		Creator: &Creator{
			Name:         r.CreatorName,
			Email:        r.CreatorEmail,
			ProfileImage: r.CreatorProfileImage,
		},
	}
}

func (r *repository) Create(ctx context.Context, poll *Poll) error {
	return core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if poll.ID == "" {
			poll.ID = uuid.New().String()
		}
		now := time.Now().UTC()
		poll.CreatedAt = now
		poll.UpdatedAt = now

		query := `
			INSERT INTO polls (id, title, category, tags, expires_at, scheduled_at, user_id, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

		_, err := tx.ExecContext(ctx, query,
			poll.ID, poll.Title, poll.Category, joinTags(poll.Tags),
			poll.ExpiresAt, poll.ScheduledAt, poll.UserID,
			poll.CreatedAt, poll.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("inserting poll: %w", err)
		}

		return insertOptions(ctx, tx, poll)
	})
}

func insertOptions(ctx context.Context, tx *sqlx.Tx, poll *Poll) error {
	query := `
		INSERT INTO options (id, poll_id, text, position)
		VALUES ($1, $2, $3, $4)`

	for i := range poll.Options {
		opt := &poll.Options[i]
		if opt.ID == "" {
			opt.ID = uuid.New().String()
		}
		opt.PollID = poll.ID
		opt.Position = i
		if _, err := tx.ExecContext(ctx, query, opt.ID, opt.PollID, opt.Text, opt.Position); err != nil {
			return fmt.Errorf("inserting option: %w", err)
		}
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Poll, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM polls p
		JOIN users u ON u.id = p.user_id
		WHERE p.id = $1`, pollColumns)

	var row pollRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, fmt.Errorf("getting poll by id: %w", err)
	}

	// attachOptions mutates the slice elements in place, so the result
	// must be read back out of the slice.
	polls := []Poll{row.toPoll()}
	if err := r.attachOptions(ctx, polls); err != nil {
		return nil, err
	}
	return &polls[0], nil
}

func (r *repository) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM polls WHERE id = $1)`
	if err := r.db.GetContext(ctx, &exists, query, id); err != nil {
		return false, fmt.Errorf("checking poll exists: %w", err)
	}
	return exists, nil
}

func (r *repository) List(ctx context.Context, params ListPollsParams, now time.Time) ([]Poll, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM polls p
		JOIN users u ON u.id = p.user_id
		WHERE p.scheduled_at IS NULL OR p.scheduled_at <= $1
		ORDER BY p.created_at DESC
		LIMIT $2 OFFSET $3`, pollColumns)

	return r.listPolls(ctx, query, now, params.Limit, params.Offset)
}

func (r *repository) ListAll(ctx context.Context) ([]Poll, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM polls p
		JOIN users u ON u.id = p.user_id
		ORDER BY p.created_at DESC`, pollColumns)

	return r.listPolls(ctx, query)
}

func (r *repository) ListByUser(ctx context.Context, userID string) ([]Poll, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM polls p
		JOIN users u ON u.id = p.user_id
		WHERE p.user_id = $1
		ORDER BY p.created_at DESC`, pollColumns)

	return r.listPolls(ctx, query, userID)
}

func (r *repository) listPolls(ctx context.Context, query string, args ...any) ([]Poll, error) {
	var rows []pollRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("listing polls: %w", err)
	}

	polls := make([]Poll, 0, len(rows))
	for _, row := range rows {
		polls = append(polls, row.toPoll())
	}
	if err := r.attachOptions(ctx, polls); err != nil {
		return nil, err
	}
	return polls, nil
}

// attachOptions loads the options and vote projections for a batch of
// polls in two queries, then distributes them in memory.
func (r *repository) attachOptions(ctx context.Context, polls []Poll) error {
	if len(polls) == 0 {
		return nil
	}

	ids := make([]string, 0, len(polls))
	byID := make(map[string]*Poll, len(polls))
	for i := range polls {
		ids = append(ids, polls[i].ID)
		byID[polls[i].ID] = &polls[i]
	}

	optQuery, optArgs, err := sqlx.In(
		`SELECT id, poll_id, text, position FROM options WHERE poll_id IN (?) ORDER BY poll_id, position`, ids)
	if err != nil {
		return fmt.Errorf("building options query: %w", err)
	}

	var options []Option
	if err := r.db.SelectContext(ctx, &options, r.db.Rebind(optQuery), optArgs...); err != nil {
		return fmt.Errorf("loading options: %w", err)
	}

	voteQuery, voteArgs, err := sqlx.In(
		`SELECT id, user_id, option_id, created_at FROM votes WHERE poll_id IN (?) ORDER BY created_at`, ids)
	if err != nil {
		return fmt.Errorf("building votes query: %w", err)
	}

	var votes []VoteRef
	if err := r.db.SelectContext(ctx, &votes, r.db.Rebind(voteQuery), voteArgs...); err != nil {
		return fmt.Errorf("loading votes: %w", err)
	}

	votesByOption := make(map[string][]VoteRef)
	for _, v := range votes {
		votesByOption[v.OptionID] = append(votesByOption[v.OptionID], v)
	}

	for i := range options {
		opt := options[i]
		opt.Votes = votesByOption[opt.ID]
		if opt.Votes == nil {
			opt.Votes = []VoteRef{}
		}
		if p, ok := byID[opt.PollID]; ok {
			p.Options = append(p.Options, opt)
		}
	}
	return nil
}

func (r *repository) Update(ctx context.Context, poll *Poll, replaceOptions bool) error {
	return core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		poll.UpdatedAt = time.Now().UTC()

		query := `
			UPDATE polls
			SET title = $2, category = $3, tags = $4, expires_at = $5, scheduled_at = $6, updated_at = $7
			WHERE id = $1`

		result, err := tx.ExecContext(ctx, query,
			poll.ID, poll.Title, poll.Category, joinTags(poll.Tags),
			poll.ExpiresAt, poll.ScheduledAt, poll.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("updating poll: %w", err)
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("checking rows affected: %w", err)
		}
		if rows == 0 {
			return core.ErrNotFound
		}

		if !replaceOptions {
			return nil
		}

		// Option replacement is delete-then-insert inside the same
		// transaction; only reachable while the poll has zero votes.
		if _, err := tx.ExecContext(ctx, `DELETE FROM options WHERE poll_id = $1`, poll.ID); err != nil {
			return fmt.Errorf("deleting options: %w", err)
		}
		return insertOptions(ctx, tx, poll)
	})
}

func (r *repository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM polls WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting poll: %w", err)
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

func (r *repository) CountCommentsOnOwnPolls(ctx context.Context, userID string) (int, error) {
	var count int
	query := `
		SELECT COUNT(*) FROM comments c
		JOIN polls p ON p.id = c.poll_id
		WHERE p.user_id = $1`
	if err := r.db.GetContext(ctx, &count, query, userID); err != nil {
		return 0, fmt.Errorf("counting comments on own polls: %w", err)
	}
	return count, nil
}
