// AngelaMos | 2026
// entity.go

package vote

import (
	"errors"
	"time"
)

var (
	ErrAlreadyVoted  = errors.New("user has already voted on this poll")
	ErrInvalidOption = errors.New("option does not belong to this poll")
)

// Vote carries poll_id alongside option_id so the one-vote-per-poll
// uniqueness constraint can live on the votes table itself.
type Vote struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	OptionID  string    `db:"option_id"`
	PollID    string    `db:"poll_id"`
	CreatedAt time.Time `db:"created_at"`
}
