// AngelaMos | 2026
// entity.go

package comment

import (
	"errors"
	"time"
)

var ErrInvalidParent = errors.New("parent comment does not belong to this poll")

type Comment struct {
	ID        string    `db:"id"`
	Content   string    `db:"content"`
	UserID    string    `db:"user_id"`
	PollID    string    `db:"poll_id"`
	ParentID  *string   `db:"parent_id"`
	CreatedAt time.Time `db:"created_at"`

	AuthorName         string  `db:"author_name"`
	AuthorProfileImage *string `db:"author_profile_image"`
}

const MaxContentLength = 1000
