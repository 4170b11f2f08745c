// AngelaMos | 2026
// entity.go

package poll

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrPollExpired         = errors.New("poll has expired")
	ErrPollNotYetAvailable = errors.New("poll is not yet available")
	ErrOptionsLocked       = errors.New("options are locked after voting")
)

type Poll struct {
	ID          string     `db:"id"`
	Title       string     `db:"title"`
	Category    string     `db:"category"`
	Tags        []string   `db:"-"`
	ExpiresAt   *time.Time `db:"expires_at"`
	ScheduledAt *time.Time `db:"scheduled_at"`
	UserID      string     `db:"user_id"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`

	Options []Option `db:"-"`
	Creator *Creator `db:"-"`
}

type Option struct {
	ID       string `db:"id"`
	PollID   string `db:"poll_id"`
	Text     string `db:"text"`
	Position int    `db:"position"`

	Votes []VoteRef `db:"-"`
}

// VoteRef is the read-side projection of a vote, enough to derive
// counts and per-user state. The write path lives in the vote package.
type VoteRef struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	OptionID  string    `db:"option_id"`
	CreatedAt time.Time `db:"created_at"`
}

type Creator struct {
	Name         string  `db:"creator_name"`
	Email        string  `db:"creator_email"`
	ProfileImage *string `db:"creator_profile_image"`
}

// The 11 fixed poll categories.
const (
	CategoryGeneral       = "GENERAL"
	CategorySports        = "SPORTS"
	CategoryPolitics      = "POLITICS"
	CategoryEntertainment = "ENTERTAINMENT"
	CategoryTechnology    = "TECHNOLOGY"
	CategoryEducation     = "EDUCATION"
	CategoryHealth        = "HEALTH"
	CategoryBusiness      = "BUSINESS"
	CategoryTravel        = "TRAVEL"
	CategoryFood          = "FOOD"
	CategoryOther         = "OTHER"
)

var validCategories = map[string]struct{}{
	CategoryGeneral:       {},
	CategorySports:        {},
	CategoryPolitics:      {},
	CategoryEntertainment: {},
	CategoryTechnology:    {},
	CategoryEducation:     {},
	CategoryHealth:        {},
	CategoryBusiness:      {},
	CategoryTravel:        {},
	CategoryFood:          {},
	CategoryOther:         {},
}

func ValidCategory(category string) bool {
	_, ok := validCategories[category]
	return ok
}

// Visible reports whether the poll appears in the feed. Expiry never
// hides a poll; only a future schedule does.
func (p *Poll) Visible(now time.Time) bool {
	return p.ScheduledAt == nil || !p.ScheduledAt.After(now)
}

// Votable gates the voting operation: expired first, then not-yet
// scheduled, both checked before any vote-target validation.
func (p *Poll) Votable(now time.Time) error {
	if p.ExpiresAt != nil && p.ExpiresAt.Before(now) {
		return ErrPollExpired
	}
	if p.ScheduledAt != nil && p.ScheduledAt.After(now) {
		return ErrPollNotYetAvailable
	}
	return nil
}

func (p *Poll) HasVotes() bool {
	for _, opt := range p.Options {
		if len(opt.Votes) > 0 {
			return true
		}
	}
	return false
}

func (p *Poll) FindOption(optionID string) *Option {
	for i := range p.Options {
		if p.Options[i].ID == optionID {
			return &p.Options[i]
		}
	}
	return nil
}

// OptionsMatch reports whether the submitted texts are positionally
// identical to the stored option set: same length, same text at every
// index, in submitted order.
func (p *Poll) OptionsMatch(submitted []string) bool {
	if len(submitted) != len(p.Options) {
		return false
	}
	for i, text := range submitted {
		if text != p.Options[i].Text {
			return false
		}
	}
	return true
}

// VotedOption returns the ID of the option userID voted for, if any.
func (p *Poll) VotedOption(userID string) (string, bool) {
	for _, opt := range p.Options {
		for _, v := range opt.Votes {
			if v.UserID == userID {
				return opt.ID, true
			}
		}
	}
	return "", false
}

func (p *Poll) VoteCount() int {
	total := 0
	for _, opt := range p.Options {
		total += len(opt.Votes)
	}
	return total
}

// Tags are held as an ordered slice; the comma-joined form exists only
// at the storage boundary.
func joinTags(tags []string) *string {
	if len(tags) == 0 {
		return nil
	}
	joined := strings.Join(tags, ",")
	return &joined
}

func splitTags(raw *string) []string {
	if raw == nil || *raw == "" {
		return nil
	}
	parts := strings.Split(*raw, ",")
	tags := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			tags = append(tags, trimmed)
		}
	}
	return tags
}
