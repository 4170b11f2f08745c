// AngelaMos | 2026
// service.go

package admin

import (
	"context"
	"log/slog"
	"time"

	"github.com/carterperez-dev/pollhub/internal/poll"
)

type SnapshotUser struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	ProfileImage *string   `json:"profileImage"`
	CreatedAt    time.Time `json:"createdAt"`
	PollCount    int       `json:"pollCount"`
	VoteCount    int       `json:"voteCount"`
}

type SnapshotStats struct {
	TotalUsers  int `json:"totalUsers"`
	TotalPolls  int `json:"totalPolls"`
	TotalVotes  int `json:"totalVotes"`
	TotalAdmins int `json:"totalAdmins"`
}

// Snapshot is the one-call moderation view: every user with engagement
// counts, every poll regardless of schedule, and platform totals.
type Snapshot struct {
	Users []SnapshotUser      `json:"users"`
	Polls []poll.PollResponse `json:"polls"`
	Stats SnapshotStats       `json:"stats"`
}

type Service struct {
	repo   Repository
	polls  poll.Repository
	logger *slog.Logger
}

func NewService(repo Repository, polls poll.Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		polls:  polls,
		logger: logger,
	}
}

func (s *Service) Snapshot(ctx context.Context) (*Snapshot, error) {
	rows, err := s.repo.ListUsersWithCounts(ctx)
	if err != nil {
		return nil, err
	}

	polls, err := s.polls.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	totals, err := s.repo.Totals(ctx)
	if err != nil {
		return nil, err
	}

	users := make([]SnapshotUser, 0, len(rows))
	for _, row := range rows {
		users = append(users, SnapshotUser{
			ID:           row.ID,
			Name:         row.Name,
			Email:        row.Email,
			Role:         row.Role,
			ProfileImage: row.ProfileImage,
			CreatedAt:    row.CreatedAt,
			PollCount:    row.PollCount,
			VoteCount:    row.VoteCount,
		})
	}

	return &Snapshot{
		Users: users,
		Polls: poll.ToPollResponseList(polls),
		Stats: SnapshotStats{
			TotalUsers:  totals.TotalUsers,
			TotalPolls:  totals.TotalPolls,
			TotalVotes:  totals.TotalVotes,
			TotalAdmins: totals.TotalAdmins,
		},
	}, nil
}

// DeletePoll is the moderation path: any poll, any creator. The admin
// gate is enforced at the route.
func (s *Service) DeletePoll(ctx context.Context, adminID, pollID string) error {
	if err := s.polls.Delete(ctx, pollID); err != nil {
		return err
	}

	s.logger.Info("poll removed by admin",
		slog.String("poll_id", pollID),
		slog.String("admin_id", adminID),
	)
	return nil
}
