// AngelaMos | 2026
// service.go

package vote

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/carterperez-dev/pollhub/internal/core"
	"github.com/carterperez-dev/pollhub/internal/poll"
)

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

// Cast records one vote for the user on the poll. Gates run in a fixed
// order: poll existence, expiry, schedule, option membership, prior
// vote. The unique constraint on (user_id, poll_id) backstops the prior
// vote check under concurrent requests.
func (s *Service) Cast(ctx context.Context, userID, pollID, optionID string) (*Vote, error) {
	p, err := s.polls.GetByID(ctx, pollID)
	if err != nil {
		return nil, err
	}

	if err := p.Votable(time.Now().UTC()); err != nil {
		return nil, err
	}

	if p.FindOption(optionID) == nil {
		return nil, ErrInvalidOption
	}

	voted, err := s.repo.HasVoted(ctx, userID, pollID)
	if err != nil {
		return nil, err
	}
	if voted {
		return nil, ErrAlreadyVoted
	}

	v := &Vote{
		UserID:   userID,
		OptionID: optionID,
		PollID:   pollID,
	}
	if err := s.repo.Create(ctx, v); err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, ErrAlreadyVoted
		}
		return nil, fmt.Errorf("casting vote: %w", err)
	}

	s.logger.Info("vote cast",
		slog.String("poll_id", pollID),
		slog.String("option_id", optionID),
		slog.String("user_id", userID),
	)
	return v, nil
}
