// AngelaMos | 2026
// service.go

package poll

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/carterperez-dev/pollhub/internal/authz"
	"github.com/carterperez-dev/pollhub/internal/config"
	"github.com/carterperez-dev/pollhub/internal/core"
)

type Service struct {
	repo   Repository
	cfg    *config.Config
	logger *slog.Logger
}

func NewService(repo Repository, cfg *config.Config, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		cfg:    cfg,
		logger: logger,
	}
}

func (s *Service) List(ctx context.Context, params ListPollsParams) ([]Poll, error) {
	if params.Limit <= 0 {
		params.Limit = s.cfg.Poll.DefaultListLimit
	}
	if params.Limit > s.cfg.Poll.MaxListLimit {
		params.Limit = s.cfg.Poll.MaxListLimit
	}
	if params.Offset < 0 {
		params.Offset = 0
	}
	return s.repo.List(ctx, params, time.Now().UTC())
}

func (s *Service) Get(ctx context.Context, id string) (*Poll, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, actor authz.Actor, req CreatePollRequest) (*Poll, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, core.ValidationAppError("title is required")
	}

	options, err := normalizeOptions(req.Options)
	if err != nil {
		return nil, err
	}

	category, err := normalizeCategory(req.Category)
	if err != nil {
		return nil, err
	}

	poll := &Poll{
		Title:       title,
		Category:    category,
		Tags:        normalizeTags(req.Tags),
		ExpiresAt:   req.ExpiresAt,
		ScheduledAt: req.ScheduledAt,
		UserID:      actor.UserID,
	}
	for _, text := range options {
		poll.Options = append(poll.Options, Option{Text: text})
	}

	if err := s.repo.Create(ctx, poll); err != nil {
		return nil, fmt.Errorf("creating poll: %w", err)
	}

	s.logger.Info("poll created",
		slog.String("poll_id", poll.ID),
		slog.String("user_id", actor.UserID),
		slog.Int("options", len(poll.Options)),
	)

	return s.repo.GetByID(ctx, poll.ID)
}

// Update replaces the poll's metadata and, while no votes exist, its
// option set. Once any vote has been cast the submitted options must be
// positionally identical to the stored ones or the update is rejected.
func (s *Service) Update(ctx context.Context, actor authz.Actor, pollID string, req UpdatePollRequest) (*Poll, error) {
	existing, err := s.repo.GetByID(ctx, pollID)
	if err != nil {
		return nil, err
	}

	if !authz.Allows(actor, authz.Resource{OwnerID: existing.UserID}, authz.ActionUpdate) {
		return nil, core.ErrForbidden
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, core.ValidationAppError("title is required")
	}

	options, err := normalizeOptions(req.Options)
	if err != nil {
		return nil, err
	}

	category, err := normalizeCategory(req.Category)
	if err != nil {
		return nil, err
	}

	replaceOptions := false
	if existing.HasVotes() {
		if !existing.OptionsMatch(options) {
			return nil, ErrOptionsLocked
		}
	} else if !existing.OptionsMatch(options) {
		replaceOptions = true
	}

	existing.Title = title
	existing.Category = category
	existing.Tags = normalizeTags(req.Tags)
	existing.ExpiresAt = req.ExpiresAt
	existing.ScheduledAt = req.ScheduledAt
	if replaceOptions {
		fresh := make([]Option, 0, len(options))
		for _, text := range options {
			fresh = append(fresh, Option{Text: text})
		}
		existing.Options = fresh
	}

	if err := s.repo.Update(ctx, existing, replaceOptions); err != nil {
		return nil, fmt.Errorf("updating poll: %w", err)
	}

	s.logger.Info("poll updated",
		slog.String("poll_id", pollID),
		slog.String("user_id", actor.UserID),
		slog.Bool("options_replaced", replaceOptions),
	)

	return s.repo.GetByID(ctx, pollID)
}

func (s *Service) Delete(ctx context.Context, actor authz.Actor, pollID string) error {
	existing, err := s.repo.GetByID(ctx, pollID)
	if err != nil {
		return err
	}

	if !authz.Allows(actor, authz.Resource{OwnerID: existing.UserID}, authz.ActionDelete) {
		return core.ErrForbidden
	}

	if err := s.repo.Delete(ctx, pollID); err != nil {
		return fmt.Errorf("deleting poll: %w", err)
	}

	s.logger.Info("poll deleted",
		slog.String("poll_id", pollID),
		slog.String("user_id", actor.UserID),
	)
	return nil
}

// Dashboard returns the caller's polls plus aggregate engagement stats.
func (s *Service) Dashboard(ctx context.Context, userID string) (*DashboardResponse, error) {
	polls, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	totalComments, err := s.repo.CountCommentsOnOwnPolls(ctx, userID)
	if err != nil {
		return nil, err
	}

	totalVotes := 0
	for i := range polls {
		totalVotes += polls[i].VoteCount()
	}

	stats := DashboardStats{
		TotalPolls:    len(polls),
		TotalVotes:    totalVotes,
		TotalComments: totalComments,
	}
	if stats.TotalPolls > 0 {
		stats.AvgVotesPerPoll = float64(totalVotes) / float64(stats.TotalPolls)
	}

	return &DashboardResponse{
		Polls: ToPollResponseList(polls),
		Stats: stats,
	}, nil
}

func normalizeOptions(raw []string) ([]string, error) {
	options := make([]string, 0, len(raw))
	for _, text := range raw {
		if trimmed := strings.TrimSpace(text); trimmed != "" {
			options = append(options, trimmed)
		}
	}
	if len(options) < 2 {
		return nil, core.ValidationAppError("at least 2 non-empty options are required")
	}
	return options, nil
}

func normalizeCategory(raw string) (string, error) {
	category := strings.ToUpper(strings.TrimSpace(raw))
	if category == "" {
		return CategoryGeneral, nil
	}
	if !ValidCategory(category) {
		return "", core.ValidationAppError("invalid category")
	}
	return category, nil
}

func normalizeTags(raw []string) []string {
	tags := make([]string, 0, len(raw))
	for _, tag := range raw {
		if trimmed := strings.TrimSpace(tag); trimmed != "" {
			tags = append(tags, trimmed)
		}
	}
	if len(tags) == 0 {
		return nil
	}
	return tags
}
