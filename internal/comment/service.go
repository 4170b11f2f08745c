// AngelaMos | 2026
// service.go

package comment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/carterperez-dev/pollhub/internal/authz"
	"github.com/carterperez-dev/pollhub/internal/config"
	"github.com/carterperez-dev/pollhub/internal/core"
	"github.com/carterperez-dev/pollhub/internal/poll"
)

type Service struct {
	repo   Repository
	polls  poll.Repository
	cfg    *config.Config
	logger *slog.Logger
}

func NewService(repo Repository, polls poll.Repository, cfg *config.Config, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		polls:  polls,
		cfg:    cfg,
		logger: logger,
	}
}

func (s *Service) Create(ctx context.Context, userID, pollID string, req CreateCommentRequest) (*Comment, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, core.ValidationAppError("comment content is required")
	}
	if utf8.RuneCountInString(content) > MaxContentLength {
		return nil, core.ValidationAppError("comment content exceeds maximum length")
	}

	exists, err := s.polls.Exists(ctx, pollID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, core.ErrNotFound
	}

	if req.ParentID != nil {
		parent, err := s.repo.GetByID(ctx, *req.ParentID)
		if err != nil {
			if errors.Is(err, core.ErrNotFound) {
				return nil, ErrInvalidParent
			}
			return nil, err
		}
		if parent.PollID != pollID {
			return nil, ErrInvalidParent
		}
	}

	comment := &Comment{
		Content:  content,
		UserID:   userID,
		PollID:   pollID,
		ParentID: req.ParentID,
	}
	if err := s.repo.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("creating comment: %w", err)
	}

	s.logger.Info("comment created",
		slog.String("comment_id", comment.ID),
		slog.String("poll_id", pollID),
		slog.String("user_id", userID),
		slog.Bool("is_reply", req.ParentID != nil),
	)

	return s.repo.GetByID(ctx, comment.ID)
}

// Thread returns the poll's comment tree, top-level comments newest
// first and replies oldest first, nested to the configured depth.
func (s *Service) Thread(ctx context.Context, pollID string) ([]*CommentNode, error) {
	comments, err := s.repo.ListThread(ctx, pollID, s.cfg.Comment.MaxThreadDepth)
	if err != nil {
		return nil, err
	}
	return buildTree(comments), nil
}

// buildTree assembles flat rows into the nested reply structure. Rows
// arrive ordered by created_at ascending, so a parent always precedes
// its replies.
func buildTree(comments []Comment) []*CommentNode {
	nodes := make(map[string]*CommentNode, len(comments))
	roots := make([]*CommentNode, 0)

	for _, c := range comments {
		node := toNode(c)
		nodes[c.ID] = node

		if c.ParentID == nil {
			roots = append(roots, node)
			continue
		}
		if parent, ok := nodes[*c.ParentID]; ok {
			parent.Replies = append(parent.Replies, node)
		}
	}

	// Ascending insertion order already gives replies oldest-first;
	// top-level comments flip to newest-first.
	for i, j := 0, len(roots)-1; i < j; i, j = i+1, j-1 {
		roots[i], roots[j] = roots[j], roots[i]
	}
	return roots
}

// Delete removes a comment and its entire reply subtree. Moderation is
// admin-only; there is no author self-delete.
func (s *Service) Delete(ctx context.Context, actor authz.Actor, pollID, commentID string) error {
	if !authz.Allows(actor, authz.Resource{}, authz.ActionModerate) {
		return core.ErrForbidden
	}

	comment, err := s.repo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.PollID != pollID {
		return core.ErrNotFound
	}

	if err := s.repo.Delete(ctx, commentID); err != nil {
		return fmt.Errorf("deleting comment: %w", err)
	}

	s.logger.Info("comment deleted",
		slog.String("comment_id", commentID),
		slog.String("poll_id", pollID),
		slog.String("admin_id", actor.UserID),
	)
	return nil
}
