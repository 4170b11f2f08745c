// AngelaMos | 2026
// dto.go

package comment

import (
	"time"
)

type CreateCommentRequest struct {
	Content  string  `json:"content"  validate:"required,max=1000"`
	ParentID *string `json:"parentId" validate:"omitempty,uuid"`
}

type AuthorResponse struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	ProfileImage *string `json:"profileImage"`
}

// CommentNode is one node of the reply tree returned to clients.
type CommentNode struct {
	ID        string         `json:"id"`
	Content   string         `json:"content"`
	PollID    string         `json:"pollId"`
	ParentID  *string        `json:"parentId"`
	CreatedAt time.Time      `json:"createdAt"`
	Author    AuthorResponse `json:"user"`
	Replies   []*CommentNode `json:"replies"`
}

func toNode(c Comment) *CommentNode {
	return &CommentNode{
		ID:        c.ID,
		Content:   c.Content,
		PollID:    c.PollID,
		ParentID:  c.ParentID,
		CreatedAt: c.CreatedAt,
		Author: AuthorResponse{
			ID:           c.UserID,
			Name:         c.AuthorName,
			ProfileImage: c.AuthorProfileImage,
		},
		Replies: []*CommentNode{},
	}
}
