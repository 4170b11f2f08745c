// AngelaMos | 2026
// dto.go

package poll

import (
	"time"
)

type CreatePollRequest struct {
	Title       string     `json:"title"       validate:"required,max=200"`
	Category    string     `json:"category"    validate:"omitempty,max=30"`
	Tags        []string   `json:"tags"        validate:"omitempty,max=10,dive,max=30"`
	ExpiresAt   *time.Time `json:"expiresAt"   validate:"omitempty"`
	ScheduledAt *time.Time `json:"scheduledAt" validate:"omitempty"`
	Options     []string   `json:"options"     validate:"required,min=2,max=20,dive,max=200"`
}

type UpdatePollRequest struct {
	Title       string     `json:"title"       validate:"required,max=200"`
	Category    string     `json:"category"    validate:"omitempty,max=30"`
	Tags        []string   `json:"tags"        validate:"omitempty,max=10,dive,max=30"`
	ExpiresAt   *time.Time `json:"expiresAt"   validate:"omitempty"`
	ScheduledAt *time.Time `json:"scheduledAt" validate:"omitempty"`
	Options     []string   `json:"options"     validate:"required,min=2,max=20,dive,max=200"`
}

type ListPollsParams struct {
	Limit  int
	Offset int
}

type VoteResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	OptionID  string    `json:"optionId"`
	CreatedAt time.Time `json:"createdAt"`
}

type OptionResponse struct {
	ID        string         `json:"id"`
	Text      string         `json:"text"`
	Position  int            `json:"position"`
	VoteCount int            `json:"voteCount"`
	Votes     []VoteResponse `json:"votes"`
}

type CreatorResponse struct {
	Name         string  `json:"name"`
	ProfileImage *string `json:"profileImage"`
}

type PollResponse struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Category    string           `json:"category"`
	Tags        []string         `json:"tags"`
	ExpiresAt   *time.Time       `json:"expiresAt"`
	ScheduledAt *time.Time       `json:"scheduledAt"`
	UserID      string           `json:"userId"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
	VoteCount   int              `json:"voteCount"`
	Options     []OptionResponse `json:"options"`
	Creator     *CreatorResponse `json:"creator,omitempty"`

	// Set on the detail endpoint for authenticated viewers who voted.
	UserVoteOptionID *string `json:"userVoteOptionId,omitempty"`
}

type DashboardStats struct {
	TotalPolls      int     `json:"totalPolls"`
	TotalVotes      int     `json:"totalVotes"`
	TotalComments   int     `json:"totalComments"`
	AvgVotesPerPoll float64 `json:"avgVotesPerPoll"`
}

type DashboardResponse struct {
	Polls []PollResponse `json:"polls"`
	Stats DashboardStats `json:"stats"`
}

func ToPollResponse(p *Poll) PollResponse {
	options := make([]OptionResponse, 0, len(p.Options))
	for _, opt := range p.Options {
		votes := make([]VoteResponse, 0, len(opt.Votes))
		for _, v := range opt.Votes {
			votes = append(votes, VoteResponse{
				ID:        v.ID,
				UserID:    v.UserID,
				OptionID:  v.OptionID,
				CreatedAt: v.CreatedAt,
			})
		}
		options = append(options, OptionResponse{
			ID:        opt.ID,
			Text:      opt.Text,
			Position:  opt.Position,
			VoteCount: len(opt.Votes),
			Votes:     votes,
		})
	}

	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}

	resp := PollResponse{
		ID:          p.ID,
		Title:       p.Title,
		Category:    p.Category,
		Tags:        tags,
		ExpiresAt:   p.ExpiresAt,
		ScheduledAt: p.ScheduledAt,
		UserID:      p.UserID,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
		VoteCount:   p.VoteCount(),
		Options:     options,
	}
	if p.Creator != nil {
		resp.Creator = &CreatorResponse{
			Name:         p.Creator.Name,
			ProfileImage: p.Creator.ProfileImage,
		}
	}
	return resp
}

func ToPollResponseList(polls []Poll) []PollResponse {
	responses := make([]PollResponse, 0, len(polls))
	for i := range polls {
		responses = append(responses, ToPollResponse(&polls[i]))
	}
	return responses
}
