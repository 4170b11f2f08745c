// AngelaMos | 2026
// handler.go

package vote

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/pollhub/internal/core"
	"github.com/carterperez-dev/pollhub/internal/middleware"
	"github.com/carterperez-dev/pollhub/internal/poll"
)

type CastVoteRequest struct {
	OptionID string `json:"optionId" validate:"required,uuid"`
}

type CastVoteResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	OptionID  string    `json:"optionId"`
	PollID    string    `json:"pollId"`
	CreatedAt time.Time `json:"createdAt"`
}

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// RegisterRoutes mounts onto the /polls/{pollID} router.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
	writeLimiter func(http.Handler) http.Handler,
) {
	r.With(authenticator, writeLimiter).Post("/vote", h.Cast)
}

func (h *Handler) Cast(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	pollID := chi.URLParam(r, "pollID")

	var req CastVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	v, err := h.service.Cast(r.Context(), userID, pollID, req.OptionID)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrNotFound):
			core.NotFound(w, "poll")
		case errors.Is(err, poll.ErrPollExpired):
			core.JSONError(w, core.ConflictError(err, "this poll has expired", "POLL_EXPIRED"))
		case errors.Is(err, poll.ErrPollNotYetAvailable):
			core.JSONError(w, core.ConflictError(err, "this poll is not yet open for voting", "POLL_NOT_YET_AVAILABLE"))
		case errors.Is(err, ErrInvalidOption):
			core.BadRequest(w, "option does not belong to this poll")
		case errors.Is(err, ErrAlreadyVoted):
			core.JSONError(w, core.ConflictError(err, "you have already voted on this poll", "ALREADY_VOTED"))
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.Created(w, CastVoteResponse{
		ID:        v.ID,
		UserID:    v.UserID,
		OptionID:  v.OptionID,
		PollID:    v.PollID,
		CreatedAt: v.CreatedAt,
	})
}
