// AngelaMos | 2026
// handler.go

package comment

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/pollhub/internal/authz"
	"github.com/carterperez-dev/pollhub/internal/core"
	"github.com/carterperez-dev/pollhub/internal/middleware"
)

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
	adminOnly func(http.Handler) http.Handler,
	writeLimiter func(http.Handler) http.Handler,
) {
	r.Get("/comments", h.List)
	r.With(authenticator, writeLimiter).Post("/comments", h.Create)
	r.With(authenticator, adminOnly).Delete("/comments/{commentID}", h.Delete)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	pollID := chi.URLParam(r, "pollID")

	thread, err := h.service.Thread(r.Context(), pollID)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, thread)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	pollID := chi.URLParam(r, "pollID")

	var req CreateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	comment, err := h.service.Create(r.Context(), userID, pollID, req)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrNotFound):
			core.NotFound(w, "poll")
		case errors.Is(err, ErrInvalidParent):
			core.BadRequest(w, "parent comment not found on this poll")
		default:
			core.JSONError(w, err)
		}
		return
	}

	core.Created(w, toNode(*comment))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor := authz.Actor{
		UserID: middleware.GetUserID(ctx),
		Role:   middleware.GetUserRole(ctx),
	}
	pollID := chi.URLParam(r, "pollID")
	commentID := chi.URLParam(r, "commentID")

	err := h.service.Delete(ctx, actor, pollID, commentID)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrNotFound):
			core.NotFound(w, "comment")
		case errors.Is(err, core.ErrForbidden):
			core.Forbidden(w, "admin access required")
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.NoContent(w)
}
