// AngelaMos | 2026
// handler.go

package poll

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/pollhub/internal/authz"
	"github.com/carterperez-dev/pollhub/internal/core"
	"github.com/carterperez-dev/pollhub/internal/middleware"
)

// ThreadLoader supplies the comment tree embedded in the poll detail
// response. Wired in main to avoid a dependency on the comment package.
type ThreadLoader func(ctx context.Context, pollID string) (any, error)

type Handler struct {
	service   *Service
	threads   ThreadLoader
	validator *validator.Validate
}

func NewHandler(service *Service, threads ThreadLoader) *Handler {
	return &Handler{
		service:   service,
		threads:   threads,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// RegisterRoutes mounts the poll tree. The viewer middleware attaches
// identity to public reads without requiring it; the nested callback
// receives the /polls/{pollID} router so vote and comment routes can
// hang off it.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
	viewer func(http.Handler) http.Handler,
	writeLimiter func(http.Handler) http.Handler,
	nested func(r chi.Router),
) {
	r.Route("/polls", func(r chi.Router) {
		r.With(viewer).Get("/", h.List)
		r.With(authenticator, writeLimiter).Post("/", h.Create)

		r.Route("/{pollID}", func(r chi.Router) {
			r.With(viewer).Get("/", h.Get)
			r.With(authenticator, writeLimiter).Put("/", h.Update)
			r.With(authenticator).Delete("/", h.Delete)

			if nested != nil {
				nested(r)
			}
		})
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	params := ListPollsParams{
		Limit:  parseIntQuery(r, "limit", 0),
		Offset: parseIntQuery(r, "offset", 0),
	}

	polls, err := h.service.List(r.Context(), params)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToPollResponseList(polls))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	pollID := chi.URLParam(r, "pollID")

	poll, err := h.service.Get(r.Context(), pollID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "poll")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	resp := struct {
		PollResponse
		Comments any `json:"comments"`
	}{PollResponse: ToPollResponse(poll)}

	if middleware.IsAuthenticated(r.Context()) {
		if optionID, ok := poll.VotedOption(middleware.GetUserID(r.Context())); ok {
			resp.UserVoteOptionID = &optionID
		}
	}

	if h.threads != nil {
		comments, err := h.threads(r.Context(), pollID)
		if err != nil {
			core.InternalServerError(w, err)
			return
		}
		resp.Comments = comments
	}

	core.OK(w, resp)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	actor := requestActor(r)

	var req CreatePollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	poll, err := h.service.Create(r.Context(), actor, req)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Created(w, ToPollResponse(poll))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	actor := requestActor(r)
	pollID := chi.URLParam(r, "pollID")

	var req UpdatePollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	poll, err := h.service.Update(r.Context(), actor, pollID, req)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrNotFound):
			core.NotFound(w, "poll")
		case errors.Is(err, core.ErrForbidden):
			core.Forbidden(w, "only the creator can edit this poll")
		case errors.Is(err, ErrOptionsLocked):
			core.JSONError(w, core.ConflictError(err, "options cannot change after voting has begun", "OPTIONS_LOCKED"))
		default:
			core.JSONError(w, err)
		}
		return
	}

	core.OK(w, ToPollResponse(poll))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	actor := requestActor(r)
	pollID := chi.URLParam(r, "pollID")

	err := h.service.Delete(r.Context(), actor, pollID)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrNotFound):
			core.NotFound(w, "poll")
		case errors.Is(err, core.ErrForbidden):
			core.Forbidden(w, "not allowed to delete this poll")
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.NoContent(w)
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	dashboard, err := h.service.Dashboard(r.Context(), userID)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, dashboard)
}

func requestActor(r *http.Request) authz.Actor {
	ctx := r.Context()
	return authz.Actor{
		UserID: middleware.GetUserID(ctx),
		Role:   middleware.GetUserRole(ctx),
	}
}

func parseIntQuery(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
