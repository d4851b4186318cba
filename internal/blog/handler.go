// AngelaMos | 2026
// handler.go

package blog

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/ploteasy/ploteasy-api/internal/core"
	"github.com/ploteasy/ploteasy-api/internal/middleware"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service, validator: core.NewValidator()}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/admin", func(r chi.Router) {
		r.With(authenticator).Post("/addBlog", h.Create)

		r.Route("/blog", func(r chi.Router) {
			r.Get("/", h.List)
			r.With(authenticator).Post("/", h.Create)
			r.Get("/{id}", h.Get)
			r.With(authenticator).Delete("/deleteBlog/{id}", h.Delete)
		})
	})
}

func blogID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		core.BadRequest(w, "invalid blog id")
		return "", false
	}
	return id, true
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case core.IsAppError(err):
		core.JSONError(w, err)
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "blog")
	case errors.Is(err, core.ErrUnauthorized):
		core.Unauthorized(w, "")
	default:
		core.JSONError(w, err)
	}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	post, err := h.service.Create(r.Context(), middleware.GetUserID(r.Context()), req)
	if err != nil {
		writeError(w, err)
		return
	}

	core.Created(w, "Blog Published Successfully", post)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	posts, err := h.service.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, posts)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := blogID(w, r)
	if !ok {
		return
	}

	detail, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, detail)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := blogID(w, r)
	if !ok {
		return
	}

	actor := Actor{
		UserID:  middleware.GetUserID(r.Context()),
		IsAdmin: middleware.IsAdmin(r.Context()),
	}
	if err := h.service.Delete(r.Context(), id, actor); err != nil {
		writeError(w, err)
		return
	}

	core.OKWithMessage(w, "Blog deleted successfully", nil)
}
