// AngelaMos | 2026
// handler.go

package property

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ploteasy/ploteasy-api/internal/core"
	"github.com/ploteasy/ploteasy-api/internal/middleware"
)

const defaultFormMemory = 32 << 20

type Handler struct {
	service       *Service
	maxFormMemory int64
}

func NewHandler(service *Service, maxFormMemory int64) *Handler {
	if maxFormMemory <= 0 {
		maxFormMemory = defaultFormMemory
	}
	return &Handler{service: service, maxFormMemory: maxFormMemory}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
	uploadLimit func(http.Handler) http.Handler,
) {
	r.Route("/property", func(r chi.Router) {
		r.Get("/search", h.Search)
		r.Get("/featured", h.Featured)
		r.With(authenticator).Post("/add", h.Create)
		r.Get("/{id}", h.Get)
		r.Get("/{id}/related", h.Related)
	})

	r.Route("/user/properties", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.ListMine)
		r.Get("/{id}", h.GetMine)
		r.With(uploadLimit).Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

func propertyID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		core.BadRequest(w, "invalid property id")
		return "", false
	}
	return id, true
}

func writeError(w http.ResponseWriter, err error) {
	if !core.IsAppError(err) && errors.Is(err, core.ErrNotFound) {
		core.NotFound(w, "property")
		return
	}
	core.JSONError(w, err)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	resp, err := h.service.Create(r.Context(), middleware.GetUserID(r.Context()), req)
	if err != nil {
		writeError(w, err)
		return
	}

	core.Created(w, "Property submitted successfully!", resp)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := propertyID(w, r)
	if !ok {
		return
	}

	resp, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, resp)
}

func (h *Handler) Related(w http.ResponseWriter, r *http.Request) {
	id, ok := propertyID(w, r)
	if !ok {
		return
	}

	related, err := h.service.Related(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, related)
}

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	found, err := h.service.Search(r.Context(), ParseSearchParams(r.URL.Query()))
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, found)
}

func (h *Handler) Featured(w http.ResponseWriter, r *http.Request) {
	listings, err := h.service.Featured(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, listings)
}

func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	mine, err := h.service.ListMine(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, mine)
}

func (h *Handler) GetMine(w http.ResponseWriter, r *http.Request) {
	id, ok := propertyID(w, r)
	if !ok {
		return
	}

	resp, err := h.service.GetMine(r.Context(), id, middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, resp)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := propertyID(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxFormMemory*2)
	form, err := ParseUpdateForm(r, h.maxFormMemory)
	if err != nil {
		writeError(w, err)
		return
	}

	resp, err := h.service.Update(r.Context(), id, middleware.GetUserID(r.Context()), form)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OKWithMessage(w, "Property updated successfully", resp)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := propertyID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id, middleware.GetUserID(r.Context())); err != nil {
		writeError(w, err)
		return
	}

	core.OKWithMessage(w, "Property deleted successfully", nil)
}
