// AngelaMos | 2026
// handler.go

package media

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ploteasy/ploteasy-api/internal/core"
)

type UploadRequest struct {
	Image string `json:"image"`
}

type UploadResponse struct {
	SecureURL string `json:"secure_url"`
}

type Handler struct {
	uploader *Uploader
}

func NewHandler(uploader *Uploader) *Handler {
	return &Handler{uploader: uploader}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
	uploadLimit func(http.Handler) http.Handler,
) {
	r.With(authenticator, uploadLimit).Post("/admin/image/upload", h.Upload)
}

// Upload takes either a JSON data URI or a multipart "file" field.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.uploader.maxBytes+(1<<20))

	var (
		url string
		err error
	)

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		url, err = h.uploadMultipart(r)
	} else {
		var req UploadRequest
		if decodeErr := json.NewDecoder(r.Body).Decode(&req); decodeErr != nil || req.Image == "" {
			core.BadRequest(w, "image is required")
			return
		}
		url, err = h.uploader.UploadDataURI(r.Context(), req.Image)
	}
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, UploadResponse{SecureURL: url})
}

func (h *Handler) uploadMultipart(r *http.Request) (string, error) {
	file, _, err := r.FormFile("file")
	if err != nil {
		return "", core.ValidationError("file is required")
	}
	defer file.Close() //nolint:errcheck // read-only multipart part

	data, err := io.ReadAll(file)
	if err != nil {
		return "", core.ValidationError("could not read file")
	}

	return h.uploader.Upload(r.Context(), data)
}
