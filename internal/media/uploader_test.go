// AngelaMos | 2026
// uploader_test.go

package media

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ploteasy/ploteasy-api/internal/config"
	"github.com/ploteasy/ploteasy-api/internal/core"
)

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 32)...)

func pngDataURI() string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes)
}

type failingStore struct{}

func (failingStore) Put(context.Context, string, []byte, string) (string, error) {
	return "", errors.New("bucket unavailable")
}

func TestUploadDataURI(t *testing.T) {
	store := NewMemoryStore("https://cdn.example.com/")
	u := NewUploader(store, "/ploteasy/", 0)

	url, err := u.UploadDataURI(context.Background(), pngDataURI())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(url, "https://cdn.example.com/ploteasy/"))
	assert.True(t, strings.HasSuffix(url, ".png"))

	key := strings.TrimPrefix(url, "https://cdn.example.com/")
	obj, ok := store.Get(key)
	require.True(t, ok)
	assert.Equal(t, "image/png", obj.ContentType)
	assert.Equal(t, pngBytes, obj.Body)
}

func TestUploadRejectsBadInput(t *testing.T) {
	u := NewUploader(NewMemoryStore("http://x"), "", 64)
	ctx := context.Background()

	tests := []struct {
		name  string
		input string
	}{
		{"not a data uri", "https://example.com/a.png"},
		{"not base64", "data:image/png,rawbytes"},
		{"wrong declared type", "data:text/plain;base64,aGVsbG8="},
		{"bad payload", "data:image/png;base64,***"},
		{"not an image", "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("just some text"))},
		{"too large", "data:image/png;base64," + base64.StdEncoding.EncodeToString(append(pngBytes, make([]byte, 64)...))},
		{"empty", "data:image/png;base64,"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := u.UploadDataURI(ctx, tt.input)
			var appErr *core.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, http.StatusBadRequest, appErr.StatusCode)
		})
	}
}

func TestUploadStoreFailure(t *testing.T) {
	u := NewUploader(failingStore{}, "", 0)

	_, err := u.Upload(context.Background(), pngBytes)
	require.Error(t, err)
	assert.False(t, core.IsAppError(err))
}

func TestPublicBaseURL(t *testing.T) {
	assert.Equal(t, "https://cdn.example.com",
		publicBaseURL(config.StorageConfig{PublicBaseURL: "https://cdn.example.com/"}))
	assert.Equal(t, "http://minio:9000/images",
		publicBaseURL(config.StorageConfig{Endpoint: "http://minio:9000", Bucket: "images", UsePathStyle: true}))
	assert.Equal(t, "https://images.s3.eu-west-1.amazonaws.com",
		publicBaseURL(config.StorageConfig{Bucket: "images", Region: "eu-west-1"}))
}

func passThrough(next http.Handler) http.Handler { return next }

func newUploadRouter(store Store) *chi.Mux {
	r := chi.NewRouter()
	NewHandler(NewUploader(store, "uploads", 0)).RegisterRoutes(r, passThrough, passThrough)
	return r
}

func TestHandlerUploadJSON(t *testing.T) {
	r := newUploadRouter(NewMemoryStore("https://cdn.example.com"))

	body, err := json.Marshal(UploadRequest{Image: pngDataURI()})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/admin/image/upload", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Data UploadResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, strings.HasPrefix(resp.Data.SecureURL, "https://cdn.example.com/uploads/"))
}

func TestHandlerUploadMultipart(t *testing.T) {
	store := NewMemoryStore("https://cdn.example.com")
	r := newUploadRouter(store)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "house.png")
	require.NoError(t, err)
	_, err = part.Write(pngBytes)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/admin/image/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, store.Len())
}

func TestHandlerUploadMissingImage(t *testing.T) {
	r := newUploadRouter(NewMemoryStore("https://cdn.example.com"))

	req := httptest.NewRequest(http.MethodPost, "/admin/image/upload", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
