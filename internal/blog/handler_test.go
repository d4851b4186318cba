// AngelaMos | 2026
// handler_test.go

package blog

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ploteasy/ploteasy-api/internal/core"
	"github.com/ploteasy/ploteasy-api/internal/middleware"
)

// headerAuth stands in for the session authenticator: the caller id comes
// from X-Test-User and admin rights from X-Test-Admin.
func headerAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Test-User")
		if id == "" {
			core.Unauthorized(w, "")
			return
		}
		ctx := middleware.WithSession(r.Context(), &middleware.SessionClaims{
			UserID:  id,
			IsAdmin: r.Header.Get("X-Test-Admin") == "true",
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func newTestRouter() (*chi.Mux, *memoryRepo) {
	svc, repo := newTestService()
	r := chi.NewRouter()
	NewHandler(svc).RegisterRoutes(r, headerAuth)
	return r, repo
}

func serve(
	t *testing.T,
	r http.Handler,
	method, path, userID string,
	body any,
) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-Test-User", userID)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeData[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var env struct {
		Success bool `json:"success"`
		Data    T    `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	require.True(t, env.Success)
	return env.Data
}

func TestHandlerLifecycle(t *testing.T) {
	r, repo := newTestRouter()

	rec := serve(t, r, http.MethodPost, "/admin/blog", "", samplePost())
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = serve(t, r, http.MethodPost, "/admin/addBlog", authorID, samplePost())
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeData[PostResponse](t, rec)

	rec = serve(t, r, http.MethodPost, "/admin/blog", authorID, samplePost())
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = serve(t, r, http.MethodGet, "/admin/blog", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeData[[]PostResponse](t, rec), 2)

	rec = serve(t, r, http.MethodGet, "/admin/blog/"+created.ID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	detail := decodeData[DetailResponse](t, rec)
	assert.Equal(t, "meera", detail.Author.Username)

	rec = serve(t, r, http.MethodDelete, "/admin/blog/deleteBlog/"+created.ID, strangerID, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = serve(t, r, http.MethodDelete, "/admin/blog/deleteBlog/"+created.ID, authorID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, repo.posts, 1)

	rec = serve(t, r, http.MethodGet, "/admin/blog/"+created.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "blog not found")
}

func TestHandlerCreateValidation(t *testing.T) {
	r, _ := newTestRouter()

	rec := serve(t, r, http.MethodPost, "/admin/blog", authorID, map[string]string{
		"title": "Only a title",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "body is required")
	assert.Contains(t, rec.Body.String(), "coverImageURL is required")
}

func TestHandlerRejectsMalformedID(t *testing.T) {
	r, _ := newTestRouter()

	rec := serve(t, r, http.MethodGet, "/admin/blog/not-a-uuid", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
