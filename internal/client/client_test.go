// AngelaMos | 2026
// client_test.go

package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ploteasy/ploteasy-api/internal/auth"
	"github.com/ploteasy/ploteasy-api/internal/core"
	"github.com/ploteasy/ploteasy-api/internal/property"
	"github.com/ploteasy/ploteasy-api/internal/wizard"
)

const sessionToken = "signed-session"

type fakeAPI struct {
	meCalls atomic.Int32

	mu        sync.Mutex
	lastQuery url.Values
	created   property.CreateRequest
	meGate    chan struct{}
}

func (f *fakeAPI) holdMe(gate chan struct{}) {
	f.mu.Lock()
	f.meGate = gate
	f.mu.Unlock()
}

func (f *fakeAPI) waitMeGate(r *http.Request) {
	f.mu.Lock()
	gate := f.meGate
	f.mu.Unlock()
	if gate == nil {
		return
	}
	select {
	case <-gate:
	case <-r.Context().Done():
	}
}

func (f *fakeAPI) query() url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastQuery
}

func (f *fakeAPI) createdRequest() property.CreateRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.created
}

func (f *fakeAPI) signedIn(r *http.Request) bool {
	c, err := r.Cookie("token")
	return err == nil && c.Value == sessionToken
}

func (f *fakeAPI) routes() http.Handler {
	user := auth.UserResponse{ID: "u-1", Username: "priya", Email: "priya@example.com", IsVerified: true}

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/signup", func(w http.ResponseWriter, r *http.Request) {
			var req auth.SignUpRequest
			_ = json.NewDecoder(r.Body).Decode(&req)
			if req.Email == "taken@example.com" {
				core.JSONError(w, core.DuplicateError("email"))
				return
			}
			core.Created(w, "User created successfully", auth.UserResponse{Username: req.Username, Email: req.Email})
		})
		r.Post("/auth/signin", func(w http.ResponseWriter, r *http.Request) {
			var req auth.SignInRequest
			_ = json.NewDecoder(r.Body).Decode(&req)
			if req.Password != "hunter22" {
				core.Unauthorized(w, "invalid credentials")
				return
			}
			http.SetCookie(w, &http.Cookie{Name: "token", Value: sessionToken, Path: "/", HttpOnly: true})
			core.OKWithMessage(w, "Login successful", auth.SessionResponse{User: user})
		})
		r.Post("/auth/logout", func(w http.ResponseWriter, _ *http.Request) {
			http.SetCookie(w, &http.Cookie{Name: "token", Value: "", Path: "/", MaxAge: -1})
			core.OKWithMessage(w, "Logout successful", nil)
		})
		r.Get("/auth/me", func(w http.ResponseWriter, r *http.Request) {
			f.meCalls.Add(1)
			f.waitMeGate(r)
			if !f.signedIn(r) {
				core.Unauthorized(w, "")
				return
			}
			core.OK(w, user)
		})
		r.Post("/property/add", func(w http.ResponseWriter, r *http.Request) {
			if !f.signedIn(r) {
				core.Unauthorized(w, "")
				return
			}
			var req property.CreateRequest
			_ = json.NewDecoder(r.Body).Decode(&req)
			f.mu.Lock()
			f.created = req
			f.mu.Unlock()
			core.Created(w, "Property submitted successfully!", property.Response{
				ID:    "p-1",
				Title: req.Title,
				Type:  property.Kind(req.Type),
			})
		})
		r.Get("/property/search", func(w http.ResponseWriter, r *http.Request) {
			f.mu.Lock()
			f.lastQuery = r.URL.Query()
			f.mu.Unlock()
			core.OK(w, []property.Response{{ID: "p-1"}, {ID: "p-2"}})
		})
		r.Get("/property/featured", func(w http.ResponseWriter, _ *http.Request) {
			core.OK(w, []property.Response{})
		})
		r.Get("/property/{id}", func(w http.ResponseWriter, r *http.Request) {
			if chi.URLParam(r, "id") != "p-1" {
				core.NotFound(w, "property")
				return
			}
			core.OK(w, property.DetailResponse{Property: property.Response{ID: "p-1"}})
		})
	})
	return r
}

func newTestClient(t *testing.T) (*Client, *fakeAPI) {
	t.Helper()
	api := &fakeAPI{}
	srv := httptest.NewServer(api.routes())
	t.Cleanup(srv.Close)

	c, err := New(srv.URL + "/")
	require.NoError(t, err)
	return c, api
}

func TestNewRejectsRelativeURL(t *testing.T) {
	_, err := New("localhost:8080")
	assert.Error(t, err)
}

func TestSignUp(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	user, err := c.SignUp(ctx, auth.SignUpRequest{Username: "ivy", Email: "ivy@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "ivy", user.Username)

	_, err = c.SignUp(ctx, auth.SignUpRequest{Username: "ivy", Email: "taken@example.com", Password: "secret1"})
	require.True(t, IsStatus(err, http.StatusConflict))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "DUPLICATE", apiErr.Code)
	assert.Equal(t, "email already exists", apiErr.Message)
}

func TestSessionCachesCurrentUser(t *testing.T) {
	c, api := newTestClient(t)
	ctx := context.Background()

	_, err := c.Me(ctx)
	assert.True(t, IsStatus(err, http.StatusUnauthorized))
	assert.Nil(t, c.Session().Cached())

	_, err = c.SignIn(ctx, "priya@example.com", "wrong")
	assert.True(t, IsStatus(err, http.StatusUnauthorized))

	signedIn, err := c.SignIn(ctx, "priya@example.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, "priya", signedIn.Username)

	before := api.meCalls.Load()
	me, err := c.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "u-1", me.ID)
	assert.Equal(t, before, api.meCalls.Load())

	c.Session().Invalidate()
	_, err = c.Me(ctx)
	require.NoError(t, err)
	_, err = c.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, before+1, api.meCalls.Load())

	require.NoError(t, c.SignOut(ctx))
	assert.Nil(t, c.Session().Cached())
	_, err = c.Me(ctx)
	assert.True(t, IsStatus(err, http.StatusUnauthorized))
}

func TestSessionSharesConcurrentFetches(t *testing.T) {
	c, api := newTestClient(t)
	ctx := context.Background()
	_, err := c.SignIn(ctx, "priya@example.com", "hunter22")
	require.NoError(t, err)
	c.Session().Invalidate()

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			user, err := c.Me(ctx)
			assert.NoError(t, err)
			assert.Equal(t, "priya", user.Username)
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, api.meCalls.Load(), int32(8))
	assert.NotNil(t, c.Session().Cached())
}

func TestSessionFetchSurvivesFirstCallerCancel(t *testing.T) {
	c, api := newTestClient(t)
	_, err := c.SignIn(context.Background(), "priya@example.com", "hunter22")
	require.NoError(t, err)
	c.Session().Invalidate()

	gate := make(chan struct{})
	api.holdMe(gate)
	before := api.meCalls.Load()

	firstCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	firstErr := make(chan error, 1)
	go func() {
		_, err := c.Session().User(firstCtx)
		firstErr <- err
	}()
	require.Eventually(t, func() bool {
		return api.meCalls.Load() == before+1
	}, time.Second, 5*time.Millisecond)

	type result struct {
		user *auth.UserResponse
		err  error
	}
	second := make(chan result, 1)
	go func() {
		user, err := c.Session().User(context.Background())
		second <- result{user, err}
	}()
	time.Sleep(20 * time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-firstErr, context.Canceled)

	close(gate)
	got := <-second
	require.NoError(t, got.err)
	assert.Equal(t, "priya", got.user.Username)
	assert.Equal(t, before+1, api.meCalls.Load())
	assert.NotNil(t, c.Session().Cached())
}

func readyWizard(t *testing.T) *wizard.Wizard {
	t.Helper()
	area, price := 2.0, 4000000.0

	w := wizard.New()
	w.Form.Username = "Priya"
	w.Form.Contact = "9876543210"
	require.NoError(t, w.Next())
	w.Form.Address = "Survey 42, Shamshabad"
	w.Form.Title = "Two acre plot"
	w.Form.Area = &area
	w.Form.AreaUnit = "acres"
	w.Form.Price = &price
	w.Form.LandCategory = "Agricultural"
	require.NoError(t, w.Next())
	w.AddImages("https://cdn.example.com/plot.jpg")
	require.NoError(t, w.Next())
	w.Form.Location.State = "Telangana"
	w.Form.Location.City = "Hyderabad"
	require.NoError(t, w.Next())
	return w
}

func TestAddProperty(t *testing.T) {
	c, api := newTestClient(t)
	ctx := context.Background()

	_, err := c.AddProperty(ctx, wizard.New())
	assert.ErrorIs(t, err, wizard.ErrNotReview)

	_, err = c.AddProperty(ctx, readyWizard(t))
	assert.True(t, IsStatus(err, http.StatusUnauthorized))

	_, err = c.SignIn(ctx, "priya@example.com", "hunter22")
	require.NoError(t, err)

	created, err := c.AddProperty(ctx, readyWizard(t))
	require.NoError(t, err)
	assert.Equal(t, "p-1", created.ID)
	assert.Equal(t, property.KindLand, created.Type)
	sent := api.createdRequest()
	assert.Equal(t, "Agricultural", sent.LandCategory)
	require.NotNil(t, sent.IsPremium)
	assert.False(t, *sent.IsPremium)
}

func TestListingQueries(t *testing.T) {
	c, api := newTestClient(t)
	ctx := context.Background()
	beds := 2

	found, err := c.Search(ctx, property.SearchParams{Location: "pune", Bedrooms: &beds})
	require.NoError(t, err)
	assert.Len(t, found, 2)
	assert.Equal(t, "pune", api.query().Get("location"))
	assert.Equal(t, "2", api.query().Get("bedrooms"))

	featured, err := c.Featured(ctx)
	require.NoError(t, err)
	assert.Empty(t, featured)

	detail, err := c.GetProperty(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, "p-1", detail.Property.ID)

	_, err = c.GetProperty(ctx, "p-9")
	assert.True(t, IsStatus(err, http.StatusNotFound))
}
