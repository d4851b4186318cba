// AngelaMos | 2026
// client.go

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/ploteasy/ploteasy-api/internal/auth"
	"github.com/ploteasy/ploteasy-api/internal/property"
	"github.com/ploteasy/ploteasy-api/internal/wizard"
)

const (
	defaultTimeout = 30 * time.Second
	apiPrefix      = "/api"
)

// APIError is a failure envelope returned by the server.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("ploteasy api: %d %s: %s", e.Status, e.Code, e.Message)
}

// IsStatus reports whether err is an APIError with the given HTTP status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

type Client struct {
	baseURL *url.URL
	http    *http.Client
	session *Session
}

type Option func(*Client)

// WithHTTPClient replaces the transport. A client without a cookie jar
// gets one, since the session lives in a cookie.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}

	c := &Client{
		baseURL: u,
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.http.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("create cookie jar: %w", err)
		}
		c.http.Jar = jar
	}

	c.session = newSession(c)
	return c, nil
}

func (c *Client) Session() *Session {
	return c.session
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) do(
	ctx context.Context,
	method, path string,
	query url.Values,
	body, out any,
) error {
	u := *c.baseURL
	u.Path += apiPrefix + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close() //nolint:errcheck // read-only body

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			return &APIError{Status: resp.StatusCode, Code: "UNKNOWN", Message: resp.Status}
		}
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}

	if resp.StatusCode >= http.StatusBadRequest || !env.Success {
		apiErr := &APIError{Status: resp.StatusCode}
		if env.Error != nil {
			apiErr.Code = env.Error.Code
			apiErr.Message = env.Error.Message
		}
		return apiErr
	}

	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode %s %s data: %w", method, path, err)
	}
	return nil
}

func (c *Client) SignUp(ctx context.Context, req auth.SignUpRequest) (*auth.UserResponse, error) {
	var user auth.UserResponse
	if err := c.do(ctx, http.MethodPost, "/auth/signup", nil, req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// SignIn starts a session; the cookie lands in the jar and the returned
// user becomes the cached current user.
func (c *Client) SignIn(ctx context.Context, email, password string) (*auth.UserResponse, error) {
	var resp auth.SessionResponse
	err := c.do(ctx, http.MethodPost, "/auth/signin", nil,
		auth.SignInRequest{Email: email, Password: password}, &resp)
	if err != nil {
		return nil, err
	}

	c.session.set(&resp.User)
	return &resp.User, nil
}

func (c *Client) SignOut(ctx context.Context) error {
	defer c.session.Invalidate()
	return c.do(ctx, http.MethodPost, "/auth/logout", nil, nil, nil)
}

func (c *Client) Me(ctx context.Context) (*auth.UserResponse, error) {
	return c.session.User(ctx)
}

func (c *Client) fetchMe(ctx context.Context) (*auth.UserResponse, error) {
	var user auth.UserResponse
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// AddProperty submits the wizard and posts the resulting listing.
func (c *Client) AddProperty(ctx context.Context, w *wizard.Wizard) (*property.Response, error) {
	req, err := w.Submit()
	if err != nil {
		return nil, err
	}

	var created property.Response
	if err := c.do(ctx, http.MethodPost, "/property/add", nil, req, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) GetProperty(ctx context.Context, id string) (*property.DetailResponse, error) {
	var detail property.DetailResponse
	err := c.do(ctx, http.MethodGet, "/property/"+id, nil, nil, &detail)
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

func (c *Client) Search(ctx context.Context, params property.SearchParams) ([]property.Response, error) {
	var found []property.Response
	if err := c.do(ctx, http.MethodGet, "/property/search", params.Encode(), nil, &found); err != nil {
		return nil, err
	}
	return found, nil
}

func (c *Client) Featured(ctx context.Context) ([]property.Response, error) {
	var featured []property.Response
	if err := c.do(ctx, http.MethodGet, "/property/featured", nil, nil, &featured); err != nil {
		return nil, err
	}
	return featured, nil
}
