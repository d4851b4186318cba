// AngelaMos | 2026
// handler.go

package auth

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/ploteasy/ploteasy-api/internal/core"
	"github.com/ploteasy/ploteasy-api/internal/middleware"
)

// FederationKeyHeader carries the shared secret the federated sign-in
// frontend presents on /auth/save-user.
const FederationKeyHeader = "X-Federation-Key"

type CookieConfig struct {
	Name   string
	Secure bool
}

type Handler struct {
	service       *Service
	validator     *validator.Validate
	cookie        CookieConfig
	federationKey string
}

type HandlerOption func(*Handler)

// WithFederationKey makes /auth/save-user accept only callers presenting
// key in FederationKeyHeader. Without it the endpoint trusts any caller,
// which is only acceptable in development.
func WithFederationKey(key string) HandlerOption {
	return func(h *Handler) {
		h.federationKey = key
	}
}

func NewHandler(service *Service, cookie CookieConfig, opts ...HandlerOption) *Handler {
	if cookie.Name == "" {
		cookie.Name = middleware.DefaultSessionCookie
	}
	h := &Handler{
		service:   service,
		validator: core.NewValidator(),
		cookie:    cookie,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// RegisterRoutes mounts /auth. limiter guards the credential endpoints
// and may be nil.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
	limiter func(http.Handler) http.Handler,
) {
	r.Route("/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if limiter != nil {
				r.Use(limiter)
			}
			r.Post("/signup", h.SignUp)
			r.Post("/signin", h.SignIn)
			r.Post("/save-user", h.SaveUser)
			r.Post("/verifyemail", h.VerifyEmail)
			r.Post("/forgotpassword", h.ForgotPassword)
			r.Post("/resetpassword", h.ResetPassword)
			r.Post("/newpassword", h.NewPassword)
		})

		r.Group(func(r chi.Router) {
			r.Use(authenticator)
			r.Get("/me", h.Me)
			r.Post("/logout", h.Logout)
		})
	})
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		core.BadRequest(w, "invalid request body")
		return false
	}

	if err := h.validator.Struct(dst); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return false
	}

	return true
}

func (h *Handler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req SignUpRequest
	if !h.decode(w, r, &req) {
		return
	}

	user, err := h.service.SignUp(r.Context(), req)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Created(w, "User created successfully", user)
}

func (h *Handler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req SignInRequest
	if !h.decode(w, r, &req) {
		return
	}

	session, err := h.service.SignIn(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrNotFound):
			core.NotFound(w, "user")
		case errors.Is(err, ErrEmailNotVerified):
			core.Forbidden(w, "please verify your email before signing in")
		case errors.Is(err, ErrInvalidCredentials):
			core.Unauthorized(w, "invalid password")
		default:
			core.JSONError(w, err)
		}
		return
	}

	h.setSessionCookie(w, session.Token)
	core.OKWithMessage(w, "Login successful", SessionResponse{
		User:      session.User,
		ExpiresAt: session.Token.ExpiresAt,
	})
}

func (h *Handler) trustedFederation(r *http.Request) bool {
	if h.federationKey == "" {
		return true
	}
	got := r.Header.Get(FederationKeyHeader)
	return subtle.ConstantTimeCompare([]byte(got), []byte(h.federationKey)) == 1
}

func (h *Handler) SaveUser(w http.ResponseWriter, r *http.Request) {
	if !h.trustedFederation(r) {
		core.Forbidden(w, "untrusted identity provider")
		return
	}

	var req SaveUserRequest
	if !h.decode(w, r, &req) {
		return
	}

	session, err := h.service.SaveUser(r.Context(), req)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	h.setSessionCookie(w, session.Token)
	core.OKWithMessage(w, "User saved successfully", SessionResponse{
		User:      session.User,
		ExpiresAt: session.Token.ExpiresAt,
	})
}

func (h *Handler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req TokenRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.service.VerifyEmail(r.Context(), req.Token); err != nil {
		core.JSONError(w, err)
		return
	}

	core.OKWithMessage(w, "Email verified successfully", nil)
}

func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req ForgotPasswordRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.service.ForgotPassword(r.Context(), req.Email); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "user")
			return
		}
		core.JSONError(w, err)
		return
	}

	core.OKWithMessage(w, "Password reset email sent", nil)
}

func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req TokenRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.service.ResetPassword(r.Context(), req.Token); err != nil {
		core.JSONError(w, err)
		return
	}

	core.OKWithMessage(w, "Token verified, choose a new password", nil)
}

func (h *Handler) NewPassword(w http.ResponseWriter, r *http.Request) {
	var req NewPasswordRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.service.NewPassword(r.Context(), req); err != nil {
		core.JSONError(w, err)
		return
	}

	core.OKWithMessage(w, "Password updated successfully", nil)
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		core.Unauthorized(w, "")
		return
	}

	user, err := h.service.Me(r.Context(), userID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "user")
			return
		}
		core.JSONError(w, err)
		return
	}

	core.OKWithMessage(w, "User found", user)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.service.SignOut(r.Context(), middleware.GetClaims(r.Context())); err != nil {
		core.InternalServerError(w, err)
		return
	}

	h.clearSessionCookie(w)
	core.OKWithMessage(w, "Logout successful", nil)
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, token *IssuedToken) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    token.Token,
		Path:     "/",
		Expires:  token.ExpiresAt,
		MaxAge:   int(h.service.SessionTTL().Seconds()),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
