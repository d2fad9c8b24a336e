package api

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/erazemk/najdeno/internal/auth"
	"github.com/erazemk/najdeno/internal/model"
	"github.com/erazemk/najdeno/internal/otp"
	"github.com/erazemk/najdeno/internal/store"
)

// otpIssuer is the OTP session manager as seen by the auth endpoints.
type otpIssuer interface {
	Issue(ctx context.Context, req otp.IssueRequest) (*otp.Issued, error)
	Verify(ctx context.Context, sessionID, code string) (*model.OTPSession, error)
}

// AuthHandler handles registration, OTP login and session endpoints.
type AuthHandler struct {
	DB     *sql.DB
	Tokens *auth.Tokens
	OTP    otpIssuer
}

type registerRequest struct {
	Name     string          `json:"name"`
	Email    string          `json:"email"`
	Mobile   string          `json:"mobile"`
	Role     string          `json:"role"`
	Channels []model.Channel `json:"channels"`
}

type registerResponse struct {
	User *model.User `json:"user"`
	*otp.Issued
}

type otpRequest struct {
	Email    string          `json:"email"`
	Mobile   string          `json:"mobile"`
	Channels []model.Channel `json:"channels"`
}

type verifyRequest struct {
	SessionID string `json:"session_id"`
	Code      string `json:"code"`
}

type tokenResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      *model.User `json:"user"`
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid_input", "invalid request body")
		return
	}

	u, err := req.user()
	if err != nil {
		writeError(w, r, err)
		return
	}
	dest, err := destinations(u, req.Channels)
	if err != nil {
		writeError(w, r, err)
		return
	}

	created, err := store.CreateUser(r.Context(), h.DB, *u)
	if errors.Is(err, model.ErrConflict) {
		jsonError(w, http.StatusConflict, "already_registered", "email or mobile already registered")
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	issued, err := h.OTP.Issue(r.Context(), otp.IssueRequest{
		UserID:       created.ID,
		Destinations: dest,
		DisplayName:  created.Name,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	slog.Info("user registered", "user_id", created.ID, "role", created.Role)
	jsonResponse(w, http.StatusCreated, registerResponse{User: created, Issued: issued})
}

func (req registerRequest) user() (*model.User, error) {
	u := &model.User{
		Name:   strings.TrimSpace(req.Name),
		Email:  strings.TrimSpace(strings.ToLower(req.Email)),
		Mobile: strings.TrimSpace(req.Mobile),
		Role:   req.Role,
	}
	if u.Name == "" {
		return nil, fmt.Errorf("%w: name is required", model.ErrInvalidInput)
	}
	if u.Role == "" {
		u.Role = model.RoleStudent
	}
	if u.Role != model.RoleStudent && u.Role != model.RoleFaculty {
		return nil, fmt.Errorf("%w: role must be student or faculty", model.ErrInvalidInput)
	}
	if u.Email == "" && u.Mobile == "" {
		return nil, fmt.Errorf("%w: email or mobile is required", model.ErrInvalidInput)
	}
	if u.Email != "" {
		if err := model.ValidateEmail(u.Email); err != nil {
			return nil, err
		}
	}
	if u.Mobile != "" {
		if err := model.ValidateMobile(u.Mobile); err != nil {
			return nil, err
		}
	}
	return u, nil
}

// destinations resolves the requested channels against the user's contact
// details. No channels means every channel the user has an address for.
func destinations(u *model.User, channels []model.Channel) (map[model.Channel]string, error) {
	addr := map[model.Channel]string{
		model.ChannelEmail:  u.Email,
		model.ChannelMobile: u.Mobile,
	}

	dest := make(map[model.Channel]string)
	if len(channels) == 0 {
		for c, a := range addr {
			if a != "" {
				dest[c] = a
			}
		}
	}
	for _, c := range channels {
		if !c.Valid() {
			return nil, fmt.Errorf("%w: unknown channel %q", model.ErrInvalidInput, c)
		}
		if addr[c] == "" {
			return nil, fmt.Errorf("%w: no %s address on file", model.ErrInvalidInput, c)
		}
		dest[c] = addr[c]
	}
	if len(dest) == 0 {
		return nil, fmt.Errorf("%w: no address on file", model.ErrInvalidInput)
	}
	return dest, nil
}

// RequestOTP handles POST /api/auth/otp. The user is looked up by email or
// mobile; with no channels the code goes to the identifier used.
func (h *AuthHandler) RequestOTP(w http.ResponseWriter, r *http.Request) {
	var req otpRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid_input", "invalid request body")
		return
	}

	email := strings.TrimSpace(strings.ToLower(req.Email))
	mobile := strings.TrimSpace(req.Mobile)
	channels := req.Channels

	var u *model.User
	var err error
	switch {
	case email != "":
		u, err = store.GetUserByEmail(r.Context(), h.DB, email)
		if len(channels) == 0 {
			channels = []model.Channel{model.ChannelEmail}
		}
	case mobile != "":
		u, err = store.GetUserByMobile(r.Context(), h.DB, mobile)
		if len(channels) == 0 {
			channels = []model.Channel{model.ChannelMobile}
		}
	default:
		jsonError(w, http.StatusBadRequest, "invalid_input", "email or mobile required")
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	if u == nil {
		jsonError(w, http.StatusNotFound, "not_found", "no account with that address")
		return
	}

	dest, err := destinations(u, channels)
	if err != nil {
		writeError(w, r, err)
		return
	}

	issued, err := h.OTP.Issue(r.Context(), otp.IssueRequest{
		UserID:       u.ID,
		Destinations: dest,
		DisplayName:  u.Name,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, issued)
}

// VerifyOTP handles POST /api/auth/otp/verify. A verified session marks its
// channels verified on the user and returns a session token.
func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid_input", "invalid request body")
		return
	}
	if req.SessionID == "" || req.Code == "" {
		jsonError(w, http.StatusBadRequest, "invalid_input", "session_id and code required")
		return
	}

	session, err := h.OTP.Verify(r.Context(), req.SessionID, strings.TrimSpace(req.Code))
	if err != nil {
		if !errors.Is(err, model.ErrDependency) {
			slog.Warn("otp verification failed", "session_id", req.SessionID, "remote", r.RemoteAddr, "error", err)
		}
		writeError(w, r, err)
		return
	}

	if err := store.MarkUserVerified(r.Context(), h.DB, session.UserID, session.Channels()); err != nil {
		writeError(w, r, err)
		return
	}
	u, err := store.GetUser(r.Context(), h.DB, session.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if u == nil {
		jsonError(w, http.StatusNotFound, "not_found", "user no longer exists")
		return
	}

	token, claims, err := h.Tokens.Issue(u)
	if err != nil {
		writeError(w, r, err)
		return
	}

	slog.Info("user logged in", "user_id", u.ID, "role", u.Role)
	jsonResponse(w, http.StatusOK, tokenResponse{Token: token, ExpiresAt: claims.ExpiresAt.Time, User: u})
}

// Logout handles POST /api/auth/logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "unauthenticated", "not authenticated")
		return
	}

	if err := store.RevokeToken(r.Context(), h.DB, claims.ID, claims.ExpiresAt.Time); err != nil {
		writeError(w, r, err)
		return
	}
	if _, err := store.PurgeExpiredRevocations(r.Context(), h.DB, time.Now()); err != nil {
		slog.WarnContext(r.Context(), "purging revoked tokens", "error", err)
	}

	slog.Info("user logged out", "user_id", claims.UserID())
	jsonResponse(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// Me handles GET /api/auth/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r, h.DB)
	if !ok {
		return
	}
	jsonResponse(w, http.StatusOK, u)
}

// currentUser loads the caller's profile. It writes the error response and
// returns false when the user cannot be loaded.
func currentUser(w http.ResponseWriter, r *http.Request, db *sql.DB) (*model.User, bool) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "unauthenticated", "not authenticated")
		return nil, false
	}
	u, err := store.GetUser(r.Context(), db, claims.UserID())
	if err != nil {
		writeError(w, r, err)
		return nil, false
	}
	if u == nil {
		jsonError(w, http.StatusUnauthorized, "unauthenticated", "account no longer exists")
		return nil, false
	}
	return u, true
}
