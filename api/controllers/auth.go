package controllers

import (
	"net/http"
	"time"

	"github.com/angelmondragon/marketplace-backend/api/responses"
	"github.com/angelmondragon/marketplace-backend/api/validators"
	"github.com/angelmondragon/marketplace-backend/internal/users"
	pkgAuth "github.com/angelmondragon/marketplace-backend/pkg/auth"
	"github.com/angelmondragon/marketplace-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
	"github.com/angelmondragon/marketplace-backend/pkg/logger"
	"github.com/angelmondragon/marketplace-backend/pkg/metrics"
)

// AuthResponse is returned by login and signup.
type AuthResponse struct {
	AccessToken string     `json:"access_token"`
	SessionID   string     `json:"session_id"`
	User        users.User `json:"user"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthLogin signs the workspace in and mints an access token bound to it.
func AuthLogin(cfg config.JWTConfig, m *metrics.Marketplace, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws, ok := currentWorkspace(w, r, logg)
		if !ok {
			return
		}

		var body loginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := ws.Session.Login(r.Context(), body.Email, body.Password)
		m.AuthAttempt("login", err)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		writeAuthResponse(w, r, cfg, logg, ws.ID, user, http.StatusOK)
	}
}

// AuthSignup registers a new user and signs the workspace in as them.
func AuthSignup(cfg config.JWTConfig, m *metrics.Marketplace, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws, ok := currentWorkspace(w, r, logg)
		if !ok {
			return
		}

		var body users.SignupInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := ws.Session.Signup(r.Context(), body)
		m.AuthAttempt("signup", err)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		writeAuthResponse(w, r, cfg, logg, ws.ID, user, http.StatusCreated)
	}
}

// AuthLogout tears the workspace down. Logging out an anonymous session is a no-op.
func AuthLogout(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws, ok := currentWorkspace(w, r, logg)
		if !ok {
			return
		}
		if err := ws.Teardown(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": string(ws.Session.State())})
	}
}

// AuthMe returns the session state and current user, if any.
func AuthMe(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws, ok := currentWorkspace(w, r, logg)
		if !ok {
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"session_id": ws.ID,
			"state":      ws.Session.State(),
			"user":       ws.Session.Current(),
		})
	}
}

func writeAuthResponse(w http.ResponseWriter, r *http.Request, cfg config.JWTConfig, logg *logger.Logger, sessionID string, user users.User, status int) {
	token, err := pkgAuth.MintAccessToken(cfg, time.Now(), pkgAuth.AccessTokenPayload{
		UserID:    user.ID,
		Role:      user.Role,
		SessionID: sessionID,
	})
	if err != nil {
		responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token"))
		return
	}
	responses.WriteSuccessStatus(w, status, AuthResponse{AccessToken: token, SessionID: sessionID, User: user})
}
