package handler

import (
	"log/slog"
	"net/http"

	"github.com/rs/xid"

	"github.com/sakif/boardhouse/internal/auth"
	"github.com/sakif/boardhouse/internal/service"
)

// AuthHandler runs the GitHub OAuth onboarding flow:
//
//	HandleGitHubLogin    → redirect the browser to GitHub's authorization page
//	HandleGitHubCallback → receive the code, exchange it, onboard the user,
//	                       and hand back the account with its API key
//
// There is no session: after onboarding the client keeps the API key and
// sends it in X-API-Key on every call.
type AuthHandler struct {
	github *auth.GitHubProvider
	users  *service.UserService
	logger *slog.Logger
}

func NewAuthHandler(github *auth.GitHubProvider, users *service.UserService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		github: github,
		users:  users,
		logger: logger,
	}
}

// HandleGitHubLogin redirects the user to GitHub's authorization page.
//
// HTTP: GET /auth/github/login
//
// A random state goes into a short-lived HttpOnly cookie; the callback
// verifies GitHub echoes it back, which blocks CSRF-initiated flows.
func (h *AuthHandler) HandleGitHubLogin(w http.ResponseWriter, r *http.Request) {
	state := xid.New().String()

	http.SetCookie(w, &http.Cookie{
		Name:     "oauth_state",
		Value:    state,
		Path:     "/",
		MaxAge:   600,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.github.AuthURL(state), http.StatusTemporaryRedirect)
}

// HandleGitHubCallback completes the OAuth flow.
//
// HTTP: GET /auth/github/callback?code=xxx&state=yyy
//
// Validates the state, exchanges the code for a GitHub profile, onboards
// the user (or recognizes a returning one), and responds with the account
// record — API key included, this is the one place the client learns it.
func (h *AuthHandler) HandleGitHubCallback(w http.ResponseWriter, r *http.Request) {
	stateCookie, err := r.Cookie("oauth_state")
	if err != nil || stateCookie.Value == "" {
		h.logger.Warn("auth callback: missing state cookie")
		http.Error(w, "invalid OAuth state", http.StatusBadRequest)
		return
	}
	if r.URL.Query().Get("state") != stateCookie.Value {
		h.logger.Warn("auth callback: state mismatch",
			slog.String("got", r.URL.Query().Get("state")),
		)
		http.Error(w, "invalid OAuth state", http.StatusBadRequest)
		return
	}

	// The state cookie is single-use.
	http.SetCookie(w, &http.Cookie{
		Name:   "oauth_state",
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})

	if errParam := r.URL.Query().Get("error"); errParam != "" {
		h.logger.Info("auth callback: user denied authorization",
			slog.String("error", errParam),
		)
		http.Redirect(w, r, "/?auth=denied", http.StatusSeeOther)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		http.Error(w, "missing OAuth code", http.StatusBadRequest)
		return
	}

	ghUser, err := h.github.Exchange(r.Context(), code)
	if err != nil {
		h.logger.Error("auth callback: GitHub exchange failed", slog.String("error", err.Error()))
		http.Error(w, "authentication failed", http.StatusInternalServerError)
		return
	}

	user, err := h.users.OnboardGitHub(r.Context(), ghUser)
	if err != nil {
		h.logger.Error("auth callback: onboarding failed",
			slog.String("login", ghUser.Login),
			slog.String("error", err.Error()),
		)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}
