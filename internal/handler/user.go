package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/boardhouse/internal/auth"
	"github.com/sakif/boardhouse/internal/model"
	"github.com/sakif/boardhouse/internal/service"
)

// UserHandler serves account endpoints.
type UserHandler struct {
	users  *service.UserService
	logger *slog.Logger
}

func NewUserHandler(users *service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger}
}

// HandleGet returns a user by id, sensitive fields hidden.
//
// HTTP: GET /api/users/{id}
func (h *UserHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	user, err := h.users.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// HandleMe returns the caller's own record, API key included.
//
// HTTP: GET /api/me
func (h *UserHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "authentication required",
		})
		return
	}

	user, err := h.users.GetSelf(r.Context(), actor.ID, actor.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

type setPasswordRequest struct {
	Password string `json:"password"`
}

// HandleSetPassword attaches a password credential to the caller's own
// profile.
//
// HTTP: PUT /api/me/password
func (h *UserHandler) HandleSetPassword(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "authentication required",
		})
		return
	}

	var req setPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid password JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: "invalid JSON body"})
		return
	}

	if err := h.users.SetPassword(r.Context(), actor.ID, req.Password); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, StatusResponse{Status: model.StatusSuccess})
}

// updateUserRequest mirrors model.UserPatch: absent fields stay unchanged.
type updateUserRequest struct {
	Email        *string `json:"email"`
	GithubHandle *string `json:"github_handle"`
	ProfilePhoto *string `json:"profile_photo"`
	Verified     *bool   `json:"verified"`
}

// HandleUpdate applies a partial update to a user.
//
// HTTP: PUT /api/users/{id}
func (h *UserHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid user update JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: "invalid JSON body"})
		return
	}

	user, err := h.users.Update(r.Context(), id, model.UserPatch{
		Email:        req.Email,
		GithubHandle: req.GithubHandle,
		ProfilePhoto: req.ProfilePhoto,
		Verified:     req.Verified,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// HandleDelete removes a user. The response always carries the status
// word — deleting a user that's already gone is "delete error", not a 404.
//
// HTTP: DELETE /api/users/{id}
func (h *UserHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	status, err := h.users.Delete(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, StatusResponse{Status: status})
}

// HandleCheckHandle reports whether a handle is taken.
//
// HTTP: GET /api/users/check/handle/{handle}
func (h *UserHandler) HandleCheckHandle(w http.ResponseWriter, r *http.Request) {
	exists, err := h.users.CheckHandle(r.Context(), r.PathValue("handle"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"exists": exists})
}

// HandleCheckEmail reports whether an email is registered.
//
// HTTP: GET /api/users/check/email/{email}
func (h *UserHandler) HandleCheckEmail(w http.ResponseWriter, r *http.Request) {
	exists, err := h.users.CheckEmail(r.Context(), r.PathValue("email"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"exists": exists})
}

// HandleCheckVerified reports whether an email belongs to a verified
// account. Unknown and unverified both come back false.
//
// HTTP: GET /api/users/check/verified/{email}
func (h *UserHandler) HandleCheckVerified(w http.ResponseWriter, r *http.Request) {
	verified, err := h.users.CheckVerifiedEmail(r.Context(), r.PathValue("email"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"verified": verified})
}
