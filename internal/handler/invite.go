package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/boardhouse/internal/model"
	"github.com/sakif/boardhouse/internal/service"
)

// InviteHandler serves the invite lifecycle endpoints.
type InviteHandler struct {
	invites *service.InviteService
	logger  *slog.Logger
}

func NewInviteHandler(invites *service.InviteService, logger *slog.Logger) *InviteHandler {
	return &InviteHandler{invites: invites, logger: logger}
}

type inviteRequest struct {
	Handle string `json:"handle"`
	Email  string `json:"email"`
}

// inviteResponse always carries the status word; the invite row is present
// only when one was actually created.
type inviteResponse struct {
	Status model.Status  `json:"status"`
	Invite *model.Invite `json:"invite,omitempty"`
}

// HandleInvite records a pending invite on a board, keyed by handle or by
// email — whichever the body carries.
//
// HTTP: POST /api/boards/{id}/invites
func (h *InviteHandler) HandleInvite(w http.ResponseWriter, r *http.Request) {
	boardID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req inviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid invite JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: "invalid JSON body"})
		return
	}

	var (
		invite *model.Invite
		status model.Status
	)
	if req.Handle != "" {
		invite, status, err = h.invites.Invite(r.Context(), req.Handle, boardID)
	} else {
		invite, status, err = h.invites.InviteByEmail(r.Context(), req.Email, boardID)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, inviteResponse{Status: status, Invite: invite})
}

// HandleUninvite withdraws a pending invite.
//
// HTTP: DELETE /api/boards/{id}/invites/{handle}
func (h *InviteHandler) HandleUninvite(w http.ResponseWriter, r *http.Request) {
	boardID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	status, err := h.invites.Uninvite(r.Context(), r.PathValue("handle"), boardID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, StatusResponse{Status: status})
}

// HandleListByBoard lists the users invited to a board.
//
// HTTP: GET /api/boards/{id}/invites
func (h *InviteHandler) HandleListByBoard(w http.ResponseWriter, r *http.Request) {
	boardID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	users, err := h.invites.InviteesOfBoard(r.Context(), boardID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// HandleListAll returns every invitee with their pending board list.
//
// HTTP: GET /api/invites
func (h *InviteHandler) HandleListAll(w http.ResponseWriter, r *http.Request) {
	invitees, err := h.invites.AllInvitees(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, invitees)
}

// HandleListPending returns the invitees with invites not yet emailed.
//
// HTTP: GET /api/invites/pending
func (h *InviteHandler) HandleListPending(w http.ResponseWriter, r *http.Request) {
	invitees, err := h.invites.PendingEmail(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, invitees)
}

// HandleListForUser lists the boards inviting a user.
//
// HTTP: GET /api/users/{id}/invites
func (h *InviteHandler) HandleListForUser(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	boards, err := h.invites.BoardsInvitingUser(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, boards)
}

type inviteBatchRequest struct {
	IDs []int64 `json:"ids"`
}

// HandleMarkEmailed stamps a batch of invites as emailed.
//
// HTTP: POST /api/invites/emailed
func (h *InviteHandler) HandleMarkEmailed(w http.ResponseWriter, r *http.Request) {
	var req inviteBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid invite batch JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: "invalid JSON body"})
		return
	}

	status, err := h.invites.MarkEmailed(r.Context(), req.IDs)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, StatusResponse{Status: status})
}

// HandleDeleteBatch removes a batch of invites by id.
//
// HTTP: POST /api/invites/delete
func (h *InviteHandler) HandleDeleteBatch(w http.ResponseWriter, r *http.Request) {
	var req inviteBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid invite batch JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: "invalid JSON body"})
		return
	}

	status, err := h.invites.Remove(r.Context(), req.IDs)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, StatusResponse{Status: status})
}
