package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/boardhouse/internal/auth"
	"github.com/sakif/boardhouse/internal/model"
	"github.com/sakif/boardhouse/internal/service"
)

// TicketHandler serves ticket endpoints.
type TicketHandler struct {
	tickets *service.TicketService
	logger  *slog.Logger
}

func NewTicketHandler(tickets *service.TicketService, logger *slog.Logger) *TicketHandler {
	return &TicketHandler{tickets: tickets, logger: logger}
}

type createTicketRequest struct {
	Title          string `json:"title"`
	Description    string `json:"description"`
	Status         string `json:"status"`
	Priority       int    `json:"priority"`
	Type           string `json:"type"`
	AssigneeHandle string `json:"assignee_handle"`
	BoardID        int64  `json:"board_id"`
}

// HandleCreate creates a ticket on a panel, creator taken from the caller.
//
// HTTP: POST /api/panels/{id}/tickets
func (h *TicketHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "authentication required"})
		return
	}

	panelID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req createTicketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid ticket JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: "invalid JSON body"})
		return
	}

	ticket, err := h.tickets.Create(r.Context(), &model.Ticket{
		Title:          req.Title,
		Description:    req.Description,
		Status:         req.Status,
		Priority:       req.Priority,
		Type:           req.Type,
		CreatorID:      actor.ID,
		AssigneeHandle: req.AssigneeHandle,
		PanelID:        panelID,
		BoardID:        req.BoardID,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ticket)
}

// HandleGet returns a ticket by id.
//
// HTTP: GET /api/tickets/{id}
func (h *TicketHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	ticket, err := h.tickets.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ticket)
}

// HandleListByPanel lists a panel's tickets grouped by status, most
// urgent first within each group.
//
// HTTP: GET /api/panels/{id}/tickets
func (h *TicketHandler) HandleListByPanel(w http.ResponseWriter, r *http.Request) {
	panelID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	tickets, err := h.tickets.ListByPanel(r.Context(), panelID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tickets)
}

// HandleListByUser lists the tickets assigned to a user across boards.
//
// HTTP: GET /api/users/{id}/tickets
func (h *TicketHandler) HandleListByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	tickets, err := h.tickets.ListByUser(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tickets)
}

// HandleListByAssigneeOnBoard lists the tickets assigned to a handle on
// one board.
//
// HTTP: GET /api/boards/{id}/tickets/{handle}
func (h *TicketHandler) HandleListByAssigneeOnBoard(w http.ResponseWriter, r *http.Request) {
	boardID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	tickets, err := h.tickets.ListByAssigneeOnBoard(r.Context(), r.PathValue("handle"), boardID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tickets)
}

type updateTicketRequest struct {
	Title          *string `json:"title"`
	Description    *string `json:"description"`
	Status         *string `json:"status"`
	Priority       *int    `json:"priority"`
	Type           *string `json:"type"`
	AssigneeHandle *string `json:"assignee_handle"`
	PanelID        *int64  `json:"panel_id"`
}

// HandleUpdate applies a partial update to a ticket. Moving a ticket to
// another panel is just a PanelID patch.
//
// HTTP: PUT /api/tickets/{id}
func (h *TicketHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req updateTicketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid ticket update JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: "invalid JSON body"})
		return
	}

	ticket, err := h.tickets.Update(r.Context(), id, model.TicketPatch{
		Title:          req.Title,
		Description:    req.Description,
		Status:         req.Status,
		Priority:       req.Priority,
		Type:           req.Type,
		AssigneeHandle: req.AssigneeHandle,
		PanelID:        req.PanelID,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ticket)
}
