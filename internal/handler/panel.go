package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/boardhouse/internal/model"
	"github.com/sakif/boardhouse/internal/service"
)

// PanelHandler serves panel endpoints.
type PanelHandler struct {
	panels *service.PanelService
	logger *slog.Logger
}

func NewPanelHandler(panels *service.PanelService, logger *slog.Logger) *PanelHandler {
	return &PanelHandler{panels: panels, logger: logger}
}

type createPanelRequest struct {
	Name    string  `json:"name"`
	DueDate *string `json:"due_date"`
}

// HandleCreate creates a panel on a board.
//
// HTTP: POST /api/boards/{id}/panels
func (h *PanelHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	boardID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req createPanelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid panel JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: "invalid JSON body"})
		return
	}

	panel, err := h.panels.Create(r.Context(), boardID, req.Name, req.DueDate)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, panel)
}

// HandleGet returns a panel by id.
//
// HTTP: GET /api/panels/{id}
func (h *PanelHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	panel, err := h.panels.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, panel)
}

// HandleListByBoard lists a board's panels in due-date order.
//
// HTTP: GET /api/boards/{id}/panels
func (h *PanelHandler) HandleListByBoard(w http.ResponseWriter, r *http.Request) {
	boardID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	panels, err := h.panels.ListByBoard(r.Context(), boardID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, panels)
}

type updatePanelRequest struct {
	Name    *string `json:"name"`
	DueDate *string `json:"due_date"`
}

// HandleUpdate applies a partial update to a panel.
//
// HTTP: PUT /api/panels/{id}
func (h *PanelHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req updatePanelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid panel update JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: "invalid JSON body"})
		return
	}

	panel, err := h.panels.Update(r.Context(), id, model.PanelPatch{
		Name:    req.Name,
		DueDate: req.DueDate,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, panel)
}
