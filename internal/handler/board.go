package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/boardhouse/internal/auth"
	"github.com/sakif/boardhouse/internal/model"
	"github.com/sakif/boardhouse/internal/service"
)

// BoardHandler serves board and membership endpoints.
type BoardHandler struct {
	boards *service.BoardService
	logger *slog.Logger
}

func NewBoardHandler(boards *service.BoardService, logger *slog.Logger) *BoardHandler {
	return &BoardHandler{boards: boards, logger: logger}
}

type createBoardRequest struct {
	BoardName string `json:"board_name"`
	RepoName  string `json:"repo_name"`
	RepoURL   string `json:"repo_url"`
}

// HandleCreate creates a board owned by the caller.
//
// HTTP: POST /api/boards
func (h *BoardHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "authentication required"})
		return
	}

	var req createBoardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid board JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: "invalid JSON body"})
		return
	}

	board, err := h.boards.Create(r.Context(), actor.ID, req.BoardName, req.RepoName, req.RepoURL)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, board)
}

// HandleGet returns a board by id.
//
// HTTP: GET /api/boards/{id}
func (h *BoardHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	board, err := h.boards.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, board)
}

// HandleGetByRepoURL resolves a board by the repo it tracks. The URL comes
// in the query string since it contains slashes.
//
// HTTP: GET /api/boards/by-repo?url=...
func (h *BoardHandler) HandleGetByRepoURL(w http.ResponseWriter, r *http.Request) {
	board, err := h.boards.GetByRepoURL(r.Context(), r.URL.Query().Get("url"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, board)
}

type updateBoardRequest struct {
	BoardName *string `json:"board_name"`
	RepoName  *string `json:"repo_name"`
	RepoURL   *string `json:"repo_url"`
}

// HandleUpdate applies a partial update. Only the owner gets through; the
// service answers forbidden for anyone else.
//
// HTTP: PUT /api/boards/{id}
func (h *BoardHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "authentication required"})
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req updateBoardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid board update JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: "invalid JSON body"})
		return
	}

	board, err := h.boards.Update(r.Context(), actor.ID, id, model.BoardPatch{
		BoardName: req.BoardName,
		RepoName:  req.RepoName,
		RepoURL:   req.RepoURL,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, board)
}

// HandleAddMember puts a user on a board.
//
// HTTP: POST /api/boards/{id}/users/{userID}
func (h *BoardHandler) HandleAddMember(w http.ResponseWriter, r *http.Request) {
	boardID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	userID, err := pathID(r, "userID")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.boards.AddMember(r.Context(), userID, boardID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, StatusResponse{Status: model.StatusSuccess})
}

// HandleListMembers lists a board's users in join order.
//
// HTTP: GET /api/boards/{id}/users
func (h *BoardHandler) HandleListMembers(w http.ResponseWriter, r *http.Request) {
	boardID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	users, err := h.boards.MembersOfBoard(r.Context(), boardID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// HandleListForUser lists the boards a user belongs to.
//
// HTTP: GET /api/users/{id}/boards
func (h *BoardHandler) HandleListForUser(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	boards, err := h.boards.BoardsForUser(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, boards)
}
