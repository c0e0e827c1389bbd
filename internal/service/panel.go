package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sakif/boardhouse/internal/apperror"
	"github.com/sakif/boardhouse/internal/model"
	"github.com/sakif/boardhouse/internal/repository"
)

const MaxPanelNameLength = 100

// PanelService handles panel (sprint/column) business logic.
type PanelService struct {
	panels repository.PanelStore
	logger *slog.Logger
}

func NewPanelService(panels repository.PanelStore, logger *slog.Logger) *PanelService {
	return &PanelService{panels: panels, logger: logger}
}

// validDueDate checks the YYYY-MM-DD format. Dates are kept as strings in
// that form so lexical order matches chronological order.
func validDueDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

// Create validates and saves a new panel on a board.
func (s *PanelService) Create(ctx context.Context, boardID int64, name string, dueDate *string) (*model.Panel, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperror.ValidationFailed("name", "panel name is required")
	}
	if len(name) > MaxPanelNameLength {
		return nil, apperror.ValidationFailed("name",
			fmt.Sprintf("panel name must be %d characters or less", MaxPanelNameLength))
	}
	if dueDate != nil && !validDueDate(*dueDate) {
		return nil, apperror.ValidationFailed("due_date", "due date must be YYYY-MM-DD")
	}

	panel := &model.Panel{Name: name, DueDate: dueDate, BoardID: boardID}
	if err := s.panels.CreatePanel(ctx, panel); err != nil {
		return nil, err
	}

	s.logger.Info("panel created",
		slog.Int64("panelID", panel.ID),
		slog.Int64("boardID", boardID),
	)
	return panel, nil
}

func (s *PanelService) GetByID(ctx context.Context, id int64) (*model.Panel, error) {
	if id <= 0 {
		return nil, apperror.ValidationFailed("id", "panel ID must be positive")
	}
	return s.panels.GetPanelByID(ctx, id)
}

// ListByBoard returns a board's panels ordered by due date.
func (s *PanelService) ListByBoard(ctx context.Context, boardID int64) ([]model.Panel, error) {
	if boardID <= 0 {
		return nil, apperror.ValidationFailed("id", "board ID must be positive")
	}
	return s.panels.GetPanelsByBoard(ctx, boardID)
}

// Update applies a partial update to a panel.
func (s *PanelService) Update(ctx context.Context, id int64, patch model.PanelPatch) (*model.Panel, error) {
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, apperror.ValidationFailed("name", "panel name is required")
		}
		patch.Name = &name
	}
	if patch.DueDate != nil && !validDueDate(*patch.DueDate) {
		return nil, apperror.ValidationFailed("due_date", "due date must be YYYY-MM-DD")
	}

	panel, err := s.panels.UpdatePanelByID(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	s.logger.Info("panel updated", slog.Int64("panelID", id))
	return panel, nil
}
