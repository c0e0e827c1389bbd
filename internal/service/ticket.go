package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/boardhouse/internal/apperror"
	"github.com/sakif/boardhouse/internal/model"
	"github.com/sakif/boardhouse/internal/repository"
)

const (
	MaxTicketTitleLength       = 200
	MaxTicketDescriptionLength = 10000
)

// Ticket statuses. The values sort lexically in exactly the order the
// board renders its columns: done, in progress, todo.
const (
	TicketStatusDone       = "done"
	TicketStatusInProgress = "in progress"
	TicketStatusTodo       = "todo"
)

func validTicketStatus(s string) bool {
	switch s {
	case TicketStatusDone, TicketStatusInProgress, TicketStatusTodo:
		return true
	}
	return false
}

// TicketService handles ticket business logic.
type TicketService struct {
	tickets repository.TicketStore
	logger  *slog.Logger
}

func NewTicketService(tickets repository.TicketStore, logger *slog.Logger) *TicketService {
	return &TicketService{tickets: tickets, logger: logger}
}

// Create validates and saves a new ticket on a panel.
func (s *TicketService) Create(ctx context.Context, ticket *model.Ticket) (*model.Ticket, error) {
	ticket.Title = strings.TrimSpace(ticket.Title)
	if ticket.Title == "" {
		return nil, apperror.ValidationFailed("title", "ticket title is required")
	}
	if len(ticket.Title) > MaxTicketTitleLength {
		return nil, apperror.ValidationFailed("title",
			fmt.Sprintf("ticket title must be %d characters or less", MaxTicketTitleLength))
	}
	if len(ticket.Description) > MaxTicketDescriptionLength {
		return nil, apperror.ValidationFailed("description",
			fmt.Sprintf("description must be %d characters or less", MaxTicketDescriptionLength))
	}
	if !validTicketStatus(ticket.Status) {
		return nil, apperror.ValidationFailed("status", "status must be todo, in progress, or done")
	}
	if ticket.Priority < 0 {
		return nil, apperror.ValidationFailed("priority", "priority must not be negative")
	}

	if err := s.tickets.CreateTicket(ctx, ticket); err != nil {
		return nil, err
	}

	s.logger.Info("ticket created",
		slog.Int64("ticketID", ticket.ID),
		slog.Int64("panelID", ticket.PanelID),
		slog.String("title", ticket.Title),
	)
	return ticket, nil
}

func (s *TicketService) GetByID(ctx context.Context, id int64) (*model.Ticket, error) {
	if id <= 0 {
		return nil, apperror.ValidationFailed("id", "ticket ID must be positive")
	}
	return s.tickets.GetTicketByID(ctx, id)
}

// ListByPanel returns a panel's tickets in board order: grouped by status,
// most urgent first within each group.
func (s *TicketService) ListByPanel(ctx context.Context, panelID int64) ([]model.Ticket, error) {
	if panelID <= 0 {
		return nil, apperror.ValidationFailed("id", "panel ID must be positive")
	}
	return s.tickets.GetTicketsByPanel(ctx, panelID)
}

// ListByUser returns the tickets assigned to a user across all boards.
func (s *TicketService) ListByUser(ctx context.Context, userID int64) ([]model.Ticket, error) {
	if userID <= 0 {
		return nil, apperror.ValidationFailed("id", "user ID must be positive")
	}
	return s.tickets.GetTicketsByUser(ctx, userID)
}

// ListByAssigneeOnBoard returns the tickets assigned to a handle on one
// board. No matches is a not-found, not an empty list.
func (s *TicketService) ListByAssigneeOnBoard(ctx context.Context, handle string, boardID int64) ([]model.Ticket, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return nil, apperror.ValidationFailed("handle", "assignee handle is required")
	}
	return s.tickets.GetTicketsByUserHandleAndBoard(ctx, handle, boardID)
}

// Update applies a partial update to a ticket and bumps its updated_at.
func (s *TicketService) Update(ctx context.Context, id int64, patch model.TicketPatch) (*model.Ticket, error) {
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, apperror.ValidationFailed("title", "ticket title is required")
		}
		patch.Title = &title
	}
	if patch.Status != nil && !validTicketStatus(*patch.Status) {
		return nil, apperror.ValidationFailed("status", "status must be todo, in progress, or done")
	}
	if patch.Priority != nil && *patch.Priority < 0 {
		return nil, apperror.ValidationFailed("priority", "priority must not be negative")
	}

	ticket, err := s.tickets.UpdateTicketByID(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	s.logger.Info("ticket updated", slog.Int64("ticketID", id))
	return ticket, nil
}
