package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sakif/boardhouse/internal/apperror"
	"github.com/sakif/boardhouse/internal/model"
	"github.com/sakif/boardhouse/internal/repository"
)

// compile-time check that *DB implements repository.TicketStore
var _ repository.TicketStore = (*DB)(nil)

const ticketColumns = `id, title, COALESCE(description, ''), status, priority,
	COALESCE(type, ''), created_at, updated_at, creator_id,
	COALESCE(assignee_handle, ''), panel_id, board_id`

// ticketOrder groups by status first, then by urgency within a status.
// Status order is plain lexical ("done" < "in progress" < "todo"); lower
// priority value = more urgent.
const ticketOrder = ` ORDER BY status ASC, priority ASC`

func scanTicket(row interface{ Scan(...any) error }) (*model.Ticket, error) {
	var t model.Ticket
	err := row.Scan(
		&t.ID,
		&t.Title,
		&t.Description,
		&t.Status,
		&t.Priority,
		&t.Type,
		&t.CreatedAt,
		&t.UpdatedAt,
		&t.CreatorID,
		&t.AssigneeHandle,
		&t.PanelID,
		&t.BoardID,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// CreateTicket inserts a ticket. The panel, the board and — via foreign
// keys — the creator and assignee must all resolve; any miss is not-found.
func (db *DB) CreateTicket(ctx context.Context, ticket *model.Ticket) error {
	if _, err := db.GetPanelByID(ctx, ticket.PanelID); err != nil {
		return err
	}
	if _, err := db.GetBoardByID(ctx, ticket.BoardID); err != nil {
		return err
	}

	now := time.Now()
	ticket.CreatedAt = now
	ticket.UpdatedAt = now

	res, err := db.conn.ExecContext(ctx,
		`INSERT INTO tickets (title, description, status, priority, type,
		                      created_at, updated_at, creator_id, assignee_handle,
		                      panel_id, board_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ticket.Title,
		ticket.Description,
		ticket.Status,
		ticket.Priority,
		ticket.Type,
		ticket.CreatedAt,
		ticket.UpdatedAt,
		ticket.CreatorID,
		ticket.AssigneeHandle,
		ticket.PanelID,
		ticket.BoardID,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperror.NotFound("ticket reference", ticket.Title)
		}
		return fmt.Errorf("sqlite: creating ticket %s: %w", ticket.Title, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading new ticket id: %w", err)
	}
	ticket.ID = id
	return nil
}

func (db *DB) GetTicketByID(ctx context.Context, id int64) (*model.Ticket, error) {
	t, err := scanTicket(db.conn.QueryRowContext(ctx,
		`SELECT `+ticketColumns+` FROM tickets WHERE id = ?`, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("ticket", id)
		}
		return nil, fmt.Errorf("sqlite: getting ticket %d: %w", id, err)
	}
	return t, nil
}

// GetTicketsByUser lists the tickets assigned to a user (by their github
// handle), sorted by status then priority. Missing user = not-found; a user
// with no tickets gets an empty slice.
func (db *DB) GetTicketsByUser(ctx context.Context, userID int64) ([]model.Ticket, error) {
	u, err := db.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return db.listTickets(ctx, `assignee_handle = ?`, u.GithubHandle)
}

// GetTicketsByPanel lists a panel's tickets sorted by status then priority.
func (db *DB) GetTicketsByPanel(ctx context.Context, panelID int64) ([]model.Ticket, error) {
	if _, err := db.GetPanelByID(ctx, panelID); err != nil {
		return nil, err
	}

	return db.listTickets(ctx, `panel_id = ?`, panelID)
}

// GetTicketsByUserHandleAndBoard scopes to one assignee on one board. A
// combination that yields nothing is not-found — the caller asked for a
// specific (handle, board) pairing and there is no such pairing to show.
func (db *DB) GetTicketsByUserHandleAndBoard(ctx context.Context, handle string, boardID int64) ([]model.Ticket, error) {
	tickets, err := db.listTickets(ctx, `assignee_handle = ? AND board_id = ?`, handle, boardID)
	if err != nil {
		return nil, err
	}
	if len(tickets) == 0 {
		return nil, apperror.NotFound("tickets", fmt.Sprintf("%s on board %d", handle, boardID))
	}
	return tickets, nil
}

func (db *DB) listTickets(ctx context.Context, where string, args ...any) ([]model.Ticket, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+ticketColumns+` FROM tickets WHERE `+where+ticketOrder, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing tickets where %s: %w", where, err)
	}
	defer rows.Close()

	tickets := []model.Ticket{}
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning ticket row: %w", err)
		}
		tickets = append(tickets, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating tickets: %w", err)
	}
	return tickets, nil
}

// UpdateTicketByID applies the non-nil fields of patch, bumps updated_at
// and returns the updated row.
func (db *DB) UpdateTicketByID(ctx context.Context, id int64, patch model.TicketPatch) (*model.Ticket, error) {
	t, err := db.GetTicketByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		t.Title = *patch.Title
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}
	if patch.Status != nil {
		t.Status = *patch.Status
	}
	if patch.Priority != nil {
		t.Priority = *patch.Priority
	}
	if patch.Type != nil {
		t.Type = *patch.Type
	}
	if patch.AssigneeHandle != nil {
		t.AssigneeHandle = *patch.AssigneeHandle
	}
	if patch.PanelID != nil {
		t.PanelID = *patch.PanelID
	}
	if patch.BoardID != nil {
		t.BoardID = *patch.BoardID
	}
	t.UpdatedAt = time.Now()

	_, err = db.conn.ExecContext(ctx,
		`UPDATE tickets SET title = ?, description = ?, status = ?, priority = ?,
		 type = ?, updated_at = ?, assignee_handle = ?, panel_id = ?, board_id = ?
		 WHERE id = ?`,
		t.Title, t.Description, t.Status, t.Priority, t.Type, t.UpdatedAt,
		t.AssigneeHandle, t.PanelID, t.BoardID, id,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, apperror.NotFound("ticket reference", id)
		}
		return nil, fmt.Errorf("sqlite: updating ticket %d: %w", id, err)
	}
	return t, nil
}
