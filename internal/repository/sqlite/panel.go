package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sakif/boardhouse/internal/apperror"
	"github.com/sakif/boardhouse/internal/model"
	"github.com/sakif/boardhouse/internal/repository"
)

// compile-time check that *DB implements repository.PanelStore
var _ repository.PanelStore = (*DB)(nil)

// CreatePanel inserts a panel. The board is verified first (missing board =
// not-found); a taken panel name is a conflict.
func (db *DB) CreatePanel(ctx context.Context, panel *model.Panel) error {
	if _, err := db.GetBoardByID(ctx, panel.BoardID); err != nil {
		return err
	}

	res, err := db.conn.ExecContext(ctx,
		`INSERT INTO panels (name, due_date, board_id) VALUES (?, ?, ?)`,
		panel.Name,
		panel.DueDate,
		panel.BoardID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("panel", panel.Name)
		}
		return fmt.Errorf("sqlite: creating panel %s: %w", panel.Name, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading new panel id: %w", err)
	}
	panel.ID = id
	return nil
}

func (db *DB) GetPanelByID(ctx context.Context, id int64) (*model.Panel, error) {
	var p model.Panel
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, name, due_date, board_id FROM panels WHERE id = ?`, id,
	).Scan(&p.ID, &p.Name, &p.DueDate, &p.BoardID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("panel", id)
		}
		return nil, fmt.Errorf("sqlite: getting panel %d: %w", id, err)
	}
	return &p, nil
}

// GetPanelsByBoard lists the panels on a board ordered by due_date
// ascending. Panels without a due date sort first (SQLite puts NULLs first
// in ASC order); an empty board gets an empty slice, a missing board gets
// ErrNotFound.
func (db *DB) GetPanelsByBoard(ctx context.Context, boardID int64) ([]model.Panel, error) {
	if _, err := db.GetBoardByID(ctx, boardID); err != nil {
		return nil, err
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, name, due_date, board_id FROM panels
		 WHERE board_id = ? ORDER BY due_date ASC`, boardID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing panels for board %d: %w", boardID, err)
	}
	defer rows.Close()

	panels := []model.Panel{}
	for rows.Next() {
		var p model.Panel
		if err := rows.Scan(&p.ID, &p.Name, &p.DueDate, &p.BoardID); err != nil {
			return nil, fmt.Errorf("sqlite: scanning panel row: %w", err)
		}
		panels = append(panels, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating panels: %w", err)
	}
	return panels, nil
}

// UpdatePanelByID applies the non-nil fields of patch and returns the
// updated row. Moving a panel to a board that doesn't exist is not-found.
func (db *DB) UpdatePanelByID(ctx context.Context, id int64, patch model.PanelPatch) (*model.Panel, error) {
	p, err := db.GetPanelByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.DueDate != nil {
		p.DueDate = patch.DueDate
	}
	if patch.BoardID != nil {
		p.BoardID = *patch.BoardID
	}

	_, err = db.conn.ExecContext(ctx,
		`UPDATE panels SET name = ?, due_date = ?, board_id = ? WHERE id = ?`,
		p.Name, p.DueDate, p.BoardID, id,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperror.Conflict("panel", p.Name)
		}
		if isForeignKeyViolation(err) {
			return nil, apperror.NotFound("board", p.BoardID)
		}
		return nil, fmt.Errorf("sqlite: updating panel %d: %w", id, err)
	}
	return p, nil
}
