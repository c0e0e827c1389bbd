package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sakif/boardhouse/internal/apperror"
	"github.com/sakif/boardhouse/internal/model"
	"github.com/sakif/boardhouse/internal/repository"
)

// compile-time check that *DB implements repository.BoardStore
var _ repository.BoardStore = (*DB)(nil)

const boardColumns = `id, board_name, COALESCE(repo_name, ''), COALESCE(repo_url, ''), owner_id`

func scanBoard(row interface{ Scan(...any) error }) (*model.Board, error) {
	var b model.Board
	if err := row.Scan(&b.ID, &b.BoardName, &b.RepoName, &b.RepoURL, &b.OwnerID); err != nil {
		return nil, err
	}
	return &b, nil
}

// CreateBoard inserts a board. A taken board_name is a conflict; an owner
// that doesn't resolve is not-found (foreign key).
func (db *DB) CreateBoard(ctx context.Context, board *model.Board) error {
	res, err := db.conn.ExecContext(ctx,
		`INSERT INTO boards (board_name, repo_name, repo_url, owner_id)
		 VALUES (?, ?, ?, ?)`,
		board.BoardName,
		board.RepoName,
		board.RepoURL,
		board.OwnerID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("board", board.BoardName)
		}
		if isForeignKeyViolation(err) {
			return apperror.NotFound("user", board.OwnerID)
		}
		return fmt.Errorf("sqlite: creating board %s: %w", board.BoardName, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading new board id: %w", err)
	}
	board.ID = id
	return nil
}

func (db *DB) GetBoardByID(ctx context.Context, id int64) (*model.Board, error) {
	b, err := scanBoard(db.conn.QueryRowContext(ctx,
		`SELECT `+boardColumns+` FROM boards WHERE id = ?`, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("board", id)
		}
		return nil, fmt.Errorf("sqlite: getting board %d: %w", id, err)
	}
	return b, nil
}

// GetBoardByRepoURL finds the board tracking a GitHub repository. Webhook
// deliveries only know the repo URL, so this is their entry point.
func (db *DB) GetBoardByRepoURL(ctx context.Context, repoURL string) (*model.Board, error) {
	b, err := scanBoard(db.conn.QueryRowContext(ctx,
		`SELECT `+boardColumns+` FROM boards WHERE repo_url = ?`, repoURL))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("board", repoURL)
		}
		return nil, fmt.Errorf("sqlite: getting board by repo url: %w", err)
	}
	return b, nil
}

// UpdateBoardByID applies the non-nil fields of patch and returns the
// updated row. Non-patched fields are untouched.
func (db *DB) UpdateBoardByID(ctx context.Context, id int64, patch model.BoardPatch) (*model.Board, error) {
	b, err := db.GetBoardByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.BoardName != nil {
		b.BoardName = *patch.BoardName
	}
	if patch.RepoName != nil {
		b.RepoName = *patch.RepoName
	}
	if patch.RepoURL != nil {
		b.RepoURL = *patch.RepoURL
	}
	if patch.OwnerID != nil {
		b.OwnerID = *patch.OwnerID
	}

	_, err = db.conn.ExecContext(ctx,
		`UPDATE boards SET board_name = ?, repo_name = ?, repo_url = ?, owner_id = ?
		 WHERE id = ?`,
		b.BoardName, b.RepoName, b.RepoURL, b.OwnerID, id,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperror.Conflict("board", b.BoardName)
		}
		if isForeignKeyViolation(err) {
			return nil, apperror.NotFound("user", b.OwnerID)
		}
		return nil, fmt.Errorf("sqlite: updating board %d: %w", id, err)
	}
	return b, nil
}
