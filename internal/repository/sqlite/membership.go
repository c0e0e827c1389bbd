package sqlite

import (
	"context"
	"fmt"

	"github.com/sakif/boardhouse/internal/apperror"
	"github.com/sakif/boardhouse/internal/model"
	"github.com/sakif/boardhouse/internal/repository"
)

// compile-time check that *DB implements repository.MembershipStore
var _ repository.MembershipStore = (*DB)(nil)

// AddUserToBoard links a user to a board. Both sides are verified first so
// a missing user and a missing board each surface as not-found rather than
// a bare foreign-key failure. An already-linked pair is a conflict — the
// UNIQUE(user_id, board_id) constraint arbitrates races, so two concurrent
// adds resolve to one membership and one ErrConflict.
func (db *DB) AddUserToBoard(ctx context.Context, userID, boardID int64) error {
	if _, err := db.GetUserByID(ctx, userID); err != nil {
		return err
	}
	if _, err := db.GetBoardByID(ctx, boardID); err != nil {
		return err
	}

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO boards_users (user_id, board_id) VALUES (?, ?)`,
		userID, boardID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("membership", fmt.Sprintf("user %d on board %d", userID, boardID))
		}
		return fmt.Errorf("sqlite: adding user %d to board %d: %w", userID, boardID, err)
	}
	return nil
}

// GetBoardsByUser lists the boards a user belongs to, in membership order.
// A user with no memberships gets an empty slice; a user that doesn't exist
// gets ErrNotFound. "Entity missing" and "entity exists but has nothing"
// are different answers, and every listing query here keeps them apart.
func (db *DB) GetBoardsByUser(ctx context.Context, userID int64) ([]model.Board, error) {
	if _, err := db.GetUserByID(ctx, userID); err != nil {
		return nil, err
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT b.id, b.board_name, COALESCE(b.repo_name, ''), COALESCE(b.repo_url, ''), b.owner_id
		 FROM boards b
		 JOIN boards_users bu ON bu.board_id = b.id
		 WHERE bu.user_id = ?
		 ORDER BY bu.id`, userID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing boards for user %d: %w", userID, err)
	}
	defer rows.Close()

	boards := []model.Board{}
	for rows.Next() {
		var b model.Board
		if err := rows.Scan(&b.ID, &b.BoardName, &b.RepoName, &b.RepoURL, &b.OwnerID); err != nil {
			return nil, fmt.Errorf("sqlite: scanning board row: %w", err)
		}
		boards = append(boards, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating boards: %w", err)
	}
	return boards, nil
}

// GetUsersByBoard is the symmetric listing: members of a board, in
// membership order, api_key excluded.
func (db *DB) GetUsersByBoard(ctx context.Context, boardID int64) ([]model.User, error) {
	if _, err := db.GetBoardByID(ctx, boardID); err != nil {
		return nil, err
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT u.id, COALESCE(u.email, ''), u.github_handle, COALESCE(u.profile_photo, ''),
		        COALESCE(u.oauth_id, ''), u.verified, u.profile_id
		 FROM users u
		 JOIN boards_users bu ON bu.user_id = u.id
		 WHERE bu.board_id = ?
		 ORDER BY bu.id`, boardID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing users for board %d: %w", boardID, err)
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning user row: %w", err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating users: %w", err)
	}
	return users, nil
}
