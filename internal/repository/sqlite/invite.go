package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/sakif/boardhouse/internal/apperror"
	"github.com/sakif/boardhouse/internal/model"
	"github.com/sakif/boardhouse/internal/repository"
)

// compile-time check that *DB implements repository.InviteStore
var _ repository.InviteStore = (*DB)(nil)

// InviteByBoard records a pending invite for (handle, board).
//
// The invite state machine per pair:
//
//	{none} → InviteByBoard → {pending, last_email = NULL}
//	       → EmailedInvites → {pending, last_email = now}
//	       → UninviteByBoard / DeleteInvites → {none}
//
// Handle and board are verified first so each miss surfaces as not-found.
// An existing pair is NOT an error: the insert hits UNIQUE(invitee_handle,
// board_id) and we report the duplicate-invite sentinel instead, leaving
// the original row (and its last_email state) untouched. Racing invites for
// the same pair therefore collapse to one row.
func (db *DB) InviteByBoard(ctx context.Context, handle string, boardID int64) (*model.Invite, model.Status, error) {
	exists, err := db.HandleExists(ctx, handle)
	if err != nil {
		return nil, "", err
	}
	if !exists {
		return nil, "", apperror.NotFound("user", handle)
	}
	if _, err := db.GetBoardByID(ctx, boardID); err != nil {
		return nil, "", err
	}

	res, err := db.conn.ExecContext(ctx,
		`INSERT INTO boards_invites (invitee_handle, board_id) VALUES (?, ?)`,
		handle, boardID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, model.StatusDuplicateInvite, nil
		}
		return nil, "", fmt.Errorf("sqlite: inviting %s to board %d: %w", handle, boardID, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, "", fmt.Errorf("sqlite: reading new invite id: %w", err)
	}
	return &model.Invite{ID: id, InviteeHandle: handle, BoardID: boardID}, model.StatusSuccess, nil
}

// InviteEmailByBoard is InviteByBoard keyed by email: the email must
// resolve to a registered user (not-found otherwise), and the invite is
// recorded against that user's handle.
func (db *DB) InviteEmailByBoard(ctx context.Context, email string, boardID int64) (*model.Invite, model.Status, error) {
	var handle string
	err := db.conn.QueryRowContext(ctx,
		`SELECT github_handle FROM users WHERE email = ?`, email,
	).Scan(&handle)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, "", apperror.NotFound("user", email)
		}
		return nil, "", fmt.Errorf("sqlite: resolving email %s: %w", email, err)
	}

	return db.InviteByBoard(ctx, handle, boardID)
}

// UninviteByBoard removes a pending invite. The user must exist
// (not-found otherwise); a pair that was never invited reports the
// already-not-invited sentinel rather than failing.
func (db *DB) UninviteByBoard(ctx context.Context, handle string, boardID int64) (model.Status, error) {
	exists, err := db.HandleExists(ctx, handle)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", apperror.NotFound("user", handle)
	}

	res, err := db.conn.ExecContext(ctx,
		`DELETE FROM boards_invites WHERE invitee_handle = ? AND board_id = ?`,
		handle, boardID,
	)
	if err != nil {
		return "", fmt.Errorf("sqlite: uninviting %s from board %d: %w", handle, boardID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return "", fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if n == 0 {
		return model.StatusNotInvited, nil
	}
	return model.StatusSuccess, nil
}

// GetInviteesByBoard lists the users invited to a board, in invite creation
// order. Missing board = not-found; no invites = empty slice.
func (db *DB) GetInviteesByBoard(ctx context.Context, boardID int64) ([]model.User, error) {
	if _, err := db.GetBoardByID(ctx, boardID); err != nil {
		return nil, err
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT u.id, COALESCE(u.email, ''), u.github_handle, COALESCE(u.profile_photo, ''),
		        COALESCE(u.oauth_id, ''), u.verified, u.profile_id
		 FROM users u
		 JOIN boards_invites bi ON bi.invitee_handle = u.github_handle
		 WHERE bi.board_id = ?
		 ORDER BY bi.id`, boardID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing invitees for board %d: %w", boardID, err)
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning invitee row: %w", err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating invitees: %w", err)
	}
	return users, nil
}

// GetInvitees aggregates all pending invites, grouped by user, each user
// carrying the ordered list of boards they're invited to. Users appear in
// first-invite order; each board list is in invite creation order.
func (db *DB) GetInvitees(ctx context.Context) ([]model.Invitee, error) {
	return db.listInvitees(ctx, ``)
}

// GetRecentlyAdded is GetInvitees restricted to invites that have not been
// emailed yet (last_email IS NULL) — the mailer's work queue.
func (db *DB) GetRecentlyAdded(ctx context.Context) ([]model.Invitee, error) {
	return db.listInvitees(ctx, `WHERE bi.last_email IS NULL`)
}

func (db *DB) listInvitees(ctx context.Context, filter string) ([]model.Invitee, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT u.id, COALESCE(u.email, ''), u.github_handle, COALESCE(u.profile_photo, ''),
		        COALESCE(u.oauth_id, ''), u.verified, u.profile_id,
		        b.id, b.board_name, COALESCE(b.repo_name, ''), COALESCE(b.repo_url, ''), b.owner_id
		 FROM boards_invites bi
		 JOIN users u ON u.github_handle = bi.invitee_handle
		 JOIN boards b ON b.id = bi.board_id
		 `+filter+`
		 ORDER BY bi.id`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing invitees: %w", err)
	}
	defer rows.Close()

	// Group in Go rather than SQL: a single ORDER BY bi.id pass gives both
	// the user order (first invite) and the per-user board order for free.
	invitees := []model.Invitee{}
	index := map[int64]int{} // user id → position in invitees
	for rows.Next() {
		var u model.User
		var b model.Board
		err := rows.Scan(
			&u.ID, &u.Email, &u.GithubHandle, &u.ProfilePhoto,
			&u.OauthID, &u.Verified, &u.ProfileID,
			&b.ID, &b.BoardName, &b.RepoName, &b.RepoURL, &b.OwnerID,
		)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning invitee row: %w", err)
		}

		i, seen := index[u.ID]
		if !seen {
			invitees = append(invitees, model.Invitee{User: u})
			i = len(invitees) - 1
			index[u.ID] = i
		}
		invitees[i].InvitedToBoards = append(invitees[i].InvitedToBoards, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating invitees: %w", err)
	}
	return invitees, nil
}

// GetInvitesByUser lists the boards a user holds pending invites to, in
// invite creation order. Missing user = not-found.
func (db *DB) GetInvitesByUser(ctx context.Context, userID int64) ([]model.Board, error) {
	u, err := db.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT b.id, b.board_name, COALESCE(b.repo_name, ''), COALESCE(b.repo_url, ''), b.owner_id
		 FROM boards b
		 JOIN boards_invites bi ON bi.board_id = b.id
		 WHERE bi.invitee_handle = ?
		 ORDER BY bi.id`, u.GithubHandle)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing invites for user %d: %w", userID, err)
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

// EmailedInvites stamps last_email on the given invite ids. Best-effort
// batch: an empty id set — or a set matching no rows — reports "empty"
// without mutating anything; otherwise "success". Unknown ids are skipped,
// never an error.
func (db *DB) EmailedInvites(ctx context.Context, ids []int64) (model.Status, error) {
	if len(ids) == 0 {
		return model.StatusEmpty, nil
	}

	args := append([]any{time.Now()}, idArgs(ids)...)
	res, err := db.conn.ExecContext(ctx,
		`UPDATE boards_invites SET last_email = ? WHERE id IN (`+placeholders(len(ids))+`)`,
		args...,
	)
	if err != nil {
		return "", fmt.Errorf("sqlite: marking invites emailed: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return "", fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if n == 0 {
		return model.StatusEmpty, nil
	}
	return model.StatusSuccess, nil
}

// DeleteInvites removes invites by id, with the same best-effort batch
// semantics as EmailedInvites.
func (db *DB) DeleteInvites(ctx context.Context, ids []int64) (model.Status, error) {
	if len(ids) == 0 {
		return model.StatusEmpty, nil
	}

	res, err := db.conn.ExecContext(ctx,
		`DELETE FROM boards_invites WHERE id IN (`+placeholders(len(ids))+`)`,
		idArgs(ids)...,
	)
	if err != nil {
		return "", fmt.Errorf("sqlite: deleting invites: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return "", fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if n == 0 {
		return model.StatusEmpty, nil
	}
	return model.StatusSuccess, nil
}

// placeholders returns "?, ?, ..., ?" with n question marks.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func idArgs(ids []int64) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}
