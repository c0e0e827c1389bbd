package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/sakif/boardhouse/internal/apperror"
	"github.com/sakif/boardhouse/internal/model"
)

// newTestDB opens an in-memory database with the full schema. Each test
// gets its own — fast, isolated, destroyed on close.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// createTestUser creates a user and fails the test if it errors.
func createTestUser(t *testing.T, db *DB, handle string) *model.User {
	t.Helper()
	user := &model.User{
		GithubHandle: handle,
		Email:        handle + "@example.com",
		ProfilePhoto: "https://avatars.example.com/" + handle,
		OauthID:      "oauth-" + handle,
		APIKey:       "key-" + handle,
		Verified:     true,
	}
	if err := db.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("failed to create test user %s: %v", handle, err)
	}
	return user
}

// createTestBoard creates a board owned by ownerID.
func createTestBoard(t *testing.T, db *DB, name string, ownerID int64) *model.Board {
	t.Helper()
	board := &model.Board{
		BoardName: name,
		RepoName:  name + "-repo",
		RepoURL:   "https://github.com/example/" + name,
		OwnerID:   ownerID,
	}
	if err := db.CreateBoard(context.Background(), board); err != nil {
		t.Fatalf("failed to create test board %s: %v", name, err)
	}
	return board
}

// createTestPanel creates a panel on a board. dueDate may be "".
func createTestPanel(t *testing.T, db *DB, name string, boardID int64, dueDate string) *model.Panel {
	t.Helper()
	panel := &model.Panel{Name: name, BoardID: boardID}
	if dueDate != "" {
		panel.DueDate = &dueDate
	}
	if err := db.CreatePanel(context.Background(), panel); err != nil {
		t.Fatalf("failed to create test panel %s: %v", name, err)
	}
	return panel
}

// createTestTicket creates a ticket with the given status/priority,
// assigned to assignee on the given panel and board.
func createTestTicket(t *testing.T, db *DB, title, status string, priority int, creatorID int64, assignee string, panelID, boardID int64) *model.Ticket {
	t.Helper()
	ticket := &model.Ticket{
		Title:          title,
		Description:    "test ticket",
		Status:         status,
		Priority:       priority,
		Type:           "feature",
		CreatorID:      creatorID,
		AssigneeHandle: assignee,
		PanelID:        panelID,
		BoardID:        boardID,
	}
	if err := db.CreateTicket(context.Background(), ticket); err != nil {
		t.Fatalf("failed to create test ticket %s: %v", title, err)
	}
	return ticket
}

// =========================================================================
// SCHEMA TESTS
// =========================================================================

func TestMigrateIsIdempotent(t *testing.T) {
	db := newTestDB(t)

	// Running migrations again on a populated schema must be a no-op.
	if err := db.migrate(); err != nil {
		t.Fatalf("second migrate() error = %v", err)
	}
}

func TestDropRemovesAllTables(t *testing.T) {
	db := newTestDB(t)
	u := createTestUser(t, db, "dropuser")
	createTestBoard(t, db, "dropboard", u.ID)

	if err := db.Drop(); err != nil {
		t.Fatalf("Drop() error = %v", err)
	}

	// With the tables gone, any query should fail.
	var count int
	err := db.conn.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&count)
	if err == nil {
		t.Fatal("users table still exists after Drop()")
	}

	// And migrating again restores a clean schema.
	if err := db.migrate(); err != nil {
		t.Fatalf("migrate() after Drop() error = %v", err)
	}
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		t.Fatalf("querying users after re-migrate: %v", err)
	}
	if count != 0 {
		t.Errorf("users count after re-migrate = %d, want 0", count)
	}
}

func TestForeignKeysEnforcedOnEveryConnection(t *testing.T) {
	// File-backed so the pool can actually hand out multiple connections,
	// with idle reuse disabled so each statement runs on a fresh one. If
	// foreign_keys were set per-connection instead of in the DSN, the fresh
	// connections would open with SQLite's default (OFF) and the insert
	// below would succeed.
	db, err := New(filepath.Join(t.TempDir(), "fk.db"))
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	db.conn.SetMaxIdleConns(0)

	ctx := context.Background()

	board := &model.Board{BoardName: "orphanboard", OwnerID: 999}
	if err := db.CreateBoard(ctx, board); !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("CreateBoard with nonexistent owner error = %v, want ErrNotFound", err)
	}

	// Cascades need foreign keys too, and this delete runs on yet another
	// fresh connection.
	owner := createTestUser(t, db, "fkowner")
	createTestBoard(t, db, "fkboard", owner.ID)
	if _, err := db.DeleteUserByID(ctx, owner.ID); err != nil {
		t.Fatalf("DeleteUserByID() error = %v", err)
	}
	var count int
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM boards`).Scan(&count); err != nil {
		t.Fatalf("counting boards: %v", err)
	}
	if count != 0 {
		t.Errorf("boards count after owner delete = %d, want 0", count)
	}
}

func TestCascadeDeleteOwner(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	owner := createTestUser(t, db, "cascadeowner")
	board := createTestBoard(t, db, "cascadeboard", owner.ID)
	panel := createTestPanel(t, db, "cascadepanel", board.ID, "")
	createTestTicket(t, db, "cascadeticket", "todo", 1, owner.ID, owner.GithubHandle, panel.ID, board.ID)

	status, err := db.DeleteUserByID(ctx, owner.ID)
	if err != nil {
		t.Fatalf("DeleteUserByID() error = %v", err)
	}
	if status != model.StatusSuccess {
		t.Fatalf("DeleteUserByID() status = %q, want %q", status, model.StatusSuccess)
	}

	// The whole subtree goes with the owner: board, panel, ticket.
	for _, q := range []string{
		`SELECT COUNT(*) FROM boards`,
		`SELECT COUNT(*) FROM panels`,
		`SELECT COUNT(*) FROM tickets`,
	} {
		var count int
		if err := db.conn.QueryRow(q).Scan(&count); err != nil {
			t.Fatalf("%s: %v", q, err)
		}
		if count != 0 {
			t.Errorf("%s = %d, want 0 after owner delete", q, count)
		}
	}
}
