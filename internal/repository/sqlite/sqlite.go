// Package sqlite implements the repository interfaces using SQLite as the
// storage backend.
//
// The driver is modernc.org/sqlite (pure Go, no CGo toolchain needed).
//
// Every store call is one request-scoped unit of work: one or a small fixed
// number of statements, no cross-call transactional coupling. Concurrent
// invites or membership adds may race; the UNIQUE constraints are the sole
// arbiter, so the loser of a race surfaces as a conflict or the
// duplicate-invite sentinel, never as corrupt data.
package sqlite

import (
	"database/sql"
	"fmt"
	"strings"

	// Side-effect import: registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool and implements all of the repository
// store interfaces. One struct rather than one per entity: the stores share
// a schema and cross-check each other's tables (invites verify users and
// boards exist), so splitting them buys nothing.
type DB struct {
	conn *sql.DB
}

// New opens (or creates) the database at dbPath and runs migrations.
// Use ":memory:" for tests.
//
// The pragmas ride in the DSN, not a one-off Exec: sql.DB is a pool, and a
// PRAGMA executed on one connection leaves every other pooled connection at
// SQLite's defaults. Foreign keys are OFF by default, and the whole cascade
// graph (users → boards → panels → tickets, profiles → auths) depends on
// them, so every connection must open with foreign_keys=1. WAL allows
// concurrent reads while a write is in flight, which is exactly our access
// pattern.
func New(dbPath string) (*DB, error) {
	dsn := dbPath + "?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"

	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// Each :memory: connection is its own empty database, so the pool must
	// be a single connection or the migrated schema vanishes between calls.
	if dbPath == ":memory:" {
		conn.SetMaxOpenConns(1)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the database connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema. CREATE TABLE IF NOT EXISTS keeps it idempotent.
//
// The unique constraints double as the domain invariants: one account per
// github_handle, one board per name, one panel per name, one membership and
// one pending invite per (user, board) pair.
func (db *DB) migrate() error {
	stmts := []struct {
		name string
		sql  string
	}{
		{"profiles", `
			CREATE TABLE IF NOT EXISTS profiles (
				id         INTEGER PRIMARY KEY AUTOINCREMENT,
				first      TEXT,
				last       TEXT,
				display    TEXT,
				email      TEXT UNIQUE,
				phone      TEXT,
				created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
			);`},
		{"auths", `
			CREATE TABLE IF NOT EXISTS auths (
				id         INTEGER PRIMARY KEY AUTOINCREMENT,
				type       TEXT NOT NULL,
				oauth_id   TEXT,
				password   TEXT,
				salt       TEXT,
				profile_id INTEGER REFERENCES profiles(id) ON DELETE CASCADE
			);`},
		{"users", `
			CREATE TABLE IF NOT EXISTS users (
				id            INTEGER PRIMARY KEY AUTOINCREMENT,
				email         TEXT,
				github_handle TEXT NOT NULL UNIQUE,
				profile_photo TEXT,
				oauth_id      TEXT,
				api_key       TEXT,
				verified      INTEGER NOT NULL DEFAULT 1,
				profile_id    INTEGER REFERENCES profiles(id) ON DELETE SET NULL
			);`},
		{"boards", `
			CREATE TABLE IF NOT EXISTS boards (
				id         INTEGER PRIMARY KEY AUTOINCREMENT,
				board_name TEXT NOT NULL UNIQUE,
				repo_name  TEXT,
				repo_url   TEXT,
				owner_id   INTEGER REFERENCES users(id) ON DELETE CASCADE
			);`},
		{"boards_users", `
			CREATE TABLE IF NOT EXISTS boards_users (
				id       INTEGER PRIMARY KEY AUTOINCREMENT,
				user_id  INTEGER REFERENCES users(id) ON DELETE CASCADE,
				board_id INTEGER REFERENCES boards(id) ON DELETE CASCADE,
				UNIQUE (user_id, board_id)
			);`},
		{"boards_invites", `
			CREATE TABLE IF NOT EXISTS boards_invites (
				id             INTEGER PRIMARY KEY AUTOINCREMENT,
				invitee_handle TEXT REFERENCES users(github_handle) ON DELETE CASCADE,
				board_id       INTEGER REFERENCES boards(id) ON DELETE CASCADE,
				last_email     DATETIME,
				UNIQUE (invitee_handle, board_id)
			);`},
		{"panels", `
			CREATE TABLE IF NOT EXISTS panels (
				id       INTEGER PRIMARY KEY AUTOINCREMENT,
				name     TEXT NOT NULL UNIQUE,
				due_date TEXT,
				board_id INTEGER REFERENCES boards(id) ON DELETE CASCADE
			);`},
		{"tickets", `
			CREATE TABLE IF NOT EXISTS tickets (
				id              INTEGER PRIMARY KEY AUTOINCREMENT,
				title           TEXT NOT NULL,
				description     TEXT,
				status          TEXT NOT NULL,
				priority        INTEGER NOT NULL,
				type            TEXT,
				created_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
				creator_id      INTEGER REFERENCES users(id) ON DELETE CASCADE,
				assignee_handle TEXT REFERENCES users(github_handle) ON DELETE CASCADE,
				panel_id        INTEGER REFERENCES panels(id) ON DELETE CASCADE,
				board_id        INTEGER REFERENCES boards(id) ON DELETE CASCADE
			);
			CREATE INDEX IF NOT EXISTS idx_tickets_assignee ON tickets(assignee_handle);
			CREATE INDEX IF NOT EXISTS idx_tickets_panel ON tickets(panel_id);
			CREATE INDEX IF NOT EXISTS idx_tickets_board ON tickets(board_id);`},
	}

	for _, s := range stmts {
		if _, err := db.conn.Exec(s.sql); err != nil {
			return fmt.Errorf("creating %s table: %w", s.name, err)
		}
	}
	return nil
}

// Drop reverses the migration, dropping tables in dependency order so no
// foreign key is left dangling mid-teardown: tickets → panels → invites →
// memberships → boards → users → auths → profiles.
func (db *DB) Drop() error {
	for _, table := range []string{
		"tickets",
		"panels",
		"boards_invites",
		"boards_users",
		"boards",
		"users",
		"auths",
		"profiles",
	} {
		if _, err := db.conn.Exec("DROP TABLE IF EXISTS " + table); err != nil {
			return fmt.Errorf("sqlite: dropping %s: %w", table, err)
		}
	}
	return nil
}

// isUniqueViolation reports whether err is a UNIQUE constraint failure.
// modernc's driver exposes the SQLite message verbatim; matching on it keeps
// us off the driver's internal error types.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// isForeignKeyViolation reports whether err is a FOREIGN KEY failure —
// an insert or update pointing at a row that doesn't exist.
func isForeignKeyViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
