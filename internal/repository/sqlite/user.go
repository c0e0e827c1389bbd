package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sakif/boardhouse/internal/apperror"
	"github.com/sakif/boardhouse/internal/model"
	"github.com/sakif/boardhouse/internal/repository"
)

// compile-time check that *DB implements repository.UserStore
var _ repository.UserStore = (*DB)(nil)

// userColumns is the default projection: api_key deliberately excluded.
// Sensitive fields only travel through the Unhidden/ByAPIKey lookups.
const userColumns = `id, COALESCE(email, ''), github_handle, COALESCE(profile_photo, ''),
	COALESCE(oauth_id, ''), verified, profile_id`

func scanUser(row interface{ Scan(...any) error }) (*model.User, error) {
	var u model.User
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.GithubHandle,
		&u.ProfilePhoto,
		&u.OauthID,
		&u.Verified,
		&u.ProfileID,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUser inserts a new user. Verified defaults to true in the schema;
// callers that want an unverified account set user.Verified=false AND pass
// it through (the insert always writes the field explicitly, so the struct
// zero value wins over the column default — set Verified before calling).
func (db *DB) CreateUser(ctx context.Context, user *model.User) error {
	res, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (email, github_handle, profile_photo, oauth_id, api_key, verified, profile_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		user.Email,
		user.GithubHandle,
		user.ProfilePhoto,
		user.OauthID,
		user.APIKey,
		user.Verified,
		user.ProfileID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("user", user.GithubHandle)
		}
		return fmt.Errorf("sqlite: creating user %s: %w", user.GithubHandle, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading new user id: %w", err)
	}
	user.ID = id
	return nil
}

// GetUserByID retrieves a user with sensitive fields blanked.
func (db *DB) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	u, err := scanUser(db.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", id)
		}
		return nil, fmt.Errorf("sqlite: getting user %d: %w", id, err)
	}
	return u, nil
}

// GetUserByIDUnhidden retrieves a user including api_key. For handlers that
// hand a freshly onboarded user their own credentials — never for listings.
func (db *DB) GetUserByIDUnhidden(ctx context.Context, id int64) (*model.User, error) {
	u, err := db.getUserUnhiddenWhere(ctx, "id = ?", id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", id)
		}
		return nil, fmt.Errorf("sqlite: getting user %d unhidden: %w", id, err)
	}
	return u, nil
}

// GetUserByAPIKey resolves a request credential to its user.
func (db *DB) GetUserByAPIKey(ctx context.Context, key string) (*model.User, error) {
	u, err := db.getUserUnhiddenWhere(ctx, "api_key = ?", key)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", "api key")
		}
		return nil, fmt.Errorf("sqlite: getting user by api key: %w", err)
	}
	return u, nil
}

func (db *DB) getUserUnhiddenWhere(ctx context.Context, where string, arg any) (*model.User, error) {
	var u model.User
	err := db.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+`, COALESCE(api_key, '') FROM users WHERE `+where, arg,
	).Scan(
		&u.ID,
		&u.Email,
		&u.GithubHandle,
		&u.ProfilePhoto,
		&u.OauthID,
		&u.Verified,
		&u.ProfileID,
		&u.APIKey,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUserByEmailNoError looks a user up by email without treating a miss as
// an error: absent users come back as (nil, StatusNonexistingUser, nil).
// The explicit non-throwing variant exists for flows that must not branch
// on error — onboarding checks an email before deciding to create anything.
func (db *DB) GetUserByEmailNoError(ctx context.Context, email string) (*model.User, model.Status, error) {
	u, err := scanUser(db.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.StatusNonexistingUser, nil
		}
		return nil, "", fmt.Errorf("sqlite: getting user by email: %w", err)
	}
	return u, model.StatusSuccess, nil
}

// GetUserByHandleNoError is the handle-keyed twin of GetUserByEmailNoError.
// github_handle is UNIQUE and always present, so this is the lookup
// onboarding trusts; email is optional and not unique.
func (db *DB) GetUserByHandleNoError(ctx context.Context, handle string) (*model.User, model.Status, error) {
	u, err := scanUser(db.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE github_handle = ?`, handle))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.StatusNonexistingUser, nil
		}
		return nil, "", fmt.Errorf("sqlite: getting user by handle: %w", err)
	}
	return u, model.StatusSuccess, nil
}

// UpdateUserByID applies the non-nil fields of patch and returns the
// updated row. Fetch-then-update: confirm the row exists, apply the patch
// in memory, write the whole row back.
func (db *DB) UpdateUserByID(ctx context.Context, id int64, patch model.UserPatch) (*model.User, error) {
	u, err := db.GetUserByIDUnhidden(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Email != nil {
		u.Email = *patch.Email
	}
	if patch.GithubHandle != nil {
		u.GithubHandle = *patch.GithubHandle
	}
	if patch.ProfilePhoto != nil {
		u.ProfilePhoto = *patch.ProfilePhoto
	}
	if patch.OauthID != nil {
		u.OauthID = *patch.OauthID
	}
	if patch.APIKey != nil {
		u.APIKey = *patch.APIKey
	}
	if patch.Verified != nil {
		u.Verified = *patch.Verified
	}

	_, err = db.conn.ExecContext(ctx,
		`UPDATE users SET email = ?, github_handle = ?, profile_photo = ?,
		 oauth_id = ?, api_key = ?, verified = ? WHERE id = ?`,
		u.Email, u.GithubHandle, u.ProfilePhoto, u.OauthID, u.APIKey, u.Verified, id,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperror.Conflict("user", u.GithubHandle)
		}
		return nil, fmt.Errorf("sqlite: updating user %d: %w", id, err)
	}

	// Return the same shape as GetUserByID: api_key blanked — unless the
	// patch itself set the key, in which case the caller is rotating it
	// and needs the stored value back as confirmation.
	if patch.APIKey == nil {
		u.APIKey = ""
	}
	return u, nil
}

// DeleteUserByID deletes a user. Reports "delete error" when no row
// matched — nothing to delete is a notable outcome, not a failure.
// Boards owned by the user (and their panels, tickets, memberships and
// invites) go with them via the cascade graph.
func (db *DB) DeleteUserByID(ctx context.Context, id int64) (model.Status, error) {
	res, err := db.conn.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return "", fmt.Errorf("sqlite: deleting user %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return "", fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if n == 0 {
		return model.StatusDeleteError, nil
	}
	return model.StatusSuccess, nil
}

// HandleExists reports whether a github_handle is taken. Never fails on a
// miss — it's a probe, not a lookup.
func (db *DB) HandleExists(ctx context.Context, handle string) (bool, error) {
	return db.existsWhere(ctx, "github_handle = ?", handle)
}

// EmailExists reports whether any user has the given email.
func (db *DB) EmailExists(ctx context.Context, email string) (bool, error) {
	return db.existsWhere(ctx, "email = ?", email)
}

// VerifiedEmail is true only when a user with the email exists AND is
// verified. "Not found" and "found but unverified" both come back false —
// callers can't tell them apart, which avoids leaking which emails are
// registered.
func (db *DB) VerifiedEmail(ctx context.Context, email string) (bool, error) {
	return db.existsWhere(ctx, "email = ? AND verified = 1", email)
}

func (db *DB) existsWhere(ctx context.Context, where string, args ...any) (bool, error) {
	var count int
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE `+where, args...,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("sqlite: checking users where %s: %w", where, err)
	}
	return count > 0, nil
}
