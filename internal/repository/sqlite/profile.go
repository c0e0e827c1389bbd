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

// compile-time check that *DB implements repository.ProfileStore
var _ repository.ProfileStore = (*DB)(nil)

// CreateProfile inserts a contact profile. A duplicate email is a conflict —
// profiles are 1:1 with accounts and the email is the natural key. An empty
// email is stored as NULL so that accounts without one (GitHub lets users
// hide it) don't collide on the unique constraint.
func (db *DB) CreateProfile(ctx context.Context, profile *model.Profile) error {
	now := time.Now()
	profile.CreatedAt = now
	profile.UpdatedAt = now

	res, err := db.conn.ExecContext(ctx,
		`INSERT INTO profiles (first, last, display, email, phone, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		profile.First,
		profile.Last,
		profile.Display,
		sql.NullString{String: profile.Email, Valid: profile.Email != ""},
		profile.Phone,
		profile.CreatedAt,
		profile.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("profile", profile.Email)
		}
		return fmt.Errorf("sqlite: creating profile: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading new profile id: %w", err)
	}
	profile.ID = id
	return nil
}

func (db *DB) GetProfileByID(ctx context.Context, id int64) (*model.Profile, error) {
	var p model.Profile
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, COALESCE(first, ''), COALESCE(last, ''), COALESCE(display, ''),
		        COALESCE(email, ''), COALESCE(phone, ''), created_at, updated_at
		 FROM profiles WHERE id = ?`, id,
	).Scan(&p.ID, &p.First, &p.Last, &p.Display, &p.Email, &p.Phone, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("profile", id)
		}
		return nil, fmt.Errorf("sqlite: getting profile %d: %w", id, err)
	}
	return &p, nil
}

// DeleteProfileByID deletes a profile; its auth records cascade with it.
// Same delete contract as users: "delete error" when nothing matched.
func (db *DB) DeleteProfileByID(ctx context.Context, id int64) (model.Status, error) {
	res, err := db.conn.ExecContext(ctx, `DELETE FROM profiles WHERE id = ?`, id)
	if err != nil {
		return "", fmt.Errorf("sqlite: deleting profile %d: %w", id, err)
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

// CreateAuth records a credential for a profile. Fails with ErrNotFound if
// the profile doesn't exist (foreign key) and ErrValidation if the record
// mixes credential types.
func (db *DB) CreateAuth(ctx context.Context, auth *model.Auth) error {
	switch auth.Type {
	case model.AuthTypeOAuth:
		if auth.Password != "" {
			return apperror.ValidationFailed("password", "oauth credentials must not carry a password")
		}
	case model.AuthTypePassword:
		if auth.OauthID != "" {
			return apperror.ValidationFailed("oauth_id", "password credentials must not carry an oauth_id")
		}
	default:
		return apperror.ValidationFailed("type", "auth type must be oauth or password")
	}

	res, err := db.conn.ExecContext(ctx,
		`INSERT INTO auths (type, oauth_id, password, salt, profile_id)
		 VALUES (?, ?, ?, ?, ?)`,
		auth.Type,
		auth.OauthID,
		auth.Password,
		auth.Salt,
		auth.ProfileID,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperror.NotFound("profile", auth.ProfileID)
		}
		return fmt.Errorf("sqlite: creating auth: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading new auth id: %w", err)
	}
	auth.ID = id
	return nil
}

func (db *DB) GetAuthsByProfile(ctx context.Context, profileID int64) ([]model.Auth, error) {
	if _, err := db.GetProfileByID(ctx, profileID); err != nil {
		return nil, err
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, type, COALESCE(oauth_id, ''), COALESCE(password, ''),
		        COALESCE(salt, ''), profile_id
		 FROM auths WHERE profile_id = ? ORDER BY id`, profileID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing auths for profile %d: %w", profileID, err)
	}
	defer rows.Close()

	var auths []model.Auth
	for rows.Next() {
		var a model.Auth
		if err := rows.Scan(&a.ID, &a.Type, &a.OauthID, &a.Password, &a.Salt, &a.ProfileID); err != nil {
			return nil, fmt.Errorf("sqlite: scanning auth row: %w", err)
		}
		auths = append(auths, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating auths: %w", err)
	}
	return auths, nil
}
