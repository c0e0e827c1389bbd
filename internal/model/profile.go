package model

import "time"

// Profile holds the optional contact record created alongside a User during
// OAuth onboarding. 1:1 with a User via users.profile_id.
type Profile struct {
	ID        int64     `json:"id"`
	First     string    `json:"first"`
	Last      string    `json:"last"`
	Display   string    `json:"display"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Auth credential types. A record is one or the other, never both.
const (
	AuthTypeOAuth    = "oauth"
	AuthTypePassword = "password"
)

// Auth is a credential record owned by a Profile. For type "oauth" only
// OauthID is set; for type "password" only Password (a bcrypt hash, which
// embeds its own salt — the salt column exists for schema compatibility and
// stays empty). Deleted with its Profile (cascade).
type Auth struct {
	ID        int64  `json:"id"`
	Type      string `json:"type"`
	OauthID   string `json:"oauth_id,omitempty"`
	Password  string `json:"-"`
	Salt      string `json:"-"`
	ProfileID int64  `json:"profile_id"`
}
