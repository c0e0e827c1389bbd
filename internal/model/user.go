// Package model defines the data structures used throughout the application.
package model

// User is the central identity record. Every other entity's ownership and
// assignment fields point at it — boards by owner_id, tickets by creator_id
// and assignee_handle, invites by invitee_handle.
//
// GithubHandle is UNIQUE and NOT NULL in the schema and doubles as the
// lookup key for ticket assignment and invites; the numeric id exists for
// foreign keys and URLs.
//
// APIKey is sensitive: the default reads leave it empty. Only
// GetUserByIDUnhidden and GetUserByAPIKey populate it.
type User struct {
	ID           int64  `json:"id"`
	Email        string `json:"email"`
	GithubHandle string `json:"github_handle"`
	ProfilePhoto string `json:"profile_photo"`
	OauthID      string `json:"oauth_id"`
	APIKey       string `json:"api_key,omitempty"`
	Verified     bool   `json:"verified"`
	ProfileID    *int64 `json:"profile_id,omitempty"`
}

// UserPatch carries a partial update. Nil fields are left unchanged.
type UserPatch struct {
	Email        *string
	GithubHandle *string
	ProfilePhoto *string
	OauthID      *string
	APIKey       *string
	Verified     *bool
}

// Invitee is the aggregate view returned by GetInvitees/GetRecentlyAdded:
// a user plus the ordered list of boards they hold pending invites to.
// Board order is invite creation order.
type Invitee struct {
	User
	InvitedToBoards []Board `json:"invitedToBoards"`
}
