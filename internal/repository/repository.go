// Package repository declares the storage interfaces the service layer
// programs against. The sqlite subpackage is the only implementation;
// keeping the interfaces here lets tests substitute fakes and keeps the
// services free of SQL.
package repository

import (
	"context"

	"github.com/sakif/boardhouse/internal/model"
)

type UserStore interface {
	// CreateUser inserts a user (verified defaults to true unless set).
	// Fails with apperror.ErrConflict if github_handle is taken.
	CreateUser(ctx context.Context, user *model.User) error
	// GetUserByID returns the user with api_key blanked.
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
	// GetUserByIDUnhidden includes sensitive fields (api_key).
	GetUserByIDUnhidden(ctx context.Context, id int64) (*model.User, error)
	GetUserByAPIKey(ctx context.Context, key string) (*model.User, error)
	// GetUserByEmailNoError never fails on a miss: it reports
	// model.StatusNonexistingUser instead, for flows that must not branch
	// on error.
	GetUserByEmailNoError(ctx context.Context, email string) (*model.User, model.Status, error)
	// GetUserByHandleNoError is the same non-throwing contract keyed on
	// github_handle. Onboarding branches on this one: handles are unique,
	// emails may be absent (GitHub lets users hide them).
	GetUserByHandleNoError(ctx context.Context, handle string) (*model.User, model.Status, error)
	// UpdateUserByID applies the non-nil patch fields and returns the
	// updated row with api_key blanked, except when the patch set the key:
	// a key rotation gets the stored value back as confirmation.
	UpdateUserByID(ctx context.Context, id int64, patch model.UserPatch) (*model.User, error)
	// DeleteUserByID reports model.StatusDeleteError when nothing matched,
	// model.StatusSuccess otherwise. Idempotent deletes never throw.
	DeleteUserByID(ctx context.Context, id int64) (model.Status, error)
	HandleExists(ctx context.Context, handle string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	// VerifiedEmail is true only when the email exists AND is verified.
	VerifiedEmail(ctx context.Context, email string) (bool, error)
}

type ProfileStore interface {
	CreateProfile(ctx context.Context, profile *model.Profile) error
	GetProfileByID(ctx context.Context, id int64) (*model.Profile, error)
	// DeleteProfileByID cascades to the profile's auth records.
	DeleteProfileByID(ctx context.Context, id int64) (model.Status, error)
	CreateAuth(ctx context.Context, auth *model.Auth) error
	GetAuthsByProfile(ctx context.Context, profileID int64) ([]model.Auth, error)
}

type BoardStore interface {
	// CreateBoard fails with ErrConflict on a duplicate board_name and
	// ErrNotFound when owner_id doesn't resolve.
	CreateBoard(ctx context.Context, board *model.Board) error
	GetBoardByID(ctx context.Context, id int64) (*model.Board, error)
	GetBoardByRepoURL(ctx context.Context, repoURL string) (*model.Board, error)
	UpdateBoardByID(ctx context.Context, id int64, patch model.BoardPatch) (*model.Board, error)
}

type MembershipStore interface {
	// AddUserToBoard fails with ErrNotFound if either side is missing and
	// ErrConflict if the pair already exists.
	AddUserToBoard(ctx context.Context, userID, boardID int64) error
	// GetBoardsByUser returns an empty slice for a user with no memberships
	// but fails with ErrNotFound if the user itself doesn't exist.
	GetBoardsByUser(ctx context.Context, userID int64) ([]model.Board, error)
	GetUsersByBoard(ctx context.Context, boardID int64) ([]model.User, error)
}

type PanelStore interface {
	CreatePanel(ctx context.Context, panel *model.Panel) error
	GetPanelByID(ctx context.Context, id int64) (*model.Panel, error)
	// GetPanelsByBoard returns panels ordered by due_date ascending
	// (panels without a due date sort first).
	GetPanelsByBoard(ctx context.Context, boardID int64) ([]model.Panel, error)
	UpdatePanelByID(ctx context.Context, id int64, patch model.PanelPatch) (*model.Panel, error)
}

type TicketStore interface {
	CreateTicket(ctx context.Context, ticket *model.Ticket) error
	GetTicketByID(ctx context.Context, id int64) (*model.Ticket, error)
	// The listing queries order by status ascending, then priority
	// ascending within a status.
	GetTicketsByUser(ctx context.Context, userID int64) ([]model.Ticket, error)
	GetTicketsByPanel(ctx context.Context, panelID int64) ([]model.Ticket, error)
	// GetTicketsByUserHandleAndBoard fails with ErrNotFound when the
	// combination matches nothing.
	GetTicketsByUserHandleAndBoard(ctx context.Context, handle string, boardID int64) ([]model.Ticket, error)
	UpdateTicketByID(ctx context.Context, id int64, patch model.TicketPatch) (*model.Ticket, error)
}

type InviteStore interface {
	// InviteByBoard resolves the handle and board (ErrNotFound if either is
	// missing) and inserts a pending invite. An existing pair reports
	// model.StatusDuplicateInvite with a nil invite.
	InviteByBoard(ctx context.Context, handle string, boardID int64) (*model.Invite, model.Status, error)
	InviteEmailByBoard(ctx context.Context, email string, boardID int64) (*model.Invite, model.Status, error)
	// UninviteByBoard reports model.StatusNotInvited when the pair isn't
	// present, model.StatusSuccess after a delete.
	UninviteByBoard(ctx context.Context, handle string, boardID int64) (model.Status, error)
	// GetInviteesByBoard returns invited users in invite creation order.
	GetInviteesByBoard(ctx context.Context, boardID int64) ([]model.User, error)
	GetInvitees(ctx context.Context) ([]model.Invitee, error)
	// GetRecentlyAdded is GetInvitees restricted to invites not yet emailed.
	GetRecentlyAdded(ctx context.Context) ([]model.Invitee, error)
	GetInvitesByUser(ctx context.Context, userID int64) ([]model.Board, error)
	// EmailedInvites and DeleteInvites are best-effort batch operations:
	// model.StatusEmpty for an empty or fully-unmatched id set, otherwise
	// model.StatusSuccess. They never fail on unknown ids.
	EmailedInvites(ctx context.Context, ids []int64) (model.Status, error)
	DeleteInvites(ctx context.Context, ids []int64) (model.Status, error)
}
