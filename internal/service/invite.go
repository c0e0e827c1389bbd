package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/sakif/boardhouse/internal/apperror"
	"github.com/sakif/boardhouse/internal/model"
	"github.com/sakif/boardhouse/internal/repository"
)

// InviteService handles the invite lifecycle: creating pending invites,
// withdrawing them, the aggregate views the mailer and dashboard read, and
// the batch bookkeeping the mailer writes back.
type InviteService struct {
	invites repository.InviteStore
	logger  *slog.Logger
}

func NewInviteService(invites repository.InviteStore, logger *slog.Logger) *InviteService {
	return &InviteService{invites: invites, logger: logger}
}

// Invite records a pending invite for a handle on a board. A repeat invite
// for the same pair is not an error; it comes back with the duplicate
// status and no new row.
func (s *InviteService) Invite(ctx context.Context, handle string, boardID int64) (*model.Invite, model.Status, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return nil, "", apperror.ValidationFailed("handle", "invitee handle is required")
	}

	invite, status, err := s.invites.InviteByBoard(ctx, handle, boardID)
	if err != nil {
		return nil, "", err
	}
	if status == model.StatusSuccess {
		s.logger.Info("invite created",
			slog.String("handle", handle),
			slog.Int64("boardID", boardID),
		)
	}
	return invite, status, nil
}

// InviteByEmail is Invite keyed by the invitee's email instead of handle.
func (s *InviteService) InviteByEmail(ctx context.Context, email string, boardID int64) (*model.Invite, model.Status, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, "", apperror.ValidationFailed("email", "invitee email is required")
	}
	return s.invites.InviteEmailByBoard(ctx, email, boardID)
}

// Uninvite withdraws a pending invite. Withdrawing one that was never
// there reports the not-invited status rather than failing.
func (s *InviteService) Uninvite(ctx context.Context, handle string, boardID int64) (model.Status, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return "", apperror.ValidationFailed("handle", "invitee handle is required")
	}

	status, err := s.invites.UninviteByBoard(ctx, handle, boardID)
	if err != nil {
		return "", err
	}
	if status == model.StatusSuccess {
		s.logger.Info("invite withdrawn",
			slog.String("handle", handle),
			slog.Int64("boardID", boardID),
		)
	}
	return status, nil
}

// InviteesOfBoard lists the users holding pending invites to a board.
func (s *InviteService) InviteesOfBoard(ctx context.Context, boardID int64) ([]model.User, error) {
	if boardID <= 0 {
		return nil, apperror.ValidationFailed("id", "board ID must be positive")
	}
	return s.invites.GetInviteesByBoard(ctx, boardID)
}

// AllInvitees returns every invited user with their pending board list.
func (s *InviteService) AllInvitees(ctx context.Context) ([]model.Invitee, error) {
	return s.invites.GetInvitees(ctx)
}

// PendingEmail returns the invitees whose invites haven't been emailed
// yet — the mailer's work queue.
func (s *InviteService) PendingEmail(ctx context.Context) ([]model.Invitee, error) {
	return s.invites.GetRecentlyAdded(ctx)
}

// BoardsInvitingUser lists the boards a user holds pending invites to.
func (s *InviteService) BoardsInvitingUser(ctx context.Context, userID int64) ([]model.Board, error) {
	if userID <= 0 {
		return nil, apperror.ValidationFailed("id", "user ID must be positive")
	}
	return s.invites.GetInvitesByUser(ctx, userID)
}

// MarkEmailed stamps the given invites as emailed. Best effort: unknown
// ids are skipped, and an empty or fully-unmatched set reports the empty
// status.
func (s *InviteService) MarkEmailed(ctx context.Context, ids []int64) (model.Status, error) {
	status, err := s.invites.EmailedInvites(ctx, ids)
	if err != nil {
		return "", err
	}
	if status == model.StatusSuccess {
		s.logger.Info("invites marked emailed", slog.Int("count", len(ids)))
	}
	return status, nil
}

// Remove deletes invites by id, with the same best-effort semantics as
// MarkEmailed.
func (s *InviteService) Remove(ctx context.Context, ids []int64) (model.Status, error) {
	status, err := s.invites.DeleteInvites(ctx, ids)
	if err != nil {
		return "", err
	}
	if status == model.StatusSuccess {
		s.logger.Info("invites deleted", slog.Int("count", len(ids)))
	}
	return status, nil
}
