package service

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/boardhouse/internal/apperror"
	"github.com/sakif/boardhouse/internal/model"
)

func newInviteFixture(t *testing.T) (*InviteService, *mockStore, *model.User, *model.Board) {
	t.Helper()
	store := newMockStore()
	svc := NewInviteService(store, testLogger())

	owner := seedUser(t, store, "stevepkuo")
	board := &model.Board{BoardName: "testboard", OwnerID: owner.ID}
	if err := store.CreateBoard(context.Background(), board); err != nil {
		t.Fatalf("seeding board: %v", err)
	}
	return svc, store, owner, board
}

func TestInvite_DuplicatePassthrough(t *testing.T) {
	svc, store, _, board := newInviteFixture(t)
	invitee := seedUser(t, store, "dummyuser")

	_, status, err := svc.Invite(context.Background(), invitee.GithubHandle, board.ID)
	if err != nil || status != model.StatusSuccess {
		t.Fatalf("first Invite() = %q, %v", status, err)
	}

	_, status, err = svc.Invite(context.Background(), invitee.GithubHandle, board.ID)
	if err != nil {
		t.Fatalf("second Invite() error = %v", err)
	}
	if status != model.StatusDuplicateInvite {
		t.Errorf("second Invite() status = %q, want %q", status, model.StatusDuplicateInvite)
	}
}

func TestInvite_BlankHandle(t *testing.T) {
	svc, _, _, board := newInviteFixture(t)

	_, _, err := svc.Invite(context.Background(), "   ", board.ID)
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("Invite(blank handle) error = %v, want ErrValidation", err)
	}
}

func TestUninvite_NeverInvited(t *testing.T) {
	svc, store, _, board := newInviteFixture(t)
	outsider := seedUser(t, store, "outsider")

	status, err := svc.Uninvite(context.Background(), outsider.GithubHandle, board.ID)
	if err != nil {
		t.Fatalf("Uninvite() error = %v", err)
	}
	if status != model.StatusNotInvited {
		t.Errorf("status = %q, want %q", status, model.StatusNotInvited)
	}
}

func TestMarkEmailed_EmptySet(t *testing.T) {
	svc, _, _, _ := newInviteFixture(t)

	status, err := svc.MarkEmailed(context.Background(), nil)
	if err != nil {
		t.Fatalf("MarkEmailed() error = %v", err)
	}
	if status != model.StatusEmpty {
		t.Errorf("MarkEmailed(nil) = %q, want %q", status, model.StatusEmpty)
	}

	status, err = svc.Remove(context.Background(), []int64{})
	if err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if status != model.StatusEmpty {
		t.Errorf("Remove([]) = %q, want %q", status, model.StatusEmpty)
	}
}

func TestPendingEmail_ShrinksAfterMarkEmailed(t *testing.T) {
	svc, store, _, board := newInviteFixture(t)
	invitee := seedUser(t, store, "dummyuser")

	invite, status, err := svc.Invite(context.Background(), invitee.GithubHandle, board.ID)
	if err != nil || status != model.StatusSuccess {
		t.Fatalf("Invite() = %q, %v", status, err)
	}

	pending, err := svc.PendingEmail(context.Background())
	if err != nil {
		t.Fatalf("PendingEmail() error = %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("got %d pending invitees, want 1", len(pending))
	}

	if _, err := svc.MarkEmailed(context.Background(), []int64{invite.ID}); err != nil {
		t.Fatalf("MarkEmailed() error = %v", err)
	}

	pending, err = svc.PendingEmail(context.Background())
	if err != nil {
		t.Fatalf("PendingEmail() error = %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("got %d pending invitees after emailing, want 0", len(pending))
	}
}
