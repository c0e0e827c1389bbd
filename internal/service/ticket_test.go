package service

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/boardhouse/internal/apperror"
	"github.com/sakif/boardhouse/internal/model"
)

func newTicketFixture(t *testing.T) (*TicketService, *mockStore, *model.User, *model.Board, *model.Panel) {
	t.Helper()
	store := newMockStore()
	svc := NewTicketService(store, testLogger())

	user := seedUser(t, store, "stevepkuo")
	board := &model.Board{BoardName: "testboard", OwnerID: user.ID}
	if err := store.CreateBoard(context.Background(), board); err != nil {
		t.Fatalf("seeding board: %v", err)
	}
	panel := &model.Panel{Name: "testpanel", BoardID: board.ID}
	if err := store.CreatePanel(context.Background(), panel); err != nil {
		t.Fatalf("seeding panel: %v", err)
	}
	return svc, store, user, board, panel
}

func TestTicketCreate(t *testing.T) {
	svc, _, user, board, panel := newTicketFixture(t)

	ticket, err := svc.Create(context.Background(), &model.Ticket{
		Title:          "fill in user page",
		Status:         TicketStatusTodo,
		Priority:       1,
		CreatorID:      user.ID,
		AssigneeHandle: user.GithubHandle,
		PanelID:        panel.ID,
		BoardID:        board.ID,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if ticket.ID == 0 {
		t.Error("Create() did not persist the ticket")
	}
}

func TestTicketCreate_Validation(t *testing.T) {
	svc, _, user, board, panel := newTicketFixture(t)

	base := func() *model.Ticket {
		return &model.Ticket{
			Title:     "valid title",
			Status:    TicketStatusTodo,
			Priority:  1,
			CreatorID: user.ID,
			PanelID:   panel.ID,
			BoardID:   board.ID,
		}
	}

	tests := []struct {
		name   string
		mutate func(*model.Ticket)
	}{
		{"blank title", func(tk *model.Ticket) { tk.Title = "   " }},
		{"unknown status", func(tk *model.Ticket) { tk.Status = "blocked" }},
		{"negative priority", func(tk *model.Ticket) { tk.Priority = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ticket := base()
			tt.mutate(ticket)
			_, err := svc.Create(context.Background(), ticket)
			if !errors.Is(err, apperror.ErrValidation) {
				t.Errorf("Create() error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestTicketUpdate_StatusValidated(t *testing.T) {
	svc, _, user, board, panel := newTicketFixture(t)

	ticket, err := svc.Create(context.Background(), &model.Ticket{
		Title:     "move me",
		Status:    TicketStatusTodo,
		Priority:  1,
		CreatorID: user.ID,
		PanelID:   panel.ID,
		BoardID:   board.ID,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	bogus := "blocked"
	if _, err := svc.Update(context.Background(), ticket.ID, model.TicketPatch{Status: &bogus}); !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("Update(bogus status) error = %v, want ErrValidation", err)
	}

	done := TicketStatusDone
	updated, err := svc.Update(context.Background(), ticket.ID, model.TicketPatch{Status: &done})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Status != TicketStatusDone {
		t.Errorf("Status = %q, want %q", updated.Status, TicketStatusDone)
	}
}

func TestTicketListByAssigneeOnBoard_NoMatches(t *testing.T) {
	svc, _, _, board, _ := newTicketFixture(t)

	_, err := svc.ListByAssigneeOnBoard(context.Background(), "idle", board.ID)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("ListByAssigneeOnBoard() error = %v, want ErrNotFound", err)
	}
}
