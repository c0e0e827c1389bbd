// Package state models the client-side view state as an immutable value
// plus a pure reducer. Instead of a bag of setters mutating shared fields,
// every change is an Action value handed to Reduce, which returns a new
// State and leaves the old one untouched. Consumers can keep old states
// for undo or diffing, and concurrent readers never see a half-applied
// update.
package state

import "github.com/sakif/boardhouse/internal/model"

// State is one snapshot of what the client is looking at: the signed-in
// user, the loaded collections, the current selections, and the two UI
// toggles. Treat it as a value — Reduce never mutates a State it is given.
type State struct {
	User    *model.User
	Boards  []model.Board
	Panels  []model.Panel
	Tickets []model.Ticket

	CurrentBoard  *model.Board
	CurrentPanel  *model.Panel
	CurrentTicket *model.Ticket

	DrawerOpen bool
	DialogOpen bool
}

// Action is a closed set of state transitions. The unexported marker
// method means every possible action is declared in this package, so
// Reduce's switch is exhaustive by construction.
type Action interface {
	isAction()
}

// SetUser replaces the signed-in user. A nil user is a sign-out.
type SetUser struct{ User *model.User }

// SetBoards replaces the loaded board list.
type SetBoards struct{ Boards []model.Board }

// AddBoard appends a board to the loaded list.
type AddBoard struct{ Board model.Board }

// EditBoard replaces the board with the same ID. No match, no change.
type EditBoard struct{ Board model.Board }

// SetPanels replaces the loaded panel list.
type SetPanels struct{ Panels []model.Panel }

// AddPanel appends a panel to the loaded list.
type AddPanel struct{ Panel model.Panel }

// EditPanel replaces the panel with the same ID. No match, no change.
type EditPanel struct{ Panel model.Panel }

// EmptyPanels clears the loaded panels, e.g. when leaving a board.
type EmptyPanels struct{}

// SetTickets replaces the loaded ticket list.
type SetTickets struct{ Tickets []model.Ticket }

// AddTicket appends a ticket to the loaded list.
type AddTicket struct{ Ticket model.Ticket }

// EditTicket replaces the ticket with the same ID. No match, no change.
type EditTicket struct{ Ticket model.Ticket }

// EmptyTickets clears the loaded tickets.
type EmptyTickets struct{}

// SetCurrentBoard selects a board. Selecting nil deselects.
type SetCurrentBoard struct{ Board *model.Board }

// SetCurrentPanel selects a panel.
type SetCurrentPanel struct{ Panel *model.Panel }

// SetCurrentTicket selects a ticket.
type SetCurrentTicket struct{ Ticket *model.Ticket }

// ToggleDrawer flips the navigation drawer.
type ToggleDrawer struct{}

// ToggleDialog flips the modal dialog.
type ToggleDialog struct{}

func (SetUser) isAction()          {}
func (SetBoards) isAction()        {}
func (AddBoard) isAction()         {}
func (EditBoard) isAction()        {}
func (SetPanels) isAction()        {}
func (AddPanel) isAction()         {}
func (EditPanel) isAction()        {}
func (EmptyPanels) isAction()      {}
func (SetTickets) isAction()       {}
func (AddTicket) isAction()        {}
func (EditTicket) isAction()       {}
func (EmptyTickets) isAction()     {}
func (SetCurrentBoard) isAction()  {}
func (SetCurrentPanel) isAction()  {}
func (SetCurrentTicket) isAction() {}
func (ToggleDrawer) isAction()     {}
func (ToggleDialog) isAction()     {}
