package state

import "github.com/sakif/boardhouse/internal/model"

// Reduce applies an action to a state and returns the next state. It is
// pure: the input state is never modified, and slices are copied before
// they change, so previous states stay valid. A nil action is a no-op.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case SetUser:
		s.User = a.User

	case SetBoards:
		s.Boards = cloneSlice(a.Boards)
	case AddBoard:
		s.Boards = append(cloneSlice(s.Boards), a.Board)
	case EditBoard:
		s.Boards = replaceBoard(s.Boards, a.Board)

	case SetPanels:
		s.Panels = cloneSlice(a.Panels)
	case AddPanel:
		s.Panels = append(cloneSlice(s.Panels), a.Panel)
	case EditPanel:
		s.Panels = replacePanel(s.Panels, a.Panel)
	case EmptyPanels:
		s.Panels = nil

	case SetTickets:
		s.Tickets = cloneSlice(a.Tickets)
	case AddTicket:
		s.Tickets = append(cloneSlice(s.Tickets), a.Ticket)
	case EditTicket:
		s.Tickets = replaceTicket(s.Tickets, a.Ticket)
	case EmptyTickets:
		s.Tickets = nil

	case SetCurrentBoard:
		s.CurrentBoard = a.Board
	case SetCurrentPanel:
		s.CurrentPanel = a.Panel
	case SetCurrentTicket:
		s.CurrentTicket = a.Ticket

	case ToggleDrawer:
		s.DrawerOpen = !s.DrawerOpen
	case ToggleDialog:
		s.DialogOpen = !s.DialogOpen
	}

	// State is a value, so the caller's copy is already independent for
	// the scalar fields; the cases above re-point the slice fields.
	return s
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}

func replaceBoard(boards []model.Board, board model.Board) []model.Board {
	out := cloneSlice(boards)
	for i := range out {
		if out[i].ID == board.ID {
			out[i] = board
		}
	}
	return out
}

func replacePanel(panels []model.Panel, panel model.Panel) []model.Panel {
	out := cloneSlice(panels)
	for i := range out {
		if out[i].ID == panel.ID {
			out[i] = panel
		}
	}
	return out
}

func replaceTicket(tickets []model.Ticket, ticket model.Ticket) []model.Ticket {
	out := cloneSlice(tickets)
	for i := range out {
		if out[i].ID == ticket.ID {
			out[i] = ticket
		}
	}
	return out
}
