package model

import "time"

// Invite is a pending invitation of a user (by github handle) to a board.
// Unique per (invitee_handle, board_id). LastEmail stays nil until an
// invite email goes out; the "recently added" view filters on that.
type Invite struct {
	ID            int64      `json:"id"`
	InviteeHandle string     `json:"invitee_handle"`
	BoardID       int64      `json:"board_id"`
	LastEmail     *time.Time `json:"last_email"`
}
