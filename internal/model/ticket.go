package model

import "time"

// Ticket is a card on a panel. Lower priority value = more urgent.
// Ticket listings sort by status (lexically), then priority ascending.
type Ticket struct {
	ID             int64     `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Status         string    `json:"status"`
	Priority       int       `json:"priority"`
	Type           string    `json:"type"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	CreatorID      int64     `json:"creator_id"`
	AssigneeHandle string    `json:"assignee_handle"`
	PanelID        int64     `json:"panel_id"`
	BoardID        int64     `json:"board_id"`
}

// TicketPatch carries a partial update. Nil fields are left unchanged.
type TicketPatch struct {
	Title          *string
	Description    *string
	Status         *string
	Priority       *int
	Type           *string
	AssigneeHandle *string
	PanelID        *int64
	BoardID        *int64
}
