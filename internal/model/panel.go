package model

// Panel is a column on a board. Panels list in due-date order.
//
// DueDate is a YYYY-MM-DD string rather than a time.Time: the column is a
// plain DATE, the API exchanges it as a date string, and lexical order on
// the format IS chronological order, which the due-date sort relies on.
// Nil means no due date.
type Panel struct {
	ID      int64   `json:"id"`
	Name    string  `json:"name"`
	DueDate *string `json:"due_date"`
	BoardID int64   `json:"board_id"`
}

// PanelPatch carries a partial update. Nil fields are left unchanged.
type PanelPatch struct {
	Name    *string
	DueDate *string
	BoardID *int64
}
