package model

// Board is a kanban board tied to an (optional) GitHub repository.
// board_name is unique across boards; deleting the owning user cascades
// to the board and everything under it.
type Board struct {
	ID        int64  `json:"id"`
	BoardName string `json:"board_name"`
	RepoName  string `json:"repo_name"`
	RepoURL   string `json:"repo_url"`
	OwnerID   int64  `json:"owner_id"`
}

// BoardPatch carries a partial update. Nil fields are left unchanged.
type BoardPatch struct {
	BoardName *string
	RepoName  *string
	RepoURL   *string
	OwnerID   *int64
}
