package model

// Status is the typed form of the outcomes the stores report instead of
// errors. These are expected-but-notable results — an already-duplicate
// invite, a delete that matched nothing, an empty batch — which callers
// branch on rather than handle as failures.
//
// The underlying string values are part of the caller contract and are
// serialized verbatim by the HTTP layer. Do not reword them.
type Status string

const (
	StatusSuccess Status = "success"
	StatusEmpty   Status = "empty"

	// StatusDuplicateInvite: the (handle, board) pair already has a pending
	// invite. Re-inviting is idempotent, not an error.
	StatusDuplicateInvite Status = "duplicate invite"

	// StatusDeleteError: a delete matched no rows. Distinguishes "nothing to
	// delete" from a hard failure without making idempotent deletes throw.
	StatusDeleteError Status = "delete error"

	// StatusNotInvited: an uninvite for a pair that was never invited.
	StatusNotInvited Status = "user already not in invitee list"

	// StatusNonexistingUser: the non-throwing email lookup found nobody.
	StatusNonexistingUser Status = "nonexisting user"
)
