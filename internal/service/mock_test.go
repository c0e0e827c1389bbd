package service

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/sakif/boardhouse/internal/apperror"
	"github.com/sakif/boardhouse/internal/model"
)

// mockStore is an in-memory stand-in for the repository interfaces. It
// implements the same contracts the sqlite package does — not-found and
// conflict errors, the status sentinels — so the services under test see
// the behavior they'd see in production, just without a database.
type mockStore struct {
	users    map[int64]*model.User
	profiles map[int64]*model.Profile
	auths    map[int64]*model.Auth
	boards   map[int64]*model.Board
	members  [][2]int64 // (userID, boardID) pairs, in insertion order
	panels   map[int64]*model.Panel
	tickets  map[int64]*model.Ticket
	invites  []*model.Invite
	nextID   int64
}

func newMockStore() *mockStore {
	return &mockStore{
		users:    map[int64]*model.User{},
		profiles: map[int64]*model.Profile{},
		auths:    map[int64]*model.Auth{},
		boards:   map[int64]*model.Board{},
		panels:   map[int64]*model.Panel{},
		tickets:  map[int64]*model.Ticket{},
	}
}

func (m *mockStore) id() int64 {
	m.nextID++
	return m.nextID
}

// --- UserStore ---

func (m *mockStore) CreateUser(_ context.Context, user *model.User) error {
	for _, u := range m.users {
		if u.GithubHandle == user.GithubHandle {
			return apperror.Conflict("user", user.GithubHandle)
		}
	}
	user.ID = m.id()
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *mockStore) GetUserByID(_ context.Context, id int64) (*model.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	hidden := *u
	hidden.APIKey = ""
	return &hidden, nil
}

func (m *mockStore) GetUserByIDUnhidden(_ context.Context, id int64) (*model.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	result := *u
	return &result, nil
}

func (m *mockStore) GetUserByAPIKey(_ context.Context, key string) (*model.User, error) {
	for _, u := range m.users {
		if u.APIKey == key {
			result := *u
			return &result, nil
		}
	}
	return nil, apperror.NotFound("user", key)
}

func (m *mockStore) GetUserByEmailNoError(_ context.Context, email string) (*model.User, model.Status, error) {
	for _, u := range m.users {
		if u.Email == email {
			result := *u
			result.APIKey = ""
			return &result, model.StatusSuccess, nil
		}
	}
	return nil, model.StatusNonexistingUser, nil
}

func (m *mockStore) GetUserByHandleNoError(_ context.Context, handle string) (*model.User, model.Status, error) {
	for _, u := range m.users {
		if u.GithubHandle == handle {
			result := *u
			result.APIKey = ""
			return &result, model.StatusSuccess, nil
		}
	}
	return nil, model.StatusNonexistingUser, nil
}

func (m *mockStore) UpdateUserByID(_ context.Context, id int64, patch model.UserPatch) (*model.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	if patch.Email != nil {
		u.Email = *patch.Email
	}
	if patch.GithubHandle != nil {
		u.GithubHandle = *patch.GithubHandle
	}
	if patch.ProfilePhoto != nil {
		u.ProfilePhoto = *patch.ProfilePhoto
	}
	if patch.Verified != nil {
		u.Verified = *patch.Verified
	}
	if patch.APIKey != nil {
		u.APIKey = *patch.APIKey
	}
	result := *u
	if patch.APIKey == nil {
		result.APIKey = ""
	}
	return &result, nil
}

func (m *mockStore) DeleteUserByID(_ context.Context, id int64) (model.Status, error) {
	if _, ok := m.users[id]; !ok {
		return model.StatusDeleteError, nil
	}
	delete(m.users, id)
	return model.StatusSuccess, nil
}

func (m *mockStore) HandleExists(_ context.Context, handle string) (bool, error) {
	for _, u := range m.users {
		if u.GithubHandle == handle {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockStore) EmailExists(_ context.Context, email string) (bool, error) {
	for _, u := range m.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockStore) VerifiedEmail(_ context.Context, email string) (bool, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u.Verified, nil
		}
	}
	return false, nil
}

// --- ProfileStore ---

func (m *mockStore) CreateProfile(_ context.Context, profile *model.Profile) error {
	for _, p := range m.profiles {
		// Empty emails never collide: they are stored as NULL.
		if profile.Email != "" && p.Email == profile.Email {
			return apperror.Conflict("profile", profile.Email)
		}
	}
	profile.ID = m.id()
	stored := *profile
	m.profiles[profile.ID] = &stored
	return nil
}

func (m *mockStore) GetProfileByID(_ context.Context, id int64) (*model.Profile, error) {
	p, ok := m.profiles[id]
	if !ok {
		return nil, apperror.NotFound("profile", id)
	}
	result := *p
	return &result, nil
}

func (m *mockStore) DeleteProfileByID(_ context.Context, id int64) (model.Status, error) {
	if _, ok := m.profiles[id]; !ok {
		return model.StatusDeleteError, nil
	}
	delete(m.profiles, id)
	return model.StatusSuccess, nil
}

func (m *mockStore) CreateAuth(_ context.Context, auth *model.Auth) error {
	if _, ok := m.profiles[auth.ProfileID]; !ok {
		return apperror.NotFound("profile", auth.ProfileID)
	}
	auth.ID = m.id()
	stored := *auth
	m.auths[auth.ID] = &stored
	return nil
}

func (m *mockStore) GetAuthsByProfile(_ context.Context, profileID int64) ([]model.Auth, error) {
	if _, ok := m.profiles[profileID]; !ok {
		return nil, apperror.NotFound("profile", profileID)
	}
	var auths []model.Auth
	for _, a := range m.auths {
		if a.ProfileID == profileID {
			auths = append(auths, *a)
		}
	}
	return auths, nil
}

// --- BoardStore ---

func (m *mockStore) CreateBoard(_ context.Context, board *model.Board) error {
	for _, b := range m.boards {
		if b.BoardName == board.BoardName {
			return apperror.Conflict("board", board.BoardName)
		}
	}
	if _, ok := m.users[board.OwnerID]; !ok {
		return apperror.NotFound("user", board.OwnerID)
	}
	board.ID = m.id()
	stored := *board
	m.boards[board.ID] = &stored
	return nil
}

func (m *mockStore) GetBoardByID(_ context.Context, id int64) (*model.Board, error) {
	b, ok := m.boards[id]
	if !ok {
		return nil, apperror.NotFound("board", id)
	}
	result := *b
	return &result, nil
}

func (m *mockStore) GetBoardByRepoURL(_ context.Context, repoURL string) (*model.Board, error) {
	for _, b := range m.boards {
		if b.RepoURL == repoURL {
			result := *b
			return &result, nil
		}
	}
	return nil, apperror.NotFound("board", repoURL)
}

func (m *mockStore) UpdateBoardByID(_ context.Context, id int64, patch model.BoardPatch) (*model.Board, error) {
	b, ok := m.boards[id]
	if !ok {
		return nil, apperror.NotFound("board", id)
	}
	if patch.BoardName != nil {
		b.BoardName = *patch.BoardName
	}
	if patch.RepoName != nil {
		b.RepoName = *patch.RepoName
	}
	if patch.RepoURL != nil {
		b.RepoURL = *patch.RepoURL
	}
	result := *b
	return &result, nil
}

// --- MembershipStore ---

func (m *mockStore) AddUserToBoard(_ context.Context, userID, boardID int64) error {
	if _, ok := m.users[userID]; !ok {
		return apperror.NotFound("user", userID)
	}
	if _, ok := m.boards[boardID]; !ok {
		return apperror.NotFound("board", boardID)
	}
	for _, pair := range m.members {
		if pair[0] == userID && pair[1] == boardID {
			return apperror.Conflict("membership", userID)
		}
	}
	m.members = append(m.members, [2]int64{userID, boardID})
	return nil
}

func (m *mockStore) GetBoardsByUser(_ context.Context, userID int64) ([]model.Board, error) {
	if _, ok := m.users[userID]; !ok {
		return nil, apperror.NotFound("user", userID)
	}
	boards := []model.Board{}
	for _, pair := range m.members {
		if pair[0] == userID {
			boards = append(boards, *m.boards[pair[1]])
		}
	}
	return boards, nil
}

func (m *mockStore) GetUsersByBoard(_ context.Context, boardID int64) ([]model.User, error) {
	if _, ok := m.boards[boardID]; !ok {
		return nil, apperror.NotFound("board", boardID)
	}
	users := []model.User{}
	for _, pair := range m.members {
		if pair[1] == boardID {
			u := *m.users[pair[0]]
			u.APIKey = ""
			users = append(users, u)
		}
	}
	return users, nil
}

// --- PanelStore ---

func (m *mockStore) CreatePanel(_ context.Context, panel *model.Panel) error {
	if _, ok := m.boards[panel.BoardID]; !ok {
		return apperror.NotFound("board", panel.BoardID)
	}
	for _, p := range m.panels {
		if p.Name == panel.Name {
			return apperror.Conflict("panel", panel.Name)
		}
	}
	panel.ID = m.id()
	stored := *panel
	m.panels[panel.ID] = &stored
	return nil
}

func (m *mockStore) GetPanelByID(_ context.Context, id int64) (*model.Panel, error) {
	p, ok := m.panels[id]
	if !ok {
		return nil, apperror.NotFound("panel", id)
	}
	result := *p
	return &result, nil
}

func (m *mockStore) GetPanelsByBoard(_ context.Context, boardID int64) ([]model.Panel, error) {
	if _, ok := m.boards[boardID]; !ok {
		return nil, apperror.NotFound("board", boardID)
	}
	panels := []model.Panel{}
	for _, p := range m.panels {
		if p.BoardID == boardID {
			panels = append(panels, *p)
		}
	}
	return panels, nil
}

func (m *mockStore) UpdatePanelByID(_ context.Context, id int64, patch model.PanelPatch) (*model.Panel, error) {
	p, ok := m.panels[id]
	if !ok {
		return nil, apperror.NotFound("panel", id)
	}
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.DueDate != nil {
		p.DueDate = patch.DueDate
	}
	result := *p
	return &result, nil
}

// --- TicketStore ---

func (m *mockStore) CreateTicket(_ context.Context, ticket *model.Ticket) error {
	if _, ok := m.panels[ticket.PanelID]; !ok {
		return apperror.NotFound("panel", ticket.PanelID)
	}
	if _, ok := m.boards[ticket.BoardID]; !ok {
		return apperror.NotFound("board", ticket.BoardID)
	}
	ticket.ID = m.id()
	now := time.Now()
	ticket.CreatedAt = now
	ticket.UpdatedAt = now
	stored := *ticket
	m.tickets[ticket.ID] = &stored
	return nil
}

func (m *mockStore) GetTicketByID(_ context.Context, id int64) (*model.Ticket, error) {
	tk, ok := m.tickets[id]
	if !ok {
		return nil, apperror.NotFound("ticket", id)
	}
	result := *tk
	return &result, nil
}

func (m *mockStore) GetTicketsByUser(_ context.Context, userID int64) ([]model.Ticket, error) {
	u, ok := m.users[userID]
	if !ok {
		return nil, apperror.NotFound("user", userID)
	}
	tickets := []model.Ticket{}
	for _, tk := range m.tickets {
		if tk.AssigneeHandle == u.GithubHandle {
			tickets = append(tickets, *tk)
		}
	}
	return tickets, nil
}

func (m *mockStore) GetTicketsByPanel(_ context.Context, panelID int64) ([]model.Ticket, error) {
	if _, ok := m.panels[panelID]; !ok {
		return nil, apperror.NotFound("panel", panelID)
	}
	tickets := []model.Ticket{}
	for _, tk := range m.tickets {
		if tk.PanelID == panelID {
			tickets = append(tickets, *tk)
		}
	}
	return tickets, nil
}

func (m *mockStore) GetTicketsByUserHandleAndBoard(_ context.Context, handle string, boardID int64) ([]model.Ticket, error) {
	tickets := []model.Ticket{}
	for _, tk := range m.tickets {
		if tk.AssigneeHandle == handle && tk.BoardID == boardID {
			tickets = append(tickets, *tk)
		}
	}
	if len(tickets) == 0 {
		return nil, apperror.NotFound("ticket", handle)
	}
	return tickets, nil
}

func (m *mockStore) UpdateTicketByID(_ context.Context, id int64, patch model.TicketPatch) (*model.Ticket, error) {
	tk, ok := m.tickets[id]
	if !ok {
		return nil, apperror.NotFound("ticket", id)
	}
	if patch.Title != nil {
		tk.Title = *patch.Title
	}
	if patch.Status != nil {
		tk.Status = *patch.Status
	}
	if patch.Priority != nil {
		tk.Priority = *patch.Priority
	}
	if patch.AssigneeHandle != nil {
		tk.AssigneeHandle = *patch.AssigneeHandle
	}
	tk.UpdatedAt = time.Now()
	result := *tk
	return &result, nil
}

// --- InviteStore ---

func (m *mockStore) InviteByBoard(ctx context.Context, handle string, boardID int64) (*model.Invite, model.Status, error) {
	exists, _ := m.HandleExists(ctx, handle)
	if !exists {
		return nil, "", apperror.NotFound("user", handle)
	}
	if _, ok := m.boards[boardID]; !ok {
		return nil, "", apperror.NotFound("board", boardID)
	}
	for _, inv := range m.invites {
		if inv.InviteeHandle == handle && inv.BoardID == boardID {
			return nil, model.StatusDuplicateInvite, nil
		}
	}
	invite := &model.Invite{ID: m.id(), InviteeHandle: handle, BoardID: boardID}
	m.invites = append(m.invites, invite)
	return invite, model.StatusSuccess, nil
}

func (m *mockStore) InviteEmailByBoard(ctx context.Context, email string, boardID int64) (*model.Invite, model.Status, error) {
	for _, u := range m.users {
		if u.Email == email {
			return m.InviteByBoard(ctx, u.GithubHandle, boardID)
		}
	}
	return nil, "", apperror.NotFound("user", email)
}

func (m *mockStore) UninviteByBoard(ctx context.Context, handle string, boardID int64) (model.Status, error) {
	exists, _ := m.HandleExists(ctx, handle)
	if !exists {
		return "", apperror.NotFound("user", handle)
	}
	for i, inv := range m.invites {
		if inv.InviteeHandle == handle && inv.BoardID == boardID {
			m.invites = append(m.invites[:i], m.invites[i+1:]...)
			return model.StatusSuccess, nil
		}
	}
	return model.StatusNotInvited, nil
}

func (m *mockStore) GetInviteesByBoard(_ context.Context, boardID int64) ([]model.User, error) {
	if _, ok := m.boards[boardID]; !ok {
		return nil, apperror.NotFound("board", boardID)
	}
	users := []model.User{}
	for _, inv := range m.invites {
		if inv.BoardID != boardID {
			continue
		}
		for _, u := range m.users {
			if u.GithubHandle == inv.InviteeHandle {
				hidden := *u
				hidden.APIKey = ""
				users = append(users, hidden)
			}
		}
	}
	return users, nil
}

func (m *mockStore) GetInvitees(_ context.Context) ([]model.Invitee, error) {
	return m.listInvitees(false), nil
}

func (m *mockStore) GetRecentlyAdded(_ context.Context) ([]model.Invitee, error) {
	return m.listInvitees(true), nil
}

func (m *mockStore) listInvitees(unemailedOnly bool) []model.Invitee {
	invitees := []model.Invitee{}
	index := map[string]int{}
	for _, inv := range m.invites {
		if unemailedOnly && inv.LastEmail != nil {
			continue
		}
		i, seen := index[inv.InviteeHandle]
		if !seen {
			for _, u := range m.users {
				if u.GithubHandle == inv.InviteeHandle {
					hidden := *u
					hidden.APIKey = ""
					invitees = append(invitees, model.Invitee{User: hidden})
				}
			}
			i = len(invitees) - 1
			index[inv.InviteeHandle] = i
		}
		invitees[i].InvitedToBoards = append(invitees[i].InvitedToBoards, *m.boards[inv.BoardID])
	}
	return invitees
}

func (m *mockStore) GetInvitesByUser(_ context.Context, userID int64) ([]model.Board, error) {
	u, ok := m.users[userID]
	if !ok {
		return nil, apperror.NotFound("user", userID)
	}
	boards := []model.Board{}
	for _, inv := range m.invites {
		if inv.InviteeHandle == u.GithubHandle {
			boards = append(boards, *m.boards[inv.BoardID])
		}
	}
	return boards, nil
}

func (m *mockStore) EmailedInvites(_ context.Context, ids []int64) (model.Status, error) {
	matched := false
	now := time.Now()
	for _, inv := range m.invites {
		for _, id := range ids {
			if inv.ID == id {
				inv.LastEmail = &now
				matched = true
			}
		}
	}
	if !matched {
		return model.StatusEmpty, nil
	}
	return model.StatusSuccess, nil
}

func (m *mockStore) DeleteInvites(_ context.Context, ids []int64) (model.Status, error) {
	kept := m.invites[:0]
	matched := false
	for _, inv := range m.invites {
		remove := false
		for _, id := range ids {
			if inv.ID == id {
				remove = true
				matched = true
			}
		}
		if !remove {
			kept = append(kept, inv)
		}
	}
	m.invites = kept
	if !matched {
		return model.StatusEmpty, nil
	}
	return model.StatusSuccess, nil
}

// testLogger discards everything below error level so test output stays
// readable.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// seedUser puts a user straight into the mock with a known API key.
func seedUser(t *testing.T, store *mockStore, handle string) *model.User {
	t.Helper()
	user := &model.User{
		Email:        handle + "@example.com",
		GithubHandle: handle,
		APIKey:       "key-" + handle,
		Verified:     true,
	}
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("seeding user %s: %v", handle, err)
	}
	return user
}
