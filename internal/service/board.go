package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/boardhouse/internal/apperror"
	"github.com/sakif/boardhouse/internal/model"
	"github.com/sakif/boardhouse/internal/repository"
)

const MaxBoardNameLength = 100

// BoardService handles board business logic: creation, lookups, updates,
// and membership of users on boards.
type BoardService struct {
	boards      repository.BoardStore
	memberships repository.MembershipStore
	logger      *slog.Logger
}

func NewBoardService(boards repository.BoardStore, memberships repository.MembershipStore, logger *slog.Logger) *BoardService {
	return &BoardService{
		boards:      boards,
		memberships: memberships,
		logger:      logger,
	}
}

// Create validates and saves a new board, then enrolls the owner as its
// first member so their board listings include it immediately.
func (s *BoardService) Create(ctx context.Context, ownerID int64, name, repoName, repoURL string) (*model.Board, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperror.ValidationFailed("board_name", "board name is required")
	}
	if len(name) > MaxBoardNameLength {
		return nil, apperror.ValidationFailed("board_name",
			fmt.Sprintf("board name must be %d characters or less", MaxBoardNameLength))
	}

	board := &model.Board{
		BoardName: name,
		RepoName:  strings.TrimSpace(repoName),
		RepoURL:   strings.TrimSpace(repoURL),
		OwnerID:   ownerID,
	}
	if err := s.boards.CreateBoard(ctx, board); err != nil {
		return nil, err
	}

	if err := s.memberships.AddUserToBoard(ctx, ownerID, board.ID); err != nil {
		return nil, fmt.Errorf("service/board: enrolling owner %d on board %d: %w", ownerID, board.ID, err)
	}

	s.logger.Info("board created",
		slog.Int64("boardID", board.ID),
		slog.String("name", board.BoardName),
		slog.Int64("ownerID", ownerID),
	)
	return board, nil
}

func (s *BoardService) GetByID(ctx context.Context, id int64) (*model.Board, error) {
	if id <= 0 {
		return nil, apperror.ValidationFailed("id", "board ID must be positive")
	}
	return s.boards.GetBoardByID(ctx, id)
}

// GetByRepoURL resolves a board by the repository it tracks.
func (s *BoardService) GetByRepoURL(ctx context.Context, repoURL string) (*model.Board, error) {
	repoURL = strings.TrimSpace(repoURL)
	if repoURL == "" {
		return nil, apperror.ValidationFailed("repo_url", "repo URL is required")
	}
	return s.boards.GetBoardByRepoURL(ctx, repoURL)
}

// Update applies a partial update. Only the owner may change a board.
func (s *BoardService) Update(ctx context.Context, actorID, boardID int64, patch model.BoardPatch) (*model.Board, error) {
	board, err := s.boards.GetBoardByID(ctx, boardID)
	if err != nil {
		return nil, err
	}
	if board.OwnerID != actorID {
		return nil, apperror.Forbidden("only the board owner can update it")
	}

	if patch.BoardName != nil {
		name := strings.TrimSpace(*patch.BoardName)
		if name == "" {
			return nil, apperror.ValidationFailed("board_name", "board name is required")
		}
		if len(name) > MaxBoardNameLength {
			return nil, apperror.ValidationFailed("board_name",
				fmt.Sprintf("board name must be %d characters or less", MaxBoardNameLength))
		}
		patch.BoardName = &name
	}

	updated, err := s.boards.UpdateBoardByID(ctx, boardID, patch)
	if err != nil {
		return nil, err
	}

	s.logger.Info("board updated", slog.Int64("boardID", boardID))
	return updated, nil
}

// AddMember puts a user on a board. A duplicate membership surfaces as a
// conflict from the repository.
func (s *BoardService) AddMember(ctx context.Context, userID, boardID int64) error {
	if err := s.memberships.AddUserToBoard(ctx, userID, boardID); err != nil {
		return err
	}
	s.logger.Info("user added to board",
		slog.Int64("userID", userID),
		slog.Int64("boardID", boardID),
	)
	return nil
}

// BoardsForUser lists the boards a user belongs to, in join order.
func (s *BoardService) BoardsForUser(ctx context.Context, userID int64) ([]model.Board, error) {
	if userID <= 0 {
		return nil, apperror.ValidationFailed("id", "user ID must be positive")
	}
	return s.memberships.GetBoardsByUser(ctx, userID)
}

// MembersOfBoard lists the users on a board, in join order.
func (s *BoardService) MembersOfBoard(ctx context.Context, boardID int64) ([]model.User, error) {
	if boardID <= 0 {
		return nil, apperror.ValidationFailed("id", "board ID must be positive")
	}
	return s.memberships.GetUsersByBoard(ctx, boardID)
}
