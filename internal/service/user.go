// Package service contains the business logic layer.
//
// Handlers parse HTTP and write responses; services validate, enforce
// rules, and orchestrate; the repository reads and writes the database.
// Every service takes repository interfaces, not the sqlite types, so
// tests can substitute fakes and nothing here knows any SQL.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rs/xid"

	"github.com/sakif/boardhouse/internal/apperror"
	"github.com/sakif/boardhouse/internal/auth"
	"github.com/sakif/boardhouse/internal/model"
	"github.com/sakif/boardhouse/internal/repository"
)

// Validation limits. GitHub caps logins at 39 characters; the rest are
// sanity bounds, not business rules.
const (
	MaxHandleLength = 39
	MaxEmailLength  = 254
)

// UserService handles account business logic: onboarding from a GitHub
// profile, lookups, partial updates, and deletion.
type UserService struct {
	users     repository.UserStore
	profiles  repository.ProfileStore
	passwords *auth.PasswordService
	logger    *slog.Logger
}

func NewUserService(users repository.UserStore, profiles repository.ProfileStore, passwords *auth.PasswordService, logger *slog.Logger) *UserService {
	return &UserService{
		users:     users,
		profiles:  profiles,
		passwords: passwords,
		logger:    logger,
	}
}

// OnboardGitHub turns a GitHub OAuth profile into a local account.
//
// On first login it creates the profile, an oauth credential record, and
// the user row — with a freshly minted API key the client authenticates
// with from then on. On a returning login it just returns the stored user,
// API key included, so the client can recover its key.
func (s *UserService) OnboardGitHub(ctx context.Context, ghUser *auth.GitHubUser) (*model.User, error) {
	if ghUser == nil {
		return nil, fmt.Errorf("service/user: GitHub user must not be nil")
	}
	if ghUser.Login == "" {
		return nil, apperror.ValidationFailed("login", "GitHub login is required")
	}

	// Returning-login detection is keyed on the handle, never the email:
	// handles are unique and always present, while GitHub omits the email
	// when the user hides it, and two hidden-email accounts must not
	// collapse into one.
	existing, status, err := s.users.GetUserByHandleNoError(ctx, ghUser.Login)
	if err != nil {
		return nil, fmt.Errorf("service/user: checking handle %s: %w", ghUser.Login, err)
	}
	if status != model.StatusNonexistingUser {
		// Returning login: fetch the stored record with the API key intact.
		user, err := s.users.GetUserByIDUnhidden(ctx, existing.ID)
		if err != nil {
			return nil, fmt.Errorf("service/user: fetching user %d: %w", existing.ID, err)
		}
		s.logger.Info("returning user authenticated",
			slog.Int64("userID", user.ID),
			slog.String("handle", user.GithubHandle),
		)
		return user, nil
	}

	profile := &model.Profile{
		Display: ghUser.Name,
		Email:   ghUser.Email,
	}
	if err := s.profiles.CreateProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("service/user: creating profile for %s: %w", ghUser.Login, err)
	}

	credential := &model.Auth{
		Type:      model.AuthTypeOAuth,
		OauthID:   fmt.Sprintf("%d", ghUser.ID),
		ProfileID: profile.ID,
	}
	if err := s.profiles.CreateAuth(ctx, credential); err != nil {
		return nil, fmt.Errorf("service/user: creating oauth credential for %s: %w", ghUser.Login, err)
	}

	user := &model.User{
		Email:        ghUser.Email,
		GithubHandle: ghUser.Login,
		ProfilePhoto: ghUser.AvatarURL,
		OauthID:      fmt.Sprintf("%d", ghUser.ID),
		APIKey:       xid.New().String(),
		Verified:     true,
		ProfileID:    &profile.ID,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("service/user: creating user %s: %w", ghUser.Login, err)
	}

	s.logger.Info("user onboarded via GitHub",
		slog.Int64("userID", user.ID),
		slog.String("handle", user.GithubHandle),
	)
	return user, nil
}

// SetPassword attaches a password credential to the actor's profile, so
// the account can authenticate without going through GitHub. The stored
// value is a bcrypt hash; the plaintext never leaves this method.
func (s *UserService) SetPassword(ctx context.Context, actorID int64, password string) error {
	if password == "" {
		return apperror.ValidationFailed("password", "password must not be empty")
	}

	user, err := s.users.GetUserByID(ctx, actorID)
	if err != nil {
		return err
	}
	if user.ProfileID == nil {
		return apperror.ValidationFailed("profile", "account has no profile to attach a credential to")
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return apperror.ValidationFailed("password", err.Error())
	}

	credential := &model.Auth{
		Type:      model.AuthTypePassword,
		Password:  hash,
		ProfileID: *user.ProfileID,
	}
	if err := s.profiles.CreateAuth(ctx, credential); err != nil {
		return fmt.Errorf("service/user: creating password credential for %d: %w", actorID, err)
	}

	s.logger.Info("password credential set",
		slog.Int64("userID", user.ID),
		slog.String("handle", user.GithubHandle),
	)
	return nil
}

// GetByID returns a user with sensitive fields hidden.
func (s *UserService) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if id <= 0 {
		return nil, apperror.ValidationFailed("id", "user ID must be positive")
	}
	return s.users.GetUserByID(ctx, id)
}

// GetSelf returns the full record — API key included — but only for the
// account making the request.
func (s *UserService) GetSelf(ctx context.Context, actorID, id int64) (*model.User, error) {
	if actorID != id {
		return nil, apperror.Forbidden("only the account owner can read its credentials")
	}
	return s.users.GetUserByIDUnhidden(ctx, id)
}

// Update applies a partial update. Handle and email changes are validated;
// nil patch fields are left unchanged.
func (s *UserService) Update(ctx context.Context, id int64, patch model.UserPatch) (*model.User, error) {
	if id <= 0 {
		return nil, apperror.ValidationFailed("id", "user ID must be positive")
	}
	if patch.GithubHandle != nil {
		handle := strings.TrimSpace(*patch.GithubHandle)
		if handle == "" {
			return nil, apperror.ValidationFailed("github_handle", "handle is required")
		}
		if len(handle) > MaxHandleLength {
			return nil, apperror.ValidationFailed("github_handle",
				fmt.Sprintf("handle must be %d characters or less", MaxHandleLength))
		}
		patch.GithubHandle = &handle
	}
	if patch.Email != nil {
		email := strings.TrimSpace(*patch.Email)
		if email == "" || !strings.Contains(email, "@") || len(email) > MaxEmailLength {
			return nil, apperror.ValidationFailed("email", "a valid email is required")
		}
		patch.Email = &email
	}

	user, err := s.users.UpdateUserByID(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user updated", slog.Int64("userID", id))
	return user, nil
}

// Delete removes a user. The repository reports the outcome as a status so
// a repeated delete stays a normal response rather than an error.
func (s *UserService) Delete(ctx context.Context, id int64) (model.Status, error) {
	if id <= 0 {
		return "", apperror.ValidationFailed("id", "user ID must be positive")
	}

	status, err := s.users.DeleteUserByID(ctx, id)
	if err != nil {
		return "", err
	}
	if status == model.StatusSuccess {
		s.logger.Info("user deleted", slog.Int64("userID", id))
	}
	return status, nil
}

// CheckHandle reports whether a handle is already registered.
func (s *UserService) CheckHandle(ctx context.Context, handle string) (bool, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return false, apperror.ValidationFailed("github_handle", "handle is required")
	}
	return s.users.HandleExists(ctx, handle)
}

// CheckEmail reports whether an email is already registered.
func (s *UserService) CheckEmail(ctx context.Context, email string) (bool, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return false, apperror.ValidationFailed("email", "email is required")
	}
	return s.users.EmailExists(ctx, email)
}

// CheckVerifiedEmail reports whether an email belongs to a verified
// account. An unknown email and an unverified one both come back false.
func (s *UserService) CheckVerifiedEmail(ctx context.Context, email string) (bool, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return false, apperror.ValidationFailed("email", "email is required")
	}
	return s.users.VerifiedEmail(ctx, email)
}
