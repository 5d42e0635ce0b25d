package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/frahmantamala/timesheet-tracker/internal"
	userDatamodel "github.com/frahmantamala/timesheet-tracker/internal/core/datamodel/user"
	coreuser "github.com/frahmantamala/timesheet-tracker/internal/core/user"
)

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*userDatamodel.User, error)
	GetByUsername(ctx context.Context, username string) (*userDatamodel.User, error)
}

type PasswordHasher interface {
	Compare(hash, password string) error
}

// Service is the main auth service with dependencies
type Service struct {
	users  UserRepository
	tokens TokenGenerator
	hasher PasswordHasher
	logger *slog.Logger
}

func NewService(users UserRepository, tokens TokenGenerator, hasher PasswordHasher, logger *slog.Logger) *Service {
	return &Service{
		users:  users,
		tokens: tokens,
		hasher: hasher,
		logger: logger,
	}
}

// Authenticate validates credentials and returns tokens. Unknown users,
// deleted users and wrong passwords all fail the same way.
func (s *Service) Authenticate(ctx context.Context, dto LoginDTO) (AuthTokens, error) {
	if err := dto.Validate(); err != nil {
		return AuthTokens{}, err
	}

	u, err := s.users.GetByUsername(ctx, dto.Username)
	if err != nil {
		s.logger.Error("failed to load user for login", "error", err, "username", dto.Username)
		return AuthTokens{}, internal.NewInternalError("failed to authenticate", err)
	}
	if u == nil || u.IsDeleted {
		return AuthTokens{}, invalidCredentials()
	}
	if err := s.hasher.Compare(u.PasswordHash, dto.Password); err != nil {
		return AuthTokens{}, invalidCredentials()
	}

	return s.issue(u)
}

// RefreshTokens validates a refresh token and rotates the pair. The role is
// re-read so a changed role applies from the next refresh on.
func (s *Service) RefreshTokens(ctx context.Context, refreshToken string) (AuthTokens, error) {
	claims, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		return AuthTokens{}, tokenError(err)
	}

	u, err := s.activeUser(ctx, claims.UserID)
	if err != nil {
		return AuthTokens{}, err
	}
	return s.issue(u)
}

// Authorize resolves an access token to the current state of its user.
func (s *Service) Authorize(ctx context.Context, accessToken string) (*coreuser.Actor, error) {
	claims, err := s.tokens.ValidateAccessToken(accessToken)
	if err != nil {
		return nil, tokenError(err)
	}

	u, err := s.activeUser(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	return coreuser.ActorFromModel(u), nil
}

func (s *Service) activeUser(ctx context.Context, id int64) (*userDatamodel.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to load token user", "error", err, "user_id", id)
		return nil, internal.NewInternalError("failed to authenticate", err)
	}
	if u == nil || u.IsDeleted {
		return nil, internal.NewUnauthorizedError("user is inactive", internal.ErrCodeInvalidToken).WithCause(ErrUserInactive)
	}
	return u, nil
}

func (s *Service) issue(u *userDatamodel.User) (AuthTokens, error) {
	access, err := s.tokens.GenerateAccessToken(u.ID, u.Role)
	if err != nil {
		s.logger.Error("failed to sign access token", "error", err, "user_id", u.ID)
		return AuthTokens{}, internal.NewInternalError("failed to issue token", err)
	}
	refresh, err := s.tokens.GenerateRefreshToken(u.ID, u.Role)
	if err != nil {
		s.logger.Error("failed to sign refresh token", "error", err, "user_id", u.ID)
		return AuthTokens{}, internal.NewInternalError("failed to issue token", err)
	}
	return AuthTokens{AccessToken: access, RefreshToken: refresh, TokenType: "bearer"}, nil
}

func invalidCredentials() *internal.AppError {
	return internal.NewUnauthorizedError("incorrect username or password", internal.ErrCodeInvalidCredentials).WithCause(ErrInvalidCredentials)
}

func tokenError(err error) *internal.AppError {
	if errors.Is(err, ErrTokenExpired) {
		return internal.NewUnauthorizedError("token expired", internal.ErrCodeTokenExpired).WithCause(err)
	}
	return internal.NewUnauthorizedError("invalid token", internal.ErrCodeInvalidToken).WithCause(err)
}
