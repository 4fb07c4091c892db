package auth

import (
	"log/slog"

	"github.com/corelearn/training-management/internal/user"
)

// DirectoryAPI is the slice of the user directory the auth layer needs.
type DirectoryAPI interface {
	GetByEmail(email string) (*user.User, error)
	GetByID(userID int64) (*user.User, error)
}

type ServiceAPI interface {
	Authenticate(dto LoginDTO) (*LoginResponse, error)
	ResolveToken(tokenString string) (*AuthenticatedUser, error)
}

// Service stands in for the external identity provider in local and demo
// deployments: it verifies directory credentials and mints access tokens
// carrying {userId, role}.
type Service struct {
	directory DirectoryAPI
	tokens    TokenGeneratorAPI
	logger    *slog.Logger
}

func NewService(directory DirectoryAPI, tokens TokenGeneratorAPI, logger *slog.Logger) *Service {
	return &Service{
		directory: directory,
		tokens:    tokens,
		logger:    logger,
	}
}

func (s *Service) Authenticate(dto LoginDTO) (*LoginResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	u, err := s.directory.GetByEmail(dto.Email)
	if err != nil {
		s.logger.Warn("login failed: unknown email", "email", dto.Email)
		return nil, ErrInvalidCredentials
	}

	if !u.IsActiveUser() {
		return nil, ErrUserInactive
	}

	if err := VerifyPassword(u.PasswordHash, dto.Password); err != nil {
		s.logger.Warn("login failed: bad password", "user_id", u.ID)
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.GenerateAccessToken(u)
	if err != nil {
		s.logger.Error("failed to generate access token", "error", err, "user_id", u.ID)
		return nil, err
	}

	s.logger.Info("user authenticated", "user_id", u.ID, "role", u.Role)

	return &LoginResponse{
		AccessToken: token,
		ExpiresAt:   expiresAt.Unix(),
		UserID:      u.ID,
		Role:        string(u.Role),
	}, nil
}

// ResolveToken validates an access token and re-reads the directory record
// so role changes take effect without waiting for token expiry.
func (s *Service) ResolveToken(tokenString string) (*AuthenticatedUser, error) {
	claims, err := s.tokens.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	u, err := s.directory.GetByID(claims.UserID)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if !u.IsActiveUser() {
		return nil, ErrUserInactive
	}

	return &AuthenticatedUser{
		ID:    u.ID,
		Email: u.Email,
		Role:  u.Role,
	}, nil
}
