// Package services contains server-side business logic. This file implements
// UserService, which handles registration and login with bearer token issuance.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"

	"github.com/dmitrijs2005/gotodo/internal/common"
	"github.com/dmitrijs2005/gotodo/internal/cryptox"
	"github.com/dmitrijs2005/gotodo/internal/server/auth"
	"github.com/dmitrijs2005/gotodo/internal/server/config"
	"github.com/dmitrijs2005/gotodo/internal/server/models"
	"github.com/dmitrijs2005/gotodo/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

const (
	minUserNameLength = 3
	minPasswordLength = 6
)

// UserService provides authentication-related operations:
// - Register: create users
// - Login: verify credentials and mint a bearer token
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	jwtSecret   []byte
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		jwtSecret:   []byte(cfg.SecretKey),
	}
}

// Register validates the signup input, hashes the password, and creates the
// user. A duplicate username yields common.ErrorAlreadyExists; the store's
// uniqueness constraint makes the check atomic, so concurrent identical
// signups cannot both succeed.
func (s *UserService) Register(ctx context.Context, userName, password, name string) (*models.User, error) {
	if err := validateRegistration(userName, password, name); err != nil {
		return nil, err
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return nil, common.ErrorInternal
	}

	user := &models.User{
		ID:           uuid.NewString(),
		UserName:     userName,
		PasswordHash: hash,
		Name:         name,
	}

	repo := s.repomanager.Users(s.db)
	u, err := repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return u, nil
}

// Login verifies the credentials and, on success, returns a signed bearer
// token embedding the user's ID. An unknown username yields
// common.ErrorNotFound, a wrong password common.ErrorUnauthorized.
func (s *UserService) Login(ctx context.Context, userName, password string) (string, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByUserName(ctx, userName)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorNotFound
		}
		return "", common.ErrorInternal
	}

	if !cryptox.CheckPassword(user.PasswordHash, password) {
		return "", common.ErrorUnauthorized
	}

	token, err := auth.GenerateToken(user.ID, s.jwtSecret)
	if err != nil {
		return "", common.ErrorInternal
	}

	return token, nil
}

func validateRegistration(userName, password, name string) error {
	if len(userName) < minUserNameLength {
		return fmt.Errorf("%w: username too short", common.ErrorValidation)
	}
	if _, err := mail.ParseAddress(userName); err != nil {
		return fmt.Errorf("%w: username must be an email address", common.ErrorValidation)
	}
	if len(password) < minPasswordLength {
		return fmt.Errorf("%w: password too short", common.ErrorValidation)
	}
	if name == "" {
		return fmt.Errorf("%w: name is required", common.ErrorValidation)
	}
	return nil
}
