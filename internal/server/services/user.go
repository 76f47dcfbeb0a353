// Package services contains server-side business logic: account
// registration and login, token authentication and property management.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/propman/internal/common"
	"github.com/dmitrijs2005/propman/internal/server/auth"
	"github.com/dmitrijs2005/propman/internal/server/config"
	"github.com/dmitrijs2005/propman/internal/server/models"
	"github.com/dmitrijs2005/propman/internal/server/repositories/properties"
	"github.com/dmitrijs2005/propman/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/propman/internal/server/repositories/users"
	"github.com/google/uuid"
)

// AuthResult is what Register and Login hand back to the caller.
type AuthResult struct {
	Token string
	User  *models.User
}

// UserService provides authentication-related operations:
// - Register: validate and create users, then mint a token
// - Login: verify credentials and mint a token
// - Authenticate: resolve a bearer token to its user
type UserService struct {
	repomanager           repomanager.RepositoryManager
	jwtSecret             []byte
	tokenValidityDuration time.Duration
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		repomanager:           m,
		jwtSecret:             []byte(cfg.SecretKey),
		tokenValidityDuration: cfg.TokenValidityDuration,
	}
}

// Register creates an account. A taken email yields common.ErrorAlreadyExists,
// bad input a *common.ValidationError.
func (s *UserService) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)

	v := common.NewValidationError()
	requireString(v, "name", name, MaxNameLen)
	if email == "" {
		v.Add("email", msgRequired)
	} else if !validEmail(email) {
		v.Add("email", msgInvalidEmail)
	}
	switch {
	case password == "":
		v.Add("password", msgRequired)
	case utf8.RuneCountInString(password) < MinPasswordLen:
		v.Add("password", fmt.Sprintf(msgTooShortFormat, MinPasswordLen))
	}
	if err := result(v); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, common.ErrorInternal
	}

	var created *models.User
	err = s.repomanager.WithTx(ctx, func(ctx context.Context, u users.Repository, _ properties.Repository) error {
		if _, err := u.GetByEmail(ctx, email); err == nil {
			return common.ErrorAlreadyExists
		} else if !errors.Is(err, common.ErrorNotFound) {
			return err
		}

		created, err = u.Create(ctx, &models.User{
			ID:           uuid.NewString(),
			Name:         name,
			Email:        email,
			PasswordHash: hash,
		})
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return s.issue(created)
}

// Login verifies credentials. Unknown email and wrong password both yield
// common.ErrorUnauthorized.
func (s *UserService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.TrimSpace(email)

	v := common.NewValidationError()
	if email == "" {
		v.Add("email", msgRequired)
	} else if !validEmail(email) {
		v.Add("email", msgInvalidEmail)
	}
	if password == "" {
		v.Add("password", msgRequired)
	}
	if err := result(v); err != nil {
		return nil, err
	}

	user, err := s.repomanager.Users().GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, common.ErrorUnauthorized
	}
	return s.issue(user)
}

// Authenticate resolves a bearer token. It returns common.ErrTokenExpired or
// common.ErrInvalidToken for bad tokens and common.ErrorNotFound when the
// subject no longer exists.
func (s *UserService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	userID, err := auth.GetUserIDFromToken(token, s.jwtSecret)
	if err != nil {
		return nil, err
	}
	return s.GetUser(ctx, userID)
}

func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrorNotFound
	}
	user, err := s.repomanager.Users().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}
	return user, nil
}

func (s *UserService) issue(user *models.User) (*AuthResult, error) {
	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.tokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return &AuthResult{Token: token, User: user}, nil
}
