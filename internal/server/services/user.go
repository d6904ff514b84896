// Package services contains server-side business logic. This file implements
// UserService: registration with bcrypt-hashed passwords and login, both of
// which mint a bearer token.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/ringkeeper/internal/common"
	"github.com/dmitrijs2005/ringkeeper/internal/server/models"
	"github.com/dmitrijs2005/ringkeeper/internal/server/repositories/repomanager"
	"golang.org/x/crypto/bcrypt"
)

// TokenIssuer mints bearer tokens; satisfied by *auth.TokenService.
type TokenIssuer interface {
	Issue(userID string) (string, error)
}

// UserService registers users and logs them in.
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	tokens      TokenIssuer
	hashCost    int
}

// NewUserService constructs a UserService.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, tokens TokenIssuer) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		tokens:      tokens,
		hashCost:    bcrypt.DefaultCost,
	}
}

// Register stores a new user with a hashed password and returns it together
// with a fresh token. A taken username or email yields common.ErrorAlreadyExists.
func (s *UserService) Register(ctx context.Context, user *models.User, password string) (*models.User, string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return nil, "", fmt.Errorf("error hashing password: %w", err)
	}
	user.Password = string(hash)

	created, err := s.repomanager.Users(s.db).Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, "", err
		}
		return nil, "", fmt.Errorf("error creating user: %w", err)
	}

	token, err := s.tokens.Issue(created.ID)
	if err != nil {
		return nil, "", fmt.Errorf("error issuing token: %w", err)
	}
	return created, token, nil
}

// Login checks the password of the user registered under email and returns a
// token. Unknown email and wrong password both yield common.ErrorUnauthorized.
func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.repomanager.Users(s.db).GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorUnauthorized
		}
		return "", fmt.Errorf("error loading user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", common.ErrorUnauthorized
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", fmt.Errorf("error issuing token: %w", err)
	}
	return token, nil
}
