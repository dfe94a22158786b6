// Package auth registers wallet holders and issues their access tokens.
package auth

import (
	"context"
	"errors"
	"log"
	"strings"

	apperrors "tuplepay/internal/errors"
	"tuplepay/internal/models"
	"tuplepay/internal/repositories"
	"tuplepay/internal/utils"

	"golang.org/x/crypto/bcrypt"
)

type Service interface {
	Register(ctx context.Context, username, email, password string) (*models.Account, error)
	Login(ctx context.Context, username, password string) (*models.Account, string, error)
	Authenticate(ctx context.Context, token string) (*models.UserClaims, error)
}

type service struct {
	accounts   repositories.AccountRepository
	tokens     *utils.TokenManager
	bcryptCost int
}

// Option customises the service.
type Option func(*service)

// WithBcryptCost overrides the password hashing cost.
func WithBcryptCost(cost int) Option {
	return func(s *service) { s.bcryptCost = cost }
}

func NewService(accounts repositories.AccountRepository, tokens *utils.TokenManager, opts ...Option) Service {
	s := &service{
		accounts:   accounts,
		tokens:     tokens,
		bcryptCost: bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Register(ctx context.Context, username, email, password string) (*models.Account, error) {
	username = strings.TrimSpace(username)

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, apperrors.Internal("hash password", err)
	}

	account := models.NewAccount(username, strings.TrimSpace(email), string(hash))
	if err := s.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, repositories.ErrDuplicateUsername) {
			return nil, apperrors.ErrUsernameTaken.WithDetail("username %q is already taken", username)
		}
		return nil, apperrors.Internal("create account", err)
	}

	log.Printf("Registered account %s (%s)", account.ID, account.Username)
	return account, nil
}

func (s *service) Login(ctx context.Context, username, password string) (*models.Account, string, error) {
	account, err := s.accounts.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repositories.ErrAccountNotFound) {
			log.Printf("Login failed: unknown username %q", username)
			return nil, "", apperrors.ErrInvalidCredentials
		}
		return nil, "", apperrors.Internal("load account", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		log.Printf("Login failed: incorrect password for account %s", account.ID)
		return nil, "", apperrors.ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(account)
	if err != nil {
		return nil, "", apperrors.Internal("sign token", err)
	}
	return account, token, nil
}

// Authenticate validates the token and checks that its account still exists.
func (s *service) Authenticate(ctx context.Context, token string) (*models.UserClaims, error) {
	claims, err := s.tokens.ParseToken(token)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}

	account, err := s.accounts.GetByID(ctx, claims.AccountID)
	if err != nil {
		if errors.Is(err, repositories.ErrAccountNotFound) {
			return nil, apperrors.ErrInvalidToken
		}
		return nil, apperrors.Internal("load account", err)
	}
	claims.Username = account.Username
	return claims, nil
}
