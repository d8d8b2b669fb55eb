package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/farxc/sigecon/internal/store"
	"golang.org/x/crypto/bcrypt"
)

type UserSource interface {
	GetByUsername(ctx context.Context, username string) (*store.User, error)
}

type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      Identity  `json:"user"`
}

// Authenticator checks passwords against stored bcrypt hashes and issues
// tokens for the users that pass.
type Authenticator struct {
	users  UserSource
	tokens *TokenIssuer
}

func NewAuthenticator(users UserSource, tokens *TokenIssuer) *Authenticator {
	return &Authenticator{users: users, tokens: tokens}
}

func (a *Authenticator) Login(ctx context.Context, username, password string) (*Session, error) {
	u, err := a.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	id := Identity{Username: u.Username, Role: u.Role, Name: u.Name}
	token, expires, err := a.tokens.Issue(id)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, ExpiresAt: expires, User: id}, nil
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
