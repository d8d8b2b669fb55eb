// Package auth issues and verifies the identities that guard the API.
package auth

import (
	"context"
	"errors"

	"github.com/farxc/sigecon/internal/store"
)

var (
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("token has expired")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type Identity struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	Name     string `json:"nome"`
}

func (i Identity) IsAdmin() bool {
	return i.Role == store.RoleAdmin
}

// IdentityLookup resolves a bearer token into the identity it was issued to.
type IdentityLookup interface {
	Lookup(ctx context.Context, token string) (Identity, error)
}

type ctxKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	return id, ok
}

// DevLookup accepts any token and returns the same identity. It backs
// AUTH_MODE=disabled for local work.
type DevLookup struct {
	Identity Identity
}

func NewDevLookup() DevLookup {
	return DevLookup{Identity: Identity{Username: "dev", Role: store.RoleAdmin, Name: "Desenvolvimento"}}
}

func (d DevLookup) Lookup(ctx context.Context, token string) (Identity, error) {
	return d.Identity, nil
}
