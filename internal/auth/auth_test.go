package auth

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/farxc/sigecon/internal/store"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeUsers map[string]*store.User

func (f fakeUsers) GetByUsername(ctx context.Context, username string) (*store.User, error) {
	u, ok := f[username]
	if !ok {
		return nil, fmt.Errorf("failed to get user: %w", store.ErrNotFound)
	}
	return u, nil
}

func newIssuer(t *testing.T) *TokenIssuer {
	t.Helper()
	issuer, err := NewTokenIssuer("test-secret", time.Hour)
	require.NoError(t, err)
	return issuer
}

func TestTokenIssuer_RoundTrip(t *testing.T) {
	issuer := newIssuer(t)
	id := Identity{Username: "maria", Role: store.RoleAdmin, Name: "Maria"}

	token, expires, err := issuer.Issue(id)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expires, time.Minute)

	got, err := issuer.Lookup(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, id, got)
	assert.True(t, got.IsAdmin())
}

func TestTokenIssuer_Rejects(t *testing.T) {
	issuer := newIssuer(t)
	token, _, err := issuer.Issue(Identity{Username: "joao", Role: store.RoleUser})
	require.NoError(t, err)

	t.Run("other secret", func(t *testing.T) {
		other, err := NewTokenIssuer("another-secret", time.Hour)
		require.NoError(t, err)
		_, err = other.Lookup(context.Background(), token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := issuer.Lookup(context.Background(), "not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		issuer.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		defer func() { issuer.now = time.Now }()

		_, err := issuer.Lookup(context.Background(), token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("unsigned", func(t *testing.T) {
		unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "x", "iss": defaultIssuer}).
			SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = issuer.Lookup(context.Background(), unsigned)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestNewTokenIssuer_RequiresSecret(t *testing.T) {
	_, err := NewTokenIssuer("", time.Hour)
	assert.Error(t, err)
}

func TestAuthenticator_Login(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.MinCost)
	require.NoError(t, err)

	users := fakeUsers{
		"admin": {ID: 1, Username: "admin", PasswordHash: string(hash), Role: store.RoleAdmin, Name: "Administrador"},
	}
	issuer := newIssuer(t)
	a := NewAuthenticator(users, issuer)

	t.Run("valid", func(t *testing.T) {
		session, err := a.Login(context.Background(), "admin", "admin123")
		require.NoError(t, err)
		assert.Equal(t, "admin", session.User.Username)
		assert.True(t, session.User.IsAdmin())

		id, err := issuer.Lookup(context.Background(), session.Token)
		require.NoError(t, err)
		assert.Equal(t, session.User, id)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := a.Login(context.Background(), "admin", "nope")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := a.Login(context.Background(), "ghost", "admin123")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("s3cret")))
}

func TestContextIdentity(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	ctx := WithIdentity(context.Background(), Identity{Username: "u"})
	id, ok := FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "u", id.Username)
}

func TestDevLookup(t *testing.T) {
	id, err := NewDevLookup().Lookup(context.Background(), "")
	require.NoError(t, err)
	assert.True(t, id.IsAdmin())
}
