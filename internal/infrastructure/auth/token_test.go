package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/DRSN-tech/shop-backend/internal/cfg"
	"github.com/DRSN-tech/shop-backend/pkg/e"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(ttl time.Duration) *JWTManager {
	return NewJWTManager(&cfg.AuthCfg{
		Secret:   "test-secret",
		TokenTTL: ttl,
	})
}

func TestJWTManager_IssueAndParse(t *testing.T) {
	m := newTestManager(30 * time.Minute)

	token, err := m.Issue("user@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	subject, err := m.ParseSubject(token)
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", subject)
}

func TestJWTManager_ExpiredToken(t *testing.T) {
	m := newTestManager(-time.Minute)

	token, err := m.Issue("user@example.com")
	require.NoError(t, err)

	_, err = m.ParseSubject(token)
	assert.True(t, errors.Is(err, e.ErrUnauthorized))
}

func TestJWTManager_WrongSecret(t *testing.T) {
	issuer := newTestManager(30 * time.Minute)
	verifier := NewJWTManager(&cfg.AuthCfg{
		Secret:   "another-secret",
		TokenTTL: 30 * time.Minute,
	})

	token, err := issuer.Issue("user@example.com")
	require.NoError(t, err)

	_, err = verifier.ParseSubject(token)
	assert.True(t, errors.Is(err, e.ErrUnauthorized))
}

func TestJWTManager_Garbage(t *testing.T) {
	m := newTestManager(30 * time.Minute)

	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		_, err := m.ParseSubject(token)
		assert.True(t, errors.Is(err, e.ErrUnauthorized), "token: %q", token)
	}
}

func TestBcryptHasher(t *testing.T) {
	h := NewBcryptHasher()

	hash, err := h.Hash("secret123")
	require.NoError(t, err)
	require.NotEqual(t, "secret123", hash)

	assert.NoError(t, h.Compare(hash, "secret123"))
	assert.True(t, errors.Is(h.Compare(hash, "wrong"), e.ErrUnauthorized))
}
