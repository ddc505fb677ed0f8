package jwtsession

import (
	"context"
	"testing"
	"time"

	"pet-adoption/internal/ports/auth"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(Config{Secret: "test-secret", Issuer: "pets-test", TTL: time.Hour}, nil)
	require.NoError(t, err)
	return m
}

func TestManager_IssueAndVerify(t *testing.T) {
	m := newTestManager(t)

	issued, err := m.Issue(Subject{UserID: "u-1", Email: "ana@example.com", Role: auth.RoleAdmin})
	require.NoError(t, err)
	require.NotEmpty(t, issued.Token)

	claims, err := m.Verify(context.Background(), issued.Token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "ana@example.com", claims.Email)
	assert.Equal(t, auth.RoleAdmin, claims.Role)
	assert.Equal(t, issued.TokenID, claims.TokenID)
	assert.True(t, claims.IsAdmin())
}

func TestManager_RejectsExpired(t *testing.T) {
	m := newTestManager(t)
	base := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return base }

	issued, err := m.Issue(Subject{UserID: "u-1", Role: auth.RoleUser})
	require.NoError(t, err)

	m.now = func() time.Time { return base.Add(2 * time.Hour) }
	_, err = m.Verify(context.Background(), issued.Token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestManager_RejectsOtherSecretAndIssuer(t *testing.T) {
	m := newTestManager(t)

	other, err := NewManager(Config{Secret: "another", Issuer: "pets-test"}, nil)
	require.NoError(t, err)
	issued, err := other.Issue(Subject{UserID: "u-1"})
	require.NoError(t, err)

	_, err = m.Verify(context.Background(), issued.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	wrongIssuer, err := NewManager(Config{Secret: "test-secret", Issuer: "someone-else"}, nil)
	require.NoError(t, err)
	issued, err = wrongIssuer.Issue(Subject{UserID: "u-1"})
	require.NoError(t, err)

	_, err = m.Verify(context.Background(), issued.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestManager_RejectsNoneAlgorithm(t *testing.T) {
	m := newTestManager(t)

	tok := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "u-1",
		Issuer:    "pets-test",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	raw, err := tok.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = m.Verify(context.Background(), raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestManager_RevokeBlocksToken(t *testing.T) {
	m := newTestManager(t)

	issued, err := m.Issue(Subject{UserID: "u-1"})
	require.NoError(t, err)

	exp, err := m.ExpiresAt(issued.Token)
	require.NoError(t, err)
	require.NoError(t, m.Revoke(context.Background(), issued.TokenID, exp))

	_, err = m.Verify(context.Background(), issued.Token)
	assert.ErrorIs(t, err, ErrRevokedToken)
}

func TestManager_DefaultsRoleToUser(t *testing.T) {
	m := newTestManager(t)

	issued, err := m.Issue(Subject{UserID: "u-1"})
	require.NoError(t, err)

	claims, err := m.Verify(context.Background(), issued.Token)
	require.NoError(t, err)
	assert.Equal(t, auth.RoleUser, claims.Role)
}

func TestMemoryBlacklist_Expires(t *testing.T) {
	b := NewMemoryBlacklist()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return now }

	require.NoError(t, b.Revoke(context.Background(), "jti-1", time.Minute))

	revoked, err := b.IsRevoked(context.Background(), "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	now = now.Add(2 * time.Minute)
	revoked, err = b.IsRevoked(context.Background(), "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestNewManager_RequiresSecret(t *testing.T) {
	_, err := NewManager(Config{}, nil)
	assert.ErrorIs(t, err, ErrNoSecret)
}
