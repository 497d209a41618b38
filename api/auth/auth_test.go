/* auth_test.go
 * Contains unit tests for auth.go
 * Authors: knockout-pool contributors
 */

package auth

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuthenticator(t *testing.T, clock clockwork.Clock) *Authenticator {
	a, err := NewAuthenticator("test-secret", 24*time.Hour, clock)
	require.NoError(t, err)
	return a
}

// region NewAuthenticator tests

func TestNewAuthenticator_Validation(t *testing.T) {
	_, err := NewAuthenticator("", time.Hour, nil)
	assert.Error(t, err)

	_, err = NewAuthenticator("secret", 0, nil)
	assert.Error(t, err)

	a, err := NewAuthenticator("secret", time.Hour, nil)
	require.NoError(t, err)
	assert.NotNil(t, a.clock)
}

// endregion

// region Issue / Verify tests

func TestIssueVerify_RoundTrip(t *testing.T) {
	a := newTestAuthenticator(t, clockwork.NewFakeClock())

	token, err := a.Issue("64b0c0ffee", "a@example.com", true)
	require.NoError(t, err)

	claims, err := a.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "64b0c0ffee", claims.UserID)
	assert.Equal(t, "a@example.com", claims.Email)
	assert.True(t, claims.Admin)
}

func TestVerify_Expired(t *testing.T) {
	clock := clockwork.NewFakeClock()
	a := newTestAuthenticator(t, clock)

	token, err := a.Issue("user1", "a@example.com", false)
	require.NoError(t, err)

	clock.Advance(25 * time.Hour)

	_, err = a.Verify(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestVerify_StillValidBeforeExpiry(t *testing.T) {
	clock := clockwork.NewFakeClock()
	a := newTestAuthenticator(t, clock)

	token, err := a.Issue("user1", "a@example.com", false)
	require.NoError(t, err)

	clock.Advance(23 * time.Hour)

	_, err = a.Verify(token)
	assert.NoError(t, err)
}

func TestVerify_WrongSecret(t *testing.T) {
	clock := clockwork.NewFakeClock()
	a := newTestAuthenticator(t, clock)
	other, err := NewAuthenticator("other-secret", time.Hour, clock)
	require.NoError(t, err)

	token, err := other.Issue("user1", "a@example.com", false)
	require.NoError(t, err)

	_, err = a.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_Garbage(t *testing.T) {
	a := newTestAuthenticator(t, clockwork.NewFakeClock())

	_, err := a.Verify("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

// endregion

// region password tests

func TestHashPassword_CheckPassword(t *testing.T) {
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", hash)

	assert.True(t, CheckPassword(hash, "hunter22"))
	assert.False(t, CheckPassword(hash, "hunter23"))
	assert.False(t, CheckPassword("not-a-hash", "hunter22"))
}

// endregion
