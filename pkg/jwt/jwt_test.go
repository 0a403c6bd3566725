package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	m := NewManager("secret", time.Hour)

	token, err := m.GenerateSessionToken("u-1", "a@b.c", "RENTER")
	require.NoError(t, err)

	claims, err := m.ValidateSessionToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "a@b.c", claims.Email)
	assert.Equal(t, "RENTER", claims.Role)
}

func TestSessionTokenWrongSecret(t *testing.T) {
	token, err := NewManager("secret", time.Hour).GenerateSessionToken("u-1", "a@b.c", "RENTER")
	require.NoError(t, err)

	_, err = NewManager("other", time.Hour).ValidateSessionToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSessionTokenExpired(t *testing.T) {
	m := NewManager("secret", time.Hour)
	issued := time.Now().Add(-2 * time.Hour)
	m.now = func() time.Time { return issued }

	token, err := m.GenerateSessionToken("u-1", "a@b.c", "RENTER")
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.ValidateSessionToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSessionTokenGarbage(t *testing.T) {
	_, err := NewManager("secret", time.Hour).ValidateSessionToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
