package security

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/taskbox/domain"
)

func TestTokenManager_IssueAndVerify(t *testing.T) {
	manager := NewTokenManager("test-secret", "taskbox")

	token, err := manager.Issue("account-1")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	session, err := manager.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "account-1", session.AccountID)
	assert.NotEmpty(t, session.ID)
	assert.WithinDuration(t, session.IssuedAt.Add(TokenTTL), session.ExpiresAt, time.Second)

	other, err := manager.Issue("account-1")
	require.NoError(t, err)
	otherSession, err := manager.Verify(other)
	require.NoError(t, err)
	assert.NotEqual(t, session.ID, otherSession.ID, "every token gets its own id")
}

func TestTokenManager_IssueRequiresAccount(t *testing.T) {
	_, err := NewTokenManager("test-secret", "taskbox").Issue("")
	assert.Error(t, err)
}

func TestTokenManager_VerifyRejects(t *testing.T) {
	manager := NewTokenManager("test-secret", "taskbox")

	expired := NewTokenManager("test-secret", "taskbox")
	expired.now = func() time.Time { return time.Now().Add(-2 * TokenTTL) }
	expiredToken, err := expired.Issue("account-1")
	require.NoError(t, err)

	foreignToken, err := NewTokenManager("other-secret", "taskbox").Issue("account-1")
	require.NoError(t, err)

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		UserID: "account-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	anonymousToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "malformed", token: "not.a.token"},
		{name: "expired with valid signature", token: expiredToken},
		{name: "signed with another secret", token: foreignToken},
		{name: "unsigned", token: noneToken},
		{name: "missing account id", token: anonymousToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session, err := manager.Verify(tt.token)
			assert.Nil(t, session)
			assert.True(t, errors.Is(err, domain.ErrInvalidToken), "got %v", err)
		})
	}
}

func TestTokenManager_VerifyUsesClock(t *testing.T) {
	manager := NewTokenManager("test-secret", "taskbox")
	token, err := manager.Issue("account-1")
	require.NoError(t, err)

	manager.now = func() time.Time { return time.Now().Add(TokenTTL + time.Minute) }
	_, err = manager.Verify(token)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}
