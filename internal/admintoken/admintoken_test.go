package admintoken

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "ubersystem/pkg/domain"
	dErrors "ubersystem/pkg/domain-errors"
)

func newService(t *testing.T) *Service {
	t.Helper()
	s, err := NewService("test-signing-key", DefaultIssuer, DefaultAudience)
	require.NoError(t, err)
	return s
}

func TestIssueAndValidate(t *testing.T) {
	s := newService(t)
	token, err := s.Issue(42, time.Hour)
	require.NoError(t, err)

	claims, err := s.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.AccountID)
	assert.Equal(t, "42", claims.Subject)
	assert.NotEmpty(t, claims.ID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)

	mw, err := s.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, id.AccountID(42), mw.AccountID)
	assert.Equal(t, claims.ID, mw.JTI)
}

func TestNewServiceRequiresKey(t *testing.T) {
	_, err := NewService("", DefaultIssuer, DefaultAudience)
	assert.EqualError(t, err, "signing key is required")
}

func TestRejectedTokens(t *testing.T) {
	s := newService(t)

	t.Run("garbage", func(t *testing.T) {
		_, err := s.Parse("not-a-token")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	t.Run("expired", func(t *testing.T) {
		token, err := s.Issue(1, -time.Hour)
		require.NoError(t, err)
		_, err = s.Parse(token)
		require.Error(t, err)
		assert.Equal(t, "token has expired", err.Error())
	})

	t.Run("other key", func(t *testing.T) {
		other, err := NewService("another-key", DefaultIssuer, DefaultAudience)
		require.NoError(t, err)
		token, err := other.Issue(1, time.Hour)
		require.NoError(t, err)
		_, err = s.Parse(token)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	t.Run("other audience", func(t *testing.T) {
		other, err := NewService("test-signing-key", DefaultIssuer, "somewhere-else")
		require.NoError(t, err)
		token, err := other.Issue(1, time.Hour)
		require.NoError(t, err)
		_, err = s.ValidateToken(token)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	t.Run("no account", func(t *testing.T) {
		token, err := s.Issue(0, time.Hour)
		require.NoError(t, err)
		_, err = s.Parse(token)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})
}
