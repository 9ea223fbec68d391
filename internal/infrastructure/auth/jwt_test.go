package auth

import (
	"testing"
	"time"

	"github.com/agencia/backend/internal/domain/identity"
	"github.com/agencia/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:          "test-secret-key-for-signing",
		Issuer:          "agencia-test",
		TokenExpiration: time.Hour,
	}
}

func testUser(t *testing.T) *identity.User {
	t.Helper()
	user, err := identity.NewUser("maria", "secret-pass1", "María López", identity.RoleAccountant, identity.CategoryCounter)
	require.NoError(t, err)
	return user
}

func TestJWTService_GenerateAndValidate(t *testing.T) {
	svc := NewJWTService(testJWTConfig())
	user := testUser(t)

	token, err := svc.GenerateToken(user)
	require.NoError(t, err)
	assert.NotEmpty(t, token.Value)
	assert.WithinDuration(t, time.Now().Add(time.Hour), token.ExpiresAt, 5*time.Second)

	claims, err := svc.ValidateToken(token.Value)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.UserID)
	assert.Equal(t, "maria", claims.Username)
	assert.Equal(t, identity.RoleAccountant, claims.Role)
	assert.Equal(t, identity.CategoryCounter, claims.Category)

	actor, err := claims.ToActorContext()
	require.NoError(t, err)
	assert.Equal(t, user.ID, actor.UserID)
	assert.Equal(t, identity.RoleAccountant, actor.Role)
}

func TestJWTService_ValidateToken(t *testing.T) {
	t.Run("rejects garbage tokens", func(t *testing.T) {
		svc := NewJWTService(testJWTConfig())

		_, err := svc.ValidateToken("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects tokens signed with another secret", func(t *testing.T) {
		svc := NewJWTService(testJWTConfig())
		other := NewJWTService(config.JWTConfig{
			Secret:          "a-different-secret",
			Issuer:          "agencia-test",
			TokenExpiration: time.Hour,
		})

		token, err := other.GenerateToken(testUser(t))
		require.NoError(t, err)

		_, err = svc.ValidateToken(token.Value)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects expired tokens", func(t *testing.T) {
		svc := NewJWTService(config.JWTConfig{
			Secret:          "test-secret-key-for-signing",
			Issuer:          "agencia-test",
			TokenExpiration: -time.Minute,
		})

		token, err := svc.GenerateToken(testUser(t))
		require.NoError(t, err)

		_, err = NewJWTService(testJWTConfig()).ValidateToken(token.Value)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})
}
