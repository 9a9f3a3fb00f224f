package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caresync/hospital-api/internal/model"
)

func testService() JWTService {
	return NewJWTService(Config{
		Secret:        "access-secret",
		RefreshSecret: "refresh-secret",
		AccessExpiry:  time.Hour,
		RefreshExpiry: time.Hour,
	})
}

func TestGenerateAndValidate(t *testing.T) {
	svc := testService()

	pair, err := svc.GenerateTokenPair("user1", model.RoleDoctor)
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	claims, err := svc.ValidateToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user1", claims.UserID)
	assert.Equal(t, string(model.RoleDoctor), claims.Role)
	assert.Equal(t, model.Requester{ID: "user1", Role: model.RoleDoctor}, claims.Requester())
}

func TestTokensAreNotInterchangeable(t *testing.T) {
	svc := testService()
	pair, err := svc.GenerateTokenPair("user1", model.RoleAdmin)
	require.NoError(t, err)

	// Signed with different secrets.
	_, err = svc.ValidateToken(pair.RefreshToken)
	assert.Error(t, err)
	_, err = svc.ValidateRefreshToken(pair.AccessToken)
	assert.Error(t, err)
}

func TestValidateExpiredToken(t *testing.T) {
	svc := NewJWTService(Config{
		Secret:        "access-secret",
		RefreshSecret: "refresh-secret",
		AccessExpiry:  time.Millisecond,
		RefreshExpiry: time.Hour,
	})
	pair, err := svc.GenerateTokenPair("user1", model.RoleAdmin)
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	_, err = svc.ValidateToken(pair.AccessToken)
	assert.Error(t, err)
}

func TestValidateGarbage(t *testing.T) {
	svc := testService()
	_, err := svc.ValidateToken("not-a-jwt")
	assert.Error(t, err)
}
