package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/meinhoongagan/marketplace/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateOTP(t *testing.T) {
	for i := 0; i < 200; i++ {
		code, err := GenerateOTP(6)
		require.NoError(t, err)
		assert.Len(t, code, 6)
		assert.NotEqual(t, byte('0'), code[0])
		assert.Empty(t, strings.Trim(code, "0123456789"))
	}
	_, err := GenerateOTP(0)
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$2a$10$"))
	assert.True(t, CheckPassword(hash, "s3cret"))
	assert.False(t, CheckPassword(hash, "wrong"))
}

func TestPickUpdates(t *testing.T) {
	allowed := map[string]Field{
		"name":       {Column: "name"},
		"base_price": {Column: "base_price", Kind: NumberField},
	}

	updates, err := PickUpdates(map[string]interface{}{
		"name":       " Ana ",
		"base_price": "120.50",
		"email":      "ignored@example.com",
	}, allowed)
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"name": "Ana", "base_price": 120.5}, updates)

	updates, err = PickUpdates(map[string]interface{}{"email": "x"}, allowed)
	require.NoError(t, err)
	assert.Empty(t, updates)

	_, err = PickUpdates(map[string]interface{}{"base_price": "lots"}, allowed)
	assert.Error(t, err)
}

func TestPickUpdatesKeepsRequiredFields(t *testing.T) {
	allowed := map[string]Field{
		"name": {Column: "name", Required: true},
		"city": {Column: "city"},
	}

	updates, err := PickUpdates(map[string]interface{}{"name": "  ", "city": nil}, allowed)
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"city": ""}, updates)

	updates, err = PickUpdates(map[string]interface{}{"name": nil}, allowed)
	require.NoError(t, err)
	assert.Empty(t, updates)

	_, err = PickUpdates(map[string]interface{}{"name": 42}, allowed)
	assert.Error(t, err)
}

func TestGenerateToken(t *testing.T) {
	user := &models.User{ID: 7, Email: "a@b.c", AccountType: models.AccountAdmin}
	signed, err := GenerateToken(user, "secret", time.Hour)
	require.NoError(t, err)

	token, err := jwt.Parse(signed, func(*jwt.Token) (interface{}, error) { return []byte("secret"), nil })
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, float64(7), claims["id"])
	assert.Equal(t, true, claims["is_admin"])
	assert.Equal(t, "admin", claims["account_type"])
}

func TestResetCodeEmail(t *testing.T) {
	subject, body := ResetCodeEmail("Ana", "123456", 15)
	assert.Contains(t, subject, "123456")
	assert.Contains(t, body, "Ana")
	assert.Contains(t, body, "15 minutes")
}
