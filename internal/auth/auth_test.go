package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret = "test-secret-key-12345"
	testUserID = "6f1c2a52-8c1b-4a4e-9a37-0d6f5d1c9a10"
)

func TestHashPassword(t *testing.T) {
	t.Run("Successfully hash password", func(t *testing.T) {
		password := "mySecurePassword123"
		hashed, err := HashPassword(password)

		assert.NoError(t, err)
		assert.NotEmpty(t, hashed)
		assert.NotEqual(t, password, hashed)
	})

	t.Run("Different hashes for same password", func(t *testing.T) {
		hash1, _ := HashPassword("samePassword")
		hash2, _ := HashPassword("samePassword")

		assert.NotEqual(t, hash1, hash2)
	})
}

func TestCheckPassword(t *testing.T) {
	hashed, _ := HashPassword("correctPassword")

	assert.True(t, CheckPassword(hashed, "correctPassword"))
	assert.False(t, CheckPassword(hashed, "wrongPassword"))
	assert.False(t, CheckPassword(hashed, ""))
}

func TestGenerateAccessToken(t *testing.T) {
	t.Run("Token contains correct claims", func(t *testing.T) {
		token, err := GenerateAccessToken(testUserID, "test@example.com", RoleAdmin, testSecret)
		require.NoError(t, err)

		claims, err := ValidateToken(token, testSecret)
		require.NoError(t, err)

		assert.Equal(t, testUserID, claims.UserID)
		assert.Equal(t, "test@example.com", claims.Email)
		assert.Equal(t, RoleAdmin, claims.Role)
		assert.Equal(t, "access", claims.TokenType)
		assert.Equal(t, jwtIssuer, claims.Issuer)
		assert.Contains(t, claims.Audience, jwtAudience)
	})

	t.Run("Fail with empty secret", func(t *testing.T) {
		token, err := GenerateAccessToken(testUserID, "user@example.com", RoleClient, "")

		assert.Equal(t, ErrEmptyJWTSecret, err)
		assert.Empty(t, token)
	})

	t.Run("Access token expires after 15 minutes", func(t *testing.T) {
		token, err := GenerateAccessToken(testUserID, "user@example.com", RoleClient, testSecret)
		require.NoError(t, err)

		claims, err := ValidateToken(token, testSecret)
		require.NoError(t, err)

		diff := claims.ExpiresAt.Time.Sub(time.Now().Add(AccessTokenTTL)).Abs()
		assert.Less(t, diff, 2*time.Second)
	})
}

func TestGenerateTokens(t *testing.T) {
	accessToken, refreshToken, err := GenerateTokens(testUserID, "user@example.com", RoleClient, "access-secret", "refresh-secret")

	assert.NoError(t, err)
	assert.NotEmpty(t, accessToken)
	assert.NotEmpty(t, refreshToken)
	assert.NotEqual(t, accessToken, refreshToken)

	_, _, err = GenerateTokens(testUserID, "user@example.com", RoleClient, "access-secret", "")
	assert.Error(t, err)
}

func TestValidateToken(t *testing.T) {
	token, _ := GenerateAccessToken(testUserID, "user@example.com", RolePhotographer, testSecret)

	t.Run("Fail with empty secret", func(t *testing.T) {
		claims, err := ValidateToken(token, "")
		assert.Equal(t, ErrEmptyJWTSecret, err)
		assert.Nil(t, claims)
	})

	t.Run("Fail with wrong secret", func(t *testing.T) {
		claims, err := ValidateToken(token, "wrong-secret")
		assert.Error(t, err)
		assert.Nil(t, claims)
	})

	t.Run("Fail with invalid token format", func(t *testing.T) {
		claims, err := ValidateToken("invalid.token.format", testSecret)
		assert.Error(t, err)
		assert.Nil(t, claims)
	})

	t.Run("Fail with expired token", func(t *testing.T) {
		past := time.Now().Add(-time.Hour)
		claims := &JWTClaims{
			UserID:    testUserID,
			Role:      RoleClient,
			TokenType: "access",
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    jwtIssuer,
				Audience:  []string{jwtAudience},
				ExpiresAt: jwt.NewNumericDate(past),
				IssuedAt:  jwt.NewNumericDate(past.Add(-15 * time.Minute)),
			},
		}
		expired, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))

		validated, err := ValidateToken(expired, testSecret)
		assert.Equal(t, ErrTokenExpired, err)
		assert.Nil(t, validated)
	})
}

func TestParseRefreshToken(t *testing.T) {
	t.Run("Accepts refresh token", func(t *testing.T) {
		refresh, _ := GenerateRefreshToken(testUserID, "user@example.com", RoleClient, "refresh-secret")

		claims, err := ParseRefreshToken(refresh, "refresh-secret")
		require.NoError(t, err)
		assert.Equal(t, testUserID, claims.UserID)
		assert.Equal(t, "refresh", claims.TokenType)

		diff := claims.ExpiresAt.Time.Sub(time.Now().Add(RefreshTokenTTL)).Abs()
		assert.Less(t, diff, 2*time.Second)
	})

	t.Run("Rejects access token", func(t *testing.T) {
		access, _ := GenerateAccessToken(testUserID, "user@example.com", RoleClient, "refresh-secret")

		claims, err := ParseRefreshToken(access, "refresh-secret")
		assert.Equal(t, ErrInvalidTokenType, err)
		assert.Nil(t, claims)
	})
}

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleClient.Valid())
	assert.True(t, RolePhotographer.Valid())
	assert.True(t, RoleAdmin.Valid())
	assert.False(t, Role("member").Valid())
	assert.True(t, Actor{UserID: testUserID, Role: RoleAdmin}.IsAdmin())
}
