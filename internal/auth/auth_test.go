package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testAccessSecret  = "access-secret-for-tests"
	testRefreshSecret = "refresh-secret-for-tests"
)

func signExpired(t *testing.T, tokenType, secret string) string {
	t.Helper()

	past := time.Now().Add(-time.Hour)
	claims := &JWTClaims{
		UserID:    7,
		Email:     "member@lessonbook.test",
		Role:      RoleMember,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    jwtIssuer,
			Audience:  []string{jwtAudience},
			ExpiresAt: jwt.NewNumericDate(past),
			IssuedAt:  jwt.NewNumericDate(past.Add(-time.Minute)),
		},
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func TestPasswordHashing(t *testing.T) {
	hashed, err := HashPassword("pilates-2024")
	require.NoError(t, err)
	assert.NotEqual(t, "pilates-2024", hashed)

	again, err := HashPassword("pilates-2024")
	require.NoError(t, err)
	assert.NotEqual(t, hashed, again, "bcrypt salts each hash")

	assert.True(t, CheckPassword(hashed, "pilates-2024"))
	assert.False(t, CheckPassword(hashed, "pilates-2025"))
	assert.False(t, CheckPassword(hashed, ""))
}

func TestGenerateAccessToken_Claims(t *testing.T) {
	token, err := GenerateAccessToken(42, "coach@lessonbook.test", RoleAdmin, testAccessSecret)
	require.NoError(t, err)

	claims, err := ValidateToken(token, testAccessSecret)
	require.NoError(t, err)

	assert.Equal(t, 42, claims.UserID)
	assert.Equal(t, "coach@lessonbook.test", claims.Email)
	assert.Equal(t, RoleAdmin, claims.Role)
	assert.Equal(t, tokenTypeAccess, claims.TokenType)
	assert.Equal(t, jwtIssuer, claims.Issuer)
	assert.Contains(t, claims.Audience, jwtAudience)
	assert.WithinDuration(t, time.Now().Add(AccessTokenTTL), claims.ExpiresAt.Time, 2*time.Second)
}

func TestGenerateRefreshToken_TTL(t *testing.T) {
	token, err := GenerateRefreshToken(1, "m@lessonbook.test", RoleMember, testRefreshSecret)
	require.NoError(t, err)

	claims, err := ValidateToken(token, testRefreshSecret)
	require.NoError(t, err)
	assert.Equal(t, tokenTypeRefresh, claims.TokenType)
	assert.WithinDuration(t, time.Now().Add(RefreshTokenTTL), claims.ExpiresAt.Time, 2*time.Second)
}

func TestGenerateTokens(t *testing.T) {
	tests := []struct {
		name          string
		accessSecret  string
		refreshSecret string
		wantErr       bool
	}{
		{"both secrets", testAccessSecret, testRefreshSecret, false},
		{"missing access secret", "", testRefreshSecret, true},
		{"missing refresh secret", testAccessSecret, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			access, refresh, err := GenerateTokens(1, "m@lessonbook.test", RoleMember, tt.accessSecret, tt.refreshSecret)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrEmptyJWTSecret)
				assert.Empty(t, access)
				assert.Empty(t, refresh)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, access)
			assert.NotEqual(t, access, refresh)
		})
	}
}

func TestValidateToken_Failures(t *testing.T) {
	valid, err := GenerateAccessToken(3, "m@lessonbook.test", RoleMember, testAccessSecret)
	require.NoError(t, err)

	t.Run("empty secret", func(t *testing.T) {
		claims, err := ValidateToken(valid, "")
		assert.ErrorIs(t, err, ErrEmptyJWTSecret)
		assert.Nil(t, claims)
	})

	t.Run("wrong secret", func(t *testing.T) {
		claims, err := ValidateToken(valid, "not-the-secret")
		assert.Error(t, err)
		assert.Nil(t, claims)
	})

	t.Run("garbage", func(t *testing.T) {
		claims, err := ValidateToken("a.b.c", testAccessSecret)
		assert.Error(t, err)
		assert.Nil(t, claims)
	})

	t.Run("expired", func(t *testing.T) {
		claims, err := ValidateToken(signExpired(t, tokenTypeAccess, testAccessSecret), testAccessSecret)
		assert.ErrorIs(t, err, ErrTokenExpired)
		assert.Nil(t, claims)
	})
}

func TestRefreshAccessToken(t *testing.T) {
	t.Run("issues a usable access token", func(t *testing.T) {
		refresh, err := GenerateRefreshToken(5, "m@lessonbook.test", RoleMember, testRefreshSecret)
		require.NoError(t, err)

		access, claims, err := RefreshAccessToken(refresh, testRefreshSecret, testAccessSecret)
		require.NoError(t, err)
		assert.Equal(t, 5, claims.UserID)

		accessClaims, err := ValidateToken(access, testAccessSecret)
		require.NoError(t, err)
		assert.Equal(t, tokenTypeAccess, accessClaims.TokenType)
		assert.Equal(t, RoleMember, accessClaims.Role)
	})

	t.Run("rejects access tokens", func(t *testing.T) {
		access, err := GenerateAccessToken(5, "m@lessonbook.test", RoleMember, testRefreshSecret)
		require.NoError(t, err)

		token, claims, err := RefreshAccessToken(access, testRefreshSecret, testAccessSecret)
		assert.ErrorIs(t, err, ErrInvalidTokenType)
		assert.Empty(t, token)
		assert.Nil(t, claims)
	})

	t.Run("rejects expired refresh tokens", func(t *testing.T) {
		_, _, err := RefreshAccessToken(signExpired(t, tokenTypeRefresh, testRefreshSecret), testRefreshSecret, testAccessSecret)
		assert.ErrorIs(t, err, ErrTokenExpired)
	})
}

func signClaims(t *testing.T, method jwt.SigningMethod, claims *JWTClaims, secret string) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func validClaims(userID int, role, tokenType string) *JWTClaims {
	now := time.Now()
	return &JWTClaims{
		UserID:    userID,
		Email:     "member@lessonbook.test",
		Role:      role,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    jwtIssuer,
			Audience:  []string{jwtAudience},
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
}

func TestGenerateToken_UnknownRole(t *testing.T) {
	token, err := GenerateAccessToken(1, "m@lessonbook.test", "user", testAccessSecret)
	assert.ErrorIs(t, err, ErrUnknownRole)
	assert.Empty(t, token)
}

func TestValidateToken_ClaimChecks(t *testing.T) {
	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{"unknown role", signClaims(t, jwt.SigningMethodHS256, validClaims(1, "superuser", tokenTypeAccess), testAccessSecret), ErrUnknownRole},
		{"unknown token type", signClaims(t, jwt.SigningMethodHS256, validClaims(1, RoleMember, "session"), testAccessSecret), ErrInvalidTokenType},
		{"missing subject", signClaims(t, jwt.SigningMethodHS256, validClaims(0, RoleMember, tokenTypeAccess), testAccessSecret), ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := ValidateToken(tt.token, testAccessSecret)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, claims)
		})
	}
}

func TestValidateToken_RejectsOtherAlgorithms(t *testing.T) {
	token := signClaims(t, jwt.SigningMethodHS512, validClaims(1, RoleMember, tokenTypeAccess), testAccessSecret)

	claims, err := ValidateToken(token, testAccessSecret)
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestValidateAccessToken(t *testing.T) {
	access, refresh, err := GenerateTokens(8, "m@lessonbook.test", RoleAdmin, testAccessSecret, testAccessSecret)
	require.NoError(t, err)

	claims, err := ValidateAccessToken(access, testAccessSecret)
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, claims.Role)

	claims, err = ValidateAccessToken(refresh, testAccessSecret)
	assert.ErrorIs(t, err, ErrInvalidTokenType)
	assert.Nil(t, claims)
}
