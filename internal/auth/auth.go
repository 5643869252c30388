package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	jwtIssuer   = "lessonbook-api"
	jwtAudience = "lessonbook-clients"

	AccessTokenTTL  = 15 * time.Minute
	RefreshTokenTTL = 7 * 24 * time.Hour

	RoleMember = "member"
	RoleAdmin  = "admin"

	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

var (
	ErrTokenExpired     = errors.New("token expired")
	ErrInvalidToken     = errors.New("invalid token")
	ErrInvalidTokenType = errors.New("invalid token type")
	ErrUnknownRole      = errors.New("unknown role")
	ErrEmptyJWTSecret   = errors.New("jwt secret cannot be empty")
)

var tokenTTLs = map[string]time.Duration{
	tokenTypeAccess:  AccessTokenTTL,
	tokenTypeRefresh: RefreshTokenTTL,
}

func knownRole(role string) bool {
	return role == RoleMember || role == RoleAdmin
}

type JWTClaims struct {
	UserID    int    `json:"user_id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// Validate runs after the registered-claims checks during parsing.
func (c *JWTClaims) Validate() error {
	if c.UserID <= 0 {
		return ErrInvalidToken
	}
	if !knownRole(c.Role) {
		return ErrUnknownRole
	}
	if _, ok := tokenTTLs[c.TokenType]; !ok {
		return ErrInvalidTokenType
	}
	return nil
}

func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func CheckPassword(hashedPassword, plainPassword string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(plainPassword)) == nil
}

func sign(userID int, email, role, tokenType, secret string) (string, error) {
	if secret == "" {
		return "", ErrEmptyJWTSecret
	}
	if !knownRole(role) {
		return "", ErrUnknownRole
	}

	issuedAt := time.Now()
	claims := &JWTClaims{
		UserID:    userID,
		Email:     email,
		Role:      role,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    jwtIssuer,
			Audience:  jwt.ClaimStrings{jwtAudience},
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(tokenTTLs[tokenType])),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func GenerateAccessToken(userID int, email, role, secret string) (string, error) {
	return sign(userID, email, role, tokenTypeAccess, secret)
}

func GenerateRefreshToken(userID int, email, role, secret string) (string, error) {
	return sign(userID, email, role, tokenTypeRefresh, secret)
}

// GenerateTokens signs an access/refresh pair with their separate secrets.
func GenerateTokens(userID int, email, role, accessSecret, refreshSecret string) (string, string, error) {
	access, err := GenerateAccessToken(userID, email, role, accessSecret)
	if err != nil {
		return "", "", err
	}
	refresh, err := GenerateRefreshToken(userID, email, role, refreshSecret)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

var parser = jwt.NewParser(
	jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	jwt.WithIssuer(jwtIssuer),
	jwt.WithAudience(jwtAudience),
	jwt.WithExpirationRequired(),
)

// ValidateToken verifies signature, registered claims and JWTClaims.Validate.
// Claim failures are reported as this package's sentinel errors.
func ValidateToken(tokenString, secret string) (*JWTClaims, error) {
	if secret == "" {
		return nil, ErrEmptyJWTSecret
	}

	claims := &JWTClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		for _, sentinel := range []error{ErrInvalidTokenType, ErrUnknownRole, ErrInvalidToken} {
			if errors.Is(err, sentinel) {
				return nil, sentinel
			}
		}
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, err
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// validateAs is ValidateToken restricted to one token type.
func validateAs(tokenString, secret, tokenType string) (*JWTClaims, error) {
	claims, err := ValidateToken(tokenString, secret)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != tokenType {
		return nil, ErrInvalidTokenType
	}
	return claims, nil
}

func ValidateAccessToken(tokenString, secret string) (*JWTClaims, error) {
	return validateAs(tokenString, secret, tokenTypeAccess)
}

// RefreshAccessToken exchanges a valid refresh token for a new access token.
func RefreshAccessToken(refreshToken, refreshSecret, accessSecret string) (string, *JWTClaims, error) {
	claims, err := validateAs(refreshToken, refreshSecret, tokenTypeRefresh)
	if err != nil {
		return "", nil, err
	}

	access, err := GenerateAccessToken(claims.UserID, claims.Email, claims.Role, accessSecret)
	if err != nil {
		return "", nil, err
	}
	return access, claims, nil
}
