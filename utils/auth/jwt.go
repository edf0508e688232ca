package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrExpiredToken  = errors.New("token has expired")
	ErrInvalidClaims = errors.New("invalid token claims")
)

// Token types carried in the claims
const (
	TokenAccess  = "access"
	TokenRefresh = "refresh"
)

// JWTConfig holds signing configuration
type JWTConfig struct {
	Secret        string
	Expiry        time.Duration
	RefreshExpiry time.Duration
	Issuer        string
}

// Claims are the JWT claims issued on login
type Claims struct {
	UserID       uint   `json:"user_id"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	TokenType    string `json:"token_type"`
	TokenVersion int    `json:"token_version"` // bumped to invalidate all of a user's tokens
	jwt.RegisteredClaims
}

// JWTManager issues and validates tokens
type JWTManager struct {
	config JWTConfig
}

// NewJWTManager creates a new JWT manager
func NewJWTManager(config JWTConfig) *JWTManager {
	return &JWTManager{config: config}
}

func (j *JWTManager) generate(userID uint, email, role, tokenType string, tokenVersion int, ttl time.Duration) (string, string, error) {
	now := time.Now()
	jti := uuid.New().String()

	claims := Claims{
		UserID:       userID,
		Email:        email,
		Role:         role,
		TokenType:    tokenType,
		TokenVersion: tokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    j.config.Issuer,
			Subject:   email,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(j.config.Secret))
	return signed, jti, err
}

// GenerateAccessToken issues a short-lived access token, returning the token and its JTI
func (j *JWTManager) GenerateAccessToken(userID uint, email, role string, tokenVersion int) (string, string, error) {
	return j.generate(userID, email, role, TokenAccess, tokenVersion, j.config.Expiry)
}

// GenerateRefreshToken issues a long-lived refresh token, returning the token and its JTI
func (j *JWTManager) GenerateRefreshToken(userID uint, email, role string, tokenVersion int) (string, string, error) {
	return j.generate(userID, email, role, TokenRefresh, tokenVersion, j.config.RefreshExpiry)
}

// ValidateToken parses and verifies a token, returning its claims
func (j *JWTManager) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(j.config.Secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}
	return claims, nil
}

// RefreshAccessToken issues a new access token from a valid refresh token.
// The caller supplies the user's current token version so a bumped version
// invalidates outstanding refresh tokens too.
func (j *JWTManager) RefreshAccessToken(refreshToken string, currentVersion int) (string, string, error) {
	claims, err := j.ValidateToken(refreshToken)
	if err != nil {
		return "", "", err
	}
	if claims.TokenType != TokenRefresh {
		return "", "", ErrInvalidToken
	}
	if claims.TokenVersion != currentVersion {
		return "", "", ErrInvalidToken
	}
	return j.GenerateAccessToken(claims.UserID, claims.Email, claims.Role, currentVersion)
}
