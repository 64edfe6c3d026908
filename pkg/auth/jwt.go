package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrExpiredToken  = errors.New("token has expired")
	ErrInvalidClaims = errors.New("invalid token claims")
)

// TokenManager manages the JWT session tokens carried in cookies. The
// access token is short-lived; the refresh token is used by the route
// gate to silently mint a new access token when the old one expires.
type TokenManager struct {
	accessSecret    []byte
	refreshSecret   []byte
	accessDuration  time.Duration
	refreshDuration time.Duration
	issuer          string
}

// NewTokenManager creates a new token manager
func NewTokenManager(accessSecret, refreshSecret string, accessDuration, refreshDuration time.Duration) *TokenManager {
	return &TokenManager{
		accessSecret:    []byte(accessSecret),
		refreshSecret:   []byte(refreshSecret),
		accessDuration:  accessDuration,
		refreshDuration: refreshDuration,
		issuer:          "taskdeck",
	}
}

// SessionClaims represents the custom JWT claims
type SessionClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Type   string `json:"type"` // "access" or "refresh"
	jwt.RegisteredClaims
}

// GenerateTokenPair generates both access and refresh tokens
func (tm *TokenManager) GenerateTokenPair(userID, email string) (accessToken, refreshToken string, err error) {
	accessToken, err = tm.generateToken(userID, email, "access", tm.accessSecret, tm.accessDuration)
	if err != nil {
		return "", "", fmt.Errorf("generate access token: %w", err)
	}

	refreshToken, err = tm.generateToken(userID, email, "refresh", tm.refreshSecret, tm.refreshDuration)
	if err != nil {
		return "", "", fmt.Errorf("generate refresh token: %w", err)
	}

	return accessToken, refreshToken, nil
}

// generateToken creates a JWT token with session claims
func (tm *TokenManager) generateToken(userID, email, tokenType string, secret []byte, duration time.Duration) (string, error) {
	now := time.Now()

	claims := SessionClaims{
		UserID: userID,
		Email:  email,
		Type:   tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    tm.issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(duration)),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return tokenString, nil
}

// ValidateAccessToken validates an access token and returns the claims
func (tm *TokenManager) ValidateAccessToken(tokenString string) (*SessionClaims, error) {
	return tm.validateToken(tokenString, "access", tm.accessSecret)
}

// ValidateRefreshToken validates a refresh token and returns the claims
func (tm *TokenManager) ValidateRefreshToken(tokenString string) (*SessionClaims, error) {
	return tm.validateToken(tokenString, "refresh", tm.refreshSecret)
}

// validateToken validates a token and returns the session claims
func (tm *TokenManager) validateToken(tokenString, expectedType string, secret []byte) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok {
		return nil, ErrInvalidClaims
	}

	if !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.Type != expectedType {
		return nil, fmt.Errorf("invalid token type: expected %s, got %s", expectedType, claims.Type)
	}

	return claims, nil
}

// RefreshAccessToken generates a new access token from a valid refresh token
func (tm *TokenManager) RefreshAccessToken(refreshToken string) (string, *SessionClaims, error) {
	claims, err := tm.ValidateRefreshToken(refreshToken)
	if err != nil {
		return "", nil, fmt.Errorf("validate refresh token: %w", err)
	}

	accessToken, err := tm.generateToken(claims.UserID, claims.Email, "access", tm.accessSecret, tm.accessDuration)
	if err != nil {
		return "", nil, fmt.Errorf("generate access token: %w", err)
	}

	return accessToken, claims, nil
}

// AccessTokenDuration reports the configured access token lifetime.
func (tm *TokenManager) AccessTokenDuration() time.Duration {
	return tm.accessDuration
}

// RefreshTokenDuration reports the configured refresh token lifetime.
func (tm *TokenManager) RefreshTokenDuration() time.Duration {
	return tm.refreshDuration
}
