package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// SessionClaims is the JWT payload carried on every authenticated request.
// It supplies the current user's identity and role to the handlers.
type SessionClaims struct {
	UserID       int64  `json:"uid"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	DepartmentID *int64 `json:"department_id,omitempty"`
	jwt.RegisteredClaims
}

// JWTManager issues and validates HS256 bearer tokens.
type JWTManager struct {
	secret          []byte
	tokenDuration   time.Duration
	refreshDuration time.Duration
	issuer          string
}

// NewJWTManager creates a JWT manager with the given signing secret.
func NewJWTManager(secret string, tokenDuration, refreshDuration time.Duration, issuer string) *JWTManager {
	return &JWTManager{
		secret:          []byte(secret),
		tokenDuration:   tokenDuration,
		refreshDuration: refreshDuration,
		issuer:          issuer,
	}
}

// GenerateToken issues an access token for the user.
func (m *JWTManager) GenerateToken(userID int64, email, role string, departmentID *int64) (string, error) {
	return m.sign(userID, email, role, departmentID, m.tokenDuration)
}

// GenerateRefreshToken issues a longer-lived token carrying only the user id.
func (m *JWTManager) GenerateRefreshToken(userID int64) (string, error) {
	return m.sign(userID, "", "", nil, m.refreshDuration)
}

func (m *JWTManager) sign(userID int64, email, role string, departmentID *int64, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		UserID:       userID,
		Email:        email,
		Role:         role,
		DepartmentID: departmentID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses and verifies a token, returning its claims.
func (m *JWTManager) ValidateToken(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// TokenDuration returns the access token lifetime.
func (m *JWTManager) TokenDuration() time.Duration {
	return m.tokenDuration
}
