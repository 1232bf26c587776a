package services

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tasmeem-studio/tasmeem-api/models"
)

var (
	// ErrInvalidToken covers malformed, mis-signed and expired tokens.
	// Callers treat all of these as "unauthenticated", never as a crash.
	ErrInvalidToken = errors.New("invalid token")
)

const sessionTTL = 24 * time.Hour

// SessionClaims carries the principal inside a session token. The role is
// captured at mint time from the database record; request payloads are
// never consulted for it.
type SessionClaims struct {
	UserID uint        `json:"user_id"`
	Role   models.Role `json:"role"`
	jwt.RegisteredClaims
}

// TokenService mints and validates session tokens.
type TokenService struct {
	secret []byte
}

var tokenServiceInstance *TokenService

// NewTokenService creates a token service signing with the given secret.
func NewTokenService(secret string) *TokenService {
	return &TokenService{secret: []byte(secret)}
}

// InitTokenService installs the global token service
func InitTokenService(secret string) *TokenService {
	tokenServiceInstance = NewTokenService(secret)
	return tokenServiceInstance
}

// GetTokenService returns the installed token service instance
func GetTokenService() *TokenService {
	return tokenServiceInstance
}

// SetTokenService sets the token service instance (primarily for testing)
func SetTokenService(s *TokenService) {
	tokenServiceInstance = s
}

// Generate mints a session token for the given user.
func (s *TokenService) Generate(user *models.User) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(sessionTTL)),
			Issuer:    "tasmeem-api",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Validate parses and verifies a session token and returns its claims.
func (s *TokenService) Validate(tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if !claims.Role.Valid() {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
