package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	userTokenExpiry  = 7 * 24 * time.Hour
	adminTokenExpiry = 12 * time.Hour
)

// SessionClaims are the claims of a session token. Subject is the user id for
// account sessions and empty for the back-office session.
type SessionClaims struct {
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin,omitempty"`
	jwt.RegisteredClaims
}

// UserID parses the subject. It fails for admin-only sessions.
func (c *SessionClaims) UserID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}

// JWTService handles JWT token operations
type JWTService struct {
	secret []byte
	now    func() time.Time
}

// NewJWTService creates a new JWT service
func NewJWTService(secret string) *JWTService {
	return &JWTService{
		secret: []byte(secret),
		now:    time.Now,
	}
}

// SignUserToken issues a session for an account (7-day expiry).
func (s *JWTService) SignUserToken(userID uuid.UUID, email string) (string, error) {
	return s.sign(&SessionClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: userID.String(),
		},
	}, userTokenExpiry)
}

// SignAdminToken issues a back-office session carrying the is_admin claim (12h expiry).
func (s *JWTService) SignAdminToken(email string) (string, error) {
	return s.sign(&SessionClaims{
		Email:   email,
		IsAdmin: true,
	}, adminTokenExpiry)
}

func (s *JWTService) sign(claims *SessionClaims, ttl time.Duration) (string, error) {
	now := s.now()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// VerifyToken verifies and parses a JWT token
func (s *JWTService) VerifyToken(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}
