package auth

import (
	"context"
	"crypto/subtle"
	"strings"

	"github.com/meusugar/server/internal/apperr"
	"github.com/meusugar/server/internal/logging"
)

// AdminGate checks the back-office credential and issues admin sessions.
type AdminGate struct {
	email        string
	passwordHash string
	jwt          *JWTService
	log          logging.Logger
}

func NewAdminGate(email, passwordHash string, jwt *JWTService, log logging.Logger) *AdminGate {
	return &AdminGate{
		email:        strings.ToLower(strings.TrimSpace(email)),
		passwordHash: passwordHash,
		jwt:          jwt,
		log:          log,
	}
}

// Login returns a token carrying the is_admin claim.
func (g *AdminGate) Login(ctx context.Context, email, password string) (string, error) {
	if g.email == "" || g.passwordHash == "" {
		return "", apperr.Unavailable("admin login not configured", nil)
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", apperr.Validation("email and password are required")
	}

	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(g.email)) == 1
	passOK, err := CheckPassword(g.passwordHash, password)
	if err != nil {
		return "", apperr.Internal("admin credential misconfigured", err)
	}
	if !emailOK || !passOK {
		g.log.Warn(ctx, "admin login rejected", "email", logging.MaskEmail(email))
		return "", apperr.Unauthorized("invalid email or password")
	}

	token, err := g.jwt.SignAdminToken(g.email)
	if err != nil {
		return "", apperr.Internal("failed to create session", err)
	}
	g.log.Info(ctx, "admin login", "email", logging.MaskEmail(g.email))
	return token, nil
}
