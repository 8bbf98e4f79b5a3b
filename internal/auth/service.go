// Package auth implements account credentials, one-time codes, password reset
// and session tokens.
package auth

import (
	"context"
	"errors"
	"net/mail"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/meusugar/server/internal/apperr"
	"github.com/meusugar/server/internal/ledger"
	"github.com/meusugar/server/internal/logging"
	"github.com/meusugar/server/internal/model"
	"github.com/meusugar/server/internal/notify"
	"github.com/meusugar/server/internal/repo"
)

const (
	oneTimeCodeExpiry = 10 * time.Minute
	// maxCodeAttempts wrong guesses clear the pending code.
	maxCodeAttempts  = 5
	resetTokenExpiry = time.Hour
)

// Session is a completed login.
type Session struct {
	User  model.User
	Token string
}

// LoginResult is either a completed Session or a pending second factor.
type LoginResult struct {
	Session        *Session
	NeedsTwoFactor bool
	Email          string
}

// Options configures a Service.
type Options struct {
	Users    repo.UserRepo
	Metrics  repo.MetricsRepo
	Notifier notify.Notifier
	JWT      *JWTService
	Salt     string
	AppURL   string
	Log      logging.Logger
	Now      func() time.Time
}

// Service orchestrates authentication operations
type Service struct {
	users    repo.UserRepo
	metrics  repo.MetricsRepo
	notifier notify.Notifier
	jwt      *JWTService
	salt     string
	appURL   string
	log      logging.Logger
	now      func() time.Time
}

// NewService creates a new auth service. A nil Users repo makes every
// operation report unavailable.
func NewService(opts Options) *Service {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	log := opts.Log
	if log == nil {
		log = logging.Discard()
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = notify.NewLogNotifier(log)
	}
	return &Service{
		users:    opts.Users,
		metrics:  opts.Metrics,
		notifier: notifier,
		jwt:      opts.JWT,
		salt:     opts.Salt,
		appURL:   strings.TrimRight(opts.AppURL, "/"),
		log:      log,
		now:      now,
	}
}

func (s *Service) ready() error {
	if s.users == nil {
		return apperr.Unavailable("database not configured", nil)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an account with the starting balance.
func (s *Service) Register(ctx context.Context, email, password, name string) (model.User, error) {
	email = normalizeEmail(email)
	name = strings.TrimSpace(name)
	if email == "" || password == "" || name == "" {
		return model.User{}, apperr.Validation("email, password and name are required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return model.User{}, apperr.Validation("invalid email")
	}
	if err := ValidatePassword(password); err != nil {
		return model.User{}, err
	}
	if err := s.ready(); err != nil {
		return model.User{}, err
	}

	hash, err := HashPassword(password)
	if err != nil {
		return model.User{}, apperr.Internal("failed to create account", err)
	}

	user, err := s.users.Create(ctx, repo.NewUser{
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Tokens:       ledger.StartingBalance,
	})
	if errors.Is(err, repo.ErrDuplicate) {
		return model.User{}, apperr.Conflict("email already registered")
	}
	if err != nil {
		return model.User{}, apperr.Internal("failed to create account", err)
	}

	if s.metrics != nil {
		if err := s.metrics.IncrementNewUsers(ctx); err != nil {
			s.log.Warn(ctx, "failed to count new user", "error", err)
		}
	}
	s.log.Info(ctx, "account registered", "user_id", user.ID, "email", logging.MaskEmail(email))
	return user, nil
}

// Login checks the credential. With two-factor enabled it issues a one-time code
// and returns NeedsTwoFactor instead of a session.
func (s *Service) Login(ctx context.Context, email, password string) (LoginResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return LoginResult{}, apperr.Validation("email and password are required")
	}
	if err := s.ready(); err != nil {
		return LoginResult{}, err
	}

	user, err := s.lookup(ctx, email)
	if err != nil {
		return LoginResult{}, err
	}

	ok, err := CheckPassword(user.PasswordHash, password)
	if err != nil {
		return LoginResult{}, apperr.Internal("failed to check credential", err)
	}
	if !ok {
		return LoginResult{}, apperr.Unauthorized("invalid password")
	}

	if !user.TwoFactorEnabled {
		session, err := s.issue(user)
		if err != nil {
			return LoginResult{}, err
		}
		return LoginResult{Session: &session}, nil
	}

	code, err := GenerateOneTimeCode()
	if err != nil {
		return LoginResult{}, apperr.Internal("failed to issue code", err)
	}
	expiresAt := s.now().Add(oneTimeCodeExpiry)
	if err := s.users.SetOneTimeCode(ctx, user.ID, HashOneTimeCode(email, code, s.salt), expiresAt); err != nil {
		return LoginResult{}, apperr.Internal("failed to issue code", err)
	}
	s.dispatch(ctx, notify.TwoFactorMessage(user.Email, code))

	return LoginResult{NeedsTwoFactor: true, Email: user.Email}, nil
}

// VerifyOneTimeCode completes a two-factor login. A code is valid strictly
// before its expiry and only once, and maxCodeAttempts wrong guesses clear it.
func (s *Service) VerifyOneTimeCode(ctx context.Context, email, code string) (Session, error) {
	email = normalizeEmail(email)
	code = strings.TrimSpace(code)
	if email == "" || code == "" {
		return Session{}, apperr.Validation("email and code are required")
	}
	if err := s.ready(); err != nil {
		return Session{}, err
	}

	user, err := s.lookup(ctx, email)
	if err != nil {
		return Session{}, err
	}
	if user.OneTimeCodeHash == nil || user.OneTimeCodeExpiresAt == nil {
		return Session{}, apperr.Validation("no verification code pending")
	}

	stored := *user.OneTimeCodeHash
	if !s.now().Before(*user.OneTimeCodeExpiresAt) {
		if _, err := s.users.ConsumeOneTimeCode(ctx, user.ID, stored); err != nil {
			s.log.Warn(ctx, "failed to clear expired code", "user_id", user.ID, "error", err)
		}
		return Session{}, apperr.Unauthorized("verification code expired")
	}
	if !hashesEqual(HashOneTimeCode(email, code, s.salt), stored) {
		attempts, err := s.users.RecordCodeFailure(ctx, user.ID, stored, maxCodeAttempts)
		switch {
		case errors.Is(err, repo.ErrNotFound):
		case err != nil:
			return Session{}, apperr.Internal("failed to verify code", err)
		case attempts >= maxCodeAttempts:
			s.log.Warn(ctx, "one-time code cleared after failed attempts", "user_id", user.ID, "attempts", attempts)
			return Session{}, apperr.Unauthorized("too many attempts, request a new code")
		}
		return Session{}, apperr.Unauthorized("invalid verification code")
	}

	consumed, err := s.users.ConsumeOneTimeCode(ctx, user.ID, stored)
	if err != nil {
		return Session{}, apperr.Internal("failed to verify code", err)
	}
	if !consumed {
		return Session{}, apperr.Unauthorized("invalid verification code")
	}
	user.OneTimeCodeHash = nil
	user.OneTimeCodeExpiresAt = nil
	user.OneTimeCodeAttempts = 0

	return s.issue(user)
}

// RequestPasswordReset stores a fresh reset token and mails the reset link.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return apperr.Validation("email is required")
	}
	if err := s.ready(); err != nil {
		return err
	}

	user, err := s.lookup(ctx, email)
	if err != nil {
		return err
	}

	token, hash, err := GenerateResetToken()
	if err != nil {
		return apperr.Internal("failed to issue reset token", err)
	}
	if err := s.users.SetResetToken(ctx, user.ID, hash, s.now().Add(resetTokenExpiry)); err != nil {
		return apperr.Internal("failed to issue reset token", err)
	}

	link := s.appURL + "/redefinir-senha?token=" + url.QueryEscape(token)
	s.dispatch(ctx, notify.ResetPasswordMessage(user.Email, link))
	return nil
}

// RedeemPasswordReset replaces the credential of the account holding token.
func (s *Service) RedeemPasswordReset(ctx context.Context, token, newPassword string) error {
	token = strings.TrimSpace(token)
	if token == "" || newPassword == "" {
		return apperr.Validation("token and newPassword are required")
	}
	if err := ValidatePassword(newPassword); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}

	hash := HashResetToken(token)
	user, err := s.users.GetByResetTokenHash(ctx, hash)
	if errors.Is(err, repo.ErrNotFound) {
		return apperr.NotFound("invalid reset token")
	}
	if err != nil {
		return apperr.Internal("failed to reset password", err)
	}
	if user.ResetTokenExpiresAt == nil || !s.now().Before(*user.ResetTokenExpiresAt) {
		return apperr.Unauthorized("reset token expired")
	}

	passwordHash, err := HashPassword(newPassword)
	if err != nil {
		return apperr.Internal("failed to reset password", err)
	}
	err = s.users.ResetPassword(ctx, user.ID, hash, passwordHash)
	if errors.Is(err, repo.ErrNotFound) {
		return apperr.NotFound("invalid reset token")
	}
	if err != nil {
		return apperr.Internal("failed to reset password", err)
	}

	s.log.Info(ctx, "password reset", "user_id", user.ID)
	return nil
}

// Me returns the account of a session.
func (s *Service) Me(ctx context.Context, userID uuid.UUID) (model.User, error) {
	if err := s.ready(); err != nil {
		return model.User{}, err
	}
	user, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.User{}, apperr.NotFound("user not found")
	}
	if err != nil {
		return model.User{}, apperr.Internal("failed to load account", err)
	}
	return user, nil
}

// SetTwoFactor toggles the second factor on an account.
func (s *Service) SetTwoFactor(ctx context.Context, userID uuid.UUID, enabled bool) (model.User, error) {
	if err := s.ready(); err != nil {
		return model.User{}, err
	}
	user, err := s.users.SetTwoFactor(ctx, userID, enabled)
	if errors.Is(err, repo.ErrNotFound) {
		return model.User{}, apperr.NotFound("user not found")
	}
	if err != nil {
		return model.User{}, apperr.Internal("failed to update account", err)
	}
	return user, nil
}

func (s *Service) lookup(ctx context.Context, email string) (model.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, repo.ErrNotFound) {
		return model.User{}, apperr.NotFound("user not found")
	}
	if err != nil {
		return model.User{}, apperr.Internal("failed to load account", err)
	}
	return user, nil
}

func (s *Service) issue(user model.User) (Session, error) {
	token, err := s.jwt.SignUserToken(user.ID, user.Email)
	if err != nil {
		return Session{}, apperr.Internal("failed to create session", err)
	}
	return Session{User: user, Token: token}, nil
}

// dispatch sends a notification. Delivery failures are logged only.
func (s *Service) dispatch(ctx context.Context, msg notify.Message) {
	if err := s.notifier.Send(ctx, msg); err != nil {
		s.log.Error(ctx, "notification failed", "kind", string(msg.Kind), "to", logging.MaskEmail(msg.To), "error", err)
	}
}
