package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/meusugar/server/internal/model"
)

// NewUser is the input for creating an account.
type NewUser struct {
	Email        string
	Name         string
	PasswordHash string
	Tokens       int64
}

// BalanceRepo is the token ledger storage. DeductTokens is the only guarded mutation:
// it returns ErrInsufficientBalance together with the unchanged balance.
type BalanceRepo interface {
	Balance(ctx context.Context, userID uuid.UUID) (int64, error)
	AddTokens(ctx context.Context, userID uuid.UUID, amount int64) (int64, error)
	DeductTokens(ctx context.Context, userID uuid.UUID, amount int64) (int64, error)
	SetTokens(ctx context.Context, userID uuid.UUID, amount int64) (int64, error)
}

// UserRepo defines the interface for user repository operations
type UserRepo interface {
	BalanceRepo

	Create(ctx context.Context, u NewUser) (model.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (model.User, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByResetTokenHash(ctx context.Context, tokenHash string) (model.User, error)
	SetTwoFactor(ctx context.Context, id uuid.UUID, enabled bool) (model.User, error)

	// SetOneTimeCode replaces any pending code.
	SetOneTimeCode(ctx context.Context, id uuid.UUID, codeHash string, expiresAt time.Time) error
	// ConsumeOneTimeCode clears the pending code only if it still equals codeHash.
	// It returns false when the code was already consumed or replaced.
	ConsumeOneTimeCode(ctx context.Context, id uuid.UUID, codeHash string) (bool, error)
	// RecordCodeFailure counts a wrong guess against the pending code and clears the
	// code once maxAttempts is reached. It returns the attempts so far, or ErrNotFound
	// when codeHash is no longer pending.
	RecordCodeFailure(ctx context.Context, id uuid.UUID, codeHash string, maxAttempts int) (int, error)

	// SetResetToken replaces any pending reset token.
	SetResetToken(ctx context.Context, id uuid.UUID, tokenHash string, expiresAt time.Time) error
	// ResetPassword stores the new credential and clears the reset token, only if the
	// account still holds tokenHash. Returns ErrNotFound otherwise.
	ResetPassword(ctx context.Context, id uuid.UUID, tokenHash, passwordHash string) error
}

type userRepo struct {
	db *sql.DB
}

// NewUserRepo creates a new UserRepo instance
func NewUserRepo(db *sql.DB) UserRepo {
	return &userRepo{db: db}
}

const userColumns = `id, email, name, password_hash, tokens, two_factor_enabled,
	one_time_code_hash, one_time_code_expires_at, one_time_code_attempts, reset_token_hash, reset_token_expires_at, created_at`

func scanUser(row rowScanner) (model.User, error) {
	var u model.User
	var codeHash, resetHash sql.NullString
	var codeExp, resetExp sql.NullTime
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.Name,
		&u.PasswordHash,
		&u.Tokens,
		&u.TwoFactorEnabled,
		&codeHash,
		&codeExp,
		&u.OneTimeCodeAttempts,
		&resetHash,
		&resetExp,
		&u.CreatedAt,
	)
	if err != nil {
		return model.User{}, err
	}
	if codeHash.Valid {
		u.OneTimeCodeHash = &codeHash.String
	}
	if codeExp.Valid {
		u.OneTimeCodeExpiresAt = &codeExp.Time
	}
	if resetHash.Valid {
		u.ResetTokenHash = &resetHash.String
	}
	if resetExp.Valid {
		u.ResetTokenExpiresAt = &resetExp.Time
	}
	return u, nil
}

func (r *userRepo) getOne(ctx context.Context, where string, arg any) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + where
	user, err := scanUser(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, fmt.Errorf("user: %w", ErrNotFound)
		}
		return model.User{}, fmt.Errorf("failed to query user: %w", err)
	}
	return user, nil
}

// Create inserts a new account. A taken email yields ErrDuplicate.
func (r *userRepo) Create(ctx context.Context, u NewUser) (model.User, error) {
	query := `
		INSERT INTO users (email, name, password_hash, tokens)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + userColumns
	user, err := scanUser(r.db.QueryRowContext(ctx, query, u.Email, u.Name, u.PasswordHash, u.Tokens))
	if err != nil {
		if isUniqueViolation(err) {
			return model.User{}, fmt.Errorf("user %q: %w", u.Email, ErrDuplicate)
		}
		return model.User{}, fmt.Errorf("failed to insert user: %w", err)
	}
	return user, nil
}

// GetByID retrieves a user by ID
func (r *userRepo) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	return r.getOne(ctx, "id = $1", id)
}

// GetByEmail retrieves a user by email, case-insensitively
func (r *userRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	return r.getOne(ctx, "lower(email) = lower($1)", email)
}

// GetByResetTokenHash retrieves the user holding a pending reset token
func (r *userRepo) GetByResetTokenHash(ctx context.Context, tokenHash string) (model.User, error) {
	return r.getOne(ctx, "reset_token_hash = $1", tokenHash)
}

func (r *userRepo) SetTwoFactor(ctx context.Context, id uuid.UUID, enabled bool) (model.User, error) {
	query := `UPDATE users SET two_factor_enabled = $2 WHERE id = $1 RETURNING ` + userColumns
	user, err := scanUser(r.db.QueryRowContext(ctx, query, id, enabled))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, fmt.Errorf("user: %w", ErrNotFound)
		}
		return model.User{}, fmt.Errorf("failed to update two-factor flag: %w", err)
	}
	return user, nil
}

func (r *userRepo) SetOneTimeCode(ctx context.Context, id uuid.UUID, codeHash string, expiresAt time.Time) error {
	return r.execOne(ctx, "set one-time code", `
		UPDATE users
		SET one_time_code_hash = $2, one_time_code_expires_at = $3, one_time_code_attempts = 0
		WHERE id = $1
	`, id, codeHash, expiresAt)
}

func (r *userRepo) ConsumeOneTimeCode(ctx context.Context, id uuid.UUID, codeHash string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET one_time_code_hash = NULL, one_time_code_expires_at = NULL, one_time_code_attempts = 0
		WHERE id = $1 AND one_time_code_hash = $2
	`, id, codeHash)
	if err != nil {
		return false, fmt.Errorf("consume one-time code: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("consume one-time code: %w", err)
	}
	return n == 1, nil
}

func (r *userRepo) RecordCodeFailure(ctx context.Context, id uuid.UUID, codeHash string, maxAttempts int) (int, error) {
	var attempts int
	err := r.db.QueryRowContext(ctx, `
		UPDATE users
		SET one_time_code_attempts = one_time_code_attempts + 1,
		    one_time_code_hash = CASE WHEN one_time_code_attempts + 1 >= $3 THEN NULL ELSE one_time_code_hash END,
		    one_time_code_expires_at = CASE WHEN one_time_code_attempts + 1 >= $3 THEN NULL ELSE one_time_code_expires_at END
		WHERE id = $1 AND one_time_code_hash = $2
		RETURNING one_time_code_attempts
	`, id, codeHash, maxAttempts).Scan(&attempts)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("one-time code: %w", ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("record code failure: %w", err)
	}
	return attempts, nil
}

func (r *userRepo) SetResetToken(ctx context.Context, id uuid.UUID, tokenHash string, expiresAt time.Time) error {
	return r.execOne(ctx, "set reset token", `
		UPDATE users
		SET reset_token_hash = $2, reset_token_expires_at = $3
		WHERE id = $1
	`, id, tokenHash, expiresAt)
}

func (r *userRepo) ResetPassword(ctx context.Context, id uuid.UUID, tokenHash, passwordHash string) error {
	return r.execOne(ctx, "reset password", `
		UPDATE users
		SET password_hash = $3, reset_token_hash = NULL, reset_token_expires_at = NULL
		WHERE id = $1 AND reset_token_hash = $2
	`, id, tokenHash, passwordHash)
}

// execOne runs an UPDATE that must touch exactly one row.
func (r *userRepo) execOne(ctx context.Context, op, query string, args ...any) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

func (r *userRepo) Balance(ctx context.Context, userID uuid.UUID) (int64, error) {
	var tokens int64
	err := r.db.QueryRowContext(ctx, `SELECT tokens FROM users WHERE id = $1`, userID).Scan(&tokens)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("user: %w", ErrNotFound)
		}
		return 0, fmt.Errorf("query balance: %w", err)
	}
	return tokens, nil
}

func (r *userRepo) AddTokens(ctx context.Context, userID uuid.UUID, amount int64) (int64, error) {
	return r.updateBalance(ctx, "add tokens",
		`UPDATE users SET tokens = tokens + $2 WHERE id = $1 RETURNING tokens`, userID, amount)
}

// DeductTokens subtracts amount only when the balance covers it, in a single statement.
func (r *userRepo) DeductTokens(ctx context.Context, userID uuid.UUID, amount int64) (int64, error) {
	var tokens int64
	err := r.db.QueryRowContext(ctx, `
		UPDATE users SET tokens = tokens - $2
		WHERE id = $1 AND tokens >= $2
		RETURNING tokens
	`, userID, amount).Scan(&tokens)
	if err == nil {
		return tokens, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("deduct tokens: %w", err)
	}

	current, err := r.Balance(ctx, userID)
	if err != nil {
		return 0, err
	}
	return current, fmt.Errorf("deduct %d from %d: %w", amount, current, ErrInsufficientBalance)
}

func (r *userRepo) SetTokens(ctx context.Context, userID uuid.UUID, amount int64) (int64, error) {
	return r.updateBalance(ctx, "set tokens",
		`UPDATE users SET tokens = $2 WHERE id = $1 RETURNING tokens`, userID, amount)
}

func (r *userRepo) updateBalance(ctx context.Context, op, query string, userID uuid.UUID, amount int64) (int64, error) {
	var tokens int64
	err := r.db.QueryRowContext(ctx, query, userID, amount).Scan(&tokens)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return tokens, nil
}
