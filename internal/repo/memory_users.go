package repo

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/meusugar/server/internal/model"
)

type memoryUserRepo struct {
	mu      sync.Mutex
	byID    map[uuid.UUID]*model.User
	byEmail map[string]uuid.UUID
	now     func() time.Time
}

// NewMemoryUserRepo returns a UserRepo held in process memory.
func NewMemoryUserRepo() UserRepo {
	return &memoryUserRepo{
		byID:    make(map[uuid.UUID]*model.User),
		byEmail: make(map[string]uuid.UUID),
		now:     time.Now,
	}
}

func (r *memoryUserRepo) Create(_ context.Context, u NewUser) (model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.ToLower(u.Email)
	if _, ok := r.byEmail[key]; ok {
		return model.User{}, fmt.Errorf("user %q: %w", u.Email, ErrDuplicate)
	}
	user := &model.User{
		ID:           uuid.New(),
		Email:        u.Email,
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		Tokens:       u.Tokens,
		CreatedAt:    r.now(),
	}
	r.byID[user.ID] = user
	r.byEmail[key] = user.ID
	return *user, nil
}

// get returns the stored pointer; callers hold r.mu.
func (r *memoryUserRepo) get(id uuid.UUID) (*model.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("user: %w", ErrNotFound)
	}
	return u, nil
}

func (r *memoryUserRepo) GetByID(_ context.Context, id uuid.UUID) (model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, err := r.get(id)
	if err != nil {
		return model.User{}, err
	}
	return *u, nil
}

func (r *memoryUserRepo) GetByEmail(_ context.Context, email string) (model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return model.User{}, fmt.Errorf("user: %w", ErrNotFound)
	}
	return *r.byID[id], nil
}

func (r *memoryUserRepo) GetByResetTokenHash(_ context.Context, tokenHash string) (model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.ResetTokenHash != nil && *u.ResetTokenHash == tokenHash {
			return *u, nil
		}
	}
	return model.User{}, fmt.Errorf("user: %w", ErrNotFound)
}

func (r *memoryUserRepo) SetTwoFactor(_ context.Context, id uuid.UUID, enabled bool) (model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, err := r.get(id)
	if err != nil {
		return model.User{}, err
	}
	u.TwoFactorEnabled = enabled
	return *u, nil
}

func (r *memoryUserRepo) SetOneTimeCode(_ context.Context, id uuid.UUID, codeHash string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, err := r.get(id)
	if err != nil {
		return err
	}
	u.OneTimeCodeHash = &codeHash
	u.OneTimeCodeExpiresAt = &expiresAt
	u.OneTimeCodeAttempts = 0
	return nil
}

func (r *memoryUserRepo) ConsumeOneTimeCode(_ context.Context, id uuid.UUID, codeHash string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, err := r.get(id)
	if err != nil {
		return false, err
	}
	if u.OneTimeCodeHash == nil || *u.OneTimeCodeHash != codeHash {
		return false, nil
	}
	u.OneTimeCodeHash = nil
	u.OneTimeCodeExpiresAt = nil
	u.OneTimeCodeAttempts = 0
	return true, nil
}

func (r *memoryUserRepo) RecordCodeFailure(_ context.Context, id uuid.UUID, codeHash string, maxAttempts int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, err := r.get(id)
	if err != nil {
		return 0, err
	}
	if u.OneTimeCodeHash == nil || *u.OneTimeCodeHash != codeHash {
		return 0, fmt.Errorf("one-time code: %w", ErrNotFound)
	}
	u.OneTimeCodeAttempts++
	attempts := u.OneTimeCodeAttempts
	if attempts >= maxAttempts {
		u.OneTimeCodeHash = nil
		u.OneTimeCodeExpiresAt = nil
	}
	return attempts, nil
}

func (r *memoryUserRepo) SetResetToken(_ context.Context, id uuid.UUID, tokenHash string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, err := r.get(id)
	if err != nil {
		return err
	}
	u.ResetTokenHash = &tokenHash
	u.ResetTokenExpiresAt = &expiresAt
	return nil
}

func (r *memoryUserRepo) ResetPassword(_ context.Context, id uuid.UUID, tokenHash, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, err := r.get(id)
	if err != nil {
		return err
	}
	if u.ResetTokenHash == nil || *u.ResetTokenHash != tokenHash {
		return fmt.Errorf("reset password: %w", ErrNotFound)
	}
	u.PasswordHash = passwordHash
	u.ResetTokenHash = nil
	u.ResetTokenExpiresAt = nil
	return nil
}

func (r *memoryUserRepo) Balance(_ context.Context, userID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, err := r.get(userID)
	if err != nil {
		return 0, err
	}
	return u.Tokens, nil
}

func (r *memoryUserRepo) AddTokens(_ context.Context, userID uuid.UUID, amount int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, err := r.get(userID)
	if err != nil {
		return 0, err
	}
	u.Tokens += amount
	return u.Tokens, nil
}

func (r *memoryUserRepo) DeductTokens(_ context.Context, userID uuid.UUID, amount int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, err := r.get(userID)
	if err != nil {
		return 0, err
	}
	if u.Tokens < amount {
		return u.Tokens, fmt.Errorf("deduct %d from %d: %w", amount, u.Tokens, ErrInsufficientBalance)
	}
	u.Tokens -= amount
	return u.Tokens, nil
}

func (r *memoryUserRepo) SetTokens(_ context.Context, userID uuid.UUID, amount int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, err := r.get(userID)
	if err != nil {
		return 0, err
	}
	u.Tokens = amount
	return u.Tokens, nil
}
