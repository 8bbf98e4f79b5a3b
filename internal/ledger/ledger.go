// Package ledger keeps the per-account token balance.
package ledger

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/meusugar/server/internal/apperr"
	"github.com/meusugar/server/internal/logging"
	"github.com/meusugar/server/internal/model"
	"github.com/meusugar/server/internal/repo"
)

// StartingBalance is credited to every new account.
const StartingBalance int64 = 10

// Deduct applies the guarded deduction rule to a balance: it succeeds only when
// amount <= balance, otherwise balance is returned unchanged.
func Deduct(balance, amount int64) (int64, bool) {
	if amount > balance {
		return balance, false
	}
	return balance - amount, true
}

// PackageFinder resolves a token package by id.
type PackageFinder interface {
	GetPackage(ctx context.Context, id string) (model.TokenPackage, error)
}

// Receipt is the outcome of a package purchase.
type Receipt struct {
	Package  model.TokenPackage `json:"package"`
	Credited int64              `json:"credited"`
	Balance  int64              `json:"balance"`
}

// Service mutates balances through a BalanceRepo. A nil repo means no store is
// configured and every call reports unavailable.
type Service struct {
	balances repo.BalanceRepo
	packages PackageFinder
	metrics  repo.MetricsRepo
	log      logging.Logger
}

func NewService(balances repo.BalanceRepo, packages PackageFinder, metrics repo.MetricsRepo, log logging.Logger) *Service {
	return &Service{balances: balances, packages: packages, metrics: metrics, log: log}
}

func (s *Service) ready() error {
	if s.balances == nil {
		return apperr.Unavailable("database not configured", nil)
	}
	return nil
}

func (s *Service) Balance(ctx context.Context, userID uuid.UUID) (int64, error) {
	if err := s.ready(); err != nil {
		return 0, err
	}
	b, err := s.balances.Balance(ctx, userID)
	return b, mapErr(err)
}

// Add credits amount unconditionally.
func (s *Service) Add(ctx context.Context, userID uuid.UUID, amount int64) (int64, error) {
	if err := s.ready(); err != nil {
		return 0, err
	}
	if amount < 0 {
		return 0, apperr.Validation("amount must not be negative")
	}
	b, err := s.balances.AddTokens(ctx, userID, amount)
	return b, mapErr(err)
}

// Deduct debits amount if the balance covers it. ok is false, with the
// unchanged balance, when it does not.
func (s *Service) Deduct(ctx context.Context, userID uuid.UUID, amount int64) (balance int64, ok bool, err error) {
	if err := s.ready(); err != nil {
		return 0, false, err
	}
	if amount < 0 {
		return 0, false, apperr.Validation("amount must not be negative")
	}
	b, err := s.balances.DeductTokens(ctx, userID, amount)
	if errors.Is(err, repo.ErrInsufficientBalance) {
		return b, false, nil
	}
	if err != nil {
		return 0, false, mapErr(err)
	}
	return b, true, nil
}

// Set overwrites the balance.
func (s *Service) Set(ctx context.Context, userID uuid.UUID, amount int64) (int64, error) {
	if err := s.ready(); err != nil {
		return 0, err
	}
	if amount < 0 {
		return 0, apperr.Validation("tokens must not be negative")
	}
	b, err := s.balances.SetTokens(ctx, userID, amount)
	return b, mapErr(err)
}

// Purchase credits the tokens and bonus of a package. No payment is taken.
func (s *Service) Purchase(ctx context.Context, userID uuid.UUID, packageID string) (Receipt, error) {
	if err := s.ready(); err != nil {
		return Receipt{}, err
	}
	if packageID == "" {
		return Receipt{}, apperr.Validation("packageId is required")
	}
	pkg, err := s.packages.GetPackage(ctx, packageID)
	if err != nil {
		return Receipt{}, err
	}

	credited := pkg.TotalTokens()
	balance, err := s.balances.AddTokens(ctx, userID, credited)
	if err != nil {
		return Receipt{}, mapErr(err)
	}

	if s.metrics != nil {
		if err := s.metrics.RecordSale(ctx, pkg.Price, credited); err != nil {
			s.log.Warn(ctx, "failed to record sale", "package", pkg.ID, "error", err)
		}
	}
	s.log.Info(ctx, "tokens purchased", "user_id", userID, "package", pkg.ID, "credited", credited)

	return Receipt{Package: pkg, Credited: credited, Balance: balance}, nil
}

func mapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repo.ErrNotFound):
		return apperr.NotFound("user not found")
	default:
		return apperr.Internal("balance update failed", err)
	}
}
