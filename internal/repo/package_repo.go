package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/meusugar/server/internal/model"
)

// PackageRepo stores the purchasable token packages.
type PackageRepo interface {
	List(ctx context.Context) ([]model.TokenPackage, error)
	Get(ctx context.Context, id string) (model.TokenPackage, error)
	Upsert(ctx context.Context, p model.TokenPackage) (model.TokenPackage, error)
}

type packageRepo struct {
	db *sql.DB
}

// NewPackageRepo creates a Postgres-backed PackageRepo
func NewPackageRepo(db *sql.DB) PackageRepo {
	return &packageRepo{db: db}
}

func scanPackage(row rowScanner) (model.TokenPackage, error) {
	var p model.TokenPackage
	err := row.Scan(&p.ID, &p.Tokens, &p.Price, &p.Bonus, &p.Popular)
	return p, err
}

// List returns packages ordered by size.
func (r *packageRepo) List(ctx context.Context) ([]model.TokenPackage, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, tokens, price, bonus, popular FROM token_packages ORDER BY tokens, id`)
	if err != nil {
		return nil, fmt.Errorf("query packages: %w", err)
	}
	defer rows.Close()

	var out []model.TokenPackage
	for rows.Next() {
		p, err := scanPackage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan package: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate packages: %w", err)
	}
	return out, nil
}

func (r *packageRepo) Get(ctx context.Context, id string) (model.TokenPackage, error) {
	p, err := scanPackage(r.db.QueryRowContext(ctx,
		`SELECT id, tokens, price, bonus, popular FROM token_packages WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.TokenPackage{}, fmt.Errorf("package %q: %w", id, ErrNotFound)
		}
		return model.TokenPackage{}, fmt.Errorf("query package: %w", err)
	}
	return p, nil
}

func (r *packageRepo) Upsert(ctx context.Context, in model.TokenPackage) (model.TokenPackage, error) {
	p, err := scanPackage(r.db.QueryRowContext(ctx, `
		INSERT INTO token_packages (id, tokens, price, bonus, popular)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			tokens = EXCLUDED.tokens, price = EXCLUDED.price, bonus = EXCLUDED.bonus,
			popular = EXCLUDED.popular, updated_at = now()
		RETURNING id, tokens, price, bonus, popular
	`, in.ID, in.Tokens, in.Price, in.Bonus, in.Popular))
	if err != nil {
		return model.TokenPackage{}, fmt.Errorf("upsert package: %w", err)
	}
	return p, nil
}
