package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/meusugar/server/internal/model"
)

// LegalRepo stores the legal page texts, one row per type.
type LegalRepo interface {
	Get(ctx context.Context, t model.LegalType) (model.LegalPage, error)
	Upsert(ctx context.Context, page model.LegalPage) (model.LegalPage, error)
}

type legalRepo struct {
	db *sql.DB
}

// NewLegalRepo creates a Postgres-backed LegalRepo
func NewLegalRepo(db *sql.DB) LegalRepo {
	return &legalRepo{db: db}
}

func scanLegal(row rowScanner) (model.LegalPage, error) {
	var p model.LegalPage
	var updatedAt sql.NullTime
	if err := row.Scan(&p.ID, &p.Type, &p.Title, &p.Content, &updatedAt); err != nil {
		return model.LegalPage{}, err
	}
	if updatedAt.Valid {
		p.UpdatedAt = &updatedAt.Time
	}
	return p, nil
}

func (r *legalRepo) Get(ctx context.Context, t model.LegalType) (model.LegalPage, error) {
	p, err := scanLegal(r.db.QueryRowContext(ctx,
		`SELECT id, type, title, content, updated_at FROM legal_pages WHERE type = $1`, t))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.LegalPage{}, fmt.Errorf("legal page %q: %w", t, ErrNotFound)
		}
		return model.LegalPage{}, fmt.Errorf("query legal page: %w", err)
	}
	return p, nil
}

func (r *legalRepo) Upsert(ctx context.Context, page model.LegalPage) (model.LegalPage, error) {
	p, err := scanLegal(r.db.QueryRowContext(ctx, `
		INSERT INTO legal_pages (type, title, content)
		VALUES ($1, $2, $3)
		ON CONFLICT (type) DO UPDATE
		SET title = EXCLUDED.title, content = EXCLUDED.content, updated_at = now()
		RETURNING id, type, title, content, updated_at
	`, page.Type, page.Title, page.Content))
	if err != nil {
		return model.LegalPage{}, fmt.Errorf("upsert legal page: %w", err)
	}
	return p, nil
}
