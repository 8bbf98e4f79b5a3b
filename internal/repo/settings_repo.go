package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/meusugar/server/internal/model"
	"github.com/shopspring/decimal"
)

// LinksRepo stores the external links singleton.
type LinksRepo interface {
	Get(ctx context.Context) (model.ExternalLinks, error)
	Upsert(ctx context.Context, links model.ExternalLinks) (model.ExternalLinks, error)
}

// MetricsRepo stores the dashboard counters singleton.
type MetricsRepo interface {
	Get(ctx context.Context) (model.Metrics, error)
	Upsert(ctx context.Context, m model.Metrics) (model.Metrics, error)
	IncrementNewUsers(ctx context.Context) error
	RecordSale(ctx context.Context, revenue decimal.Decimal, tokens int64) error
}

type linksRepo struct {
	db *sql.DB
}

// NewLinksRepo creates a Postgres-backed LinksRepo
func NewLinksRepo(db *sql.DB) LinksRepo {
	return &linksRepo{db: db}
}

func (r *linksRepo) Get(ctx context.Context) (model.ExternalLinks, error) {
	var l model.ExternalLinks
	err := r.db.QueryRowContext(ctx,
		`SELECT instagram, twitter, facebook, tiktok, whatsapp FROM external_links WHERE id = 1`,
	).Scan(&l.Instagram, &l.Twitter, &l.Facebook, &l.TikTok, &l.WhatsApp)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.ExternalLinks{}, fmt.Errorf("external links: %w", ErrNotFound)
		}
		return model.ExternalLinks{}, fmt.Errorf("query external links: %w", err)
	}
	return l, nil
}

func (r *linksRepo) Upsert(ctx context.Context, links model.ExternalLinks) (model.ExternalLinks, error) {
	var l model.ExternalLinks
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO external_links (id, instagram, twitter, facebook, tiktok, whatsapp)
		VALUES (1, $1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			instagram = EXCLUDED.instagram, twitter = EXCLUDED.twitter, facebook = EXCLUDED.facebook,
			tiktok = EXCLUDED.tiktok, whatsapp = EXCLUDED.whatsapp, updated_at = now()
		RETURNING instagram, twitter, facebook, tiktok, whatsapp
	`, links.Instagram, links.Twitter, links.Facebook, links.TikTok, links.WhatsApp,
	).Scan(&l.Instagram, &l.Twitter, &l.Facebook, &l.TikTok, &l.WhatsApp)
	if err != nil {
		return model.ExternalLinks{}, fmt.Errorf("upsert external links: %w", err)
	}
	return l, nil
}

type metricsRepo struct {
	db *sql.DB
}

// NewMetricsRepo creates a Postgres-backed MetricsRepo
func NewMetricsRepo(db *sql.DB) MetricsRepo {
	return &metricsRepo{db: db}
}

const metricsReturning = `RETURNING active_users, monthly_revenue, tokens_sold, new_users`

func scanMetrics(row rowScanner) (model.Metrics, error) {
	var m model.Metrics
	err := row.Scan(&m.ActiveUsers, &m.MonthlyRevenue, &m.TokensSold, &m.NewUsers)
	return m, err
}

func (r *metricsRepo) Get(ctx context.Context) (model.Metrics, error) {
	m, err := scanMetrics(r.db.QueryRowContext(ctx,
		`SELECT active_users, monthly_revenue, tokens_sold, new_users FROM metrics WHERE id = 1`))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Metrics{}, fmt.Errorf("metrics: %w", ErrNotFound)
		}
		return model.Metrics{}, fmt.Errorf("query metrics: %w", err)
	}
	return m, nil
}

func (r *metricsRepo) Upsert(ctx context.Context, in model.Metrics) (model.Metrics, error) {
	m, err := scanMetrics(r.db.QueryRowContext(ctx, `
		INSERT INTO metrics (id, active_users, monthly_revenue, tokens_sold, new_users)
		VALUES (1, $1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			active_users = EXCLUDED.active_users, monthly_revenue = EXCLUDED.monthly_revenue,
			tokens_sold = EXCLUDED.tokens_sold, new_users = EXCLUDED.new_users, updated_at = now()
		`+metricsReturning,
		in.ActiveUsers, in.MonthlyRevenue, in.TokensSold, in.NewUsers))
	if err != nil {
		return model.Metrics{}, fmt.Errorf("upsert metrics: %w", err)
	}
	return m, nil
}

func (r *metricsRepo) IncrementNewUsers(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO metrics (id, new_users) VALUES (1, 1)
		ON CONFLICT (id) DO UPDATE SET new_users = metrics.new_users + 1, updated_at = now()
	`)
	if err != nil {
		return fmt.Errorf("increment new users: %w", err)
	}
	return nil
}

func (r *metricsRepo) RecordSale(ctx context.Context, revenue decimal.Decimal, tokens int64) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO metrics (id, monthly_revenue, tokens_sold) VALUES (1, $1, $2)
		ON CONFLICT (id) DO UPDATE SET
			monthly_revenue = metrics.monthly_revenue + EXCLUDED.monthly_revenue,
			tokens_sold = metrics.tokens_sold + EXCLUDED.tokens_sold,
			updated_at = now()
	`, revenue, tokens)
	if err != nil {
		return fmt.Errorf("record sale: %w", err)
	}
	return nil
}
