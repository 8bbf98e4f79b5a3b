package catalog

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/meusugar/server/internal/apperr"
	"github.com/meusugar/server/internal/logging"
	"github.com/meusugar/server/internal/model"
	"github.com/meusugar/server/internal/repo"
)

// Legal serves the terms and privacy pages.
type Legal struct {
	repo repo.LegalRepo
	log  logging.Logger
	now  func() time.Time
}

func NewLegal(r repo.LegalRepo, log logging.Logger) *Legal {
	return &Legal{repo: r, log: log, now: time.Now}
}

// Get returns the saved page of type t, or the default boilerplate.
func (l *Legal) Get(ctx context.Context, t model.LegalType) (model.LegalPage, error) {
	if !t.Valid() {
		return model.LegalPage{}, apperr.Validation(`invalid type, use "terms" or "privacy"`)
	}
	if l.repo == nil {
		return DefaultLegalPage(t, l.now()), nil
	}
	page, err := l.repo.Get(ctx, t)
	if err != nil {
		if !errors.Is(err, repo.ErrNotFound) {
			l.log.Warn(ctx, "failed to load legal page, serving default", "type", string(t), "error", err)
		}
		return DefaultLegalPage(t, l.now()), nil
	}
	return page, nil
}

func (l *Legal) Put(ctx context.Context, page model.LegalPage) (model.LegalPage, error) {
	if !page.Type.Valid() {
		return model.LegalPage{}, apperr.Validation(`invalid type, use "terms" or "privacy"`)
	}
	if l.repo == nil {
		return model.LegalPage{}, errUnconfigured
	}
	page.Title = strings.TrimSpace(page.Title)
	if page.Title == "" {
		page.Title = DefaultLegalPage(page.Type, l.now()).Title
	}
	saved, err := l.repo.Upsert(ctx, page)
	if err != nil {
		return model.LegalPage{}, writeErr("failed to save legal page", "legal page", err)
	}
	return saved, nil
}

// Links serves the external links singleton.
type Links struct {
	repo repo.LinksRepo
	log  logging.Logger
}

func NewLinks(r repo.LinksRepo, log logging.Logger) *Links {
	return &Links{repo: r, log: log}
}

// Get never fails: a missing record reads as empty links.
func (l *Links) Get(ctx context.Context) model.ExternalLinks {
	if l.repo == nil {
		return model.ExternalLinks{}
	}
	links, err := l.repo.Get(ctx)
	if err != nil {
		if !errors.Is(err, repo.ErrNotFound) {
			l.log.Warn(ctx, "failed to load links", "error", err)
		}
		return model.ExternalLinks{}
	}
	return links
}

// Put replaces the whole record; absent fields become empty.
func (l *Links) Put(ctx context.Context, links model.ExternalLinks) (model.ExternalLinks, error) {
	if l.repo == nil {
		return model.ExternalLinks{}, errUnconfigured
	}
	saved, err := l.repo.Upsert(ctx, links)
	if err != nil {
		return model.ExternalLinks{}, writeErr("failed to save links", "links", err)
	}
	return saved, nil
}

// Metrics serves the dashboard counters.
type Metrics struct {
	repo repo.MetricsRepo
	log  logging.Logger
}

func NewMetrics(r repo.MetricsRepo, log logging.Logger) *Metrics {
	return &Metrics{repo: r, log: log}
}

// Get never fails: missing counters read as zero.
func (m *Metrics) Get(ctx context.Context) model.Metrics {
	if m.repo == nil {
		return model.Metrics{}
	}
	metrics, err := m.repo.Get(ctx)
	if err != nil {
		if !errors.Is(err, repo.ErrNotFound) {
			m.log.Warn(ctx, "failed to load metrics", "error", err)
		}
		return model.Metrics{}
	}
	return metrics
}

func (m *Metrics) Put(ctx context.Context, in model.Metrics) (model.Metrics, error) {
	if m.repo == nil {
		return model.Metrics{}, errUnconfigured
	}
	if in.ActiveUsers < 0 || in.TokensSold < 0 || in.NewUsers < 0 || in.MonthlyRevenue.IsNegative() {
		return model.Metrics{}, apperr.Validation("metrics must not be negative")
	}
	saved, err := m.repo.Upsert(ctx, in)
	if err != nil {
		return model.Metrics{}, writeErr("failed to save metrics", "metrics", err)
	}
	return saved, nil
}
