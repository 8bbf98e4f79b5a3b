package repo

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/meusugar/server/internal/model"
	"github.com/shopspring/decimal"
)

type memoryModelRepo struct {
	mu     sync.RWMutex
	models map[string]model.ModelProfile
	now    func() time.Time
}

// NewMemoryModelRepo returns a ModelRepo held in process memory.
func NewMemoryModelRepo() ModelRepo {
	return &memoryModelRepo{models: make(map[string]model.ModelProfile), now: time.Now}
}

func (r *memoryModelRepo) List(_ context.Context) ([]model.ModelProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.ModelProfile, 0, len(r.models))
	for _, m := range r.models {
		out = append(out, m)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memoryModelRepo) GetByID(_ context.Context, id string) (model.ModelProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.models[id]
	if !ok {
		return model.ModelProfile{}, fmt.Errorf("model %q: %w", id, ErrNotFound)
	}
	return m, nil
}

func (r *memoryModelRepo) GetBySlug(_ context.Context, slug string) (model.ModelProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, m := range r.models {
		if m.Slug == slug {
			return m, nil
		}
	}
	return model.ModelProfile{}, fmt.Errorf("model: %w", ErrNotFound)
}

// slugTaken reports whether another profile uses slug; callers hold r.mu.
func (r *memoryModelRepo) slugTaken(slug, exceptID string) bool {
	for id, m := range r.models {
		if id != exceptID && m.Slug == slug {
			return true
		}
	}
	return false
}

func (r *memoryModelRepo) Create(_ context.Context, m model.ModelProfile) (model.ModelProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.slugTaken(m.Slug, "") {
		return model.ModelProfile{}, fmt.Errorf("model slug %q: %w", m.Slug, ErrDuplicate)
	}
	m.ID = uuid.NewString()
	m.CreatedAt = r.now()
	m.UpdatedAt = m.CreatedAt
	r.models[m.ID] = m
	return m, nil
}

func (r *memoryModelRepo) Update(_ context.Context, m model.ModelProfile) (model.ModelProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.models[m.ID]
	if !ok {
		return model.ModelProfile{}, fmt.Errorf("model %q: %w", m.ID, ErrNotFound)
	}
	if r.slugTaken(m.Slug, m.ID) {
		return model.ModelProfile{}, fmt.Errorf("model slug %q: %w", m.Slug, ErrDuplicate)
	}
	m.CreatedAt = existing.CreatedAt
	m.UpdatedAt = r.now()
	r.models[m.ID] = m
	return m, nil
}

func (r *memoryModelRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.models[id]; !ok {
		return fmt.Errorf("model %q: %w", id, ErrNotFound)
	}
	delete(r.models, id)
	return nil
}

type memoryLegalRepo struct {
	mu    sync.RWMutex
	pages map[model.LegalType]model.LegalPage
	now   func() time.Time
}

// NewMemoryLegalRepo returns a LegalRepo held in process memory.
func NewMemoryLegalRepo() LegalRepo {
	return &memoryLegalRepo{pages: make(map[model.LegalType]model.LegalPage), now: time.Now}
}

func (r *memoryLegalRepo) Get(_ context.Context, t model.LegalType) (model.LegalPage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.pages[t]
	if !ok {
		return model.LegalPage{}, fmt.Errorf("legal page %q: %w", t, ErrNotFound)
	}
	return p, nil
}

func (r *memoryLegalRepo) Upsert(_ context.Context, page model.LegalPage) (model.LegalPage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.pages[page.Type]; ok {
		page.ID = existing.ID
	} else {
		page.ID = uuid.NewString()
	}
	now := r.now()
	page.UpdatedAt = &now
	r.pages[page.Type] = page
	return page, nil
}

type memoryLinksRepo struct {
	mu    sync.RWMutex
	links *model.ExternalLinks
}

// NewMemoryLinksRepo returns a LinksRepo held in process memory.
func NewMemoryLinksRepo() LinksRepo {
	return &memoryLinksRepo{}
}

func (r *memoryLinksRepo) Get(_ context.Context) (model.ExternalLinks, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.links == nil {
		return model.ExternalLinks{}, fmt.Errorf("external links: %w", ErrNotFound)
	}
	return *r.links, nil
}

func (r *memoryLinksRepo) Upsert(_ context.Context, links model.ExternalLinks) (model.ExternalLinks, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.links = &links
	return links, nil
}

type memoryMetricsRepo struct {
	mu      sync.Mutex
	metrics model.Metrics
}

// NewMemoryMetricsRepo returns a MetricsRepo held in process memory.
func NewMemoryMetricsRepo() MetricsRepo {
	return &memoryMetricsRepo{}
}

func (r *memoryMetricsRepo) Get(_ context.Context) (model.Metrics, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.metrics, nil
}

func (r *memoryMetricsRepo) Upsert(_ context.Context, m model.Metrics) (model.Metrics, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.metrics = m
	return m, nil
}

func (r *memoryMetricsRepo) IncrementNewUsers(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.metrics.NewUsers++
	return nil
}

func (r *memoryMetricsRepo) RecordSale(_ context.Context, revenue decimal.Decimal, tokens int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.metrics.MonthlyRevenue = r.metrics.MonthlyRevenue.Add(revenue)
	r.metrics.TokensSold += tokens
	return nil
}

type memoryPackageRepo struct {
	mu       sync.RWMutex
	packages map[string]model.TokenPackage
}

// NewMemoryPackageRepo returns a PackageRepo held in process memory.
func NewMemoryPackageRepo(seed ...model.TokenPackage) PackageRepo {
	r := &memoryPackageRepo{packages: make(map[string]model.TokenPackage)}
	for _, p := range seed {
		r.packages[p.ID] = p
	}
	return r
}

func (r *memoryPackageRepo) List(_ context.Context) ([]model.TokenPackage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.TokenPackage, 0, len(r.packages))
	for _, p := range r.packages {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Tokens != out[j].Tokens {
			return out[i].Tokens < out[j].Tokens
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *memoryPackageRepo) Get(_ context.Context, id string) (model.TokenPackage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.packages[id]
	if !ok {
		return model.TokenPackage{}, fmt.Errorf("package %q: %w", id, ErrNotFound)
	}
	return p, nil
}

func (r *memoryPackageRepo) Upsert(_ context.Context, p model.TokenPackage) (model.TokenPackage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.packages[p.ID] = p
	return p, nil
}
