package catalog

import (
	"context"
	"strings"

	"github.com/meusugar/server/internal/apperr"
	"github.com/meusugar/server/internal/logging"
	"github.com/meusugar/server/internal/model"
	"github.com/meusugar/server/internal/repo"
)

// Packages is the token package price table.
type Packages struct {
	repo repo.PackageRepo
	log  logging.Logger
}

func NewPackages(r repo.PackageRepo, log logging.Logger) *Packages {
	return &Packages{repo: r, log: log}
}

// List returns the stored packages, or the defaults when there are none.
func (p *Packages) List(ctx context.Context) []model.TokenPackage {
	if p.repo == nil {
		return DefaultPackages()
	}
	pkgs, err := p.repo.List(ctx)
	if err != nil {
		p.log.Warn(ctx, "failed to list packages, serving defaults", "error", err)
		return DefaultPackages()
	}
	if len(pkgs) == 0 {
		return DefaultPackages()
	}
	return pkgs
}

// GetPackage finds a package among the ones List would show.
func (p *Packages) GetPackage(ctx context.Context, id string) (model.TokenPackage, error) {
	for _, pkg := range p.List(ctx) {
		if pkg.ID == id {
			return pkg, nil
		}
	}
	return model.TokenPackage{}, apperr.NotFound("package not found")
}

func (p *Packages) Put(ctx context.Context, pkg model.TokenPackage) (model.TokenPackage, error) {
	pkg.ID = strings.TrimSpace(pkg.ID)
	if pkg.ID == "" {
		return model.TokenPackage{}, apperr.Validation("id is required")
	}
	if pkg.Tokens < 0 || pkg.Bonus < 0 || pkg.Price.IsNegative() {
		return model.TokenPackage{}, apperr.Validation("tokens, bonus and price must not be negative")
	}
	if p.repo == nil {
		return model.TokenPackage{}, errUnconfigured
	}
	saved, err := p.repo.Upsert(ctx, pkg)
	if err != nil {
		return model.TokenPackage{}, writeErr("failed to save package", "package", err)
	}
	return saved, nil
}
