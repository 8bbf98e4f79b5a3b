// Package catalog serves the site content: companion profiles, legal pages,
// links, metrics, token packages, carousel slides and media galleries.
package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/meusugar/server/internal/apperr"
	"github.com/meusugar/server/internal/logging"
	"github.com/meusugar/server/internal/model"
	"github.com/meusugar/server/internal/repo"
)

// MinAge is the youngest accepted profile age.
const MinAge = 18

// Profiles is the profile registry. Reads fall back to SampleProfiles; writes
// need a configured store.
type Profiles struct {
	repo repo.ModelRepo
	log  logging.Logger
}

func NewProfiles(r repo.ModelRepo, log logging.Logger) *Profiles {
	return &Profiles{repo: r, log: log}
}

// List returns profiles newest first, or the samples when the store has none.
func (p *Profiles) List(ctx context.Context) []model.ModelProfile {
	if p.repo == nil {
		return SampleProfiles()
	}
	profiles, err := p.repo.List(ctx)
	if err != nil {
		p.log.Warn(ctx, "failed to list profiles, serving samples", "error", err)
		return SampleProfiles()
	}
	if len(profiles) == 0 {
		return SampleProfiles()
	}
	return profiles
}

func (p *Profiles) Get(ctx context.Context, id string) (model.ModelProfile, error) {
	return p.find(ctx, "id", id, p.byID, func(m model.ModelProfile) bool { return m.ID == id })
}

func (p *Profiles) GetBySlug(ctx context.Context, slug string) (model.ModelProfile, error) {
	return p.find(ctx, "slug", slug, p.bySlug, func(m model.ModelProfile) bool { return m.Slug == slug })
}

func (p *Profiles) byID(ctx context.Context, id string) (model.ModelProfile, error) {
	return p.repo.GetByID(ctx, id)
}

func (p *Profiles) bySlug(ctx context.Context, slug string) (model.ModelProfile, error) {
	return p.repo.GetBySlug(ctx, slug)
}

// find reads from the store and falls back to the samples on a miss or failure.
func (p *Profiles) find(ctx context.Context, field, key string,
	get func(context.Context, string) (model.ModelProfile, error),
	match func(model.ModelProfile) bool,
) (model.ModelProfile, error) {
	if p.repo != nil {
		m, err := get(ctx, key)
		if err == nil {
			return m, nil
		}
		if !errors.Is(err, repo.ErrNotFound) {
			p.log.Warn(ctx, "failed to load profile, trying samples", field, key, "error", err)
		}
	}
	for _, m := range SampleProfiles() {
		if match(m) {
			return m, nil
		}
	}
	return model.ModelProfile{}, apperr.NotFound("profile not found")
}

// Create validates and stores a new profile. Slug is derived from the name.
func (p *Profiles) Create(ctx context.Context, m model.ModelProfile) (model.ModelProfile, error) {
	if p.repo == nil {
		return model.ModelProfile{}, errUnconfigured
	}
	if m.Age == 0 {
		m.Age = MinAge
	}
	if m.Colors.Primary == "" {
		m.Colors.Primary = defaultPrimaryColor
	}
	if m.Colors.Secondary == "" {
		m.Colors.Secondary = defaultSecondaryColor
	}
	normalize(&m)
	if err := validateProfile(m); err != nil {
		return model.ModelProfile{}, err
	}

	created, err := p.repo.Create(ctx, m)
	if err != nil {
		return model.ModelProfile{}, writeErr("failed to create profile", "profile", err)
	}
	p.log.Info(ctx, "profile created", "id", created.ID, "slug", created.Slug)
	return created, nil
}

// Update applies the fields present in patch. A new name re-derives the slug.
func (p *Profiles) Update(ctx context.Context, id string, patch model.ProfilePatch) (model.ModelProfile, error) {
	if p.repo == nil {
		return model.ModelProfile{}, errUnconfigured
	}
	existing, err := p.repo.GetByID(ctx, id)
	if err != nil {
		return model.ModelProfile{}, writeErr("failed to load profile", "profile", err)
	}

	patch.Apply(&existing)
	normalize(&existing)
	if err := validateProfile(existing); err != nil {
		return model.ModelProfile{}, err
	}

	updated, err := p.repo.Update(ctx, existing)
	if err != nil {
		return model.ModelProfile{}, writeErr("failed to update profile", "profile", err)
	}
	return updated, nil
}

func (p *Profiles) Delete(ctx context.Context, id string) error {
	if p.repo == nil {
		return errUnconfigured
	}
	if err := p.repo.Delete(ctx, id); err != nil {
		return writeErr("failed to delete profile", "profile", err)
	}
	p.log.Info(ctx, "profile deleted", "id", id)
	return nil
}

func normalize(m *model.ModelProfile) {
	m.Name = strings.TrimSpace(m.Name)
	m.CoverPhoto = strings.TrimSpace(m.CoverPhoto)
	m.Slug = Slugify(m.Name)
	if m.Tags == nil {
		m.Tags = []string{}
	}
	if m.Interests == nil {
		m.Interests = []string{}
	}
	if m.Gallery == nil {
		m.Gallery = []string{}
	}
}

func validateProfile(m model.ModelProfile) error {
	if m.Name == "" || m.CoverPhoto == "" {
		return apperr.Validation("name and coverPhoto are required")
	}
	if m.Slug == "" {
		return apperr.Validation("name must contain letters or digits")
	}
	if m.Age < MinAge {
		return apperr.Validation("age must be at least 18")
	}
	return nil
}
