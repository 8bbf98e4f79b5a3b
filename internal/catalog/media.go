package catalog

import (
	"context"
	"strings"

	"github.com/meusugar/server/internal/apperr"
	"github.com/meusugar/server/internal/logging"
	"github.com/meusugar/server/internal/model"
	"github.com/meusugar/server/internal/repo"
)

const (
	defaultTextPosition = "center"
	defaultMediaTitle   = "Nova mídia"
	defaultTokenCost    = 50
)

func validTextPosition(p string) bool {
	return p == "left" || p == "center" || p == "right"
}

// Carousel manages the home page slides.
type Carousel struct {
	repo repo.CarouselRepo
	log  logging.Logger
}

func NewCarousel(r repo.CarouselRepo, log logging.Logger) *Carousel {
	return &Carousel{repo: r, log: log}
}

func (c *Carousel) List(ctx context.Context) []model.CarouselSlide {
	if c.repo == nil {
		return DefaultSlides()
	}
	slides, err := c.repo.List(ctx)
	if err != nil {
		c.log.Warn(ctx, "failed to list slides, serving defaults", "error", err)
		return DefaultSlides()
	}
	return slides
}

func (c *Carousel) Create(ctx context.Context, s model.CarouselSlide) (model.CarouselSlide, error) {
	s.ImageURL = strings.TrimSpace(s.ImageURL)
	if s.ImageURL == "" {
		return model.CarouselSlide{}, apperr.Validation("imageUrl is required")
	}
	if s.TextPosition == "" {
		s.TextPosition = defaultTextPosition
	}
	if !validTextPosition(s.TextPosition) {
		return model.CarouselSlide{}, apperr.Validation("textPosition must be left, center or right")
	}
	if c.repo == nil {
		return model.CarouselSlide{}, errUnconfigured
	}
	created, err := c.repo.Create(ctx, s)
	if err != nil {
		return model.CarouselSlide{}, writeErr("failed to create slide", "slide", err)
	}
	return created, nil
}

// SlidePatch carries a partial slide update; nil fields are left untouched.
type SlidePatch struct {
	ImageURL     *string
	Title        *string
	Subtitle     *string
	TextPosition *string
}

func (c *Carousel) Update(ctx context.Context, id string, patch SlidePatch) (model.CarouselSlide, error) {
	if c.repo == nil {
		return model.CarouselSlide{}, errUnconfigured
	}
	s, err := c.repo.Get(ctx, id)
	if err != nil {
		return model.CarouselSlide{}, writeErr("failed to load slide", "slide", err)
	}
	if patch.ImageURL != nil && strings.TrimSpace(*patch.ImageURL) != "" {
		s.ImageURL = strings.TrimSpace(*patch.ImageURL)
	}
	if patch.Title != nil {
		s.Title = *patch.Title
	}
	if patch.Subtitle != nil {
		s.Subtitle = *patch.Subtitle
	}
	if patch.TextPosition != nil {
		if !validTextPosition(*patch.TextPosition) {
			return model.CarouselSlide{}, apperr.Validation("textPosition must be left, center or right")
		}
		s.TextPosition = *patch.TextPosition
	}
	updated, err := c.repo.Update(ctx, s)
	if err != nil {
		return model.CarouselSlide{}, writeErr("failed to update slide", "slide", err)
	}
	return updated, nil
}

func (c *Carousel) Delete(ctx context.Context, id string) error {
	if c.repo == nil {
		return errUnconfigured
	}
	return writeErr("failed to delete slide", "slide", c.repo.Delete(ctx, id))
}

// Gallery manages the per-profile media galleries.
type Gallery struct {
	repo repo.MediaRepo
	log  logging.Logger
}

func NewGallery(r repo.MediaRepo, log logging.Logger) *Gallery {
	return &Gallery{repo: r, log: log}
}

// List returns the gallery of slug, or the default gallery when it has none.
func (g *Gallery) List(ctx context.Context, slug string) ([]model.MediaItem, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, apperr.Validation("modelSlug is required")
	}
	if g.repo == nil {
		return DefaultGalleries()[DefaultGallerySlug], nil
	}
	for _, s := range []string{slug, DefaultGallerySlug} {
		items, err := g.repo.List(ctx, s)
		if err != nil {
			g.log.Warn(ctx, "failed to list gallery, serving defaults", "slug", s, "error", err)
			break
		}
		if len(items) > 0 {
			return items, nil
		}
	}
	return DefaultGalleries()[DefaultGallerySlug], nil
}

func (g *Gallery) Add(ctx context.Context, item model.MediaItem) (model.MediaItem, error) {
	item.ModelSlug = strings.TrimSpace(item.ModelSlug)
	item.ImageURL = strings.TrimSpace(item.ImageURL)
	if item.ModelSlug == "" || item.ImageURL == "" {
		return model.MediaItem{}, apperr.Validation("modelSlug and imageUrl are required")
	}
	if strings.TrimSpace(item.Title) == "" {
		item.Title = defaultMediaTitle
	}
	if item.TokenCost == 0 {
		item.TokenCost = defaultTokenCost
	}
	if item.TokenCost < 0 {
		return model.MediaItem{}, apperr.Validation("tokenCost must not be negative")
	}
	if g.repo == nil {
		return model.MediaItem{}, errUnconfigured
	}
	created, err := g.repo.Create(ctx, item)
	if err != nil {
		return model.MediaItem{}, writeErr("failed to add media", "media", err)
	}
	return created, nil
}

func (g *Gallery) Remove(ctx context.Context, slug, id string) error {
	if slug == "" || id == "" {
		return apperr.Validation("modelSlug and mediaId are required")
	}
	if g.repo == nil {
		return errUnconfigured
	}
	return writeErr("failed to delete media", "gallery", g.repo.Delete(ctx, slug, id))
}
