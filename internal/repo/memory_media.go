package repo

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/meusugar/server/internal/model"
)

type memoryCarouselRepo struct {
	mu     sync.RWMutex
	slides []model.CarouselSlide
}

// NewMemoryCarouselRepo returns a CarouselRepo held in process memory, seeded with slides.
func NewMemoryCarouselRepo(seed ...model.CarouselSlide) CarouselRepo {
	return &memoryCarouselRepo{slides: append([]model.CarouselSlide(nil), seed...)}
}

func (r *memoryCarouselRepo) List(_ context.Context) ([]model.CarouselSlide, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]model.CarouselSlide{}, r.slides...), nil
}

func (r *memoryCarouselRepo) indexOf(id string) int {
	for i, s := range r.slides {
		if s.ID == id {
			return i
		}
	}
	return -1
}

func (r *memoryCarouselRepo) Get(_ context.Context, id string) (model.CarouselSlide, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i := r.indexOf(id)
	if i < 0 {
		return model.CarouselSlide{}, fmt.Errorf("slide %q: %w", id, ErrNotFound)
	}
	return r.slides[i], nil
}

func (r *memoryCarouselRepo) Create(_ context.Context, s model.CarouselSlide) (model.CarouselSlide, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s.ID = uuid.NewString()
	r.slides = append(r.slides, s)
	return s, nil
}

func (r *memoryCarouselRepo) Update(_ context.Context, s model.CarouselSlide) (model.CarouselSlide, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(s.ID)
	if i < 0 {
		return model.CarouselSlide{}, fmt.Errorf("slide %q: %w", s.ID, ErrNotFound)
	}
	r.slides[i] = s
	return s, nil
}

func (r *memoryCarouselRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(id)
	if i < 0 {
		return fmt.Errorf("slide %q: %w", id, ErrNotFound)
	}
	r.slides = append(r.slides[:i], r.slides[i+1:]...)
	return nil
}

type memoryMediaRepo struct {
	mu        sync.RWMutex
	galleries map[string][]model.MediaItem
}

// NewMemoryMediaRepo returns a MediaRepo held in process memory, seeded with galleries.
func NewMemoryMediaRepo(seed map[string][]model.MediaItem) MediaRepo {
	r := &memoryMediaRepo{galleries: make(map[string][]model.MediaItem)}
	for slug, items := range seed {
		cp := make([]model.MediaItem, len(items))
		for i, item := range items {
			item.ModelSlug = slug
			cp[i] = item
		}
		r.galleries[slug] = cp
	}
	return r
}

func (r *memoryMediaRepo) List(_ context.Context, slug string) ([]model.MediaItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]model.MediaItem{}, r.galleries[slug]...), nil
}

func (r *memoryMediaRepo) Create(_ context.Context, item model.MediaItem) (model.MediaItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item.ID = uuid.NewString()
	r.galleries[item.ModelSlug] = append(r.galleries[item.ModelSlug], item)
	return item, nil
}

func (r *memoryMediaRepo) Delete(_ context.Context, slug, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	items, ok := r.galleries[slug]
	if !ok {
		return fmt.Errorf("gallery %q: %w", slug, ErrNotFound)
	}
	kept := items[:0]
	for _, item := range items {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	r.galleries[slug] = kept
	return nil
}
