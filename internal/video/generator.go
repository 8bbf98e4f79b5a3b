// Package video generates short videos from images through external providers.
package video

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/meusugar/server/internal/apperr"
	"github.com/meusugar/server/internal/cache"
	"github.com/meusugar/server/internal/config"
	"github.com/meusugar/server/internal/logging"
)

// cacheTTL bounds how long a generated video URL is reused.
const cacheTTL = 30 * 24 * time.Hour

// ErrNoProvider means no provider is configured.
var ErrNoProvider = errors.New("no video provider configured")

// Request identifies the image to animate. ModelSlug and MediaID form the cache key.
type Request struct {
	ImageURL  string
	MediaID   string
	ModelSlug string
}

// Result is a generated or cached video.
type Result struct {
	VideoURL string `json:"videoUrl"`
	Cached   bool   `json:"cached"`
}

// Generator tries providers in priority order; the first URL wins and is cached.
type Generator struct {
	providers []Provider
	cache     cache.Store
	log       logging.Logger
}

func NewGenerator(providers []Provider, store cache.Store, log logging.Logger) *Generator {
	if store == nil {
		store = cache.NewMemoryStore()
	}
	return &Generator{providers: providers, cache: store, log: log}
}

// ProvidersFromConfig builds the configured providers in priority order:
// OpenAI, ComfyUI, RunPod.
func ProvidersFromConfig(cfg config.VideoConfig, client *http.Client) []Provider {
	var providers []Provider
	if cfg.OpenAIKey != "" {
		providers = append(providers, NewOpenAI(cfg.OpenAIKey, client))
	}
	if cfg.ComfyUIURL != "" {
		providers = append(providers, NewComfyUI(cfg.ComfyUIURL, cfg.ComfyUIKey, client))
	}
	if cfg.RunPodKey != "" && cfg.RunPodEndpointID != "" {
		providers = append(providers, NewRunPod(cfg.RunPodKey, cfg.RunPodEndpointID, client))
	}
	return providers
}

// Configured reports whether at least one provider is available.
func (g *Generator) Configured() bool {
	return len(g.providers) > 0
}

// CacheKey is the cache key of a request.
func CacheKey(modelSlug, mediaID string) string {
	return modelSlug + "-" + mediaID
}

func (g *Generator) Generate(ctx context.Context, req Request) (Result, error) {
	req.ImageURL = strings.TrimSpace(req.ImageURL)
	if req.ImageURL == "" || req.MediaID == "" || req.ModelSlug == "" {
		return Result{}, apperr.Validation("imageUrl, mediaId and modelSlug are required")
	}

	key := CacheKey(req.ModelSlug, req.MediaID)
	if url, ok, err := g.cache.Get(ctx, key); err != nil {
		g.log.Warn(ctx, "video cache read failed", "key", key, "error", err)
	} else if ok {
		return Result{VideoURL: url, Cached: true}, nil
	}

	if len(g.providers) == 0 {
		return Result{}, apperr.Unavailable("no video generation provider configured", ErrNoProvider)
	}

	var errs []error
	for _, p := range g.providers {
		url, err := p.Generate(ctx, req.ImageURL)
		if err != nil {
			g.log.Warn(ctx, "video provider failed", "provider", p.Name(), "error", err)
			errs = append(errs, err)
			if ctx.Err() != nil {
				break
			}
			continue
		}
		if url == "" {
			continue
		}
		if err := g.cache.Set(ctx, key, url, cacheTTL); err != nil {
			g.log.Warn(ctx, "video cache write failed", "key", key, "error", err)
		}
		g.log.Info(ctx, "video generated", "provider", p.Name(), "key", key)
		return Result{VideoURL: url}, nil
	}
	return Result{}, apperr.Unavailable("no video generation provider available", errors.Join(errs...))
}
