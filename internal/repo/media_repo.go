package repo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/meusugar/server/internal/model"
)

// MediaRepo stores per-profile media galleries.
type MediaRepo interface {
	// List returns the gallery of slug; an unknown slug yields an empty slice.
	List(ctx context.Context, slug string) ([]model.MediaItem, error)
	Create(ctx context.Context, item model.MediaItem) (model.MediaItem, error)
	// Delete removes id from the gallery of slug. ErrNotFound means the gallery does not exist.
	Delete(ctx context.Context, slug, id string) error
}

type mediaRepo struct {
	db *sql.DB
}

// NewMediaRepo creates a Postgres-backed MediaRepo
func NewMediaRepo(db *sql.DB) MediaRepo {
	return &mediaRepo{db: db}
}

func (r *mediaRepo) List(ctx context.Context, slug string) ([]model.MediaItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, model_slug, image_url, video_url, title, token_cost
		FROM media_items
		WHERE model_slug = $1
		ORDER BY created_at
	`, slug)
	if err != nil {
		return nil, fmt.Errorf("query media: %w", err)
	}
	defer rows.Close()

	out := []model.MediaItem{}
	for rows.Next() {
		item, err := scanMedia(rows)
		if err != nil {
			return nil, fmt.Errorf("scan media: %w", err)
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate media: %w", err)
	}
	return out, nil
}

func scanMedia(row rowScanner) (model.MediaItem, error) {
	var item model.MediaItem
	var videoURL sql.NullString
	if err := row.Scan(&item.ID, &item.ModelSlug, &item.ImageURL, &videoURL, &item.Title, &item.TokenCost); err != nil {
		return model.MediaItem{}, err
	}
	if videoURL.Valid {
		item.VideoURL = &videoURL.String
	}
	return item, nil
}

func (r *mediaRepo) Create(ctx context.Context, in model.MediaItem) (model.MediaItem, error) {
	item, err := scanMedia(r.db.QueryRowContext(ctx, `
		INSERT INTO media_items (model_slug, image_url, video_url, title, token_cost)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, model_slug, image_url, video_url, title, token_cost
	`, in.ModelSlug, in.ImageURL, in.VideoURL, in.Title, in.TokenCost))
	if err != nil {
		return model.MediaItem{}, fmt.Errorf("insert media: %w", err)
	}
	return item, nil
}

func (r *mediaRepo) Delete(ctx context.Context, slug, id string) error {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM media_items WHERE model_slug = $1)`, slug).Scan(&exists)
	if err != nil {
		return fmt.Errorf("query gallery: %w", err)
	}
	if !exists {
		return fmt.Errorf("gallery %q: %w", slug, ErrNotFound)
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM media_items WHERE model_slug = $1 AND id = $2`, slug, id); err != nil {
		return fmt.Errorf("delete media: %w", err)
	}
	return nil
}
