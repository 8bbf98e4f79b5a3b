package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/meusugar/server/internal/model"
)

// CarouselRepo stores the home page slides in display order.
type CarouselRepo interface {
	List(ctx context.Context) ([]model.CarouselSlide, error)
	Get(ctx context.Context, id string) (model.CarouselSlide, error)
	Create(ctx context.Context, s model.CarouselSlide) (model.CarouselSlide, error)
	Update(ctx context.Context, s model.CarouselSlide) (model.CarouselSlide, error)
	Delete(ctx context.Context, id string) error
}

type carouselRepo struct {
	db *sql.DB
}

// NewCarouselRepo creates a Postgres-backed CarouselRepo
func NewCarouselRepo(db *sql.DB) CarouselRepo {
	return &carouselRepo{db: db}
}

const slideColumns = `id, image_url, title, subtitle, text_position`

func scanSlide(row rowScanner) (model.CarouselSlide, error) {
	var s model.CarouselSlide
	err := row.Scan(&s.ID, &s.ImageURL, &s.Title, &s.Subtitle, &s.TextPosition)
	return s, err
}

func (r *carouselRepo) List(ctx context.Context) ([]model.CarouselSlide, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+slideColumns+` FROM carousel_slides ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("query slides: %w", err)
	}
	defer rows.Close()

	var out []model.CarouselSlide
	for rows.Next() {
		s, err := scanSlide(rows)
		if err != nil {
			return nil, fmt.Errorf("scan slide: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate slides: %w", err)
	}
	return out, nil
}

func (r *carouselRepo) Get(ctx context.Context, id string) (model.CarouselSlide, error) {
	if _, err := uuid.Parse(id); err != nil {
		return model.CarouselSlide{}, fmt.Errorf("slide %q: %w", id, ErrNotFound)
	}
	s, err := scanSlide(r.db.QueryRowContext(ctx, `SELECT `+slideColumns+` FROM carousel_slides WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.CarouselSlide{}, fmt.Errorf("slide %q: %w", id, ErrNotFound)
		}
		return model.CarouselSlide{}, fmt.Errorf("query slide: %w", err)
	}
	return s, nil
}

func (r *carouselRepo) Create(ctx context.Context, in model.CarouselSlide) (model.CarouselSlide, error) {
	s, err := scanSlide(r.db.QueryRowContext(ctx, `
		INSERT INTO carousel_slides (image_url, title, subtitle, text_position)
		VALUES ($1, $2, $3, $4)
		RETURNING `+slideColumns,
		in.ImageURL, in.Title, in.Subtitle, in.TextPosition))
	if err != nil {
		return model.CarouselSlide{}, fmt.Errorf("insert slide: %w", err)
	}
	return s, nil
}

func (r *carouselRepo) Update(ctx context.Context, in model.CarouselSlide) (model.CarouselSlide, error) {
	if _, err := uuid.Parse(in.ID); err != nil {
		return model.CarouselSlide{}, fmt.Errorf("slide %q: %w", in.ID, ErrNotFound)
	}
	s, err := scanSlide(r.db.QueryRowContext(ctx, `
		UPDATE carousel_slides
		SET image_url = $2, title = $3, subtitle = $4, text_position = $5
		WHERE id = $1
		RETURNING `+slideColumns,
		in.ID, in.ImageURL, in.Title, in.Subtitle, in.TextPosition))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.CarouselSlide{}, fmt.Errorf("slide %q: %w", in.ID, ErrNotFound)
		}
		return model.CarouselSlide{}, fmt.Errorf("update slide: %w", err)
	}
	return s, nil
}

func (r *carouselRepo) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("slide %q: %w", id, ErrNotFound)
	}
	result, err := r.db.ExecContext(ctx, `DELETE FROM carousel_slides WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete slide: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("slide %q: %w", id, ErrNotFound)
	}
	return nil
}
