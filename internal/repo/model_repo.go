package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/meusugar/server/internal/model"
)

// ModelRepo stores companion profiles.
type ModelRepo interface {
	List(ctx context.Context) ([]model.ModelProfile, error)
	GetByID(ctx context.Context, id string) (model.ModelProfile, error)
	GetBySlug(ctx context.Context, slug string) (model.ModelProfile, error)
	Create(ctx context.Context, m model.ModelProfile) (model.ModelProfile, error)
	Update(ctx context.Context, m model.ModelProfile) (model.ModelProfile, error)
	Delete(ctx context.Context, id string) error
}

type modelRepo struct {
	db *sql.DB
}

// NewModelRepo creates a Postgres-backed ModelRepo
func NewModelRepo(db *sql.DB) ModelRepo {
	return &modelRepo{db: db}
}

const modelColumns = `id, name, age, nationality, cover_photo, video_url, tags, slug, short_bio,
	long_bio, conversation_style, interests, gallery, primary_color, secondary_color, created_at, updated_at`

func scanModel(row rowScanner) (model.ModelProfile, error) {
	var m model.ModelProfile
	var videoURL sql.NullString
	var tags, interests, gallery pq.StringArray
	err := row.Scan(
		&m.ID,
		&m.Name,
		&m.Age,
		&m.Nationality,
		&m.CoverPhoto,
		&videoURL,
		&tags,
		&m.Slug,
		&m.ShortBio,
		&m.LongBio,
		&m.ConversationStyle,
		&interests,
		&gallery,
		&m.Colors.Primary,
		&m.Colors.Secondary,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		return model.ModelProfile{}, err
	}
	if videoURL.Valid && videoURL.String != "" {
		m.VideoURL = &videoURL.String
	}
	m.Tags = nonNil(tags)
	m.Interests = nonNil(interests)
	m.Gallery = nonNil(gallery)
	return m, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// List returns all profiles, newest first.
func (r *modelRepo) List(ctx context.Context) ([]model.ModelProfile, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+modelColumns+` FROM models ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query models: %w", err)
	}
	defer rows.Close()

	var out []model.ModelProfile
	for rows.Next() {
		m, err := scanModel(rows)
		if err != nil {
			return nil, fmt.Errorf("scan model: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate models: %w", err)
	}
	return out, nil
}

func (r *modelRepo) GetByID(ctx context.Context, id string) (model.ModelProfile, error) {
	if _, err := uuid.Parse(id); err != nil {
		return model.ModelProfile{}, fmt.Errorf("model %q: %w", id, ErrNotFound)
	}
	return r.getOne(ctx, "id = $1", id)
}

func (r *modelRepo) GetBySlug(ctx context.Context, slug string) (model.ModelProfile, error) {
	return r.getOne(ctx, "slug = $1", slug)
}

func (r *modelRepo) getOne(ctx context.Context, where string, arg any) (model.ModelProfile, error) {
	m, err := scanModel(r.db.QueryRowContext(ctx, `SELECT `+modelColumns+` FROM models WHERE `+where, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.ModelProfile{}, fmt.Errorf("model: %w", ErrNotFound)
		}
		return model.ModelProfile{}, fmt.Errorf("query model: %w", err)
	}
	return m, nil
}

func (r *modelRepo) Create(ctx context.Context, m model.ModelProfile) (model.ModelProfile, error) {
	query := `
		INSERT INTO models (name, age, nationality, cover_photo, video_url, tags, slug, short_bio,
			long_bio, conversation_style, interests, gallery, primary_color, secondary_color)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING ` + modelColumns
	created, err := scanModel(r.db.QueryRowContext(ctx, query,
		m.Name, m.Age, m.Nationality, m.CoverPhoto, m.VideoURL, pq.Array(nonNil(m.Tags)), m.Slug,
		m.ShortBio, m.LongBio, m.ConversationStyle, pq.Array(nonNil(m.Interests)),
		pq.Array(nonNil(m.Gallery)), m.Colors.Primary, m.Colors.Secondary,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return model.ModelProfile{}, fmt.Errorf("model slug %q: %w", m.Slug, ErrDuplicate)
		}
		return model.ModelProfile{}, fmt.Errorf("insert model: %w", err)
	}
	return created, nil
}

// Update overwrites every column of an existing profile.
func (r *modelRepo) Update(ctx context.Context, m model.ModelProfile) (model.ModelProfile, error) {
	if _, err := uuid.Parse(m.ID); err != nil {
		return model.ModelProfile{}, fmt.Errorf("model %q: %w", m.ID, ErrNotFound)
	}
	query := `
		UPDATE models SET
			name = $2, age = $3, nationality = $4, cover_photo = $5, video_url = $6, tags = $7,
			slug = $8, short_bio = $9, long_bio = $10, conversation_style = $11, interests = $12,
			gallery = $13, primary_color = $14, secondary_color = $15, updated_at = now()
		WHERE id = $1
		RETURNING ` + modelColumns
	updated, err := scanModel(r.db.QueryRowContext(ctx, query,
		m.ID, m.Name, m.Age, m.Nationality, m.CoverPhoto, m.VideoURL, pq.Array(nonNil(m.Tags)), m.Slug,
		m.ShortBio, m.LongBio, m.ConversationStyle, pq.Array(nonNil(m.Interests)),
		pq.Array(nonNil(m.Gallery)), m.Colors.Primary, m.Colors.Secondary,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.ModelProfile{}, fmt.Errorf("model %q: %w", m.ID, ErrNotFound)
		}
		if isUniqueViolation(err) {
			return model.ModelProfile{}, fmt.Errorf("model slug %q: %w", m.Slug, ErrDuplicate)
		}
		return model.ModelProfile{}, fmt.Errorf("update model: %w", err)
	}
	return updated, nil
}

func (r *modelRepo) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("model %q: %w", id, ErrNotFound)
	}
	result, err := r.db.ExecContext(ctx, `DELETE FROM models WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete model: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("model %q: %w", id, ErrNotFound)
	}
	return nil
}
