package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/makerstash/diy-backend/internal/projects/domain"
)

// Store is the persistence contract for projects. ProjectRepository is the
// Postgres implementation; CachedStore decorates any Store with a Redis cache.
type Store interface {
	Create(ctx context.Context, np domain.NewProject) (*domain.Project, error)
	List(ctx context.Context) ([]domain.Project, error)
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	Delete(ctx context.Context, id string) error
	ListImageURLs(ctx context.Context) ([]string, error)
}

// ProjectRepository persists projects in Postgres. Materials and steps are
// stored as jsonb so the record keeps its document shape.
type ProjectRepository struct {
	db *pgxpool.Pool
}

func NewProjectRepository(db *pgxpool.Pool) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Create validates the payload, assigns id and timestamps, and inserts the
// record. The stored record is returned as the caller will render it.
func (r *ProjectRepository) Create(ctx context.Context, np domain.NewProject) (*domain.Project, error) {
	if err := np.Validate(); err != nil {
		return nil, err
	}

	difficulty, _ := domain.ParseDifficulty(np.Difficulty)
	now := time.Now().UTC()

	p := &domain.Project{
		ID:              uuid.NewString(),
		Title:           np.Title,
		Description:     np.Description,
		Difficulty:      difficulty,
		Materials:       np.Materials,
		Steps:           np.Steps,
		ImageURL:        np.ImageURL,
		CulturalContext: np.CulturalContext,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if p.Materials == nil {
		p.Materials = []domain.Material{}
	}
	if p.Steps == nil {
		p.Steps = []string{}
	}

	materials, err := json.Marshal(p.Materials)
	if err != nil {
		return nil, fmt.Errorf("marshal materials: %w", err)
	}
	steps, err := json.Marshal(p.Steps)
	if err != nil {
		return nil, fmt.Errorf("marshal steps: %w", err)
	}

	const q = `
insert into projects (id, title, description, difficulty, materials, steps, image_url, cultural_context, created_at, updated_at)
values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
`
	if _, err := r.db.Exec(ctx, q,
		p.ID, p.Title, p.Description, string(p.Difficulty),
		materials, steps, p.ImageURL, p.CulturalContext,
		p.CreatedAt, p.UpdatedAt,
	); err != nil {
		return nil, fmt.Errorf("insert project: %w", err)
	}

	return p, nil
}

// List returns every project, newest first. No pagination.
func (r *ProjectRepository) List(ctx context.Context) ([]domain.Project, error) {
	const q = `
select id, title, description, difficulty, materials, steps, image_url, cultural_context, created_at, updated_at
from projects
order by created_at desc;
`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Project, 0, 16)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *ProjectRepository) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrInvalidID
	}

	const q = `
select id, title, description, difficulty, materials, steps, image_url, cultural_context, created_at, updated_at
from projects
where id = $1;
`
	rows, err := r.db.Query(ctx, q, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, domain.ErrNotFound
	}
	return scanProject(rows)
}

// Delete removes the record. Deleting an id that does not exist (or was
// already deleted) fails with ErrNotFound, never silently.
func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return domain.ErrInvalidID
	}

	const q = `delete from projects where id = $1;`
	ct, err := r.db.Exec(ctx, q, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListImageURLs returns the distinct non-empty image URLs currently
// referenced by projects. The upload sweeper uses this as its keep-list.
func (r *ProjectRepository) ListImageURLs(ctx context.Context) ([]string, error) {
	const q = `select distinct image_url from projects where image_url <> '';`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]string, 0, 16)
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func scanProject(row pgx.Row) (*domain.Project, error) {
	var (
		p         domain.Project
		materials []byte
		steps     []byte
	)
	if err := row.Scan(
		&p.ID, &p.Title, &p.Description, &p.Difficulty,
		&materials, &steps, &p.ImageURL, &p.CulturalContext,
		&p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	if err := json.Unmarshal(materials, &p.Materials); err != nil {
		return nil, fmt.Errorf("unmarshal materials: %w", err)
	}
	if err := json.Unmarshal(steps, &p.Steps); err != nil {
		return nil, fmt.Errorf("unmarshal steps: %w", err)
	}
	return &p, nil
}
