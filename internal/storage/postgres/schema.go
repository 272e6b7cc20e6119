package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema creates the projects table if it is missing. Materials and
// steps are jsonb so the record keeps the document shape clients submit;
// the difficulty check backs up the application-level enum validation.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	const schema = `
create table if not exists projects (
    id               uuid primary key,
    title            text not null,
    description      text not null,
    difficulty       text not null check (difficulty in ('Easy', 'Medium', 'Hard')),
    materials        jsonb not null default '[]'::jsonb,
    steps            jsonb not null default '[]'::jsonb,
    image_url        text not null default '',
    cultural_context text not null default '',
    created_at       timestamptz not null,
    updated_at       timestamptz not null
);

create index if not exists projects_created_at_idx on projects (created_at desc);
`
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
