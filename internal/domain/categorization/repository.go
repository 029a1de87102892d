package categorization

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Querier is the subset of *pgxpool.Pool the repository needs.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Repository handles database operations for categories
type Repository struct {
	db Querier
}

// NewRepository creates a new categorization repository
func NewRepository(db Querier) *Repository {
	return &Repository{db: db}
}

// Categories fetches every category name and id.
func (r *Repository) Categories(ctx context.Context) (map[string]uuid.UUID, error) {
	query := `
		SELECT id, name
		FROM categories
		ORDER BY name
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	categories := make(map[string]uuid.UUID)
	for rows.Next() {
		var (
			id   uuid.UUID
			name string
		)
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories[name] = id
	}

	return categories, rows.Err()
}

// LoadDirectory builds a Directory from the categories table.
func (r *Repository) LoadDirectory(ctx context.Context) (*Directory, error) {
	categories, err := r.Categories(ctx)
	if err != nil {
		return nil, err
	}
	return NewDirectory(categories), nil
}

// Refresh reloads an existing directory in place.
func (r *Repository) Refresh(ctx context.Context, d *Directory) error {
	categories, err := r.Categories(ctx)
	if err != nil {
		return err
	}
	d.Reload(categories)
	return nil
}
