package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	qb "github.com/futbolcanario/futbolbase/internal/platform/querybuilder"
)

type CategoryRepository struct {
	db *sqlx.DB
}

func NewCategoryRepository(db *sqlx.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) GetOrCreate(ctx context.Context, name string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, fmt.Errorf("category name is required")
	}

	query, args, err := qb.Select("id").From("categories").
		Where(qb.Eq("name", name)).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build select category query: %w", err)
	}

	var id int64
	err = r.db.GetContext(ctx, &id, query, args...)
	if err == nil {
		return id, nil
	}
	if !isNotFound(err) {
		return 0, fmt.Errorf("select category by name: %w", err)
	}

	insertQuery, insertArgs, err := qb.InsertInto("categories").
		Columns("name").
		Values(name).
		Suffix("RETURNING id").
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build insert category query: %w", err)
	}
	if err := r.db.GetContext(ctx, &id, insertQuery, insertArgs...); err != nil {
		return 0, fmt.Errorf("insert category %s: %w", name, err)
	}

	return id, nil
}
