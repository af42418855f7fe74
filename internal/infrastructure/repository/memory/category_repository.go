package memory

import (
	"context"
	"fmt"

	"github.com/futbolcanario/futbolbase/internal/domain/category"
)

type CategoryRepository struct {
	store *Store
}

func NewCategoryRepository(store *Store) *CategoryRepository {
	return &CategoryRepository{store: store}
}

func (r *CategoryRepository) GetOrCreate(_ context.Context, name string) (int64, error) {
	if name == "" {
		return 0, fmt.Errorf("category name is required")
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if id, ok := r.store.categoryID(name); ok {
		return id, nil
	}

	c := category.Category{ID: r.store.allocID(), Name: name}
	r.store.categories = append(r.store.categories, c)
	return c.ID, nil
}
