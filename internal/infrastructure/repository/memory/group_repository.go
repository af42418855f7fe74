package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/futbolcanario/futbolbase/internal/domain/group"
)

type GroupRepository struct {
	store *Store
}

func NewGroupRepository(store *Store) *GroupRepository {
	return &GroupRepository{store: store}
}

func (r *GroupRepository) Upsert(_ context.Context, seasonID, categoryID int64, code string, patch group.Patch) (int64, error) {
	if seasonID <= 0 || categoryID <= 0 || code == "" {
		return 0, fmt.Errorf("group natural key is required")
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for i, existing := range r.store.groups {
		if existing.SeasonID == seasonID && existing.CategoryID == categoryID && existing.Code == code {
			applyPatch(&r.store.groups[i], patch)
			return existing.ID, nil
		}
	}

	g := group.Group{
		ID:         r.store.allocID(),
		SeasonID:   seasonID,
		CategoryID: categoryID,
		Code:       code,
	}
	applyPatch(&g, patch)
	r.store.groups = append(r.store.groups, g)
	return g.ID, nil
}

func applyPatch(g *group.Group, patch group.Patch) {
	if patch.Name != nil {
		g.Name = *patch.Name
	}
	if patch.FullName != nil {
		g.FullName = *patch.FullName
	}
	if patch.Phase != nil {
		g.Phase = *patch.Phase
	}
	if patch.Island != nil {
		g.Island = *patch.Island
	}
	if patch.URL != nil {
		g.URL = *patch.URL
	}
	if patch.CurrentJornada != nil {
		g.CurrentJornada = *patch.CurrentJornada
	}
}

func (r *GroupRepository) ListByCategory(_ context.Context, categoryName string) ([]group.Group, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	seasonID, ok := r.store.currentSeasonID()
	if !ok {
		return nil, nil
	}
	categoryID, ok := r.store.categoryID(categoryName)
	if !ok {
		return nil, nil
	}

	out := make([]group.Group, 0, len(r.store.groups))
	for _, g := range r.store.groups {
		if g.SeasonID == seasonID && g.CategoryID == categoryID {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })

	return out, nil
}

func (r *GroupRepository) ListCurrentSeason(_ context.Context) ([]group.Group, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	seasonID, ok := r.store.currentSeasonID()
	if !ok {
		return nil, nil
	}

	out := make([]group.Group, 0, len(r.store.groups))
	for _, g := range r.store.groups {
		if g.SeasonID == seasonID {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })

	return out, nil
}
