package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/futbolcanario/futbolbase/internal/domain/standing"
)

type StandingRepository struct {
	store *Store
}

func NewStandingRepository(store *Store) *StandingRepository {
	return &StandingRepository{store: store}
}

func (r *StandingRepository) ReplaceByGroup(_ context.Context, groupID int64, rows []standing.Row) error {
	if groupID <= 0 {
		return fmt.Errorf("group id is required")
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	copied := make([]standing.Row, 0, len(rows))
	for _, row := range rows {
		if err := row.Validate(); err != nil {
			return fmt.Errorf("validate standing: %w", err)
		}
		row.GroupID = groupID
		copied = append(copied, row)
	}

	r.store.standings[groupID] = copied
	return nil
}

func (r *StandingRepository) ListByGroup(_ context.Context, groupID int64) ([]standing.Row, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	rows := r.store.standings[groupID]
	out := make([]standing.Row, 0, len(rows))
	for _, row := range rows {
		row.TeamName = r.store.teamName(row.TeamID)
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })

	return out, nil
}

func (r *StandingRepository) CountByGroup(_ context.Context, groupID int64) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return len(r.store.standings[groupID]), nil
}
