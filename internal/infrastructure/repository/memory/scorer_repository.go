package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/futbolcanario/futbolbase/internal/domain/scorer"
)

type ScorerRepository struct {
	store *Store
}

func NewScorerRepository(store *Store) *ScorerRepository {
	return &ScorerRepository{store: store}
}

func (r *ScorerRepository) ReplaceByGroup(_ context.Context, groupID int64, rows []scorer.Scorer) error {
	if groupID <= 0 {
		return fmt.Errorf("group id is required")
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	copied := make([]scorer.Scorer, 0, len(rows))
	for _, row := range rows {
		if err := row.Validate(); err != nil {
			return fmt.Errorf("validate scorer: %w", err)
		}
		row.GroupID = groupID
		copied = append(copied, row)
	}

	r.store.scorers[groupID] = copied
	return nil
}

func (r *ScorerRepository) ListByGroup(_ context.Context, groupID int64) ([]scorer.Scorer, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	rows := r.store.scorers[groupID]
	out := make([]scorer.Scorer, 0, len(rows))
	for _, row := range rows {
		row.TeamName = r.store.teamName(row.TeamID)
		out = append(out, row)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Goals != out[j].Goals {
			return out[i].Goals > out[j].Goals
		}
		if out[i].Games != out[j].Games {
			return out[i].Games < out[j].Games
		}
		return out[i].PlayerName < out[j].PlayerName
	})

	return out, nil
}

func (r *ScorerRepository) CountByGroup(_ context.Context, groupID int64) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return len(r.store.scorers[groupID]), nil
}
