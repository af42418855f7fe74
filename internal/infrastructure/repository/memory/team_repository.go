package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/futbolcanario/futbolbase/internal/domain/team"
)

type TeamRepository struct {
	store *Store
}

func NewTeamRepository(store *Store) *TeamRepository {
	return &TeamRepository{store: store}
}

func (r *TeamRepository) UpsertByName(_ context.Context, name, shieldFilename string) (int64, error) {
	if name == "" {
		return 0, fmt.Errorf("team name is required")
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for i, existing := range r.store.teams {
		if existing.Name == name {
			if shieldFilename != "" {
				r.store.teams[i].ShieldFilename = shieldFilename
			}
			return existing.ID, nil
		}
	}

	t := team.Team{ID: r.store.allocID(), Name: name, ShieldFilename: shieldFilename}
	r.store.teams = append(r.store.teams, t)
	return t.ID, nil
}

func (r *TeamRepository) GetByName(_ context.Context, name string) (team.Team, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, t := range r.store.teams {
		if t.Name == name {
			return t, true, nil
		}
	}

	return team.Team{}, false, nil
}

func (r *TeamRepository) ListWithShield(_ context.Context) ([]team.Team, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]team.Team, 0, len(r.store.teams))
	for _, t := range r.store.teams {
		if t.ShieldFilename != "" {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })

	return out, nil
}
