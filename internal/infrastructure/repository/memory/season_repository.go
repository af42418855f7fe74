package memory

import (
	"context"

	"github.com/futbolcanario/futbolbase/internal/domain/season"
)

type SeasonRepository struct {
	store *Store
}

func NewSeasonRepository(store *Store) *SeasonRepository {
	return &SeasonRepository{store: store}
}

func (r *SeasonRepository) GetOrCreate(_ context.Context, s season.Season) (int64, error) {
	if err := s.Validate(); err != nil {
		return 0, err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.seasons {
		if existing.Name == s.Name {
			return existing.ID, nil
		}
	}

	s.ID = r.store.allocID()
	r.store.seasons = append(r.store.seasons, s)
	return s.ID, nil
}

func (r *SeasonRepository) Current(_ context.Context) (season.Season, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, s := range r.store.seasons {
		if s.IsCurrent {
			return s, true, nil
		}
	}

	return season.Season{}, false, nil
}
