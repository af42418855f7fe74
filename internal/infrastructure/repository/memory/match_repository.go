package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/futbolcanario/futbolbase/internal/domain/match"
)

type MatchRepository struct {
	store *Store
}

func NewMatchRepository(store *Store) *MatchRepository {
	return &MatchRepository{store: store}
}

func sameNaturalKey(m match.Match, groupID int64, jornada string, homeTeamID, awayTeamID int64) bool {
	return m.GroupID == groupID && m.Jornada == jornada &&
		m.HomeTeamID == homeTeamID && m.AwayTeamID == awayTeamID
}

func (r *MatchRepository) InsertIfAbsent(_ context.Context, m match.Match) (int64, bool, error) {
	if err := m.Validate(); err != nil {
		return 0, false, fmt.Errorf("validate match: %w", err)
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.matches {
		if sameNaturalKey(existing, m.GroupID, m.Jornada, m.HomeTeamID, m.AwayTeamID) {
			return existing.ID, false, nil
		}
	}

	m.ID = r.store.allocID()
	m.HomeScore = cloneIntPtr(m.HomeScore)
	m.AwayScore = cloneIntPtr(m.AwayScore)
	r.store.matches = append(r.store.matches, m)
	return m.ID, true, nil
}

func (r *MatchRepository) ApplyScore(_ context.Context, groupID int64, jornada string, homeTeamID, awayTeamID int64, homeScore, awayScore int) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for i, existing := range r.store.matches {
		if !sameNaturalKey(existing, groupID, jornada, homeTeamID, awayTeamID) {
			continue
		}
		if existing.Scored() {
			return false, nil
		}
		hs, as := homeScore, awayScore
		r.store.matches[i].HomeScore = &hs
		r.store.matches[i].AwayScore = &as
		return true, nil
	}

	return false, nil
}

func (r *MatchRepository) GetByID(_ context.Context, matchID int64) (match.Match, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, m := range r.store.matches {
		if m.ID == matchID {
			return r.withTeamNames(m), true, nil
		}
	}

	return match.Match{}, false, nil
}

func (r *MatchRepository) ListByGroup(_ context.Context, groupID int64) ([]match.Match, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]match.Match, 0, len(r.store.matches))
	for _, m := range r.store.matches {
		if m.GroupID == groupID {
			out = append(out, r.withTeamNames(m))
		}
	}
	sortMatches(out)

	return out, nil
}

func (r *MatchRepository) ListByGroupJornada(_ context.Context, groupID int64, jornada string) ([]match.Match, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]match.Match, 0, len(r.store.matches))
	for _, m := range r.store.matches {
		if m.GroupID == groupID && m.Jornada == jornada {
			out = append(out, r.withTeamNames(m))
		}
	}
	sortMatches(out)

	return out, nil
}

func (r *MatchRepository) ListWithGoals(_ context.Context) ([]match.Match, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]match.Match, 0, len(r.store.matches))
	for _, m := range r.store.matches {
		if m.Scored() && len(r.store.goals[m.ID]) > 0 {
			out = append(out, r.withTeamNames(m))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}

func (r *MatchRepository) CountByGroup(_ context.Context, groupID int64) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	count := 0
	for _, m := range r.store.matches {
		if m.GroupID == groupID {
			count++
		}
	}

	return count, nil
}

func (r *MatchRepository) CountGoals(_ context.Context, matchID int64) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return len(r.store.goals[matchID]), nil
}

func (r *MatchRepository) InsertGoals(_ context.Context, matchID int64, goals []match.Goal) error {
	if matchID <= 0 {
		return fmt.Errorf("match id is required")
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, g := range goals {
		if err := g.Validate(); err != nil {
			return fmt.Errorf("validate goal: %w", err)
		}
		g.ID = r.store.allocID()
		g.MatchID = matchID
		r.store.goals[matchID] = append(r.store.goals[matchID], g)
	}

	return nil
}

func (r *MatchRepository) ListGoals(_ context.Context, matchID int64) ([]match.Goal, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	goals := r.store.goals[matchID]
	out := make([]match.Goal, 0, len(goals))
	out = append(out, goals...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Minute != out[j].Minute {
			return out[i].Minute < out[j].Minute
		}
		return out[i].ID < out[j].ID
	})

	return out, nil
}

// withTeamNames must be called with the read lock held.
func (r *MatchRepository) withTeamNames(m match.Match) match.Match {
	m.HomeTeam = r.store.teamName(m.HomeTeamID)
	m.AwayTeam = r.store.teamName(m.AwayTeamID)
	m.HomeScore = cloneIntPtr(m.HomeScore)
	m.AwayScore = cloneIntPtr(m.AwayScore)
	return m
}

func sortMatches(items []match.Match) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Jornada != items[j].Jornada {
			return items[i].Jornada < items[j].Jornada
		}
		if items[i].Date != items[j].Date {
			return items[i].Date < items[j].Date
		}
		if items[i].Time != items[j].Time {
			return items[i].Time < items[j].Time
		}
		return items[i].HomeTeam < items[j].HomeTeam
	})
}

func cloneIntPtr(v *int) *int {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}
