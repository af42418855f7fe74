package memory

import (
	"sync"

	"github.com/futbolcanario/futbolbase/internal/domain/category"
	"github.com/futbolcanario/futbolbase/internal/domain/group"
	"github.com/futbolcanario/futbolbase/internal/domain/match"
	"github.com/futbolcanario/futbolbase/internal/domain/scorer"
	"github.com/futbolcanario/futbolbase/internal/domain/season"
	"github.com/futbolcanario/futbolbase/internal/domain/standing"
	"github.com/futbolcanario/futbolbase/internal/domain/team"
)

// Store holds every table behind one lock so repositories can resolve
// names across entities the way the SQL implementations do with joins.
type Store struct {
	mu     sync.RWMutex
	nextID int64

	seasons    []season.Season
	categories []category.Category
	teams      []team.Team
	groups     []group.Group

	standings map[int64][]standing.Row
	scorers   map[int64][]scorer.Scorer
	matches   []match.Match
	goals     map[int64][]match.Goal
}

func NewStore() *Store {
	return &Store{
		standings: make(map[int64][]standing.Row),
		scorers:   make(map[int64][]scorer.Scorer),
		goals:     make(map[int64][]match.Goal),
	}
}

// allocID must be called with the write lock held.
func (s *Store) allocID() int64 {
	s.nextID++
	return s.nextID
}

func (s *Store) teamName(id int64) string {
	for _, t := range s.teams {
		if t.ID == id {
			return t.Name
		}
	}
	return ""
}

func (s *Store) currentSeasonID() (int64, bool) {
	for _, se := range s.seasons {
		if se.IsCurrent {
			return se.ID, true
		}
	}
	return 0, false
}

func (s *Store) categoryID(name string) (int64, bool) {
	for _, c := range s.categories {
		if c.Name == name {
			return c.ID, true
		}
	}
	return 0, false
}
