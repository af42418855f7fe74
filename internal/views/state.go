// Package views is the derived-view engine: an immutable selection
// state plus pure functions projecting the published data arrays into
// renderable shapes. Nothing here touches the network or mutates its
// inputs.
package views

// Section identifies one screen of the app.
type Section string

const (
	SectionStandings Section = "clasificacion"
	SectionResults   Section = "resultados"
	SectionIslands   Section = "islas"
	SectionScorers   Section = "goleadores"
	SectionShields   Section = "escudos"
)

// ScorerScope selects between per-group and global scorer rankings.
type ScorerScope string

const (
	ScopeGroup  ScorerScope = "group"
	ScopeGlobal ScorerScope = "global"
)

// State is the whole UI selection state. It is a value: transitions
// return a new State and never modify the old one.
type State struct {
	Category    string
	Section     Section
	Search      string
	GroupCode   string
	Jornada     string
	Island      string
	ScorerScope ScorerScope
}

// NewState returns the initial state for a category.
func NewState(categoryName string) State {
	return State{
		Category:    categoryName,
		Section:     SectionStandings,
		ScorerScope: ScopeGroup,
	}
}

// Action is a state transition request.
type Action interface {
	apply(State) State
}

type SetCategory struct{ Category string }

// Switching category resets every category-scoped selection.
func (a SetCategory) apply(s State) State {
	return State{
		Category:    a.Category,
		Section:     s.Section,
		ScorerScope: ScopeGroup,
	}
}

type SetSection struct{ Section Section }

func (a SetSection) apply(s State) State {
	s.Section = a.Section
	return s
}

type SetSearch struct{ Term string }

func (a SetSearch) apply(s State) State {
	s.Search = a.Term
	return s
}

type SelectGroup struct{ Code string }

func (a SelectGroup) apply(s State) State {
	s.GroupCode = a.Code
	return s
}

type SelectJornada struct{ Jornada string }

func (a SelectJornada) apply(s State) State {
	s.Jornada = a.Jornada
	return s
}

type SelectIsland struct{ Island string }

func (a SelectIsland) apply(s State) State {
	s.Island = a.Island
	return s
}

type SetScorerScope struct{ Scope ScorerScope }

func (a SetScorerScope) apply(s State) State {
	s.ScorerScope = a.Scope
	return s
}

// Reduce applies one action and returns the next state.
func Reduce(s State, a Action) State {
	if a == nil {
		return s
	}
	return a.apply(s)
}
