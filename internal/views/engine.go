package views

import (
	"sort"
	"strings"

	"github.com/futbolcanario/futbolbase/internal/datafile"
	"github.com/futbolcanario/futbolbase/internal/domain/match"
)

// Group is one published group as the client sees it.
type Group struct {
	ID       string
	Name     string
	FullName string
	Phase    string
	Island   string
	URL      string
	Jornada  string

	Standings []datafile.StandingRow
	Matches   []datafile.MatchRow
}

// GroupHistory maps matchday labels to their scored results for one
// group.
type GroupHistory map[string][]datafile.HistoryRow

// ScorerEntry is one group's scorer table with its display name.
type ScorerEntry struct {
	Group   string
	Scorers []datafile.ScorerRow
}

// Phase is a set of groups sharing a phase label, in first-seen order.
type Phase struct {
	Name   string
	Groups []Group
}

// PhaseGroups partitions groups by phase label, preserving first-seen
// order of phases and of groups within each phase.
func PhaseGroups(groups []Group) []Phase {
	var phases []Phase
	index := make(map[string]int)
	for _, g := range groups {
		i, ok := index[g.Phase]
		if !ok {
			i = len(phases)
			index[g.Phase] = i
			phases = append(phases, Phase{Name: g.Phase})
		}
		phases[i].Groups = append(phases[i].Groups, g)
	}
	return phases
}

// MatchesSearch reports whether any standings row's team name contains
// the term, case-insensitively. An empty term matches everything.
func MatchesSearch(g Group, term string) bool {
	term = strings.TrimSpace(term)
	if term == "" {
		return true
	}
	folded := strings.ToLower(term)
	for _, row := range g.Standings {
		if strings.Contains(strings.ToLower(row.Team), folded) {
			return true
		}
	}
	return false
}

// FilterGroups keeps the groups matching a search term.
func FilterGroups(groups []Group, term string) []Group {
	out := make([]Group, 0, len(groups))
	for _, g := range groups {
		if MatchesSearch(g, term) {
			out = append(out, g)
		}
	}
	return out
}

// Islands lists the distinct island labels in first-seen order,
// skipping groups without one.
func Islands(groups []Group) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, g := range groups {
		if g.Island == "" {
			continue
		}
		if _, ok := seen[g.Island]; ok {
			continue
		}
		seen[g.Island] = struct{}{}
		out = append(out, g.Island)
	}
	return out
}

// FilterByIsland restricts groups to the selected island. When the
// selection has no groups it falls back to the first island present,
// so the view never renders empty just because a stale selection
// survived a data refresh.
func FilterByIsland(groups []Group, island string) ([]Group, string) {
	pick := func(name string) []Group {
		var out []Group
		for _, g := range groups {
			if g.Island == name {
				out = append(out, g)
			}
		}
		return out
	}

	if island != "" {
		if out := pick(island); len(out) > 0 {
			return out, island
		}
	}

	islands := Islands(groups)
	if len(islands) == 0 {
		return nil, ""
	}
	return pick(islands[0]), islands[0]
}

// Outcome is one result from a team's perspective.
type Outcome byte

const (
	Win  Outcome = 'W'
	Draw Outcome = 'D'
	Loss Outcome = 'L'
)

// chronological flattens a group's history into matchday-numeric then
// date-lexical order.
func chronological(history GroupHistory) []datafile.HistoryRow {
	labels := make([]string, 0, len(history))
	for label := range history {
		labels = append(labels, label)
	}
	match.SortJornadas(labels)

	var out []datafile.HistoryRow
	for _, label := range labels {
		rows := append([]datafile.HistoryRow(nil), history[label]...)
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].Date < rows[j].Date })
		out = append(out, rows...)
	}
	return out
}

// FormSequence returns a team's last n outcomes in chronological
// order, oldest of the window first.
func FormSequence(history GroupHistory, teamName string, n int) []Outcome {
	if n <= 0 {
		return nil
	}

	var all []Outcome
	for _, row := range chronological(history) {
		if row.HomeScore == nil || row.AwayScore == nil {
			continue
		}
		var forTeam, against int
		switch teamName {
		case row.Home:
			forTeam, against = *row.HomeScore, *row.AwayScore
		case row.Away:
			forTeam, against = *row.AwayScore, *row.HomeScore
		default:
			continue
		}
		switch {
		case forTeam > against:
			all = append(all, Win)
		case forTeam < against:
			all = append(all, Loss)
		default:
			all = append(all, Draw)
		}
	}

	if len(all) > n {
		all = all[len(all)-n:]
	}
	return all
}

// HeadToHead returns the scored meetings between two teams in a
// group's history, in chronological order. The pair matches in either
// home/away orientation, so (a, b) and (b, a) yield the same list. An
// empty result is a valid state, not an error.
func HeadToHead(history GroupHistory, teamA, teamB string) []datafile.HistoryRow {
	var out []datafile.HistoryRow
	for _, row := range chronological(history) {
		if row.HomeScore == nil || row.AwayScore == nil {
			continue
		}
		if (row.Home == teamA && row.Away == teamB) || (row.Home == teamB && row.Away == teamA) {
			out = append(out, row)
		}
	}
	return out
}

// RankedScorer is one row of the global scorer ranking, tagged with
// the group it came from.
type RankedScorer struct {
	Player string
	Team   string
	Goals  int
	Games  int
	Group  string
}

// GlobalTopLimit caps the merged scorer ranking.
const GlobalTopLimit = 30

// GlobalTopScorers merges per-group scorer lists, orders by goals
// descending then games ascending, and truncates to the top 30. The
// sort is stable, so ties at the cut line resolve by scan order.
func GlobalTopScorers(entries ...[]ScorerEntry) []RankedScorer {
	var merged []RankedScorer
	for _, list := range entries {
		for _, entry := range list {
			for _, row := range entry.Scorers {
				merged = append(merged, RankedScorer{
					Player: row.Player,
					Team:   row.Team,
					Goals:  row.Goals,
					Games:  row.Games,
					Group:  entry.Group,
				})
			}
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		if merged[i].Goals != merged[j].Goals {
			return merged[i].Goals > merged[j].Goals
		}
		return merged[i].Games < merged[j].Games
	})

	if len(merged) > GlobalTopLimit {
		merged = merged[:GlobalTopLimit]
	}
	return merged
}
