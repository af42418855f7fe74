package views

import (
	"reflect"
	"testing"

	"github.com/futbolcanario/futbolbase/internal/datafile"
)

func intPtr(v int) *int { return &v }

func histRow(date, home, away string, hs, as int) datafile.HistoryRow {
	return datafile.HistoryRow{Date: date, Home: home, Away: away, HomeScore: intPtr(hs), AwayScore: intPtr(as)}
}

func TestPhaseGroupsFirstSeenOrder(t *testing.T) {
	t.Parallel()

	groups := []Group{
		{ID: "A1", Phase: "Fase A"},
		{ID: "B1", Phase: "Fase B"},
		{ID: "A2", Phase: "Fase A"},
	}

	phases := PhaseGroups(groups)
	if len(phases) != 2 {
		t.Fatalf("expected 2 phases, got %d", len(phases))
	}
	if phases[0].Name != "Fase A" || phases[1].Name != "Fase B" {
		t.Fatalf("unexpected phase order: %+v", phases)
	}
	if len(phases[0].Groups) != 2 || phases[0].Groups[0].ID != "A1" || phases[0].Groups[1].ID != "A2" {
		t.Fatalf("unexpected group order in phase: %+v", phases[0].Groups)
	}
}

func TestFilterGroupsBySearchTerm(t *testing.T) {
	t.Parallel()

	groups := []Group{
		{ID: "A1", Standings: []datafile.StandingRow{{Team: "San Jose"}, {Team: "Aguilas"}}},
		{ID: "A2", Standings: []datafile.StandingRow{{Team: "Estrella"}}},
	}

	got := FilterGroups(groups, "  SAN jose ")
	if len(got) != 1 || got[0].ID != "A1" {
		t.Fatalf("unexpected filter result: %+v", got)
	}

	if got := FilterGroups(groups, ""); len(got) != 2 {
		t.Fatalf("empty term should match all, got %+v", got)
	}

	if got := FilterGroups(groups, "nadie"); len(got) != 0 {
		t.Fatalf("expected no matches, got %+v", got)
	}
}

func TestIslandsAndFallback(t *testing.T) {
	t.Parallel()

	groups := []Group{
		{ID: "A1", Island: "grancanaria"},
		{ID: "LZ1", Island: "lanzarote"},
		{ID: "A2", Island: "grancanaria"},
		{ID: "X", Island: ""},
	}

	if got := Islands(groups); !reflect.DeepEqual(got, []string{"grancanaria", "lanzarote"}) {
		t.Fatalf("unexpected islands: %v", got)
	}

	picked, island := FilterByIsland(groups, "lanzarote")
	if island != "lanzarote" || len(picked) != 1 || picked[0].ID != "LZ1" {
		t.Fatalf("unexpected selection: %v %+v", island, picked)
	}

	// A stale selection falls back to the first island present.
	picked, island = FilterByIsland(groups, "tenerife")
	if island != "grancanaria" || len(picked) != 2 {
		t.Fatalf("expected fallback to first island, got %v %+v", island, picked)
	}

	picked, island = FilterByIsland(nil, "grancanaria")
	if island != "" || picked != nil {
		t.Fatalf("expected empty result for no groups, got %v %+v", island, picked)
	}
}

func TestFormSequenceLastFiveOldestFirst(t *testing.T) {
	t.Parallel()

	history := GroupHistory{
		"Jornada 1": {histRow("01/10", "San Jose", "Aguilas", 2, 0)},  // W
		"Jornada 2": {histRow("08/10", "Estrella", "San Jose", 3, 1)}, // L
		"Jornada 3": {histRow("15/10", "San Jose", "Canteras", 1, 1)}, // D
		"Jornada 4": {histRow("22/10", "Lomo", "San Jose", 0, 4)},     // W
		"Jornada 5": {histRow("29/10", "San Jose", "Estrella", 2, 1)}, // W
		"Jornada 6": {histRow("05/11", "Aguilas", "San Jose", 2, 0)},  // L
		"Jornada 7": {histRow("12/11", "San Jose", "Lomo", 0, 0)},     // D
	}

	got := FormSequence(history, "San Jose", 5)
	want := []Outcome{Draw, Win, Win, Loss, Draw}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestFormSequenceIgnoresOtherTeams(t *testing.T) {
	t.Parallel()

	history := GroupHistory{
		"Jornada 1": {histRow("01/10", "Estrella", "Aguilas", 2, 0)},
	}
	if got := FormSequence(history, "San Jose", 5); len(got) != 0 {
		t.Fatalf("expected empty form, got %q", got)
	}
	if got := FormSequence(history, "San Jose", 0); got != nil {
		t.Fatalf("expected nil for n=0, got %q", got)
	}
}

func TestHeadToHeadEitherOrientation(t *testing.T) {
	t.Parallel()

	history := GroupHistory{
		"Jornada 10": {histRow("12/01", "Aguilas", "San Jose", 1, 3)},
		"Jornada 2":  {histRow("08/10", "San Jose", "Aguilas", 2, 2)},
		"Jornada 5":  {histRow("05/11", "San Jose", "Estrella", 1, 0)},
	}

	ab := HeadToHead(history, "San Jose", "Aguilas")
	ba := HeadToHead(history, "Aguilas", "San Jose")

	if !reflect.DeepEqual(ab, ba) {
		t.Fatalf("orientation changed result: %+v vs %+v", ab, ba)
	}
	if len(ab) != 2 {
		t.Fatalf("expected 2 meetings, got %+v", ab)
	}
	// "Jornada 2" precedes "Jornada 10" numerically.
	if ab[0].Date != "08/10" || ab[1].Date != "12/01" {
		t.Fatalf("expected chronological order, got %+v", ab)
	}

	if got := HeadToHead(history, "San Jose", "Nadie"); len(got) != 0 {
		t.Fatalf("expected empty head-to-head, got %+v", got)
	}
}

func TestGlobalTopScorersOrderingAndLimit(t *testing.T) {
	t.Parallel()

	benj := []ScorerEntry{
		{Group: "FUERTEVENTURA ORO", Scorers: []datafile.ScorerRow{
			{Player: "P1", Team: "T1", Goals: 5, Games: 3},
		}},
	}
	preb := []ScorerEntry{
		{Group: "PREBENJAMIN GC GRUPO 1", Scorers: []datafile.ScorerRow{
			{Player: "P2", Team: "T2", Goals: 5, Games: 2},
			{Player: "P3", Team: "T3", Goals: 7, Games: 6},
		}},
	}

	got := GlobalTopScorers(benj, preb)
	if len(got) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(got))
	}
	// Goals descending, then games ascending on ties.
	if got[0].Player != "P3" || got[1].Player != "P2" || got[2].Player != "P1" {
		t.Fatalf("unexpected order: %+v", got)
	}
	if got[1].Group != "PREBENJAMIN GC GRUPO 1" {
		t.Fatalf("expected group tag carried, got %+v", got[1])
	}

	var many []ScorerEntry
	for i := 0; i < 40; i++ {
		many = append(many, ScorerEntry{Group: "G", Scorers: []datafile.ScorerRow{{Player: "X", Goals: i}}})
	}
	if got := GlobalTopScorers(many); len(got) != GlobalTopLimit {
		t.Fatalf("expected cap at %d, got %d", GlobalTopLimit, len(got))
	}
}
