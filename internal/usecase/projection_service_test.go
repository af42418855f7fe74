package usecase

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/futbolcanario/futbolbase/internal/datafile"
	"github.com/futbolcanario/futbolbase/internal/infrastructure/repository/memory"
	"github.com/futbolcanario/futbolbase/internal/platform/logging"
)

func newTestProjection(t *testing.T) (*ProjectionService, *ReconcileService) {
	t.Helper()

	store := memory.NewStore()
	reconcile := NewReconcileService(
		memory.NewSeasonRepository(store),
		memory.NewCategoryRepository(store),
		memory.NewTeamRepository(store),
		memory.NewGroupRepository(store),
		memory.NewStandingRepository(store),
		memory.NewMatchRepository(store),
		memory.NewScorerRepository(store),
		logging.NewNop(),
	)
	projection := NewProjectionService(
		memory.NewGroupRepository(store),
		memory.NewTeamRepository(store),
		memory.NewStandingRepository(store),
		memory.NewMatchRepository(store),
		memory.NewScorerRepository(store),
		logging.NewNop(),
	)
	return projection, reconcile
}

func seedProjection(t *testing.T, reconcile *ReconcileService) {
	t.Helper()

	if _, err := reconcile.ApplySnapshot(t.Context(), testSeason(), benjaminSnapshot()); err != nil {
		t.Fatalf("seed benjamin: %v", err)
	}

	hs, as := 4, 2
	preb := Snapshot{
		Category: "PREBENJAMIN",
		Groups: []SnapshotGroup{
			{
				Code:           "PG1",
				FullName:       "PREBENJAMIN PRIMERA GRAN CANARIA G-1",
				CurrentJornada: "Jornada 3",
				Standings: []SnapshotStanding{
					{Position: 1, Team: "Canteras", Points: 9},
				},
				Matches: []SnapshotMatch{
					{Jornada: "Jornada 2", Date: "2025-11-14", Time: "17:00", Home: "Canteras", Away: "Lomo", HomeScore: &hs, AwayScore: &as},
				},
				Scorers: []SnapshotScorer{
					{Player: "Mario", Team: "Canteras", Goals: 6, Games: 3},
				},
			},
		},
	}
	if _, err := reconcile.ApplySnapshot(t.Context(), testSeason(), preb); err != nil {
		t.Fatalf("seed prebenjamin: %v", err)
	}
}

func TestCategoryFileShape(t *testing.T) {
	projection, reconcile := newTestProjection(t)
	seedProjection(t, reconcile)

	out, err := projection.CategoryFile(t.Context(), "BENJAMIN")
	if err != nil {
		t.Fatalf("category file: %v", err)
	}
	content := string(out)

	if !strings.HasPrefix(content, "const BENJAMIN=[") {
		t.Fatalf("unexpected prefix: %s", content[:40])
	}
	if !strings.Contains(content, `const BENJ_STATS={"groups":1,"teams":2};`) {
		t.Fatalf("missing stats declaration: %s", content)
	}
	if !strings.Contains(content, `"id":"A1"`) {
		t.Fatalf("missing group id: %s", content)
	}
	// Only current-jornada fixtures publish in the category file.
	if !strings.Contains(content, `"Aguilas","San Jose"`) {
		t.Fatalf("missing jornada 5 fixture: %s", content)
	}
	if strings.Contains(content, "Campo Anexo") {
		t.Fatalf("jornada 4 match should not be in the category file: %s", content)
	}

	payload, err := datafile.ExtractConst(out, "BENJAMIN")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if payload[0] != '[' {
		t.Fatalf("expected array payload, got %s", payload[:1])
	}
}

func TestCategoryFileUnknownCategory(t *testing.T) {
	projection, _ := newTestProjection(t)

	if _, err := projection.CategoryFile(t.Context(), "CADETE"); err == nil {
		t.Fatal("expected error for unknown category")
	}
}

func TestHistoryFileCountsAndOrdersScoredMatches(t *testing.T) {
	projection, reconcile := newTestProjection(t)
	seedProjection(t, reconcile)

	out, err := projection.HistoryFile(t.Context())
	if err != nil {
		t.Fatalf("history file: %v", err)
	}
	content := string(out)

	if !strings.Contains(content, "const HIST_MATCHES=2;") {
		t.Fatalf("expected 2 scored matches, got: %s", content)
	}
	// Pending fixtures never enter the history.
	if strings.Contains(content, `"Jornada 5"`) {
		t.Fatalf("pending jornada leaked into history: %s", content)
	}
	if !strings.Contains(content, `"A1":{"Jornada 4":[`) {
		t.Fatalf("missing benjamin history entry: %s", content)
	}
	if !strings.Contains(content, `"PG1":{"Jornada 2":[`) {
		t.Fatalf("missing prebenjamin history entry: %s", content)
	}
}

func TestMatchDetailFileKeyForm(t *testing.T) {
	projection, reconcile := newTestProjection(t)
	seedProjection(t, reconcile)

	out, err := projection.MatchDetailFile(t.Context())
	if err != nil {
		t.Fatalf("match detail file: %v", err)
	}
	content := string(out)

	if !strings.Contains(content, `"San Jose|Aguilas|3-1":{"g":[[12,"Hugo","1-0","home","regular"],[30,"Dani","1-1","away","penalty"]]}`) {
		t.Fatalf("missing match detail entry: %s", content)
	}
	// Matches without goal events stay out of the detail map.
	if strings.Contains(content, "Canteras|Lomo") {
		t.Fatalf("goal-less match leaked into details: %s", content)
	}
}

func TestGoleadoresFileUsesDisplayNames(t *testing.T) {
	projection, reconcile := newTestProjection(t)
	seedProjection(t, reconcile)

	out, err := projection.GoleadoresFile(t.Context())
	if err != nil {
		t.Fatalf("goleadores file: %v", err)
	}
	content := string(out)

	if !strings.Contains(content, `const GOL_BENJ=[{"g":"BENJAMIN SEGUNDA FASE A-G1","s":[["Hugo","San Jose",9,4]]}];`) {
		t.Fatalf("missing benjamin scorers: %s", content)
	}
	if !strings.Contains(content, `const GOL_PREBENJ=[{"g":"PREBENJAMIN GC GRUPO 1","s":[["Mario","Canteras",6,3]]}];`) {
		t.Fatalf("missing prebenjamin scorers: %s", content)
	}
}

func TestShieldsFile(t *testing.T) {
	projection, reconcile := newTestProjection(t)
	seedProjection(t, reconcile)

	out, err := projection.ShieldsFile(t.Context())
	if err != nil {
		t.Fatalf("shields file: %v", err)
	}
	if !strings.Contains(string(out), `const SHIELDS={"San Jose":"sanjose.png"};`) {
		t.Fatalf("unexpected shields file: %s", out)
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	projection, reconcile := newTestProjection(t)
	seedProjection(t, reconcile)

	firstDir := t.TempDir()
	secondDir := t.TempDir()

	if err := projection.Generate(t.Context(), firstDir, ""); err != nil {
		t.Fatalf("first generate: %v", err)
	}
	if err := projection.Generate(t.Context(), secondDir, ""); err != nil {
		t.Fatalf("second generate: %v", err)
	}

	names := []string{
		"data-benjamin.js", "data-prebenjamin.js", "data-history.js",
		"data-matchdetail.js", "data-goleadores.js", "data-shields.js",
	}
	for _, name := range names {
		first, err := os.ReadFile(filepath.Join(firstDir, name))
		if err != nil {
			t.Fatalf("read first %s: %v", name, err)
		}
		second, err := os.ReadFile(filepath.Join(secondDir, name))
		if err != nil {
			t.Fatalf("read second %s: %v", name, err)
		}
		if string(first) != string(second) {
			t.Fatalf("%s differs between identical runs", name)
		}
		if len(first) == 0 {
			t.Fatalf("%s is empty", name)
		}
	}
}

func TestGenerateBumpsShellVersion(t *testing.T) {
	projection, reconcile := newTestProjection(t)
	seedProjection(t, reconcile)
	projection.now = func() time.Time { return time.Date(2025, 11, 28, 9, 0, 0, 0, time.UTC) }

	dir := t.TempDir()
	shellPath := filepath.Join(dir, "index.html")
	shell := `<script src="data-benjamin.js?v=20251120"></script>`
	if err := os.WriteFile(shellPath, []byte(shell), 0o644); err != nil {
		t.Fatalf("write shell: %v", err)
	}

	if err := projection.Generate(t.Context(), dir, shellPath); err != nil {
		t.Fatalf("generate: %v", err)
	}

	bumped, err := os.ReadFile(shellPath)
	if err != nil {
		t.Fatalf("read shell: %v", err)
	}
	if !strings.Contains(string(bumped), "?v=20251128") {
		t.Fatalf("shell version not bumped: %s", bumped)
	}
}
