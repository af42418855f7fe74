package usecase

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/futbolcanario/futbolbase/internal/platform/logging"
)

func TestImportDirRequiresDirectory(t *testing.T) {
	_, reconcile := newTestProjection(t)
	service := NewImportService(reconcile, logging.NewNop())

	if _, err := service.ImportDir(t.Context(), "", testSeason()); err == nil {
		t.Fatal("expected error for empty directory")
	}
}

func TestImportDirToleratesMissingFiles(t *testing.T) {
	_, reconcile := newTestProjection(t)
	service := NewImportService(reconcile, logging.NewNop())

	report, err := service.ImportDir(t.Context(), t.TempDir(), testSeason())
	if err != nil {
		t.Fatalf("empty export dir should import nothing, not fail: %v", err)
	}
	if report.GroupsUpserted != 0 || report.MatchesInserted != 0 {
		t.Fatalf("unexpected report for empty dir: %+v", report)
	}
}

// Generating files from a seeded store and importing them into a fresh
// one must reproduce the store: a second generation from the imported
// data yields byte-identical files.
func TestImportRoundTrip(t *testing.T) {
	sourceProjection, sourceReconcile := newTestProjection(t)
	seedProjection(t, sourceReconcile)

	exportDir := t.TempDir()
	if err := sourceProjection.Generate(t.Context(), exportDir, ""); err != nil {
		t.Fatalf("generate export: %v", err)
	}

	freshProjection, freshReconcile := newTestProjection(t)
	importer := NewImportService(freshReconcile, logging.NewNop())

	report, err := importer.ImportDir(t.Context(), exportDir, testSeason())
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if report.GroupsUpserted != 2 {
		t.Fatalf("expected both groups imported: %+v", report)
	}
	if report.MatchesInserted != 3 {
		t.Fatalf("expected pending fixture plus two scored matches: %+v", report)
	}
	if report.GoalsInserted != 2 {
		t.Fatalf("expected goal events restored: %+v", report)
	}
	if report.ScorersRows != 2 {
		t.Fatalf("expected scorer rows restored: %+v", report)
	}
	if report.RowsSkipped != 0 {
		t.Fatalf("clean export should import without skips: %+v", report)
	}

	regenDir := t.TempDir()
	if err := freshProjection.Generate(t.Context(), regenDir, ""); err != nil {
		t.Fatalf("regenerate: %v", err)
	}

	names := []string{
		"data-benjamin.js", "data-prebenjamin.js", "data-history.js",
		"data-matchdetail.js", "data-goleadores.js", "data-shields.js",
	}
	for _, name := range names {
		exported, err := os.ReadFile(filepath.Join(exportDir, name))
		if err != nil {
			t.Fatalf("read exported %s: %v", name, err)
		}
		regenerated, err := os.ReadFile(filepath.Join(regenDir, name))
		if err != nil {
			t.Fatalf("read regenerated %s: %v", name, err)
		}
		if string(exported) != string(regenerated) {
			t.Fatalf("%s not reproduced by import round trip:\nexported:    %s\nregenerated: %s",
				name, exported, regenerated)
		}
	}
}

func TestImportIsIdempotent(t *testing.T) {
	sourceProjection, sourceReconcile := newTestProjection(t)
	seedProjection(t, sourceReconcile)

	exportDir := t.TempDir()
	if err := sourceProjection.Generate(t.Context(), exportDir, ""); err != nil {
		t.Fatalf("generate export: %v", err)
	}

	_, freshReconcile := newTestProjection(t)
	importer := NewImportService(freshReconcile, logging.NewNop())

	if _, err := importer.ImportDir(t.Context(), exportDir, testSeason()); err != nil {
		t.Fatalf("first import: %v", err)
	}
	second, err := importer.ImportDir(t.Context(), exportDir, testSeason())
	if err != nil {
		t.Fatalf("second import: %v", err)
	}
	if second.MatchesInserted != 0 || second.GoalsInserted != 0 {
		t.Fatalf("re-import must not duplicate rows: %+v", second)
	}
}

func TestParseMatchKey(t *testing.T) {
	t.Parallel()

	key, ok := parseMatchKey("San Jose|Aguilas|3-1")
	if !ok {
		t.Fatal("expected valid key")
	}
	if key.Home != "San Jose" || key.Away != "Aguilas" || key.HomeScore != 3 || key.AwayScore != 1 {
		t.Fatalf("unexpected key: %+v", key)
	}

	for _, bad := range []string{"", "a|b", "a|b|c", "a|b|1-x", "a|b|1-2-3"} {
		if _, ok := parseMatchKey(bad); ok {
			t.Fatalf("expected %q to be rejected", bad)
		}
	}
}
