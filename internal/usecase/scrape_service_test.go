package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/futbolcanario/futbolbase/internal/infrastructure/repository/memory"
	"github.com/futbolcanario/futbolbase/internal/platform/logging"
)

type stubSnapshotProvider struct {
	snapshots map[int]Snapshot
	failures  map[int]error
}

func (p *stubSnapshotProvider) FetchTournament(_ context.Context, src TournamentSource) (Snapshot, error) {
	if err, ok := p.failures[src.ID]; ok {
		return Snapshot{}, err
	}
	return p.snapshots[src.ID], nil
}

type stubPageProvider struct {
	updates  map[string]GroupPageUpdate
	failures map[string]error
	calls    []string
}

func (p *stubPageProvider) FetchGroupPage(_ context.Context, url string) (GroupPageUpdate, error) {
	p.calls = append(p.calls, url)
	if err, ok := p.failures[url]; ok {
		return GroupPageUpdate{}, err
	}
	return p.updates[url], nil
}

func newTestScrape(t *testing.T, provider SnapshotProvider, pages GroupPageProvider) (*ScrapeService, *memory.Store) {
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
	service := NewScrapeService(provider, pages, reconcile, memory.NewGroupRepository(store), logging.NewNop())
	return service, store
}

func TestScrapeRunAppliesEverySource(t *testing.T) {
	provider := &stubSnapshotProvider{
		snapshots: map[int]Snapshot{
			86: benjaminSnapshot(),
			87: {Category: "PREBENJAMIN", Groups: []SnapshotGroup{{Code: "PG1"}}},
		},
	}
	service, _ := newTestScrape(t, provider, nil)

	report, err := service.Run(t.Context(), testSeason(), []TournamentSource{
		{ID: 86, Category: "BENJAMIN", GroupPrefix: "BEN"},
		{ID: 87, Category: "PREBENJAMIN", GroupPrefix: "PRE"},
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.GroupsUpserted != 2 {
		t.Fatalf("expected both categories applied: %+v", report)
	}
	if report.RowsSkipped != 0 {
		t.Fatalf("nothing should be skipped: %+v", report)
	}
}

func TestScrapeRunContinuesPastFailedSource(t *testing.T) {
	provider := &stubSnapshotProvider{
		snapshots: map[int]Snapshot{87: {Category: "PREBENJAMIN", Groups: []SnapshotGroup{{Code: "PG1"}}}},
		failures:  map[int]error{86: errors.New("provider down")},
	}
	service, _ := newTestScrape(t, provider, nil)

	report, err := service.Run(t.Context(), testSeason(), []TournamentSource{
		{ID: 86, Category: "BENJAMIN"},
		{ID: 87, Category: "PREBENJAMIN"},
	})
	if err != nil {
		t.Fatalf("one failed source must not abort the run: %v", err)
	}
	if report.RowsSkipped != 1 {
		t.Fatalf("failed source should count as skipped: %+v", report)
	}
	if report.GroupsUpserted != 1 {
		t.Fatalf("healthy source should still apply: %+v", report)
	}
}

func TestScrapeRunRequiresProvider(t *testing.T) {
	service, _ := newTestScrape(t, nil, nil)
	if _, err := service.Run(t.Context(), testSeason(), nil); !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestScrapeRunRefreshesGroupPages(t *testing.T) {
	snap := benjaminSnapshot()
	snap.Groups[0].URL = "https://federacion.test/grupo-a1"

	hs, as := 1, 1
	pages := &stubPageProvider{
		updates: map[string]GroupPageUpdate{
			"https://federacion.test/grupo-a1": {
				Jornada: "Jornada 6",
				Standings: []SnapshotStanding{
					{Position: 1, Team: "Aguilas", Points: 15},
					{Position: 2, Team: "San Jose", Points: 13},
				},
				Matches: []SnapshotMatch{
					{Date: "05/12", Time: "17:00", Home: "San Jose", Away: "Aguilas", HomeScore: &hs, AwayScore: &as},
				},
			},
		},
	}
	provider := &stubSnapshotProvider{snapshots: map[int]Snapshot{86: snap}}
	service, store := newTestScrape(t, provider, pages)

	report, err := service.Run(t.Context(), testSeason(), []TournamentSource{{ID: 86, Category: "BENJAMIN"}})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(pages.calls) != 1 {
		t.Fatalf("expected one page fetch, got %v", pages.calls)
	}
	if report.MatchesInserted != 3 {
		t.Fatalf("page fixture should insert: %+v", report)
	}

	groups, err := memory.NewGroupRepository(store).ListCurrentSeason(t.Context())
	if err != nil || len(groups) != 1 {
		t.Fatalf("list groups: n=%d err=%v", len(groups), err)
	}
	if groups[0].CurrentJornada != "Jornada 6" {
		t.Fatalf("page jornada should stick: %+v", groups[0])
	}

	standings, err := memory.NewStandingRepository(store).ListByGroup(t.Context(), groups[0].ID)
	if err != nil || len(standings) != 2 {
		t.Fatalf("list standings: n=%d err=%v", len(standings), err)
	}
	if standings[0].TeamName != "Aguilas" {
		t.Fatalf("page standings should replace: %+v", standings[0])
	}
}

func TestScrapeRunSkipsGroupsWithoutURL(t *testing.T) {
	pages := &stubPageProvider{}
	provider := &stubSnapshotProvider{snapshots: map[int]Snapshot{86: benjaminSnapshot()}}
	service, _ := newTestScrape(t, provider, pages)

	if _, err := service.Run(t.Context(), testSeason(), []TournamentSource{{ID: 86, Category: "BENJAMIN"}}); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(pages.calls) != 0 {
		t.Fatalf("groups without URLs must not be fetched: %v", pages.calls)
	}
}
