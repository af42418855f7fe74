package usecase

import (
	"context"
	"fmt"

	"github.com/futbolcanario/futbolbase/internal/domain/group"
	"github.com/futbolcanario/futbolbase/internal/domain/season"
	"github.com/futbolcanario/futbolbase/internal/platform/logging"
)

// TournamentSource maps one provider tournament onto an app category.
type TournamentSource struct {
	ID          int
	Category    string
	GroupPrefix string
	Island      string
}

// SnapshotProvider is the scrape boundary for tournament APIs. A
// failed fetch returns a typed error; it never partially applies
// anything to the store itself.
type SnapshotProvider interface {
	FetchTournament(ctx context.Context, src TournamentSource) (Snapshot, error)
}

// GroupPageUpdate is what a federation results page yields for one
// group: the current matchday with its fixtures and, when the page
// parses, a fresh standings table.
type GroupPageUpdate struct {
	Jornada   string
	Standings []SnapshotStanding
	Matches   []SnapshotMatch
}

// GroupPageProvider is the scrape boundary for per-group HTML pages.
type GroupPageProvider interface {
	FetchGroupPage(ctx context.Context, url string) (GroupPageUpdate, error)
}

// ScrapeService sequences the scrape run: tournament snapshots first,
// then per-group page refreshes. Every boundary failure is logged and
// explicitly skipped so the run degrades to whatever the store already
// holds.
type ScrapeService struct {
	provider  SnapshotProvider
	pages     GroupPageProvider
	reconcile *ReconcileService
	groupRepo group.Repository
	logger    *logging.Logger
}

func NewScrapeService(
	provider SnapshotProvider,
	pages GroupPageProvider,
	reconcile *ReconcileService,
	groupRepo group.Repository,
	logger *logging.Logger,
) *ScrapeService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ScrapeService{
		provider:  provider,
		pages:     pages,
		reconcile: reconcile,
		groupRepo: groupRepo,
		logger:    logger,
	}
}

// Run scrapes every source and applies the results. The returned
// report aggregates what was applied; sources that failed outright are
// counted as skipped, not turned into errors.
func (s *ScrapeService) Run(ctx context.Context, se season.Season, sources []TournamentSource) (ApplyReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScrapeService.Run")
	defer span.End()

	var total ApplyReport

	if s.provider == nil {
		return total, fmt.Errorf("%w: snapshot provider is not configured", ErrDependencyUnavailable)
	}

	for _, src := range sources {
		snap, err := s.provider.FetchTournament(ctx, src)
		if err != nil {
			s.logger.WarnContext(ctx, "tournament fetch failed, continuing",
				"tournament", src.ID, "category", src.Category, "error", err)
			total.RowsSkipped++
			continue
		}

		report, err := s.reconcile.ApplySnapshot(ctx, se, snap)
		if err != nil {
			s.logger.WarnContext(ctx, "snapshot apply failed, continuing",
				"tournament", src.ID, "category", src.Category, "error", err)
			total.RowsSkipped++
			continue
		}
		mergeReports(&total, report)
	}

	if s.pages != nil {
		if err := s.refreshGroupPages(ctx, &total); err != nil {
			return total, err
		}
	}

	return total, nil
}

// refreshGroupPages re-scrapes every group that carries a results-page
// URL and applies the page's jornada, standings and fixtures.
func (s *ScrapeService) refreshGroupPages(ctx context.Context, total *ApplyReport) error {
	groups, err := s.groupRepo.ListCurrentSeason(ctx)
	if err != nil {
		return fmt.Errorf("list current season groups: %w", err)
	}

	for _, g := range groups {
		if g.URL == "" {
			continue
		}

		update, err := s.pages.FetchGroupPage(ctx, g.URL)
		if err != nil {
			s.logger.WarnContext(ctx, "group page fetch failed, continuing",
				"code", g.Code, "url", g.URL, "error", err)
			total.RowsSkipped++
			continue
		}

		if update.Jornada != "" {
			jornada := update.Jornada
			if _, err := s.groupRepo.Upsert(ctx, g.SeasonID, g.CategoryID, g.Code, group.Patch{CurrentJornada: &jornada}); err != nil {
				s.logger.WarnContext(ctx, "jornada update failed, continuing", "code", g.Code, "error", err)
				total.RowsSkipped++
			}
		}

		if len(update.Standings) > 0 {
			if err := s.reconcile.ReplaceStandings(ctx, g.ID, update.Standings); err != nil {
				s.logger.WarnContext(ctx, "standings refresh failed, continuing", "code", g.Code, "error", err)
				total.RowsSkipped++
			} else {
				total.StandingsRows += len(update.Standings)
			}
		}

		for _, m := range update.Matches {
			if m.Jornada == "" {
				m.Jornada = update.Jornada
			}
			_, inserted, err := s.reconcile.UpsertMatch(ctx, g.ID, m)
			if err != nil {
				s.logger.WarnContext(ctx, "match refresh failed, continuing",
					"code", g.Code, "home", m.Home, "away", m.Away, "error", err)
				total.RowsSkipped++
				continue
			}
			if inserted {
				total.MatchesInserted++
			} else if m.Scored() {
				total.ScoresApplied++
			}
		}
	}

	return nil
}

func mergeReports(total *ApplyReport, r ApplyReport) {
	total.GroupsUpserted += r.GroupsUpserted
	total.TeamsUpserted += r.TeamsUpserted
	total.StandingsRows += r.StandingsRows
	total.MatchesInserted += r.MatchesInserted
	total.ScoresApplied += r.ScoresApplied
	total.GoalsInserted += r.GoalsInserted
	total.ScorersRows += r.ScorersRows
	total.RowsSkipped += r.RowsSkipped
}
