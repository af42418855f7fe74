package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/futbolcanario/futbolbase/internal/domain/category"
	"github.com/futbolcanario/futbolbase/internal/domain/group"
	"github.com/futbolcanario/futbolbase/internal/domain/match"
	"github.com/futbolcanario/futbolbase/internal/domain/scorer"
	"github.com/futbolcanario/futbolbase/internal/domain/season"
	"github.com/futbolcanario/futbolbase/internal/domain/standing"
	"github.com/futbolcanario/futbolbase/internal/domain/team"
	"github.com/futbolcanario/futbolbase/internal/platform/logging"
)

// ReconcileService merges scraped snapshots into the relational model
// without creating duplicate entities. Every operation is idempotent
// or insert-if-absent, so a crashed run is safe to repeat.
type ReconcileService struct {
	seasonRepo   season.Repository
	categoryRepo category.Repository
	teamRepo     team.Repository
	groupRepo    group.Repository
	standingRepo standing.Repository
	matchRepo    match.Repository
	scorerRepo   scorer.Repository
	validator    *validator.Validate
	logger       *logging.Logger
}

func NewReconcileService(
	seasonRepo season.Repository,
	categoryRepo category.Repository,
	teamRepo team.Repository,
	groupRepo group.Repository,
	standingRepo standing.Repository,
	matchRepo match.Repository,
	scorerRepo scorer.Repository,
	logger *logging.Logger,
) *ReconcileService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ReconcileService{
		seasonRepo:   seasonRepo,
		categoryRepo: categoryRepo,
		teamRepo:     teamRepo,
		groupRepo:    groupRepo,
		standingRepo: standingRepo,
		matchRepo:    matchRepo,
		scorerRepo:   scorerRepo,
		validator:    validator.New(),
		logger:       logger,
	}
}

// ApplyReport counts what one snapshot application touched. Skipped
// rows were logged and left out; they never abort the batch.
type ApplyReport struct {
	GroupsUpserted  int
	TeamsUpserted   int
	StandingsRows   int
	MatchesInserted int
	ScoresApplied   int
	GoalsInserted   int
	ScorersRows     int
	RowsSkipped     int
}

func (s *ReconcileService) EnsureSeason(ctx context.Context, se season.Season) (int64, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReconcileService.EnsureSeason")
	defer span.End()

	if err := se.Validate(); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	id, err := s.seasonRepo.GetOrCreate(ctx, se)
	if err != nil {
		return 0, fmt.Errorf("get or create season: %w", err)
	}
	return id, nil
}

func (s *ReconcileService) EnsureCategory(ctx context.Context, name string) (int64, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReconcileService.EnsureCategory")
	defer span.End()

	name = strings.TrimSpace(name)
	if name == "" {
		return 0, fmt.Errorf("%w: category name is required", ErrInvalidInput)
	}

	id, err := s.categoryRepo.GetOrCreate(ctx, name)
	if err != nil {
		return 0, fmt.Errorf("get or create category: %w", err)
	}
	return id, nil
}

func (s *ReconcileService) UpsertTeam(ctx context.Context, name, shieldFilename string) (int64, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReconcileService.UpsertTeam")
	defer span.End()

	name = strings.TrimSpace(name)
	if name == "" {
		return 0, fmt.Errorf("%w: team name is required", ErrInvalidInput)
	}

	id, err := s.teamRepo.UpsertByName(ctx, name, strings.TrimSpace(shieldFilename))
	if err != nil {
		return 0, fmt.Errorf("upsert team %q: %w", name, err)
	}
	return id, nil
}

func (s *ReconcileService) UpsertGroup(ctx context.Context, seasonID, categoryID int64, code string, patch group.Patch) (int64, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReconcileService.UpsertGroup")
	defer span.End()

	code = strings.TrimSpace(code)
	if seasonID <= 0 || categoryID <= 0 || code == "" {
		return 0, fmt.Errorf("%w: season, category and group code are required", ErrInvalidInput)
	}

	id, err := s.groupRepo.Upsert(ctx, seasonID, categoryID, code, patch)
	if err != nil {
		return 0, fmt.Errorf("upsert group %q: %w", code, err)
	}
	return id, nil
}

// ReplaceStandings swaps a group's snapshot wholesale. Team rows are
// upserted by name first so every standing references a stored team.
func (s *ReconcileService) ReplaceStandings(ctx context.Context, groupID int64, rows []SnapshotStanding) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReconcileService.ReplaceStandings")
	defer span.End()

	if groupID <= 0 {
		return fmt.Errorf("%w: group id is required", ErrInvalidInput)
	}

	out := make([]standing.Row, 0, len(rows))
	for _, row := range rows {
		if err := s.validator.StructCtx(ctx, row); err != nil {
			return fmt.Errorf("%w: standing row: %v", ErrInvalidInput, err)
		}
		teamID, err := s.UpsertTeam(ctx, row.Team, "")
		if err != nil {
			return err
		}
		out = append(out, standing.Row{
			GroupID:      groupID,
			TeamID:       teamID,
			Position:     row.Position,
			Points:       row.Points,
			Played:       row.Played,
			Won:          row.Won,
			Drawn:        row.Drawn,
			Lost:         row.Lost,
			GoalsFor:     row.GoalsFor,
			GoalsAgainst: row.GoalsAgainst,
			GoalDiff:     row.GoalDiff,
		})
	}

	if err := s.standingRepo.ReplaceByGroup(ctx, groupID, out); err != nil {
		return fmt.Errorf("replace standings group=%d: %w", groupID, err)
	}
	return nil
}

// UpsertMatch inserts the fixture if absent and, when the stored row
// is still unscored and the snapshot carries a score, applies it. The
// stored row is never blindly overwritten.
func (s *ReconcileService) UpsertMatch(ctx context.Context, groupID int64, row SnapshotMatch) (int64, bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReconcileService.UpsertMatch")
	defer span.End()

	if groupID <= 0 {
		return 0, false, fmt.Errorf("%w: group id is required", ErrInvalidInput)
	}
	if err := s.validator.StructCtx(ctx, row); err != nil {
		return 0, false, fmt.Errorf("%w: match row: %v", ErrInvalidInput, err)
	}
	if (row.HomeScore == nil) != (row.AwayScore == nil) {
		return 0, false, fmt.Errorf("%w: match scores must be set together", ErrInvalidInput)
	}

	homeID, err := s.UpsertTeam(ctx, row.Home, "")
	if err != nil {
		return 0, false, err
	}
	awayID, err := s.UpsertTeam(ctx, row.Away, "")
	if err != nil {
		return 0, false, err
	}

	id, inserted, err := s.matchRepo.InsertIfAbsent(ctx, match.Match{
		GroupID:    groupID,
		Jornada:    row.Jornada,
		Date:       row.Date,
		Time:       row.Time,
		HomeTeamID: homeID,
		AwayTeamID: awayID,
		HomeScore:  row.HomeScore,
		AwayScore:  row.AwayScore,
		Venue:      row.Venue,
	})
	if err != nil {
		return 0, false, fmt.Errorf("insert match %s vs %s: %w", row.Home, row.Away, err)
	}

	if !inserted && row.Scored() {
		if _, err := s.matchRepo.ApplyScore(ctx, groupID, row.Jornada, homeID, awayID, *row.HomeScore, *row.AwayScore); err != nil {
			return id, false, fmt.Errorf("apply score %s vs %s: %w", row.Home, row.Away, err)
		}
	}

	return id, inserted, nil
}

// AttachGoals inserts a match's goal rows once. Goals only ever attach
// to a match whose final score is stored, and a match that already has
// goal rows keeps them untouched so re-running an import never
// duplicates events.
func (s *ReconcileService) AttachGoals(ctx context.Context, matchID int64, goals []SnapshotGoal) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReconcileService.AttachGoals")
	defer span.End()

	if matchID <= 0 {
		return 0, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}
	if len(goals) == 0 {
		return 0, nil
	}

	stored, found, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return 0, fmt.Errorf("get match %d: %w", matchID, err)
	}
	if !found {
		return 0, fmt.Errorf("%w: match %d", ErrNotFound, matchID)
	}
	if !stored.Scored() {
		return 0, fmt.Errorf("%w: match %d has no final score", ErrInvalidInput, matchID)
	}

	existing, err := s.matchRepo.CountGoals(ctx, matchID)
	if err != nil {
		return 0, fmt.Errorf("count goals match=%d: %w", matchID, err)
	}
	if existing > 0 {
		return 0, nil
	}

	out := make([]match.Goal, 0, len(goals))
	for _, g := range goals {
		if err := s.validator.StructCtx(ctx, g); err != nil {
			return 0, fmt.Errorf("%w: goal row: %v", ErrInvalidInput, err)
		}
		out = append(out, match.Goal{
			Minute:       g.Minute,
			PlayerName:   strings.TrimSpace(g.Player),
			RunningScore: g.RunningScore,
			Side:         g.Side,
			Type:         g.Type,
		})
	}

	if err := s.matchRepo.InsertGoals(ctx, matchID, out); err != nil {
		return 0, fmt.Errorf("insert goals match=%d: %w", matchID, err)
	}
	return len(out), nil
}

func (s *ReconcileService) ReplaceScorers(ctx context.Context, groupID int64, rows []SnapshotScorer) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReconcileService.ReplaceScorers")
	defer span.End()

	if groupID <= 0 {
		return fmt.Errorf("%w: group id is required", ErrInvalidInput)
	}

	out := make([]scorer.Scorer, 0, len(rows))
	for _, row := range rows {
		if err := s.validator.StructCtx(ctx, row); err != nil {
			return fmt.Errorf("%w: scorer row: %v", ErrInvalidInput, err)
		}
		teamID, err := s.UpsertTeam(ctx, row.Team, "")
		if err != nil {
			return err
		}
		out = append(out, scorer.Scorer{
			GroupID:    groupID,
			PlayerName: strings.TrimSpace(row.Player),
			TeamID:     teamID,
			Goals:      row.Goals,
			Games:      row.Games,
		})
	}

	if err := s.scorerRepo.ReplaceByGroup(ctx, groupID, out); err != nil {
		return fmt.Errorf("replace scorers group=%d: %w", groupID, err)
	}
	return nil
}

// ApplySnapshot runs a whole scraped category through the store. A
// failing row is logged and skipped; the rest of the batch proceeds,
// matching the single-writer best-effort pipeline this feeds.
func (s *ReconcileService) ApplySnapshot(ctx context.Context, se season.Season, snap Snapshot) (ApplyReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReconcileService.ApplySnapshot")
	defer span.End()

	var report ApplyReport

	// Row validation happens per operation below so one bad row skips,
	// not the whole batch.
	if strings.TrimSpace(snap.Category) == "" {
		return report, fmt.Errorf("%w: snapshot category is required", ErrInvalidInput)
	}

	seasonID, err := s.EnsureSeason(ctx, se)
	if err != nil {
		return report, err
	}
	categoryID, err := s.EnsureCategory(ctx, snap.Category)
	if err != nil {
		return report, err
	}

	for name, filename := range snap.Shields {
		if _, err := s.UpsertTeam(ctx, name, filename); err != nil {
			s.logger.WarnContext(ctx, "skipping shield row", "team", name, "error", err)
			report.RowsSkipped++
			continue
		}
		report.TeamsUpserted++
	}

	for _, g := range snap.Groups {
		groupID, err := s.UpsertGroup(ctx, seasonID, categoryID, g.Code, groupPatch(g))
		if err != nil {
			s.logger.WarnContext(ctx, "skipping group", "code", g.Code, "error", err)
			report.RowsSkipped++
			continue
		}
		report.GroupsUpserted++

		if len(g.Standings) > 0 {
			if err := s.ReplaceStandings(ctx, groupID, g.Standings); err != nil {
				s.logger.WarnContext(ctx, "skipping standings", "code", g.Code, "error", err)
				report.RowsSkipped++
			} else {
				report.StandingsRows += len(g.Standings)
			}
		}

		for _, m := range g.Matches {
			matchID, inserted, err := s.UpsertMatch(ctx, groupID, m)
			if err != nil {
				s.logger.WarnContext(ctx, "skipping match",
					"code", g.Code, "jornada", m.Jornada, "home", m.Home, "away", m.Away, "error", err)
				report.RowsSkipped++
				continue
			}
			if inserted {
				report.MatchesInserted++
			} else if m.Scored() {
				report.ScoresApplied++
			}

			// Goals only attach to a match whose final score is known.
			if m.Scored() && len(m.Goals) > 0 {
				n, err := s.AttachGoals(ctx, matchID, m.Goals)
				if err != nil {
					s.logger.WarnContext(ctx, "skipping goals",
						"code", g.Code, "home", m.Home, "away", m.Away, "error", err)
					report.RowsSkipped++
					continue
				}
				report.GoalsInserted += n
			}
		}

		if len(g.Scorers) > 0 {
			if err := s.ReplaceScorers(ctx, groupID, g.Scorers); err != nil {
				s.logger.WarnContext(ctx, "skipping scorers", "code", g.Code, "error", err)
				report.RowsSkipped++
			} else {
				report.ScorersRows += len(g.Scorers)
			}
		}
	}

	s.logger.InfoContext(ctx, "snapshot applied",
		"category", snap.Category,
		"groups", report.GroupsUpserted,
		"matches_inserted", report.MatchesInserted,
		"scores_applied", report.ScoresApplied,
		"rows_skipped", report.RowsSkipped)

	return report, nil
}

func groupPatch(g SnapshotGroup) group.Patch {
	var patch group.Patch
	if g.Name != "" {
		patch.Name = &g.Name
	}
	if g.FullName != "" {
		patch.FullName = &g.FullName
	}
	if g.Phase != "" {
		patch.Phase = &g.Phase
	}
	if g.Island != "" {
		patch.Island = &g.Island
	}
	if g.URL != "" {
		patch.URL = &g.URL
	}
	if g.CurrentJornada != "" {
		patch.CurrentJornada = &g.CurrentJornada
	}
	return patch
}
