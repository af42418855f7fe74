package usecase

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/futbolcanario/futbolbase/internal/datafile"
	"github.com/futbolcanario/futbolbase/internal/domain/category"
	"github.com/futbolcanario/futbolbase/internal/domain/group"
	"github.com/futbolcanario/futbolbase/internal/domain/match"
	"github.com/futbolcanario/futbolbase/internal/domain/scorer"
	"github.com/futbolcanario/futbolbase/internal/domain/standing"
	"github.com/futbolcanario/futbolbase/internal/domain/team"
	"github.com/futbolcanario/futbolbase/internal/platform/logging"
)

const matchDetailHeader = "// data-matchdetail.js — generado automáticamente\n" +
	"// NO editar manualmente, regenerar desde la base de datos\n\n"

type categoryFile struct {
	varName  string
	statsVar string
	filename string
}

var categoryFiles = map[string]categoryFile{
	category.Benjamin:    {varName: "BENJAMIN", statsVar: "BENJ_STATS", filename: "data-benjamin.js"},
	category.Prebenjamin: {varName: "PREBENJAMIN", statsVar: "PREBENJ_STATS", filename: "data-prebenjamin.js"},
}

var goleadoresVars = map[string]string{
	category.Benjamin:    "GOL_BENJ",
	category.Prebenjamin: "GOL_PREBENJ",
}

// ProjectionService rebuilds the denormalized data files the client
// consumes. Every ordering rule is fixed so an unchanged store always
// produces byte-identical output.
type ProjectionService struct {
	groupRepo    group.Repository
	teamRepo     team.Repository
	standingRepo standing.Repository
	matchRepo    match.Repository
	scorerRepo   scorer.Repository
	logger       *logging.Logger
	now          func() time.Time
}

func NewProjectionService(
	groupRepo group.Repository,
	teamRepo team.Repository,
	standingRepo standing.Repository,
	matchRepo match.Repository,
	scorerRepo scorer.Repository,
	logger *logging.Logger,
) *ProjectionService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ProjectionService{
		groupRepo:    groupRepo,
		teamRepo:     teamRepo,
		standingRepo: standingRepo,
		matchRepo:    matchRepo,
		scorerRepo:   scorerRepo,
		logger:       logger,
		now:          time.Now,
	}
}

// CategoryFile renders one category's data file: groups ordered by
// code, each with its standings snapshot and current-jornada fixtures,
// plus the per-category stats const.
func (s *ProjectionService) CategoryFile(ctx context.Context, categoryName string) ([]byte, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ProjectionService.CategoryFile")
	defer span.End()

	file, ok := categoryFiles[categoryName]
	if !ok {
		return nil, fmt.Errorf("%w: unknown category %q", ErrInvalidInput, categoryName)
	}

	groups, err := s.groupRepo.ListByCategory(ctx, categoryName)
	if err != nil {
		return nil, fmt.Errorf("list groups for %s: %w", categoryName, err)
	}

	result := make([]datafile.Object, 0, len(groups))
	totalTeams := 0
	for _, g := range groups {
		standings, err := s.standingRepo.ListByGroup(ctx, g.ID)
		if err != nil {
			return nil, fmt.Errorf("list standings group=%s: %w", g.Code, err)
		}
		totalTeams += len(standings)

		matches := []match.Match{}
		if g.CurrentJornada != "" {
			matches, err = s.matchRepo.ListByGroupJornada(ctx, g.ID, g.CurrentJornada)
			if err != nil {
				return nil, fmt.Errorf("list jornada matches group=%s: %w", g.Code, err)
			}
		}

		result = append(result, datafile.Object{
			{Key: "id", Value: g.Code},
			{Key: "name", Value: nullableField(g.Name)},
			{Key: "fullName", Value: nullableField(g.FullName)},
			{Key: "phase", Value: nullableField(g.Phase)},
			{Key: "island", Value: nullableField(g.Island)},
			{Key: "url", Value: nullableField(g.URL)},
			{Key: "jornada", Value: nullableField(g.CurrentJornada)},
			{Key: "standings", Value: standingRows(standings)},
			{Key: "matches", Value: matchRows(matches)},
		})
	}

	return datafile.Render("",
		datafile.Decl{Name: file.varName, Value: result},
		datafile.Decl{Name: file.statsVar, Value: datafile.Object{
			{Key: "groups", Value: len(groups)},
			{Key: "teams", Value: totalTeams},
		}},
	)
}

// HistoryFile renders the scored-match history: group code to jornada
// label to the ordered list of results, jornadas in numeric-suffix
// order, plus the total count of emitted matches.
func (s *ProjectionService) HistoryFile(ctx context.Context) ([]byte, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ProjectionService.HistoryFile")
	defer span.End()

	groups, err := s.groupRepo.ListCurrentSeason(ctx)
	if err != nil {
		return nil, fmt.Errorf("list current season groups: %w", err)
	}

	history := datafile.Object{}
	total := 0
	for _, g := range groups {
		matches, err := s.matchRepo.ListByGroup(ctx, g.ID)
		if err != nil {
			return nil, fmt.Errorf("list matches group=%s: %w", g.Code, err)
		}

		byJornada := make(map[string][]datafile.HistoryRow)
		var labels []string
		for _, m := range matches {
			if !m.Scored() {
				continue
			}
			if _, seen := byJornada[m.Jornada]; !seen {
				labels = append(labels, m.Jornada)
			}
			byJornada[m.Jornada] = append(byJornada[m.Jornada], datafile.HistoryRow{
				Date:      m.Date,
				Home:      m.HomeTeam,
				Away:      m.AwayTeam,
				HomeScore: m.HomeScore,
				AwayScore: m.AwayScore,
			})
			total++
		}
		if len(labels) == 0 {
			continue
		}

		match.SortJornadas(labels)
		jornadas := datafile.Object{}
		for _, label := range labels {
			jornadas = jornadas.Set(label, byJornada[label])
		}
		history = history.Set(g.Code, jornadas)
	}

	return datafile.Render("",
		datafile.Decl{Name: "HISTORY", Value: history},
		datafile.Decl{Name: "HIST_MATCHES", Value: total},
	)
}

// MatchDetailFile renders the goal-event map keyed by the published
// "home|away|hs-as" form. When two scored matches collide on that key
// the later one wins; matches are visited in insertion-id order.
func (s *ProjectionService) MatchDetailFile(ctx context.Context) ([]byte, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ProjectionService.MatchDetailFile")
	defer span.End()

	matches, err := s.matchRepo.ListWithGoals(ctx)
	if err != nil {
		return nil, fmt.Errorf("list matches with goals: %w", err)
	}

	details := datafile.Object{}
	for _, m := range matches {
		goals, err := s.matchRepo.ListGoals(ctx, m.ID)
		if err != nil {
			return nil, fmt.Errorf("list goals match=%d: %w", m.ID, err)
		}
		rows := make([]datafile.GoalRow, 0, len(goals))
		for _, g := range goals {
			rows = append(rows, datafile.GoalRow{
				Minute:       g.Minute,
				Player:       g.PlayerName,
				RunningScore: g.RunningScore,
				Side:         g.Side,
				Type:         g.Type,
			})
		}

		key := datafile.MatchKey{
			Home:      m.HomeTeam,
			Away:      m.AwayTeam,
			HomeScore: *m.HomeScore,
			AwayScore: *m.AwayScore,
		}
		details = details.Set(key.String(), datafile.Object{{Key: "g", Value: rows}})
	}

	return datafile.Render(matchDetailHeader,
		datafile.Decl{Name: "MATCH_DETAIL", Value: details},
	)
}

// ShieldsFile renders the team-name to crest-filename map, ordered by
// team name.
func (s *ProjectionService) ShieldsFile(ctx context.Context) ([]byte, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ProjectionService.ShieldsFile")
	defer span.End()

	teams, err := s.teamRepo.ListWithShield(ctx)
	if err != nil {
		return nil, fmt.Errorf("list teams with shield: %w", err)
	}

	shields := datafile.Object{}
	for _, t := range teams {
		shields = shields.Set(t.Name, t.ShieldFilename)
	}

	return datafile.Render("",
		datafile.Decl{Name: "SHIELDS", Value: shields},
	)
}

// GoleadoresFile renders the per-category scorer lists. Groups with no
// scorers are omitted; the display name is derived from the group's
// full name per the federation's naming quirks.
func (s *ProjectionService) GoleadoresFile(ctx context.Context) ([]byte, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ProjectionService.GoleadoresFile")
	defer span.End()

	decls := make([]datafile.Decl, 0, len(category.Names()))
	for _, categoryName := range category.Names() {
		groups, err := s.groupRepo.ListByCategory(ctx, categoryName)
		if err != nil {
			return nil, fmt.Errorf("list groups for %s: %w", categoryName, err)
		}

		entries := make([]datafile.Object, 0, len(groups))
		for _, g := range groups {
			scorers, err := s.scorerRepo.ListByGroup(ctx, g.ID)
			if err != nil {
				return nil, fmt.Errorf("list scorers group=%s: %w", g.Code, err)
			}
			if len(scorers) == 0 {
				continue
			}

			rows := make([]datafile.ScorerRow, 0, len(scorers))
			for _, sc := range scorers {
				rows = append(rows, datafile.ScorerRow{
					Player: sc.PlayerName,
					Team:   sc.TeamName,
					Goals:  sc.Goals,
					Games:  sc.Games,
				})
			}
			entries = append(entries, datafile.Object{
				{Key: "g", Value: GoleadoresGroupName(g.FullName, categoryName)},
				{Key: "s", Value: rows},
			})
		}

		decls = append(decls, datafile.Decl{Name: goleadoresVars[categoryName], Value: entries})
	}

	return datafile.Render("", decls...)
}

// Generate rebuilds every data file under outputDir, writing them in
// parallel, and bumps the cache version inside the app shell when a
// shell path is configured.
func (s *ProjectionService) Generate(ctx context.Context, outputDir, shellPath string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.ProjectionService.Generate")
	defer span.End()

	if outputDir == "" {
		return fmt.Errorf("%w: output directory is required", ErrInvalidInput)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	type renderFn func(context.Context) ([]byte, error)
	files := []struct {
		name   string
		render renderFn
	}{
		{"data-benjamin.js", func(ctx context.Context) ([]byte, error) {
			return s.CategoryFile(ctx, category.Benjamin)
		}},
		{"data-prebenjamin.js", func(ctx context.Context) ([]byte, error) {
			return s.CategoryFile(ctx, category.Prebenjamin)
		}},
		{"data-history.js", s.HistoryFile},
		{"data-matchdetail.js", s.MatchDetailFile},
		{"data-goleadores.js", s.GoleadoresFile},
		{"data-shields.js", s.ShieldsFile},
	}

	p := pool.New().WithErrors()
	for _, f := range files {
		f := f
		p.Go(func() error {
			content, err := f.render(ctx)
			if err != nil {
				return err
			}
			path := filepath.Join(outputDir, f.name)
			if err := os.WriteFile(path, content, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", f.name, err)
			}
			s.logger.InfoContext(ctx, "data file written", "file", f.name, "bytes", len(content))
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return fmt.Errorf("generate data files: %w", err)
	}

	if shellPath != "" {
		if err := s.bumpShellVersion(ctx, shellPath); err != nil {
			return err
		}
	}

	return nil
}

func (s *ProjectionService) bumpShellVersion(ctx context.Context, shellPath string) error {
	shell, err := os.ReadFile(shellPath)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.WarnContext(ctx, "app shell not found, skipping cache bump", "path", shellPath)
			return nil
		}
		return fmt.Errorf("read app shell: %w", err)
	}

	bumped, changed := datafile.BumpVersion(shell, s.now())
	if !changed {
		return nil
	}
	if err := os.WriteFile(shellPath, bumped, 0o644); err != nil {
		return fmt.Errorf("write app shell: %w", err)
	}
	s.logger.InfoContext(ctx, "cache version bumped", "path", shellPath)
	return nil
}

func standingRows(rows []standing.Row) []datafile.StandingRow {
	out := make([]datafile.StandingRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, datafile.StandingRow{
			Position:     r.Position,
			Team:         r.TeamName,
			Points:       r.Points,
			Played:       r.Played,
			Won:          r.Won,
			Drawn:        r.Drawn,
			Lost:         r.Lost,
			GoalsFor:     r.GoalsFor,
			GoalsAgainst: r.GoalsAgainst,
			GoalDiff:     r.GoalDiff,
		})
	}
	return out
}

func matchRows(matches []match.Match) []datafile.MatchRow {
	out := make([]datafile.MatchRow, 0, len(matches))
	for _, m := range matches {
		out = append(out, datafile.MatchRow{
			Date:      m.Date,
			Time:      m.Time,
			Home:      m.HomeTeam,
			Away:      m.AwayTeam,
			HomeScore: m.HomeScore,
			AwayScore: m.AwayScore,
			Venue:     m.Venue,
		})
	}
	return out
}

func nullableField(v string) any {
	if v == "" {
		return nil
	}
	return v
}
