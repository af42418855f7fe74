package usecase

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"

	"github.com/futbolcanario/futbolbase/internal/datafile"
	"github.com/futbolcanario/futbolbase/internal/domain/category"
	"github.com/futbolcanario/futbolbase/internal/domain/season"
	"github.com/futbolcanario/futbolbase/internal/platform/logging"
)

// ImportService reads previously published data files and reconciles
// their contents back into the store. It exists so a fresh database
// can be seeded from the live site's output.
type ImportService struct {
	reconcile *ReconcileService
	logger    *logging.Logger
}

func NewImportService(reconcile *ReconcileService, logger *logging.Logger) *ImportService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ImportService{reconcile: reconcile, logger: logger}
}

// importedGroup is the published group object shape.
type importedGroup struct {
	ID        string                 `json:"id"`
	Name      string                 `json:"name"`
	FullName  string                 `json:"fullName"`
	Phase     string                 `json:"phase"`
	Island    string                 `json:"island"`
	URL       string                 `json:"url"`
	Jornada   string                 `json:"jornada"`
	Standings []datafile.StandingRow `json:"standings"`
	Matches   []datafile.MatchRow    `json:"matches"`
}

type goleadoresEntry struct {
	Group   string               `json:"g"`
	Scorers []datafile.ScorerRow `json:"s"`
}

type matchDetailEntry struct {
	Goals []datafile.GoalRow `json:"g"`
}

// ImportDir parses the data files found under dir and applies one
// snapshot per category. Missing files are skipped with a warning so
// partial exports still import what they have.
func (s *ImportService) ImportDir(ctx context.Context, dir string, se season.Season) (ApplyReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ImportService.ImportDir")
	defer span.End()

	var total ApplyReport

	if dir == "" {
		return total, fmt.Errorf("%w: import directory is required", ErrInvalidInput)
	}

	snapshots := make(map[string]*Snapshot, len(category.Names()))
	for _, categoryName := range category.Names() {
		file := categoryFiles[categoryName]
		snap, err := s.parseCategoryFile(ctx, filepath.Join(dir, file.filename), categoryName, file.varName)
		if err != nil {
			return total, err
		}
		snapshots[categoryName] = snap
	}

	s.mergeShields(ctx, dir, snapshots)
	s.mergeHistory(ctx, dir, snapshots)
	s.mergeMatchDetails(ctx, dir, snapshots)
	s.mergeGoleadores(ctx, dir, snapshots)

	for _, categoryName := range category.Names() {
		report, err := s.reconcile.ApplySnapshot(ctx, se, *snapshots[categoryName])
		if err != nil {
			return total, fmt.Errorf("apply %s snapshot: %w", categoryName, err)
		}
		total.GroupsUpserted += report.GroupsUpserted
		total.TeamsUpserted += report.TeamsUpserted
		total.StandingsRows += report.StandingsRows
		total.MatchesInserted += report.MatchesInserted
		total.ScoresApplied += report.ScoresApplied
		total.GoalsInserted += report.GoalsInserted
		total.ScorersRows += report.ScorersRows
		total.RowsSkipped += report.RowsSkipped
	}

	return total, nil
}

func (s *ImportService) parseCategoryFile(ctx context.Context, path, categoryName, varName string) (*Snapshot, error) {
	snap := &Snapshot{Category: categoryName}

	raw, err := s.extractFromFile(ctx, path, varName)
	if err != nil || raw == nil {
		return snap, err
	}

	var groups []importedGroup
	if err := sonic.Unmarshal(raw, &groups); err != nil {
		return nil, fmt.Errorf("decode %s: %w", varName, err)
	}

	for _, g := range groups {
		sg := SnapshotGroup{
			Code:           g.ID,
			Name:           g.Name,
			FullName:       g.FullName,
			Phase:          g.Phase,
			Island:         g.Island,
			URL:            g.URL,
			CurrentJornada: g.Jornada,
		}
		for _, row := range g.Standings {
			sg.Standings = append(sg.Standings, SnapshotStanding{
				Position:     row.Position,
				Team:         row.Team,
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
		for _, row := range g.Matches {
			sg.Matches = append(sg.Matches, SnapshotMatch{
				Jornada:   g.Jornada,
				Date:      row.Date,
				Time:      row.Time,
				Home:      row.Home,
				Away:      row.Away,
				HomeScore: row.HomeScore,
				AwayScore: row.AwayScore,
				Venue:     row.Venue,
			})
		}
		snap.Groups = append(snap.Groups, sg)
	}

	return snap, nil
}

func (s *ImportService) mergeShields(ctx context.Context, dir string, snapshots map[string]*Snapshot) {
	raw, err := s.extractFromFile(ctx, filepath.Join(dir, "data-shields.js"), "SHIELDS")
	if err != nil || raw == nil {
		return
	}

	var shields map[string]string
	if err := sonic.Unmarshal(raw, &shields); err != nil {
		s.logger.WarnContext(ctx, "could not decode shields, skipping", "error", err)
		return
	}

	// Teams are global, so one category's snapshot carries them all.
	snapshots[category.Benjamin].Shields = shields
}

func (s *ImportService) mergeHistory(ctx context.Context, dir string, snapshots map[string]*Snapshot) {
	raw, err := s.extractFromFile(ctx, filepath.Join(dir, "data-history.js"), "HISTORY")
	if err != nil || raw == nil {
		return
	}

	var history map[string]map[string][]datafile.HistoryRow
	if err := sonic.Unmarshal(raw, &history); err != nil {
		s.logger.WarnContext(ctx, "could not decode history, skipping", "error", err)
		return
	}

	for code, jornadas := range history {
		sg := findGroup(snapshots, code)
		if sg == nil {
			s.logger.WarnContext(ctx, "history group not found, skipping", "code", code)
			continue
		}
		for jornada, rows := range jornadas {
			for _, row := range rows {
				sg.Matches = append(sg.Matches, SnapshotMatch{
					Jornada:   jornada,
					Date:      row.Date,
					Home:      row.Home,
					Away:      row.Away,
					HomeScore: row.HomeScore,
					AwayScore: row.AwayScore,
				})
			}
		}
	}
}

func (s *ImportService) mergeMatchDetails(ctx context.Context, dir string, snapshots map[string]*Snapshot) {
	raw, err := s.extractFromFile(ctx, filepath.Join(dir, "data-matchdetail.js"), "MATCH_DETAIL")
	if err != nil || raw == nil {
		return
	}

	var details map[string]matchDetailEntry
	if err := sonic.Unmarshal(raw, &details); err != nil {
		s.logger.WarnContext(ctx, "could not decode match details, skipping", "error", err)
		return
	}

	for key, detail := range details {
		mk, ok := parseMatchKey(key)
		if !ok {
			s.logger.WarnContext(ctx, "bad match detail key, skipping", "key", key)
			continue
		}
		target := findScoredMatch(snapshots, mk)
		if target == nil {
			s.logger.WarnContext(ctx, "match for detail not found, skipping", "key", key)
			continue
		}
		for _, g := range detail.Goals {
			target.Goals = append(target.Goals, SnapshotGoal{
				Minute:       g.Minute,
				Player:       g.Player,
				RunningScore: g.RunningScore,
				Side:         g.Side,
				Type:         g.Type,
			})
		}
	}
}

func (s *ImportService) mergeGoleadores(ctx context.Context, dir string, snapshots map[string]*Snapshot) {
	path := filepath.Join(dir, "data-goleadores.js")
	for _, categoryName := range category.Names() {
		raw, err := s.extractFromFile(ctx, path, goleadoresVars[categoryName])
		if err != nil || raw == nil {
			continue
		}

		var entries []goleadoresEntry
		if err := sonic.Unmarshal(raw, &entries); err != nil {
			s.logger.WarnContext(ctx, "could not decode goleadores, skipping",
				"category", categoryName, "error", err)
			continue
		}

		snap := snapshots[categoryName]
		for _, entry := range entries {
			code, ok := GroupCodeFromGoleadores(entry.Group)
			if !ok {
				s.logger.WarnContext(ctx, "scorer group name not recognized, skipping", "name", entry.Group)
				continue
			}
			sg := findGroupInSnapshot(snap, code)
			if sg == nil {
				s.logger.WarnContext(ctx, "scorer group not found, skipping",
					"name", entry.Group, "code", code)
				continue
			}
			for _, row := range entry.Scorers {
				sg.Scorers = append(sg.Scorers, SnapshotScorer{
					Player: row.Player,
					Team:   row.Team,
					Goals:  row.Goals,
					Games:  row.Games,
				})
			}
		}
	}
}

// extractFromFile returns nil without error when the file or the
// declaration is absent; partial exports are expected.
func (s *ImportService) extractFromFile(ctx context.Context, path, name string) ([]byte, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.WarnContext(ctx, "data file not found, skipping", "path", path)
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	raw, err := datafile.ExtractConst(src, name)
	if err != nil {
		s.logger.WarnContext(ctx, "declaration not found, skipping", "path", path, "name", name)
		return nil, nil
	}
	return raw, nil
}

func findGroup(snapshots map[string]*Snapshot, code string) *SnapshotGroup {
	for _, categoryName := range category.Names() {
		if sg := findGroupInSnapshot(snapshots[categoryName], code); sg != nil {
			return sg
		}
	}
	return nil
}

func findGroupInSnapshot(snap *Snapshot, code string) *SnapshotGroup {
	if snap == nil {
		return nil
	}
	for i := range snap.Groups {
		if snap.Groups[i].Code == code {
			return &snap.Groups[i]
		}
	}
	return nil
}

func findScoredMatch(snapshots map[string]*Snapshot, key datafile.MatchKey) *SnapshotMatch {
	for _, categoryName := range category.Names() {
		snap := snapshots[categoryName]
		if snap == nil {
			continue
		}
		for gi := range snap.Groups {
			for mi := range snap.Groups[gi].Matches {
				m := &snap.Groups[gi].Matches[mi]
				if !m.Scored() {
					continue
				}
				if m.Home == key.Home && m.Away == key.Away &&
					*m.HomeScore == key.HomeScore && *m.AwayScore == key.AwayScore {
					return m
				}
			}
		}
	}
	return nil
}

func parseMatchKey(key string) (datafile.MatchKey, bool) {
	parts := strings.Split(key, "|")
	if len(parts) != 3 {
		return datafile.MatchKey{}, false
	}
	scores := strings.Split(parts[2], "-")
	if len(scores) != 2 {
		return datafile.MatchKey{}, false
	}
	hs, err := strconv.Atoi(scores[0])
	if err != nil {
		return datafile.MatchKey{}, false
	}
	as, err := strconv.Atoi(scores[1])
	if err != nil {
		return datafile.MatchKey{}, false
	}
	return datafile.MatchKey{Home: parts[0], Away: parts[1], HomeScore: hs, AwayScore: as}, true
}
