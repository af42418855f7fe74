package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/futbolcanario/futbolbase/internal/domain/match"
	qb "github.com/futbolcanario/futbolbase/internal/platform/querybuilder"
)

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

type matchInsertModel struct {
	GroupID    int64          `db:"group_id"`
	Jornada    string         `db:"jornada"`
	Date       sql.NullString `db:"date"`
	Time       sql.NullString `db:"time"`
	HomeTeamID int64          `db:"home_team_id"`
	AwayTeamID int64          `db:"away_team_id"`
	HomeScore  sql.NullInt64  `db:"home_score"`
	AwayScore  sql.NullInt64  `db:"away_score"`
	Venue      sql.NullString `db:"venue"`
}

type matchJoinedModel struct {
	ID         int64          `db:"id"`
	GroupID    int64          `db:"group_id"`
	Jornada    sql.NullString `db:"jornada"`
	Date       sql.NullString `db:"date"`
	Time       sql.NullString `db:"time"`
	HomeTeamID int64          `db:"home_team_id"`
	AwayTeamID int64          `db:"away_team_id"`
	HomeScore  sql.NullInt64  `db:"home_score"`
	AwayScore  sql.NullInt64  `db:"away_score"`
	Venue      sql.NullString `db:"venue"`
	HomeTeam   string         `db:"home_team"`
	AwayTeam   string         `db:"away_team"`
}

var matchJoinedColumns = []string{
	"m.id", "m.group_id", "m.jornada", "m.date", "m.time",
	"m.home_team_id", "m.away_team_id", "m.home_score", "m.away_score",
	"m.venue", "h.name AS home_team", "a.name AS away_team",
}

func (m matchJoinedModel) toDomain() match.Match {
	return match.Match{
		ID:         m.ID,
		GroupID:    m.GroupID,
		Jornada:    m.Jornada.String,
		Date:       m.Date.String,
		Time:       m.Time.String,
		HomeTeamID: m.HomeTeamID,
		AwayTeamID: m.AwayTeamID,
		HomeScore:  nullInt64ToIntPtr(m.HomeScore),
		AwayScore:  nullInt64ToIntPtr(m.AwayScore),
		Venue:      m.Venue.String,
		HomeTeam:   m.HomeTeam,
		AwayTeam:   m.AwayTeam,
	}
}

func nullInt64ToIntPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	out := int(v.Int64)
	return &out
}

func intPtrToNullInt64(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func nullableString(v string) sql.NullString {
	return sql.NullString{String: v, Valid: v != ""}
}

// InsertIfAbsent is first-write-wins: ON CONFLICT on the natural key
// does nothing, so a re-scraped fixture never overwrites a stored row.
// Score updates go through ApplyScore instead.
func (r *MatchRepository) InsertIfAbsent(ctx context.Context, m match.Match) (int64, bool, error) {
	if err := m.Validate(); err != nil {
		return 0, false, fmt.Errorf("validate match: %w", err)
	}

	insertModel := matchInsertModel{
		GroupID:    m.GroupID,
		Jornada:    m.Jornada,
		Date:       nullableString(m.Date),
		Time:       nullableString(m.Time),
		HomeTeamID: m.HomeTeamID,
		AwayTeamID: m.AwayTeamID,
		HomeScore:  intPtrToNullInt64(m.HomeScore),
		AwayScore:  intPtrToNullInt64(m.AwayScore),
		Venue:      nullableString(m.Venue),
	}

	query, args, err := qb.InsertModel("matches", insertModel,
		"ON CONFLICT (group_id, jornada, home_team_id, away_team_id) DO NOTHING RETURNING id")
	if err != nil {
		return 0, false, fmt.Errorf("build insert match query: %w", err)
	}

	var id int64
	err = r.db.GetContext(ctx, &id, query, args...)
	if err == nil {
		return id, true, nil
	}
	if isNotFound(err) {
		// Conflict path: DO NOTHING returns no row. Resolve the
		// existing id so callers can still reference the match.
		selectQuery, selectArgs, buildErr := qb.Select("id").From("matches").
			Where(
				qb.Eq("group_id", m.GroupID),
				qb.Eq("jornada", m.Jornada),
				qb.Eq("home_team_id", m.HomeTeamID),
				qb.Eq("away_team_id", m.AwayTeamID),
			).
			ToSQL()
		if buildErr != nil {
			return 0, false, fmt.Errorf("build select match query: %w", buildErr)
		}
		if err := r.db.GetContext(ctx, &id, selectQuery, selectArgs...); err != nil {
			return 0, false, fmt.Errorf("select match by natural key: %w", err)
		}
		return id, false, nil
	}
	if class := violationClass(err); class != "" {
		return 0, false, fmt.Errorf("insert match group=%d jornada=%s: %s: %w", m.GroupID, m.Jornada, class, err)
	}
	return 0, false, fmt.Errorf("insert match group=%d jornada=%s: %w", m.GroupID, m.Jornada, err)
}

func (r *MatchRepository) ApplyScore(ctx context.Context, groupID int64, jornada string, homeTeamID, awayTeamID int64, homeScore, awayScore int) (bool, error) {
	query, args, err := qb.Update("matches").
		Set("home_score", homeScore).
		Set("away_score", awayScore).
		Where(
			qb.Eq("group_id", groupID),
			qb.Eq("jornada", jornada),
			qb.Eq("home_team_id", homeTeamID),
			qb.Eq("away_team_id", awayTeamID),
			qb.IsNull("home_score"),
			qb.IsNull("away_score"),
		).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build apply score query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("apply score group=%d jornada=%s: %w", groupID, jornada, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("apply score rows affected: %w", err)
	}

	return affected > 0, nil
}

func (r *MatchRepository) GetByID(ctx context.Context, matchID int64) (match.Match, bool, error) {
	query, args, err := qb.Select(matchJoinedColumns...).
		From("matches m").
		Join("teams h ON m.home_team_id = h.id").
		Join("teams a ON m.away_team_id = a.id").
		Where(qb.Eq("m.id", matchID)).
		ToSQL()
	if err != nil {
		return match.Match{}, false, fmt.Errorf("build get match query: %w", err)
	}

	var row matchJoinedModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, fmt.Errorf("get match id=%d: %w", matchID, err)
	}

	return row.toDomain(), true, nil
}

func (r *MatchRepository) ListByGroup(ctx context.Context, groupID int64) ([]match.Match, error) {
	query, args, err := qb.Select(matchJoinedColumns...).
		From("matches m").
		Join("teams h ON m.home_team_id = h.id").
		Join("teams a ON m.away_team_id = a.id").
		Where(qb.Eq("m.group_id", groupID)).
		OrderBy("m.jornada", "m.date", "m.time", "h.name").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list matches query: %w", err)
	}

	var rows []matchJoinedModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *MatchRepository) ListByGroupJornada(ctx context.Context, groupID int64, jornada string) ([]match.Match, error) {
	query, args, err := qb.Select(matchJoinedColumns...).
		From("matches m").
		Join("teams h ON m.home_team_id = h.id").
		Join("teams a ON m.away_team_id = a.id").
		Where(
			qb.Eq("m.group_id", groupID),
			qb.Eq("m.jornada", jornada),
		).
		OrderBy("m.date", "m.time", "h.name").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list jornada matches query: %w", err)
	}

	var rows []matchJoinedModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list jornada matches: %w", err)
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *MatchRepository) ListWithGoals(ctx context.Context) ([]match.Match, error) {
	query, args, err := qb.Select(
		"DISTINCT m.id", "m.group_id", "m.jornada", "m.date", "m.time",
		"m.home_team_id", "m.away_team_id", "m.home_score", "m.away_score",
		"m.venue", "h.name AS home_team", "a.name AS away_team",
	).
		From("matches m").
		Join("teams h ON m.home_team_id = h.id").
		Join("teams a ON m.away_team_id = a.id").
		Join("goals g ON g.match_id = m.id").
		Where(
			qb.IsNotNull("m.home_score"),
			qb.IsNotNull("m.away_score"),
		).
		OrderBy("m.id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list matches with goals query: %w", err)
	}

	var rows []matchJoinedModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list matches with goals: %w", err)
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *MatchRepository) CountByGroup(ctx context.Context, groupID int64) (int, error) {
	query, args, err := qb.Select("COUNT(*)").From("matches").
		Where(qb.Eq("group_id", groupID)).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count matches query: %w", err)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count matches: %w", err)
	}

	return count, nil
}

type goalInsertModel struct {
	MatchID      int64          `db:"match_id"`
	Minute       int            `db:"minute"`
	PlayerName   sql.NullString `db:"player_name"`
	RunningScore sql.NullString `db:"running_score"`
	Side         string         `db:"side"`
	Type         string         `db:"type"`
}

type goalTableModel struct {
	ID           int64          `db:"id"`
	MatchID      int64          `db:"match_id"`
	Minute       int            `db:"minute"`
	PlayerName   sql.NullString `db:"player_name"`
	RunningScore sql.NullString `db:"running_score"`
	Side         string         `db:"side"`
	Type         string         `db:"type"`
}

func (r *MatchRepository) CountGoals(ctx context.Context, matchID int64) (int, error) {
	query, args, err := qb.Select("COUNT(*)").From("goals").
		Where(qb.Eq("match_id", matchID)).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count goals query: %w", err)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count goals: %w", err)
	}

	return count, nil
}

func (r *MatchRepository) InsertGoals(ctx context.Context, matchID int64, goals []match.Goal) error {
	if matchID <= 0 {
		return fmt.Errorf("match id is required")
	}
	if len(goals) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx insert goals: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, g := range goals {
		if err := g.Validate(); err != nil {
			return fmt.Errorf("validate goal: %w", err)
		}
		insertModel := goalInsertModel{
			MatchID:      matchID,
			Minute:       g.Minute,
			PlayerName:   nullableString(g.PlayerName),
			RunningScore: nullableString(g.RunningScore),
			Side:         g.Side,
			Type:         g.Type,
		}
		query, args, err := qb.InsertModel("goals", insertModel, "")
		if err != nil {
			return fmt.Errorf("build insert goal query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			if class := violationClass(err); class != "" {
				return fmt.Errorf("insert goal match=%d minute=%d: %s: %w", matchID, g.Minute, class, err)
			}
			return fmt.Errorf("insert goal match=%d minute=%d: %w", matchID, g.Minute, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit insert goals tx: %w", err)
	}
	return nil
}

func (r *MatchRepository) ListGoals(ctx context.Context, matchID int64) ([]match.Goal, error) {
	query, args, err := qb.Select("*").From("goals").
		Where(qb.Eq("match_id", matchID)).
		OrderBy("minute", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list goals query: %w", err)
	}

	var rows []goalTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}

	out := make([]match.Goal, 0, len(rows))
	for _, row := range rows {
		out = append(out, match.Goal{
			ID:           row.ID,
			MatchID:      row.MatchID,
			Minute:       row.Minute,
			PlayerName:   row.PlayerName.String,
			RunningScore: row.RunningScore.String,
			Side:         row.Side,
			Type:         row.Type,
		})
	}

	return out, nil
}
