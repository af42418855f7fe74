package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/futbolcanario/futbolbase/internal/domain/standing"
	qb "github.com/futbolcanario/futbolbase/internal/platform/querybuilder"
)

type StandingRepository struct {
	db *sqlx.DB
}

func NewStandingRepository(db *sqlx.DB) *StandingRepository {
	return &StandingRepository{db: db}
}

type standingInsertModel struct {
	GroupID      int64 `db:"group_id"`
	TeamID       int64 `db:"team_id"`
	Position     int   `db:"position"`
	Points       int   `db:"points"`
	Played       int   `db:"played"`
	Won          int   `db:"won"`
	Drawn        int   `db:"drawn"`
	Lost         int   `db:"lost"`
	GoalsFor     int   `db:"gf"`
	GoalsAgainst int   `db:"gc"`
	GoalDiff     int   `db:"gd"`
}

type standingJoinedModel struct {
	GroupID      int64  `db:"group_id"`
	TeamID       int64  `db:"team_id"`
	TeamName     string `db:"team_name"`
	Position     int    `db:"position"`
	Points       int    `db:"points"`
	Played       int    `db:"played"`
	Won          int    `db:"won"`
	Drawn        int    `db:"drawn"`
	Lost         int    `db:"lost"`
	GoalsFor     int    `db:"gf"`
	GoalsAgainst int    `db:"gc"`
	GoalDiff     int    `db:"gd"`
}

// ReplaceByGroup deletes the group's snapshot and writes the new one in
// a single transaction, so readers never observe a partial table.
func (r *StandingRepository) ReplaceByGroup(ctx context.Context, groupID int64, rows []standing.Row) error {
	if groupID <= 0 {
		return fmt.Errorf("group id is required")
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx replace standings: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	deleteQuery, deleteArgs, err := qb.DeleteFrom("standings").
		Where(qb.Eq("group_id", groupID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete standings query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		return fmt.Errorf("delete standings group=%d: %w", groupID, err)
	}

	for _, row := range rows {
		insertModel := standingInsertModel{
			GroupID:      groupID,
			TeamID:       row.TeamID,
			Position:     row.Position,
			Points:       row.Points,
			Played:       row.Played,
			Won:          row.Won,
			Drawn:        row.Drawn,
			Lost:         row.Lost,
			GoalsFor:     row.GoalsFor,
			GoalsAgainst: row.GoalsAgainst,
			GoalDiff:     row.GoalDiff,
		}
		query, args, err := qb.InsertModel("standings", insertModel, "")
		if err != nil {
			return fmt.Errorf("build insert standing query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			if class := violationClass(err); class != "" {
				return fmt.Errorf("insert standing group=%d team=%d: %s: %w", groupID, row.TeamID, class, err)
			}
			return fmt.Errorf("insert standing group=%d team=%d: %w", groupID, row.TeamID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace standings tx: %w", err)
	}
	return nil
}

func (r *StandingRepository) ListByGroup(ctx context.Context, groupID int64) ([]standing.Row, error) {
	query, args, err := qb.Select(
		"s.group_id", "s.team_id", "t.name AS team_name", "s.position",
		"s.points", "s.played", "s.won", "s.drawn", "s.lost",
		"s.gf", "s.gc", "s.gd",
	).
		From("standings s").
		Join("teams t ON s.team_id = t.id").
		Where(qb.Eq("s.group_id", groupID)).
		OrderBy("s.position").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list standings query: %w", err)
	}

	var rows []standingJoinedModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list standings: %w", err)
	}

	out := make([]standing.Row, 0, len(rows))
	for _, row := range rows {
		out = append(out, standing.Row{
			GroupID:      row.GroupID,
			TeamID:       row.TeamID,
			TeamName:     row.TeamName,
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

	return out, nil
}

func (r *StandingRepository) CountByGroup(ctx context.Context, groupID int64) (int, error) {
	query, args, err := qb.Select("COUNT(*)").From("standings").
		Where(qb.Eq("group_id", groupID)).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count standings query: %w", err)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count standings: %w", err)
	}

	return count, nil
}
