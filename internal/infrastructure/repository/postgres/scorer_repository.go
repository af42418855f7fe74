package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/futbolcanario/futbolbase/internal/domain/scorer"
	qb "github.com/futbolcanario/futbolbase/internal/platform/querybuilder"
)

type ScorerRepository struct {
	db *sqlx.DB
}

func NewScorerRepository(db *sqlx.DB) *ScorerRepository {
	return &ScorerRepository{db: db}
}

type scorerInsertModel struct {
	GroupID    int64  `db:"group_id"`
	PlayerName string `db:"player_name"`
	TeamID     int64  `db:"team_id"`
	Goals      int    `db:"goals"`
	Games      int    `db:"games"`
}

type scorerJoinedModel struct {
	GroupID    int64  `db:"group_id"`
	PlayerName string `db:"player_name"`
	TeamID     int64  `db:"team_id"`
	Goals      int    `db:"goals"`
	Games      int    `db:"games"`
	TeamName   string `db:"team_name"`
}

func (m scorerJoinedModel) toDomain() scorer.Scorer {
	return scorer.Scorer{
		GroupID:    m.GroupID,
		PlayerName: m.PlayerName,
		TeamID:     m.TeamID,
		Goals:      m.Goals,
		Games:      m.Games,
		TeamName:   m.TeamName,
	}
}

// ReplaceByGroup swaps the whole scorer table of one group inside a
// transaction so readers never observe a half-refreshed ranking.
func (r *ScorerRepository) ReplaceByGroup(ctx context.Context, groupID int64, rows []scorer.Scorer) error {
	if groupID <= 0 {
		return fmt.Errorf("group id is required")
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx replace scorers: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	deleteQuery, deleteArgs, err := qb.DeleteFrom("scorers").
		Where(qb.Eq("group_id", groupID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete scorers query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		return fmt.Errorf("delete scorers group=%d: %w", groupID, err)
	}

	for _, row := range rows {
		if err := row.Validate(); err != nil {
			return fmt.Errorf("validate scorer: %w", err)
		}
		insertModel := scorerInsertModel{
			GroupID:    groupID,
			PlayerName: row.PlayerName,
			TeamID:     row.TeamID,
			Goals:      row.Goals,
			Games:      row.Games,
		}
		query, args, err := qb.InsertModel("scorers", insertModel, "")
		if err != nil {
			return fmt.Errorf("build insert scorer query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			if class := violationClass(err); class != "" {
				return fmt.Errorf("insert scorer group=%d player=%s: %s: %w", groupID, row.PlayerName, class, err)
			}
			return fmt.Errorf("insert scorer group=%d player=%s: %w", groupID, row.PlayerName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace scorers tx: %w", err)
	}
	return nil
}

func (r *ScorerRepository) ListByGroup(ctx context.Context, groupID int64) ([]scorer.Scorer, error) {
	query, args, err := qb.Select(
		"s.group_id", "s.player_name", "s.team_id", "s.goals", "s.games",
		"t.name AS team_name",
	).
		From("scorers s").
		Join("teams t ON s.team_id = t.id").
		Where(qb.Eq("s.group_id", groupID)).
		OrderBy("s.goals DESC", "s.games", "s.player_name").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list scorers query: %w", err)
	}

	var rows []scorerJoinedModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list scorers: %w", err)
	}

	out := make([]scorer.Scorer, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *ScorerRepository) CountByGroup(ctx context.Context, groupID int64) (int, error) {
	query, args, err := qb.Select("COUNT(*)").From("scorers").
		Where(qb.Eq("group_id", groupID)).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count scorers query: %w", err)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count scorers: %w", err)
	}

	return count, nil
}
