package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/futbolcanario/futbolbase/internal/domain/team"
	qb "github.com/futbolcanario/futbolbase/internal/platform/querybuilder"
)

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

type teamTableModel struct {
	ID             int64          `db:"id"`
	Name           string         `db:"name"`
	ShieldFilename sql.NullString `db:"shield_filename"`
}

func (r *TeamRepository) UpsertByName(ctx context.Context, name, shieldFilename string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, fmt.Errorf("team name is required")
	}
	shieldFilename = strings.TrimSpace(shieldFilename)

	query, args, err := qb.Select("id").From("teams").
		Where(qb.Eq("name", name)).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build select team query: %w", err)
	}

	var id int64
	err = r.db.GetContext(ctx, &id, query, args...)
	if err == nil {
		// An empty shield never clears a stored one.
		if shieldFilename != "" {
			updateQuery, updateArgs, err := qb.Update("teams").
				Set("shield_filename", shieldFilename).
				Where(qb.Eq("id", id)).
				ToSQL()
			if err != nil {
				return 0, fmt.Errorf("build update team shield query: %w", err)
			}
			if _, err := r.db.ExecContext(ctx, updateQuery, updateArgs...); err != nil {
				return 0, fmt.Errorf("update team shield %s: %w", name, err)
			}
		}
		return id, nil
	}
	if !isNotFound(err) {
		return 0, fmt.Errorf("select team by name: %w", err)
	}

	shield := sql.NullString{String: shieldFilename, Valid: shieldFilename != ""}
	insertQuery, insertArgs, err := qb.InsertInto("teams").
		Columns("name", "shield_filename").
		Values(name, shield).
		Suffix("RETURNING id").
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build insert team query: %w", err)
	}
	if err := r.db.GetContext(ctx, &id, insertQuery, insertArgs...); err != nil {
		if class := violationClass(err); class != "" {
			return 0, fmt.Errorf("insert team %s: %s: %w", name, class, err)
		}
		return 0, fmt.Errorf("insert team %s: %w", name, err)
	}

	return id, nil
}

func (r *TeamRepository) GetByName(ctx context.Context, name string) (team.Team, bool, error) {
	query, args, err := qb.Select("*").From("teams").
		Where(qb.Eq("name", strings.TrimSpace(name))).
		ToSQL()
	if err != nil {
		return team.Team{}, false, fmt.Errorf("build select team query: %w", err)
	}

	var row teamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, fmt.Errorf("select team by name: %w", err)
	}

	return team.Team{
		ID:             row.ID,
		Name:           row.Name,
		ShieldFilename: row.ShieldFilename.String,
	}, true, nil
}

func (r *TeamRepository) ListWithShield(ctx context.Context) ([]team.Team, error) {
	query, args, err := qb.Select("*").From("teams").
		Where(qb.IsNotNull("shield_filename")).
		OrderBy("name").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select shielded teams query: %w", err)
	}

	var rows []teamTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select shielded teams: %w", err)
	}

	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, team.Team{
			ID:             row.ID,
			Name:           row.Name,
			ShieldFilename: row.ShieldFilename.String,
		})
	}

	return out, nil
}
