package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/futbolcanario/futbolbase/internal/domain/season"
	qb "github.com/futbolcanario/futbolbase/internal/platform/querybuilder"
)

type SeasonRepository struct {
	db *sqlx.DB
}

func NewSeasonRepository(db *sqlx.DB) *SeasonRepository {
	return &SeasonRepository{db: db}
}

type seasonTableModel struct {
	ID        int64  `db:"id"`
	Name      string `db:"name"`
	StartYear int    `db:"start_year"`
	EndYear   int    `db:"end_year"`
	IsCurrent bool   `db:"is_current"`
}

func (r *SeasonRepository) GetOrCreate(ctx context.Context, s season.Season) (int64, error) {
	if err := s.Validate(); err != nil {
		return 0, fmt.Errorf("validate season: %w", err)
	}

	query, args, err := qb.Select("id").From("seasons").
		Where(qb.Eq("name", s.Name)).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build select season query: %w", err)
	}

	var id int64
	err = r.db.GetContext(ctx, &id, query, args...)
	if err == nil {
		return id, nil
	}
	if !isNotFound(err) {
		return 0, fmt.Errorf("select season by name: %w", err)
	}

	insertQuery, insertArgs, err := qb.InsertInto("seasons").
		Columns("name", "start_year", "end_year", "is_current").
		Values(s.Name, s.StartYear, s.EndYear, s.IsCurrent).
		Suffix("RETURNING id").
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build insert season query: %w", err)
	}
	if err := r.db.GetContext(ctx, &id, insertQuery, insertArgs...); err != nil {
		return 0, fmt.Errorf("insert season %s: %w", s.Name, err)
	}

	return id, nil
}

func (r *SeasonRepository) Current(ctx context.Context) (season.Season, bool, error) {
	query, args, err := qb.Select("*").From("seasons").
		Where(qb.Eq("is_current", true)).
		OrderBy("id").
		Limit(1).
		ToSQL()
	if err != nil {
		return season.Season{}, false, fmt.Errorf("build select current season query: %w", err)
	}

	var row seasonTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return season.Season{}, false, nil
		}
		return season.Season{}, false, fmt.Errorf("select current season: %w", err)
	}

	return season.Season{
		ID:        row.ID,
		Name:      row.Name,
		StartYear: row.StartYear,
		EndYear:   row.EndYear,
		IsCurrent: row.IsCurrent,
	}, true, nil
}
