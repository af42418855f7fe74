package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/futbolcanario/futbolbase/internal/domain/group"
	qb "github.com/futbolcanario/futbolbase/internal/platform/querybuilder"
)

type GroupRepository struct {
	db *sqlx.DB
}

func NewGroupRepository(db *sqlx.DB) *GroupRepository {
	return &GroupRepository{db: db}
}

type groupTableModel struct {
	ID             int64          `db:"id"`
	SeasonID       int64          `db:"season_id"`
	CategoryID     int64          `db:"category_id"`
	Code           string         `db:"code"`
	Name           sql.NullString `db:"name"`
	FullName       sql.NullString `db:"full_name"`
	Phase          sql.NullString `db:"phase"`
	Island         sql.NullString `db:"island"`
	URL            sql.NullString `db:"url"`
	CurrentJornada sql.NullString `db:"current_jornada"`
}

func (m groupTableModel) toDomain() group.Group {
	return group.Group{
		ID:             m.ID,
		SeasonID:       m.SeasonID,
		CategoryID:     m.CategoryID,
		Code:           m.Code,
		Name:           m.Name.String,
		FullName:       m.FullName.String,
		Phase:          m.Phase.String,
		Island:         m.Island.String,
		URL:            m.URL.String,
		CurrentJornada: m.CurrentJornada.String,
	}
}

// patchColumns pairs each optional metadata column with its patch
// value. Nil values are skipped so an existing row keeps its data.
func patchColumns(patch group.Patch) []struct {
	column string
	value  *string
} {
	return []struct {
		column string
		value  *string
	}{
		{"name", patch.Name},
		{"full_name", patch.FullName},
		{"phase", patch.Phase},
		{"island", patch.Island},
		{"url", patch.URL},
		{"current_jornada", patch.CurrentJornada},
	}
}

func (r *GroupRepository) Upsert(ctx context.Context, seasonID, categoryID int64, code string, patch group.Patch) (int64, error) {
	code = strings.TrimSpace(code)
	if seasonID <= 0 || categoryID <= 0 || code == "" {
		return 0, fmt.Errorf("group natural key is incomplete")
	}

	query, args, err := qb.Select("id").From("groups").
		Where(
			qb.Eq("season_id", seasonID),
			qb.Eq("category_id", categoryID),
			qb.Eq("code", code),
		).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build select group query: %w", err)
	}

	var id int64
	err = r.db.GetContext(ctx, &id, query, args...)
	if err == nil {
		update := qb.Update("groups")
		touched := false
		for _, col := range patchColumns(patch) {
			if col.value == nil {
				continue
			}
			update.Set(col.column, *col.value)
			touched = true
		}
		if !touched {
			return id, nil
		}
		updateQuery, updateArgs, err := update.Where(qb.Eq("id", id)).ToSQL()
		if err != nil {
			return 0, fmt.Errorf("build update group query: %w", err)
		}
		if _, err := r.db.ExecContext(ctx, updateQuery, updateArgs...); err != nil {
			return 0, fmt.Errorf("update group %s: %w", code, err)
		}
		return id, nil
	}
	if !isNotFound(err) {
		return 0, fmt.Errorf("select group by natural key: %w", err)
	}

	columns := []string{"season_id", "category_id", "code"}
	values := []any{seasonID, categoryID, code}
	for _, col := range patchColumns(patch) {
		if col.value == nil {
			continue
		}
		columns = append(columns, col.column)
		values = append(values, *col.value)
	}

	insertQuery, insertArgs, err := qb.InsertInto("groups").
		Columns(columns...).
		Values(values...).
		Suffix("RETURNING id").
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build insert group query: %w", err)
	}
	if err := r.db.GetContext(ctx, &id, insertQuery, insertArgs...); err != nil {
		if class := violationClass(err); class != "" {
			return 0, fmt.Errorf("insert group %s: %s: %w", code, class, err)
		}
		return 0, fmt.Errorf("insert group %s: %w", code, err)
	}

	return id, nil
}

func (r *GroupRepository) ListByCategory(ctx context.Context, categoryName string) ([]group.Group, error) {
	query, args, err := qb.Select(
		"g.id", "g.season_id", "g.category_id", "g.code", "g.name",
		"g.full_name", "g.phase", "g.island", "g.url", "g.current_jornada",
	).
		From("groups g").
		Join("categories c ON g.category_id = c.id").
		Join("seasons s ON g.season_id = s.id").
		Where(
			qb.Eq("c.name", strings.TrimSpace(categoryName)),
			qb.Eq("s.is_current", true),
		).
		OrderBy("g.code").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list groups by category query: %w", err)
	}

	var rows []groupTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list groups by category: %w", err)
	}

	out := make([]group.Group, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *GroupRepository) ListCurrentSeason(ctx context.Context) ([]group.Group, error) {
	query, args, err := qb.Select(
		"g.id", "g.season_id", "g.category_id", "g.code", "g.name",
		"g.full_name", "g.phase", "g.island", "g.url", "g.current_jornada",
	).
		From("groups g").
		Join("seasons s ON g.season_id = s.id").
		Where(qb.Eq("s.is_current", true)).
		OrderBy("g.code").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list current season groups query: %w", err)
	}

	var rows []groupTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list current season groups: %w", err)
	}

	out := make([]group.Group, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}
