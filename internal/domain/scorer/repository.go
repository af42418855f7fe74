package scorer

import "context"

// Repository describes scorer persistence needs from use cases.
type Repository interface {
	ReplaceByGroup(ctx context.Context, groupID int64, rows []Scorer) error
	// ListByGroup returns scorers ordered by goals descending then
	// games ascending, with team names resolved.
	ListByGroup(ctx context.Context, groupID int64) ([]Scorer, error)
	CountByGroup(ctx context.Context, groupID int64) (int, error)
}
