package standing

import "context"

// Repository describes standings persistence needs from use cases.
type Repository interface {
	// ReplaceByGroup deletes the group's snapshot and inserts rows in
	// its place, inside one transaction.
	ReplaceByGroup(ctx context.Context, groupID int64, rows []Row) error
	// ListByGroup returns the snapshot ordered by position, with team
	// names resolved.
	ListByGroup(ctx context.Context, groupID int64) ([]Row, error)
	CountByGroup(ctx context.Context, groupID int64) (int, error)
}
