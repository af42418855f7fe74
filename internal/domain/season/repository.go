package season

import "context"

// Repository describes season persistence needs from use cases.
type Repository interface {
	// GetOrCreate returns the id of the season with the given name,
	// inserting it first if absent. Calling twice never creates a
	// second row.
	GetOrCreate(ctx context.Context, s Season) (int64, error)
	Current(ctx context.Context) (Season, bool, error)
}
