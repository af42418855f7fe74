package group

import "context"

// Repository describes group persistence needs from use cases.
type Repository interface {
	// Upsert inserts or patch-updates the group identified by the
	// natural key (seasonID, categoryID, code) and returns its id.
	Upsert(ctx context.Context, seasonID, categoryID int64, code string, patch Patch) (int64, error)
	// ListByCategory returns the current season's groups for a
	// category name, ordered by code.
	ListByCategory(ctx context.Context, categoryName string) ([]Group, error)
	// ListCurrentSeason returns every group in the current season,
	// ordered by code.
	ListCurrentSeason(ctx context.Context) ([]Group, error)
}
