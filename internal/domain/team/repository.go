package team

import "context"

// Repository describes team persistence needs from use cases.
type Repository interface {
	// UpsertByName returns the id of the team with the given name,
	// inserting it if absent. A non-empty shield filename overwrites
	// the stored one; an empty shield never clears an existing value.
	UpsertByName(ctx context.Context, name, shieldFilename string) (int64, error)
	GetByName(ctx context.Context, name string) (Team, bool, error)
	// ListWithShield returns teams that have a shield image, ordered
	// by name.
	ListWithShield(ctx context.Context) ([]Team, error)
}
