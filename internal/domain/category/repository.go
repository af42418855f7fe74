package category

import "context"

type Repository interface {
	GetOrCreate(ctx context.Context, name string) (int64, error)
}
