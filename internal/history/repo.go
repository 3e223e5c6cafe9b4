package history

import "context"

// Repo defines persistence operations for history entries.
type Repo interface {
	Create(ctx context.Context, e Entry) error
	GetByID(ctx context.Context, id string) (Entry, error)
	ListRecent(ctx context.Context, limit, offset int) ([]Entry, error)
}
