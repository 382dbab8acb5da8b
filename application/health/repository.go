package health

import (
	"context"

	"devdesk/common"
	"devdesk/internal/storage"
)

type Repository struct {
	store *storage.Store
}

func NewRepository(store *storage.Store) *Repository {
	return &Repository{store: store}
}

func (r *Repository) Ping(ctx context.Context) error {
	return r.store.Ping(ctx)
}

// TableSizes returns the row count of every collection table.
func (r *Repository) TableSizes(ctx context.Context) (map[string]int64, error) {
	tables := []string{
		common.Ticket{}.TableName(),
		common.Article{}.TableName(),
		common.Asset{}.TableName(),
	}

	sizes := make(map[string]int64, len(tables))
	for _, table := range tables {
		n, err := r.store.Count(ctx, table)
		if err != nil {
			return nil, err
		}
		sizes[table] = n
	}
	return sizes, nil
}
