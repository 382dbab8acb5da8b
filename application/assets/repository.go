package assets

import (
	"context"
	"database/sql"

	"devdesk/common"
	"devdesk/internal/query"
	"devdesk/internal/storage"
)

var (
	columns       = []string{"id", "name", "asset_tag", "serial_number", "assigned_to", "notes", "created_at"}
	searchColumns = []string{"name", "asset_tag", "serial_number", "assigned_to", "notes"}
)

// Repository handles data access for assets
type Repository struct {
	store *storage.Store
}

// NewRepository creates a new Repository
func NewRepository(store *storage.Store) *Repository {
	return &Repository{store: store}
}

func (r *Repository) Insert(ctx context.Context, asset *common.Asset) (int64, error) {
	return r.store.Insert(ctx, asset)
}

// Search opens a cursor over assets matching q in any text column.
func (r *Repository) Search(ctx context.Context, q string) (*sql.Rows, error) {
	sqlStr, args, err := query.Build(query.Filter{
		Table:         common.Asset{}.TableName(),
		Columns:       columns,
		Search:        q,
		SearchColumns: searchColumns,
	})
	if err != nil {
		return nil, err
	}
	return r.store.Query(ctx, sqlStr, args...)
}

func (r *Repository) Scan(rows *sql.Rows) (common.Asset, error) {
	var asset common.Asset
	err := r.store.ScanRow(rows, &asset)
	return asset, err
}
