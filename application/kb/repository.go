package kb

import (
	"context"
	"database/sql"

	"devdesk/common"
	"devdesk/internal/query"
	"devdesk/internal/storage"
)

var (
	columns       = []string{"id", "title", "content", "tags", "created_at"}
	searchColumns = []string{"title", "content", "tags"}
)

// Repository handles data access for knowledge-base articles
type Repository struct {
	store *storage.Store
}

// NewRepository creates a new Repository
func NewRepository(store *storage.Store) *Repository {
	return &Repository{store: store}
}

// Insert stores a new article and fills its id and created_at.
func (r *Repository) Insert(ctx context.Context, article *common.Article) (int64, error) {
	return r.store.Insert(ctx, article)
}

// Search opens a cursor over articles matching q, newest first. A blank q
// matches everything.
func (r *Repository) Search(ctx context.Context, q string) (*sql.Rows, error) {
	sqlStr, args, err := query.Build(query.Filter{
		Table:         common.Article{}.TableName(),
		Columns:       columns,
		Search:        q,
		SearchColumns: searchColumns,
	})
	if err != nil {
		return nil, err
	}
	return r.store.Query(ctx, sqlStr, args...)
}

// Scan maps the current row onto an Article.
func (r *Repository) Scan(rows *sql.Rows) (common.Article, error) {
	var article common.Article
	err := r.store.ScanRow(rows, &article)
	return article, err
}
