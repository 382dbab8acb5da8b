package tickets

import (
	"context"
	"database/sql"

	"devdesk/common"
	"devdesk/internal/storage"
)

// Repository handles data access for tickets
type Repository struct {
	store *storage.Store
}

// NewRepository creates a new Repository
func NewRepository(store *storage.Store) *Repository {
	return &Repository{store: store}
}

// Insert stores a new ticket and fills its id and created_at.
func (r *Repository) Insert(ctx context.Context, ticket *common.Ticket) (int64, error) {
	return r.store.Insert(ctx, ticket)
}

// ExecuteQuery runs a SELECT built by the query builder.
func (r *Repository) ExecuteQuery(ctx context.Context, query string, args []interface{}) (*sql.Rows, error) {
	return r.store.Query(ctx, query, args...)
}

// ScanTicket maps the current row onto a Ticket.
func (r *Repository) ScanTicket(rows *sql.Rows) (common.Ticket, error) {
	var ticket common.Ticket
	err := r.store.ScanRow(rows, &ticket)
	return ticket, err
}

// UpdateStatus sets the status of ticket id and returns the rows affected.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status string) (int64, error) {
	return r.store.UpdateColumn(ctx, common.Ticket{}.TableName(), id, "status", status)
}
