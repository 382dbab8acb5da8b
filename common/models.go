package common

// Models returns every persisted model, in table creation order.
func Models() []interface{} {
	return []interface{}{&Ticket{}, &Article{}, &Asset{}}
}

// CreateResult is the body returned by every create endpoint.
type CreateResult struct {
	ID      int64 `json:"id"`
	Changes int64 `json:"changes"`
}

// Ack is the body returned by update endpoints.
type Ack struct {
	OK bool `json:"ok"`
}
