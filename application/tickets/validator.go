package tickets

import (
	"strconv"
	"strings"

	"devdesk/common"
)

// CreateRequest is the POST /api/tickets body.
type CreateRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// Normalize trims surrounding whitespace from every field.
func (r *CreateRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Description = strings.TrimSpace(r.Description)
	r.Category = strings.TrimSpace(r.Category)
}

// ValidateCreate checks required fields. Category is not checked against
// the known list; the client offers only those values.
func ValidateCreate(r *CreateRequest) error {
	return common.RequireNonBlank(
		common.RequiredField{Name: "title", Value: r.Title},
		common.RequiredField{Name: "description", Value: r.Description},
		common.RequiredField{Name: "category", Value: r.Category},
	)
}

// StatusRequest is the PATCH /api/tickets/:id body.
type StatusRequest struct {
	Status string `json:"status"`
}

// ValidateStatus checks status against the fixed enum.
func ValidateStatus(status string) error {
	if !common.IsValidStatus(status) {
		return common.Validation("status must be Open, In Progress, or Closed")
	}
	return nil
}

// ParseID parses a path id. Anything that is not a positive integer cannot
// name a ticket.
func ParseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, errTicketNotFound()
	}
	return id, nil
}

func errTicketNotFound() error {
	return common.NotFound("Ticket not found")
}
