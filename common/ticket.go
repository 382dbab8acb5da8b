package common

import "time"

// Ticket statuses. Status is the only mutable ticket field.
const (
	StatusOpen       = "Open"
	StatusInProgress = "In Progress"
	StatusClosed     = "Closed"
)

// TicketStatuses lists the allowed statuses in display order.
var TicketStatuses = []string{StatusOpen, StatusInProgress, StatusClosed}

// TicketCategories are the categories offered by the client. The server
// does not enforce them on create.
var TicketCategories = []string{"Network", "Hardware", "Access", "Software"}

type Ticket struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string    `gorm:"type:text;not null" json:"title"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Category    string    `gorm:"type:text;not null" json:"category"`
	Status      string    `gorm:"type:varchar(32);not null;default:Open" json:"status"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Ticket) TableName() string {
	return "tickets"
}

// Field returns the value stored under a column key.
func (t Ticket) Field(key string) (interface{}, bool) {
	switch key {
	case "id":
		return t.ID, true
	case "title":
		return t.Title, true
	case "description":
		return t.Description, true
	case "category":
		return t.Category, true
	case "status":
		return t.Status, true
	case "created_at":
		return t.CreatedAt, true
	}
	return nil, false
}

// IsValidStatus reports whether s is one of TicketStatuses.
func IsValidStatus(s string) bool {
	for _, status := range TicketStatuses {
		if s == status {
			return true
		}
	}
	return false
}
