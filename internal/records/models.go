package records

import (
	"time"

	"github.com/uptrace/bun"
)

// CallRecord is one logged support/dev call.
//
// Records are immutable once stored: they are created and deleted, never updated.
// ID and CreatedAt are assigned by the store.
type CallRecord struct {
	bun.BaseModel `bun:"table:call_records"`

	ID              int64   `json:"id" bun:"id,pk,autoincrement"`
	DeveloperName   string  `json:"developer_name" bun:"developer_name,notnull"`
	ClientName      string  `json:"client_name" bun:"client_name,notnull"`
	CallDate        string  `json:"call_date" bun:"call_date,notnull"`
	DurationMinutes int     `json:"duration_minutes" bun:"duration_minutes,notnull"`
	TopicDiscussed  string  `json:"topic_discussed" bun:"topic_discussed,notnull"`
	TicketNumber    *string `json:"ticket_number" bun:"ticket_number"`

	CreatedAt time.Time `json:"created_at" bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

// Filter narrows List and Aggregate. Empty fields impose no constraint; set fields are ANDed.
type Filter struct {
	Client    string
	Developer string
	// Month is a YYYY-MM prefix matched against call_date.
	Month string
}

// NewRecord is the create input. Zero values count as missing.
// Only presence is checked; duration and ticket accept loose JSON types.
type NewRecord struct {
	DeveloperName   string  `json:"developer_name" validate:"required"`
	ClientName      string  `json:"client_name" validate:"required"`
	CallDate        string  `json:"call_date" validate:"required"`
	DurationMinutes Minutes `json:"duration_minutes" validate:"required"`
	TopicDiscussed  string  `json:"topic_discussed" validate:"required"`
	TicketNumber    Ticket  `json:"ticket_number,omitempty"`
}

// Totals is the raw aggregate row.
// TotalMinutes is nil when no row matched.
type Totals struct {
	TotalCalls       int64  `json:"total_calls" bun:"total_calls"`
	TotalMinutes     *int64 `json:"total_minutes" bun:"total_minutes"`
	UniqueClients    int64  `json:"unique_clients" bun:"unique_clients"`
	UniqueDevelopers int64  `json:"unique_developers" bun:"unique_developers"`
}

// Stats is Totals plus the derived hour figure, formatted with one decimal.
type Stats struct {
	Totals
	TotalHours string `json:"total_hours"`
}
