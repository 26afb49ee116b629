package audit

import "time"

// Event is an immutable record lifecycle notification.
//
// Invariants:
// - Events are never updated.
// - RecordID is required.
// - Delivery is best-effort; do not block critical flows on audit failures.
type Event struct {
	ID   string    `json:"id"`
	Type EventType `json:"type"`

	RecordID int64 `json:"record_id"`

	// Message is a short human-readable description for ops.
	Message string `json:"message,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

type EventType string

const (
	EventTypeRecordCreated EventType = "record.created"
	EventTypeRecordDeleted EventType = "record.deleted"
)

// Topic is the pub/sub topic carrying record lifecycle events.
const Topic = "call_records.events"
