// Package sheetsync forwards successful check-in and suspension events to the
// external spreadsheet log. Delivery is one-way and best-effort: no retry, no
// queue persistence, no ordering guarantee, and failures are never surfaced
// to the operator.
package sheetsync

import "context"

// EventType discriminates entry and suspension rows in the sheet.
type EventType string

const (
	TypeEntry      EventType = "entry"
	TypeSuspension EventType = "suspension"
)

// Event is the fixed wire shape the sheet endpoint expects.
type Event struct {
	Type         EventType `json:"type"`
	ID           string    `json:"id"`
	FullName     string    `json:"full_name"`
	KeyCode      string    `json:"key_code"`
	Contact      string    `json:"contact"`
	BlockLabel   string    `json:"block_label"`
	EnteredAtIST string    `json:"entered_at_ist"`
	Reason       string    `json:"reason,omitempty"`
}

// Sender delivers one event to the external endpoint.
type Sender interface {
	Send(ctx context.Context, event Event) error
}

// Sink is the non-blocking publish surface the engines depend on.
type Sink interface {
	Publish(event Event)
}
