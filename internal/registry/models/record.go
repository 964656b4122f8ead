package models

import "time"

// Record is one credential row in a partition. The core only ever mutates
// Attended, EnteredAt, and Suspended, and only forward (false to true).
type Record struct {
	ID        string
	KeyCode   string
	FullName  string
	Contact   string
	VIP       bool
	Attended  bool
	EnteredAt *time.Time
	Suspended bool
}
