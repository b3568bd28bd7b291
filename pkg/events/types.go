// Package events is an in-memory publish/subscribe bus for verification
// activity: individual check results and plan runs.
package events

import "time"

// EventType identifies the kind of event emitted during verification.
type EventType string

const (
	EventCheckPassed  EventType = "check.passed"
	EventCheckFailed  EventType = "check.failed"
	EventCheckSkipped EventType = "check.skipped" // chain already failed; predicate not evaluated
	EventPlanLoaded   EventType = "plan.loaded"
	EventPlanFinished EventType = "plan.finished"
)

// Event represents a single verification event.
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Subject   string    `json:"subject,omitempty"` // fault code path or plan name
	Data      any       `json:"data,omitempty"`
}

// NewEvent creates a new Event with the current timestamp.
func NewEvent(typ EventType, subject string, data any) Event {
	return Event{
		Type:      typ,
		Timestamp: time.Now(),
		Subject:   subject,
		Data:      data,
	}
}
