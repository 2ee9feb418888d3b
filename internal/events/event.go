// Package events publishes group activity to interested consumers.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// Type names a kind of group activity. It doubles as the AMQP routing key.
type Type string

const (
	MemberAdded    Type = "group.member.added"
	MemberRemoved  Type = "group.member.removed"
	GroupDeleted   Type = "group.deleted"
	ExpenseCreated Type = "group.expense.created"
	ExpenseDeleted Type = "group.expense.deleted"
)

// Event describes one change to a group.
type Event struct {
	Type    Type   `json:"type"`
	GroupID string `json:"groupId"`
	ActorID string `json:"actorId"`
	// SubjectID is the member or expense the event is about, if any.
	SubjectID  string    `json:"subjectId,omitempty"`
	Amount     float64   `json:"amount,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func FromJSON(data []byte) (Event, error) {
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		return Event{}, fmt.Errorf("unmarshal event: %w", err)
	}
	return e, nil
}

// Publisher delivers events. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// Nop discards every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close() error                         { return nil }

// Memory keeps published events in order. Useful in tests.
type Memory struct {
	mu     sync.Mutex
	events []Event
}

func (m *Memory) Publish(_ context.Context, e Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, e)
	return nil
}

func (m *Memory) Close() error { return nil }

// Events returns a copy of everything published so far.
func (m *Memory) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Event, len(m.events))
	copy(out, m.events)
	return out
}
