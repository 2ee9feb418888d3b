package events

import (
	"context"
	"testing"
	"time"
)

func TestEventJSONRoundTrip(t *testing.T) {
	in := Event{
		Type:       ExpenseCreated,
		GroupID:    "g1",
		ActorID:    "u1",
		SubjectID:  "e1",
		Amount:     12.5,
		OccurredAt: time.Date(2024, time.May, 1, 10, 0, 0, 0, time.UTC),
	}

	data, err := in.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON failed: %v", err)
	}
	out, err := FromJSON(data)
	if err != nil {
		t.Fatalf("FromJSON failed: %v", err)
	}
	if out != in {
		t.Errorf("round trip = %+v, want %+v", out, in)
	}
}

func TestFromJSONRejectsGarbage(t *testing.T) {
	if _, err := FromJSON([]byte("{not json")); err == nil {
		t.Error("expected error for malformed body")
	}
}

func TestMemoryPublisher(t *testing.T) {
	var m Memory
	ctx := context.Background()

	m.Publish(ctx, Event{Type: MemberAdded, GroupID: "g1"})
	m.Publish(ctx, Event{Type: MemberRemoved, GroupID: "g1"})

	got := m.Events()
	if len(got) != 2 || got[0].Type != MemberAdded || got[1].Type != MemberRemoved {
		t.Errorf("Events() = %+v", got)
	}
}
