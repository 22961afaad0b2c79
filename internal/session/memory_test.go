package session

import (
	"context"
	"testing"
	"time"

	"github.com/ziadkadry99/agentic/internal/llm"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	s := NewMemoryStore(time.Hour)
	ctx := context.Background()

	id := NewID()
	history := []llm.Message{
		{Role: llm.RoleUser, Content: "where is login?"},
		{Role: llm.RoleAssistant, Content: "auth.py"},
	}
	if err := s.Set(ctx, id, history); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, err := s.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(got) != 2 || got[1].Content != "auth.py" {
		t.Errorf("Get = %+v", got)
	}
}

func TestMemoryStoreUnknownSession(t *testing.T) {
	s := NewMemoryStore(time.Hour)
	got, err := s.Get(context.Background(), "nope")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil history, got %+v", got)
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	s := NewMemoryStore(time.Hour)
	ctx := context.Background()

	now := time.Now()
	s.now = func() time.Time { return now }
	if err := s.Set(ctx, "sid", []llm.Message{{Role: llm.RoleUser, Content: "hi"}}); err != nil {
		t.Fatalf("Set: %v", err)
	}

	s.now = func() time.Time { return now.Add(2 * time.Hour) }
	got, err := s.Get(ctx, "sid")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != nil {
		t.Errorf("expected expired session to be gone, got %+v", got)
	}
}

func TestMemoryStoreIsolation(t *testing.T) {
	s := NewMemoryStore(time.Hour)
	ctx := context.Background()

	history := []llm.Message{{Role: llm.RoleUser, Content: "original"}}
	if err := s.Set(ctx, "sid", history); err != nil {
		t.Fatalf("Set: %v", err)
	}
	history[0].Content = "mutated"

	got, err := s.Get(ctx, "sid")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got[0].Content != "original" {
		t.Error("stored history aliases the caller's slice")
	}
}

func TestMemoryStoreClear(t *testing.T) {
	s := NewMemoryStore(time.Hour)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		if err := s.Set(ctx, id, []llm.Message{{Role: llm.RoleUser, Content: id}}); err != nil {
			t.Fatalf("Set: %v", err)
		}
	}

	n, err := s.Clear(ctx)
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if n != 3 {
		t.Errorf("Clear removed %d, want 3", n)
	}
	if got, _ := s.Get(ctx, "a"); got != nil {
		t.Error("session survived Clear")
	}
}

func TestNewIDUnique(t *testing.T) {
	if NewID() == NewID() {
		t.Error("expected distinct session IDs")
	}
}
