package core

import (
	"fmt"
	"testing"
)

// ─── NewLogStore ─────────────────────────────────────────────────────────────

func TestNewLogStore_Empty(t *testing.T) {
	s := NewLogStore(50)
	if s.Len() != 0 {
		t.Errorf("new store should be empty, got %d entries", s.Len())
	}
	if got := s.Snapshot(); len(got) != 0 {
		t.Errorf("Snapshot() of empty store returned %d entries", len(got))
	}
}

func TestNewLogStore_DefaultCapacity(t *testing.T) {
	s := NewLogStore(0)
	for i := 0; i < DefaultLogCapacity+10; i++ {
		s.Append(NewSecurityLog("t", "src", "d", LevelLow, false))
	}
	if s.Len() != DefaultLogCapacity {
		t.Errorf("Len() = %d, want %d", s.Len(), DefaultLogCapacity)
	}
}

// ─── Append ──────────────────────────────────────────────────────────────────

func TestLogStore_Append_NewestFirst(t *testing.T) {
	s := NewLogStore(50)
	first := NewSecurityLog("first", "src", "d", LevelLow, false)
	second := NewSecurityLog("second", "src", "d", LevelLow, false)
	s.Append(first)
	s.Append(second)

	got := s.Snapshot()
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0].Type != "second" || got[1].Type != "first" {
		t.Errorf("order = [%s, %s], want [second, first]", got[0].Type, got[1].Type)
	}
}

func TestLogStore_Append_EvictsOldest(t *testing.T) {
	s := NewLogStore(50)
	for i := 0; i < 60; i++ {
		s.Append(NewSecurityLog(fmt.Sprintf("entry-%d", i), "src", "d", LevelLow, false))
	}

	if s.Len() != 50 {
		t.Fatalf("Len() = %d, want 50", s.Len())
	}
	got := s.Snapshot()
	if got[0].Type != "entry-59" {
		t.Errorf("newest = %s, want entry-59", got[0].Type)
	}
	if got[49].Type != "entry-10" {
		t.Errorf("oldest retained = %s, want entry-10", got[49].Type)
	}
}

// ─── Snapshot ────────────────────────────────────────────────────────────────

func TestLogStore_Snapshot_IsCopy(t *testing.T) {
	s := NewLogStore(50)
	s.Append(NewSecurityLog("a", "src", "d", LevelLow, false))

	snap := s.Snapshot()
	snap[0] = nil
	if s.Snapshot()[0] == nil {
		t.Error("mutating a snapshot should not affect the store")
	}
}

// ─── Clear ───────────────────────────────────────────────────────────────────

func TestLogStore_Clear(t *testing.T) {
	s := NewLogStore(50)
	for i := 0; i < 5; i++ {
		s.Append(NewSecurityLog("t", "src", "d", LevelLow, false))
	}
	s.Clear()
	if s.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", s.Len())
	}
}
