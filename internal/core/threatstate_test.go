package core

import (
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newTestState(t *testing.T, dwell time.Duration) *ThreatState {
	t.Helper()
	s := NewThreatState(zerolog.Nop(), dwell)
	t.Cleanup(s.Stop)
	return s
}

func TestThreatState_StartsLow(t *testing.T) {
	s := newTestState(t, time.Second)
	if s.Level() != LevelLow {
		t.Errorf("initial level = %v, want LOW", s.Level())
	}
}

func TestThreatState_Escalate_SetsHigh(t *testing.T) {
	s := newTestState(t, time.Second)
	s.Escalate()
	if s.Level() != LevelHigh {
		t.Errorf("level after Escalate = %v, want HIGH", s.Level())
	}
}

func TestThreatState_DecaysAfterDwell(t *testing.T) {
	s := newTestState(t, 30*time.Millisecond)
	s.Escalate()

	if s.Level() != LevelHigh {
		t.Fatalf("level = %v, want HIGH", s.Level())
	}

	deadline := time.Now().Add(time.Second)
	for s.Level() != LevelLow {
		if time.Now().After(deadline) {
			t.Fatal("level did not decay to LOW within 1s")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestThreatState_NeverDecaysEarly(t *testing.T) {
	s := newTestState(t, 80*time.Millisecond)
	s.Escalate()

	time.Sleep(40 * time.Millisecond)
	if s.Level() != LevelHigh {
		t.Error("level decayed before the dwell window elapsed")
	}
}

// Re-escalation extends the single decay deadline rather than letting an
// earlier timer knock the level back down mid-window.
func TestThreatState_ReEscalation_ExtendsDeadline(t *testing.T) {
	s := newTestState(t, 80*time.Millisecond)

	s.Escalate()
	time.Sleep(50 * time.Millisecond)
	s.Escalate() // fresh 80ms window from here

	// The first escalation's window has elapsed; the level must still be
	// HIGH because the second escalation extended the deadline.
	time.Sleep(50 * time.Millisecond)
	if s.Level() != LevelHigh {
		t.Errorf("level = %v after re-escalation, want HIGH", s.Level())
	}

	deadline := time.Now().Add(time.Second)
	for s.Level() != LevelLow {
		if time.Now().After(deadline) {
			t.Fatal("level did not decay after the extended window")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestThreatState_OnChange(t *testing.T) {
	s := newTestState(t, 30*time.Millisecond)

	var mu sync.Mutex
	var changes []ThreatLevel
	s.OnChange(func(l ThreatLevel) {
		mu.Lock()
		changes = append(changes, l)
		mu.Unlock()
	})

	s.Escalate()
	s.Escalate() // no change, still HIGH — must not re-notify

	deadline := time.Now().Add(time.Second)
	for {
		mu.Lock()
		n := len(changes)
		mu.Unlock()
		if n >= 2 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("expected 2 change notifications, got %d", n)
		}
		time.Sleep(5 * time.Millisecond)
	}

	mu.Lock()
	defer mu.Unlock()
	if changes[0] != LevelHigh || changes[1] != LevelLow {
		t.Errorf("changes = %v, want [HIGH, LOW]", changes)
	}
}

func TestThreatState_Stop_CancelsDecay(t *testing.T) {
	s := NewThreatState(zerolog.Nop(), 20*time.Millisecond)
	s.Escalate()
	s.Stop()

	time.Sleep(60 * time.Millisecond)
	if s.Level() != LevelHigh {
		t.Errorf("level = %v after Stop, want HIGH (decay cancelled)", s.Level())
	}
}
