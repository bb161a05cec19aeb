package core

import (
	"encoding/json"
	"testing"
)

func TestThreatLevel_String(t *testing.T) {
	tests := []struct {
		level ThreatLevel
		want  string
	}{
		{LevelLow, "LOW"},
		{LevelMedium, "MEDIUM"},
		{LevelHigh, "HIGH"},
		{LevelCritical, "CRITICAL"},
		{ThreatLevel(99), "UNKNOWN"},
	}
	for _, tt := range tests {
		if got := tt.level.String(); got != tt.want {
			t.Errorf("String(%d) = %q, want %q", int(tt.level), got, tt.want)
		}
	}
}

func TestParseThreatLevel(t *testing.T) {
	tests := []struct {
		in   string
		want ThreatLevel
	}{
		{"LOW", LevelLow},
		{"MEDIUM", LevelMedium},
		{"HIGH", LevelHigh},
		{"CRITICAL", LevelCritical},
		{"bogus", LevelLow},
		{"", LevelLow},
	}
	for _, tt := range tests {
		if got := ParseThreatLevel(tt.in); got != tt.want {
			t.Errorf("ParseThreatLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestThreatLevel_JSONRoundTrip(t *testing.T) {
	data, err := json.Marshal(LevelCritical)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	if string(data) != `"CRITICAL"` {
		t.Errorf("Marshal = %s, want \"CRITICAL\"", data)
	}

	var l ThreatLevel
	if err := json.Unmarshal(data, &l); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if l != LevelCritical {
		t.Errorf("round trip = %v, want CRITICAL", l)
	}
}

func TestNewSecurityLog_Fields(t *testing.T) {
	e := NewSecurityLog("Test Event", "Login Form", "details here", LevelHigh, true)
	if e.ID == "" {
		t.Error("ID should be generated")
	}
	if e.Timestamp.IsZero() {
		t.Error("Timestamp should be set")
	}
	if e.Type != "Test Event" || e.Source != "Login Form" || e.Details != "details here" {
		t.Errorf("unexpected fields: %+v", e)
	}
	if e.Severity != LevelHigh || !e.Blocked {
		t.Errorf("Severity/Blocked = %v/%v, want HIGH/true", e.Severity, e.Blocked)
	}
}

func TestNewSecurityLog_UniqueIDs(t *testing.T) {
	a := NewSecurityLog("t", "s", "d", LevelLow, false)
	b := NewSecurityLog("t", "s", "d", LevelLow, false)
	if a.ID == b.ID {
		t.Errorf("two entries share ID %q", a.ID)
	}
}
