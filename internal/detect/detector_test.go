package detect

import (
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/sentra-project/sentra/internal/core"
)

// ─── Helpers ─────────────────────────────────────────────────────────────────

func newTestDetector(t *testing.T) (*Detector, *core.LogStore, *core.ThreatState) {
	t.Helper()
	store := core.NewLogStore(core.DefaultLogCapacity)
	threat := core.NewThreatState(zerolog.Nop(), time.Minute)
	t.Cleanup(threat.Stop)
	return New(zerolog.Nop(), store, threat), store, threat
}

// ─── Detect: malicious inputs ────────────────────────────────────────────────

func TestDetect_MaliciousInputs(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		pattern string
	}{
		{"script tag", `<script>alert(1)</script>`, "xss_script_tag"},
		{"script tag with attrs", `<script type="text/javascript">steal()</script>`, "xss_script_tag"},
		{"script tag multiline", "<script>\nvar x = 1;\n</script>", "xss_script_tag"},
		{"javascript uri", `<a href="javascript:alert(1)">x</a>`, "xss_javascript_uri"},
		{"javascript uri case", `JaVaScRiPt:void(0)`, "xss_javascript_uri"},
		{"event handler", `<img src=x onerror=alert(1)>`, "xss_event_handler"},
		{"event handler onload", `onload=doEvil()`, "xss_event_handler"},
		{"sqli or true", `' OR 1=1`, "sqli_or_true"},
		{"sqli or true tight", `'OR 1=1`, "sqli_or_true"},
		{"sqli or true lowercase", `' or 1=1`, "sqli_or_true"},
		{"sqli drop table", `x'; DROP TABLE users`, "sqli_drop_table"},
		{"sqli drop table spaced", `;  drop  table accounts`, "sqli_drop_table"},
		{"sqli union", `1 UNION SELECT password FROM users`, "sqli_union"},
		{"sqli union lowercase", `union  select * from secrets`, "sqli_union"},
		{"sqli comment", `admin'--`, "sqli_comment"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, store, threat := newTestDetector(t)

			if !d.Detect(tt.input, "Login Form") {
				t.Fatalf("Detect(%q) = false, want true", tt.input)
			}

			entries := store.Snapshot()
			if len(entries) != 1 {
				t.Fatalf("expected exactly 1 log entry, got %d", len(entries))
			}
			e := entries[0]
			if e.Type != DetectedType {
				t.Errorf("Type = %q, want %q", e.Type, DetectedType)
			}
			if e.Source != "Login Form" {
				t.Errorf("Source = %q, want caller-supplied origin", e.Source)
			}
			if e.Severity != core.LevelHigh {
				t.Errorf("Severity = %v, want HIGH", e.Severity)
			}
			if !e.Blocked {
				t.Error("Blocked = false, want true")
			}
			if !strings.Contains(e.Details, tt.pattern) {
				t.Errorf("Details = %q, should name pattern %q", e.Details, tt.pattern)
			}
			if threat.Level() != core.LevelHigh {
				t.Errorf("threat level = %v after detection, want HIGH", threat.Level())
			}
		})
	}
}

// ─── Detect: clean inputs ────────────────────────────────────────────────────

func TestDetect_CleanInputs(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"plain text", "Hello world, this is a safe message."},
		{"email", "user@example.com"},
		{"single hyphen words", "well-known semi-structured text"},
		{"benign html-ish", "price < 100 and quantity > 5"},
		{"union alone", "credit union membership"},
		{"select alone", "select a seat"},
		{"drop alone", "drop the package at reception"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, store, threat := newTestDetector(t)

			if d.Detect(tt.input, "Contact Form") {
				t.Fatalf("Detect(%q) = true, want false", tt.input)
			}
			if store.Len() != 0 {
				t.Errorf("clean input appended %d entries, want 0", store.Len())
			}
			if threat.Level() != core.LevelLow {
				t.Errorf("threat level = %v, want LOW", threat.Level())
			}
		})
	}
}

// The bare "--" rule is deliberately over-broad: any two consecutive hyphens
// trip it, even in prose. This pins the compatibility behavior.
func TestDetect_DoubleHyphen_FalsePositive(t *testing.T) {
	d, store, _ := newTestDetector(t)

	if !d.Detect("see the docs -- section 3", "Chat") {
		t.Fatal("double hyphen in prose should match the comment rule")
	}
	entries := store.Snapshot()
	if len(entries) != 1 || !strings.Contains(entries[0].Details, "sqli_comment") {
		t.Errorf("expected one sqli_comment entry, got %+v", entries)
	}
}

// An input matching several signatures logs only the first in declared order.
func TestDetect_ShortCircuit_FirstMatchWins(t *testing.T) {
	d, store, _ := newTestDetector(t)

	input := `<script>x</script>' OR 1=1 --`
	if !d.Detect(input, "Search") {
		t.Fatal("Detect = false, want true")
	}
	entries := store.Snapshot()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry (short-circuit), got %d", len(entries))
	}
	if !strings.Contains(entries[0].Details, "xss_script_tag") {
		t.Errorf("Details = %q, want first pattern xss_script_tag", entries[0].Details)
	}
}

func TestDetect_Stats(t *testing.T) {
	d, _, _ := newTestDetector(t)

	d.Detect("clean", "src")
	d.Detect("' OR 1=1", "src")
	d.Detect("", "src")

	scanned, detected := d.Stats()
	if scanned != 3 {
		t.Errorf("scanned = %d, want 3", scanned)
	}
	if detected != 1 {
		t.Errorf("detected = %d, want 1", detected)
	}
}

// ─── LogEvent ────────────────────────────────────────────────────────────────

func TestLogEvent_AppendsAlways(t *testing.T) {
	d, store, threat := newTestDetector(t)

	d.LogEvent("Login Attempt", "Login Form", "user signed in", core.LevelLow, false)
	if store.Len() != 1 {
		t.Fatalf("store has %d entries, want 1", store.Len())
	}
	if threat.Level() != core.LevelLow {
		t.Errorf("LOW event escalated threat level to %v", threat.Level())
	}

	d.LogEvent("Data Breach", "DB-01", "dump detected", core.LevelCritical, true)
	if store.Len() != 2 {
		t.Fatalf("store has %d entries, want 2", store.Len())
	}
	if threat.Level() != core.LevelHigh {
		t.Errorf("CRITICAL event left threat level at %v, want HIGH", threat.Level())
	}
}

func TestLogEvent_MediumDoesNotEscalate(t *testing.T) {
	d, _, threat := newTestDetector(t)
	d.LogEvent("Suspicious", "API", "odd traffic", core.LevelMedium, true)
	if threat.Level() != core.LevelLow {
		t.Errorf("MEDIUM event escalated threat level to %v", threat.Level())
	}
}

func TestDetector_OnLog(t *testing.T) {
	d, _, _ := newTestDetector(t)

	var seen []*core.SecurityLog
	d.OnLog(func(e *core.SecurityLog) { seen = append(seen, e) })

	d.Detect("' OR 1=1", "Login Form")
	d.LogEvent("Audit", "SYSTEM", "manual entry", core.LevelLow, false)

	if len(seen) != 2 {
		t.Fatalf("OnLog saw %d entries, want 2", len(seen))
	}
	if seen[0].Type != DetectedType || seen[1].Type != "Audit" {
		t.Errorf("OnLog order = [%s, %s]", seen[0].Type, seen[1].Type)
	}
}

// ─── Patterns ────────────────────────────────────────────────────────────────

func TestPatterns_OrderAndCount(t *testing.T) {
	d, _, _ := newTestDetector(t)
	patterns := d.Patterns()
	if len(patterns) != 7 {
		t.Fatalf("got %d patterns, want 7", len(patterns))
	}
	wantOrder := []string{
		"xss_script_tag", "xss_javascript_uri", "xss_event_handler",
		"sqli_or_true", "sqli_drop_table", "sqli_union", "sqli_comment",
	}
	for i, want := range wantOrder {
		if patterns[i].Name != want {
			t.Errorf("patterns[%d] = %s, want %s", i, patterns[i].Name, want)
		}
	}
}

// The script tag rule is case-sensitive on the tag name, matching the rule
// set this replaces.
func TestPatterns_ScriptTag_CaseSensitive(t *testing.T) {
	d, store, _ := newTestDetector(t)
	if d.Detect("<SCRIPT>alert(1)</SCRIPT>", "src") {
		// Uppercase still trips other rules? It should not: no handler, no
		// uri, no sqli markers.
		t.Errorf("uppercase script tag matched: %+v", store.Snapshot())
	}
}
