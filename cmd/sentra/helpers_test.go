package main

import (
	"bytes"
	"strings"
	"testing"
)

// ─── ansi ─────────────────────────────────────────────────────────────────────

func TestAnsi_NoColorWhenDisabled(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	if got := red("BLOCKED"); got != "BLOCKED" {
		t.Errorf("red() = %q, want plain text without escape codes", got)
	}
	if got := dim("hint"); got != "hint" {
		t.Errorf("dim() = %q, want plain text", got)
	}
	if got := bold("sentra"); got != "sentra" {
		t.Errorf("bold() = %q, want plain text", got)
	}
}

// ─── usage / version ──────────────────────────────────────────────────────────

func TestPrintUsage_ListsCommands(t *testing.T) {
	var buf bytes.Buffer
	printUsage(&buf)
	out := buf.String()

	for _, cmd := range []string{"run", "scan", "demo", "version"} {
		if !strings.Contains(out, cmd) {
			t.Errorf("usage output missing command %q", cmd)
		}
	}
}

func TestPrintVersion(t *testing.T) {
	var buf bytes.Buffer
	printVersion(&buf)
	out := buf.String()

	if !strings.Contains(out, "sentra") || !strings.Contains(out, version) {
		t.Errorf("version output = %q", out)
	}
}
