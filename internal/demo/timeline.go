package demo

import (
	"time"

	"github.com/sentra-project/sentra/internal/feed"
)

// Step is one scripted injection. Delay is relative to the previous step,
// not to scenario start.
type Step struct {
	Delay time.Duration
	Entry feed.LogEntry
}

// Timeline is an ordered attack script.
type Timeline []Step

// DefaultTimeline is the staged intrusion narrative: recon, brute force,
// injection, automated response. Timestamps are stamped at execution time.
func DefaultTimeline() Timeline {
	return Timeline{
		{Delay: 0, Entry: feed.LogEntry{
			ID: "demo-1", Severity: feed.LogInfo, EventID: "START",
			Message:  "--- DEMO SCENARIO STARTED: APT EMULATION ---",
			Source:   "SYSTEM", User: "ADMIN", Category: feed.CategorySystem, SourceIP: "127.0.0.1",
		}},
		{Delay: 1000 * time.Millisecond, Entry: feed.LogEntry{
			ID: "demo-2", Severity: feed.LogWarn, EventID: "SCAN",
			Message:  "Port Scan detected on ports 22, 80, 443, 3389.",
			Source:   "FW-ENT-01", User: "N/A", Category: feed.CategoryFirewall, SourceIP: "45.132.89.11",
		}},
		{Delay: 2500 * time.Millisecond, Entry: feed.LogEntry{
			ID: "demo-3", Severity: feed.LogWarn, EventID: "4625",
			Message:  `Failed login attempt for user "admin".`,
			Source:   "DC-01", User: "admin", Category: feed.CategorySecurity, SourceIP: "45.132.89.11",
		}},
		{Delay: 3000 * time.Millisecond, Entry: feed.LogEntry{
			ID: "demo-4", Severity: feed.LogWarn, EventID: "4625",
			Message:  `Failed login attempt for user "admin".`,
			Source:   "DC-01", User: "admin", Category: feed.CategorySecurity, SourceIP: "45.132.89.11",
		}},
		{Delay: 3500 * time.Millisecond, Entry: feed.LogEntry{
			ID: "demo-5", Severity: feed.LogCritical, EventID: "4625",
			Message:  "MULTIPLE FAILED LOGINS DETECTED (BRUTE FORCE).",
			Source:   "DC-01", User: "admin", Category: feed.CategorySecurity, SourceIP: "45.132.89.11",
		}},
		{Delay: 5000 * time.Millisecond, Entry: feed.LogEntry{
			ID: "demo-6", Severity: feed.LogCritical, EventID: "IDS-01",
			Message:  "SQL Injection blocked in /api/v1/login.",
			Source:   "IDS-01", User: "N/A", Category: feed.CategoryApplication, SourceIP: "45.132.89.11",
		}},
		{Delay: 6000 * time.Millisecond, Entry: feed.LogEntry{
			ID: "demo-7", Severity: feed.LogInfo, EventID: "AI-RESP",
			Message:  "AI Analyst triggered for Incident #2991.",
			Source:   "AI-ENGINE", User: "SYSTEM", Category: feed.CategorySystem, SourceIP: "10.0.0.50",
		}},
	}
}
