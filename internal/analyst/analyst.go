package analyst

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sentra-project/sentra/internal/feed"
)

// AnalysisResult is the triage verdict for a single log entry.
type AnalysisResult struct {
	ID               string    `json:"id"`
	RelatedLogID     string    `json:"related_log_id"`
	Summary          string    `json:"summary"`
	RootCause        string    `json:"root_cause"`
	RemediationSteps []string  `json:"remediation_steps"`
	Confidence       float64   `json:"confidence"`
	Timestamp        time.Time `json:"timestamp"`
}

// Analyst triages SIEM log entries. The rule engine always works; an LLM
// client may be wired in at construction and is tried first, falling back to
// the rules when the call fails. The analyst never depends on the LLM
// responding.
type Analyst struct {
	logger zerolog.Logger
	llm    *LLMClient
}

// Option configures an Analyst.
type Option func(*Analyst)

// WithLLM wires in an optional LLM-backed analysis strategy.
func WithLLM(client *LLMClient) Option {
	return func(a *Analyst) { a.llm = client }
}

// New creates an Analyst.
func New(logger zerolog.Logger, opts ...Option) *Analyst {
	a := &Analyst{
		logger: logger.With().Str("component", "analyst").Logger(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze produces a triage verdict for entry.
func (a *Analyst) Analyze(ctx context.Context, entry *feed.LogEntry) *AnalysisResult {
	if a.llm != nil {
		result, err := a.llm.Analyze(ctx, entry)
		if err == nil {
			return result
		}
		a.logger.Warn().Err(err).Str("log_id", entry.ID).Msg("LLM analysis failed, using rule engine")
	}
	return a.ruleAnalyze(entry)
}

// ruleAnalyze is the built-in rule-based triage.
func (a *Analyst) ruleAnalyze(entry *feed.LogEntry) *AnalysisResult {
	var (
		summary     string
		rootCause   string
		remediation []string
	)

	switch {
	case entry.Category == feed.CategorySecurity && entry.EventID == "4625":
		summary = fmt.Sprintf("Multiple failed login attempts detected from %s.", entry.SourceIP)
		rootCause = "Potential Brute Force Attack against User Account."
		remediation = []string{
			"Lock out affected user account temporarily.",
			"Block Source IP at Firewall.",
			"Reset User Password.",
			"Review MFA Logs.",
		}
	case entry.EventID == "IDS-01":
		summary = fmt.Sprintf("SQL Injection signature match in HTTP Request from %s.", entry.SourceIP)
		rootCause = "Unsanitized input in legacy application module."
		remediation = []string{
			"Isolate web server instance.",
			"Apply WAF Virtual Patch rule #942100.",
			"Review application source code for query parameterization.",
		}
	case entry.Category == feed.CategoryFirewall && entry.Severity == feed.LogWarn:
		summary = fmt.Sprintf("Port Scan detected from external IP %s.", entry.SourceIP)
		rootCause = "Reconnaissance activity indicating potential targeted attack."
		remediation = []string{
			"Block subnet at perimeter firewall.",
			"Enable strict mode on IPS.",
		}
	default:
		summary = fmt.Sprintf("Anomaly detected in system behavior: %s", entry.Message)
		rootCause = "Unknown deviation from baseline."
		remediation = []string{
			"Investigate manual logs.",
			"Escalate to Tier 2 Analyst.",
		}
	}

	return &AnalysisResult{
		ID:               uuid.New().String(),
		RelatedLogID:     entry.ID,
		Summary:          summary,
		RootCause:        rootCause,
		RemediationSteps: remediation,
		Confidence:       0.85 + rand.Float64()*0.14,
		Timestamp:        time.Now().UTC(),
	}
}
