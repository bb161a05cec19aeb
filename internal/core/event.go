package core

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ThreatLevel represents the severity of a security event and doubles as the
// process-wide threat indicator maintained by ThreatState.
type ThreatLevel int

const (
	LevelLow ThreatLevel = iota
	LevelMedium
	LevelHigh
	LevelCritical
)

func (l ThreatLevel) String() string {
	switch l {
	case LevelLow:
		return "LOW"
	case LevelMedium:
		return "MEDIUM"
	case LevelHigh:
		return "HIGH"
	case LevelCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// ParseThreatLevel converts a string label to a ThreatLevel. Unknown labels
// map to LOW.
func ParseThreatLevel(s string) ThreatLevel {
	switch s {
	case "CRITICAL":
		return LevelCritical
	case "HIGH":
		return LevelHigh
	case "MEDIUM":
		return LevelMedium
	default:
		return LevelLow
	}
}

func (l ThreatLevel) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}

func (l *ThreatLevel) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*l = ParseThreatLevel(str)
	return nil
}

// SecurityLog is a single detection or audit record. Entries are immutable
// after creation; the store owns ordering and eviction.
type SecurityLog struct {
	ID        string      `json:"id"`
	Timestamp time.Time   `json:"timestamp"`
	Type      string      `json:"type"`
	Source    string      `json:"source"`
	Details   string      `json:"details"`
	Severity  ThreatLevel `json:"severity"`
	Blocked   bool        `json:"blocked"`
}

// NewSecurityLog creates a SecurityLog with a generated ID and current timestamp.
func NewSecurityLog(eventType, source, details string, severity ThreatLevel, blocked bool) *SecurityLog {
	return &SecurityLog{
		ID:        uuid.New().String(),
		Timestamp: time.Now().UTC(),
		Type:      eventType,
		Source:    source,
		Details:   details,
		Severity:  severity,
		Blocked:   blocked,
	}
}

// Marshal serializes the entry to JSON.
func (e *SecurityLog) Marshal() ([]byte, error) {
	return json.Marshal(e)
}
