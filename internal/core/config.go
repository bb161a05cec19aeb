package core

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the entire Sentra configuration.
type Config struct {
	API      APIConfig      `yaml:"api"`
	Bus      BusConfig      `yaml:"bus"`
	Log      LogConfig      `yaml:"log"`
	Threat   ThreatConfig   `yaml:"threat"`
	Feeds    FeedsConfig    `yaml:"feeds"`
	Analyst  AnalystConfig  `yaml:"analyst"`
	Settings SettingsConfig `yaml:"settings"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// APIConfig holds REST API server settings.
type APIConfig struct {
	Enabled     bool     `yaml:"enabled"`
	Host        string   `yaml:"host"`
	Port        int      `yaml:"port"`
	CORSOrigins []string `yaml:"cors_origins"`
}

// BusConfig holds NATS event bus settings. The bus is an optional bridge for
// external consumers; the core runs without it.
type BusConfig struct {
	Enabled  bool   `yaml:"enabled"`
	URL      string `yaml:"url"`
	Embedded bool   `yaml:"embedded"`
	DataDir  string `yaml:"data_dir"`
	Port     int    `yaml:"port"`
}

// LogConfig holds security log store settings.
type LogConfig struct {
	Capacity int `yaml:"capacity"`
}

// ThreatConfig holds threat level state machine settings.
type ThreatConfig struct {
	Dwell time.Duration `yaml:"dwell"`
}

// FeedsConfig holds the simulator settings for both feeds.
type FeedsConfig struct {
	Threat ThreatFeedConfig `yaml:"threat"`
	SIEM   SIEMFeedConfig   `yaml:"siem"`
}

// ThreatFeedConfig controls the jittered global threat feed.
type ThreatFeedConfig struct {
	JitterMin time.Duration `yaml:"jitter_min"`
	JitterMax time.Duration `yaml:"jitter_max"`
}

// SIEMFeedConfig controls the fixed-period SIEM log feed.
type SIEMFeedConfig struct {
	Interval time.Duration `yaml:"interval"`
	Backlog  int           `yaml:"backlog"`
	MaxStore int           `yaml:"max_store"`
}

// AnalystConfig holds analyst settings. When an endpoint is configured the
// analyst first tries the LLM and falls back to the rule engine on failure.
type AnalystConfig struct {
	LLMEndpoint string        `yaml:"llm_endpoint"`
	LLMAPIKey   string        `yaml:"llm_api_key"`
	LLMModel    string        `yaml:"llm_model"`
	LLMTimeout  time.Duration `yaml:"llm_timeout"`
}

// SettingsConfig holds the key-value settings store location. Empty path
// disables persistence.
type SettingsConfig struct {
	Path string `yaml:"path"`
}

// LoggingConfig holds process logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultConfig returns a Config with sane defaults — zero-config works out of the box.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			Enabled: true,
			Host:    "127.0.0.1",
			Port:    1790,
		},
		Bus: BusConfig{
			Enabled:  false,
			URL:      "nats://127.0.0.1:4222",
			Embedded: true,
			DataDir:  "./data/nats",
			Port:     4222,
		},
		Log: LogConfig{
			Capacity: DefaultLogCapacity,
		},
		Threat: ThreatConfig{
			Dwell: DefaultDwell,
		},
		Feeds: FeedsConfig{
			Threat: ThreatFeedConfig{
				JitterMin: 500 * time.Millisecond,
				JitterMax: 3500 * time.Millisecond,
			},
			SIEM: SIEMFeedConfig{
				Interval: 2 * time.Second,
				Backlog:  20,
				MaxStore: 50,
			},
		},
		Analyst: AnalystConfig{
			LLMModel:   "llama3",
			LLMTimeout: 20 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadConfig loads configuration from a YAML file, falling back to defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Load the LLM key from environment if not set in config
	if cfg.Analyst.LLMAPIKey == "" {
		if envKey := os.Getenv("SENTRA_LLM_API_KEY"); envKey != "" {
			cfg.Analyst.LLMAPIKey = envKey
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks invariants that would otherwise surface as runtime faults.
func (c *Config) Validate() error {
	if c.Feeds.Threat.JitterMin <= 0 || c.Feeds.Threat.JitterMax <= c.Feeds.Threat.JitterMin {
		return fmt.Errorf("feeds.threat: jitter window [%s, %s) is not a valid interval",
			c.Feeds.Threat.JitterMin, c.Feeds.Threat.JitterMax)
	}
	if c.Feeds.SIEM.Interval <= 0 {
		return fmt.Errorf("feeds.siem: interval must be positive, got %s", c.Feeds.SIEM.Interval)
	}
	if c.Feeds.SIEM.Backlog < 0 || c.Feeds.SIEM.MaxStore <= 0 {
		return fmt.Errorf("feeds.siem: backlog %d / max_store %d out of range",
			c.Feeds.SIEM.Backlog, c.Feeds.SIEM.MaxStore)
	}
	return nil
}

// LogLevel returns the normalized logging level.
func (c *Config) LogLevel() string {
	return strings.ToLower(strings.TrimSpace(c.Logging.Level))
}
