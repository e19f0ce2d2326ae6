package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultTimezone = "UTC"
	configPathEnv   = "SUBSIGNAL_CONFIG"
	groqAPIKeyEnv   = "GROQ_API_KEY"
	groqModelEnv    = "GROQ_MODEL"
	geminiAPIKeyEnv = "GEMINI_API_KEY"
	geminiModelEnv  = "GEMINI_MODEL"
	webhookURLEnv   = "DISCORD_WEBHOOK_URL"
)

// Duration wraps time.Duration so intervals can be written as "30s" in YAML.
type Duration time.Duration

// UnmarshalYAML parses a Go duration string.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config holds high-level settings required across the application.
type Config struct {
	Logging   LoggingConfig   `yaml:"logging"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Sources   []SourceConfig  `yaml:"sources"`
	Selection ModelConfig     `yaml:"selection"`
	Ranking   ModelConfig     `yaml:"ranking"`
	Sink      SinkConfig      `yaml:"sink"`
	Pacing    PacingConfig    `yaml:"pacing"`
	Snapshots SnapshotConfig  `yaml:"snapshots"`
}

// LoggingConfig controls the console logger.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// SchedulerConfig defines when pipeline runs execute. With Recurring false
// the process performs one run and exits (external cron drives it).
type SchedulerConfig struct {
	Recurring bool           `yaml:"recurring"`
	Interval  Duration       `yaml:"interval"`
	Timezone  string         `yaml:"timezone"`
	location  *time.Location `yaml:"-"`
}

// Location resolves the scheduler timezone string to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// SourceConfig names a single community source and the scanner strategy that
// fetches it.
type SourceConfig struct {
	Name    string `yaml:"name"`
	Scanner string `yaml:"scanner"`
}

// ModelConfig defines how to contact one LLM service.
type ModelConfig struct {
	Endpoint    string  `yaml:"endpoint"`
	Model       string  `yaml:"model"`
	APIKey      string  `yaml:"apiKey"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"maxTokens"`
}

// SinkConfig wires the outbound webhook. An empty URL disables publication.
type SinkConfig struct {
	WebhookURL string `yaml:"webhookUrl"`
	Username   string `yaml:"username"`
}

// PacingConfig sets the minimum interval between calls to each external
// service. These are deliberate rate constraints, not tunables to zero out.
type PacingConfig struct {
	FetchInterval     Duration `yaml:"fetchInterval"`
	SelectionInterval Duration `yaml:"selectionInterval"`
	PublishInterval   Duration `yaml:"publishInterval"`
}

// SnapshotConfig sets where run artifacts are written.
type SnapshotConfig struct {
	Dir string `yaml:"dir"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	cfg.bindTimezone()

	if len(cfg.Sources) == 0 {
		cfg.Sources = defaultConfig().Sources
	}

	return cfg
}

// Validate reports missing credentials before any network work starts.
func (c Config) Validate() error {
	var missing []string
	if c.Selection.APIKey == "" {
		missing = append(missing, groqAPIKeyEnv)
	}
	if c.Ranking.APIKey == "" {
		missing = append(missing, geminiAPIKeyEnv)
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required API keys: %v", missing)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(groqAPIKeyEnv); v != "" {
		c.Selection.APIKey = v
	}
	if v := os.Getenv(groqModelEnv); v != "" {
		c.Selection.Model = v
	}

	if v := os.Getenv(geminiAPIKeyEnv); v != "" {
		c.Ranking.APIKey = v
	}
	if v := os.Getenv(geminiModelEnv); v != "" {
		c.Ranking.Model = v
	}

	if v := os.Getenv(webhookURLEnv); v != "" {
		c.Sink.WebhookURL = v
	}
}

func (c *Config) bindTimezone() {
	tz := c.Scheduler.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to %s", tz, defaultTimezone)
		loc, _ = time.LoadLocation(defaultTimezone)
	}
	c.Scheduler.location = loc
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	if override.Scheduler.Recurring {
		base.Scheduler.Recurring = true
	}
	if override.Scheduler.Interval != 0 {
		base.Scheduler.Interval = override.Scheduler.Interval
	}
	if override.Scheduler.Timezone != "" {
		base.Scheduler.Timezone = override.Scheduler.Timezone
	}

	if len(override.Sources) > 0 {
		base.Sources = override.Sources
	}

	base.Selection = mergeModel(base.Selection, override.Selection)
	base.Ranking = mergeModel(base.Ranking, override.Ranking)

	if override.Sink.WebhookURL != "" {
		base.Sink.WebhookURL = override.Sink.WebhookURL
	}
	if override.Sink.Username != "" {
		base.Sink.Username = override.Sink.Username
	}

	if override.Pacing.FetchInterval != 0 {
		base.Pacing.FetchInterval = override.Pacing.FetchInterval
	}
	if override.Pacing.SelectionInterval != 0 {
		base.Pacing.SelectionInterval = override.Pacing.SelectionInterval
	}
	if override.Pacing.PublishInterval != 0 {
		base.Pacing.PublishInterval = override.Pacing.PublishInterval
	}

	if override.Snapshots.Dir != "" {
		base.Snapshots.Dir = override.Snapshots.Dir
	}

	return base
}

func mergeModel(base, override ModelConfig) ModelConfig {
	if override.Endpoint != "" {
		base.Endpoint = override.Endpoint
	}
	if override.Model != "" {
		base.Model = override.Model
	}
	if override.APIKey != "" {
		base.APIKey = override.APIKey
	}
	if override.Temperature != 0 {
		base.Temperature = override.Temperature
	}
	if override.MaxTokens != 0 {
		base.MaxTokens = override.MaxTokens
	}
	return base
}

func defaultConfig() Config {
	tz, _ := time.LoadLocation(defaultTimezone)
	return Config{
		Logging: LoggingConfig{Level: "info"},
		Scheduler: SchedulerConfig{
			Recurring: false,
			Interval:  Duration(24 * time.Hour),
			Timezone:  defaultTimezone,
			location:  tz,
		},
		Sources: []SourceConfig{
			{Name: "startups", Scanner: "feed"},
			{Name: "Entrepreneur", Scanner: "feed"},
			{Name: "StartupIdeas", Scanner: "feed"},
			{Name: "SaaS", Scanner: "feed"},
		},
		Selection: ModelConfig{
			Endpoint:    "https://api.groq.com/openai/v1/chat/completions",
			Model:       "llama-3.3-70b-versatile",
			APIKey:      "",
			Temperature: 0.3,
			MaxTokens:   800,
		},
		Ranking: ModelConfig{
			Endpoint:    "https://generativelanguage.googleapis.com/v1beta",
			Model:       "gemini-2.0-flash-exp",
			APIKey:      "",
			Temperature: 0.3,
		},
		Sink: SinkConfig{
			WebhookURL: "",
			Username:   "SubSignal Bot",
		},
		Pacing: PacingConfig{
			FetchInterval:     Duration(3 * time.Second),
			SelectionInterval: Duration(30 * time.Second),
			PublishInterval:   Duration(500 * time.Millisecond),
		},
		Snapshots: SnapshotConfig{Dir: "."},
	}
}
