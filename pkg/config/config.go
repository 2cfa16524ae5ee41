package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	Request    RequestConfig    `yaml:"request"`
	Log        LogConfig        `yaml:"log"`
	History    HistoryConfig    `yaml:"history"`
	DB         DBConfig         `yaml:"db"`
	LLM        LLMConfig        `yaml:"llm"`
	Sequencer  SequencerConfig  `yaml:"sequencer"`
	Storyboard StoryboardConfig `yaml:"storyboard"`
}

// RequestConfig holds HTTP request settings.
type RequestConfig struct {
	Retries int           `yaml:"retries"`
	Timeout Duration      `yaml:"timeout"`
	Backoff BackoffConfig `yaml:"backoff"`
}

// BackoffConfig holds exponential backoff settings.
type BackoffConfig struct {
	BaseDelay Duration `yaml:"base_delay"`
	MaxDelay  Duration `yaml:"max_delay"`
}

// LLMConfig holds settings for the storyboard oracle providers.
type LLMConfig struct {
	// Provider selects the active oracle: "gemini", "openai" or "failover"
	// (ordered chain of the configured providers).
	Provider string         `yaml:"provider"`
	Gemini   ProviderConfig `yaml:"gemini"`
	OpenAI   ProviderConfig `yaml:"openai"`
	// Failover lists provider names in fallback order when Provider is
	// "failover".
	Failover []string `yaml:"failover"`
}

// ProviderConfig holds settings for a single oracle provider.
type ProviderConfig struct {
	Key      string            `yaml:"key"`      // API key
	Model    string            `yaml:"model"`    // Default model
	BaseURL  string            `yaml:"base_url"` // OpenAI-compatible endpoints only
	Profiles map[string]string `yaml:"profiles"` // Map of intent -> model
}

// SequencerConfig holds the walkthrough-order tuning knobs. Zero is a valid
// strict setting; negative values fall back to the built-in defaults. Both
// defaults are empirical product behavior, not derived.
type SequencerConfig struct {
	Slack             int     `yaml:"slack"`
	MaxInversionRatio float64 `yaml:"max_inversion_ratio"`
}

// StoryboardConfig holds storyboard generation settings.
type StoryboardConfig struct {
	DefaultStyle string `yaml:"default_style"`
	PromptDir    string `yaml:"prompt_dir"`
	// RoomsFile optionally overrides the built-in walkthrough rank table.
	RoomsFile string `yaml:"rooms_file"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Server   LogSettings `yaml:"server"`
	Requests LogSettings `yaml:"requests"`
}

// LogSettings holds settings for a specific logger.
type LogSettings struct {
	Path  string `yaml:"path"`
	Level string `yaml:"level"`
}

// HistoryConfig holds prompt/response history settings.
type HistoryConfig struct {
	LLM HistorySettings `yaml:"llm"`
}

// HistorySettings holds settings for a single history log.
type HistorySettings struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// DBConfig holds database settings.
type DBConfig struct {
	Path string `yaml:"path"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Request: RequestConfig{
			Retries: 3,
			Timeout: Duration(300 * time.Second),
			Backoff: BackoffConfig{
				BaseDelay: Duration(1 * time.Second),
				MaxDelay:  Duration(60 * time.Second),
			},
		},
		Log: LogConfig{
			Server: LogSettings{
				Path:  "./logs/server.log",
				Level: "INFO",
			},
			Requests: LogSettings{
				Path:  "./logs/requests.log",
				Level: "INFO",
			},
		},
		History: HistoryConfig{
			LLM: HistorySettings{
				Enabled: true,
				Path:    "./logs/llm.log",
			},
		},
		DB: DBConfig{
			Path: "./data/homereel.db",
		},
		LLM: LLMConfig{
			Provider: "gemini",
			Gemini: ProviderConfig{
				Model: "gemini-2.5-flash-lite",
				Profiles: map[string]string{
					"storyboard": "gemini-2.5-flash",
				},
			},
			OpenAI: ProviderConfig{
				BaseURL: "https://api.openai.com/v1",
				Model:   "gpt-4o-mini",
				Profiles: map[string]string{
					"storyboard": "gpt-4o-mini",
				},
			},
			Failover: []string{"gemini", "openai"},
		},
		Sequencer: SequencerConfig{
			Slack:             5,
			MaxInversionRatio: 0.3,
		},
		Storyboard: StoryboardConfig{
			DefaultStyle: "cinematic",
			PromptDir:    "prompts",
		},
	}
}

// Load loads the configuration from the given path.
// If the file does not exist, it creates it with default values.
// If the file exists, it merges defaults with existing values but does NOT
// save back to disk (to preserve user formatting and comments).
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(path); err == nil {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}

		applyEnvFallbacks(cfg)
		return cfg, nil
	}

	if err := Save(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to save config file: %w", err)
	}

	applyEnvFallbacks(cfg)
	return cfg, nil
}

// applyEnvFallbacks fills empty API keys from the environment. Keys are
// never written back to disk.
func applyEnvFallbacks(cfg *Config) {
	if cfg.LLM.Gemini.Key == "" {
		if key := os.Getenv("GEMINI_API_KEY"); key != "" {
			cfg.LLM.Gemini.Key = key
		}
	}
	if cfg.LLM.OpenAI.Key == "" {
		if key := os.Getenv("OPENAI_API_KEY"); key != "" {
			cfg.LLM.OpenAI.Key = key
		}
	}
}

// Save writes the configuration to the path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# HomeReel Configuration
# ---------------------
# Supported Duration units: ns, us (or µs), ms, s, m, h, d (day), w (week)

`)
	data = append(header, data...)

	// Inject comments for enum fields so a hand-edited file stays self-documenting.
	reProvider := regexp.MustCompile(`(?m)^(\s+)provider:`)
	data = reProvider.ReplaceAll(data, []byte("${1}# Options: gemini, openai, failover\n${1}provider:"))

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// GenerateDefault creates a default config file at the given path.
// Returns nil if the file already exists.
func GenerateDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil // File exists, do nothing
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return Save(path, DefaultConfig())
}
