package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "homereel.yaml")

	tests := []struct {
		name      string
		setup     func(t *testing.T)
		validate  func(t *testing.T, cfg *Config)
		checkFile func(t *testing.T)
	}{
		{
			name:  "NewFile_Defaults",
			setup: func(t *testing.T) {}, // No file
			validate: func(t *testing.T, cfg *Config) {
				if cfg.LLM.Provider != "gemini" {
					t.Errorf("expected default provider 'gemini', got %q", cfg.LLM.Provider)
				}
				if cfg.Sequencer.Slack != 5 {
					t.Errorf("expected default slack 5, got %d", cfg.Sequencer.Slack)
				}
				if cfg.Sequencer.MaxInversionRatio != 0.3 {
					t.Errorf("expected default max ratio 0.3, got %v", cfg.Sequencer.MaxInversionRatio)
				}
			},
			checkFile: func(t *testing.T) {
				content, err := os.ReadFile(configPath)
				if err != nil {
					t.Fatalf("failed to read config file: %v", err)
				}
				if !strings.Contains(string(content), "# Options: gemini, openai, failover") {
					t.Error("config file missing provider options comment")
				}
				if !strings.Contains(string(content), "max_inversion_ratio: 0.3") {
					t.Error("config file missing sequencer defaults")
				}
			},
		},
		{
			name: "ExistingFile_Override",
			setup: func(t *testing.T) {
				content := "llm:\n  provider: openai\nsequencer:\n  slack: 3\nrequest:\n  timeout: 2m\n"
				if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
					t.Fatalf("failed to setup test file: %v", err)
				}
			},
			validate: func(t *testing.T, cfg *Config) {
				if cfg.LLM.Provider != "openai" {
					t.Errorf("expected provider 'openai', got %q", cfg.LLM.Provider)
				}
				if cfg.Sequencer.Slack != 3 {
					t.Errorf("expected slack 3, got %d", cfg.Sequencer.Slack)
				}
				if time.Duration(cfg.Request.Timeout) != 2*time.Minute {
					t.Errorf("expected timeout 2m, got %v", time.Duration(cfg.Request.Timeout))
				}
				// Untouched sections keep their defaults.
				if cfg.Sequencer.MaxInversionRatio != 0.3 {
					t.Errorf("expected default max ratio 0.3, got %v", cfg.Sequencer.MaxInversionRatio)
				}
				if cfg.DB.Path != "./data/homereel.db" {
					t.Errorf("expected default db path, got %q", cfg.DB.Path)
				}
			},
			checkFile: func(t *testing.T) {},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Remove(configPath)
			tt.setup(t)

			cfg, err := Load(configPath)
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			tt.validate(t, cfg)
			tt.checkFile(t)
		})
	}
}

func TestLoad_EnvKeyFallback(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "homereel.yaml")

	if err := os.WriteFile(configPath, []byte("llm:\n  provider: gemini\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("GEMINI_API_KEY", "env-key")
	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.LLM.Gemini.Key != "env-key" {
		t.Errorf("expected key from env, got %q", cfg.LLM.Gemini.Key)
	}

	// A key in the file wins over the environment.
	if err := os.WriteFile(configPath, []byte("llm:\n  gemini:\n    key: file-key\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = Load(configPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.LLM.Gemini.Key != "file-key" {
		t.Errorf("expected key from file, got %q", cfg.LLM.Gemini.Key)
	}
}

func TestGenerateDefault_DoesNotOverwrite(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "homereel.yaml")

	if err := os.WriteFile(configPath, []byte("custom: true\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := GenerateDefault(configPath); err != nil {
		t.Fatalf("GenerateDefault failed: %v", err)
	}

	content, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != "custom: true\n" {
		t.Error("GenerateDefault overwrote an existing file")
	}
}
