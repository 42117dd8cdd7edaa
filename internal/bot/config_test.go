package bot

import (
	"log/slog"
	"testing"
)

func TestLoadConfig_WithValidToken(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "test-token-123")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.DiscordToken != "test-token-123" {
		t.Errorf("expected token %q, got %q", "test-token-123", cfg.DiscordToken)
	}
}

func TestLoadConfig_WithEmptyToken(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "")

	_, err := LoadConfig()
	if err == nil {
		t.Error("expected error for missing token, got nil")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "token")
	t.Setenv("DEFAULT_PREFIX", "")
	t.Setenv("DATABASE_PATH", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("LOG_FORMAT", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.DefaultPrefix != "!" {
		t.Errorf("expected default prefix %q, got %q", "!", cfg.DefaultPrefix)
	}
	if cfg.DatabasePath != "db/tasks.db" {
		t.Errorf("expected database path %q, got %q", "db/tasks.db", cfg.DatabasePath)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("expected log level info, got %v", cfg.LogLevel)
	}
	if cfg.LogFormat != LogFormatJSON {
		t.Errorf("expected log format %q, got %q", LogFormatJSON, cfg.LogFormat)
	}
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "token")
	t.Setenv("DEFAULT_PREFIX", "?")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.DefaultPrefix != "?" {
		t.Errorf("expected prefix %q, got %q", "?", cfg.DefaultPrefix)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("expected log level debug, got %v", cfg.LogLevel)
	}
	if cfg.LogFormat != LogFormatText {
		t.Errorf("expected log format %q, got %q", LogFormatText, cfg.LogFormat)
	}
}
