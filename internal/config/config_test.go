package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Fatalf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Insights.RefreshInterval != 7*24*time.Hour {
		t.Fatalf("expected 7 day refresh interval, got %v", cfg.Insights.RefreshInterval)
	}
	if cfg.Insights.MaxAttempts != 3 {
		t.Fatalf("expected 3 max attempts, got %d", cfg.Insights.MaxAttempts)
	}
	if cfg.Insights.AttemptTimeout != 30*time.Second {
		t.Fatalf("expected 30s attempt timeout, got %v", cfg.Insights.AttemptTimeout)
	}
	if cfg.Insights.SweepBudget != 5*time.Minute {
		t.Fatalf("expected 5m sweep budget, got %v", cfg.Insights.SweepBudget)
	}
	if len(cfg.Server.CORSAllowedOrigins) != 1 || cfg.Server.CORSAllowedOrigins[0] != "*" {
		t.Fatalf("expected permissive CORS default, got %v", cfg.Server.CORSAllowedOrigins)
	}
}

func TestLoadConfigCORSOriginsFromEnv(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.example.com, https://admin.example.com")

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	want := []string{"https://app.example.com", "https://admin.example.com"}
	if len(cfg.Server.CORSAllowedOrigins) != len(want) {
		t.Fatalf("expected %d origins, got %v", len(want), cfg.Server.CORSAllowedOrigins)
	}
	for i, origin := range want {
		if cfg.Server.CORSAllowedOrigins[i] != origin {
			t.Fatalf("origin %d = %q, want %q", i, cfg.Server.CORSAllowedOrigins[i], origin)
		}
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `
server:
  port: 9090
llm:
  provider: claude
  model: claude-3-haiku-20240307
insights:
  refresh_interval: 72h
  cron_secret: file-secret
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Fatalf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.LLM.Provider != "claude" {
		t.Fatalf("expected provider claude, got %s", cfg.LLM.Provider)
	}
	if cfg.Insights.RefreshInterval != 72*time.Hour {
		t.Fatalf("expected 72h refresh interval, got %v", cfg.Insights.RefreshInterval)
	}
	if cfg.Insights.CronSecret != "file-secret" {
		t.Fatalf("expected cron secret from file, got %q", cfg.Insights.CronSecret)
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "7070")
	t.Setenv("CRON_SECRET", "env-secret")
	t.Setenv("LLM_PROVIDER", "gemini")

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Server.Port != 7070 {
		t.Fatalf("expected port 7070 from env, got %d", cfg.Server.Port)
	}
	if cfg.Insights.CronSecret != "env-secret" {
		t.Fatalf("expected cron secret from env, got %q", cfg.Insights.CronSecret)
	}
	if cfg.LLM.Provider != "gemini" {
		t.Fatalf("expected provider gemini, got %s", cfg.LLM.Provider)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("TEST_CONFIG_VALUE", "expanded")

	if got := expandEnvVars("prefix-${TEST_CONFIG_VALUE}"); got != "prefix-expanded" {
		t.Fatalf("unexpected expansion: %q", got)
	}
	if got := expandEnvVars("${MISSING_CONFIG_VALUE}"); got != "${MISSING_CONFIG_VALUE}" {
		t.Fatalf("missing vars should stay literal, got %q", got)
	}
}
