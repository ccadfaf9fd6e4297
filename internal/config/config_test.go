package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"winsbygroup.com/crmweb/internal/config"
)

func TestLoad(t *testing.T) {
	// Helper to clear env vars before each test
	clearEnvVars := func() {
		os.Unsetenv("PORT")
		os.Unsetenv("API_BASE_URL")
		os.Unsetenv("TRACE_STDOUT")
		os.Unsetenv("SECURE_COOKIES")
		os.Unsetenv("DEV_API_ADDR")
		os.Unsetenv("DB_PATH")
	}

	writeConfig := func(t *testing.T, content string) string {
		t.Helper()
		cfgPath := filepath.Join(t.TempDir(), "config.yaml")
		if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write config file: %v", err)
		}
		return cfgPath
	}

	t.Run("returns defaults when config file does not exist", func(t *testing.T) {
		clearEnvVars()

		cfg, err := config.Load("nonexistent.yaml")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if cfg.Addr != ":8080" {
			t.Errorf("expected Addr ':8080', got %q", cfg.Addr)
		}
		if cfg.APIBaseURL != "http://localhost:8081/api" {
			t.Errorf("expected default APIBaseURL, got %q", cfg.APIBaseURL)
		}
		if cfg.ReadTimeout != 5*time.Second {
			t.Errorf("expected ReadTimeout 5s, got %v", cfg.ReadTimeout)
		}
		if cfg.WriteTimeout != 10*time.Second {
			t.Errorf("expected WriteTimeout 10s, got %v", cfg.WriteTimeout)
		}
		if cfg.IdleTimeout != 120*time.Second {
			t.Errorf("expected IdleTimeout 120s, got %v", cfg.IdleTimeout)
		}
		if cfg.ViewTTL != 30*time.Minute {
			t.Errorf("expected ViewTTL 30m, got %v", cfg.ViewTTL)
		}
		if cfg.TraceStdout {
			t.Error("expected TraceStdout false")
		}
		if cfg.SecureCookies {
			t.Error("expected SecureCookies false")
		}
		if cfg.DevAPI.Addr != ":8081" || cfg.DevAPI.DBPath != "./crm.db" {
			t.Errorf("unexpected dev api defaults %+v", cfg.DevAPI)
		}
		if cfg.DevAPI.DBPathSource != "default" {
			t.Errorf("expected DBPathSource 'default', got %q", cfg.DevAPI.DBPathSource)
		}
	})

	t.Run("loads values from YAML file", func(t *testing.T) {
		clearEnvVars()

		cfgPath := writeConfig(t, `
addr: ":9090"
api_base_url: "https://crm.example.com/api"
read_timeout: 15s
write_timeout: 30s
idle_timeout: 60s
view_ttl: 5m
trace_stdout: true
dev_api:
  addr: ":9191"
  db_path: "/data/test.db"
`)

		cfg, err := config.Load(cfgPath)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if cfg.Addr != ":9090" {
			t.Errorf("expected Addr ':9090', got %q", cfg.Addr)
		}
		if cfg.APIBaseURL != "https://crm.example.com/api" {
			t.Errorf("expected APIBaseURL from yaml, got %q", cfg.APIBaseURL)
		}
		if cfg.ReadTimeout != 15*time.Second {
			t.Errorf("expected ReadTimeout 15s, got %v", cfg.ReadTimeout)
		}
		if cfg.WriteTimeout != 30*time.Second {
			t.Errorf("expected WriteTimeout 30s, got %v", cfg.WriteTimeout)
		}
		if cfg.IdleTimeout != 60*time.Second {
			t.Errorf("expected IdleTimeout 60s, got %v", cfg.IdleTimeout)
		}
		if cfg.ViewTTL != 5*time.Minute {
			t.Errorf("expected ViewTTL 5m, got %v", cfg.ViewTTL)
		}
		if !cfg.TraceStdout {
			t.Error("expected TraceStdout true")
		}
		if cfg.DevAPI.Addr != ":9191" {
			t.Errorf("expected dev api Addr ':9191', got %q", cfg.DevAPI.Addr)
		}
		if cfg.DevAPI.DBPath != "/data/test.db" {
			t.Errorf("expected DBPath '/data/test.db', got %q", cfg.DevAPI.DBPath)
		}
		if cfg.DevAPI.DBPathSource != "yaml file" {
			t.Errorf("expected DBPathSource 'yaml file', got %q", cfg.DevAPI.DBPathSource)
		}
	})

	t.Run("env vars override YAML values", func(t *testing.T) {
		clearEnvVars()

		cfgPath := writeConfig(t, `
api_base_url: "https://yaml.example.com/api"
dev_api:
  db_path: "/yaml/path.db"
`)

		os.Setenv("PORT", "7000")
		os.Setenv("API_BASE_URL", "https://env.example.com/api")
		os.Setenv("TRACE_STDOUT", "true")
		os.Setenv("SECURE_COOKIES", "1")
		os.Setenv("DB_PATH", "/env/override.db")
		defer clearEnvVars()

		cfg, err := config.Load(cfgPath)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if cfg.Addr != ":7000" {
			t.Errorf("expected Addr ':7000', got %q", cfg.Addr)
		}
		if cfg.APIBaseURL != "https://env.example.com/api" {
			t.Errorf("expected APIBaseURL from env, got %q", cfg.APIBaseURL)
		}
		if !cfg.TraceStdout {
			t.Error("expected TraceStdout from env")
		}
		if !cfg.SecureCookies {
			t.Error("expected SecureCookies from env")
		}
		if cfg.DevAPI.DBPath != "/env/override.db" {
			t.Errorf("expected DBPath '/env/override.db', got %q", cfg.DevAPI.DBPath)
		}
		if cfg.DevAPI.DBPathSource != "env var" {
			t.Errorf("expected DBPathSource 'env var', got %q", cfg.DevAPI.DBPathSource)
		}
	})

	t.Run("unparseable TRACE_STDOUT is ignored", func(t *testing.T) {
		clearEnvVars()
		os.Setenv("TRACE_STDOUT", "maybe")
		defer clearEnvVars()

		cfg, err := config.Load("nonexistent.yaml")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if cfg.TraceStdout {
			t.Error("expected TraceStdout to stay false")
		}
	})

	t.Run("returns error for invalid YAML", func(t *testing.T) {
		clearEnvVars()

		cfgPath := writeConfig(t, `
addr: ":9090"
  invalid indentation
api_base_url: "http://x/api"
`)

		_, err := config.Load(cfgPath)
		if err == nil {
			t.Error("expected error for invalid YAML, got nil")
		}
	})
}
