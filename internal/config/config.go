package config

import (
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration values
type Config struct {
	Addr          string        `yaml:"addr"`
	APIBaseURL    string        `yaml:"api_base_url"`
	ReadTimeout   time.Duration `yaml:"read_timeout"`
	WriteTimeout  time.Duration `yaml:"write_timeout"`
	IdleTimeout   time.Duration `yaml:"idle_timeout"`
	ViewTTL       time.Duration `yaml:"view_ttl"`
	TraceStdout   bool          `yaml:"trace_stdout"`
	SecureCookies bool          `yaml:"secure_cookies"` // mark the CSRF cookie Secure; enable behind HTTPS
	DevAPI        DevAPI        `yaml:"dev_api"`

	DemoMode bool // load sample data on new dev database (set via -demo flag)
}

// DevAPI configures the local development backend
type DevAPI struct {
	Addr   string `yaml:"addr"`
	DBPath string `yaml:"db_path"`

	DBPathSource string `yaml:"-"` // where DBPath was set from: "default", "yaml file", or "env var"
}

// Load loads configuration from YAML file and overrides with env vars if present
func Load(path string) (*Config, error) {
	// Defaults
	cfg := &Config{
		Addr:         ":8080",
		APIBaseURL:   "http://localhost:8081/api",
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ViewTTL:      30 * time.Minute,
		DevAPI: DevAPI{
			Addr:         ":8081",
			DBPath:       "./crm.db",
			DBPathSource: "default",
		},
	}

	// Load from YAML if file exists
	if f, err := os.Open(path); err == nil {
		defer f.Close()
		prevDBPath := cfg.DevAPI.DBPath
		decoder := yaml.NewDecoder(f)
		if err := decoder.Decode(cfg); err != nil {
			return nil, err
		}
		if cfg.DevAPI.DBPath != prevDBPath {
			cfg.DevAPI.DBPathSource = "yaml file"
		}
	}

	// Override with environment variables
	if v := os.Getenv("PORT"); v != "" {
		cfg.Addr = ":" + v
	}
	if v := os.Getenv("API_BASE_URL"); v != "" {
		cfg.APIBaseURL = v
	}
	if v := os.Getenv("TRACE_STDOUT"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.TraceStdout = b
		}
	}
	if v := os.Getenv("SECURE_COOKIES"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.SecureCookies = b
		}
	}
	if v := os.Getenv("DEV_API_ADDR"); v != "" {
		cfg.DevAPI.Addr = v
	}
	if v := os.Getenv("DB_PATH"); v != "" {
		cfg.DevAPI.DBPath = v
		cfg.DevAPI.DBPathSource = "env var"
	}

	return cfg, nil
}
