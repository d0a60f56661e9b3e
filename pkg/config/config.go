// Package config loads application configuration from YAML files with
// environment-variable overrides. It provides typed structs for the HTTP
// server, the analytics provider, CORS, logging, and metrics.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Analytics AnalyticsConfig `yaml:"analytics"`
	CORS      CORSConfig      `yaml:"cors"`
	Logging   LoggingConfig   `yaml:"logging"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// ServerConfig holds HTTP server settings. RequestTimeout bounds a single
// request end to end, including both provider reports.
type ServerConfig struct {
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"readTimeout"`
	WriteTimeout    time.Duration `yaml:"writeTimeout"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
	RequestTimeout  time.Duration `yaml:"requestTimeout"`
}

// AnalyticsConfig identifies the GA4 property to report on and where the
// service-account credentials come from.
type AnalyticsConfig struct {
	PropertyID     string `yaml:"propertyId"`
	BaseURL        string `yaml:"baseUrl"`
	Scope          string `yaml:"scope"`
	CredentialsEnv string `yaml:"credentialsEnv"`
	// Credentials is the serialized service-account JSON. It is never read
	// from the YAML file.
	Credentials string `yaml:"-"`
}

// CORSConfig controls the cross-origin headers attached to every response.
type CORSConfig struct {
	AllowOrigin  string   `yaml:"allowOrigin"`
	AllowMethods []string `yaml:"allowMethods"`
	AllowHeaders []string `yaml:"allowHeaders"`
}

// LoggingConfig controls structured logging level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig controls the Prometheus metrics server.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
	Port    int  `yaml:"port"`
}

// Load reads a YAML config file (if provided) and applies environment-variable
// overrides. Credentials are read last, from the variable named by
// Analytics.CredentialsEnv.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}
	applyEnvOverrides(cfg)
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.Analytics.Credentials = os.Getenv(cfg.Analytics.CredentialsEnv)
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Analytics.PropertyID == "" {
		return fmt.Errorf("analytics.propertyId is required")
	}
	if _, err := strconv.ParseUint(c.Analytics.PropertyID, 10, 64); err != nil {
		return fmt.Errorf("analytics.propertyId must be numeric, got %q", c.Analytics.PropertyID)
	}
	if c.Analytics.CredentialsEnv == "" {
		return fmt.Errorf("analytics.credentialsEnv is required")
	}
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be positive, got %d", c.Server.Port)
	}
	return nil
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 15 * time.Second,
			RequestTimeout:  25 * time.Second,
		},
		Analytics: AnalyticsConfig{
			PropertyID:     "455753973",
			BaseURL:        "https://analyticsdata.googleapis.com/v1beta",
			Scope:          "https://www.googleapis.com/auth/analytics.readonly",
			CredentialsEnv: "GOOGLE_SERVICE_ACCOUNT",
		},
		CORS: CORSConfig{
			AllowOrigin:  "*",
			AllowMethods: []string{"GET", "OPTIONS"},
			AllowHeaders: []string{"Content-Type"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Port:    9090,
		},
	}
}

// applyEnvOverrides reads LW_* environment variables and overrides the
// corresponding config fields.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LW_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("LW_SERVER_REQUEST_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Server.RequestTimeout = d
		}
	}
	if v := os.Getenv("LW_ANALYTICS_PROPERTY_ID"); v != "" {
		cfg.Analytics.PropertyID = v
	}
	if v := os.Getenv("LW_ANALYTICS_BASE_URL"); v != "" {
		cfg.Analytics.BaseURL = strings.TrimRight(v, "/")
	}
	if v := os.Getenv("LW_ANALYTICS_CREDENTIALS_ENV"); v != "" {
		cfg.Analytics.CredentialsEnv = v
	}
	if v := os.Getenv("LW_CORS_ALLOW_ORIGIN"); v != "" {
		cfg.CORS.AllowOrigin = v
	}
	if v := os.Getenv("LW_LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("LW_LOGGING_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("LW_METRICS_ENABLED"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			cfg.Metrics.Enabled = enabled
		}
	}
	if v := os.Getenv("LW_METRICS_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Metrics.Port = port
		}
	}
}
