package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// Config holds the configuration for the gateway service.
// Environment variables are parsed from the TGSHELF_ prefix.
type Config struct {
	// HTTP Configuration
	HTTPPort int    `envconfig:"HTTP_PORT" default:"8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Provider API credentials. Deliberately not required at boot: their
	// absence surfaces per request as a ConfigurationError so the service
	// can start in un-provisioned environments.
	APIID   int    `envconfig:"API_ID" default:"0"`
	APIHash string `envconfig:"API_HASH" default:""`

	// Remote session driver selection
	SessionDriver string `envconfig:"SESSION_DRIVER" default:"tdbridge"`
	BridgeURL     string `envconfig:"BRIDGE_URL" default:"http://localhost:8081"`

	// Public base address used when building catalog item locators.
	// Empty means gateway-relative URLs.
	PublicBaseURL string `envconfig:"PUBLIC_BASE_URL" default:""`

	// Web session cookie signing
	SessionSecret   string `envconfig:"SESSION_SECRET" default:""`
	SessionTTLHours int    `envconfig:"SESSION_TTL_HOURS" default:"720"`

	// Media limits
	MaxUploadBytes int64 `envconfig:"MAX_UPLOAD_BYTES" default:"104857600"`
	ListLimit      int   `envconfig:"LIST_LIMIT" default:"100"`

	// HTTP policy. The "*" default reflects the request origin, since the
	// cookie-based auth flow cannot use a literal wildcard; production
	// deployments should pin explicit origins.
	CORSOrigins       []string `envconfig:"CORS_ORIGINS" default:"*"`
	AuthRatePerMinute int      `envconfig:"AUTH_RATE_PER_MINUTE" default:"10"`
}

// ResolveDefaults validates driver selection and fills derived values.
func (c *Config) ResolveDefaults() error {
	allowedDrivers := map[string]bool{"tdbridge": true}
	if !allowedDrivers[c.SessionDriver] {
		return fmt.Errorf("unsupported SESSION_DRIVER: %s", c.SessionDriver)
	}

	if c.ListLimit <= 0 {
		c.ListLimit = 100
	}

	if c.SessionSecret == "" {
		// Random per-process secret. Web sessions will not survive a
		// restart; operators should set TGSHELF_SESSION_SECRET.
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			return fmt.Errorf("generate session secret: %w", err)
		}
		c.SessionSecret = hex.EncodeToString(buf)
		log.Warn().Msg("TGSHELF_SESSION_SECRET not set, generated ephemeral secret")
	}
	return nil
}

// New creates a new Config by parsing environment variables.
// Example: TGSHELF_HTTP_PORT, TGSHELF_API_ID, TGSHELF_BRIDGE_URL.
func New() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("TGSHELF", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := cfg.ResolveDefaults(); err != nil {
		return nil, err
	}

	log.Info().
		Str("session_driver", cfg.SessionDriver).
		Str("bridge_url", cfg.BridgeURL).
		Int("http_port", cfg.HTTPPort).
		Bool("api_credentials_present", cfg.APIID != 0 && cfg.APIHash != "").
		Int64("max_upload_bytes", cfg.MaxUploadBytes).
		Int("list_limit", cfg.ListLimit).
		Msg("Configuration loaded")

	return &cfg, nil
}

// NewForTesting creates a config specifically for testing
func NewForTesting() *Config {
	return &Config{
		HTTPPort:          8080,
		LogLevel:          "debug",
		APIID:             12345,
		APIHash:           "test-hash",
		SessionDriver:     "tdbridge",
		BridgeURL:         "http://localhost:8081",
		SessionSecret:     "test-secret",
		SessionTTLHours:   1,
		MaxUploadBytes:    1 << 20,
		ListLimit:         100,
		CORSOrigins:       []string{"*"},
		AuthRatePerMinute: 100,
	}
}

// HasAPICredentials reports whether provider API credentials are configured.
func (c *Config) HasAPICredentials() bool {
	return c.APIID != 0 && c.APIHash != ""
}

// SessionTTL returns the web-session lifetime.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLHours) * time.Hour
}

// GetHTTPAddr returns the HTTP server address
func (c *Config) GetHTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}
