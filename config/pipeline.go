package config

import "time"

// AssistantConfig contains connection settings for the external AI job runner.
type AssistantConfig struct {
	// BaseURL is the runner's REST endpoint.
	BaseURL string `env:"BASE_URL" envDefault:"http://localhost:9090"`

	// OAuth2 client-credentials settings. Leave TokenURL empty for an
	// unauthenticated local runner.
	TokenURL     string `env:"TOKEN_URL"     envDefault:""`
	ClientID     string `env:"CLIENT_ID"     envDefault:""`
	ClientSecret string `env:"CLIENT_SECRET" envDefault:""`
}

// TrackerConfig contains job lifecycle tracker settings.
type TrackerConfig struct {
	// PollInterval is the observe re-poll cadence when push is unavailable.
	PollInterval time.Duration `env:"TRACKER_POLL_INTERVAL" envDefault:"5s"`
}

// Sanitize applies guardrails to tracker configuration values.
func (c *TrackerConfig) Sanitize() {
	if c.PollInterval <= 0 {
		c.PollInterval = 5 * time.Second
	}
}

// ApplyConfig contains PatchSet apply settings.
type ApplyConfig struct {
	// LockTTL bounds the per-PatchSet apply lock. The lock only guards against
	// concurrent applies of the same PatchSet id; it does not make applies
	// idempotent.
	LockTTL time.Duration `env:"APPLY_LOCK_TTL" envDefault:"30s"`
}

// Sanitize applies guardrails to apply configuration values.
func (c *ApplyConfig) Sanitize() {
	if c.LockTTL <= 0 {
		c.LockTTL = 30 * time.Second
	}
}
