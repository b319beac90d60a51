package config

import "time"

// HTTPConfig contains HTTP server configuration.
type HTTPConfig struct {
	// Addr is the address to bind the HTTP server to.
	Addr string `env:"HTTP_ADDR" envDefault:":8080"`

	// ReadTimeout bounds how long reading a request may take.
	ReadTimeout time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"15s"`

	// WriteTimeout bounds how long writing a response may take. Kept at zero
	// for the job observe stream, which writes for as long as a job runs;
	// per-handler deadlines guard the JSON endpoints instead.
	WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"0"`

	// ShutdownGrace is the drain window on graceful shutdown.
	ShutdownGrace time.Duration `env:"HTTP_SHUTDOWN_GRACE" envDefault:"10s"`
}

// Sanitize applies guardrails to HTTP configuration values.
func (h *HTTPConfig) Sanitize() {
	if h.ReadTimeout <= 0 {
		h.ReadTimeout = 15 * time.Second
	}
	if h.WriteTimeout < 0 {
		h.WriteTimeout = 0
	}
	if h.ShutdownGrace <= 0 {
		h.ShutdownGrace = 10 * time.Second
	}
}
