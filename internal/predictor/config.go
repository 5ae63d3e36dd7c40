package predictor

import (
	"fmt"
	"net/url"
	"time"
)

// Config configures the HTTP predictor.
type Config struct {
	// BaseURL of the service; /predict and /health are appended.
	BaseURL string `mapstructure:"url"`

	// Timeout bounds a single request. Default: 10s.
	Timeout time.Duration `mapstructure:"timeout"`
}

// DefaultConfig returns the local development service address.
func DefaultConfig() Config {
	return Config{
		BaseURL: "http://localhost:5000",
		Timeout: 10 * time.Second,
	}
}

// Validate checks the base URL and timeout.
func (c Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("predictor url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("predictor url %q must use http or https", c.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("predictor url %q has no host", c.BaseURL)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("predictor timeout must be positive, got %s", c.Timeout)
	}
	return nil
}
