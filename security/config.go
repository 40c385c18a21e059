// Package security guards query execution: it validates incoming queries
// against unauthorized operations and injection patterns, scores structural
// complexity, enforces per-client rate limits and per-query timeouts with
// resource tracking, and records incidents that can escalate the guard into
// emergency mode.
package security

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/c360studio/semgraph/errors"
)

// Config configures the query security guard.
type Config struct {
	// MaxComplexity is the highest complexity score a query may carry
	// before it is rejected without executing.
	MaxComplexity int `json:"max_complexity" yaml:"max_complexity"`

	// RateLimitWindow is the fixed window over which per-client request
	// counts accumulate.
	RateLimitWindow time.Duration `json:"rate_limit_window" yaml:"rate_limit_window"`

	// RateLimitMaxRequests is the number of requests a single client may
	// make within one window.
	RateLimitMaxRequests int `json:"rate_limit_max_requests" yaml:"rate_limit_max_requests"`

	// QueryTimeout is the execution deadline applied to every query,
	// whitelisted or not.
	QueryTimeout time.Duration `json:"query_timeout" yaml:"query_timeout"`

	// IncidentWindow is the lookback window for counting incidents toward
	// the emergency-mode threshold.
	IncidentWindow time.Duration `json:"incident_window" yaml:"incident_window"`

	// IncidentThreshold is the number of incidents within IncidentWindow
	// that flips the guard into emergency mode.
	IncidentThreshold int `json:"incident_threshold" yaml:"incident_threshold"`

	// MaxIncidents caps the retained incident history.
	MaxIncidents int `json:"max_incidents" yaml:"max_incidents"`

	// Whitelist holds exact query texts that bypass validation and rate
	// limiting. Whitelisted queries are still subject to the complexity
	// threshold and the execution timeout.
	Whitelist []string `json:"whitelist,omitempty" yaml:"whitelist,omitempty"`
}

// DefaultConfig returns the guard defaults.
func DefaultConfig() Config {
	return Config{
		MaxComplexity:        100,
		RateLimitWindow:      time.Minute,
		RateLimitMaxRequests: 10,
		QueryTimeout:         5 * time.Second,
		IncidentWindow:       5 * time.Minute,
		IncidentThreshold:    10,
		MaxIncidents:         1000,
	}
}

// rawConfig mirrors Config for YAML decoding, with durations as strings.
type rawConfig struct {
	MaxComplexity        *int     `yaml:"max_complexity"`
	RateLimitWindow      string   `yaml:"rate_limit_window"`
	RateLimitMaxRequests *int     `yaml:"rate_limit_max_requests"`
	QueryTimeout         string   `yaml:"query_timeout"`
	IncidentWindow       string   `yaml:"incident_window"`
	IncidentThreshold    *int     `yaml:"incident_threshold"`
	MaxIncidents         *int     `yaml:"max_incidents"`
	Whitelist            []string `yaml:"whitelist"`
}

// LoadConfig reads a YAML guard configuration from path. Omitted fields keep
// their defaults; durations are strings like "30s" or "5m".
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "security", "LoadConfig", "read config file")
	}
	var raw rawConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Config{}, errors.WrapInvalid(err, "security", "LoadConfig", "parse config file")
	}

	config := DefaultConfig()
	if raw.MaxComplexity != nil {
		config.MaxComplexity = *raw.MaxComplexity
	}
	if raw.RateLimitMaxRequests != nil {
		config.RateLimitMaxRequests = *raw.RateLimitMaxRequests
	}
	if raw.IncidentThreshold != nil {
		config.IncidentThreshold = *raw.IncidentThreshold
	}
	if raw.MaxIncidents != nil {
		config.MaxIncidents = *raw.MaxIncidents
	}
	if raw.Whitelist != nil {
		config.Whitelist = raw.Whitelist
	}
	for _, field := range []struct {
		value  string
		target *time.Duration
		name   string
	}{
		{raw.RateLimitWindow, &config.RateLimitWindow, "rate_limit_window"},
		{raw.QueryTimeout, &config.QueryTimeout, "query_timeout"},
		{raw.IncidentWindow, &config.IncidentWindow, "incident_window"},
	} {
		if field.value == "" {
			continue
		}
		d, err := time.ParseDuration(field.value)
		if err != nil {
			return Config{}, errors.WrapInvalid(errors.ErrInvalidConfig, "security", "LoadConfig",
				fmt.Sprintf("%s: bad duration %q", field.name, field.value))
		}
		*field.target = d
	}

	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

// Validate checks configuration invariants.
func (c Config) Validate() error {
	if c.MaxComplexity <= 0 {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "security", "Validate",
			fmt.Sprintf("max_complexity must be positive, got %d", c.MaxComplexity))
	}
	if c.RateLimitWindow <= 0 {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "security", "Validate",
			fmt.Sprintf("rate_limit_window must be positive, got %v", c.RateLimitWindow))
	}
	if c.RateLimitMaxRequests <= 0 {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "security", "Validate",
			fmt.Sprintf("rate_limit_max_requests must be positive, got %d", c.RateLimitMaxRequests))
	}
	if c.QueryTimeout <= 0 {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "security", "Validate",
			fmt.Sprintf("query_timeout must be positive, got %v", c.QueryTimeout))
	}
	if c.IncidentWindow <= 0 {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "security", "Validate",
			fmt.Sprintf("incident_window must be positive, got %v", c.IncidentWindow))
	}
	if c.IncidentThreshold <= 0 {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "security", "Validate",
			fmt.Sprintf("incident_threshold must be positive, got %d", c.IncidentThreshold))
	}
	if c.MaxIncidents < c.IncidentThreshold {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "security", "Validate",
			fmt.Sprintf("max_incidents %d must be at least incident_threshold %d", c.MaxIncidents, c.IncidentThreshold))
	}
	return nil
}
