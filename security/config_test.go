package security

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", nil, false},
		{"zero complexity", func(c *Config) { c.MaxComplexity = 0 }, true},
		{"zero window", func(c *Config) { c.RateLimitWindow = 0 }, true},
		{"zero rate limit", func(c *Config) { c.RateLimitMaxRequests = 0 }, true},
		{"zero timeout", func(c *Config) { c.QueryTimeout = 0 }, true},
		{"zero incident window", func(c *Config) { c.IncidentWindow = 0 }, true},
		{"zero incident threshold", func(c *Config) { c.IncidentThreshold = 0 }, true},
		{"retention below threshold", func(c *Config) { c.MaxIncidents = 5 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			if tt.mutate != nil {
				tt.mutate(&config)
			}
			err := config.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "guard.yaml")
	content := `
max_complexity: 250
query_timeout: 10s
whitelist:
  - "SELECT ?s WHERE { ?s ?p ?o }"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 250, config.MaxComplexity)
	assert.Equal(t, 10*time.Second, config.QueryTimeout)

	// Omitted fields keep their defaults.
	assert.Equal(t, DefaultConfig().RateLimitMaxRequests, config.RateLimitMaxRequests)
	assert.Len(t, config.Whitelist, 1)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadConfigBadDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "guard.yaml")
	require.NoError(t, os.WriteFile(path, []byte("query_timeout: soon\n"), 0o600))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}
