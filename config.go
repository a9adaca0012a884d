package saga

import (
	"fmt"

	"github.com/viant/saga/policy"
	"gopkg.in/yaml.v3"
)

// Config is a serialisable representation of the runtime configuration.
// It can be populated from JSON, YAML, environment glue, etc. The
// zero-value is useful – all nested fields inherit their package
// defaults.

type Config struct {
	// DevMode enables argument checking and forbidden-state assertions
	// on channels.
	DevMode bool `json:"devMode" yaml:"devMode"`

	Monitor MonitorConfig  `json:"monitor" yaml:"monitor"`
	Policy  *policy.Config `json:"policy,omitempty" yaml:"policy,omitempty"`
}

// MonitorConfig selects the optional event-bus monitor backend.
type MonitorConfig struct {
	// Vendor is the queue backend publishing effect lifecycle events:
	// "", "memory" or "fs".
	Vendor string `json:"vendor,omitempty" yaml:"vendor,omitempty"`

	// BasePath is the queue directory for the fs vendor.
	BasePath string `json:"basePath,omitempty" yaml:"basePath,omitempty"`
}

// DefaultConfig returns a Config populated with the package defaults.
func DefaultConfig() *Config {
	return &Config{}
}

// NewConfigFromYAML decodes a Config from YAML bytes.
func NewConfigFromYAML(data []byte) (*Config, error) {
	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to decode config YAML: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate returns an error describing the first invalid setting, or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	switch c.Monitor.Vendor {
	case "", "memory":
	case "fs":
		if c.Monitor.BasePath == "" {
			return fmt.Errorf("monitor.basePath is required for the fs vendor")
		}
	default:
		return fmt.Errorf("unsupported monitor vendor: %s", c.Monitor.Vendor)
	}
	return nil
}
