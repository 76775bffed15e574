package bar

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"atombar.dev/pkg/inventory"
)

// Config is the server's startup configuration, assembled from the command
// line and the optional -config file.
type Config struct {
	InitialCarbon   uint64 `yaml:"carbon"`
	InitialOxygen   uint64 `yaml:"oxygen"`
	InitialHydrogen uint64 `yaml:"hydrogen"`

	TCPPort int `yaml:"tcp-port"`
	UDPPort int `yaml:"udp-port"`

	// Timeout is the inactivity timeout in seconds; zero disables it.
	Timeout int `yaml:"timeout"`

	StreamPath string `yaml:"stream-path"`
	DgramPath  string `yaml:"datagram-path"`
	SaveFile   string `yaml:"save-file"`
}

func (c *Config) validate() error {
	if c.TCPPort < 1 || c.TCPPort > 65535 {
		return fmt.Errorf("-tcp-port must be in 1..65535, got %d", c.TCPPort)
	}
	if c.UDPPort < 1 || c.UDPPort > 65535 {
		return fmt.Errorf("-udp-port must be in 1..65535, got %d", c.UDPPort)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("-timeout must not be negative, got %d", c.Timeout)
	}
	for _, initial := range []struct {
		name string
		n    uint64
	}{
		{"carbon", c.InitialCarbon},
		{"oxygen", c.InitialOxygen},
		{"hydrogen", c.InitialHydrogen},
	} {
		if initial.n > inventory.MaxAtoms {
			return fmt.Errorf("-%s must be at most %d, got %d",
				initial.name, inventory.MaxAtoms, initial.n)
		}
	}
	return nil
}

func readConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return cfg, nil
}
