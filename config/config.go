// Package config loads server configuration from a YAML file, following
// reinforcement.FromYaml's two-stage unmarshal: viper reads an outer
// envelope, whose body is re-marshalled and parsed by yaml.v3 into the
// concrete Config. The two passes aren't required by this format on their
// own, but it's how this codebase's config stack works.
package config

import (
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Defaults mirror the world spawner's own constants, used whenever a field
// is absent from the config file.
const (
	DefaultTickRate        = 30
	DefaultStationDiameter = 10.0
	DefaultTicksPerWeek    = 4200
)

// outerConfig is the envelope viper decodes directly: a kind tag plus an
// opaque body, mirroring reinforcement.OuterConfig.
type outerConfig struct {
	Kind string      `mapstructure:"kind"`
	Body interface{} `mapstructure:"body"`
}

// Config is the fully resolved server configuration. The yaml tags are
// lower-case because viper lower-cases every key it reads, so the body
// re-marshalled from viper's settings carries lower-case keys whatever the
// file's own spelling (listenAddr and listenaddr both decode).
type Config struct {
	// ListenAddr is the address the websocket/HTTP server binds to.
	ListenAddr string `yaml:"listenaddr"`
	// FrontEndAddr is the address serving the front-end page, if different
	// from ListenAddr.
	FrontEndAddr string `yaml:"frontendaddr"`
	// ShutdownHost, if set, is the peer address a failed websocket handshake
	// must come from to terminate the listener. An in-process test
	// affordance; leave unset in normal deployment.
	ShutdownHost string `yaml:"shutdownhost"`

	// TickRate is ticks per second for the simulation loop.
	TickRate int `yaml:"tickrate"`

	// World bounds and geometry.
	MinBoundX       float64 `yaml:"minboundx"`
	MinBoundY       float64 `yaml:"minboundy"`
	MaxBoundX       float64 `yaml:"maxboundx"`
	MaxBoundY       float64 `yaml:"maxboundy"`
	StationDiameter float64 `yaml:"stationdiameter"`
	TicksPerWeek    int     `yaml:"ticksperweek"`
}

// applyDefaults fills in zero-valued fields with their documented defaults.
func (c *Config) applyDefaults() {
	if c.TickRate == 0 {
		c.TickRate = DefaultTickRate
	}
	if c.StationDiameter == 0 {
		c.StationDiameter = DefaultStationDiameter
	}
	if c.TicksPerWeek == 0 {
		c.TicksPerWeek = DefaultTicksPerWeek
	}
}

// LoadConfig reads and parses the YAML file at path, applying defaults for
// any field the file omits.
func LoadConfig(path string) (*Config, error) {
	vp := viper.New()
	vp.SetConfigFile(path)
	vp.SetConfigType("yaml")
	vp.AddConfigPath(filepath.Dir(path))
	if err := vp.ReadInConfig(); err != nil {
		return nil, err
	}

	outer := &outerConfig{}
	if err := vp.Unmarshal(outer); err != nil {
		return nil, err
	}

	body, err := yaml.Marshal(outer.Body)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(body, cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}
