// YAML config loader with CUE validation integration
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"netintel-sim/internal/scenario"
)

// ComponentCounts is the number of components seeded per type in a region.
type ComponentCounts struct {
	RadioAccess int `yaml:"radio_access"`
	Core        int `yaml:"core"`
	Edge        int `yaml:"edge"`
	Transport   int `yaml:"transport"`
}

// Region seeds one simulated region.
type Region struct {
	ID               string          `yaml:"id"`
	Name             string          `yaml:"name"`
	BaseStations     int             `yaml:"base_stations"`
	ConnectedDevices int             `yaml:"connected_devices"`
	Load             float64         `yaml:"load"`
	Weather          string          `yaml:"weather"`
	TemperatureC     float64         `yaml:"temperature_c"`
	Components       ComponentCounts `yaml:"components"`
}

// SimulationConfig tunes the state walk.
type SimulationConfig struct {
	TickInterval             time.Duration `yaml:"tick_interval"`
	Seed                     int64         `yaml:"seed"`
	WalkStep                 float64       `yaml:"walk_step"`
	MeanReversion            float64       `yaml:"mean_reversion"`
	EventProbability         float64       `yaml:"event_probability"`
	WeatherChangeProbability float64       `yaml:"weather_change_probability"`
	EventHistory             int           `yaml:"event_history"`
}

// JobsConfig schedules async jobs in ticks.
type JobsConfig struct {
	StartDelay  uint64  `yaml:"start_delay"`
	MinRunTicks uint64  `yaml:"min_run_ticks"`
	MaxRunTicks uint64  `yaml:"max_run_ticks"`
	FailureRate float64 `yaml:"failure_rate"`
}

// LatencyBand is an artificial response delay range.
type LatencyBand struct {
	Min time.Duration `yaml:"min"`
	Max time.Duration `yaml:"max"`
}

// LatencyConfig holds the delay bands per endpoint class.
type LatencyConfig struct {
	Simple    LatencyBand `yaml:"simple"`
	Composite LatencyBand `yaml:"composite"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// GreptimeConfig enables the GreptimeDB export sink when Endpoint is set.
type GreptimeConfig struct {
	Endpoint string `yaml:"endpoint"`
	Database string `yaml:"database"`
}

// Config is the root configuration.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Simulation    SimulationConfig    `yaml:"simulation"`
	Jobs          JobsConfig          `yaml:"jobs"`
	Latency       LatencyConfig       `yaml:"latency"`
	Thresholds    scenario.Thresholds `yaml:"thresholds"`
	Greptime      GreptimeConfig      `yaml:"greptime"`
	ScenariosFile string              `yaml:"scenarios_file"`
	Regions       []Region            `yaml:"regions"`
}

// Default returns the built-in configuration: six regions and a 5s tick.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Addr: ":8080", ShutdownTimeout: 5 * time.Second},
		Simulation: SimulationConfig{
			TickInterval:             5 * time.Second,
			Seed:                     1,
			WalkStep:                 1.5,
			MeanReversion:            0.05,
			EventProbability:         0.05,
			WeatherChangeProbability: 0.1,
			EventHistory:             200,
		},
		Jobs:       JobsConfig{StartDelay: 0, MinRunTicks: 2, MaxRunTicks: 6, FailureRate: 0.1},
		Thresholds: scenario.DefaultThresholds(),
		Greptime:   GreptimeConfig{Database: "public"},
		Regions:    DefaultRegions(),
	}
}

var defaultComponents = ComponentCounts{RadioAccess: 3, Core: 1, Edge: 2, Transport: 1}

// DefaultRegions returns the six seed regions.
func DefaultRegions() []Region {
	std := defaultComponents
	return []Region{
		{ID: "region-northwest-01", Name: "Pacific Northwest", BaseStations: 127, ConnectedDevices: 234891, Load: 0.67, Weather: "cloudy", TemperatureC: 15.5, Components: std},
		{ID: "region-northeast-02", Name: "New England", BaseStations: 156, ConnectedDevices: 398456, Load: 0.72, Weather: "clear", TemperatureC: 8.2, Components: std},
		{ID: "region-southwest-03", Name: "Southwest", BaseStations: 189, ConnectedDevices: 567234, Load: 0.58, Weather: "sunny", TemperatureC: 28.7, Components: std},
		{ID: "region-southeast-04", Name: "Southeast", BaseStations: 201, ConnectedDevices: 645123, Load: 0.69, Weather: "humid", TemperatureC: 24.1, Components: std},
		{ID: "region-central-05", Name: "Central Plains", BaseStations: 98, ConnectedDevices: 123789, Load: 0.43, Weather: "windy", TemperatureC: 12.8, Components: std},
		{ID: "region-west-06", Name: "West Coast", BaseStations: 234, ConnectedDevices: 789456, Load: 0.81, Weather: "foggy", TemperatureC: 18.3, Components: std},
	}
}

// Load reads configPath, validates it against the CUE schema and layers it
// over Default. An empty schemaPath uses the embedded schema.
func Load(configPath, schemaPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := ValidateWithCue(configPath, data, schemaPath); err != nil {
		return nil, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	for i := range cfg.Regions {
		if cfg.Regions[i].Components == (ComponentCounts{}) {
			cfg.Regions[i].Components = defaultComponents
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from environment variables.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("NETSIM_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("TICK_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("TICK_INTERVAL: %w", err)
		}
		c.Simulation.TickInterval = d
	}
	if v := os.Getenv("NETSIM_SEED"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("NETSIM_SEED: %w", err)
		}
		c.Simulation.Seed = n
	}
	if v := os.Getenv("GREPTIMEDB_ENDPOINT"); v != "" {
		c.Greptime.Endpoint = v
	}
	if v := os.Getenv("GREPTIMEDB_DATABASE"); v != "" {
		c.Greptime.Database = v
	}
	return nil
}

// Validate performs semantic checks the schema cannot express.
func (c *Config) Validate() error {
	var errs []error
	if c.Simulation.TickInterval <= 0 {
		errs = append(errs, errors.New("simulation.tick_interval must be positive"))
	}
	if c.Jobs.MinRunTicks == 0 || c.Jobs.MaxRunTicks < c.Jobs.MinRunTicks {
		errs = append(errs, fmt.Errorf("jobs: need 0 < min_run_ticks (%d) <= max_run_ticks (%d)", c.Jobs.MinRunTicks, c.Jobs.MaxRunTicks))
	}
	if c.Latency.Simple.Max < c.Latency.Simple.Min || c.Latency.Composite.Max < c.Latency.Composite.Min {
		errs = append(errs, errors.New("latency: max must not be below min"))
	}
	if err := c.Thresholds.Scenario.Check(); err != nil {
		errs = append(errs, err)
	}
	if len(c.Regions) == 0 {
		errs = append(errs, errors.New("at least one region is required"))
	}
	seen := make(map[string]bool, len(c.Regions))
	for _, r := range c.Regions {
		if seen[r.ID] {
			errs = append(errs, fmt.Errorf("duplicate region id %q", r.ID))
		}
		seen[r.ID] = true
		n := r.Components
		if n.RadioAccess+n.Core+n.Edge+n.Transport == 0 {
			errs = append(errs, fmt.Errorf("region %q has no components", r.ID))
		}
	}
	return errors.Join(errs...)
}
