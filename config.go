package shieldcore

import "errors"

// Config defines a public type used by shieldcore APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Store    StoreConfig
	Activity ActivityConfig
	Ops      OpsConfig
	Metrics  MetricsConfig
}

/*
====================================
STORE CONFIG
====================================
*/

// StoreConfig defines a public type used by shieldcore APIs.
//
// StoreConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type StoreConfig struct {
	// Prefix is the key namespace prepended to every store access.
	Prefix string
}

/*
====================================
ACTIVITY CONFIG
====================================
*/

// ActivityConfig defines a public type used by shieldcore APIs.
//
// ActivityConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type ActivityConfig struct {
	// DefaultPageSize caps log reads that do not name a limit.
	DefaultPageSize int
	// MaxPageSize is the hard ceiling for any single log read.
	MaxPageSize int
}

/*
====================================
OPS CONFIG
====================================
*/

// OpsConfig controls the operational event dispatcher that carries log-write
// failures and authorization denials to the host's sink.
type OpsConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

/*
====================================
METRICS CONFIG
====================================
*/

// MetricsConfig defines a public type used by shieldcore APIs.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

// DefaultConfig returns the production defaults: the senator namespace,
// odyssey-style paging caps, a drop-if-full operational buffer, and metrics
// enabled without latency histograms.
func DefaultConfig() Config {
	return Config{
		Store: StoreConfig{
			Prefix: "senator:",
		},
		Activity: ActivityConfig{
			DefaultPageSize: 20,
			MaxPageSize:     100,
		},
		Ops: OpsConfig{
			Enabled:    true,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

func defaultConfig() Config {
	return DefaultConfig()
}

func cloneConfig(cfg Config) Config {
	// Config holds no reference types; a value copy is a deep copy.
	return cfg
}

// Validate checks the configuration for internally inconsistent values.
func (c *Config) Validate() error {
	if c.Activity.DefaultPageSize <= 0 {
		return errors.New("Activity DefaultPageSize must be > 0")
	}
	if c.Activity.MaxPageSize <= 0 {
		return errors.New("Activity MaxPageSize must be > 0")
	}
	if c.Activity.DefaultPageSize > c.Activity.MaxPageSize {
		return errors.New("Activity DefaultPageSize must not exceed MaxPageSize")
	}
	if c.Ops.Enabled && c.Ops.BufferSize < 0 {
		return errors.New("Ops BufferSize must be >= 0")
	}
	return nil
}
