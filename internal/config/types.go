package config

import "time"

// Config represents the probectl configuration file structure
type Config struct {
	// Kubeconfig is the kubeconfig path used by kubernetes probes
	Kubeconfig string `yaml:"kubeconfig,omitempty" json:"kubeconfig,omitempty"`

	// Defaults contains default settings for probe runs
	Defaults DefaultsConfig `yaml:"defaults,omitempty" json:"defaults,omitempty"`

	// Metrics configures the optional metrics textfile
	Metrics MetricsConfig `yaml:"metrics,omitempty" json:"metrics,omitempty"`

	// Log configures the diagnostic logger
	Log LogConfig `yaml:"log,omitempty" json:"log,omitempty"`
}

// DefaultsConfig contains default values applied to every run
type DefaultsConfig struct {
	// Retries is used by probes that do not set their own
	Retries int `yaml:"retries" json:"retries"`

	// Backoff is the delay between attempts of probes that do not set one
	Backoff time.Duration `yaml:"backoff,omitempty" json:"backoff,omitempty"`

	// Timeout bounds a single probe attempt
	Timeout time.Duration `yaml:"timeout,omitempty" json:"timeout,omitempty"`

	// Mode is the worker pool mode (parallel, serial)
	Mode string `yaml:"mode,omitempty" json:"mode,omitempty"`

	// OutputFormat is the final report format (table, json, yaml)
	OutputFormat string `yaml:"outputFormat,omitempty" json:"outputFormat,omitempty"`

	// NoColor disables colored output
	NoColor bool `yaml:"noColor,omitempty" json:"noColor,omitempty"`

	// NoSymbols disables the status symbols in console output
	NoSymbols bool `yaml:"noSymbols,omitempty" json:"noSymbols,omitempty"`

	// HideRetryMessages omits failure details under RETRY lines
	HideRetryMessages bool `yaml:"hideRetryMessages,omitempty" json:"hideRetryMessages,omitempty"`
}

// MetricsConfig configures metrics export
type MetricsConfig struct {
	// Textfile is where the node-exporter textfile is written after a run
	Textfile string `yaml:"textfile,omitempty" json:"textfile,omitempty"`
}

// LogConfig configures logging
type LogConfig struct {
	// Format is text or json
	Format string `yaml:"format,omitempty" json:"format,omitempty"`
}
