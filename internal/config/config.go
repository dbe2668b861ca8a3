package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/aryankumar/probectl/internal/executor"
	"github.com/aryankumar/probectl/internal/util"
)

const (
	defaultConfigName = ".probectl"
	envPrefix         = "PROBECTL"
)

// Default values used when neither the config file nor the environment set them
const (
	DefaultRetries = 0
	DefaultBackoff = time.Second
	DefaultTimeout = 30 * time.Second
	DefaultMode    = "parallel"
	DefaultOutput  = "table"
	DefaultLog     = "text"
)

// Manager handles probectl configuration
type Manager struct {
	configPath string
	config     *Config
	viper      *viper.Viper
}

// NewManager creates a new configuration manager
func NewManager(configPath string) *Manager {
	return &Manager{
		configPath: configPath,
		viper:      viper.New(),
		config:     &Config{},
	}
}

// Viper exposes the underlying viper instance so flags can be bound to it
func (m *Manager) Viper() *viper.Viper {
	return m.viper
}

// Load loads the configuration from file and environment
func (m *Manager) Load() (*Config, error) {
	if m.configPath != "" {
		m.viper.SetConfigFile(m.configPath)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}

		// ~/.probectl.yaml
		m.viper.AddConfigPath(home)
		m.viper.SetConfigName(defaultConfigName)
		m.viper.SetConfigType("yaml")
	}

	// PROBECTL_DEFAULTS_RETRIES overrides defaults.retries
	m.viper.SetEnvPrefix(envPrefix)
	m.viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	m.viper.AutomaticEnv()
	setDefaults(m.viper)

	m.config = &Config{}

	if err := m.viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := m.viper.Unmarshal(m.config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	m.applyDefaults()

	if err := m.config.Validate(); err != nil {
		return nil, err
	}

	return m.config, nil
}

// GetConfig returns the current configuration
func (m *Manager) GetConfig() *Config {
	return m.config
}

// ConfigFileUsed returns the config file that was read, if any
func (m *Manager) ConfigFileUsed() string {
	return m.viper.ConfigFileUsed()
}

// setDefaults registers every key so AutomaticEnv can override it during Unmarshal
func setDefaults(v *viper.Viper) {
	v.SetDefault("kubeconfig", "")
	v.SetDefault("defaults.retries", DefaultRetries)
	v.SetDefault("defaults.backoff", DefaultBackoff)
	v.SetDefault("defaults.timeout", DefaultTimeout)
	v.SetDefault("defaults.mode", DefaultMode)
	v.SetDefault("defaults.outputFormat", DefaultOutput)
	v.SetDefault("defaults.noColor", false)
	v.SetDefault("defaults.noSymbols", false)
	v.SetDefault("defaults.hideRetryMessages", false)
	v.SetDefault("metrics.textfile", "")
	v.SetDefault("log.format", DefaultLog)
}

// applyDefaults replaces empty values left by an explicit but blank config entry
func (m *Manager) applyDefaults() {
	if m.config == nil {
		return
	}

	if m.config.Defaults.Timeout == 0 {
		m.config.Defaults.Timeout = DefaultTimeout
	}

	if m.config.Defaults.Mode == "" {
		m.config.Defaults.Mode = DefaultMode
	}

	if m.config.Defaults.OutputFormat == "" {
		m.config.Defaults.OutputFormat = DefaultOutput
	}

	if m.config.Log.Format == "" {
		m.config.Log.Format = DefaultLog
	}
}

// Validate checks the configuration values
func (c *Config) Validate() error {
	var errs util.MultiError

	if c.Defaults.Retries < 0 {
		errs.Add(fmt.Errorf("%w: defaults.retries must not be negative, got %d", util.ErrInvalidConfig, c.Defaults.Retries))
	}
	if c.Defaults.Backoff < 0 {
		errs.Add(fmt.Errorf("%w: defaults.backoff must not be negative, got %s", util.ErrInvalidConfig, c.Defaults.Backoff))
	}
	if c.Defaults.Timeout < 0 {
		errs.Add(fmt.Errorf("%w: defaults.timeout must not be negative, got %s", util.ErrInvalidConfig, c.Defaults.Timeout))
	}

	if _, err := executor.ParseMode(c.Defaults.Mode); err != nil {
		errs.Add(fmt.Errorf("%w: defaults.mode: %w", util.ErrInvalidConfig, err))
	}

	switch strings.ToLower(c.Defaults.OutputFormat) {
	case "table", "json", "yaml":
	default:
		errs.Add(fmt.Errorf("%w: defaults.outputFormat must be table, json or yaml, got %q", util.ErrInvalidConfig, c.Defaults.OutputFormat))
	}

	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs.Add(fmt.Errorf("%w: log.format must be text or json, got %q", util.ErrInvalidConfig, c.Log.Format))
	}

	return errs.ErrorOrNil()
}
