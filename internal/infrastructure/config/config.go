package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for the below importer.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Exporter   ExporterConfig   `yaml:"exporter"`
	Runtime    RuntimeConfig    `yaml:"runtime"`
	Prometheus PrometheusConfig `yaml:"prometheus"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ExporterConfig controls how the below exporter is invoked.
type ExporterConfig struct {
	// Command overrides the container invocation entirely.
	// Tokens are used verbatim as the argv prefix (e.g. ["below"] or
	// ["sudo", "/usr/local/bin/below"]). When empty, the exporter runs
	// inside a freshly pulled container image instead.
	Command []string `yaml:"command"`

	// Image is the exporter container image used when Command is empty.
	Image string `yaml:"image"`

	// StoreDir is the on-host below data store, bind-mounted into the
	// exporter container when importing from the live host.
	StoreDir string `yaml:"store_dir"`

	// Pull controls whether the image is pulled before every run.
	// The image moves with each below release, so this defaults to true.
	Pull bool `yaml:"pull"`
}

// RuntimeConfig contains container-runtime settings.
type RuntimeConfig struct {
	// Binary is the container runtime executable (docker, podman, ...).
	Binary string `yaml:"binary"`
}

// PrometheusConfig contains settings for the compose-managed Prometheus
// instance that receives the imported blocks.
type PrometheusConfig struct {
	// Service is the compose service name.
	Service string `yaml:"service"`

	// ImportPath is where the staged export lands inside the container.
	ImportPath string `yaml:"import_path"`

	// DataDir is Prometheus's storage directory inside the container.
	DataDir string `yaml:"data_dir"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Environment variables recognised by Load.
const (
	// EnvExporter overrides the exporter command line (space-separated
	// tokens), bypassing the container image.
	EnvExporter = "BELOW"

	// EnvRuntime overrides the container runtime executable name.
	EnvRuntime = "DOCKER"

	// EnvConfigPath overrides the configuration file path.
	EnvConfigPath = "BELOW_IMPORT_CONFIG"
)

// defaultConfigPath is where Load looks when EnvConfigPath is unset.
// A missing file at this path is not an error; the importer is expected
// to work with no configuration file at all.
const defaultConfigPath = "below-import.yaml"

// Load builds the configuration for one importer run.
//
// The loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// The configuration file is optional: if the path came from the default
// rather than BELOW_IMPORT_CONFIG and the file does not exist, defaults
// are used. An explicitly configured path must exist.
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If the file cannot be read or parsed, or validation fails
func Load() (*Config, error) {
	cfg := defaultConfig()

	path, explicit := configPath()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if unmarshalErr := yaml.Unmarshal(data, cfg); unmarshalErr != nil {
			return nil, fmt.Errorf("parsing config file: %w", unmarshalErr)
		}
	case os.IsNotExist(err) && !explicit:
		// No config file; run on defaults.
	default:
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// configPath returns the configuration file path and whether it was
// explicitly set via environment.
func configPath() (string, bool) {
	if path := os.Getenv(EnvConfigPath); path != "" {
		return path, true
	}
	return defaultConfigPath, false
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		Exporter: ExporterConfig{
			Image:    "below/below:latest",
			StoreDir: "/var/log/below/",
			Pull:     true,
		},
		Runtime: RuntimeConfig{
			Binary: "docker",
		},
		Prometheus: PrometheusConfig{
			Service:    "prometheus",
			ImportPath: "/import.txt",
			DataDir:    "/prometheus",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the config.
//
// BELOW replaces the exporter command line (space-separated tokens).
// DOCKER replaces the container runtime binary.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(EnvExporter); v != "" {
		cfg.Exporter.Command = strings.Fields(v)
	}
	if v := os.Getenv(EnvRuntime); v != "" {
		cfg.Runtime.Binary = v
	}
}

// Validate checks the configuration for missing or inconsistent values.
func (c *Config) Validate() error {
	if len(c.Exporter.Command) == 0 {
		if c.Exporter.Image == "" {
			return fmt.Errorf("exporter.image is required when no exporter command is set")
		}
		if c.Exporter.StoreDir == "" {
			return fmt.Errorf("exporter.store_dir is required when no exporter command is set")
		}
	}

	if c.Runtime.Binary == "" {
		return fmt.Errorf("runtime.binary is required")
	}

	if c.Prometheus.Service == "" {
		return fmt.Errorf("prometheus.service is required")
	}
	if !strings.HasPrefix(c.Prometheus.ImportPath, "/") {
		return fmt.Errorf("prometheus.import_path must be absolute, got %q", c.Prometheus.ImportPath)
	}
	if !strings.HasPrefix(c.Prometheus.DataDir, "/") {
		return fmt.Errorf("prometheus.data_dir must be absolute, got %q", c.Prometheus.DataDir)
	}

	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error; got %q", c.Logging.Level)
	}

	return nil
}
