package config

import (
	"os"
	"path/filepath"
	"testing"
)

// setEnv sets an environment variable for the duration of a test.
func setEnv(t *testing.T, key, value string) {
	t.Helper()
	original, had := os.LookupEnv(key)
	if value == "" {
		os.Unsetenv(key)
	} else {
		os.Setenv(key, value)
	}
	t.Cleanup(func() {
		if had {
			os.Setenv(key, original)
		} else {
			os.Unsetenv(key)
		}
	})
}

// clearEnv removes all recognised variables so tests start from defaults.
func clearEnv(t *testing.T) {
	t.Helper()
	setEnv(t, EnvExporter, "")
	setEnv(t, EnvRuntime, "")
	setEnv(t, EnvConfigPath, "")
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Exporter.Image != "below/below:latest" {
		t.Errorf("Exporter.Image = %q, want %q", cfg.Exporter.Image, "below/below:latest")
	}
	if cfg.Exporter.StoreDir != "/var/log/below/" {
		t.Errorf("Exporter.StoreDir = %q, want %q", cfg.Exporter.StoreDir, "/var/log/below/")
	}
	if !cfg.Exporter.Pull {
		t.Error("Exporter.Pull = false, want true")
	}
	if cfg.Runtime.Binary != "docker" {
		t.Errorf("Runtime.Binary = %q, want %q", cfg.Runtime.Binary, "docker")
	}
	if cfg.Prometheus.Service != "prometheus" {
		t.Errorf("Prometheus.Service = %q, want %q", cfg.Prometheus.Service, "prometheus")
	}
	if cfg.Prometheus.ImportPath != "/import.txt" {
		t.Errorf("Prometheus.ImportPath = %q, want %q", cfg.Prometheus.ImportPath, "/import.txt")
	}
	if cfg.Prometheus.DataDir != "/prometheus" {
		t.Errorf("Prometheus.DataDir = %q, want %q", cfg.Prometheus.DataDir, "/prometheus")
	}
}

func TestLoad_ValidConfigFile(t *testing.T) {
	clearEnv(t)

	content := `
exporter:
  image: "below/below:v0.8.0"
  store_dir: "/srv/below/"
  pull: false
runtime:
  binary: "podman"
prometheus:
  service: "prom"
logging:
  level: debug
`
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "below-import.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	setEnv(t, EnvConfigPath, configPath)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Exporter.Image != "below/below:v0.8.0" {
		t.Errorf("Exporter.Image = %q, want %q", cfg.Exporter.Image, "below/below:v0.8.0")
	}
	if cfg.Exporter.Pull {
		t.Error("Exporter.Pull = true, want false")
	}
	if cfg.Runtime.Binary != "podman" {
		t.Errorf("Runtime.Binary = %q, want %q", cfg.Runtime.Binary, "podman")
	}
	if cfg.Prometheus.Service != "prom" {
		t.Errorf("Prometheus.Service = %q, want %q", cfg.Prometheus.Service, "prom")
	}
	// Unset file values keep defaults.
	if cfg.Prometheus.ImportPath != "/import.txt" {
		t.Errorf("Prometheus.ImportPath = %q, want default %q", cfg.Prometheus.ImportPath, "/import.txt")
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	clearEnv(t)
	setEnv(t, EnvConfigPath, "/nonexistent/path/below-import.yaml")

	_, err := Load()
	if err == nil {
		t.Error("Load() expected error for missing explicit config file, got nil")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	clearEnv(t)

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "below-import.yaml")
	if err := os.WriteFile(configPath, []byte("exporter: [not: a map"), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	setEnv(t, EnvConfigPath, configPath)

	_, err := Load()
	if err == nil {
		t.Error("Load() expected error for invalid YAML, got nil")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	setEnv(t, EnvExporter, "sudo /usr/local/bin/below")
	setEnv(t, EnvRuntime, "podman")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := []string{"sudo", "/usr/local/bin/below"}
	if len(cfg.Exporter.Command) != len(want) {
		t.Fatalf("Exporter.Command = %v, want %v", cfg.Exporter.Command, want)
	}
	for i := range want {
		if cfg.Exporter.Command[i] != want[i] {
			t.Errorf("Exporter.Command[%d] = %q, want %q", i, cfg.Exporter.Command[i], want[i])
		}
	}
	if cfg.Runtime.Binary != "podman" {
		t.Errorf("Runtime.Binary = %q, want %q", cfg.Runtime.Binary, "podman")
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)

	content := `
runtime:
  binary: "nerdctl"
`
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "below-import.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	setEnv(t, EnvConfigPath, configPath)
	setEnv(t, EnvRuntime, "podman")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Runtime.Binary != "podman" {
		t.Errorf("Runtime.Binary = %q, want env override %q", cfg.Runtime.Binary, "podman")
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config { return defaultConfig() }

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "defaults are valid",
			mutate:  func(*Config) {},
			wantErr: false,
		},
		{
			name: "exporter override needs no image",
			mutate: func(c *Config) {
				c.Exporter.Command = []string{"below"}
				c.Exporter.Image = ""
				c.Exporter.StoreDir = ""
			},
			wantErr: false,
		},
		{
			name: "missing image without override",
			mutate: func(c *Config) {
				c.Exporter.Image = ""
			},
			wantErr: true,
		},
		{
			name: "missing store dir without override",
			mutate: func(c *Config) {
				c.Exporter.StoreDir = ""
			},
			wantErr: true,
		},
		{
			name: "missing runtime binary",
			mutate: func(c *Config) {
				c.Runtime.Binary = ""
			},
			wantErr: true,
		},
		{
			name: "missing prometheus service",
			mutate: func(c *Config) {
				c.Prometheus.Service = ""
			},
			wantErr: true,
		},
		{
			name: "relative import path",
			mutate: func(c *Config) {
				c.Prometheus.ImportPath = "import.txt"
			},
			wantErr: true,
		},
		{
			name: "relative data dir",
			mutate: func(c *Config) {
				c.Prometheus.DataDir = "prometheus"
			},
			wantErr: true,
		},
		{
			name: "unknown log level",
			mutate: func(c *Config) {
				c.Logging.Level = "verbose"
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
