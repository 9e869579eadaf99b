package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/fabricsnap/fabricsnap/internal/model"
)

// Default values applied when fields are absent from the config file.
const (
	DefaultPasswordEnv       = "FABRICSNAP_PASSWORD"
	DefaultBackupPasswordEnv = "FABRICSNAP_BACKUP_PASSWORD"
	DefaultSnapshotDir       = "snapshots"
	DefaultReportDir         = "reports"
	DefaultRequestTimeout    = 30 * time.Second
	DefaultFaultLookbackH    = 20

	DefaultHealthThreshold    = 90
	DefaultCPUMemThreshold    = 75
	DefaultInterfaceThreshold = 0
)

// Config is the top-level configuration. Fields map 1:1 to
// config.example.yaml.
type Config struct {
	// Fabric holds the controller connection settings.
	Fabric FabricConfig `yaml:"fabric"`

	// SnapshotDir is where snapshot documents are written and listed.
	SnapshotDir string `yaml:"snapshot_dir"`

	// ReportDir is where XLSX exports are written.
	ReportDir string `yaml:"report_dir"`

	// Thresholds drive the health-check classifier.
	Thresholds model.Thresholds `yaml:"thresholds"`

	// FaultLookbackHours bounds the health-check fault window; 0 disables
	// the window and reports every matching fault.
	FaultLookbackHours int `yaml:"fault_lookback_hours"`

	// LogFile receives structured logs while the TUI owns the terminal.
	// Empty discards them.
	LogFile string `yaml:"log_file"`

	// Backup configures the legacy device config backup.
	Backup BackupConfig `yaml:"backup"`
}

// FabricConfig holds the controller connection settings.
type FabricConfig struct {
	// Host is the controller address, optionally with a port.
	Host string `yaml:"host"`

	// Username is the login name (safe to store in config).
	Username string `yaml:"username"`

	// PasswordEnv is the name of the environment variable that holds the
	// password. The password itself never lives in the file.
	PasswordEnv string `yaml:"password_env"`

	// Insecure disables TLS certificate verification. Controllers commonly
	// run self-signed certs on management networks.
	Insecure bool `yaml:"insecure"`

	// Timeout bounds each API request.
	Timeout time.Duration `yaml:"timeout"`
}

// Password returns the controller password resolved from the environment.
// Returns empty string if PasswordEnv is unset or the variable is not found.
func (f FabricConfig) Password() string {
	if f.PasswordEnv == "" {
		return ""
	}
	return os.Getenv(f.PasswordEnv)
}

// BackupConfig configures the legacy device config backup.
type BackupConfig struct {
	// Inventory is the path of the CSV device inventory (host,platform).
	Inventory string `yaml:"inventory"`

	// OutputDir is the root directory backups are written under.
	OutputDir string `yaml:"output_dir"`

	// Username is the SSH login name shared by the inventory devices.
	Username string `yaml:"username"`

	// PasswordEnv is the name of the environment variable that holds the
	// SSH password.
	PasswordEnv string `yaml:"password_env"`

	// Timeout bounds the SSH dial and each command.
	Timeout time.Duration `yaml:"timeout"`
}

// Password returns the SSH password resolved from the environment.
func (b BackupConfig) Password() string {
	if b.PasswordEnv == "" {
		return ""
	}
	return os.Getenv(b.PasswordEnv)
}

// FaultLookback returns the fault window as a duration.
func (c *Config) FaultLookback() time.Duration {
	return time.Duration(c.FaultLookbackHours) * time.Hour
}

// Load reads and parses the YAML config file at path. Missing optional
// fields are filled with defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// Default returns a Config pre-populated with default values. Host and
// username have no defaults; they come from the file or from flags.
func Default() *Config {
	return &Config{
		Fabric: FabricConfig{
			PasswordEnv: DefaultPasswordEnv,
			Timeout:     DefaultRequestTimeout,
		},
		SnapshotDir: DefaultSnapshotDir,
		ReportDir:   DefaultReportDir,
		Thresholds: model.Thresholds{
			Health:          DefaultHealthThreshold,
			CPUMem:          DefaultCPUMemThreshold,
			InterfaceErrors: DefaultInterfaceThreshold,
		},
		FaultLookbackHours: DefaultFaultLookbackH,
		Backup: BackupConfig{
			PasswordEnv: DefaultBackupPasswordEnv,
			Timeout:     DefaultRequestTimeout,
		},
	}
}

// validate checks structural constraints. Host is not required here: flags
// may supply it after loading.
func validate(cfg *Config) error {
	t := cfg.Thresholds
	if t.Health < 0 || t.Health > 100 {
		return fmt.Errorf("thresholds.health must be between 0 and 100, got %d", t.Health)
	}
	if t.CPUMem < 0 || t.CPUMem > 100 {
		return fmt.Errorf("thresholds.cpu_mem must be between 0 and 100, got %g", t.CPUMem)
	}
	if t.InterfaceErrors < 0 {
		return fmt.Errorf("thresholds.interface_errors must not be negative, got %d", t.InterfaceErrors)
	}
	if cfg.FaultLookbackHours < 0 {
		return fmt.Errorf("fault_lookback_hours must not be negative, got %d", cfg.FaultLookbackHours)
	}
	if cfg.Fabric.Timeout < 0 {
		return fmt.Errorf("fabric.timeout must not be negative, got %v", cfg.Fabric.Timeout)
	}
	if cfg.SnapshotDir == "" {
		return fmt.Errorf("snapshot_dir must not be empty")
	}
	return nil
}
