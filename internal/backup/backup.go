// Package backup collects device configurations over SSH. Devices come from
// a CSV inventory; each device's show-command output lands in its own
// directory under the configured output root. A failing device is logged and
// skipped, never fatal for the run.
package backup

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fabricsnap/fabricsnap/internal/format"
)

const fileTimeLayout = "20060102-150405"

// Device is one inventory row. An empty Platform means detect it from the
// SSH server banner at connect time.
type Device struct {
	Host     string
	Platform string
}

// DeviceResult is the outcome of backing up one device.
type DeviceResult struct {
	Host     string
	Platform string
	Files    []string
	Err      error
}

// Runner executes configuration backups for an inventory of devices.
type Runner struct {
	Inventory string
	OutputDir string
	Username  string
	Password  string
	Timeout   time.Duration

	log *slog.Logger

	// dial is swapped in tests.
	dial func(ctx context.Context, host, username, password string, timeout time.Duration) (deviceShell, error)
}

// deviceShell is the slice of shellSession the runner depends on.
type deviceShell interface {
	Banner() string
	RunCommand(ctx context.Context, command string) ([]string, error)
	Close() error
}

// NewRunner wires a Runner. Pass nil for a no-op logger.
func NewRunner(inventory, outputDir, username, password string, timeout time.Duration, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(noopWriter{}, nil))
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Runner{
		Inventory: inventory,
		OutputDir: outputDir,
		Username:  username,
		Password:  password,
		Timeout:   timeout,
		log:       logger,
		dial: func(ctx context.Context, host, username, password string, timeout time.Duration) (deviceShell, error) {
			return dialShell(ctx, host, username, password, timeout)
		},
	}
}

// Run backs up every inventory device in order. Per-device failures are
// recorded in the result and logged; only an unreadable inventory is an
// error.
func (r *Runner) Run(ctx context.Context) ([]DeviceResult, error) {
	devices, err := LoadInventory(r.Inventory)
	if err != nil {
		return nil, err
	}

	results := make([]DeviceResult, 0, len(devices))
	for _, dev := range devices {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		res := r.backupDevice(ctx, dev)
		if res.Err != nil {
			r.log.Warn("device backup failed, continuing", "host", dev.Host, "error", res.Err)
		} else {
			r.log.Info("device backed up", "host", dev.Host, "platform", res.Platform, "files", len(res.Files))
		}
		results = append(results, res)
	}
	return results, nil
}

// backupDevice connects to one device, resolves its platform and saves every
// platform command's output to its own file.
func (r *Runner) backupDevice(ctx context.Context, dev Device) DeviceResult {
	res := DeviceResult{Host: dev.Host, Platform: dev.Platform}

	dctx, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	shell, err := r.dial(dctx, dev.Host, r.Username, r.Password, r.Timeout)
	if err != nil {
		res.Err = fmt.Errorf("backup %s: %w", dev.Host, err)
		return res
	}
	defer shell.Close()

	if res.Platform == "" {
		res.Platform = DetectPlatform(shell.Banner())
		r.log.Debug("platform detected from banner", "host", dev.Host, "platform", res.Platform)
	}

	if paging := pagingOff[res.Platform]; paging != "" {
		if _, err := shell.RunCommand(dctx, paging); err != nil {
			res.Err = fmt.Errorf("backup %s: disable paging: %w", dev.Host, err)
			return res
		}
	}

	stamp := time.Now().Format(fileTimeLayout)
	for _, command := range commandsFor(res.Platform) {
		lines, err := shell.RunCommand(dctx, command)
		if err != nil {
			res.Err = fmt.Errorf("backup %s: %q: %w", dev.Host, command, err)
			return res
		}
		path := outputPath(r.OutputDir, dev.Host, command, stamp)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			res.Err = fmt.Errorf("backup %s: %w", dev.Host, err)
			return res
		}
		if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
			res.Err = fmt.Errorf("backup %s: %w", dev.Host, err)
			return res
		}
		res.Files = append(res.Files, path)
	}
	return res
}

// outputPath builds <dir>/<host>/<host>_<command-slug>_<timestamp>.cfg.
func outputPath(dir, host, command, stamp string) string {
	name := fmt.Sprintf("%s_%s_%s.cfg", host, format.Slug(command), stamp)
	return filepath.Join(dir, host, name)
}

// LoadInventory reads a host,platform CSV. The platform column is optional;
// blank lines are skipped.
func LoadInventory(path string) ([]Device, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("LoadInventory: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("LoadInventory %s: %w", path, err)
	}

	devices := make([]Device, 0, len(records))
	for _, row := range records {
		if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			continue
		}
		dev := Device{Host: strings.TrimSpace(row[0])}
		if len(row) > 1 {
			dev.Platform = strings.ToLower(strings.TrimSpace(row[1]))
		}
		devices = append(devices, dev)
	}
	return devices, nil
}

// DetectPlatform maps an SSH server banner to a platform name. Unrecognized
// banners fall back to "ios".
func DetectPlatform(banner string) string {
	b := strings.ToLower(banner)
	switch {
	case strings.Contains(b, "cisco"):
		switch {
		case strings.Contains(b, "ios-xe") || strings.Contains(b, "iosxe"):
			return "ios"
		case strings.Contains(b, "nx-os") || strings.Contains(b, "nexus"):
			return "nxos"
		case strings.Contains(b, "asa"):
			return "asa"
		}
		return "ios"
	case strings.Contains(b, "juniper") || strings.Contains(b, "junos"):
		return "junos"
	case strings.Contains(b, "arista") || strings.Contains(b, "eos"):
		return "eos"
	}
	return "ios"
}

// pagingOff is the per-platform command that disables output pagination.
var pagingOff = map[string]string{
	"ios":   "terminal length 0",
	"nxos":  "terminal length 0",
	"asa":   "terminal pager 0",
	"junos": "set cli screen-length 0",
	"eos":   "terminal length 0",
}

// platformCommands lists what gets collected per platform.
var platformCommands = map[string][]string{
	"ios":   {"show running-config", "show startup-config", "show version"},
	"nxos":  {"show running-config", "show startup-config", "show version"},
	"asa":   {"show running-config", "show version"},
	"junos": {"show configuration", "show version"},
	"eos":   {"show running-config", "show startup-config", "show version"},
}

// commandsFor returns the command set for a platform, defaulting to ios.
func commandsFor(platform string) []string {
	if cmds, ok := platformCommands[platform]; ok {
		return cmds
	}
	return platformCommands["ios"]
}

type noopWriter struct{}

func (noopWriter) Write(p []byte) (int, error) { return len(p), nil }
