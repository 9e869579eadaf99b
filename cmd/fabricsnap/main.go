package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fabricsnap/fabricsnap/internal/backup"
	"github.com/fabricsnap/fabricsnap/internal/client"
	"github.com/fabricsnap/fabricsnap/internal/config"
	"github.com/fabricsnap/fabricsnap/internal/engine"
	"github.com/fabricsnap/fabricsnap/internal/model"
	"github.com/fabricsnap/fabricsnap/internal/report"
	"github.com/fabricsnap/fabricsnap/internal/snapstore"
	"github.com/fabricsnap/fabricsnap/internal/tui"
)

func main() {
	var (
		configPath = flag.String("config", "", "path of the YAML config file")
		host       = flag.String("host", "", "controller address, overrides the config file")
		user       = flag.String("user", "", "controller login name, overrides the config file")
		dir        = flag.String("dir", "", "snapshot directory, overrides the config file")
		insecure   = flag.Bool("insecure", false, "skip TLS certificate verification")
		take       = flag.Bool("take", false, "take one snapshot and exit")
		check      = flag.Bool("check", false, "run one health check and exit; exit code 1 on FAIL")
		compare    = flag.Bool("compare", false, "compare the two latest snapshots and exit")
		doBackup   = flag.Bool("backup", false, "back up the inventory device configs and exit")
	)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: fabricsnap [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Without a mode flag the interactive TUI starts.\n\n")
		fmt.Fprintf(os.Stderr, "examples:\n")
		fmt.Fprintf(os.Stderr, "  fabricsnap -config fabricsnap.yaml\n")
		fmt.Fprintf(os.Stderr, "  fabricsnap -host apic.example.net -user admin -take\n")
		fmt.Fprintf(os.Stderr, "  FABRICSNAP_PASSWORD=... fabricsnap -config fabricsnap.yaml -check\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "error: unexpected argument %q\n", flag.Arg(0))
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := loadConfig(*configPath, *host, *user, *dir, *insecure)
	if err != nil {
		fatal(err)
	}

	modes := 0
	for _, m := range []bool{*take, *check, *compare, *doBackup} {
		if m {
			modes++
		}
	}
	if modes > 1 {
		fatal(fmt.Errorf("choose at most one of -take, -check, -compare, -backup"))
	}

	if modes == 0 {
		logger, closeLog, err := tuiLogger(cfg.LogFile)
		if err != nil {
			fatal(err)
		}
		defer closeLog()

		store := snapstore.New(cfg.SnapshotDir, logger)
		if err := tui.Run(tui.Deps{Config: cfg, Store: store, Logger: logger}); err != nil {
			fatal(err)
		}
		return
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	store := snapstore.New(cfg.SnapshotDir, logger)
	ctx := context.Background()

	switch {
	case *take:
		err = runTake(ctx, cfg, store, logger)
	case *check:
		err = runCheck(ctx, cfg, logger)
	case *compare:
		err = runCompare(cfg, store)
	case *doBackup:
		err = runBackup(ctx, cfg, logger)
	}
	if err != nil {
		fatal(err)
	}
}

// loadConfig reads the config file when given and applies flag
// overrides. Without a file the defaults apply, so flags alone are
// enough to run against a fabric.
func loadConfig(path, host, user, dir string, insecure bool) (*config.Config, error) {
	cfg := config.Default()
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if host != "" {
		cfg.Fabric.Host = host
	}
	if user != "" {
		cfg.Fabric.Username = user
	}
	if dir != "" {
		cfg.SnapshotDir = dir
	}
	if insecure {
		cfg.Fabric.Insecure = true
	}

	if cfg.Fabric.Host == "" {
		return nil, fmt.Errorf("controller host is required (set fabric.host in the config or pass -host)")
	}
	return cfg, nil
}

// tuiLogger routes structured logs away from the terminal the TUI owns:
// to the configured log file, or nowhere.
func tuiLogger(path string) (*slog.Logger, func(), error) {
	if path == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return slog.New(slog.NewTextHandler(f, nil)), func() { f.Close() }, nil
}

// connect builds a client, logs in and returns a ready collector.
func connect(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*engine.Collector, error) {
	api, err := client.NewDefaultClient(client.ClientConfig{
		Host:               cfg.Fabric.Host,
		Username:           cfg.Fabric.Username,
		Password:           cfg.Fabric.Password(),
		InsecureSkipVerify: cfg.Fabric.Insecure,
		RequestTimeout:     cfg.Fabric.Timeout,
	})
	if err != nil {
		return nil, err
	}
	if err := api.Login(ctx); err != nil {
		return nil, err
	}
	return engine.NewCollector(api, logger, engine.CollectorOptions{
		Host:          cfg.Fabric.Host,
		Thresholds:    cfg.Thresholds,
		FaultLookback: cfg.FaultLookback(),
	}), nil
}

func runTake(ctx context.Context, cfg *config.Config, store *snapstore.Store, logger *slog.Logger) error {
	col, err := connect(ctx, cfg, logger)
	if err != nil {
		return err
	}
	snap, err := col.TakeSnapshot(ctx)
	if err != nil {
		return err
	}
	name, err := store.Save(snap)
	if err != nil {
		return err
	}
	fmt.Printf("saved %s\n", name)
	return nil
}

func runCheck(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	col, err := connect(ctx, cfg, logger)
	if err != nil {
		return err
	}
	rep, err := col.CollectHealth(ctx)
	if err != nil {
		return err
	}
	fmt.Println(report.RenderHealth(rep))

	path, err := report.WriteHealthWorkbook(cfg.ReportDir, rep)
	if err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)

	// Cron callers read the exit code; the rendered banner above already
	// explains the failure.
	if rep.Summary.OverallStatus == model.StatusFail {
		os.Exit(1)
	}
	return nil
}

func runCompare(cfg *config.Config, store *snapstore.Store) error {
	before, after, err := store.LatestPair()
	if err != nil {
		return err
	}
	b, err := store.Load(before.Name)
	if err != nil {
		return err
	}
	a, err := store.Load(after.Name)
	if err != nil {
		return err
	}
	diff := engine.Compare(b, a)
	fmt.Println(report.RenderDiff(&diff, before.Name, after.Name))

	path, err := report.WriteDiffWorkbook(cfg.ReportDir, &diff)
	if err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}

func runBackup(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	r := backup.NewRunner(
		cfg.Backup.Inventory,
		cfg.Backup.OutputDir,
		cfg.Backup.Username,
		cfg.Backup.Password(),
		cfg.Backup.Timeout,
		logger,
	)
	results, err := r.Run(ctx)
	if err != nil {
		return err
	}

	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
			fmt.Printf("failed  %s: %v\n", res.Host, res.Err)
			continue
		}
		fmt.Printf("saved   %s (%s): %d files\n", res.Host, res.Platform, len(res.Files))
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d devices failed", failed, len(results))
	}
	return nil
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
