package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wearctl/internal/bridge"
	"wearctl/internal/config"
	"wearctl/internal/debuglog"
	"wearctl/internal/history"
	"wearctl/internal/profile"
	"wearctl/internal/prompt"
	"wearctl/internal/session"

	"github.com/spf13/cobra"
)

var (
	version    = "0.1.0"
	logger     *slog.Logger
	configPath string // overridable via --config flag
)

func main() {
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	root := &cobra.Command{
		Use:   "wearctl",
		Short: "wearctl: pair and inspect a wearable over adb",
		Long: `wearctl pairs and connects a Wear OS device over wireless debugging
using the Android Debug Bridge, then reports installed packages and
storage usage. Running wearctl without a subcommand starts the
interactive connect flow.`,
		RunE: runConnect,
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config.json (default: ~/.wearctl/config.json)")

	root.AddCommand(initCmd())
	root.AddCommand(connectCmd())
	root.AddCommand(devicesCmd())
	root.AddCommand(appsCmd())
	root.AddCommand(storageCmd())
	root.AddCommand(historyCmd())
	root.AddCommand(configCmd())
	root.AddCommand(doctorCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// resolveConfigPath returns the config path from --config flag or default.
func resolveConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return config.DefaultConfigPath()
}

func loadConfig() *config.Config {
	cfgPath := resolveConfigPath()
	cfg, err := config.Load(cfgPath)
	if err != nil {
		logger.Warn("config not found, using defaults", "path", cfgPath, "err", err)
		cfg = config.Defaults()
		config.ExpandPaths(cfg)
	}
	return cfg
}

func newLogger(level string) *slog.Logger {
	var l slog.Level
	switch level {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l}))
}

func newRunner(cfg *config.Config) bridge.ShellRunner {
	return bridge.ShellRunner{Timeout: time.Duration(cfg.Bridge.TimeoutSeconds) * time.Second}
}

// newRunLog opens the configured run-log file, falling back to a
// memory-only log when the file cannot be opened.
func newRunLog(cfg *config.Config) *debuglog.Logger {
	runLog, err := debuglog.New(cfg.General.LogFile, os.Stdout)
	if err != nil {
		logger.Warn("cannot open run log file, logging to memory only", "err", err)
		runLog, _ = debuglog.New("", os.Stdout)
	}
	return runLog
}

func rootContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize config, profiles directory and history database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgDir := config.DefaultConfigDir()
			cfgPath := config.DefaultConfigPath()
			if err := os.MkdirAll(cfgDir, 0o755); err != nil {
				return err
			}
			cfg := config.Defaults()
			if err := config.Save(cfgPath, cfg); err != nil {
				return err
			}
			loaded, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(loaded.Profiles.Dir, 0o755); err != nil {
				return err
			}
			logger.Info("initialized", "config", cfgPath, "profiles", loaded.Profiles.Dir)
			return nil
		},
	}
}

func connectCmd() *cobra.Command {
	var profileName string
	cmd := &cobra.Command{
		Use:   "connect",
		Short: "Pair and connect a device interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			return connectFlow(profileName)
		},
	}
	cmd.Flags().StringVarP(&profileName, "profile", "p", "", "saved device profile to connect to (skips prompts)")
	return cmd
}

func runConnect(cmd *cobra.Command, args []string) error {
	return connectFlow("")
}

func connectFlow(profileName string) error {
	cfg := loadConfig()
	logger = newLogger(cfg.General.LogLevel)

	runLog := newRunLog(cfg)
	defer runLog.Close()

	var store *history.Store
	if cfg.History.Enabled {
		var err error
		store, err = history.NewStore(cfg.History.DBPath, logger)
		if err != nil {
			logger.Warn("history disabled for this run", "err", err)
			store = nil
		} else {
			defer store.Close()
		}
	}

	var preset *session.Params
	if profileName != "" {
		profiles, err := profile.LoadDir(cfg.Profiles.Dir, logger)
		if err != nil {
			return err
		}
		p, ok := profile.Find(profiles, profileName)
		if !ok {
			return fmt.Errorf("profile %q not found in %s", profileName, cfg.Profiles.Dir)
		}
		preset = &session.Params{Address: p.Address, Port: p.Port}
	}

	ctx, stop := rootContext()
	defer stop()

	sess := &session.Session{
		Config:  cfg,
		Runner:  newRunner(cfg),
		Log:     runLog,
		History: store,
		Prompt:  prompt.New(os.Stdin, os.Stdout),
		Out:     os.Stdout,
		Logger:  logger,
	}
	return sess.Run(ctx, preset)
}

// newClient locates adb and returns a client for the one-shot
// subcommands (devices, apps, storage).
func newClient(ctx context.Context, cfg *config.Config, runLog *debuglog.Logger) (*bridge.Client, error) {
	fallbacks := cfg.Bridge.FallbackPaths
	if len(fallbacks) == 0 {
		fallbacks = bridge.DefaultFallbackPaths()
	}
	run := newRunner(cfg)
	path, err := bridge.Locate(ctx, run, cfg.Bridge.Tool, fallbacks, runLog)
	if err != nil {
		return nil, err
	}
	return bridge.NewClient(path, run, runLog), nil
}

func devicesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "devices",
		Short: "Show attached devices and the connection verdict",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			runLog, _ := debuglog.New("", os.Stderr)
			ctx, stop := rootContext()
			defer stop()

			client, err := newClient(ctx, cfg, runLog)
			if err != nil {
				return err
			}
			res := client.Devices(ctx)
			if !res.OK() {
				return fmt.Errorf("adb devices failed: %s", res.Stderr)
			}
			devices := bridge.ParseDevices(res.Stdout)
			if len(devices) == 0 {
				fmt.Println("No devices attached.")
				return nil
			}
			fmt.Printf("%-28s %s\n", "SERIAL", "STATE")
			for _, d := range devices {
				fmt.Printf("%-28s %s\n", d.Serial, d.State)
			}
			return nil
		},
	}
}

func appsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "apps",
		Short: "List packages installed on the connected device",
		RunE: func(cmd *cobra.Command, args []string) error {
			return infoCommand(func(ctx context.Context, client *bridge.Client) bridge.Outcome {
				return client.ListPackages(ctx)
			}, "packages")
		},
	}
}

func storageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "storage",
		Short: "Show storage usage on the connected device",
		RunE: func(cmd *cobra.Command, args []string) error {
			return infoCommand(func(ctx context.Context, client *bridge.Client) bridge.Outcome {
				return client.DiskFree(ctx)
			}, "storage")
		},
	}
}

func infoCommand(op func(context.Context, *bridge.Client) bridge.Outcome, action string) error {
	cfg := loadConfig()
	runLog, _ := debuglog.New("", os.Stderr)
	ctx, stop := rootContext()
	defer stop()

	client, err := newClient(ctx, cfg, runLog)
	if err != nil {
		return err
	}
	outcome := op(ctx, client)
	recordOne(ctx, cfg, action, outcome)

	switch outcome.Status {
	case bridge.StatusOK:
		fmt.Print(outcome.Result.Stdout)
		return nil
	case bridge.StatusOffline:
		return fmt.Errorf("device is offline; re-pair or re-connect wireless debugging and try again")
	default:
		return fmt.Errorf("%s query failed: %s", action, outcome.Result.Stderr)
	}
}

func recordOne(ctx context.Context, cfg *config.Config, action string, outcome bridge.Outcome) {
	if !cfg.History.Enabled {
		return
	}
	store, err := history.NewStore(cfg.History.DBPath, logger)
	if err != nil {
		logger.Warn("cannot open history database", "err", err)
		return
	}
	defer store.Close()
	rec := history.Record{Action: action, ExitCode: outcome.Result.ExitCode}
	if err := store.Append(ctx, rec); err != nil {
		logger.Warn("cannot record operation", "err", err)
	}
}

func historyCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent bridge operations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			if !cfg.History.Enabled {
				return fmt.Errorf("history is disabled in the config")
			}
			store, err := history.NewStore(cfg.History.DBPath, logger)
			if err != nil {
				return err
			}
			defer store.Close()

			ctx, stop := rootContext()
			defer stop()

			records, err := store.Recent(ctx, limit)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Println("No recorded operations.")
				return nil
			}
			fmt.Printf("%-20s %-10s %-22s %-5s %s\n", "WHEN", "ACTION", "TARGET", "EXIT", "DETAIL")
			for _, rec := range records {
				fmt.Printf("%-20s %-10s %-22s %-5d %s\n",
					rec.CreatedAt.Format("2006-01-02 15:04:05"), rec.Action, rec.Target, rec.ExitCode, rec.Detail)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of operations to show")
	return cmd
}

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or modify the configuration",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "get <path>",
		Short: "Print a config value by dot path (e.g. bridge.tool)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			val, err := config.GetByPath(cfg, args[0])
			if err != nil {
				return err
			}
			fmt.Println(val)
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "set <path> <value>",
		Short: "Set a config value by dot path and save",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath := resolveConfigPath()
			cfg := loadConfig()
			if err := config.SetByPath(cfg, args[0], args[1]); err != nil {
				return err
			}
			if err := config.Validate(cfg); err != nil {
				return err
			}
			if err := config.Save(cfgPath, cfg); err != nil {
				return err
			}
			logger.Info("config updated", "path", args[0], "value", args[1])
			return nil
		},
	})
	return cmd
}
