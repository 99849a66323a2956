package main

import (
	"fmt"
	"os"
	"path/filepath"

	"wearctl/internal/bridge"
	"wearctl/internal/config"
	"wearctl/internal/debuglog"
	"wearctl/internal/history"
	"wearctl/internal/profile"

	"github.com/spf13/cobra"
)

func doctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Run diagnostic checks on your wearctl installation",
		Long: `Verifies that wearctl's configuration, the adb executable, the run
log, the history database and the profiles directory are correctly set
up. Reports pass/fail for each check.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath := resolveConfigPath()
			fmt.Printf("wearctl Doctor v%s\n", version)
			fmt.Printf("----------------------------------------\n\n")

			passed := 0
			failed := 0
			warned := 0

			// 1. Config file exists
			if _, err := os.Stat(cfgPath); err != nil {
				printFail("Config file", fmt.Sprintf("not found at %s", cfgPath))
				failed++
				fmt.Printf("\nRun 'wearctl init' to create a default configuration.\n")
				return fmt.Errorf("1 check(s) failed")
			}
			printPass("Config file", cfgPath)
			passed++

			// 2. Config loads and validates
			cfg, err := config.Load(cfgPath)
			if err != nil {
				printFail("Config validation", err.Error())
				failed++
				cfg = config.Defaults()
				config.ExpandPaths(cfg)
			} else {
				printPass("Config validation", "valid")
				passed++
			}

			// 3. adb locatable
			ctx, stop := rootContext()
			defer stop()
			probeLog, _ := debuglog.New("", os.Stderr)
			fallbacks := cfg.Bridge.FallbackPaths
			if len(fallbacks) == 0 {
				fallbacks = bridge.DefaultFallbackPaths()
			}
			toolPath, err := bridge.Locate(ctx, newRunner(cfg), cfg.Bridge.Tool, fallbacks, probeLog)
			if err != nil {
				printFail("adb executable", fmt.Sprintf("%s not found on PATH or fallback paths", cfg.Bridge.Tool))
				failed++
			} else {
				printPass("adb executable", toolPath)
				passed++
			}

			// 4. Run log writable
			if cfg.General.LogFile != "" {
				if err := checkRunLog(cfg.General.LogFile); err != nil {
					printWarn("Run log", err.Error())
					warned++
				} else {
					printPass("Run log", cfg.General.LogFile)
					passed++
				}
			} else {
				printWarn("Run log", "not configured (memory only)")
				warned++
			}

			// 5. History database
			if cfg.History.Enabled {
				if err := checkHistoryDB(cfg.History.DBPath); err != nil {
					printFail("History database", err.Error())
					failed++
				} else {
					printPass("History database", cfg.History.DBPath)
					passed++
				}
			} else {
				printWarn("History database", "disabled")
				warned++
			}

			// 6. Profiles directory
			profiles, err := profile.LoadDir(cfg.Profiles.Dir, logger)
			if err != nil {
				printWarn("Profiles", err.Error())
				warned++
			} else {
				printPass("Profiles", fmt.Sprintf("%d profile(s) in %s", len(profiles), cfg.Profiles.Dir))
				passed++
			}

			// Summary
			fmt.Printf("\n----------------------------------------\n")
			fmt.Printf("Results: %d passed, %d warnings, %d failed\n", passed, warned, failed)
			if failed > 0 {
				fmt.Printf("\nPlease fix the failed checks before running wearctl.\n")
				return fmt.Errorf("%d check(s) failed", failed)
			}
			if warned > 0 {
				fmt.Printf("\nwearctl should work but consider fixing the warnings.\n")
			} else {
				fmt.Printf("\nAll checks passed! wearctl is ready to run.\n")
			}
			return nil
		},
	}
}

func checkRunLog(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("cannot create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("cannot open for append: %w", err)
	}
	return f.Close()
}

func checkHistoryDB(path string) error {
	store, err := history.NewStore(path, logger)
	if err != nil {
		return err
	}
	return store.Close()
}

func printPass(check, detail string) {
	fmt.Printf("  [PASS] %-20s %s\n", check, detail)
}

func printFail(check, detail string) {
	fmt.Printf("  [FAIL] %-20s %s\n", check, detail)
}

func printWarn(check, detail string) {
	fmt.Printf("  [WARN] %-20s %s\n", check, detail)
}
