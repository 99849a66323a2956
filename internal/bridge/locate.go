package bridge

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// ErrToolNotFound is returned when the adb executable cannot be resolved
// from PATH or any of the fallback locations.
var ErrToolNotFound = errors.New("adb executable not found")

// DefaultFallbackPaths lists well-known adb install locations, probed in
// order when `which` comes up empty.
func DefaultFallbackPaths() []string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return []string{
		filepath.Join(home, "Android", "Sdk", "platform-tools", "adb"),
		filepath.Join(home, "android-sdk", "platform-tools", "adb"),
		"/usr/local/bin/adb",
		"/usr/bin/adb",
		"/opt/android-sdk/platform-tools/adb",
	}
}

// Locate resolves the path of the bridge tool. It first asks the shell
// via `which`; if that fails or prints nothing it probes the fallback
// paths and returns the first non-empty file. Probe errors are logged
// and treated as not-found rather than propagated.
func Locate(ctx context.Context, run Runner, tool string, fallbacks []string, log Log) (string, error) {
	res := run.Run(ctx, "which "+tool)
	if res.OK() {
		if path := strings.TrimSpace(res.Stdout); path != "" {
			log.Logf("located %s via which: %s", tool, path)
			return path, nil
		}
	}
	log.Logf("which %s failed (exit=%d), probing fallback paths", tool, res.ExitCode)

	for _, path := range fallbacks {
		info, err := os.Stat(path)
		if err != nil {
			if !os.IsNotExist(err) {
				log.Logf("probe %s: %v", path, err)
			}
			continue
		}
		if info.Mode().IsRegular() && info.Size() > 0 {
			log.Logf("located %s at fallback path: %s", tool, path)
			return path, nil
		}
	}
	return "", ErrToolNotFound
}
