package config

import (
	"os"
	"path/filepath"
	"testing"
)

// --- Validate ---

func TestValidate_ValidConfig(t *testing.T) {
	cfg := Defaults()
	if err := Validate(cfg); err != nil {
		t.Fatalf("expected valid config, got: %v", err)
	}
}

func TestValidate_EmptyTool(t *testing.T) {
	cfg := Defaults()
	cfg.Bridge.Tool = "  "
	if err := Validate(cfg); err == nil {
		t.Fatal("expected error for empty bridge.tool")
	}
}

func TestValidate_TimeoutTooLow(t *testing.T) {
	cfg := Defaults()
	cfg.Bridge.TimeoutSeconds = 0
	if err := Validate(cfg); err == nil {
		t.Fatal("expected error for timeoutSeconds=0")
	}
}

func TestValidate_BadLogLevel(t *testing.T) {
	cfg := Defaults()
	cfg.General.LogLevel = "loud"
	if err := Validate(cfg); err == nil {
		t.Fatal("expected error for unknown log level")
	}
}

func TestValidate_HistoryWithoutPath(t *testing.T) {
	cfg := Defaults()
	cfg.History.DBPath = ""
	if err := Validate(cfg); err == nil {
		t.Fatal("expected error for enabled history without dbPath")
	}
}

// --- Load / Save ---

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	cfg := Defaults()
	cfg.Bridge.Tool = "adb"
	cfg.Bridge.TimeoutSeconds = 10
	cfg.Bridge.FallbackPaths = []string{"/opt/adb"}

	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Bridge.TimeoutSeconds != 10 {
		t.Errorf("timeoutSeconds: got %d", loaded.Bridge.TimeoutSeconds)
	}
	if len(loaded.Bridge.FallbackPaths) != 1 || loaded.Bridge.FallbackPaths[0] != "/opt/adb" {
		t.Errorf("fallbackPaths: got %v", loaded.Bridge.FallbackPaths)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestLoad_ExpandsEnvVars(t *testing.T) {
	t.Setenv("WEARCTL_TEST_TOOL", "/custom/adb")
	path := filepath.Join(t.TempDir(), "config.json")
	body := `{"bridge": {"tool": "${WEARCTL_TEST_TOOL}", "timeoutSeconds": 5}}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Bridge.Tool != "/custom/adb" {
		t.Errorf("tool: got %q", cfg.Bridge.Tool)
	}
}

func TestExpandEnvVars_Default(t *testing.T) {
	got := ExpandEnvVars("${WEARCTL_UNSET_VAR:-fallback}")
	if got != "fallback" {
		t.Errorf("got %q, want fallback", got)
	}
}

// --- Accessors ---

func TestGetByPath(t *testing.T) {
	cfg := Defaults()
	val, err := GetByPath(cfg, "bridge.tool")
	if err != nil {
		t.Fatalf("GetByPath: %v", err)
	}
	if val != "adb" {
		t.Errorf("got %v, want adb", val)
	}

	if _, err := GetByPath(cfg, "bridge.nope"); err == nil {
		t.Error("expected error for unknown key")
	}
}

func TestSetByPath(t *testing.T) {
	cfg := Defaults()
	if err := SetByPath(cfg, "bridge.timeoutSeconds", "45"); err != nil {
		t.Fatalf("SetByPath: %v", err)
	}
	if cfg.Bridge.TimeoutSeconds != 45 {
		t.Errorf("timeoutSeconds: got %d, want 45", cfg.Bridge.TimeoutSeconds)
	}

	if err := SetByPath(cfg, "history.enabled", "false"); err != nil {
		t.Fatalf("SetByPath bool: %v", err)
	}
	if cfg.History.Enabled {
		t.Error("history.enabled should be false")
	}
}
