package profile

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "watch.yaml", "name: watch\naddress: 192.168.1.20\nport: \"5555\"\n")
	writeFile(t, dir, "bedroom.yml", "address: 10.0.0.7\nport: \"5555\"\n")
	writeFile(t, dir, "notes.txt", "not a profile")
	writeFile(t, dir, "broken.yaml", "address: [unclosed")
	writeFile(t, dir, "noaddr.yaml", "name: empty\n")

	profiles, err := LoadDir(dir, testLogger())
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	if len(profiles) != 2 {
		t.Fatalf("profiles: got %d, want 2 (%+v)", len(profiles), profiles)
	}

	watch, ok := Find(profiles, "watch")
	if !ok {
		t.Fatal("profile 'watch' not found")
	}
	if watch.Address != "192.168.1.20" || watch.Port != "5555" {
		t.Errorf("watch profile: got %+v", watch)
	}

	// Name defaults to the file name when not set in the document.
	if _, ok := Find(profiles, "bedroom"); !ok {
		t.Error("profile name should default to file name")
	}
}

func TestLoadDir_Missing(t *testing.T) {
	profiles, err := LoadDir(filepath.Join(t.TempDir(), "nope"), testLogger())
	if err != nil {
		t.Fatalf("missing dir should not be an error: %v", err)
	}
	if profiles != nil {
		t.Errorf("expected nil profiles, got %v", profiles)
	}
}

func TestFind_Miss(t *testing.T) {
	if _, ok := Find(nil, "watch"); ok {
		t.Error("Find on empty slice should miss")
	}
}
