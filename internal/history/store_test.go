package history

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	store, err := NewStore(filepath.Join(t.TempDir(), "history.db"), logger)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestAppendAndRecent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	ops := []Record{
		{Action: "pair", Target: "192.168.1.20:37099", ExitCode: 0, Detail: "Successfully paired"},
		{Action: "connect", Target: "192.168.1.20:5555", ExitCode: 0, Detail: "connected"},
		{Action: "packages", ExitCode: 1, Detail: "device offline"},
	}
	for _, rec := range ops {
		if err := store.Append(ctx, rec); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	records, err := store.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("records: got %d, want 3", len(records))
	}
	// Newest first.
	if records[0].Action != "packages" {
		t.Errorf("newest record: got %q, want packages", records[0].Action)
	}
	if records[2].Action != "pair" || records[2].Target != "192.168.1.20:37099" {
		t.Errorf("oldest record: got %+v", records[2])
	}
	if records[0].ExitCode != 1 {
		t.Errorf("exit code: got %d, want 1", records[0].ExitCode)
	}
	if records[0].CreatedAt.IsZero() {
		t.Error("created_at should be set")
	}
}

func TestRecent_Limit(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		if err := store.Append(ctx, Record{Action: "connect", Target: "10.0.0.2:5555"}); err != nil {
			t.Fatal(err)
		}
	}
	records, err := store.Recent(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Errorf("records: got %d, want 2", len(records))
	}
}

func TestRecent_Empty(t *testing.T) {
	store := newTestStore(t)
	records, err := store.Recent(context.Background(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 0 {
		t.Errorf("expected no records, got %d", len(records))
	}
}
