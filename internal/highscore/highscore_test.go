package highscore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestInsertKeepsOrderAndLimit(t *testing.T) {
	var entries []Entry
	for i := range 12 {
		entries = Insert(entries, Entry{Name: "P", Score: (i + 1) * 100})
	}
	if len(entries) != MaxEntries {
		t.Fatalf("len = %d, want %d", len(entries), MaxEntries)
	}
	for i := 1; i < len(entries); i++ {
		if entries[i].Score > entries[i-1].Score {
			t.Fatalf("not descending at %d: %v", i, entries)
		}
	}
	if entries[0].Score != 1200 || entries[len(entries)-1].Score != 300 {
		t.Errorf("unexpected range %d..%d", entries[0].Score, entries[len(entries)-1].Score)
	}
}

func TestInsertTieKeepsArrivalOrder(t *testing.T) {
	entries := []Entry{{Name: "OLD", Score: 500}}
	entries = Insert(entries, Entry{Name: "NEW", Score: 500})
	if entries[0].Name != "OLD" || entries[1].Name != "NEW" {
		t.Errorf("tie order = %v", entries)
	}
}

func TestQualifies(t *testing.T) {
	if Qualifies(nil, 0) {
		t.Error("zero never qualifies")
	}
	if !Qualifies(Defaults(), 1) {
		t.Error("a short board accepts any positive score")
	}

	full := make([]Entry, MaxEntries)
	for i := range full {
		full[i] = Entry{Name: "X", Score: 1000 - i*10}
	}
	if Qualifies(full, 910) {
		t.Error("equal to the last entry does not qualify")
	}
	if !Qualifies(full, 911) {
		t.Error("beating the last entry qualifies")
	}
}

func TestNormalizeName(t *testing.T) {
	tests := map[string]string{
		"abc":    "ABC",
		" z-9x ": "Z9X",
		"longer": "LON",
		"--":     "",
	}
	for in, want := range tests {
		if got := NormalizeName(in); got != want {
			t.Errorf("NormalizeName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestBoardMemoryOnly(t *testing.T) {
	b, err := NewBoard(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := b.Top(10); len(got) != 5 || got[0].Name != "LBL" {
		t.Fatalf("defaults = %v", got)
	}
	if err := b.Record(Entry{Name: "sam", Score: 9000}); err != nil {
		t.Fatal(err)
	}
	if got := b.Top(2); got[1] != (Entry{Name: "SAM", Score: 9000}) {
		t.Errorf("top 2 = %v", got)
	}
	if err := b.Record(Entry{Name: "!!", Score: 5}); !errors.Is(err, ErrEmptyName) {
		t.Errorf("err = %v, want ErrEmptyName", err)
	}
}

func testStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	b, err := NewBoard(ctx, store)
	if err != nil {
		t.Fatalf("NewBoard: %v", err)
	}
	seeded, err := store.Top(ctx, MaxEntries)
	if err != nil {
		t.Fatal(err)
	}
	if len(seeded) != len(Defaults()) {
		t.Fatalf("seeded %d entries, want %d", len(seeded), len(Defaults()))
	}

	for i := range 8 {
		if err := b.Record(Entry{Name: "ABC", Score: 100 + i}); err != nil {
			t.Fatal(err)
		}
	}
	stored, err := store.Top(ctx, 100)
	if err != nil {
		t.Fatal(err)
	}
	if len(stored) != MaxEntries {
		t.Fatalf("store holds %d entries, want %d", len(stored), MaxEntries)
	}
	if stored[0].Name != "LBL" || stored[MaxEntries-1].Score != 103 {
		t.Errorf("stored = %v", stored)
	}

	reloaded, err := NewBoard(ctx, store)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := reloaded.Top(MaxEntries), b.Top(MaxEntries); len(got) != len(want) || got[0] != want[0] {
		t.Errorf("reloaded board = %v, want %v", got, want)
	}
}

func TestJSONStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scores.json")
	store, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := store.(*JSONStore); !ok {
		t.Fatalf("Open(.json) = %T", store)
	}
	testStore(t, store)

	if _, err := os.Stat(path); err != nil {
		t.Errorf("scores file missing: %v", err)
	}
}

func TestJSONStoreRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scores.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewJSONStore(path).Top(context.Background(), 10); err == nil {
		t.Error("expected a decode error")
	}
}

func TestSQLiteStore(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	if _, ok := store.(*SQLiteStore); !ok {
		t.Fatalf("Open(.db) = %T", store)
	}
	testStore(t, store)
}
