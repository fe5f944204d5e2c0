package catalog

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func testRecords() []Record {
	return []Record{
		{
			Filename:   "traces/trace-1-20260101-120000.npz",
			Episodes:   1,
			Steps:      200,
			MeanReward: 17.5,
		},
		{
			Filename:   "traces/trace-3-20260101-121500.npz",
			Episodes:   3,
			Steps:      520,
			MeanReward: 21.0,
		},
	}
}

func runStoreTest(t *testing.T, store Store) {
	ctx := context.Background()

	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	defer store.Close()

	for _, record := range testRecords() {
		if err := store.Add(ctx, record); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	records, err := store.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	for i, expected := range testRecords() {
		got := records[i]
		if got.ID == "" {
			t.Error("expected a generated record ID")
		}
		if got.CreatedAt.IsZero() {
			t.Error("expected a generated creation time")
		}
		if got.Filename != expected.Filename {
			t.Errorf("expected filename %v, got %v", expected.Filename,
				got.Filename)
		}
		if got.Episodes != expected.Episodes ||
			got.Steps != expected.Steps {
			t.Errorf("expected %d episodes over %d steps, got %d over "+
				"%d", expected.Episodes, expected.Steps, got.Episodes,
				got.Steps)
		}
		if got.MeanReward != expected.MeanReward {
			t.Errorf("expected mean reward %v, got %v",
				expected.MeanReward, got.MeanReward)
		}
	}
}

func TestMemoryStore(t *testing.T) {
	runStoreTest(t, NewMemoryStore())
}

func TestSQLiteStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.db")
	runStoreTest(t, NewSQLiteStore(path))
}

func TestSQLiteStorePreservesTimestamps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.db")
	store := NewSQLiteStore(path)
	ctx := context.Background()

	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	defer store.Close()

	created := time.Date(2026, 8, 1, 9, 30, 0, 0, time.UTC)
	record := Record{
		ID:         "fixed-id",
		Filename:   "traces/trace-1-20260801-093000.npz",
		Episodes:   1,
		Steps:      10,
		MeanReward: 2.0,
		CreatedAt:  created,
	}
	if err := store.Add(ctx, record); err != nil {
		t.Fatalf("add: %v", err)
	}

	records, err := store.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if !records[0].CreatedAt.Equal(created) {
		t.Errorf("expected creation time %v, got %v", created,
			records[0].CreatedAt)
	}
	if records[0].ID != "fixed-id" {
		t.Errorf("expected provided ID to be kept, got %v",
			records[0].ID)
	}
}

func TestNewStore(t *testing.T) {
	if _, err := NewStore(Memory, ""); err != nil {
		t.Errorf("memory store: %v", err)
	}
	if _, err := NewStore(SQLite, "catalog.db"); err != nil {
		t.Errorf("sqlite store: %v", err)
	}
	if _, err := NewStore("postgres", ""); err == nil {
		t.Error("expected error for unknown store kind")
	}
}
