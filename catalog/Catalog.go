// Package catalog indexes flushed trace archives so that recorded
// data can be found and summarized without reopening every archive
package catalog

import (
	"context"
	"fmt"
	"time"
)

// Record describes one flushed trace archive
type Record struct {
	ID         string
	Filename   string
	Episodes   int
	Steps      int
	MeanReward float64
	CreatedAt  time.Time
}

// Store defines persistence operations for trace records
type Store interface {
	Init(ctx context.Context) error
	Add(ctx context.Context, record Record) error
	List(ctx context.Context) ([]Record, error)
	Close() error
}

// Kind selects a Store backend
type Kind string

const (
	Memory Kind = "memory"
	SQLite Kind = "sqlite"
)

// NewStore creates and returns a Store of the argument kind. The path
// is only used by the SQLite backend.
func NewStore(kind Kind, path string) (Store, error) {
	switch kind {
	case Memory:
		return NewMemoryStore(), nil
	case SQLite:
		return NewSQLiteStore(path), nil
	default:
		return nil, fmt.Errorf("new store: unknown store kind %q", kind)
	}
}
