// Package backend selects and constructs the durable store the ledger
// snapshots into, based on configuration.
package backend

import (
	"fmt"
	"log/slog"

	"tracker/internal/config"
	"tracker/internal/ledger"
	"tracker/internal/storage"
)

// Type identifies a store backend.
type Type string

const (
	JSONBackend   Type = "json"
	SQLiteBackend Type = "sqlite"
	MemoryBackend Type = "memory"
)

func (t Type) String() string {
	return string(t)
}

func (t Type) IsValid() bool {
	switch t {
	case JSONBackend, SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}

// Types returns all valid backend types.
func Types() []Type {
	return []Type{JSONBackend, SQLiteBackend, MemoryBackend}
}

// CleanupFunc releases backend resources on shutdown.
type CleanupFunc func() error

// CreateStore builds the store for the configured backend. The returned
// cleanup may be nil when the backend holds no resources.
func CreateStore(cfg *config.Config, logger *slog.Logger) (ledger.Store, CleanupFunc, error) {
	if logger == nil {
		logger = slog.Default()
	}

	t := Type(cfg.DataBackend)
	switch t {
	case JSONBackend:
		store, err := storage.NewJSONStore(cfg.SnapshotPath)
		if err != nil {
			return nil, nil, fmt.Errorf("initialize json store: %w", err)
		}
		logger.Info("Initialized JSON snapshot backend", "path", cfg.SnapshotPath)
		return store, nil, nil

	case SQLiteBackend:
		store, err := storage.NewSQLiteStore(cfg.SQLiteDBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("initialize sqlite store: %w", err)
		}
		logger.Info("Initialized SQLite backend", "db_path", cfg.SQLiteDBPath)
		return store, store.Close, nil

	case MemoryBackend:
		logger.Info("Initialized memory backend (no durability)")
		return storage.NewMemoryStore(), nil, nil

	default:
		return nil, nil, fmt.Errorf("unsupported backend type: %s", cfg.DataBackend)
	}
}
