package store

import (
	"fmt"
	"os"
	"strings"
)

const (
	ModeMemory   = "memory"
	ModeSQLite   = "sqlite"
	ModePostgres = "postgres"
)

func modeFromEnv() string {
	raw := strings.ToLower(strings.TrimSpace(os.Getenv("STORE_MODE")))
	switch raw {
	case "", ModeSQLite, "local":
		return ModeSQLite
	case ModePostgres, "db", "postgresql":
		return ModePostgres
	case ModeMemory, "mem":
		return ModeMemory
	default:
		return raw
	}
}

// NewFromEnv selects and constructs a Store backend from STORE_MODE
// (default sqlite).
func NewFromEnv() (Store, string, error) {
	mode := modeFromEnv()

	switch mode {
	case ModeSQLite:
		s, err := NewSQLiteStoreFromEnv()
		if err != nil {
			return nil, mode, err
		}
		return s, mode, nil
	case ModePostgres:
		s, err := NewPostgresStoreFromEnv()
		if err != nil {
			return nil, mode, err
		}
		return s, mode, nil
	case ModeMemory:
		return NewMemoryStore(), mode, nil
	default:
		return nil, mode, fmt.Errorf("store: invalid STORE_MODE %q (supported: %s, %s, %s)", mode, ModeMemory, ModeSQLite, ModePostgres)
	}
}
