package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"hanabi-lite/hanabi"
)

const defaultSQLiteDBName = "hanabi_local.db"

// SQLiteStore is a single-process durable Store backed by
// modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStoreFromEnv() (*SQLiteStore, error) {
	path, err := sqliteDatabasePathFromEnv()
	if err != nil {
		return nil, err
	}
	return NewSQLiteStore(path)
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dbPath = strings.TrimSpace(dbPath)
	if dbPath == "" {
		return nil, fmt.Errorf("store: empty sqlite database path")
	}
	if dbPath != ":memory:" {
		if parent := filepath.Dir(dbPath); parent != "" && parent != "." {
			if err := os.MkdirAll(parent, 0o755); err != nil {
				return nil, err
			}
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, pragma := range []string{
		`PRAGMA busy_timeout = 5000;`,
		`PRAGMA journal_mode = WAL;`,
		`PRAGMA foreign_keys = ON;`,
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := ensureSQLiteSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteStore) CreateGame(ctx context.Context, sessionID string, cfg hanabi.GameConfig, playerNames []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
INSERT INTO game_config (game_id, num_players, hand_size, num_fuses, num_hints, starting_player, seed)
VALUES (?, ?, ?, ?, ?, ?, ?)
`, sessionID, cfg.NumPlayers, cfg.HandSize, cfg.NumFuses, cfg.NumHints, cfg.StartingPlayer, cfg.Seed); err != nil {
		return err
	}
	for idx, name := range playerNames {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO player (game_id, player_index, display_name)
VALUES (?, ?, ?)
`, sessionID, idx, name); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) GetConfig(ctx context.Context, sessionID string) (hanabi.GameConfig, error) {
	var cfg hanabi.GameConfig
	err := s.db.QueryRowContext(ctx, `
SELECT num_players, hand_size, num_fuses, num_hints, starting_player, seed
FROM game_config WHERE game_id = ?
`, sessionID).Scan(&cfg.NumPlayers, &cfg.HandSize, &cfg.NumFuses, &cfg.NumHints, &cfg.StartingPlayer, &cfg.Seed)
	if err == sql.ErrNoRows {
		return hanabi.GameConfig{}, ErrNotFound
	}
	if err != nil {
		return hanabi.GameConfig{}, err
	}
	return cfg, nil
}

func (s *SQLiteStore) GetPlayers(ctx context.Context, sessionID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT display_name FROM player WHERE game_id = ? ORDER BY player_index ASC
`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	if len(names) == 0 {
		return nil, ErrNotFound
	}
	return names, rows.Err()
}

func (s *SQLiteStore) GetActions(ctx context.Context, sessionID string) ([]hanabi.ActorAction, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT player_index, player_action FROM game_log WHERE game_id = ? ORDER BY turn_id ASC
`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var actions []hanabi.ActorAction
	for rows.Next() {
		var actor int
		var raw string
		if err := rows.Scan(&actor, &raw); err != nil {
			return nil, err
		}
		var action hanabi.Action
		if err := json.Unmarshal([]byte(raw), &action); err != nil {
			return nil, err
		}
		actions = append(actions, hanabi.ActorAction{Actor: actor, Action: action})
	}
	return actions, rows.Err()
}

// AppendAction is idempotent on (game_id, turn_id) via ON CONFLICT DO
// NOTHING — a retried append after a dropped connection never duplicates
// a turn.
func (s *SQLiteStore) AppendAction(ctx context.Context, sessionID string, turnID int, actorIndex int, action hanabi.Action) error {
	payload, err := json.Marshal(action)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
INSERT INTO game_log (game_id, turn_id, player_index, player_action, created_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT (game_id, turn_id) DO NOTHING
`, sessionID, turnID, actorIndex, string(payload), time.Now().UTC())
	return err
}

func ensureSQLiteSchema(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`
CREATE TABLE IF NOT EXISTS game_config (
    game_id TEXT PRIMARY KEY,
    num_players INTEGER NOT NULL,
    hand_size INTEGER NOT NULL,
    num_fuses INTEGER NOT NULL,
    num_hints INTEGER NOT NULL,
    starting_player INTEGER NOT NULL,
    seed INTEGER NOT NULL
)`,
		`
CREATE TABLE IF NOT EXISTS player (
    game_id TEXT NOT NULL,
    player_index INTEGER NOT NULL,
    display_name TEXT NOT NULL,
    PRIMARY KEY (game_id, player_index),
    FOREIGN KEY (game_id) REFERENCES game_config(game_id) ON DELETE CASCADE
)`,
		`
CREATE TABLE IF NOT EXISTS game_log (
    game_id TEXT NOT NULL,
    turn_id INTEGER NOT NULL,
    player_index INTEGER NOT NULL,
    player_action TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL,
    PRIMARY KEY (game_id, turn_id),
    FOREIGN KEY (game_id) REFERENCES game_config(game_id) ON DELETE CASCADE
)`,
	}
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// isSQLiteUniqueViolation reports whether err is a UNIQUE/PRIMARY KEY
// constraint failure. modernc.org/sqlite surfaces these as plain errors
// wrapping the sqlite3 message text rather than a typed sentinel, so we
// match on the message the way the driver itself documents it.
func isSQLiteUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func sqliteDatabasePathFromEnv() (string, error) {
	if v := strings.TrimSpace(os.Getenv("SQLITE_DATABASE_PATH")); v != "" {
		return filepath.Clean(v), nil
	}
	userConfigDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(userConfigDir, "HanabiLite", defaultSQLiteDBName), nil
}
