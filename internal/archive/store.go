// Package archive keeps a local ledger of generated transcripts.
package archive

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Store records every generated transcript in SQLite.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Entry is one generated transcript.
type Entry struct {
	ID           string
	GuildID      string
	ChannelID    string
	ChannelName  string
	MessageCount int
	Path         string
	SizeBytes    int64
	CreatedAt    time.Time
}

func NewStore(dbPath string, logger *slog.Logger) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create database directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("cannot open database: %w", err)
	}

	// Single connection for SQLite
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	store := &Store{db: db, logger: logger}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database migration failed: %w", err)
	}

	return store, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS transcripts (
		id            TEXT PRIMARY KEY,
		guild_id      TEXT,
		channel_id    TEXT NOT NULL,
		channel_name  TEXT,
		message_count INTEGER NOT NULL,
		path          TEXT NOT NULL,
		size_bytes    INTEGER NOT NULL,
		created_at    DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_transcripts_channel ON transcripts(channel_id, created_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Record inserts a new ledger entry and returns its generated ID.
func (s *Store) Record(ctx context.Context, e Entry) (string, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO transcripts (id, guild_id, channel_id, channel_name, message_count, path, size_bytes)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, e.GuildID, e.ChannelID, e.ChannelName, e.MessageCount, e.Path, e.SizeBytes,
	)
	if err != nil {
		return "", fmt.Errorf("record transcript: %w", err)
	}
	s.logger.Info("transcript recorded", "id", id, "channel_id", e.ChannelID, "messages", e.MessageCount)
	return id, nil
}

// List returns the most recent entries, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, guild_id, channel_id, channel_name, message_count, path, size_bytes, created_at
		FROM transcripts ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list transcripts: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.GuildID, &e.ChannelID, &e.ChannelName,
			&e.MessageCount, &e.Path, &e.SizeBytes, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan transcript row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *Store) Close() error {
	return s.db.Close()
}
