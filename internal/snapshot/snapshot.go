// Package snapshot persists generated reports in a SQLite database so the
// latest health, usage and habit payloads can be read back without refetching.
package snapshot

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"healthdigest/internal/model"
)

// ErrNotFound is returned when no snapshot of the requested kind exists.
var ErrNotFound = errors.New("snapshot not found")

// Kind names a family of stored payloads.
type Kind string

const (
	KindHealth     Kind = "health"
	KindPhoneUsage Kind = "phone_usage"
	KindHabits     Kind = "habits"
)

// timeLayout is fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
	id TEXT PRIMARY KEY,
	kind TEXT NOT NULL,
	source TEXT NOT NULL DEFAULT '',
	generated_at TEXT NOT NULL,
	payload TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS snapshots_kind_generated ON snapshots(kind, generated_at);
`

// Snapshot is one stored payload.
type Snapshot struct {
	ID          string
	Kind        Kind
	Source      string
	GeneratedAt time.Time
	Payload     json.RawMessage
}

// Store reads and writes snapshots.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
	now    func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for store events.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the clock used to stamp new snapshots.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// Open opens (creating if needed) the snapshot database at path.
func Open(ctx context.Context, path string, opts ...Option) (*Store, error) {
	if path == "" {
		return nil, errors.New("snapshot database path is required")
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	s := &Store{db: db, logger: slog.Default(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	s.logger.Debug("snapshot store opened", "path", path)
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save stores payload as JSON under kind and returns the stored snapshot.
func (s *Store) Save(ctx context.Context, kind Kind, source string, payload any) (Snapshot, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Snapshot{}, fmt.Errorf("encode %s snapshot: %w", kind, err)
	}

	snap := Snapshot{
		ID:          uuid.NewString(),
		Kind:        kind,
		Source:      source,
		GeneratedAt: s.now().UTC(),
		Payload:     data,
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO snapshots (id, kind, source, generated_at, payload) VALUES (?, ?, ?, ?, ?)`,
		snap.ID, string(snap.Kind), snap.Source, snap.GeneratedAt.Format(timeLayout), string(data))
	if err != nil {
		return Snapshot{}, fmt.Errorf("insert %s snapshot: %w", kind, err)
	}

	s.logger.Info("snapshot saved", "kind", kind, "source", source, "id", snap.ID, "bytes", len(data))
	return snap, nil
}

// Latest returns the most recently generated snapshot of kind.
func (s *Store) Latest(ctx context.Context, kind Kind) (Snapshot, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, kind, source, generated_at, payload
		FROM snapshots
		WHERE kind = ?
		ORDER BY generated_at DESC, rowid DESC
		LIMIT 1
	`, string(kind))

	var (
		snap        Snapshot
		storedKind  string
		generatedAt string
		payload     string
	)
	if err := row.Scan(&snap.ID, &storedKind, &snap.Source, &generatedAt, &payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Snapshot{}, fmt.Errorf("latest %s: %w", kind, ErrNotFound)
		}
		return Snapshot{}, fmt.Errorf("scan snapshot: %w", err)
	}

	ts, err := time.Parse(timeLayout, generatedAt)
	if err != nil {
		return Snapshot{}, fmt.Errorf("parse generated_at: %w", err)
	}
	snap.Kind = Kind(storedKind)
	snap.GeneratedAt = ts
	snap.Payload = json.RawMessage(payload)
	return snap, nil
}

// LatestUsage decodes the most recent phone usage snapshot.
func (s *Store) LatestUsage(ctx context.Context) (model.UsageSnapshot, error) {
	snap, err := s.Latest(ctx, KindPhoneUsage)
	if err != nil {
		return model.UsageSnapshot{}, err
	}
	var usage model.UsageSnapshot
	if err := json.Unmarshal(snap.Payload, &usage); err != nil {
		return model.UsageSnapshot{}, fmt.Errorf("decode usage snapshot: %w", err)
	}
	return usage, nil
}

// Prune deletes all but the newest keep snapshots of kind and reports how
// many rows were removed.
func (s *Store) Prune(ctx context.Context, kind Kind, keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM snapshots
		WHERE kind = ? AND id NOT IN (
			SELECT id FROM snapshots WHERE kind = ?
			ORDER BY generated_at DESC, rowid DESC
			LIMIT ?
		)
	`, string(kind), string(kind), keep)
	if err != nil {
		return 0, fmt.Errorf("prune %s snapshots: %w", kind, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune %s snapshots: %w", kind, err)
	}
	if n > 0 {
		s.logger.Info("snapshots pruned", "kind", kind, "removed", n)
	}
	return n, nil
}
