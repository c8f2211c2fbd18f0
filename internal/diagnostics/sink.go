// Package diagnostics implements the engine's optional, disabled-by-default
// observability extensions: a SQL stats sink and a websocket live stream,
// both strictly outside the hot execution path (spec §5's ordering
// guarantees only bind PRINT/INPUT/globals/allocation, not these).
package diagnostics

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"stackvm/internal/gc"
)

// Sink persists periodic gc.Stats snapshots to a SQL database, the way the
// teacher's DBManager held a pool of named connections — here there is
// exactly one, since a sink belongs to one running engine.
type Sink struct {
	db       *sql.DB
	sessID   uuid.UUID
	mu       sync.Mutex
	sequence int64
}

// Open connects to dsn using driverName (see DriverName for the accepted
// aliases) and ensures the stats table exists. Connection pooling mirrors
// the teacher's db_manager.go defaults since a diagnostics sink has the
// same "occasional write, long-lived connection" shape as its tooling.
func Open(driverName, dsn string) (*Sink, error) {
	driver, err := DriverName(driverName)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("diagnostics: open %s: %w", driver, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("diagnostics: ping %s: %w", driver, err)
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	s := &Sink{db: db, sessID: uuid.New()}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Sink) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS vm_stats (
	session_id       TEXT NOT NULL,
	sequence         INTEGER NOT NULL,
	recorded_at      TEXT NOT NULL,
	collections      INTEGER NOT NULL,
	minor_runs       INTEGER NOT NULL,
	major_runs       INTEGER NOT NULL,
	finalized        INTEGER NOT NULL,
	young_live       INTEGER NOT NULL,
	old_live         INTEGER NOT NULL,
	arrays           INTEGER NOT NULL,
	maps             INTEGER NOT NULL,
	records          INTEGER NOT NULL,
	functions        INTEGER NOT NULL,
	closures         INTEGER NOT NULL
)`)
	return err
}

// Record inserts one gc.Stats snapshot, tagged with this sink's session id
// and a monotonically increasing sequence number so a consumer can order
// snapshots from the same run without relying on recorded_at precision.
func (s *Sink) Record(stats gc.Stats) error {
	s.mu.Lock()
	seq := s.sequence
	s.sequence++
	s.mu.Unlock()

	_, err := s.db.Exec(
		`INSERT INTO vm_stats (
			session_id, sequence, recorded_at, collections, minor_runs, major_runs,
			finalized, young_live, old_live, arrays, maps, records, functions, closures
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.sessID.String(), seq, time.Now().UTC().Format(time.RFC3339Nano),
		stats.Collections, stats.MinorRuns, stats.MajorRuns, stats.Finalized,
		stats.ArenaStats.YoungLive, stats.ArenaStats.OldLive,
		stats.ArenaStats.Arrays, stats.ArenaStats.Maps, stats.ArenaStats.Records,
		stats.ArenaStats.Functions, stats.ArenaStats.Closures,
	)
	if err != nil {
		return fmt.Errorf("diagnostics: record stats: %w", err)
	}
	return nil
}

// RecordAndSnapshot persists stats and returns the wire Snapshot for the
// same reading, letting a caller feed both the sink and a Stream from one
// gc.Stats value without recomputing the sequence number twice.
func (s *Sink) RecordAndSnapshot(stats gc.Stats) (Snapshot, error) {
	s.mu.Lock()
	seq := s.sequence
	s.mu.Unlock()
	now := time.Now().UTC()
	if err := s.Record(stats); err != nil {
		return Snapshot{}, err
	}
	return SnapshotFrom(s.sessID.String(), seq, now, stats), nil
}

// SessionID identifies every row this sink writes, for correlating a run's
// snapshots across the stats table and the live stream (spec §1's scope
// excludes a module/loader system; this id exists purely for observability
// correlation and never participates in engine semantics).
func (s *Sink) SessionID() uuid.UUID { return s.sessID }

func (s *Sink) Close() error { return s.db.Close() }
