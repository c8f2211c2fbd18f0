package diagnostics

import (
	"time"

	"stackvm/internal/gc"
)

// Snapshot is one wire message broadcast to live stream subscribers: a
// gc.Stats reading plus the correlation metadata a consumer needs to
// order and attribute it.
type Snapshot struct {
	SessionID   string    `json:"session_id"`
	Sequence    int64     `json:"sequence"`
	RecordedAt  time.Time `json:"recorded_at"`
	Collections int       `json:"collections"`
	MinorRuns   int       `json:"minor_runs"`
	MajorRuns   int       `json:"major_runs"`
	Finalized   int       `json:"finalized"`
	YoungLive   int       `json:"young_live"`
	OldLive     int       `json:"old_live"`
	Arrays      int       `json:"arrays"`
	Maps        int       `json:"maps"`
	Records     int       `json:"records"`
	Functions   int       `json:"functions"`
	Closures    int       `json:"closures"`
}

// SnapshotFrom builds the wire Snapshot for one gc.Stats reading, tagged
// with the owning session and sequence number.
func SnapshotFrom(sessionID string, sequence int64, recordedAt time.Time, stats gc.Stats) Snapshot {
	return Snapshot{
		SessionID:   sessionID,
		Sequence:    sequence,
		RecordedAt:  recordedAt,
		Collections: stats.Collections,
		MinorRuns:   stats.MinorRuns,
		MajorRuns:   stats.MajorRuns,
		Finalized:   stats.Finalized,
		YoungLive:   stats.ArenaStats.YoungLive,
		OldLive:     stats.ArenaStats.OldLive,
		Arrays:      stats.ArenaStats.Arrays,
		Maps:        stats.ArenaStats.Maps,
		Records:     stats.ArenaStats.Records,
		Functions:   stats.ArenaStats.Functions,
		Closures:    stats.ArenaStats.Closures,
	}
}
