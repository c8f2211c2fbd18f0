package diagnostics

import (
	"testing"
	"time"

	"stackvm/internal/gc"
)

func TestDriverNameAliases(t *testing.T) {
	cases := map[string]string{
		"":           "sqlite",
		"sqlite":     "sqlite",
		"sqlite3":    "sqlite",
		"postgres":   "postgres",
		"postgresql": "postgres",
		"mysql":      "mysql",
		"mssql":      "sqlserver",
		"sqlserver":  "sqlserver",
	}
	for alias, want := range cases {
		got, err := DriverName(alias)
		if err != nil {
			t.Errorf("DriverName(%q): unexpected error: %v", alias, err)
		}
		if got != want {
			t.Errorf("DriverName(%q) = %q, want %q", alias, got, want)
		}
	}
}

func TestDriverNameRejectsUnknown(t *testing.T) {
	if _, err := DriverName("oracle"); err == nil {
		t.Fatalf("expected an error for an unsupported driver")
	}
}

func TestSnapshotFromCopiesFields(t *testing.T) {
	stats := gc.Stats{
		Collections: 3, MinorRuns: 2, MajorRuns: 1, Finalized: 4,
		ArenaStats: gc.ArenaStats{
			Arrays: 1, Maps: 2, Records: 3, Functions: 4, Closures: 5,
			YoungLive: 6, OldLive: 7,
		},
	}
	now := time.Now()
	snap := SnapshotFrom("session-1", 9, now, stats)

	if snap.SessionID != "session-1" || snap.Sequence != 9 || !snap.RecordedAt.Equal(now) {
		t.Fatalf("correlation metadata not copied: %+v", snap)
	}
	if snap.Arrays != 1 || snap.OldLive != 7 || snap.Collections != 3 {
		t.Errorf("stats not copied correctly: %+v", snap)
	}
}
