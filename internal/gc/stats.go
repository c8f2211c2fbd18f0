package gc

// Stats is a point-in-time snapshot of collector state, consumed by the
// host driver's inspection surface (printMemoryStats) and, optionally, by
// internal/diagnostics' stats sink and live stream.
type Stats struct {
	YoungThreshold  int
	TenureThreshold int
	Collections     int
	MinorRuns       int
	MajorRuns       int
	Finalized       int
	ArenaStats      ArenaStats
}

// ArenaStats mirrors heap.Stats without importing internal/heap into this
// file's exported surface, keeping Stats a plain value type callers can
// copy/serialize freely (e.g. into the SQL sink) without pulling in arena
// internals.
type ArenaStats struct {
	Arrays, Maps, Records, Functions, Closures int
	YoungLive, OldLive                         int
}

// Snapshot reports the collector's current state. kindCounts/youngLive/
// oldLive come from the engine's arena.Stats() call since the collector
// itself does not hold the arena's per-kind tallies.
func (c *Collector) Snapshot(arrays, maps, records, functions, closures, youngLive, oldLive int) Stats {
	return Stats{
		YoungThreshold:  c.YoungThreshold,
		TenureThreshold: c.TenureThreshold,
		Collections:     c.collections,
		MinorRuns:       c.minorRuns,
		MajorRuns:       c.majorRuns,
		Finalized:       c.finalized,
		ArenaStats: ArenaStats{
			Arrays: arrays, Maps: maps, Records: records,
			Functions: functions, Closures: closures,
			YoungLive: youngLive, OldLive: oldLive,
		},
	}
}
