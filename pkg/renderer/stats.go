package renderer

import "time"

// Stats accumulates progress counters for one render: how many tiles and
// samples have been completed, and a running, non-drifting average of how
// long a tile pass takes. Workers report this roughly once a second so a
// coordinator can estimate time remaining without polling every tile.
type Stats struct {
	TilesCompleted   int
	SamplesCompleted int64
	AvgTimePerTile   time.Duration
}

// RecordTile folds one tile's completion into the stats: the tile/sample
// counters add up exactly, and AvgTimePerTile is updated as a running mean
// (avg' = avg + (elapsed - avg) / n) rather than re-derived from a running
// sum divided by count, so it never drifts from floating-point error
// accumulated over a long render.
func (s *Stats) RecordTile(samples int, elapsed time.Duration) {
	s.TilesCompleted++
	s.SamplesCompleted += int64(samples)
	delta := elapsed - s.AvgTimePerTile
	s.AvgTimePerTile += delta / time.Duration(s.TilesCompleted)
}
