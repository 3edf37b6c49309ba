package renderer

import (
	"testing"
	"time"
)

func TestStatsRecordTileAccumulatesCounts(t *testing.T) {
	var s Stats
	s.RecordTile(64, 10*time.Millisecond)
	s.RecordTile(32, 20*time.Millisecond)

	if s.TilesCompleted != 2 {
		t.Errorf("TilesCompleted = %d, want 2", s.TilesCompleted)
	}
	if s.SamplesCompleted != 96 {
		t.Errorf("SamplesCompleted = %d, want 96", s.SamplesCompleted)
	}
}

func TestStatsAvgTimePerTileMatchesTrueAverage(t *testing.T) {
	var s Stats
	durations := []time.Duration{5 * time.Millisecond, 15 * time.Millisecond, 10 * time.Millisecond, 20 * time.Millisecond}
	var sum time.Duration
	for _, d := range durations {
		s.RecordTile(1, d)
		sum += d
	}
	want := sum / time.Duration(len(durations))
	if diff := s.AvgTimePerTile - want; diff > time.Microsecond || diff < -time.Microsecond {
		t.Errorf("AvgTimePerTile = %v, want %v", s.AvgTimePerTile, want)
	}
}
