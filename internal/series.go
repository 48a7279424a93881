package sysglance

import "time"

// Sample is one observation of a metric: a wall-clock timestamp and an
// integer percentage in [0, 100]. Samples are immutable once created.
type Sample struct {
	Time  time.Time
	Value int
}

// Series holds the retained samples of one metric, newest first. Every
// retained sample lies within the configured window measured from the
// newest sample; anything older is evicted eagerly on insert.
type Series struct {
	points []Sample // newest first
	window time.Duration
}

// NewSeries creates a Series bounded by the given window, seeded with
// the provided samples (newest first).
func NewSeries(window time.Duration, seed ...Sample) *Series {
	s := &Series{window: window}
	s.points = append(s.points, seed...)
	return s
}

// Push inserts a sample at the front, then evicts back entries older
// than the window. The reference "now" is the timestamp of the sample
// just inserted, not the wall clock, so eviction is deterministic for
// fixed inputs. The inserted sample itself is never evicted: its diff
// against itself is zero.
func (s *Series) Push(t time.Time, value int) {
	s.points = append(s.points, Sample{})
	copy(s.points[1:], s.points)
	s.points[0] = Sample{Time: t, Value: value}

	for len(s.points) > 0 {
		oldest := s.points[len(s.points)-1]
		if t.Sub(oldest.Time) <= s.window {
			break
		}
		s.points = s.points[:len(s.points)-1]
	}
}

// Len returns the number of retained samples.
func (s *Series) Len() int {
	return len(s.points)
}

// Newest returns the timestamp of the most recent sample, or the zero
// time.Time when the series is empty.
func (s *Series) Newest() time.Time {
	if len(s.points) == 0 {
		return time.Time{}
	}
	return s.points[0].Time
}

// Latest returns the most recent sample and whether one exists.
func (s *Series) Latest() (Sample, bool) {
	if len(s.points) == 0 {
		return Sample{}, false
	}
	return s.points[0], true
}

// Window returns the retention window.
func (s *Series) Window() time.Duration {
	return s.window
}

// Points returns the retained samples in chronological order
// (oldest first), ready for plotting.
func (s *Series) Points() []Sample {
	out := make([]Sample, len(s.points))
	for i, p := range s.points {
		out[len(s.points)-1-i] = p
	}
	return out
}
