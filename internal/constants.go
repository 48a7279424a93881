package sysglance

import (
	"fmt"
	"time"
)

const (
	// PLOT_WINDOW_SECONDS is the time window in seconds of history kept per series
	PLOT_WINDOW_SECONDS = 60

	// SAMPLE_INTERVAL_MS is the minimum spacing in milliseconds between accepted samples
	SAMPLE_INTERVAL_MS = 1000

	// DEFAULT_CHART_WIDTH and DEFAULT_CHART_HEIGHT are the pixel dimensions
	// of a rendered chart frame
	DEFAULT_CHART_WIDTH  = 450
	DEFAULT_CHART_HEIGHT = 180
)

// WindowDuration returns the plot window as a time.Duration
func WindowDuration() time.Duration {
	return PLOT_WINDOW_SECONDS * time.Second
}

// SampleInterval returns the sampling interval as a time.Duration
func SampleInterval() time.Duration {
	return SAMPLE_INTERVAL_MS * time.Millisecond
}

// WindowString returns the plot window formatted for Prometheus range queries (e.g., "60s")
func WindowString() string {
	return fmt.Sprintf("%ds", PLOT_WINDOW_SECONDS)
}
