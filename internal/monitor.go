package sysglance

import (
	"fmt"
	"time"

	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Monitor drives sampling for the two tracked metrics. It owns the
// metric source and both charts exclusively; everything runs on the
// event loop of the host shell, so no locking is involved.
//
// The monitor has a two-state lifecycle: it starts Uninitialized (no
// charts), and the first successful sample constructs both charts
// seeded with that sample. That transition is the only code path
// creating charts; afterwards Update only pushes.
type Monitor struct {
	source     Source
	window     time.Duration
	interval   time.Duration
	color      drawing.Color
	lastSample time.Time

	cpu    *Chart
	memory *Chart

	// now is the clock; swapped out by tests.
	now func() time.Time
}

// NewMonitor creates an uninitialized monitor. Window and interval
// fall back to the defaults when zero.
func NewMonitor(source Source, window, interval time.Duration, color drawing.Color) *Monitor {
	if window <= 0 {
		window = WindowDuration()
	}
	if interval <= 0 {
		interval = SampleInterval()
	}
	return &Monitor{
		source:   source,
		window:   window,
		interval: interval,
		color:    color,
		now:      time.Now,
	}
}

// Initialized reports whether the first sample has been taken and the
// charts exist.
func (m *Monitor) Initialized() bool {
	return m.cpu != nil
}

// shouldSample gates sampling: always before the first sample, then
// only once the interval has elapsed.
func (m *Monitor) shouldSample() bool {
	return !m.Initialized() || m.now().Sub(m.lastSample) > m.interval
}

// Update takes one sample if the gate allows it and is a no-op
// otherwise. Exactly one source refresh and one push per chart happen
// per accepted tick. A refresh failure leaves all sampling state
// untouched; the next tick is the retry.
func (m *Monitor) Update() error {
	if !m.shouldSample() {
		return nil
	}

	if err := m.source.Refresh(); err != nil {
		return fmt.Errorf("refresh metric source: %w", err)
	}
	now := m.now()
	m.lastSample = now
	cpuPct := clampPercent(int(m.source.CPUPercent()))
	used, total := m.source.Memory()
	memPct := memoryPercent(used, total)

	if !m.Initialized() {
		cfg := ChartConfig{Window: m.window, Color: m.color, Height: DEFAULT_CHART_HEIGHT}
		m.cpu = NewChart(cfg, Sample{Time: now, Value: cpuPct})
		m.memory = NewChart(cfg, Sample{Time: now, Value: memPct})
		return nil
	}

	m.cpu.Push(now, cpuPct)
	m.memory.Push(now, memPct)
	return nil
}

// CPU returns the CPU chart, nil while uninitialized.
func (m *Monitor) CPU() *Chart {
	return m.cpu
}

// Memory returns the memory chart, nil while uninitialized.
func (m *Monitor) Memory() *Chart {
	return m.memory
}

// clampPercent clamps a reading into the [0, 100] render domain. The
// source clamps rather than rejects: an out-of-range reading is a
// source anomaly, not a reason to drop the sample.
func clampPercent(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// memoryPercent is floor(used/total*100), 0 when total is unknown.
func memoryPercent(used, total uint64) int {
	if total == 0 {
		return 0
	}
	return clampPercent(int(used * 100 / total))
}
