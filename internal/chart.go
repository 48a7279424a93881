package sysglance

import (
	"bytes"
	"fmt"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ChartConfig holds the cosmetic parameters of one chart. They are
// fixed for the lifetime of the chart.
type ChartConfig struct {
	// Window is the visible time span of the plot.
	Window time.Duration
	// Color is the stroke color; the area fill and the axis mesh are
	// derived from it by alpha mixing.
	Color drawing.Color
	// Height is the preferred pixel height of a rendered frame.
	Height int
}

// Bounds is the pixel size of the drawable surface a frame targets.
type Bounds struct {
	Width  int
	Height int
}

// FramePoint is one plotted sample in frame pixel space.
type FramePoint struct {
	X float64
	Y float64
}

// Frame is the drawable output of one chart rebuild: the plotted
// sample positions in pixel space plus the encoded vector image.
// An empty series yields a frame with no points and no SVG.
type Frame struct {
	Bounds Bounds
	Points []FramePoint // chronological order
	SVG    []byte
}

// Chart renders a Series into a memoized Frame. The cache is a plain
// nil-able pointer: any push clears it, and Draw rebuilds only when it
// is nil or the requested bounds changed.
type Chart struct {
	series *Series
	cfg    ChartConfig
	frame  *Frame // nil when dirty
}

// NewChart creates a chart over a fresh series seeded with the given
// samples (newest first).
func NewChart(cfg ChartConfig, seed ...Sample) *Chart {
	return &Chart{
		series: NewSeries(cfg.Window, seed...),
		cfg:    cfg,
	}
}

// Push inserts a sample into the underlying series and discards the
// cached frame.
func (c *Chart) Push(t time.Time, value int) {
	c.series.Push(t, value)
	c.frame = nil
}

// Series exposes the underlying rolling store.
func (c *Chart) Series() *Series {
	return c.series
}

// PreferredBounds is the configured frame size, used when the caller
// has no surface of its own to size against (e.g. SVG export).
func (c *Chart) PreferredBounds() Bounds {
	return Bounds{Width: DEFAULT_CHART_WIDTH, Height: c.cfg.Height}
}

// Latest returns the most recent sample and whether one exists.
func (c *Chart) Latest() (Sample, bool) {
	return c.series.Latest()
}

// Draw returns the chart frame for the given bounds. When the cache is
// valid for those bounds it is returned unchanged; otherwise the frame
// is rebuilt and cached. A build failure invalidates nothing and is
// returned to the caller: it signals a broken invariant, not bad data.
func (c *Chart) Draw(b Bounds) (*Frame, error) {
	if c.frame != nil && c.frame.Bounds == b {
		return c.frame, nil
	}
	frame, err := c.build(b)
	if err != nil {
		return nil, fmt.Errorf("build chart frame: %w", err)
	}
	c.frame = frame
	return frame, nil
}

func (c *Chart) build(b Bounds) (*Frame, error) {
	points := c.series.Points()
	if len(points) == 0 {
		// Nothing sampled yet: a valid placeholder frame.
		return &Frame{Bounds: b}, nil
	}

	newest := c.series.Newest()
	oldest := newest.Add(-c.cfg.Window)
	if !oldest.Before(newest) {
		// The plot library forbids a degenerate time domain.
		oldest = newest.Add(-time.Second)
	}

	xs := make([]time.Time, 0, len(points)+1)
	ys := make([]float64, 0, len(points)+1)
	if len(points) == 1 {
		// go-chart needs at least two values per series.
		xs = append(xs, points[0].Time.Add(-time.Second))
		ys = append(ys, float64(points[0].Value))
	}
	for _, p := range points {
		xs = append(xs, p.Time)
		ys = append(ys, float64(p.Value))
	}

	ch := chart.Chart{
		Width:  b.Width,
		Height: b.Height,
		Background: chart.Style{
			Padding: chart.Box{Top: 8, Left: 8, Right: 8, Bottom: 8},
		},
		XAxis: chart.XAxis{
			Style: chart.Hidden(),
			Range: &chart.ContinuousRange{
				Min: chart.TimeToFloat64(oldest),
				Max: chart.TimeToFloat64(newest),
			},
		},
		YAxis: chart.YAxis{
			Style: chart.Style{
				FontSize:    8,
				FontColor:   mixColor(c.cfg.Color, 0.65),
				StrokeColor: mixColor(c.cfg.Color, 0.45),
				StrokeWidth: 1.0,
			},
			Range:          &chart.ContinuousRange{Min: 0, Max: 100},
			Ticks:          percentTicks(),
			ValueFormatter: PercentLabel,
			GridMajorStyle: chart.Style{
				StrokeColor: mixColor(c.cfg.Color, 0.10),
				StrokeWidth: 1.0,
			},
			GridMinorStyle: chart.Style{
				StrokeColor: mixColor(c.cfg.Color, 0.05),
				StrokeWidth: 1.0,
			},
		},
		Series: []chart.Series{
			chart.TimeSeries{
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeColor: c.cfg.Color,
					StrokeWidth: 1.0,
					FillColor:   mixColor(c.cfg.Color, 0.175),
				},
			},
		},
	}

	var buf bytes.Buffer
	if err := ch.Render(chart.SVG, &buf); err != nil {
		return nil, err
	}

	return &Frame{
		Bounds: b,
		Points: projectPoints(points, oldest, newest, b),
		SVG:    buf.Bytes(),
	}, nil
}

// projectPoints maps samples from the [oldest, newest] x [0, 100]
// domain onto frame pixel space, origin top-left.
func projectPoints(points []Sample, oldest, newest time.Time, b Bounds) []FramePoint {
	span := newest.Sub(oldest)
	out := make([]FramePoint, 0, len(points))
	for _, p := range points {
		fx := float64(p.Time.Sub(oldest)) / float64(span)
		fy := 1 - float64(p.Value)/100
		out = append(out, FramePoint{
			X: fx * float64(b.Width),
			Y: fy * float64(b.Height),
		})
	}
	return out
}

// PercentLabel renders a value-axis label as "<n>%".
func PercentLabel(v interface{}) string {
	switch n := v.(type) {
	case int:
		return fmt.Sprintf("%d%%", n)
	case float64:
		return fmt.Sprintf("%d%%", int(n))
	}
	return ""
}

func percentTicks() []chart.Tick {
	ticks := make([]chart.Tick, 0, 11)
	for v := 0; v <= 100; v += 10 {
		ticks = append(ticks, chart.Tick{Value: float64(v), Label: PercentLabel(v)})
	}
	return ticks
}

// mixColor scales a color's alpha, matching the mesh/fill shades the
// stroke color is mixed down to.
func mixColor(c drawing.Color, f float64) drawing.Color {
	return c.WithAlpha(uint8(f * 255))
}
