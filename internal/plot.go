package sysglance

import "strings"

// plotBlocks are the partial block runes used for the top edge of the
// filled area, ordered by increasing fill.
var plotBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// RenderCells projects a chart frame onto a cols x rows cell grid as a
// filled area chart, one string per row. Columns left of the oldest
// plotted point stay blank, so a freshly started applet grows its
// chart in from the right. An empty frame yields blank rows.
func RenderCells(frame *Frame, cols, rows int) []string {
	if cols <= 0 || rows <= 0 {
		return nil
	}
	grid := make([][]rune, rows)
	for y := range grid {
		grid[y] = make([]rune, cols)
		for x := range grid[y] {
			grid[y][x] = ' '
		}
	}

	if frame != nil && len(frame.Points) > 0 && frame.Bounds.Width > 0 {
		for col := 0; col < cols; col++ {
			px := (float64(col) + 0.5) / float64(cols) * float64(frame.Bounds.Width)
			fill, ok := fillAt(frame, px)
			if !ok {
				continue
			}
			drawColumn(grid, col, fill)
		}
	}

	lines := make([]string, rows)
	for y, row := range grid {
		lines[y] = string(row)
	}
	return lines
}

// fillAt returns the area fill fraction in [0, 1] at pixel x, stepping
// on the most recent point at or before x. Positions before the first
// point carry no data.
func fillAt(frame *Frame, x float64) (float64, bool) {
	points := frame.Points
	if x < points[0].X {
		return 0, false
	}
	current := points[0]
	for _, p := range points[1:] {
		if p.X > x {
			break
		}
		current = p
	}
	fill := 1 - current.Y/float64(frame.Bounds.Height)
	if fill < 0 {
		fill = 0
	}
	if fill > 1 {
		fill = 1
	}
	return fill, true
}

// drawColumn fills one column bottom-up in eighth-cell steps.
func drawColumn(grid [][]rune, col int, fill float64) {
	rows := len(grid)
	eighths := int(fill * float64(rows) * 8)
	for y := rows - 1; y >= 0 && eighths > 0; y-- {
		if eighths >= 8 {
			grid[y][col] = '█'
			eighths -= 8
			continue
		}
		grid[y][col] = plotBlocks[eighths-1]
		eighths = 0
	}
}

// JoinCells stitches rendered rows back into a single block of text.
func JoinCells(lines []string) string {
	return strings.Join(lines, "\n")
}
