package sysglance

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderCellsEmptyFrame(t *testing.T) {
	frame := &Frame{Bounds: Bounds{Width: 80, Height: 40}}

	lines := RenderCells(frame, 10, 4)
	require.Len(t, lines, 4)
	for _, line := range lines {
		assert.Equal(t, strings.Repeat(" ", 10), line)
	}
}

func TestRenderCellsNilFrame(t *testing.T) {
	lines := RenderCells(nil, 10, 4)
	require.Len(t, lines, 4)
	assert.Equal(t, strings.Repeat(" ", 10), lines[0])
}

func TestRenderCellsInvalidGrid(t *testing.T) {
	assert.Nil(t, RenderCells(&Frame{}, 0, 4))
	assert.Nil(t, RenderCells(&Frame{}, 10, 0))
}

func TestRenderCellsFullUtilization(t *testing.T) {
	// Two points at 100% (Y=0) spanning the whole width.
	frame := &Frame{
		Bounds: Bounds{Width: 80, Height: 40},
		Points: []FramePoint{{X: 0, Y: 0}, {X: 80, Y: 0}},
	}

	lines := RenderCells(frame, 8, 4)
	require.Len(t, lines, 4)
	for _, line := range lines {
		assert.Equal(t, strings.Repeat("█", 8), line)
	}
}

func TestRenderCellsColumnsBeforeDataStayBlank(t *testing.T) {
	// Data only covers the right half of the frame.
	frame := &Frame{
		Bounds: Bounds{Width: 80, Height: 40},
		Points: []FramePoint{{X: 40, Y: 0}, {X: 80, Y: 0}},
	}

	lines := RenderCells(frame, 8, 4)
	bottom := []rune(lines[3])
	require.Len(t, bottom, 8)
	assert.Equal(t, ' ', bottom[0])
	assert.Equal(t, '█', bottom[7])
}

func TestRenderCellsHalfFill(t *testing.T) {
	// 50% utilization fills the lower half of the grid.
	frame := &Frame{
		Bounds: Bounds{Width: 80, Height: 40},
		Points: []FramePoint{{X: 0, Y: 20}, {X: 80, Y: 20}},
	}

	lines := RenderCells(frame, 4, 4)
	require.Len(t, lines, 4)
	assert.Equal(t, strings.Repeat(" ", 4), lines[0])
	assert.Equal(t, strings.Repeat(" ", 4), lines[1])
	assert.Equal(t, strings.Repeat("█", 4), lines[2])
	assert.Equal(t, strings.Repeat("█", 4), lines[3])
}

func TestJoinCells(t *testing.T) {
	assert.Equal(t, "ab\ncd", JoinCells([]string{"ab", "cd"}))
}
