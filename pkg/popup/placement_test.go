package popup

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputePlacement(t *testing.T) {
	opts := DefaultOptions()
	container := Rect{Left: 100, Top: 560, Width: 600, Height: 240}

	testCases := []struct {
		description string
		caret       Point
		container   Rect
		size        Size
		window      float64
		want        Placement
	}{
		{
			description: "fits below",
			caret:       Point{X: 150, Y: 200},
			container:   Rect{Left: 100, Top: 100, Width: 600, Height: 400},
			size:        Size{Width: 300, Height: 300},
			window:      800,
			want:        Placement{Top: 124, Left: 50, MaxHeight: 300},
		},
		{
			description: "flips above near the window bottom",
			caret:       Point{X: 150, Y: 760},
			container:   container,
			size:        Size{Width: 300, Height: 300},
			window:      800,
			want:        Placement{Top: 16, Left: 50, MaxHeight: 184, PlaceAbove: true},
		},
		{
			description: "stays below when above is smaller",
			caret:       Point{X: 150, Y: 610},
			container:   container,
			size:        Size{Width: 300, Height: 300},
			window:      800,
			want:        Placement{Top: 74, Left: 50, MaxHeight: 174},
		},
		{
			description: "clamps to right edge",
			caret:       Point{X: 650, Y: 200},
			container:   Rect{Left: 100, Top: 100, Width: 600, Height: 400},
			size:        Size{Width: 300, Height: 100},
			window:      800,
			want:        Placement{Top: 124, Left: 300, MaxHeight: 100},
		},
		{
			description: "clamps to left edge",
			caret:       Point{X: 80, Y: 200},
			container:   Rect{Left: 100, Top: 100, Width: 600, Height: 400},
			size:        Size{Width: 300, Height: 100},
			window:      800,
			want:        Placement{Top: 124, Left: 0, MaxHeight: 100},
		},
		{
			description: "falls back to default min width",
			caret:       Point{X: 500, Y: 200},
			container:   Rect{Left: 100, Top: 100, Width: 600, Height: 400},
			size:        Size{Height: 100},
			window:      800,
			want:        Placement{Top: 124, Left: 220, MaxHeight: 100},
		},
		{
			description: "narrow container pins left",
			caret:       Point{X: 150, Y: 200},
			container:   Rect{Left: 100, Top: 100, Width: 200, Height: 400},
			size:        Size{Width: 300, Height: 100},
			window:      800,
			want:        Placement{Top: 124, Left: 0, MaxHeight: 100},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			got := ComputePlacement(tc.caret, tc.container, tc.size, tc.window, opts)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestComputePlacementAboveScenario(t *testing.T) {
	// 40px below the caret, 200px above it inside the container, 300px popup.
	got := ComputePlacement(
		Point{X: 10, Y: 760},
		Rect{Left: 0, Top: 560, Width: 800, Height: 240},
		Size{Width: 380, Height: 300},
		800,
		DefaultOptions(),
	)

	assert.True(t, got.PlaceAbove)
	assert.LessOrEqual(t, got.MaxHeight, 284.0)
	assert.Equal(t, 200.0, got.Top+got.MaxHeight)
}

func TestComputePlacementNeverNegative(t *testing.T) {
	got := ComputePlacement(Point{X: 0, Y: 799}, Rect{Top: 795, Width: 100}, Size{Height: 50}, 800, DefaultOptions())
	assert.GreaterOrEqual(t, got.MaxHeight, 0.0)
	assert.GreaterOrEqual(t, got.Left, 0.0)
}
