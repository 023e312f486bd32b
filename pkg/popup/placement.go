// Package popup places the suggestion list next to the caret.
//
// All inputs are plain geometry supplied by the host: the caret position and
// the container box in window coordinates, the popup's natural size and the
// window height. The returned Top and Left are relative to the container.
package popup

// Defaults: one 24px line below the caret, a 16px margin and a 380px minimum
// popup width.
const (
	DefaultLineHeightOffset = 24
	DefaultMargin           = 16
	DefaultMinWidth         = 380
)

// Point is a caret position in window coordinates.
type Point struct {
	X float64 `msgpack:"x"`
	Y float64 `msgpack:"y"`
}

// Rect is a box in window coordinates.
type Rect struct {
	Left   float64 `msgpack:"l"`
	Top    float64 `msgpack:"t"`
	Width  float64 `msgpack:"w"`
	Height float64 `msgpack:"h"`
}

// Size is the popup's intrinsic size.
type Size struct {
	Width  float64 `msgpack:"w"`
	Height float64 `msgpack:"h"`
}

// Options tune the placement policy.
type Options struct {
	LineHeightOffset float64 `toml:"line_height_offset"`
	Margin           float64 `toml:"margin"`
	MinWidth         float64 `toml:"min_width"`
}

// DefaultOptions returns the built-in policy.
func DefaultOptions() Options {
	return Options{
		LineHeightOffset: DefaultLineHeightOffset,
		Margin:           DefaultMargin,
		MinWidth:         DefaultMinWidth,
	}
}

// Placement is where the host should draw the popup.
type Placement struct {
	Top        float64 `msgpack:"t"`
	Left       float64 `msgpack:"l"`
	MaxHeight  float64 `msgpack:"mh"`
	PlaceAbove bool    `msgpack:"above"`
}

// ComputePlacement puts the popup below the caret unless it does not fit there
// and the container has more room above the caret.
func ComputePlacement(caret Point, container Rect, size Size, windowHeight float64, opts Options) Placement {
	caretTop := caret.Y - container.Top
	spaceBelow := windowHeight - caret.Y
	spaceAbove := caretTop

	p := Placement{
		Top:       caretTop + opts.LineHeightOffset,
		Left:      clampLeft(caret.X-container.Left, container.Width, minWidth(size, opts)),
		MaxHeight: size.Height,
	}

	if spaceBelow < size.Height && spaceAbove > spaceBelow {
		p.PlaceAbove = true
		p.MaxHeight = nonNegative(min(size.Height, spaceAbove-opts.Margin))
		// Bottom edge sits just above the caret line.
		p.Top = caretTop - p.MaxHeight
		return p
	}

	if spaceBelow < size.Height {
		p.MaxHeight = nonNegative(min(size.Height, spaceBelow-opts.Margin))
	}
	return p
}

func minWidth(size Size, opts Options) float64 {
	if size.Width > 0 {
		return size.Width
	}
	return opts.MinWidth
}

// clampLeft keeps the popup's right edge inside the container. When the
// container is narrower than the popup, the left edge wins.
func clampLeft(left, containerWidth, popupWidth float64) float64 {
	maxLeft := containerWidth - popupWidth
	if left > maxLeft {
		left = maxLeft
	}
	return nonNegative(left)
}

func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
