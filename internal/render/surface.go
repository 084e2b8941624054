package render

import (
	"fmt"
	"image/color"
)

// LineCap is the shape of a stroked line's ends.
type LineCap string

const (
	// CapButt ends the line exactly at its endpoints.
	CapButt LineCap = "butt"
	// CapRound ends the line with a half circle.
	CapRound LineCap = "round"
)

// Stroke describes how a line is drawn.
type Stroke struct {
	Color color.RGBA
	Width float64
	Cap   LineCap
}

// Font describes how text is drawn.
type Font struct {
	Size   float64
	Weight string
	Family string
}

// Surface is a square 2D drawing area.
type Surface interface {
	// Size returns the logical width and height.
	Size() (width, height float64)
	// Clear erases everything drawn so far.
	Clear()
	// FillCircle draws a filled disc.
	FillCircle(cx, cy, r float64, fill color.RGBA)
	// StrokeLine draws a line segment.
	StrokeLine(x1, y1, x2, y2 float64, stroke Stroke)
	// FillText draws text centered on (x, y).
	FillText(text string, x, y float64, font Font, fill color.RGBA)
}

// CSSColor formats c as a CSS rgb() value.
func CSSColor(c color.RGBA) string {
	return fmt.Sprintf("rgb(%d, %d, %d)", c.R, c.G, c.B)
}
