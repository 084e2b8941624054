package render

import (
	"image/color"
	"math"
	"strconv"

	"github.com/oshokin/world-clock/internal/domain/worldtime"
)

const (
	// DefaultSize is the side of a card's canvas in logical units.
	DefaultSize = 250

	tickGlyph   = "•"
	fontFamily  = "'Poppins'"
	fontWeight  = "bold"
	majorSize   = 25
	minorSize   = 20
	centerSize  = 50
	tickRadius  = 0.90
	labelRadius = 0.75

	hourHandLength   = 0.50
	minuteHandLength = 0.65
	secondHandLength = 0.80

	hourHandWidth   = 4
	minuteHandWidth = 3
	secondHandWidth = 2
)

var (
	// FaceColor fills the clock dial.
	FaceColor = color.RGBA{R: 244, G: 244, B: 244, A: 0xff}
	// NeutralColor is used for minor ticks, hour and minute hands and the hub.
	NeutralColor = color.RGBA{R: 42, G: 53, B: 44, A: 0xff}
)

// Angles holds hand angles in radians, clockwise from 12 o'clock.
type Angles struct {
	Hour   float64
	Minute float64
	Second float64
}

// HandAngles computes the three hand angles for an instant.
func HandAngles(i worldtime.Instant) Angles {
	return Angles{
		Hour:   (float64(i.Hour%12) + float64(i.Minute)/60) * (math.Pi / 6),
		Minute: (float64(i.Minute) + float64(i.Second)/60) * (math.Pi / 30),
		Second: float64(i.Second) * (math.Pi / 30),
	}
}

// Draw clears the surface and paints a full clock face for the instant.
func Draw(s Surface, i worldtime.Instant, accent color.RGBA) {
	width, height := s.Size()
	radius := width / 2
	cx, cy := width/2, height/2

	s.Clear()
	s.FillCircle(cx, cy, radius, FaceColor)

	for number := 1; number <= 12; number++ {
		font := Font{Size: minorSize, Weight: fontWeight, Family: fontFamily}
		fill := NeutralColor

		if number%3 == 0 {
			font.Size = majorSize
			fill = accent
		}

		angle := float64(number) * math.Pi / 6

		x, y := polar(cx, cy, radius*tickRadius, angle)
		s.FillText(tickGlyph, x, y, font, fill)

		x, y = polar(cx, cy, radius*labelRadius, angle)
		s.FillText(strconv.Itoa(number), x, y, font, fill)
	}

	angles := HandAngles(i)

	hand(s, cx, cy, radius*hourHandLength, angles.Hour, Stroke{Color: NeutralColor, Width: hourHandWidth, Cap: CapRound})
	hand(s, cx, cy, radius*minuteHandLength, angles.Minute, Stroke{Color: NeutralColor, Width: minuteHandWidth, Cap: CapRound})
	hand(s, cx, cy, radius*secondHandLength, angles.Second, Stroke{Color: accent, Width: secondHandWidth, Cap: CapRound})

	s.FillText(tickGlyph, cx, cy, Font{Size: centerSize, Weight: fontWeight, Family: fontFamily}, NeutralColor)
}

// hand strokes a line from the center outwards.
func hand(s Surface, cx, cy, length, angle float64, stroke Stroke) {
	x, y := polar(cx, cy, length, angle)
	s.StrokeLine(cx, cy, x, y, stroke)
}

// polar places a point at distance r from the center, angle clockwise from 12 o'clock.
func polar(cx, cy, r, angle float64) (float64, float64) {
	return cx + r*math.Cos(angle-math.Pi/2), cy + r*math.Sin(angle-math.Pi/2)
}
