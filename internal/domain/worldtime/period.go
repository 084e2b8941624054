package worldtime

import "image/color"

// Period is a coarse time-of-day category.
type Period int

const (
	// Night covers [21, 6).
	Night Period = iota
	// Morning covers [6, 12).
	Morning
	// Afternoon covers [12, 18).
	Afternoon
	// Evening covers [18, 21).
	Evening
)

// Classify maps an hour to its period. Boundaries belong to the later period.
func Classify(hour int) Period {
	switch {
	case hour >= 6 && hour < 12:
		return Morning
	case hour >= 12 && hour < 18:
		return Afternoon
	case hour >= 18 && hour < 21:
		return Evening
	default:
		return Night
	}
}

// String returns the lowercase period name.
func (p Period) String() string {
	switch p {
	case Morning:
		return "morning"
	case Afternoon:
		return "afternoon"
	case Evening:
		return "evening"
	default:
		return "night"
	}
}

// Accent returns the color used for major ticks and the second hand.
func (p Period) Accent() color.RGBA {
	switch p {
	case Morning:
		return color.RGBA{R: 160, G: 163, B: 222, A: 0xff}
	case Afternoon:
		return color.RGBA{R: 57, G: 165, B: 238, A: 0xff}
	case Evening:
		return color.RGBA{R: 147, G: 75, B: 113, A: 0xff}
	default:
		return color.RGBA{R: 80, G: 75, B: 155, A: 0xff}
	}
}

// BackgroundClass returns the style class of a card's container.
func (p Period) BackgroundClass() string {
	return p.String() + "-background"
}
