package board

import (
	"time"

	"github.com/google/uuid"

	"github.com/oshokin/world-clock/internal/domain/worldtime"
	"github.com/oshokin/world-clock/internal/domain/zone"
	"github.com/oshokin/world-clock/internal/render"
)

// Label holds the date text shown on a card.
type Label struct {
	text string
}

// Text returns the current label text.
func (l *Label) Text() string {
	return l.text
}

// Container holds the styling state of a card's block.
type Container struct {
	period worldtime.Period
	class  string
}

// Class returns the background style class.
func (c *Container) Class() string {
	return c.class
}

// Period returns the period the background was last set for.
func (c *Container) Period() worldtime.Period {
	return c.period
}

// Card is one visible clock bound to a zone.
type Card struct {
	ID        uuid.UUID
	ZoneKey   string
	Zone      zone.Descriptor
	Canvas    render.Surface
	DateLabel *Label
	Container *Container

	refreshedAt time.Time
}

// Snapshot is a read-only copy of a card after its latest refresh.
type Snapshot struct {
	ID          string    `json:"id"`
	ZoneKey     string    `json:"zone"`
	DisplayName string    `json:"name"`
	OffsetHours int       `json:"offset"`
	DateLabel   string    `json:"date"`
	Period      string    `json:"period"`
	Background  string    `json:"background"`
	SVG         string    `json:"svg,omitempty"`
	RefreshedAt time.Time `json:"refreshed_at"`
}

// encoder is implemented by surfaces that can export their drawing.
type encoder interface {
	Bytes() []byte
}

func newCard(d zone.Descriptor, canvas render.Surface) *Card {
	return &Card{
		ID:        uuid.New(),
		ZoneKey:   d.Key,
		Zone:      d,
		Canvas:    canvas,
		DateLabel: new(Label),
		Container: new(Container),
	}
}

func (c *Card) snapshot() Snapshot {
	s := Snapshot{
		ID:          c.ID.String(),
		ZoneKey:     c.ZoneKey,
		DisplayName: c.Zone.DisplayName,
		OffsetHours: c.Zone.OffsetHours,
		DateLabel:   c.DateLabel.text,
		Period:      c.Container.period.String(),
		Background:  c.Container.class,
		RefreshedAt: c.refreshedAt,
	}

	if enc, ok := c.Canvas.(encoder); ok {
		s.SVG = string(enc.Bytes())
	}

	return s
}
