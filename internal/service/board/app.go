package board

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/oshokin/world-clock/internal/domain/worldtime"
	"github.com/oshokin/world-clock/internal/domain/zone"
	"github.com/oshokin/world-clock/internal/logger"
	"github.com/oshokin/world-clock/internal/render"
)

// ErrDuplicateZone is returned when a card for the zone is already active.
var ErrDuplicateZone = errors.New("zone already on the board")

// Scheduler keeps frames coming. Start must be idempotent.
type Scheduler interface {
	Start() bool
}

// SurfaceFactory creates the canvas of a new card.
type SurfaceFactory func() render.Surface

// Option configures an App.
type Option func(*App)

// WithClock sets the source of the system time.
func WithClock(c clockwork.Clock) Option {
	return func(a *App) {
		if c != nil {
			a.clock = c
		}
	}
}

// WithSurfaceFactory sets how card canvases are created.
func WithSurfaceFactory(f SurfaceFactory) Option {
	return func(a *App) {
		if f != nil {
			a.newSurface = f
		}
	}
}

// WithCanvasSize creates square SVG canvases of the given side.
func WithCanvasSize(size float64) Option {
	return func(a *App) {
		if size > 0 {
			a.newSurface = func() render.Surface {
				return render.NewSVGCanvas(size, size)
			}
		}
	}
}

// WithDefaultZone sets the zone selected and shown on Start.
func WithDefaultZone(key string) Option {
	return func(a *App) {
		if key != "" {
			a.defaultZone = key
		}
	}
}

// App is the clock board: the zone registry plus the active cards.
type App struct {
	registry    *zone.Registry
	clock       clockwork.Clock
	newSurface  SurfaceFactory
	defaultZone string

	// mu guards everything below.
	mu        sync.Mutex
	scheduler Scheduler
	cards     []*Card
	selection string
}

// New creates an empty board over the registry.
func New(registry *zone.Registry, opts ...Option) *App {
	a := &App{
		registry:    registry,
		clock:       clockwork.NewRealClock(),
		defaultZone: zone.DefaultKey,
		newSurface: func() render.Surface {
			return render.NewSVGCanvas(render.DefaultSize, render.DefaultSize)
		},
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// SetScheduler attaches the frame loop started by AddCard.
func (a *App) SetScheduler(s Scheduler) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.scheduler = s
}

// Start selects the default zone, shows its card and starts the loop.
func (a *App) Start(ctx context.Context) error {
	if err := a.SelectZone(a.defaultZone); err != nil {
		return fmt.Errorf("select default zone: %w", err)
	}

	if _, _, err := a.AddClock(ctx); err != nil {
		return err
	}

	a.startScheduler()

	return nil
}

// Zones lists the selectable zones in registry order.
func (a *App) Zones() []zone.Descriptor {
	return a.registry.All()
}

// ResolveInstant resolves the wall clock of a registered zone.
func (a *App) ResolveInstant(key string, systemNow time.Time) (worldtime.Instant, error) {
	d, err := a.registry.Lookup(key)
	if err != nil {
		return worldtime.Instant{}, err
	}

	return worldtime.Resolve(d, systemNow), nil
}

// SelectZone remembers the zone AddClock will add.
func (a *App) SelectZone(key string) error {
	if _, err := a.registry.Lookup(key); err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.selection = key

	return nil
}

// Selection returns the currently selected zone key.
func (a *App) Selection() string {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.selection
}

// AddClock adds a card for the current selection.
// A zone already on the board is not an error: the existing card is returned with added=false.
func (a *App) AddClock(ctx context.Context) (Snapshot, bool, error) {
	key := a.Selection()

	snap, err := a.AddCard(ctx, key)
	if errors.Is(err, ErrDuplicateZone) {
		logger.DebugKV(ctx, "Zone already on the board", "zone", key)

		return snap, false, nil
	}

	if err != nil {
		return Snapshot{}, false, err
	}

	return snap, true, nil
}

// DeleteClock removes the card of the zone, if any.
func (a *App) DeleteClock(ctx context.Context, key string) bool {
	return a.RemoveCard(ctx, key)
}

// AddCard creates, registers and immediately refreshes a card for key,
// then makes sure the frame loop is running.
// With ErrDuplicateZone it returns the card already on the board.
func (a *App) AddCard(ctx context.Context, key string) (Snapshot, error) {
	d, err := a.registry.Lookup(key)
	if err != nil {
		return Snapshot{}, err
	}

	a.mu.Lock()

	if idx := a.indexOf(key); idx >= 0 {
		existing := a.cards[idx].snapshot()
		a.mu.Unlock()

		return existing, fmt.Errorf("%w: %q", ErrDuplicateZone, key)
	}

	card := newCard(d, a.newSurface())
	a.cards = append(a.cards, card)
	a.refresh(card, a.clock.Now())

	snap := card.snapshot()
	total := len(a.cards)

	a.mu.Unlock()

	a.startScheduler()

	logger.InfoKV(ctx, "Card added", "zone", key, "card_id", snap.ID, "cards", total)

	return snap, nil
}

// RemoveCard drops the card of the zone. It reports whether a card existed.
func (a *App) RemoveCard(ctx context.Context, key string) bool {
	a.mu.Lock()

	idx := a.indexOf(key)
	if idx < 0 {
		a.mu.Unlock()

		return false
	}

	a.cards = append(a.cards[:idx], a.cards[idx+1:]...)
	total := len(a.cards)

	a.mu.Unlock()

	logger.InfoKV(ctx, "Card removed", "zone", key, "cards", total)

	return true
}

// RefreshCard redraws one card for systemNow.
func (a *App) RefreshCard(key string, systemNow time.Time) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	idx := a.indexOf(key)
	if idx < 0 {
		if _, err := a.registry.Lookup(key); err != nil {
			return err
		}

		return fmt.Errorf("no card for zone %q", key)
	}

	a.refresh(a.cards[idx], systemNow)

	return nil
}

// RefreshAll redraws every card, in the order they were added.
func (a *App) RefreshAll(systemNow time.Time) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, card := range a.cards {
		a.refresh(card, systemNow)
	}
}

// Cards returns the zone keys of the active cards in order.
func (a *App) Cards() []string {
	a.mu.Lock()
	defer a.mu.Unlock()

	keys := make([]string, 0, len(a.cards))
	for _, card := range a.cards {
		keys = append(keys, card.ZoneKey)
	}

	return keys
}

// Card returns the snapshot of one card.
func (a *App) Card(key string) (Snapshot, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	idx := a.indexOf(key)
	if idx < 0 {
		return Snapshot{}, false
	}

	return a.cards[idx].snapshot(), true
}

// Snapshot returns copies of all cards in order.
func (a *App) Snapshot() []Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]Snapshot, 0, len(a.cards))
	for _, card := range a.cards {
		out = append(out, card.snapshot())
	}

	return out
}

// refresh resolves once and feeds the same instant and period to the face,
// the date label and the background. Caller holds mu.
func (a *App) refresh(card *Card, systemNow time.Time) {
	instant := worldtime.Resolve(card.Zone, systemNow)
	period := instant.Period()

	render.Draw(card.Canvas, instant, period.Accent())
	card.DateLabel.text = instant.DateLabel()
	card.Container.period = period
	card.Container.class = period.BackgroundClass()
	card.refreshedAt = systemNow
}

// indexOf returns the position of the card for key or -1. Caller holds mu.
func (a *App) indexOf(key string) int {
	for i, card := range a.cards {
		if card.ZoneKey == key {
			return i
		}
	}

	return -1
}

func (a *App) startScheduler() {
	a.mu.Lock()
	s := a.scheduler
	a.mu.Unlock()

	if s != nil {
		s.Start()
	}
}
