package zone

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// MinOffsetHours is the westernmost supported UTC offset.
	MinOffsetHours = -12
	// MaxOffsetHours is the easternmost supported UTC offset.
	MaxOffsetHours = 14

	// DefaultKey is the zone shown when nothing else is configured.
	DefaultKey = "msk"
)

var (
	// ErrUnknownZone is returned when a zone key is not registered.
	ErrUnknownZone = errors.New("unknown zone")
	// ErrInvalidZone is returned when a descriptor cannot be registered.
	ErrInvalidZone = errors.New("invalid zone")
)

// Descriptor describes one selectable time zone.
type Descriptor struct {
	// Key identifies the zone, e.g. "tokyo".
	Key string `yaml:"key"`
	// OffsetHours is added to UTC to get the zone's wall clock. No DST.
	OffsetHours int `yaml:"offset"`
	// DisplayName is the label shown above the clock face.
	DisplayName string `yaml:"name"`
}

// Builtin returns the zones every registry starts with.
func Builtin() []Descriptor {
	return []Descriptor{
		{Key: "msk", OffsetHours: 3, DisplayName: "MOSCOW"},
		{Key: "london", OffsetHours: 0, DisplayName: "LONDON"},
		{Key: "tokyo", OffsetHours: 9, DisplayName: "TOKYO"},
		{Key: "newyork", OffsetHours: -5, DisplayName: "NEW YORK"},
		{Key: "beijing", OffsetHours: 8, DisplayName: "BEIJING"},
	}
}

// Registry is an immutable, ordered set of zone descriptors.
type Registry struct {
	byKey map[string]Descriptor
	order []string
}

// NewRegistry builds a registry from the built-in zones followed by extra.
func NewRegistry(extra ...Descriptor) (*Registry, error) {
	all := append(Builtin(), extra...)

	r := &Registry{
		byKey: make(map[string]Descriptor, len(all)),
		order: make([]string, 0, len(all)),
	}

	for _, d := range all {
		if err := Validate(d); err != nil {
			return nil, err
		}

		if _, exists := r.byKey[d.Key]; exists {
			return nil, fmt.Errorf("%w: duplicate key %q", ErrInvalidZone, d.Key)
		}

		r.byKey[d.Key] = d
		r.order = append(r.order, d.Key)
	}

	return r, nil
}

// Validate checks a single descriptor.
func Validate(d Descriptor) error {
	if strings.TrimSpace(d.Key) == "" {
		return fmt.Errorf("%w: empty key", ErrInvalidZone)
	}

	if strings.TrimSpace(d.DisplayName) == "" {
		return fmt.Errorf("%w: zone %q has no display name", ErrInvalidZone, d.Key)
	}

	if d.OffsetHours < MinOffsetHours || d.OffsetHours > MaxOffsetHours {
		return fmt.Errorf("%w: zone %q offset %d outside %d..%d",
			ErrInvalidZone, d.Key, d.OffsetHours, MinOffsetHours, MaxOffsetHours)
	}

	return nil
}

// Lookup returns the descriptor registered under key.
func (r *Registry) Lookup(key string) (Descriptor, error) {
	d, ok := r.byKey[key]
	if !ok {
		return Descriptor{}, fmt.Errorf("%w: %q", ErrUnknownZone, key)
	}

	return d, nil
}

// All returns the descriptors in registration order.
func (r *Registry) All() []Descriptor {
	out := make([]Descriptor, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, r.byKey[key])
	}

	return out
}

// Len reports how many zones are registered.
func (r *Registry) Len() int {
	return len(r.order)
}
