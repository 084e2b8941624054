package worldclock

import (
	"fmt"
	"time"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/oshokin/world-clock/internal/domain/zone"
	"github.com/oshokin/world-clock/internal/service/board"
)

// zonesToStruct converts descriptors into {zones: [{key, name, offset}]}.
func zonesToStruct(zones []zone.Descriptor) (*structpb.Struct, error) {
	list := make([]any, 0, len(zones))
	for _, z := range zones {
		list = append(list, map[string]any{
			"key":    z.Key,
			"name":   z.DisplayName,
			"offset": z.OffsetHours,
		})
	}

	return structpb.NewStruct(map[string]any{"zones": list})
}

// ZonesFromStruct is the inverse of zonesToStruct.
func ZonesFromStruct(s *structpb.Struct) []zone.Descriptor {
	values := s.GetFields()["zones"].GetListValue().GetValues()

	out := make([]zone.Descriptor, 0, len(values))
	for _, v := range values {
		fields := v.GetStructValue().GetFields()
		out = append(out, zone.Descriptor{
			Key:         fields["key"].GetStringValue(),
			DisplayName: fields["name"].GetStringValue(),
			OffsetHours: int(fields["offset"].GetNumberValue()),
		})
	}

	return out
}

// cardToMap flattens a card snapshot into structpb-compatible values.
func cardToMap(c board.Snapshot) map[string]any {
	return map[string]any{
		"id":           c.ID,
		"zone":         c.ZoneKey,
		"name":         c.DisplayName,
		"offset":       c.OffsetHours,
		"date":         c.DateLabel,
		"period":       c.Period,
		"background":   c.Background,
		"svg":          c.SVG,
		"refreshed_at": c.RefreshedAt.UTC().Format(time.RFC3339Nano),
	}
}

// addResultToStruct converts the AddClock outcome into {card, added}.
func addResultToStruct(c board.Snapshot, added bool) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"card":  cardToMap(c),
		"added": added,
	})
}

// snapshotToStruct converts the board state into {selection, cards}.
func snapshotToStruct(selection string, cards []board.Snapshot) (*structpb.Struct, error) {
	list := make([]any, 0, len(cards))
	for _, c := range cards {
		list = append(list, cardToMap(c))
	}

	return structpb.NewStruct(map[string]any{
		"selection": selection,
		"cards":     list,
	})
}

// CardFromStruct decodes one card produced by the server.
func CardFromStruct(s *structpb.Struct) (board.Snapshot, error) {
	fields := s.GetFields()

	c := board.Snapshot{
		ID:          fields["id"].GetStringValue(),
		ZoneKey:     fields["zone"].GetStringValue(),
		DisplayName: fields["name"].GetStringValue(),
		OffsetHours: int(fields["offset"].GetNumberValue()),
		DateLabel:   fields["date"].GetStringValue(),
		Period:      fields["period"].GetStringValue(),
		Background:  fields["background"].GetStringValue(),
		SVG:         fields["svg"].GetStringValue(),
	}

	if raw := fields["refreshed_at"].GetStringValue(); raw != "" {
		ts, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return board.Snapshot{}, fmt.Errorf("parse refreshed_at: %w", err)
		}

		c.RefreshedAt = ts
	}

	return c, nil
}

// AddResultFromStruct decodes the AddClock response.
func AddResultFromStruct(s *structpb.Struct) (board.Snapshot, bool, error) {
	fields := s.GetFields()

	card, err := CardFromStruct(fields["card"].GetStructValue())
	if err != nil {
		return board.Snapshot{}, false, err
	}

	return card, fields["added"].GetBoolValue(), nil
}

// SnapshotFromStruct decodes the Snapshot response.
func SnapshotFromStruct(s *structpb.Struct) (string, []board.Snapshot, error) {
	fields := s.GetFields()
	values := fields["cards"].GetListValue().GetValues()

	cards := make([]board.Snapshot, 0, len(values))
	for _, v := range values {
		card, err := CardFromStruct(v.GetStructValue())
		if err != nil {
			return "", nil, err
		}

		cards = append(cards, card)
	}

	return fields["selection"].GetStringValue(), cards, nil
}
