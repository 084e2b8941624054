package worldtime

import (
	"time"

	"github.com/oshokin/world-clock/internal/domain/zone"
)

const secondsPerHour = 3600

// DateLayout renders the long en-US date shown under each clock.
const DateLayout = "January 2, 2006"

// Instant is a zone-local wall clock reading.
type Instant struct {
	Hour   int
	Minute int
	Second int
	// Date is the full instant expressed in the zone's fixed offset.
	Date time.Time
}

// Resolve shifts systemNow to the zone's fixed offset.
// The host offset is discarded by normalizing to UTC first, DST is ignored on both sides.
func Resolve(z zone.Descriptor, systemNow time.Time) Instant {
	loc := time.FixedZone(z.DisplayName, z.OffsetHours*secondsPerHour)
	local := systemNow.UTC().In(loc)

	return Instant{
		Hour:   local.Hour(),
		Minute: local.Minute(),
		Second: local.Second(),
		Date:   local,
	}
}

// DateLabel returns the long-form date of the instant, e.g. "March 15, 2024".
func (i Instant) DateLabel() string {
	return i.Date.Format(DateLayout)
}

// Period classifies the instant's hour.
func (i Instant) Period() Period {
	return Classify(i.Hour)
}
