package schema

import "time"

const (
	// HalfDayLag is the delay between a row's date and its availability.
	HalfDayLag = 12 * time.Hour
	// DailyPeriod is the resolution period of every feed.
	DailyPeriod = 24 * time.Hour
)

// Anchor selects how a per-symbol record derives Time.
type Anchor int

const (
	// AnchorIntrinsic sets Time to the row's own date.
	AnchorIntrinsic Anchor = iota
	// AnchorPeriod sets Time to EndTime minus the resolution period.
	AnchorPeriod
)

// AvailabilityConvention maps a record's intrinsic date onto the timeline.
//
// Per-symbol records: EndTime = intrinsic + Lag, and Time follows Anchor.
// Universe records: Time = requested - Lag, EndTime = Time + Period.
type AvailabilityConvention struct {
	Name     string
	Universe bool
	Lag      time.Duration
	Period   time.Duration
	Anchor   Anchor
}

var (
	// StampedAtRowDate is for rows that carry their own Time.
	StampedAtRowDate = AvailabilityConvention{
		Name:   "stamped-at-row-date",
		Lag:    HalfDayLag,
		Period: DailyPeriod,
		Anchor: AnchorIntrinsic,
	}

	// EndOfRowDate is for rows that carry only EndTime.
	EndOfRowDate = AvailabilityConvention{
		Name:   "end-of-row-date",
		Lag:    HalfDayLag,
		Period: DailyPeriod,
		Anchor: AnchorPeriod,
	}

	// UniversePreviousDay is for universe files published for the previous day.
	UniversePreviousDay = AvailabilityConvention{
		Name:     "universe-previous-day",
		Universe: true,
		Lag:      DailyPeriod,
		Period:   DailyPeriod,
	}

	// UniverseHalfDay is for universe files published at noon of the previous day.
	UniverseHalfDay = AvailabilityConvention{
		Name:     "universe-half-day",
		Universe: true,
		Lag:      HalfDayLag,
		Period:   DailyPeriod,
	}
)

// Stamp returns Time and EndTime of a record.
func (x AvailabilityConvention) Stamp(intrinsic, requested time.Time) (time.Time, time.Time) {
	if x.Universe {
		start := requested.Add(-x.Lag)
		return start, start.Add(x.Period)
	}

	end := intrinsic.Add(x.Lag)
	if x.Anchor == AnchorPeriod {
		return end.Add(-x.Period), end
	}
	return intrinsic, end
}
