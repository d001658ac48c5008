package timeline

import "time"

// Remaining is a countdown broken into whole units, each truncated.
type Remaining struct {
	Days    int `json:"days"`
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
	Seconds int `json:"seconds"`

	TotalMilliseconds int64 `json:"total_milliseconds"`

	// Reached is set once the target is at or before now. All other fields
	// are zero in that case.
	Reached bool `json:"reached"`
}

// Countdown returns the time from now until target. Reaching the target is
// a normal terminal result, not an error.
func Countdown(target, now time.Time) Remaining {
	ms := target.UnixMilli() - now.UnixMilli()
	if ms <= 0 {
		return Remaining{Reached: true}
	}

	const (
		secPerMin  = 60
		secPerHour = 60 * secPerMin
		secPerDay  = 24 * secPerHour
	)
	total := ms / 1000 //nolint:mnd // ms per second
	return Remaining{
		Days:              int(total / secPerDay),
		Hours:             int(total % secPerDay / secPerHour),
		Minutes:           int(total % secPerHour / secPerMin),
		Seconds:           int(total % secPerMin),
		TotalMilliseconds: ms,
	}
}

// Totals expresses the same distance as Remaining, but each unit is a total
// rather than a remainder: 2 days is 48 hours, not 0.
type Totals struct {
	Days    int64   `json:"days"`
	Hours   int64   `json:"hours"`
	Minutes int64   `json:"minutes"`
	Seconds int64   `json:"seconds"`
	Months  float64 `json:"months"`
	Years   float64 `json:"years"`
}

// Average calendar lengths used for the fractional month and year totals.
const (
	daysPerMonth = 30.4375
	daysPerYear  = 365.25
)

// CountTotals returns the total whole days, hours, minutes and seconds from
// now until target, and the fractional months and years. It is all zeros once
// the target is reached.
func CountTotals(target, now time.Time) Totals {
	ms := target.UnixMilli() - now.UnixMilli()
	if ms <= 0 {
		return Totals{}
	}
	seconds := ms / 1000    //nolint:mnd // ms per second
	minutes := seconds / 60 //nolint:mnd // seconds per minute
	hours := minutes / 60   //nolint:mnd // minutes per hour
	days := hours / 24      //nolint:mnd // hours per day
	return Totals{
		Days:    days,
		Hours:   hours,
		Minutes: minutes,
		Seconds: seconds,
		Months:  float64(days) / daysPerMonth,
		Years:   float64(days) / daysPerYear,
	}
}
