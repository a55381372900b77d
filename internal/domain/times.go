package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrNonMonotonic marks an upstream day whose prayer times are out of order.
// Such a response is unusable and must be treated as a fetch failure.
var ErrNonMonotonic = errors.New("prayer times out of order")

// DailyTimes is one day of prayer times for a city, as shown to users.
// All clock fields are local "HH:MM" strings, already normalized.
type DailyTimes struct {
	Imsak   string
	Fajr    string
	Sunrise string
	Dhuhr   string
	Asr     string
	Maghrib string
	Isha    string

	HijriDay       int
	HijriMonthName string
	HijriMonth     int

	Date     time.Time
	CityName string
}

// Validate checks that the clock fields parse and increase across the day in
// their natural order.
func (d *DailyTimes) Validate() error {
	fields := []struct {
		name  string
		value string
	}{
		{"imsak", d.Imsak},
		{"fajr", d.Fajr},
		{"sunrise", d.Sunrise},
		{"dhuhr", d.Dhuhr},
		{"asr", d.Asr},
		{"maghrib", d.Maghrib},
		{"isha", d.Isha},
	}
	prev := -1
	for _, f := range fields {
		m, err := ParseClock(f.value)
		if err != nil {
			return fmt.Errorf("%s: %w", f.name, err)
		}
		if m <= prev {
			return fmt.Errorf("%w: %s=%s", ErrNonMonotonic, f.name, f.value)
		}
		prev = m
	}
	return nil
}

// ScheduleDay is one day of the Ramadan month schedule.
type ScheduleDay struct {
	Date     time.Time // local midnight
	HijriDay int
	Imsak    string
	Fajr     string
	Maghrib  string
	Isha     string
}

// Remaining filters days to those on or after today (compared by local date).
// When nothing remains, the whole schedule is returned instead: re-linking
// after the month elapsed should still seed something rather than silently
// do nothing.
func Remaining(days []ScheduleDay, today time.Time) []ScheduleDay {
	y, m, d := today.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, today.Location())

	var out []ScheduleDay
	for _, day := range days {
		if !day.Date.Before(midnight) {
			out = append(out, day)
		}
	}
	if len(out) == 0 {
		return days
	}
	return out
}
