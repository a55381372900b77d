package domain

import (
	"errors"
	"testing"
	"time"
)

func validDay() DailyTimes {
	return DailyTimes{
		Imsak:   "05:12",
		Fajr:    "05:32",
		Sunrise: "07:05",
		Dhuhr:   "12:58",
		Asr:     "16:10",
		Maghrib: "18:44",
		Isha:    "20:12",
	}
}

func TestValidateOrdered(t *testing.T) {
	d := validDay()
	if err := d.Validate(); err != nil {
		t.Fatalf("valid day rejected: %v", err)
	}
}

func TestValidateOutOfOrder(t *testing.T) {
	d := validDay()
	d.Maghrib = "04:00" // before asr
	err := d.Validate()
	if !errors.Is(err, ErrNonMonotonic) {
		t.Fatalf("want ErrNonMonotonic, got %v", err)
	}
}

func TestValidateUnparsable(t *testing.T) {
	d := validDay()
	d.Sunrise = "soon"
	if err := d.Validate(); err == nil {
		t.Fatal("expected error for unparsable field")
	}
}

func monthOf(loc *time.Location, n int) []ScheduleDay {
	days := make([]ScheduleDay, n)
	for i := range days {
		days[i] = ScheduleDay{
			Date:     time.Date(2026, time.February, 18+i, 0, 0, 0, 0, loc),
			HijriDay: i + 1,
		}
	}
	return days
}

func TestRemainingMidMonth(t *testing.T) {
	loc, _ := time.LoadLocation("Asia/Almaty")
	days := monthOf(loc, 30)
	// Partway through the 10th day: that day itself still counts.
	today := time.Date(2026, time.February, 27, 13, 45, 0, 0, loc)
	rest := Remaining(days, today)
	if len(rest) != 21 {
		t.Fatalf("want 21 remaining days, got %d", len(rest))
	}
	if rest[0].HijriDay != 10 {
		t.Fatalf("first remaining day = %d, want 10", rest[0].HijriDay)
	}
}

func TestRemainingAfterMonthFallsBack(t *testing.T) {
	loc, _ := time.LoadLocation("Asia/Almaty")
	days := monthOf(loc, 30)
	today := time.Date(2026, time.June, 1, 0, 0, 0, 0, loc)
	rest := Remaining(days, today)
	if len(rest) != len(days) {
		t.Fatalf("want full month fallback (%d days), got %d", len(days), len(rest))
	}
}

func TestRemainingBeforeMonth(t *testing.T) {
	loc, _ := time.LoadLocation("Asia/Almaty")
	days := monthOf(loc, 30)
	today := time.Date(2026, time.January, 1, 0, 0, 0, 0, loc)
	if got := len(Remaining(days, today)); got != 30 {
		t.Fatalf("want all 30 days, got %d", got)
	}
}
