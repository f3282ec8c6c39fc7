package timezone

import (
	"fmt"
	"time"
)

const (
	DefaultTimezone = "Asia/Tashkent"

	DateLayout     = "2006-01-02"
	ClockLayout    = "15:04"
	DateTimeLayout = "2006-01-02 15:04"
)

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

// Location loads tz, falling back to DefaultTimezone and then UTC.
func Location(tz string) *time.Location {
	if IsValid(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}

	if loc, err := time.LoadLocation(DefaultTimezone); err == nil {
		return loc
	}
	return time.UTC
}

// Clock reports the current time in the shop location. Tests replace
// NowFunc.
type Clock struct {
	Loc     *time.Location
	NowFunc func() time.Time
}

func NewClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.UTC
	}
	return Clock{Loc: loc, NowFunc: time.Now}
}

func (c Clock) Now() time.Time {
	now := time.Now
	if c.NowFunc != nil {
		now = c.NowFunc
	}
	return now().In(c.location())
}

func (c Clock) Today() time.Time {
	return StartOfDay(c.Now())
}

func (c Clock) ParseDate(date string) (time.Time, error) {
	return ParseDate(date, c.location())
}

func (c Clock) ParseDateTime(date, clock string) (time.Time, error) {
	return ParseDateTime(date, clock, c.location())
}

func (c Clock) location() *time.Location {
	if c.Loc == nil {
		return time.UTC
	}
	return c.Loc
}

func ParseDate(date string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, date, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", date, err)
	}
	return t, nil
}

// ParseDateTime accepts "HH:MM" and "HH:MM:SS" clocks; seconds are dropped.
func ParseDateTime(date, clock string, loc *time.Location) (time.Time, error) {
	if len(clock) == len("15:04:05") {
		clock = clock[:5]
	}
	t, err := time.ParseInLocation(DateTimeLayout, date+" "+clock, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date/time %q %q: %w", date, clock, err)
	}
	return t, nil
}

func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// MonthBounds returns the first and last day of month "YYYY-MM".
func MonthBounds(month string, loc *time.Location) (time.Time, time.Time, error) {
	first, err := time.ParseInLocation("2006-01", month, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid month %q: %w", month, err)
	}
	return first, first.AddDate(0, 1, -1), nil
}
