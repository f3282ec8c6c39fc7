package appointment

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/BruksfildServices01/barberbook/internal/models"
)

type Slot struct {
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	IsAvailable bool      `json:"is_available"`
}

// Interval is a half-open range [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// ParseClock parses "HH:MM" or "HH:MM:SS" into minutes since midnight.
// Seconds are dropped.
func ParseClock(s string) (int, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Hour()*60 + t.Minute(), true
		}
	}
	return 0, false
}

func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// NormalizeClock rewrites "9:00" or "09:00:00" as "09:00".
func NormalizeClock(s string) (string, bool) {
	m, ok := ParseClock(s)
	if !ok {
		return "", false
	}
	return FormatClock(m), true
}

// GenerateSlots lists candidate start times from start, stepping by
// interval minutes. A slot is only emitted if it also ends by end, so the
// count is floor((end-start)/interval). Invalid input yields no slots.
func GenerateSlots(start, end string, interval int) []string {
	from, okFrom := ParseClock(start)
	to, okTo := ParseClock(end)
	if !okFrom || !okTo || interval <= 0 || from >= to {
		return []string{}
	}

	slots := make([]string, 0, (to-from)/interval)
	for cur := from; cur+interval <= to; cur += interval {
		slots = append(slots, FormatClock(cur))
	}
	return slots
}

// Overlaps reports whether [aStart,aEnd) and [bStart,bEnd) share an
// instant. Touching endpoints do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

func ConflictsWith(iv Interval, busy []Interval) bool {
	for _, b := range busy {
		if Overlaps(iv.Start, iv.End, b.Start, b.End) {
			return true
		}
	}
	return false
}

// At resolves a clock time against the calendar day of date.
func At(date time.Time, clock string) (time.Time, bool) {
	m, ok := ParseClock(clock)
	if !ok {
		return time.Time{}, false
	}
	return time.Date(date.Year(), date.Month(), date.Day(), m/60, m%60, 0, 0, date.Location()), true
}

// Occupied returns the range an appointment holds, deriving its length
// from the services column.
func Occupied(ap *models.Appointment, loc *time.Location) (Interval, bool) {
	day, err := time.ParseInLocation("2006-01-02", ap.AppointmentDate, loc)
	if err != nil {
		return Interval{}, false
	}
	start, ok := At(day, ap.AppointmentTime)
	if !ok {
		return Interval{}, false
	}
	d := time.Duration(ResolveDuration(ap.Services)) * time.Minute
	return Interval{Start: start, End: start.Add(d)}, true
}

// BlockingIntervals drops cancelled appointments and returns the ranges the
// rest occupy, sorted by start. Rows with unparseable date or time are
// skipped.
func BlockingIntervals(apps []models.Appointment, loc *time.Location) []Interval {
	out := make([]Interval, 0, len(apps))
	for i := range apps {
		if !Status(apps[i].Status).BlocksSlots() {
			continue
		}
		if iv, ok := Occupied(&apps[i], loc); ok {
			out = append(out, iv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out
}
