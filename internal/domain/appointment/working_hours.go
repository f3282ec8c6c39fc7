package appointment

import (
	"time"

	"github.com/BruksfildServices01/barberbook/internal/models"
)

type WindowSource string

const (
	WindowConfigured WindowSource = "configured"
	WindowDefault    WindowSource = "default"
	WindowClosed     WindowSource = "closed"
)

// DefaultHours is used for barbers with no working hours row for a day.
type DefaultHours struct {
	Start string
	End   string
}

type Window struct {
	Start  string       `json:"start"`
	End    string       `json:"end"`
	Source WindowSource `json:"source"`
}

func (w Window) Closed() bool {
	return w.Source == WindowClosed
}

// Bounds resolves the window against the calendar day of date.
func (w Window) Bounds(date time.Time) (time.Time, time.Time, bool) {
	if w.Closed() {
		return time.Time{}, time.Time{}, false
	}
	start, ok1 := At(date, w.Start)
	end, ok2 := At(date, w.End)
	if !ok1 || !ok2 || !start.Before(end) {
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

// Fits reports whether [start,end) lies inside the window on start's day.
func (w Window) Fits(start, end time.Time) bool {
	open, shut, ok := w.Bounds(start)
	if !ok {
		return false
	}
	return !start.Before(open) && !end.After(shut)
}

// EffectiveWindow picks the hours used for a day. A missing or malformed
// row falls back to the defaults; an inactive row closes the day.
func EffectiveWindow(wh *models.WorkingHours, def DefaultHours) Window {
	fallback := Window{Start: def.Start, End: def.End, Source: WindowDefault}

	if wh == nil {
		return fallback
	}
	if !wh.Active {
		return Window{Source: WindowClosed}
	}

	start, ok1 := NormalizeClock(wh.StartTime)
	end, ok2 := NormalizeClock(wh.EndTime)
	if !ok1 || !ok2 || start >= end {
		return fallback
	}

	return Window{Start: start, End: end, Source: WindowConfigured}
}

// ValidateWorkingDay checks a settings row before it is stored.
func ValidateWorkingDay(wh models.WorkingHours) bool {
	if wh.Weekday < 0 || wh.Weekday > 6 {
		return false
	}
	if !wh.Active {
		return true
	}
	start, ok1 := NormalizeClock(wh.StartTime)
	end, ok2 := NormalizeClock(wh.EndTime)
	return ok1 && ok2 && start < end
}
