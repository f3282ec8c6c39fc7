package appointment

import "strings"

const manualBookingPrefix = "Manual booking:"

type ManualClient struct {
	Name  string
	Phone string
	Extra string
}

// FormatManualNotes encodes a walk-in client as
// "Manual booking: Name, Phone", followed by extra notes on the next line.
func FormatManualNotes(name, phone, extra string) string {
	notes := manualBookingPrefix + " " + strings.TrimSpace(name) + ", " + strings.TrimSpace(phone)
	if extra = strings.TrimSpace(extra); extra != "" {
		notes += "\n" + extra
	}
	return notes
}

// ParseManualNotes recovers the walk-in client from notes written by
// FormatManualNotes. The phone is taken after the last comma so names may
// contain commas.
func ParseManualNotes(notes string) (ManualClient, bool) {
	first, rest, _ := strings.Cut(strings.TrimSpace(notes), "\n")
	first = strings.TrimSpace(first)

	if !strings.HasPrefix(first, manualBookingPrefix) {
		return ManualClient{}, false
	}
	body := strings.TrimSpace(strings.TrimPrefix(first, manualBookingPrefix))

	mc := ManualClient{Extra: strings.TrimSpace(rest)}
	if i := strings.LastIndex(body, ","); i >= 0 {
		mc.Name = strings.TrimSpace(body[:i])
		mc.Phone = strings.TrimSpace(body[i+1:])
	} else {
		mc.Name = body
	}

	if mc.Name == "" {
		return ManualClient{}, false
	}
	return mc, true
}
