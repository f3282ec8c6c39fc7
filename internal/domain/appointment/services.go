package appointment

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"gorm.io/datatypes"
)

// DefaultDurationMinutes applies wherever a stored services value yields
// no usable duration. Booking checks, the calendar and the client list
// must all use it so every screen sees the same occupied ranges.
const DefaultDurationMinutes = 60

type ServicesShape int

const (
	ShapeAbsent ServicesShape = iota
	ShapeList
	ShapeSingle
	ShapeEncoded
)

func (s ServicesShape) String() string {
	switch s {
	case ShapeList:
		return "list"
	case ShapeSingle:
		return "single"
	case ShapeEncoded:
		return "encoded"
	default:
		return "absent"
	}
}

type ServiceItem struct {
	ID       string  `json:"id,omitempty"`
	Name     string  `json:"name,omitempty"`
	Duration int     `json:"duration"`
	Price    float64 `json:"price"`
}

// Services is the canonical form of the appointment services column.
type Services struct {
	Shape ServicesShape
	Items []ServiceItem
}

// TotalDuration sums item durations, falling back to
// DefaultDurationMinutes. It is always positive.
func (s Services) TotalDuration() int {
	if total := SelectionDuration(s.Items); total > 0 {
		return total
	}
	return DefaultDurationMinutes
}

func (s Services) TotalPrice() float64 {
	var total float64
	for _, it := range s.Items {
		if it.Price > 0 {
			total += it.Price
		}
	}
	return total
}

func (s Services) Names() []string {
	names := make([]string, 0, len(s.Items))
	for _, it := range s.Items {
		if it.Name != "" {
			names = append(names, it.Name)
		}
	}
	return names
}

// SelectionDuration is the raw sum of a booking selection, without the
// default. Zero means nothing bookable was selected.
func SelectionDuration(items []ServiceItem) int {
	total := 0
	for _, it := range items {
		if it.Duration > 0 {
			total += it.Duration
		}
	}
	return total
}

// ResolveDuration returns the duration in minutes of a stored services
// column value.
func ResolveDuration(raw []byte) int {
	return NormalizeServicesJSON(raw).TotalDuration()
}

// NormalizeServicesJSON decodes raw column bytes. Malformed JSON is treated
// as absent.
func NormalizeServicesJSON(raw []byte) Services {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return Services{Shape: ShapeAbsent}
	}

	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return Services{Shape: ShapeAbsent}
	}
	return normalize(v, false)
}

// NormalizeServices accepts an already decoded value: a list, a single
// object, a JSON string holding either, raw bytes, or nil.
func NormalizeServices(v any) Services {
	switch t := v.(type) {
	case []byte:
		return NormalizeServicesJSON(t)
	case datatypes.JSON:
		return NormalizeServicesJSON(t)
	case []ServiceItem:
		return Services{Shape: ShapeList, Items: append([]ServiceItem(nil), t...)}
	case ServiceItem:
		return Services{Shape: ShapeSingle, Items: []ServiceItem{t}}
	}
	return normalize(v, false)
}

func normalize(v any, encoded bool) Services {
	switch t := v.(type) {
	case string:
		// Only one level of string encoding is recognised.
		if encoded {
			return Services{Shape: ShapeAbsent}
		}
		var inner any
		if err := json.Unmarshal([]byte(t), &inner); err != nil {
			return Services{Shape: ShapeAbsent}
		}
		s := normalize(inner, true)
		if s.Shape != ShapeAbsent {
			s.Shape = ShapeEncoded
		}
		return s

	case []any:
		items := make([]ServiceItem, 0, len(t))
		for _, el := range t {
			if item, ok := itemFrom(el); ok {
				items = append(items, item)
			}
		}
		return Services{Shape: ShapeList, Items: items}

	case map[string]any:
		item, _ := itemFrom(t)
		return Services{Shape: ShapeSingle, Items: []ServiceItem{item}}

	case float64, json.Number:
		// Legacy rows stored the bare minute count.
		item, ok := itemFrom(t)
		if !ok {
			return Services{Shape: ShapeAbsent}
		}
		return Services{Shape: ShapeSingle, Items: []ServiceItem{item}}
	}

	return Services{Shape: ShapeAbsent}
}

func itemFrom(v any) (ServiceItem, bool) {
	switch t := v.(type) {
	case map[string]any:
		item := ServiceItem{
			ID:   stringFrom(t["id"]),
			Name: stringFrom(t["name"]),
		}
		if d, ok := numberFrom(t["duration"]); ok {
			item.Duration = minutes(d)
		}
		if p, ok := numberFrom(t["price"]); ok && p > 0 {
			item.Price = p
		}
		return item, true

	default:
		d, ok := numberFrom(v)
		if !ok {
			return ServiceItem{}, false
		}
		return ServiceItem{Duration: minutes(d)}, true
	}
}

func numberFrom(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, !math.IsNaN(t) && !math.IsInf(t, 0)
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

func stringFrom(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

func minutes(f float64) int {
	if f <= 0 {
		return 0
	}
	return int(math.Round(f))
}

// EncodeServices produces the canonical list encoding used for new rows.
func EncodeServices(items []ServiceItem) datatypes.JSON {
	if items == nil {
		items = []ServiceItem{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return datatypes.JSON("[]")
	}
	return datatypes.JSON(b)
}
