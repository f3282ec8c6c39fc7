package appointment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
)

func TestResolveDuration_Shapes(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want int
	}{
		{"list", `[{"duration":30},{"duration":15}]`, 45},
		{"encoded list", `"[{\"duration\":20}]"`, 20},
		{"single object", `{"id":"s1","name":"Fade","duration":40,"price":50000}`, 40},
		{"encoded object", `"{\"duration\":25}"`, 25},
		{"empty object", `{}`, 60},
		{"null", `null`, 60},
		{"empty column", ``, 60},
		{"malformed", `[{"duration":`, 60},
		{"encoded garbage", `"not json"`, 60},
		{"legacy bare minutes", `[30, 15]`, 45},
		{"mixed legacy", `[{"duration":30}, 20, {"name":"no duration"}]`, 50},
		{"numeric strings", `[{"duration":"30"}, "15"]`, 45},
		{"fractional minutes", `[{"duration":29.6}]`, 30},
		{"negative ignored", `[{"duration":-30}, {"duration":15}]`, 15},
		{"all zero", `[{"duration":0}]`, 60},
		{"empty list", `[]`, 60},
		{"top-level number", `45`, 45},
		{"double encoded", `"\"[{\\\"duration\\\":20}]\""`, 60},
		{"boolean", `true`, 60},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ResolveDuration([]byte(tc.raw))
			assert.Equal(t, tc.want, got)
			assert.Equal(t, got, ResolveDuration([]byte(tc.raw)), "must be stable across calls")
			assert.Positive(t, got)
		})
	}
}

func TestNormalizeServices_Shapes(t *testing.T) {
	assert.Equal(t, ShapeList, NormalizeServicesJSON([]byte(`[{"duration":30}]`)).Shape)
	assert.Equal(t, ShapeSingle, NormalizeServicesJSON([]byte(`{"duration":30}`)).Shape)
	assert.Equal(t, ShapeEncoded, NormalizeServicesJSON([]byte(`"[{\"duration\":30}]"`)).Shape)
	assert.Equal(t, ShapeAbsent, NormalizeServicesJSON([]byte(`{oops`)).Shape)
	assert.Equal(t, ShapeAbsent, NormalizeServices(nil).Shape)
}

func TestNormalizeServices_DecodedValues(t *testing.T) {
	list := []any{
		map[string]any{"id": float64(7), "name": "Haircut", "duration": float64(30), "price": float64(80000)},
		map[string]any{"id": "b2", "name": "Beard", "duration": float64(15), "price": float64(40000)},
	}

	s := NormalizeServices(list)
	assert.Equal(t, ShapeList, s.Shape)
	assert.Equal(t, 45, s.TotalDuration())
	assert.Equal(t, 120000.0, s.TotalPrice())
	assert.Equal(t, []string{"Haircut", "Beard"}, s.Names())
	assert.Equal(t, "7", s.Items[0].ID)

	assert.Equal(t, 20, NormalizeServices(`[{"duration":20}]`).TotalDuration())
	assert.Equal(t, 60, NormalizeServices(map[string]any{}).TotalDuration())
	assert.Equal(t, 30, NormalizeServices(datatypes.JSON(`{"duration":30}`)).TotalDuration())
	assert.Equal(t, 15, NormalizeServices([]ServiceItem{{Duration: 15}}).TotalDuration())
}

func TestEncodeServices_RoundTrip(t *testing.T) {
	items := []ServiceItem{
		{ID: "1", Name: "Haircut", Duration: 30, Price: 80000},
		{ID: "2", Name: "Beard", Duration: 15, Price: 40000},
	}

	s := NormalizeServicesJSON(EncodeServices(items))
	assert.Equal(t, ShapeList, s.Shape)
	assert.Equal(t, items, s.Items)

	assert.JSONEq(t, `[]`, string(EncodeServices(nil)))
}

func TestSelectionDuration_NoDefault(t *testing.T) {
	assert.Equal(t, 0, SelectionDuration(nil))
	assert.Equal(t, 0, SelectionDuration([]ServiceItem{{Duration: 0}}))
	assert.Equal(t, 75, SelectionDuration([]ServiceItem{{Duration: 45}, {Duration: 30}}))
}
