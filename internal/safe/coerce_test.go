package safe

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBool(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected *bool
	}{
		{name: "nil", input: nil, expected: nil},
		{name: "one", input: "1", expected: ptr(true)},
		{name: "true upper", input: "TRUE", expected: ptr(true)},
		{name: "yes", input: "Yes", expected: ptr(true)},
		{name: "si", input: "si", expected: ptr(true)},
		{name: "zero", input: "0", expected: ptr(false)},
		{name: "number one", input: json.Number("1"), expected: ptr(true)},
		{name: "float one", input: float64(1), expected: ptr(true)},
		{name: "bool", input: true, expected: ptr(true)},
		{name: "garbage", input: "sí", expected: ptr(false)},
		{name: "object", input: map[string]any{"a": 1}, expected: ptr(false)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Bool(tt.input))
		})
	}
}

func TestInt(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected *int
	}{
		{name: "nil", input: nil, expected: nil},
		{name: "number", input: json.Number("42"), expected: ptr(42)},
		{name: "fractional number truncates", input: json.Number("12.7"), expected: ptr(12)},
		{name: "string", input: " 7 ", expected: ptr(7)},
		{name: "fractional string", input: "7.5", expected: nil},
		{name: "float", input: float64(3), expected: ptr(3)},
		{name: "nan", input: math.NaN(), expected: nil},
		{name: "garbage", input: "abc", expected: nil},
		{name: "list", input: []any{1}, expected: nil},
		{name: "huge number", input: json.Number("1e30"), expected: nil},
		{name: "huge float", input: float64(1e30), expected: nil},
		{name: "negative huge float", input: float64(-1e30), expected: nil},
		{name: "int64 above int32", input: json.Number("3000000000"), expected: nil},
		{name: "string above int32", input: "2147483648", expected: nil},
		{name: "int32 max", input: json.Number("2147483647"), expected: ptr(math.MaxInt32)},
		{name: "int32 min float", input: float64(math.MinInt32), expected: ptr(math.MinInt32)},
		{name: "native int64 above int32", input: int64(1) << 40, expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Int(tt.input))
		})
	}
}

func TestFloat(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected *float64
	}{
		{name: "nil", input: nil, expected: nil},
		{name: "number", input: json.Number("1500000.5"), expected: ptr(1500000.5)},
		{name: "string", input: "10", expected: ptr(10.0)},
		{name: "garbage", input: "diez", expected: nil},
		{name: "object", input: map[string]any{}, expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Float(tt.input))
		})
	}
}

func TestTime(t *testing.T) {
	t.Run("naive timestamp", func(t *testing.T) {
		got := Time("2024-03-05T15:30:00")
		require.NotNil(t, got)
		assert.True(t, got.Equal(time.Date(2024, 3, 5, 15, 30, 0, 0, time.UTC)))
	})

	t.Run("fractional seconds", func(t *testing.T) {
		got := Time("2024-03-05T15:30:00.527")
		require.NotNil(t, got)
		assert.Equal(t, 527*int(time.Millisecond), got.Nanosecond())
	})

	t.Run("sub-microsecond digits are truncated", func(t *testing.T) {
		got := Time("2024-01-15T15:00:00.1234567")
		require.NotNil(t, got)
		assert.Equal(t, 123456000, got.Nanosecond())
		assert.True(t, got.Equal(got.Round(time.Microsecond)))
	})

	t.Run("trailing Z is UTC", func(t *testing.T) {
		got := Time("2024-03-05T15:30:00Z")
		require.NotNil(t, got)
		assert.True(t, got.Equal(time.Date(2024, 3, 5, 15, 30, 0, 0, time.UTC)))
	})

	t.Run("offset is normalized to UTC", func(t *testing.T) {
		got := Time("2024-03-05T12:30:00-03:00")
		require.NotNil(t, got)
		assert.Equal(t, time.UTC, got.Location())
		assert.Equal(t, 15, got.Hour())
	})

	t.Run("date only", func(t *testing.T) {
		got := Time("2024-03-05")
		require.NotNil(t, got)
		assert.Equal(t, 5, got.Day())
	})

	for _, input := range []any{nil, "", "   ", "05-03-2024", "not a date", "Z", 20240305, json.Number("1")} {
		assert.Nil(t, Time(input), "input %v", input)
	}
}

func TestString(t *testing.T) {
	assert.Nil(t, String(nil))
	assert.Equal(t, ptr("abc"), String("abc"))
	assert.Equal(t, ptr("1234"), String(json.Number("1234")))
	assert.Equal(t, ptr(""), String(""))
	assert.Nil(t, NonEmptyString(""))
	assert.Nil(t, String([]any{"a"}))
}

func TestStripDiacritics(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{input: "", expected: ""},
		{input: "tecnología", expected: "tecnologia"},
		{input: "Suscripción Mantención", expected: "Suscripcion Mantencion"},
		{input: "Ñandú", expected: "Nandu"},
		{input: "plain", expected: "plain"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, StripDiacritics(tt.input))
		})
	}
}

func TestLookup(t *testing.T) {
	m := map[string]any{
		"Comprador": map[string]any{"NombreOrganismo": "Municipalidad"},
		"Fechas":    nil,
		"Items":     "broken",
	}

	assert.Equal(t, "Municipalidad", Lookup(m, "Comprador", "NombreOrganismo"))
	assert.Nil(t, Lookup(m, "Fechas", "FechaCierre"))
	assert.Nil(t, Lookup(m, "Items", "Listado"))
	assert.Nil(t, Lookup(nil, "a"))

	assert.Empty(t, Group(m, "Fechas"))
	assert.Empty(t, Group(m, "Items"))
	assert.Empty(t, Group(nil, "Items"))
	assert.Equal(t, "Municipalidad", Group(m, "Comprador")["NombreOrganismo"])

	objs := Objects([]any{map[string]any{"a": 1}, "x", nil, map[string]any{"b": 2}})
	require.Len(t, objs, 2)
	assert.Equal(t, 1, objs[0]["a"])
	assert.Nil(t, Objects("not a list"))
}

func ptr[T any](v T) *T {
	return &v
}
