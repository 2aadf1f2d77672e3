package astro

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeparation(t *testing.T) {
	tests := []struct {
		name string
		a, b float64
		want float64
	}{
		{"identical", 45, 45, 0},
		{"simple gap", 10, 40, 30},
		{"wraparound", 350, 10, 20},
		{"wraparound reversed", 10, 350, 20},
		{"near zero crossing", 0, 350, 10},
		{"antipodal", 0, 180, 180},
		{"beyond half circle folds back", 0, 200, 160},
		{"max at exactly half", 90, 270, 180},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Separation(tt.a, tt.b), 1e-9)
		})
	}
}

func TestSeparation_SymmetricBounded(t *testing.T) {
	samples := []float64{0, 13.7, 90, 179.99, 180, 222.2, 359.5}
	for _, a := range samples {
		for _, b := range samples {
			got := Separation(a, b)
			assert.InDelta(t, got, Separation(b, a), 1e-9, "symmetry at (%v, %v)", a, b)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, 180.0)
		}
	}
}

func TestClassifyAspect(t *testing.T) {
	tests := []struct {
		sep  float64
		want AspectKind
	}{
		{0, Conjunction},
		{7.999, Conjunction},
		{8, Minor}, // window edges are exclusive
		{180, Opposition},
		{172.001, Opposition},
		{172, Minor},
		{120, Trine},
		{112.5, Trine},
		{84, Square}, // trine window misses 84 by 36, square catches it
		{90, Square},
		{96.9, Square},
		{97, Minor},
		{60, Sextile},
		{65.9, Sextile},
		{66, Minor},
		{40, Minor},
		{150, Minor},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyAspect(tt.sep), "ClassifyAspect(%v)", tt.sep)
	}
}

func TestClassifyAspect_ExactCenters(t *testing.T) {
	for _, tt := range []struct {
		sep  float64
		want AspectKind
	}{
		{0.0, Conjunction},
		{180.0, Opposition},
		{120.0, Trine},
		{90.0, Square},
		{60.0, Sextile},
	} {
		assert.Equal(t, tt.want, ClassifyAspect(tt.sep))
	}
}

func TestSynastry_IdenticalCharts(t *testing.T) {
	m := NewPositionMap()
	longs := []float64{10, 55, 123, 200, 250, 300, 359}
	for i, b := range Bodies {
		m[b] = Position{Longitude: longs[i], Resolved: true}
	}

	aspects := Synastry(m, m)
	require.Len(t, aspects, len(Bodies))
	for i, a := range aspects {
		assert.Equal(t, Bodies[i], a.Body, "body order must follow the fixed set")
		assert.InDelta(t, 0.0, a.Separation, 1e-9)
		assert.Equal(t, Conjunction, a.Kind)
	}
}

func TestSynastry_SkipsUnresolved(t *testing.T) {
	a := NewPositionMap()
	b := NewPositionMap()
	for _, body := range Bodies {
		a[body] = Position{Longitude: 10, Resolved: true}
		b[body] = Position{Longitude: 40, Resolved: true}
	}
	a[Moon] = Position{}               // unresolved on one side
	b[Saturn] = Position{}             // unresolved on the other
	b[Mars] = Position{Longitude: 190} // Resolved left false

	aspects := Synastry(a, b)
	require.Len(t, aspects, 4)
	for _, asp := range aspects {
		assert.NotEqual(t, Moon, asp.Body)
		assert.NotEqual(t, Saturn, asp.Body)
		assert.NotEqual(t, Mars, asp.Body)
		assert.InDelta(t, 30.0, asp.Separation, 1e-9)
		assert.Equal(t, Minor, asp.Kind)
	}
}

func TestSynastry_MixedKinds(t *testing.T) {
	a := NewPositionMap()
	b := NewPositionMap()
	set := func(m PositionMap, body Body, lon float64) {
		m[body] = Position{Longitude: lon, Resolved: true}
	}
	set(a, Sun, 0)
	set(b, Sun, 3) // conjunction
	set(a, Moon, 10)
	set(b, Moon, 185) // 175 -> opposition
	set(a, Mercury, 100)
	set(b, Mercury, 222) // 122 -> trine
	set(a, Venus, 40)
	set(b, Venus, 134) // 94 -> square
	set(a, Mars, 300)
	set(b, Mars, 358) // 58 -> sextile
	set(a, Jupiter, 0)
	set(b, Jupiter, 40) // minor
	set(a, Saturn, 350)
	set(b, Saturn, 10) // 20 -> minor

	aspects := Synastry(a, b)
	require.Len(t, aspects, 7)
	wantKinds := []AspectKind{Conjunction, Opposition, Trine, Square, Sextile, Minor, Minor}
	for i, asp := range aspects {
		assert.Equal(t, wantKinds[i], asp.Kind, "body %s", asp.Body)
	}
}

func TestAspectKind_String(t *testing.T) {
	assert.Equal(t, "conjunction", Conjunction.String())
	assert.Equal(t, "minor", Minor.String())
	assert.Equal(t, "unknown", AspectKind(99).String())
}
