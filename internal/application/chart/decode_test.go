package chart

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeLongitude(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want float64
		ok   bool
	}{
		{"bare float64", 123.45, 123.45, true},
		{"bare float32", float32(90.5), 90.5, true},
		{"bare int", 42, 42, true},
		{"bare int64", int64(7), 7, true},
		{"position vector", []float64{211.3, -0.2, 1.01}, 211.3, true},
		{"fixed size vector", [3]float64{88.8, 0.5, 9.5}, 88.8, true},
		{"empty vector", []float64{}, 0, false},
		{"vector plus flags", []any{[]float64{17.8, 1.1, 0.99}, int64(258)}, 17.8, true},
		{"nested vectors", [][]float64{{300.1, 0, 1}, {1, 2, 3}}, 300.1, true},
		{"scalar in wrapper", []any{55.5, "retflag"}, 55.5, true},
		{"double wrapper", []any{[]any{12.0}}, 12.0, true},
		{"too deep", []any{[]any{[]any{12.0}}}, 0, false},
		{"empty wrapper", []any{}, 0, false},
		{"string", "211.3", 0, false},
		{"nil", nil, 0, false},
		{"map", map[string]float64{"lon": 1}, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := decodeLongitude(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.want, got, 1e-4)
			}
		})
	}
}
