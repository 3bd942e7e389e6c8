package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFloatFR(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"80", 80, true},
		{"1 234,50", 1234.5, true},
		{"2 500", 2500, true},
		{"12.5", 12.5, true},
		{"+30", 30, true},
		{"1.234,5", 1234.5, true},
		{"", 0, false},
		{"-", 0, false},
		{"abc", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseFloatFR(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}
