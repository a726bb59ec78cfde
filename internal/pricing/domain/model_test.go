package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePriceRange(t *testing.T) {
	cases := []struct {
		in        string
		low, high float64
	}{
		{"$10 - $20", 10, 20},
		{"$1,200 - $3,500", 1200, 3500},
		{"$800+", 800, 800},
		{"$45", 45, 45},
		{"40 - 80", 40, 80},
		{"call for quote", 0, 0},
		{"", 0, 0},
	}
	for _, tc := range cases {
		low, high := ParsePriceRange(tc.in)
		assert.Equal(t, tc.low, low, "low of %q", tc.in)
		assert.Equal(t, tc.high, high, "high of %q", tc.in)
	}
}

func TestPriceEntryRange(t *testing.T) {
	e := PriceEntry{Category: "tree", Size: "15-gallon", LowUSD: 80, HighUSD: 150}
	assert.Equal(t, "$80 - $150", e.Range())
}
