package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var ErrPriceNotFound = errors.New("no price entry for item")

// PriceEntry is one row of the plant/material price catalog: a category
// ("tree", "paver", ...) priced per size or unit ("15-gallon",
// "per sq ft", ...), as a low/high market range in USD.
type PriceEntry struct {
	Category  string    `json:"category"`
	Size      string    `json:"size"`
	LowUSD    float64   `json:"lowUsd"`
	HighUSD   float64   `json:"highUsd"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

func (e PriceEntry) Range() string {
	return fmt.Sprintf("$%.0f - $%.0f", e.LowUSD, e.HighUSD)
}

// EstimateItem is one requested line: a plant or material with a
// quantity, as produced by the design pipeline.
type EstimateItem struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Size     string `json:"size"`
	Quantity int    `json:"quantity"`
}

type EstimateLine struct {
	Item        string  `json:"item"`
	Quantity    int     `json:"quantity"`
	UnitPrice   string  `json:"unitPrice"`
	LowUSD      float64 `json:"lowUsd"`
	HighUSD     float64 `json:"highUsd"`
	Note        string  `json:"note,omitempty"`
}

type Estimate struct {
	TotalLowUSD  float64        `json:"totalLowUsd"`
	TotalHighUSD float64        `json:"totalHighUsd"`
	Lines        []EstimateLine `json:"lines"`
}

var nonNumeric = regexp.MustCompile(`[^\d.]`)

// ParsePriceRange extracts low and high from strings like "$10 - $20"
// or "$800+" (a single bound is used for both ends). Unparseable input
// yields 0, 0.
func ParsePriceRange(s string) (float64, float64) {
	clean := strings.NewReplacer("$", "", ",", "").Replace(s)
	parts := strings.Split(clean, "-")

	if len(parts) == 2 {
		low, errLow := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		high, errHigh := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if errLow == nil && errHigh == nil {
			return low, high
		}
	}
	if len(parts) == 1 {
		val, err := strconv.ParseFloat(nonNumeric.ReplaceAllString(parts[0], ""), 64)
		if err == nil {
			return val, val
		}
	}
	return 0, 0
}
