package domain

import (
	"sort"
	"time"
)

// PriceBar is one daily price/volume record for a symbol.
// Upstream data is assumed to satisfy low <= open, close <= high;
// this is not enforced here.
type PriceBar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// PriceSeries is a date-ascending sequence of bars for one symbol over a
// requested date range. An empty series is a valid "no data" state and is
// distinct from an error.
type PriceSeries []PriceBar

// IsEmpty reports whether the series contains no bars.
func (s PriceSeries) IsEmpty() bool {
	return len(s) == 0
}

// First returns the earliest bar. Callers must check IsEmpty first.
func (s PriceSeries) First() PriceBar {
	return s[0]
}

// Last returns the most recent bar. Callers must check IsEmpty first.
func (s PriceSeries) Last() PriceBar {
	return s[len(s)-1]
}

// Tail returns the n most recent bars (the whole series when it has
// fewer than n bars).
func (s PriceSeries) Tail(n int) PriceSeries {
	if n <= 0 {
		return PriceSeries{}
	}
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}

// Sort orders the series ascending by date in place.
func (s PriceSeries) Sort() {
	sort.Slice(s, func(i, j int) bool {
		return s[i].Date.Before(s[j].Date)
	})
}
