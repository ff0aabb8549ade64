// Package stats computes derived statistics over a price series.
//
// The calculator is pure: the result depends only on the content and order
// of the input series. The series is expected to be date-ascending; the
// provider layer guarantees this before handing data over.
package stats

import (
	"errors"

	"stockdash/pkg/contracts/domain"
)

var (
	// ErrNoData is returned for a nil or empty series. Callers must treat
	// this as an explicit absent-value signal, never as a zeroed result.
	ErrNoData = errors.New("stats: no data in series")

	// ErrInvalidBaseline is returned when the opening price is zero and the
	// percentage change would divide by zero.
	ErrInvalidBaseline = errors.New("stats: zero opening price, percentage change undefined")
)

// Result holds the statistics derived from one price series. It has no
// identity of its own and is recomputed fresh on every request.
type Result struct {
	CurrentPrice     float64 `json:"current_price"`
	OpeningPrice     float64 `json:"opening_price"`
	High             float64 `json:"high"`
	Low              float64 `json:"low"`
	PriceChange      float64 `json:"price_change"`
	PercentageChange float64 `json:"percentage_change"`
	AverageVolume    float64 `json:"average_volume"`
}

// Compute derives statistics from a date-ascending price series.
//
// CurrentPrice is the close of the last bar. OpeningPrice is the close of
// the FIRST bar, i.e. the start-of-period value, not the first bar's open
// field. The upstream dashboard has always labelled it this way and the
// displayed numbers depend on it.
func Compute(series domain.PriceSeries) (*Result, error) {
	if series.IsEmpty() {
		return nil, ErrNoData
	}

	currentPrice := series.Last().Close
	openingPrice := series.First().Close

	priceChange := currentPrice - openingPrice
	if openingPrice == 0 {
		return nil, ErrInvalidBaseline
	}
	percentageChange := (priceChange / openingPrice) * 100

	high := series[0].High
	low := series[0].Low
	var volumeSum int64
	for _, bar := range series {
		if bar.High > high {
			high = bar.High
		}
		if bar.Low < low {
			low = bar.Low
		}
		volumeSum += bar.Volume
	}

	return &Result{
		CurrentPrice:     currentPrice,
		OpeningPrice:     openingPrice,
		High:             high,
		Low:              low,
		PriceChange:      priceChange,
		PercentageChange: percentageChange,
		AverageVolume:    float64(volumeSum) / float64(len(series)),
	}, nil
}
