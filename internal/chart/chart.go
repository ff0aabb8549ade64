// Package chart builds JSON-ready chart payloads from a price series.
// The frontend renders them as-is; no plotting happens server side.
package chart

import (
	"stockdash/pkg/contracts/domain"
)

// Type selects the primary price chart rendering.
type Type string

const (
	Candlestick Type = "candlestick"
	OHLC        Type = "ohlc"
	Line        Type = "line"
	Area        Type = "area"
)

// Types lists the supported chart types in display order.
func Types() []Type {
	return []Type{Candlestick, OHLC, Line, Area}
}

// Valid reports whether t is a supported chart type.
func (t Type) Valid() bool {
	switch t {
	case Candlestick, OHLC, Line, Area:
		return true
	}
	return false
}

// OHLCPoint is one bar of a candlestick or OHLC chart.
type OHLCPoint struct {
	Date  string  `json:"date"`
	Open  float64 `json:"open"`
	High  float64 `json:"high"`
	Low   float64 `json:"low"`
	Close float64 `json:"close"`
}

// Point is one value of a line or area chart.
type Point struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// PricePayload is the primary price chart for one symbol.
// OHLC is set for candlestick/ohlc types, Points for line/area.
type PricePayload struct {
	Symbol string      `json:"symbol"`
	Type   Type        `json:"type"`
	Fill   bool        `json:"fill"`
	OHLC   []OHLCPoint `json:"ohlc,omitempty"`
	Points []Point     `json:"points,omitempty"`
}

// VolumePoint is one bar of the volume chart.
type VolumePoint struct {
	Date   string `json:"date"`
	Volume int64  `json:"volume"`
}

// VolumePayload is the trading volume bar chart for one symbol.
type VolumePayload struct {
	Symbol string        `json:"symbol"`
	Bars   []VolumePoint `json:"bars"`
}

const dateLayout = "2006-01-02"

// BuildPrice assembles the primary price chart payload for the given type.
// Line and area charts plot closing prices only.
func BuildPrice(symbol string, series domain.PriceSeries, typ Type) PricePayload {
	payload := PricePayload{
		Symbol: symbol,
		Type:   typ,
		Fill:   typ == Area,
	}

	switch typ {
	case Candlestick, OHLC:
		payload.OHLC = make([]OHLCPoint, 0, len(series))
		for _, bar := range series {
			payload.OHLC = append(payload.OHLC, OHLCPoint{
				Date:  bar.Date.Format(dateLayout),
				Open:  bar.Open,
				High:  bar.High,
				Low:   bar.Low,
				Close: bar.Close,
			})
		}
	default:
		payload.Points = make([]Point, 0, len(series))
		for _, bar := range series {
			payload.Points = append(payload.Points, Point{
				Date:  bar.Date.Format(dateLayout),
				Value: bar.Close,
			})
		}
	}

	return payload
}

// BuildVolume assembles the volume bar chart payload.
func BuildVolume(symbol string, series domain.PriceSeries) VolumePayload {
	bars := make([]VolumePoint, 0, len(series))
	for _, bar := range series {
		bars = append(bars, VolumePoint{
			Date:   bar.Date.Format(dateLayout),
			Volume: bar.Volume,
		})
	}
	return VolumePayload{Symbol: symbol, Bars: bars}
}
