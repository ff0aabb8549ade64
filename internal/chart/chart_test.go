package chart

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockdash/pkg/contracts/domain"
)

func sampleSeries() domain.PriceSeries {
	d := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	return domain.PriceSeries{
		{Date: d, Open: 10, High: 12, Low: 9, Close: 11, Volume: 100},
		{Date: d.AddDate(0, 0, 1), Open: 11, High: 13, Low: 10, Close: 12, Volume: 200},
	}
}

func TestBuildPrice(t *testing.T) {
	series := sampleSeries()

	tests := []struct {
		name       string
		typ        Type
		wantOHLC   bool
		wantPoints bool
		wantFill   bool
	}{
		{name: "candlestick", typ: Candlestick, wantOHLC: true},
		{name: "ohlc", typ: OHLC, wantOHLC: true},
		{name: "line", typ: Line, wantPoints: true},
		{name: "area", typ: Area, wantPoints: true, wantFill: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := BuildPrice("AAPL", series, tt.typ)

			assert.Equal(t, "AAPL", payload.Symbol)
			assert.Equal(t, tt.typ, payload.Type)
			assert.Equal(t, tt.wantFill, payload.Fill)

			if tt.wantOHLC {
				require.Len(t, payload.OHLC, 2)
				assert.Empty(t, payload.Points)
				assert.Equal(t, OHLCPoint{Date: "2025-03-10", Open: 10, High: 12, Low: 9, Close: 11}, payload.OHLC[0])
			}
			if tt.wantPoints {
				require.Len(t, payload.Points, 2)
				assert.Empty(t, payload.OHLC)
				assert.Equal(t, Point{Date: "2025-03-11", Value: 12}, payload.Points[1])
			}
		})
	}
}

func TestBuildVolume(t *testing.T) {
	payload := BuildVolume("MSFT", sampleSeries())

	require.Len(t, payload.Bars, 2)
	assert.Equal(t, "MSFT", payload.Symbol)
	assert.Equal(t, VolumePoint{Date: "2025-03-10", Volume: 100}, payload.Bars[0])
}

func TestTypeValid(t *testing.T) {
	for _, typ := range Types() {
		assert.True(t, typ.Valid(), string(typ))
	}
	assert.False(t, Type("pie").Valid())
}
