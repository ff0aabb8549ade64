package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockdash/pkg/contracts/domain"
)

func day(n int) time.Time {
	return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func TestCompute(t *testing.T) {
	tests := []struct {
		name   string
		series domain.PriceSeries
		want   *Result
	}{
		{
			name: "two bar series",
			series: domain.PriceSeries{
				{Date: day(0), Close: 100, High: 105, Low: 95, Volume: 1000},
				{Date: day(1), Close: 110, High: 112, Low: 99, Volume: 2000},
			},
			want: &Result{
				CurrentPrice:     110,
				OpeningPrice:     100,
				High:             112,
				Low:              95,
				PriceChange:      10,
				PercentageChange: 10.0,
				AverageVolume:    1500,
			},
		},
		{
			name: "single bar series",
			series: domain.PriceSeries{
				{Date: day(0), Close: 50, High: 55, Low: 45, Volume: 500},
			},
			want: &Result{
				CurrentPrice:     50,
				OpeningPrice:     50,
				High:             55,
				Low:              45,
				PriceChange:      0,
				PercentageChange: 0,
				AverageVolume:    500,
			},
		},
		{
			name: "high and low not on endpoints",
			series: domain.PriceSeries{
				{Date: day(0), Close: 10, High: 11, Low: 9, Volume: 100},
				{Date: day(1), Close: 12, High: 20, Low: 3, Volume: 200},
				{Date: day(2), Close: 11, High: 13, Low: 10, Volume: 300},
			},
			want: &Result{
				CurrentPrice:     11,
				OpeningPrice:     10,
				High:             20,
				Low:              3,
				PriceChange:      1,
				PercentageChange: 10.0,
				AverageVolume:    200,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Compute(tt.series)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompute_UsesFirstCloseAsOpening(t *testing.T) {
	// The opening price is the first bar's CLOSE, not its open field.
	series := domain.PriceSeries{
		{Date: day(0), Open: 90, Close: 100, High: 101, Low: 89, Volume: 10},
		{Date: day(1), Open: 100, Close: 105, High: 106, Low: 99, Volume: 10},
	}

	got, err := Compute(series)
	require.NoError(t, err)

	assert.Equal(t, 100.0, got.OpeningPrice)
	assert.Equal(t, 5.0, got.PriceChange)
	assert.InDelta(t, 5.0, got.PercentageChange, 1e-12)
}

func TestCompute_EmptySeries(t *testing.T) {
	got, err := Compute(domain.PriceSeries{})
	assert.Nil(t, got)
	assert.ErrorIs(t, err, ErrNoData)

	got, err = Compute(nil)
	assert.Nil(t, got)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestCompute_ZeroOpeningPrice(t *testing.T) {
	series := domain.PriceSeries{
		{Date: day(0), Close: 0, High: 1, Low: 0, Volume: 10},
		{Date: day(1), Close: 5, High: 6, Low: 4, Volume: 20},
	}

	got, err := Compute(series)
	assert.Nil(t, got)
	assert.ErrorIs(t, err, ErrInvalidBaseline)
}
