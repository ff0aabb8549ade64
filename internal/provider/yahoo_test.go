package provider

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chartJSON(timestamps []int64, closes, volumes []string) string {
	join := func(vals []string) string { return strings.Join(vals, ",") }
	ts := make([]string, len(timestamps))
	for i, v := range timestamps {
		ts[i] = fmt.Sprintf("%d", v)
	}
	cl := join(closes)
	return fmt.Sprintf(`{"chart":{"result":[{"timestamp":[%s],"indicators":{"quote":[{
		"open":[%s],"high":[%s],"low":[%s],"close":[%s],"volume":[%s]
	}]}}],"error":null}}`, join(ts), cl, cl, cl, cl, join(volumes))
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*YahooClient, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := NewYahooClient(srv.URL, 5*time.Second, 100, 10, slog.Default())
	return client, srv
}

func TestYahooClient_FetchSeries(t *testing.T) {
	var gotPath string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		fmt.Fprint(w, chartJSON([]int64{1735689600, 1735776000}, []string{"100.5", "110.25"}, []string{"1000", "2000"}))
	})

	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC)

	series, err := client.FetchSeries(context.Background(), "AAPL", start, end)
	require.NoError(t, err)
	require.Len(t, series, 2)

	assert.Equal(t, "/v8/finance/chart/AAPL", gotPath)
	assert.Equal(t, 100.5, series[0].Close)
	assert.Equal(t, 110.25, series[1].Close)
	assert.True(t, series[0].Date.Before(series[1].Date))
}

func TestYahooClient_FetchSeries_SkipsNullBars(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"chart":{"result":[{"timestamp":[1735689600,1735776000],"indicators":{"quote":[{
			"open":[100,null],"high":[101,null],"low":[99,null],"close":[100.5,null],"volume":[1000,null]
		}]}}],"error":null}}`)
	})

	series, err := client.FetchSeries(context.Background(), "AAPL", time.Now().AddDate(0, 0, -7), time.Now())
	require.NoError(t, err)
	require.Len(t, series, 1)
	assert.Equal(t, 100.5, series[0].Close)
}

func TestYahooClient_FetchSeries_APIError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`)
	})

	series, err := client.FetchSeries(context.Background(), "NOPE", time.Now().AddDate(0, 0, -7), time.Now())
	assert.Nil(t, series)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestYahooClient_FetchSeries_HTTPStatus(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		unavailable bool
	}{
		{name: "not found maps to unavailable", status: http.StatusNotFound, unavailable: true},
		{name: "server error is a plain error", status: http.StatusInternalServerError, unavailable: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			})

			_, err := client.FetchSeries(context.Background(), "AAPL", time.Now().AddDate(0, 0, -7), time.Now())
			require.Error(t, err)
			assert.Equal(t, tt.unavailable, errors.Is(err, ErrUnavailable))
		})
	}
}
