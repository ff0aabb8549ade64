package services

import (
	"fmt"
	"time"
)

// Range preset names offered in the sidebar.
const (
	RangeWeek    = "1wk"
	RangeMonth   = "1mo"
	Range3Months = "3mo"
	Range6Months = "6mo"
	RangeYear    = "1y"
	RangeCustom  = "custom"
)

// presetLookbacks maps each preset to its calendar-day lookback. The values
// are padded beyond the nominal period so the window always contains enough
// trading days despite weekends and holidays.
var presetLookbacks = map[string]int{
	RangeWeek:    14,
	RangeMonth:   35,
	Range3Months: 95,
	Range6Months: 185,
	RangeYear:    370,
}

// RangePresets lists the selectable range names in display order.
func RangePresets() []string {
	return []string{RangeWeek, RangeMonth, Range3Months, Range6Months, RangeYear, RangeCustom}
}

// ResolveRange turns a preset name (or an explicit custom start/end pair)
// into a concrete [start, end] window anchored at now. A custom range with
// no end date runs up to now.
func ResolveRange(name string, start, end time.Time, now time.Time) (time.Time, time.Time, error) {
	if name == RangeCustom {
		if start.IsZero() {
			return time.Time{}, time.Time{}, fmt.Errorf("custom range requires a start date")
		}
		if end.IsZero() {
			end = now
		}
		if end.Before(start) {
			return time.Time{}, time.Time{}, fmt.Errorf("range end %s precedes start %s",
				end.Format("2006-01-02"), start.Format("2006-01-02"))
		}
		return start, end, nil
	}

	days, ok := presetLookbacks[name]
	if !ok {
		return time.Time{}, time.Time{}, fmt.Errorf("unknown range preset %q", name)
	}
	return now.AddDate(0, 0, -days), now, nil
}
