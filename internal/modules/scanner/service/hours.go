package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MarketHours — торговое окно по будням.
type MarketHours struct {
	openMin  int // минуты от полуночи
	closeMin int
	loc      *time.Location
}

// NewMarketHours парсит "09:15"/"15:30" и таймзону.
func NewMarketHours(open, close, tz string) (MarketHours, error) {
	o, err := parseClock(open)
	if err != nil {
		return MarketHours{}, fmt.Errorf("market open: %w", err)
	}
	c, err := parseClock(close)
	if err != nil {
		return MarketHours{}, fmt.Errorf("market close: %w", err)
	}
	if c <= o {
		return MarketHours{}, fmt.Errorf("market close %q before open %q", close, open)
	}

	loc, err := time.LoadLocation(tz)
	if err != nil {
		return MarketHours{}, fmt.Errorf("timezone %q: %w", tz, err)
	}

	return MarketHours{openMin: o, closeMin: c, loc: loc}, nil
}

func parseClock(s string) (int, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("bad clock %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("bad hour in %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("bad minute in %q", s)
	}
	return h*60 + m, nil
}

// OpenAt — внутри ли торгового окна (границы включительно).
func (h MarketHours) OpenAt(t time.Time) bool {
	t = t.In(h.loc)

	wd := t.Weekday()
	if wd == time.Saturday || wd == time.Sunday {
		return false
	}

	min := t.Hour()*60 + t.Minute()
	return min >= h.openMin && min <= h.closeMin
}

// NextOpen — ближайшее открытие строго после t.
func (h MarketHours) NextOpen(t time.Time) time.Time {
	t = t.In(h.loc)

	day := time.Date(t.Year(), t.Month(), t.Day(), h.openMin/60, h.openMin%60, 0, 0, h.loc)
	if !t.Before(day) {
		day = day.AddDate(0, 0, 1)
	}
	for day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
		day = day.AddDate(0, 0, 1)
	}
	return day
}
