package service

import (
	"testing"
	"time"
)

func TestMarketHoursOpenAt(t *testing.T) {
	h, err := NewMarketHours("09:15", "15:30", "Asia/Kolkata")
	if err != nil {
		t.Fatalf("NewMarketHours() error: %v", err)
	}
	loc, _ := time.LoadLocation("Asia/Kolkata")

	tests := []struct {
		name string
		at   time.Time
		want bool
	}{
		{"monday mid session", time.Date(2025, 6, 2, 11, 0, 0, 0, loc), true},
		{"open boundary", time.Date(2025, 6, 2, 9, 15, 0, 0, loc), true},
		{"close boundary", time.Date(2025, 6, 2, 15, 30, 0, 0, loc), true},
		{"before open", time.Date(2025, 6, 2, 9, 14, 0, 0, loc), false},
		{"after close", time.Date(2025, 6, 2, 15, 31, 0, 0, loc), false},
		{"saturday", time.Date(2025, 6, 7, 11, 0, 0, 0, loc), false},
		{"sunday", time.Date(2025, 6, 8, 11, 0, 0, 0, loc), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := h.OpenAt(tt.at); got != tt.want {
				t.Errorf("OpenAt(%s) = %v, want %v", tt.at, got, tt.want)
			}
		})
	}
}

func TestMarketHoursNextOpen(t *testing.T) {
	h, err := NewMarketHours("09:15", "15:30", "Asia/Kolkata")
	if err != nil {
		t.Fatalf("NewMarketHours() error: %v", err)
	}
	loc, _ := time.LoadLocation("Asia/Kolkata")

	tests := []struct {
		name string
		at   time.Time
		want time.Time
	}{
		{
			"early same day",
			time.Date(2025, 6, 2, 7, 0, 0, 0, loc),
			time.Date(2025, 6, 2, 9, 15, 0, 0, loc),
		},
		{
			"friday evening skips weekend",
			time.Date(2025, 6, 6, 16, 0, 0, 0, loc),
			time.Date(2025, 6, 9, 9, 15, 0, 0, loc),
		},
		{
			"saturday",
			time.Date(2025, 6, 7, 12, 0, 0, 0, loc),
			time.Date(2025, 6, 9, 9, 15, 0, 0, loc),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := h.NextOpen(tt.at); !got.Equal(tt.want) {
				t.Errorf("NextOpen(%s) = %s, want %s", tt.at, got, tt.want)
			}
		})
	}
}

func TestNewMarketHoursValidation(t *testing.T) {
	if _, err := NewMarketHours("25:00", "15:30", "Asia/Kolkata"); err == nil {
		t.Error("expected error for bad open clock")
	}
	if _, err := NewMarketHours("15:30", "09:15", "Asia/Kolkata"); err == nil {
		t.Error("expected error when close is before open")
	}
	if _, err := NewMarketHours("09:15", "15:30", "Nope/Nowhere"); err == nil {
		t.Error("expected error for unknown timezone")
	}
}
