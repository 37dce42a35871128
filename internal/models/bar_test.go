package models

import (
	"math"
	"testing"
)

func TestBarValue(t *testing.T) {
	tests := []struct {
		name   string
		bar    Bar
		bottom float64
		median float64
		top    float64
	}{
		{
			name:   "close above mid",
			bar:    Bar{High: 110, Low: 90, Close: 106},
			bottom: 100, median: 102, top: 104,
		},
		{
			// закрытие у низа переворачивает зону: top ниже bottom
			name:   "close near low inverts zone",
			bar:    Bar{High: 110, Low: 90, Close: 91},
			bottom: 100, median: 97, top: 94,
		},
		{
			name:   "close at mid collapses zone",
			bar:    Bar{High: 104, Low: 96, Close: 100},
			bottom: 100, median: 100, top: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := tt.bar.Value()
			if math.Abs(v.Bottom-tt.bottom) > 1e-9 {
				t.Errorf("Bottom = %v, want %v", v.Bottom, tt.bottom)
			}
			if math.Abs(v.Median-tt.median) > 1e-9 {
				t.Errorf("Median = %v, want %v", v.Median, tt.median)
			}
			if math.Abs(v.Top-tt.top) > 1e-9 {
				t.Errorf("Top = %v, want %v", v.Top, tt.top)
			}
		})
	}
}

func TestDirectionHelpers(t *testing.T) {
	if DirectionBullish.Opposite() != DirectionBearish || DirectionBearish.Opposite() != DirectionBullish {
		t.Error("Opposite() must swap directions")
	}
	if DirectionBullish.Side() != SideBuy || DirectionBearish.Side() != SideSell {
		t.Error("Side() mapping wrong")
	}
	if SideBuy.Opposite() != SideSell || SideSell.Opposite() != SideBuy {
		t.Error("Side.Opposite() must swap sides")
	}
}

func TestTradeClosed(t *testing.T) {
	tr := &Trade{Symbol: "RELIANCE"}
	if tr.Closed() {
		t.Error("empty trade must not be closed")
	}

	tr.Brackets = append(tr.Brackets, &Bracket{State: BracketTargetHit})
	if !tr.Closed() {
		t.Error("trade with one terminal bracket must be closed")
	}

	tr.Brackets = append(tr.Brackets, &Bracket{State: BracketExecuted})
	if tr.Closed() {
		t.Error("trade with an open bracket must not be closed")
	}
}
