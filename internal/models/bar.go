package models

import "time"

// Bar — дневная или растущая внутридневная свеча.
type Bar struct {
	Open  float64
	High  float64
	Low   float64
	Close float64
	Date  time.Time

	// Complete=false для растущего внутридневного бара
	Complete bool
}

// ValueZone — уровни value-зоны бара.
type ValueZone struct {
	Bottom float64
	Median float64
	Top    float64
}

// Value: bottom=(h+l)/2, median=(h+l+c)/3, top зеркален bottom вокруг median.
func (b Bar) Value() ValueZone {
	bottom := (b.High + b.Low) / 2
	median := (b.High + b.Low + b.Close) / 3

	return ValueZone{
		Bottom: bottom,
		Median: median,
		Top:    2*median - bottom,
	}
}
