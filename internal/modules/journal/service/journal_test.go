package service

import (
	"os"
	"strings"
	"testing"
	"time"

	"inside_value_bot/internal/models"
)

func fixedJournal(t *testing.T) (*Journal, time.Time) {
	t.Helper()
	dir := t.TempDir()
	j := NewJournal(dir, dir)
	day := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	j.now = func() time.Time { return day }
	return j, day
}

func record(symbol string, dir models.Direction, price float64) models.SignalRecord {
	prev := models.Bar{High: 110, Low: 90, Close: 106}
	curr := models.Bar{High: 104, Low: 98, Close: 104}
	check := models.PatternCheck{Set1: true}
	return models.NewSignalRecord(symbol, "NSE", dir, prev, curr, check, 103.0, price)
}

func TestJournalUpsert(t *testing.T) {
	j, day := fixedJournal(t)

	if err := j.Upsert(record("RELIANCE", models.DirectionBullish, 101.5)); err != nil {
		t.Fatalf("Upsert() error: %v", err)
	}
	if err := j.Upsert(record("TCS", models.DirectionBullish, 99.0)); err != nil {
		t.Fatalf("Upsert() error: %v", err)
	}

	// апдейт той же пары (символ, стратегия) не плодит дублей
	if err := j.Upsert(record("RELIANCE", models.DirectionBullish, 103.2)); err != nil {
		t.Fatalf("Upsert() error: %v", err)
	}

	recs, err := j.Load(models.DirectionBullish, day)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("loaded %d records, want 2", len(recs))
	}

	var found bool
	for _, r := range recs {
		if r.Symbol == "RELIANCE" {
			found = true
			if r.CurrentPrice != 103.2 {
				t.Errorf("current price = %v, want latest 103.2", r.CurrentPrice)
			}
		}
	}
	if !found {
		t.Error("RELIANCE record missing after upsert")
	}
}

func TestJournalStrategiesSeparated(t *testing.T) {
	j, day := fixedJournal(t)

	if err := j.UpsertAll([]models.SignalRecord{
		record("RELIANCE", models.DirectionBullish, 103.2),
		record("INFY", models.DirectionBearish, 100.4),
	}); err != nil {
		t.Fatalf("UpsertAll() error: %v", err)
	}

	bull, err := j.Load(models.DirectionBullish, day)
	if err != nil {
		t.Fatalf("Load(bullish) error: %v", err)
	}
	bear, err := j.Load(models.DirectionBearish, day)
	if err != nil {
		t.Fatalf("Load(bearish) error: %v", err)
	}
	if len(bull) != 1 || bull[0].Symbol != "RELIANCE" {
		t.Errorf("bullish file = %+v, want only RELIANCE", bull)
	}
	if len(bear) != 1 || bear[0].Symbol != "INFY" {
		t.Errorf("bearish file = %+v, want only INFY", bear)
	}
}

func TestJournalLoadMissingDay(t *testing.T) {
	j, _ := fixedJournal(t)

	recs, err := j.Load(models.DirectionBullish, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Load() error for missing file: %v", err)
	}
	if recs != nil {
		t.Errorf("Load() = %v, want nil for missing file", recs)
	}
}

func TestWriteDailyReport(t *testing.T) {
	j, _ := fixedJournal(t)

	traded := record("RELIANCE", models.DirectionBullish, 103.2)
	traded.TradesExecuted = true
	traded.ExecutionPrice = 103.25
	traded.Quantity = 10
	traded.SLPrice = 102.2
	traded.TargetPrice = 104.3

	path, err := j.WriteDailyReport(
		[]models.SignalRecord{traded, record("TCS", models.DirectionBullish, 99.0)},
		[]models.SignalRecord{record("INFY", models.DirectionBearish, 100.4)},
	)
	if err != nil {
		t.Fatalf("WriteDailyReport() error: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	text := string(raw)

	for _, want := range []string{
		"DAILY REPORT",
		"Date: 2025-06-02",
		"--- BULLISH SCAN RESULTS ---",
		"--- BEARISH SCAN RESULTS ---",
		"RELIANCE",
		"TRADES EXECUTED",
		"₹103.25",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("report missing %q", want)
		}
	}
}
