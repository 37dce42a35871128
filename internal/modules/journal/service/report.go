package service

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"inside_value_bot/internal/models"
)

// WriteDailyReport — текстовый отчёт дня. Формат исторический,
// его разбирают внешние скрипты аналитики.
func (j *Journal) WriteDailyReport(bullish, bearish []models.SignalRecord) (string, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if err := os.MkdirAll(j.reportsDir, 0o755); err != nil {
		return "", err
	}

	now := j.now()
	path := filepath.Join(j.reportsDir, fmt.Sprintf("inside_value_report_%s.txt", now.Format("20060102")))

	var b strings.Builder

	b.WriteString("==== COMBINED INSIDE VALUE INTRADAY SCANNER - DAILY REPORT ====\n")
	fmt.Fprintf(&b, "Date: %s\n\n", now.Format("2006-01-02"))

	scanned := make(map[string]struct{})
	for _, s := range append(append([]models.SignalRecord{}, bullish...), bearish...) {
		scanned[s.Symbol] = struct{}{}
	}

	b.WriteString("--- SUMMARY ---\n")
	fmt.Fprintf(&b, "Total stocks scanned: %d\n\n", len(scanned))

	b.WriteString("--- BULLISH SCAN RESULTS ---\n")
	fmt.Fprintf(&b, "Bullish inside value stocks identified: %d\n", countInside(bullish))
	fmt.Fprintf(&b, "Bullish entry signals triggered: %d\n\n", countTriggered(bullish))

	b.WriteString("--- BEARISH SCAN RESULTS ---\n")
	fmt.Fprintf(&b, "Bearish inside value stocks identified: %d\n", countInside(bearish))
	fmt.Fprintf(&b, "Bearish entry signals triggered: %d\n\n", countTriggered(bearish))

	b.WriteString("--- BULLISH INSIDE VALUE STOCKS ---\n")
	writeStockLines(&b, bullish)
	b.WriteString("\n--- BEARISH INSIDE VALUE STOCKS ---\n")
	writeStockLines(&b, bearish)
	b.WriteString("\n")

	writeTriggeredSection(&b, "--- TRIGGERED BULLISH SIGNALS ---", bullish, true)
	writeTriggeredSection(&b, "--- TRIGGERED BEARISH SIGNALS ---", bearish, false)

	writeTrades(&b, bullish, bearish)

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func triggered(s models.SignalRecord) bool { return s.AboveThreshold || s.BelowThreshold }

func countInside(recs []models.SignalRecord) int {
	n := 0
	for _, s := range recs {
		if s.InsideCombined == "Yes" {
			n++
		}
	}
	return n
}

func countTriggered(recs []models.SignalRecord) int {
	n := 0
	for _, s := range recs {
		if s.InsideCombined == "Yes" && triggered(s) {
			n++
		}
	}
	return n
}

func writeStockLines(b *strings.Builder, recs []models.SignalRecord) {
	for _, s := range recs {
		if s.InsideCombined != "Yes" {
			continue
		}
		mark := "-"
		if triggered(s) {
			mark = "✓"
		}
		fmt.Fprintf(b, "%s %s: Median=%.2f, Threshold=%.2f, Current=%.2f\n",
			mark, s.Symbol, s.YesterdayMedian, s.EntryThreshold, s.CurrentPrice)
	}
}

func writeTriggeredSection(b *strings.Builder, header string, recs []models.SignalRecord, bullish bool) {
	var hits []models.SignalRecord
	for _, s := range recs {
		if s.InsideCombined == "Yes" && triggered(s) {
			hits = append(hits, s)
		}
	}
	if len(hits) == 0 {
		return
	}

	b.WriteString(header + "\n")
	for _, s := range hits {
		var pct float64
		if s.EntryThreshold > 0 {
			if bullish {
				pct = (s.CurrentPrice - s.EntryThreshold) / s.EntryThreshold * 100
				fmt.Fprintf(b, "- %s: Price=%.2f, Above threshold by %.2f%%\n", s.Symbol, s.CurrentPrice, pct)
			} else {
				pct = (s.EntryThreshold - s.CurrentPrice) / s.EntryThreshold * 100
				fmt.Fprintf(b, "- %s: Price=%.2f, Below threshold by %.2f%%\n", s.Symbol, s.CurrentPrice, pct)
			}
		}
	}
	b.WriteString("\n")
}

func writeTrades(b *strings.Builder, bullish, bearish []models.SignalRecord) {
	var bull, bear []models.SignalRecord
	for _, s := range bullish {
		if s.TradesExecuted {
			bull = append(bull, s)
		}
	}
	for _, s := range bearish {
		if s.TradesExecuted {
			bear = append(bear, s)
		}
	}
	if len(bull) == 0 && len(bear) == 0 {
		return
	}

	b.WriteString("--- TRADES EXECUTED ---\n")

	writeTradeGroup := func(title, tag string, recs []models.SignalRecord, slSign, tgSign string) {
		if len(recs) == 0 {
			return
		}
		b.WriteString(title + "\n")
		for _, t := range recs {
			fmt.Fprintf(b, "- %s (%s): %d @ ₹%.2f\n", t.Symbol, tag, t.Quantity, t.ExecutionPrice)
			fmt.Fprintf(b, "  * Stop Loss: ₹%.2f (%s1%%)\n", t.SLPrice, slSign)
			fmt.Fprintf(b, "  * Target: ₹%.2f (%s1%%)\n", t.TargetPrice, tgSign)
		}
		b.WriteString("\n")
	}

	writeTradeGroup("BULLISH TRADES:", "BULLISH", bull, "-", "+")
	writeTradeGroup("BEARISH TRADES:", "BEARISH", bear, "+", "-")
}
