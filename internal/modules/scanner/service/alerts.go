package service

import (
	"fmt"
	"strings"
	"time"

	"inside_value_bot/internal/models"
)

// Тексты алертов. Формат устоялся, получатели его парсят глазами годами.

func patternAlertMessage(rec models.SignalRecord) string {
	dir := strings.ToUpper(rec.StrategyType)

	var b strings.Builder
	fmt.Fprintf(&b, "🔍 %s INSIDE VALUE PATTERN DETECTED - %s\n\n", dir, rec.Symbol)

	b.WriteString("📊 Pattern Detection:\n")
	fmt.Fprintf(&b, "- Inside Value: %s\n", rec.InsideCombined)
	if rec.InsideSet1 == "Yes" {
		b.WriteString("- Pattern Type: Set 1 Equations\n")
	}
	if rec.InsideSet2 == "Yes" {
		b.WriteString("- Pattern Type: Set 2 Equations\n")
	}

	side := "above"
	arrow := "upward"
	if rec.StrategyType == string(models.DirectionBearish) {
		side = "below"
		arrow = "downward"
	}

	b.WriteString("\n💰 Price Analysis:\n")
	fmt.Fprintf(&b, "- Yesterday's Median: ₹%.2f\n", rec.YesterdayMedian)
	fmt.Fprintf(&b, "- Entry Threshold (1%% %s): ₹%.2f\n", side, rec.EntryThreshold)
	fmt.Fprintf(&b, "- Current Price: ₹%.2f\n", rec.CurrentPrice)

	fmt.Fprintf(&b, "\n⏰ Last Updated: %s", rec.LastUpdated)
	fmt.Fprintf(&b, "\n\n📣 Will alert when price crosses threshold %s!", arrow)

	return b.String()
}

func entryAlertMessage(rec models.SignalRecord) string {
	dir := strings.ToUpper(rec.StrategyType)
	bullish := rec.StrategyType == string(models.DirectionBullish)

	var b strings.Builder
	fmt.Fprintf(&b, "🎯 %s ENTRY SIGNAL TRIGGERED - %s\n\n", dir, rec.Symbol)

	diff := rec.CurrentPrice - rec.EntryThreshold
	if !bullish {
		diff = rec.EntryThreshold - rec.CurrentPrice
	}

	b.WriteString("💰 Price Analysis:\n")
	fmt.Fprintf(&b, "- Entry Threshold: ₹%.2f\n", rec.EntryThreshold)
	fmt.Fprintf(&b, "- Current Price: ₹%.2f\n", rec.CurrentPrice)
	if rec.EntryThreshold > 0 {
		fmt.Fprintf(&b, "- Price crossed threshold by: ₹%.2f (%.2f%%)\n", diff, diff/rec.EntryThreshold*100)
	}

	verb, icon := "Buy", "📈"
	slSign, tgSign := "-", "+"
	if !bullish {
		verb, icon = "Sell", "📉"
		slSign, tgSign = "+", "-"
	}

	fmt.Fprintf(&b, "\n%s Trade Details:\n", icon)
	fmt.Fprintf(&b, "- %s Order:\n", strings.ToUpper(string(models.Direction(rec.StrategyType).Side())))
	fmt.Fprintf(&b, "  • %s %s @ ₹%.2f\n", verb, rec.Symbol, rec.CurrentPrice)

	if rec.ExecutionPrice > 0 {
		fmt.Fprintf(&b, "  • Executed at: ₹%.2f\n", rec.ExecutionPrice)
		fmt.Fprintf(&b, "  • Quantity: %d\n", rec.Quantity)
		fmt.Fprintf(&b, "  • Stop Loss: ₹%.2f (%s1%%)\n", rec.SLPrice, slSign)
		fmt.Fprintf(&b, "  • Target: ₹%.2f (%s1%%)\n", rec.TargetPrice, tgSign)
	}

	fmt.Fprintf(&b, "\n⏰ Last Updated: %s", rec.LastUpdated)

	return b.String()
}

func stopLossAlertMessage(b1 *models.Bracket, flip *models.Bracket) string {
	var b strings.Builder
	fmt.Fprintf(&b, "⚠️ STOP LOSS TRIGGERED - %s\n\n", b1.Symbol)

	lossPct := 0.0
	if b1.EntryPrice > 0 {
		lossPct = (b1.StopLoss - b1.EntryPrice) / b1.EntryPrice * 100
		if lossPct < 0 {
			lossPct = -lossPct
		}
	}

	b.WriteString("💰 Position Details:\n")
	fmt.Fprintf(&b, "- Entry Price: ₹%.2f\n", b1.EntryPrice)
	fmt.Fprintf(&b, "- Stop Loss Price: ₹%.2f\n", b1.StopLoss)
	fmt.Fprintf(&b, "- Quantity: %d\n", b1.Quantity)
	fmt.Fprintf(&b, "- Loss: %.2f%%\n", lossPct)

	if flip != nil {
		pos := "SHORT"
		slSign, tgSign := "+", "-"
		if flip.Direction == models.DirectionBullish {
			pos = "LONG"
			slSign, tgSign = "-", "+"
		}

		b.WriteString("\n🔄 POSITION FLIPPED\n")
		fmt.Fprintf(&b, "- New Position: %s %s\n", pos, flip.Symbol)
		fmt.Fprintf(&b, "- Entry Price: ₹%.2f\n", flip.EntryPrice)
		fmt.Fprintf(&b, "- Quantity: %d\n", flip.Quantity)
		fmt.Fprintf(&b, "- Stop Loss: ₹%.2f (%s1%%)\n", flip.StopLoss, slSign)
		fmt.Fprintf(&b, "- Target: ₹%.2f (%s1%%)\n", flip.Target, tgSign)
	}

	fmt.Fprintf(&b, "\n⏰ Triggered at: %s", time.Now().Format("2006-01-02 15:04:05"))

	return b.String()
}

func targetHitMessage(br *models.Bracket) string {
	var b strings.Builder
	if br.IsFlip {
		fmt.Fprintf(&b, "🎉 FLIP POSITION TARGET ACHIEVED - %s\n\n", br.Symbol)
	} else {
		fmt.Fprintf(&b, "🎉 TARGET ACHIEVED - %s\n\n", br.Symbol)
	}

	pos := "Long"
	profit := br.Target - br.EntryPrice
	if br.Direction == models.DirectionBearish {
		pos = "Short"
		profit = br.EntryPrice - br.Target
	}
	profitPct := 0.0
	if br.EntryPrice > 0 {
		profitPct = profit / br.EntryPrice * 100
	}

	b.WriteString("💰 Position Details:\n")
	fmt.Fprintf(&b, "- %s %s\n", pos, br.Symbol)
	fmt.Fprintf(&b, "- Entry Price: ₹%.2f\n", br.EntryPrice)
	fmt.Fprintf(&b, "- Target Price: ₹%.2f\n", br.Target)
	fmt.Fprintf(&b, "- Quantity: %d\n", br.Quantity)
	fmt.Fprintf(&b, "- Profit: ₹%.2f (%.2f%%)\n", profit*float64(br.Quantity), profitPct)

	return b.String()
}

func startupMessage(watchlist int, scanInterval time.Duration) string {
	return fmt.Sprintf(
		"🚀 COMBINED INSIDE VALUE SCANNER STARTED\n\n"+
			"Running both BULLISH and BEARISH strategies\n"+
			"Monitoring %d stocks\n"+
			"Scan interval: %d seconds",
		watchlist, int(scanInterval.Seconds()),
	)
}

type daySummary struct {
	watchlist  int
	patterns   map[models.Direction]int
	triggered  map[models.Direction]int
	traded     map[models.Direction]int
	reportPath string
}

func endOfDayMessage(s daySummary) string {
	var b strings.Builder
	b.WriteString("📊 COMBINED INSIDE VALUE TRADING DAY SUMMARY\n\n")
	fmt.Fprintf(&b, "Total stocks scanned: %d\n\n", s.watchlist)

	for _, dir := range []models.Direction{models.DirectionBullish, models.DirectionBearish} {
		fmt.Fprintf(&b, "%s SUMMARY:\n", strings.ToUpper(string(dir)))
		fmt.Fprintf(&b, "- Inside value patterns found: %d\n", s.patterns[dir])
		fmt.Fprintf(&b, "- Entry signals triggered: %d\n", s.triggered[dir])
		fmt.Fprintf(&b, "- Stocks traded: %d\n\n", s.traded[dir])
	}

	if s.reportPath != "" {
		fmt.Fprintf(&b, "Detailed report saved to: %s", s.reportPath)
	}

	return b.String()
}
