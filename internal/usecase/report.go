package usecase

import (
	"fmt"
	"math"
	"strings"

	"SignalForge/internal/domain/models"
	domrepo "SignalForge/internal/domain/repository"
)

// ReportConfidence is the final confidence above which the report names a signal.
const ReportConfidence = 90.0

// clearMoveCount is the indicator count that makes a one-sided tally "clear".
const clearMoveCount = 10

// RenderReport formats a result as the plain-text summary sent to operators.
// Timeframes are listed longest first; the conclusion reads the last one listed.
func RenderReport(r *models.AnalysisResult) string {
	if r == nil {
		return ""
	}
	var b strings.Builder

	asset := strings.TrimSuffix(strings.ToUpper(r.Symbol), "USDT")
	if r.CurrentPrice.Defined() {
		fmt.Fprintf(&b, "%s Analysis (Price: $%.4f)\n", asset, r.CurrentPrice.Float())
	} else {
		fmt.Fprintf(&b, "%s Analysis (Price: n/a)\n", asset)
	}
	b.WriteString("\nSignals by timeframe:\n")

	tfs := domrepo.AllTimeframes()
	var lastTF *models.TimeframeAnalysis
	for i := len(tfs) - 1; i >= 0; i-- {
		ta, ok := r.Timeframe(string(tfs[i]))
		if !ok {
			continue
		}
		ws := ta.WeightedSignal
		fmt.Fprintf(&b, "• %s: %d/%d BUY, %d/%d SELL\n",
			ta.Timeframe, ws.LongCount, ws.TotalIndicators, ws.ShortCount, ws.TotalIndicators)
		lastTF = ta
	}
	if lastTF == nil {
		b.WriteString("• no timeframe data\n")
	}
	for _, tf := range tfs {
		if msg, ok := r.Errors[string(tf)]; ok {
			fmt.Fprintf(&b, "• %s: unavailable (%s)\n", tf, msg)
		}
	}

	b.WriteString("\nConclusion: ")
	b.WriteString(conclusion(lastTF))
	b.WriteString("\n\n")

	fs := r.FinalSignal
	if fs.Direction != models.Neutral && fs.Confidence > ReportConfidence {
		fmt.Fprintf(&b, "Signal: %s with confidence %.1f%%\n", fs.Direction, fs.Confidence)
	} else {
		fmt.Fprintf(&b, "No signals with confidence > %.0f%%\n", ReportConfidence)
	}
	return b.String()
}

func conclusion(ta *models.TimeframeAnalysis) string {
	if ta == nil {
		return "not enough data"
	}
	long, short := ta.WeightedSignal.LongCount, ta.WeightedSignal.ShortCount
	switch {
	case long > short && long >= clearMoveCount:
		return "clear upward move, buy signal"
	case short > long && short >= clearMoveCount:
		return "clear downward move, sell signal"
	case math.Abs(float64(long-short)) < 3:
		return "no clear direction"
	default:
		return "weak signal, caution advised"
	}
}
