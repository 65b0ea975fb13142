package usecase

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"SignalForge/internal/domain/models"
)

func tfWithCounts(tf string, long, short, total int) models.TimeframeAnalysis {
	return models.TimeframeAnalysis{
		Timeframe: tf,
		WeightedSignal: models.WeightedSignal{
			LongCount:       long,
			ShortCount:      short,
			TotalIndicators: total,
		},
	}
}

func TestRenderReport(t *testing.T) {
	r := &models.AnalysisResult{
		Symbol:       "XRPUSDT",
		CurrentPrice: 0.61234,
		Timeframes: []models.TimeframeAnalysis{
			tfWithCounts("15m", 11, 2, 17),
			tfWithCounts("1D", 5, 6, 16),
		},
		FinalSignal: models.FinalSignal{Direction: models.Long, Confidence: 93.75},
		Errors:      map[string]string{"4H": "timeframe 4H: timeout"},
	}

	out := RenderReport(r)
	assert.Contains(t, out, "XRP Analysis (Price: $0.6123)")
	assert.Contains(t, out, "• 1D: 5/16 BUY, 6/16 SELL")
	assert.Contains(t, out, "• 15m: 11/17 BUY, 2/17 SELL")
	assert.Less(t, strings.Index(out, "• 1D"), strings.Index(out, "• 15m"))
	assert.Contains(t, out, "4H: unavailable")
	assert.Contains(t, out, "Conclusion: clear upward move, buy signal")
	assert.Contains(t, out, "Signal: LONG with confidence 93.8%")
}

func TestRenderReportConclusions(t *testing.T) {
	tests := []struct {
		name        string
		long, short int
		want        string
	}{
		{"clear rise", 10, 3, "clear upward move"},
		{"clear fall", 2, 12, "clear downward move"},
		{"balanced", 5, 4, "no clear direction"},
		{"weak", 8, 3, "weak signal"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &models.AnalysisResult{
				Symbol:       "XRPUSDT",
				CurrentPrice: 1,
				Timeframes:   []models.TimeframeAnalysis{tfWithCounts("1H", tt.long, tt.short, 17)},
				FinalSignal:  models.FinalSignal{Direction: models.Neutral},
			}
			out := RenderReport(r)
			assert.Contains(t, out, tt.want)
			assert.Contains(t, out, "No signals with confidence > 90%")
		})
	}
}

func TestRenderReportEmpty(t *testing.T) {
	out := RenderReport(&models.AnalysisResult{Symbol: "BTCUSDT", CurrentPrice: models.Undefined()})
	assert.Contains(t, out, "BTC Analysis (Price: n/a)")
	assert.Contains(t, out, "not enough data")
	assert.Empty(t, RenderReport(nil))
}
