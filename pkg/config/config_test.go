package config

import (
	"io/fs"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimal = `
timeframes:
  1D: { priority: 1, weight: 4 }
  15m: { priority: 2, weight: 1 }
indicators:
  rsi:
    enabled: true
    timeframes: [15m, 1D]
    period: 10
    overbought: 75
  macd:
    enabled: false
`

func TestParseAppliesDefaults(t *testing.T) {
	c, err := Parse([]byte(minimal))
	require.NoError(t, err)
	require.NoError(t, c.Validate())

	assert.Equal(t, "XRPUSDT", c.Bot.Symbol)
	assert.Equal(t, 15*time.Minute, c.Bot.Interval)
	assert.Equal(t, 200, c.Bot.BarsLimit)
	assert.Equal(t, 10.0, c.SignalThreshold)
	assert.Equal(t, "memory", c.Cache.Backend)
	assert.Equal(t, "file", c.Bars.Source)

	rsi := c.Indicators["rsi"]
	assert.True(t, rsi.Enabled)
	assert.Equal(t, []string{"15m", "1D"}, rsi.Timeframes)
	assert.Equal(t, map[string]float64{"period": 10, "overbought": 75}, rsi.Params)
}

func TestSortedTimeframes(t *testing.T) {
	c, err := Parse([]byte(minimal))
	require.NoError(t, err)
	tfs := c.SortedTimeframes()
	require.Len(t, tfs, 2)
	assert.Equal(t, "1D", tfs[0].Name)
	assert.Equal(t, 4.0, tfs[0].Weight)
	assert.Equal(t, "15m", tfs[1].Name)
	assert.Equal(t, []string{"macd", "rsi"}, c.IndicatorNames())
}

func TestValidateRejects(t *testing.T) {
	cases := map[string]string{
		"unknown timeframe": `
timeframes: { 5m: { priority: 1, weight: 1 } }
indicators: { rsi: { enabled: true, timeframes: [5m] } }`,
		"zero weight": `
timeframes: { 1H: { priority: 1, weight: 0 } }
indicators: { rsi: { enabled: true, timeframes: [1H] } }`,
		"no enabled indicator": `
timeframes: { 1H: { priority: 1, weight: 1 } }
indicators: { rsi: { enabled: false, timeframes: [1H] } }`,
		"indicator without timeframes": `
timeframes: { 1H: { priority: 1, weight: 1 } }
indicators: { rsi: { enabled: true } }`,
		"indicator on unknown timeframe": `
timeframes: { 1H: { priority: 1, weight: 1 } }
indicators: { rsi: { enabled: true, timeframes: [2H] } }`,
		"no timeframes": `
indicators: { rsi: { enabled: true, timeframes: [1H] } }`,
		"kafka without brokers": minimal + `
kafka: { enabled: true }`,
		"clickhouse source disabled": minimal + `
bars: { source: clickhouse }`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			c, err := Parse([]byte(doc))
			require.NoError(t, err)
			err = c.Validate()
			require.Error(t, err)
			assert.True(t, IsConfigurationError(err), err.Error())
		})
	}
}

func TestParseRejectsNonNumericParam(t *testing.T) {
	_, err := Parse([]byte(`
indicators:
  rsi: { enabled: true, timeframes: [1H], period: fourteen }`))
	require.Error(t, err)
	assert.True(t, IsConfigurationError(err))
}

func TestApplyEnv(t *testing.T) {
	c, err := Parse([]byte(minimal))
	require.NoError(t, err)
	env := map[string]string{
		"SYMBOL":           "SOLUSDT",
		"SIGNAL_THRESHOLD": "25.5",
		"KAFKA_BROKERS":    "k1:9092,k2:9092",
		"REDIS_ADDR":       "redis:6379",
	}
	require.NoError(t, c.applyEnv(func(k string) string { return env[k] }))
	assert.Equal(t, "SOLUSDT", c.Bot.Symbol)
	assert.Equal(t, 25.5, c.SignalThreshold)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, c.Kafka.Brokers)
	assert.Equal(t, "redis:6379", c.Cache.Redis.Addr)

	env["SIGNAL_THRESHOLD"] = "high"
	assert.True(t, IsConfigurationError(c.applyEnv(func(k string) string { return env[k] })))
}

func TestLoadBundledConfig(t *testing.T) {
	c, err := Load(filepath.Join("..", "..", "configs", "config.yaml"))
	require.NoError(t, err)
	assert.Len(t, c.Timeframes, 4)
	assert.Len(t, c.Indicators, 18)
	assert.Equal(t, "1D", c.SortedTimeframes()[0].Name)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.ErrorIs(t, err, fs.ErrNotExist)
}
