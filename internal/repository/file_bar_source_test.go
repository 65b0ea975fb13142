package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domrepo "SignalForge/internal/domain/repository"
)

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

func TestFileBarSourceObjects(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "XRPUSDT_15m.json", `[
		{"t": "2024-01-01T00:00:00Z", "o": "0.6100", "h": "0.6200", "l": "0.6000", "c": "0.6150", "v": "1000"},
		{"t": "2024-01-01T00:15:00Z", "o": 0.615, "h": 0.63, "l": 0.61, "c": 0.625, "v": 2500.5},
		{"t": 1704069000, "o": "0.625", "h": "0.64", "l": "0.62", "c": "0.635", "v": "1800"}
	]`)

	src := NewFileBarSource(dir)
	s, err := src.GetLatestBars(context.Background(), "xrpusdt", domrepo.TF15m, 2)
	require.NoError(t, err)
	require.Equal(t, 2, s.Len())
	assert.Equal(t, "15m", s.Timeframe)
	assert.InDelta(t, 0.625, s.Bars[0].Close, 1e-12)
	assert.InDelta(t, 2500.5, s.Bars[0].Volume, 1e-12)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 30, 0, 0, time.UTC), s.Last().Timestamp)
}

func TestFileBarSourceKlines(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "XRPUSDT_1h.json", `[
		[1704067200000, "0.61", "0.62", "0.60", "0.615", "1000", 1704070799999, "615.0", 10],
		[1704070800000, "0.615", "0.63", "0.61", "0.625", "1200", 1704074399999, "750.0", 12]
	]`)

	s, err := NewFileBarSource(dir).GetLatestBars(context.Background(), "XRPUSDT", domrepo.TF1H, 0)
	require.NoError(t, err)
	require.Equal(t, 2, s.Len())
	assert.Equal(t, time.Date(2024, 1, 1, 1, 0, 0, 0, time.UTC), s.Last().Timestamp)
	assert.InDelta(t, 0.63, s.Last().High, 1e-12)
}

func TestFileBarSourceErrors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "XRPUSDT_4H.json", `[{"t": "soon", "o": 1, "h": 1, "l": 1, "c": 1, "v": 1}]`)
	writeFile(t, dir, "XRPUSDT_1D.json", `[]`)
	writeFile(t, dir, "XRPUSDT_1H.json", `[
		{"t": 1700000000, "o": 1, "h": 2, "l": 0.5, "c": 1.5, "v": 10},
		{"t": 1700003600, "o": 1, "h": 2, "l": 0.5, "c": 1.5}
	]`)
	writeFile(t, dir, "XRPUSDT_15m.json", `[[1700000000, "1", "2", null, "1.5", "10"]]`)
	src := NewFileBarSource(dir)

	_, err := src.GetLatestBars(context.Background(), "ADAUSDT", domrepo.TF15m, 10)
	assert.ErrorContains(t, err, "no bar file")

	_, err = src.GetLatestBars(context.Background(), "XRPUSDT", domrepo.TF1H, 10)
	assert.ErrorContains(t, err, `row 1: missing field "v"`)

	_, err = src.GetLatestBars(context.Background(), "XRPUSDT", domrepo.TF15m, 10)
	assert.ErrorContains(t, err, `row 0: missing field "l"`)

	_, err = src.GetLatestBars(context.Background(), "XRPUSDT", domrepo.TF4H, 10)
	assert.ErrorContains(t, err, "bad timestamp")

	_, err = src.GetLatestBars(context.Background(), "XRPUSDT", domrepo.TF1D, 10)
	assert.ErrorContains(t, err, "no bars")
}
