package logger

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(&Config{Level: "loud", Output: "stdout"})
	require.Error(t, err)
}

func TestFieldsAndChildLogger(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf, zerolog.InfoLevel).With(String("symbol", "XRPUSDT"))

	l.Info("cycle done", Float("confidence", 59.5), Int("timeframes", 4), Error(errors.New("boom")))
	out := buf.String()
	assert.Contains(t, out, `"symbol":"XRPUSDT"`)
	assert.Contains(t, out, `"confidence":59.5`)
	assert.Contains(t, out, `"timeframes":4`)
	assert.Contains(t, out, `"error":"boom"`)

	buf.Reset()
	l.Debug("hidden")
	assert.Empty(t, buf.String())
}

func TestFloatFieldUndefined(t *testing.T) {
	var buf bytes.Buffer
	NewWriter(&buf, zerolog.InfoLevel).Warn("undefined", Float("rsi", math.NaN()))
	assert.Contains(t, buf.String(), `"rsi":"NaN"`)
}
