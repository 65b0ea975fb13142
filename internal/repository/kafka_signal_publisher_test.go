package repository

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SignalForge/internal/domain/models"
)

type fakeProducer struct {
	topic  string
	key    []byte
	value  any
	closed bool
}

func (f *fakeProducer) Publish(_ context.Context, topic string, key []byte, value any) error {
	f.topic, f.key, f.value = topic, key, value
	return nil
}

func (f *fakeProducer) Close() error {
	f.closed = true
	return nil
}

func TestKafkaSignalPublisher(t *testing.T) {
	fp := &fakeProducer{}
	p := NewKafkaSignalPublisher(fp, "trading-signals")

	res := &models.AnalysisResult{
		ID:           "abc",
		Symbol:       "XRPUSDT",
		CurrentPrice: models.Undefined(),
		FinalSignal:  models.FinalSignal{Direction: models.Short, Confidence: 75},
	}
	require.NoError(t, p.Publish(context.Background(), res))
	assert.Equal(t, "trading-signals", fp.topic)
	assert.Equal(t, "XRPUSDT", string(fp.key))

	b, err := json.Marshal(fp.value)
	require.NoError(t, err)
	var decoded struct {
		Signal struct {
			Direction string `json:"direction"`
		} `json:"signal"`
		Result struct {
			CurrentPrice *float64 `json:"current_price"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Equal(t, "SHORT", decoded.Signal.Direction)
	assert.Nil(t, decoded.Result.CurrentPrice)

	require.NoError(t, p.Close())
	assert.True(t, fp.closed)
}
