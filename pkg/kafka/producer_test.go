package kafka

import (
	"context"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error { return nil }

func TestPublishEncodesValue(t *testing.T) {
	w := &recordingWriter{}
	p := NewProducerWithWriter(w, "none")

	require.NoError(t, p.Publish(context.Background(), "signals", []byte("XRPUSDT"), map[string]int{"n": 1}))
	require.NoError(t, p.Publish(context.Background(), "signals", nil, "raw"))

	require.Len(t, w.msgs, 2)
	assert.Equal(t, "signals", w.msgs[0].Topic)
	assert.Equal(t, []byte("XRPUSDT"), w.msgs[0].Key)
	assert.JSONEq(t, `{"n":1}`, string(w.msgs[0].Value))
	assert.Equal(t, "raw", string(w.msgs[1].Value))
}

func TestPublishWrapsError(t *testing.T) {
	p := NewProducerWithWriter(&recordingWriter{err: errors.New("broker gone")}, "none")
	err := p.Publish(context.Background(), "signals", nil, "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker gone")
}

func TestNewProducerRequiresBrokers(t *testing.T) {
	_, err := NewProducer()
	assert.Error(t, err)
}

func TestParseCompression(t *testing.T) {
	assert.Equal(t, kafka.Compression(0), parseCompression("none"))
	assert.Equal(t, kafka.Gzip, parseCompression("gzip"))
	assert.Equal(t, kafka.Snappy, parseCompression(""))
}
