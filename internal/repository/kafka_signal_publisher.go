package repository

import (
	"context"

	"SignalForge/internal/domain/models"
	domrepo "SignalForge/internal/domain/repository"
)

// Producer is the publishing side of pkg/kafka.Producer.
type Producer interface {
	Publish(ctx context.Context, topic string, key []byte, value any) error
	Close() error
}

// KafkaSignalPublisher emits every AnalysisResult, keyed by symbol, for the
// downstream order-execution consumer.
type KafkaSignalPublisher struct {
	producer Producer
	topic    string
}

var _ domrepo.SignalPublisher = (*KafkaSignalPublisher)(nil)

func NewKafkaSignalPublisher(p Producer, topic string) *KafkaSignalPublisher {
	return &KafkaSignalPublisher{producer: p, topic: topic}
}

// SignalMessage is the published payload.
type SignalMessage struct {
	Record models.SignalRecord    `json:"signal"`
	Result *models.AnalysisResult `json:"result"`
}

func (p *KafkaSignalPublisher) Publish(ctx context.Context, r *models.AnalysisResult) error {
	return p.producer.Publish(ctx, p.topic, []byte(r.Symbol), SignalMessage{Record: r.Record(), Result: r})
}

func (p *KafkaSignalPublisher) Close() error { return p.producer.Close() }
