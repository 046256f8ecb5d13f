package repository

import (
	"context"

	"RiskPulse/internal/domain/models"
	pkgkafka "RiskPulse/pkg/kafka"
)

// KafkaSignalPublisher emits structured trade-signal events to the bus.
// Messages are keyed by ticker so all signals for one symbol land on the
// same partition in order.
type KafkaSignalPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

func NewKafkaSignalPublisher(p *pkgkafka.Producer, topic string) *KafkaSignalPublisher {
	return &KafkaSignalPublisher{producer: p, topic: topic}
}

func (k *KafkaSignalPublisher) Publish(ctx context.Context, sig models.TradeSignal) error {
	return k.producer.Publish(ctx, k.topic, []byte(sig.Ticker), sig)
}

func (k *KafkaSignalPublisher) Close() error {
	return k.producer.Close()
}

// NopSignalPublisher drops signals; used when the event bus is disabled.
type NopSignalPublisher struct{}

func (NopSignalPublisher) Publish(context.Context, models.TradeSignal) error { return nil }
func (NopSignalPublisher) Close() error                                      { return nil }
