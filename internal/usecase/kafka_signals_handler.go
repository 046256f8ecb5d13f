package usecase

import (
	"context"
	"encoding/json"
	"time"

	"RiskPulse/internal/domain/models"
	domrepo "RiskPulse/internal/domain/repository"
	pkgkafka "RiskPulse/pkg/kafka"
)

// KafkaSignalsHandler consumes trade-signal events off the bus and writes
// them into the ClickHouse archive for offline analysis.
type KafkaSignalsHandler struct {
	topic   string
	archive domrepo.SignalArchive
	metrics domrepo.Metrics
}

func NewKafkaSignalsHandler(topic string, archive domrepo.SignalArchive, metrics domrepo.Metrics) *KafkaSignalsHandler {
	return &KafkaSignalsHandler{topic: topic, archive: archive, metrics: metrics}
}

func (h *KafkaSignalsHandler) Topic() string { return h.topic }

func (h *KafkaSignalsHandler) Handle(ctx context.Context, b []byte) error {
	var sig models.TradeSignal
	if err := json.Unmarshal(b, &sig); err != nil {
		h.metrics.RecordFetchError("consumer_unmarshal")
		return err
	}

	start := time.Now()
	err := h.archive.Store(ctx, sig)
	h.metrics.RecordLatency("signal_archive_insert", time.Since(start).Seconds())
	if err != nil {
		h.metrics.RecordFetchError("consumer_store")
		return err
	}
	return nil
}

var _ pkgkafka.MessageHandler = (*KafkaSignalsHandler)(nil)
