package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/tidecraft/wavefeed/internal/config"
	"github.com/tidecraft/wavefeed/internal/domain"
)

// Writer publishes canonical records to a Kafka topic after the static
// artifacts are written. It implements pipeline.Publisher.
type Writer struct {
	writer  *kafkago.Writer
	dataset string
	station string
	logger  *slog.Logger
}

// NewWriter creates a Kafka producer for the configured topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{
		writer:  w,
		dataset: cfg.DatasetID,
		station: cfg.StationCode,
		logger:  logger,
	}
}

// Publish serializes and publishes the whole series in a single
// WriteMessages call. Message keys are the record timestamps, so consumers
// with log compaction retain exactly one value per observation instant.
func (w *Writer) Publish(ctx context.Context, records []domain.Record) error {
	if len(records) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(records))
	for i := range records {
		msg, err := serializeToMessage(records[i], w.dataset, w.station)
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	return w.writer.WriteMessages(ctx, msgs...)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a canonical record into a Kafka message.
func serializeToMessage(rec domain.Record, dataset, station string) (kafkago.Message, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize record: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(rec.Timestamp),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "dataset_id", Value: []byte(dataset)},
			{Key: "station_code", Value: []byte(station)},
		},
	}, nil
}
