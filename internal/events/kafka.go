package events

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/segmentio/kafka-go"
)

// messageWriter is satisfied by *kafka.Writer.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes JSON events to a single topic, keyed by entry id.
type KafkaPublisher struct {
	writer messageWriter
	topic  string
	logger *slog.Logger
}

var _ Publisher = (*KafkaPublisher)(nil)

func NewKafkaPublisher(brokers []string, topic string, logger *slog.Logger) *KafkaPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.LeastBytes{},
			AllowAutoTopicCreation: true,
		},
		topic:  topic,
		logger: logger,
	}
}

func (p *KafkaPublisher) PublishEntryExtracted(ctx context.Context, ev EntryExtracted) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(ev.EntryID),
		Value: data,
		Headers: []kafka.Header{
			{Key: "event", Value: []byte("entry.extracted")},
		},
	})
	if err != nil {
		p.logger.Error("events.publish.failed", "topic", p.topic, "entry_id", ev.EntryID, "error", err)
		return err
	}
	p.logger.Debug("events.publish.ok", "topic", p.topic, "entry_id", ev.EntryID)
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
