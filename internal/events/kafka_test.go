package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
)

type recordingWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaPublisher(t *testing.T) {
	t.Run("writes keyed json", func(t *testing.T) {
		w := &recordingWriter{}
		p := NewKafkaPublisher([]string{"localhost:9092"}, "ledger.entry.extracted", nil)
		p.writer = w

		ev := EntryExtracted{
			EntryID:    "e-1",
			Method:     "pdf-text",
			Confidence: 0.8,
			Fields:     map[string]any{"vendor": "Acme"},
			Total:      12.5,
			OccurredAt: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		}
		if err := p.PublishEntryExtracted(context.Background(), ev); err != nil {
			t.Fatalf("publish: %v", err)
		}
		if len(w.msgs) != 1 {
			t.Fatalf("expected 1 message, got %d", len(w.msgs))
		}
		msg := w.msgs[0]
		if string(msg.Key) != "e-1" {
			t.Fatalf("unexpected key %q", msg.Key)
		}
		var got EntryExtracted
		if err := json.Unmarshal(msg.Value, &got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if got.EntryID != "e-1" || got.Fields["vendor"] != "Acme" || got.Total != 12.5 {
			t.Fatalf("unexpected payload %+v", got)
		}
		if err := p.Close(); err != nil || !w.closed {
			t.Fatalf("close: %v closed=%v", err, w.closed)
		}
	})

	t.Run("propagates write errors", func(t *testing.T) {
		boom := errors.New("broker down")
		p := NewKafkaPublisher(nil, "t", nil)
		p.writer = &recordingWriter{err: boom}
		if err := p.PublishEntryExtracted(context.Background(), EntryExtracted{EntryID: "x"}); !errors.Is(err, boom) {
			t.Fatalf("expected broker error, got %v", err)
		}
	})
}
