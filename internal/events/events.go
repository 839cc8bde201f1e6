// Package events publishes ledger domain events.
package events

import (
	"context"
	"time"
)

//go:generate mockgen -source=events.go -destination=mocks/mock_publisher.go -package=mocks

// EntryExtracted is emitted after a document has been run through extraction
// and its fields merged into the entry.
type EntryExtracted struct {
	EntryID    string         `json:"entryId"`
	FileName   string         `json:"fileName"`
	Method     string         `json:"method"`
	Empty      bool           `json:"empty"`
	Confidence float64        `json:"confidence"`
	Fields     map[string]any `json:"fields"`
	Changed    bool           `json:"changed"`
	Total      float64        `json:"total"`
	OccurredAt time.Time      `json:"occurredAt"`
}

// Publisher delivers events to downstream consumers.
type Publisher interface {
	PublishEntryExtracted(ctx context.Context, ev EntryExtracted) error
	Close() error
}

// NopPublisher drops every event. Used when no brokers are configured.
type NopPublisher struct{}

var _ Publisher = NopPublisher{}

func (NopPublisher) PublishEntryExtracted(context.Context, EntryExtracted) error { return nil }
func (NopPublisher) Close() error                                              { return nil }
