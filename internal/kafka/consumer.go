package kafka

import (
	"context"
	"fmt"
	"time"

	"github.com/Domenick1991/tripcomposer/internal/logger"
	"github.com/segmentio/kafka-go"
)

type EventHandler func(ctx context.Context, event ItineraryEvent) error

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Consumer reads itinerary events and commits each offset only after the
// handler accepted it.
type Consumer struct {
	reader messageReader
	log    *logger.Logger
}

func NewConsumer(brokers []string, groupID, topic string, log *logger.Logger) *Consumer {
	return newConsumer(kafka.NewReader(kafka.ReaderConfig{
		Brokers:           brokers,
		GroupID:           groupID,
		Topic:             topic,
		HeartbeatInterval: 3 * time.Second,
		SessionTimeout:    30 * time.Second,
	}), log)
}

func newConsumer(reader messageReader, log *logger.Logger) *Consumer {
	if log == nil {
		log = logger.Nop()
	}
	return &Consumer{reader: reader, log: log}
}

func (c *Consumer) Close() error {
	if c == nil || c.reader == nil {
		return nil
	}
	return c.reader.Close()
}

// Consume blocks until ctx is done or handler fails. A failed message is left
// uncommitted and Consume returns, so the group redelivers it on restart.
// Payloads that do not decode are committed and skipped.
func (c *Consumer) Consume(ctx context.Context, handler EventHandler) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			return err
		}

		event, err := DecodeEvent(msg)
		if err != nil {
			c.log.Warn("skipping event", "partition", msg.Partition, "offset", msg.Offset, "error", err)
		} else if err := handler(ctx, event); err != nil {
			return fmt.Errorf("handle %s event for itinerary %s at offset %d: %w",
				event.Type, event.ItineraryID, msg.Offset, err)
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			return fmt.Errorf("commit offset %d: %w", msg.Offset, err)
		}
	}
}
