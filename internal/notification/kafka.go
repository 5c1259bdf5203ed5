package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
}

// KafkaDispatcher produces activities to the activity topic instead of handling them inline.
type KafkaDispatcher struct {
	writer messageWriter
}

func NewKafkaDispatcher(w *kafka.Writer) *KafkaDispatcher {
	return &KafkaDispatcher{writer: w}
}

func (d *KafkaDispatcher) Dispatch(ctx context.Context, a Activity) error {
	if a.OccurredAt.IsZero() {
		a.OccurredAt = time.Now().UTC()
	}
	value, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("encode activity: %w", err)
	}
	// Keyed by event so activities for one event stay ordered on one partition.
	key := a.Kind
	if a.EventID != 0 {
		key = strconv.FormatUint(uint64(a.EventID), 10)
	}
	return d.writer.WriteMessages(ctx, kafka.Message{Key: []byte(key), Value: value})
}

// Consumer turns activity messages into stored notifications.
type Consumer struct {
	reader messageReader
	svc    Service
}

func NewConsumer(r *kafka.Reader, svc Service) *Consumer {
	return &Consumer{reader: r, svc: svc}
}

// Run consumes until ctx is cancelled. Undecodable messages are logged and committed so they do not block the partition.
func (c *Consumer) Run(ctx context.Context) {
	log.Println("📥 notification consumer started")
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				log.Println("📥 notification consumer stopped")
				return
			}
			log.Printf("❌ kafka fetch: %v", err)
			time.Sleep(time.Second)
			continue
		}

		if err := c.handle(ctx, msg); err != nil {
			log.Printf("❌ activity at offset %d: %v", msg.Offset, err)
		}
		if err := c.reader.CommitMessages(ctx, msg); err != nil && ctx.Err() == nil {
			log.Printf("⚠️ kafka commit offset %d: %v", msg.Offset, err)
		}
	}
}

func (c *Consumer) handle(ctx context.Context, msg kafka.Message) error {
	var a Activity
	if err := json.Unmarshal(msg.Value, &a); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return c.svc.HandleActivity(ctx, a)
}
