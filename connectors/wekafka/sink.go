package wekafka

import (
	"context"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"

	"github.com/weegigs/wee-ledger-go/we"
)

const DefaultTopic = "ledger.receipts"

// MessageWriter is satisfied by *kafka.Writer.
type MessageWriter interface {
	WriteMessages(ctx context.Context, messages ...kafka.Message) error
	Close() error
}

func NewWriter(brokers []string, topic string) *kafka.Writer {
	if topic == "" {
		topic = DefaultTopic
	}

	return kafka.NewWriter(kafka.WriterConfig{
		Brokers:  brokers,
		Topic:    topic,
		Balancer: &kafka.Hash{},
	})
}

// ReceiptSink streams receipts as JSON keyed by deployment, so the receipts
// of one deployment stay ordered within a partition.
type ReceiptSink struct {
	writer MessageWriter
}

func NewReceiptSink(writer MessageWriter) *ReceiptSink {
	return &ReceiptSink{writer: writer}
}

func (s *ReceiptSink) Publish(ctx context.Context, receipt we.Receipt) error {
	value, err := json.Marshal(receipt)
	if err != nil {
		return errors.Wrap(err, "failed to marshal receipt")
	}

	message := kafka.Message{
		Key:   []byte(receipt.Deployment.Encode()),
		Value: value,
		Headers: []kafka.Header{
			{Key: "method", Value: []byte(receipt.Method)},
			{Key: "revision", Value: []byte(receipt.Revision)},
		},
	}

	if err := s.writer.WriteMessages(ctx, message); err != nil {
		return errors.Wrap(err, "failed to write receipt")
	}

	return nil
}

func (s *ReceiptSink) Close() error {
	return s.writer.Close()
}
