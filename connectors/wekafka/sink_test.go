package wekafka_test

import (
	"context"
	"errors"
	"testing"

	"github.com/goccy/go-json"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"

	"github.com/weegigs/wee-ledger-go/connectors/wekafka"
	"github.com/weegigs/wee-ledger-go/counter"
	"github.com/weegigs/wee-ledger-go/stores/memory"
	"github.com/weegigs/wee-ledger-go/we"
)

type recorder struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (r *recorder) WriteMessages(_ context.Context, messages ...kafka.Message) error {
	if r.err != nil {
		return r.err
	}

	r.messages = append(r.messages, messages...)
	return nil
}

func (r *recorder) Close() error {
	r.closed = true
	return nil
}

func TestReceiptSink(t *testing.T) {
	ctx := context.Background()

	t.Run("streams committed calls", func(t *testing.T) {
		writer := &recorder{}
		runtime := counter.NewRuntime(memory.New(), we.WithReceiptSinks(wekafka.NewReceiptSink(writer)))
		id := counter.Contract().Deployment("alice.testnet")

		for _, method := range []we.MethodName{counter.NewMethod, counter.IncrementMethod} {
			_, err := runtime.Invoke(ctx, id, we.CallerOf("robert.testnet"), we.CallOf(method))
			if !assert.Nil(t, err) {
				return
			}
		}

		_, err := runtime.View(ctx, id, we.CallOf(counter.GetNumMethod))
		assert.Nil(t, err)

		if !assert.Len(t, writer.messages, 2) {
			return
		}

		message := writer.messages[1]
		assert.Equal(t, "counter.alice.testnet", string(message.Key))
		assert.Equal(t, "increment", string(message.Headers[0].Value))

		var receipt we.Receipt
		assert.Nil(t, json.Unmarshal(message.Value, &receipt))
		assert.Equal(t, []string{"Increased number to 1", "Make sure you don't overflow, my friend."}, receipt.Logs)
		assert.Equal(t, id, receipt.Deployment)
	})

	t.Run("reports write failures", func(t *testing.T) {
		writer := &recorder{err: errors.New("broker unavailable")}
		sink := wekafka.NewReceiptSink(writer)

		err := sink.Publish(ctx, we.Receipt{Deployment: counter.Contract().Deployment("alice.testnet")})
		assert.NotNil(t, err)
	})

	t.Run("closes the writer", func(t *testing.T) {
		writer := &recorder{}
		assert.Nil(t, wekafka.NewReceiptSink(writer).Close())
		assert.True(t, writer.closed)
	})
}
