package we

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Receipt carries the diagnostic log lines of a committed call.
type Receipt struct {
	Deployment    DeploymentId  `json:"deployment"`
	Method        MethodName    `json:"method"`
	Caller        Caller        `json:"caller"`
	Revision      Revision      `json:"revision"`
	Timestamp     Timestamp     `json:"timestamp"`
	CorrelationId CorrelationID `json:"correlationId,omitempty"`
	Logs          []string      `json:"logs"`
}

type ReceiptSink interface {
	Publish(ctx context.Context, receipt Receipt) error
}

type ReceiptSinkFunc func(ctx context.Context, receipt Receipt) error

func (f ReceiptSinkFunc) Publish(ctx context.Context, receipt Receipt) error {
	return f(ctx, receipt)
}

func NewLogSink(logger *zerolog.Logger) *LogSink {
	if logger == nil {
		logger = &log.Logger
	}

	return &LogSink{log: logger}
}

// LogSink writes each contract log line as an info event.
type LogSink struct {
	log *zerolog.Logger
}

func (s *LogSink) Publish(_ context.Context, receipt Receipt) error {
	for _, line := range receipt.Logs {
		s.log.Info().
			Str("deployment", receipt.Deployment.String()).
			Str("method", receipt.Method.String()).
			Str("revision", receipt.Revision.String()).
			Msg(line)
	}

	return nil
}
