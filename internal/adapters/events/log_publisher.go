// Package events provides ports.EventPublisher implementations.
package events

import (
	"context"
	"log/slog"

	"github.com/jsamuelsen/storefront/internal/platform/logging"
	"github.com/jsamuelsen/storefront/internal/ports"
)

// LogPublisher writes each event as a structured log record. It is the
// destination for checkout requests until a real order pipeline exists.
type LogPublisher struct {
	logger *slog.Logger
	level  slog.Level
}

// NewLogPublisher creates a publisher logging at info. A nil logger means
// the request-scoped logger from the context is used.
func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger, level: slog.LevelInfo}
}

// Publish implements ports.EventPublisher. It never fails.
func (p *LogPublisher) Publish(ctx context.Context, event ports.Event) error {
	logger := p.logger
	if logger == nil {
		logger = logging.FromContext(ctx)
	}

	logger.Log(ctx, p.level, "event published",
		slog.String("event_type", event.EventType()),
		slog.Any("payload", event.Payload()),
	)

	return nil
}
