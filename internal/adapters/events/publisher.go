package events

import (
	"context"
	"encoding/json"
	"log/slog"
)

// LoggingPublisher is the default broker adapter: escrow events land in the
// structured log stream until a real broker is wired in a deployment.
type LoggingPublisher struct {
	logger *slog.Logger
}

func NewLoggingPublisher(logger *slog.Logger) *LoggingPublisher {
	return &LoggingPublisher{logger: logger}
}

func (p *LoggingPublisher) Publish(ctx context.Context, eventType string, payload []byte) error {
	p.logger.InfoContext(ctx, "escrow event published",
		"module", "events.publisher",
		"layer", "adapter",
		"event_type", eventType,
		"payload", json.RawMessage(payload),
	)
	return nil
}
