package events

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/msmebazaar/platform/services/escrow-settlement-service/internal/observability"
	"github.com/msmebazaar/platform/services/escrow-settlement-service/internal/ports"
)

// OutboxWorker drains the escrow event outbox: records written in the same
// transaction as a ledger mutation are claimed in batches and handed to the
// broker publisher, so delivery never blocks the financial write path.
type OutboxWorker struct {
	logger     *slog.Logger
	outbox     ports.OutboxRepository
	publisher  ports.EventPublisher
	metrics    *observability.MetricsCollector
	interval   time.Duration
	batchSize  int
	claimTTL   time.Duration
	maxRetries int
}

func NewOutboxWorker(
	logger *slog.Logger,
	outbox ports.OutboxRepository,
	publisher ports.EventPublisher,
	metrics *observability.MetricsCollector,
	interval time.Duration,
	batchSize int,
	claimTTL time.Duration,
	maxRetries int,
) *OutboxWorker {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	if batchSize <= 0 {
		batchSize = 100
	}
	if claimTTL <= 0 {
		claimTTL = 30 * time.Second
	}
	if maxRetries <= 0 {
		maxRetries = 5
	}
	return &OutboxWorker{
		logger:     logger,
		outbox:     outbox,
		publisher:  publisher,
		metrics:    metrics,
		interval:   interval,
		batchSize:  batchSize,
		claimTTL:   claimTTL,
		maxRetries: maxRetries,
	}
}

// Run polls the outbox until the context is cancelled.
func (w *OutboxWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		if err := w.drainBatch(ctx); err != nil {
			w.logger.ErrorContext(ctx, "escrow outbox drain failed",
				"module", "events.outbox",
				"layer", "adapter",
				"operation", "drain_batch",
				"outcome", "failure",
				"error", err,
			)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

type batchStats struct {
	published    int
	failed       int
	deadLettered int
}

func (w *OutboxWorker) drainBatch(ctx context.Context) error {
	claimToken := uuid.NewString()
	records, err := w.outbox.ClaimUnpublished(ctx, w.batchSize, claimToken, time.Now().UTC().Add(w.claimTTL))
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return nil
	}

	var stats batchStats
	now := time.Now().UTC()
	for _, rec := range records {
		w.publishRecord(ctx, claimToken, rec, now, &stats)
	}

	w.logger.InfoContext(ctx, "escrow outbox batch drained",
		"module", "events.outbox",
		"layer", "adapter",
		"operation", "drain_batch",
		"outcome", "success",
		"claimed", len(records),
		"published", stats.published,
		"failed", stats.failed,
		"dead_lettered", stats.deadLettered,
	)
	return nil
}

// publishRecord attempts delivery of one claimed record and settles its
// outbox row: published, failed with a retry pending, or dead-lettered once
// the retry threshold is reached.
func (w *OutboxWorker) publishRecord(ctx context.Context, claimToken string, rec ports.OutboxRecord, now time.Time, stats *batchStats) {
	if rec.RetryCount >= w.maxRetries {
		stats.deadLettered++
		_ = w.outbox.MarkDeadLettered(ctx, rec.OutboxID, claimToken, "retry threshold reached before publish", now)
		return
	}

	err := w.publisher.Publish(ctx, rec.EventType, rec.Payload)
	if err == nil {
		stats.published++
		w.recordPublish(true)
		_ = w.outbox.MarkPublished(ctx, rec.OutboxID, claimToken, now)
		return
	}

	stats.failed++
	w.recordPublish(false)
	retries := rec.RetryCount + 1
	fields := []any{
		"module", "events.outbox",
		"layer", "adapter",
		"operation", "publish_event",
		"outcome", "failure",
		"outbox_id", rec.OutboxID,
		"event_type", rec.EventType,
		"payload_bytes", len(rec.Payload),
		"retry_count", retries,
		"error", err,
	}
	if retries >= w.maxRetries {
		stats.deadLettered++
		w.logger.ErrorContext(ctx, "escrow event dead lettered", fields...)
		_ = w.outbox.MarkDeadLettered(ctx, rec.OutboxID, claimToken, err.Error(), now)
		return
	}
	w.logger.WarnContext(ctx, "escrow event publish failed; retry scheduled", fields...)
	_ = w.outbox.MarkFailed(ctx, rec.OutboxID, claimToken, err.Error(), now)
}

func (w *OutboxWorker) recordPublish(success bool) {
	if w.metrics != nil {
		w.metrics.RecordOutboxPublish(success)
	}
}
