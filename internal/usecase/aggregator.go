package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"presellgo/internal/domain"
	"presellgo/pkg/logger"
	"presellgo/pkg/metrics"
)

// MetricsAggregator buffers view/click counters in memory for the
// lifetime of one process instance and periodically merges them into the
// persisted metrics document. It is owned by the composition root and
// injected into handlers; multiple instances never share state.
//
// Delivery is at-least-once: a failed flush re-buffers its snapshot for
// retry, which can double-count if the remote write succeeded but was
// reported failed. The backing store has no transactions, so this is the
// accepted tradeoff rather than a bug.
type MetricsAggregator struct {
	store          domain.ConfigStore
	logger         *logger.Logger
	metrics        *metrics.Metrics
	flushInterval  time.Duration
	flushThreshold int
	now            func() time.Time

	mu           sync.Mutex
	pending      domain.CampaignMetrics
	pendingCount int
	lastFlush    time.Time
	dirty        bool
}

func NewMetricsAggregator(store domain.ConfigStore, flushInterval time.Duration, flushThreshold int, logger *logger.Logger, metrics *metrics.Metrics) *MetricsAggregator {
	a := &MetricsAggregator{
		store:          store,
		logger:         logger,
		metrics:        metrics,
		flushInterval:  flushInterval,
		flushThreshold: flushThreshold,
		now:            time.Now,
		pending:        domain.NewCampaignMetrics(),
	}
	a.lastFlush = a.now()
	return a
}

// Record buffers one tracking event and evaluates the flush trigger.
// Buffering is synchronous and never blocks on the network; the caller
// gets success as soon as the event is counted, independent of any flush
// outcome.
func (a *MetricsAggregator) Record(ctx context.Context, slug, variant string, event domain.EventType) error {
	if slug == "" {
		return fmt.Errorf("%w: slug is required", domain.ErrInvalidEvent)
	}
	if variant == "" {
		return fmt.Errorf("%w: variant is required", domain.ErrInvalidEvent)
	}
	if !event.IsValid() {
		return fmt.Errorf("%w: unknown event %q", domain.ErrInvalidEvent, event)
	}

	a.mu.Lock()
	a.pending.Record(slug, variant, event)
	a.pendingCount++
	shouldFlush := a.dirty ||
		a.pendingCount >= a.flushThreshold ||
		a.now().Sub(a.lastFlush) >= a.flushInterval
	a.metrics.SetPendingEvents(a.pendingCount)
	a.mu.Unlock()

	a.metrics.RecordTrackingEvent(string(event))

	if shouldFlush {
		if err := a.Flush(ctx); err != nil {
			a.logger.WithContext(ctx).WithError(err).Warn("Metrics flush failed, events re-buffered")
		}
	}

	return nil
}

// Flush merges the buffer into the persisted metrics document.
//
// The buffer is swapped for an empty one before any I/O so concurrent
// Record calls accumulate in a fresh buffer instead of blocking on the
// network. On persistence failure the snapshot is merged back into the
// live buffer and the dirty flag forces a retry on the next Record.
func (a *MetricsAggregator) Flush(ctx context.Context) error {
	start := time.Now()

	a.mu.Lock()
	if a.pendingCount == 0 && !a.dirty {
		a.lastFlush = a.now()
		a.mu.Unlock()
		return nil
	}
	snapshot := a.pending
	count := a.pendingCount
	a.pending = domain.NewCampaignMetrics()
	a.pendingCount = 0
	a.lastFlush = a.now()
	a.dirty = false
	a.metrics.SetPendingEvents(0)
	a.mu.Unlock()

	persisted := a.store.Metrics(ctx)
	persisted.Merge(snapshot)

	if err := a.store.SaveMetrics(ctx, persisted); err != nil {
		a.mu.Lock()
		a.pending.Merge(snapshot)
		a.pendingCount += count
		a.dirty = true
		a.metrics.SetPendingEvents(a.pendingCount)
		a.mu.Unlock()

		a.metrics.RecordFlush("failed", time.Since(start))
		return fmt.Errorf("failed to flush metrics buffer: %w", err)
	}

	a.metrics.RecordFlush("success", time.Since(start))
	a.logger.WithContext(ctx).WithField("events", count).Info("Flushed metrics buffer")
	return nil
}

// Snapshot returns the persisted counters merged with the live buffer,
// for dashboard reads. The buffer itself is untouched.
func (a *MetricsAggregator) Snapshot(ctx context.Context) domain.CampaignMetrics {
	a.mu.Lock()
	buffered := a.pending.Clone()
	a.mu.Unlock()

	merged := a.store.Metrics(ctx)
	merged.Merge(buffered)
	return merged
}

// Reset is the administrative counter reset, the only permitted decrease.
// The live buffer is dropped and the remote document overwritten.
func (a *MetricsAggregator) Reset(ctx context.Context) error {
	a.mu.Lock()
	a.pending = domain.NewCampaignMetrics()
	a.pendingCount = 0
	a.dirty = false
	a.lastFlush = a.now()
	a.metrics.SetPendingEvents(0)
	a.mu.Unlock()

	if err := a.store.SaveMetrics(ctx, domain.NewCampaignMetrics()); err != nil {
		return fmt.Errorf("failed to reset metrics: %w", err)
	}

	a.logger.WithContext(ctx).Info("Campaign metrics reset")
	return nil
}

// Run flushes on the configured interval so a trickle of buffered events
// is not stranded when traffic stops, and performs a final flush on
// shutdown. Intended to run in its own goroutine.
func (a *MetricsAggregator) Run(ctx context.Context) {
	ticker := time.NewTicker(a.flushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			flushCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			if err := a.Flush(flushCtx); err != nil {
				a.logger.WithError(err).Error("Final metrics flush failed on shutdown")
			}
			cancel()
			return
		case <-ticker.C:
			if err := a.Flush(ctx); err != nil {
				a.logger.WithError(err).Warn("Periodic metrics flush failed")
			}
		}
	}
}
