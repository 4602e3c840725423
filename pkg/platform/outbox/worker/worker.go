// Package worker relays outbox entries to a Publisher. Delivery is
// at-least-once: an entry that was published but could not be marked
// processed goes out again on the next poll.
package worker

import (
	"context"
	"log/slog"
	"time"

	"locreg/pkg/platform/outbox"
	"locreg/pkg/platform/outbox/metrics"
)

const (
	defaultBatchSize       = 100
	defaultPollInterval    = 100 * time.Millisecond
	defaultCleanupInterval = time.Hour
	drainTimeout           = 10 * time.Second
)

type Publisher interface {
	Publish(ctx context.Context, entry *outbox.Entry) error
}

type Worker struct {
	store     outbox.Store
	publisher Publisher

	batchSize       int
	pollInterval    time.Duration
	retention       time.Duration
	cleanupInterval time.Duration

	metrics *metrics.Metrics
	logger  *slog.Logger
	now     func() time.Time

	stop chan struct{}
	done chan struct{}
}

type Option func(*Worker)

func WithBatchSize(size int) Option {
	return func(w *Worker) {
		if size > 0 {
			w.batchSize = size
		}
	}
}

func WithPollInterval(interval time.Duration) Option {
	return func(w *Worker) {
		if interval > 0 {
			w.pollInterval = interval
		}
	}
}

// WithRetention prunes entries relayed more than retention ago. Zero keeps
// them forever.
func WithRetention(retention time.Duration) Option {
	return func(w *Worker) { w.retention = retention }
}

func WithCleanupInterval(interval time.Duration) Option {
	return func(w *Worker) {
		if interval > 0 {
			w.cleanupInterval = interval
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(w *Worker) { w.metrics = m }
}

func WithLogger(logger *slog.Logger) Option {
	return func(w *Worker) { w.logger = logger }
}

// WithClock overrides the time source used for processed_at and retention.
func WithClock(now func() time.Time) Option {
	return func(w *Worker) { w.now = now }
}

func New(store outbox.Store, publisher Publisher, opts ...Option) *Worker {
	w := &Worker{
		store:           store,
		publisher:       publisher,
		batchSize:       defaultBatchSize,
		pollInterval:    defaultPollInterval,
		cleanupInterval: defaultCleanupInterval,
		logger:          slog.Default(),
		now:             time.Now,
		stop:            make(chan struct{}),
		done:            make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start launches the relay loop. Call it at most once.
func (w *Worker) Start() {
	go w.loop()
}

// Stop signals the loop, which drains what it can before exiting, and waits
// for it or for ctx.
func (w *Worker) Stop(ctx context.Context) error {
	select {
	case <-w.stop:
	default:
		close(w.stop)
	}
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *Worker) loop() {
	defer close(w.done)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		<-w.stop
		cancel()
	}()

	poll := time.NewTicker(w.pollInterval)
	defer poll.Stop()

	var prune <-chan time.Time
	if w.retention > 0 {
		t := time.NewTicker(w.cleanupInterval)
		defer t.Stop()
		prune = t.C
	}

	for {
		select {
		case <-w.stop:
			w.drain()
			return
		case <-poll.C:
			w.PollOnce(ctx)
		case <-prune:
			w.Cleanup(ctx)
		}
	}
}

// drain keeps polling until a batch relays nothing or the drain budget runs
// out.
func (w *Worker) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()

	w.logger.Info("draining outbox before shutdown")
	for ctx.Err() == nil {
		if w.PollOnce(ctx) == 0 {
			return
		}
	}
}

// PollOnce relays one batch and reports how many entries were marked
// processed. Failed entries stay pending.
func (w *Worker) PollOnce(ctx context.Context) int {
	started := time.Now()

	entries, err := w.store.FetchUnprocessed(ctx, w.batchSize)
	if err != nil {
		w.logger.ErrorContext(ctx, "outbox fetch failed", "error", err)
		w.metrics.Failed()
		w.metrics.Polled(0, time.Since(started))
		return 0
	}

	relayed := 0
	for _, entry := range entries {
		if w.relay(ctx, entry) {
			relayed++
		}
	}

	w.metrics.Polled(len(entries), time.Since(started))
	w.refreshPending(ctx)
	return relayed
}

func (w *Worker) relay(ctx context.Context, entry *outbox.Entry) bool {
	log := w.logger.With("entry_id", entry.ID, "event_type", entry.EventType, "aggregate_id", entry.AggregateID)

	sent := time.Now()
	if err := w.publisher.Publish(ctx, entry); err != nil {
		log.ErrorContext(ctx, "outbox publish failed", "error", err)
		w.metrics.Failed()
		return false
	}
	took := time.Since(sent)

	if err := w.store.MarkProcessed(ctx, entry.ID, w.now()); err != nil {
		log.ErrorContext(ctx, "outbox entry published but not marked", "error", err)
		return false
	}
	w.metrics.Published(took)
	return true
}

// Cleanup prunes entries relayed before the retention window.
func (w *Worker) Cleanup(ctx context.Context) {
	if w.retention <= 0 {
		return
	}
	pruned, err := w.store.DeleteProcessedBefore(ctx, w.now().Add(-w.retention))
	if err != nil {
		w.logger.ErrorContext(ctx, "outbox prune failed", "error", err)
		return
	}
	if pruned > 0 {
		w.logger.InfoContext(ctx, "outbox pruned", "entries", pruned)
	}
	w.metrics.AddPruned(pruned)
}

func (w *Worker) refreshPending(ctx context.Context) {
	if w.metrics == nil {
		return
	}
	if pending, err := w.store.CountPending(ctx); err == nil {
		w.metrics.SetPending(pending)
	}
}
