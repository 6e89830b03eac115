package realtime

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/fairwaylive/fantasy-golf-backend/internal/core/domain"
	"github.com/fairwaylive/fantasy-golf-backend/internal/core/ports"
)

// FeedWatcher tails the persistence change feed for every watched entity type
// and publishes significant, normalized events to the bus. Each entity type
// gets its own tailing goroutine; when a stream breaks, the old handle is
// closed and a fresh one opened after a fixed backoff. A feed failure never
// takes the process down.
type FeedWatcher struct {
	feed       ports.ChangeFeed
	normalizer *Normalizer
	bus        *Bus
	backoff    time.Duration
	logger     *slog.Logger

	wg sync.WaitGroup
}

// NewFeedWatcher creates a watcher that restarts broken streams after the
// given backoff.
func NewFeedWatcher(feed ports.ChangeFeed, normalizer *Normalizer, bus *Bus, backoff time.Duration, logger *slog.Logger) *FeedWatcher {
	return &FeedWatcher{
		feed:       feed,
		normalizer: normalizer,
		bus:        bus,
		backoff:    backoff,
		logger:     logger.With("component", "change_feed_watcher"),
	}
}

// Start launches one tailing goroutine per watched entity type. The
// goroutines exit when the context is cancelled; Wait blocks until they do.
func (w *FeedWatcher) Start(ctx context.Context) {
	for _, entity := range domain.WatchedEntityTypes() {
		w.wg.Add(1)
		go func(entity domain.EntityType) {
			defer w.wg.Done()
			w.watch(ctx, entity)
		}(entity)
	}
}

// Wait blocks until every tailing goroutine has exited.
func (w *FeedWatcher) Wait() {
	w.wg.Wait()
}

// watch runs the open/tail/close/backoff loop for one entity type.
func (w *FeedWatcher) watch(ctx context.Context, entity domain.EntityType) {
	logger := w.logger.With("entity", entity)
	for {
		if ctx.Err() != nil {
			return
		}
		stream, err := w.feed.Watch(ctx, entity)
		if err != nil {
			logger.Error("failed to open change stream", "error", err)
			if !w.sleep(ctx) {
				return
			}
			continue
		}
		logger.Info("change stream opened")

		err = w.tail(ctx, entity, stream)

		// Close the broken handle before opening a new one so stream
		// resources never leak across restarts.
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if cerr := stream.Close(closeCtx); cerr != nil {
			logger.Debug("change stream close failed", "error", cerr)
		}
		cancel()

		if ctx.Err() != nil {
			return
		}
		logger.Warn("change stream interrupted, restarting", "error", err, "backoff", w.backoff)
		if !w.sleep(ctx) {
			return
		}
	}
}

// tail drains one stream handle until it breaks or the context ends.
func (w *FeedWatcher) tail(ctx context.Context, entity domain.EntityType, stream ports.ChangeStream) error {
	for {
		raw, err := stream.Next(ctx)
		if err != nil {
			return err
		}
		ev := w.normalizer.Normalize(entity, raw)
		if !w.normalizer.IsSignificant(ev) {
			w.logger.Debug("suppressed insignificant update",
				"entity", entity,
				"entity_id", ev.EntityID,
			)
			continue
		}
		w.bus.Publish(ev)
	}
}

func (w *FeedWatcher) sleep(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(w.backoff):
		return true
	}
}
