package ports

import (
	"context"

	"github.com/fairwaylive/fantasy-golf-backend/internal/core/domain"
)

// RawChange mirrors the document store's native change-notification event
// before normalization. For updates, UpdatedFields and RemovedFields carry
// the delta; FullDocument is the post-image when the store supplies one.
type RawChange struct {
	Operation     string
	DocumentID    string
	FullDocument  map[string]any
	UpdatedFields map[string]any
	RemovedFields []string
}

// ChangeStream is one open change feed over a watched collection. Next blocks
// until an event arrives, the stream fails, or ctx is cancelled.
type ChangeStream interface {
	Next(ctx context.Context) (RawChange, error)
	Close(ctx context.Context) error
}

// ChangeFeed opens change streams against the persistence layer. The watcher
// re-invokes Watch after a stream failure.
type ChangeFeed interface {
	Watch(ctx context.Context, entity domain.EntityType) (ChangeStream, error)
}

// SnapshotProvider supplies the full current state a client needs right after
// subscribing, before incremental updates begin.
type SnapshotProvider interface {
	FetchSnapshot(ctx context.Context, entity domain.EntityType, scopeID string) (any, error)
}
