package publishers

import (
	"context"

	"golang.org/x/sync/errgroup"

	"locreg/pkg/platform/outbox"
)

// Publisher mirrors worker.Publisher to keep this package import-light.
type Publisher interface {
	Publish(ctx context.Context, entry *outbox.Entry) error
}

// Fanout publishes to every target concurrently. The entry counts as
// delivered only when all targets accept it; targets must tolerate the
// duplicate they receive when a sibling fails and the entry is retried.
type Fanout []Publisher

func (f Fanout) Publish(ctx context.Context, entry *outbox.Entry) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, p := range f {
		g.Go(func() error {
			return p.Publish(ctx, entry)
		})
	}
	return g.Wait()
}
