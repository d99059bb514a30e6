package resolve

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/five82/lookout/internal/archive"
	"github.com/five82/lookout/internal/timeline"
)

// Preload resolves the given frames concurrently so that stepping onto
// them finds the URL already memoized. The 1080p variant is tried first.
// Failures are not reported; preloading is best effort.
func (r *Resolver) Preload(ctx context.Context, frames []timeline.Descriptor) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(2)
	for _, f := range frames {
		g.Go(func() error {
			if f.Src1080 != "" {
				if _, err := r.Resolve(ctx, f.ManifestURL, f.Image, archive.Variant1080); err == nil {
					return nil
				}
			}
			_, _ = r.Resolve(ctx, f.ManifestURL, f.Image, archive.VariantSource)
			return nil
		})
	}
	_ = g.Wait()
}
