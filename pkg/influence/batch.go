package influence

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/tigerbot-team/tigerbot/contact-modelling/pkg/geom"
	"github.com/tigerbot-team/tigerbot/contact-modelling/pkg/greens"
)

// EvaluateBatch evaluates every offset independently, using at most workers
// goroutines. Results are in input order.
func EvaluateBatch(ctx context.Context, offsets []geom.Offset, m greens.Material, workers int) ([]greens.Tensor, error) {
	if workers < 1 {
		workers = 1
	}
	chunk := (len(offsets) + workers - 1) / workers
	out := make([]greens.Tensor, len(offsets))

	g, ctx := errgroup.WithContext(ctx)
	for start := 0; start < len(offsets); start += chunk {
		start, end := start, min(start+chunk, len(offsets))
		g.Go(func() error {
			for i := start; i < end; i++ {
				if (i-start)%256 == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				out[i] = greens.EvaluateOffset(offsets[i], m)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
