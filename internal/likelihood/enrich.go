package likelihood

import (
	"context"
	"fmt"
	"log"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/showerlab/jetlh/internal/jet"
)

// Runs the info and likelihood passes on every jet of c. Jets are modified in
// place, so the order of c is preserved.
func EnrichCollection(ctx context.Context, c jet.Collection, nprocs int, opts ...Option) error {
	log.Printf("enriching %d jets in %d sets\n", c.Len(), len(c))
	g, ctx := errgroup.WithContext(ctx)
	if nprocs < 1 {
		nprocs = runtime.GOMAXPROCS(0)
	}
	g.SetLimit(nprocs)
	for s, set := range c {
		for i, j := range set {
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				if err := FillTreeInfo(j); err != nil {
					return fmt.Errorf("set %d jet %d: %w", s, i, err)
				}
				if err := EnrichLogLH(j, opts...); err != nil {
					return fmt.Errorf("set %d jet %d: %w", s, i, err)
				}
				return nil
			})
		}
	}
	return g.Wait()
}
