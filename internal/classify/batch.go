package classify

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"interview-engine/internal/domain"
)

// Result pairs an email with its signal.
type Result struct {
	Email  domain.Email
	Signal domain.InterviewSignal
}

// EvaluateAll classifies emails on up to workers goroutines. The clock is
// read once for the whole batch and results keep the input order.
func (c *Classifier) EvaluateAll(ctx context.Context, emails []domain.Email, workers int) ([]Result, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	now := c.now()
	out := make([]Result, len(emails))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range emails {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = Result{Email: emails[i], Signal: c.EvaluateAt(emails[i], now)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
