package runner

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Runner runs the relay components side by side. The first component to
// fail cancels Context for the others.
type Runner struct {
	g   *errgroup.Group
	ctx context.Context
}

func New(ctx context.Context) *Runner {
	g, groupCtx := errgroup.WithContext(ctx)

	return &Runner{
		g:   g,
		ctx: groupCtx,
	}
}

func (r *Runner) Context() context.Context {
	return r.ctx
}

func (r *Runner) Go(f func(ctx context.Context) error) {
	r.g.Go(func() error {
		return f(r.ctx)
	})
}

func (r *Runner) Wait() error {
	return r.g.Wait()
}
