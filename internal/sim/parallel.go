package sim

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Job is one independent simulation of an ensemble.
type Job struct {
	Name   string
	Build  func() (*Simulator, error)
	Config Config
}

// RunEnsemble runs jobs concurrently, at most limit at a time (limit <= 0
// means no limit). The first failure cancels the others.
func RunEnsemble(ctx context.Context, jobs []Job, limit int) ([]*Result, error) {
	results := make([]*Result, len(jobs))

	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, job := range jobs {
		g.Go(func() error {
			s, err := job.Build()
			if err != nil {
				return err
			}
			results[i], err = s.Run(ctx, job.Config)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
