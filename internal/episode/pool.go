package episode

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
)

// RunnerFactory builds one runner per worker. Each worker needs its own
// environment: a simulator connection cannot play two battles at once.
type RunnerFactory func(worker int) (*Runner, error)

// Pool runs episodes across several concurrent workers.
type Pool struct {
	factory RunnerFactory
	workers int
}

// NewPool creates a pool of the given size.
func NewPool(factory RunnerFactory, workers int) *Pool {
	if workers < 1 {
		workers = 1
	}
	return &Pool{factory: factory, workers: workers}
}

// Run plays a total number of episodes split across the workers and blocks
// until all of them finish. episodes <= 0 runs until the context ends.
func (p *Pool) Run(ctx context.Context, episodes int) error {
	per := episodes
	if episodes > 0 {
		per = episodes / p.workers
	}
	extra := 0
	if episodes > 0 {
		extra = episodes % p.workers
	}

	var wg sync.WaitGroup
	errs := make(chan error, p.workers)
	for w := 0; w < p.workers; w++ {
		count := per
		if w < extra {
			count++
		}
		if episodes > 0 && count == 0 {
			continue
		}
		wg.Add(1)
		go func(worker, count int) {
			defer wg.Done()
			r, err := p.factory(worker)
			if err != nil {
				log.Error().Err(err).Int("worker", worker).Msg("Worker setup failed")
				errs <- err
				return
			}
			defer r.env.Close()
			if err := r.Run(ctx, count); err != nil {
				errs <- err
			}
		}(w, count)
	}
	wg.Wait()

	select {
	case err := <-errs:
		return err
	default:
		return nil
	}
}
