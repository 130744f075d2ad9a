package search

import (
	"context"
	"time"
)

// pollInterval is how often LoadPages checks the controller.
const pollInterval = 5 * time.Millisecond

// LoadPages starts a session for p on a running controller and scrolls to
// the bottom until pages pages were requested, a page adds no products, the
// session is replaced by another Search, or ctx ends. It returns the last
// snapshot.
func LoadPages(ctx context.Context, c *Controller, p Params, pages int) (Snapshot, error) {
	startEpoch := c.Snapshot().Epoch
	if err := c.Search(ctx, p); err != nil {
		return c.Snapshot(), err
	}
	snap, err := pollUntil(ctx, c, func(s Snapshot) bool { return s.Epoch > startEpoch && settled(s) })
	if err != nil {
		return snap, err
	}

	for page := 2; page <= pages; page++ {
		before := len(snap.Products)
		epoch := snap.Epoch
		for !c.Scroll(Viewport{}) {
			if err := sleep(ctx); err != nil {
				return c.Snapshot(), err
			}
		}
		// A newer session ends the run with that session's snapshot.
		snap, err = pollUntil(ctx, c, func(s Snapshot) bool {
			return s.Epoch != epoch || (s.Page >= page && settled(s))
		})
		if err != nil {
			return snap, err
		}
		if snap.Epoch != epoch || len(snap.Products) == before {
			break
		}
	}
	return snap, nil
}

func settled(s Snapshot) bool {
	return s.Phase == PhaseIdle && !s.Loading
}

func pollUntil(ctx context.Context, c *Controller, done func(Snapshot) bool) (Snapshot, error) {
	for {
		s := c.Snapshot()
		if done(s) {
			return s, nil
		}
		if err := sleep(ctx); err != nil {
			return s, err
		}
	}
}

func sleep(ctx context.Context) error {
	t := time.NewTimer(pollInterval)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
