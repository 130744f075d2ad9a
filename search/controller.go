package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// ErrAlreadyRunning is returned by Run when another Run is active.
var ErrAlreadyRunning = errors.New("search: controller already running")

const defaultQueueSize = 64

// Option configures a Controller.
type Option func(*Controller)

func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithThreshold sets the near-bottom distance for the scroll trigger.
func WithThreshold(t float64) Option {
	return func(c *Controller) { c.threshold = t }
}

// WithPageSize sets Request.First for every fetch.
func WithPageSize(n int) Option {
	return func(c *Controller) { c.pageSize = n }
}

// WithFetchTimeout bounds each catalog call. Zero means no bound.
func WithFetchTimeout(d time.Duration) Option {
	return func(c *Controller) { c.timeout = d }
}

// WithOnChange registers a callback invoked from the run loop after every
// state transition. It must not call back into the controller synchronously.
func WithOnChange(fn func(Snapshot)) Option {
	return func(c *Controller) { c.onChange = fn }
}

func WithQueueSize(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.queueSize = n
		}
	}
}

type intent struct {
	params   *Params
	viewport *Viewport
}

type fetchResult struct {
	ticket Ticket
	page   Page
	err    error
	took   time.Duration
}

// Controller runs incremental search sessions against a Fetcher. All state
// transitions happen on the goroutine executing Run; Search and Scroll only
// enqueue intents, so at most one catalog call is in flight per session.
type Controller struct {
	fetcher   Fetcher
	threshold float64
	pageSize  int
	timeout   time.Duration
	queueSize int
	logger    *slog.Logger
	onChange  func(Snapshot)

	intents chan intent
	results chan fetchResult
	running atomic.Bool

	// owned by Run
	state       *State
	cancelFetch context.CancelFunc

	mu   sync.RWMutex
	snap Snapshot
}

func New(f Fetcher, opts ...Option) *Controller {
	c := &Controller{
		fetcher:   f,
		threshold: DefaultScrollThreshold,
		queueSize: defaultQueueSize,
		logger:    slog.Default(),
		state:     NewState(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.intents = make(chan intent, c.queueSize)
	c.results = make(chan fetchResult, 4)
	c.snap = c.state.Snapshot()
	return c
}

// Run processes intents and fetch results until ctx is done. It returns the
// context error; catalog failures never end the loop.
func (c *Controller) Run(ctx context.Context) error {
	if !c.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer c.running.Store(false)
	defer c.stopFetch()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case in := <-c.intents:
			c.handle(ctx, in)
		case res := <-c.results:
			c.complete(res)
		}
	}
}

// Search starts a new session for p, discarding the previous one.
func (c *Controller) Search(ctx context.Context, p Params) error {
	select {
	case c.intents <- intent{params: &p}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Scroll feeds one viewport reading to the scroll trigger. Readings are
// dropped when the queue is full; it reports whether v was queued.
func (c *Controller) Scroll(v Viewport) bool {
	select {
	case c.intents <- intent{viewport: &v}:
		return true
	default:
		c.logger.Debug("scroll event dropped, intent queue full")
		return false
	}
}

// WatchScroll subscribes to src until ctx is done.
func (c *Controller) WatchScroll(ctx context.Context, src ScrollSource) {
	unsubscribe := src.Subscribe(func(v Viewport) { c.Scroll(v) })
	defer unsubscribe()
	<-ctx.Done()
}

// Snapshot returns the state as of the last transition.
func (c *Controller) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap
}

func (c *Controller) handle(ctx context.Context, in intent) {
	switch {
	case in.params != nil:
		c.stopFetch()
		c.state.Reset(*in.params)
		c.logger.Info("search session started",
			"session", c.state.Session(),
			"sort_key", in.params.SortKey,
			"reverse", in.params.Reverse,
			"query", in.params.Query)
		c.start(ctx, c.state.BeginInitial(c.pageSize))
	case in.viewport != nil:
		if !c.state.AdvancePage(*in.viewport, c.threshold) {
			return
		}
		c.publish()
		if t, ok := c.state.BeginMore(c.pageSize); ok {
			c.start(ctx, t)
		}
	}
}

func (c *Controller) start(ctx context.Context, t Ticket) {
	var fctx context.Context
	var cancel context.CancelFunc
	if c.timeout > 0 {
		fctx, cancel = context.WithTimeout(ctx, c.timeout)
	} else {
		fctx, cancel = context.WithCancel(ctx)
	}
	c.cancelFetch = cancel
	c.publish()

	go func() {
		defer cancel()
		started := time.Now()
		page, err := c.fetch(fctx, t.Request)
		res := fetchResult{ticket: t, page: page, err: err, took: time.Since(started)}
		select {
		case c.results <- res:
		case <-ctx.Done():
		}
	}()
}

func (c *Controller) fetch(ctx context.Context, req Request) (page Page, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("fetcher panic: %v", r)
		}
	}()
	return c.fetcher.FetchProducts(ctx, req)
}

func (c *Controller) complete(res fetchResult) {
	outcome := c.state.Complete(res.ticket, res.page, res.err)
	req := res.ticket.Request
	switch outcome {
	case OutcomeStale:
		c.logger.Debug("discarding stale fetch result",
			"epoch", res.ticket.Epoch,
			"current_epoch", c.state.Epoch(),
			"page", req.Page)
		return
	case OutcomeFailed:
		c.logger.Error("fetch products failed",
			"session", c.state.Session(),
			"page", req.Page,
			"cursor", req.Cursor,
			"took", res.took,
			"err", res.err)
	case OutcomeApplied:
		c.logger.Debug("fetched products",
			"session", c.state.Session(),
			"page", req.Page,
			"count", len(res.page.Products),
			"end_cursor", res.page.EndCursor,
			"took", res.took)
	}
	c.stopFetch()
	c.publish()
}

func (c *Controller) stopFetch() {
	if c.cancelFetch != nil {
		c.cancelFetch()
		c.cancelFetch = nil
	}
}

func (c *Controller) publish() {
	snap := c.state.Snapshot()
	c.mu.Lock()
	c.snap = snap
	c.mu.Unlock()
	if c.onChange != nil {
		c.onChange(snap)
	}
}
