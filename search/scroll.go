package search

import "sync"

// DefaultScrollThreshold is how close, in viewport units, the bottom edge must
// get to the end of the content before another page is requested.
const DefaultScrollThreshold = 100

// Viewport is a scroll position reading.
type Viewport struct {
	ScrollTop     float64
	Height        float64
	ContentHeight float64
}

// NearBottom reports whether the bottom edge is within threshold of the end of
// the content.
func (v Viewport) NearBottom(threshold float64) bool {
	return v.Height+v.ScrollTop+threshold >= v.ContentHeight
}

// ScrollSource delivers viewport readings. The returned func removes the
// handler.
type ScrollSource interface {
	Subscribe(handler func(Viewport)) (unsubscribe func())
}

// ScrollBus is an in-process ScrollSource. Publish calls handlers
// synchronously in subscription order.
type ScrollBus struct {
	mu       sync.RWMutex
	next     int
	handlers map[int]func(Viewport)
	order    []int
}

func NewScrollBus() *ScrollBus {
	return &ScrollBus{handlers: make(map[int]func(Viewport))}
}

func (b *ScrollBus) Subscribe(handler func(Viewport)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.next
	b.next++
	b.handlers[id] = handler
	b.order = append(b.order, id)

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.handlers, id)
			for i, o := range b.order {
				if o == id {
					b.order = append(b.order[:i], b.order[i+1:]...)
					break
				}
			}
		})
	}
}

func (b *ScrollBus) Publish(v Viewport) {
	b.mu.RLock()
	handlers := make([]func(Viewport), 0, len(b.order))
	for _, id := range b.order {
		handlers = append(handlers, b.handlers[id])
	}
	b.mu.RUnlock()
	for _, h := range handlers {
		h(v)
	}
}

// Subscribers returns the number of live subscriptions.
func (b *ScrollBus) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.order)
}
