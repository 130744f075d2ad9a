package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestViewport_NearBottom(t *testing.T) {
	tests := []struct {
		name string
		v    Viewport
		want bool
	}{
		{"far from bottom", Viewport{ScrollTop: 0, Height: 800, ContentHeight: 2000}, false},
		{"exactly at threshold", Viewport{ScrollTop: 1100, Height: 800, ContentHeight: 2000}, true},
		{"just short of threshold", Viewport{ScrollTop: 1099.5, Height: 800, ContentHeight: 2000}, false},
		{"fractional inside threshold", Viewport{ScrollTop: 1150.25, Height: 800, ContentHeight: 2000}, true},
		{"past the end", Viewport{ScrollTop: 1300, Height: 800, ContentHeight: 2000}, true},
		{"content shorter than viewport", Viewport{Height: 800, ContentHeight: 300}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.v.NearBottom(DefaultScrollThreshold))
		})
	}
}

func TestScrollBus_SubscribePublishUnsubscribe(t *testing.T) {
	bus := NewScrollBus()
	var first, second []Viewport
	unsubFirst := bus.Subscribe(func(v Viewport) { first = append(first, v) })
	unsubSecond := bus.Subscribe(func(v Viewport) { second = append(second, v) })
	assert.Equal(t, 2, bus.Subscribers())

	bus.Publish(Viewport{ScrollTop: 1})
	unsubFirst()
	unsubFirst()
	bus.Publish(Viewport{ScrollTop: 2})
	unsubSecond()
	bus.Publish(Viewport{ScrollTop: 3})

	assert.Equal(t, []Viewport{{ScrollTop: 1}}, first)
	assert.Equal(t, []Viewport{{ScrollTop: 1}, {ScrollTop: 2}}, second)
	assert.Equal(t, 0, bus.Subscribers())
}
