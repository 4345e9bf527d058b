package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcaster_FanOut(t *testing.T) {
	b := newBroadcaster[string]("test")

	a, cancelA := b.subscribe("init")
	c, cancelC := b.subscribe("init")
	defer cancelC()

	b.publish("x")
	b.publish("y")

	for _, ch := range []<-chan string{a, c} {
		assert.Equal(t, "init", <-ch)
		assert.Equal(t, "x", <-ch)
		assert.Equal(t, "y", <-ch)
	}

	cancelA()
	cancelA()
	_, ok := <-a
	assert.False(t, ok)

	b.publish("z")
	assert.Equal(t, "z", <-c)
}

func TestBroadcaster_SubscribeAfterClose(t *testing.T) {
	b := newBroadcaster[int]("test")
	b.closeAll()

	ch, cancel := b.subscribe(1)
	defer cancel()

	select {
	case _, ok := <-ch:
		require.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("expected closed channel")
	}
}
