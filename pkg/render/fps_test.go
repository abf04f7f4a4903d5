package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFPSCounterReportsPerInterval(t *testing.T) {
	c := newFPSCounter(FPSInterval)

	for i := 0; i < 3; i++ {
		_, ok := c.tick(0.0625)
		assert.False(t, ok, "frame %d", i)
	}
	fps, ok := c.tick(0.0625)
	assert.True(t, ok)
	assert.InDelta(t, 16.0, fps, 1e-9)

	_, ok = c.tick(0.0625)
	assert.False(t, ok, "counter resets after reporting")
}

func TestFPSCounterSlowFrame(t *testing.T) {
	c := newFPSCounter(FPSInterval)

	fps, ok := c.tick(0.5)
	assert.True(t, ok)
	assert.InDelta(t, 2.0, fps, 1e-9)
}
