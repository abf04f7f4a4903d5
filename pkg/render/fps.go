package render

// fpsCounter averages the frame rate over fixed intervals
type fpsCounter struct {
	interval float64
	elapsed  float64
	frames   int
}

func newFPSCounter(interval float64) *fpsCounter {
	return &fpsCounter{interval: interval}
}

// tick records one frame. It reports the average rate once per interval.
func (c *fpsCounter) tick(dt float64) (float64, bool) {
	c.elapsed += dt
	c.frames++
	if c.elapsed < c.interval {
		return 0, false
	}
	fps := float64(c.frames) / c.elapsed
	c.elapsed = 0
	c.frames = 0
	return fps, true
}
