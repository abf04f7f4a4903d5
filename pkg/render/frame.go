package render

import "github.com/leterax/go-skyview/pkg/input"

// frameStages are the steps of one loop iteration
type frameStages interface {
	beginFrame() float64
	pollInput() input.Sample
	advance(sample input.Sample, dt float64)
	render()
	present()
}

// runFrame runs one iteration. Input is read and the camera advanced before
// drawing so the image shown reflects this frame's input.
func runFrame(f frameStages) {
	dt := f.beginFrame()
	sample := f.pollInput()
	f.advance(sample, dt)
	f.render()
	f.present()
}
