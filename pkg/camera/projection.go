package camera

import "github.com/go-gl/mathgl/mgl32"

// Projection defaults
const (
	DefaultFOV  = 67.0
	DefaultNear = 0.1
	DefaultFar  = 100.0
)

// Projection builds a perspective matrix for a framebuffer of the given size.
// fovDeg is the vertical field of view. A zero height (minimised window)
// falls back to an aspect of 1.
func Projection(fovDeg float32, width, height int, near, far float32) mgl32.Mat4 {
	aspect := float32(1)
	if height > 0 && width > 0 {
		aspect = float32(width) / float32(height)
	}
	return mgl32.Perspective(mgl32.DegToRad(fovDeg), aspect, near, far)
}
