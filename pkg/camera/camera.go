// Package camera implements the free-flight camera: a quaternion orientation
// driven by accumulated yaw and clamped pitch, a position integrated along the
// camera basis, and the two view matrices drawn with each frame. One for the
// scene, and a rotation-only one for the sky-box.
package camera

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/leterax/go-skyview/pkg/input"
)

// Camera defaults
const (
	// DefaultSpeed is the movement speed in world units per second
	DefaultSpeed = 3.0
	// DefaultPitchLimit bounds the accumulated pitch in degrees
	DefaultPitchLimit = 60.0
)

var (
	worldUp    = mgl32.Vec3{0, 1, 0}
	worldRight = mgl32.Vec3{1, 0, 0}

	// homogeneous directions, w=0 so translation never applies
	localForward = mgl32.Vec4{0, 0, -1, 0}
	localRight   = mgl32.Vec4{1, 0, 0, 0}
	localUp      = mgl32.Vec4{0, 1, 0, 0}
)

// Composition selects how yaw and pitch combine into the orientation
type Composition int

const (
	// Absolute rebuilds the orientation every update as
	// yaw(accumulated, world up) * pitch(accumulated, world right).
	Absolute Composition = iota
	// Incremental rotates the previous orientation by this update's yaw and
	// pitch change about the camera's current up and right vectors. Under
	// combined yaw and pitch it picks up roll over time.
	Incremental
)

func (c Composition) String() string {
	switch c {
	case Absolute:
		return "absolute"
	case Incremental:
		return "incremental"
	}
	return fmt.Sprintf("Composition(%d)", int(c))
}

// ParseComposition parses "absolute" or "incremental"
func ParseComposition(s string) (Composition, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "absolute":
		return Absolute, nil
	case "incremental":
		return Incremental, nil
	}
	return Absolute, fmt.Errorf("unknown composition %q", s)
}

// State is the persistent camera state
type State struct {
	Position    mgl32.Vec3
	Orientation mgl32.Quat
	// YawPitch holds the accumulated yaw and pitch in degrees
	YawPitch mgl32.Vec2
}

// Basis holds the camera's local axes in world space
type Basis struct {
	Forward mgl32.Vec3
	Right   mgl32.Vec3
	Up      mgl32.Vec3
}

// ViewMatrices are the two view transforms used per frame
type ViewMatrices struct {
	// Mesh is inverse(R) * inverse(T)
	Mesh mgl32.Mat4
	// Skybox is inverse(R) and never carries translation
	Skybox mgl32.Mat4
}

// Frame is the result of one camera update
type Frame struct {
	Moved    bool
	Views    ViewMatrices
	Position mgl32.Vec3
}

// Camera is a free-flight camera. It is not safe for concurrent use; the
// render loop owns it.
type Camera struct {
	state       State
	speed       float32
	pitchLimit  float32
	composition Composition

	rotation mgl32.Mat4
	basis    Basis
	views    ViewMatrices
}

// Option configures a Camera
type Option func(*Camera)

// WithSpeed sets the movement speed in world units per second
func WithSpeed(speed float32) Option {
	return func(c *Camera) {
		c.speed = speed
	}
}

// WithPitchLimit sets the symmetric pitch clamp in degrees
func WithPitchLimit(limit float32) Option {
	return func(c *Camera) {
		c.pitchLimit = limit
	}
}

// WithComposition selects the orientation composition
func WithComposition(comp Composition) Option {
	return func(c *Camera) {
		c.composition = comp
	}
}

// New creates a camera at position looking down -Z
func New(position mgl32.Vec3, opts ...Option) *Camera {
	c := &Camera{
		state: State{
			Position:    position,
			Orientation: mgl32.QuatIdent(),
		},
		speed:       DefaultSpeed,
		pitchLimit:  DefaultPitchLimit,
		composition: Absolute,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.updateBasis()
	c.BuildViews()
	return c
}

// ClampPitch clamps pitch into [-limit, limit]
func ClampPitch(pitch, limit float32) float32 {
	return mgl32.Clamp(pitch, -limit, limit)
}

// Update runs one frame of camera logic. Orientation, position and views are
// only recomputed when the sample carries a look delta or a held movement
// axis; otherwise the state is left untouched and Frame.Moved is false.
func (c *Camera) Update(s input.Sample, dt float32) Frame {
	moved := s.Looking() || s.Moving()
	if moved {
		c.Rotate(s.LookDX, s.LookDY, dt)
		c.Translate(s, dt)
		c.BuildViews()
	}
	return Frame{
		Moved:    moved,
		Views:    c.views,
		Position: c.state.Position,
	}
}

// Rotate integrates a look delta over dt seconds into the accumulated yaw and
// pitch, clamps pitch, and rebuilds the orientation and basis.
func (c *Camera) Rotate(dx, dy, dt float32) {
	yaw, pitch := c.state.YawPitch[0], c.state.YawPitch[1]
	if dx != 0 {
		yaw += dx * dt
	}
	if dy != 0 {
		pitch = ClampPitch(pitch+dy*dt, c.pitchLimit)
	}

	var q mgl32.Quat
	switch c.composition {
	case Incremental:
		qPitch := mgl32.QuatRotate(mgl32.DegToRad(pitch-c.state.YawPitch[1]), c.basis.Right)
		qYaw := mgl32.QuatRotate(mgl32.DegToRad(yaw-c.state.YawPitch[0]), c.basis.Up)
		q = qYaw.Mul(qPitch).Mul(c.state.Orientation)
	default:
		qYaw := mgl32.QuatRotate(mgl32.DegToRad(yaw), worldUp)
		qPitch := mgl32.QuatRotate(mgl32.DegToRad(pitch), worldRight)
		q = qYaw.Mul(qPitch)
	}

	c.state.Orientation = q.Normalize()
	c.state.YawPitch = mgl32.Vec2{yaw, pitch}
	c.updateBasis()
}

// Translate moves the camera along its basis for the held movement axes.
// Offsets are built in camera space where -Z is forward, so the forward axis
// gives a negative z that is negated again when applied along Forward.
func (c *Camera) Translate(s input.Sample, dt float32) {
	step := c.speed * dt
	move := mgl32.Vec3{
		(s.Axis(input.Right) - s.Axis(input.Left)) * step,
		0,
		(s.Axis(input.Back) - s.Axis(input.Forward)) * step,
	}

	p := c.state.Position
	p = p.Add(c.basis.Forward.Mul(-move.Z()))
	p = p.Add(c.basis.Up.Mul(move.Y()))
	p = p.Add(c.basis.Right.Mul(move.X()))
	c.state.Position = p
}

// BuildViews recomputes both view matrices from the current rotation and
// position. The mesh view is inverse(R) * inverse(T), never the inverse of
// the combined T * R.
func (c *Camera) BuildViews() {
	// R is orthonormal, its inverse is its transpose
	invR := c.rotation.Transpose()
	p := c.state.Position
	invT := mgl32.Translate3D(-p.X(), -p.Y(), -p.Z())

	c.views = ViewMatrices{
		Mesh:   invR.Mul4(invT),
		Skybox: invR,
	}
}

func (c *Camera) updateBasis() {
	c.rotation = c.state.Orientation.Mat4()
	c.basis = Basis{
		Forward: c.rotation.Mul4x1(localForward).Vec3(),
		Right:   c.rotation.Mul4x1(localRight).Vec3(),
		Up:      c.rotation.Mul4x1(localUp).Vec3(),
	}
}

// State returns a copy of the camera state
func (c *Camera) State() State {
	return c.state
}

// Position returns the world-space position
func (c *Camera) Position() mgl32.Vec3 {
	return c.state.Position
}

// Basis returns the current local axes
func (c *Camera) Basis() Basis {
	return c.basis
}

// Rotation returns the rotation matrix R built from the orientation
func (c *Camera) Rotation() mgl32.Mat4 {
	return c.rotation
}

// Views returns the view matrices from the last BuildViews
func (c *Camera) Views() ViewMatrices {
	return c.views
}

// Composition returns the configured composition
func (c *Camera) Composition() Composition {
	return c.composition
}
