package camera

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leterax/go-skyview/pkg/input"
)

const tol = 1e-5

// component-wise with an absolute tolerance
func assertVec3(t *testing.T, want, got mgl32.Vec3) {
	t.Helper()
	assert.InDeltaSlice(t, want[:], got[:], tol, "want %v, got %v", want, got)
}

func assertQuat(t *testing.T, want, got mgl32.Quat) {
	t.Helper()
	assert.InDelta(t, want.W, got.W, tol, "want %v, got %v", want, got)
	assertVec3(t, want.V, got.V)
}

func assertMat4(t *testing.T, want, got mgl32.Mat4) {
	t.Helper()
	assert.InDeltaSlice(t, want[:], got[:], tol, "want %v, got %v", want, got)
}

func hold(axes ...input.Axis) input.Sample {
	var s input.Sample
	for _, a := range axes {
		s.Move[a] = 1
	}
	return s
}

func rotationBlock(m mgl32.Mat4) mgl32.Mat3 {
	return m.Mat3()
}

func TestNewCameraFacesNegativeZ(t *testing.T) {
	c := New(mgl32.Vec3{0, 0, 5})

	b := c.Basis()
	assertVec3(t, mgl32.Vec3{0, 0, -1}, b.Forward)
	assertVec3(t, mgl32.Vec3{1, 0, 0}, b.Right)
	assertVec3(t, mgl32.Vec3{0, 1, 0}, b.Up)

	v := c.Views()
	assert.Equal(t, mgl32.Ident4(), v.Skybox)
	assertVec3(t, mgl32.Vec3{0, 0, -5}, v.Mesh.Col(3).Vec3())
}

func TestNoInputIsIdempotent(t *testing.T) {
	for _, comp := range []Composition{Absolute, Incremental} {
		t.Run(comp.String(), func(t *testing.T) {
			c := New(mgl32.Vec3{1, 2, 3}, WithComposition(comp))
			c.Update(input.Sample{LookDX: 12, LookDY: -7}, 0.5)

			before := c.State()
			views := c.Views()
			for _, dt := range []float32{0, 0.016, 1, 10} {
				f := c.Update(input.Sample{}, dt)
				assert.False(t, f.Moved)
			}
			assert.Equal(t, before, c.State())
			assert.Equal(t, views, c.Views())
		})
	}
}

func TestRotateWithZeroDeltaKeepsOrientation(t *testing.T) {
	for _, comp := range []Composition{Absolute, Incremental} {
		t.Run(comp.String(), func(t *testing.T) {
			c := New(mgl32.Vec3{}, WithComposition(comp))
			c.Rotate(25, 10, 1)
			want := c.State().Orientation

			for range 1000 {
				c.Rotate(0, 0, 0.016)
			}
			assertQuat(t, want, c.State().Orientation)
		})
	}
}

func TestPitchClampHoldsEveryStep(t *testing.T) {
	for _, comp := range []Composition{Absolute, Incremental} {
		t.Run(comp.String(), func(t *testing.T) {
			c := New(mgl32.Vec3{}, WithComposition(comp))
			deltas := []float32{30, 45, 90, -500, 20, -10, 1000, -1, 0.5}
			for _, dy := range deltas {
				c.Rotate(0, dy, 1)
				pitch := c.State().YawPitch[1]
				assert.LessOrEqual(t, pitch, float32(60))
				assert.GreaterOrEqual(t, pitch, float32(-60))
			}
		})
	}
}

func TestIncrementalPitchStopsAtLimit(t *testing.T) {
	c := New(mgl32.Vec3{}, WithComposition(Incremental))
	c.Rotate(0, 50, 1)
	c.Rotate(0, 50, 1)
	assert.Equal(t, float32(60), c.State().YawPitch[1])

	rad := float64(mgl32.DegToRad(60))
	limit := mgl32.Vec3{0, float32(math.Sin(rad)), float32(-math.Cos(rad))}
	assertVec3(t, limit, c.Basis().Forward)

	// pushing past the limit applies no further rotation
	c.Rotate(0, 30, 1)
	assertVec3(t, limit, c.Basis().Forward)

	c.Rotate(0, -120, 1)
	assert.Equal(t, float32(-60), c.State().YawPitch[1])
	assertVec3(t, mgl32.Vec3{0, float32(-math.Sin(rad)), float32(-math.Cos(rad))}, c.Basis().Forward)
}

func TestPitchClampedAtLimit(t *testing.T) {
	c := New(mgl32.Vec3{})
	c.Update(input.Sample{LookDY: 90}, 1)
	assert.Equal(t, float32(60), c.State().YawPitch[1])

	c.Update(input.Sample{LookDY: -400}, 1)
	assert.Equal(t, float32(-60), c.State().YawPitch[1])
}

func TestCustomPitchLimit(t *testing.T) {
	c := New(mgl32.Vec3{}, WithPitchLimit(30))
	c.Rotate(0, 45, 1)
	assert.Equal(t, float32(30), c.State().YawPitch[1])

	rad := float64(mgl32.DegToRad(30))
	assertVec3(t, mgl32.Vec3{0, float32(math.Sin(rad)), float32(-math.Cos(rad))}, c.Basis().Forward)
}

func TestYawRotatesForwardAboutWorldUp(t *testing.T) {
	c := New(mgl32.Vec3{})
	f := c.Update(input.Sample{LookDX: 36}, 1)
	require.True(t, f.Moved)

	assert.InDelta(t, 36, c.State().YawPitch[0], tol)
	rad := float64(mgl32.DegToRad(36))
	assertVec3(t, mgl32.Vec3{float32(-math.Sin(rad)), 0, float32(-math.Cos(rad))}, c.Basis().Forward)
	assertVec3(t, mgl32.Vec3{0, 1, 0}, c.Basis().Up)
}

func TestLookDeltaScaledByDt(t *testing.T) {
	c := New(mgl32.Vec3{})
	c.Rotate(-20, 10, 0.5)
	assert.InDelta(t, -10, c.State().YawPitch[0], tol)
	assert.InDelta(t, 5, c.State().YawPitch[1], tol)
}

func TestOrientationStaysUnit(t *testing.T) {
	for _, comp := range []Composition{Absolute, Incremental} {
		t.Run(comp.String(), func(t *testing.T) {
			c := New(mgl32.Vec3{}, WithComposition(comp))
			for i := range 5000 {
				c.Rotate(float32(i%7)-3, float32(i%5)-2, 0.37)
				assert.InDelta(t, 1, c.State().Orientation.Len(), 1e-4)
			}
		})
	}
}

func TestBasisIsOrthonormal(t *testing.T) {
	c := New(mgl32.Vec3{})
	c.Rotate(123, 47, 1)
	b := c.Basis()

	assert.InDelta(t, 1, b.Forward.Len(), tol)
	assert.InDelta(t, 1, b.Right.Len(), tol)
	assert.InDelta(t, 1, b.Up.Len(), tol)
	assert.InDelta(t, 0, b.Forward.Dot(b.Right), tol)
	assert.InDelta(t, 0, b.Forward.Dot(b.Up), tol)
	assert.InDelta(t, 0, b.Right.Dot(b.Up), tol)
	// right-handed with -Z forward
	assertVec3(t, b.Forward.Mul(-1), b.Right.Cross(b.Up))
}

func TestAbsoluteCompositionOrder(t *testing.T) {
	c := New(mgl32.Vec3{})
	c.Rotate(90, 30, 1)

	qYaw := mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 1, 0})
	qPitch := mgl32.QuatRotate(mgl32.DegToRad(30), mgl32.Vec3{1, 0, 0})
	want := qYaw.Mul(qPitch).Normalize()
	assertQuat(t, want, c.State().Orientation)

	// yaw then pitch keeps right in the horizontal plane
	assert.InDelta(t, 0, c.Basis().Right.Y(), tol)
}

func TestCompositionsAgreeOnSingleAxis(t *testing.T) {
	abs := New(mgl32.Vec3{})
	inc := New(mgl32.Vec3{}, WithComposition(Incremental))
	for range 10 {
		abs.Rotate(7, 0, 1)
		inc.Rotate(7, 0, 1)
	}
	assertVec3(t, abs.Basis().Forward, inc.Basis().Forward)
}

func TestCompositionsDivergeUnderCombinedMotion(t *testing.T) {
	abs := New(mgl32.Vec3{})
	inc := New(mgl32.Vec3{}, WithComposition(Incremental))
	for range 20 {
		abs.Rotate(9, 2, 1)
		inc.Rotate(9, 2, 1)
	}
	assert.InDelta(t, 0, abs.Basis().Right.Y(), tol, "absolute composition never rolls")
	assert.Greater(t, math.Abs(float64(inc.Basis().Right.Y())), 1e-3, "incremental composition picks up roll")
}

func TestForwardMovement(t *testing.T) {
	c := New(mgl32.Vec3{0, 0, 5})
	f := c.Update(hold(input.Forward), 1)

	require.True(t, f.Moved)
	assertVec3(t, mgl32.Vec3{0, 0, 2}, c.Position())
	assertVec3(t, mgl32.Vec3{0, 0, 2}, f.Position)
}

func TestStrafeAndBackMovement(t *testing.T) {
	c := New(mgl32.Vec3{})
	c.Update(hold(input.Right), 0.5)
	assertVec3(t, mgl32.Vec3{1.5, 0, 0}, c.Position())

	c.Update(hold(input.Left, input.Back), 1)
	assertVec3(t, mgl32.Vec3{-1.5, 0, 3}, c.Position())

	// opposite axes cancel
	before := c.Position()
	c.Update(hold(input.Forward, input.Back), 1)
	assertVec3(t, before, c.Position())
}

func TestMovementFollowsOrientation(t *testing.T) {
	c := New(mgl32.Vec3{}, WithSpeed(1))
	c.Rotate(90, 0, 1)
	c.Translate(hold(input.Forward), 2)
	// yaw of +90 about up turns -Z into -X
	assertVec3(t, mgl32.Vec3{-2, 0, 0}, c.Position())
}

func TestMovementIgnoresMode(t *testing.T) {
	s := input.NewSampler()
	c := New(mgl32.Vec3{})
	c.Update(s.Sample([]input.Event{input.KeyChanged{Key: input.KeyW, Action: input.Press}}), 1)
	assertVec3(t, mgl32.Vec3{0, 0, -3}, c.Position())
}

func TestSkyboxHasNoTranslation(t *testing.T) {
	c := New(mgl32.Vec3{0, 0, 5})
	c.Rotate(33, -12, 1)
	for range 100 {
		c.Update(hold(input.Forward), 1)
	}
	v := c.Views()

	assert.Equal(t, mgl32.Vec4{0, 0, 0, 1}, v.Skybox.Col(3))
	assert.Greater(t, c.Position().Len(), float32(250))

	// the mesh view maps the camera position to the origin
	origin := v.Mesh.Mul4x1(c.Position().Vec4(1)).Vec3()
	assert.InDelta(t, 0, origin.Len(), 1e-2)
}

func TestViewsShareRotation(t *testing.T) {
	c := New(mgl32.Vec3{4, -2, 9})
	samples := []input.Sample{
		{LookDX: 14},
		{LookDY: -31},
		hold(input.Right, input.Forward),
		{LookDX: -200, LookDY: 70, Move: hold(input.Back).Move},
	}
	for _, s := range samples {
		c.Update(s, 0.7)
		v := c.Views()
		assert.Equal(t, rotationBlock(v.Skybox), rotationBlock(v.Mesh))
		assert.Equal(t, v.Skybox, c.Rotation().Transpose())
	}
}

func TestMeshViewIsRotationThenTranslationInverse(t *testing.T) {
	c := New(mgl32.Vec3{1, 2, 3})
	c.Update(input.Sample{LookDX: 40, LookDY: 20}, 1)

	r := c.Rotation()
	p := c.Position()
	tr := mgl32.Translate3D(p.X(), p.Y(), p.Z())
	want := r.Inv().Mul4(tr.Inv())
	assertMat4(t, want, c.Views().Mesh)
}

func TestParseComposition(t *testing.T) {
	got, err := ParseComposition("Incremental")
	require.NoError(t, err)
	assert.Equal(t, Incremental, got)

	got, err = ParseComposition("")
	require.NoError(t, err)
	assert.Equal(t, Absolute, got)

	_, err = ParseComposition("euler")
	assert.Error(t, err)
}

func TestClampPitch(t *testing.T) {
	assert.Equal(t, float32(60), ClampPitch(61, 60))
	assert.Equal(t, float32(-60), ClampPitch(-1e9, 60))
	assert.Equal(t, float32(12.5), ClampPitch(12.5, 60))
}

func TestProjection(t *testing.T) {
	p := Projection(DefaultFOV, 640, 480, DefaultNear, DefaultFar)
	want := mgl32.Perspective(mgl32.DegToRad(67), 640.0/480.0, 0.1, 100)
	assert.Equal(t, want, p)

	square := Projection(DefaultFOV, 640, 0, DefaultNear, DefaultFar)
	assert.Equal(t, mgl32.Perspective(mgl32.DegToRad(67), 1, 0.1, 100), square)
}
