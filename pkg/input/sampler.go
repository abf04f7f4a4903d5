// Package input turns raw window events into the per-frame values that drive
// the free-flight camera: a look delta, four level-triggered movement axes and
// a request to capture or release the pointer.
package input

// Axis is one of the four binary movement directions
type Axis int

const (
	Forward Axis = iota
	Back
	Left
	Right
	numAxes
)

func (a Axis) String() string {
	switch a {
	case Forward:
		return "forward"
	case Back:
		return "back"
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return "unknown"
}

// Bindings maps keys to movement axes
type Bindings map[Key]Axis

// DefaultBindings returns the WASD layout: W forward, S back, A left, D right
func DefaultBindings() Bindings {
	return Bindings{
		KeyW: Forward,
		KeyS: Back,
		KeyA: Left,
		KeyD: Right,
	}
}

// Mode is the look state of the sampler
type Mode int

const (
	// Free leaves the pointer visible and ignores pointer motion
	Free Mode = iota
	// Looking hides and locks the pointer and turns motion into look deltas
	Looking
)

func (m Mode) String() string {
	if m == Looking {
		return "looking"
	}
	return "free"
}

// PointerIntent tells the window layer what to do with the pointer
type PointerIntent int

const (
	PointerUnchanged PointerIntent = iota
	PointerCapture
	PointerRelease
)

// DefaultGain scales pointer motion in device pixels into look degrees per second
const DefaultGain = -10.0

// Sample is the input consumed by one camera update
type Sample struct {
	LookDX, LookDY float32
	Move           [numAxes]float32
	Intent         PointerIntent
}

// Axis returns the level of a movement axis, 0 or 1
func (s Sample) Axis(a Axis) float32 {
	if a < 0 || a >= numAxes {
		return 0
	}
	return s.Move[a]
}

// Moving reports whether any movement axis is held
func (s Sample) Moving() bool {
	for _, v := range s.Move {
		if v != 0 {
			return true
		}
	}
	return false
}

// Looking reports whether the sample carries a look delta
func (s Sample) Looking() bool {
	return s.LookDX != 0 || s.LookDY != 0
}

// Sampler accumulates events into samples. It is owned by the render loop.
type Sampler struct {
	mode     Mode
	gain     float64
	bindings Bindings

	// pointer baseline for deltas
	prevX, prevY float64

	lookDX, lookDY float64
	move           [numAxes]float32
	intent         PointerIntent
}

// Option configures a Sampler
type Option func(*Sampler)

// WithGain overrides the pointer gain
func WithGain(gain float64) Option {
	return func(s *Sampler) {
		s.gain = gain
	}
}

// WithBindings replaces the key to axis bindings
func WithBindings(b Bindings) Option {
	return func(s *Sampler) {
		s.bindings = b
	}
}

// NewSampler creates a sampler in Free mode
func NewSampler(opts ...Option) *Sampler {
	s := &Sampler{
		mode:     Free,
		gain:     DefaultGain,
		bindings: DefaultBindings(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Mode returns the current look mode
func (s *Sampler) Mode() Mode {
	return s.mode
}

// Handle applies a single event
func (s *Sampler) Handle(e Event) {
	switch ev := e.(type) {
	case PointerMoved:
		s.pointerMoved(ev)
	case ButtonChanged:
		s.buttonChanged(ev)
	case KeyChanged:
		s.keyChanged(ev)
	}
}

func (s *Sampler) pointerMoved(ev PointerMoved) {
	if s.mode != Looking {
		return
	}
	s.lookDX += (ev.X - s.prevX) * s.gain
	s.lookDY += (ev.Y - s.prevY) * s.gain
	s.prevX = ev.X
	s.prevY = ev.Y
}

func (s *Sampler) buttonChanged(ev ButtonChanged) {
	if ev.Button != MouseButtonLeft || ev.Action != Press {
		return
	}
	s.mode = Looking
	// Start from the click position so the first motion is not a jump
	s.prevX = ev.X
	s.prevY = ev.Y
	s.intent = PointerCapture
}

func (s *Sampler) keyChanged(ev KeyChanged) {
	if ev.Key == KeyEscape {
		if ev.Action == Press {
			s.mode = Free
			s.intent = PointerRelease
		}
		return
	}

	axis, ok := s.bindings[ev.Key]
	if !ok || axis < 0 || axis >= numAxes {
		return
	}
	if ev.Action == Release {
		s.move[axis] = 0
	} else {
		s.move[axis] = 1
	}
}

// Sample handles the given events and returns the frame sample. Look deltas
// and the pointer intent are reset afterwards; movement axes keep their level
// until the key is released.
func (s *Sampler) Sample(events []Event) Sample {
	for _, e := range events {
		s.Handle(e)
	}

	out := Sample{
		LookDX: float32(s.lookDX),
		LookDY: float32(s.lookDY),
		Move:   s.move,
		Intent: s.intent,
	}

	s.lookDX = 0
	s.lookDY = 0
	s.intent = PointerUnchanged
	return out
}
