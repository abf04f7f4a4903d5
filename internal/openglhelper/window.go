package openglhelper

import (
	"fmt"

	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/leterax/go-skyview/pkg/input"
)

// Window handles GLFW window creation and turns its callbacks into input
// events
type Window struct {
	glfwWindow    *glfw.Window
	title         string
	mouseCaptured bool
	events        *input.Queue
}

// NewWindow creates a new GLFW window with an OpenGL 4.6 core context. Input
// callbacks push into events, which the render loop drains once per frame.
func NewWindow(width, height int, title string, vsync bool, events *input.Queue) (*Window, error) {
	// Initialize GLFW
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize GLFW: %w", err)
	}

	// Configure GLFW
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 6)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.True)

	// Create window
	glfwWindow, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to create GLFW window: %w", err)
	}

	glfwWindow.MakeContextCurrent()
	if vsync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	// Initialize OpenGL
	if err := gl.Init(); err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	w := &Window{
		glfwWindow: glfwWindow,
		title:      title,
		events:     events,
	}
	w.registerCallbacks()
	return w, nil
}

func (w *Window) registerCallbacks() {
	w.glfwWindow.SetCursorPosCallback(func(_ *glfw.Window, xpos, ypos float64) {
		w.events.Push(input.PointerMoved{X: xpos, Y: ypos})
	})
	w.glfwWindow.SetMouseButtonCallback(func(win *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		xpos, ypos := win.GetCursorPos()
		w.events.Push(input.ButtonChanged{
			Button: input.MouseButton(button),
			Action: input.Action(action),
			X:      xpos,
			Y:      ypos,
		})
	})
	w.glfwWindow.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		w.events.Push(input.KeyChanged{
			Key:    input.Key(key),
			Action: input.Action(action),
		})
	})
}

// GLVersion returns the OpenGL version string of the current context
func (w *Window) GLVersion() string {
	return gl.GoStr(gl.GetString(gl.VERSION))
}

// Renderer returns the GL renderer string of the current context
func (w *Window) Renderer() string {
	return gl.GoStr(gl.GetString(gl.RENDERER))
}

// Clear clears the color and depth buffers
func (w *Window) Clear(color mgl32.Vec4) {
	gl.ClearColor(color.X(), color.Y(), color.Z(), color.W())
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// SwapBuffers swaps the front and back buffers
func (w *Window) SwapBuffers() {
	w.glfwWindow.SwapBuffers()
}

// PollEvents processes pending events without blocking. Callbacks fire from
// inside this call.
func (w *Window) PollEvents() {
	glfw.PollEvents()
}

// ShouldClose returns whether the window should close
func (w *Window) ShouldClose() bool {
	return w.glfwWindow.ShouldClose()
}

// Close destroys the window and terminates GLFW
func (w *Window) Close() {
	w.glfwWindow.Destroy()
	glfw.Terminate()
}

// FramebufferSize returns the drawable size in pixels, which differs from
// the window size on high-DPI displays
func (w *Window) FramebufferSize() (width, height int) {
	return w.glfwWindow.GetFramebufferSize()
}

// SetTitle sets the window title
func (w *Window) SetTitle(title string) {
	w.glfwWindow.SetTitle(title)
}

// Title returns the title the window was created with
func (w *Window) Title() string {
	return w.title
}

// ApplyPointerIntent hides and locks the pointer for look mode or restores it
func (w *Window) ApplyPointerIntent(intent input.PointerIntent) {
	switch intent {
	case input.PointerCapture:
		w.SetMouseCaptured(true)
	case input.PointerRelease:
		w.SetMouseCaptured(false)
	}
}

// SetMouseCaptured captures or releases the mouse cursor
func (w *Window) SetMouseCaptured(captured bool) {
	w.mouseCaptured = captured

	if captured {
		w.glfwWindow.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
	} else {
		w.glfwWindow.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
	}
}

// IsMouseCaptured returns whether the mouse is currently captured
func (w *Window) IsMouseCaptured() bool {
	return w.mouseCaptured
}

// Time returns seconds since GLFW was initialized, from a monotonic clock
func Time() float64 {
	return glfw.GetTime()
}
