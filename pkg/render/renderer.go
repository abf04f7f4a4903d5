// Package render drives the window, the sky-box and the mesh once per frame
// and feeds input into the free-flight camera.
package render

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/leterax/go-skyview/internal/config"
	"github.com/leterax/go-skyview/internal/openglhelper"
	"github.com/leterax/go-skyview/pkg/asset"
	"github.com/leterax/go-skyview/pkg/camera"
	"github.com/leterax/go-skyview/pkg/input"
)

// Renderer handles rendering logic and the frame loop
type Renderer struct {
	cfg    config.Config
	logger *slog.Logger

	window  *openglhelper.Window
	events  *input.Queue
	sampler *input.Sampler
	camera  *camera.Camera

	meshShader   *openglhelper.Shader
	skyboxShader *openglhelper.Shader
	watcher      *shaderWatcher

	mesh     *openglhelper.Mesh
	skybox   *openglhelper.Mesh
	diffuse  *openglhelper.Texture
	specular *openglhelper.Texture
	normal   *openglhelper.Texture
	cubeMap  *openglhelper.Texture

	model mgl32.Mat4

	// Timing
	lastFrameTime float64
	fps           *fpsCounter

	fbWidth, fbHeight int
	closed            bool
}

// NewRenderer opens the window and loads the scene described by cfg
func NewRenderer(cfg config.Config, logger *slog.Logger) (*Renderer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	bindings, err := cfg.Bindings()
	if err != nil {
		return nil, fmt.Errorf("invalid key bindings: %w", err)
	}

	events := input.NewQueue()
	window, err := openglhelper.NewWindow(cfg.Window.Width, cfg.Window.Height, cfg.Window.Title, cfg.Window.VSync, events)
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}
	logger.Info("OpenGL context ready", "renderer", window.Renderer(), "version", window.GLVersion())

	r := &Renderer{
		cfg:     cfg,
		logger:  logger,
		window:  window,
		events:  events,
		sampler: input.NewSampler(input.WithGain(cfg.Camera.LookGain), input.WithBindings(bindings)),
		camera:  camera.New(cfg.CameraPosition(), cfg.CameraOptions()...),
		model:   mgl32.HomogRotate3DX(mgl32.DegToRad(ModelRotation)),
		fps:     newFPSCounter(FPSInterval),
	}

	r.skyboxShader, r.meshShader, err = r.buildShaders()
	if err != nil {
		r.Cleanup()
		return nil, err
	}
	if cfg.Scene.WatchShaders {
		r.watcher, err = newShaderWatcher([]string{
			cfg.Scene.SkyboxVertex, cfg.Scene.SkyboxFragment,
			cfg.Scene.MeshVertex, cfg.Scene.MeshFragment,
		}, logger)
		if err != nil {
			logger.Warn("shader hot reload disabled", "err", err)
		}
	}
	if err := r.loadScene(); err != nil {
		r.Cleanup()
		return nil, err
	}

	r.setupState()
	r.pushStaticUniforms()
	r.pushViews(r.camera.Views(), r.camera.Position())

	logger.Info("camera ready",
		"position", r.camera.Position(),
		"composition", r.camera.Composition(),
		"speed", cfg.Camera.Speed,
		"pitch_limit", cfg.Camera.PitchLimit)
	return r, nil
}

func (r *Renderer) buildShaders() (skybox, mesh *openglhelper.Shader, err error) {
	scene := r.cfg.Scene

	skybox, err = openglhelper.LoadShader(scene.SkyboxVertex, scene.SkyboxFragment, skyboxVertexSource, skyboxFragmentSource)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build sky-box shader: %w", err)
	}
	mesh, err = openglhelper.LoadShader(scene.MeshVertex, scene.MeshFragment, meshVertexSource, meshFragmentSource)
	if err != nil {
		skybox.Delete()
		return nil, nil, fmt.Errorf("failed to build mesh shader: %w", err)
	}
	return skybox, mesh, nil
}

// reloadShaders rebuilds both programs from disk. A broken edit keeps the
// programs already running.
func (r *Renderer) reloadShaders() {
	skybox, mesh, err := r.buildShaders()
	if err != nil {
		r.logger.Warn("shader reload failed", "err", err)
		return
	}
	r.skyboxShader.Delete()
	r.meshShader.Delete()
	r.skyboxShader, r.meshShader = skybox, mesh

	r.pushStaticUniforms()
	r.pushViews(r.camera.Views(), r.camera.Position())
	r.fbWidth, r.fbHeight = -1, -1
	r.logger.Info("shaders reloaded")
}

func (r *Renderer) loadScene() error {
	scene := r.cfg.Scene

	faces, err := asset.LoadCubeFaces(scene.SkyboxDir, scene.Faces, r.logger)
	if err != nil {
		return fmt.Errorf("failed to load sky-box: %w", err)
	}
	r.cubeMap, err = openglhelper.NewCubeMap(faces)
	if err != nil {
		return fmt.Errorf("failed to create cube map: %w", err)
	}
	r.skybox = openglhelper.NewSkyboxCube(SkyboxHalfExtent)

	data, err := asset.LoadOBJ(scene.Mesh)
	if err != nil {
		return fmt.Errorf("failed to load mesh: %w", err)
	}
	if !data.HasNormals() {
		r.logger.Warn("mesh has no normals, using face normals", "path", scene.Mesh)
		data.Normals = data.FlatNormals()
	}
	lo, hi := data.Bounds()
	r.logger.Info("mesh loaded",
		"path", scene.Mesh,
		"points", data.PointCount,
		"normals", data.HasNormals(),
		"texcoords", data.HasTexCoords(),
		"min", lo,
		"max", hi)
	r.mesh = openglhelper.NewMesh(data)
	r.logger.Debug("mesh uploaded", "vertices", r.mesh.PointCount())

	if r.diffuse, err = r.loadTexture(scene.Diffuse); err != nil {
		return err
	}
	if r.specular, err = r.loadTexture(scene.Specular); err != nil {
		return err
	}
	if r.normal, err = r.loadTexture(scene.Normal); err != nil {
		return err
	}
	return nil
}

func (r *Renderer) loadTexture(path string) (*openglhelper.Texture, error) {
	img, err := asset.LoadImageRGBA(path, r.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load texture %s: %w", filepath.Base(path), err)
	}
	asset.FlipVertical(img)
	return openglhelper.NewTexture2D(img)
}

func (r *Renderer) setupState() {
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	gl.FrontFace(gl.CCW)
}

func (r *Renderer) pushStaticUniforms() {
	r.skyboxShader.Use()
	r.skyboxShader.SetInt(uniformCube, int32(SkyboxUnit))

	r.meshShader.Use()
	r.meshShader.SetMat4(uniformModel, r.model)
	r.meshShader.SetFloat(uniformSpecularExp, SpecularExponent)
	r.meshShader.SetInt(uniformDiffuse, int32(DiffuseUnit))
	r.meshShader.SetInt(uniformSpecular, int32(SpecularUnit))
	r.meshShader.SetInt(uniformNormal, int32(NormalUnit))
}

// pushViews uploads both view matrices. The sky-box gets the rotation only so
// it stays centred on the camera.
func (r *Renderer) pushViews(views camera.ViewMatrices, position mgl32.Vec3) {
	r.skyboxShader.Use()
	r.skyboxShader.SetMat4(uniformView, views.Skybox)

	r.meshShader.Use()
	r.meshShader.SetMat4(uniformView, views.Mesh)
	r.meshShader.SetVec3(uniformCameraPos, position)
}

// resize tracks the framebuffer, updating the viewport and both projections
// when it changes
func (r *Renderer) resize() {
	w, h := r.window.FramebufferSize()
	if w == r.fbWidth && h == r.fbHeight {
		return
	}
	r.fbWidth, r.fbHeight = w, h
	gl.Viewport(0, 0, int32(w), int32(h))

	proj := camera.Projection(r.cfg.Camera.FOV, w, h, r.cfg.Camera.Near, r.cfg.Camera.Far)
	r.skyboxShader.Use()
	r.skyboxShader.SetMat4(uniformProjection, proj)
	r.meshShader.Use()
	r.meshShader.SetMat4(uniformProjection, proj)

	r.logger.Debug("framebuffer resized", "width", w, "height", h)
}

func (r *Renderer) draw() {
	r.window.Clear(ClearColor)

	// sky-box without depth writes
	gl.DepthMask(false)
	r.skyboxShader.Use()
	r.cubeMap.Bind(SkyboxUnit)
	r.skybox.Draw()
	gl.DepthMask(true)

	r.meshShader.Use()
	r.diffuse.Bind(DiffuseUnit)
	r.specular.Bind(SpecularUnit)
	r.normal.Bind(NormalUnit)
	r.mesh.Draw()
}

// beginFrame advances the clock, refreshes the title and picks up shader
// edits. It returns the frame time in seconds.
func (r *Renderer) beginFrame() float64 {
	now := openglhelper.Time()
	dt := now - r.lastFrameTime
	r.lastFrameTime = now

	if fps, ok := r.fps.tick(dt); ok {
		r.window.SetTitle(fmt.Sprintf("%s @ fps: %.2f", r.window.Title(), fps))
	}
	if r.watcher.changed() {
		r.reloadShaders()
	}
	return dt
}

func (r *Renderer) pollInput() input.Sample {
	r.window.PollEvents()
	sample := r.sampler.Sample(r.events.Drain())
	if sample.Intent != input.PointerUnchanged {
		r.window.ApplyPointerIntent(sample.Intent)
		r.logger.Debug("pointer mode changed", "mode", r.sampler.Mode(), "captured", r.window.IsMouseCaptured())
	}
	return sample
}

func (r *Renderer) advance(sample input.Sample, dt float64) {
	if f := r.camera.Update(sample, float32(dt)); f.Moved {
		r.pushViews(f.Views, f.Position)
	}
}

func (r *Renderer) render() {
	r.resize()
	r.draw()
}

func (r *Renderer) present() {
	r.window.SwapBuffers()
}

// Run starts the main rendering loop and returns when the window closes
func (r *Renderer) Run() {
	r.lastFrameTime = openglhelper.Time()
	for !r.window.ShouldClose() {
		runFrame(r)
	}
	r.logger.Info("window closed", "position", r.camera.Position())
}

// Cleanup frees all resources. It is safe to call more than once.
func (r *Renderer) Cleanup() {
	if r.closed {
		return
	}
	r.closed = true

	if err := r.watcher.Close(); err != nil {
		r.logger.Warn("failed to close shader watcher", "err", err)
	}

	for _, t := range []*openglhelper.Texture{r.diffuse, r.specular, r.normal, r.cubeMap} {
		if t != nil {
			t.Delete()
		}
	}
	for _, m := range []*openglhelper.Mesh{r.mesh, r.skybox} {
		if m != nil {
			m.Delete()
		}
	}
	for _, s := range []*openglhelper.Shader{r.meshShader, r.skyboxShader} {
		if s != nil {
			s.Delete()
		}
	}

	// Close window
	r.window.Close()
}
