// Package config loads the viewer settings from a TOML file layered over
// built-in defaults.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pelletier/go-toml/v2"

	"github.com/leterax/go-skyview/pkg/asset"
	"github.com/leterax/go-skyview/pkg/camera"
	"github.com/leterax/go-skyview/pkg/input"
)

// ErrInvalid is wrapped by every validation error
var ErrInvalid = errors.New("invalid config")

// Config is the complete viewer configuration
type Config struct {
	Window Window `toml:"window"`
	Camera Camera `toml:"camera"`
	Keys   Keys   `toml:"keys"`
	Scene  Scene  `toml:"scene"`
	Log    Log    `toml:"log"`
}

// Window configures the GLFW window
type Window struct {
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	Title  string `toml:"title"`
	VSync  bool   `toml:"vsync"`
}

// Camera configures the free-flight camera and its projection
type Camera struct {
	Position    [3]float32 `toml:"position"`
	Speed       float32    `toml:"speed"`
	LookGain    float64    `toml:"look_gain"`
	PitchLimit  float32    `toml:"pitch_limit"`
	Composition string     `toml:"composition"`
	FOV         float32    `toml:"fov"`
	Near        float32    `toml:"near"`
	Far         float32    `toml:"far"`
}

// Keys names the movement keys
type Keys struct {
	Forward string `toml:"forward"`
	Back    string `toml:"back"`
	Left    string `toml:"left"`
	Right   string `toml:"right"`
}

// Scene lists the assets to load. Empty shader paths use the built-in
// shaders. WatchShaders rebuilds the programs when an override file changes.
type Scene struct {
	Mesh           string          `toml:"mesh"`
	Diffuse        string          `toml:"diffuse"`
	Specular       string          `toml:"specular"`
	Normal         string          `toml:"normal"`
	SkyboxDir      string          `toml:"skybox_dir"`
	Faces          asset.CubeFaces `toml:"faces"`
	MeshVertex     string          `toml:"mesh_vertex_shader"`
	MeshFragment   string          `toml:"mesh_fragment_shader"`
	SkyboxVertex   string          `toml:"skybox_vertex_shader"`
	SkyboxFragment string          `toml:"skybox_fragment_shader"`
	WatchShaders   bool            `toml:"watch_shaders"`
}

// Log configures logging
type Log struct {
	Level string `toml:"level"`
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		Window: Window{
			Width:  640,
			Height: 480,
			Title:  "Cube Maps",
			VSync:  true,
		},
		Camera: Camera{
			Position:    [3]float32{0, 0, 5},
			Speed:       camera.DefaultSpeed,
			LookGain:    input.DefaultGain,
			PitchLimit:  camera.DefaultPitchLimit,
			Composition: camera.Absolute.String(),
			FOV:         camera.DefaultFOV,
			Near:        camera.DefaultNear,
			Far:         camera.DefaultFar,
		},
		Keys: Keys{
			Forward: "W",
			Back:    "S",
			Left:    "A",
			Right:   "D",
		},
		Scene: Scene{
			Mesh:      "res/mesh.obj",
			Diffuse:   "res/mesh_D.png",
			Specular:  "res/mesh_S.png",
			Normal:    "res/mesh_N.png",
			SkyboxDir: "res/skybox",
			Faces:     asset.DefaultCubeFaces(),
		},
		Log: Log{
			Level: "info",
		},
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := Decode(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Decode parses TOML into cfg, keeping fields the document does not set.
// Unknown keys are rejected.
func Decode(data []byte, cfg *Config) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return fmt.Errorf("%w: %s", ErrInvalid, strict.String())
		}
		return fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg.Validate()
}

// Encode writes cfg as TOML
func Encode(cfg Config) ([]byte, error) {
	return toml.Marshal(cfg)
}

// Validate checks ranges and names
func (c Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if c.Camera.Speed < 0 {
		errs = append(errs, fmt.Errorf("camera speed %v must not be negative", c.Camera.Speed))
	}
	if c.Camera.PitchLimit <= 0 || c.Camera.PitchLimit >= 90 {
		errs = append(errs, fmt.Errorf("pitch limit %v must be in (0, 90)", c.Camera.PitchLimit))
	}
	if c.Camera.FOV <= 0 || c.Camera.FOV >= 180 {
		errs = append(errs, fmt.Errorf("fov %v must be in (0, 180)", c.Camera.FOV))
	}
	if c.Camera.Near <= 0 || c.Camera.Near >= c.Camera.Far {
		errs = append(errs, fmt.Errorf("clip planes near=%v far=%v must satisfy 0 < near < far", c.Camera.Near, c.Camera.Far))
	}
	if _, err := camera.ParseComposition(c.Camera.Composition); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.Bindings(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.LogLevel(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
}

// Bindings resolves the movement key names
func (c Config) Bindings() (input.Bindings, error) {
	names := []struct {
		name string
		axis input.Axis
	}{
		{c.Keys.Forward, input.Forward},
		{c.Keys.Back, input.Back},
		{c.Keys.Left, input.Left},
		{c.Keys.Right, input.Right},
	}

	b := make(input.Bindings, len(names))
	for _, n := range names {
		key, err := input.ParseKey(n.name)
		if err != nil {
			return nil, fmt.Errorf("%s key: %w", n.axis, err)
		}
		if key == input.KeyEscape {
			return nil, fmt.Errorf("%s key: escape is reserved", n.axis)
		}
		if prev, dup := b[key]; dup {
			return nil, fmt.Errorf("key %s bound to both %s and %s", key, prev, n.axis)
		}
		b[key] = n.axis
	}
	return b, nil
}

// CameraOptions converts the camera section into camera options
func (c Config) CameraOptions() []camera.Option {
	comp, _ := camera.ParseComposition(c.Camera.Composition)
	return []camera.Option{
		camera.WithSpeed(c.Camera.Speed),
		camera.WithPitchLimit(c.Camera.PitchLimit),
		camera.WithComposition(comp),
	}
}

// CameraPosition returns the starting position
func (c Config) CameraPosition() mgl32.Vec3 {
	return mgl32.Vec3(c.Camera.Position)
}

// LogLevel parses the configured level name
func (c Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.Log.Level))); err != nil {
		return slog.LevelInfo, fmt.Errorf("log level: %w", err)
	}
	return level, nil
}
