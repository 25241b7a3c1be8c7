// Package config handles viewer configuration loading and management.
package config

import (
	"errors"
	"fmt"

	"github.com/MetisArom/Sputterer/internal/engine/mesh"
)

// Config holds all viewer settings.
type Config struct {
	Graphics GraphicsConfig  `yaml:"graphics"`
	Camera   CameraConfig    `yaml:"camera"`
	Mesh     MeshConfig      `yaml:"mesh"`
	Surfaces []SurfaceConfig `yaml:"surfaces"`
	Preview  PreviewConfig   `yaml:"preview"`
	Logging  LoggingConfig   `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int        `yaml:"width"`
	Height     int        `yaml:"height"`
	Fullscreen bool       `yaml:"fullscreen"`
	VSync      bool       `yaml:"vsync"`
	Background [3]float32 `yaml:"background,flow"`
	Near       float32    `yaml:"near"`
	Far        float32    `yaml:"far"`
}

// CameraConfig holds the initial camera pose and its input response.
// Angles are in degrees.
type CameraConfig struct {
	Distance         float32 `yaml:"distance"`
	MinDistance      float32 `yaml:"min_distance"`
	MaxDistance      float32 `yaml:"max_distance"`
	Yaw              float32 `yaml:"yaw"`
	Pitch            float32 `yaml:"pitch"`
	FOV              float32 `yaml:"fov"`
	OrbitSensitivity float32 `yaml:"orbit_sensitivity"`
	PanSensitivity   float32 `yaml:"pan_sensitivity"`
	ZoomSpeed        float32 `yaml:"zoom_speed"`
	KeySpeed         float32 `yaml:"key_speed"`
	// FitScene centers the camera on the loaded surfaces at startup.
	FitScene bool `yaml:"fit_scene"`
}

// MeshConfig holds geometry loading options shared by all surfaces.
type MeshConfig struct {
	NormalWeighting string `yaml:"normal_weighting"` // uniform, area or angle
	Triangulate     bool   `yaml:"triangulate"`
}

// SurfaceConfig describes one surface of the simulation geometry.
type SurfaceConfig struct {
	Name          string     `yaml:"name"`
	File          string     `yaml:"file"`
	Emit          bool       `yaml:"emit"`
	Collect       bool       `yaml:"collect"`
	Scale         [3]float32 `yaml:"scale,flow"`
	Translate     [3]float32 `yaml:"translate,flow"`
	RotationAxis  [3]float32 `yaml:"rotation_axis,flow"`
	RotationAngle float32    `yaml:"rotation_angle"` // degrees
	Color         [3]float32 `yaml:"color,flow"`
}

// PreviewConfig holds headless snapshot settings.
type PreviewConfig struct {
	Size        int    `yaml:"size"`
	Supersample int    `yaml:"supersample"`
	Output      string `yaml:"output"` // .webp or .tga
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// DefaultSurface returns a surface entry with unit scale, no rotation and
// the default grey color. Surfaces read from a file start from it.
func DefaultSurface() SurfaceConfig {
	return SurfaceConfig{
		Name:         "noname",
		Scale:        [3]float32{1, 1, 1},
		RotationAxis: [3]float32{0, 1, 0},
		Color:        [3]float32{0.3, 0.3, 0.3},
	}
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			Background: [3]float32{0.1, 0.1, 0.15},
			Near:       0.1,
			Far:        1000,
		},
		Camera: CameraConfig{
			Distance:         10,
			MinDistance:      0.5,
			MaxDistance:      200,
			Yaw:              45,
			Pitch:            30,
			FOV:              45,
			OrbitSensitivity: 0.3,
			PanSensitivity:   0.1,
			ZoomSpeed:        0.5,
			KeySpeed:         90,
			FitScene:         true,
		},
		Mesh: MeshConfig{
			NormalWeighting: "uniform",
			Triangulate:     false,
		},
		Preview: PreviewConfig{
			Size:        512,
			Supersample: 2,
			Output:      "preview.webp",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// MeshOptions converts the mesh section to loader options.
func (c *Config) MeshOptions() (mesh.Options, error) {
	w, err := mesh.ParseNormalWeighting(c.Mesh.NormalWeighting)
	if err != nil {
		return mesh.Options{}, err
	}
	opts := mesh.Options{}
	opts.OBJ.Triangulate = c.Mesh.Triangulate
	opts.Build.Weighting = w
	return opts, nil
}

// Validate reports every problem found in the config.
func (c *Config) Validate() error {
	var errs []error
	if c.Graphics.Width <= 0 || c.Graphics.Height <= 0 {
		errs = append(errs, fmt.Errorf("graphics: invalid size %dx%d", c.Graphics.Width, c.Graphics.Height))
	}
	if c.Camera.MinDistance <= 0 || c.Camera.MaxDistance < c.Camera.MinDistance {
		errs = append(errs, fmt.Errorf("camera: invalid distance range [%g, %g]", c.Camera.MinDistance, c.Camera.MaxDistance))
	}
	if _, err := mesh.ParseNormalWeighting(c.Mesh.NormalWeighting); err != nil {
		errs = append(errs, fmt.Errorf("mesh: %w", err))
	}
	if c.Preview.Size <= 0 || c.Preview.Supersample <= 0 {
		errs = append(errs, fmt.Errorf("preview: size and supersample must be positive"))
	}

	names := make(map[string]bool, len(c.Surfaces))
	for i, s := range c.Surfaces {
		if s.File == "" {
			errs = append(errs, fmt.Errorf("surfaces[%d] (%s): file is required", i, s.Name))
		}
		if names[s.Name] {
			errs = append(errs, fmt.Errorf("surfaces[%d]: duplicate name %q", i, s.Name))
		}
		names[s.Name] = true
	}
	return errors.Join(errs...)
}
