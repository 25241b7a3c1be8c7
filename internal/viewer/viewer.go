// Package viewer implements the interactive surface viewer loop.
package viewer

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/MetisArom/Sputterer/internal/config"
	"github.com/MetisArom/Sputterer/internal/engine/camera"
	"github.com/MetisArom/Sputterer/internal/engine/debug"
	"github.com/MetisArom/Sputterer/internal/engine/input"
	"github.com/MetisArom/Sputterer/internal/engine/picking"
	"github.com/MetisArom/Sputterer/internal/engine/renderer"
	"github.com/MetisArom/Sputterer/internal/engine/window"
	"github.com/MetisArom/Sputterer/internal/logger"
	"github.com/MetisArom/Sputterer/internal/preview"
	"github.com/MetisArom/Sputterer/internal/scene"
)

const title = "Sputterer"

// Viewer owns the window, the GL renderer and the scene's GPU buffers.
type Viewer struct {
	cfg      *config.Config
	scene    *scene.Scene
	running  bool
	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	camera   *camera.OrbitCamera
	log      *zap.Logger

	screenshots *debug.ScreenshotCapture
	capture     bool
}

// New opens the window and uploads the scene. The scene must already be
// loaded; New must run on the main thread.
func New(cfg *config.Config, sc *scene.Scene) (*Viewer, error) {
	v := &Viewer{
		cfg:    cfg,
		scene:  sc,
		camera: NewCamera(cfg.Camera),
		log:    logger.Named("viewer"),
	}
	v.screenshots = newScreenshotCapture(cfg.Preview)
	v.log.Info("initializing viewer",
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
		zap.Int("surfaces", len(sc.Surfaces)),
	)

	var err error
	v.window, err = window.New(window.Config{
		Title:      title,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// The renderer needs the GL context, so it comes after the window.
	fbWidth, fbHeight := v.window.GetDrawableSize()
	v.renderer, err = renderer.New(renderer.Config{
		Width:      fbWidth,
		Height:     fbHeight,
		Background: cfg.Graphics.Background,
		Near:       cfg.Graphics.Near,
		Far:        cfg.Graphics.Far,
	})
	if err != nil {
		v.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	if err := sc.SetBuffers(); err != nil {
		v.renderer.Close()
		v.window.Close()
		return nil, fmt.Errorf("failed to upload surfaces: %w", err)
	}

	if cfg.Camera.FitScene {
		v.fit()
	}

	v.input = input.New()
	v.log.Info("viewer initialized")
	return v, nil
}

// NewCamera builds the orbit camera from its config section.
func NewCamera(cfg config.CameraConfig) *camera.OrbitCamera {
	c := camera.NewOrbitCamera()
	c.Distance = cfg.Distance
	c.MinDistance = cfg.MinDistance
	c.MaxDistance = cfg.MaxDistance
	c.Yaw = cfg.Yaw
	c.Pitch = cfg.Pitch
	c.FOV = cfg.FOV
	c.OrbitSensitivity = cfg.OrbitSensitivity
	c.PanSensitivity = cfg.PanSensitivity
	c.ZoomSpeed = cfg.ZoomSpeed
	c.KeySpeed = cfg.KeySpeed
	c.Update()
	return c
}

// newScreenshotCapture writes frame grabs next to the snapshot output, in
// the same format.
func newScreenshotCapture(cfg config.PreviewConfig) *debug.ScreenshotCapture {
	format, err := preview.FormatFromPath(cfg.Output)
	if err != nil {
		format = preview.FormatWebP
	}
	return debug.NewScreenshotCapture(filepath.Dir(cfg.Output), "screenshot", format)
}

// Run starts the main loop and returns when the window is closed.
func (v *Viewer) Run() error {
	v.running = true

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	v.log.Info("starting render loop")

	for v.running {
		now := time.Now()
		dt := float32(now.Sub(lastTime).Seconds())
		lastTime = now

		if v.input.Update() {
			v.running = false
			break
		}
		v.handleEvents()
		v.handleHeldKeys(dt)

		ctx := v.renderer.Begin(v.camera)
		v.scene.Draw(ctx)
		v.renderer.End()

		if v.capture {
			v.capture = false
			v.screenshot()
		}

		v.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			v.log.Debug("fps", zap.Int("count", frameCount), zap.Float32("dt_ms", dt*1000))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

func (v *Viewer) handleEvents() {
	for _, event := range v.input.Events() {
		switch event.Type {
		case input.EventWindowResize:
			v.renderer.Resize(v.window.GetDrawableSize())
		case input.EventMouseMove:
			switch {
			case v.input.IsButtonHeld(sdl.BUTTON_LEFT):
				v.camera.HandleDrag(float32(event.RelX), float32(event.RelY), camera.Orbit)
			case v.input.IsButtonHeld(sdl.BUTTON_RIGHT):
				v.camera.HandleDrag(float32(event.RelX), float32(event.RelY), camera.Pan)
			}
		case input.EventMouseDown:
			if event.Button == sdl.BUTTON_MIDDLE {
				v.pick(event.MouseX, event.MouseY)
			}
		case input.EventMouseWheel:
			v.camera.HandleZoom(event.Wheel)
		case input.EventKeyDown:
			v.handleKey(event.Key)
		}
	}
}

func (v *Viewer) handleKey(key sdl.Scancode) {
	switch key {
	case sdl.SCANCODE_ESCAPE, sdl.SCANCODE_Q:
		v.running = false
	case sdl.SCANCODE_F:
		v.fit()
	case sdl.SCANCODE_R:
		v.reload()
	case sdl.SCANCODE_P:
		v.snapshot()
	case sdl.SCANCODE_F12:
		v.capture = true
	default:
		// 1-9 toggle the matching surface.
		if key >= sdl.SCANCODE_1 && key <= sdl.SCANCODE_9 {
			i := int(key - sdl.SCANCODE_1)
			if i < len(v.scene.Surfaces) {
				s := v.scene.Surfaces[i]
				if s.Enabled {
					s.Disable()
				} else {
					s.Enable()
				}
				v.log.Info("surface toggled", zap.String("name", s.Name), zap.Bool("enabled", s.Enabled))
			}
		}
	}
}

func (v *Viewer) handleHeldKeys(dt float32) {
	keys := []struct {
		code sdl.Scancode
		dir  camera.Direction
	}{
		{sdl.SCANCODE_W, camera.Forward},
		{sdl.SCANCODE_UP, camera.Forward},
		{sdl.SCANCODE_S, camera.Backward},
		{sdl.SCANCODE_DOWN, camera.Backward},
		{sdl.SCANCODE_A, camera.Left},
		{sdl.SCANCODE_LEFT, camera.Left},
		{sdl.SCANCODE_D, camera.Right},
		{sdl.SCANCODE_RIGHT, camera.Right},
	}
	for _, k := range keys {
		if v.input.IsKeyHeld(k.code) {
			v.camera.HandleKey(k.dir, dt)
		}
	}
}

func (v *Viewer) fit() {
	b := v.scene.Bounds()
	v.camera.FitToBounds(b.Min, b.Max)
}

// reload re-reads every surface from disk. A surface that fails to load
// keeps drawing its previous geometry.
func (v *Viewer) reload() {
	for _, s := range v.scene.Surfaces {
		if err := s.Load(); err != nil {
			v.log.Error("reload failed", zap.String("surface", s.Name), zap.Error(err))
			continue
		}
		if err := s.Mesh.SetBuffers(); err != nil {
			v.log.Error("upload failed", zap.String("surface", s.Name), zap.Error(err))
		}
	}
	v.log.Info("surfaces reloaded")
}

func (v *Viewer) snapshot() {
	opts := preview.DefaultOptions()
	opts.Size = v.cfg.Preview.Size
	opts.Supersample = v.cfg.Preview.Supersample
	opts.Yaw = v.camera.Yaw
	opts.Pitch = v.camera.Pitch

	img := preview.Render(preview.ItemsFromScene(v.scene), opts)
	if err := preview.WriteFile(v.cfg.Preview.Output, img); err != nil {
		v.log.Error("snapshot failed", zap.Error(err))
		return
	}
	v.log.Info("snapshot written", zap.String("path", v.cfg.Preview.Output))
}

func (v *Viewer) screenshot() {
	pixels, w, h := v.renderer.ReadPixels()
	path, err := v.screenshots.CaptureFromPixels(pixels, w, h)
	if err != nil {
		v.log.Error("screenshot failed", zap.Error(err))
		return
	}
	v.log.Info("screenshot written", zap.String("path", path))
}

// pick logs the surface triangle under the cursor.
func (v *Viewer) pick(x, y int) {
	w, h := v.window.GetSize()
	if w == 0 || h == 0 {
		return
	}
	ray := picking.ScreenToRay(v.camera, float32(x), float32(y), float32(w), float32(h))
	hit, ok := picking.Pick(v.scene, ray)
	if !ok {
		v.log.Info("nothing picked")
		return
	}
	v.log.Info("surface picked",
		zap.String("name", hit.Surface.Name),
		zap.Int("triangle", hit.Triangle),
		zap.Float32("distance", hit.Distance),
		zap.Stringer("point", hit.Point),
		zap.Bool("emit", hit.Surface.Emit),
		zap.Bool("collect", hit.Surface.Collect),
	)
}

// Close releases GPU buffers and closes the window.
func (v *Viewer) Close() {
	v.log.Info("closing viewer")

	v.scene.Release()
	if v.renderer != nil {
		v.renderer.Close()
	}
	if v.window != nil {
		v.window.Close()
	}
}
