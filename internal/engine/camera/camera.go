// Package camera provides the orbit camera used to inspect surfaces.
package camera

import (
	gomath "math"

	"github.com/MetisArom/Sputterer/pkg/math"
)

// Movement selects what a mouse drag does.
type Movement int

const (
	// Orbit rotates the eye around a fixed center.
	Orbit Movement = iota
	// Pan turns the view direction while the eye stays in place, so the
	// center moves.
	Pan
)

// Direction is a keyboard rotation request.
type Direction int

const (
	Forward Direction = iota
	Backward
	Left
	Right
)

const maxPitch = 89

var worldUp = math.Vec3{Y: 1}

// OrbitCamera looks at Center from Distance away along a direction given by
// Yaw and Pitch in degrees. Pitch stays within [-89, 89] and Yaw within
// [0, 360) after every update.
type OrbitCamera struct {
	Center   math.Vec3
	Distance float32
	Yaw      float32
	Pitch    float32
	FOV      float32 // vertical field of view, degrees

	MinDistance float32
	MaxDistance float32

	OrbitSensitivity float32 // degrees per pixel
	PanSensitivity   float32 // degrees per pixel
	ZoomSpeed        float32 // distance per wheel step
	KeySpeed         float32 // degrees per second

	orientation math.Vec3 // unit vector from Center to the eye
}

// NewOrbitCamera creates a camera with default settings.
func NewOrbitCamera() *OrbitCamera {
	c := &OrbitCamera{
		Distance:         10,
		Yaw:              45,
		Pitch:            30,
		FOV:              45,
		MinDistance:      0.5,
		MaxDistance:      200,
		OrbitSensitivity: 0.3,
		PanSensitivity:   0.1,
		ZoomSpeed:        0.5,
		KeySpeed:         90,
	}
	c.Update()
	return c
}

// Update clamps the angles and recomputes the orientation. Call it after
// changing Yaw or Pitch directly.
func (c *OrbitCamera) Update() {
	c.clampAngles()
	c.orientation = orientation(c.Yaw, c.Pitch)
}

func (c *OrbitCamera) clampAngles() {
	c.Pitch = min(maxPitch, max(-maxPitch, c.Pitch))
	c.Yaw = float32(gomath.Mod(float64(c.Yaw), 360))
	if c.Yaw < 0 {
		c.Yaw += 360
	}
}

func orientation(yaw, pitch float32) math.Vec3 {
	y, p := float64(math.Radians(yaw)), float64(math.Radians(pitch))
	return math.Vec3{
		X: float32(gomath.Cos(y) * gomath.Cos(p)),
		Y: float32(gomath.Sin(p)),
		Z: float32(gomath.Sin(y) * gomath.Cos(p)),
	}.Normalize()
}

// Position returns the eye position in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	return c.Center.Add(c.orientation.Scale(c.Distance))
}

// Front returns the unit view direction.
func (c *OrbitCamera) Front() math.Vec3 {
	return c.orientation.Scale(-1)
}

// Right returns the unit vector pointing to the right of the view.
func (c *OrbitCamera) Right() math.Vec3 {
	return c.Front().Cross(worldUp).Normalize()
}

// Up returns the unit up vector of the view.
func (c *OrbitCamera) Up() math.Vec3 {
	return c.Right().Cross(c.Front()).Normalize()
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Position(), c.Center, c.Up())
}

// ProjectionMatrix returns a perspective projection for the given aspect
// ratio (width/height) and clip planes.
func (c *OrbitCamera) ProjectionMatrix(aspect, near, far float32) math.Mat4 {
	return math.Perspective(math.Radians(c.FOV), aspect, near, far)
}

// HandleDrag applies a mouse drag of dx, dy pixels.
func (c *OrbitCamera) HandleDrag(dx, dy float32, movement Movement) {
	switch movement {
	case Orbit:
		c.Yaw += dx * c.OrbitSensitivity
		c.Pitch += dy * c.OrbitSensitivity
		c.Update()
	case Pan:
		eye := c.Position()
		c.Yaw -= dx * c.PanSensitivity
		c.Update()
		c.Center = eye.Sub(c.orientation.Scale(c.Distance))
	}
}

// HandleZoom moves the eye toward the center by ZoomSpeed per wheel step.
func (c *OrbitCamera) HandleZoom(delta float32) {
	c.Distance -= delta * c.ZoomSpeed
	c.Distance = min(c.MaxDistance, max(c.MinDistance, c.Distance))
}

// HandleKey rotates the camera for dt seconds of a held key.
func (c *OrbitCamera) HandleKey(dir Direction, dt float32) {
	step := c.KeySpeed * dt
	switch dir {
	case Forward:
		c.Pitch += step
	case Backward:
		c.Pitch -= step
	case Left:
		c.Yaw += step
	case Right:
		c.Yaw -= step
	}
	c.Update()
}

// FitToBounds centers the camera on a bounding box and backs off far enough
// to see all of it. Zoom limits are widened if needed.
func (c *OrbitCamera) FitToBounds(lo, hi math.Vec3) {
	c.Center = lo.Add(hi).Scale(0.5)
	radius := hi.Sub(lo).Length() / 2
	if radius == 0 {
		radius = 1
	}

	half := float64(math.Radians(c.FOV)) / 2
	c.Distance = radius / float32(gomath.Sin(half))
	c.MaxDistance = max(c.MaxDistance, 4*c.Distance)
	c.MinDistance = min(c.MinDistance, radius/10)
}
