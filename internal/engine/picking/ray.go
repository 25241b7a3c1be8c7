// Package picking provides ray casting and surface picking utilities.
package picking

import (
	gomath "math"

	"github.com/MetisArom/Sputterer/internal/engine/camera"
	"github.com/MetisArom/Sputterer/internal/engine/mesh"
	"github.com/MetisArom/Sputterer/internal/scene"
	"github.com/MetisArom/Sputterer/pkg/math"
)

const epsilon = 1e-7

// Ray represents a ray in 3D space with origin and direction.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3 // Normalized direction
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) math.Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// ScreenToRay converts window coordinates to a world-space ray leaving the
// camera eye. screenX, screenY are pixel coordinates with the origin at the
// top left; viewportW/H are the window dimensions.
func ScreenToRay(cam *camera.OrbitCamera, screenX, screenY, viewportW, viewportH float32) Ray {
	ndcX := 2.0*screenX/viewportW - 1.0
	ndcY := 1.0 - 2.0*screenY/viewportH // Flip Y

	tanHalf := float32(gomath.Tan(float64(math.Radians(cam.FOV)) / 2))
	aspect := viewportW / viewportH

	dir := cam.Front().
		Add(cam.Right().Scale(ndcX * tanHalf * aspect)).
		Add(cam.Up().Scale(ndcY * tanHalf))

	return Ray{Origin: cam.Position(), Direction: dir.Normalize()}
}

func axis(v math.Vec3, i int) float32 {
	switch i {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

// IntersectBounds tests ray intersection with an axis-aligned bounding box.
// Returns the distance to intersection (t) and whether intersection occurred.
// If the ray starts inside the box, returns the exit distance.
func (r Ray) IntersectBounds(box mesh.Bounds) (t float32, hit bool) {
	tmin := float32(-gomath.MaxFloat32)
	tmax := float32(gomath.MaxFloat32)

	for i := range 3 {
		o, d := axis(r.Origin, i), axis(r.Direction, i)
		lo, hi := axis(box.Min, i), axis(box.Max, i)
		if d == 0 {
			if o < lo || o > hi {
				return 0, false
			}
			continue
		}
		t1 := (lo - o) / d
		t2 := (hi - o) / d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = max(tmin, t1)
		tmax = min(tmax, t2)
	}

	if tmax < tmin || tmax < 0 {
		return 0, false
	}
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}

// IntersectTriangle returns the distance along the ray to triangle abc.
// Both windings are hit; rays parallel to the triangle plane miss.
func (r Ray) IntersectTriangle(a, b, c math.Vec3) (t float32, hit bool) {
	e1 := b.Sub(a)
	e2 := c.Sub(a)
	p := r.Direction.Cross(e2)
	det := e1.Dot(p)
	if det > -epsilon && det < epsilon {
		return 0, false
	}
	inv := 1 / det

	s := r.Origin.Sub(a)
	u := s.Dot(p) * inv
	if u < 0 || u > 1 {
		return 0, false
	}
	q := s.Cross(e1)
	v := r.Direction.Dot(q) * inv
	if v < 0 || u+v > 1 {
		return 0, false
	}

	t = e2.Dot(q) * inv
	if t < 0 {
		return 0, false
	}
	return t, true
}

// Hit describes the nearest surface triangle under a ray.
type Hit struct {
	Surface  *scene.Surface
	Triangle int
	Distance float32
	Point    math.Vec3
}

// Pick returns the nearest enabled surface triangle the ray hits.
func Pick(sc *scene.Scene, r Ray) (Hit, bool) {
	best := Hit{Distance: float32(gomath.MaxFloat32)}
	found := false

	for _, s := range sc.Surfaces {
		if !s.Enabled || s.Mesh.NumTriangles() == 0 {
			continue
		}
		if t, ok := r.IntersectBounds(s.WorldBounds()); !ok || t > best.Distance {
			continue
		}

		m := s.Transform.Matrix()
		verts := s.Mesh.Vertices()
		for i, tri := range s.Mesh.Triangles() {
			a := m.TransformVec3(verts[tri[0]].Position)
			b := m.TransformVec3(verts[tri[1]].Position)
			c := m.TransformVec3(verts[tri[2]].Position)
			if t, ok := r.IntersectTriangle(a, b, c); ok && t < best.Distance {
				best = Hit{Surface: s, Triangle: i, Distance: t}
				found = true
			}
		}
	}

	if found {
		best.Point = r.At(best.Distance)
	}
	return best, found
}
