package preview

import (
	"image"
	gomath "math"

	"github.com/MetisArom/Sputterer/internal/engine/mesh"
	"github.com/MetisArom/Sputterer/internal/scene"
	"github.com/MetisArom/Sputterer/pkg/math"
)

// Item is one mesh placed in the preview.
type Item struct {
	Mesh      *mesh.Mesh
	Transform math.Transform
	Color     math.Vec3 // sRGB, 0..1
}

// Options controls the snapshot. The view is an orthographic projection
// looking at the scene from the direction given by Yaw and Pitch in
// degrees, using the same convention as the viewer camera.
type Options struct {
	Size        int
	Supersample int
	Yaw         float32
	Pitch       float32
	Light       LightConfig
}

// DefaultOptions returns a 512px snapshot rendered at 2x.
func DefaultOptions() Options {
	return Options{
		Size:        512,
		Supersample: 2,
		Yaw:         45,
		Pitch:       30,
		Light:       DefaultLightConfig(),
	}
}

// ItemsFromScene returns one item per enabled surface.
func ItemsFromScene(sc *scene.Scene) []Item {
	items := make([]Item, 0, len(sc.Surfaces))
	for _, s := range sc.Surfaces {
		if !s.Enabled {
			continue
		}
		items = append(items, Item{Mesh: s.Mesh, Transform: s.Transform, Color: s.Color})
	}
	return items
}

type projectedItem struct {
	verts []screenVertex
	tris  []mesh.Triangle
	base  [3]uint8
}

// Render draws the items into a Size x Size image with a transparent
// background. The scene is framed to fill the image.
func Render(items []Item, opts Options) *image.NRGBA {
	if opts.Size <= 0 {
		opts.Size = DefaultOptions().Size
	}
	if opts.Supersample <= 0 {
		opts.Supersample = 1
	}
	if opts.Light == (LightConfig{}) {
		opts.Light = DefaultLightConfig()
	}

	renderSize := opts.Size * opts.Supersample
	view := viewMatrix(opts.Yaw, opts.Pitch)

	// Move everything to view space first so the framing can be computed.
	projected := make([]projectedItem, 0, len(items))
	lo := [2]float64{gomath.Inf(1), gomath.Inf(1)}
	hi := [2]float64{gomath.Inf(-1), gomath.Inf(-1)}
	for _, it := range items {
		if it.Mesh == nil || it.Mesh.NumTriangles() == 0 {
			continue
		}
		model := view.Mul(it.Transform.Matrix())
		normalMat := view.Mul(it.Transform.NormalMatrix())

		src := it.Mesh.Vertices()
		p := projectedItem{
			verts: make([]screenVertex, len(src)),
			tris:  it.Mesh.Triangles(),
			base:  toSRGB8(it.Color),
		}
		for i, v := range src {
			pos := model.TransformVec3(v.Position)
			p.verts[i] = screenVertex{
				X:      float64(pos.X),
				Y:      float64(pos.Y),
				Z:      float64(pos.Z),
				Normal: normalMat.TransformDirection(v.Normal).Normalize(),
			}
			lo[0], lo[1] = min(lo[0], p.verts[i].X), min(lo[1], p.verts[i].Y)
			hi[0], hi[1] = max(hi[0], p.verts[i].X), max(hi[1], p.verts[i].Y)
		}
		projected = append(projected, p)
	}

	fb := NewFrameBuffer(renderSize, renderSize)
	if len(projected) > 0 {
		span := max(hi[0]-lo[0], hi[1]-lo[1], 1e-6)
		margin := float64(renderSize) / 16
		scale := (float64(renderSize) - 2*margin) / span
		cx, cy := (lo[0]+hi[0])/2, (lo[1]+hi[1])/2
		half := float64(renderSize) / 2

		for _, p := range projected {
			for i := range p.verts {
				v := &p.verts[i]
				v.X = (v.X-cx)*scale + half
				v.Y = half - (v.Y-cy)*scale
			}
			for _, t := range p.tris {
				tri := [3]screenVertex{p.verts[t[0]], p.verts[t[1]], p.verts[t[2]]}
				RasterizeTriangle(fb, tri, faceNormal(tri), p.base, &opts.Light)
			}
		}
	}

	img := image.NewNRGBA(image.Rect(0, 0, renderSize, renderSize))
	copy(img.Pix, fb.Color)
	if opts.Supersample > 1 {
		img = Downsample(img, opts.Size, opts.Size)
	}
	return img
}

// RenderMesh draws a single untransformed mesh in the default surface color.
func RenderMesh(m *mesh.Mesh, opts Options) *image.NRGBA {
	return Render([]Item{{Mesh: m, Transform: math.IdentityTransform(), Color: mesh.DefaultColor}}, opts)
}

// viewMatrix looks at the origin from the direction given by yaw and pitch.
// Only the rotation matters for an orthographic view.
func viewMatrix(yaw, pitch float32) math.Mat4 {
	pitch = min(89, max(-89, pitch))
	y, p := float64(math.Radians(yaw)), float64(math.Radians(pitch))
	eye := math.Vec3{
		X: float32(gomath.Cos(y) * gomath.Cos(p)),
		Y: float32(gomath.Sin(p)),
		Z: float32(gomath.Sin(y) * gomath.Cos(p)),
	}
	return math.LookAt(eye, math.Vec3{}, math.Vec3{Y: 1})
}

// faceNormal is computed in view space; the screen Y flip does not matter
// because lighting is double sided.
func faceNormal(v [3]screenVertex) math.Vec3 {
	a := math.Vec3{X: float32(v[0].X), Y: float32(v[0].Y), Z: float32(v[0].Z)}
	b := math.Vec3{X: float32(v[1].X), Y: float32(v[1].Y), Z: float32(v[1].Z)}
	c := math.Vec3{X: float32(v[2].X), Y: float32(v[2].Y), Z: float32(v[2].Z)}
	return b.Sub(a).Cross(c.Sub(a)).Normalize()
}

func toSRGB8(c math.Vec3) [3]uint8 {
	return [3]uint8{
		clamp8(float64(c.X) * 255),
		clamp8(float64(c.Y) * 255),
		clamp8(float64(c.Z) * 255),
	}
}
