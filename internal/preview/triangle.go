package preview

import (
	gomath "math"

	"github.com/MetisArom/Sputterer/pkg/math"
)

// screenVertex is a projected vertex: pixel coordinates, view depth and the
// view-space normal.
type screenVertex struct {
	X, Y, Z float64
	Normal  math.Vec3
}

// RasterizeTriangle fills one triangle with z-buffering. Normals are
// interpolated per pixel; where they cancel out the face normal is used.
func RasterizeTriangle(fb *FrameBuffer, v [3]screenVertex, faceNormal math.Vec3, base [3]uint8, lc *LightConfig) {
	x0, y0, z0 := v[0].X, v[0].Y, v[0].Z
	x1, y1, z1 := v[1].X, v[1].Y, v[1].Z
	x2, y2, z2 := v[2].X, v[2].Y, v[2].Z

	minX := max(int(gomath.Floor(min(x0, x1, x2))), 0)
	maxX := min(int(gomath.Ceil(max(x0, x1, x2))), fb.Width-1)
	minY := max(int(gomath.Floor(min(y0, y1, y2))), 0)
	maxY := min(int(gomath.Ceil(max(y0, y1, y2))), fb.Height-1)
	if minX > maxX || minY > maxY {
		return
	}

	// Edge-on triangles cover no pixels.
	det := (y1-y2)*(x0-x2) + (x2-x1)*(y0-y2)
	if det > -1e-8 && det < 1e-8 {
		return
	}
	invDet := 1.0 / det

	dy12 := y1 - y2
	dx21 := x2 - x1
	dy20 := y2 - y0
	dx02 := x0 - x2

	for sy := minY; sy <= maxY; sy++ {
		// Sample at pixel centers.
		dsy := float64(sy) + 0.5 - y2
		rowOff := sy * fb.Width
		for sx := minX; sx <= maxX; sx++ {
			dsx := float64(sx) + 0.5 - x2
			w0 := (dy12*dsx + dx21*dsy) * invDet
			w1 := (dy20*dsx + dx02*dsy) * invDet
			w2 := 1.0 - w0 - w1
			if w0 < -1e-6 || w1 < -1e-6 || w2 < -1e-6 {
				continue
			}

			z := w0*z0 + w1*z1 + w2*z2
			idx := rowOff + sx
			if z <= fb.ZBuf[idx] {
				continue
			}
			fb.ZBuf[idx] = z

			n := v[0].Normal.Scale(float32(w0)).
				Add(v[1].Normal.Scale(float32(w1))).
				Add(v[2].Normal.Scale(float32(w2))).
				Normalize()
			if n.IsZero() {
				n = faceNormal
			}

			c := lc.shadeColor(base, lc.Shade(n))
			px := idx * 4
			fb.Color[px] = c[0]
			fb.Color[px+1] = c[1]
			fb.Color[px+2] = c[2]
			fb.Color[px+3] = 255
		}
	}
}
