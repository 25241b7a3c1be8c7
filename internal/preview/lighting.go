package preview

import (
	gomath "math"

	"github.com/MetisArom/Sputterer/pkg/math"
)

// LightConfig holds lighting parameters in view space, where the viewer
// looks down -Z.
type LightConfig struct {
	LightDir math.Vec3
	HalfDir  math.Vec3 // Blinn-Phong half vector
	Ambient  float64
	Direct   float64
	SpecInt  float64
	SpecPow  float64
	Exposure float64
	InvGamma float64
}

// DefaultLightConfig returns a key light above and to the right of the viewer.
func DefaultLightConfig() LightConfig {
	lightDir := math.Vec3{X: 0.4, Y: 0.6, Z: 0.7}.Normalize()
	viewDir := math.Vec3{Z: 1}
	return LightConfig{
		LightDir: lightDir,
		HalfDir:  lightDir.Add(viewDir).Normalize(),
		Ambient:  0.35,
		Direct:   1.1,
		SpecInt:  0.3,
		SpecPow:  24,
		Exposure: 1.0,
		InvGamma: 1.0 / 2.2,
	}
}

// Shade returns the lighting scalar for a unit normal. Surfaces are lit from
// both sides. A zero normal gets ambient light only.
func (lc *LightConfig) Shade(n math.Vec3) float64 {
	if n.IsZero() {
		return lc.Ambient
	}
	ndl := gomath.Abs(float64(n.Dot(lc.LightDir)))
	ndh := gomath.Abs(float64(n.Dot(lc.HalfDir)))
	spec := gomath.Pow(ndh, lc.SpecPow) * lc.SpecInt
	return lc.Ambient + ndl*lc.Direct + spec
}

// Precomputed sRGB-to-linear lookup table.
var srgbToLinear [256]float64

func init() {
	for i := range srgbToLinear {
		srgbToLinear[i] = gomath.Pow(float64(i)/255.0, 2.2)
	}
}

// ACESTonemap applies ACES filmic tone mapping to a linear value.
func ACESTonemap(x float64) float64 {
	return (x * (2.51*x + 0.03)) / (x*(2.43*x+0.59) + 0.14)
}

// shadeColor lights an sRGB base color and returns the sRGB result.
func (lc *LightConfig) shadeColor(base [3]uint8, shade float64) [3]uint8 {
	var out [3]uint8
	for i, c := range base {
		lin := srgbToLinear[c] * shade * lc.Exposure
		out[i] = clamp8(gomath.Pow(ACESTonemap(lin), lc.InvGamma) * 255)
	}
	return out
}

func clamp8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
