// Package mesh rebuilds renderable surface meshes from raw OBJ geometry and
// owns their GPU buffers.
package mesh

import (
	"fmt"
	"strings"

	"github.com/MetisArom/Sputterer/pkg/formats"
	"github.com/MetisArom/Sputterer/pkg/math"
)

// Vertex is a mesh vertex. Its layout is six packed float32 (position then
// normal), which is what the GPU vertex buffer expects.
type Vertex struct {
	Position math.Vec3
	Normal   math.Vec3
}

func (v Vertex) String() string {
	return fmt.Sprintf("{ pos: %s, norm: %s }", v.Position, v.Normal)
}

// Triangle holds three indices into the vertex buffer.
type Triangle [3]uint32

func (t Triangle) String() string {
	return fmt.Sprintf("[%d, %d, %d]", t[0], t[1], t[2])
}

// Bounds holds an axis-aligned bounding box.
type Bounds struct {
	Min math.Vec3
	Max math.Vec3
}

// Center returns the middle of the box.
func (b Bounds) Center() math.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Size returns the edge lengths of the box.
func (b Bounds) Size() math.Vec3 {
	return b.Max.Sub(b.Min)
}

// NormalWeighting selects how face normals are combined at shared vertices.
type NormalWeighting int

const (
	// WeightUniform gives every incident face the same weight.
	WeightUniform NormalWeighting = iota
	// WeightArea weights each face normal by the face area.
	WeightArea
	// WeightAngle weights each face normal by the interior angle at the vertex.
	WeightAngle
)

// String returns the config name of the weighting.
func (w NormalWeighting) String() string {
	switch w {
	case WeightUniform:
		return "uniform"
	case WeightArea:
		return "area"
	case WeightAngle:
		return "angle"
	default:
		return fmt.Sprintf("NormalWeighting(%d)", int(w))
	}
}

// ParseNormalWeighting converts a config name to a NormalWeighting.
// The empty string selects WeightUniform.
func ParseNormalWeighting(s string) (NormalWeighting, error) {
	switch strings.ToLower(s) {
	case "", "uniform":
		return WeightUniform, nil
	case "area":
		return WeightArea, nil
	case "angle":
		return WeightAngle, nil
	}
	return WeightUniform, fmt.Errorf("unknown normal weighting %q (want uniform, area or angle)", s)
}

// BuildOptions contains options for topology building.
type BuildOptions struct {
	// Weighting only affects smooth (shared-vertex) meshes.
	Weighting NormalWeighting
}

// Options configures how a Mesh loads its geometry.
type Options struct {
	OBJ   formats.OBJOptions
	Build BuildOptions
}

// Topology is the output of BuildTopology.
type Topology struct {
	Vertices  []Vertex
	Triangles []Triangle
	// Degenerate counts zero-area faces. Their face normal is the zero
	// vector, so they add nothing to shared normals.
	Degenerate int
}
