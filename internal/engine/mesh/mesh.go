package mesh

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/MetisArom/Sputterer/internal/logger"
	"github.com/MetisArom/Sputterer/pkg/formats"
	"github.com/MetisArom/Sputterer/pkg/math"
)

// Mesh owns a surface's vertex and triangle buffers and, once SetBuffers has
// been called, the GPU objects holding a copy of them.
//
// The zero value is an empty mesh. A Mesh is not safe for concurrent use;
// GPU methods must run on the thread owning the GL context.
type Mesh struct {
	Options Options

	vertices  []Vertex
	triangles []Triangle
	smooth    bool

	buffers *Buffers
}

// ReadFromOBJ loads the OBJ file at path and rebuilds the mesh from it,
// replacing any previous geometry. On error the mesh is left unchanged.
//
// GPU buffers from an earlier SetBuffers keep the old geometry until
// SetBuffers is called again.
func (m *Mesh) ReadFromOBJ(path string) error {
	obj, err := formats.ParseOBJFile(path, m.Options.OBJ)
	if err != nil {
		return err
	}

	topo, err := BuildTopology(obj.Positions, obj.Triangles, obj.Smooth, m.Options.Build)
	if err != nil {
		return fmt.Errorf("building mesh from %s: %w", path, err)
	}

	m.vertices = topo.Vertices
	m.triangles = topo.Triangles
	m.smooth = obj.Smooth

	log := logger.Log.Named("mesh")
	if topo.Degenerate > 0 {
		log.Warn("degenerate faces have zero normals",
			zap.String("path", path),
			zap.Int("faces", topo.Degenerate),
		)
	}
	log.Debug("mesh loaded",
		zap.String("path", path),
		zap.Int("positions", len(obj.Positions)),
		zap.Int("vertices", len(m.vertices)),
		zap.Int("triangles", len(m.triangles)),
		zap.Bool("smooth", m.smooth),
		zap.Stringer("weighting", m.Options.Build.Weighting),
	)
	return nil
}

// Vertices returns the vertex buffer. The slice must not be modified.
func (m *Mesh) Vertices() []Vertex { return m.vertices }

// Triangles returns the triangle buffer. The slice must not be modified.
func (m *Mesh) Triangles() []Triangle { return m.triangles }

// NumVertices returns the number of vertices in the buffer.
func (m *Mesh) NumVertices() int { return len(m.vertices) }

// NumTriangles returns the number of triangles in the buffer.
func (m *Mesh) NumTriangles() int { return len(m.triangles) }

// Smooth reports whether the last load used shared (smooth) vertices.
func (m *Mesh) Smooth() bool { return m.smooth }

// BuffersSet reports whether GPU buffers are currently allocated.
func (m *Mesh) BuffersSet() bool { return m.buffers != nil }

// Bounds returns the bounding box of all vertex positions.
// An empty mesh has zero bounds.
func (m *Mesh) Bounds() Bounds {
	if len(m.vertices) == 0 {
		return Bounds{}
	}
	b := Bounds{Min: m.vertices[0].Position, Max: m.vertices[0].Position}
	for _, v := range m.vertices[1:] {
		p := v.Position
		b.Min = math.Vec3{X: min(b.Min.X, p.X), Y: min(b.Min.Y, p.Y), Z: min(b.Min.Z, p.Z)}
		b.Max = math.Vec3{X: max(b.Max.X, p.X), Y: max(b.Max.Y, p.Y), Z: max(b.Max.Z, p.Z)}
	}
	return b
}

// VertexData returns the vertex buffer as interleaved floats,
// px py pz nx ny nz per vertex.
func (m *Mesh) VertexData() []float32 {
	data := make([]float32, 0, 6*len(m.vertices))
	for _, v := range m.vertices {
		data = append(data,
			v.Position.X, v.Position.Y, v.Position.Z,
			v.Normal.X, v.Normal.Y, v.Normal.Z,
		)
	}
	return data
}

// IndexData returns the triangle buffer as a flat index list.
func (m *Mesh) IndexData() []uint32 {
	data := make([]uint32, 0, 3*len(m.triangles))
	for _, t := range m.triangles {
		data = append(data, t[0], t[1], t[2])
	}
	return data
}

// String lists every vertex and triangle in buffer order. Meant for
// debugging only.
func (m *Mesh) String() string {
	var sb strings.Builder
	sb.WriteString("Vertices\n=======================\n")
	for i, v := range m.vertices {
		fmt.Fprintf(&sb, "%d: %s\n", i, v)
	}
	sb.WriteString("Elements\n=======================\n")
	for i, t := range m.triangles {
		fmt.Fprintf(&sb, "%d: %s\n", i, t)
	}
	return sb.String()
}
