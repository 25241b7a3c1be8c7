package mesh

import (
	"errors"
	"fmt"

	"github.com/MetisArom/Sputterer/pkg/formats"
	"github.com/MetisArom/Sputterer/pkg/math"
)

// ErrIndexOutOfRange is returned when a face references a vertex that does
// not exist.
var ErrIndexOutOfRange = errors.New("vertex index out of range")

// IndexError identifies the face corner holding an invalid reference.
type IndexError struct {
	Triangle int // 0-based face position in file order
	Corner   int // 0, 1 or 2
	Index    int // 0-based reference after the 1-based adjustment
	Count    int // number of positions available
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("triangle %d corner %d: vertex %d not in [1, %d]",
		e.Triangle, e.Corner, e.Index+1, e.Count)
}

// Unwrap makes errors.Is(err, ErrIndexOutOfRange) hold.
func (e *IndexError) Unwrap() error {
	return ErrIndexOutOfRange
}

// BuildTopology produces the final vertex and triangle buffers.
//
// With smooth set, vertices are shared: the output has one vertex per
// position, triangles keep their raw indices, and each vertex normal is the
// normalized sum of the incident face normals. Otherwise every triangle gets
// three vertices of its own carrying the face normal.
//
// All raw indices are validated before anything is built.
func BuildTopology(positions []math.Vec3, raw []formats.RawTriangle, smooth bool, opts BuildOptions) (*Topology, error) {
	if err := validateIndices(len(positions), raw); err != nil {
		return nil, err
	}
	if smooth {
		return buildShared(positions, raw, opts.Weighting), nil
	}
	return buildSplit(positions, raw), nil
}

func validateIndices(count int, raw []formats.RawTriangle) error {
	for ti, tri := range raw {
		for corner, idx := range tri {
			if idx < 0 || idx >= count {
				return &IndexError{Triangle: ti, Corner: corner, Index: idx, Count: count}
			}
		}
	}
	return nil
}

// faceNormal returns normalize((b-a) x (c-a)) and the raw cross product,
// whose length is twice the triangle area.
func faceNormal(a, b, c math.Vec3) (normal, cross math.Vec3) {
	cross = b.Sub(a).Cross(c.Sub(a))
	return cross.Normalize(), cross
}

func buildShared(positions []math.Vec3, raw []formats.RawTriangle, weighting NormalWeighting) *Topology {
	topo := &Topology{
		Vertices:  make([]Vertex, len(positions)),
		Triangles: make([]Triangle, len(raw)),
	}
	for i, p := range positions {
		topo.Vertices[i].Position = p
	}

	for ti, tri := range raw {
		a, b, c := positions[tri[0]], positions[tri[1]], positions[tri[2]]
		n, cross := faceNormal(a, b, c)
		if n.IsZero() {
			topo.Degenerate++
		}

		var w [3]math.Vec3
		switch weighting {
		case WeightArea:
			w = [3]math.Vec3{cross, cross, cross}
		case WeightAngle:
			w = [3]math.Vec3{
				n.Scale(b.Sub(a).Angle(c.Sub(a))),
				n.Scale(a.Sub(b).Angle(c.Sub(b))),
				n.Scale(a.Sub(c).Angle(b.Sub(c))),
			}
		default:
			w = [3]math.Vec3{n, n, n}
		}

		for corner, idx := range tri {
			v := &topo.Vertices[idx]
			v.Normal = v.Normal.Add(w[corner])
		}
		topo.Triangles[ti] = Triangle{uint32(tri[0]), uint32(tri[1]), uint32(tri[2])}
	}

	for i := range topo.Vertices {
		topo.Vertices[i].Normal = topo.Vertices[i].Normal.Normalize()
	}
	return topo
}

func buildSplit(positions []math.Vec3, raw []formats.RawTriangle) *Topology {
	topo := &Topology{
		Vertices:  make([]Vertex, 0, 3*len(raw)),
		Triangles: make([]Triangle, 0, len(raw)),
	}

	for _, tri := range raw {
		a, b, c := positions[tri[0]], positions[tri[1]], positions[tri[2]]
		n, _ := faceNormal(a, b, c)
		if n.IsZero() {
			topo.Degenerate++
		}

		base := uint32(len(topo.Vertices))
		topo.Vertices = append(topo.Vertices,
			Vertex{Position: a, Normal: n},
			Vertex{Position: b, Normal: n},
			Vertex{Position: c, Normal: n},
		)
		topo.Triangles = append(topo.Triangles, Triangle{base, base + 1, base + 2})
	}
	return topo
}
