package mesh

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/MetisArom/Sputterer/pkg/formats"
	"github.com/MetisArom/Sputterer/pkg/math"
)

func writeOBJ(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "surface.obj")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write OBJ: %v", err)
	}
	return path
}

func loadMesh(t *testing.T, content string) *Mesh {
	t.Helper()
	m := &Mesh{}
	if err := m.ReadFromOBJ(writeOBJ(t, content)); err != nil {
		t.Fatalf("ReadFromOBJ failed: %v", err)
	}
	return m
}

func TestReadFromOBJ_SingleTriangle(t *testing.T) {
	for _, s := range []string{"0", "1"} {
		t.Run("s "+s, func(t *testing.T) {
			m := loadMesh(t, "v 0 0 0\nv 1 0 0\nv 0 1 0\ns "+s+"\nf 1 2 3\n")

			if m.NumVertices() != 3 || m.NumTriangles() != 1 {
				t.Fatalf("got %d vertices, %d triangles; want 3, 1", m.NumVertices(), m.NumTriangles())
			}
			if m.Smooth() != (s == "1") {
				t.Errorf("Smooth() = %v", m.Smooth())
			}
			if m.Triangles()[0] != (Triangle{0, 1, 2}) {
				t.Errorf("triangle = %v, want [0, 1, 2]", m.Triangles()[0])
			}
			for i, v := range m.Vertices() {
				if v.Normal != (math.Vec3{Z: 1}) {
					t.Errorf("vertex %d normal = %v, want (0, 0, 1)", i, v.Normal)
				}
			}
		})
	}
}

func TestReadFromOBJ_SharedEdge(t *testing.T) {
	m := loadMesh(t, `# two faces at a right angle
v 0 0 0
v 1 0 0
v 0 1 0
v 0 0 1
s 1
f 1 2 3
f 2 1 4
`)
	if m.NumVertices() != 4 {
		t.Fatalf("expected 4 shared vertices, got %d", m.NumVertices())
	}
	want := math.Vec3{Y: 1, Z: 1}.Normalize()
	for _, i := range []int{0, 1} {
		if got := m.Vertices()[i].Normal; !approxVec(got, want) {
			t.Errorf("vertex %d normal = %v, want %v", i, got, want)
		}
	}
}

func TestReadFromOBJ_CountsFollowSmoothing(t *testing.T) {
	const quads = `v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
v 0 0 1
f 1 2 3
f 1 3 4
f 1 2 5
`
	flat := loadMesh(t, quads)
	if flat.NumVertices() != 9 || flat.NumTriangles() != 3 {
		t.Errorf("flat: got %d/%d, want 9/3", flat.NumVertices(), flat.NumTriangles())
	}

	smooth := loadMesh(t, "s 1\n"+quads)
	if smooth.NumVertices() != 5 || smooth.NumTriangles() != 3 {
		t.Errorf("smooth: got %d/%d, want 5/3", smooth.NumVertices(), smooth.NumTriangles())
	}
	for i, v := range smooth.Vertices() {
		if !isUnit(v.Normal) {
			t.Errorf("smooth vertex %d normal %v is not unit length", i, v.Normal)
		}
	}
}

func TestReadFromOBJ_Triangulate(t *testing.T) {
	const quad = "v 0 0 0\nv 1 0 0\nv 1 1 0\nv 0 1 0\ns 1\nf 1 2 3 4\n"

	m := &Mesh{}
	if err := m.ReadFromOBJ(writeOBJ(t, quad)); err != nil {
		t.Fatalf("ReadFromOBJ failed: %v", err)
	}
	if m.NumTriangles() != 1 {
		t.Errorf("default: expected 1 triangle, got %d", m.NumTriangles())
	}

	m = &Mesh{Options: Options{OBJ: formats.OBJOptions{Triangulate: true}}}
	if err := m.ReadFromOBJ(writeOBJ(t, quad)); err != nil {
		t.Fatalf("ReadFromOBJ failed: %v", err)
	}
	if m.NumTriangles() != 2 {
		t.Errorf("triangulate: expected 2 triangles, got %d", m.NumTriangles())
	}
	if m.Triangles()[1] != (Triangle{0, 2, 3}) {
		t.Errorf("second triangle = %v, want [0, 2, 3]", m.Triangles()[1])
	}
}

func TestReadFromOBJ_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    error
	}{
		{"two field face", "v 0 0 0\nv 1 0 0\nf 1 2\n", formats.ErrMalformedField},
		{"bad number", "v 0 zero 0\n", formats.ErrMalformedField},
		{"index too large", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 999\n", ErrIndexOutOfRange},
		{"zero index", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 0 1 2\n", ErrIndexOutOfRange},
		{"negative index", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf -1 -2 -3\n", ErrIndexOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Mesh{}
			err := m.ReadFromOBJ(writeOBJ(t, tt.content))
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if m.NumVertices() != 0 || m.NumTriangles() != 0 {
				t.Errorf("failed load should leave the mesh empty, got %d/%d",
					m.NumVertices(), m.NumTriangles())
			}
		})
	}
}

func TestReadFromOBJ_IndexErrorDetails(t *testing.T) {
	m := &Mesh{}
	err := m.ReadFromOBJ(writeOBJ(t, "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\nf 1 2 999\n"))

	var ie *IndexError
	if !errors.As(err, &ie) {
		t.Fatalf("expected *IndexError, got %v", err)
	}
	if ie.Triangle != 1 || ie.Corner != 2 || ie.Index != 998 || ie.Count != 3 {
		t.Errorf("IndexError = %+v", *ie)
	}
}

func TestReadFromOBJ_FailureKeepsPreviousGeometry(t *testing.T) {
	m := loadMesh(t, triangleSource)
	before := m.String()

	err := m.ReadFromOBJ(filepath.Join(t.TempDir(), "missing.obj"))
	if !errors.Is(err, formats.ErrFileNotFound) {
		t.Fatalf("expected ErrFileNotFound, got %v", err)
	}
	if got := m.String(); got != before {
		t.Errorf("mesh changed after failed load:\n%s\nwant:\n%s", got, before)
	}

	err = m.ReadFromOBJ(writeOBJ(t, "v 0 0 0\nf 1 1 2\n"))
	if !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
	}
	if got := m.String(); got != before {
		t.Errorf("mesh changed after failed load:\n%s\nwant:\n%s", got, before)
	}
}

func TestReadFromOBJ_Reload(t *testing.T) {
	m := loadMesh(t, triangleSource)
	if err := m.ReadFromOBJ(writeOBJ(t, "s off\n")); err != nil {
		t.Fatalf("ReadFromOBJ failed: %v", err)
	}
	if m.NumVertices() != 0 || m.NumTriangles() != 0 {
		t.Errorf("reload should replace geometry, got %d/%d", m.NumVertices(), m.NumTriangles())
	}
}

const triangleSource = "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n"

func TestMeshString(t *testing.T) {
	m := loadMesh(t, triangleSource)

	want := "Vertices\n" +
		"=======================\n" +
		"0: { pos: (0, 0, 0), norm: (0, 0, 1) }\n" +
		"1: { pos: (1, 0, 0), norm: (0, 0, 1) }\n" +
		"2: { pos: (0, 1, 0), norm: (0, 0, 1) }\n" +
		"Elements\n" +
		"=======================\n" +
		"0: [0, 1, 2]\n"
	if got := m.String(); got != want {
		t.Errorf("String() =\n%s\nwant:\n%s", got, want)
	}

	var empty Mesh
	if got := empty.String(); got != "Vertices\n=======================\nElements\n=======================\n" {
		t.Errorf("empty String() = %q", got)
	}
}

func TestMeshBufferData(t *testing.T) {
	m := loadMesh(t, triangleSource)

	wantVerts := []float32{
		0, 0, 0, 0, 0, 1,
		1, 0, 0, 0, 0, 1,
		0, 1, 0, 0, 0, 1,
	}
	got := m.VertexData()
	if len(got) != len(wantVerts) {
		t.Fatalf("VertexData length = %d, want %d", len(got), len(wantVerts))
	}
	for i := range got {
		if got[i] != wantVerts[i] {
			t.Errorf("VertexData[%d] = %v, want %v", i, got[i], wantVerts[i])
		}
	}

	idx := m.IndexData()
	if len(idx) != 3 || idx[0] != 0 || idx[1] != 1 || idx[2] != 2 {
		t.Errorf("IndexData = %v, want [0 1 2]", idx)
	}
}

func TestMeshBounds(t *testing.T) {
	var empty Mesh
	if b := empty.Bounds(); b != (Bounds{}) {
		t.Errorf("empty bounds = %+v", b)
	}

	m := loadMesh(t, "v -1 2 0\nv 3 -4 0.5\nv 0 0 -2\nf 1 2 3\n")
	b := m.Bounds()
	if b.Min != (math.Vec3{X: -1, Y: -4, Z: -2}) {
		t.Errorf("Min = %v", b.Min)
	}
	if b.Max != (math.Vec3{X: 3, Y: 2, Z: 0.5}) {
		t.Errorf("Max = %v", b.Max)
	}
	if c := b.Center(); c != (math.Vec3{X: 1, Y: -1, Z: -0.75}) {
		t.Errorf("Center = %v", c)
	}
	if s := b.Size(); s != (math.Vec3{X: 4, Y: 6, Z: 2.5}) {
		t.Errorf("Size = %v", s)
	}
}

type recordingContext struct {
	calls []string
}

func (r *recordingContext) Use() { r.calls = append(r.calls, "use") }
func (r *recordingContext) SetMat4(name string, _ math.Mat4) { r.calls = append(r.calls, name) }
func (r *recordingContext) SetVec3(name string, _ math.Vec3) { r.calls = append(r.calls, name) }

func TestDrawWithoutBuffers(t *testing.T) {
	m := loadMesh(t, triangleSource)
	if m.BuffersSet() {
		t.Fatal("buffers should not be set after ReadFromOBJ")
	}

	ctx := &recordingContext{}
	m.DrawDefault(ctx)
	m.Draw(ctx, math.IdentityTransform(), math.Vec3{X: 1})
	if len(ctx.calls) != 0 {
		t.Errorf("Draw without buffers touched the context: %v", ctx.calls)
	}

	// Releasing an unset mesh is a no-op.
	m.Release()
	m.Release()
}
