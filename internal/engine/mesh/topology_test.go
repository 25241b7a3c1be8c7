package mesh

import (
	"errors"
	gomath "math"
	"testing"

	"github.com/MetisArom/Sputterer/pkg/formats"
	"github.com/MetisArom/Sputterer/pkg/math"
)

const epsilon = 1e-5

func approxVec(a, b math.Vec3) bool {
	return gomath.Abs(float64(a.X-b.X)) < epsilon &&
		gomath.Abs(float64(a.Y-b.Y)) < epsilon &&
		gomath.Abs(float64(a.Z-b.Z)) < epsilon
}

func isUnit(v math.Vec3) bool {
	return gomath.Abs(float64(v.Length())-1) < epsilon
}

// hinge returns two faces meeting at a right angle along the edge v0-v1.
// The second face is stretched by k along Z so its area differs.
func hinge(k float32) ([]math.Vec3, []formats.RawTriangle) {
	positions := []math.Vec3{
		{X: 0, Y: 0, Z: 0},
		{X: 1, Y: 0, Z: 0},
		{X: 0, Y: 1, Z: 0},
		{X: 0, Y: 0, Z: k},
	}
	raw := []formats.RawTriangle{
		{0, 1, 2}, // normal +Z
		{1, 0, 3}, // normal +Y
	}
	return positions, raw
}

func TestBuildTopology_SplitSingleTriangle(t *testing.T) {
	positions := []math.Vec3{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}}
	raw := []formats.RawTriangle{{0, 1, 2}}

	topo, err := BuildTopology(positions, raw, false, BuildOptions{})
	if err != nil {
		t.Fatalf("BuildTopology failed: %v", err)
	}
	if len(topo.Vertices) != 3 || len(topo.Triangles) != 1 {
		t.Fatalf("got %d vertices, %d triangles; want 3, 1", len(topo.Vertices), len(topo.Triangles))
	}
	if topo.Triangles[0] != (Triangle{0, 1, 2}) {
		t.Errorf("triangle = %v, want [0, 1, 2]", topo.Triangles[0])
	}
	for i, v := range topo.Vertices {
		if v.Position != positions[i] {
			t.Errorf("vertex %d position = %v, want %v", i, v.Position, positions[i])
		}
		if v.Normal != (math.Vec3{Z: 1}) {
			t.Errorf("vertex %d normal = %v, want (0, 0, 1)", i, v.Normal)
		}
	}
}

func TestBuildTopology_SplitDoesNotShare(t *testing.T) {
	positions, raw := hinge(1)

	topo, err := BuildTopology(positions, raw, false, BuildOptions{})
	if err != nil {
		t.Fatalf("BuildTopology failed: %v", err)
	}

	if len(topo.Triangles) != len(raw) {
		t.Errorf("expected %d triangles, got %d", len(raw), len(topo.Triangles))
	}
	if len(topo.Vertices) != 3*len(raw) {
		t.Errorf("expected %d vertices, got %d", 3*len(raw), len(topo.Vertices))
	}

	seen := make(map[uint32]bool)
	for ti, tri := range topo.Triangles {
		for corner, idx := range tri {
			if seen[idx] {
				t.Errorf("vertex %d shared by more than one triangle", idx)
			}
			seen[idx] = true
			if want := uint32(3*ti + corner); idx != want {
				t.Errorf("triangle %d corner %d = %d, want %d", ti, corner, idx, want)
			}
		}
	}

	// Coincident source positions keep their own face normal.
	if !approxVec(topo.Vertices[0].Normal, math.Vec3{Z: 1}) {
		t.Errorf("face 0 normal = %v, want (0, 0, 1)", topo.Vertices[0].Normal)
	}
	if !approxVec(topo.Vertices[3].Normal, math.Vec3{Y: 1}) {
		t.Errorf("face 1 normal = %v, want (0, 1, 0)", topo.Vertices[3].Normal)
	}
	// Face 1 is (1, 0, 3), so slots 3 and 4 copy positions 1 and 0.
	for _, pair := range [][2]int{{1, 3}, {0, 4}} {
		a, b := topo.Vertices[pair[0]].Position, topo.Vertices[pair[1]].Position
		if a != b {
			t.Errorf("split vertices %d and %d should copy the same position: %v vs %v",
				pair[0], pair[1], a, b)
		}
	}
	if topo.Vertices[2].Position != positions[2] || topo.Vertices[5].Position != positions[3] {
		t.Errorf("unshared corners = %v, %v, want %v, %v",
			topo.Vertices[2].Position, topo.Vertices[5].Position, positions[2], positions[3])
	}
}

func TestBuildTopology_SharedSumsFaceNormals(t *testing.T) {
	positions, raw := hinge(1)

	topo, err := BuildTopology(positions, raw, true, BuildOptions{})
	if err != nil {
		t.Fatalf("BuildTopology failed: %v", err)
	}
	if len(topo.Vertices) != len(positions) {
		t.Fatalf("expected %d vertices, got %d", len(positions), len(topo.Vertices))
	}
	if topo.Triangles[0] != (Triangle{0, 1, 2}) || topo.Triangles[1] != (Triangle{1, 0, 3}) {
		t.Errorf("triangles should keep raw indices, got %v", topo.Triangles)
	}

	shared := math.Vec3{Y: 1, Z: 1}.Normalize()
	want := []math.Vec3{shared, shared, {Z: 1}, {Y: 1}}
	for i, v := range topo.Vertices {
		if !approxVec(v.Normal, want[i]) {
			t.Errorf("vertex %d normal = %v, want %v", i, v.Normal, want[i])
		}
		if !isUnit(v.Normal) {
			t.Errorf("vertex %d normal %v is not unit length", i, v.Normal)
		}
	}
}

func TestBuildTopology_Weighting(t *testing.T) {
	positions, raw := hinge(3)

	tests := []struct {
		weighting NormalWeighting
		v0, v1    math.Vec3
	}{
		{
			// Each face counts once regardless of size.
			weighting: WeightUniform,
			v0:        math.Vec3{Y: 1, Z: 1}.Normalize(),
			v1:        math.Vec3{Y: 1, Z: 1}.Normalize(),
		},
		{
			// The second face is three times larger.
			weighting: WeightArea,
			v0:        math.Vec3{Y: 3, Z: 1}.Normalize(),
			v1:        math.Vec3{Y: 3, Z: 1}.Normalize(),
		},
		{
			// Right angles at v0 in both faces; at v1 the angles are
			// 45 degrees (face 0) and atan(3) (face 1).
			weighting: WeightAngle,
			v0:        math.Vec3{Y: 1, Z: 1}.Normalize(),
			v1:        math.Vec3{Y: float32(gomath.Atan(3)), Z: gomath.Pi / 4}.Normalize(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.weighting.String(), func(t *testing.T) {
			topo, err := BuildTopology(positions, raw, true, BuildOptions{Weighting: tt.weighting})
			if err != nil {
				t.Fatalf("BuildTopology failed: %v", err)
			}
			if got := topo.Vertices[0].Normal; !approxVec(got, tt.v0) {
				t.Errorf("vertex 0 normal = %v, want %v", got, tt.v0)
			}
			if got := topo.Vertices[1].Normal; !approxVec(got, tt.v1) {
				t.Errorf("vertex 1 normal = %v, want %v", got, tt.v1)
			}
		})
	}
}

func TestBuildTopology_WeightingIgnoredWhenSplit(t *testing.T) {
	positions, raw := hinge(3)
	uniform, _ := BuildTopology(positions, raw, false, BuildOptions{})
	area, _ := BuildTopology(positions, raw, false, BuildOptions{Weighting: WeightArea})
	for i := range uniform.Vertices {
		if uniform.Vertices[i] != area.Vertices[i] {
			t.Fatalf("vertex %d differs: %v vs %v", i, uniform.Vertices[i], area.Vertices[i])
		}
	}
}

func TestBuildTopology_SharedKeepsUnreferencedPositions(t *testing.T) {
	positions := []math.Vec3{{X: 0}, {X: 1}, {Y: 1}, {X: 5, Y: 5, Z: 5}}
	raw := []formats.RawTriangle{{0, 1, 2}}

	topo, err := BuildTopology(positions, raw, true, BuildOptions{})
	if err != nil {
		t.Fatalf("BuildTopology failed: %v", err)
	}
	if len(topo.Vertices) != 4 {
		t.Fatalf("expected 4 vertices, got %d", len(topo.Vertices))
	}
	if topo.Vertices[3].Position != positions[3] {
		t.Errorf("unreferenced vertex position = %v, want %v", topo.Vertices[3].Position, positions[3])
	}
	if !topo.Vertices[3].Normal.IsZero() {
		t.Errorf("unreferenced vertex normal = %v, want zero", topo.Vertices[3].Normal)
	}
}

func TestBuildTopology_Degenerate(t *testing.T) {
	positions := []math.Vec3{{X: 0}, {X: 1}, {X: 2}, {Y: 1}}
	raw := []formats.RawTriangle{
		{0, 1, 2}, // collinear
		{0, 1, 3},
	}

	for _, smooth := range []bool{false, true} {
		topo, err := BuildTopology(positions, raw, smooth, BuildOptions{})
		if err != nil {
			t.Fatalf("smooth=%v: BuildTopology failed: %v", smooth, err)
		}
		if topo.Degenerate != 1 {
			t.Errorf("smooth=%v: Degenerate = %d, want 1", smooth, topo.Degenerate)
		}
		for i, v := range topo.Vertices {
			n := v.Normal
			if gomath.IsNaN(float64(n.X)) || gomath.IsNaN(float64(n.Y)) || gomath.IsNaN(float64(n.Z)) {
				t.Errorf("smooth=%v: vertex %d normal is NaN", smooth, i)
			}
		}
	}

	shared, _ := BuildTopology(positions, raw, true, BuildOptions{})
	// Vertex 0 touches a valid face, so it still gets a unit normal.
	if !approxVec(shared.Vertices[0].Normal, math.Vec3{Z: 1}) {
		t.Errorf("vertex 0 normal = %v, want (0, 0, 1)", shared.Vertices[0].Normal)
	}
	// Vertex 2 only touches the collinear face.
	if !shared.Vertices[2].Normal.IsZero() {
		t.Errorf("vertex 2 normal = %v, want zero", shared.Vertices[2].Normal)
	}
}

func TestBuildTopology_IndexOutOfRange(t *testing.T) {
	positions := []math.Vec3{{X: 0}, {X: 1}, {Y: 1}}

	tests := []struct {
		name   string
		raw    []formats.RawTriangle
		want   IndexError
		smooth bool
	}{
		{"too large split", []formats.RawTriangle{{0, 1, 998}}, IndexError{Triangle: 0, Corner: 2, Index: 998, Count: 3}, false},
		{"too large shared", []formats.RawTriangle{{0, 1, 2}, {3, 1, 2}}, IndexError{Triangle: 1, Corner: 0, Index: 3, Count: 3}, true},
		{"zero in file", []formats.RawTriangle{{-1, 1, 2}}, IndexError{Triangle: 0, Corner: 0, Index: -1, Count: 3}, true},
		{"negative in file", []formats.RawTriangle{{0, -3, 2}}, IndexError{Triangle: 0, Corner: 1, Index: -3, Count: 3}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			topo, err := BuildTopology(positions, tt.raw, tt.smooth, BuildOptions{})
			if topo != nil {
				t.Error("expected no topology on error")
			}
			if !errors.Is(err, ErrIndexOutOfRange) {
				t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
			}
			var ie *IndexError
			if !errors.As(err, &ie) {
				t.Fatalf("expected *IndexError, got %T", err)
			}
			if *ie != tt.want {
				t.Errorf("IndexError = %+v, want %+v", *ie, tt.want)
			}
		})
	}
}

func TestBuildTopology_Empty(t *testing.T) {
	for _, smooth := range []bool{false, true} {
		topo, err := BuildTopology(nil, nil, smooth, BuildOptions{})
		if err != nil {
			t.Fatalf("smooth=%v: BuildTopology failed: %v", smooth, err)
		}
		if len(topo.Vertices) != 0 || len(topo.Triangles) != 0 {
			t.Errorf("smooth=%v: expected empty topology, got %d/%d",
				smooth, len(topo.Vertices), len(topo.Triangles))
		}
	}
}

func TestParseNormalWeighting(t *testing.T) {
	tests := []struct {
		in      string
		want    NormalWeighting
		wantErr bool
	}{
		{"", WeightUniform, false},
		{"uniform", WeightUniform, false},
		{"Area", WeightArea, false},
		{"angle", WeightAngle, false},
		{"cotangent", WeightUniform, true},
	}
	for _, tt := range tests {
		got, err := ParseNormalWeighting(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseNormalWeighting(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseNormalWeighting(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
