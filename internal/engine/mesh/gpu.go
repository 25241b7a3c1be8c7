package mesh

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/MetisArom/Sputterer/pkg/math"
)

// DefaultColor is the surface color used by DrawDefault.
var DefaultColor = math.Vec3{X: 0.3, Y: 0.3, Z: 0.3}

// RenderContext is the shader program a mesh draws with.
type RenderContext interface {
	Use()
	SetMat4(name string, m math.Mat4)
	SetVec3(name string, v math.Vec3)
}

// Buffers is one GPU allocation of a mesh: a vertex array object with its
// vertex and element buffers. It is released exactly once.
type Buffers struct {
	vao, vbo, ebo uint32
	indexCount    int32
}

func uploadBuffers(vertices []Vertex, triangles []Triangle) (*Buffers, error) {
	b := &Buffers{indexCount: int32(3 * len(triangles))}

	gl.GenVertexArrays(1, &b.vao)
	gl.BindVertexArray(b.vao)

	vertexSize := int(unsafe.Sizeof(Vertex{}))
	gl.GenBuffers(1, &b.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*vertexSize, slicePtr(vertices), gl.STATIC_DRAW)

	// Position
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, int32(vertexSize), 0)
	gl.EnableVertexAttribArray(0)
	// Normal
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, int32(vertexSize), 3*4)
	gl.EnableVertexAttribArray(1)

	triangleSize := int(unsafe.Sizeof(Triangle{}))
	gl.GenBuffers(1, &b.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, b.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(triangles)*triangleSize, slicePtr(triangles), gl.STATIC_DRAW)

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, 0)

	if err := checkGLError("uploading mesh buffers"); err != nil {
		b.Release()
		return nil, err
	}
	return b, nil
}

// Release deletes the GPU objects. Calling it again is a no-op.
func (b *Buffers) Release() {
	if b.vao != 0 {
		gl.DeleteVertexArrays(1, &b.vao)
		b.vao = 0
	}
	if b.vbo != 0 {
		gl.DeleteBuffers(1, &b.vbo)
		b.vbo = 0
	}
	if b.ebo != 0 {
		gl.DeleteBuffers(1, &b.ebo)
		b.ebo = 0
	}
}

// SetBuffers uploads the vertex and triangle buffers to the GPU. A previous
// allocation is released first, so repeated calls do not leak.
func (m *Mesh) SetBuffers() error {
	m.Release()

	b, err := uploadBuffers(m.vertices, m.triangles)
	if err != nil {
		return err
	}
	m.buffers = b
	return nil
}

// Release frees the GPU buffers if they are allocated.
func (m *Mesh) Release() {
	if m.buffers == nil {
		return
	}
	m.buffers.Release()
	m.buffers = nil
}

// Draw renders the mesh with the given model transform and color. It does
// nothing if SetBuffers has not been called.
func (m *Mesh) Draw(ctx RenderContext, transform math.Transform, color math.Vec3) {
	if m.buffers == nil {
		return
	}

	ctx.Use()
	ctx.SetMat4("model", transform.Matrix())
	ctx.SetVec3("objectColor", color)

	gl.BindVertexArray(m.buffers.vao)
	gl.DrawElementsWithOffset(gl.TRIANGLES, m.buffers.indexCount, gl.UNSIGNED_INT, 0)
	gl.BindVertexArray(0)
}

// DrawDefault renders the mesh untransformed in DefaultColor.
func (m *Mesh) DrawDefault(ctx RenderContext) {
	m.Draw(ctx, math.IdentityTransform(), DefaultColor)
}

func slicePtr[T any](s []T) unsafe.Pointer {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Pointer(&s[0])
}

func checkGLError(op string) error {
	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("%s: GL error 0x%04x", op, code)
	}
	return nil
}
