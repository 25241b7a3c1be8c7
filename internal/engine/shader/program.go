package shader

import (
	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/MetisArom/Sputterer/internal/engine/shader/shaders"
	"github.com/MetisArom/Sputterer/pkg/math"
)

// Program is a linked shader program with cached uniform locations.
// It satisfies mesh.RenderContext.
type Program struct {
	id       uint32
	uniforms map[string]int32
}

// NewProgram compiles and links a program from GLSL sources.
func NewProgram(vertexSrc, fragmentSrc string) (*Program, error) {
	id, err := CompileProgram(vertexSrc, fragmentSrc)
	if err != nil {
		return nil, err
	}
	return &Program{id: id, uniforms: make(map[string]int32)}, nil
}

// NewMeshProgram builds the lit surface program. It expects the uniforms
// model, view, projection, objectColor, lightColor, lightPos and viewPos.
func NewMeshProgram() (*Program, error) {
	return NewProgram(shaders.MeshVertexShader, shaders.MeshFragmentShader)
}

// ID returns the GL program name.
func (p *Program) ID() uint32 { return p.id }

// Use makes the program current.
func (p *Program) Use() {
	gl.UseProgram(p.id)
}

// SetMat4 uploads a 4x4 matrix uniform. The program must be current.
func (p *Program) SetMat4(name string, m math.Mat4) {
	gl.UniformMatrix4fv(p.location(name), 1, false, m.Ptr())
}

// SetVec3 uploads a vec3 uniform. The program must be current.
func (p *Program) SetVec3(name string, v math.Vec3) {
	gl.Uniform3f(p.location(name), v.X, v.Y, v.Z)
}

// SetFloat uploads a float uniform. The program must be current.
func (p *Program) SetFloat(name string, f float32) {
	gl.Uniform1f(p.location(name), f)
}

// Delete frees the GL program.
func (p *Program) Delete() {
	if p.id != 0 {
		gl.DeleteProgram(p.id)
		p.id = 0
	}
}

// location looks up and caches a uniform. Unknown names resolve to -1,
// which GL silently ignores on upload.
func (p *Program) location(name string) int32 {
	if loc, ok := p.uniforms[name]; ok {
		return loc
	}
	loc := GetUniform(p.id, name)
	p.uniforms[name] = loc
	return loc
}
