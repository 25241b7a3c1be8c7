// Package scene holds the named surfaces of a simulation setup: their
// geometry, placement, color and emit/collect roles.
package scene

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/MetisArom/Sputterer/internal/config"
	"github.com/MetisArom/Sputterer/internal/engine/mesh"
	"github.com/MetisArom/Sputterer/internal/logger"
	"github.com/MetisArom/Sputterer/pkg/math"
)

// Surface is one piece of geometry placed in the scene.
type Surface struct {
	Name string
	File string

	// Emit marks a surface that sputters material; Collect marks one that
	// accumulates it.
	Emit    bool
	Collect bool
	Enabled bool

	Transform math.Transform
	Color     math.Vec3
	Mesh      *mesh.Mesh
}

// NewSurface builds an unloaded surface from its config entry.
func NewSurface(cfg config.SurfaceConfig, opts mesh.Options) *Surface {
	return &Surface{
		Name:    cfg.Name,
		File:    cfg.File,
		Emit:    cfg.Emit,
		Collect: cfg.Collect,
		Enabled: true,
		Transform: math.Transform{
			Scale:         vec(cfg.Scale),
			Translate:     vec(cfg.Translate),
			RotationAxis:  vec(cfg.RotationAxis),
			RotationAngle: cfg.RotationAngle,
		},
		Color: vec(cfg.Color),
		Mesh:  &mesh.Mesh{Options: opts},
	}
}

func vec(a [3]float32) math.Vec3 {
	return math.Vec3{X: a[0], Y: a[1], Z: a[2]}
}

// Load reads the surface geometry from File.
func (s *Surface) Load() error {
	if err := s.Mesh.ReadFromOBJ(s.File); err != nil {
		return fmt.Errorf("surface %q: %w", s.Name, err)
	}
	return nil
}

// Draw renders the surface if it is enabled and has GPU buffers.
func (s *Surface) Draw(ctx mesh.RenderContext) {
	if !s.Enabled {
		return
	}
	s.Mesh.Draw(ctx, s.Transform, s.Color)
}

// Enable shows the surface.
func (s *Surface) Enable() { s.Enabled = true }

// Disable hides the surface without releasing its buffers.
func (s *Surface) Disable() { s.Enabled = false }

// WorldBounds returns the bounding box of the transformed vertices.
func (s *Surface) WorldBounds() mesh.Bounds {
	verts := s.Mesh.Vertices()
	if len(verts) == 0 {
		return mesh.Bounds{}
	}
	m := s.Transform.Matrix()
	p := m.TransformVec3(verts[0].Position)
	b := mesh.Bounds{Min: p, Max: p}
	for _, v := range verts[1:] {
		b = extend(b, m.TransformVec3(v.Position))
	}
	return b
}

func extend(b mesh.Bounds, p math.Vec3) mesh.Bounds {
	b.Min = math.Vec3{X: min(b.Min.X, p.X), Y: min(b.Min.Y, p.Y), Z: min(b.Min.Z, p.Z)}
	b.Max = math.Vec3{X: max(b.Max.X, p.X), Y: max(b.Max.Y, p.Y), Z: max(b.Max.Z, p.Z)}
	return b
}

// Scene is an ordered list of surfaces.
type Scene struct {
	Surfaces []*Surface
}

// Load builds a scene from config entries and reads every surface's OBJ file.
// Files are parsed concurrently since each surface owns its mesh. All
// failures are reported together and no scene is returned.
func Load(surfaces []config.SurfaceConfig, opts mesh.Options) (*Scene, error) {
	log := logger.Named("scene")
	sc := &Scene{Surfaces: make([]*Surface, len(surfaces))}
	for i, cfg := range surfaces {
		sc.Surfaces[i] = NewSurface(cfg, opts)
	}

	errs := make([]error, len(sc.Surfaces))
	var wg sync.WaitGroup
	for i, s := range sc.Surfaces {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = s.Load()
		}()
	}
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	for _, s := range sc.Surfaces {
		log.Info("surface loaded",
			zap.String("name", s.Name),
			zap.String("file", s.File),
			zap.Int("vertices", s.Mesh.NumVertices()),
			zap.Int("triangles", s.Mesh.NumTriangles()),
			zap.Bool("smooth", s.Mesh.Smooth()),
			zap.Bool("emit", s.Emit),
			zap.Bool("collect", s.Collect),
		)
	}
	return sc, nil
}

// Find returns the surface with the given name, or nil.
func (sc *Scene) Find(name string) *Surface {
	for _, s := range sc.Surfaces {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// Emitters returns the surfaces marked Emit.
func (sc *Scene) Emitters() []*Surface {
	var out []*Surface
	for _, s := range sc.Surfaces {
		if s.Emit {
			out = append(out, s)
		}
	}
	return out
}

// Collectors returns the surfaces marked Collect.
func (sc *Scene) Collectors() []*Surface {
	var out []*Surface
	for _, s := range sc.Surfaces {
		if s.Collect {
			out = append(out, s)
		}
	}
	return out
}

// Bounds returns the world bounding box of all non-empty surfaces.
func (sc *Scene) Bounds() mesh.Bounds {
	var b mesh.Bounds
	first := true
	for _, s := range sc.Surfaces {
		if s.Mesh.NumVertices() == 0 {
			continue
		}
		sb := s.WorldBounds()
		if first {
			b, first = sb, false
			continue
		}
		b = extend(extend(b, sb.Min), sb.Max)
	}
	return b
}

// SetBuffers uploads every surface to the GPU. On failure all buffers
// allocated so far are released.
func (sc *Scene) SetBuffers() error {
	for _, s := range sc.Surfaces {
		if err := s.Mesh.SetBuffers(); err != nil {
			sc.Release()
			return fmt.Errorf("surface %q: %w", s.Name, err)
		}
	}
	return nil
}

// Draw renders all enabled surfaces in order.
func (sc *Scene) Draw(ctx mesh.RenderContext) {
	for _, s := range sc.Surfaces {
		s.Draw(ctx)
	}
}

// Release frees all GPU buffers.
func (sc *Scene) Release() {
	for _, s := range sc.Surfaces {
		s.Mesh.Release()
	}
}
