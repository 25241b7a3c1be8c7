package math

// Transform places a surface in the world: scale first, then rotation about
// an axis, then translation.
type Transform struct {
	Scale         Vec3
	Translate     Vec3
	RotationAxis  Vec3
	RotationAngle float32 // degrees
}

// IdentityTransform returns a transform that leaves geometry unchanged.
func IdentityTransform() Transform {
	return Transform{
		Scale:        Vec3{1, 1, 1},
		RotationAxis: Vec3{0, 1, 0},
	}
}

// Matrix returns the model matrix Translate * Rotate * Scale.
func (t Transform) Matrix() Mat4 {
	m := Translate(t.Translate.X, t.Translate.Y, t.Translate.Z)
	return m.Mul(t.rotation()).Mul(Scale(t.Scale.X, t.Scale.Y, t.Scale.Z))
}

// NormalMatrix returns the matrix that carries surface normals through the
// transform: Rotate * Scale^-1. Its results need renormalizing. A zero
// scale component maps that normal component to zero.
func (t Transform) NormalMatrix() Mat4 {
	return t.rotation().Mul(Scale(inv(t.Scale.X), inv(t.Scale.Y), inv(t.Scale.Z)))
}

func (t Transform) rotation() Mat4 {
	axis := t.RotationAxis.Normalize()
	if t.RotationAngle == 0 || axis.IsZero() {
		return Identity()
	}
	return RotateAxis(axis.Array(), Radians(t.RotationAngle))
}

func inv(s float32) float32 {
	if s == 0 {
		return 0
	}
	return 1 / s
}
