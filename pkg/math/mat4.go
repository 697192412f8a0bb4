package math

import "github.com/go-gl/mathgl/mgl32"

// Mat4 is a 4x4 matrix in column-major order, the same memory layout as
// mgl32.Mat4 and OpenGL uniforms. Element (row r, column c) is m[c*4+r].
type Mat4 [16]float32

// GL returns the matrix as an mgl32 value.
func (m Mat4) GL() mgl32.Mat4 { return mgl32.Mat4(m) }

// Identity returns an identity matrix.
func Identity() Mat4 { return Mat4(mgl32.Ident4()) }

// Translate returns a translation matrix.
func Translate(x, y, z float32) Mat4 { return Mat4(mgl32.Translate3D(x, y, z)) }

// Scale returns a scale matrix.
func Scale(x, y, z float32) Mat4 { return Mat4(mgl32.Scale3D(x, y, z)) }

// RotateX returns a right-handed rotation about X in radians. RotateY and
// RotateZ follow the same convention.
func RotateX(angle float32) Mat4 { return Mat4(mgl32.HomogRotate3DX(angle)) }

func RotateY(angle float32) Mat4 { return Mat4(mgl32.HomogRotate3DY(angle)) }

func RotateZ(angle float32) Mat4 { return Mat4(mgl32.HomogRotate3DZ(angle)) }

// Mul returns m * other, so other is applied first.
func (m Mat4) Mul(other Mat4) Mat4 {
	return Mat4(m.GL().Mul4(other.GL()))
}

// TransformVec3 transforms a point (w=1). Projective results are divided by w.
func (m Mat4) TransformVec3(v Vec3) Vec3 {
	r := m.GL().Mul4x1(v.gl().Vec4(1))
	if r[3] != 0 && r[3] != 1 {
		r = r.Mul(1 / r[3])
	}
	return Vec3{r[0], r[1], r[2]}
}

// Compose builds T * R * S. The rotation is normalized first.
func Compose(t Vec3, r Quat, s Vec3) Mat4 {
	m := r.Normalize().gl().Mat4()
	for col, k := range [3]float32{s.X, s.Y, s.Z} {
		m.SetCol(col, m.Col(col).Mul(k))
	}
	m.SetCol(3, t.gl().Vec4(1))
	return Mat4(m)
}

// Translation returns the translation column of an affine matrix.
func (m Mat4) Translation() Vec3 {
	return Vec3{m[12], m[13], m[14]}
}
