package math

import "github.com/go-gl/mathgl/mgl32"

// Quat is a rotation quaternion with W as the scalar part, matching the
// component order glTF stores rotations in.
type Quat struct {
	X, Y, Z, W float32
}

func (q Quat) gl() mgl32.Quat {
	return mgl32.Quat{W: q.W, V: mgl32.Vec3{q.X, q.Y, q.Z}}
}

func quatFromGL(q mgl32.Quat) Quat {
	return Quat{X: q.V[0], Y: q.V[1], Z: q.V[2], W: q.W}
}

// QuatIdentity returns the identity rotation.
func QuatIdentity() Quat { return Quat{W: 1} }

// QuatFromAxisAngle rotates angle radians around a unit axis.
func QuatFromAxisAngle(axis Vec3, angle float32) Quat {
	return quatFromGL(mgl32.QuatRotate(angle, axis.gl()))
}

// QuatFromEuler builds Rx * Ry * Rz from angles in radians.
func QuatFromEuler(x, y, z float32) Quat {
	qx := mgl32.QuatRotate(x, mgl32.Vec3{1, 0, 0})
	qy := mgl32.QuatRotate(y, mgl32.Vec3{0, 1, 0})
	qz := mgl32.QuatRotate(z, mgl32.Vec3{0, 0, 1})
	return quatFromGL(qx.Mul(qy).Mul(qz))
}

// Normalize returns a unit quaternion. Degenerate input yields identity.
func (q Quat) Normalize() Quat {
	if q.gl().Len() < 1e-4 {
		return QuatIdentity()
	}
	return quatFromGL(q.gl().Normalize())
}

func (q Quat) Dot(other Quat) float32 { return q.gl().Dot(other.gl()) }

// Mul returns q * other, so other is applied first.
func (q Quat) Mul(other Quat) Quat {
	return quatFromGL(q.gl().Mul(other.gl()))
}

// Slerp interpolates along the shorter arc. Both ends are normalized.
func (q Quat) Slerp(other Quat, t float32) Quat {
	return quatFromGL(mgl32.QuatSlerp(q.Normalize().gl(), other.Normalize().gl(), t))
}

// Rotate applies the rotation to v.
func (q Quat) Rotate(v Vec3) Vec3 {
	return fromGL(q.gl().Rotate(v.gl()))
}

// ToMat4 returns the rotation matrix of the normalized quaternion.
func (q Quat) ToMat4() Mat4 {
	return Mat4(q.Normalize().gl().Mat4())
}
