package scene

import "github.com/Faultbox/reflectbox/pkg/math"

// MaxJoints is the largest skeleton the renderer can deform.
const MaxJoints = 128

// Skin binds mesh vertices to a joint hierarchy.
type Skin struct {
	Joints      []*Node
	InverseBind []math.Mat4 // One per joint; identity when absent
}

// JointMatrices returns joint world transform times inverse bind matrix for
// every joint, which maps bind-pose vertices to their posed world position.
func (s *Skin) JointMatrices(dst []math.Mat4) []math.Mat4 {
	dst = dst[:0]
	for i, j := range s.Joints {
		m := j.WorldMatrix()
		if i < len(s.InverseBind) {
			m = m.Mul(s.InverseBind[i])
		}
		dst = append(dst, m)
	}
	return dst
}
