// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package linear

import "math"

func sqrt32(f float32) float32 { return float32(math.Sqrt(float64(f))) }

// M3 is a column-major 3x3 matrix of float32.
type M3 [3]V3

// I makes m an identity matrix.
func (m *M3) I() { *m = M3{{1}, {0, 1}, {0, 0, 1}} }

// Mul sets m to contain l ⋅ r.
func (m *M3) Mul(l, r *M3) {
	*m = M3{}
	for i := range m {
		for j := range m {
			for k := range m {
				m[i][j] += l[k][j] * r[i][k]
			}
		}
	}
}

// Transpose sets m to contain the transpose of n.
func (m *M3) Transpose(n *M3) {
	for i := range m {
		m[i][i] = n[i][i]
		for j := i + 1; j < len(m); j++ {
			m[i][j], m[j][i] = n[j][i], n[i][j]
		}
	}
}

// Invert sets m to contain the inverse of n.
func (m *M3) Invert(n *M3) {
	s0 := n[1][1]*n[2][2] - n[1][2]*n[2][1]
	s1 := n[1][0]*n[2][2] - n[1][2]*n[2][0]
	s2 := n[1][0]*n[2][1] - n[1][1]*n[2][0]
	idet := 1 / (n[0][0]*s0 - n[0][1]*s1 + n[0][2]*s2)
	m[0][0] = s0 * idet
	m[0][1] = -(n[0][1]*n[2][2] - n[0][2]*n[2][1]) * idet
	m[0][2] = (n[0][1]*n[1][2] - n[0][2]*n[1][1]) * idet
	m[1][0] = -s1 * idet
	m[1][1] = (n[0][0]*n[2][2] - n[0][2]*n[2][0]) * idet
	m[1][2] = -(n[0][0]*n[1][2] - n[0][2]*n[1][0]) * idet
	m[2][0] = s2 * idet
	m[2][1] = -(n[0][0]*n[2][1] - n[0][1]*n[2][0]) * idet
	m[2][2] = (n[0][0]*n[1][1] - n[0][1]*n[1][0]) * idet
}

// M4 is a column-major 4x4 matrix of float32.
type M4 [4]V4

// I makes m an identity matrix.
func (m *M4) I() { *m = M4{{1}, {0, 1}, {0, 0, 1}, {0, 0, 0, 1}} }

// Mul sets m to contain l ⋅ r.
func (m *M4) Mul(l, r *M4) {
	*m = M4{}
	for i := range m {
		for j := range m {
			for k := range m {
				m[i][j] += l[k][j] * r[i][k]
			}
		}
	}
}

// Transpose sets m to contain the transpose of n.
func (m *M4) Transpose(n *M4) {
	for i := range m {
		m[i][i] = n[i][i]
		for j := i + 1; j < len(m); j++ {
			m[i][j], m[j][i] = n[j][i], n[i][j]
		}
	}
}

// Invert sets m to contain the inverse of n.
func (m *M4) Invert(n *M4) {
	s0 := n[0][0]*n[1][1] - n[0][1]*n[1][0]
	s1 := n[0][0]*n[1][2] - n[0][2]*n[1][0]
	s2 := n[0][0]*n[1][3] - n[0][3]*n[1][0]
	s3 := n[0][1]*n[1][2] - n[0][2]*n[1][1]
	s4 := n[0][1]*n[1][3] - n[0][3]*n[1][1]
	s5 := n[0][2]*n[1][3] - n[0][3]*n[1][2]
	c0 := n[2][0]*n[3][1] - n[2][1]*n[3][0]
	c1 := n[2][0]*n[3][2] - n[2][2]*n[3][0]
	c2 := n[2][0]*n[3][3] - n[2][3]*n[3][0]
	c3 := n[2][1]*n[3][2] - n[2][2]*n[3][1]
	c4 := n[2][1]*n[3][3] - n[2][3]*n[3][1]
	c5 := n[2][2]*n[3][3] - n[2][3]*n[3][2]
	idet := 1 / (s0*c5 - s1*c4 + s2*c3 + s3*c2 - s4*c1 + s5*c0)
	m[0][0] = (c5*n[1][1] - c4*n[1][2] + c3*n[1][3]) * idet
	m[0][1] = (-c5*n[0][1] + c4*n[0][2] - c3*n[0][3]) * idet
	m[0][2] = (s5*n[3][1] - s4*n[3][2] + s3*n[3][3]) * idet
	m[0][3] = (-s5*n[2][1] + s4*n[2][2] - s3*n[2][3]) * idet
	m[1][0] = (-c5*n[1][0] + c2*n[1][2] - c1*n[1][3]) * idet
	m[1][1] = (c5*n[0][0] - c2*n[0][2] + c1*n[0][3]) * idet
	m[1][2] = (-s5*n[3][0] + s2*n[3][2] - s1*n[3][3]) * idet
	m[1][3] = (s5*n[2][0] - s2*n[2][2] + s1*n[2][3]) * idet
	m[2][0] = (c4*n[1][0] - c2*n[1][1] + c0*n[1][3]) * idet
	m[2][1] = (-c4*n[0][0] + c2*n[0][1] - c0*n[0][3]) * idet
	m[2][2] = (s4*n[3][0] - s2*n[3][1] + s0*n[3][3]) * idet
	m[2][3] = (-s4*n[2][0] + s2*n[2][1] - s0*n[2][3]) * idet
	m[3][0] = (-c3*n[1][0] + c1*n[1][1] - c0*n[1][2]) * idet
	m[3][1] = (c3*n[0][0] - c1*n[0][1] + c0*n[0][2]) * idet
	m[3][2] = (-s3*n[3][0] + s1*n[3][1] - s0*n[3][2]) * idet
	m[3][3] = (s3*n[2][0] - s1*n[2][1] + s0*n[2][2]) * idet
}

// SetTRS sets m to the composition T ⋅ R ⋅ S of the given
// translation, rotation and scale. r must be normalized.
func (m *M4) SetTRS(t *V3, r *Q, s *V3) {
	r.Mat4(m)
	for i := 0; i < 3; i++ {
		m[0][i] *= s[0]
		m[1][i] *= s[1]
		m[2][i] *= s[2]
	}
	m[3][0] = t[0]
	m[3][1] = t[1]
	m[3][2] = t[2]
}

// DecomposeTRS extracts translation, rotation and scale from m,
// assuming m has no shear or perspective component (as glTF node
// matrices never do). A negative determinant is folded into the X
// scale, matching the convention used by the rest of the pipeline
// for mirrored nodes.
func (m *M4) DecomposeTRS(t *V3, r *Q, s *V3) {
	*t = V3{m[3][0], m[3][1], m[3][2]}

	c0 := V3{m[0][0], m[0][1], m[0][2]}
	c1 := V3{m[1][0], m[1][1], m[1][2]}
	c2 := V3{m[2][0], m[2][1], m[2][2]}
	sx, sy, sz := c0.Len(), c1.Len(), c2.Len()

	var cross V3
	cross.Cross(&c1, &c2)
	if c0.Dot(&cross) < 0 {
		sx = -sx
	}
	*s = V3{sx, sy, sz}

	var rm M3
	if sx != 0 {
		rm[0] = V3{c0[0] / sx, c0[1] / sx, c0[2] / sx}
	}
	if sy != 0 {
		rm[1] = V3{c1[0] / sy, c1[1] / sy, c1[2] / sy}
	}
	if sz != 0 {
		rm[2] = V3{c2[0] / sz, c2[1] / sz, c2[2] / sz}
	}
	quatFromM3(r, &rm)
}

// quatFromM3 sets q to the rotation quaternion equivalent to the
// orthonormal rotation matrix m, using the standard trace-based
// extraction with axis-dependent fallbacks.
func quatFromM3(q *Q, m *M3) {
	tr := m[0][0] + m[1][1] + m[2][2]
	switch {
	case tr > 0:
		s := sqrt32(tr+1) * 2
		q.R = 0.25 * s
		q.V[0] = (m[1][2] - m[2][1]) / s
		q.V[1] = (m[2][0] - m[0][2]) / s
		q.V[2] = (m[0][1] - m[1][0]) / s
	case m[0][0] > m[1][1] && m[0][0] > m[2][2]:
		s := sqrt32(1+m[0][0]-m[1][1]-m[2][2]) * 2
		q.R = (m[1][2] - m[2][1]) / s
		q.V[0] = 0.25 * s
		q.V[1] = (m[1][0] + m[0][1]) / s
		q.V[2] = (m[2][0] + m[0][2]) / s
	case m[1][1] > m[2][2]:
		s := sqrt32(1+m[1][1]-m[0][0]-m[2][2]) * 2
		q.R = (m[2][0] - m[0][2]) / s
		q.V[0] = (m[1][0] + m[0][1]) / s
		q.V[1] = 0.25 * s
		q.V[2] = (m[2][1] + m[1][2]) / s
	default:
		s := sqrt32(1+m[2][2]-m[0][0]-m[1][1]) * 2
		q.R = (m[0][1] - m[1][0]) / s
		q.V[0] = (m[2][0] + m[0][2]) / s
		q.V[1] = (m[2][1] + m[1][2]) / s
		q.V[2] = 0.25 * s
	}
}
