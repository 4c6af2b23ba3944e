// Copyright 2024 The kxgraphics Authors. All rights reserved.

package linear

import (
	"math"
	"testing"
)

func almostEqual(a, b, eps float32) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= eps
}

func v3AlmostEqual(a, b V3, eps float32) bool {
	for i := range a {
		if !almostEqual(a[i], b[i], eps) {
			return false
		}
	}
	return true
}

func TestV3(t *testing.T) {
	v := V3{1, 2, 4}
	w := V3{0, -1, 2}

	var u V3
	u.Add(&v, &w)
	if u != (V3{1, 1, 6}) {
		t.Fatalf("Add\nhave %v\nwant [1 1 6]", u)
	}
	u.Sub(&v, &w)
	if u != (V3{1, 3, 2}) {
		t.Fatalf("Sub\nhave %v\nwant [1 3 2]", u)
	}
	u.Scale(-1, &v)
	if u != (V3{-1, -2, -4}) {
		t.Fatalf("Scale\nhave %v\nwant [-1 -2 -4]", u)
	}
	if d := v.Dot(&w); d != 6 {
		t.Fatalf("Dot\nhave %v\nwant 6", d)
	}
	if d := v.Dot(&v); d != 21 {
		t.Fatalf("Dot\nhave %v\nwant 21", d)
	}
	if l := v.Len(); l != float32(math.Sqrt(21)) {
		t.Fatalf("Len\nhave %v\nwant %v", l, math.Sqrt(21))
	}

	nz := V3{0, 0, -2}
	ny := V3{0, 4, 0}
	var n V3
	n.Norm(&nz)
	if n != (V3{0, 0, -1}) {
		t.Fatalf("Norm\nhave %v\nwant [0 0 -1]", n)
	}
	n.Norm(&ny)
	if n != (V3{0, 1, 0}) {
		t.Fatalf("Norm\nhave %v\nwant [0 1 0]", n)
	}

	x := V3{1, 0, 0}
	y := V3{0, 1, 0}
	var c V3
	c.Cross(&x, &y)
	if c != (V3{0, 0, 1}) {
		t.Fatalf("Cross\nhave %v\nwant [0 0 1]", c)
	}
	c.Cross(&y, &x)
	if c != (V3{0, 0, -1}) {
		t.Fatalf("Cross\nhave %v\nwant [0 0 -1]", c)
	}
}

func TestM4Identity(t *testing.T) {
	var m M4
	m.I()
	v := V4{1, 2, 3, 1}
	var u V4
	u.Mul(&m, &v)
	if u != v {
		t.Fatalf("Mul by identity\nhave %v\nwant %v", u, v)
	}
}

func TestM4InvertIdentity(t *testing.T) {
	var m, inv M4
	m.I()
	inv.Invert(&m)
	if inv != m {
		t.Fatalf("Invert(I)\nhave %v\nwant %v", inv, m)
	}
}

func TestM4InvertRoundTrip(t *testing.T) {
	m := M4{
		{1, 0, 0, 0},
		{0, 2, 0, 0},
		{0, 0, 1, 0},
		{3, -1, 5, 1},
	}
	var inv, id M4
	inv.Invert(&m)
	id.Mul(&m, &inv)
	var want M4
	want.I()
	const eps = 1e-4
	for i := range id {
		for j := range id[i] {
			if !almostEqual(id[i][j], want[i][j], eps) {
				t.Fatalf("Mul(m, Invert(m))\nhave %v\nwant %v", id, want)
			}
		}
	}
}

func TestSetTRSTranslationOnly(t *testing.T) {
	tr := V3{1, 2, 3}
	var rot Q
	rot.I()
	sc := V3{1, 1, 1}
	var m M4
	m.SetTRS(&tr, &rot, &sc)

	p := V4{0, 0, 0, 1}
	var out V4
	out.Mul(&m, &p)
	if out != (V4{1, 2, 3, 1}) {
		t.Fatalf("SetTRS translation\nhave %v\nwant [1 2 3 1]", out)
	}
}

func TestSetTRSScaleOnly(t *testing.T) {
	var tr V3
	var rot Q
	rot.I()
	sc := V3{2, 3, 4}
	var m M4
	m.SetTRS(&tr, &rot, &sc)

	p := V4{1, 1, 1, 1}
	var out V4
	out.Mul(&m, &p)
	if out != (V4{2, 3, 4, 1}) {
		t.Fatalf("SetTRS scale\nhave %v\nwant [2 3 4 1]", out)
	}
}

func TestTRSRoundTrip(t *testing.T) {
	tr := V3{5, -2, 0.5}
	sc := V3{1, 2, 0.5}
	// 90 degree rotation about Z: (0,0,sin45,cos45)
	s := float32(math.Sqrt2) / 2
	rot := Q{V: V3{0, 0, s}, R: s}

	var m M4
	m.SetTRS(&tr, &rot, &sc)

	var t2 V3
	var r2 Q
	var s2 V3
	m.DecomposeTRS(&t2, &r2, &s2)

	const eps = 1e-3
	if !v3AlmostEqual(t2, tr, eps) {
		t.Fatalf("DecomposeTRS translation\nhave %v\nwant %v", t2, tr)
	}
	if !v3AlmostEqual(s2, sc, eps) {
		t.Fatalf("DecomposeTRS scale\nhave %v\nwant %v", s2, sc)
	}

	var m2 M4
	m2.SetTRS(&t2, &r2, &s2)
	for i := range m {
		for j := range m[i] {
			if !almostEqual(m[i][j], m2[i][j], eps) {
				t.Fatalf("re-composed matrix diverges\nhave %v\nwant %v", m2, m)
			}
		}
	}
}

func TestQMulIdentity(t *testing.T) {
	var id, p, out Q
	id.I()
	p = Q{V: V3{0.1, 0.2, 0.3}, R: 0.9}
	out.Mul(&id, &p)
	if out != p {
		t.Fatalf("Mul(I, p)\nhave %v\nwant %v", out, p)
	}
}

func TestQNorm(t *testing.T) {
	p := Q{V: V3{0, 0, 3}, R: 4}
	var q Q
	q.Norm(&p)
	if l := q.Len(); !almostEqual(l, 1, 1e-6) {
		t.Fatalf("Len after Norm\nhave %v\nwant 1", l)
	}
}
