// Copyright 2024 The kxgraphics Authors. All rights reserved.

package scenegraph

import "testing"

func TestNewNode(t *testing.T) {
	n := NewNode("root")
	if n.Name != "root" {
		t.Fatalf("Name\nhave %s\nwant root", n.Name)
	}
	if !n.Visible {
		t.Fatal("Visible\nhave false\nwant true")
	}
	if n.Scale != DefaultScale {
		t.Fatalf("Scale\nhave %v\nwant %v", n.Scale, DefaultScale)
	}
	if n.Rotation.R != 1 {
		t.Fatalf("Rotation.R\nhave %v\nwant 1", n.Rotation.R)
	}
}

func TestAttributeCount(t *testing.T) {
	cases := []struct {
		name string
		attr Attribute
		want int
	}{
		{"float32 vec3", Attribute{Data: []float32{0, 0, 0, 1, 1, 1}, ItemSize: 3}, 2},
		{"uint16 scalar", Attribute{Data: []uint16{0, 1, 2, 3}, ItemSize: 1}, 4},
		{"uint8 vec4", Attribute{Data: []uint8{0, 0, 0, 255, 1, 1, 1, 255}, ItemSize: 4}, 2},
		{"unsupported type", Attribute{Data: "not a slice", ItemSize: 3}, 0},
	}
	for _, c := range cases {
		if got := c.attr.Count(); got != c.want {
			t.Errorf("%s: Count()\nhave %d\nwant %d", c.name, got, c.want)
		}
	}
}

func TestAttributeUID(t *testing.T) {
	a := &Attribute{Data: []float32{0, 1, 2}, ItemSize: 1}
	var next uint32
	alloc := func() uint32 { next++; return next }

	first := a.UID(alloc)
	if first == 0 {
		t.Fatal("UID returned 0 on first assignment")
	}
	second := a.UID(alloc)
	if second != first {
		t.Fatalf("UID not stable across calls\nhave %d\nwant %d", second, first)
	}
	if next != 1 {
		t.Fatalf("allocator invoked %d times, want 1", next)
	}
}
