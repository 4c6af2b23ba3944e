// Copyright 2024 The kxgraphics Authors. All rights reserved.

package export

import (
	"testing"

	"kxgraphics/gltfwriter/gltf"
	"kxgraphics/gltfwriter/scenegraph"
)

func TestProcessAccessorSkipsZeroCount(t *testing.T) {
	w := newTestWriteState()
	attr := &scenegraph.Attribute{Data: []float32{1, 2, 3}, ItemSize: 3}
	idx, err := w.processAccessor(attr, false, 0, 0)
	if err != nil {
		t.Fatalf("processAccessor: %v", err)
	}
	if idx != -1 {
		t.Fatalf("index\nhave %d\nwant -1 (skip)", idx)
	}
}

func TestProcessAccessorDedupsByUIDAndRange(t *testing.T) {
	w := newTestWriteState()
	attr := &scenegraph.Attribute{Data: []float32{1, 2, 3, 4, 5, 6}, ItemSize: 3}
	a, err := w.processAccessor(attr, false, 0, 1)
	if err != nil {
		t.Fatalf("processAccessor: %v", err)
	}
	b, err := w.processAccessor(attr, false, 0, 1)
	if err != nil {
		t.Fatalf("processAccessor: %v", err)
	}
	if a != b {
		t.Fatalf("same (attribute, range) should dedup: %d != %d", a, b)
	}
	c, err := w.processAccessor(attr, false, 1, 1)
	if err != nil {
		t.Fatalf("processAccessor: %v", err)
	}
	if c == a {
		t.Fatal("a different range on the same attribute should not dedup with the first")
	}
	if len(w.doc.Accessors) != 2 {
		t.Fatalf("len(Accessors)\nhave %d\nwant 2", len(w.doc.Accessors))
	}
}

func TestProcessAccessorComputesMinMax(t *testing.T) {
	w := newTestWriteState()
	attr := &scenegraph.Attribute{
		Data:     []float32{-1, 0, 1, 2, 5, -3},
		ItemSize: 3,
	}
	idx, err := w.processAccessor(attr, false, 0, 2)
	if err != nil {
		t.Fatalf("processAccessor: %v", err)
	}
	acc := w.doc.Accessors[idx]
	wantMin := []float32{-1, 0, -3}
	wantMax := []float32{2, 5, 1}
	for i := range wantMin {
		if acc.Min[i] != wantMin[i] {
			t.Errorf("Min[%d]\nhave %v\nwant %v", i, acc.Min[i], wantMin[i])
		}
		if acc.Max[i] != wantMax[i] {
			t.Errorf("Max[%d]\nhave %v\nwant %v", i, acc.Max[i], wantMax[i])
		}
	}
}

func TestProcessBufferViewAlignsVertexStrideTo4Bytes(t *testing.T) {
	w := newTestWriteState()
	// 3 uint8 components = 3 bytes/element, rounds up to a stride of 4.
	attr := &scenegraph.Attribute{Data: []uint8{1, 2, 3, 4, 5, 6}, ItemSize: 3}
	idx, err := w.processBufferView(attr, false, 0, 2, gltf.ComponentUnsignedByte, 1)
	if err != nil {
		t.Fatalf("processBufferView: %v", err)
	}
	bv := w.doc.BufferViews[idx]
	if bv.ByteStride != 4 {
		t.Fatalf("ByteStride\nhave %d\nwant 4", bv.ByteStride)
	}
	if bv.Target != gltf.TargetArrayBuffer {
		t.Fatalf("Target\nhave %d\nwant TargetArrayBuffer", bv.Target)
	}
}

func TestProcessBufferViewIndexHasNoStride(t *testing.T) {
	w := newTestWriteState()
	attr := &scenegraph.Attribute{Data: []uint16{0, 1, 2}, ItemSize: 1}
	idx, err := w.processBufferView(attr, true, 0, 3, gltf.ComponentUnsignedShort, 2)
	if err != nil {
		t.Fatalf("processBufferView: %v", err)
	}
	bv := w.doc.BufferViews[idx]
	if bv.ByteStride != 0 {
		t.Fatalf("ByteStride\nhave %d\nwant 0 (index views are tightly packed)", bv.ByteStride)
	}
	if bv.Target != gltf.TargetElementArrayBuffer {
		t.Fatalf("Target\nhave %d\nwant TargetElementArrayBuffer", bv.Target)
	}
}
