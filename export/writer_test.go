// Copyright 2024 The kxgraphics Authors. All rights reserved.

package export

import (
	"bytes"
	"errors"
	"testing"

	"kxgraphics/gltfwriter/gltf"
	"kxgraphics/gltfwriter/scenegraph"
)

func cubeAttr() *scenegraph.Attribute {
	return &scenegraph.Attribute{
		Data:     []float32{-1, -1, 0, 1, -1, 0, 0, 1, 0},
		ItemSize: 3,
	}
}

func triangleGeometry(uuid string) *scenegraph.Geometry {
	return &scenegraph.Geometry{
		UUID: uuid,
		Attributes: map[string]*scenegraph.Attribute{
			"POSITION": cubeAttr(),
		},
		Index: &scenegraph.Attribute{Data: []uint16{0, 1, 2}, ItemSize: 1},
	}
}

func TestWriteEmptyInput(t *testing.T) {
	_, err := (Writer{}).Write(nil, NewOptions())
	if err == nil {
		t.Fatal("expected an error for empty input")
	}
}

func TestWriteMinimalScene(t *testing.T) {
	n := scenegraph.NewNode("tri")
	n.Mesh = &scenegraph.Mesh{Geometry: triangleGeometry("tri-1")}

	res, err := (Writer{}).Write([]*scenegraph.Node{n}, NewOptions())
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if len(res.JSON) == 0 {
		t.Fatal("JSON result empty")
	}
	if len(res.GLB) != 0 {
		t.Fatal("GLB result should be empty when Options.Binary is false")
	}

	doc, err := gltf.Decode(bytes.NewReader(res.JSON))
	if err != nil {
		t.Fatalf("decoding output: %v", err)
	}
	if len(doc.Nodes) != 1 {
		t.Fatalf("len(Nodes)\nhave %d\nwant 1", len(doc.Nodes))
	}
	if len(doc.Meshes) != 1 {
		t.Fatalf("len(Meshes)\nhave %d\nwant 1", len(doc.Meshes))
	}
	if len(doc.Accessors) != 2 {
		t.Fatalf("len(Accessors)\nhave %d\nwant 2 (position + index)", len(doc.Accessors))
	}
}

func TestWriteBinary(t *testing.T) {
	n := scenegraph.NewNode("tri")
	n.Mesh = &scenegraph.Mesh{Geometry: triangleGeometry("tri-2")}

	opts := NewOptions()
	opts.Binary = true
	res, err := (Writer{}).Write([]*scenegraph.Node{n}, opts)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if len(res.GLB) == 0 {
		t.Fatal("GLB result empty")
	}
	if len(res.JSON) != 0 {
		t.Fatal("JSON result should be empty when Options.Binary is true")
	}
	if string(res.GLB[:4]) != "glTF" {
		t.Fatalf("GLB magic\nhave %q\nwant glTF", res.GLB[:4])
	}
}

func TestWriteDedupMeshByGeometryAndMaterials(t *testing.T) {
	geo := triangleGeometry("shared")
	mat := &scenegraph.Material{UUID: "m1", Name: "mat"}

	a := scenegraph.NewNode("a")
	a.Mesh = &scenegraph.Mesh{Geometry: geo, Materials: []*scenegraph.Material{mat}}
	b := scenegraph.NewNode("b")
	b.Mesh = &scenegraph.Mesh{Geometry: geo, Materials: []*scenegraph.Material{mat}}

	root := scenegraph.NewNode("root")
	root.Children = []*scenegraph.Node{a, b}

	res, err := (Writer{}).Write([]*scenegraph.Node{root}, NewOptions())
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	doc, err := gltf.Decode(bytes.NewReader(res.JSON))
	if err != nil {
		t.Fatalf("decoding output: %v", err)
	}
	if len(doc.Meshes) != 1 {
		t.Fatalf("len(Meshes)\nhave %d\nwant 1 (deduplicated)", len(doc.Meshes))
	}
	if len(doc.Materials) != 1 {
		t.Fatalf("len(Materials)\nhave %d\nwant 1 (deduplicated)", len(doc.Materials))
	}
}

func TestProcessMaterialSkipsUnsupportedShader(t *testing.T) {
	w := newTestWriteState()
	m := &scenegraph.Material{Name: "custom", Shader: "ShaderMaterial"}
	idx, err := w.processMaterial(m)
	if err != nil {
		t.Fatalf("processMaterial: %v", err)
	}
	if idx != -1 {
		t.Fatalf("index\nhave %d\nwant -1 (skip)", idx)
	}
}

func TestSkinRejectsBoneOutsideHierarchy(t *testing.T) {
	w := newTestWriteState()
	outsider := scenegraph.NewNode("outsider")
	skin := &scenegraph.Skin{Name: "rig", Bones: []*scenegraph.Node{outsider}}
	err := w.processSkin(skinJob{node: scenegraph.NewNode("n"), nodeIdx: 0, skin: skin})
	if err == nil {
		t.Fatal("expected an error for a bone outside the exported hierarchy")
	}
	var e *Error
	if !errors.As(err, &e) || e.Kind != UnsupportedInput {
		t.Fatalf("error kind\nhave %v\nwant UnsupportedInput", err)
	}
}

func TestMergeMorphTargetTracksCombinesByIndex(t *testing.T) {
	node := scenegraph.NewNode("morphed")
	tracks := []*scenegraph.Track{
		{Node: node, Path: scenegraph.PathMorphWeight, MorphIndex: 0, Times: []float32{0, 1}, Values: []float32{0, 1}},
		{Node: node, Path: scenegraph.PathMorphWeight, MorphIndex: 1, Times: []float32{0, 1}, Values: []float32{1, 0}},
	}
	merged, err := mergeMorphTargetTracks(tracks)
	if err != nil {
		t.Fatalf("mergeMorphTargetTracks: %v", err)
	}
	if len(merged) != 1 {
		t.Fatalf("len(merged)\nhave %d\nwant 1", len(merged))
	}
	if merged[0].Path != scenegraph.PathMorphWeights {
		t.Fatalf("Path\nhave %v\nwant PathMorphWeights", merged[0].Path)
	}
	if merged[0].MorphCount != 2 {
		t.Fatalf("MorphCount\nhave %d\nwant 2", merged[0].MorphCount)
	}
}

func TestMergeMorphTargetTracksRejectsCubicSpline(t *testing.T) {
	node := scenegraph.NewNode("morphed")
	tracks := []*scenegraph.Track{
		{Node: node, Path: scenegraph.PathMorphWeight, MorphIndex: 0, Interpolation: scenegraph.CubicSpline, Times: []float32{0}, Values: []float32{0}},
	}
	_, err := mergeMorphTargetTracks(tracks)
	if err == nil {
		t.Fatal("expected an error for a CUBICSPLINE morph target track")
	}
}

func TestProcessAnimationDropsTracksOutsideHierarchy(t *testing.T) {
	w := newTestWriteState()
	clip := &scenegraph.AnimationClip{
		Name: "clip",
		Tracks: []*scenegraph.Track{
			{Node: scenegraph.NewNode("not exported"), Path: scenegraph.PathTranslation, Times: []float32{0}, Values: []float32{0, 0, 0}},
		},
	}
	if err := w.processAnimation(clip); err != nil {
		t.Fatalf("processAnimation: %v", err)
	}
	if len(w.doc.Animations) != 0 {
		t.Fatalf("len(Animations)\nhave %d\nwant 0 (track dropped)", len(w.doc.Animations))
	}
}

func TestPluginHookErrorAbortsWrite(t *testing.T) {
	Register(Plugin{
		Name: "test-failing-plugin",
		WriteNode: func(w *writeState, src *scenegraph.Node, dst *gltf.Node) error {
			return newErr(UnsupportedInput, "deliberate failure")
		},
	})
	defer Unregister("test-failing-plugin")

	n := scenegraph.NewNode("n")
	_, err := (Writer{}).Write([]*scenegraph.Node{n}, NewOptions())
	if err == nil {
		t.Fatal("expected the write to abort when a plug-in hook errors")
	}
}

func TestOnlyVisibleSkipsInvisibleNodes(t *testing.T) {
	root := scenegraph.NewNode("root")
	hidden := scenegraph.NewNode("hidden")
	hidden.Visible = false
	root.Children = []*scenegraph.Node{hidden}

	res, err := (Writer{}).Write([]*scenegraph.Node{root}, NewOptions())
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	doc, err := gltf.Decode(bytes.NewReader(res.JSON))
	if err != nil {
		t.Fatalf("decoding output: %v", err)
	}
	if len(doc.Nodes) != 1 {
		t.Fatalf("len(Nodes)\nhave %d\nwant 1 (hidden child skipped)", len(doc.Nodes))
	}
}
