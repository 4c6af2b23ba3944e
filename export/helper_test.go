// Copyright 2024 The kxgraphics Authors. All rights reserved.

package export

import (
	"kxgraphics/gltfwriter/gltf"
	"kxgraphics/gltfwriter/scenegraph"
)

// newTestWriteState builds a writeState with the same zero-value
// wiring Write uses, for unit tests that exercise one processing step
// in isolation rather than a full Write call. The image pool is left
// nil; none of these tests reach a code path that submits to it.
func newTestWriteState() *writeState {
	return &writeState{
		opts:          NewOptions(),
		doc:           &gltf.GLTF{Asset: gltf.Asset{Version: "2.0"}},
		nodeMap:       make(map[*scenegraph.Node]int),
		accessorCache: make(map[accessorKey]int),
		imageCache:    make(map[imageKey]int),
		textureCache:  make(map[*scenegraph.Texture]int),
		materialCache: make(map[*scenegraph.Material]int),
		meshCache:     make(map[string]int),
		cameraCache:   make(map[*scenegraph.Camera]int),
		uid:           newUIDAllocator(),
		extUsed:       make(map[string]bool),
		extRequired:   make(map[string]bool),
		observer:      discardObserver{},
		lightCache:    make(map[*scenegraph.Light]int),
	}
}
