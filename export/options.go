// Copyright 2024 The kxgraphics Authors. All rights reserved.

package export

import "kxgraphics/gltfwriter/scenegraph"

// Options configures one Write call.
type Options struct {
	// Binary, when true, emits a GLB container instead of a JSON
	// document with a base64 data: URI buffer.
	Binary bool

	// TRS, when true, emits translation/rotation/scale on nodes
	// instead of a single matrix. Forced true internally whenever
	// Animations is non-empty, since animated properties must be
	// independently addressable.
	TRS bool

	// OnlyVisible skips nodes whose Visible flag is false. Defaults
	// to true in NewOptions; the zero value is false, so callers
	// constructing Options by hand must set it explicitly.
	OnlyVisible bool

	// MaxTextureSize clamps image dimensions on both axes. Zero means
	// unbounded.
	MaxTextureSize int

	// Animations is the ordered list of clips to bake.
	Animations []*scenegraph.AnimationClip

	// IncludeCustomExtensions copies each Node's UserData into the
	// emitted node's extensions map.
	IncludeCustomExtensions bool

	// Observer receives Degradation diagnostics. Nil uses a discard
	// observer.
	Observer Observer
}

// NewOptions returns the documented defaults: OnlyVisible true,
// everything else zero-valued.
func NewOptions() Options {
	return Options{OnlyVisible: true}
}

// Result is the product of a Write call: exactly one of JSON or GLB
// is populated, matching opts.Binary.
type Result struct {
	// JSON holds the glTF document bytes when Options.Binary is false.
	JSON []byte
	// GLB holds the framed binary container when Options.Binary is true.
	GLB []byte
}
