// Copyright 2024 The kxgraphics Authors. All rights reserved.

// Package export implements the glTF 2.0 writer: it walks an
// in-memory scenegraph.Node tree and produces either a JSON glTF
// document or a framed GLB container.
package export

import (
	"bytes"
	"encoding/base64"

	"kxgraphics/gltfwriter/gltf"
	"kxgraphics/gltfwriter/scenegraph"
)

// Writer turns a scene graph into a glTF document. The zero value is
// ready to use; Write carries no state across calls.
type Writer struct{}

// writeState bundles every piece of mutable state one Write call
// builds and discards: the document under construction, the binary
// buffer, the dedup caches, the deferred skin/animation queues, and
// the plug-in/observer wiring. Nothing here survives past Write's
// return.
type writeState struct {
	opts      Options
	trsForced bool

	doc *gltf.GLTF
	bin []byte

	nodeMap map[*scenegraph.Node]int

	accessorCache map[accessorKey]int
	imageCache    map[imageKey]int
	textureCache  map[*scenegraph.Texture]int
	materialCache map[*scenegraph.Material]int
	meshCache     map[string]int
	cameraCache   map[*scenegraph.Camera]int

	skinQueue []skinJob

	uid *uidAllocator

	extUsed          map[string]bool
	extUsedOrder     []string
	extRequired      map[string]bool
	extRequiredOrder []string

	plugins  []Plugin
	observer Observer

	pool          *imagePool
	pendingImages []*pendingImage

	// lightCache and lights back KHR_lights_punctual: the
	// document-level light array lives here rather than in doc
	// directly since doc has no typed field for it (it's an
	// extension object, built at finalize time).
	lightCache map[*scenegraph.Light]int
	lights     []gltf.Light
}

// skinJob is a deferred processSkin call, recorded during traversal
// once nodeMap has the owning node's index but before the full tree
// (and hence every bone) is guaranteed indexed.
type skinJob struct {
	node    *scenegraph.Node
	nodeIdx int
	skin    *scenegraph.Skin
}

// Write walks roots and returns the assembled document or GLB
// container per opts. A fatal condition aborts with no partial
// Result; Degradation diagnostics go to opts.Observer (or are
// discarded) and do not abort the call.
func (Writer) Write(roots []*scenegraph.Node, opts Options) (Result, error) {
	if len(roots) == 0 {
		return Result{}, errEmptyInput
	}
	obs := opts.Observer
	if obs == nil {
		obs = defaultObserver
	}

	w := &writeState{
		opts:          opts,
		trsForced:     opts.TRS || len(opts.Animations) > 0,
		doc:           &gltf.GLTF{Asset: gltf.Asset{Version: "2.0", Generator: gltf.Generator}},
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
		plugins:       snapshotRegistry(),
		observer:      obs,
		pool:          newImagePool(),
		lightCache:    make(map[*scenegraph.Light]int),
	}

	for _, p := range w.plugins {
		if p.BeforeParse != nil {
			p.BeforeParse(w, roots)
		}
	}

	scene := gltf.Scene{}
	for _, root := range roots {
		idx, err := w.processNode(root)
		if err != nil {
			w.pool.Wait()
			return Result{}, err
		}
		if idx >= 0 {
			scene.Nodes = append(scene.Nodes, idx)
		}
	}
	w.doc.Scenes = []gltf.Scene{scene}
	sceneIdx := 0
	w.doc.Scene = &sceneIdx

	for _, job := range w.skinQueue {
		if err := w.processSkin(job); err != nil {
			w.pool.Wait()
			return Result{}, err
		}
	}

	for _, clip := range opts.Animations {
		if err := w.processAnimation(clip); err != nil {
			w.pool.Wait()
			return Result{}, err
		}
	}

	for _, p := range w.plugins {
		if p.AfterParse != nil {
			p.AfterParse(w, roots)
		}
	}

	w.pool.Wait()
	if err := w.mergeImages(); err != nil {
		return Result{}, err
	}

	w.finalize()

	if opts.Binary {
		var buf bytes.Buffer
		if err := gltf.Pack(&buf, w.doc, w.bin); err != nil {
			return Result{}, err
		}
		return Result{GLB: buf.Bytes()}, nil
	}

	if len(w.bin) > 0 {
		w.doc.Buffers[0].URI = "data:application/octet-stream;base64," + base64.StdEncoding.EncodeToString(w.bin)
	}
	var buf bytes.Buffer
	if err := gltf.Encode(&buf, w.doc); err != nil {
		return Result{}, err
	}
	return Result{JSON: buf.Bytes()}, nil
}

// finalize sets the buffer's byteLength (the binary buffer is already
// 4-byte aligned, since every bufferView is padded as it is appended),
// attaches the punctual-light array, and writes the insertion-order
// extension arrays.
func (w *writeState) finalize() {
	if len(w.bin) > 0 {
		if w.doc.Buffers == nil {
			w.doc.Buffers = []gltf.Buffer{{}}
		}
		w.doc.Buffers[0].ByteLength = len(w.bin)
	}
	if len(w.lights) > 0 {
		if w.doc.Extensions == nil {
			w.doc.Extensions = map[string]any{}
		}
		w.doc.Extensions[gltf.ExtLightsPunctual] = gltf.LightsPunctual{Lights: w.lights}
	}
	w.doc.ExtensionsUsed = extensionList(w.extUsedOrder)
	w.doc.ExtensionsRequired = extensionList(w.extRequiredOrder)
}

// addLight appends l to the document-level light array, deduplicated
// by source identity, returning its index.
func (w *writeState) addLight(l *scenegraph.Light) int {
	if idx, ok := w.lightCache[l]; ok {
		return idx
	}
	dst := gltf.Light{Name: l.Name, Color: &l.Color, Range: l.Range}
	intensity := l.Intensity
	dst.Intensity = &intensity
	switch l.Type {
	case scenegraph.Point:
		dst.Type = gltf.LightPoint
	case scenegraph.Spot:
		dst.Type = gltf.LightSpot
		outer := l.Angle
		dst.Spot = &gltf.Spot{
			InnerConeAngle: l.Angle * (1 - l.Penumbra),
			OuterConeAngle: &outer,
		}
	default:
		dst.Type = gltf.LightDirectional
	}
	if l.Decay != 0 && l.Decay != 2 {
		w.observer.Warn(Degradation, "light %q has decay %v; glTF punctual lights are always inverse-square", l.Name, l.Decay)
	}
	if l.Type == scenegraph.Spot && l.Target != nil {
		w.observer.Warn(Degradation, "spot light %q targets a node; only angle/penumbra are representable", l.Name)
	}
	idx := len(w.lights)
	w.lights = append(w.lights, dst)
	w.lightCache[l] = idx
	return idx
}

// appendBin appends data to the binary buffer, returning the byte
// offset it was written at.
func (w *writeState) appendBin(data []byte) int {
	off := len(w.bin)
	w.bin = append(w.bin, data...)
	return off
}
