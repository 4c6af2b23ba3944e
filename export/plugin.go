// Copyright 2024 The kxgraphics Authors. All rights reserved.

package export

import (
	"sync"

	"kxgraphics/gltfwriter/gltf"
	"kxgraphics/gltfwriter/scenegraph"
)

// Plugin is an extension emitter invoked at fixed points during
// Write. Each hook is optional; a nil field means the plug-in does
// not participate in that hook. This is a tagged struct-of-functions
// rather than an interface probed by type assertion, so the
// dispatcher never needs reflection to discover which hooks a
// plug-in implements.
type Plugin struct {
	// Name identifies the plug-in for Unregister and is used as the
	// key when the plug-in declares extensionsUsed/Required.
	Name string

	BeforeParse   func(w *writeState, roots []*scenegraph.Node)
	AfterParse    func(w *writeState, roots []*scenegraph.Node)
	WriteNode     func(w *writeState, src *scenegraph.Node, dst *gltf.Node) error
	WriteMaterial func(w *writeState, src *scenegraph.Material, dst *gltf.Material) error
	WriteMesh     func(w *writeState, src *scenegraph.Mesh, dst *gltf.Mesh) error
	WriteTexture  func(w *writeState, src *scenegraph.Texture, dst *gltf.Texture) error
}

var (
	registryMu sync.Mutex
	registry   []Plugin
)

// Register adds p to the registry in call order. Registering a name
// already present is a no-op (idempotent double-register).
func Register(p Plugin) {
	registryMu.Lock()
	defer registryMu.Unlock()
	for _, r := range registry {
		if r.Name == p.Name {
			return
		}
	}
	registry = append(registry, p)
}

// Unregister removes the plug-in named name, if present.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	for i, r := range registry {
		if r.Name == name {
			registry = append(registry[:i], registry[i+1:]...)
			return
		}
	}
}

func snapshotRegistry() []Plugin {
	registryMu.Lock()
	defer registryMu.Unlock()
	out := make([]Plugin, len(registry))
	copy(out, registry)
	return out
}

func init() {
	for _, p := range builtinPlugins() {
		Register(p)
	}
}

// useExtension records name as used, and additionally as required
// when required is true. Insertion order is preserved for
// finalization's sorted-insertion-order arrays.
func (w *writeState) useExtension(name string, required bool) {
	if !w.extUsed[name] {
		w.extUsed[name] = true
		w.extUsedOrder = append(w.extUsedOrder, name)
	}
	if required && !w.extRequired[name] {
		w.extRequired[name] = true
		w.extRequiredOrder = append(w.extRequiredOrder, name)
	}
}

// extensionList returns a copy of order (the deterministic
// insertion-order a plug-in declared name in), or nil if empty.
func extensionList(order []string) []string {
	if len(order) == 0 {
		return nil
	}
	out := make([]string, len(order))
	copy(out, order)
	return out
}
