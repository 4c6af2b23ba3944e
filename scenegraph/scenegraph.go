// Copyright 2024 The kxgraphics Authors. All rights reserved.

// Package scenegraph defines the in-memory scene representation that
// export.Writer consumes. It is the external-facing input type: a
// caller builds a tree of *Node values (by whatever means it likes)
// and hands the roots to export.Writer.Write. Nothing in this package
// depends on the gltf package; the writer owns the translation.
package scenegraph

import "kxgraphics/gltfwriter/linear"

// Node is one node of the input scene graph. The zero value has no
// attachments but is invisible, with zero scale and a zero rotation;
// NewNode returns a visible node with identity transform.
type Node struct {
	Name string

	// Local transform. If Matrix is non-nil it takes precedence
	// over Translation/Rotation/Scale.
	Translation linear.V3
	Rotation    linear.Q // Must be normalized when used.
	Scale       linear.V3
	Matrix      *linear.M4

	Visible bool

	Mesh   *Mesh
	Camera *Camera
	Light  *Light
	Skin   *Skin

	// Instances, when non-empty, marks this node as GPU-instanced:
	// each entry is one instance's local transform relative to Node
	// itself, and EXT_mesh_gpu_instancing is emitted instead of a
	// single-instance node.
	Instances []Instance

	Children []*Node

	// UserData carries caller-defined extension payloads. Only
	// consulted when export.Options.IncludeCustomExtensions is set;
	// keys become extension names and values are marshaled as-is.
	UserData map[string]any
}

// Instance is one entry of Node.Instances.
type Instance struct {
	Translation linear.V3
	Rotation    linear.Q
	Scale       linear.V3
	Color       *[4]float32 // Optional _COLOR_0 instance attribute.
}

// DefaultScale is the scale a freshly constructed Node should use;
// the zero value of linear.V3 is (0,0,0), which collapses geometry,
// so callers that build nodes field-by-field must set Scale
// explicitly. NewNode returns a Node with this already applied.
var DefaultScale = linear.V3{1, 1, 1}

// NewNode returns a Node with identity transform and Visible set.
func NewNode(name string) *Node {
	n := &Node{Name: name, Scale: DefaultScale, Visible: true}
	n.Rotation.I()
	return n
}
