// Copyright 2024 The kxgraphics Authors. All rights reserved.

package scenegraph

import "kxgraphics/gltfwriter/linear"

// Skin binds a mesh's vertices to a joint hierarchy for vertex
// skinning. Bones lists the joints in bind order, matching the
// geometry's JOINTS_0 indices; InverseBindMatrices is parallel to
// Bones and holds each joint's inverse bind matrix in the
// skeleton's local (unbound) space.
type Skin struct {
	Name                string
	Bones               []*Node
	InverseBindMatrices []linear.M4
	// BindMatrix is the skinned object's own world transform at
	// bind time; the writer post-multiplies it into each inverse
	// bind matrix before packing the accessor. Nil means identity.
	BindMatrix *linear.M4
	// Skeleton, if set, is the root joint; when nil the writer uses
	// Bones[0].
	Skeleton *Node
}
