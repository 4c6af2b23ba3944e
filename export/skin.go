// Copyright 2024 The kxgraphics Authors. All rights reserved.

package export

import (
	"kxgraphics/gltfwriter/gltf"
	"kxgraphics/gltfwriter/linear"
	"kxgraphics/gltfwriter/scenegraph"
)

// processSkin resolves job's joints against the already-built
// nodeMap, packs the inverse bind matrices (post-multiplied by the
// skin's bind matrix, if any) into an accessor, and back-writes the
// skinned node's skin index. It runs after the whole tree has been
// traversed, since a joint may be indexed later than the node that
// references its skin.
func (w *writeState) processSkin(job skinJob) error {
	skin := job.skin
	if len(skin.Bones) == 0 {
		return newErr(UnsupportedInput, "skin "+skin.Name+" has no bones")
	}

	joints := make([]int, len(skin.Bones))
	for i, bone := range skin.Bones {
		idx, ok := w.nodeMap[bone]
		if !ok {
			return newErr(UnsupportedInput, "skin "+skin.Name+" references a bone outside the exported hierarchy")
		}
		joints[i] = idx
	}

	skeletonNode := skin.Skeleton
	if skeletonNode == nil {
		skeletonNode = skin.Bones[0]
	}
	skeletonIdx, ok := w.nodeMap[skeletonNode]
	if !ok {
		return newErr(UnsupportedInput, "skin "+skin.Name+" skeleton root is outside the exported hierarchy")
	}

	n := len(skin.Bones)
	flat := make([]float32, n*16)
	for i := 0; i < n && i < len(skin.InverseBindMatrices); i++ {
		ibm := skin.InverseBindMatrices[i]
		if skin.BindMatrix != nil {
			var combined linear.M4
			combined.Mul(&ibm, skin.BindMatrix)
			ibm = combined
		}
		for col := 0; col < 4; col++ {
			for row := 0; row < 4; row++ {
				flat[i*16+col*4+row] = ibm[col][row]
			}
		}
	}

	attr := &scenegraph.Attribute{Data: flat, ItemSize: 16}
	accIdx, err := w.processAccessor(attr, false, 0, n)
	if err != nil {
		return err
	}

	dst := gltf.Skin{
		InverseBindMatrices: &accIdx,
		Skeleton:            &skeletonIdx,
		Joints:              joints,
		Name:                skin.Name,
	}
	idx := len(w.doc.Skins)
	w.doc.Skins = append(w.doc.Skins, dst)
	w.doc.Nodes[job.nodeIdx].Skin = &idx
	return nil
}
