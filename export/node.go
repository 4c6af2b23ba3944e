// Copyright 2024 The kxgraphics Authors. All rights reserved.

package export

import (
	"kxgraphics/gltfwriter/gltf"
	"kxgraphics/gltfwriter/linear"
	"kxgraphics/gltfwriter/scenegraph"
)

// processNode emits n and its subtree depth-first, returning the
// node's index in doc.Nodes, or -1 if it was skipped (invisible under
// Options.OnlyVisible).
func (w *writeState) processNode(n *scenegraph.Node) (int, error) {
	if !n.Visible && w.opts.OnlyVisible {
		return -1, nil
	}

	dst := gltf.Node{Name: n.Name}
	w.setTransform(n, &dst)

	if n.Mesh != nil {
		meshIdx, err := w.processMesh(n.Mesh)
		if err != nil {
			return -1, err
		}
		if meshIdx >= 0 {
			dst.Mesh = &meshIdx
		}
	}
	if n.Camera != nil {
		camIdx := w.processCamera(n.Camera)
		dst.Camera = &camIdx
	}

	if w.opts.IncludeCustomExtensions {
		for name, val := range n.UserData {
			if dst.Extensions == nil {
				dst.Extensions = map[string]any{}
			}
			dst.Extensions[name] = val
		}
	}

	for _, p := range w.plugins {
		if p.WriteNode != nil {
			if err := p.WriteNode(w, n, &dst); err != nil {
				return -1, err
			}
		}
	}

	for _, c := range n.Children {
		cidx, err := w.processNode(c)
		if err != nil {
			return -1, err
		}
		if cidx >= 0 {
			dst.Children = append(dst.Children, cidx)
		}
	}

	idx := len(w.doc.Nodes)
	w.doc.Nodes = append(w.doc.Nodes, dst)
	w.nodeMap[n] = idx

	if n.Skin != nil {
		w.skinQueue = append(w.skinQueue, skinJob{node: n, nodeIdx: idx, skin: n.Skin})
	}

	return idx, nil
}

// setTransform writes either a single matrix or TRS fields onto dst,
// matching Options.TRS (forced true when animations are present).
// Identity components are omitted.
func (w *writeState) setTransform(n *scenegraph.Node, dst *gltf.Node) {
	if n.Matrix != nil {
		if !w.trsForced {
			var arr [16]float32
			for c := 0; c < 4; c++ {
				for r := 0; r < 4; r++ {
					arr[c*4+r] = n.Matrix[c][r]
				}
			}
			if arr != ([16]float32{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}) {
				dst.Matrix = &arr
			}
			return
		}
		var t, s linear.V3
		var r linear.Q
		n.Matrix.DecomposeTRS(&t, &r, &s)
		writeTRS(dst, &t, &r, &s)
		return
	}
	writeTRS(dst, &n.Translation, &n.Rotation, &n.Scale)
}

func writeTRS(dst *gltf.Node, t *linear.V3, r *linear.Q, s *linear.V3) {
	if *t != (linear.V3{}) {
		dst.Translation = &[3]float32{t[0], t[1], t[2]}
	}
	if r.R != 1 || r.V != (linear.V3{}) {
		dst.Rotation = &[4]float32{r.V[0], r.V[1], r.V[2], r.R}
	}
	if *s != (linear.V3{1, 1, 1}) {
		dst.Scale = &[3]float32{s[0], s[1], s[2]}
	}
}

// processCamera emits c, deduplicated by source identity.
//
// camera.name is written from the camera's type string rather than
// its own Name whenever Name is non-empty; this reproduces a quirk
// observed in the system this writer was ported from and is kept
// intentionally rather than silently fixed.
func (w *writeState) processCamera(c *scenegraph.Camera) int {
	if idx, ok := w.cameraCache[c]; ok {
		return idx
	}
	dst := gltf.Camera{}
	if c.Name != "" {
		if c.Type == scenegraph.Orthographic {
			dst.Name = gltf.CameraOrthographic
		} else {
			dst.Name = gltf.CameraPerspective
		}
	}
	switch c.Type {
	case scenegraph.Orthographic:
		dst.Type = gltf.CameraOrthographic
		dst.Orthographic = &gltf.Orthographic{
			Xmag:  c.Xmag,
			Ymag:  c.Ymag,
			Zfar:  c.Zfar,
			Znear: c.Znear,
		}
	default:
		dst.Type = gltf.CameraPerspective
		dst.Perspective = &gltf.Perspective{
			AspectRatio: c.AspectRatio,
			YFov:        c.YFov,
			Zfar:        c.Zfar,
			Znear:       c.Znear,
		}
	}
	idx := len(w.doc.Cameras)
	w.doc.Cameras = append(w.doc.Cameras, dst)
	w.cameraCache[c] = idx
	return idx
}
