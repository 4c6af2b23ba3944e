// Copyright 2024 The kxgraphics Authors. All rights reserved.

package export

import (
	"math"
	"regexp"
	"strings"

	"kxgraphics/gltfwriter/gltf"
	"kxgraphics/gltfwriter/scenegraph"
)

var stdAttrName = regexp.MustCompile(`^(POSITION|NORMAL|TANGENT|TEXCOORD_\d+|COLOR_\d+|JOINTS_\d+|WEIGHTS_\d+)$`)

// attributeName maps a scenegraph attribute key to its glTF
// attribute semantic.
func attributeName(name string) string {
	switch name {
	case "uv":
		return "TEXCOORD_0"
	case "uv1":
		return "TEXCOORD_1"
	case "uv2":
		return "TEXCOORD_2"
	case "uv3":
		return "TEXCOORD_3"
	case "color":
		return "COLOR_0"
	case "skinWeight":
		return "WEIGHTS_0"
	case "skinIndex":
		return "JOINTS_0"
	}
	upper := strings.ToUpper(name)
	if stdAttrName.MatchString(upper) {
		return upper
	}
	return "_" + upper
}

// processMesh emits mesh, deduplicated by the geometry UUID joined
// with its bound materials' UUIDs in bind order.
func (w *writeState) processMesh(mesh *scenegraph.Mesh) (int, error) {
	geo := mesh.Geometry
	if geo == nil {
		return -1, newErr(UnsupportedInput, "mesh has no geometry")
	}

	uuids := make([]string, len(mesh.Materials))
	for i, m := range mesh.Materials {
		uuids[i] = m.UUID
	}
	cacheKey := geo.UUID + ":" + strings.Join(uuids, ":")
	if idx, ok := w.meshCache[cacheKey]; ok {
		return idx, nil
	}

	materialIndices := make([]int, len(mesh.Materials))
	for i, m := range mesh.Materials {
		idx, err := w.processMaterial(m)
		if err != nil {
			return -1, err
		}
		materialIndices[i] = idx
	}

	attrMap := make(map[string]int)
	for name, attr := range geo.Attributes {
		mapped := attributeName(name)
		src := attr
		if mapped == "NORMAL" {
			src = normalizeNormalsIfNeeded(src)
		}
		if mapped == "JOINTS_0" {
			src = coerceJoints(src)
		}
		accIdx, err := w.processAccessor(src, false, 0, src.Count())
		if err != nil {
			return -1, err
		}
		if accIdx >= 0 {
			attrMap[mapped] = accIdx
		}
	}

	multi := len(mesh.Materials) > 1
	if multi && len(geo.Groups) == 0 {
		return -1, nil // Skip: material-less multi-material geometry without groups.
	}

	indexSrc := geo.Index
	if multi && indexSrc == nil {
		posCount := 0
		if pos, ok := geo.Attributes["POSITION"]; ok {
			posCount = pos.Count()
		}
		indexSrc = syntheticRangeIndex(posCount)
	}

	targets, err := w.processMorphTargets(geo)
	if err != nil {
		return -1, err
	}

	mode := modeFor(mesh)

	var primitives []gltf.Primitive
	if len(geo.Groups) == 0 {
		prim := gltf.Primitive{Attributes: attrMap, Mode: &mode, Targets: targets}
		if indexSrc != nil {
			iAcc, err := w.processAccessor(indexSrc, true, 0, indexSrc.Count())
			if err != nil {
				return -1, err
			}
			if iAcc >= 0 {
				prim.Indices = &iAcc
			}
		}
		if len(materialIndices) > 0 && materialIndices[0] >= 0 {
			m := materialIndices[0]
			prim.Material = &m
		}
		primitives = append(primitives, prim)
	} else {
		for _, g := range geo.Groups {
			prim := gltf.Primitive{Attributes: attrMap, Mode: &mode, Targets: targets}
			if indexSrc != nil {
				iAcc, err := w.processAccessor(indexSrc, true, g.Start, g.Count)
				if err != nil {
					return -1, err
				}
				if iAcc >= 0 {
					prim.Indices = &iAcc
				}
			}
			if g.MaterialIndex >= 0 && g.MaterialIndex < len(materialIndices) && materialIndices[g.MaterialIndex] >= 0 {
				m := materialIndices[g.MaterialIndex]
				prim.Material = &m
			}
			primitives = append(primitives, prim)
		}
	}

	dst := gltf.Mesh{Primitives: primitives, Weights: geo.MorphTargetInfluences}
	if len(geo.MorphTargetNames) > 0 {
		dst.Extras = map[string]any{"targetNames": geo.MorphTargetNames}
	}

	for _, p := range w.plugins {
		if p.WriteMesh != nil {
			if err := p.WriteMesh(w, mesh, &dst); err != nil {
				return -1, err
			}
		}
	}

	idx := len(w.doc.Meshes)
	w.doc.Meshes = append(w.doc.Meshes, dst)
	w.meshCache[cacheKey] = idx
	return idx, nil
}

func modeFor(mesh *scenegraph.Mesh) int {
	if mesh.Wireframe {
		return gltf.ModeLines
	}
	switch mesh.Mode {
	case scenegraph.TriangleStrip:
		return gltf.ModeTriangleStrip
	case scenegraph.TriangleFan:
		return gltf.ModeTriangleFan
	case scenegraph.Lines:
		return gltf.ModeLines
	case scenegraph.LineLoop:
		return gltf.ModeLineLoop
	case scenegraph.LineStrip:
		return gltf.ModeLineStrip
	case scenegraph.Points:
		return gltf.ModePoints
	default:
		return gltf.ModeTriangles
	}
}

// syntheticRangeIndex builds an ad hoc [0,n) index attribute for a
// multi-material mesh whose geometry has no index stream of its own.
// It is never cached against the geometry; it exists only for the
// duration of this processMesh call.
func syntheticRangeIndex(n int) *scenegraph.Attribute {
	data := make([]uint32, n)
	for i := range data {
		data[i] = uint32(i)
	}
	return &scenegraph.Attribute{Data: data, ItemSize: 1}
}

// normalizeNormalsIfNeeded returns attr unchanged if every NORMAL
// vector already has unit length within 0.0005, otherwise a
// normalized clone (zero-length vectors become (1,0,0)).
func normalizeNormalsIfNeeded(attr *scenegraph.Attribute) *scenegraph.Attribute {
	data, ok := attr.Data.([]float32)
	if !ok || attr.ItemSize != 3 {
		return attr
	}
	const tol = 0.0005
	needsFix := false
	for i := 0; i+2 < len(data); i += 3 {
		x, y, z := data[i], data[i+1], data[i+2]
		l := sqrt32(x*x + y*y + z*z)
		if l < 1-tol || l > 1+tol {
			needsFix = true
			break
		}
	}
	if !needsFix {
		return attr
	}
	out := make([]float32, len(data))
	for i := 0; i+2 < len(data); i += 3 {
		x, y, z := data[i], data[i+1], data[i+2]
		l := sqrt32(x*x + y*y + z*z)
		if l == 0 {
			out[i], out[i+1], out[i+2] = 1, 0, 0
			continue
		}
		out[i], out[i+1], out[i+2] = x/l, y/l, z/l
	}
	return &scenegraph.Attribute{Data: out, ItemSize: 3}
}

func sqrt32(f float32) float32 { return float32(math.Sqrt(float64(f))) }

// coerceJoints returns attr unchanged if it is already 8- or
// 16-bit unsigned, otherwise a uint16 clone.
func coerceJoints(attr *scenegraph.Attribute) *scenegraph.Attribute {
	switch attr.Data.(type) {
	case []uint8, []uint16:
		return attr
	}
	n := attr.Count() * attr.ItemSize
	out := make([]uint16, n)
	for i := 0; i < n; i++ {
		out[i] = uint16(componentAt(attr.Data, i))
	}
	return &scenegraph.Attribute{Data: out, ItemSize: attr.ItemSize}
}

// processMorphTargets builds the per-target attribute maps for a
// primitive's morph targets. Only POSITION and NORMAL base
// attributes are supported; any other base attribute name warns once
// and is skipped.
func (w *writeState) processMorphTargets(geo *scenegraph.Geometry) ([]map[string]int, error) {
	if len(geo.MorphAttributes) == 0 {
		return nil, nil
	}
	n := 0
	for base, targets := range geo.MorphAttributes {
		if base != "POSITION" && base != "NORMAL" {
			continue
		}
		if len(targets) > n {
			n = len(targets)
		}
	}
	if n == 0 {
		return nil, nil
	}
	out := make([]map[string]int, n)
	for i := range out {
		out[i] = make(map[string]int)
	}
	warnedUnsupported := false
	for base, targets := range geo.MorphAttributes {
		if base != "POSITION" && base != "NORMAL" {
			if !warnedUnsupported {
				w.observer.Warn(Degradation, "morph attribute %q is not POSITION or NORMAL; skipped", base)
				warnedUnsupported = true
			}
			continue
		}
		baseAttr, ok := geo.Attributes[base]
		if !ok {
			return nil, newErr(UnsupportedInput, "morph target base attribute "+base+" not found")
		}
		for i, morphAttr := range targets {
			rel := morphAttr
			if !geo.MorphTargetsRelative {
				rel = relativizeMorph(morphAttr, baseAttr)
			}
			accIdx, err := w.processAccessor(rel, false, 0, rel.Count())
			if err != nil {
				return nil, err
			}
			if accIdx >= 0 {
				out[i][base] = accIdx
			}
		}
	}
	return out, nil
}

// relativizeMorph returns a clone of morphAttr holding
// morphAttr - baseAttr component-wise.
func relativizeMorph(morphAttr, baseAttr *scenegraph.Attribute) *scenegraph.Attribute {
	src, sOk := morphAttr.Data.([]float32)
	base, bOk := baseAttr.Data.([]float32)
	if !sOk || !bOk {
		return morphAttr
	}
	n := len(src)
	if len(base) < n {
		n = len(base)
	}
	out := make([]float32, len(src))
	copy(out, src)
	for i := 0; i < n; i++ {
		out[i] = src[i] - base[i]
	}
	return &scenegraph.Attribute{Data: out, ItemSize: morphAttr.ItemSize}
}
