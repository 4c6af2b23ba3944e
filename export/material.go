// Copyright 2024 The kxgraphics Authors. All rights reserved.

package export

import (
	"kxgraphics/gltfwriter/gltf"
	"kxgraphics/gltfwriter/scenegraph"
)

// processMaterial emits m, deduplicated by source identity. A
// material naming an unsupported Shader fails soft: it warns and
// returns -1 (Skip) rather than aborting the whole write.
func (w *writeState) processMaterial(m *scenegraph.Material) (int, error) {
	if idx, ok := w.materialCache[m]; ok {
		return idx, nil
	}
	if m.Shader != "" {
		w.observer.Warn(Degradation, "material %q uses unsupported shader %q; skipped", m.Name, m.Shader)
		return -1, nil
	}

	dst := gltf.Material{Name: m.Name, DoubleSided: m.DoubleSided}

	pbr := &gltf.PBRMetallicRoughness{}
	havePBR := false
	if m.BaseColorFactor != [4]float32{1, 1, 1, 1} {
		c := m.BaseColorFactor
		pbr.BaseColorFactor = &c
		havePBR = true
	}
	if m.BaseColorTexture != nil {
		ti, err := w.processTextureRef(m.BaseColorTexture)
		if err != nil {
			return -1, err
		}
		pbr.BaseColorTexture = ti
		havePBR = true
	}
	if !m.Unlit {
		if m.MetallicFactor != 1 {
			f := m.MetallicFactor
			pbr.MetallicFactor = &f
			havePBR = true
		}
		if m.RoughnessFactor != 1 {
			f := m.RoughnessFactor
			pbr.RoughnessFactor = &f
			havePBR = true
		}
		mrTex, err := w.metalRoughTextureInfo(m)
		if err != nil {
			return -1, err
		}
		if mrTex != nil {
			pbr.MetallicRoughnessTexture = mrTex
			havePBR = true
		}
	}
	if havePBR {
		dst.PBRMetallicRoughness = pbr
	}

	if m.NormalTexture != nil {
		ti, err := w.processTextureRef(m.NormalTexture)
		if err != nil {
			return -1, err
		}
		nt := &gltf.NormalTextureInfo{Index: ti.Index, TexCoord: ti.TexCoord}
		if m.NormalScale != 1 && m.NormalScale != 0 {
			s := m.NormalScale
			nt.Scale = &s
		}
		dst.NormalTexture = nt
	}
	if m.OcclusionTexture != nil {
		ti, err := w.processTextureRef(m.OcclusionTexture)
		if err != nil {
			return -1, err
		}
		ot := &gltf.OcclusionTextureInfo{Index: ti.Index, TexCoord: ti.TexCoord}
		if m.OcclusionStrength != 1 && m.OcclusionStrength != 0 {
			s := m.OcclusionStrength
			ot.Strength = &s
		}
		dst.OcclusionTexture = ot
	}
	if m.EmissiveFactor != [3]float32{} {
		e := m.EmissiveFactor
		dst.EmissiveFactor = &e
	}
	if m.EmissiveTexture != nil {
		ti, err := w.processTextureRef(m.EmissiveTexture)
		if err != nil {
			return -1, err
		}
		dst.EmissiveTexture = ti
	}

	switch m.AlphaMode {
	case scenegraph.AlphaBlend:
		dst.AlphaMode = gltf.AlphaBlend
	case scenegraph.AlphaMask:
		dst.AlphaMode = gltf.AlphaMask
		if m.AlphaCutoff != 0.5 {
			c := m.AlphaCutoff
			dst.AlphaCutoff = &c
		}
	}

	for _, p := range w.plugins {
		if p.WriteMaterial != nil {
			if err := p.WriteMaterial(w, m, &dst); err != nil {
				return -1, err
			}
		}
	}

	idx := len(w.doc.Materials)
	w.doc.Materials = append(w.doc.Materials, dst)
	w.materialCache[m] = idx
	return idx, nil
}

// processTextureRef resolves ref's texture and wraps it with ref's
// UV set into a TextureInfo.
func (w *writeState) processTextureRef(ref *scenegraph.TextureRef) (*gltf.TextureInfo, error) {
	idx, err := w.processTexture(ref.Texture)
	if err != nil {
		return nil, err
	}
	ti := &gltf.TextureInfo{Index: idx, TexCoord: ref.UVSet}
	if t := ref.Texture.Transform; t != nil {
		ti.Extensions = map[string]any{
			gltf.ExtTextureTransform: gltf.TextureTransform{
				Offset:   &t.Offset,
				Rotation: t.Rotation,
				Scale:    &t.Scale,
			},
		}
		w.useExtension(gltf.ExtTextureTransform, false)
	}
	return ti, nil
}

// metalRoughTextureInfo resolves m's metallic-roughness texture,
// compositing separate metalness/roughness sources into one image
// when the source material does not already ship a combined map.
func (w *writeState) metalRoughTextureInfo(m *scenegraph.Material) (*gltf.TextureInfo, error) {
	if m.MetallicRoughnessTexture != nil {
		return w.processTextureRef(m.MetallicRoughnessTexture)
	}
	if m.MetalnessTexture == nil && m.RoughnessTexture == nil {
		return nil, nil
	}
	return w.buildMetalRoughTexture(m.MetalnessTexture, m.RoughnessTexture)
}
