// Copyright 2024 The kxgraphics Authors. All rights reserved.

package export

import (
	"kxgraphics/gltfwriter/gltf"
	"kxgraphics/gltfwriter/scenegraph"
)

// builtinPlugins returns the writer's default extension set. They are
// ordinary Plugin values registered through the same Register path a
// caller's own plug-ins use; nothing here is privileged.
func builtinPlugins() []Plugin {
	return []Plugin{
		{Name: gltf.ExtLightsPunctual, WriteNode: writeLightsPunctual},
		{Name: gltf.ExtMaterialsUnlit, WriteMaterial: writeMaterialsUnlit},
		{Name: gltf.ExtMaterialsTransmission, WriteMaterial: writeMaterialsTransmission},
		{Name: gltf.ExtMaterialsVolume, WriteMaterial: writeMaterialsVolume},
		{Name: gltf.ExtMaterialsIOR, WriteMaterial: writeMaterialsIOR},
		{Name: gltf.ExtMaterialsSpecular, WriteMaterial: writeMaterialsSpecular},
		{Name: gltf.ExtMaterialsClearcoat, WriteMaterial: writeMaterialsClearcoat},
		{Name: gltf.ExtMaterialsDispersion, WriteMaterial: writeMaterialsDispersion},
		{Name: gltf.ExtMaterialsIridescence, WriteMaterial: writeMaterialsIridescence},
		{Name: gltf.ExtMaterialsSheen, WriteMaterial: writeMaterialsSheen},
		{Name: gltf.ExtMaterialsAnisotropy, WriteMaterial: writeMaterialsAnisotropy},
		{Name: gltf.ExtMaterialsEmisStrength, WriteMaterial: writeMaterialsEmissiveStrength},
		{Name: gltf.ExtMaterialsBump, WriteMaterial: writeMaterialsBump},
		{Name: gltf.ExtMeshGPUInstancing, WriteNode: writeMeshGPUInstancing},
	}
}

func setMaterialExt(dst *gltf.Material, name string, val any) {
	if dst.Extensions == nil {
		dst.Extensions = map[string]any{}
	}
	dst.Extensions[name] = val
}

// resolveExtTexture resolves ref for an extension payload, warning
// and dropping just that texture (rather than failing the hook it was
// called from) if resolution fails.
func resolveExtTexture(w *writeState, ref *scenegraph.TextureRef) *gltf.TextureInfo {
	if ref == nil {
		return nil
	}
	ti, err := w.processTextureRef(ref)
	if err != nil {
		w.observer.Warn(Degradation, "extension texture could not be resolved: %v", err)
		return nil
	}
	return ti
}

func writeLightsPunctual(w *writeState, src *scenegraph.Node, dst *gltf.Node) error {
	if src.Light == nil {
		return nil
	}
	idx := w.addLight(src.Light)
	w.useExtension(gltf.ExtLightsPunctual, false)
	if dst.Extensions == nil {
		dst.Extensions = map[string]any{}
	}
	dst.Extensions[gltf.ExtLightsPunctual] = gltf.NodeLight{Light: idx}
	return nil
}

func writeMaterialsUnlit(w *writeState, src *scenegraph.Material, dst *gltf.Material) error {
	if !src.Unlit {
		return nil
	}
	w.useExtension(gltf.ExtMaterialsUnlit, false)
	setMaterialExt(dst, gltf.ExtMaterialsUnlit, gltf.MaterialsUnlit{})
	return nil
}

func writeMaterialsTransmission(w *writeState, src *scenegraph.Material, dst *gltf.Material) error {
	t := src.Transmission
	if t == nil {
		return nil
	}
	w.useExtension(gltf.ExtMaterialsTransmission, false)
	setMaterialExt(dst, gltf.ExtMaterialsTransmission, gltf.MaterialsTransmission{
		TransmissionFactor:  t.Factor,
		TransmissionTexture: resolveExtTexture(w, t.Texture),
	})
	return nil
}

// writeMaterialsVolume gates on the source material's transmission
// factor being nonzero, matching a quirk of the system this writer
// was ported from: volume without transmission is silently dropped
// rather than emitted as a no-op extension.
func writeMaterialsVolume(w *writeState, src *scenegraph.Material, dst *gltf.Material) error {
	v := src.Volume
	if v == nil || src.Transmission == nil || src.Transmission.Factor == 0 {
		return nil
	}
	w.useExtension(gltf.ExtMaterialsVolume, false)
	var attenColor *[3]float32
	if v.AttenuationColor != [3]float32{} {
		c := v.AttenuationColor
		attenColor = &c
	}
	setMaterialExt(dst, gltf.ExtMaterialsVolume, gltf.MaterialsVolume{
		ThicknessFactor:     v.ThicknessFactor,
		ThicknessTexture:    resolveExtTexture(w, v.ThicknessTexture),
		AttenuationDistance: v.AttenuationDistance,
		AttenuationColor:    attenColor,
	})
	return nil
}

func writeMaterialsIOR(w *writeState, src *scenegraph.Material, dst *gltf.Material) error {
	if src.IOR == nil {
		return nil
	}
	w.useExtension(gltf.ExtMaterialsIOR, false)
	setMaterialExt(dst, gltf.ExtMaterialsIOR, gltf.MaterialsIOR{IOR: src.IOR.Value})
	return nil
}

func writeMaterialsSpecular(w *writeState, src *scenegraph.Material, dst *gltf.Material) error {
	s := src.Specular
	if s == nil {
		return nil
	}
	w.useExtension(gltf.ExtMaterialsSpecular, false)
	var colorFactor *[3]float32
	if s.ColorFactor != [3]float32{} {
		c := s.ColorFactor
		colorFactor = &c
	}
	setMaterialExt(dst, gltf.ExtMaterialsSpecular, gltf.MaterialsSpecular{
		SpecularFactor:       s.Factor,
		SpecularTexture:      resolveExtTexture(w, s.Texture),
		SpecularColorFactor:  colorFactor,
		SpecularColorTexture: resolveExtTexture(w, s.ColorTexture),
	})
	return nil
}

func writeMaterialsClearcoat(w *writeState, src *scenegraph.Material, dst *gltf.Material) error {
	c := src.Clearcoat
	if c == nil {
		return nil
	}
	w.useExtension(gltf.ExtMaterialsClearcoat, false)
	var normal *gltf.NormalTextureInfo
	if ti := resolveExtTexture(w, c.NormalTexture); ti != nil {
		normal = &gltf.NormalTextureInfo{Index: ti.Index, TexCoord: ti.TexCoord}
	}
	setMaterialExt(dst, gltf.ExtMaterialsClearcoat, gltf.MaterialsClearcoat{
		ClearcoatFactor:           c.Factor,
		ClearcoatTexture:          resolveExtTexture(w, c.Texture),
		ClearcoatRoughnessFactor:  c.RoughnessFactor,
		ClearcoatRoughnessTexture: resolveExtTexture(w, c.RoughnessTexture),
		ClearcoatNormalTexture:    normal,
	})
	return nil
}

func writeMaterialsDispersion(w *writeState, src *scenegraph.Material, dst *gltf.Material) error {
	if src.Dispersion == nil {
		return nil
	}
	w.useExtension(gltf.ExtMaterialsDispersion, false)
	setMaterialExt(dst, gltf.ExtMaterialsDispersion, gltf.MaterialsDispersion{Dispersion: src.Dispersion.Value})
	return nil
}

func writeMaterialsIridescence(w *writeState, src *scenegraph.Material, dst *gltf.Material) error {
	i := src.Iridescence
	if i == nil {
		return nil
	}
	w.useExtension(gltf.ExtMaterialsIridescence, false)
	setMaterialExt(dst, gltf.ExtMaterialsIridescence, gltf.MaterialsIridescence{
		IridescenceFactor:           i.Factor,
		IridescenceTexture:          resolveExtTexture(w, i.Texture),
		IridescenceIOR:              i.IOR,
		IridescenceThicknessMin:     i.ThicknessMin,
		IridescenceThicknessMax:     i.ThicknessMax,
		IridescenceThicknessTexture: resolveExtTexture(w, i.ThicknessTexture),
	})
	return nil
}

func writeMaterialsSheen(w *writeState, src *scenegraph.Material, dst *gltf.Material) error {
	s := src.Sheen
	if s == nil {
		return nil
	}
	w.useExtension(gltf.ExtMaterialsSheen, false)
	var colorFactor *[3]float32
	if s.ColorFactor != [3]float32{} {
		c := s.ColorFactor
		colorFactor = &c
	}
	setMaterialExt(dst, gltf.ExtMaterialsSheen, gltf.MaterialsSheen{
		SheenColorFactor:      colorFactor,
		SheenColorTexture:     resolveExtTexture(w, s.ColorTexture),
		SheenRoughnessFactor:  s.RoughnessFactor,
		SheenRoughnessTexture: resolveExtTexture(w, s.RoughnessTexture),
	})
	return nil
}

func writeMaterialsAnisotropy(w *writeState, src *scenegraph.Material, dst *gltf.Material) error {
	a := src.Anisotropy
	if a == nil {
		return nil
	}
	w.useExtension(gltf.ExtMaterialsAnisotropy, false)
	setMaterialExt(dst, gltf.ExtMaterialsAnisotropy, gltf.MaterialsAnisotropy{
		AnisotropyStrength: a.Strength,
		AnisotropyRotation: a.Rotation,
		AnisotropyTexture:  resolveExtTexture(w, a.Texture),
	})
	return nil
}

func writeMaterialsEmissiveStrength(w *writeState, src *scenegraph.Material, dst *gltf.Material) error {
	if src.EmissiveStrength <= 1 {
		return nil
	}
	w.useExtension(gltf.ExtMaterialsEmisStrength, false)
	setMaterialExt(dst, gltf.ExtMaterialsEmisStrength, gltf.MaterialsEmissiveStrength{EmissiveStrength: src.EmissiveStrength})
	return nil
}

func writeMaterialsBump(w *writeState, src *scenegraph.Material, dst *gltf.Material) error {
	b := src.Bump
	if b == nil {
		return nil
	}
	w.useExtension(gltf.ExtMaterialsBump, false)
	setMaterialExt(dst, gltf.ExtMaterialsBump, gltf.MaterialsBump{
		BumpFactor:  b.Factor,
		BumpTexture: resolveExtTexture(w, b.Texture),
	})
	return nil
}

// writeMeshGPUInstancing emits per-instance TRANSLATION/ROTATION/SCALE
// (and _COLOR_0, if any instance sets one) accessors for a node's
// Instances. The node keeps its mesh index; the extension is added
// beside it.
func writeMeshGPUInstancing(w *writeState, src *scenegraph.Node, dst *gltf.Node) error {
	n := len(src.Instances)
	if n == 0 {
		return nil
	}

	trans := make([]float32, n*3)
	rot := make([]float32, n*4)
	scl := make([]float32, n*3)
	haveColor := false
	for _, inst := range src.Instances {
		if inst.Color != nil {
			haveColor = true
			break
		}
	}
	var col []float32
	if haveColor {
		col = make([]float32, n*4)
	}
	for i, inst := range src.Instances {
		trans[i*3], trans[i*3+1], trans[i*3+2] = inst.Translation[0], inst.Translation[1], inst.Translation[2]
		rot[i*4], rot[i*4+1], rot[i*4+2], rot[i*4+3] = inst.Rotation.V[0], inst.Rotation.V[1], inst.Rotation.V[2], inst.Rotation.R
		scl[i*3], scl[i*3+1], scl[i*3+2] = inst.Scale[0], inst.Scale[1], inst.Scale[2]
		if haveColor {
			c := [4]float32{1, 1, 1, 1}
			if inst.Color != nil {
				c = *inst.Color
			}
			col[i*4], col[i*4+1], col[i*4+2], col[i*4+3] = c[0], c[1], c[2], c[3]
		}
	}

	attrs := map[string]int{}
	addInstAttr := func(name string, data []float32, itemSize int) {
		idx, err := w.processAccessor(&scenegraph.Attribute{Data: data, ItemSize: itemSize}, false, 0, n)
		if err != nil {
			w.observer.Warn(Degradation, "instance attribute %q could not be packed: %v", name, err)
			return
		}
		if idx >= 0 {
			attrs[name] = idx
		}
	}
	addInstAttr(gltf.InstTranslation, trans, 3)
	addInstAttr(gltf.InstRotation, rot, 4)
	addInstAttr(gltf.InstScale, scl, 3)
	if haveColor {
		addInstAttr(gltf.InstColor0, col, 4)
	}
	if len(attrs) == 0 {
		return nil
	}

	w.useExtension(gltf.ExtMeshGPUInstancing, true)
	if dst.Extensions == nil {
		dst.Extensions = map[string]any{}
	}
	dst.Extensions[gltf.ExtMeshGPUInstancing] = gltf.MeshGPUInstancing{Attributes: attrs}
	return nil
}
