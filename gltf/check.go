// Copyright 2024 The kxgraphics Authors. All rights reserved.

package gltf

import (
	"errors"
	"math"
	"strconv"
)

func newErr(reason string) error { return errors.New("gltf: " + reason) }

// Check reports whether g satisfies the structural invariants of the
// glTF 2.0 schema: indices resolve, enums take values the schema
// allows, and required fields are present. Texture source/sampler
// indices, primitive morph-target accessor indices and extension
// payloads are not checked. It does not
// validate that geometry or animation data is semantically sound —
// that is established by construction in the export package.
func (g *GLTF) Check() error {
	vers, err := strconv.ParseFloat(g.Asset.Version, 64)
	if err != nil || vers < 2 || vers >= 3 {
		return newErr("unsupported GLTF.Asset.Version")
	}
	if g.Scene != nil && (*g.Scene < 0 || *g.Scene >= len(g.Scenes)) {
		return newErr("invalid GLTF.Scene index")
	}
	for i := range g.Accessors {
		if err := g.Accessors[i].check(g); err != nil {
			return err
		}
	}
	for i := range g.Animations {
		if err := g.Animations[i].check(g); err != nil {
			return err
		}
	}
	for i := range g.Buffers {
		if err := g.Buffers[i].check(); err != nil {
			return err
		}
	}
	for i := range g.BufferViews {
		if err := g.BufferViews[i].check(g); err != nil {
			return err
		}
	}
	for i := range g.Cameras {
		if err := g.Cameras[i].check(); err != nil {
			return err
		}
	}
	for i := range g.Images {
		if err := g.Images[i].check(g); err != nil {
			return err
		}
	}
	for i := range g.Materials {
		if err := g.Materials[i].check(g); err != nil {
			return err
		}
	}
	for i := range g.Meshes {
		if err := g.Meshes[i].check(g); err != nil {
			return err
		}
	}
	for i := range g.Nodes {
		if err := g.Nodes[i].check(g); err != nil {
			return err
		}
	}
	for i := range g.Samplers {
		if err := g.Samplers[i].check(); err != nil {
			return err
		}
	}
	for i := range g.Scenes {
		if err := g.Scenes[i].check(g); err != nil {
			return err
		}
	}
	for i := range g.Skins {
		if err := g.Skins[i].check(g); err != nil {
			return err
		}
	}
	required := make(map[string]bool, len(g.ExtensionsUsed))
	for _, e := range g.ExtensionsUsed {
		required[e] = true
	}
	for _, e := range g.ExtensionsRequired {
		if !required[e] {
			return newErr("GLTF.ExtensionsRequired not a subset of ExtensionsUsed")
		}
	}
	return nil
}

func (a *Accessor) check(g *GLTF) error {
	if a.BufferView != nil && (*a.BufferView < 0 || *a.BufferView >= len(g.BufferViews)) {
		return newErr("invalid Accessor.BufferView index")
	}
	if a.ByteOffset < 0 {
		return newErr("invalid Accessor.ByteOffset value")
	}
	switch a.ComponentType {
	case ComponentByte, ComponentUnsignedByte, ComponentShort, ComponentUnsignedShort, ComponentUnsignedInt, ComponentFloat:
	default:
		return newErr("invalid Accessor.ComponentType value")
	}
	if a.Count < 0 {
		return newErr("invalid Accessor.Count value")
	}
	n, ok := itemSize(a.Type)
	if !ok {
		return newErr("invalid Accessor.Type value")
	}
	if a.Max != nil && len(a.Max) != n {
		return newErr("invalid Accessor.Max length")
	}
	if a.Min != nil && len(a.Min) != n {
		return newErr("invalid Accessor.Min length")
	}
	return nil
}

func itemSize(t string) (int, bool) {
	switch t {
	case TypeScalar:
		return 1, true
	case TypeVec2:
		return 2, true
	case TypeVec3:
		return 3, true
	case TypeVec4:
		return 4, true
	case TypeMat3:
		return 9, true
	case TypeMat4:
		return 16, true
	default:
		return 0, false
	}
}

func (a *Animation) check(g *GLTF) error {
	if len(a.Channels) == 0 {
		return newErr("invalid Animation.Channels length")
	}
	if len(a.Samplers) == 0 {
		return newErr("invalid Animation.Samplers length")
	}
	for i := range a.Channels {
		c := &a.Channels[i]
		if c.Sampler < 0 || c.Sampler >= len(a.Samplers) {
			return newErr("invalid Animation.Channels[].Sampler index")
		}
		if c.Target.Node != nil && (*c.Target.Node < 0 || *c.Target.Node >= len(g.Nodes)) {
			return newErr("invalid Animation.Channels[].Target.Node index")
		}
		switch c.Target.Path {
		case PathTranslation, PathRotation, PathScale, PathWeights:
		default:
			return newErr("invalid Animation.Channels[].Target.Path value")
		}
	}
	for i := range a.Samplers {
		s := &a.Samplers[i]
		if s.Input < 0 || s.Input >= len(g.Accessors) {
			return newErr("invalid Animation.Samplers[].Input index")
		}
		switch s.Interpolation {
		case "", InterpolationLinear, InterpolationStep, InterpolationCubicSpline:
		default:
			return newErr("invalid Animation.Samplers[].Interpolation value")
		}
		if s.Output < 0 || s.Output >= len(g.Accessors) {
			return newErr("invalid Animation.Samplers[].Output index")
		}
	}
	return nil
}

func (b *Buffer) check() error {
	if b.ByteLength < 0 {
		return newErr("invalid Buffer.ByteLength value")
	}
	return nil
}

func (v *BufferView) check(g *GLTF) error {
	if v.Buffer < 0 || v.Buffer >= len(g.Buffers) {
		return newErr("invalid BufferView.Buffer index")
	}
	if v.ByteOffset < 0 {
		return newErr("invalid BufferView.ByteOffset value")
	}
	if v.ByteLength < 0 || v.ByteOffset+v.ByteLength > g.Buffers[v.Buffer].ByteLength {
		return newErr("invalid BufferView.ByteLength value")
	}
	if v.ByteStride != 0 && (v.ByteStride < 4 || v.ByteStride > 252) {
		return newErr("invalid BufferView.ByteStride value")
	}
	switch v.Target {
	case 0, TargetArrayBuffer, TargetElementArrayBuffer:
	default:
		return newErr("invalid BufferView.Target value")
	}
	return nil
}

func (c *Camera) check() error {
	switch c.Type {
	case CameraOrthographic:
		if c.Orthographic == nil || c.Perspective != nil {
			return newErr("invalid Camera.Orthographic setup")
		}
		if c.Orthographic.Zfar == 0 || c.Orthographic.Zfar <= c.Orthographic.Znear {
			return newErr("invalid Camera.Orthographic.Zfar value")
		}
	case CameraPerspective:
		if c.Perspective == nil || c.Orthographic != nil {
			return newErr("invalid Camera.Perspective setup")
		}
		if c.Perspective.YFov <= 0 || c.Perspective.YFov >= math.Pi {
			return newErr("invalid Camera.Perspective.YFov value")
		}
		if c.Perspective.Zfar != 0 && c.Perspective.Zfar <= c.Perspective.Znear {
			return newErr("invalid Camera.Perspective.Zfar value")
		}
		if c.Perspective.Znear <= 0 {
			return newErr("invalid Camera.Perspective.Znear value")
		}
	default:
		return newErr("invalid Camera.Type value")
	}
	return nil
}

func (i *Image) check(g *GLTF) error {
	if i.URI == "" {
		if i.BufferView == nil {
			return newErr("Image must define URI or BufferView")
		}
		if *i.BufferView < 0 || *i.BufferView >= len(g.BufferViews) {
			return newErr("invalid Image.BufferView index")
		}
		switch i.MimeType {
		case MimeJPEG, MimePNG:
		default:
			return newErr("invalid Image.MimeType value")
		}
	} else if i.BufferView != nil {
		return newErr("Image must not define both URI and BufferView")
	}
	return nil
}

func (m *Material) check(g *GLTF) error {
	checkTex := func(idx int, texCoord int, field string) error {
		if idx < 0 || idx >= len(g.Textures) {
			return newErr("invalid Material." + field + ".Index index")
		}
		if texCoord < 0 {
			return newErr("invalid Material." + field + ".TexCoord set")
		}
		return nil
	}
	if pbr := m.PBRMetallicRoughness; pbr != nil {
		if tex := pbr.BaseColorTexture; tex != nil {
			if err := checkTex(tex.Index, tex.TexCoord, "PBRMetallicRoughness.BaseColorTexture"); err != nil {
				return err
			}
		}
		if tex := pbr.MetallicRoughnessTexture; tex != nil {
			if err := checkTex(tex.Index, tex.TexCoord, "PBRMetallicRoughness.MetallicRoughnessTexture"); err != nil {
				return err
			}
		}
	}
	if t := m.NormalTexture; t != nil {
		if err := checkTex(t.Index, t.TexCoord, "NormalTexture"); err != nil {
			return err
		}
	}
	if t := m.OcclusionTexture; t != nil {
		if err := checkTex(t.Index, t.TexCoord, "OcclusionTexture"); err != nil {
			return err
		}
	}
	if t := m.EmissiveTexture; t != nil {
		if err := checkTex(t.Index, t.TexCoord, "EmissiveTexture"); err != nil {
			return err
		}
	}
	switch m.AlphaMode {
	case "", AlphaOpaque, AlphaMask, AlphaBlend:
	default:
		return newErr("invalid Material.AlphaMode value")
	}
	return nil
}

func (m *Mesh) check(g *GLTF) error {
	if len(m.Primitives) == 0 {
		return newErr("invalid Mesh.Primitives length")
	}
	for i := range m.Primitives {
		p := &m.Primitives[i]
		if _, ok := p.Attributes["POSITION"]; !ok {
			return newErr("Mesh.Primitives[] missing POSITION attribute")
		}
		for _, v := range p.Attributes {
			if v < 0 || v >= len(g.Accessors) {
				return newErr("invalid Mesh.Primitives[].Attributes index")
			}
		}
		if p.Indices != nil && (*p.Indices < 0 || *p.Indices >= len(g.Accessors)) {
			return newErr("invalid Mesh.Primitives[].Indices index")
		}
		if p.Material != nil && (*p.Material < 0 || *p.Material >= len(g.Materials)) {
			return newErr("invalid Mesh.Primitives[].Material index")
		}
		if p.Mode != nil {
			switch *p.Mode {
			case ModePoints, ModeLines, ModeLineLoop, ModeLineStrip, ModeTriangles, ModeTriangleStrip, ModeTriangleFan:
			default:
				return newErr("invalid Mesh.Primitives[].Mode value")
			}
		}
	}
	return nil
}

func (n *Node) check(g *GLTF) error {
	if n.Camera != nil && (*n.Camera < 0 || *n.Camera >= len(g.Cameras)) {
		return newErr("invalid Node.Camera index")
	}
	if n.Skin != nil && (*n.Skin < 0 || *n.Skin >= len(g.Skins)) {
		return newErr("invalid Node.Skin index")
	}
	if n.Matrix != nil && (n.Rotation != nil || n.Scale != nil || n.Translation != nil) {
		return newErr("Node must not define both Matrix and TRS")
	}
	if n.Mesh != nil && (*n.Mesh < 0 || *n.Mesh >= len(g.Meshes)) {
		return newErr("invalid Node.Mesh index")
	}
	seen := make(map[int]bool, len(n.Children))
	for _, c := range n.Children {
		if c < 0 || c >= len(g.Nodes) {
			return newErr("invalid Node.Children[] index")
		}
		if seen[c] {
			return newErr("duplicate Node.Children[] index")
		}
		seen[c] = true
	}
	return nil
}

func (s *Sampler) check() error {
	switch s.MagFilter {
	case 0, FilterNearest, FilterLinear:
	default:
		return newErr("invalid Sampler.MagFilter value")
	}
	switch s.MinFilter {
	case 0, FilterNearest, FilterLinear, FilterNearestMipmapNearest, FilterLinearMipmapNearest, FilterNearestMipmapLinear, FilterLinearMipmapLinear:
	default:
		return newErr("invalid Sampler.MinFilter value")
	}
	for _, w := range [2]int{s.WrapS, s.WrapT} {
		switch w {
		case 0, WrapClampToEdge, WrapMirroredRepeat, WrapRepeat:
		default:
			return newErr("invalid Sampler.WrapS/T value")
		}
	}
	return nil
}

func (s *Scene) check(g *GLTF) error {
	seen := make(map[int]bool, len(s.Nodes))
	for _, n := range s.Nodes {
		if n < 0 || n >= len(g.Nodes) {
			return newErr("invalid Scene.Nodes[] index")
		}
		if seen[n] {
			return newErr("duplicate Scene.Nodes[] index")
		}
		seen[n] = true
	}
	return nil
}

func (s *Skin) check(g *GLTF) error {
	if len(s.Joints) == 0 {
		return newErr("invalid Skin.Joints length")
	}
	if s.InverseBindMatrices != nil {
		idx := *s.InverseBindMatrices
		if idx < 0 || idx >= len(g.Accessors) {
			return newErr("invalid Skin.InverseBindMatrices index")
		}
		acc := &g.Accessors[idx]
		if acc.Count < len(s.Joints) || acc.Type != TypeMat4 {
			return newErr("invalid Skin.InverseBindMatrices accessor")
		}
	}
	if s.Skeleton != nil && (*s.Skeleton < 0 || *s.Skeleton >= len(g.Nodes)) {
		return newErr("invalid Skin.Skeleton index")
	}
	seen := make(map[int]bool, len(s.Joints))
	for _, j := range s.Joints {
		if j < 0 || j >= len(g.Nodes) {
			return newErr("invalid Skin.Joints[] index")
		}
		if seen[j] {
			return newErr("duplicate Skin.Joints[] index")
		}
		seen[j] = true
	}
	return nil
}
