// Copyright 2024 The kxgraphics Authors. All rights reserved.

// Package gltf implements the glTF 2.0 JSON schema and its binary
// (GLB) container, independent of any particular scene-graph
// representation.
package gltf

import (
	"encoding/json"
	"io"
)

// GLTF is the root object of a glTF asset.
type GLTF struct {
	ExtensionsUsed     []string               `json:"extensionsUsed,omitempty"`
	ExtensionsRequired []string               `json:"extensionsRequired,omitempty"`
	Accessors          []Accessor             `json:"accessors,omitempty"`
	Animations         []Animation            `json:"animations,omitempty"`
	Asset              Asset                  `json:"asset"`
	Buffers            []Buffer               `json:"buffers,omitempty"`
	BufferViews        []BufferView           `json:"bufferViews,omitempty"`
	Cameras            []Camera               `json:"cameras,omitempty"`
	Images             []Image                `json:"images,omitempty"`
	Materials          []Material             `json:"materials,omitempty"`
	Meshes             []Mesh                 `json:"meshes,omitempty"`
	Nodes              []Node                 `json:"nodes,omitempty"`
	Samplers           []Sampler              `json:"samplers,omitempty"`
	Scene              *int                   `json:"scene,omitempty"`
	Scenes             []Scene                `json:"scenes,omitempty"`
	Skins              []Skin                 `json:"skins,omitempty"`
	Textures           []Texture              `json:"textures,omitempty"`
	Extensions         map[string]any         `json:"extensions,omitempty"`
	Extras             any                    `json:"extras,omitempty"`
}

// Asset holds metadata about the glTF asset.
type Asset struct {
	Copyright  string `json:"copyright,omitempty"`
	Generator  string `json:"generator,omitempty"`
	Version    string `json:"version"`
	MinVersion string `json:"minVersion,omitempty"`
	Extras     any    `json:"extras,omitempty"`
}

// Generator is the string written into every emitted Asset.Generator.
const Generator = "kxgraphics/gltfwriter"

// Accessor is a typed view into a BufferView.
type Accessor struct {
	BufferView    *int                   `json:"bufferView,omitempty"`
	ByteOffset    int                    `json:"byteOffset,omitempty"`
	ComponentType int                    `json:"componentType"`
	Normalized    bool                   `json:"normalized,omitempty"`
	Count         int                    `json:"count"`
	Type          string                 `json:"type"`
	Max           []float32              `json:"max,omitempty"`
	Min           []float32              `json:"min,omitempty"`
	Name          string                 `json:"name,omitempty"`
	Extensions    map[string]any         `json:"extensions,omitempty"`
	Extras        any                    `json:"extras,omitempty"`
}

// accessor.componentType values.
const (
	ComponentByte          = 5120
	ComponentUnsignedByte  = 5121
	ComponentShort         = 5122
	ComponentUnsignedShort = 5123
	ComponentUnsignedInt   = 5125
	ComponentFloat         = 5126
)

// accessor.type values.
const (
	TypeScalar = "SCALAR"
	TypeVec2   = "VEC2"
	TypeVec3   = "VEC3"
	TypeVec4   = "VEC4"
	TypeMat3   = "MAT3"
	TypeMat4   = "MAT4"
)

// Animation is a keyframe animation.
type Animation struct {
	Channels []Channel          `json:"channels"`
	Samplers []AnimationSampler `json:"samplers"`
	Name     string             `json:"name,omitempty"`
	Extras   any                `json:"extras,omitempty"`
}

// animation.channels' element.
type Channel struct {
	Sampler int    `json:"sampler"`
	Target  Target `json:"target"`
}

// animation.channel.target.
type Target struct {
	Node *int   `json:"node,omitempty"`
	Path string `json:"path"`
}

// animation.channel.target.path values.
const (
	PathTranslation = "translation"
	PathRotation    = "rotation"
	PathScale       = "scale"
	PathWeights     = "weights"
)

// animation.samplers' element.
type AnimationSampler struct {
	Input         int    `json:"input"`
	Interpolation string `json:"interpolation,omitempty"` // Default is LINEAR.
	Output        int    `json:"output"`
}

// animation.sampler.interpolation values.
const (
	InterpolationLinear      = "LINEAR"
	InterpolationStep        = "STEP"
	InterpolationCubicSpline = "CUBICSPLINE"
)

// Buffer points to binary geometry, animation, or skinning data.
type Buffer struct {
	URI        string `json:"uri,omitempty"`
	ByteLength int    `json:"byteLength"`
	Name       string `json:"name,omitempty"`
}

// BufferView is a contiguous view into a Buffer.
type BufferView struct {
	Buffer     int    `json:"buffer"`
	ByteOffset int    `json:"byteOffset,omitempty"`
	ByteLength int    `json:"byteLength"`
	ByteStride int    `json:"byteStride,omitempty"`
	Target     int    `json:"target,omitempty"`
	Name       string `json:"name,omitempty"`
}

// bufferView.target values.
const (
	TargetArrayBuffer        = 34962
	TargetElementArrayBuffer = 34963
)

// Camera is a camera's projection.
type Camera struct {
	Orthographic *Orthographic `json:"orthographic,omitempty"`
	Perspective  *Perspective  `json:"perspective,omitempty"`
	Type         string        `json:"type"`
	Name         string        `json:"name,omitempty"`
}

// camera.orthographic.
type Orthographic struct {
	Xmag  float32 `json:"xmag"`
	Ymag  float32 `json:"ymag"`
	Zfar  float32 `json:"zfar"`
	Znear float32 `json:"znear"`
}

// camera.perspective.
type Perspective struct {
	AspectRatio float32 `json:"aspectRatio,omitempty"`
	YFov        float32 `json:"yfov"`
	Zfar        float32 `json:"zfar,omitempty"` // 0 for infinite perspective.
	Znear       float32 `json:"znear"`
}

// camera.type values.
const (
	CameraPerspective  = "perspective"
	CameraOrthographic = "orthographic"
)

// Image is source data used to create a texture.
type Image struct {
	URI        string `json:"uri,omitempty"`
	MimeType   string `json:"mimeType,omitempty"`
	BufferView *int   `json:"bufferView,omitempty"`
	Name       string `json:"name,omitempty"`
}

// image.mimeType values.
const (
	MimeJPEG = "image/jpeg"
	MimePNG  = "image/png"
)

// Material describes the appearance of a primitive.
type Material struct {
	PBRMetallicRoughness *PBRMetallicRoughness `json:"pbrMetallicRoughness,omitempty"`
	NormalTexture        *NormalTextureInfo    `json:"normalTexture,omitempty"`
	OcclusionTexture     *OcclusionTextureInfo `json:"occlusionTexture,omitempty"`
	EmissiveTexture      *TextureInfo          `json:"emissiveTexture,omitempty"`
	EmissiveFactor       *[3]float32           `json:"emissiveFactor,omitempty"`
	AlphaMode            string                `json:"alphaMode,omitempty"`
	AlphaCutoff          *float32              `json:"alphaCutoff,omitempty"`
	DoubleSided          bool                  `json:"doubleSided,omitempty"`
	Name                 string                `json:"name,omitempty"`
	Extensions           map[string]any        `json:"extensions,omitempty"`
	Extras               any                   `json:"extras,omitempty"`
}

// material.normalTextureInfo.
type NormalTextureInfo struct {
	Index    int      `json:"index"`
	TexCoord int      `json:"texCoord,omitempty"`
	Scale    *float32 `json:"scale,omitempty"`
}

// material.occlusionTextureInfo.
type OcclusionTextureInfo struct {
	Index    int      `json:"index"`
	TexCoord int      `json:"texCoord,omitempty"`
	Strength *float32 `json:"strength,omitempty"`
}

// material.pbrMetallicRoughness.
type PBRMetallicRoughness struct {
	BaseColorFactor          *[4]float32  `json:"baseColorFactor,omitempty"`
	BaseColorTexture         *TextureInfo `json:"baseColorTexture,omitempty"`
	MetallicFactor           *float32     `json:"metallicFactor,omitempty"`
	RoughnessFactor          *float32     `json:"roughnessFactor,omitempty"`
	MetallicRoughnessTexture *TextureInfo `json:"metallicRoughnessTexture,omitempty"`
}

// material.alphaMode values.
const (
	AlphaOpaque = "OPAQUE"
	AlphaMask   = "MASK"
	AlphaBlend  = "BLEND"
)

// Mesh is a collection of primitives to be rendered.
type Mesh struct {
	Primitives []Primitive `json:"primitives"`
	Weights    []float32   `json:"weights,omitempty"`
	Name       string      `json:"name,omitempty"`
	Extras     any         `json:"extras,omitempty"`
}

// mesh.primitives' element.
type Primitive struct {
	Attributes map[string]int   `json:"attributes"`
	Indices    *int             `json:"indices,omitempty"`
	Material   *int             `json:"material,omitempty"`
	Mode       *int             `json:"mode,omitempty"` // Default is TRIANGLES.
	Targets    []map[string]int `json:"targets,omitempty"`
}

// mesh.primitive.mode values.
const (
	ModePoints = iota
	ModeLines
	ModeLineLoop
	ModeLineStrip
	ModeTriangles
	ModeTriangleStrip
	ModeTriangleFan
)

// Node is a node in the node hierarchy.
type Node struct {
	Camera      *int                   `json:"camera,omitempty"`
	Children    []int                  `json:"children,omitempty"`
	Skin        *int                   `json:"skin,omitempty"`
	Matrix      *[16]float32           `json:"matrix,omitempty"`
	Mesh        *int                   `json:"mesh,omitempty"`
	Rotation    *[4]float32            `json:"rotation,omitempty"`
	Scale       *[3]float32            `json:"scale,omitempty"`
	Translation *[3]float32            `json:"translation,omitempty"`
	Weights     []float32              `json:"weights,omitempty"`
	Name        string                 `json:"name,omitempty"`
	Extensions  map[string]any         `json:"extensions,omitempty"`
	Extras      any                    `json:"extras,omitempty"`
}

// Sampler describes a texture's wrap and filter modes.
type Sampler struct {
	MagFilter int    `json:"magFilter,omitempty"`
	MinFilter int    `json:"minFilter,omitempty"`
	WrapS     int    `json:"wrapS,omitempty"` // Default is REPEAT.
	WrapT     int    `json:"wrapT,omitempty"` // Default is REPEAT.
	Name      string `json:"name,omitempty"`
}

// sampler.*Filter values.
const (
	FilterNearest              = 0x2600
	FilterLinear               = 0x2601
	FilterNearestMipmapNearest = 0x2700
	FilterLinearMipmapNearest  = 0x2701
	FilterNearestMipmapLinear  = 0x2702
	FilterLinearMipmapLinear   = 0x2703
)

// sampler.wrap* values.
const (
	WrapClampToEdge    = 33071
	WrapMirroredRepeat = 33648
	WrapRepeat         = 10497
)

// Scene is a set of visual root nodes.
type Scene struct {
	Nodes []int  `json:"nodes,omitempty"`
	Name  string `json:"name,omitempty"`
}

// Skin defines joints and matrices for vertex skinning.
type Skin struct {
	InverseBindMatrices *int   `json:"inverseBindMatrices,omitempty"`
	Skeleton            *int   `json:"skeleton,omitempty"`
	Joints              []int  `json:"joints"`
	Name                string `json:"name,omitempty"`
}

// Texture references a Sampler and an Image.
type Texture struct {
	Sampler    *int           `json:"sampler,omitempty"`
	Source     *int           `json:"source,omitempty"`
	Name       string         `json:"name,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

// TextureInfo references a Texture and its TEXCOORD set.
type TextureInfo struct {
	Index      int            `json:"index"`
	TexCoord   int            `json:"texCoord,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

// Encode writes the canonical JSON encoding of g to w.
func Encode(w io.Writer, g *GLTF) error {
	enc := json.NewEncoder(w)
	return enc.Encode(g)
}

// Decode reads a GLTF value encoded as JSON from r.
// Kept for round-trip verification in this package's own
// tests; this module does not offer a parsing product feature.
func Decode(r io.Reader) (*GLTF, error) {
	var g GLTF
	dec := json.NewDecoder(r)
	if err := dec.Decode(&g); err != nil {
		return nil, err
	}
	return &g, nil
}
