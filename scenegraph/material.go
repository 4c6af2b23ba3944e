// Copyright 2024 The kxgraphics Authors. All rights reserved.

package scenegraph

// AlphaMode is a material's transparency handling.
type AlphaMode int

const (
	AlphaOpaque AlphaMode = iota
	AlphaBlend
	AlphaMask
)

// TextureRef identifies a texture and the UV set sampling it reads.
type TextureRef struct {
	Texture *Texture
	UVSet   int
}

// Material describes the appearance of a Mesh's geometry, in the
// metallic-roughness model. A zero Shader is the standard PBR
// material; a non-empty Shader names an unsupported custom shader
// (e.g. "ShaderMaterial"), which the writer fails soft on (skips the
// material, warns) rather than emitting garbage.
type Material struct {
	UUID string
	Name string
	// Shader, when non-empty, marks this as a material kind the
	// writer cannot translate; processMaterial skips it and warns.
	Shader string

	BaseColorFactor  [4]float32
	BaseColorTexture *TextureRef

	MetallicFactor           float32
	RoughnessFactor          float32
	// MetallicRoughnessTexture is used directly when the source
	// already ships one combined texture. When the source instead
	// carries separate metalness and roughness maps, leave this nil
	// and set MetalnessTexture/RoughnessTexture; the writer composites
	// them into one glTF metallicRoughnessTexture (roughness into G,
	// metalness into B, cyan-prefilled where a channel is absent).
	MetallicRoughnessTexture *TextureRef
	MetalnessTexture         *TextureRef
	RoughnessTexture         *TextureRef

	NormalTexture *TextureRef
	NormalScale   float32

	OcclusionTexture  *TextureRef
	OcclusionStrength float32

	EmissiveFactor  [3]float32
	EmissiveTexture *TextureRef
	// EmissiveStrength above 1 triggers KHR_materials_emissive_strength.
	EmissiveStrength float32

	AlphaMode   AlphaMode
	AlphaCutoff float32
	DoubleSided bool

	// Unlit marks a basic/unlit material; the writer emits
	// KHR_materials_unlit and elides metal/rough factors.
	Unlit bool

	// Extension parameter blocks. Nil means the capability does
	// not apply to this material; any non-nil block makes the
	// corresponding plug-in emit its sub-object, even when every
	// value equals the extension default (zero-valued fields and nil
	// textures are left out of the JSON). Volume is emitted only
	// when Transmission is also set with a nonzero Factor.
	Transmission *Transmission
	Volume       *Volume
	IOR          *IOR
	Specular     *Specular
	Clearcoat    *Clearcoat
	Dispersion   *Dispersion
	Iridescence  *Iridescence
	Sheen        *Sheen
	Anisotropy   *Anisotropy
	Bump         *Bump
}

// Transmission is KHR_materials_transmission's input.
type Transmission struct {
	Factor  float32
	Texture *TextureRef
}

// Volume is KHR_materials_volume's input.
type Volume struct {
	ThicknessFactor     float32
	ThicknessTexture    *TextureRef
	AttenuationDistance float32 // 0 means +Inf (no attenuation).
	AttenuationColor    [3]float32
}

// IOR is KHR_materials_ior's input.
type IOR struct {
	Value float32
}

// Specular is KHR_materials_specular's input.
type Specular struct {
	Factor       float32
	Texture      *TextureRef
	ColorFactor  [3]float32
	ColorTexture *TextureRef
}

// Clearcoat is KHR_materials_clearcoat's input.
type Clearcoat struct {
	Factor           float32
	Texture          *TextureRef
	RoughnessFactor  float32
	RoughnessTexture *TextureRef
	NormalTexture    *TextureRef
}

// Dispersion is KHR_materials_dispersion's input.
type Dispersion struct {
	Value float32
}

// Iridescence is KHR_materials_iridescence's input.
type Iridescence struct {
	Factor           float32
	Texture          *TextureRef
	IOR              float32
	ThicknessMin     float32
	ThicknessMax     float32
	ThicknessTexture *TextureRef
}

// Sheen is KHR_materials_sheen's input.
type Sheen struct {
	ColorFactor      [3]float32
	ColorTexture     *TextureRef
	RoughnessFactor  float32
	RoughnessTexture *TextureRef
}

// Anisotropy is KHR_materials_anisotropy's input.
type Anisotropy struct {
	Strength float32
	Rotation float32
	Texture  *TextureRef
}

// Bump is KHR_materials_bump's input (bump-mapping strength for
// non-tangent-space normal-like maps).
type Bump struct {
	Factor  float32
	Texture *TextureRef
}

// Texture references an Image and a Sampler.
type Texture struct {
	UUID    string
	Name    string
	Image   *Image
	Sampler *Sampler
	// Transform, if non-nil, is KHR_texture_transform's input.
	Transform *TextureTransform
}

// TextureTransform is KHR_texture_transform's input.
type TextureTransform struct {
	Offset   [2]float32
	Rotation float32
	Scale    [2]float32
}

// Sampler describes wrap and filter modes, using the same numeric
// values as WebGL/glTF so the writer copies them through unchanged.
type Sampler struct {
	MagFilter int
	MinFilter int
	WrapS     int
	WrapT     int
}

// Filter and wrap constants (WebGL/glTF enums).
const (
	FilterNearest              = 0x2600
	FilterLinear               = 0x2601
	FilterNearestMipmapNearest = 0x2700
	FilterLinearMipmapNearest  = 0x2701
	FilterNearestMipmapLinear  = 0x2702
	FilterLinearMipmapLinear   = 0x2703

	WrapClampToEdge    = 33071
	WrapMirroredRepeat = 33648
	WrapRepeat         = 10497
)
