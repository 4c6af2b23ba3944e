// Copyright 2024 The kxgraphics Authors. All rights reserved.

package scenegraph

// LightType is a KHR_lights_punctual light kind.
type LightType int

const (
	Directional LightType = iota
	Point
	Spot
)

// Light is a punctual light attached to a Node.
type Light struct {
	Name      string
	Type      LightType
	Color     [3]float32
	Intensity float32
	// Range is the light's distance cutoff; 0 means infinite range.
	Range float32
	// Decay is the distance-attenuation exponent; glTF punctual
	// lights always use inverse-square (decay 2). A nonzero decay
	// other than 2 cannot be represented and draws a Degradation
	// warning; 0 is treated as unset and draws none.
	Decay float32

	// Angle is the spot light's outer cone half-angle, in radians.
	Angle float32
	// Penumbra is the fraction of Angle, from the outer edge inward,
	// over which the cone softens; innerConeAngle = Angle*(1-Penumbra).
	Penumbra float32
	// Target, for a spot light, is the node the cone points at. glTF
	// has no spot target node, so any non-nil Target on a spot light
	// draws a Degradation warning, whether or not it lies on the
	// light's -Z axis; only Angle/Penumbra are emitted.
	Target *Node
}
