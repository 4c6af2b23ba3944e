// Copyright 2024 The kxgraphics Authors. All rights reserved.

package export

import (
	"kxgraphics/gltfwriter/gltf"
	"kxgraphics/gltfwriter/scenegraph"
)

const keyframeTolerance = 0.001

// processAnimation merges per-index morph-weight tracks, resolves
// each resulting track's target node, and emits one sampler/channel
// pair per track. Tracks whose node fell outside the exported
// hierarchy, or whose path has no glTF equivalent, are silently
// dropped.
func (w *writeState) processAnimation(clip *scenegraph.AnimationClip) error {
	merged, err := mergeMorphTargetTracks(clip.Tracks)
	if err != nil {
		return err
	}

	var channels []gltf.Channel
	var samplers []gltf.AnimationSampler
	for _, tr := range merged {
		nodeIdx, ok := w.nodeMap[tr.Node]
		if !ok {
			continue
		}
		path, ok := gltfPath(tr.Path)
		if !ok {
			continue
		}

		timesAttr := &scenegraph.Attribute{Data: append([]float32(nil), tr.Times...), ItemSize: 1}
		inputIdx, err := w.processAccessor(timesAttr, false, 0, len(tr.Times))
		if err != nil {
			return err
		}

		// The weights sampler output must be SCALAR per glTF's animation
		// schema: a morph track's per-keyframe vector of MorphCount
		// weights is written as MorphCount consecutive scalars rather
		// than one VEC{n} element.
		itemSize := tr.Stride()
		outCount := len(tr.Times)
		if tr.Path == scenegraph.PathMorphWeights {
			itemSize = 1
			outCount = len(tr.Values)
		}
		valuesAttr := &scenegraph.Attribute{Data: append([]float32(nil), tr.Values...), ItemSize: itemSize}
		outputIdx, err := w.processAccessor(valuesAttr, false, 0, outCount)
		if err != nil {
			return err
		}

		samplerIdx := len(samplers)
		samplers = append(samplers, gltf.AnimationSampler{
			Input:         inputIdx,
			Output:        outputIdx,
			Interpolation: gltfInterpolation(tr.Interpolation),
		})
		n := nodeIdx
		channels = append(channels, gltf.Channel{
			Sampler: samplerIdx,
			Target:  gltf.Target{Node: &n, Path: path},
		})
	}
	if len(channels) == 0 {
		return nil
	}

	w.doc.Animations = append(w.doc.Animations, gltf.Animation{
		Channels: channels,
		Samplers: samplers,
		Name:     clip.Name,
	})
	return nil
}

func gltfPath(p scenegraph.Path) (string, bool) {
	switch p {
	case scenegraph.PathTranslation:
		return gltf.PathTranslation, true
	case scenegraph.PathRotation:
		return gltf.PathRotation, true
	case scenegraph.PathScale:
		return gltf.PathScale, true
	case scenegraph.PathMorphWeights:
		return gltf.PathWeights, true
	default:
		return "", false
	}
}

func gltfInterpolation(i scenegraph.Interpolation) string {
	switch i {
	case scenegraph.Step:
		return gltf.InterpolationStep
	case scenegraph.CubicSpline:
		return gltf.InterpolationCubicSpline
	default:
		return gltf.InterpolationLinear
	}
}

// mergeMorphTargetTracks coalesces per-index PathMorphWeight tracks
// into one PathMorphWeights track per target node; every other track
// passes through unchanged.
func mergeMorphTargetTracks(tracks []*scenegraph.Track) ([]*scenegraph.Track, error) {
	var out []*scenegraph.Track
	merged := make(map[*scenegraph.Node]*scenegraph.Track)
	var order []*scenegraph.Node

	for _, tr := range tracks {
		if tr.Path != scenegraph.PathMorphWeight {
			out = append(out, tr)
			continue
		}
		if tr.Interpolation == scenegraph.CubicSpline {
			return nil, newErr(UnsupportedInput, "CUBICSPLINE morph target track cannot be merged")
		}

		m, ok := merged[tr.Node]
		if !ok {
			n := morphCountFor(tr.Node, tr.MorphIndex)
			m = &scenegraph.Track{
				Node:          tr.Node,
				Path:          scenegraph.PathMorphWeights,
				MorphCount:    n,
				Interpolation: scenegraph.Linear,
				Times:         append([]float32(nil), tr.Times...),
				Values:        make([]float32, len(tr.Times)*n),
			}
			for i, v := range tr.Values {
				if tr.MorphIndex < n {
					m.Values[i*n+tr.MorphIndex] = v
				}
			}
			merged[tr.Node] = m
			order = append(order, tr.Node)
			continue
		}

		n := m.MorphCount
		if tr.MorphIndex >= n {
			// Widen the merged track so this index has a slot.
			wide := tr.MorphIndex + 1
			vals := make([]float32, len(m.Times)*wide)
			for i := range m.Times {
				copy(vals[i*wide:i*wide+n], m.Values[i*n:(i+1)*n])
			}
			m.Values, m.MorphCount, n = vals, wide, wide
		}
		for i, t := range m.Times {
			m.Values[i*n+tr.MorphIndex] = sampleScalarTrack(tr.Times, tr.Values, t)
		}
		for k, t := range tr.Times {
			idx := insertKeyframe(m, t)
			m.Values[idx*n+tr.MorphIndex] = tr.Values[k]
		}
	}

	for _, node := range order {
		out = append(out, merged[node])
	}
	return out, nil
}

// morphCountFor returns the target node's morph target count, derived
// from its mesh geometry when available, else the widest index
// referenced so far.
func morphCountFor(node *scenegraph.Node, seenIndex int) int {
	if node != nil && node.Mesh != nil && node.Mesh.Geometry != nil {
		n := 0
		for _, targets := range node.Mesh.Geometry.MorphAttributes {
			if len(targets) > n {
				n = len(targets)
			}
		}
		if n > 0 {
			return n
		}
	}
	return seenIndex + 1
}

// sampleScalarTrack linearly interpolates a stride-1 track at t,
// clamping to the first/last value outside its time range.
func sampleScalarTrack(times, values []float32, t float32) float32 {
	n := len(times)
	if n == 0 {
		return 0
	}
	if t <= times[0] {
		return values[0]
	}
	if t >= times[n-1] {
		return values[n-1]
	}
	for i := 0; i < n-1; i++ {
		if t >= times[i] && t <= times[i+1] {
			frac := (t - times[i]) / (times[i+1] - times[i])
			return values[i] + (values[i+1]-values[i])*frac
		}
	}
	return values[n-1]
}

// sampleVectorAt linearly interpolates a stride-wide track at t.
func sampleVectorAt(times, values []float32, stride int, t float32) []float32 {
	n := len(times)
	out := make([]float32, stride)
	if n == 0 {
		return out
	}
	if t <= times[0] {
		copy(out, values[0:stride])
		return out
	}
	if t >= times[n-1] {
		copy(out, values[(n-1)*stride:n*stride])
		return out
	}
	for i := 0; i < n-1; i++ {
		if t >= times[i] && t <= times[i+1] {
			frac := (t - times[i]) / (times[i+1] - times[i])
			for c := 0; c < stride; c++ {
				a := values[i*stride+c]
				b := values[(i+1)*stride+c]
				out[c] = a + (b-a)*frac
			}
			return out
		}
	}
	copy(out, values[(n-1)*stride:n*stride])
	return out
}

// insertKeyframe returns the index of an existing keyframe within
// keyframeTolerance of t in m, inserting a new one (its slots filled
// by sampling m's own interpolant at t) if none is close enough.
func insertKeyframe(m *scenegraph.Track, t float32) int {
	for i, et := range m.Times {
		d := et - t
		if d < 0 {
			d = -d
		}
		if d <= keyframeTolerance {
			return i
		}
	}

	stride := m.MorphCount
	pos := len(m.Times)
	for i, et := range m.Times {
		if t < et {
			pos = i
			break
		}
	}
	fill := sampleVectorAt(m.Times, m.Values, stride, t)

	m.Times = append(m.Times, 0)
	copy(m.Times[pos+1:], m.Times[pos:])
	m.Times[pos] = t

	m.Values = append(m.Values, fill...)
	copy(m.Values[(pos+1)*stride:], m.Values[pos*stride:len(m.Values)-stride])
	copy(m.Values[pos*stride:(pos+1)*stride], fill)

	return pos
}
