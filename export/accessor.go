// Copyright 2024 The kxgraphics Authors. All rights reserved.

package export

import (
	"encoding/binary"
	"math"

	"kxgraphics/gltfwriter/gltf"
	"kxgraphics/gltfwriter/scenegraph"
)

// accessorKey identifies one (attribute, range) pairing in the
// accessor cache. Attribute identity is the UID assigned by the
// writer's uidAllocator rather than the pointer itself, since
// morph-relativized clones are freshly allocated per export and must
// still dedup against the clone that produced them within one call.
type accessorKey struct {
	uid          uint32
	start, count int
}

func (w *writeState) keyFor(attr *scenegraph.Attribute, start, count int) accessorKey {
	return accessorKey{uid: attr.UID(w.uid.Next), start: start, count: count}
}

// processAccessor emits attr[start:start+count] as an accessor,
// deduplicated by (attribute identity, range). Returns -1 (Skip) when
// count is 0.
func (w *writeState) processAccessor(attr *scenegraph.Attribute, isIndex bool, start, count int) (int, error) {
	if count == 0 {
		return -1, nil
	}
	key := w.keyFor(attr, start, count)
	if idx, ok := w.accessorCache[key]; ok {
		return idx, nil
	}

	componentType, componentSize, ok := componentTypeOf(attr.Data)
	if !ok {
		return -1, newErr(UnsupportedInput, "unknown component storage type")
	}
	typeStr, ok := gltfTypeFromItemSize(attr.ItemSize)
	if !ok {
		return -1, newErr(UnsupportedInput, "accessor item size not representable")
	}

	min, max := computeMinMax(attr.Data, attr.ItemSize, start, count)

	bvIdx, err := w.processBufferView(attr, isIndex, start, count, componentType, componentSize)
	if err != nil {
		return -1, err
	}

	acc := gltf.Accessor{
		BufferView:    &bvIdx,
		ComponentType: componentType,
		Count:         count,
		Type:          typeStr,
		Normalized:    attr.Normalized,
		Min:           min,
		Max:           max,
	}
	idx := len(w.doc.Accessors)
	w.doc.Accessors = append(w.doc.Accessors, acc)
	w.accessorCache[key] = idx
	return idx, nil
}

// processBufferView packs attr[start:start+count] into a fresh
// bufferView appended to the binary buffer, 4-byte aligned. For
// ARRAY_BUFFER targets (vertex attributes) byteStride is
// ceil(itemSize*componentSize/4)*4 and each element is padded out to
// that stride; ELEMENT_ARRAY_BUFFER views (indices) are tightly
// packed with no stride.
func (w *writeState) processBufferView(attr *scenegraph.Attribute, isIndex bool, start, count int, componentType, componentSize int) (int, error) {
	itemSize := attr.ItemSize
	elemBytes := itemSize * componentSize

	target := gltf.TargetArrayBuffer
	stride := 0
	if isIndex {
		target = gltf.TargetElementArrayBuffer
	} else {
		stride = ceilDiv(elemBytes, 4) * 4
	}

	var raw []byte
	if stride > 0 {
		raw = make([]byte, count*stride)
	} else {
		raw = make([]byte, count*elemBytes)
	}
	for k := 0; k < count; k++ {
		var off int
		if stride > 0 {
			off = k * stride
		} else {
			off = k * elemBytes
		}
		writeElement(raw[off:off+elemBytes], attr.Data, (start+k)*itemSize, itemSize, componentType, componentSize)
	}

	length := len(raw)
	padded := raw
	if rem := length % 4; rem != 0 {
		padded = append(padded, make([]byte, 4-rem)...)
	}
	offset := w.appendBin(padded)

	bv := gltf.BufferView{
		Buffer:     0,
		ByteOffset: offset,
		ByteLength: length,
		Target:     target,
	}
	if stride > 0 {
		bv.ByteStride = stride
	}
	w.ensureBuffer()
	idx := len(w.doc.BufferViews)
	w.doc.BufferViews = append(w.doc.BufferViews, bv)
	return idx, nil
}

func (w *writeState) ensureBuffer() {
	if w.doc.Buffers == nil {
		w.doc.Buffers = []gltf.Buffer{{}}
	}
}

func ceilDiv(a, b int) int { return (a + b - 1) / b }

// componentTypeOf maps a typed attribute slice to its glTF
// componentType and byte size.
func componentTypeOf(data any) (componentType, size int, ok bool) {
	switch data.(type) {
	case []int8:
		return gltf.ComponentByte, 1, true
	case []uint8:
		return gltf.ComponentUnsignedByte, 1, true
	case []int16:
		return gltf.ComponentShort, 2, true
	case []uint16:
		return gltf.ComponentUnsignedShort, 2, true
	case []uint32:
		return gltf.ComponentUnsignedInt, 4, true
	case []float32:
		return gltf.ComponentFloat, 4, true
	default:
		return 0, 0, false
	}
}

func gltfTypeFromItemSize(n int) (string, bool) {
	switch n {
	case 1:
		return gltf.TypeScalar, true
	case 2:
		return gltf.TypeVec2, true
	case 3:
		return gltf.TypeVec3, true
	case 4:
		return gltf.TypeVec4, true
	case 9:
		return gltf.TypeMat3, true
	case 16:
		return gltf.TypeMat4, true
	default:
		return "", false
	}
}

// componentAt returns the raw numeric value at flat index i of data,
// widened to float32.
func componentAt(data any, i int) float32 {
	switch d := data.(type) {
	case []int8:
		return float32(d[i])
	case []uint8:
		return float32(d[i])
	case []int16:
		return float32(d[i])
	case []uint16:
		return float32(d[i])
	case []uint32:
		return float32(d[i])
	case []float32:
		return d[i]
	default:
		return 0
	}
}

func computeMinMax(data any, itemSize, start, count int) ([]float32, []float32) {
	min := make([]float32, itemSize)
	max := make([]float32, itemSize)
	for c := 0; c < itemSize; c++ {
		min[c] = float32(math.Inf(1))
		max[c] = float32(math.Inf(-1))
	}
	for k := start; k < start+count; k++ {
		for c := 0; c < itemSize; c++ {
			v := componentAt(data, k*itemSize+c)
			if v < min[c] {
				min[c] = v
			}
			if v > max[c] {
				max[c] = v
			}
		}
	}
	return min, max
}

// writeElement little-endian-encodes one element (itemSize
// components starting at flat index flatStart) of data into dst.
func writeElement(dst []byte, data any, flatStart, itemSize, componentType, componentSize int) {
	for c := 0; c < itemSize; c++ {
		off := c * componentSize
		i := flatStart + c
		switch componentType {
		case gltf.ComponentByte:
			dst[off] = byte(data.([]int8)[i])
		case gltf.ComponentUnsignedByte:
			dst[off] = data.([]uint8)[i]
		case gltf.ComponentShort:
			binary.LittleEndian.PutUint16(dst[off:], uint16(data.([]int16)[i]))
		case gltf.ComponentUnsignedShort:
			binary.LittleEndian.PutUint16(dst[off:], data.([]uint16)[i])
		case gltf.ComponentUnsignedInt:
			binary.LittleEndian.PutUint32(dst[off:], data.([]uint32)[i])
		case gltf.ComponentFloat:
			binary.LittleEndian.PutUint32(dst[off:], math.Float32bits(data.([]float32)[i]))
		}
	}
}
