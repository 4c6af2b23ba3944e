// Copyright 2024 The kxgraphics Authors. All rights reserved.

package gltf

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
)

// GLB header layout.
type glbHeader [3]uint32

const (
	headerMagic   = 0
	headerVersion = 1
	headerLength  = 2
)

// GLB chunk layout.
type glbChunk [2]uint32

const (
	chunkLength = 0
	chunkType   = 1
)

const (
	magic    = 0x46546c67 // 'glTF'
	typeJSON = 0x4e4f534a // 'JSON'
	typeBIN  = 0x004e4942 // 'BIN\x00'

	glbVersion = 2
)

func newGLBErr(reason string) error { return errors.New("gltf: " + reason) }

// IsGLB reports whether r begins with a valid GLB (version 2) header.
// It assumes that r is positioned at the start of the blob.
func IsGLB(r io.Reader) bool {
	var h glbHeader
	err := binary.Read(r, binary.LittleEndian, h[:])
	return err == nil && h[headerMagic] == magic && h[headerVersion] == glbVersion
}

// Pack assembles a GLB blob from g and bin into w.
// The JSON chunk is padded with 0x20, the BIN chunk with 0x00, both
// to a 4-byte boundary. The BIN chunk is always present, even when bin
// is empty (a zero-length chunk).
func Pack(w io.Writer, g *GLTF, bin []byte) error {
	var jsonBuf bytes.Buffer
	if err := Encode(&jsonBuf, g); err != nil {
		return err
	}
	// json.Encoder.Encode appends a trailing newline; drop it before padding.
	js := jsonBuf.Bytes()
	if n := len(js); n > 0 && js[n-1] == '\n' {
		js = js[:n-1]
	}
	js = padRight(js, 0x20)

	h := glbHeader{headerMagic: magic, headerVersion: glbVersion}
	jc := glbChunk{chunkLength: uint32(len(js)), chunkType: typeJSON}

	padded := padRight(bin, 0x00)
	bc := glbChunk{chunkLength: uint32(len(padded)), chunkType: typeBIN}

	total := uint64(12+8+len(js)) + uint64(8+len(padded))
	if total > uint64(^uint32(0)) {
		return newGLBErr("GLB length overflow")
	}
	h[headerLength] = uint32(total)

	if err := binary.Write(w, binary.LittleEndian, h[:]); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, jc[:]); err != nil {
		return err
	}
	if _, err := w.Write(js); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, bc[:]); err != nil {
		return err
	}
	_, err := w.Write(padded)
	return err
}

// padRight returns b (or a copy of b) right-padded with fill bytes to
// a multiple of 4 in length.
func padRight(b []byte, fill byte) []byte {
	pad := len(b) % 4
	if pad == 0 {
		return b
	}
	out := make([]byte, len(b), len(b)+4-pad)
	copy(out, b)
	for len(out)%4 != 0 {
		out = append(out, fill)
	}
	return out
}

// Unpack reads a GLB blob from r, returning the decoded JSON chunk and
// a copy of the BIN chunk's payload (nil if absent).
// Kept alongside Pack for the package's own round-trip tests; this
// module's product surface is GLB emission, not GLB ingestion.
func Unpack(r io.Reader) (g *GLTF, bin []byte, err error) {
	var h glbHeader
	if err = binary.Read(r, binary.LittleEndian, h[:]); err != nil {
		return
	}
	if h[headerMagic] != magic || h[headerVersion] != glbVersion {
		err = newGLBErr("not a GLB v2 blob")
		return
	}
	var jc glbChunk
	if err = binary.Read(r, binary.LittleEndian, jc[:]); err != nil {
		return
	}
	if jc[chunkType] != typeJSON {
		err = newGLBErr("expected JSON chunk first")
		return
	}
	g, err = Decode(io.LimitReader(r, int64(jc[chunkLength])))
	if err != nil {
		return
	}
	var bc glbChunk
	if err = binary.Read(r, binary.LittleEndian, bc[:]); err != nil {
		if err == io.EOF {
			err = nil
		}
		return
	}
	if bc[chunkType] != typeBIN {
		err = newGLBErr("expected BIN chunk second")
		return
	}
	bin = make([]byte, bc[chunkLength])
	_, err = io.ReadFull(r, bin)
	return
}
