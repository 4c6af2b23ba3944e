// Copyright 2024 The kxgraphics Authors. All rights reserved.

package gltf

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func TestMinimalGLTF(t *testing.T) {
	r := bytes.NewReader([]byte(`{"asset":{"version":"2.0"}}`))
	g, err := Decode(r)
	if err != nil {
		t.Fatal(err)
	}
	if err = g.Check(); err != nil {
		t.Fatal(err)
	}
	if s := g.Asset.Version; s != "2.0" {
		t.Fatalf("Asset.Version\nhave %s\nwant 2.0", s)
	}
	var buf bytes.Buffer
	if err = Encode(&buf, g); err != nil {
		t.Fatal(err)
	}
}

func cubeDoc() *GLTF {
	g := &GLTF{}
	g.Asset.Version = "2.0"
	g.Asset.Generator = Generator
	g.Scene = intp(0)
	g.Scenes = []Scene{{Nodes: []int{0}}}
	g.Nodes = []Node{{Name: "cube", Mesh: intp(0)}}
	g.Meshes = []Mesh{{Primitives: []Primitive{{
		Attributes: map[string]int{"POSITION": 0, "NORMAL": 1},
		Indices:    intp(2),
		Material:   intp(0),
		Mode:       intp(ModeTriangles),
	}}}}
	g.Materials = []Material{{
		Name: "mat",
		PBRMetallicRoughness: &PBRMetallicRoughness{
			BaseColorFactor: &[4]float32{1, 1, 1, 1},
			MetallicFactor:  fp(1),
			RoughnessFactor: fp(1),
		},
	}}
	g.Accessors = []Accessor{
		{BufferView: intp(0), ComponentType: ComponentFloat, Count: 24, Type: TypeVec3,
			Min: []float32{-1, -1, -1}, Max: []float32{1, 1, 1}},
		{BufferView: intp(1), ComponentType: ComponentFloat, Count: 24, Type: TypeVec3},
		{BufferView: intp(2), ComponentType: ComponentUnsignedShort, Count: 36, Type: TypeScalar},
	}
	g.BufferViews = []BufferView{
		{Buffer: 0, ByteLength: 288, Target: TargetArrayBuffer},
		{Buffer: 0, ByteOffset: 288, ByteLength: 288, Target: TargetArrayBuffer},
		{Buffer: 0, ByteOffset: 576, ByteLength: 72, Target: TargetElementArrayBuffer},
	}
	g.Buffers = []Buffer{{ByteLength: 648}}
	return g
}

func intp(n int) *int       { return &n }
func fp(f float32) *float32 { return &f }

func TestEncodeDecodeRoundTrip(t *testing.T) {
	g := cubeDoc()
	if err := g.Check(); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := Encode(&buf, g); err != nil {
		t.Fatal(err)
	}
	g2, err := Decode(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	if err = g2.Check(); err != nil {
		t.Fatal(err)
	}
	if len(g2.Nodes) != 1 || g2.Nodes[0].Name != "cube" {
		t.Fatalf("round-trip lost node data: %+v", g2.Nodes)
	}
	var buf2 bytes.Buffer
	if err = Encode(&buf2, g2); err != nil {
		t.Fatal(err)
	}
	if buf.String() != buf2.String() {
		t.Fatal("re-encoded document differs from first encoding")
	}
}

func TestCheckRejectsDanglingReferences(t *testing.T) {
	cases := []struct {
		name string
		mod  func(*GLTF)
	}{
		{"scene index", func(g *GLTF) { g.Scene = intp(5) }},
		{"node mesh index", func(g *GLTF) { g.Nodes[0].Mesh = intp(9) }},
		{"accessor bufferView index", func(g *GLTF) { g.Accessors[0].BufferView = intp(9) }},
		{"bufferView buffer index", func(g *GLTF) { g.BufferViews[0].Buffer = 9 }},
		{"primitive material index", func(g *GLTF) { g.Meshes[0].Primitives[0].Material = intp(9) }},
		{"primitive attribute accessor", func(g *GLTF) {
			g.Meshes[0].Primitives[0].Attributes["POSITION"] = 9
		}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			g := cubeDoc()
			c.mod(g)
			if err := g.Check(); err == nil {
				t.Fatal("Check(): have nil error, want non-nil")
			}
		})
	}
}

func TestCheckRequiresUsedExtensions(t *testing.T) {
	g := cubeDoc()
	g.ExtensionsRequired = []string{ExtMaterialsUnlit}
	if err := g.Check(); err == nil {
		t.Fatal("Check(): required extension missing from extensionsUsed, want error")
	}
	g.ExtensionsUsed = []string{ExtMaterialsUnlit}
	if err := g.Check(); err != nil {
		t.Fatal(err)
	}
}

func TestCheckVersion(t *testing.T) {
	g := cubeDoc()
	g.Asset.Version = "3.0"
	if err := g.Check(); err == nil {
		t.Fatal("Check(): unsupported version, want error")
	}
	g.Asset.Version = ""
	if err := g.Check(); err == nil {
		t.Fatal("Check(): empty version, want error")
	}
}

func TestPackUnpack(t *testing.T) {
	g := cubeDoc()
	bin := bytes.Repeat([]byte{0x01}, 648)
	var buf bytes.Buffer
	if err := Pack(&buf, g, bin); err != nil {
		t.Fatal(err)
	}
	if !IsGLB(bytes.NewReader(buf.Bytes())) {
		t.Fatal("IsGLB: have false, want true")
	}
	g2, bin2, err := Unpack(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if err = g2.Check(); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(bin, bin2) {
		t.Fatal("Unpack: BIN chunk mismatch")
	}
}

func TestPackEmptyBINChunk(t *testing.T) {
	g := &GLTF{}
	g.Asset.Version = "2.0"
	g.Nodes = append(g.Nodes, Node{Name: "empty"})
	var buf bytes.Buffer
	if err := Pack(&buf, g, nil); err != nil {
		t.Fatal(err)
	}
	raw := buf.Bytes()
	// header (12) + JSON chunk header (8) + padded JSON length must land
	// exactly on the BIN chunk header; its length field must read 0.
	jsonLen := binary.LittleEndian.Uint32(raw[12:16])
	bcOff := 12 + 8 + int(jsonLen)
	bcType := binary.LittleEndian.Uint32(raw[bcOff+4 : bcOff+8])
	if bcType != typeBIN {
		t.Fatalf("Pack: expected a BIN chunk header at offset %d even for empty bin", bcOff)
	}
	bcLen := binary.LittleEndian.Uint32(raw[bcOff : bcOff+4])
	if bcLen != 0 {
		t.Fatalf("Pack: empty BIN chunk length\nhave %d\nwant 0", bcLen)
	}

	_, bin, err := Unpack(bytes.NewReader(raw))
	if err != nil {
		t.Fatal(err)
	}
	if len(bin) != 0 {
		t.Fatalf("Unpack: len(bin)\nhave %d\nwant 0", len(bin))
	}
}

func TestPackPadding(t *testing.T) {
	// 3-byte buffer forces BIN chunk padding; JSON length is also
	// checked for 4-byte alignment regardless of content length.
	g := cubeDoc()
	g.Buffers[0].ByteLength = 3
	bin := []byte{1, 2, 3}
	var buf bytes.Buffer
	if err := Pack(&buf, g, bin); err != nil {
		t.Fatal(err)
	}
	if buf.Len()%4 != 0 {
		t.Fatalf("Pack: total length %d not 4-byte aligned", buf.Len())
	}
	_, bin2, err := Unpack(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	// Unpack returns the chunk payload as framed: the three bytes
	// followed by one 0x00 pad byte.
	want := []byte{1, 2, 3, 0}
	if !bytes.Equal(bin2, want) {
		t.Fatalf("Unpack: BIN payload\nhave %v\nwant %v", bin2, want)
	}
}

func TestIsGLBRejectsJSON(t *testing.T) {
	r := bytes.NewReader([]byte(`{"asset":{"version":"2.0"}}`))
	if IsGLB(r) {
		t.Fatal("IsGLB(r): have true, want false")
	}
}
