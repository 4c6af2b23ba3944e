// Copyright 2024 The kxgraphics Authors. All rights reserved.

// Command gltfwriter builds a small demonstration scene in memory and
// writes it out as a glTF 2.0 document or GLB container. It exists to
// exercise export.Writer end to end, the way hellog3n exercises the
// engine it sits on top of.
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"

	"kxgraphics/gltfwriter/export"
	"kxgraphics/gltfwriter/linear"
	"kxgraphics/gltfwriter/scenegraph"
)

func main() {
	out := flag.String("out", "scene.gltf", "output file path")
	binary := flag.Bool("binary", false, "write a GLB container instead of a JSON document")
	trs := flag.Bool("trs", false, "emit translation/rotation/scale instead of a matrix")
	maxTex := flag.Int("max-texture-size", 0, "clamp texture dimensions; 0 means unbounded")
	flag.Parse()

	opts := export.NewOptions()
	opts.Binary = *binary
	opts.TRS = *trs
	opts.MaxTextureSize = *maxTex
	opts.Observer = export.NewConsoleObserver(os.Stderr)

	root := demoScene()
	res, err := (export.Writer{}).Write([]*scenegraph.Node{root}, opts)
	if err != nil {
		log.Fatalf("gltfwriter: %v", err)
	}

	data := res.JSON
	if opts.Binary {
		data = res.GLB
	}
	if err := os.WriteFile(*out, data, 0644); err != nil {
		log.Fatalf("gltfwriter: %v", err)
	}
	fmt.Printf("wrote %s (%d bytes)\n", *out, len(data))
}

// demoScene builds a single cube with a PBR material under a point
// light, the minimum scene that exercises mesh, material, and light
// extension wiring in one Write call.
func demoScene() *scenegraph.Node {
	root := scenegraph.NewNode("root")

	cube := scenegraph.NewNode("cube")
	cube.Mesh = &scenegraph.Mesh{
		Geometry: cubeGeometry(),
		Materials: []*scenegraph.Material{{
			Name:            "cube-material",
			BaseColorFactor: [4]float32{0.8, 0.2, 0.2, 1},
			MetallicFactor:  0.1,
			RoughnessFactor: 0.6,
		}},
	}
	root.Children = append(root.Children, cube)

	light := scenegraph.NewNode("light")
	light.Translation = linear.V3{2, 3, 2}
	light.Light = &scenegraph.Light{
		Name:      "sun",
		Type:      scenegraph.Point,
		Color:     [3]float32{1, 1, 1},
		Intensity: 5,
		Decay:     2,
	}
	root.Children = append(root.Children, light)

	cam := scenegraph.NewNode("camera")
	cam.Translation = linear.V3{0, 1.5, 4}
	cam.Camera = &scenegraph.Camera{
		Type:        scenegraph.Perspective,
		YFov:        float32(math.Pi) / 4,
		AspectRatio: 16.0 / 9.0,
		Znear:       0.1,
		Zfar:        100,
	}
	root.Children = append(root.Children, cam)

	return root
}

func cubeGeometry() *scenegraph.Geometry {
	positions := []float32{
		-1, -1, 1, 1, -1, 1, 1, 1, 1, -1, 1, 1, // +Z
		-1, -1, -1, -1, 1, -1, 1, 1, -1, 1, -1, -1, // -Z
	}
	normals := []float32{
		0, 0, 1, 0, 0, 1, 0, 0, 1, 0, 0, 1,
		0, 0, -1, 0, 0, -1, 0, 0, -1, 0, 0, -1,
	}
	indices := []uint16{
		0, 1, 2, 2, 3, 0,
		4, 5, 6, 6, 7, 4,
	}
	return &scenegraph.Geometry{
		UUID: "cube-geometry",
		Attributes: map[string]*scenegraph.Attribute{
			"POSITION": {Data: positions, ItemSize: 3},
			"NORMAL":   {Data: normals, ItemSize: 3},
		},
		Index: &scenegraph.Attribute{Data: indices, ItemSize: 1},
	}
}
