// Copyright 2024 The kxgraphics Authors. All rights reserved.

// Package imageproc implements the raster operations the writer
// needs to turn scene-graph images into glTF texture payloads:
// dimension clamping, vertical flip, RGBA conversion, metal-rough
// channel compositing, and PNG/JPEG encode. Decoding is left to the
// caller. It deliberately stays on the
// standard image/png and image/jpeg codecs, following the same
// pattern visible in the retrieved gltf-adjacent tooling rather than
// reaching for a third-party imaging library this problem does not
// need.
package imageproc

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
)

var errChannelMismatch = errors.New("imageproc: metal-rough source dimensions differ")

// Clamp returns img unchanged if it already fits within max on both
// axes (max <= 0 means unbounded); otherwise it returns a
// nearest-neighbor downsample clamped to max.
func Clamp(img image.Image, max int) image.Image {
	if max <= 0 {
		return img
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= max && h <= max {
		return img
	}
	nw, nh := w, h
	if nw > max {
		nh = nh * max / nw
		nw = max
	}
	if nh > max {
		nw = nw * max / nh
		nh = max
	}
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	for y := 0; y < nh; y++ {
		sy := b.Min.Y + y*h/nh
		for x := 0; x < nw; x++ {
			sx := b.Min.X + x*w/nw
			dst.Set(x, y, img.At(sx, sy))
		}
	}
	return dst
}

// FlipVertical returns a copy of img with rows reversed.
func FlipVertical(img image.Image) image.Image {
	b := img.Bounds()
	dst := image.NewRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		sy := b.Max.Y - 1 - (y - b.Min.Y)
		for x := b.Min.X; x < b.Max.X; x++ {
			dst.Set(x, y, img.At(x, sy))
		}
	}
	return dst
}

// ToRGBA copies img into a fresh *image.RGBA, converting color models
// as needed.
func ToRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	b := img.Bounds()
	dst := image.NewRGBA(b)
	draw.Draw(dst, b, img, b.Min, draw.Src)
	return dst
}

// CompositeMetalRough builds the combined glTF metallicRoughnessTexture:
// the result is prefilled cyan (R=0,G=255,B=255,A=255), roughness is
// read from the roughness source's green channel into the result's
// green channel, and metalness is read from the metalness source's
// blue channel into the result's blue channel. A nil source leaves
// its channel at the cyan prefill value. Non-nil sources must share
// dimensions.
func CompositeMetalRough(metalness, roughness image.Image) (image.Image, error) {
	var b image.Rectangle
	switch {
	case metalness != nil:
		b = metalness.Bounds()
		if roughness != nil && roughness.Bounds().Size() != b.Size() {
			return nil, errChannelMismatch
		}
	case roughness != nil:
		b = roughness.Bounds()
	default:
		return nil, errors.New("imageproc: no metal-rough source provided")
	}

	dst := image.NewRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			g := uint8(255)
			bl := uint8(255)
			if roughness != nil {
				_, gg, _, _ := roughness.At(x, y).RGBA()
				g = uint8(gg >> 8)
			}
			if metalness != nil {
				_, _, bb, _ := metalness.At(x, y).RGBA()
				bl = uint8(bb >> 8)
			}
			dst.SetRGBA(x, y, color.RGBA{R: 0, G: g, B: bl, A: 255})
		}
	}
	return dst, nil
}

// EncodePNG encodes img as PNG.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodeJPEG encodes img as JPEG at the given quality (1-100).
func EncodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
