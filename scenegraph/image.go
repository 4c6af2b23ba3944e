// Copyright 2024 The kxgraphics Authors. All rights reserved.

package scenegraph

import "image"

// Image is source pixel data for a Texture. Img is decoded once by
// the caller (e.g. via image/png or image/jpeg); the writer never
// reads a file path itself.
type Image struct {
	UUID string
	Name string
	Img  image.Image
	// FlipY requests a vertical flip before encoding, matching the
	// source library's canvas coordinate convention. Combined with
	// MimeType, it forms the image cache key.
	FlipY bool
	// MimeType is the preferred output encoding ("image/png" or
	// "image/jpeg"); empty defaults to PNG. Any other value degrades
	// to PNG with a warning (WebP sources included).
	MimeType string
}
