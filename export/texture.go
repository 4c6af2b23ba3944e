// Copyright 2024 The kxgraphics Authors. All rights reserved.

package export

import (
	"encoding/base64"
	"image"

	"kxgraphics/gltfwriter/gltf"
	"kxgraphics/gltfwriter/internal/imageproc"
	"kxgraphics/gltfwriter/scenegraph"
)

// imageKey is the processImage dedup key: source image identity plus
// the output encoding it was requested under.
type imageKey struct {
	img   *scenegraph.Image
	mime  string
	flipY bool
}

// pendingImage is a reserved-but-not-yet-encoded image slot. Its
// index into doc.Images is assigned synchronously at discovery time;
// only the pixel payload (data/err) is filled in later, by a pool
// worker.
type pendingImage struct {
	idx  int
	img  *scenegraph.Image
	mime string
	data []byte
	err  error
}

func (p *pendingImage) encode(maxSize int) {
	src := p.img.Img
	if src == nil {
		p.err = newErr(InvalidImage, "image "+p.img.Name+" has no pixel source")
		return
	}
	processed := imageproc.Clamp(src, maxSize)
	if p.img.FlipY {
		processed = imageproc.FlipVertical(processed)
	}
	rgba := imageproc.ToRGBA(processed)
	var err error
	if p.mime == gltf.MimeJPEG {
		p.data, err = imageproc.EncodeJPEG(rgba, 90)
	} else {
		p.data, err = imageproc.EncodePNG(rgba)
	}
	if err != nil {
		p.err = newErr(InvalidImage, err.Error())
	}
}

// processTexture emits tex, deduplicated by source identity.
func (w *writeState) processTexture(tex *scenegraph.Texture) (int, error) {
	if idx, ok := w.textureCache[tex]; ok {
		return idx, nil
	}
	imgIdx, err := w.processImage(tex.Image)
	if err != nil {
		return -1, err
	}
	samplerIdx := w.processSampler(tex.Sampler)

	dst := gltf.Texture{Name: tex.Name}
	if imgIdx >= 0 {
		dst.Source = &imgIdx
	}
	if samplerIdx >= 0 {
		dst.Sampler = &samplerIdx
	}

	for _, p := range w.plugins {
		if p.WriteTexture != nil {
			if err := p.WriteTexture(w, tex, &dst); err != nil {
				return -1, err
			}
		}
	}

	idx := len(w.doc.Textures)
	w.doc.Textures = append(w.doc.Textures, dst)
	w.textureCache[tex] = idx
	return idx, nil
}

// processSampler emits s as a new sampler entry. Samplers are not
// deduplicated: two textures with identical filter/wrap settings
// produce two sampler entries, matching the source's behavior.
func (w *writeState) processSampler(s *scenegraph.Sampler) int {
	if s == nil {
		return -1
	}
	dst := gltf.Sampler{
		MagFilter: s.MagFilter,
		MinFilter: s.MinFilter,
		WrapS:     s.WrapS,
		WrapT:     s.WrapT,
	}
	idx := len(w.doc.Samplers)
	w.doc.Samplers = append(w.doc.Samplers, dst)
	return idx
}

// processImage reserves img's slot in doc.Images synchronously (so
// its index is stable regardless of encode completion order) and
// submits the actual PNG/JPEG encode to the image pool. The slot is
// filled in by mergeImages once the pool has drained.
func (w *writeState) processImage(img *scenegraph.Image) (int, error) {
	if img == nil {
		return -1, nil
	}
	mime := img.MimeType
	switch mime {
	case "":
		mime = gltf.MimePNG
	case gltf.MimePNG, gltf.MimeJPEG:
	default:
		w.observer.Warn(Degradation, "image %q has unsupported mime type %q; degrading to PNG", img.Name, mime)
		mime = gltf.MimePNG
	}

	key := imageKey{img: img, mime: mime, flipY: img.FlipY}
	if idx, ok := w.imageCache[key]; ok {
		return idx, nil
	}

	idx := len(w.doc.Images)
	w.doc.Images = append(w.doc.Images, gltf.Image{})
	w.imageCache[key] = idx

	pending := &pendingImage{idx: idx, img: img, mime: mime}
	w.pendingImages = append(w.pendingImages, pending)
	w.pool.Submit(func() { pending.encode(w.opts.MaxTextureSize) })
	return idx, nil
}

// buildMetalRoughTexture composites metalRef and roughRef (either may
// be nil) into one glTF metallicRoughnessTexture and resolves it
// through the normal texture/image pipeline.
func (w *writeState) buildMetalRoughTexture(metalRef, roughRef *scenegraph.TextureRef) (*gltf.TextureInfo, error) {
	var metalImg, roughImg image.Image
	var uvSet int
	var sampler *scenegraph.Sampler
	if metalRef != nil && metalRef.Texture != nil {
		if metalRef.Texture.Image != nil {
			metalImg = metalRef.Texture.Image.Img
		}
		uvSet = metalRef.UVSet
		sampler = metalRef.Texture.Sampler
	}
	if roughRef != nil && roughRef.Texture != nil {
		if roughRef.Texture.Image != nil {
			roughImg = roughRef.Texture.Image.Img
		}
		if metalRef == nil {
			uvSet = roughRef.UVSet
			sampler = roughRef.Texture.Sampler
		}
	}
	composite, err := imageproc.CompositeMetalRough(metalImg, roughImg)
	if err != nil {
		return nil, newErr(InvalidImage, err.Error())
	}

	synthImg := &scenegraph.Image{Name: "metallicRoughness", Img: composite}
	synthTex := &scenegraph.Texture{Name: "metallicRoughness", Image: synthImg, Sampler: sampler}
	return w.processTextureRef(&scenegraph.TextureRef{Texture: synthTex, UVSet: uvSet})
}

// mergeImages fills in every reserved doc.Images slot from its
// pending encode result, in discovery order. It runs single-threaded,
// after the image pool has drained, so it needs no synchronization
// despite the encodes themselves having run concurrently.
func (w *writeState) mergeImages() error {
	for _, p := range w.pendingImages {
		if p.err != nil {
			return p.err
		}
		img := gltf.Image{MimeType: p.mime, Name: p.img.Name}
		if w.opts.Binary {
			bv := w.appendImageBufferView(p.data)
			img.BufferView = &bv
		} else {
			img.URI = "data:" + p.mime + ";base64," + base64.StdEncoding.EncodeToString(p.data)
		}
		w.doc.Images[p.idx] = img
	}
	return nil
}

// appendImageBufferView appends an already-encoded image payload to
// the binary buffer as a plain bufferView with no declared target.
func (w *writeState) appendImageBufferView(data []byte) int {
	length := len(data)
	padded := data
	if rem := length % 4; rem != 0 {
		padded = append(padded, make([]byte, 4-rem)...)
	}
	offset := w.appendBin(padded)
	w.ensureBuffer()
	idx := len(w.doc.BufferViews)
	w.doc.BufferViews = append(w.doc.BufferViews, gltf.BufferView{
		Buffer:     0,
		ByteOffset: offset,
		ByteLength: length,
	})
	return idx
}
