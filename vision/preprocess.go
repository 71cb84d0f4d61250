// Package vision extracts context objects from meme source images, using
// an external detector service when one is configured and center-crop
// heuristics otherwise.
package vision

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"

	_ "image/gif"
	_ "image/jpeg"

	"github.com/Cronos47/meme-tanker/core"
)

// DecodeDataURI decodes a base64 data URI into an image.
func DecodeDataURI(uri string) (image.Image, error) {
	data, err := core.DataURIToBytes(uri)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("vision: failed to decode image: %w", err)
	}
	return img, nil
}

// EncodePNG renders an image to PNG bytes for transport to the detector.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("vision: failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}

// Crop returns a copy of the region rect from img. The rectangle is
// clamped to the image bounds; an empty intersection yields nil.
func Crop(img image.Image, rect image.Rectangle) image.Image {
	rect = rect.Intersect(img.Bounds())
	if rect.Empty() {
		return nil
	}
	out := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(out, out.Bounds(), img, rect.Min, draw.Src)
	return out
}
