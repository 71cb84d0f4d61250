// resize.go provides high-quality scaling shared by the composition
// routines and the HTTP handlers.
package compose

import (
	"image"

	"golang.org/x/image/draw"
)

// Resize scales img to exactly width x height using Catmull-Rom
// interpolation. The source is never mutated.
func Resize(img image.Image, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

// ResizeToHeight scales img so its height becomes target, preserving the
// aspect ratio.
func ResizeToHeight(img image.Image, target int) *image.RGBA {
	b := img.Bounds()
	w := b.Dx() * target / b.Dy()
	return Resize(img, w, target)
}

// ResizeToWidth scales img so its width becomes target, preserving the
// aspect ratio.
func ResizeToWidth(img image.Image, target int) *image.RGBA {
	b := img.Bounds()
	h := b.Dy() * target / b.Dx()
	return Resize(img, target, h)
}
