// panel.go implements the context panel layout: a vertical strip of
// uniformly scaled thumbnails placed to the right of the main image, the
// whole strip vertically centered as a group.
package compose

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
)

// ErrBadThumbnail is returned when a thumbnail has a non-positive
// dimension. Scaling such an image to a fixed width is undefined, so this
// fails fast rather than producing a corrupt canvas.
var ErrBadThumbnail = errors.New("compose: thumbnail has zero width or height")

// minPanelWidth is the floor for the thumbnail strip width in pixels, so
// panels stay readable next to small main images.
const minPanelWidth = 220

var panelFill = color.RGBA{R: 18, G: 18, B: 18, A: 255}

// PanelOptions controls the context panel geometry.
type PanelOptions struct {
	// WidthRatio sets the panel width as a fraction of the main image
	// width, floored at minPanelWidth.
	WidthRatio float64

	// Gap is the spacing in pixels between stacked thumbnails and between
	// the main image and the panel.
	Gap int
}

// DefaultPanelOptions returns the standard panel geometry.
func DefaultPanelOptions() PanelOptions {
	return PanelOptions{WidthRatio: 0.35, Gap: 10}
}

// ComposePanel lays thumbnails into a vertical strip to the right of the
// main image. Thumbnails are resized to a uniform panel width preserving
// aspect ratio and stacked with Gap pixels between them; both the main
// image and the thumbnail group are vertically centered in the output.
//
// An empty thumbnail list is the identity: the main image is returned
// unchanged. A thumbnail with non-positive dimensions is a precondition
// violation and returns ErrBadThumbnail.
func ComposePanel(main image.Image, thumbs []image.Image, opts PanelOptions) (image.Image, error) {
	if len(thumbs) == 0 {
		return main, nil
	}

	bounds := main.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 {
		return nil, ErrEmptyImage
	}

	panelW := int(float64(w) * opts.WidthRatio)
	if panelW < minPanelWidth {
		panelW = minPanelWidth
	}

	prepared := make([]*image.RGBA, 0, len(thumbs))
	for i, t := range thumbs {
		tb := t.Bounds()
		if tb.Dx() <= 0 || tb.Dy() <= 0 {
			return nil, fmt.Errorf("%w (index %d)", ErrBadThumbnail, i)
		}
		th := panelW * tb.Dy() / tb.Dx()
		prepared = append(prepared, Resize(t, panelW, th))
	}

	panelH := opts.Gap * (len(prepared) - 1)
	for _, t := range prepared {
		panelH += t.Bounds().Dy()
	}

	outH := h
	if panelH > outH {
		outH = panelH
	}

	out := image.NewRGBA(image.Rect(0, 0, w+opts.Gap+panelW, outH))
	draw.Draw(out, out.Bounds(), image.NewUniform(panelFill), image.Point{}, draw.Src)

	mainY := (outH - h) / 2
	draw.Draw(out, image.Rect(0, mainY, w, mainY+h), main, bounds.Min, draw.Src)

	y := (outH - panelH) / 2
	for _, t := range prepared {
		th := t.Bounds().Dy()
		draw.Draw(out, image.Rect(w+opts.Gap, y, w+opts.Gap+panelW, y+th), t, t.Bounds().Min, draw.Src)
		y += th + opts.Gap
	}

	return out, nil
}

// CombineSideBySide joins two images with a gap between them on a filled
// canvas. Horizontal combination centers each image vertically; vertical
// combination centers each horizontally. Used by the remix endpoint after
// the shared edge has been normalized.
func CombineSideBySide(a, b image.Image, vertical bool, gap int) image.Image {
	ab, bb := a.Bounds(), b.Bounds()

	var out *image.RGBA
	if vertical {
		w := ab.Dx()
		if bb.Dx() > w {
			w = bb.Dx()
		}
		out = image.NewRGBA(image.Rect(0, 0, w, ab.Dy()+gap+bb.Dy()))
		draw.Draw(out, out.Bounds(), image.NewUniform(canvasFill), image.Point{}, draw.Src)

		ax := (w - ab.Dx()) / 2
		draw.Draw(out, image.Rect(ax, 0, ax+ab.Dx(), ab.Dy()), a, ab.Min, draw.Src)
		bx := (w - bb.Dx()) / 2
		by := ab.Dy() + gap
		draw.Draw(out, image.Rect(bx, by, bx+bb.Dx(), by+bb.Dy()), b, bb.Min, draw.Src)
		return out
	}

	h := ab.Dy()
	if bb.Dy() > h {
		h = bb.Dy()
	}
	out = image.NewRGBA(image.Rect(0, 0, ab.Dx()+gap+bb.Dx(), h))
	draw.Draw(out, out.Bounds(), image.NewUniform(canvasFill), image.Point{}, draw.Src)

	ay := (h - ab.Dy()) / 2
	draw.Draw(out, image.Rect(0, ay, ab.Dx(), ay+ab.Dy()), a, ab.Min, draw.Src)
	by := (h - bb.Dy()) / 2
	bx := ab.Dx() + gap
	draw.Draw(out, image.Rect(bx, by, bx+bb.Dx(), by+bb.Dy()), b, bb.Min, draw.Src)
	return out
}
