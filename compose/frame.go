// frame.go renders the still frame used for karaoke clips: the picture
// with a bottom-anchored caption at a fixed size, distinct from the meme
// caption styles which scale text with the image.
package compose

import (
	"image"
	"image/draw"
)

const (
	// karaokeFontSize is fixed; karaoke frames are always rendered at
	// 1080x1080 so there is nothing to scale against.
	karaokeFontSize = 60

	// karaokeBottomMargin keeps the caption clear of the frame edge.
	karaokeBottomMargin = 40
)

// KaraokeFrame draws the caption near the bottom of a copy of img, wrapped
// to 90% of the width. Lines advance by 1.2x the font size, slightly
// looser than the meme captions for lyric readability.
func KaraokeFrame(img image.Image, caption, fontPath string) (image.Image, error) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 {
		return nil, ErrEmptyImage
	}

	out := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(out, out.Bounds(), img, bounds.Min, draw.Src)

	face := NewFontSource(fontPath).Face(karaokeFontSize)
	maxLineW := int(float64(w) * 0.9)
	lines := WrapText(face, caption, maxLineW)
	if len(lines) == 0 {
		return out, nil
	}

	step := karaokeFontSize * 12 / 10
	totalH := len(lines) * step
	y := h - totalH - karaokeBottomMargin
	for _, line := range lines {
		x := (w - lineWidth(face, line)) / 2
		drawStrokedLine(out, face, line, x, y)
		y += step
	}

	return out, nil
}
