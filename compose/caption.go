// caption.go implements the two caption styles:
//
//   - CaptionImage draws top/bottom text directly over the picture, the
//     classic meme look.
//   - FitCaptions grows the canvas vertically so the text never covers the
//     picture, binary-searching the largest font size that fits the width
//     and height budgets.
package compose

import (
	"errors"
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// ErrEmptyImage is returned when an input image has a zero-area bounds.
// A dimensionless image is a caller bug, not something to degrade around.
var ErrEmptyImage = errors.New("compose: image has zero width or height")

const (
	// minFontSize is the smallest size the fitter will probe. When even
	// this overflows the budgets it is used anyway; the policy is always
	// visible text, never an error.
	minFontSize = 12

	// strokeRadius is the dark outline width drawn behind the fill pass.
	strokeRadius = 4
)

var (
	canvasFill = color.RGBA{R: 20, G: 20, B: 20, A: 255}
	textStroke = color.RGBA{A: 255}
	textFill   = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// FitOptions controls the caption fitter geometry. All ratios are relative
// to the input image dimensions and must be in (0, 1).
type FitOptions struct {
	// FontPath locates a TrueType font; empty means the embedded default.
	FontPath string

	// MaxTextRatio is the height budget for each text block as a fraction
	// of the image height.
	MaxTextRatio float64

	// SidePaddingRatio is the horizontal padding on each side as a
	// fraction of the image width.
	SidePaddingRatio float64

	// GapRatio is the spacing between a text block and the picture as a
	// fraction of the image height.
	GapRatio float64
}

// DefaultFitOptions returns the standard fitter geometry.
func DefaultFitOptions() FitOptions {
	return FitOptions{
		MaxTextRatio:     0.26,
		SidePaddingRatio: 0.04,
		GapRatio:         0.02,
	}
}

// FitCaptions returns a new image where the original is pasted between the
// top and bottom caption blocks on a vertically grown canvas, so text and
// picture never overlap.
//
// The font size is the largest integer in [12, max(16, 0.09*H)] for which
// both blocks independently satisfy the width budget (every wrapped line
// at most W minus twice the side padding) and the height budget (block
// height at most MaxTextRatio*H; skipped for empty text). When no size in
// the range fits, 12 is used and the text may overflow its budget; the
// output is still produced.
//
// Empty top and bottom text is legal: the corresponding block contributes
// zero height and is not drawn. With both empty the canvas does not grow.
func FitCaptions(img image.Image, topText, bottomText string, opts FitOptions) (image.Image, error) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 {
		return nil, ErrEmptyImage
	}

	sidePad := int(float64(w) * opts.SidePaddingRatio)
	gap := int(float64(h) * opts.GapRatio)
	maxTextH := int(float64(h) * opts.MaxTextRatio)
	maxLineW := w - 2*sidePad

	fonts := NewFontSource(opts.FontPath)

	initial := int(float64(h) * 0.09)
	if initial < 16 {
		initial = 16
	}

	// Largest size where both blocks fit both budgets. The height check is
	// skipped for an absent block so a lone caption is not constrained by
	// the other side.
	size := minFontSize
	lo, hi := minFontSize, initial
	for lo <= hi {
		mid := (lo + hi) / 2
		face := fonts.Face(mid)
		top := MeasureWrapped(face, mid, topText, maxLineW)
		bot := MeasureWrapped(face, mid, bottomText, maxLineW)

		fitsWidth := top.Width <= maxLineW && bot.Width <= maxLineW
		fitsHeight := (top.Empty() || top.Height <= maxTextH) &&
			(bot.Empty() || bot.Height <= maxTextH)

		if fitsWidth && fitsHeight {
			size = mid
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}

	face := fonts.Face(size)
	top := MeasureWrapped(face, size, topText, maxLineW)
	bot := MeasureWrapped(face, size, bottomText, maxLineW)

	addTop := top.Height
	if addTop > 0 {
		addTop += gap
	}
	addBot := bot.Height
	if addBot > 0 {
		addBot += gap
	}

	canvas := image.NewRGBA(image.Rect(0, 0, w, h+addTop+addBot))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(canvasFill), image.Point{}, draw.Src)
	draw.Draw(canvas, image.Rect(0, addTop, w, addTop+h), img, bounds.Min, draw.Src)

	if !top.Empty() {
		drawBlock(canvas, face, size, top, w, (addTop-top.Height)/2)
	}
	if !bot.Empty() {
		drawBlock(canvas, face, size, bot, w, h+addTop+(addBot-bot.Height)/2)
	}

	return canvas, nil
}

// CaptionImage draws top and bottom captions directly over a copy of the
// picture, without growing the canvas. The font size scales with the image
// height (8%, floored at 16) and is not fitted; long text simply wraps.
// Used by the quick-meme and generated-meme paths.
func CaptionImage(img image.Image, topText, bottomText, fontPath string) (image.Image, error) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 {
		return nil, ErrEmptyImage
	}

	out := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(out, out.Bounds(), img, bounds.Min, draw.Src)

	size := int(float64(h) * 0.08)
	if size < 16 {
		size = 16
	}
	margin := int(float64(h) * 0.04)
	maxLineW := int(float64(w) * 0.95)

	face := NewFontSource(fontPath).Face(size)

	if top := MeasureWrapped(face, size, topText, maxLineW); !top.Empty() {
		drawBlock(out, face, size, top, w, margin)
	}
	if bot := MeasureWrapped(face, size, bottomText, maxLineW); !bot.Empty() {
		drawBlock(out, face, size, bot, w, h-bot.Height-margin)
	}

	return out, nil
}

// drawBlock renders a wrapped block with each line horizontally centered,
// starting at the given top coordinate.
func drawBlock(dst draw.Image, face font.Face, sizePx int, block TextBlock, canvasW, y int) {
	for _, line := range block.Lines {
		x := (canvasW - lineWidth(face, line)) / 2
		drawStrokedLine(dst, face, line, x, y)
		y += lineHeight(sizePx)
	}
}

// drawStrokedLine renders one line of stroked text: a dark outline pass
// drawn at every offset within the stroke radius, then a light fill pass on
// top. The two passes keep captions legible over arbitrary backgrounds.
// x, y address the top-left of the line box; the baseline sits one ascent
// below.
func drawStrokedLine(dst draw.Image, face font.Face, line string, x, y int) {
	baseline := y + face.Metrics().Ascent.Ceil()

	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(textStroke),
		Face: face,
	}
	for dy := -strokeRadius; dy <= strokeRadius; dy++ {
		for dx := -strokeRadius; dx <= strokeRadius; dx++ {
			if dx*dx+dy*dy > strokeRadius*strokeRadius {
				continue
			}
			d.Dot = fixed.P(x+dx, baseline+dy)
			d.DrawString(line)
		}
	}

	d.Src = image.NewUniform(textFill)
	d.Dot = fixed.P(x, baseline)
	d.DrawString(line)
}
