package imagegen

import (
	"image"
	"image/color"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/Cronos47/meme-tanker/compose"
)

// Default canvas size for procedurally generated images.
const (
	fallbackWidth  = 1024
	fallbackHeight = 1024
)

// ProceduralImage deterministically synthesizes a placeholder image for a
// prompt when no generation backend is reachable. The pixel pattern is a
// fixed function of coordinates, so the same prompt always yields the same
// canvas, and the prompt text is stamped near the top so the result is
// identifiable.
func ProceduralImage(prompt string, fontPath string) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fallbackWidth, fallbackHeight))

	for y := 0; y < fallbackHeight; y++ {
		for x := 0; x < fallbackWidth; x++ {
			img.SetRGBA(x, y, color.RGBA{
				R: uint8(30 + (x*7+y*3)%120),
				G: uint8(40 + (x*5+y*9)%120),
				B: uint8(60 + (x*2+y*6)%120),
				A: 255,
			})
		}
	}

	label := strings.TrimSpace(prompt)
	if label == "" {
		return img
	}
	if len(label) > 60 {
		label = label[:60]
	}

	face := compose.NewFontSource(fontPath).Face(36)
	width := font.MeasureString(face, label).Ceil()
	x := (fallbackWidth - width) / 2
	if x < 10 {
		x = 10
	}
	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.RGBA{255, 255, 255, 255}),
		Face: face,
		Dot:  fixed.P(x, 60),
	}
	drawer.DrawString(label)

	return img
}
