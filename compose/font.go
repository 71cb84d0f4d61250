// Package compose provides the image composition primitives for meme
// rendering: caption fitting, classic top/bottom overlays, side-by-side
// combination, and the context thumbnail panel.
//
// font.go implements font loading with graceful fallback. A configured
// TrueType file (typically Impact) is preferred; when the path is empty or
// unreadable the embedded Go Regular face is used instead, so rendering
// never fails for want of a font.
package compose

import (
	"os"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// FontSource holds a parsed font and hands out faces at arbitrary sizes.
// The caption fitter probes several sizes per call, so parsing is done once
// and face creation is cheap.
//
// Thread Safety: FontSource itself is safe for concurrent use, but the
// faces it returns are not; callers must not share a face between
// goroutines. Each composition call creates its own faces.
type FontSource struct {
	font *opentype.Font
}

var (
	fallbackFont     *opentype.Font
	fallbackFontOnce sync.Once
)

// embeddedFont parses the embedded Go Regular TTF exactly once.
func embeddedFont() *opentype.Font {
	fallbackFontOnce.Do(func() {
		f, err := opentype.Parse(goregular.TTF)
		if err != nil {
			// The embedded font is a compile-time constant; if it does
			// not parse nothing about this process is trustworthy.
			panic("compose: embedded fallback font failed to parse: " + err.Error())
		}
		fallbackFont = f
	})
	return fallbackFont
}

// NewFontSource loads the font at path, falling back to the embedded
// Go Regular face when path is empty or the file cannot be read or parsed.
//
// This mirrors the degradation policy of the rest of the package: a missing
// font is a cosmetic downgrade, never an error.
func NewFontSource(path string) *FontSource {
	if path != "" {
		if data, err := os.ReadFile(path); err == nil {
			if f, parseErr := opentype.Parse(data); parseErr == nil {
				return &FontSource{font: f}
			}
		}
	}
	return &FontSource{font: embeddedFont()}
}

// Face returns a font face at the given pixel size. At 72 DPI one point is
// one pixel, which keeps size arithmetic in the fitter integral.
func (s *FontSource) Face(sizePx int) font.Face {
	face, err := opentype.NewFace(s.font, &opentype.FaceOptions{
		Size:    float64(sizePx),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		// NewFace only fails on invalid options; retry on the embedded
		// font so callers always get a usable face.
		face, err = opentype.NewFace(embeddedFont(), &opentype.FaceOptions{
			Size:    float64(sizePx),
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err != nil {
			panic("compose: fallback face creation failed: " + err.Error())
		}
	}
	return face
}
