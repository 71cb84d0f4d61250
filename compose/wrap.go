// wrap.go implements greedy word wrapping and wrapped-block measurement.
// Lines are packed word by word until the next word would exceed the width
// budget, measured with the actual face rather than an estimated character
// width.
package compose

import (
	"strings"

	"golang.org/x/image/font"
)

// lineHeightFactor is the vertical advance between wrapped lines as a
// multiple of the font size.
const lineHeightFactor = 1.1

// TextBlock is an ordered sequence of wrapped lines with its measured
// pixel extents. A block for empty text has no lines and zero extents.
type TextBlock struct {
	Lines  []string
	Width  int // widest line in pixels
	Height int // line count times line height
}

// Empty reports whether the block contains no drawable text.
func (b TextBlock) Empty() bool { return len(b.Lines) == 0 }

// lineWidth measures the rendered advance of a single line in pixels.
func lineWidth(face font.Face, line string) int {
	return font.MeasureString(face, line).Ceil()
}

// lineHeight returns the vertical advance for one wrapped line at the
// given font size.
func lineHeight(sizePx int) int {
	return int(float64(sizePx) * lineHeightFactor)
}

// WrapText breaks text into lines whose rendered width does not exceed
// maxWidth. Packing is greedy: words are appended to the current line until
// the next word would overflow. A single word wider than maxWidth becomes
// its own (overflowing) line; wrapping is best-effort, not a hard failure.
func WrapText(face font.Face, text string, maxWidth int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	cur := ""
	for _, w := range words {
		test := w
		if cur != "" {
			test = cur + " " + w
		}
		if lineWidth(face, test) <= maxWidth {
			cur = test
			continue
		}
		if cur != "" {
			lines = append(lines, cur)
		}
		cur = w
	}
	if cur != "" {
		lines = append(lines, cur)
	}
	return lines
}

// MeasureWrapped wraps text (upper-cased, meme style) at maxWidth and
// returns the block with its measured extents at the given font size.
func MeasureWrapped(face font.Face, sizePx int, text string, maxWidth int) TextBlock {
	lines := WrapText(face, strings.ToUpper(strings.TrimSpace(text)), maxWidth)
	if len(lines) == 0 {
		return TextBlock{}
	}

	widest := 0
	for _, line := range lines {
		if w := lineWidth(face, line); w > widest {
			widest = w
		}
	}

	return TextBlock{
		Lines:  lines,
		Width:  widest,
		Height: lineHeight(sizePx) * len(lines),
	}
}
