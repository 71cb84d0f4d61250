package compose

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

func TestComposePanelIdentity(t *testing.T) {
	src := solidImage(300, 200, testRed)
	out, err := ComposePanel(src, nil, DefaultPanelOptions())
	if err != nil {
		t.Fatalf("ComposePanel: %v", err)
	}
	if out != src {
		t.Fatalf("empty thumbnail list must return the main image unchanged")
	}
}

func TestComposePanelGeometry(t *testing.T) {
	// 800x600 main with panel_width_ratio 0.35: panel width is
	// max(220, 280) = 280. Two 200x100 thumbnails scale to 280x140 each,
	// so the panel is 140+140+10 = 290 tall and the output is
	// (800+10+280) x max(600, 290).
	main := solidImage(800, 600, testRed)
	thumbs := []image.Image{
		solidImage(200, 100, color.RGBA{G: 200, A: 255}),
		solidImage(200, 100, color.RGBA{B: 200, A: 255}),
	}

	out, err := ComposePanel(main, thumbs, DefaultPanelOptions())
	if err != nil {
		t.Fatalf("ComposePanel: %v", err)
	}

	if got, want := out.Bounds().Dx(), 1090; got != want {
		t.Errorf("output width = %d, want %d", got, want)
	}
	if got, want := out.Bounds().Dy(), 600; got != want {
		t.Errorf("output height = %d, want %d", got, want)
	}
}

func TestComposePanelCentering(t *testing.T) {
	// Three equal thumbnails: the occupied panel span must sit centered in
	// the output with symmetric margins (allowing 1px for rounding).
	green := color.RGBA{G: 220, A: 255}
	main := solidImage(800, 600, testRed)
	thumbs := []image.Image{
		solidImage(400, 100, green),
		solidImage(400, 100, green),
		solidImage(400, 100, green),
	}

	out, err := ComposePanel(main, thumbs, DefaultPanelOptions())
	if err != nil {
		t.Fatalf("ComposePanel: %v", err)
	}

	// Scan a column through the middle of the panel for the first and last
	// thumbnail rows. Resampling may shift channel values by a hair, so
	// classify by dominant channel instead of exact equality.
	isThumb := func(c color.Color) bool {
		r, g, _, _ := c.RGBA()
		return g > 0x8000 && r < 0x4000
	}
	x := 800 + 10 + 140
	outH := out.Bounds().Dy()
	first, last := -1, -1
	for y := 0; y < outH; y++ {
		if isThumb(out.At(x, y)) {
			if first < 0 {
				first = y
			}
			last = y
		}
	}
	if first < 0 {
		t.Fatal("no thumbnail pixels found in panel column")
	}

	top := first
	bottom := outH - 1 - last
	if diff := top - bottom; diff < -1 || diff > 1 {
		t.Errorf("panel margins top=%d bottom=%d, want symmetric within 1px", top, bottom)
	}
}

func TestComposePanelBadThumbnail(t *testing.T) {
	main := solidImage(300, 200, testRed)
	thumbs := []image.Image{image.NewRGBA(image.Rect(0, 0, 0, 50))}

	_, err := ComposePanel(main, thumbs, DefaultPanelOptions())
	if !errors.Is(err, ErrBadThumbnail) {
		t.Fatalf("ComposePanel with zero-width thumbnail: got %v, want ErrBadThumbnail", err)
	}
}

func TestComposePanelMinimumWidth(t *testing.T) {
	// A small main image still gets the 220px panel floor.
	main := solidImage(100, 100, testRed)
	thumbs := []image.Image{solidImage(50, 50, color.RGBA{G: 200, A: 255})}

	out, err := ComposePanel(main, thumbs, DefaultPanelOptions())
	if err != nil {
		t.Fatalf("ComposePanel: %v", err)
	}
	if got, want := out.Bounds().Dx(), 100+10+220; got != want {
		t.Errorf("output width = %d, want %d", got, want)
	}
}

func TestCombineSideBySide(t *testing.T) {
	a := solidImage(100, 80, testRed)
	b := solidImage(60, 40, color.RGBA{B: 200, A: 255})

	tests := []struct {
		name     string
		vertical bool
		wantW    int
		wantH    int
	}{
		{name: "horizontal", vertical: false, wantW: 100 + 12 + 60, wantH: 80},
		{name: "vertical", vertical: true, wantW: 100, wantH: 80 + 12 + 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := CombineSideBySide(a, b, tt.vertical, 12)
			if out.Bounds().Dx() != tt.wantW || out.Bounds().Dy() != tt.wantH {
				t.Errorf("output = %dx%d, want %dx%d",
					out.Bounds().Dx(), out.Bounds().Dy(), tt.wantW, tt.wantH)
			}
		})
	}
}

func TestResizePreservesAspect(t *testing.T) {
	src := solidImage(200, 100, testRed)

	byWidth := ResizeToWidth(src, 280)
	if byWidth.Bounds().Dx() != 280 || byWidth.Bounds().Dy() != 140 {
		t.Errorf("ResizeToWidth = %dx%d, want 280x140",
			byWidth.Bounds().Dx(), byWidth.Bounds().Dy())
	}

	byHeight := ResizeToHeight(src, 50)
	if byHeight.Bounds().Dx() != 100 || byHeight.Bounds().Dy() != 50 {
		t.Errorf("ResizeToHeight = %dx%d, want 100x50",
			byHeight.Bounds().Dx(), byHeight.Bounds().Dy())
	}
}
