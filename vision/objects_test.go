package vision

import (
	"context"
	"encoding/json"
	"image"
	"image/color"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Cronos47/meme-tanker/core"
	"github.com/Cronos47/meme-tanker/logging"
)

func testLogger(t *testing.T) *logging.Logger {
	t.Helper()
	logger, err := logging.NewLogger(true, "")
	if err != nil {
		t.Fatalf("creating test logger: %v", err)
	}
	return logger
}

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestCenterCrops(t *testing.T) {
	img := solid(1000, 800, color.RGBA{100, 100, 100, 255})

	crops := CenterCrops(img, 6)
	if len(crops) != 6 {
		t.Fatalf("got %d crops, want 6", len(crops))
	}

	// First crop is 70% of each dimension.
	if got := crops[0].Bounds(); got.Dx() != 700 || got.Dy() != 560 {
		t.Errorf("first crop = %dx%d, want 700x560", got.Dx(), got.Dy())
	}

	// Crops shrink monotonically until the 30% floor.
	for i := 1; i < len(crops); i++ {
		prev, cur := crops[i-1].Bounds(), crops[i].Bounds()
		if cur.Dx() > prev.Dx() || cur.Dy() > prev.Dy() {
			t.Errorf("crop %d (%dx%d) larger than crop %d (%dx%d)",
				i, cur.Dx(), cur.Dy(), i-1, prev.Dx(), prev.Dy())
		}
	}

	// The floor: scale never drops below 0.3.
	last := crops[len(crops)-1].Bounds()
	if last.Dx() < 300 || last.Dy() < 240 {
		t.Errorf("last crop = %dx%d, below 30%% floor", last.Dx(), last.Dy())
	}
}

func TestExtractObjectsWithDetector(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req detectRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Image == "" {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(detectResponse{Boxes: []Box{
			{X1: 0, Y1: 0, X2: 50, Y2: 40, Confidence: 0.5, Label: "cat"},
			{X1: 100, Y1: 100, X2: 180, Y2: 160, Confidence: 0.9, Label: "dog"},
		}})
	}))
	defer srv.Close()

	d := NewDetector(&core.Config{DetectorURL: srv.URL}, testLogger(t))
	img := solid(400, 300, color.RGBA{50, 50, 50, 255})

	crops := d.ExtractObjects(context.Background(), img, 6)
	if len(crops) != 2 {
		t.Fatalf("got %d crops, want 2", len(crops))
	}
	// Highest confidence box first: the 80x60 dog region.
	if got := crops[0].Bounds(); got.Dx() != 80 || got.Dy() != 60 {
		t.Errorf("first crop = %dx%d, want 80x60", got.Dx(), got.Dy())
	}
}

func TestExtractObjectsFallsBackOnDetectorError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	d := NewDetector(&core.Config{DetectorURL: srv.URL}, testLogger(t))
	img := solid(400, 300, color.RGBA{50, 50, 50, 255})

	crops := d.ExtractObjects(context.Background(), img, 3)
	if len(crops) != 3 {
		t.Fatalf("got %d fallback crops, want 3", len(crops))
	}
	// Fallback crops are the centered 70% region.
	if got := crops[0].Bounds(); got.Dx() != 280 || got.Dy() != 210 {
		t.Errorf("first fallback crop = %dx%d, want 280x210", got.Dx(), got.Dy())
	}
}

func TestExtractObjectsWithoutEndpoint(t *testing.T) {
	d := NewDetector(&core.Config{}, testLogger(t))
	img := solid(200, 200, color.RGBA{50, 50, 50, 255})

	crops := d.ExtractObjects(context.Background(), img, 0)
	if len(crops) != MinObjects {
		t.Errorf("maxItems=0 gave %d crops, want %d", len(crops), MinObjects)
	}
}

func TestExtractObjectsClampsMax(t *testing.T) {
	d := NewDetector(&core.Config{}, testLogger(t))
	img := solid(200, 200, color.RGBA{50, 50, 50, 255})

	crops := d.ExtractObjects(context.Background(), img, 100)
	if len(crops) > MaxObjects {
		t.Errorf("got %d crops, want at most %d", len(crops), MaxObjects)
	}
}

func TestCropClamping(t *testing.T) {
	img := solid(100, 100, color.RGBA{10, 10, 10, 255})

	if got := Crop(img, image.Rect(-20, -20, 50, 50)); got == nil || got.Bounds().Dx() != 50 {
		t.Errorf("out-of-bounds rect not clamped: %v", got)
	}
	if got := Crop(img, image.Rect(200, 200, 300, 300)); got != nil {
		t.Errorf("disjoint rect should yield nil, got %v", got.Bounds())
	}
}

func TestDecodeDataURI(t *testing.T) {
	img := solid(10, 8, color.RGBA{1, 2, 3, 255})
	pngData, err := EncodePNG(img)
	if err != nil {
		t.Fatal(err)
	}
	uri := core.BytesToDataURI(pngData, "image/png")

	decoded, err := DecodeDataURI(uri)
	if err != nil {
		t.Fatalf("DecodeDataURI() error = %v", err)
	}
	if decoded.Bounds().Dx() != 10 || decoded.Bounds().Dy() != 8 {
		t.Errorf("decoded size = %dx%d, want 10x8", decoded.Bounds().Dx(), decoded.Bounds().Dy())
	}

	if _, err := DecodeDataURI("not-a-data-uri"); err == nil {
		t.Error("expected error for malformed data URI")
	}
}
