package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"net/http"
	"sort"

	"go.uber.org/zap"

	"github.com/Cronos47/meme-tanker/core"
	"github.com/Cronos47/meme-tanker/logging"
)

// Detection limits. maxObjects requests are clamped into this range.
const (
	MinObjects = 1
	MaxObjects = 12
)

// Box is one detected object region in pixel coordinates.
type Box struct {
	X1         int     `json:"x1"`
	Y1         int     `json:"y1"`
	X2         int     `json:"x2"`
	Y2         int     `json:"y2"`
	Confidence float64 `json:"confidence"`
	Label      string  `json:"label,omitempty"`
}

// detectRequest is the payload sent to the detector service.
type detectRequest struct {
	Image string `json:"image"` // base64 PNG
}

// detectResponse is the detector service reply.
type detectResponse struct {
	Boxes []Box `json:"boxes"`
}

// Detector extracts object thumbnails from an image. When an external
// detector service is configured it is asked for bounding boxes; when it
// is not, or when it fails or finds nothing, progressively smaller center
// crops stand in so the context panel is never empty.
//
// Thread Safety: Detector is safe for concurrent use.
type Detector struct {
	endpoint string
	client   *http.Client
	log      *logging.Logger
}

// NewDetector creates a Detector. An empty DETECTOR_URL is valid and
// means fallback-only operation.
func NewDetector(cfg *core.Config, log *logging.Logger) *Detector {
	return &Detector{
		endpoint: cfg.DetectorURL,
		client:   core.GetDefaultHTTPClient(cfg),
		log:      log.Named("vision"),
	}
}

// ExtractObjects returns up to maxItems cropped object thumbnails from
// img, ordered by detection confidence. It always returns at least one
// crop for a non-empty image.
func (d *Detector) ExtractObjects(ctx context.Context, img image.Image, maxItems int) []image.Image {
	if maxItems < MinObjects {
		maxItems = MinObjects
	}
	if maxItems > MaxObjects {
		maxItems = MaxObjects
	}

	if d.endpoint != "" {
		crops, err := d.detect(ctx, img, maxItems)
		if err != nil {
			d.log.Warn("object detection failed, using center crops", zap.Error(err))
		} else if len(crops) > 0 {
			return crops
		}
	}

	return CenterCrops(img, maxItems)
}

// detect calls the external detector service and crops the returned
// boxes.
func (d *Detector) detect(ctx context.Context, img image.Image, maxItems int) ([]image.Image, error) {
	pngData, err := EncodePNG(img)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(detectRequest{
		Image: base64.StdEncoding.EncodeToString(pngData),
	})
	if err != nil {
		return nil, fmt.Errorf("vision: failed to marshal detect request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("vision: failed to create detect request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("vision: detector request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("vision: detector returned status %d", resp.StatusCode)
	}

	var result detectResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("vision: failed to decode detector response: %w", err)
	}

	// Highest confidence first.
	sort.SliceStable(result.Boxes, func(i, j int) bool {
		return result.Boxes[i].Confidence > result.Boxes[j].Confidence
	})

	crops := make([]image.Image, 0, maxItems)
	for _, box := range result.Boxes {
		if len(crops) >= maxItems {
			break
		}
		crop := Crop(img, image.Rect(box.X1, box.Y1, box.X2, box.Y2))
		if crop != nil {
			crops = append(crops, crop)
		}
	}
	return crops, nil
}

// CenterCrops produces progressively smaller crops centered on the
// image: the first covers 70% of each dimension and each subsequent crop
// shrinks by 8 points, floored at 30%.
func CenterCrops(img image.Image, maxItems int) []image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return nil
	}

	crops := make([]image.Image, 0, maxItems)
	for i := 0; i < maxItems; i++ {
		scale := 0.7 - float64(i)*0.08
		if scale < 0.3 {
			scale = 0.3
		}
		cw, ch := int(float64(w)*scale), int(float64(h)*scale)
		if cw < 1 || ch < 1 {
			break
		}
		x1 := bounds.Min.X + (w-cw)/2
		y1 := bounds.Min.Y + (h-ch)/2
		crop := Crop(img, image.Rect(x1, y1, x1+cw, y1+ch))
		if crop != nil {
			crops = append(crops, crop)
		}
	}
	return crops
}
