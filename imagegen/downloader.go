package imagegen

import (
	"context"
	"fmt"
	"image"
	"net/http"

	// Register decoders for the formats generation backends return.
	_ "image/jpeg"
	_ "image/png"

	"github.com/Cronos47/meme-tanker/core"
)

// maxDownloadBytes caps how much image data a download will accept.
const maxDownloadBytes = 32 << 20

// Downloader fetches generated images from the temporary URLs returned by
// providers and decodes them in memory.
//
// Thread Safety: Downloader is safe for concurrent use; each download
// creates its own HTTP request.
type Downloader struct {
	client *http.Client
}

// NewDownloader creates a downloader using the service HTTP/TLS settings.
func NewDownloader(cfg *core.Config) *Downloader {
	return &Downloader{client: core.GetDefaultHTTPClient(cfg)}
}

// Download fetches the image at url and decodes it.
func (d *Downloader) Download(ctx context.Context, url string) (image.Image, error) {
	if url == "" {
		return nil, fmt.Errorf("imagegen: download URL cannot be empty")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("imagegen: failed to create download request: %w", err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("imagegen: image download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("imagegen: image download returned status %d", resp.StatusCode)
	}

	img, _, err := image.Decode(http.MaxBytesReader(nil, resp.Body, maxDownloadBytes))
	if err != nil {
		return nil, fmt.Errorf("imagegen: failed to decode downloaded image: %w", err)
	}
	return img, nil
}
