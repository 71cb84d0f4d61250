package imagegen

import (
	"context"
	"image"

	"go.uber.org/zap"

	"github.com/Cronos47/meme-tanker/core"
	"github.com/Cronos47/meme-tanker/logging"
)

// Source identifies which backend produced a generated image.
type Source string

const (
	// SourceProvider means the configured generation API produced the image.
	SourceProvider Source = "provider"
	// SourceFallback means the procedural synthesizer produced the image.
	SourceFallback Source = "fallback"
)

// Generator orchestrates image generation: it asks the configured provider
// for an image, downloads it, and falls back to procedural synthesis when
// either step fails. Generation therefore always yields an image.
type Generator struct {
	provider   Provider
	downloader *Downloader
	fontPath   string
	log        *logging.Logger
}

// NewGenerator creates a Generator. provider may be nil, in which case
// every request uses the procedural fallback.
func NewGenerator(provider Provider, cfg *core.Config, log *logging.Logger) *Generator {
	return &Generator{
		provider:   provider,
		downloader: NewDownloader(cfg),
		fontPath:   cfg.FontPath,
		log:        log.Named("imagegen"),
	}
}

// Generate produces an image for the prompt. The returned Source reports
// whether the provider or the fallback supplied it.
func (g *Generator) Generate(ctx context.Context, prompt string) (image.Image, Source) {
	if g.provider == nil {
		g.log.Debug("no image provider configured, using procedural fallback",
			zap.String("prompt", prompt))
		return ProceduralImage(prompt, g.fontPath), SourceFallback
	}

	url, err := g.provider.Generate(ctx, prompt)
	if err != nil {
		g.log.Warn("image generation failed, using procedural fallback",
			zap.String("prompt", prompt),
			zap.Error(err))
		return ProceduralImage(prompt, g.fontPath), SourceFallback
	}

	img, err := g.downloader.Download(ctx, url)
	if err != nil {
		g.log.Warn("image download failed, using procedural fallback",
			zap.Error(err))
		return ProceduralImage(prompt, g.fontPath), SourceFallback
	}

	g.log.Info("image generated",
		zap.String("prompt", prompt),
		zap.Int("width", img.Bounds().Dx()),
		zap.Int("height", img.Bounds().Dy()))
	return img, SourceProvider
}
