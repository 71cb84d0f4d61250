package video

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/Cronos47/meme-tanker/compose"
	"github.com/Cronos47/meme-tanker/core"
	"github.com/Cronos47/meme-tanker/logging"
)

// Frame geometry and encoding parameters for karaoke clips.
const (
	frameSize = 1080
	frameRate = 24

	// Duration bounds; requests outside are clamped.
	MinDurationSec = 0.5
	MaxDurationSec = 60.0
)

// Renderer builds karaoke MP4s by muxing a captioned still frame with an
// audio track through ffmpeg.
//
// Thread Safety: Renderer is safe for concurrent use; each render works
// in its own temporary directory.
type Renderer struct {
	ffmpegPath string
	fontPath   string
	log        *logging.Logger
}

// NewRenderer creates a Renderer from the service configuration.
func NewRenderer(cfg *core.Config, log *logging.Logger) *Renderer {
	ffmpegPath := cfg.FFmpegPath
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	return &Renderer{
		ffmpegPath: ffmpegPath,
		fontPath:   cfg.FontPath,
		log:        log.Named("video"),
	}
}

// ClampDuration bounds a requested clip duration.
func ClampDuration(durationSec float64) float64 {
	if durationSec < MinDurationSec {
		return MinDurationSec
	}
	if durationSec > MaxDurationSec {
		return MaxDurationSec
	}
	return durationSec
}

// Render produces a karaoke MP4 at outPath: img is scaled to the square
// frame, the caption drawn near the bottom, and the result held for
// durationSec over audioWAV. A nil audioWAV gets a synthesized tone.
func (r *Renderer) Render(ctx context.Context, img image.Image, caption string, durationSec float64, audioWAV []byte, outPath string) error {
	if img == nil {
		return fmt.Errorf("video: image cannot be nil")
	}
	durationSec = ClampDuration(durationSec)

	frame, err := compose.KaraokeFrame(compose.Resize(img, frameSize, frameSize), caption, r.fontPath)
	if err != nil {
		return fmt.Errorf("video: failed to render frame: %w", err)
	}

	workDir, err := os.MkdirTemp("", "karaoke-*")
	if err != nil {
		return fmt.Errorf("video: failed to create work directory: %w", err)
	}
	defer os.RemoveAll(workDir)

	framePath := filepath.Join(workDir, "frame.png")
	if err := writePNG(framePath, frame); err != nil {
		return err
	}

	if audioWAV == nil {
		audioWAV = ToneWAV(durationSec)
	}
	audioPath := filepath.Join(workDir, "audio.wav")
	if err := os.WriteFile(audioPath, audioWAV, 0o644); err != nil {
		return fmt.Errorf("video: failed to write audio track: %w", err)
	}

	return r.mux(ctx, framePath, audioPath, durationSec, outPath)
}

// mux invokes ffmpeg to combine the still frame and audio into an MP4.
func (r *Renderer) mux(ctx context.Context, framePath, audioPath string, durationSec float64, outPath string) error {
	args := []string{
		"-y",
		"-loop", "1",
		"-framerate", fmt.Sprintf("%d", frameRate),
		"-i", framePath,
		"-i", audioPath,
		"-t", fmt.Sprintf("%.3f", durationSec),
		"-c:v", "libx264",
		"-pix_fmt", "yuv420p",
		"-c:a", "aac",
		"-shortest",
		outPath,
	}

	r.log.Debug("running ffmpeg",
		zap.String("binary", r.ffmpegPath),
		zap.Strings("args", args))

	cmd := exec.CommandContext(ctx, r.ffmpegPath, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		detail := lastLines(stderr.String(), 5)
		return fmt.Errorf("video: ffmpeg failed: %w (%s)", err, detail)
	}

	r.log.Info("karaoke clip rendered",
		zap.String("output", outPath),
		zap.Float64("duration_sec", durationSec))
	return nil
}

// writePNG encodes an image to a PNG file.
func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("video: failed to create %s: %w", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("video: failed to encode frame: %w", err)
	}
	return nil
}

// lastLines trims ffmpeg's verbose stderr down to its tail, which is
// where the actual error lives.
func lastLines(s string, n int) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, " | ")
}
