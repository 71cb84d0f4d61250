// handlers.go implements the HTTP endpoints: the classic meme operations
// (quick meme, remix, smart meme, karaoke) and the AI-assisted ones
// (caption suggestion, prompt-to-meme generation), plus download and
// history.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Cronos47/meme-tanker/captions"
	"github.com/Cronos47/meme-tanker/compose"
	"github.com/Cronos47/meme-tanker/core"
	"github.com/Cronos47/meme-tanker/imagegen"
	"github.com/Cronos47/meme-tanker/logging"
	"github.com/Cronos47/meme-tanker/store"
	"github.com/Cronos47/meme-tanker/video"
	"github.com/Cronos47/meme-tanker/vision"
)

// defaultCanvasSize is used when a request omits dimensions.
const defaultCanvasSize = 1080

// blankCanvasFill is the background for quick memes without a source image.
var blankCanvasFill = color.RGBA{R: 32, G: 32, B: 32, A: 255}

// App wires the domain components behind the HTTP handlers.
type App struct {
	cfg       *core.Config
	log       *logging.Logger
	generator *imagegen.Generator
	suggester *captions.Suggester
	detector  *vision.Detector
	renderer  *video.Renderer
	files     *store.FileStore
	repo      *store.Repository
}

// Routes registers every endpoint on a fresh mux.
func (a *App) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", a.handleHealth)
	mux.HandleFunc("POST /quick_meme", a.handleQuickMeme)
	mux.HandleFunc("POST /remix", a.handleRemix)
	mux.HandleFunc("POST /smart_meme", a.handleSmartMeme)
	mux.HandleFunc("POST /karaoke", a.handleKaraoke)
	mux.HandleFunc("POST /suggest_captions", a.handleSuggestCaptions)
	mux.HandleFunc("POST /generate_meme", a.handleGenerateMeme)
	mux.HandleFunc("GET /download/{name}", a.handleDownload)
	return mux
}

// renderResponse is the common reply for endpoints that produce a file.
type renderResponse struct {
	File     string `json:"file"`
	Download string `json:"download"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// decodeBody parses a JSON request body, treating failures as client
// errors.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

// record persists a render record; failures are logged, never surfaced,
// because history is an audit trail and must not fail a render that
// already succeeded.
func (a *App) record(ctx context.Context, rec *store.RenderRecord) {
	if a.repo == nil {
		return
	}
	if err := a.repo.InsertRender(ctx, rec); err != nil {
		a.log.Warn("failed to record render",
			zap.String("correlation_id", rec.CorrelationID),
			zap.Error(err))
	}
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": core.ServiceName,
		"version": core.Version,
	})
}

type quickMemeRequest struct {
	ImageDataURI string `json:"imageDataUri"`
	TopText      string `json:"topText"`
	BottomText   string `json:"bottomText"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
}

func (a *App) handleQuickMeme(w http.ResponseWriter, r *http.Request) {
	var req quickMemeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Width <= 0 {
		req.Width = defaultCanvasSize
	}
	if req.Height <= 0 {
		req.Height = defaultCanvasSize
	}

	start := time.Now()
	correlationID := uuid.New().String()

	var base image.Image
	if req.ImageDataURI != "" {
		img, err := vision.DecodeDataURI(req.ImageDataURI)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		base = compose.Resize(img, req.Width, req.Height)
	} else {
		blank := image.NewRGBA(image.Rect(0, 0, req.Width, req.Height))
		draw.Draw(blank, blank.Bounds(), image.NewUniform(blankCanvasFill), image.Point{}, draw.Src)
		base = blank
	}

	out, err := compose.CaptionImage(base, req.TopText, req.BottomText, a.cfg.FontPath)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	name := a.files.NewName(store.KindMeme, ".png")
	if _, err := a.files.SavePNG(name, out); err != nil {
		a.log.Error("failed to save quick meme", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to save output")
		return
	}

	a.record(r.Context(), &store.RenderRecord{
		CorrelationID: correlationID,
		Kind:          store.KindMeme,
		FileName:      name,
		TopText:       req.TopText,
		BottomText:    req.BottomText,
		DurationMS:    int(time.Since(start).Milliseconds()),
	})
	writeJSON(w, http.StatusOK, renderResponse{File: name, Download: "/download/" + name})
}

type remixRequest struct {
	LeftDataURI  string `json:"leftDataUri"`
	RightDataURI string `json:"rightDataUri"`
	Vertical     bool   `json:"vertical"`
}

func (a *App) handleRemix(w http.ResponseWriter, r *http.Request) {
	var req remixRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.LeftDataURI == "" || req.RightDataURI == "" {
		writeError(w, http.StatusBadRequest, "leftDataUri and rightDataUri are required")
		return
	}

	start := time.Now()
	correlationID := uuid.New().String()

	left, err := vision.DecodeDataURI(req.LeftDataURI)
	if err != nil {
		writeError(w, http.StatusBadRequest, "left image: "+err.Error())
		return
	}
	right, err := vision.DecodeDataURI(req.RightDataURI)
	if err != nil {
		writeError(w, http.StatusBadRequest, "right image: "+err.Error())
		return
	}

	// Normalize the shared edge before combining: heights for a
	// horizontal remix, widths for a vertical one.
	if !req.Vertical {
		target := min(left.Bounds().Dy(), right.Bounds().Dy())
		left = compose.ResizeToHeight(left, target)
		right = compose.ResizeToHeight(right, target)
	} else {
		target := min(left.Bounds().Dx(), right.Bounds().Dx())
		left = compose.ResizeToWidth(left, target)
		right = compose.ResizeToWidth(right, target)
	}

	out := compose.CombineSideBySide(left, right, req.Vertical, 12)

	name := a.files.NewName(store.KindRemix, ".png")
	if _, err := a.files.SavePNG(name, out); err != nil {
		a.log.Error("failed to save remix", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to save output")
		return
	}

	a.record(r.Context(), &store.RenderRecord{
		CorrelationID: correlationID,
		Kind:          store.KindRemix,
		FileName:      name,
		DurationMS:    int(time.Since(start).Milliseconds()),
	})
	writeJSON(w, http.StatusOK, renderResponse{File: name, Download: "/download/" + name})
}

type smartMemeRequest struct {
	ImageDataURI string `json:"imageDataUri"`
	TopText      string `json:"topText"`
	BottomText   string `json:"bottomText"`
	ShowContext  *bool  `json:"showContext"`
	MaxObjects   int    `json:"maxObjects"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
}

func (a *App) handleSmartMeme(w http.ResponseWriter, r *http.Request) {
	var req smartMemeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.ImageDataURI == "" {
		writeError(w, http.StatusBadRequest, "imageDataUri is required")
		return
	}
	showContext := req.ShowContext == nil || *req.ShowContext
	if req.MaxObjects == 0 {
		req.MaxObjects = 6
	}

	start := time.Now()
	correlationID := uuid.New().String()

	base, err := vision.DecodeDataURI(req.ImageDataURI)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Width > 0 && req.Height > 0 {
		base = compose.Resize(base, req.Width, req.Height)
	}

	opts := compose.DefaultFitOptions()
	opts.FontPath = a.cfg.FontPath
	captioned, err := compose.FitCaptions(base, req.TopText, req.BottomText, opts)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	out := captioned
	if showContext {
		thumbs := a.detector.ExtractObjects(r.Context(), base, req.MaxObjects)
		out, err = compose.ComposePanel(captioned, thumbs, compose.DefaultPanelOptions())
		if err != nil {
			a.log.Warn("panel composition failed, returning captioned image",
				zap.String("correlation_id", correlationID),
				zap.Error(err))
			out = captioned
		}
	}

	name := a.files.NewName(store.KindSmart, ".png")
	if _, err := a.files.SavePNG(name, out); err != nil {
		a.log.Error("failed to save smart meme", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to save output")
		return
	}

	a.record(r.Context(), &store.RenderRecord{
		CorrelationID: correlationID,
		Kind:          store.KindSmart,
		FileName:      name,
		TopText:       req.TopText,
		BottomText:    req.BottomText,
		DurationMS:    int(time.Since(start).Milliseconds()),
	})
	writeJSON(w, http.StatusOK, renderResponse{File: name, Download: "/download/" + name})
}

type karaokeRequest struct {
	ImageDataURI string  `json:"imageDataUri"`
	Caption      string  `json:"caption"`
	DurationSec  float64 `json:"durationSec"`
	AudioDataURI string  `json:"audioDataUri"`
}

func (a *App) handleKaraoke(w http.ResponseWriter, r *http.Request) {
	var req karaokeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.ImageDataURI == "" {
		writeError(w, http.StatusBadRequest, "imageDataUri is required")
		return
	}
	if req.DurationSec == 0 {
		req.DurationSec = 6.0
	}

	start := time.Now()
	correlationID := uuid.New().String()

	img, err := vision.DecodeDataURI(req.ImageDataURI)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var audio []byte
	if req.AudioDataURI != "" {
		audio, err = core.DataURIToBytes(req.AudioDataURI)
		if err != nil {
			writeError(w, http.StatusBadRequest, "audio: "+err.Error())
			return
		}
	}

	name := a.files.NewName(store.KindKaraoke, ".mp4")
	outPath, err := a.files.Resolve(name)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), a.cfg.ProcessingTimeout)
	defer cancel()
	if err := a.renderer.Render(ctx, img, req.Caption, req.DurationSec, audio, outPath); err != nil {
		a.log.Error("karaoke render failed",
			zap.String("correlation_id", correlationID),
			zap.Error(err))
		a.record(r.Context(), &store.RenderRecord{
			CorrelationID: correlationID,
			Kind:          store.KindKaraoke,
			FileName:      name,
			Status:        "error",
			ErrorMessage:  err.Error(),
			DurationMS:    int(time.Since(start).Milliseconds()),
		})
		writeError(w, http.StatusInternalServerError, "video render failed")
		return
	}

	a.record(r.Context(), &store.RenderRecord{
		CorrelationID: correlationID,
		Kind:          store.KindKaraoke,
		FileName:      name,
		DurationMS:    int(time.Since(start).Milliseconds()),
	})
	writeJSON(w, http.StatusOK, renderResponse{File: name, Download: "/download/" + name})
}

type suggestRequest struct {
	Topic string `json:"topic"`
	N     int    `json:"n"`
}

func (a *App) handleSuggestCaptions(w http.ResponseWriter, r *http.Request) {
	var req suggestRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.N == 0 {
		req.N = captions.DefaultCount
	}

	ctx, cancel := context.WithTimeout(r.Context(), a.cfg.AITimeout)
	defer cancel()
	suggestions := a.suggester.Suggest(ctx, req.Topic, req.N)

	writeJSON(w, http.StatusOK, map[string]any{
		"topic":    req.Topic,
		"captions": suggestions,
	})
}

type generateMemeRequest struct {
	Prompt      string `json:"prompt"`
	Negative    string `json:"negative"`
	StyleTop    string `json:"styleTop"`
	StyleBottom string `json:"styleBottom"`
	Seed        *int   `json:"seed"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
}

func (a *App) handleGenerateMeme(w http.ResponseWriter, r *http.Request) {
	var req generateMemeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Prompt == "" {
		writeError(w, http.StatusBadRequest, "prompt is required")
		return
	}

	start := time.Now()
	correlationID := uuid.New().String()

	ctx, cancel := context.WithTimeout(r.Context(), a.cfg.ProcessingTimeout)
	defer cancel()

	// Hosted providers take a single prompt; fold the negative in as an
	// avoidance clause. Seeds are not supported upstream.
	prompt := req.Prompt
	if req.Negative != "" {
		prompt += ". Avoid: " + req.Negative
	}
	if req.Seed != nil {
		a.log.Debug("seed requested but unsupported by the active provider",
			zap.Intp("seed", req.Seed))
	}

	img, source := a.generator.Generate(ctx, prompt)
	if req.Width > 0 && req.Height > 0 {
		img = compose.Resize(img, req.Width, req.Height)
	}

	caps := a.suggester.Suggest(ctx, req.Prompt, 3)
	top := req.StyleTop
	if len(caps) > 0 {
		top = caps[0]
	}
	bottom := req.StyleBottom
	if len(caps) > 1 {
		bottom = caps[1]
	}

	out, err := compose.CaptionImage(img, top, bottom, a.cfg.FontPath)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	name := a.files.NewName(store.KindGen, ".png")
	if _, err := a.files.SavePNG(name, out); err != nil {
		a.log.Error("failed to save generated meme", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to save output")
		return
	}

	a.log.Info("meme generated",
		zap.String("correlation_id", correlationID),
		zap.String("source", string(source)))
	a.record(r.Context(), &store.RenderRecord{
		CorrelationID: correlationID,
		Kind:          store.KindGen,
		FileName:      name,
		TopText:       top,
		BottomText:    bottom,
		Prompt:        req.Prompt,
		DurationMS:    int(time.Since(start).Milliseconds()),
	})
	writeJSON(w, http.StatusOK, map[string]any{
		"file":     name,
		"download": "/download/" + name,
		"usedCaptions": map[string]string{
			"top":    top,
			"bottom": bottom,
		},
	})
}

func (a *App) handleDownload(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	data, mime, err := a.files.Read(name)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "file not found")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"name":    name,
		"dataUri": core.BytesToDataURI(data, mime),
	})
}

func (a *App) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			limit = n
		}
	}

	records, err := a.repo.ListRecent(r.Context(), limit)
	if err != nil {
		a.log.Error("failed to list render history", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load history")
		return
	}
	if records == nil {
		records = []store.RenderRecord{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"renders": records})
}
