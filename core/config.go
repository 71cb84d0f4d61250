// Package core provides shared configuration, environment parsing, data-URI
// codecs, and HTTP client construction for the MemeForge backend.
package core

import (
	"crypto/tls"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config holds all configuration values, loaded from the environment.
type Config struct {
	// API keys (optional - cloud features degrade to local fallbacks)
	OpenAIAPIKey string

	// Server configuration
	Port           int
	Host           string
	AllowOrigins   []string // CORS origins, comma-separated in ALLOW_ORIGINS
	WebUIPassword  string   // optional password protecting the history endpoint
	MaxUploadBytes int64    // request body cap for data-URI payloads

	// LLM API configuration (empty URL = OpenAI default endpoint)
	TextLLMURL       string
	ImageLLMURL      string
	OpenAITextModel  string
	OpenAIImageModel string

	// Rendering configuration
	FontPath  string // TrueType font for captions (Impact-style); empty = embedded default
	OutputDir string // directory for rendered PNG/MP4 files
	SeedsPath string // optional YAML caption template pack

	// Context object detection (optional external service)
	DetectorURL string

	// Video encoding
	FFmpegPath string // ffmpeg binary; empty = look up in PATH

	// Persistence
	DBPath         string
	MigrationsPath string

	// Processing configuration
	AITimeout            time.Duration
	ProcessingTimeout    time.Duration
	AllowSelfSignedCerts bool
}

// LoadConfig reads configuration from the environment and applies defaults.
// Call godotenv.Load beforehand if a .env file should be honored.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		OpenAIAPIKey: os.Getenv("OPENAI_API_KEY"),

		Port:           ParseIntEnv("PORT", 8000),
		Host:           GetEnvOrDefault("HOST", ""),
		AllowOrigins:   splitOrigins(GetEnvOrDefault("ALLOW_ORIGINS", "http://localhost:3000")),
		WebUIPassword:  os.Getenv("WEBUI_PASSWORD"),
		MaxUploadBytes: ParseInt64Env("MAX_UPLOAD_BYTES", 32<<20),

		TextLLMURL:       os.Getenv("TEXT_LLM_URL"),
		ImageLLMURL:      os.Getenv("IMAGE_LLM_URL"),
		OpenAITextModel:  GetEnvOrDefault("OPENAI_TEXT_MODEL", "gpt-4o-mini"),
		OpenAIImageModel: GetEnvOrDefault("OPENAI_IMAGE_MODEL", "dall-e-3"),

		FontPath:  resolveFontPath(os.Getenv("IMPACT_PATH")),
		OutputDir: GetEnvOrDefault("OUTPUT_DIR", "outputs"),
		SeedsPath: os.Getenv("CAPTION_SEEDS_PATH"),

		DetectorURL: os.Getenv("DETECTOR_URL"),
		FFmpegPath:  GetEnvOrDefault("FFMPEG_PATH", "ffmpeg"),

		DBPath:         GetEnvOrDefault("DB_PATH", filepath.Join("data", "memeforge.db")),
		MigrationsPath: GetEnvOrDefault("MIGRATIONS_PATH", "file://store/migrations"),

		AITimeout:            ParseDurationEnv("AI_TIMEOUT", 120*time.Second),
		ProcessingTimeout:    ParseDurationEnv("PROCESSING_TIMEOUT", 300*time.Second),
		AllowSelfSignedCerts: ParseBoolEnv("ALLOW_SELF_SIGNED_CERTS", false),
	}

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, ErrInvalidPort(cfg.Port)
	}

	return cfg, nil
}

// splitOrigins parses the comma-separated ALLOW_ORIGINS value, trimming
// whitespace and dropping empty entries.
func splitOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

// resolveFontPath makes a relative IMPACT_PATH absolute against the working
// directory, matching how the font is shipped next to the binary.
func resolveFontPath(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}

// GetHTTPClient returns an HTTP client configured with TLS settings based
// on AllowSelfSignedCerts. Use this for all requests to external APIs so
// the TLS configuration is respected everywhere.
func GetHTTPClient(cfg *Config, timeout time.Duration) *http.Client {
	client := &http.Client{
		Timeout: timeout,
	}

	if cfg.AllowSelfSignedCerts {
		client.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}

	return client
}

// GetDefaultHTTPClient returns an HTTP client with a 30s timeout and the
// configured TLS settings.
func GetDefaultHTTPClient(cfg *Config) *http.Client {
	return GetHTTPClient(cfg, 30*time.Second)
}
