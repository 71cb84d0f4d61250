// MemeForge Studio backend: an HTTP service that composes memes (caption
// fitting, remix layouts, context panels), renders karaoke clips, and
// fronts optional AI image generation and caption suggestion.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/Cronos47/meme-tanker/captions"
	"github.com/Cronos47/meme-tanker/core"
	"github.com/Cronos47/meme-tanker/core/validation"
	"github.com/Cronos47/meme-tanker/imagegen"
	"github.com/Cronos47/meme-tanker/logging"
	"github.com/Cronos47/meme-tanker/server"
	"github.com/Cronos47/meme-tanker/store"
	"github.com/Cronos47/meme-tanker/video"
	"github.com/Cronos47/meme-tanker/vision"
)

func main() {
	// Windows service commands (install/uninstall/start/stop) short-circuit.
	if HandleServiceCommand(os.Args[1:]) {
		return
	}
	if handled, err := RunAsService(); handled {
		if err != nil {
			fmt.Printf("Service error: %v\n", err)
			os.Exit(core.ExitCodeError)
		}
		return
	}

	os.Exit(run())
}

// run starts the service and blocks until shutdown. Split from main so
// the service wrapper can reuse it and deferred cleanup still runs before
// the exit code is returned.
func run() int {
	if err := godotenv.Load(); err != nil {
		// Logger is not up yet.
		fmt.Printf("Warning: .env file not found: %v\n", err)
	}

	isDevelopment := os.Getenv("DEV_MODE") == "true"

	logger, err := logging.NewLogger(isDevelopment, "logs/app.log")
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		return core.ExitCodeError
	}
	defer logger.Sync()

	cfg, err := core.LoadConfig()
	if err != nil {
		logger.Error("Failed to load configuration", zap.Error(err))
		return core.ExitCodeError
	}

	suite := validation.NewSuite(cfg).WithShowProgress(true)
	result := suite.Validate()
	if !result.Success {
		for _, step := range result.Steps {
			if step.Status == validation.StepFailed {
				logger.Error("Validation step failed",
					zap.String("step", step.Name),
					zap.String("message", step.Message),
					zap.Error(step.Error))
			}
		}
		return core.ExitCodeError
	}
	logger.Info("Startup validation passed",
		zap.Int("checks_passed", result.Passed),
		zap.Duration("duration", result.Duration))

	logger.Info("Configuration loaded",
		zap.Int("port", cfg.Port),
		zap.Strings("allow_origins", cfg.AllowOrigins),
		zap.String("output_dir", cfg.OutputDir),
		zap.String("db_path", cfg.DBPath),
		zap.String("font_path", cfg.FontPath),
		zap.Duration("ai_timeout", cfg.AITimeout),
		zap.Bool("dev_mode", isDevelopment))

	app, cleanup, err := buildApp(cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize application", zap.Error(err))
		return core.ExitCodeError
	}
	defer cleanup()

	handler, err := buildHandler(app, cfg, logger)
	if err != nil {
		logger.Error("Failed to build HTTP handler", zap.Error(err))
		return core.ExitCodeError
	}

	srv := server.New(server.Config{
		Host: cfg.Host,
		Port: cfg.Port,
	}, handler, logger)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	exitCode := core.ExitCodeSuccess
	select {
	case sig := <-sigChan:
		logger.Info("Received signal, shutting down", zap.String("signal", sig.String()))
		if sig == syscall.SIGTERM {
			exitCode = core.ExitCodeSIGTERM
		} else {
			exitCode = core.ExitCodeSIGINT
		}
	case err := <-errCh:
		if err != nil {
			logger.Error("Server failed", zap.Error(err))
			exitCode = core.ExitCodeError
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown failed", zap.Error(err))
	}

	logger.Info("Goodbye!")
	return exitCode
}

// buildApp constructs the domain components. The returned cleanup closes
// the database.
func buildApp(cfg *core.Config, logger *logging.Logger) (*App, func(), error) {
	files, err := store.NewFileStore(cfg.OutputDir)
	if err != nil {
		return nil, nil, err
	}

	db, err := store.NewSQLiteConnection(store.DefaultConnectionConfig(cfg.DBPath))
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() { db.Close() }

	if err := store.MigrateUp(db, cfg.MigrationsPath); err != nil {
		cleanup()
		return nil, nil, err
	}
	repo, err := store.NewRepository(db)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	suggester, err := captions.NewSuggester(cfg, logger)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	// Image generation is optional; without an API key the generator runs
	// fallback-only.
	var provider imagegen.Provider
	if cfg.OpenAIAPIKey != "" {
		p, err := imagegen.NewOpenAIProvider(cfg)
		if err != nil {
			logger.Warn("Image provider unavailable, procedural fallback only", zap.Error(err))
		} else {
			provider = p
		}
	}

	app := &App{
		cfg:       cfg,
		log:       logger,
		generator: imagegen.NewGenerator(provider, cfg, logger),
		suggester: suggester,
		detector:  vision.NewDetector(cfg, logger),
		renderer:  video.NewRenderer(cfg, logger),
		files:     files,
		repo:      repo,
	}
	return app, cleanup, nil
}

// buildHandler assembles the route table and middleware stack.
func buildHandler(app *App, cfg *core.Config, logger *logging.Logger) (http.Handler, error) {
	mux := app.Routes()

	// History sits behind the password guard with a brute-force limiter.
	limiter := server.NewRateLimiter(5, 15*time.Minute, 30*time.Minute)
	limiter.StartCleanup(context.Background(), 10*time.Minute)
	guard, err := server.NewPasswordGuard(cfg.WebUIPassword, limiter)
	if err != nil {
		return nil, err
	}
	mux.Handle("GET /history", guard.Middleware(http.HandlerFunc(app.handleHistory)))

	return server.Chain(mux,
		server.LoggingMiddleware(logger),
		server.CORSMiddleware(cfg.AllowOrigins),
		server.MaxBytesMiddleware(cfg.MaxUploadBytes),
	), nil
}
