// Package validation provides the startup validation suite that checks the
// rendering environment before the server accepts requests: output
// directory, caption font, ffmpeg availability, and optional AI/detector
// configuration.
package validation

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/fatih/color"

	"github.com/Cronos47/meme-tanker/core"
)

// StepStatus represents the outcome of a single validation step.
type StepStatus int

const (
	StepPassed StepStatus = iota
	StepFailed
	StepWarning
	StepSkipped
)

// String returns the string representation of a step status.
func (s StepStatus) String() string {
	switch s {
	case StepPassed:
		return "passed"
	case StepFailed:
		return "failed"
	case StepWarning:
		return "warning"
	case StepSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Step is one validation check with its result.
type Step struct {
	Name    string
	Status  StepStatus
	Message string
	Error   error
}

// SuiteResult is the aggregate outcome of the suite.
type SuiteResult struct {
	Steps    []Step
	Passed   int
	Failed   int
	Warnings int
	Duration time.Duration
	Success  bool
}

// Suite runs environment checks with colored progress output. Failures are
// reserved for conditions the service cannot run without (an unwritable
// output directory); degradable features (font, ffmpeg, API keys) produce
// warnings so the server still starts and the affected endpoints fall back
// or fail individually.
type Suite struct {
	config       *core.Config
	output       io.Writer
	showProgress bool
}

// NewSuite creates a validation suite for the given configuration.
func NewSuite(config *core.Config) *Suite {
	return &Suite{
		config:       config,
		output:       os.Stdout,
		showProgress: true,
	}
}

// WithOutput sets the writer for progress messages.
func (s *Suite) WithOutput(w io.Writer) *Suite {
	s.output = w
	return s
}

// WithShowProgress enables or disables progress output.
func (s *Suite) WithShowProgress(show bool) *Suite {
	s.showProgress = show
	return s
}

// Validate runs all checks in sequence and returns the aggregate result.
func (s *Suite) Validate() SuiteResult {
	start := time.Now()

	if s.showProgress {
		s.printHeader(core.ServiceName + " Startup Validation")
	}

	steps := []Step{
		s.runStep("Output Directory", s.checkOutputDir),
		s.runStep("Caption Font", s.checkFont),
		s.runStep("FFmpeg", s.checkFFmpeg),
		s.runStep("Image Generation", s.checkImageGen),
		s.runStep("Object Detector", s.checkDetector),
	}

	result := buildResult(steps, start)
	if s.showProgress {
		s.printSummary(result)
	}
	return result
}

// checkOutputDir ensures the output directory exists and is writable.
// This is the only hard failure: without it nothing can be rendered.
func (s *Suite) checkOutputDir() Step {
	dir := s.config.OutputDir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Step{Status: StepFailed, Message: dir, Error: core.ErrOutputDirUnwritable(dir, err)}
	}
	probe := filepath.Join(dir, ".write_probe")
	if err := os.WriteFile(probe, nil, 0o644); err != nil {
		return Step{Status: StepFailed, Message: dir, Error: core.ErrOutputDirUnwritable(dir, err)}
	}
	os.Remove(probe)
	return Step{Status: StepPassed, Message: dir}
}

// checkFont verifies the configured caption font is readable. Missing fonts
// degrade to the embedded face, so the result is a warning, never a failure.
func (s *Suite) checkFont() Step {
	path := s.config.FontPath
	if path == "" {
		return Step{Status: StepPassed, Message: "embedded default font"}
	}
	if _, err := os.Stat(path); err != nil {
		return Step{Status: StepWarning, Message: "falling back to embedded font", Error: core.ErrFontNotFound(path)}
	}
	return Step{Status: StepPassed, Message: path}
}

// checkFFmpeg locates the ffmpeg binary used by the karaoke endpoint.
func (s *Suite) checkFFmpeg() Step {
	path, err := exec.LookPath(s.config.FFmpegPath)
	if err != nil {
		return Step{Status: StepWarning, Message: "/karaoke will be unavailable", Error: core.ErrFFmpegMissing(s.config.FFmpegPath)}
	}
	return Step{Status: StepPassed, Message: path}
}

// checkImageGen reports whether cloud image generation is configured.
func (s *Suite) checkImageGen() Step {
	if s.config.OpenAIAPIKey == "" {
		return Step{Status: StepWarning, Message: "no OPENAI_API_KEY; /generate_meme uses the procedural fallback"}
	}
	return Step{Status: StepPassed, Message: "model " + s.config.OpenAIImageModel}
}

// checkDetector reports whether an external object detector is configured.
func (s *Suite) checkDetector() Step {
	if s.config.DetectorURL == "" {
		return Step{Status: StepSkipped, Message: "no DETECTOR_URL; context panels use center crops"}
	}
	return Step{Status: StepPassed, Message: s.config.DetectorURL}
}

// runStep executes a check, names the result, and prints progress.
func (s *Suite) runStep(name string, check func() Step) Step {
	step := check()
	step.Name = name
	if s.showProgress {
		s.printStep(step)
	}
	return step
}

func buildResult(steps []Step, start time.Time) SuiteResult {
	result := SuiteResult{
		Steps:    steps,
		Duration: time.Since(start),
	}
	for _, step := range steps {
		switch step.Status {
		case StepPassed, StepSkipped:
			result.Passed++
		case StepFailed:
			result.Failed++
		case StepWarning:
			result.Warnings++
			result.Passed++
		}
	}
	result.Success = result.Failed == 0
	return result
}

func (s *Suite) printHeader(title string) {
	headerColor := color.New(color.FgCyan, color.Bold)
	headerColor.Fprintf(s.output, "\n%s\n", title)
	fmt.Fprintln(s.output, "----------------------------------------")
}

func (s *Suite) printStep(step Step) {
	var clr *color.Color
	var mark string
	switch step.Status {
	case StepPassed:
		clr, mark = color.New(color.FgGreen), "✓"
	case StepFailed:
		clr, mark = color.New(color.FgRed), "✗"
	case StepWarning:
		clr, mark = color.New(color.FgYellow), "!"
	case StepSkipped:
		clr, mark = color.New(color.FgHiBlack), "-"
	default:
		clr, mark = color.New(color.FgWhite), "?"
	}

	clr.Fprintf(s.output, "  %s %-18s", mark, step.Name)
	color.New(color.FgHiBlack).Fprintf(s.output, " %s\n", step.Message)
	if step.Error != nil {
		color.New(color.FgRed).Fprintf(s.output, "      %v\n", step.Error)
	}
}

func (s *Suite) printSummary(result SuiteResult) {
	fmt.Fprintln(s.output, "----------------------------------------")
	if result.Success {
		color.New(color.FgGreen, color.Bold).Fprint(s.output, "Ready ")
	} else {
		color.New(color.FgRed, color.Bold).Fprint(s.output, "Not ready ")
	}
	color.New(color.FgHiBlack).Fprintf(s.output, "(%d passed, %d failed, %d warnings in %v)\n\n",
		result.Passed, result.Failed, result.Warnings, result.Duration.Round(time.Millisecond))
}
