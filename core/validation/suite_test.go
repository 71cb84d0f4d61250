package validation

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/Cronos47/meme-tanker/core"
)

func testConfig(t *testing.T) *core.Config {
	t.Helper()
	return &core.Config{
		OutputDir:  filepath.Join(t.TempDir(), "outputs"),
		FFmpegPath: "ffmpeg",
	}
}

func TestValidateCreatesOutputDir(t *testing.T) {
	cfg := testConfig(t)
	var buf bytes.Buffer

	result := NewSuite(cfg).WithOutput(&buf).Validate()

	if !result.Success {
		t.Fatalf("suite failed: %+v", result.Steps)
	}
	if result.Steps[0].Status != StepPassed {
		t.Errorf("output dir step = %v, want passed", result.Steps[0].Status)
	}
}

func TestValidateMissingFontWarns(t *testing.T) {
	cfg := testConfig(t)
	cfg.FontPath = filepath.Join(t.TempDir(), "no-such-font.ttf")

	result := NewSuite(cfg).WithShowProgress(false).Validate()

	var fontStep *Step
	for i := range result.Steps {
		if result.Steps[i].Name == "Caption Font" {
			fontStep = &result.Steps[i]
		}
	}
	if fontStep == nil {
		t.Fatal("no Caption Font step in results")
	}
	if fontStep.Status != StepWarning {
		t.Errorf("font step = %v, want warning (missing fonts degrade, not fail)", fontStep.Status)
	}
	if !result.Success {
		t.Error("warnings must not fail the suite")
	}
}

func TestValidateDetectorSkippedWhenUnset(t *testing.T) {
	cfg := testConfig(t)

	result := NewSuite(cfg).WithShowProgress(false).Validate()

	for _, step := range result.Steps {
		if step.Name == "Object Detector" && step.Status != StepSkipped {
			t.Errorf("detector step = %v, want skipped without DETECTOR_URL", step.Status)
		}
	}
}

func TestStepStatusString(t *testing.T) {
	tests := []struct {
		status StepStatus
		want   string
	}{
		{StepPassed, "passed"},
		{StepFailed, "failed"},
		{StepWarning, "warning"},
		{StepSkipped, "skipped"},
		{StepStatus(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.status.String(); got != tt.want {
			t.Errorf("StepStatus(%d).String() = %q, want %q", tt.status, got, tt.want)
		}
	}
}
