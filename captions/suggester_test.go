package captions

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
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

func newSeedSuggester(t *testing.T) *Suggester {
	t.Helper()
	s, err := NewSuggester(&core.Config{}, testLogger(t))
	if err != nil {
		t.Fatalf("NewSuggester() error = %v", err)
	}
	return s
}

func TestSuggestFromSeeds(t *testing.T) {
	s := newSeedSuggester(t)

	got := s.Suggest(context.Background(), "mondays", 5)
	if len(got) != 5 {
		t.Fatalf("got %d captions, want 5", len(got))
	}
	for _, c := range got {
		if !strings.Contains(c, "mondays") {
			t.Errorf("caption %q does not mention the topic", c)
		}
	}

	// Distinct templates, no repeats.
	seen := map[string]bool{}
	for _, c := range got {
		if seen[c] {
			t.Errorf("duplicate caption %q", c)
		}
		seen[c] = true
	}
}

func TestSuggestDeterministicPerTopic(t *testing.T) {
	s := newSeedSuggester(t)

	first := s.Suggest(context.Background(), "deadlines", 4)
	second := s.Suggest(context.Background(), "deadlines", 4)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("same topic gave different suggestions:\n%v\n%v", first, second)
	}
}

func TestSuggestBlankTopicDefaults(t *testing.T) {
	s := newSeedSuggester(t)

	got := s.Suggest(context.Background(), "   ", 3)
	if len(got) != 3 {
		t.Fatalf("got %d captions, want 3", len(got))
	}
	for _, c := range got {
		if !strings.Contains(c, "life") {
			t.Errorf("caption %q should fall back to the default topic", c)
		}
	}
}

func TestSuggestCountClamped(t *testing.T) {
	s := newSeedSuggester(t)

	if got := s.Suggest(context.Background(), "cats", 0); len(got) != DefaultCount {
		t.Errorf("n=0 gave %d captions, want %d", len(got), DefaultCount)
	}
	// More than available seeds: capped at the seed count.
	if got := s.Suggest(context.Background(), "cats", 100); len(got) > len(defaultSeeds) {
		t.Errorf("n=100 gave %d captions, more than %d seeds", len(got), len(defaultSeeds))
	}
}

func TestParseList(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "numbered with dots",
			input: "1. first caption\n2. second caption",
			want:  []string{"first caption", "second caption"},
		},
		{
			name:  "numbered with parens",
			input: "1) one\n2) two",
			want:  []string{"one", "two"},
		},
		{
			name:  "bullets",
			input: "- alpha\n• beta\n* gamma",
			want:  []string{"alpha", "beta", "gamma"},
		},
		{
			name:  "blank lines skipped",
			input: "\n1. kept\n\n\n2. also kept\n",
			want:  []string{"kept", "also kept"},
		},
		{
			name:  "empty input",
			input: "",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseList(tt.input); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseList(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestLoadSeedsFromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "seeds.yaml")
	content := "templates:\n  - \"when {topic} hits different\"\n  - \"nobody: ... {topic}:\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	seeds, err := LoadSeeds(path)
	if err != nil {
		t.Fatalf("LoadSeeds() error = %v", err)
	}
	if len(seeds) != 2 {
		t.Fatalf("got %d seeds, want 2", len(seeds))
	}
	if got := expandSeed(seeds[0], "payday"); got != "when payday hits different" {
		t.Errorf("expandSeed = %q", got)
	}
}

func TestLoadSeedsErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadSeeds("/nonexistent/seeds.yaml"); err == nil {
			t.Error("expected error for missing file")
		}
	})

	t.Run("empty pack", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "empty.yaml")
		os.WriteFile(path, []byte("templates: []\n"), 0o644)
		if _, err := LoadSeeds(path); err == nil {
			t.Error("expected error for empty pack")
		}
	})

	t.Run("default seeds", func(t *testing.T) {
		seeds, err := LoadSeeds("")
		if err != nil {
			t.Fatalf("LoadSeeds(\"\") error = %v", err)
		}
		if len(seeds) != len(defaultSeeds) {
			t.Errorf("got %d default seeds, want %d", len(seeds), len(defaultSeeds))
		}
	})
}
