// Package captions suggests meme captions for a topic, preferring a chat
// LLM and degrading to a deterministic template pack when no model is
// reachable.
package captions

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// defaultSeeds are the built-in caption templates. Each contains a single
// {topic} placeholder.
var defaultSeeds = []string{
	"me trying to {topic}",
	"{topic}: expectation vs reality",
	"POV: {topic} chose you",
	"the face you make when {topic}",
	"breaking news: {topic} strikes again",
	"scientists discover {topic}, society in shambles",
}

// SeedPack is the YAML schema for a custom caption template pack.
type SeedPack struct {
	Templates []string `yaml:"templates"`
}

// LoadSeeds reads a YAML template pack from path. An empty path returns
// the built-in templates.
func LoadSeeds(path string) ([]string, error) {
	if path == "" {
		return defaultSeeds, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("captions: failed to read seed pack %s: %w", path, err)
	}

	var pack SeedPack
	if err := yaml.Unmarshal(data, &pack); err != nil {
		return nil, fmt.Errorf("captions: failed to parse seed pack %s: %w", path, err)
	}

	seeds := make([]string, 0, len(pack.Templates))
	for _, tmpl := range pack.Templates {
		if trimmed := strings.TrimSpace(tmpl); trimmed != "" {
			seeds = append(seeds, trimmed)
		}
	}
	if len(seeds) == 0 {
		return nil, fmt.Errorf("captions: seed pack %s contains no templates", path)
	}
	return seeds, nil
}

// expandSeed substitutes the topic into a template.
func expandSeed(tmpl, topic string) string {
	return strings.ReplaceAll(tmpl, "{topic}", topic)
}
