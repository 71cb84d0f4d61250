package captions

import (
	"context"
	"fmt"
	"hash/fnv"
	"math/rand"
	"strings"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/Cronos47/meme-tanker/core"
	"github.com/Cronos47/meme-tanker/logging"
)

// DefaultCount is the number of captions suggested when the caller does
// not specify one.
const DefaultCount = 5

// Suggester produces caption candidates for a topic. When a chat client
// is configured it asks the model; otherwise, or on any model failure, it
// expands the seed templates deterministically so the same topic always
// yields the same suggestions.
type Suggester struct {
	client *openai.Client
	model  string
	seeds  []string
	log    *logging.Logger
}

// NewSuggester creates a Suggester from the service configuration. A
// missing API key is not an error; the suggester simply runs in
// template-only mode.
func NewSuggester(cfg *core.Config, log *logging.Logger) (*Suggester, error) {
	seeds, err := LoadSeeds(cfg.SeedsPath)
	if err != nil {
		return nil, err
	}

	s := &Suggester{
		seeds: seeds,
		log:   log.Named("captions"),
	}

	if cfg.OpenAIAPIKey != "" {
		clientConfig := openai.DefaultConfig(cfg.OpenAIAPIKey)
		if cfg.TextLLMURL != "" {
			clientConfig.BaseURL = cfg.TextLLMURL
		}
		clientConfig.HTTPClient = core.GetHTTPClient(cfg, cfg.AITimeout)
		s.client = openai.NewClientWithConfig(clientConfig)
		s.model = cfg.OpenAITextModel
		if s.model == "" {
			s.model = "gpt-4o-mini"
		}
	}

	return s, nil
}

// Suggest returns up to n caption candidates for the topic. A blank topic
// defaults to "life"; n is clamped to [1, DefaultCount*2].
func (s *Suggester) Suggest(ctx context.Context, topic string, n int) []string {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		topic = "life"
	}
	if n < 1 {
		n = DefaultCount
	}
	if n > DefaultCount*2 {
		n = DefaultCount * 2
	}

	if s.client != nil {
		if out, err := s.askModel(ctx, topic, n); err == nil && len(out) > 0 {
			return out
		} else if err != nil {
			s.log.Warn("caption model failed, using seed templates",
				zap.String("topic", topic),
				zap.Error(err))
		}
	}

	return s.fromSeeds(topic, n)
}

// askModel requests captions from the chat model and parses them out of
// its numbered-list reply.
func (s *Suggester) askModel(ctx context.Context, topic string, n int) ([]string, error) {
	prompt := fmt.Sprintf(
		"Write %d short, punchy meme captions (<=8 words) about: %s. Return as a simple numbered list.",
		n, topic)

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.9,
	})
	if err != nil {
		return nil, fmt.Errorf("captions: chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("captions: chat completion returned no choices")
	}

	lines := ParseList(resp.Choices[0].Message.Content)
	if len(lines) > n {
		lines = lines[:n]
	}
	return lines, nil
}

// ParseList extracts caption lines from model output, stripping numbering
// and bullet markers.
func ParseList(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		// "1. caption" or "2) caption"
		if i := strings.IndexAny(line, ".)"); i > 0 && i <= 3 && isDigits(line[:i]) {
			line = strings.TrimSpace(line[i+1:])
		}
		line = strings.TrimSpace(strings.TrimLeft(line, "-•* "))
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

// fromSeeds expands n distinct seed templates, shuffled by a hash of the
// topic so identical topics get identical suggestions.
func (s *Suggester) fromSeeds(topic string, n int) []string {
	h := fnv.New64a()
	h.Write([]byte(topic))
	rng := rand.New(rand.NewSource(int64(h.Sum64())))

	order := rng.Perm(len(s.seeds))
	if n > len(order) {
		n = len(order)
	}

	out := make([]string, 0, n)
	for _, idx := range order[:n] {
		out = append(out, expandSeed(s.seeds[idx], topic))
	}
	return out
}
