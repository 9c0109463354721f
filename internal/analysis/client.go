// Package analysis classifies and summarizes extracted text through a hosted
// chat-completion service.
package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/Raufjatoi/Smart-Document-Analyzer/internal/models"
)

// ErrServiceUnavailable indicates the analysis endpoint could not be reached
// or replied with a non-success status. The caller must not save the document
// in that case; a malformed reply body is handled with Fallback instead.
var ErrServiceUnavailable = errors.New("analysis service unavailable")

// Analyzer produces an Analysis for extracted document text.
type Analyzer interface {
	Analyze(ctx context.Context, text string) (*models.Analysis, error)
}

// Config holds the analysis service settings.
type Config struct {
	APIKey        string
	BaseURL       string
	Model         string
	Temperature   float64
	MaxTokens     int64
	MaxInputChars int
	Timeout       time.Duration
}

// Client is an Analyzer backed by an OpenAI-compatible chat-completion
// endpoint.
type Client struct {
	api    openai.Client
	cfg    Config
	prompt *PromptConfig
}

// NewClient creates an analysis client. A nil prompt uses the built-in
// prompt configuration.
func NewClient(cfg Config, prompt *PromptConfig) *Client {
	if prompt == nil {
		prompt = DefaultPromptConfig()
	}

	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &Client{
		api:    openai.NewClient(opts...),
		cfg:    cfg,
		prompt: prompt,
	}
}

// Prompt returns the active prompt configuration.
func (c *Client) Prompt() *PromptConfig {
	return c.prompt
}

// Analyze sends the document text (truncated to the configured input limit)
// to the service and parses the reply. Transport failures return
// ErrServiceUnavailable; a reply that is not the expected JSON shape returns
// the fixed fallback record with a nil error, because the document itself was
// extracted successfully.
func (c *Client) Analyze(ctx context.Context, text string) (*models.Analysis, error) {
	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	if c.cfg.MaxInputChars > 0 && len(text) > c.cfg.MaxInputChars {
		cut := c.cfg.MaxInputChars
		// Never split a multi-byte rune at the cut point.
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut]
	}

	resp, err := c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.cfg.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(c.prompt.SystemPrompt()),
			openai.UserMessage(text),
		},
		Temperature: openai.Float(c.cfg.Temperature),
		MaxTokens:   openai.Int(c.cfg.MaxTokens),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}

	if len(resp.Choices) == 0 {
		return Fallback(), nil
	}

	return c.parseReply(resp.Choices[0].Message.Content), nil
}

// parseReply decodes the message content as the analysis JSON object.
// Anything that fails to decode, or is missing a required field, yields the
// fallback record.
func (c *Client) parseReply(content string) *models.Analysis {
	var parsed models.Analysis
	if err := json.Unmarshal([]byte(stripCodeFence(content)), &parsed); err != nil {
		return Fallback()
	}

	if parsed.Classification == "" || parsed.Summary == "" || len(parsed.Tags) == 0 || parsed.Sentiment == "" {
		return Fallback()
	}

	if !c.prompt.Contains(parsed.Classification) {
		parsed.Classification = models.ClassOthers
	}

	switch parsed.Sentiment {
	case "positive", "neutral", "negative":
	default:
		parsed.Sentiment = "neutral"
	}

	return &parsed
}

// Fallback is the fixed analysis record used when the service reply is not
// well-formed.
func Fallback() *models.Analysis {
	return &models.Analysis{
		Classification: models.ClassOthers,
		Summary:        "Automatic analysis was unavailable for this document.",
		Tags:           []string{"document", "unclassified"},
		Sentiment:      "neutral",
	}
}

// stripCodeFence removes a surrounding markdown code fence. Models often wrap
// JSON replies in ```json blocks despite being told not to.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
