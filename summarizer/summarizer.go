package summarizer

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/genai"

	"meetnotes/config"
)

// DefaultInstruction is used when a transcript carries no custom prompt.
const DefaultInstruction = "Summarize this meeting transcript in a clear, structured format with key points and action items."

// Client calls the Gemini API to summarize transcript text.
type Client struct {
	genai *genai.Client
	model string
}

func New(ctx context.Context) (*Client, error) {
	cfg := config.GetConfig()
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.GeminiAPIKey,
	})
	if err != nil {
		return nil, err
	}
	return &Client{genai: client, model: cfg.GeminiModel}, nil
}

// ModelName reports the configured Gemini model.
func (c *Client) ModelName() string { return c.model }

// Summarize sends the transcript text to Gemini with the given instruction
// and returns the generated summary. A blank instruction falls back to
// DefaultInstruction. An empty model response is reported as an error so
// callers never persist a blank summary.
func (c *Client) Summarize(ctx context.Context, text, instruction string) (string, error) {
	result, err := c.genai.Models.GenerateContent(
		ctx,
		c.model,
		genai.Text(text),
		&genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: EffectiveInstruction(instruction)}}},
		},
	)
	if err != nil {
		return "", err
	}

	summary := strings.TrimSpace(result.Text())
	if summary == "" {
		return "", errors.New("summarizer: model returned empty content")
	}
	return summary, nil
}

// EffectiveInstruction resolves the instruction actually sent to the model:
// the custom prompt when one is set, DefaultInstruction otherwise.
func EffectiveInstruction(custom string) string {
	if strings.TrimSpace(custom) == "" {
		return DefaultInstruction
	}
	return custom
}
