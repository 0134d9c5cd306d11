package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sandevgo/wizzybot/internal/core"
	"github.com/sandevgo/wizzybot/pkg/retry"
	"github.com/sandevgo/wizzybot/pkg/textutil"
)

const (
	chatTemperature    = 0.7
	summaryTokenBudget = 512

	transcribePrompt    = "Please transcribe this audio:"
	describeImagePrompt = "Describe this image in detail."
	summaryPromptPrefix = "Please provide a brief summary (2-3 sentences) of this document:\n\n"
)

type Config struct {
	BaseURL string
	APIKey  string
	Model   string
}

// Client talks to the Gemini generateContent API. One client serves chat,
// vision, audio transcription and document summaries; they only differ in
// the parts they send.
type Client struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
	retrier *retry.Retrier
}

func New(cfg Config) *Client {
	return &Client{
		client: &http.Client{
			Timeout: 120 * time.Second,
		},
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		retrier: retry.NewRetrier(retry.NewProviderConfig()),
	}
}

// Chat implements core.ChatModel. History roles map onto the wire roles;
// anything that is not a human or ai turn is skipped.
func (c *Client) Chat(ctx context.Context, system string, history []core.Message) (string, error) {
	contents := make([]content, 0, len(history))
	for _, msg := range history {
		role, ok := wireRole(msg.Role)
		if !ok {
			continue
		}
		contents = append(contents, content{Role: role, Parts: []part{{Text: msg.Content}}})
	}
	if len(contents) == 0 {
		return "", errors.New("no messages to send")
	}

	req := generateRequest{
		SystemInstruction: &content{Parts: []part{{Text: system}}},
		Contents:          contents,
		GenerationConfig:  &generationConfig{Temperature: chatTemperature},
	}
	return c.generate(ctx, req)
}

// Transcribe implements core.Transcriber.
func (c *Client) Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
	req := generateRequest{
		Contents: []content{{
			Role: "user",
			Parts: []part{
				{Text: transcribePrompt},
				{InlineData: &inlineData{
					MIMEType: mimeType,
					Data:     base64.StdEncoding.EncodeToString(audio),
				}},
			},
		}},
	}
	return c.generate(ctx, req)
}

// DescribeImage implements core.VisionModel. An empty prompt falls back to
// a generic description request.
func (c *Client) DescribeImage(ctx context.Context, image []byte, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		prompt = describeImagePrompt
	}

	req := generateRequest{
		Contents: []content{{
			Role: "user",
			Parts: []part{
				{Text: prompt},
				{InlineData: &inlineData{
					MIMEType: "image/jpeg",
					Data:     base64.StdEncoding.EncodeToString(image),
				}},
			},
		}},
	}
	return c.generate(ctx, req)
}

// Summarize implements core.Summarizer. The document is token-truncated so
// an arbitrary upload cannot blow the prompt.
func (c *Client) Summarize(ctx context.Context, text string) (string, error) {
	req := generateRequest{
		Contents: []content{{
			Role:  "user",
			Parts: []part{{Text: summaryPromptPrefix + textutil.TruncateTokens(text, summaryTokenBudget)}},
		}},
	}
	return c.generate(ctx, req)
}

func (c *Client) generate(ctx context.Context, payload generateRequest) (string, error) {
	var out string
	err := c.retrier.Do(ctx, func() error {
		text, err := c.generateOnce(ctx, payload)
		if err != nil {
			return err
		}
		out = text
		return nil
	})
	return out, err
}

func (c *Client) generateOnce(ctx context.Context, payload generateRequest) (string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", retry.Permanent(fmt.Errorf("marshal: %w", err))
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return "", retry.Permanent(fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		httpErr := fmt.Errorf("gemini http %d: %s", resp.StatusCode, snippet(body))
		if isPermanentStatus(resp.StatusCode) {
			return "", retry.Permanent(httpErr)
		}
		return "", httpErr
	}

	var result generateResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("decode: %w", err)
	}

	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		if result.PromptFeedback != nil && result.PromptFeedback.BlockReason != "" {
			return "", retry.Permanent(fmt.Errorf("gemini blocked the request: %s", result.PromptFeedback.BlockReason))
		}
		return "", fmt.Errorf("gemini returned no candidates: %s", snippet(body))
	}

	var sb strings.Builder
	for _, p := range result.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return strings.TrimSpace(sb.String()), nil
}

func wireRole(role string) (string, bool) {
	switch role {
	case core.RoleHuman:
		return "user", true
	case core.RoleAI:
		return "model", true
	default:
		return "", false
	}
}

// isPermanentStatus: retrying auth or validation failures only burns the
// user's patience; 429 and 5xx are worth another shot.
func isPermanentStatus(status int) bool {
	return status >= 400 && status < 500 && status != http.StatusTooManyRequests
}

func snippet(body []byte) string {
	const max = 300
	s := string(body)
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
