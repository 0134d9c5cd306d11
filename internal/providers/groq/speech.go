package groq

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sandevgo/wizzybot/pkg/retry"
)

// ErrDisabled is returned when no API key was configured. Callers treat it
// like any synthesis failure and fall back to a text reply.
var ErrDisabled = errors.New("speech synthesis disabled: no api key")

type Config struct {
	BaseURL string
	APIKey  string
	Model   string
	Voice   string
}

// Client renders reply text to speech through Groq's OpenAI-compatible
// audio endpoint.
type Client struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
	voice   string
	retrier *retry.Retrier
}

func New(cfg Config) *Client {
	return &Client{
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		voice:   cfg.Voice,
		retrier: retry.NewRetrier(retry.NewProviderConfig()),
	}
}

// Synthesize implements core.SpeechSynthesizer. The result is MP3 bytes
// ready to ship as a Telegram voice message.
func (c *Client) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if c.apiKey == "" {
		return nil, ErrDisabled
	}
	if strings.TrimSpace(text) == "" {
		return nil, errors.New("nothing to synthesize")
	}

	var audio []byte
	err := c.retrier.Do(ctx, func() error {
		data, err := c.synthesizeOnce(ctx, text)
		if err != nil {
			return err
		}
		audio = data
		return nil
	})
	return audio, err
}

func (c *Client) synthesizeOnce(ctx context.Context, text string) ([]byte, error) {
	payload := map[string]string{
		"model":           c.model,
		"input":           text,
		"voice":           c.voice,
		"response_format": "mp3",
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, retry.Permanent(fmt.Errorf("marshal: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/audio/speech", bytes.NewReader(data))
	if err != nil {
		return nil, retry.Permanent(fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 300))
		httpErr := fmt.Errorf("groq http %d: %s", resp.StatusCode, string(body))
		if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			return nil, retry.Permanent(httpErr)
		}
		return nil, httpErr
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read audio: %w", err)
	}
	if len(audio) == 0 {
		return nil, errors.New("groq returned empty audio")
	}
	return audio, nil
}
