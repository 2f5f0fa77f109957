package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"shoprag/internal/domain"
)

// Client talks to an OpenAI-compatible API for chat completions and
// embeddings. It implements domain.ChatClient and domain.EmbeddingClient.
type Client struct {
	baseURL    string
	apiKey     string
	client     *http.Client
	maxRetries int
}

// Config configures the OpenAI-compatible client.
type Config struct {
	BaseURL   string
	APIKeyEnv string
	Timeout   time.Duration
}

// NewClient creates a new client using the provided configuration.
func NewClient(cfg Config) (*Client, error) {
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("missing API key in env %s", cfg.APIKeyEnv)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	t := cfg.Timeout
	if t == 0 {
		t = 30 * time.Second
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     key,
		client:     &http.Client{Timeout: t},
		maxRetries: 5,
	}, nil
}

// Complete issues a chat completion and returns the first choice's text
// together with token usage.
func (c *Client) Complete(ctx context.Context, req domain.ChatRequest) (domain.ChatResponse, error) {
	body := map[string]any{
		"model":       req.Model,
		"messages":    req.Messages,
		"temperature": req.Temperature,
	}
	if req.MaxTokens > 0 {
		body["max_tokens"] = req.MaxTokens
	}
	var out struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Usage struct {
			PromptTokens     int `json:"prompt_tokens"`
			CompletionTokens int `json:"completion_tokens"`
		} `json:"usage"`
	}
	if err := c.postJSON(ctx, "/chat/completions", body, &out); err != nil {
		return domain.ChatResponse{}, err
	}
	if len(out.Choices) == 0 {
		return domain.ChatResponse{}, errors.New("no completion returned")
	}
	return domain.ChatResponse{
		Content: out.Choices[0].Message.Content,
		Usage: domain.TokenUsage{
			PromptTokens:     out.Usage.PromptTokens,
			CompletionTokens: out.Usage.CompletionTokens,
		},
	}, nil
}

// Embed returns an embedding vector for the given text using the named
// model. The vector length is whatever the backend produced; dimension
// validation is the embedding service's job.
func (c *Client) Embed(ctx context.Context, text, model string) ([]float32, domain.TokenUsage, error) {
	body := map[string]any{"input": text, "model": model}
	var out struct {
		Data []struct {
			Embedding []float32 `json:"embedding"`
		} `json:"data"`
		Usage struct {
			PromptTokens int `json:"prompt_tokens"`
		} `json:"usage"`
	}
	if err := c.postJSON(ctx, "/embeddings", body, &out); err != nil {
		return nil, domain.TokenUsage{}, err
	}
	if len(out.Data) == 0 || len(out.Data[0].Embedding) == 0 {
		return nil, domain.TokenUsage{}, errors.New("no embedding returned")
	}
	return out.Data[0].Embedding, domain.TokenUsage{PromptTokens: out.Usage.PromptTokens}, nil
}

func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	url := c.baseURL + path
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.apiKey)

		resp, err := c.client.Do(req)
		if err != nil {
			lastErr = err
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if attempt < c.maxRetries {
				sleep(ctx, retryDelay(attempt))
				continue
			}
			return err
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			delay := retryDelay(attempt)
			// Respect Retry-After if provided
			if ra := resp.Header.Get("Retry-After"); ra != "" {
				if secs, err := strconv.Atoi(ra); err == nil {
					delay = time.Duration(secs) * time.Second
				}
			}
			_ = resp.Body.Close()
			lastErr = fmt.Errorf("openai %s failed: %s", path, resp.Status)
			if attempt < c.maxRetries {
				sleep(ctx, delay)
				continue
			}
			return lastErr
		}

		if resp.StatusCode >= 300 {
			payload, _ := io.ReadAll(resp.Body)
			_ = resp.Body.Close()
			return fmt.Errorf("openai %s failed: %s: %s", path, resp.Status, string(payload))
		}

		payload, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if err != nil {
			lastErr = err
			if attempt < c.maxRetries {
				sleep(ctx, retryDelay(attempt))
				continue
			}
			return err
		}
		return json.Unmarshal(payload, out)
	}
	return lastErr
}

func sleep(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}

func retryDelay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	base := 200 * time.Millisecond
	// exponential backoff capped at 5s
	d := base << attempt
	if d > 5*time.Second {
		d = 5 * time.Second
	}
	return d
}
