// Package yandexgpt is the completion client behind every generative
// capability of the planner.
package yandexgpt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/currilab/curricula-backend/config"
	"github.com/currilab/curricula-backend/internal/pkg/httpx"
	"github.com/currilab/curricula-backend/internal/pkg/logger"
)

const completionPath = "/foundationModels/v1/completion"

// Message is one turn of a completion request.
type Message struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// Options tune a single completion call.
type Options struct {
	Temperature float64
	MaxTokens   int
	// Lite routes the call to the lite model; heavier edits use the full
	// model.
	Lite bool
}

// Client is the model API used by the rest of the backend. Complete
// returns the raw reply text; callers extract JSON through jsonx and
// fall back to their own defaults on any error.
type Client interface {
	Complete(ctx context.Context, messages []Message, opts Options) (string, error)
}

type client struct {
	log        *logger.Logger
	baseURL    string
	apiKey     string
	folderID   string
	model      string
	liteModel  string
	httpClient *http.Client
	maxRetries int
}

// NewClient builds the client from config; YANDEX_API_KEY and
// YANDEX_FOLDER_ID env vars override empty config values.
func NewClient(cfg config.LLMConfig, log *logger.Logger) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		apiKey = strings.TrimSpace(os.Getenv("YANDEX_API_KEY"))
	}
	if apiKey == "" {
		return nil, fmt.Errorf("missing YandexGPT API key")
	}

	folderID := strings.TrimSpace(cfg.FolderID)
	if folderID == "" {
		folderID = strings.TrimSpace(os.Getenv("YANDEX_FOLDER_ID"))
	}
	if folderID == "" {
		return nil, fmt.Errorf("missing YandexGPT folder id")
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = "https://llm.api.cloud.yandex.net"
	}

	timeout := cfg.Timeout()
	if timeout <= 0 {
		timeout = 90 * time.Second
	}

	return &client{
		log:        log.With("service", "YandexGPTClient"),
		baseURL:    baseURL,
		apiKey:     apiKey,
		folderID:   folderID,
		model:      defaultString(cfg.Model, "yandexgpt"),
		liteModel:  defaultString(cfg.LiteModel, "yandexgpt-lite"),
		httpClient: &http.Client{Timeout: timeout},
		maxRetries: cfg.MaxRetries,
	}, nil
}

func defaultString(v, fallback string) string {
	if s := strings.TrimSpace(v); s != "" {
		return s
	}
	return fallback
}

type httpError struct {
	StatusCode int
	Body       string
}

func (e *httpError) Error() string {
	return fmt.Sprintf("yandexgpt http %d: %s", e.StatusCode, e.Body)
}

func (e *httpError) HTTPStatusCode() int {
	if e == nil {
		return 0
	}
	return e.StatusCode
}

type completionOptions struct {
	Stream      bool    `json:"stream"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"maxTokens"`
}

type completionRequest struct {
	ModelURI          string            `json:"modelUri"`
	CompletionOptions completionOptions `json:"completionOptions"`
	Messages          []Message         `json:"messages"`
}

type completionResponse struct {
	Result struct {
		Alternatives []struct {
			Message struct {
				Role string `json:"role"`
				Text string `json:"text"`
			} `json:"message"`
		} `json:"alternatives"`
	} `json:"result"`
	Error json.RawMessage `json:"error,omitempty"`
}

func (c *client) Complete(ctx context.Context, messages []Message, opts Options) (string, error) {
	if len(messages) == 0 {
		return "", fmt.Errorf("messages required")
	}

	model := c.model
	if opts.Lite {
		model = c.liteModel
	}
	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1500
	}
	temperature := opts.Temperature
	if temperature <= 0 {
		temperature = 0.3
	}

	req := completionRequest{
		ModelURI: fmt.Sprintf("gpt://%s/%s", c.folderID, model),
		CompletionOptions: completionOptions{
			Temperature: temperature,
			MaxTokens:   maxTokens,
		},
		Messages: messages,
	}

	var resp completionResponse
	if err := c.do(ctx, req, &resp); err != nil {
		return "", err
	}
	if len(resp.Error) > 0 && string(resp.Error) != "null" {
		return "", fmt.Errorf("yandexgpt service error: %s", string(resp.Error))
	}
	if len(resp.Result.Alternatives) == 0 {
		return "", fmt.Errorf("yandexgpt: empty alternatives")
	}
	text := resp.Result.Alternatives[0].Message.Text
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("yandexgpt: empty reply text")
	}
	return text, nil
}

func (c *client) doOnce(ctx context.Context, body any) (*http.Response, []byte, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+completionPath, &buf)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Authorization", "Api-Key "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}

	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return resp, nil, readErr
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp, raw, &httpError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	return resp, raw, nil
}

func (c *client) do(ctx context.Context, body any, out any) error {
	backoff := time.Second

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		resp, raw, err := c.doOnce(ctx, body)
		if err == nil {
			if uErr := json.Unmarshal(raw, out); uErr != nil {
				return fmt.Errorf("yandexgpt decode error: %w", uErr)
			}
			return nil
		}

		if !httpx.IsRetryableError(err) || attempt == c.maxRetries {
			return err
		}

		sleepFor := httpx.JitterSleep(httpx.RetryAfterDuration(resp, backoff, 10*time.Second))
		c.log.Warn("YandexGPT request retrying",
			"attempt", attempt+1,
			"max_retries", c.maxRetries,
			"sleep", sleepFor.String(),
			"error", err.Error(),
		)
		time.Sleep(sleepFor)
		backoff *= 2
	}

	return fmt.Errorf("unreachable retry loop")
}
