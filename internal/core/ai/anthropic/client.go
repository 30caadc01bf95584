package anthropic

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"wine-pairing/internal/core/ai/provider"
	"wine-pairing/internal/pkg/common"

	"github.com/liushuangls/go-anthropic/v2"
	"go.uber.org/zap"
)

const (
	providerName     = "anthropic"
	defaultMaxTokens = 1024
)

// Client Anthropic Messages API 客戶端
type Client struct {
	client *anthropic.Client
	http   *http.Client
	cfg    provider.Config
}

// NewClient 創建客戶端
func NewClient(cfg provider.Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.RetryWait <= 0 {
		cfg.RetryWait = 500 * time.Millisecond
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = defaultMaxTokens
	}

	httpClient := &http.Client{Timeout: cfg.Timeout}
	opts := []anthropic.ClientOption{anthropic.WithHTTPClient(httpClient)}
	if cfg.BaseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")))
	}

	return &Client{
		client: anthropic.NewClient(cfg.APIKey, opts...),
		http:   httpClient,
		cfg:    cfg,
	}
}

// Generate 生成回應；system 訊息另外傳遞
func (c *Client) Generate(ctx context.Context, req *provider.Request) (*provider.Response, error) {
	system, rest := provider.SystemAndUser(req.Messages)
	if req.JSONMode {
		system = strings.TrimSpace(system + "\n\nRespond with a single JSON object and nothing else.")
	}

	messages := make([]anthropic.Message, 0, len(rest))
	for _, m := range rest {
		text := m.Content
		role := anthropic.RoleUser
		if m.Role == provider.RoleAssistant {
			role = anthropic.RoleAssistant
		}
		messages = append(messages, anthropic.Message{
			Role:    role,
			Content: []anthropic.MessageContent{{Type: "text", Text: &text}},
		})
	}

	msgReq := anthropic.MessagesRequest{
		Model:     anthropic.Model(c.cfg.Model),
		MaxTokens: req.MaxTokens,
		System:    system,
		Messages:  messages,
	}
	if msgReq.MaxTokens == 0 {
		msgReq.MaxTokens = c.cfg.MaxTokens
	}
	temperature := float32(req.Temperature)
	if temperature == 0 {
		temperature = float32(c.cfg.Temperature)
	}
	if temperature > 0 {
		msgReq.Temperature = &temperature
	}

	var (
		resp anthropic.MessagesResponse
		err  error
	)
	for attempt := 0; ; attempt++ {
		resp, err = c.client.CreateMessages(ctx, msgReq)
		if err == nil || attempt >= c.cfg.MaxRetries || !retryable(err) || ctx.Err() != nil {
			break
		}
		common.LogWarn("Anthropic request failed, retrying",
			zap.Int("attempt", attempt+1),
			zap.Error(err),
		)
		select {
		case <-time.After(c.cfg.RetryWait * time.Duration(attempt+1)):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, fmt.Errorf("anthropic messages: %w", err)
	}

	content := extractText(resp)
	if content == "" {
		return nil, provider.ErrEmptyResponse
	}

	return &provider.Response{
		Content: content,
		Model:   string(resp.Model),
		Usage: provider.Usage{
			PromptTokens:     resp.Usage.InputTokens,
			CompletionTokens: resp.Usage.OutputTokens,
			TotalTokens:      resp.Usage.InputTokens + resp.Usage.OutputTokens,
		},
	}, nil
}

func extractText(resp anthropic.MessagesResponse) string {
	var b strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" && block.Text != nil {
			b.WriteString(*block.Text)
		}
	}
	return b.String()
}

func retryable(err error) bool {
	var apiErr *anthropic.APIError
	if errors.As(err, &apiErr) {
		switch string(apiErr.Type) {
		case "rate_limit_error", "overloaded_error", "api_error":
			return true
		}
		return false
	}
	return !errors.Is(err, context.Canceled)
}

// Name 提供者名稱
func (c *Client) Name() string { return providerName }

// GetModel 獲取模型名稱
func (c *Client) GetModel() string { return c.cfg.Model }

// GetTimeout 獲取請求超時時間
func (c *Client) GetTimeout() time.Duration { return c.cfg.Timeout }

// Close 關閉客戶端
func (c *Client) Close() error {
	c.http.CloseIdleConnections()
	return nil
}
