package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"wine-pairing/internal/core/ai/provider"
	"wine-pairing/internal/pkg/common"

	goopenai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const providerName = "openai"

// Client OpenAI 相容 API 的客戶端（也可指向自架端點）
type Client struct {
	client *goopenai.Client
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

	httpClient := &http.Client{Timeout: cfg.Timeout}
	clientConfig := goopenai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	}
	clientConfig.HTTPClient = httpClient

	return &Client{
		client: goopenai.NewClientWithConfig(clientConfig),
		http:   httpClient,
		cfg:    cfg,
	}
}

// Generate 生成回應；429 與 5xx 依設定重試
func (c *Client) Generate(ctx context.Context, req *provider.Request) (*provider.Response, error) {
	messages := make([]goopenai.ChatCompletionMessage, 0, len(req.Messages))
	for _, m := range req.Messages {
		messages = append(messages, goopenai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}

	chatReq := goopenai.ChatCompletionRequest{
		Model:       c.cfg.Model,
		Messages:    messages,
		MaxTokens:   req.MaxTokens,
		Temperature: float32(req.Temperature),
	}
	if chatReq.MaxTokens == 0 {
		chatReq.MaxTokens = c.cfg.MaxTokens
	}
	if chatReq.Temperature == 0 {
		chatReq.Temperature = float32(c.cfg.Temperature)
	}
	if req.JSONMode {
		chatReq.ResponseFormat = &goopenai.ChatCompletionResponseFormat{
			Type: goopenai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	var (
		resp goopenai.ChatCompletionResponse
		err  error
	)
	for attempt := 0; ; attempt++ {
		resp, err = c.client.CreateChatCompletion(ctx, chatReq)
		if err == nil || attempt >= c.cfg.MaxRetries || !retryable(err) || ctx.Err() != nil {
			break
		}
		common.LogWarn("OpenAI request failed, retrying",
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
		return nil, fmt.Errorf("openai chat completion: %w", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return nil, provider.ErrEmptyResponse
	}

	return &provider.Response{
		Content: resp.Choices[0].Message.Content,
		Model:   resp.Model,
		Usage: provider.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}

func retryable(err error) bool {
	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == http.StatusTooManyRequests || apiErr.HTTPStatusCode >= http.StatusInternalServerError
	}
	var reqErr *goopenai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode == http.StatusTooManyRequests || reqErr.HTTPStatusCode >= http.StatusInternalServerError
	}
	// 逾時或連線錯誤
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
