package embedding

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIClient OpenAI嵌入向量客户端
type OpenAIClient struct {
	client *openai.Client // OpenAI API客户端
	model  string         // 使用的嵌入模型
	config *Config        // 客户端配置
}

// NewOpenAIClient 创建一个新的OpenAI嵌入客户端
func NewOpenAIClient(opts ...Option) (Client, error) {
	cfg := NewConfig(opts...)

	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	// 创建OpenAI客户端配置
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	clientConfig.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	return &OpenAIClient{
		client: openai.NewClientWithConfig(clientConfig),
		model:  cfg.Model,
		config: cfg,
	}, nil
}

// Name 返回模型名称
func (c *OpenAIClient) Name() string {
	return c.model
}

// Embed 对单个文本生成嵌入向量
func (c *OpenAIClient) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, ErrEmptyText
	}

	vectors, err := c.createEmbeddings(ctx, []string{text})
	if err != nil {
		return nil, err
	}

	return vectors[0], nil
}

// EmbedBatch 对多个文本生成嵌入向量
// 超过BatchSize的输入会被拆分成多次请求，结果保持输入顺序
func (c *OpenAIClient) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	for _, text := range texts {
		if text == "" {
			return nil, ErrEmptyText
		}
	}

	batchSize := c.config.BatchSize
	if batchSize <= 0 {
		batchSize = len(texts)
	}

	vectors := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += batchSize {
		end := start + batchSize
		if end > len(texts) {
			end = len(texts)
		}

		batch, err := c.createEmbeddings(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		vectors = append(vectors, batch...)
	}

	return vectors, nil
}

// createEmbeddings 发送一次嵌入请求，带重试
func (c *OpenAIClient) createEmbeddings(ctx context.Context, input []string) ([][]float32, error) {
	maxRetries := c.config.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}

	req := openai.EmbeddingRequest{
		Input: input,
		Model: openai.EmbeddingModel(c.model),
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			// 指数退避
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(1<<attempt) * time.Second):
			}
		}

		resp, err := c.client.CreateEmbeddings(ctx, req)
		if err == nil {
			if len(resp.Data) != len(input) {
				return nil, ErrEmptyResponse
			}
			vectors := make([][]float32, len(resp.Data))
			for i, data := range resp.Data {
				vectors[i] = data.Embedding
			}
			return vectors, nil
		}

		lastErr = err
		if !isRateLimitError(err) {
			return nil, fmt.Errorf("embedding API error: %v", err)
		}
	}

	return nil, fmt.Errorf("%w: %v", ErrRateLimited, lastErr)
}

// isRateLimitError 检查是否为速率限制错误
func isRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "rate_limit") ||
		strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "too many requests")
}
