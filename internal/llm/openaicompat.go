package llm

import (
	"context"
	"math"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAICompatClient 基于OpenAI兼容Chat Completions协议的客户端
// OpenAI本身以及Groq、xAI、DeepSeek、DashScope、OpenRouter等
// 兼容端点都复用该实现，只是BaseURL和凭证不同
type OpenAICompatClient struct {
	client      *openai.Client // OpenAI API客户端
	model       string         // 模型名称
	maxTokens   int            // 最大生成Token数
	temperature float32        // 温度参数
}

// headerTransport 为每个请求附加固定HTTP头
// OpenRouter要求带上HTTP-Referer和X-Title等应用标识头
type headerTransport struct {
	base    http.RoundTripper
	headers map[string]string
}

// RoundTrip 实现http.RoundTripper接口
func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	for key, value := range t.headers {
		req.Header.Set(key, value)
	}
	return t.base.RoundTrip(req)
}

// NewOpenAICompatClient 创建OpenAI兼容客户端
func NewOpenAICompatClient(opts ...Option) (Client, error) {
	cfg := NewConfig(opts...)

	if cfg.APIKey == "" {
		return nil, NewLLMError(ErrCodeInvalidAPIKey, "API key is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	httpClient := &http.Client{Timeout: cfg.Timeout}
	if len(cfg.ExtraHeaders) > 0 {
		httpClient.Transport = &headerTransport{
			base:    http.DefaultTransport,
			headers: cfg.ExtraHeaders,
		}
	}
	clientConfig.HTTPClient = httpClient

	return &OpenAICompatClient{
		client:      openai.NewClientWithConfig(clientConfig),
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
	}, nil
}

// Name 返回模型名称
func (c *OpenAICompatClient) Name() string {
	return c.model
}

// Chat 进行多轮对话
func (c *OpenAICompatClient) Chat(ctx context.Context, messages []Message, options ...ChatOption) (*Response, error) {
	if len(messages) == 0 {
		return nil, NewLLMError(ErrCodeInvalidRequest, "messages cannot be empty")
	}

	opts := applyChatOptions(options)

	maxTokens := c.maxTokens
	if opts.MaxTokens != nil {
		maxTokens = *opts.MaxTokens
	}

	temperature := c.temperature
	if opts.Temperature != nil {
		temperature = *opts.Temperature
	}
	// go-openai对零值温度走omitempty，用最小正数表示确定性采样
	if temperature == 0 {
		temperature = math.SmallestNonzeroFloat32
	}

	chatMessages := make([]openai.ChatCompletionMessage, len(messages))
	for i, msg := range messages {
		chatMessages[i] = openai.ChatCompletionMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		}
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    chatMessages,
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
	if err != nil {
		return nil, NewLLMError(ErrCodeServerError, err.Error())
	}

	if len(resp.Choices) == 0 {
		return nil, NewLLMError(ErrCodeEmptyResponse, "empty response from API")
	}

	return &Response{
		Text:       resp.Choices[0].Message.Content,
		TokenCount: resp.Usage.TotalTokens,
		ModelName:  c.model,
		FinishTime: time.Now(),
	}, nil
}
