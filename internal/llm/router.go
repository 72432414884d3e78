package llm

import (
	"os"
	"strings"
	"time"
)

// providerKind 客户端构造方式
type providerKind int

const (
	kindOpenAICompat providerKind = iota // OpenAI兼容协议
	kindGemini                           // Google原生协议
	kindAnthropic                        // Anthropic原生协议
)

// ProviderRule 模型标识到供应商的路由规则
type ProviderRule struct {
	Name          string            // 供应商名称，用于缺失凭证提示
	Prefixes      []string          // 模型标识前缀匹配
	Exact         []string          // 模型标识精确匹配
	CredentialEnv string            // 凭证环境变量名
	BaseURL       string            // API端点，为空时使用供应商默认值
	Headers       map[string]string // 附加请求头
	StripPrefix   string            // 发送前从模型标识剥离的前缀
	Kind          providerKind      // 客户端类型
}

// matches 判断模型标识是否命中该规则
func (r *ProviderRule) matches(model string) bool {
	for _, exact := range r.Exact {
		if model == exact {
			return true
		}
	}
	for _, prefix := range r.Prefixes {
		if strings.HasPrefix(model, prefix) {
			return true
		}
	}
	return false
}

// defaultRules 供应商路由表，按声明顺序匹配
func defaultRules() []ProviderRule {
	return []ProviderRule{
		{
			Name:          "OpenAI",
			Prefixes:      []string{"gpt"},
			CredentialEnv: "OPENAI_API_KEY",
			Kind:          kindOpenAICompat,
		},
		{
			Name:          "Google",
			Prefixes:      []string{"gemini"},
			CredentialEnv: "GOOGLE_API_KEY",
			Kind:          kindGemini,
		},
		{
			Name:          "Anthropic",
			Prefixes:      []string{"claude"},
			CredentialEnv: "ANTHROPIC_API_KEY",
			Kind:          kindAnthropic,
		},
		{
			Name:          "Groq",
			Prefixes:      []string{"llama", "mixtral"},
			CredentialEnv: "GROQ_API_KEY",
			BaseURL:       "https://api.groq.com/openai/v1",
			Kind:          kindOpenAICompat,
		},
		{
			Name:          "xAI",
			Exact:         []string{"grok-beta"},
			CredentialEnv: "XAI_API_KEY",
			BaseURL:       "https://api.x.ai/v1",
			Kind:          kindOpenAICompat,
		},
		{
			Name:          "DeepSeek",
			Exact:         []string{"deepseek-chat"},
			CredentialEnv: "DEEPSEEK_API_KEY",
			BaseURL:       "https://api.deepseek.com",
			Kind:          kindOpenAICompat,
		},
		{
			Name:          "DashScope",
			Prefixes:      []string{"qwen"},
			CredentialEnv: "DASHSCOPE_API_KEY",
			BaseURL:       "https://dashscope.aliyuncs.com/compatible-mode/v1",
			Kind:          kindOpenAICompat,
		},
		{
			Name:          "OpenRouter",
			Prefixes:      []string{"openrouter/"},
			CredentialEnv: "OPENROUTER_API_KEY",
			BaseURL:       "https://openrouter.ai/api/v1",
			StripPrefix:   "openrouter/",
			Headers: map[string]string{
				"HTTP-Referer": "http://localhost:5174",
				"X-Title":      "DocuChat AI",
			},
			Kind: kindOpenAICompat,
		},
	}
}

// Resolver 将模型标识解析为可用客户端
type Resolver interface {
	Resolve(model string) (Client, error)
}

// Router 基于路由表的模型解析器
type Router struct {
	rules     []ProviderRule
	timeout   time.Duration
	lookupEnv func(string) string // 凭证读取函数，测试时可注入
}

// RouterOption Router配置选项
type RouterOption func(*Router)

// WithRouterTimeout 设置客户端请求超时
func WithRouterTimeout(timeout time.Duration) RouterOption {
	return func(r *Router) {
		r.timeout = timeout
	}
}

// WithLookupEnv 设置凭证读取函数
func WithLookupEnv(lookup func(string) string) RouterOption {
	return func(r *Router) {
		r.lookupEnv = lookup
	}
}

// NewRouter 创建模型路由器
func NewRouter(opts ...RouterOption) *Router {
	r := &Router{
		rules:     defaultRules(),
		timeout:   60 * time.Second,
		lookupEnv: os.Getenv,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve 按路由表解析模型标识，每次调用重新读取凭证
func (r *Router) Resolve(model string) (Client, error) {
	for i := range r.rules {
		rule := &r.rules[i]
		if !rule.matches(model) {
			continue
		}

		apiKey := r.lookupEnv(rule.CredentialEnv)
		if apiKey == "" {
			return nil, &MissingCredentialError{Provider: rule.Name, EnvVar: rule.CredentialEnv}
		}

		sendModel := strings.TrimPrefix(model, rule.StripPrefix)

		opts := []Option{
			WithAPIKey(apiKey),
			WithModel(sendModel),
			WithTimeout(r.timeout),
		}
		if rule.BaseURL != "" {
			opts = append(opts, WithBaseURL(rule.BaseURL))
		}
		if len(rule.Headers) > 0 {
			opts = append(opts, WithExtraHeaders(rule.Headers))
		}

		switch rule.Kind {
		case kindGemini:
			return NewGeminiClient(opts...)
		case kindAnthropic:
			return NewAnthropicClient(opts...)
		default:
			return NewOpenAICompatClient(opts...)
		}
	}

	return nil, &UnsupportedModelError{Model: model}
}
