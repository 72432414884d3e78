package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestRouter 创建凭证可控的路由器
func newTestRouter(env map[string]string) *Router {
	return NewRouter(WithLookupEnv(func(key string) string {
		return env[key]
	}))
}

// TestRouterResolve 测试模型标识到供应商的路由
func TestRouterResolve(t *testing.T) {
	env := map[string]string{
		"OPENAI_API_KEY":     "sk-openai",
		"GOOGLE_API_KEY":     "sk-google",
		"ANTHROPIC_API_KEY":  "sk-anthropic",
		"GROQ_API_KEY":       "sk-groq",
		"XAI_API_KEY":        "sk-xai",
		"DEEPSEEK_API_KEY":   "sk-deepseek",
		"DASHSCOPE_API_KEY":  "sk-dashscope",
		"OPENROUTER_API_KEY": "sk-openrouter",
	}
	router := newTestRouter(env)

	t.Run("gpt prefix routes to openai", func(t *testing.T) {
		client, err := router.Resolve("gpt-4o")
		require.NoError(t, err)
		assert.IsType(t, &OpenAICompatClient{}, client)
		assert.Equal(t, "gpt-4o", client.Name())
	})

	t.Run("gemini prefix routes to google", func(t *testing.T) {
		client, err := router.Resolve("gemini-1.5-pro")
		require.NoError(t, err)
		assert.IsType(t, &GeminiClient{}, client)
		assert.Equal(t, "gemini-1.5-pro", client.Name())
	})

	t.Run("claude prefix routes to anthropic", func(t *testing.T) {
		client, err := router.Resolve("claude-3-5-sonnet")
		require.NoError(t, err)
		assert.IsType(t, &AnthropicClient{}, client)
	})

	t.Run("llama and mixtral route to groq", func(t *testing.T) {
		for _, model := range []string{"llama-3.1-70b", "mixtral-8x7b"} {
			client, err := router.Resolve(model)
			require.NoError(t, err)
			assert.IsType(t, &OpenAICompatClient{}, client)
		}
	})

	t.Run("grok-beta is exact match only", func(t *testing.T) {
		client, err := router.Resolve("grok-beta")
		require.NoError(t, err)
		assert.NotNil(t, client)

		_, err = router.Resolve("grok-2")
		assert.Error(t, err)
		assert.Equal(t, "Unsupported model: grok-2", err.Error())
	})

	t.Run("deepseek-chat is exact match only", func(t *testing.T) {
		_, err := router.Resolve("deepseek-chat")
		assert.NoError(t, err)

		_, err = router.Resolve("deepseek-coder")
		assert.Error(t, err)
	})

	t.Run("qwen prefix routes to dashscope", func(t *testing.T) {
		_, err := router.Resolve("qwen-max")
		assert.NoError(t, err)
	})

	t.Run("openrouter prefix is stripped", func(t *testing.T) {
		client, err := router.Resolve("openrouter/meta-llama/llama-3.1-8b-instruct:free")
		require.NoError(t, err)
		assert.Equal(t, "meta-llama/llama-3.1-8b-instruct:free", client.Name())
	})

	t.Run("unsupported model", func(t *testing.T) {
		_, err := router.Resolve("palm-2")
		assert.Error(t, err)
		assert.Equal(t, "Unsupported model: palm-2", err.Error())

		var unsupported *UnsupportedModelError
		assert.ErrorAs(t, err, &unsupported)
	})
}

// TestRouterMissingCredentials 测试凭证缺失时的错误信息
func TestRouterMissingCredentials(t *testing.T) {
	router := newTestRouter(map[string]string{})

	cases := []struct {
		model   string
		message string
	}{
		{"gpt-4", "OpenAI API Key is missing."},
		{"gemini-1.5-flash", "Google API Key is missing."},
		{"claude-3-haiku", "Anthropic API Key is missing."},
		{"llama-3.1-8b", "Groq API Key is missing."},
		{"grok-beta", "xAI API Key is missing."},
		{"deepseek-chat", "DeepSeek API Key is missing."},
		{"qwen-turbo", "DashScope API Key is missing."},
		{"openrouter/some/model", "OpenRouter API Key is missing."},
	}

	for _, tc := range cases {
		t.Run(tc.model, func(t *testing.T) {
			_, err := router.Resolve(tc.model)
			require.Error(t, err)
			assert.Equal(t, tc.message, err.Error())

			var missing *MissingCredentialError
			assert.ErrorAs(t, err, &missing)
		})
	}
}

// TestRouterCredentialsReadPerResolve 测试凭证在每次解析时重新读取
func TestRouterCredentialsReadPerResolve(t *testing.T) {
	env := map[string]string{}
	router := newTestRouter(env)

	_, err := router.Resolve("gpt-4")
	assert.Error(t, err)

	// 补充凭证后再次解析应该成功
	env["OPENAI_API_KEY"] = "sk-added-later"
	_, err = router.Resolve("gpt-4")
	assert.NoError(t, err)
}
