package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestOpenAICompatChat 测试OpenAI兼容客户端的请求构造
func TestOpenAICompatChat(t *testing.T) {
	var captured map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		// OpenRouter要求的附加请求头
		assert.Equal(t, "http://localhost:5174", r.Header.Get("HTTP-Referer"))
		assert.Equal(t, "DocuChat AI", r.Header.Get("X-Title"))

		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		resp := map[string]interface{}{
			"id":     "chatcmpl-1",
			"object": "chat.completion",
			"model":  "test-model",
			"choices": []map[string]interface{}{
				{
					"index": 0,
					"message": map[string]string{
						"role":    "assistant",
						"content": "hello back",
					},
					"finish_reason": "stop",
				},
			},
			"usage": map[string]int{"total_tokens": 7},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client, err := NewOpenAICompatClient(
		WithAPIKey("test-key"),
		WithBaseURL(server.URL),
		WithModel("test-model"),
		WithExtraHeaders(map[string]string{
			"HTTP-Referer": "http://localhost:5174",
			"X-Title":      "DocuChat AI",
		}),
	)
	require.NoError(t, err)

	resp, err := client.Chat(context.Background(), []Message{{Role: RoleUser, Content: "hello"}})
	require.NoError(t, err)
	assert.Equal(t, "hello back", resp.Text)
	assert.Equal(t, 7, resp.TokenCount)

	// 温度为0时请求体中仍然携带temperature字段，保证确定性采样
	temp, ok := captured["temperature"].(float64)
	assert.True(t, ok, "temperature字段应该出现在请求体中")
	assert.Less(t, temp, 1e-6)
}

// TestOpenAICompatMissingAPIKey 测试缺失密钥时的构造失败
func TestOpenAICompatMissingAPIKey(t *testing.T) {
	_, err := NewOpenAICompatClient(WithModel("gpt-4"))
	assert.Error(t, err)
}
