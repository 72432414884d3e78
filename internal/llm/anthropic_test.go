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

// TestAnthropicChat 测试Anthropic客户端的请求构造和响应解析
func TestAnthropicChat(t *testing.T) {
	var captured anthropicRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))

		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		resp := map[string]interface{}{
			"content": []map[string]string{
				{"type": "text", "text": "The answer is 4."},
			},
			"usage": map[string]int{
				"input_tokens":  10,
				"output_tokens": 5,
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client, err := NewAnthropicClient(
		WithAPIKey("test-key"),
		WithBaseURL(server.URL),
		WithModel("claude-3-5-sonnet"),
	)
	require.NoError(t, err)

	messages := []Message{
		{Role: RoleSystem, Content: "Answer briefly."},
		{Role: RoleUser, Content: "What is 2+2?"},
	}

	resp, err := client.Chat(context.Background(), messages)
	require.NoError(t, err)
	assert.Equal(t, "The answer is 4.", resp.Text)
	assert.Equal(t, 15, resp.TokenCount)

	// system消息从消息列表提出，单独传递
	assert.Equal(t, "Answer briefly.", captured.System)
	require.Len(t, captured.Messages, 1)
	assert.Equal(t, "user", captured.Messages[0].Role)

	// max_tokens是必填字段
	assert.Greater(t, captured.MaxTokens, 0)
}

// TestAnthropicChatError 测试API错误的传递
func TestAnthropicChatError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]string{
				"type":    "invalid_request_error",
				"message": "max_tokens is required",
			},
		})
	}))
	defer server.Close()

	client, err := NewAnthropicClient(
		WithAPIKey("test-key"),
		WithBaseURL(server.URL),
		WithModel("claude-3-haiku"),
	)
	require.NoError(t, err)

	_, err = client.Chat(context.Background(), []Message{{Role: RoleUser, Content: "hi"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_tokens is required")
}

// TestAnthropicOnlySystemMessage 测试仅有system消息时的校验
func TestAnthropicOnlySystemMessage(t *testing.T) {
	client, err := NewAnthropicClient(
		WithAPIKey("test-key"),
		WithModel("claude-3-haiku"),
	)
	require.NoError(t, err)

	_, err = client.Chat(context.Background(), []Message{{Role: RoleSystem, Content: "only system"}})
	assert.Error(t, err)
}
