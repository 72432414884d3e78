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

// TestGeminiChat 测试Gemini客户端的请求构造和响应解析
func TestGeminiChat(t *testing.T) {
	var captured geminiRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/gemini-1.5-pro:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))

		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		resp := map[string]interface{}{
			"candidates": []map[string]interface{}{
				{
					"content": map[string]interface{}{
						"role": "model",
						"parts": []map[string]string{
							{"text": "Paris is the capital of France."},
						},
					},
				},
			},
			"usageMetadata": map[string]int{"totalTokenCount": 42},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client, err := NewGeminiClient(
		WithAPIKey("test-key"),
		WithBaseURL(server.URL),
		WithModel("gemini-1.5-pro"),
	)
	require.NoError(t, err)

	messages := []Message{
		{Role: RoleSystem, Content: "You are a helpful assistant."},
		{Role: RoleUser, Content: "Hello"},
		{Role: RoleAssistant, Content: "Hi, how can I help?"},
		{Role: RoleUser, Content: "What is the capital of France?"},
	}

	resp, err := client.Chat(context.Background(), messages)
	require.NoError(t, err)
	assert.Equal(t, "Paris is the capital of France.", resp.Text)
	assert.Equal(t, 42, resp.TokenCount)
	assert.Equal(t, "gemini-1.5-pro", resp.ModelName)

	// system消息进入system_instruction
	require.NotNil(t, captured.SystemInstruction)
	assert.Equal(t, "You are a helpful assistant.", captured.SystemInstruction.Parts[0].Text)

	// 剩余消息按user/model交替映射
	require.Len(t, captured.Contents, 3)
	assert.Equal(t, "user", captured.Contents[0].Role)
	assert.Equal(t, "model", captured.Contents[1].Role)
	assert.Equal(t, "user", captured.Contents[2].Role)
}

// TestGeminiChatError 测试API错误的传递
func TestGeminiChatError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]interface{}{
				"code":    404,
				"message": "model not found",
			},
		})
	}))
	defer server.Close()

	client, err := NewGeminiClient(
		WithAPIKey("test-key"),
		WithBaseURL(server.URL),
		WithModel("gemini-nope"),
	)
	require.NoError(t, err)

	_, err = client.Chat(context.Background(), []Message{{Role: RoleUser, Content: "hi"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
	assert.Contains(t, err.Error(), "model not found")
}

// TestGeminiMissingAPIKey 测试缺失密钥时的构造失败
func TestGeminiMissingAPIKey(t *testing.T) {
	_, err := NewGeminiClient(WithModel("gemini-1.5-pro"))
	assert.Error(t, err)
}
