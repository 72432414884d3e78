package rag

import (
	"context"
	"strings"

	"github.com/fyerfyer/docuchat/internal/llm"
)

// Turn 一轮历史对话
type Turn struct {
	Role    string `json:"role"`    // user或assistant
	Content string `json:"content"` // 消息内容
}

// historyMessages 将历史对话转换为模型消息
func historyMessages(history []Turn) []llm.Message {
	messages := make([]llm.Message, 0, len(history))
	for _, turn := range history {
		role := llm.RoleUser
		if turn.Role == "assistant" {
			role = llm.RoleAssistant
		}
		messages = append(messages, llm.Message{
			Role:    role,
			Content: turn.Content,
		})
	}
	return messages
}

// Reformulate 结合历史对话将追问改写为独立问题
// 历史为空时直接返回原问题，不调用模型
func Reformulate(ctx context.Context, client llm.Client, question string, history []Turn) (string, error) {
	if len(history) == 0 {
		return question, nil
	}

	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: contextualizePrompt})
	messages = append(messages, historyMessages(history)...)
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: question})

	resp, err := client.Chat(ctx, messages)
	if err != nil {
		return "", err
	}

	standalone := strings.TrimSpace(resp.Text)
	if standalone == "" {
		// 模型返回空串时退回原问题
		return question, nil
	}
	return standalone, nil
}
