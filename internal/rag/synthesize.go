package rag

import (
	"context"
	"fmt"
	"strings"

	"github.com/fyerfyer/docuchat/internal/llm"
)

// Synthesize 基于检索上下文生成回答
// 身份类问题直接返回固定回答，不调用模型
func Synthesize(ctx context.Context, client llm.Client, question string, contexts []string, history []Turn) (string, error) {
	if isIdentityQuestion(question) {
		return IdentityAnswer, nil
	}

	system := fmt.Sprintf(answerPromptTemplate, strings.Join(contexts, "\n\n"))

	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: system})
	messages = append(messages, historyMessages(history)...)
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: question})

	resp, err := client.Chat(ctx, messages)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(resp.Text), nil
}
