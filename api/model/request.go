package model

import "github.com/fyerfyer/docuchat/internal/rag"

// 默认使用的模型标识
const DefaultModel = "gpt-3.5-turbo"

// ChatRequest 聊天请求
type ChatRequest struct {
	Question string     `json:"question" binding:"required"` // 用户问题
	Model    string     `json:"model"`                       // 模型标识，缺省为gpt-3.5-turbo
	History  []rag.Turn `json:"history"`                     // 历史对话
}
