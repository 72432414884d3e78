package model

import "github.com/fyerfyer/docuchat/internal/rag"

// HealthResponse 健康检查响应
type HealthResponse struct {
	Message  string `json:"message"`
	Status   string `json:"status"`
	LLMReady bool   `json:"llm_ready"`
}

// UploadResponse 上传成功响应
type UploadResponse struct {
	Message string           `json:"message"`
	Files   []rag.FileDetail `json:"files"`
}

// ChatResponse 聊天响应
type ChatResponse struct {
	Answer string `json:"answer"`
}

// MessageResponse 仅含消息的响应
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse 错误响应
type ErrorResponse struct {
	Detail string `json:"detail"`
}
