package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/fyerfyer/docuchat/api/middleware"
	"github.com/fyerfyer/docuchat/api/model"
	"github.com/fyerfyer/docuchat/internal/rag"
)

// ChatHandler 问答处理器
type ChatHandler struct {
	service *rag.Service
	logger  *logrus.Logger
}

// NewChatHandler 创建问答处理器
func NewChatHandler(service *rag.Service) *ChatHandler {
	return &ChatHandler{
		service: service,
		logger:  middleware.GetLogger(),
	}
}

// Chat 处理聊天请求
// 查询阶段的失败统一以回答文本返回，HTTP状态码保持200
func (h *ChatHandler) Chat(c *gin.Context) {
	var req model.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Detail: "invalid request: " + err.Error(),
		})
		return
	}

	if req.Model == "" {
		req.Model = model.DefaultModel
	}

	answer := h.service.Query(c.Request.Context(), req.Question, req.Model, req.History)

	c.JSON(http.StatusOK, model.ChatResponse{
		Answer: answer,
	})
}

// Clear 清空索引与问答缓存
func (h *ChatHandler) Clear(c *gin.Context) {
	h.service.Clear()

	c.JSON(http.StatusOK, model.MessageResponse{
		Message: "Conversation and document history cleared",
	})
}

// Health 健康检查
func (h *ChatHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, model.HealthResponse{
		Message:  "RAG Chatbot API is running",
		Status:   "active",
		LLMReady: true,
	})
}
