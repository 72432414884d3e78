package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/fyerfyer/docuchat/api/middleware"
	"github.com/fyerfyer/docuchat/api/model"
	"github.com/fyerfyer/docuchat/internal/rag"
)

// DocumentHandler 文档上传处理器
type DocumentHandler struct {
	service *rag.Service
	logger  *logrus.Logger
}

// NewDocumentHandler 创建文档上传处理器
func NewDocumentHandler(service *rag.Service) *DocumentHandler {
	return &DocumentHandler{
		service: service,
		logger:  middleware.GetLogger(),
	}
}

// Upload 处理文档上传请求
// 接收multipart表单中的files字段，整批摄取后替换索引
func (h *DocumentHandler) Upload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Detail: "invalid multipart form: " + err.Error(),
		})
		return
	}

	fileHeaders := form.File["files"]
	if len(fileHeaders) == 0 {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Detail: "no files provided",
		})
		return
	}

	var uploads []rag.UploadFile
	for _, header := range fileHeaders {
		file, err := header.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, model.ErrorResponse{
				Detail: fmt.Sprintf("Error processing %s: %v", header.Filename, err),
			})
			return
		}
		defer file.Close()

		uploads = append(uploads, rag.UploadFile{
			Name:   header.Filename,
			Reader: file,
		})
	}

	result, err := h.service.Ingest(c.Request.Context(), uploads)
	if err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{
			Detail: result.Error,
		})
		return
	}

	c.JSON(http.StatusOK, model.UploadResponse{
		Message: fmt.Sprintf("Successfully processed %d files", len(result.Files)),
		Files:   result.Files,
	})
}
