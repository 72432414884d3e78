package api

import (
	"github.com/gin-gonic/gin"

	"github.com/fyerfyer/docuchat/api/handler"
	"github.com/fyerfyer/docuchat/api/middleware"
)

// SetupRouter 设置API路由
// 配置所有的API端点并应用中间件
func SetupRouter(
	docHandler *handler.DocumentHandler,
	chatHandler *handler.ChatHandler,
	uploadsDir string,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	// 应用全局中间件
	router.Use(middleware.SetTraceID())
	router.Use(middleware.Logger())
	router.Use(Cors())

	// 健康检查 - GET /
	router.GET("/", chatHandler.Health)

	// 上传文档 - POST /upload
	router.POST("/upload", docHandler.Upload)

	// 问答 - POST /chat
	router.POST("/chat", chatHandler.Chat)

	// 清空索引与缓存 - POST /clear
	router.POST("/clear", chatHandler.Clear)

	// 上传文件静态访问
	router.Static("/uploads", uploadsDir)

	return router
}

// Cors 跨域资源共享中间件
func Cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Trace-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
