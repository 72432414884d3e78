package embedding

import "errors"

// 常用错误定义
var (
	// ErrEmptyText 输入文本为空
	ErrEmptyText = errors.New("text cannot be empty")
	// ErrRateLimited 请求频率超限且重试耗尽
	ErrRateLimited = errors.New("embedding API rate limit exceeded")
	// ErrMissingAPIKey 缺少API密钥
	ErrMissingAPIKey = errors.New("embedding API key is required")
	// ErrEmptyResponse API返回空结果
	ErrEmptyResponse = errors.New("empty response from embedding API")
)
