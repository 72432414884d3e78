package llm

import "fmt"

// LLMError 大模型调用错误类型
type LLMError struct {
	Code    int    // 错误码
	Message string // 错误消息
}

// Error 实现error接口
func (e LLMError) Error() string {
	return fmt.Sprintf("llm error (code=%d): %s", e.Code, e.Message)
}

// 错误码常量
const (
	ErrCodeInvalidAPIKey  = 1001 // 无效的API密钥
	ErrCodeInvalidRequest = 1002 // 无效的请求
	ErrCodeNetworkError   = 1003 // 网络连接错误
	ErrCodeServerError    = 1004 // 服务器错误
	ErrCodeTimeout        = 1005 // 请求超时
	ErrCodeEmptyResponse  = 1006 // 响应内容为空
)

// NewLLMError 创建新的大模型错误
func NewLLMError(code int, message string) LLMError {
	return LLMError{
		Code:    code,
		Message: message,
	}
}

// UnsupportedModelError 请求了未注册的模型标识
type UnsupportedModelError struct {
	Model string
}

// Error 实现error接口
// 错误文本直接作为回答呈现给用户，保持可读
func (e UnsupportedModelError) Error() string {
	return fmt.Sprintf("Unsupported model: %s", e.Model)
}

// MissingCredentialError 缺少提供商凭证
type MissingCredentialError struct {
	Provider string // 提供商显示名称
	EnvVar   string // 缺失的环境变量名
}

// Error 实现error接口
func (e MissingCredentialError) Error() string {
	return fmt.Sprintf("%s API Key is missing.", e.Provider)
}
