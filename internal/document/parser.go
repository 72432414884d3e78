package document

import (
	"errors"
	"path/filepath"
	"strings"
)

// ErrUnsupportedType 不支持的文档类型
// 调用方据此判断是跳过该文件还是中断整个批次
var ErrUnsupportedType = errors.New("unsupported document type")

// Document 解析后的文档单元
// PDF按页拆分，每页一个Document；纯文本和Markdown整个文件一个Document
type Document struct {
	Content  string // 文档文本内容
	FileName string // 来源文件名
	Page     int    // 页码（从1开始），非分页格式为0
}

// Parser 文档解析器接口
// 负责将不同格式的文件解析为文档单元列表
type Parser interface {
	// Parse 解析文件，按来源顺序返回文档单元
	Parse(filePath string) ([]Document, error)
}

// ContentType 表示文档的内容类型
type ContentType string

const (
	// PDF 文档类型
	PDF ContentType = "pdf"
	// Markdown 文档类型
	Markdown ContentType = "markdown"
	// PlainText 纯文本类型
	PlainText ContentType = "plaintext"
	// Unknown 未知类型
	Unknown ContentType = "unknown"
)

// ParserFactory 解析器工厂函数，根据文件扩展名创建对应的解析器
// 扩展名大小写不敏感；未知类型返回ErrUnsupportedType
func ParserFactory(filePath string) (Parser, error) {
	switch DetectContentType(filePath) {
	case PDF:
		return NewPDFParser(), nil
	case Markdown:
		return NewMarkdownParser(), nil
	case PlainText:
		return NewPlainTextParser(), nil
	default:
		return nil, ErrUnsupportedType
	}
}

// DetectContentType 根据文件扩展名检测内容类型
func DetectContentType(filePath string) ContentType {
	ext := strings.ToLower(filepath.Ext(filePath))

	switch ext {
	case ".pdf":
		return PDF
	case ".md", ".markdown":
		return Markdown
	case ".txt":
		return PlainText
	default:
		return Unknown
	}
}

// Splitter 文本分段器接口
// 负责将长文本分割成适合向量化的小段
type Splitter interface {
	// Split 将文本分割成段落
	Split(text string) ([]Content, error)
}
