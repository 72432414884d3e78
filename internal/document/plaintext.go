package document

import (
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"
)

// PlainTextParser 纯文本解析器
type PlainTextParser struct{}

// NewPlainTextParser 创建一个新的纯文本解析器
func NewPlainTextParser() Parser {
	return &PlainTextParser{}
}

// Parse 解析纯文本文件
// 整个文件作为一个文档单元返回
func (p *PlainTextParser) Parse(filePath string) ([]Document, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read text file: %v", err)
	}

	// 非UTF-8内容视为解码错误，整批次失败由调用方决定
	if !utf8.Valid(content) {
		return nil, fmt.Errorf("text file is not valid UTF-8: %s", filepath.Base(filePath))
	}

	return []Document{{
		Content:  string(content),
		FileName: filepath.Base(filePath),
	}}, nil
}
