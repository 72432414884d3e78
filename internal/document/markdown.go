package document

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// MarkdownParser Markdown文档解析器
type MarkdownParser struct{}

// NewMarkdownParser 创建新的Markdown解析器
func NewMarkdownParser() Parser {
	return &MarkdownParser{}
}

// Parse 解析Markdown文件并提取文本内容
func (p *MarkdownParser) Parse(filePath string) ([]Document, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read markdown file: %v", err)
	}

	// 创建Markdown解析器
	extensions := parser.CommonExtensions | parser.AutoHeadingIDs
	mdParser := parser.NewWithExtensions(extensions)

	// 解析后渲染为HTML，再从HTML中提取纯文本
	doc := mdParser.Parse(content)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	htmlContent := markdown.Render(doc, renderer)

	plainText := extractTextFromHTML(string(htmlContent))
	if plainText == "" {
		return nil, fmt.Errorf("no text content found in markdown: %s", filepath.Base(filePath))
	}

	return []Document{{
		Content:  plainText,
		FileName: filepath.Base(filePath),
	}}, nil
}

// extractTextFromHTML 从HTML中提取纯文本
// 块级元素转换为段落分隔，其余标签直接移除
func extractTextFromHTML(htmlText string) string {
	replacements := []struct {
		Old string
		New string
	}{
		{"<br>", "\n"},
		{"<br/>", "\n"},
		{"<br />", "\n"},
		{"</p>", "\n\n"},
		{"<li>", "- "},
		{"</li>", "\n"},
		{"</h1>", "\n\n"},
		{"</h2>", "\n\n"},
		{"</h3>", "\n\n"},
		{"</h4>", "\n\n"},
		{"</h5>", "\n\n"},
		{"</h6>", "\n\n"},
	}

	result := htmlText
	for _, r := range replacements {
		result = strings.ReplaceAll(result, r.Old, r.New)
	}

	// 移除所有剩余的HTML标签
	for {
		start := strings.Index(result, "<")
		if start == -1 {
			break
		}
		end := strings.Index(result[start:], ">")
		if end == -1 {
			break
		}
		result = result[:start] + result[start+end+1:]
	}

	return normalizeText(result)
}

// normalizeText 规范化提取后的文本
// 去掉每行首尾空白，压缩连续空行为一个段落分隔
func normalizeText(text string) string {
	lines := strings.Split(text, "\n")
	var builder strings.Builder
	blankRun := 0

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			blankRun++
			continue
		}
		if builder.Len() > 0 {
			if blankRun > 0 {
				builder.WriteString("\n\n")
			} else {
				builder.WriteString("\n")
			}
		}
		builder.WriteString(line)
		blankRun = 0
	}

	return builder.String()
}
