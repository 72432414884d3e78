package document

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// PDFParser PDF文档解析器
type PDFParser struct{}

// NewPDFParser 创建一个新的PDF解析器
func NewPDFParser() Parser {
	return &PDFParser{}
}

// pdfcpu提取的内容文件名形如 xxx_Content_page_3.txt
var pageNumberPattern = regexp.MustCompile(`page_(\d+)`)

// Parse 解析PDF文件并提取文本内容
// 每个逻辑页产生一个Document，按页码顺序返回
func (p *PDFParser) Parse(filePath string) ([]Document, error) {
	// 创建临时目录用于存放提取的文本
	tmpDir, err := os.MkdirTemp("", "pdfcpu_extract_")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	// 使用默认配置
	conf := model.NewDefaultConfiguration()

	// 提取文本到临时目录，每页一个文件
	if err := api.ExtractContentFile(filePath, tmpDir, nil, conf); err != nil {
		return nil, fmt.Errorf("failed to extract text from PDF: %v", err)
	}

	entries, err := os.ReadDir(tmpDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read extracted text dir: %v", err)
	}

	type pageText struct {
		page int
		text string
	}

	fileName := filepath.Base(filePath)
	var pages []pageText

	for _, entry := range entries {
		if !strings.HasSuffix(entry.Name(), ".txt") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(tmpDir, entry.Name()))
		if err != nil {
			continue
		}
		text := strings.TrimSpace(string(data))
		if text == "" {
			continue
		}
		pages = append(pages, pageText{
			page: parsePageNumber(entry.Name()),
			text: text,
		})
	}

	if len(pages) == 0 {
		return nil, fmt.Errorf("no text content found in PDF: %s", fileName)
	}

	// 按页码排序，保持原文档顺序
	sort.Slice(pages, func(i, j int) bool {
		return pages[i].page < pages[j].page
	})

	docs := make([]Document, len(pages))
	for i, pt := range pages {
		docs[i] = Document{
			Content:  pt.text,
			FileName: fileName,
			Page:     pt.page,
		}
	}

	return docs, nil
}

// parsePageNumber 从提取文件名中解析页码，解析失败返回0
func parsePageNumber(name string) int {
	match := pageNumberPattern.FindStringSubmatch(name)
	if len(match) < 2 {
		return 0
	}
	page, err := strconv.Atoi(match[1])
	if err != nil {
		return 0
	}
	return page
}
