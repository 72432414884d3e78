package document

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// SplitterConfig 分段器配置
type SplitterConfig struct {
	ChunkSize    int      // 分块大小（按字符数）
	ChunkOverlap int      // 相邻分块的重叠大小（字符数）
	Separators   []string // 优先级从高到低的分隔符列表，空串表示按字符切分
}

// DefaultSplitterConfig 返回默认分段器配置
func DefaultSplitterConfig() SplitterConfig {
	return SplitterConfig{
		ChunkSize:    1000,
		ChunkOverlap: 200,
		Separators:   []string{"\n\n", "\n", " ", ""},
	}
}

// Content 表示分割出的内容段落
type Content struct {
	Text  string // 段落文本内容
	Index int    // 段落在所属文档中的序号
}

// TextSplitter 递归字符分段器
// 依次尝试段落、换行、空格等自然边界，使分块尽量不超过ChunkSize，
// 相邻分块之间保留ChunkOverlap个字符的上下文。
// 同一文本和同一配置下分割结果是确定的。
type TextSplitter struct {
	config SplitterConfig
}

// NewTextSplitter 创建新的文本分段器
func NewTextSplitter(config SplitterConfig) *TextSplitter {
	if len(config.Separators) == 0 {
		config.Separators = DefaultSplitterConfig().Separators
	}
	return &TextSplitter{config: config}
}

// Split 将文本分割成内容段落
func (s *TextSplitter) Split(text string) ([]Content, error) {
	if s.config.ChunkSize <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", s.config.ChunkSize)
	}
	if s.config.ChunkOverlap >= s.config.ChunkSize {
		return nil, fmt.Errorf("chunk overlap (%d) must be smaller than chunk size (%d)",
			s.config.ChunkOverlap, s.config.ChunkSize)
	}

	if strings.TrimSpace(text) == "" {
		return []Content{}, nil
	}

	chunks := s.splitRecursive(text, s.config.Separators)

	contents := make([]Content, 0, len(chunks))
	for _, chunk := range chunks {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			continue
		}
		contents = append(contents, Content{
			Text:  chunk,
			Index: len(contents),
		})
	}

	return contents, nil
}

// splitRecursive 用当前最高优先级的有效分隔符切分文本
// 切出的片段若仍超过ChunkSize，则用更低优先级的分隔符继续切分
func (s *TextSplitter) splitRecursive(text string, separators []string) []string {
	// 选择第一个出现在文本中的分隔符
	separator := separators[len(separators)-1]
	var remaining []string
	for i, sep := range separators {
		if sep == "" {
			separator = sep
			remaining = nil
			break
		}
		if strings.Contains(text, sep) {
			separator = sep
			remaining = separators[i+1:]
			break
		}
	}

	splits := splitWithSeparator(text, separator)

	var final []string
	var pending []string

	for _, piece := range splits {
		if utf8.RuneCountInString(piece) < s.config.ChunkSize {
			pending = append(pending, piece)
			continue
		}

		// 超长片段：先合并已积累的小片段，再递归分解超长片段
		if len(pending) > 0 {
			final = append(final, s.mergeSplits(pending, separator)...)
			pending = nil
		}
		if len(remaining) == 0 {
			final = append(final, piece)
		} else {
			final = append(final, s.splitRecursive(piece, remaining)...)
		}
	}

	if len(pending) > 0 {
		final = append(final, s.mergeSplits(pending, separator)...)
	}

	return final
}

// splitWithSeparator 按分隔符切分，空分隔符时按字符切分
func splitWithSeparator(text, separator string) []string {
	if separator == "" {
		pieces := make([]string, 0, len(text))
		for _, r := range text {
			pieces = append(pieces, string(r))
		}
		return pieces
	}

	parts := strings.Split(text, separator)
	pieces := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			pieces = append(pieces, p)
		}
	}
	return pieces
}

// mergeSplits 将小片段合并成不超过ChunkSize的分块
// 长度均按字符数计算，与字节编码无关
// 开启新分块时从上一个分块尾部保留不超过ChunkOverlap的片段作为重叠
func (s *TextSplitter) mergeSplits(splits []string, separator string) []string {
	sepLen := utf8.RuneCountInString(separator)

	var chunks []string
	var window []string
	total := 0

	flush := func() {
		chunk := strings.TrimSpace(strings.Join(window, separator))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
	}

	for _, piece := range splits {
		pieceLen := utf8.RuneCountInString(piece)

		joined := total + pieceLen
		if len(window) > 0 {
			joined += sepLen
		}

		if joined > s.config.ChunkSize && len(window) > 0 {
			flush()

			// 滑出窗口头部，保留重叠上下文
			for len(window) > 0 && (total > s.config.ChunkOverlap ||
				(total+pieceLen+sepLen > s.config.ChunkSize && total > 0)) {
				total -= utf8.RuneCountInString(window[0])
				if len(window) > 1 {
					total -= sepLen
				}
				window = window[1:]
			}
		}

		window = append(window, piece)
		total += pieceLen
		if len(window) > 1 {
			total += sepLen
		}
	}

	if len(window) > 0 {
		flush()
	}

	return chunks
}
