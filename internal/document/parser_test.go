package document

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParserFactory 测试解析器工厂按扩展名分派
func TestParserFactory(t *testing.T) {
	t.Run("plain text", func(t *testing.T) {
		parser, err := ParserFactory("doc.txt")
		assert.NoError(t, err)
		assert.IsType(t, &PlainTextParser{}, parser)
	})

	t.Run("markdown", func(t *testing.T) {
		parser, err := ParserFactory("notes.md")
		assert.NoError(t, err)
		assert.IsType(t, &MarkdownParser{}, parser)
	})

	t.Run("pdf", func(t *testing.T) {
		parser, err := ParserFactory("report.pdf")
		assert.NoError(t, err)
		assert.IsType(t, &PDFParser{}, parser)
	})

	t.Run("unsupported extension", func(t *testing.T) {
		_, err := ParserFactory("binary.exe")
		assert.ErrorIs(t, err, ErrUnsupportedType)
	})

	t.Run("no extension", func(t *testing.T) {
		_, err := ParserFactory("README")
		assert.ErrorIs(t, err, ErrUnsupportedType)
	})
}

// TestPlainTextParser 测试纯文本解析
func TestPlainTextParser(t *testing.T) {
	parser := NewPlainTextParser()

	t.Run("valid utf8 file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "sample.txt")
		require.NoError(t, os.WriteFile(path, []byte("你好，这是测试内容。\nsecond line"), 0644))

		docs, err := parser.Parse(path)
		assert.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Equal(t, "你好，这是测试内容。\nsecond line", docs[0].Content)
		assert.Equal(t, "sample.txt", docs[0].FileName)
	})

	t.Run("invalid utf8 fails", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "broken.txt")
		require.NoError(t, os.WriteFile(path, []byte{0xff, 0xfe, 0x41}, 0644))

		_, err := parser.Parse(path)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "broken.txt")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := parser.Parse(filepath.Join(t.TempDir(), "missing.txt"))
		assert.Error(t, err)
	})
}

// TestMarkdownParser 测试Markdown解析
func TestMarkdownParser(t *testing.T) {
	parser := NewMarkdownParser()

	t.Run("strips formatting", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "notes.md")
		content := "# 标题\n\n这是**加粗**的正文，还有[链接](https://example.com)。\n\n- item one\n- item two"
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		docs, err := parser.Parse(path)
		assert.NoError(t, err)
		require.Len(t, docs, 1)

		text := docs[0].Content
		assert.Contains(t, text, "标题")
		assert.Contains(t, text, "加粗")
		assert.Contains(t, text, "item one")
		assert.NotContains(t, text, "**")
		assert.NotContains(t, text, "](")
	})
}
