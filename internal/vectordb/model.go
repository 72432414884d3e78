package vectordb

import "errors"

var (
	ErrEmptyIndex        = errors.New("index contains no documents")
	ErrDimensionMismatch = errors.New("vector dimension mismatch")
	ErrInvalidTopK       = errors.New("topK must be positive")
)

// DistanceType 向量距离度量类型
type DistanceType int

const (
	Cosine DistanceType = iota // 余弦相似度
	DotProduct                 // 点积
	Euclidean                  // 欧氏距离
)

// Document 带向量的文档分块
type Document struct {
	ID       string    // 唯一标识
	FileName string    // 来源文件名
	Page     int       // 来源页码，非分页格式为0
	Position int       // 分块在全文中的序号
	Text     string    // 分块文本
	Vector   []float32 // 嵌入向量
}

// SearchResult 检索结果
type SearchResult struct {
	Document Document // 命中的文档分块
	Score    float32  // 相似度分数，越大越相似
	Distance float32  // 原始距离
}
