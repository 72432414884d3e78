package vectordb

import (
	"math"
	"sort"
)

// Index 不可变的内存向量索引
// 一次构建后只读，替换索引通过整体换新实现
type Index struct {
	docs     []Document
	vectors  [][]float32 // Cosine度量下为归一化副本
	dim      int
	distType DistanceType
}

// NewIndex 从文档集合构建索引
// 所有文档向量维度必须一致
func NewIndex(docs []Document, distType DistanceType) (*Index, error) {
	if len(docs) == 0 {
		return nil, ErrEmptyIndex
	}

	dim := len(docs[0].Vector)
	vectors := make([][]float32, len(docs))
	for i, doc := range docs {
		if len(doc.Vector) != dim {
			return nil, ErrDimensionMismatch
		}
		if distType == Cosine {
			vectors[i] = normalize(doc.Vector)
		} else {
			vectors[i] = doc.Vector
		}
	}

	stored := make([]Document, len(docs))
	copy(stored, docs)

	return &Index{
		docs:     stored,
		vectors:  vectors,
		dim:      dim,
		distType: distType,
	}, nil
}

// Len 返回索引内文档数量
func (idx *Index) Len() int {
	return len(idx.docs)
}

// Search 返回与查询向量最相似的topK个文档
func (idx *Index) Search(vector []float32, topK int) ([]SearchResult, error) {
	if topK <= 0 {
		return nil, ErrInvalidTopK
	}
	if len(vector) != idx.dim {
		return nil, ErrDimensionMismatch
	}

	query := vector
	if idx.distType == Cosine {
		query = normalize(vector)
	}

	results := make([]SearchResult, 0, len(idx.docs))
	for i := range idx.docs {
		score, dist := idx.compare(query, idx.vectors[i])
		results = append(results, SearchResult{
			Document: idx.docs[i],
			Score:    score,
			Distance: dist,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if topK > len(results) {
		topK = len(results)
	}
	return results[:topK], nil
}

// compare 计算相似度分数和原始距离
func (idx *Index) compare(a, b []float32) (score, dist float32) {
	switch idx.distType {
	case Euclidean:
		d := euclideanDistance(a, b)
		return 1 / (1 + d), d
	default:
		// Cosine在归一化后等价于点积
		d := dotProduct(a, b)
		return d, d
	}
}

// dotProduct 计算点积
func dotProduct(a, b []float32) float32 {
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// euclideanDistance 计算欧氏距离
func euclideanDistance(a, b []float32) float32 {
	var sum float32
	for i := range a {
		diff := a[i] - b[i]
		sum += diff * diff
	}
	return float32(math.Sqrt(float64(sum)))
}

// normalize 归一化为单位向量，零向量原样返回
func normalize(v []float32) []float32 {
	var sum float32
	for _, x := range v {
		sum += x * x
	}
	if sum == 0 {
		out := make([]float32, len(v))
		copy(out, v)
		return out
	}
	norm := float32(math.Sqrt(float64(sum)))
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = x / norm
	}
	return out
}
