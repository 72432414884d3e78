package vectordb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDocs() []Document {
	return []Document{
		{ID: "1", FileName: "a.txt", Text: "east", Vector: []float32{1, 0}},
		{ID: "2", FileName: "a.txt", Text: "north", Vector: []float32{0, 1}},
		{ID: "3", FileName: "b.txt", Text: "northeast", Vector: []float32{1, 1}},
	}
}

// TestNewIndex 测试索引构建
func TestNewIndex(t *testing.T) {
	t.Run("valid documents", func(t *testing.T) {
		idx, err := NewIndex(testDocs(), Cosine)
		assert.NoError(t, err)
		assert.Equal(t, 3, idx.Len())
	})

	t.Run("empty documents", func(t *testing.T) {
		_, err := NewIndex(nil, Cosine)
		assert.ErrorIs(t, err, ErrEmptyIndex)
	})

	t.Run("dimension mismatch", func(t *testing.T) {
		docs := []Document{
			{ID: "1", Vector: []float32{1, 0}},
			{ID: "2", Vector: []float32{1, 0, 0}},
		}
		_, err := NewIndex(docs, Cosine)
		assert.ErrorIs(t, err, ErrDimensionMismatch)
	})
}

// TestIndexSearch 测试相似度检索
func TestIndexSearch(t *testing.T) {
	idx, err := NewIndex(testDocs(), Cosine)
	require.NoError(t, err)

	t.Run("results ordered by similarity", func(t *testing.T) {
		results, err := idx.Search([]float32{1, 0}, 3)
		assert.NoError(t, err)
		require.Len(t, results, 3)

		assert.Equal(t, "1", results[0].Document.ID)
		assert.Equal(t, "3", results[1].Document.ID)
		assert.Equal(t, "2", results[2].Document.ID)

		// 分数应该单调下降
		assert.GreaterOrEqual(t, results[0].Score, results[1].Score)
		assert.GreaterOrEqual(t, results[1].Score, results[2].Score)
	})

	t.Run("topK clamped to index size", func(t *testing.T) {
		results, err := idx.Search([]float32{0, 1}, 10)
		assert.NoError(t, err)
		assert.Len(t, results, 3)
	})

	t.Run("invalid topK", func(t *testing.T) {
		_, err := idx.Search([]float32{1, 0}, 0)
		assert.ErrorIs(t, err, ErrInvalidTopK)
	})

	t.Run("query dimension mismatch", func(t *testing.T) {
		_, err := idx.Search([]float32{1, 0, 0}, 2)
		assert.ErrorIs(t, err, ErrDimensionMismatch)
	})

	t.Run("scale invariance under cosine", func(t *testing.T) {
		small, err := idx.Search([]float32{0.1, 0}, 1)
		require.NoError(t, err)
		large, err := idx.Search([]float32{100, 0}, 1)
		require.NoError(t, err)

		assert.Equal(t, small[0].Document.ID, large[0].Document.ID)
		assert.InDelta(t, small[0].Score, large[0].Score, 1e-6)
	})
}

// TestIndexEuclidean 测试欧氏距离度量
func TestIndexEuclidean(t *testing.T) {
	idx, err := NewIndex(testDocs(), Euclidean)
	require.NoError(t, err)

	results, err := idx.Search([]float32{1, 0}, 1)
	assert.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "1", results[0].Document.ID)
	assert.InDelta(t, 0, results[0].Distance, 1e-6)
}
