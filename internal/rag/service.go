package rag

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/fyerfyer/docuchat/internal/cache"
	"github.com/fyerfyer/docuchat/internal/document"
	"github.com/fyerfyer/docuchat/internal/embedding"
	"github.com/fyerfyer/docuchat/internal/llm"
	"github.com/fyerfyer/docuchat/internal/vectordb"
	"github.com/fyerfyer/docuchat/pkg/storage"
)

const (
	// emptyStateAnswer 未上传文档时的固定回答
	emptyStateAnswer = "Please upload documents first to start chatting."

	// openRouterPolicyAnswer OpenRouter数据策略错误的修复指引
	openRouterPolicyAnswer = "**OpenRouter Error**: Your account data policy does not match the model's requirements.\n\n" +
		"Please visit [OpenRouter Settings](https://openrouter.ai/settings/privacy) and enable " +
		"**'Allow model training'** for free models, or choose a paid model."
)

// UploadFile 待摄取的上传文件
type UploadFile struct {
	Name   string
	Reader io.Reader
}

// FileDetail 单个文件的摄取结果
type FileDetail struct {
	Name   string `json:"name"`
	URL    string `json:"url"`
	Chunks int    `json:"chunks"`
}

// IngestResult 一批文件的摄取结果
type IngestResult struct {
	Success bool         `json:"success"`
	Count   int          `json:"count"` // 解析出的文档数(按页计)
	Files   []FileDetail `json:"files"`
	Error   string       `json:"error,omitempty"`
}

// Service RAG问答服务
// 索引整体替换，新批次上传后旧索引直接丢弃
type Service struct {
	storage  storage.Storage
	splitter document.Splitter
	embedder embedding.Client
	resolver llm.Resolver
	cache    cache.Cache
	logger   *logrus.Logger
	index    atomic.Pointer[vectordb.Index]
	topK     int
	baseURL  string
	cacheTTL time.Duration
}

// Option Service配置选项
type Option func(*Service)

// WithTopK 设置检索返回的分块数量
func WithTopK(topK int) Option {
	return func(s *Service) {
		if topK > 0 {
			s.topK = topK
		}
	}
}

// WithBaseURL 设置上传文件访问链接的基础地址
func WithBaseURL(baseURL string) Option {
	return func(s *Service) {
		s.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithCacheTTL 设置问答缓存的过期时间
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *Service) {
		s.cacheTTL = ttl
	}
}

// WithLogger 设置日志记录器
func WithLogger(logger *logrus.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService 创建RAG问答服务
func NewService(
	store storage.Storage,
	splitter document.Splitter,
	embedder embedding.Client,
	resolver llm.Resolver,
	answerCache cache.Cache,
	opts ...Option,
) *Service {
	s := &Service{
		storage:  store,
		splitter: splitter,
		embedder: embedder,
		resolver: resolver,
		cache:    answerCache,
		logger:   logrus.StandardLogger(),
		topK:     4,
		cacheTTL: time.Hour,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ready 返回是否已有可检索的索引
func (s *Service) Ready() bool {
	return s.index.Load() != nil
}

// DocumentCount 返回当前索引内的分块数量
func (s *Service) DocumentCount() int {
	idx := s.index.Load()
	if idx == nil {
		return 0
	}
	return idx.Len()
}

// Ingest 保存并摄取一批上传文件，成功后整体替换索引
// 任一文件解析失败则整批失败，已有索引保持不变
func (s *Service) Ingest(ctx context.Context, files []UploadFile) (*IngestResult, error) {
	var (
		docs    []document.Document
		details []FileDetail
	)

	for _, file := range files {
		info, err := s.storage.Save(file.Reader, file.Name)
		if err != nil {
			return s.fail(fmt.Errorf("Error processing %s: %v", file.Name, err))
		}

		parser, err := document.ParserFactory(info.Path)
		if err != nil {
			if errors.Is(err, document.ErrUnsupportedType) {
				s.logger.WithField("file", file.Name).Warn("skipping unsupported file type")
				continue
			}
			return s.fail(fmt.Errorf("Error processing %s: %v", file.Name, err))
		}

		parsed, err := parser.Parse(info.Path)
		if err != nil {
			return s.fail(fmt.Errorf("Error processing %s: %v", file.Name, err))
		}

		for i := range parsed {
			parsed[i].FileName = info.Name
		}
		docs = append(docs, parsed...)
		details = append(details, FileDetail{
			Name: info.Name,
			URL:  s.fileURL(info.Name),
		})
	}

	if len(docs) == 0 {
		return s.fail(errors.New("No valid documents found to process."))
	}

	chunks, err := s.splitDocuments(docs)
	if err != nil {
		return s.fail(fmt.Errorf("Failed to create vector store: %v", err))
	}
	if len(chunks) == 0 {
		return s.fail(errors.New("Documents were empty after processing."))
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}

	vectors, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return s.fail(fmt.Errorf("Failed to create vector store: %v", err))
	}
	for i := range chunks {
		chunks[i].Vector = vectors[i]
	}

	idx, err := vectordb.NewIndex(chunks, vectordb.Cosine)
	if err != nil {
		return s.fail(fmt.Errorf("Failed to create vector store: %v", err))
	}

	// 新索引就绪后整体替换，并作废旧批次的问答缓存
	s.index.Store(idx)
	if err := s.cache.Clear(); err != nil {
		s.logger.WithError(err).Warn("failed to clear answer cache")
	}

	// 按文件统计分块数
	perFile := make(map[string]int)
	for _, chunk := range chunks {
		perFile[chunk.FileName]++
	}
	for i := range details {
		details[i].Chunks = perFile[details[i].Name]
	}

	s.logger.WithFields(logrus.Fields{
		"documents": len(docs),
		"chunks":    len(chunks),
		"files":     len(details),
	}).Info("documents ingested")

	return &IngestResult{
		Success: true,
		Count:   len(docs),
		Files:   details,
	}, nil
}

// splitDocuments 逐文档分块并携带来源元数据
func (s *Service) splitDocuments(docs []document.Document) ([]vectordb.Document, error) {
	var chunks []vectordb.Document
	for _, doc := range docs {
		pieces, err := s.splitter.Split(doc.Content)
		if err != nil {
			return nil, err
		}
		for _, piece := range pieces {
			chunks = append(chunks, vectordb.Document{
				ID:       uuid.New().String(),
				FileName: doc.FileName,
				Page:     doc.Page,
				Position: piece.Index,
				Text:     piece.Text,
			})
		}
	}
	return chunks, nil
}

// Query 回答一个问题，所有失败路径均以回答文本形式返回
func (s *Service) Query(ctx context.Context, question, model string, history []Turn) string {
	idx := s.index.Load()
	if idx == nil {
		return emptyStateAnswer
	}

	// 每次查询重新解析模型，凭证变化即时生效
	client, err := s.resolver.Resolve(model)
	if err != nil {
		return err.Error()
	}

	standalone, err := Reformulate(ctx, client, question, history)
	if err != nil {
		return s.errorAnswer(err)
	}

	cacheKey := cache.GenerateCacheKey("qa", model, standalone)
	if cached, found, err := s.cache.Get(cacheKey); err == nil && found {
		s.logger.WithField("model", model).Debug("answer cache hit")
		return cached
	}

	vector, err := s.embedder.Embed(ctx, standalone)
	if err != nil {
		return s.errorAnswer(err)
	}

	results, err := idx.Search(vector, s.topK)
	if err != nil {
		return s.errorAnswer(err)
	}

	contexts := make([]string, len(results))
	for i, result := range results {
		contexts[i] = result.Document.Text
	}

	answer, err := Synthesize(ctx, client, question, contexts, history)
	if err != nil {
		return s.errorAnswer(err)
	}

	if err := s.cache.Set(cacheKey, answer, s.cacheTTL); err != nil {
		s.logger.WithError(err).Warn("failed to cache answer")
	}
	return answer
}

// Clear 丢弃当前索引并清空问答缓存，可重复调用
func (s *Service) Clear() {
	s.index.Store(nil)
	if err := s.cache.Clear(); err != nil {
		s.logger.WithError(err).Warn("failed to clear answer cache")
	}
}

// fail 构造失败结果
func (s *Service) fail(err error) (*IngestResult, error) {
	s.logger.WithError(err).Error("document ingestion failed")
	return &IngestResult{
		Success: false,
		Error:   err.Error(),
	}, err
}

// fileURL 构造上传文件的访问链接
func (s *Service) fileURL(name string) string {
	return s.baseURL + "/uploads/" + name
}

// errorAnswer 将查询阶段的错误转换为回答文本
func (s *Service) errorAnswer(err error) string {
	msg := err.Error()
	if strings.Contains(msg, "404") && strings.Contains(msg, "data policy") {
		return openRouterPolicyAnswer
	}
	s.logger.WithError(err).Error("failed to generate answer")
	return "Error generating answer: " + msg
}
