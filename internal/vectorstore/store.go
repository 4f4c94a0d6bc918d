package vectorstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"cnb.cool/zhiqiangwang/pkg/logx"
	"gorm.io/gorm"

	"github.com/opsre/trafficmind/internal/embedding"
	"github.com/opsre/trafficmind/internal/model"
)

// Store 知识库向量存储
// 向量随文档落在 knowledge_base 表中, 检索时在进程内计算相似度
type Store struct {
	db       *gorm.DB
	embedder embedding.Embedder
}

// NewStore 创建向量存储
func NewStore(db *gorm.DB, embedder embedding.Embedder) *Store {
	return &Store{
		db:       db,
		embedder: embedder,
	}
}

// EnsureCollection 确保知识库表存在且向量维度一致
// 幂等: 重复调用不会重建已有数据
func (s *Store) EnsureCollection(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&model.KnowledgeDocument{}); err != nil {
		return fmt.Errorf("failed to migrate knowledge_base: %w", err)
	}

	// 抽查一条已有文档, 维度与当前模型不一致时立即报错,
	// 避免后续检索混入不可比的向量
	var doc model.KnowledgeDocument
	err := s.db.WithContext(ctx).
		Where("embedding != ''").
		First(&doc).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil // 空库, 无需校验
		}
		return fmt.Errorf("failed to inspect knowledge_base: %w", err)
	}

	vector, err := embedding.JSONToVector(doc.Embedding)
	if err != nil {
		return fmt.Errorf("failed to parse stored embedding for doc %d: %w", doc.ID, err)
	}
	if want := s.embedder.Dimension(); len(vector) != want {
		return fmt.Errorf("embedding dimension mismatch: stored=%d, model %s expects %d",
			len(vector), s.embedder.GetModel(), want)
	}

	return nil
}

// AddDocument 添加文档并生成向量
func (s *Store) AddDocument(ctx context.Context, req *AddDocumentRequest) (*model.KnowledgeDocument, error) {
	vector, err := s.embedder.Embed(ctx, req.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to embed document: %w", err)
	}

	embeddingJSON, err := embedding.VectorToJSON(vector)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize embedding: %w", err)
	}

	doc := &model.KnowledgeDocument{
		Title:          req.Title,
		Content:        req.Content,
		Category:       req.Category,
		Embedding:      embeddingJSON,
		EmbeddingModel: s.embedder.GetModel(),
		Enabled:        true,
	}

	if err := s.db.WithContext(ctx).Create(doc).Error; err != nil {
		return nil, fmt.Errorf("failed to save document: %w", err)
	}

	logx.Info("Knowledge document added: id=%d, title=%s", doc.ID, doc.Title)
	return doc, nil
}

// AddDocuments 批量添加文档, 向量一次批量生成
func (s *Store) AddDocuments(ctx context.Context, reqs []*AddDocumentRequest) ([]*model.KnowledgeDocument, error) {
	if len(reqs) == 0 {
		return []*model.KnowledgeDocument{}, nil
	}

	// 1. 校验并收集待嵌入文本
	texts := make([]string, len(reqs))
	for i, req := range reqs {
		if req.Title == "" || req.Content == "" {
			return nil, fmt.Errorf("document %d: title and content are required", i)
		}
		texts[i] = req.Content
	}

	// 2. 批量生成向量
	vectors, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("failed to embed documents: %w", err)
	}
	if len(vectors) != len(reqs) {
		return nil, fmt.Errorf("embedding count mismatch: got %d, want %d", len(vectors), len(reqs))
	}

	// 3. 组装并落库
	docs := make([]*model.KnowledgeDocument, len(reqs))
	for i, req := range reqs {
		embeddingJSON, err := embedding.VectorToJSON(vectors[i])
		if err != nil {
			return nil, fmt.Errorf("failed to serialize embedding: %w", err)
		}
		docs[i] = &model.KnowledgeDocument{
			Title:          req.Title,
			Content:        req.Content,
			Category:       req.Category,
			Embedding:      embeddingJSON,
			EmbeddingModel: s.embedder.GetModel(),
			Enabled:        true,
		}
	}

	if err := s.db.WithContext(ctx).Create(&docs).Error; err != nil {
		return nil, fmt.Errorf("failed to save documents: %w", err)
	}

	logx.Info("Knowledge documents added in batch: count=%d", len(docs))
	return docs, nil
}

// UpsertDocument 按标题写入或更新文档, 重新生成向量
func (s *Store) UpsertDocument(ctx context.Context, req *AddDocumentRequest) (*model.KnowledgeDocument, error) {
	var existing model.KnowledgeDocument
	err := s.db.WithContext(ctx).
		Where("title = ?", req.Title).
		First(&existing).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return s.AddDocument(ctx, req)
		}
		return nil, fmt.Errorf("failed to query document: %w", err)
	}

	vector, err := s.embedder.Embed(ctx, req.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to embed document: %w", err)
	}

	embeddingJSON, err := embedding.VectorToJSON(vector)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize embedding: %w", err)
	}

	existing.Content = req.Content
	existing.Category = req.Category
	existing.Embedding = embeddingJSON
	existing.EmbeddingModel = s.embedder.GetModel()

	if err := s.db.WithContext(ctx).Save(&existing).Error; err != nil {
		return nil, fmt.Errorf("failed to update document: %w", err)
	}

	logx.Info("Knowledge document updated: id=%d, title=%s", existing.ID, existing.Title)
	return &existing, nil
}

// Search 语义检索, 返回按相似度降序的前 topK 个文档
func (s *Store) Search(ctx context.Context, query string, topK int) ([]*Document, error) {
	if strings.TrimSpace(query) == "" {
		return []*Document{}, nil
	}

	// 1. 生成查询向量
	queryVector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to generate query embedding: %w", err)
	}

	// 2. 从数据库加载所有有embedding的文档
	var docs []model.KnowledgeDocument
	if err := s.db.WithContext(ctx).
		Where("enabled = ? AND embedding != ''", true).
		Find(&docs).Error; err != nil {
		return nil, fmt.Errorf("failed to load documents: %w", err)
	}

	if len(docs) == 0 {
		logx.Warn("No documents with embeddings found")
		return []*Document{}, nil
	}

	// 3. 计算相似度并排序
	type scoredDoc struct {
		doc   *model.KnowledgeDocument
		score float64
	}

	var scoredDocs []scoredDoc
	for i := range docs {
		var docVector []float64
		if err := json.Unmarshal([]byte(docs[i].Embedding), &docVector); err != nil {
			logx.Warn("Failed to parse embedding for doc %d: %v", docs[i].ID, err)
			continue
		}

		similarity := cosineSimilarity(queryVector, docVector)
		scoredDocs = append(scoredDocs, scoredDoc{
			doc:   &docs[i],
			score: similarity,
		})
	}

	// 4. 按相似度降序排序
	sort.Slice(scoredDocs, func(i, j int) bool {
		return scoredDocs[i].score > scoredDocs[j].score
	})

	// 5. 取前 topK 个
	limit := topK
	if len(scoredDocs) < limit {
		limit = len(scoredDocs)
	}

	var documents []*Document
	for i := 0; i < limit; i++ {
		doc := scoredDocs[i].doc
		documents = append(documents, &Document{
			ID:       doc.ID,
			Title:    doc.Title,
			Content:  doc.Content,
			Category: doc.Category,
			Score:    scoredDocs[i].score,
		})
	}

	logx.Info("Vector search found %d documents (query embedding dim=%d)", len(documents), len(queryVector))
	return documents, nil
}

// Count 统计启用的文档数量
func (s *Store) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&model.KnowledgeDocument{}).
		Where("enabled = ?", true).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count documents: %w", err)
	}
	return count, nil
}
