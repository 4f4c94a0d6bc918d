package vectorstore

import (
	"context"
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/opsre/trafficmind/internal/embedding"
	"github.com/opsre/trafficmind/internal/model"
)

// fakeEmbedder 返回预置向量, 未登记的文本返回零向量
type fakeEmbedder struct {
	vectors map[string][]float64
	dim     int
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float64, error) {
	if v, ok := f.vectors[text]; ok {
		return v, nil
	}
	return make([]float64, f.dim), nil
}

func (f *fakeEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, 0, len(texts))
	for _, t := range texts {
		v, err := f.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (f *fakeEmbedder) Dimension() int   { return f.dim }
func (f *fakeEmbedder) GetModel() string { return "fake-embedding" }

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.KnowledgeDocument{}))
	return db
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, cosineSimilarity([]float64{1, 0, 0}, []float64{1, 0, 0}), 1e-9)
	assert.InDelta(t, 0.0, cosineSimilarity([]float64{1, 0, 0}, []float64{0, 1, 0}), 1e-9)
	assert.InDelta(t, -1.0, cosineSimilarity([]float64{1, 0}, []float64{-1, 0}), 1e-9)

	// 维度不一致或零向量时返回 0
	assert.Equal(t, 0.0, cosineSimilarity([]float64{1, 0}, []float64{1, 0, 0}))
	assert.Equal(t, 0.0, cosineSimilarity([]float64{0, 0}, []float64{1, 0}))
}

func TestSearchRanking(t *testing.T) {
	db := newTestDB(t)
	embedder := &fakeEmbedder{
		dim: 3,
		vectors: map[string][]float64{
			"地铁运营":  {1, 0, 0},
			"doc-a": {0.9, 0.1, 0},
			"doc-b": {0, 1, 0},
			"doc-c": {0.7, 0.7, 0},
		},
	}
	store := NewStore(db, embedder)
	ctx := context.Background()

	for _, content := range []string{"doc-a", "doc-b", "doc-c"} {
		_, err := store.AddDocument(ctx, &AddDocumentRequest{
			Title:   "title-" + content,
			Content: content,
		})
		require.NoError(t, err)
	}

	docs, err := store.Search(ctx, "地铁运营", 2)
	require.NoError(t, err)
	require.Len(t, docs, 2)

	// 相似度降序: doc-a 最接近查询向量
	assert.Equal(t, "doc-a", docs[0].Content)
	assert.Equal(t, "doc-c", docs[1].Content)
	assert.Greater(t, docs[0].Score, docs[1].Score)
}

func TestSearchTopKExceedsCorpus(t *testing.T) {
	db := newTestDB(t)
	embedder := &fakeEmbedder{
		dim:     3,
		vectors: map[string][]float64{"only": {1, 0, 0}},
	}
	store := NewStore(db, embedder)
	ctx := context.Background()

	_, err := store.AddDocument(ctx, &AddDocumentRequest{Title: "t", Content: "only"})
	require.NoError(t, err)

	docs, err := store.Search(ctx, "only", 10)
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestSearchEmptyStore(t *testing.T) {
	db := newTestDB(t)
	store := NewStore(db, &fakeEmbedder{dim: 3})

	docs, err := store.Search(context.Background(), "任意问题", 5)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestAddDocumentsBatch(t *testing.T) {
	db := newTestDB(t)
	embedder := &fakeEmbedder{
		dim: 3,
		vectors: map[string][]float64{
			"内容一": {1, 0, 0},
			"内容二": {0, 1, 0},
		},
	}
	store := NewStore(db, embedder)
	ctx := context.Background()

	docs, err := store.AddDocuments(ctx, []*AddDocumentRequest{
		{Title: "文档一", Content: "内容一", Category: "SOP"},
		{Title: "文档二", Content: "内容二"},
	})
	require.NoError(t, err)
	require.Len(t, docs, 2)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	// 批量写入的向量可被检索命中
	got, err := store.Search(ctx, "内容二", 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "文档二", got[0].Title)
}

func TestAddDocumentsValidation(t *testing.T) {
	db := newTestDB(t)
	store := NewStore(db, &fakeEmbedder{dim: 3})
	ctx := context.Background()

	// 空列表直接返回
	docs, err := store.AddDocuments(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, docs)

	// 缺标题或缺内容整批拒绝
	_, err = store.AddDocuments(ctx, []*AddDocumentRequest{
		{Title: "有标题", Content: "有内容"},
		{Title: "", Content: "只有内容"},
	})
	require.Error(t, err)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)
}

func TestSearchEmptyQuery(t *testing.T) {
	db := newTestDB(t)
	store := NewStore(db, &fakeEmbedder{dim: 3})

	// 空白查询不触发 embedding, 直接返回空结果
	docs, err := store.Search(context.Background(), "   ", 5)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestSearchSkipsCorruptEmbedding(t *testing.T) {
	db := newTestDB(t)
	embedder := &fakeEmbedder{
		dim: 3,
		vectors: map[string][]float64{
			"good":  {1, 0, 0},
			"query": {1, 0, 0},
		},
	}
	store := NewStore(db, embedder)
	ctx := context.Background()

	_, err := store.AddDocument(ctx, &AddDocumentRequest{Title: "good", Content: "good"})
	require.NoError(t, err)

	// 手工插入一条损坏向量的文档
	bad := &model.KnowledgeDocument{
		Title:     "bad",
		Content:   "bad",
		Embedding: "not-json",
		Enabled:   true,
	}
	require.NoError(t, db.Create(bad).Error)

	docs, err := store.Search(ctx, "query", 5)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "good", docs[0].Content)
}

func TestUpsertDocumentReplacesByTitle(t *testing.T) {
	db := newTestDB(t)
	embedder := &fakeEmbedder{
		dim: 3,
		vectors: map[string][]float64{
			"v1": {1, 0, 0},
			"v2": {0, 1, 0},
		},
	}
	store := NewStore(db, embedder)
	ctx := context.Background()

	first, err := store.UpsertDocument(ctx, &AddDocumentRequest{Title: "同一标题", Content: "v1"})
	require.NoError(t, err)

	second, err := store.UpsertDocument(ctx, &AddDocumentRequest{Title: "同一标题", Content: "v2"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	var stored model.KnowledgeDocument
	require.NoError(t, db.First(&stored, first.ID).Error)
	vec, err := embedding.JSONToVector(stored.Embedding)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1, 0}, vec)
}

func TestEnsureCollectionDimensionCheck(t *testing.T) {
	db := newTestDB(t)
	embedder := &fakeEmbedder{
		dim:     3,
		vectors: map[string][]float64{"doc": {1, 0, 0}},
	}
	store := NewStore(db, embedder)
	ctx := context.Background()

	// 空库时幂等通过
	require.NoError(t, store.EnsureCollection(ctx))
	require.NoError(t, store.EnsureCollection(ctx))

	_, err := store.AddDocument(ctx, &AddDocumentRequest{Title: "doc", Content: "doc"})
	require.NoError(t, err)
	require.NoError(t, store.EnsureCollection(ctx))

	// 换成维度不同的模型后应当立即失败
	store2 := NewStore(db, &fakeEmbedder{dim: 5})
	err = store2.EnsureCollection(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), fmt.Sprintf("expects %d", 5))
}
