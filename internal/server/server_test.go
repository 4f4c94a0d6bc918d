package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/opsre/trafficmind/internal/config"
	"github.com/opsre/trafficmind/internal/database"
	"github.com/opsre/trafficmind/internal/memory"
	"github.com/opsre/trafficmind/internal/model"
	"github.com/opsre/trafficmind/internal/nl2sql"
	"github.com/opsre/trafficmind/internal/rag"
	"github.com/opsre/trafficmind/internal/report"
	"github.com/opsre/trafficmind/internal/vectorstore"
)

// fakeEmbedder 对任意文本返回同一向量, 检索结果顺序由入库顺序决定
type fakeEmbedder struct{}

func (fakeEmbedder) Embed(context.Context, string) ([]float64, error) {
	return []float64{1, 0, 0}, nil
}

func (f fakeEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, len(texts))
	for i := range texts {
		out[i] = []float64{1, 0, 0}
	}
	return out, nil
}

func (fakeEmbedder) Dimension() int   { return 3 }
func (fakeEmbedder) GetModel() string { return "fake-embedding" }

func newTestServer(t *testing.T) *HTTPGinServer {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	require.NoError(t, db.Create(&model.Complaint{
		UniqueKey:     1,
		Agency:        "DOT",
		ComplaintType: "Street Condition",
		Status:        "Open",
		Borough:       "QUEENS",
	}).Error)

	store := vectorstore.NewStore(db, fakeEmbedder{})
	_, err = store.AddDocument(context.Background(), &vectorstore.AddDocumentRequest{
		Title:    "道路结冰处置SOP",
		Content:  "先撒盐除冰，再设置警示标志。",
		Category: "SOP",
	})
	require.NoError(t, err)

	sqlSvc := nl2sql.NewService(db, nl2sql.NewGenerator(nil))
	ragSvc := rag.NewService(store, sqlSvc, nil, nil, rag.Options{})

	cfg := &config.Config{}
	cfg.Server.HTTP.Port = 0

	return NewHTTPGinServer(cfg, ragSvc, store, memory.NewManager(db, nil), report.NewRiskService(db))
}

func doRequest(t *testing.T, s *HTTPGinServer, method, path string, body any) (*httptest.ResponseRecorder, Response) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Engine().ServeHTTP(w, req)

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	w, resp := doRequest(t, s, http.MethodGet, "/api/v1/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 200, resp.Code)
}

func TestAskKnowledgeQuestion(t *testing.T) {
	s := newTestServer(t)
	w, resp := doRequest(t, s, http.MethodPost, "/api/v1/chat/ask", gin.H{
		"question": "什么是道路结冰处置流程？",
	})

	require.Equal(t, http.StatusOK, w.Code)
	data := resp.Data.(map[string]any)
	assert.NotEmpty(t, data["session_id"])

	result := data["result"].(map[string]any)
	assert.Equal(t, true, result["success"])
	assert.Equal(t, "KNOWLEDGE_QA", result["intent"])
	assert.Contains(t, result["answer"], "根据相关信息，")
}

func TestAskEmptyQuestion(t *testing.T) {
	s := newTestServer(t)
	w, _ := doRequest(t, s, http.MethodPost, "/api/v1/chat/ask", gin.H{"question": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAskPersistsHistory(t *testing.T) {
	s := newTestServer(t)
	_, resp := doRequest(t, s, http.MethodPost, "/api/v1/chat/ask", gin.H{
		"question":   "什么是道路结冰处置流程？",
		"session_id": "s1",
	})
	require.Equal(t, 200, resp.Code)

	w, histResp := doRequest(t, s, http.MethodGet, "/api/v1/chat/history?session_id=s1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	history := histResp.Data.([]any)
	require.Len(t, history, 2)
	first := history[0].(map[string]any)
	assert.Equal(t, float64(1), first["chat_type"])
	assert.Equal(t, "什么是道路结冰处置流程？", first["content"])
}

func TestSuggestions(t *testing.T) {
	s := newTestServer(t)
	w, resp := doRequest(t, s, http.MethodGet, "/api/v1/chat/suggestions", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, resp.Data.([]any), 8)
}

func TestKnowledgeSearchAndCount(t *testing.T) {
	s := newTestServer(t)

	w, resp := doRequest(t, s, http.MethodGet, "/api/v1/knowledge/search?q=结冰&top_k=3", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := resp.Data.(map[string]any)
	assert.Equal(t, float64(1), data["total_count"])

	_, countResp := doRequest(t, s, http.MethodGet, "/api/v1/knowledge/count", nil)
	assert.Equal(t, float64(1), countResp.Data.(map[string]any)["count"])
}

func TestKnowledgeSearchMissingQuery(t *testing.T) {
	s := newTestServer(t)
	w, _ := doRequest(t, s, http.MethodGet, "/api/v1/knowledge/search", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestKnowledgeAdd(t *testing.T) {
	s := newTestServer(t)

	w, resp := doRequest(t, s, http.MethodPost, "/api/v1/knowledge/add", gin.H{
		"title":    "暴雪应对手册",
		"content":  "启动除雪作业。",
		"category": "SOP",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "暴雪应对手册", resp.Data.(map[string]any)["title"])
}

func TestRiskReport(t *testing.T) {
	s := newTestServer(t)

	w, resp := doRequest(t, s, http.MethodGet, "/api/v1/report/risk", nil)
	require.Equal(t, http.StatusOK, w.Code)

	data := resp.Data.(map[string]any)
	assert.Contains(t, data["risk_level"], "风险")
	assert.Contains(t, data["sop_reference"], "SOP-PW")
}

func TestRiskReportBadTime(t *testing.T) {
	s := newTestServer(t)
	w, _ := doRequest(t, s, http.MethodGet, "/api/v1/report/risk?time=not-a-time", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
