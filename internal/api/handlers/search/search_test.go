package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	searchService "recipe-search/internal/core/search"
	"recipe-search/internal/infrastructure/config"
	"recipe-search/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLexical struct{ hits []searchService.Hit }

func (s *stubLexical) Search(ctx context.Context, text string, limit int) ([]searchService.Hit, error) {
	return s.hits, nil
}

type stubSemantic struct{}

func (s *stubSemantic) Search(ctx context.Context, embedding []float32, limit int) ([]searchService.Hit, error) {
	return nil, nil
}

type stubEmbedder struct{}

func (s *stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return []float32{0.1}, nil
}

func testRouter(svc *searchService.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if svc != nil {
			c.Set("search_service", svc)
		}
		c.Next()
	})
	r.POST("/api/v1/search", HandleSearch)
	r.POST("/api/v1/search/interpret", HandleInterpret)
	return r
}

func testService() *searchService.Service {
	cfg := &config.Config{
		Search: config.SearchConfig{
			LexicalWeight:  0.3,
			SemanticWeight: 0.7,
			RRFK:           60,
			RetrieveLimit:  50,
			MaxResults:     20,
			MinCandidates:  1,
			Timeout:        5 * time.Second,
		},
	}
	lex := &stubLexical{hits: []searchService.Hit{
		{Recipe: common.Recipe{ID: "1", Title: "Paneer Tikka", Ingredients: []string{"paneer"}}},
	}}
	retriever := searchService.NewRetriever(lex, &stubSemantic{}, &stubEmbedder{}, cfg.Search.RetrieveLimit)
	return searchService.NewService(cfg, nil, retriever, nil)
}

func TestHandleSearch_OK(t *testing.T) {
	router := testRouter(testService())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/search", strings.NewReader(`{"text":"paneer"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp searchService.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Count)
	assert.Equal(t, "en", resp.DetectedLanguage)
}

func TestHandleSearch_MissingText(t *testing.T) {
	router := testRouter(testService())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/search", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleSearch_BlankTextIsEmptyQuery(t *testing.T) {
	router := testRouter(testService())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/search", strings.NewReader(`{"text":"   "}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp common.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, common.ErrCodeEmptyQuery, resp.Code)
}

func TestHandleSearch_ServiceMissing(t *testing.T) {
	router := testRouter(nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/search", strings.NewReader(`{"text":"paneer"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHandleInterpret_OK(t *testing.T) {
	router := testRouter(testService())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/search/interpret", strings.NewReader(`{"text":"jain sabzi without onion"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp searchService.InterpretResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "rules", resp.Source)
	assert.Equal(t, []string{"Jain"}, resp.Constraints.Diet)
}
