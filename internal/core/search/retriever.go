package search

import (
	"context"
	"sync"
	"time"

	"recipe-search/internal/pkg/common"
)

// RetrievalResult 雙路檢索的結果
// Partial 為 true 表示其中一路失敗，另一路的結果仍可使用
type RetrievalResult struct {
	Lexical     []Hit
	Semantic    []Hit
	Partial     bool
	LexicalErr  error
	SemanticErr error
}

// Retriever 雙路併發檢索器：關鍵詞與語意向量同時出發
type Retriever struct {
	lexical  LexicalSearcher
	semantic SemanticSearcher
	embedder Embedder
	limit    int
}

// NewRetriever 創建檢索器，limit 為單一策略的取回上限
func NewRetriever(lexical LexicalSearcher, semantic SemanticSearcher, embedder Embedder, limit int) *Retriever {
	return &Retriever{
		lexical:  lexical,
		semantic: semantic,
		embedder: embedder,
		limit:    limit,
	}
}

// Retrieve 併發執行兩路檢索
// 一路失敗時以另一路結果降級，兩路皆失敗才回傳錯誤
// 語意路徑先向量化再查詢，向量化失敗視同語意檢索失敗
func (r *Retriever) Retrieve(ctx context.Context, lexicalQuery, semanticQuery string) (*RetrievalResult, error) {
	result := &RetrievalResult{}

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		start := time.Now()
		hits, err := r.lexical.Search(ctx, lexicalQuery, r.limit)
		common.LogRetrieval("lexical", len(hits), time.Since(start), err)
		result.Lexical = hits
		result.LexicalErr = err
	}()

	go func() {
		defer wg.Done()
		start := time.Now()
		hits, err := r.semanticSearch(ctx, semanticQuery)
		common.LogRetrieval("semantic", len(hits), time.Since(start), err)
		result.Semantic = hits
		result.SemanticErr = err
	}()

	wg.Wait()

	if result.LexicalErr != nil && result.SemanticErr != nil {
		return nil, common.ErrRetrievalUnavailable
	}
	result.Partial = result.LexicalErr != nil || result.SemanticErr != nil
	return result, nil
}

// semanticSearch 向量化查詢文字後執行向量檢索
func (r *Retriever) semanticSearch(ctx context.Context, text string) ([]Hit, error) {
	embedding, err := r.embedder.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	return r.semantic.Search(ctx, embedding, r.limit)
}

// BroadenLexical 以原始文字重跑關鍵詞檢索，供候選不足時擴大召回
func (r *Retriever) BroadenLexical(ctx context.Context, text string) ([]Hit, error) {
	start := time.Now()
	hits, err := r.lexical.Search(ctx, text, r.limit)
	common.LogRetrieval("lexical_broad", len(hits), time.Since(start), err)
	return hits, err
}
