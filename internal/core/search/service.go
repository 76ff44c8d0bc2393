package search

import (
	"context"
	"fmt"
	"strings"
	"time"

	"recipe-search/internal/core/ai/provider"
	"recipe-search/internal/core/cache"
	"recipe-search/internal/core/query"
	"recipe-search/internal/infrastructure/config"
	"recipe-search/internal/pkg/common"

	"go.uber.org/zap"
)

// Request 搜尋請求
type Request struct {
	Text        string               `json:"text" binding:"required"`
	Lang        string               `json:"lang,omitempty"`
	Constraints *ConstraintOverrides `json:"constraints,omitempty"`
}

// InterpretResponse 查詢解讀回應（除錯與前端預覽用）
type InterpretResponse struct {
	DetectedLanguage   string                    `json:"detected_language"`
	LanguageConfidence float64                   `json:"language_confidence"`
	TranslatedQuery    string                    `json:"translated_query,omitempty"`
	Source             string                    `json:"source"`
	Confidence         float64                   `json:"confidence"`
	Constraints        query.ExpandedConstraints `json:"constraints"`
}

// Service 搜尋服務：解析 → 展開 → 檢索 → 融合 → 過濾 → 回應
type Service struct {
	config      *config.Config
	extractor   *query.Extractor
	expander    *query.Expander
	interpreter provider.QueryInterpreter
	retriever   *Retriever
	fuser       *Fuser
	filter      *Filter
	cache       *cache.CacheManager
}

// NewService 創建搜尋服務
// interpreter 與 cacheManager 允許為 nil（功能關閉時）
func NewService(cfg *config.Config, interpreter provider.QueryInterpreter, retriever *Retriever, cacheManager *cache.CacheManager) *Service {
	lex := query.DefaultLexicon()
	return &Service{
		config:      cfg,
		extractor:   query.NewExtractor(lex),
		expander:    query.NewExpander(lex),
		interpreter: interpreter,
		retriever:   retriever,
		fuser:       NewFuser(cfg.Search.LexicalWeight, cfg.Search.SemanticWeight, int(cfg.Search.RRFK)),
		filter:      NewFilter(),
		cache:       cacheManager,
	}
}

// interpretation 查詢理解階段的產物
type interpretation struct {
	constraints     query.QueryConstraints
	expanded        query.ExpandedConstraints
	lang            string
	langConfidence  float64
	translatedQuery string
	source          string
}

// Search 執行完整的混合搜尋流程
func (s *Service) Search(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, s.config.Search.Timeout)
	defer cancel()

	interp, err := s.understand(ctx, req)
	if err != nil {
		return nil, err
	}

	searchText := interp.translatedQuery
	if searchText == "" {
		searchText = req.Text
	}
	lexicalQuery := buildLexicalQuery(interp.expanded, searchText)

	// 快取查找：鍵由約束指紋與檢索文字共同決定
	cacheKey := common.HashString(fmt.Sprintf("%s|%s|%s", interp.constraints.Fingerprint(), lexicalQuery, searchText))
	if cached := s.lookupCache(ctx, cacheKey); cached != nil {
		cached.CacheHit = true
		cached.DurationMs = time.Since(start).Milliseconds()
		return cached, nil
	}

	// 雙路檢索
	retrieval, err := s.retriever.Retrieve(ctx, lexicalQuery, searchText)
	if err != nil {
		return nil, err
	}

	// 加權 RRF 融合
	fused := s.fuser.Fuse(retrieval.Lexical, retrieval.Semantic)

	// 候選不足時以原始文字擴大關鍵詞召回後重新融合
	if len(fused) < s.config.Search.MinCandidates && lexicalQuery != searchText {
		if broadened, berr := s.retriever.BroadenLexical(ctx, searchText); berr == nil {
			fused = s.fuser.Fuse(broadened, retrieval.Semantic)
		}
	}

	// 約束過濾，零結果時放寬排除約束重過濾
	results := s.filter.Apply(fused, interp.expanded, FilterOptions{ApplyExclude: true})
	excludedApplied := true
	if len(results) == 0 && len(interp.expanded.Exclude) > 0 {
		results = s.filter.Apply(fused, interp.expanded, FilterOptions{ApplyExclude: false})
		if len(results) > 0 {
			excludedApplied = false
			common.LogWarn("排除約束已放寬以保留結果",
				zap.Int("結果數", len(results)),
			)
		} else {
			excludedApplied = true
		}
	}

	if len(results) > s.config.Search.MaxResults {
		results = results[:s.config.Search.MaxResults]
	}

	resp := &Response{
		Results:            toResults(results),
		Count:              len(results),
		AppliedConstraints: interp.expanded,
		DetectedLanguage:   interp.lang,
		TranslatedQuery:    interp.translatedQuery,
		ExcludedApplied:    excludedApplied,
		PartialRetrieval:   retrieval.Partial,
		DurationMs:         time.Since(start).Milliseconds(),
	}

	// 單路降級的結果不進快取，避免固化殘缺結果
	if !retrieval.Partial {
		s.storeCache(ctx, cacheKey, resp)
	}

	return resp, nil
}

// Interpret 只執行查詢理解階段，回傳解讀結果
func (s *Service) Interpret(ctx context.Context, req Request) (*InterpretResponse, error) {
	interp, err := s.understand(ctx, req)
	if err != nil {
		return nil, err
	}
	return &InterpretResponse{
		DetectedLanguage:   interp.lang,
		LanguageConfidence: interp.langConfidence,
		TranslatedQuery:    interp.translatedQuery,
		Source:             interp.source,
		Confidence:         interp.constraints.Confidence,
		Constraints:        interp.expanded,
	}, nil
}

// understand 查詢理解：語言偵測 → 規則解析 → LLM 增強（可降級）→ 覆寫 → 展開
func (s *Service) understand(ctx context.Context, req Request) (*interpretation, error) {
	lang, langConfidence := query.DetectLanguage(req.Text)
	if req.Lang != "" {
		lang = req.Lang
		langConfidence = 1.0
	}

	constraints, err := s.extractor.Extract(req.Text, lang)
	if err != nil {
		return nil, err
	}

	result := &interpretation{
		lang:           lang,
		langConfidence: langConfidence,
		source:         "rules",
	}

	// LLM 增強：子超時內完成才採用，失敗或逾時降級回純規則解析
	if s.config.Interpreter.Enabled && s.interpreter != nil {
		interpCtx, cancel := context.WithTimeout(ctx, s.config.Interpreter.Timeout)
		llm, ierr := s.interpreter.Interpret(interpCtx, req.Text, lang)
		cancel()

		if ierr != nil {
			common.LogWarn("查詢解讀降級為規則解析",
				zap.Error(ierr),
			)
		} else {
			constraints = query.MergeInterpretation(constraints, llm)
			result.translatedQuery = strings.TrimSpace(llm.TranslatedText)
			if llm.DetectedLanguage != "" && req.Lang == "" {
				result.lang = llm.DetectedLanguage
			}
			result.source = "llm+rules"
		}
	}

	req.Constraints.Apply(&constraints)

	result.constraints = constraints
	result.expanded = s.expander.Expand(constraints)
	return result, nil
}

// buildLexicalQuery 有 include 詞時用引號片語精確檢索，否則退回原始文字
func buildLexicalQuery(ec query.ExpandedConstraints, fallback string) string {
	terms := ec.IncludeTerms()
	if len(terms) == 0 {
		return fallback
	}
	quoted := make([]string, 0, len(terms))
	for _, t := range terms {
		quoted = append(quoted, fmt.Sprintf("%q", t))
	}
	return strings.Join(quoted, " ")
}

// toResults 候選轉換為回應條目
func toResults(candidates []ScoredCandidate) []Result {
	results := make([]Result, 0, len(candidates))
	for _, c := range candidates {
		results = append(results, Result{
			Recipe: c.Recipe,
			Score:  c.FusedScore,
		})
	}
	return results
}

// lookupCache 查找快取的回應，任何失敗都靜默視為未命中
func (s *Service) lookupCache(ctx context.Context, key string) *Response {
	if s.cache == nil {
		return nil
	}
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil
	}
	var resp Response
	if err := common.ParseJSON(data, &resp); err != nil {
		common.LogWarn("快取內容無法解析",
			zap.String("鍵", key),
			zap.Error(err),
		)
		return nil
	}
	return &resp
}

// storeCache 寫入快取，失敗只記錄不影響回應
func (s *Service) storeCache(ctx context.Context, key string, resp *Response) {
	if s.cache == nil {
		return
	}
	data, err := common.ToJSON(resp)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, data); err != nil {
		common.LogDebug("快取寫入失敗",
			zap.String("鍵", key),
			zap.Error(err),
		)
	}
}
