package search

import (
	"context"

	"recipe-search/internal/core/query"
	"recipe-search/internal/pkg/common"
)

// Hit 單一檢索策略回傳的一筆結果
type Hit struct {
	Recipe common.Recipe `json:"recipe"`
	Score  float64       `json:"score"`
}

// LexicalSearcher 關鍵詞檢索介面
type LexicalSearcher interface {
	Search(ctx context.Context, text string, limit int) ([]Hit, error)
}

// SemanticSearcher 語意（向量）檢索介面
type SemanticSearcher interface {
	Search(ctx context.Context, embedding []float32, limit int) ([]Hit, error)
}

// Embedder 查詢向量化介面
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// ScoredCandidate 融合階段的候選食譜
// 排名從 1 起算，0 表示該策略未回傳此候選
type ScoredCandidate struct {
	Recipe       common.Recipe `json:"recipe"`
	LexicalRank  int           `json:"lexical_rank"`
	SemanticRank int           `json:"semantic_rank"`
	FusedScore   float64       `json:"fused_score"`
}

// Result 回應中的一筆結果
type Result struct {
	Recipe common.Recipe `json:"recipe"`
	Score  float64       `json:"score"`
}

// Response 搜尋回應
// ExcludedApplied 為 false 表示排除約束為了保住結果被放寬
// PartialRetrieval 為 true 表示有一側檢索策略失敗，結果來自單一策略
type Response struct {
	Results            []Result                  `json:"results"`
	Count              int                       `json:"count"`
	AppliedConstraints query.ExpandedConstraints `json:"applied_constraints"`
	DetectedLanguage   string                    `json:"detected_language"`
	TranslatedQuery    string                    `json:"translated_query,omitempty"`
	ExcludedApplied    bool                      `json:"excluded_applied"`
	PartialRetrieval   bool                      `json:"partial_retrieval"`
	CacheHit           bool                      `json:"cache_hit"`
	DurationMs         int64                     `json:"duration_ms"`
}

// ConstraintOverrides 請求端直接指定的約束，優先於文字解析結果
type ConstraintOverrides struct {
	Include        []string `json:"include,omitempty"`
	Exclude        []string `json:"exclude,omitempty"`
	Cuisine        []string `json:"cuisine,omitempty"`
	Diet           []string `json:"diet,omitempty"`
	Course         []string `json:"course,omitempty"`
	MaxCookMinutes *int     `json:"max_cook_minutes,omitempty"`
}

// Apply 將請求端指定的約束蓋到解析結果上
func (o *ConstraintOverrides) Apply(c *query.QueryConstraints) {
	if o == nil {
		return
	}
	for _, term := range o.Include {
		c.Include[query.NormalizeTerm(term)] = struct{}{}
	}
	for _, term := range o.Exclude {
		c.Exclude[query.NormalizeTerm(term)] = struct{}{}
	}
	for _, v := range o.Cuisine {
		c.Cuisine[query.NormalizeTerm(v)] = struct{}{}
	}
	for _, v := range o.Diet {
		c.Diet[query.NormalizeTerm(v)] = struct{}{}
	}
	for _, v := range o.Course {
		c.Course[query.NormalizeTerm(v)] = struct{}{}
	}
	if o.MaxCookMinutes != nil {
		v := *o.MaxCookMinutes
		c.MaxCookMinutes = &v
	}
}
