package search

import (
	"strings"

	"recipe-search/internal/core/query"
	"recipe-search/internal/pkg/common"
)

// FilterOptions 過濾行為開關
// ApplyExclude 關閉時跳過排除約束，供零結果時的放寬重跑使用
type FilterOptions struct {
	ApplyExclude bool
}

// Filter 約束過濾器
// 過濾順序固定：排除 → 包含 → 類別 → 時間
type Filter struct{}

// NewFilter 創建約束過濾器
func NewFilter() *Filter {
	return &Filter{}
}

// Apply 依約束過濾候選，保持輸入順序
func (f *Filter) Apply(candidates []ScoredCandidate, ec query.ExpandedConstraints, opts FilterOptions) []ScoredCandidate {
	filtered := make([]ScoredCandidate, 0, len(candidates))
	for _, candidate := range candidates {
		if opts.ApplyExclude && hasExcludedTerm(candidate.Recipe, ec.Exclude) {
			continue
		}
		if !hasAllIncludes(candidate.Recipe, ec.Include) {
			continue
		}
		if !matchesCategories(candidate.Recipe, ec) {
			continue
		}
		if !matchesTime(candidate.Recipe, ec) {
			continue
		}
		filtered = append(filtered, candidate)
	}
	return filtered
}

// hasExcludedTerm 任一排除詞的任一變體出現在標題、食材或做法文字即命中
func hasExcludedTerm(recipe common.Recipe, exclude []query.TermVariants) bool {
	if len(exclude) == 0 {
		return false
	}
	text := recipe.SearchText()
	for _, tv := range exclude {
		for _, variant := range tv.Variants {
			if containsTerm(text, variant) {
				return true
			}
		}
	}
	return false
}

// hasAllIncludes 每個包含詞都要有至少一個變體出現在食譜文字中
func hasAllIncludes(recipe common.Recipe, include []query.TermVariants) bool {
	if len(include) == 0 {
		return true
	}
	text := recipe.SearchText()
	for _, tv := range include {
		matched := false
		for _, variant := range tv.Variants {
			if containsTerm(text, variant) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

// matchesCategories 類別欄位採相等或包含比對，約束內多值為「任一命中」
func matchesCategories(recipe common.Recipe, ec query.ExpandedConstraints) bool {
	if !fieldMatchesAny(recipe.Cuisine, ec.Cuisine) {
		return false
	}
	if !fieldMatchesAny(recipe.Diet, ec.Diet) {
		return false
	}
	if !fieldMatchesAny(recipe.Course, ec.Course) {
		return false
	}
	return true
}

// fieldMatchesAny 約束為空時放行；欄位相等或互相包含即命中
func fieldMatchesAny(field string, wanted []string) bool {
	if len(wanted) == 0 {
		return true
	}
	lowered := strings.ToLower(field)
	for _, w := range wanted {
		target := strings.ToLower(w)
		if lowered == target || strings.Contains(lowered, target) || strings.Contains(target, lowered) && lowered != "" {
			return true
		}
	}
	return false
}

// matchesTime 時間欄位缺值（0）視為未知，不做淘汰
func matchesTime(recipe common.Recipe, ec query.ExpandedConstraints) bool {
	if ec.MaxCookMinutes != nil && recipe.CookMinutes > 0 && recipe.CookMinutes > *ec.MaxCookMinutes {
		return false
	}
	if ec.MaxTotalMinutes != nil && recipe.TotalMinutes > 0 && recipe.TotalMinutes > *ec.MaxTotalMinutes {
		return false
	}
	return true
}

// containsTerm 詞邊界感知的包含比對，避免 "rice" 誤中 "price"
func containsTerm(text, term string) bool {
	if term == "" {
		return false
	}
	idx := 0
	for {
		pos := strings.Index(text[idx:], term)
		if pos < 0 {
			return false
		}
		start := idx + pos
		end := start + len(term)
		beforeOK := start == 0 || isBoundary(text[start-1])
		afterOK := end == len(text) || isBoundary(text[end])
		if beforeOK && afterOK {
			return true
		}
		idx = start + 1
	}
}

// isBoundary ASCII 字母數字以外的位元組視為詞邊界
// 非 ASCII 文字（如天城文）不以空白分詞的情況交由變體表處理
func isBoundary(b byte) bool {
	if b >= 'a' && b <= 'z' {
		return false
	}
	if b >= 'A' && b <= 'Z' {
		return false
	}
	if b >= '0' && b <= '9' {
		return false
	}
	return b < 0x80
}
