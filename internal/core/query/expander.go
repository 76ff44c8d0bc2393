package query

import (
	"sort"
)

// TermVariants 一個規範詞與它的全部變體
type TermVariants struct {
	Canonical string   `json:"canonical"`
	Variants  []string `json:"variants"`
}

// ExpandedConstraints 變體展開後的約束
// 形狀同 QueryConstraints，但 include/exclude 的每個條目都是變體集合
type ExpandedConstraints struct {
	Include []TermVariants `json:"include"`
	Exclude []TermVariants `json:"exclude"`
	Cuisine []string       `json:"cuisine"`
	Diet    []string       `json:"diet"`
	Course  []string       `json:"course"`

	MaxCookMinutes  *int `json:"max_cook_minutes,omitempty"`
	MaxTotalMinutes *int `json:"max_total_minutes,omitempty"`
}

// IncludeTerms 回傳 include 規範詞切片（供關鍵詞檢索使用）
func (ec ExpandedConstraints) IncludeTerms() []string {
	terms := make([]string, 0, len(ec.Include))
	for _, tv := range ec.Include {
		terms = append(terms, tv.Canonical)
	}
	return terms
}

// Expander 詞彙展開器：規範化 + 變體展開 + 飲食隱含排除
type Expander struct {
	lex *Lexicon
}

// NewExpander 創建詞彙展開器
func NewExpander(lex *Lexicon) *Expander {
	return &Expander{lex: lex}
}

// Expand 將約束展開為變體集合
// 飲食默認排除（如 Jain → 蔥蒜與根莖類）在此注入；
// 用戶明確 include 的詞永遠優先於隱含排除
func (e *Expander) Expand(c QueryConstraints) ExpandedConstraints {
	includeCanonical := make(map[string]struct{}, len(c.Include))
	for term := range c.Include {
		includeCanonical[e.canonicalize(term)] = struct{}{}
	}

	excludeCanonical := make(map[string]struct{}, len(c.Exclude))
	for term := range c.Exclude {
		excludeCanonical[e.canonicalize(term)] = struct{}{}
	}

	// 飲食隱含排除：明確 include 的詞不加入
	for diet := range c.Diet {
		if display, ok := e.lex.LookupDiet(diet); ok {
			diet = display
		}
		for _, canonical := range e.lex.DietExclusions(diet) {
			if _, explicit := includeCanonical[canonical]; explicit {
				continue
			}
			excludeCanonical[canonical] = struct{}{}
		}
	}

	// 排除仍然優先於包含
	for canonical := range excludeCanonical {
		delete(includeCanonical, canonical)
	}

	ec := ExpandedConstraints{
		Include: e.expandSet(includeCanonical),
		Exclude: e.expandSet(excludeCanonical),
		Cuisine: normalizeCategory(c.Cuisine, e.lex.LookupCuisine),
		Diet:    normalizeCategory(c.Diet, e.lex.LookupDiet),
		Course:  normalizeCategory(c.Course, e.lex.LookupCourse),
	}
	if c.MaxCookMinutes != nil {
		v := *c.MaxCookMinutes
		ec.MaxCookMinutes = &v
	}
	if c.MaxTotalMinutes != nil {
		v := *c.MaxTotalMinutes
		ec.MaxTotalMinutes = &v
	}
	return ec
}

// canonicalize 正規化並查規範詞，未知詞保留自身
func (e *Expander) canonicalize(term string) string {
	if canonical, ok := e.lex.CanonicalFood(term); ok {
		return canonical
	}
	return NormalizeTerm(term)
}

// expandSet 規範詞集合 → 排序後的變體條目
func (e *Expander) expandSet(canonicals map[string]struct{}) []TermVariants {
	out := make([]TermVariants, 0, len(canonicals))
	for canonical := range canonicals {
		out = append(out, TermVariants{
			Canonical: canonical,
			Variants:  e.lex.Variants(canonical),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Canonical < out[j].Canonical })
	return out
}

// normalizeCategory 類別值統一為詞表顯示名並排序
func normalizeCategory(set map[string]struct{}, lookup func(string) (string, bool)) []string {
	seen := make(map[string]struct{}, len(set))
	for v := range set {
		if display, ok := lookup(v); ok {
			v = display
		}
		seen[v] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
