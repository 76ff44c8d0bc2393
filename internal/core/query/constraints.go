package query

import (
	"fmt"
	"sort"
	"strings"

	"recipe-search/internal/pkg/common"
)

// QueryConstraints 從自然語言查詢解析出的結構化約束
// 每個請求建立一次，建立後視為不可變
type QueryConstraints struct {
	Include map[string]struct{} // 必須出現的食材/菜色詞
	Exclude map[string]struct{} // 禁止出現的食材詞
	Cuisine map[string]struct{}
	Diet    map[string]struct{}
	Course  map[string]struct{}

	MaxCookMinutes  *int // nil 表示未限制
	MaxTotalMinutes *int

	Confidence float64 // 解析信心，[0,1]
}

// NewConstraints 建立空的約束集合
func NewConstraints() QueryConstraints {
	return QueryConstraints{
		Include: make(map[string]struct{}),
		Exclude: make(map[string]struct{}),
		Cuisine: make(map[string]struct{}),
		Diet:    make(map[string]struct{}),
		Course:  make(map[string]struct{}),
	}
}

// addTerm 將詞加入集合，空白詞一律忽略
func addTerm(set map[string]struct{}, term string) {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return
	}
	set[term] = struct{}{}
}

// addDisplayTerm 同 addTerm 但保留大小寫，供類別欄位存放詞表顯示名
// （"Jain"、"Gujarati"、"Breakfast"），比對端一律不區分大小寫
func addDisplayTerm(set map[string]struct{}, term string) {
	term = strings.TrimSpace(term)
	if term == "" {
		return
	}
	set[term] = struct{}{}
}

// enforceDisjoint 同一詞同時出現在 include 與 exclude 時，排除優先
func (c *QueryConstraints) enforceDisjoint() {
	for term := range c.Exclude {
		delete(c.Include, term)
	}
}

// IsEmpty 六個類別皆未命中時為真
func (c QueryConstraints) IsEmpty() bool {
	return len(c.Include) == 0 && len(c.Exclude) == 0 &&
		len(c.Cuisine) == 0 && len(c.Diet) == 0 && len(c.Course) == 0 &&
		c.MaxCookMinutes == nil && c.MaxTotalMinutes == nil
}

// SortedKeys 集合的排序後切片（輸出與哈希都要求確定性順序）
func SortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Fingerprint 約束內容的確定性指紋，作為快取鍵的一部分
func (c QueryConstraints) Fingerprint() string {
	var sb strings.Builder
	sb.WriteString("i=")
	sb.WriteString(strings.Join(SortedKeys(c.Include), ","))
	sb.WriteString(";e=")
	sb.WriteString(strings.Join(SortedKeys(c.Exclude), ","))
	sb.WriteString(";c=")
	sb.WriteString(strings.Join(SortedKeys(c.Cuisine), ","))
	sb.WriteString(";d=")
	sb.WriteString(strings.Join(SortedKeys(c.Diet), ","))
	sb.WriteString(";o=")
	sb.WriteString(strings.Join(SortedKeys(c.Course), ","))
	if c.MaxCookMinutes != nil {
		sb.WriteString(fmt.Sprintf(";t=%d", *c.MaxCookMinutes))
	}
	if c.MaxTotalMinutes != nil {
		sb.WriteString(fmt.Sprintf(";tt=%d", *c.MaxTotalMinutes))
	}
	return common.HashString(sb.String())
}

// Interpretation 外部翻譯/LLM 協作者回傳的結構化解讀
// 任一欄位缺席代表「沒有意見」，而不是空值或否定
type Interpretation struct {
	TranslatedText   string   `json:"translated_text,omitempty"`
	DetectedLanguage string   `json:"detected_language,omitempty"`
	Include          []string `json:"include,omitempty"`
	Exclude          []string `json:"exclude,omitempty"`
	Diet             []string `json:"diet,omitempty"`
	Cuisine          []string `json:"cuisine,omitempty"`
	Course           []string `json:"course,omitempty"`
	MaxCookMinutes   *int     `json:"max_cook_minutes,omitempty"`
	MaxTotalMinutes  *int     `json:"max_total_minutes,omitempty"`
	Confidence       float64  `json:"confidence,omitempty"`
}

// MergeInterpretation 將 LLM 解讀與規則解析結果合併
// 集合欄位取聯集；純量欄位衝突時，LLM 的信心高於規則解析才採用 LLM 值
func MergeInterpretation(rule QueryConstraints, interp *Interpretation) QueryConstraints {
	if interp == nil {
		return rule
	}

	merged := NewConstraints()
	for k := range rule.Include {
		merged.Include[k] = struct{}{}
	}
	for k := range rule.Exclude {
		merged.Exclude[k] = struct{}{}
	}
	for k := range rule.Cuisine {
		merged.Cuisine[k] = struct{}{}
	}
	for k := range rule.Diet {
		merged.Diet[k] = struct{}{}
	}
	for k := range rule.Course {
		merged.Course[k] = struct{}{}
	}
	merged.MaxCookMinutes = rule.MaxCookMinutes
	merged.MaxTotalMinutes = rule.MaxTotalMinutes
	merged.Confidence = rule.Confidence

	for _, t := range interp.Include {
		addTerm(merged.Include, t)
	}
	for _, t := range interp.Exclude {
		addTerm(merged.Exclude, t)
	}
	for _, t := range interp.Cuisine {
		addDisplayTerm(merged.Cuisine, t)
	}
	for _, t := range interp.Diet {
		addDisplayTerm(merged.Diet, t)
	}
	for _, t := range interp.Course {
		addDisplayTerm(merged.Course, t)
	}

	// 純量欄位：雙方都有值才算衝突，信心高者勝；單方有值直接採用
	if interp.MaxCookMinutes != nil {
		if merged.MaxCookMinutes == nil || interp.Confidence > rule.Confidence {
			v := *interp.MaxCookMinutes
			merged.MaxCookMinutes = &v
		}
	}
	if interp.MaxTotalMinutes != nil {
		if merged.MaxTotalMinutes == nil || interp.Confidence > rule.Confidence {
			v := *interp.MaxTotalMinutes
			merged.MaxTotalMinutes = &v
		}
	}

	if interp.Confidence > merged.Confidence {
		merged.Confidence = interp.Confidence
	}
	if merged.Confidence > 1 {
		merged.Confidence = 1
	}
	if merged.Confidence < 0 {
		merged.Confidence = 0
	}

	merged.enforceDisjoint()
	return merged
}
