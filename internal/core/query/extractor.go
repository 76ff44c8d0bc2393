package query

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"recipe-search/internal/pkg/common"
)

// 排除窗口：否定標記後最多掃描的詞數
const negationWindow = 3

// 信心分母：六個約束類別（include/exclude/cuisine/diet/course/time）
const categoryCount = 6

// 否定標記（單詞與雙詞，含常見印度語轉寫）
var (
	negationMarkers = map[string]struct{}{
		"without":   {},
		"no":        {},
		"except":    {},
		"excluding": {},
		"bina":      {},
		"बिना":      {},
		"illamal":   {},
		"chhodke":   {},
		"nahi":      {},
	}
	negationMarkerPairs = [][2]string{
		{"ke", "bina"},
	}
)

// 時間片語：先匹配「N 小時（M 分鐘）」再匹配「N 分鐘」
var (
	hourPattern   = regexp.MustCompile(`(\d+)\s*(?:hours?|hrs?|hr)\b(?:\s*(?:and\s+)?(\d+)\s*(?:minutes?|mins?|min)\b)?`)
	minutePattern = regexp.MustCompile(`(\d+)\s*(?:minutes?|mins?|min)\b`)
	totalPattern  = regexp.MustCompile(`total\s*(?:cooking\s*)?time`)
)

// Extractor 規則式約束解析器
// 由一組互相獨立的規則串聯構成，每條規則只寫入約束物件的不相交欄位
type Extractor struct {
	lex *Lexicon
}

// NewExtractor 創建約束解析器
func NewExtractor(lex *Lexicon) *Extractor {
	return &Extractor{lex: lex}
}

// parseState 單次解析的共享狀態
type parseState struct {
	raw      string
	tokens   []string
	consumed []bool // 已被某條規則取用的詞
	c        *QueryConstraints
}

// extractionRule 一條獨立的解析規則
type extractionRule func(*Extractor, *parseState)

// 規則按固定順序執行：排除 → 類別 → 包含 → 時間
// 排除規則先跑，否定窗口內的詞才不會被誤認為包含詞
var extractionRules = []extractionRule{
	(*Extractor).applyExcludeRule,
	(*Extractor).applyCategoricalRule,
	(*Extractor).applyIncludeRule,
	(*Extractor).applyTimeRule,
}

// Extract 將查詢文字解析為結構化約束
// 除了空白輸入之外不會失敗；完全無法匹配時回傳空約束（信心 0）
func (e *Extractor) Extract(text string, lang string) (QueryConstraints, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return QueryConstraints{}, common.ErrEmptyQuery
	}

	state := &parseState{
		raw:    strings.ToLower(trimmed),
		tokens: tokenize(trimmed),
	}
	state.consumed = make([]bool, len(state.tokens))
	constraints := NewConstraints()
	state.c = &constraints

	for _, rule := range extractionRules {
		rule(e, state)
	}

	constraints.enforceDisjoint()
	constraints.Confidence = e.scoreConfidence(constraints)
	return constraints, nil
}

// tokenize 小寫化並以非字母數字字符切詞
// 組合記號（天城文母音記號、halant 等）不是切詞邊界，否則印度語詞會被拆碎
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.IsMark(r)
	})
}

// applyExcludeRule 掃描否定標記，在其後的名詞窗口內捕捉食材片語
// 窗口內的功能詞（"any"、"the" 等填充詞）跳過，不會阻斷否定
func (e *Extractor) applyExcludeRule(state *parseState) {
	tokens := state.tokens
	for i := 0; i < len(tokens); i++ {
		markerLen := e.matchNegationMarker(tokens, i)
		if markerLen == 0 {
			continue
		}
		for j := i; j < i+markerLen && j < len(tokens); j++ {
			state.consumed[j] = true
		}

		// 窗口起點：否定標記後第一個非功能詞
		start := i + markerLen
		limit := i + markerLen + negationWindow
		if limit > len(tokens) {
			limit = len(tokens)
		}
		for start < limit && !state.consumed[start] && e.lex.IsStopword(tokens[start]) {
			start++
		}
		if start >= limit || state.consumed[start] {
			continue
		}

		captured, width := e.captureFoodPhrase(state, start, limit-start)
		if captured == "" {
			// 詞庫未命中時退回單一詞，未知食材仍可精確比對；純數字不是食材
			if isNumericToken(tokens[start]) {
				continue
			}
			captured = tokens[start]
			width = 1
		}
		addTerm(state.c.Exclude, captured)
		for j := i + markerLen; j < start+width && j < len(tokens); j++ {
			state.consumed[j] = true
		}
		i = start + width - 1
	}
}

// isNumericToken 詞是否全為數字
func isNumericToken(token string) bool {
	for _, r := range token {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return token != ""
}

// matchNegationMarker 回傳自 i 起的否定標記長度（0 表示無）
func (e *Extractor) matchNegationMarker(tokens []string, i int) int {
	for _, pair := range negationMarkerPairs {
		if i+1 < len(tokens) && tokens[i] == pair[0] && tokens[i+1] == pair[1] {
			return 2
		}
	}
	if _, ok := negationMarkers[tokens[i]]; ok {
		return 1
	}
	return 0
}

// captureFoodPhrase 自 start 起以最長匹配嘗試捕捉詞庫食材片語
func (e *Extractor) captureFoodPhrase(state *parseState, start, window int) (string, int) {
	tokens := state.tokens
	maxLen := e.lex.MaxFoodPhraseLen()
	if maxLen > window {
		maxLen = window
	}
	for width := maxLen; width >= 1; width-- {
		if start+width > len(tokens) {
			continue
		}
		blocked := false
		for j := start; j < start+width; j++ {
			if state.consumed[j] {
				blocked = true
				break
			}
		}
		if blocked {
			continue
		}
		phrase := strings.Join(tokens[start:start+width], " ")
		if canonical, ok := e.lex.CanonicalFood(phrase); ok {
			return canonical, width
		}
	}
	return "", 0
}

// applyCategoricalRule 最長匹配優先掃描菜系/飲食/餐別詞表
func (e *Extractor) applyCategoricalRule(state *parseState) {
	tokens := state.tokens
	const maxCategoryPhrase = 3
	for i := 0; i < len(tokens); i++ {
		if state.consumed[i] {
			continue
		}
		for width := maxCategoryPhrase; width >= 1; width-- {
			if i+width > len(tokens) {
				continue
			}
			blocked := false
			for j := i; j < i+width; j++ {
				if state.consumed[j] {
					blocked = true
					break
				}
			}
			if blocked {
				continue
			}
			phrase := strings.Join(tokens[i:i+width], " ")

			matched := false
			if display, ok := e.lex.LookupDiet(phrase); ok {
				addDisplayTerm(state.c.Diet, display)
				matched = true
			} else if display, ok := e.lex.LookupCuisine(phrase); ok {
				addDisplayTerm(state.c.Cuisine, display)
				matched = true
			} else if display, ok := e.lex.LookupCourse(phrase); ok {
				addDisplayTerm(state.c.Course, display)
				matched = true
			}
			if matched {
				for j := i; j < i+width; j++ {
					state.consumed[j] = true
				}
				i += width - 1
				break
			}
		}
	}
}

// applyIncludeRule 未被取用的詞庫食材詞進入 include
func (e *Extractor) applyIncludeRule(state *parseState) {
	tokens := state.tokens
	for i := 0; i < len(tokens); i++ {
		if state.consumed[i] {
			continue
		}
		canonical, width := e.captureFoodPhrase(state, i, e.lex.MaxFoodPhraseLen())
		if canonical == "" {
			continue
		}
		if _, excluded := state.c.Exclude[canonical]; !excluded {
			addTerm(state.c.Include, canonical)
		}
		for j := i; j < i+width; j++ {
			state.consumed[j] = true
		}
		i += width - 1
	}
}

// applyTimeRule 解析時間上限片語；格式不合法時直接忽略，不中斷解析
func (e *Extractor) applyTimeRule(state *parseState) {
	minutes, ok := parseTimeLimit(state.raw)
	if !ok {
		return
	}
	if totalPattern.MatchString(state.raw) {
		state.c.MaxTotalMinutes = &minutes
	} else {
		state.c.MaxCookMinutes = &minutes
	}
}

// parseTimeLimit 解析「N 小時 M 分鐘」或「N 分鐘」，小時統一換算成分鐘
func parseTimeLimit(raw string) (int, bool) {
	if m := hourPattern.FindStringSubmatch(raw); m != nil {
		hours, err := strconv.Atoi(m[1])
		if err != nil {
			return 0, false
		}
		minutes := hours * 60
		if m[2] != "" {
			extra, err := strconv.Atoi(m[2])
			if err != nil {
				return 0, false
			}
			minutes += extra
		}
		return minutes, minutes > 0
	}
	if m := minutePattern.FindStringSubmatch(raw); m != nil {
		minutes, err := strconv.Atoi(m[1])
		if err != nil {
			return 0, false
		}
		return minutes, minutes > 0
	}
	return 0, false
}

// scoreConfidence 信心 = 命中類別數 / 6，截斷到 [0,1]
func (e *Extractor) scoreConfidence(c QueryConstraints) float64 {
	matched := 0
	if len(c.Include) > 0 {
		matched++
	}
	if len(c.Exclude) > 0 {
		matched++
	}
	if len(c.Cuisine) > 0 {
		matched++
	}
	if len(c.Diet) > 0 {
		matched++
	}
	if len(c.Course) > 0 {
		matched++
	}
	if c.MaxCookMinutes != nil || c.MaxTotalMinutes != nil {
		matched++
	}

	confidence := float64(matched) / categoryCount
	if confidence > 1 {
		confidence = 1
	}
	if confidence < 0 {
		confidence = 0
	}
	return confidence
}
