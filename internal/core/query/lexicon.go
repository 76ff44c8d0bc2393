package query

import (
	"sort"
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Lexicon 靜態詞庫：食材變體、菜系/飲食/餐別詞表、飲食默認排除
// 進程啟動時建立一次，之後只讀，所有請求共用，無需加鎖
type Lexicon struct {
	foods          map[string]string   // 正規化變體 → 規範詞
	variants       map[string][]string // 規範詞 → 全部變體（排序）
	cuisines       map[string]string   // 正規化片語 → 顯示名
	diets          map[string]string
	courses        map[string]string
	dietExclusions map[string][]string // 飲食顯示名 → 默認排除的規範詞
	stopwords      map[string]struct{}
	maxPhraseLen   int
}

var (
	lexiconOnce    sync.Once
	defaultLexicon *Lexicon
)

// DefaultLexicon 取得全局詞庫單例（惰性建立）
func DefaultLexicon() *Lexicon {
	lexiconOnce.Do(func() {
		defaultLexicon = buildLexicon()
	})
	return defaultLexicon
}

// 規範詞 → 變體（複數、轉寫、他語同義詞、複合形式）
// 變體表同時用於查詢解析與 meilisearch 同義詞註冊
var foodVariantTable = map[string][]string{
	"onion":       {"onion", "onions", "pyaz", "pyaaz", "kanda", "spring onion", "red onion", "प्याज", "प्याज़"},
	"garlic":      {"garlic", "lahsun", "lasun", "lehsun", "लहसुन"},
	"ginger":      {"ginger", "adrak", "अदरक"},
	"potato":      {"potato", "potatoes", "aloo", "alu", "batata", "आलू"},
	"carrot":      {"carrot", "carrots", "gajar", "गाजर"},
	"radish":      {"radish", "radishes", "mooli", "मूली"},
	"beetroot":    {"beetroot", "beetroots", "beet", "chukandar"},
	"tomato":      {"tomato", "tomatoes", "tamatar", "टमाटर"},
	"paneer":      {"paneer", "cottage cheese", "पनीर"},
	"rice":        {"rice", "chawal", "chaawal", "basmati", "चावल"},
	"chicken":     {"chicken", "murgh", "murgi", "चिकन"},
	"mutton":      {"mutton", "lamb", "gosht"},
	"fish":        {"fish", "machli", "machhli", "meen"},
	"egg":         {"egg", "eggs", "anda", "ande", "अंडा"},
	"milk":        {"milk", "doodh", "dudh", "दूध"},
	"yogurt":      {"yogurt", "yoghurt", "curd", "dahi", "दही"},
	"butter":      {"butter", "makhan", "makkhan"},
	"ghee":        {"ghee", "clarified butter", "घी"},
	"cheese":      {"cheese"},
	"cream":       {"cream", "malai"},
	"chili":       {"chili", "chilli", "chillies", "chilies", "mirch", "mirchi", "मिर्च"},
	"spinach":     {"spinach", "palak", "पालक"},
	"cauliflower": {"cauliflower", "gobi", "gobhi", "phool gobi"},
	"cabbage":     {"cabbage", "patta gobi", "band gobi"},
	"okra":        {"okra", "bhindi", "lady finger", "ladies finger", "भिंडी"},
	"eggplant":    {"eggplant", "brinjal", "baingan", "aubergine", "बैंगन"},
	"pea":         {"pea", "peas", "matar", "mutter", "मटर"},
	"lentil":      {"lentil", "lentils", "dal", "daal", "dhal", "दाल"},
	"chickpea":    {"chickpea", "chickpeas", "chana", "chole", "chhole", "garbanzo", "छोले"},
	"kidney bean": {"kidney bean", "kidney beans", "rajma", "राजमा"},
	"peanut":      {"peanut", "peanuts", "groundnut", "moongphali"},
	"cashew":      {"cashew", "cashews", "kaju", "काजू"},
	"almond":      {"almond", "almonds", "badam"},
	"mushroom":    {"mushroom", "mushrooms", "khumb"},
	"coconut":     {"coconut", "nariyal", "thengai", "नारियल"},
	"wheat":       {"wheat", "atta", "gehu", "gehun", "गेहूं"},
	"flour":       {"flour", "maida"},
	"sugar":       {"sugar", "cheeni", "shakkar", "चीनी"},
	"jaggery":     {"jaggery", "gur", "gud", "गुड़"},
	"lemon":       {"lemon", "lemons", "lime", "nimbu", "नींबू"},
	"mango":       {"mango", "mangoes", "aam", "आम"},
	"banana":      {"banana", "bananas", "kela"},
	"corn":        {"corn", "makai", "makka", "sweet corn"},
	"bread":       {"bread", "pav", "double roti"},
	"noodle":      {"noodle", "noodles"},
	"sabzi":       {"sabzi", "sabji", "subzi", "bhaji", "सब्ज़ी", "सब्जी"},
	"roti":        {"roti", "rotis", "chapati", "chapatis", "phulka", "रोटी"},
	"biryani":     {"biryani", "biriyani", "बिरयानी"},
	"dosa":        {"dosa", "dosas", "dosai"},
	"idli":        {"idli", "idlis", "idly"},
	"samosa":      {"samosa", "samosas", "समोसा"},
	"khichdi":     {"khichdi", "khichri", "kichdi"},
	"curry":       {"curry", "curries", "kari"},
	"soup":        {"soup", "soups", "shorba"},
	"salad":       {"salad", "salads"},
}

// 菜系詞表（正規化片語 → 顯示名）
var cuisineTable = map[string]string{
	"north indian":  "North Indian",
	"south indian":  "South Indian",
	"punjabi":       "Punjabi",
	"gujarati":      "Gujarati",
	"bengali":       "Bengali",
	"maharashtrian": "Maharashtrian",
	"rajasthani":    "Rajasthani",
	"kerala":        "Kerala",
	"tamil":         "Tamil Nadu",
	"tamil nadu":    "Tamil Nadu",
	"andhra":        "Andhra",
	"goan":          "Goan",
	"indian":        "Indian",
	"chinese":       "Chinese",
	"italian":       "Italian",
	"thai":          "Thai",
	"mexican":       "Mexican",
	"continental":   "Continental",
}

// 飲食限制詞表
var dietTable = map[string]string{
	"jain":           "Jain",
	"vegan":          "Vegan",
	"vegetarian":     "Vegetarian",
	"veg":            "Vegetarian",
	"non vegetarian": "Non Vegetarian",
	"non veg":        "Non Vegetarian",
	"eggless":        "Eggless",
	"gluten free":    "Gluten Free",
	"diabetic":       "Diabetic Friendly",
	"low carb":       "Low Carb",
}

// 餐別詞表
var courseTable = map[string]string{
	"breakfast":   "Breakfast",
	"lunch":       "Lunch",
	"dinner":      "Dinner",
	"snack":       "Snack",
	"snacks":      "Snack",
	"dessert":     "Dessert",
	"sweet":       "Dessert",
	"main course": "Main Course",
	"main dish":   "Main Course",
	"side dish":   "Side Dish",
	"starter":     "Appetizer",
	"appetizer":   "Appetizer",
}

// 飲食限制隱含的默認排除（規範詞）
// 耆那教飲食不食用蔥蒜與根莖類；全素不食用蛋奶
var dietExclusionTable = map[string][]string{
	"Jain":  {"onion", "garlic", "ginger", "potato", "carrot", "radish", "beetroot"},
	"Vegan": {"milk", "yogurt", "butter", "ghee", "cheese", "cream", "paneer", "egg"},
}

// 解析時跳過的功能詞
var stopwordList = []string{
	"a", "an", "the", "and", "or", "with", "for", "of", "in", "on", "to",
	"recipe", "recipes", "dish", "dishes", "food", "make", "cook", "cooking",
	"some", "any", "please", "want", "need", "me", "i", "my", "quick", "easy",
	"under", "within", "less", "than", "total", "time", "minute", "minutes",
	"min", "mins", "hour", "hours", "hr", "hrs", "ke", "ki", "ka", "mein", "wala",
}

func buildLexicon() *Lexicon {
	lex := &Lexicon{
		foods:          make(map[string]string),
		variants:       make(map[string][]string),
		cuisines:       make(map[string]string),
		diets:          make(map[string]string),
		courses:        make(map[string]string),
		dietExclusions: dietExclusionTable,
		stopwords:      make(map[string]struct{}),
	}

	for canonical, vars := range foodVariantTable {
		all := make([]string, 0, len(vars)+1)
		seen := make(map[string]struct{})
		for _, v := range append([]string{canonical}, vars...) {
			n := NormalizeTerm(v)
			if n == "" {
				continue
			}
			lex.foods[n] = canonical
			if _, ok := seen[v]; !ok {
				seen[v] = struct{}{}
				all = append(all, v)
			}
			words := len(strings.Fields(n))
			if words > lex.maxPhraseLen {
				lex.maxPhraseLen = words
			}
		}
		sort.Strings(all)
		lex.variants[canonical] = all
	}

	for phrase, display := range cuisineTable {
		lex.cuisines[NormalizeTerm(phrase)] = display
	}
	for phrase, display := range dietTable {
		lex.diets[NormalizeTerm(phrase)] = display
	}
	for phrase, display := range courseTable {
		lex.courses[NormalizeTerm(phrase)] = display
	}
	for _, w := range stopwordList {
		lex.stopwords[w] = struct{}{}
	}

	return lex
}

// CanonicalFood 查詢片語對應的規範食材詞
func (l *Lexicon) CanonicalFood(phrase string) (string, bool) {
	c, ok := l.foods[NormalizeTerm(phrase)]
	return c, ok
}

// Variants 規範詞的全部變體；未知詞以自身為唯一變體（優雅降級）
func (l *Lexicon) Variants(canonical string) []string {
	if vars, ok := l.variants[canonical]; ok {
		return vars
	}
	return []string{canonical}
}

// MaxFoodPhraseLen 食材片語的最大詞數（限制最長匹配的掃描窗口）
func (l *Lexicon) MaxFoodPhraseLen() int {
	if l.maxPhraseLen < 1 {
		return 1
	}
	return l.maxPhraseLen
}

// LookupCuisine 菜系詞表查詢
func (l *Lexicon) LookupCuisine(phrase string) (string, bool) {
	v, ok := l.cuisines[NormalizeTerm(phrase)]
	return v, ok
}

// LookupDiet 飲食限制詞表查詢
func (l *Lexicon) LookupDiet(phrase string) (string, bool) {
	v, ok := l.diets[NormalizeTerm(phrase)]
	return v, ok
}

// LookupCourse 餐別詞表查詢
func (l *Lexicon) LookupCourse(phrase string) (string, bool) {
	v, ok := l.courses[NormalizeTerm(phrase)]
	return v, ok
}

// DietExclusions 飲食限制隱含的默認排除規範詞
func (l *Lexicon) DietExclusions(diet string) []string {
	return l.dietExclusions[diet]
}

// IsStopword 是否為功能詞
func (l *Lexicon) IsStopword(token string) bool {
	_, ok := l.stopwords[token]
	return ok
}

// SynonymMap 產生 meilisearch 同義詞註冊用的映射
func (l *Lexicon) SynonymMap() map[string][]string {
	out := make(map[string][]string, len(l.variants))
	for canonical, vars := range l.variants {
		syns := make([]string, 0, len(vars))
		for _, v := range vars {
			if v != canonical {
				syns = append(syns, v)
			}
		}
		if len(syns) > 0 {
			out[canonical] = syns
		}
	}
	return out
}

var diacriticFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeTerm 詞形正規化：小寫、去頭尾空白、折疊變音符號、去複數
// 變音符號折疊只作用於拉丁字符，避免破壞天城文等文字的母音記號
func NormalizeTerm(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}

	if isLatinOnly(s) {
		if folded, _, err := transform.String(diacriticFolder, s); err == nil {
			s = folded
		}
		s = singularize(s)
	}

	return s
}

// isLatinOnly 字符全部落在拉丁區塊（含帶變音符號的擴展區）
func isLatinOnly(s string) bool {
	for _, r := range s {
		if r > unicode.MaxASCII && !unicode.In(r, unicode.Latin) {
			return false
		}
	}
	return true
}

// singularize 簡易去複數（詞庫變體已涵蓋不規則形式）
func singularize(s string) string {
	switch {
	case len(s) > 4 && strings.HasSuffix(s, "ies"):
		return s[:len(s)-3] + "y"
	case len(s) > 4 && strings.HasSuffix(s, "oes"):
		return s[:len(s)-2]
	case len(s) > 3 && strings.HasSuffix(s, "s") && !strings.HasSuffix(s, "ss"):
		return s[:len(s)-1]
	}
	return s
}
