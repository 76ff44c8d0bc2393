package query

import (
	"unicode"
)

// scriptRange 一段 Unicode 區塊對應的語言碼
type scriptRange struct {
	lo, hi rune
	lang   string
}

// 支援的非拉丁書寫系統（Unicode 區塊 → 語言碼）
var scriptRanges = []scriptRange{
	{0x0900, 0x097F, "hi"}, // 天城文（印地語）
	{0x0980, 0x09FF, "bn"}, // 孟加拉文
	{0x0A00, 0x0A7F, "pa"}, // 古木基文（旁遮普語）
	{0x0A80, 0x0AFF, "gu"}, // 古吉拉特文
	{0x0B80, 0x0BFF, "ta"}, // 泰米爾文
	{0x0C00, 0x0C7F, "te"}, // 泰盧固文
	{0x0C80, 0x0CFF, "kn"}, // 卡納達文
	{0x0D00, 0x0D7F, "ml"}, // 馬拉雅拉姆文
}

// DetectLanguage 根據字符所屬的 Unicode 區塊猜測查詢語言
// 非空白字符中若有 60% 以上落在同一個非拉丁區塊，回報該語言
// 否則一律回 "en"（信心 0.5）。純本地計算，不會失敗
func DetectLanguage(text string) (string, float64) {
	counts := make(map[string]int, len(scriptRanges))
	total := 0

	for _, r := range text {
		if unicode.IsSpace(r) {
			continue
		}
		total++
		for _, sr := range scriptRanges {
			if r >= sr.lo && r <= sr.hi {
				counts[sr.lang]++
				break
			}
		}
	}

	if total == 0 {
		return "en", 0.5
	}

	// 依固定順序掃描，確保結果可重現
	best := ""
	bestCount := 0
	for _, sr := range scriptRanges {
		if counts[sr.lang] > bestCount {
			best = sr.lang
			bestCount = counts[sr.lang]
		}
	}

	share := float64(bestCount) / float64(total)
	if best != "" && share >= 0.6 {
		return best, share
	}

	return "en", 0.5
}
