package common

import (
	"strings"
)

// Recipe 食譜（索引中的唯讀投影，檢索路徑不會修改它）
type Recipe struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Ingredients  []string `json:"ingredients"`
	Instructions string   `json:"instructions"`
	Cuisine      string   `json:"cuisine"`
	Diet         string   `json:"diet"`
	Course       string   `json:"course"`
	CookMinutes  int      `json:"cook_minutes"`
	TotalMinutes int      `json:"total_minutes"`
}

// SearchText 回傳用於關鍵詞比對的全文（標題 + 食材 + 做法），一律小寫
func (r Recipe) SearchText() string {
	parts := []string{r.Title, strings.Join(r.Ingredients, ", "), r.Instructions}
	return strings.ToLower(strings.Join(parts, "\n"))
}

// FormatIngredients 格式化食材列表
func FormatIngredients(ingredients []string) string {
	var sb strings.Builder
	for _, ing := range ingredients {
		sb.WriteString("- ")
		sb.WriteString(ing)
		sb.WriteString("\n")
	}
	return sb.String()
}

// StringSliceToString 將字符串切片轉換為逗號分隔的字符串
func StringSliceToString(slice []string) string {
	if len(slice) == 0 {
		return ""
	}
	return strings.Join(slice, "、")
}
