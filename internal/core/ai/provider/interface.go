package provider

import (
	"context"

	"recipe-search/internal/core/query"
)

// QueryInterpreter 定義查詢解讀能力介面
// 把自由文字交給外部模型，換回結構化的翻譯與約束解讀
// 任一實現都是盡力而為：失敗或超時由呼叫端降級處理，不得阻塞主路徑
type QueryInterpreter interface {
	// Interpret 解讀查詢文字，langHint 為上游語言偵測的提示
	Interpret(ctx context.Context, text string, langHint string) (*query.Interpretation, error)

	// Name 供應商名稱（日誌與降級標記用）
	Name() string
}
