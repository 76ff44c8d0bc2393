package provider

import (
	"recipe-search/internal/infrastructure/config"
)

// NewDeepSeekInterpreter 創建 DeepSeek 查詢解讀器
// DeepSeek 提供 OpenAI 相容端點，直接復用共用客戶端
func NewDeepSeekInterpreter(cfg config.ProviderConfig) QueryInterpreter {
	return newChatClient("deepseek", cfg)
}
