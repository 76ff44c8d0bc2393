package provider

import (
	"recipe-search/internal/infrastructure/config"
)

// NewOpenAIInterpreter 創建 OpenAI 查詢解讀器
func NewOpenAIInterpreter(cfg config.ProviderConfig) QueryInterpreter {
	return newChatClient("openai", cfg)
}
