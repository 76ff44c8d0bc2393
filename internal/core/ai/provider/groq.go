package provider

import (
	"recipe-search/internal/infrastructure/config"
)

// NewGroqInterpreter 創建 Groq 查詢解讀器
// Groq 同樣相容 OpenAI 線上格式，勝在低延遲，適合當最後一層備援
func NewGroqInterpreter(cfg config.ProviderConfig) QueryInterpreter {
	return newChatClient("groq", cfg)
}
