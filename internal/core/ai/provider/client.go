package provider

import (
	"context"
	"fmt"
	"net/http"

	"recipe-search/internal/core/query"
	"recipe-search/internal/infrastructure/config"
	"recipe-search/internal/pkg/common"

	"github.com/go-resty/resty/v2"
)

// interpretPrompt 要求模型回傳緊湊 JSON 的提示詞
// 欄位缺席代表「沒有意見」，所以明確要求模型省略不確定的欄位
const interpretPrompt = `You are a recipe search query interpreter. The user query may be in any language (Hindi, Tamil, Bengali, English, transliterated Hinglish, ...).
Translate it to English and extract structured search constraints.
Return ONLY a compact JSON object with these fields (omit any field you are not sure about):
{"translated_text":"...","detected_language":"hi","include":["paneer"],"exclude":["onion"],"diet":[],"cuisine":[],"course":[],"max_cook_minutes":30,"confidence":0.9}
Rules:
- "include": ingredients or dishes the user wants, lowercase English.
- "exclude": ingredients the user wants to avoid (negations like "without", "bina", "illamal"), lowercase English.
- "max_cook_minutes": integer upper bound on cooking time, hours converted to minutes.
- "confidence": your confidence in this interpretation, between 0 and 1.
- No markdown, no explanations, JSON only.

Language hint: %s
Query: %s`

// chatClient OpenAI 相容 chat-completions 端點的共用客戶端
// DeepSeek/OpenAI/Groq 走同一套線上格式，只差 base URL 與模型名
type chatClient struct {
	name   string
	cfg    config.ProviderConfig
	client *resty.Client
}

// newChatClient 創建供應商客戶端
func newChatClient(name string, cfg config.ProviderConfig) *chatClient {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.APIKey)).
		SetHeader("Content-Type", "application/json").
		SetTimeout(cfg.Timeout)

	return &chatClient{
		name:   name,
		cfg:    cfg,
		client: client,
	}
}

// Name 供應商名稱
func (c *chatClient) Name() string {
	return c.name
}

// Interpret 調用 chat-completions 端點並解析結構化解讀
func (c *chatClient) Interpret(ctx context.Context, text string, langHint string) (*query.Interpretation, error) {
	// 構建請求
	req := map[string]interface{}{
		"model": c.cfg.Model,
		"messages": []map[string]interface{}{
			{
				"role":    "user",
				"content": fmt.Sprintf(interpretPrompt, langHint, text),
			},
		},
		"max_tokens":  c.cfg.MaxTokens,
		"temperature": 0.0,
	}

	// 發送請求
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(req).
		Post("/chat/completions")

	if err != nil {
		return nil, fmt.Errorf("failed to send request to %s: %w", c.name, err)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%s API returned error: %s", c.name, resp.String())
	}

	// 解析回應
	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}

	if err := common.ParseJSONBytes(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("failed to parse %s response: %w", c.name, err)
	}

	if len(result.Choices) == 0 {
		return nil, fmt.Errorf("no choices in %s response", c.name)
	}

	return parseInterpretation(result.Choices[0].Message.Content)
}

// parseInterpretation 從模型輸出擷取並解析 JSON 解讀
// 模型偶爾輸出未加引號的鍵，先修復再解析
func parseInterpretation(content string) (*query.Interpretation, error) {
	content = common.ExtractJSONObject(content)

	var interp query.Interpretation
	if err := common.ParseJSON(content, &interp); err != nil {
		repaired := common.QuoteJSONKeys(content)
		if err := common.ParseJSON(repaired, &interp); err != nil {
			return nil, fmt.Errorf("failed to parse interpretation: %w", err)
		}
	}

	// 信心截斷到 [0,1]
	if interp.Confidence < 0 {
		interp.Confidence = 0
	}
	if interp.Confidence > 1 {
		interp.Confidence = 1
	}

	return &interp, nil
}
