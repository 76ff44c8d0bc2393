package index

import (
	"context"
	"fmt"
	"net/http"

	"recipe-search/internal/infrastructure/config"
	"recipe-search/internal/pkg/common"

	"github.com/go-resty/resty/v2"
)

// RestEmbedder OpenAI 相容 embeddings 端點的向量化客戶端
type RestEmbedder struct {
	model  string
	client *resty.Client
}

// NewRestEmbedder 創建向量化客戶端
func NewRestEmbedder(cfg config.EmbeddingConfig) *RestEmbedder {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.APIKey)).
		SetHeader("Content-Type", "application/json").
		SetTimeout(cfg.Timeout)

	return &RestEmbedder{
		model:  cfg.Model,
		client: client,
	}
}

// Embed 將查詢文字轉為向量
func (e *RestEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := e.client.R().
		SetContext(ctx).
		SetBody(map[string]interface{}{
			"model": e.model,
			"input": text,
		}).
		Post("/embeddings")

	if err != nil {
		return nil, fmt.Errorf("failed to send embedding request: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("embedding API returned error: %s", resp.String())
	}

	var result struct {
		Data []struct {
			Embedding []float32 `json:"embedding"`
		} `json:"data"`
	}
	if err := common.ParseJSONBytes(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("failed to parse embedding response: %w", err)
	}

	if len(result.Data) == 0 || len(result.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("empty embedding in response")
	}

	return result.Data[0].Embedding, nil
}
