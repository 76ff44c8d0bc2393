package index

import (
	"context"
	"fmt"
	"time"

	"recipe-search/internal/core/search"
	"recipe-search/internal/infrastructure/config"
	"recipe-search/internal/pkg/common"

	"github.com/meilisearch/meilisearch-go"
)

// 索引任務輪詢間隔
const taskPollInterval = 200 * time.Millisecond

// recipeDocument 索引中的食譜文件
// _rankingScore 僅在查詢開啟 ShowRankingScore 時出現
type recipeDocument struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Ingredients  []string `json:"ingredients"`
	Instructions string   `json:"instructions"`
	Cuisine      string   `json:"cuisine"`
	Diet         string   `json:"diet"`
	Course       string   `json:"course"`
	CookMinutes  int      `json:"cook_minutes"`
	TotalMinutes int      `json:"total_minutes"`
	RankingScore float64  `json:"_rankingScore"`
}

// MeiliIndex Meilisearch 關鍵詞檢索後端
type MeiliIndex struct {
	client meilisearch.ServiceManager
	index  meilisearch.IndexManager
}

// NewMeiliClient 創建 Meilisearch 客戶端
func NewMeiliClient(cfg config.MeilisearchConfig) meilisearch.ServiceManager {
	return meilisearch.New(cfg.Host, meilisearch.WithAPIKey(cfg.APIKey))
}

// NewMeiliIndex 創建關鍵詞檢索後端
func NewMeiliIndex(client meilisearch.ServiceManager, indexName string) *MeiliIndex {
	return &MeiliIndex{
		client: client,
		index:  client.Index(indexName),
	}
}

// Search 關鍵詞檢索，回傳依 Meilisearch 排名分數排序的結果
func (m *MeiliIndex) Search(ctx context.Context, text string, limit int) ([]search.Hit, error) {
	result, err := m.index.SearchWithContext(ctx, text, &meilisearch.SearchRequest{
		Query:            text,
		Limit:            int64(limit),
		ShowRankingScore: true,
	})
	if err != nil {
		return nil, fmt.Errorf("meilisearch query failed: %w", err)
	}

	hits := make([]search.Hit, 0, len(result.Hits))
	for _, raw := range result.Hits {
		hit, err := decodeHit(raw)
		if err != nil {
			// 壞掉的文件跳過，不讓單筆解碼失敗拖垮整次檢索
			continue
		}
		hits = append(hits, hit)
	}

	return hits, nil
}

// decodeHit 將命中條目解碼為檢索結果
func decodeHit(raw meilisearch.Hit) (search.Hit, error) {
	var doc recipeDocument
	if err := raw.DecodeInto(&doc); err != nil {
		return search.Hit{}, fmt.Errorf("failed to decode hit: %w", err)
	}
	if doc.Ingredients == nil {
		doc.Ingredients = []string{}
	}
	return search.Hit{
		Recipe: common.Recipe{
			ID:           doc.ID,
			Title:        doc.Title,
			Ingredients:  doc.Ingredients,
			Instructions: doc.Instructions,
			Cuisine:      doc.Cuisine,
			Diet:         doc.Diet,
			Course:       doc.Course,
			CookMinutes:  doc.CookMinutes,
			TotalMinutes: doc.TotalMinutes,
		},
		Score: doc.RankingScore,
	}, nil
}

// EnsureIndex 確保索引存在並設定可過濾屬性
// Meilisearch 在首批文件寫入時隱式建立索引，這裡用佔位文件觸發
func (m *MeiliIndex) EnsureIndex(ctx context.Context) error {
	if _, err := m.index.FetchInfoWithContext(ctx); err != nil {
		seed := []map[string]interface{}{
			{
				"id":          "init",
				"title":       "Initialization document",
				"ingredients": []string{},
			},
		}

		task, err := m.index.AddDocumentsWithContext(ctx, seed, nil)
		if err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
		if _, err := m.index.WaitForTaskWithContext(ctx, task.TaskUID, taskPollInterval); err != nil {
			return fmt.Errorf("failed to wait for index creation: %w", err)
		}

		if deleteTask, err := m.index.DeleteDocumentWithContext(ctx, "init", nil); err == nil {
			m.index.WaitForTaskWithContext(ctx, deleteTask.TaskUID, taskPollInterval)
		}
	}

	filterable := []interface{}{"cuisine", "diet", "course", "cook_minutes", "total_minutes"}
	if _, err := m.index.UpdateFilterableAttributesWithContext(ctx, &filterable); err != nil {
		return fmt.Errorf("failed to set filterable attributes: %w", err)
	}

	return nil
}

// RegisterSynonyms 將詞庫變體表註冊為索引同義詞
// 讓轉寫變體（pyaz/kanda/प्याज）在索引端也能命中規範詞
func (m *MeiliIndex) RegisterSynonyms(ctx context.Context, synonyms map[string][]string) error {
	if len(synonyms) == 0 {
		return nil
	}
	task, err := m.index.UpdateSynonymsWithContext(ctx, &synonyms)
	if err != nil {
		return fmt.Errorf("failed to register synonyms: %w", err)
	}
	if _, err := m.index.WaitForTaskWithContext(ctx, task.TaskUID, taskPollInterval); err != nil {
		return fmt.Errorf("failed to wait for synonyms update: %w", err)
	}
	return nil
}
