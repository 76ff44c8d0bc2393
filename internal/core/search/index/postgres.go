package index

import (
	"context"
	"fmt"
	"time"

	"recipe-search/internal/core/search"
	"recipe-search/internal/infrastructure/config"
	"recipe-search/internal/pkg/common"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
	pgxvector "github.com/pgvector/pgvector-go/pgx"
)

// NewPostgresPool 創建 PostgreSQL 連線池並註冊 pgvector 型別
func NewPostgresPool(ctx context.Context, cfg config.PostgresConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = int32(cfg.MaxConns)
	} else {
		poolConfig.MaxConns = 10
	}
	if cfg.MinConns > 0 {
		poolConfig.MinConns = int32(cfg.MinConns)
	} else {
		poolConfig.MinConns = 2
	}

	poolConfig.MaxConnLifetime = 1 * time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute

	poolConfig.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return pgxvector.RegisterTypes(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping db: %w", err)
	}

	return pool, nil
}

// PgVectorIndex pgvector 語意檢索後端
// 以餘弦距離排序，分數 = 1 - 距離，越大越相似
type PgVectorIndex struct {
	pool *pgxpool.Pool
}

// NewPgVectorIndex 創建語意檢索後端
func NewPgVectorIndex(pool *pgxpool.Pool) *PgVectorIndex {
	return &PgVectorIndex{pool: pool}
}

// Search 向量近鄰檢索
func (p *PgVectorIndex) Search(ctx context.Context, embedding []float32, limit int) ([]search.Hit, error) {
	query := `
		SELECT id, title, ingredients, instructions, cuisine, diet, course,
		       cook_minutes, total_minutes,
		       1 - (embedding <=> $1) AS score
		FROM recipes
		WHERE embedding IS NOT NULL
		ORDER BY embedding <=> $1
		LIMIT $2`

	rows, err := p.pool.Query(ctx, query, pgvector.NewVector(embedding), limit)
	if err != nil {
		return nil, fmt.Errorf("vector query failed: %w", err)
	}
	defer rows.Close()

	var hits []search.Hit
	for rows.Next() {
		var recipe common.Recipe
		var score float64
		if err := rows.Scan(
			&recipe.ID,
			&recipe.Title,
			&recipe.Ingredients,
			&recipe.Instructions,
			&recipe.Cuisine,
			&recipe.Diet,
			&recipe.Course,
			&recipe.CookMinutes,
			&recipe.TotalMinutes,
			&score,
		); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		hits = append(hits, search.Hit{Recipe: recipe, Score: score})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	return hits, nil
}
