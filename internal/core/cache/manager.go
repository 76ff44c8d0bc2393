package cache

import (
	"context"
	"sync"
	"time"

	"recipe-search/internal/infrastructure/config"
	"recipe-search/internal/pkg/common"

	"go.uber.org/zap"
)

// CacheManager 搜尋結果快取管理器
// 鍵為查詢約束指紋，值為序列化後的搜尋回應
// 預設走記憶體儲存，設定啟用 Redis 時委派給 Redis 後端
type CacheManager struct {
	config    *config.Config
	redis     *RedisStore
	mu        sync.RWMutex
	store     map[string]cacheEntry
	stats     cacheStats
	done      chan struct{}
	closeOnce sync.Once
}

// cacheEntry 緩存條目
type cacheEntry struct {
	value       string
	expiresAt   time.Time
	createdAt   time.Time
	lastAccess  time.Time
	accessCount int
}

// cacheStats 緩存統計
type cacheStats struct {
	hits      int64
	misses    int64
	evictions int64
	errors    int64
}

// NewManager 創建新的緩存管理器
func NewManager(cfg *config.Config) *CacheManager {
	if !cfg.Cache.Enabled {
		common.LogInfo("Cache disabled")
		return nil
	}

	m := &CacheManager{
		config: cfg,
		store:  make(map[string]cacheEntry),
		stats:  cacheStats{},
		done:   make(chan struct{}),
	}

	if cfg.Cache.RedisEnabled {
		redisStore, err := NewRedisStore(&cfg.Cache)
		if err != nil {
			common.LogWarn("Redis 連線失敗，退回記憶體快取",
				zap.String("位址", cfg.Cache.RedisAddr),
				zap.Error(err),
			)
		} else {
			m.redis = redisStore
		}
	}

	// 啟動清理過期緩存的協程
	go m.startCleanup()

	common.LogInfo("快取管理員已初始化",
		zap.Int("最大容量", cfg.Cache.MaxSize),
		zap.Duration("存活時間", cfg.Cache.TTL),
		zap.Duration("清理間隔", cfg.Cache.CleanupInterval),
		zap.Bool("redis", m.redis != nil),
	)

	return m
}

// Get 以指紋鍵獲取快取的搜尋回應
func (m *CacheManager) Get(ctx context.Context, key string) (string, error) {
	if !m.config.Cache.Enabled {
		return "", common.ErrCacheDisabled
	}

	if m.redis != nil {
		value, err := m.redis.Get(ctx, key)
		if err == nil {
			m.recordHit()
			return value, nil
		}
		m.recordMiss()
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.store[key]
	if !exists {
		m.stats.misses++
		common.LogDebug("快取未命中",
			zap.String("鍵", key),
		)
		return "", common.ErrCacheDisabled
	}

	// 檢查是否過期
	if time.Now().After(entry.expiresAt) {
		delete(m.store, key)
		m.stats.evictions++
		m.stats.misses++
		common.LogDebug("快取已過期",
			zap.String("鍵", key),
		)
		return "", common.ErrCacheDisabled
	}

	// 更新訪問統計
	entry.lastAccess = time.Now()
	entry.accessCount++
	m.store[key] = entry
	m.stats.hits++

	common.LogDebug("快取命中",
		zap.String("鍵", key),
	)
	return entry.value, nil
}

// Set 設置緩存值
func (m *CacheManager) Set(ctx context.Context, key, value string) error {
	if !m.config.Cache.Enabled {
		return nil
	}

	if m.redis != nil {
		return m.redis.Set(ctx, key, value)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// 檢查緩存大小
	if len(m.store) >= m.config.Cache.MaxSize {
		// 清理過期項目
		evicted := m.cleanup()
		common.LogInfo("快取清理執行",
			zap.Int("清理數量", evicted),
		)

		// 如果仍然超過大小限制，執行 LRU 清理
		if len(m.store) >= m.config.Cache.MaxSize {
			m.evictLRU()
		}

		// 如果仍然超過大小限制，返回錯誤
		if len(m.store) >= m.config.Cache.MaxSize {
			m.stats.errors++
			common.LogWarn("快取已滿",
				zap.Int("目前容量", len(m.store)),
			)
			return common.ErrCacheFull
		}
	}

	// 設置緩存
	now := time.Now()
	m.store[key] = cacheEntry{
		value:       value,
		expiresAt:   now.Add(m.config.Cache.TTL),
		createdAt:   now,
		lastAccess:  now,
		accessCount: 0,
	}

	common.LogDebug("快取已儲存",
		zap.String("鍵", key),
	)

	return nil
}

func (m *CacheManager) recordHit() {
	m.mu.Lock()
	m.stats.hits++
	m.mu.Unlock()
}

func (m *CacheManager) recordMiss() {
	m.mu.Lock()
	m.stats.misses++
	m.mu.Unlock()
}

// startCleanup 啟動清理過期緩存的協程，Close 時退出
func (m *CacheManager) startCleanup() {
	ticker := time.NewTicker(m.config.Cache.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.mu.Lock()
			m.cleanup()
			m.mu.Unlock()
		case <-m.done:
			return
		}
	}
}

// cleanup 清理過期的緩存（呼叫端需持有寫鎖）
func (m *CacheManager) cleanup() int {
	now := time.Now()
	count := 0

	for key, entry := range m.store {
		if now.After(entry.expiresAt) {
			delete(m.store, key)
			count++
			m.stats.evictions++
		}
	}

	if count > 0 {
		common.LogInfo("Cleaned up expired cache entries",
			zap.Int("count", count),
			zap.Int64("total_evictions", m.stats.evictions),
			zap.Int("remaining_size", len(m.store)),
		)
	}

	return count
}

// evictLRU 執行 LRU 清理
func (m *CacheManager) evictLRU() {
	var oldestKey string
	var oldestAccess time.Time
	var lowestAccessCount int

	// 找到最少訪問的項目
	for key, entry := range m.store {
		if oldestKey == "" ||
			entry.accessCount < lowestAccessCount ||
			(entry.accessCount == lowestAccessCount && entry.lastAccess.Before(oldestAccess)) {
			oldestKey = key
			oldestAccess = entry.lastAccess
			lowestAccessCount = entry.accessCount
		}
	}

	if oldestKey != "" {
		delete(m.store, oldestKey)
		m.stats.evictions++
		common.LogInfo("快取已淘汰(LRU)",
			zap.String("鍵", oldestKey),
		)
	}
}

// GetStats 獲取緩存統計信息
func (m *CacheManager) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	total := m.stats.hits + m.stats.misses
	hitRatio := 0.0
	if total > 0 {
		hitRatio = float64(m.stats.hits) / float64(total)
	}

	return map[string]interface{}{
		"size":      len(m.store),
		"max_size":  m.config.Cache.MaxSize,
		"hits":      m.stats.hits,
		"misses":    m.stats.misses,
		"evictions": m.stats.evictions,
		"errors":    m.stats.errors,
		"hit_ratio": hitRatio,
		"backend":   m.backendName(),
	}
}

func (m *CacheManager) backendName() string {
	if m.redis != nil {
		return "redis"
	}
	return "memory"
}

// Close 關閉緩存管理器（可重入），並通知清理協程退出
func (m *CacheManager) Close() error {
	m.closeOnce.Do(func() {
		close(m.done)
	})

	m.mu.Lock()
	defer m.mu.Unlock()

	// 清空緩存
	m.store = make(map[string]cacheEntry)
	common.LogInfo("快取管理員已關閉",
		zap.Int64("命中次數", m.stats.hits),
		zap.Int64("未命中次數", m.stats.misses),
		zap.Int64("淘汰次數", m.stats.evictions),
	)

	if m.redis != nil {
		return m.redis.Close()
	}
	return nil
}
