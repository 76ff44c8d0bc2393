package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 應用配置
type Config struct {
	App         AppConfig         `mapstructure:"app"`
	Server      ServerConfig      `mapstructure:"server"`
	Search      SearchConfig      `mapstructure:"search"`
	Interpreter InterpreterConfig `mapstructure:"interpreter"`
	Embedding   EmbeddingConfig   `mapstructure:"embedding"`
	Meilisearch MeilisearchConfig `mapstructure:"meilisearch"`
	Postgres    PostgresConfig    `mapstructure:"postgres"`
	Cache       CacheConfig       `mapstructure:"cache"`
	RateLimit   RateLimitConfig   `mapstructure:"rate_limit"`
	DedupWindow time.Duration     `mapstructure:"dedup_window"`
	LogLevel    string            `mapstructure:"log_level"`
}

// AppConfig 應用程式設定
type AppConfig struct {
	Env      string `mapstructure:"env"`
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`
	Version  string `mapstructure:"version"`
	Name     string `mapstructure:"name"`
}

// ServerConfig 服務器配置
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// SearchConfig 混合檢索設定
type SearchConfig struct {
	LexicalWeight  float64       `mapstructure:"lexical_weight"`
	SemanticWeight float64       `mapstructure:"semantic_weight"`
	RRFK           float64       `mapstructure:"rrf_k"`
	RetrieveLimit  int           `mapstructure:"retrieve_limit"`
	MaxResults     int           `mapstructure:"max_results"`
	MinCandidates  int           `mapstructure:"min_candidates"`
	Timeout        time.Duration `mapstructure:"timeout"`
}

// ProviderConfig 單一查詢解讀供應商設定
type ProviderConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	APIKey    string        `mapstructure:"api_key"`
	Model     string        `mapstructure:"model"`
	BaseURL   string        `mapstructure:"base_url"`
	MaxTokens int           `mapstructure:"max_tokens"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// InterpreterConfig 查詢解讀（翻譯/LLM 增強）設定
type InterpreterConfig struct {
	Enabled  bool           `mapstructure:"enabled"`
	Timeout  time.Duration  `mapstructure:"timeout"` // 增強調用的子超時，必須短於整體請求超時
	DeepSeek ProviderConfig `mapstructure:"deepseek"`
	OpenAI   ProviderConfig `mapstructure:"openai"`
	Groq     ProviderConfig `mapstructure:"groq"`
}

// EmbeddingConfig 向量化服務設定
type EmbeddingConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	APIKey  string        `mapstructure:"api_key"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// MeilisearchConfig 關鍵詞索引設定
type MeilisearchConfig struct {
	Host   string `mapstructure:"host"`
	APIKey string `mapstructure:"api_key"`
	Index  string `mapstructure:"index"`
}

// PostgresConfig 向量索引資料庫設定
type PostgresConfig struct {
	DSN      string `mapstructure:"dsn"`
	MaxConns int    `mapstructure:"max_conns"`
	MinConns int    `mapstructure:"min_conns"`
}

// CacheConfig 結果快取設定
type CacheConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	MaxSize         int           `mapstructure:"max_size"`
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
	RedisEnabled    bool          `mapstructure:"redis_enabled"`
	RedisAddr       string        `mapstructure:"redis_addr"`
	RedisPassword   string        `mapstructure:"redis_password"`
	RedisDB         int           `mapstructure:"redis_db"`
}

// RateLimitConfig 速率限制配置
type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

// LoadConfig 載入設定
func LoadConfig() (*Config, error) {
	// 加載 .env 文件
	if err := godotenv.Load(); err != nil {
		if !strings.Contains(err.Error(), "no such file") {
			return nil, err
		}
	}

	// 設定預設值
	setDefaults()

	// 設定環境變數前綴
	viper.SetEnvPrefix("APP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// 綁定環境變量
	viper.BindEnv("interpreter.deepseek.api_key", "DEEPSEEK_API_KEY")
	viper.BindEnv("interpreter.openai.api_key", "OPENAI_API_KEY")
	viper.BindEnv("interpreter.groq.api_key", "GROQ_API_KEY")
	viper.BindEnv("embedding.api_key", "EMBEDDING_API_KEY")
	viper.BindEnv("meilisearch.host", "MEILISEARCH_HOST")
	viper.BindEnv("meilisearch.api_key", "MEILISEARCH_API_KEY")
	viper.BindEnv("postgres.dsn", "POSTGRES_DSN")
	viper.BindEnv("cache.enabled", "CACHE_ENABLED")
	viper.BindEnv("cache.redis_enabled", "CACHE_REDIS_ENABLED")
	viper.BindEnv("cache.redis_addr", "CACHE_REDIS_ADDR")
	viper.BindEnv("rate_limit.enabled", "RATE_LIMIT_ENABLED")
	viper.BindEnv("rate_limit.requests", "RATE_LIMIT_REQUESTS")
	viper.BindEnv("rate_limit.window", "RATE_LIMIT_WINDOW")
	viper.BindEnv("dedup_window", "DEDUP_WINDOW")
	viper.BindEnv("log_level", "LOG_LEVEL")

	// 設定設定檔名稱和路徑
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	// 讀取設定檔
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// 解析設定
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 驗證必要設定
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// MaskAPIKey 遮罩 API Key，只顯示前後各 4 個字符
func MaskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

// setDefaults 設定預設值
func setDefaults() {
	// 應用程式設定
	viper.SetDefault("app.env", "development")
	viper.SetDefault("app.debug", true)
	viper.SetDefault("app.log_level", "info")
	viper.SetDefault("app.version", "1.0.0")
	viper.SetDefault("app.name", "recipe-search")

	// 伺服器設定
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", "30s")
	viper.SetDefault("server.write_timeout", "30s")
	viper.SetDefault("server.idle_timeout", "120s")

	// 檢索設定：語意召回較廣，權重預設較高
	viper.SetDefault("search.lexical_weight", 0.3)
	viper.SetDefault("search.semantic_weight", 0.7)
	viper.SetDefault("search.rrf_k", 60)
	viper.SetDefault("search.retrieve_limit", 50)
	viper.SetDefault("search.max_results", 20)
	viper.SetDefault("search.min_candidates", 5)
	viper.SetDefault("search.timeout", "10s")

	// 查詢解讀設定
	viper.SetDefault("interpreter.enabled", false)
	viper.SetDefault("interpreter.timeout", "3s")
	viper.SetDefault("interpreter.deepseek.enabled", false)
	viper.SetDefault("interpreter.deepseek.base_url", "https://api.deepseek.com/v1")
	viper.SetDefault("interpreter.deepseek.model", "deepseek-chat")
	viper.SetDefault("interpreter.deepseek.max_tokens", 512)
	viper.SetDefault("interpreter.deepseek.timeout", "3s")
	viper.SetDefault("interpreter.openai.enabled", false)
	viper.SetDefault("interpreter.openai.base_url", "https://api.openai.com/v1")
	viper.SetDefault("interpreter.openai.model", "gpt-4o-mini")
	viper.SetDefault("interpreter.openai.max_tokens", 512)
	viper.SetDefault("interpreter.openai.timeout", "3s")
	viper.SetDefault("interpreter.groq.enabled", false)
	viper.SetDefault("interpreter.groq.base_url", "https://api.groq.com/openai/v1")
	viper.SetDefault("interpreter.groq.model", "llama-3.1-8b-instant")
	viper.SetDefault("interpreter.groq.max_tokens", 512)
	viper.SetDefault("interpreter.groq.timeout", "3s")

	// 向量化設定
	viper.SetDefault("embedding.base_url", "https://api.openai.com/v1")
	viper.SetDefault("embedding.model", "text-embedding-3-small")
	viper.SetDefault("embedding.timeout", "5s")

	// 關鍵詞索引設定
	viper.SetDefault("meilisearch.host", "http://localhost:7700")
	viper.SetDefault("meilisearch.index", "recipes")

	// 向量索引設定
	viper.SetDefault("postgres.dsn", "postgres://localhost:5432/recipes")
	viper.SetDefault("postgres.max_conns", 10)
	viper.SetDefault("postgres.min_conns", 2)

	// 快取設定
	viper.SetDefault("cache.enabled", true)
	viper.SetDefault("cache.max_size", 1000)
	viper.SetDefault("cache.ttl", "10m")
	viper.SetDefault("cache.cleanup_interval", "1m")
	viper.SetDefault("cache.redis_enabled", false)
	viper.SetDefault("cache.redis_addr", "localhost:6379")
	viper.SetDefault("cache.redis_db", 0)

	// 限流設定
	viper.SetDefault("rate_limit.enabled", true)
	viper.SetDefault("rate_limit.requests", 100)
	viper.SetDefault("rate_limit.window", "1m")

	// 去重視窗預設
	viper.SetDefault("dedup_window", "1s")
}

// validateConfig 驗證設定
func validateConfig(config *Config) error {
	// 驗證伺服器設定
	if config.Server.Port == 0 {
		return fmt.Errorf("server port is required")
	}

	// 驗證檢索設定：兩個策略權重必須構成凸組合
	weightSum := config.Search.LexicalWeight + config.Search.SemanticWeight
	if weightSum < 0.999 || weightSum > 1.001 {
		return fmt.Errorf("lexical_weight + semantic_weight must equal 1, got %.3f", weightSum)
	}
	if config.Search.RRFK <= 0 {
		return fmt.Errorf("invalid rrf_k")
	}
	if config.Search.RetrieveLimit <= 0 {
		return fmt.Errorf("invalid retrieve limit")
	}
	if config.Search.MinCandidates < 0 {
		return fmt.Errorf("invalid min candidates")
	}
	if config.Search.Timeout <= 0 {
		return fmt.Errorf("invalid search timeout")
	}

	// 增強調用的子超時不可長於整體檢索超時
	if config.Interpreter.Enabled && config.Interpreter.Timeout >= config.Search.Timeout {
		return fmt.Errorf("interpreter timeout must be shorter than search timeout")
	}

	// 驗證快取設定
	if config.Cache.Enabled {
		if config.Cache.MaxSize <= 0 {
			return fmt.Errorf("invalid cache max size")
		}
		if config.Cache.TTL <= 0 {
			return fmt.Errorf("invalid cache ttl")
		}
		if config.Cache.CleanupInterval <= 0 {
			return fmt.Errorf("invalid cache cleanup interval")
		}
	}

	return nil
}
