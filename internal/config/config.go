package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

var ErrMissingRequired = errors.New("missing required configuration")

type Config struct {
	DBHost string `envconfig:"DB_HOST" default:"postgres"`
	DBPort int    `envconfig:"DB_PORT" default:"5432"`
	DBUser string `envconfig:"DB_USER" default:"claims"`
	DBPass string `envconfig:"DB_PASS" default:"password"`
	DBName string `envconfig:"DB_NAME" default:"claims"`

	WeaviateHost   string `envconfig:"WEAVIATE_HOST" default:"localhost:8080"`
	WeaviateScheme string `envconfig:"WEAVIATE_SCHEME" default:"http"`

	DocIntelURL string `envconfig:"DOCINTEL_URL" default:""`
	NSQLookupd  string `envconfig:"NSQ_LOOKUPD" default:"nsqlookupd:4161"`
	NSQDHost    string `envconfig:"NSQD_HOST" default:"nsqd:4150"`
	NSQDHTTP    string `envconfig:"NSQD_HTTP" default:"nsqd:4151"`

	GeminiAPIKey  string  `envconfig:"GEMINI_API_KEY"`
	EmbedModel    string  `envconfig:"EMBED_MODEL" default:"gemini-embedding-001"`
	ChatModel     string  `envconfig:"CHAT_MODEL" default:"gemini-2.0-flash"`
	ChatTemp      float32 `envconfig:"CHAT_TEMPERATURE" default:"0.2"`
	ChatMaxTokens int     `envconfig:"CHAT_MAX_TOKENS" default:"1024"`

	// Segmentation defaults, overridable per deployment.
	ChunkTargetSize   int     `envconfig:"CHUNK_TARGET_SIZE" default:"1000"`
	ChunkMaxSize      int     `envconfig:"CHUNK_MAX_SIZE" default:"1500"`
	ChunkMinSize      int     `envconfig:"CHUNK_MIN_SIZE" default:"200"`
	ChunkOverlapRatio float64 `envconfig:"CHUNK_OVERLAP_RATIO" default:"0.1"`

	// Retrieval
	SearchTopK           int  `envconfig:"SEARCH_TOP_K" default:"10"`
	IndexTimeoutMs       int  `envconfig:"RETRIEVAL_INDEX_TIMEOUT_MS" default:"10000"`
	EnableDocumentWorker bool `envconfig:"ENABLE_DOCUMENT_WORKER" default:"true"`
	EnableEmbedWorker    bool `envconfig:"ENABLE_EMBED_WORKER" default:"true"`

	MigrationPath string `envconfig:"MIGRATION_PATH" default:"file://migrations"`
	QueryLogPath  string `envconfig:"QUERY_LOG_PATH" default:"data/logs/query.log"`
	ServerPort    int    `envconfig:"SERVER_PORT" default:"8081"`

	// Resilience
	BootstrapRetryAttempts     int `envconfig:"BOOTSTRAP_RETRY_ATTEMPTS" default:"10"`
	BootstrapRetryDelaySeconds int `envconfig:"BOOTSTRAP_RETRY_DELAY_SECONDS" default:"2"`
}

func Load() (*Config, error) {
	// Env vars may be set in the shell; .env files are optional.
	_ = godotenv.Load(".env")

	cwd, _ := os.Getwd()
	_ = godotenv.Load(filepath.Join(cwd, "../.env"))

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.DBHost == "" {
		return fmt.Errorf("%w: DB_HOST", ErrMissingRequired)
	}
	if c.DBUser == "" {
		return fmt.Errorf("%w: DB_USER", ErrMissingRequired)
	}
	if c.DBName == "" {
		return fmt.Errorf("%w: DB_NAME", ErrMissingRequired)
	}
	if c.ChunkMinSize >= c.ChunkTargetSize || c.ChunkTargetSize >= c.ChunkMaxSize {
		return fmt.Errorf("%w: chunk sizes must satisfy min < target < max", ErrMissingRequired)
	}
	if c.ChunkOverlapRatio < 0 || c.ChunkOverlapRatio >= 1 {
		return fmt.Errorf("%w: CHUNK_OVERLAP_RATIO must be in [0,1)", ErrMissingRequired)
	}
	return nil
}
