package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xxxsen/common/logger"
)

type Config struct {
	Env       string           `json:"env"`
	Port      int              `json:"port"`
	Database  DatabaseConfig   `json:"database"`
	LogConfig logger.LogConfig `json:"log_config"`
	FileStore FileStoreConfig  `json:"file_store"`
	AI        AIConfig         `json:"ai"`
	Core      CoreConfig       `json:"core"`
	Notify    NotifyConfig     `json:"notify"`
	CORSAllow []string         `json:"cors_allow"`
}

type DatabaseConfig struct {
	DSN      string `json:"dsn"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	DBName   string `json:"db_name"`
	SSLMode  string `json:"ssl_mode"`
}

type FileStoreConfig struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type AIConfig struct {
	Provider string      `json:"provider"`
	Model    string      `json:"model"`
	Data     interface{} `json:"data"`
}

type NotifyConfig struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// CoreConfig carries the tunables of the question-answering core. Absent
// fields fall back to the defaults below; MaxRetryAttempts is a pointer so
// an explicit 0 (never retry the model call) survives defaulting.
type CoreConfig struct {
	MaxClauses               int     `json:"max_clauses"`
	AITimeoutSeconds         int     `json:"ai_timeout_seconds"`
	ClausePreviewLength      int     `json:"clause_preview_length"`
	MaxRetryAttempts         *int    `json:"max_retry_attempts"`
	CacheTTLSeconds          int     `json:"cache_ttl_seconds"`
	RetrievalCacheTTLSeconds int     `json:"retrieval_cache_ttl_seconds"`
	LowPriorityCapRatio      float64 `json:"low_priority_cap_ratio"`
}

const (
	DefaultMaxClauses               = 15
	DefaultAITimeoutSeconds         = 8
	DefaultClausePreviewLength      = 250
	DefaultMaxRetryAttempts         = 2
	DefaultCacheTTLSeconds          = 300
	DefaultRetrievalCacheTTLSeconds = 180
	DefaultLowPriorityCapRatio      = 0.7
)

func (c *CoreConfig) applyDefaults() {
	if c.MaxClauses <= 0 {
		c.MaxClauses = DefaultMaxClauses
	}
	if c.AITimeoutSeconds <= 0 {
		c.AITimeoutSeconds = DefaultAITimeoutSeconds
	}
	if c.ClausePreviewLength <= 0 {
		c.ClausePreviewLength = DefaultClausePreviewLength
	}
	if c.MaxRetryAttempts == nil {
		retries := DefaultMaxRetryAttempts
		c.MaxRetryAttempts = &retries
	} else if *c.MaxRetryAttempts < 0 {
		retries := 0
		c.MaxRetryAttempts = &retries
	}
	if c.CacheTTLSeconds <= 0 {
		c.CacheTTLSeconds = DefaultCacheTTLSeconds
	}
	if c.RetrievalCacheTTLSeconds <= 0 {
		c.RetrievalCacheTTLSeconds = DefaultRetrievalCacheTTLSeconds
	}
	if c.LowPriorityCapRatio <= 0 || c.LowPriorityCapRatio > 1 {
		c.LowPriorityCapRatio = DefaultLowPriorityCapRatio
	}
}

func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Port == 0 {
		return nil, fmt.Errorf("port is required")
	}
	if cfg.Database.DSN == "" && cfg.Database.Host == "" {
		return nil, fmt.Errorf("database.dsn or database.host is required")
	}
	if cfg.Env == "" {
		cfg.Env = "production"
	}
	if cfg.LogConfig.Level == "" {
		cfg.LogConfig.Level = "info"
	}
	if cfg.FileStore.Type == "" {
		cfg.FileStore.Type = "local"
	}
	if cfg.AI.Provider == "" {
		return nil, fmt.Errorf("ai.provider is required")
	}
	if cfg.AI.Model == "" {
		cfg.AI.Model = "gemini-2.0-flash"
	}
	if cfg.Notify.Type == "" {
		cfg.Notify.Type = "log"
	}
	cfg.Core.applyDefaults()
	return &cfg, nil
}
