// Package config loads and validates pipeline configuration via Viper.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all pipeline configuration knobs loaded via Viper.
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	DB      DBConfig      `mapstructure:"db"`
	Minio   MinioConfig   `mapstructure:"minio"`
	Sync    SyncConfig    `mapstructure:"sync"`
	Extract ExtractConfig `mapstructure:"extract"`
	Mirror  MirrorConfig  `mapstructure:"mirror"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// APIConfig describes the remote content API.
type APIConfig struct {
	Token          string `mapstructure:"token"`
	BaseURL        string `mapstructure:"base_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// DBConfig controls access to the Postgres document store.
type DBConfig struct {
	DSN      string `mapstructure:"dsn"`
	MaxConns int32  `mapstructure:"max_conns"`
}

// MinioConfig describes the object-storage endpoint for mirrored media.
type MinioConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	Port      int    `mapstructure:"port"`
	UseSSL    bool   `mapstructure:"use_ssl"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
}

// SyncConfig governs catalog and article sync behavior.
type SyncConfig struct {
	PageSize         int `mapstructure:"page_size"`
	ArticleBatchSize int `mapstructure:"article_batch_size"`
	ArticleListCount int `mapstructure:"article_list_count"`
}

// ExtractConfig governs the media-URL extraction stage.
type ExtractConfig struct {
	BatchSize    int    `mapstructure:"batch_size"`
	DomainMarker string `mapstructure:"domain_marker"`
}

// MirrorConfig governs the media-mirroring stage.
type MirrorConfig struct {
	BatchSize  int    `mapstructure:"batch_size"`
	ScratchDir string `mapstructure:"scratch_dir"`
}

// MetricsConfig optionally exposes Prometheus metrics during a run.
type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("VISARCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.timeout_seconds", 30)
	v.SetDefault("db.max_conns", 10)
	v.SetDefault("minio.port", 9000)
	v.SetDefault("minio.use_ssl", false)
	v.SetDefault("minio.bucket", "files")
	v.SetDefault("sync.page_size", 20)
	v.SetDefault("sync.article_batch_size", 30)
	v.SetDefault("sync.article_list_count", 1001)
	v.SetDefault("extract.batch_size", 30)
	v.SetDefault("extract.domain_marker", "vistopia")
	v.SetDefault("mirror.batch_size", 100)
	v.SetDefault("mirror.scratch_dir", filepath.Join(os.TempDir(), "vis-downloads"))
	v.SetDefault("logging.development", false)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.API.Token == "" {
		return fmt.Errorf("api.token is required")
	}
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	if c.DB.DSN == "" {
		return fmt.Errorf("db.dsn is required")
	}
	if c.Sync.PageSize <= 0 {
		return fmt.Errorf("sync.page_size must be > 0")
	}
	if c.Sync.ArticleBatchSize <= 0 {
		return fmt.Errorf("sync.article_batch_size must be > 0")
	}
	if c.Extract.BatchSize <= 0 {
		return fmt.Errorf("extract.batch_size must be > 0")
	}
	if c.Mirror.BatchSize <= 0 {
		return fmt.Errorf("mirror.batch_size must be > 0")
	}
	return nil
}

// APITimeout converts the configured HTTP timeout into a duration.
func (c Config) APITimeout() time.Duration {
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}
