package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the full service configuration, loaded from
// config/config.yaml with secrets overridable from the environment.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Postgres PostgresConfig `mapstructure:"postgres"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Reward   RewardConfig   `mapstructure:"reward"`
	Upload   UploadConfig   `mapstructure:"upload"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Port     int    `mapstructure:"port"`      // listen port
	Mode     string `mapstructure:"mode"`      // gin mode: debug/release/test
	LogLevel string `mapstructure:"log_level"` // logrus level: debug/info/warn/error
}

// PostgresConfig holds the database DSN and pool settings.
type PostgresConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// StorageConfig holds S3 settings for submission images.
type StorageConfig struct {
	Bucket    string `mapstructure:"bucket"`
	Folder    string `mapstructure:"folder"`     // key prefix inside the bucket
	Region    string `mapstructure:"region"`
	BaseURL   string `mapstructure:"base_url"`   // public URL prefix for uploaded objects
	AccessKey string `mapstructure:"access_key"` // env only in practice
	SecretKey string `mapstructure:"secret_key"` // env only in practice
}

// RewardConfig holds the NFT share distribution endpoint settings.
type RewardConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	ShareTokenMint string `mapstructure:"share_token_mint"`
	ShareAmount    int    `mapstructure:"share_amount"` // shares per winner
	Timeout        int    `mapstructure:"timeout"`      // seconds
}

// UploadConfig bounds incoming submission images.
type UploadConfig struct {
	MaxSizeBytes int64 `mapstructure:"max_size_bytes"`
}

// DefaultMaxUploadSize is the cap applied when config leaves
// upload.max_size_bytes unset.
const DefaultMaxUploadSize = 10 << 20 // 10 MiB

// LoadConfig reads config/config.yaml and then applies environment
// overrides for secrets. A .env file is honoured when present so local
// runs match deployed environments.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load() // .env is optional

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	viper.SetTypeByDefaultValue(true)
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	overrideFromEnv(&cfg)

	if cfg.Upload.MaxSizeBytes <= 0 {
		cfg.Upload.MaxSizeBytes = DefaultMaxUploadSize
	}
	if cfg.Reward.ShareAmount <= 0 {
		cfg.Reward.ShareAmount = 1
	}
	return &cfg, nil
}

// overrideFromEnv applies environment variables over yaml values.
// Secrets never live in config.yaml; they only arrive this way.
func overrideFromEnv(cfg *Config) {
	if v := os.Getenv("POSTGRES_DSN"); v != "" {
		cfg.Postgres.DSN = v
	}
	if v := os.Getenv("AWS_ACCESS_KEY_ID"); v != "" {
		cfg.Storage.AccessKey = v
	}
	if v := os.Getenv("AWS_SECRET_ACCESS_KEY"); v != "" {
		cfg.Storage.SecretKey = v
	}
	if v := os.Getenv("AWS_REGION"); v != "" {
		cfg.Storage.Region = v
	}
	if v := os.Getenv("S3_BUCKET"); v != "" {
		cfg.Storage.Bucket = v
	}
	if v := os.Getenv("S3_FOLDER"); v != "" {
		cfg.Storage.Folder = v
	}
	if v := os.Getenv("S3_BASE_URL"); v != "" {
		cfg.Storage.BaseURL = v
	}
	if v := os.Getenv("REWARD_API_URL"); v != "" {
		cfg.Reward.BaseURL = v
	}
	if v := os.Getenv("SHARE_TOKEN_MINT"); v != "" {
		cfg.Reward.ShareTokenMint = v
	}
}
