package config

import (
	"flag"
	"regexp"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	// Server settings
	DatabaseDSN     string `env:"DATABASE_URI"`
	BaseURL         string `env:"BASE_URL"`
	EnableHTTPS     bool   `env:"ENABLE_HTTPS"`
	UploadMaxSizeMB int    `env:"UPLOAD_MAX_MB"`

	// Object storage (S3/COS-совместимое хранилище)
	StorageEndpoint  string `env:"STORAGE_ENDPOINT"`
	StorageRegion    string `env:"STORAGE_REGION"`
	StorageAccessKey string `env:"STORAGE_ACCESS_KEY"`
	StorageSecretKey string `env:"STORAGE_SECRET_KEY"`
	StorageBucket    string `env:"STORAGE_BUCKET"`
	StorageUseSSL    bool   `env:"STORAGE_USE_SSL" envDefault:"true"`
	// Публичная база URL для ссылок на объекты. Если пусто — строится из
	// endpoint и bucket (virtual-host стиль).
	StoragePublicURL string `env:"STORAGE_PUBLIC_URL"`

	// Vision/language модель (OpenAI-совместимый chat API)
	AIBaseURL string `env:"AI_BASE_URL"`
	AIAPIKey  string `env:"AI_API_KEY"`
	AIModel   string `env:"AI_MODEL"`
}

func NewConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{}
	_ = env.Parse(cfg)

	// flags работают ТОЛЬКО если переменные из env не заданы
	flag.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "строка подключения к БД")
	flag.StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "адрес сервера host:port")
	flag.BoolVar(&cfg.EnableHTTPS, "https", cfg.EnableHTTPS, "enable HTTPS")
	flag.IntVar(&cfg.UploadMaxSizeMB, "upload-max-mb", cfg.UploadMaxSizeMB, "лимит тела загрузки, МБ")
	flag.StringVar(&cfg.StorageEndpoint, "storage-endpoint", cfg.StorageEndpoint, "endpoint объектного хранилища")
	flag.StringVar(&cfg.StorageBucket, "storage-bucket", cfg.StorageBucket, "bucket объектного хранилища")
	flag.StringVar(&cfg.AIBaseURL, "ai-base-url", cfg.AIBaseURL, "base URL chat API модели")
	flag.StringVar(&cfg.AIModel, "ai-model", cfg.AIModel, "имя модели для генерации ключевых слов")

	flag.Parse()

	// Defaults
	if cfg.UploadMaxSizeMB <= 0 {
		cfg.UploadMaxSizeMB = 16
	}
	// validate BaseURL: must be in "address:port" (no scheme, no path). Otherwise use default.
	hostPortRe := regexp.MustCompile(`^[A-Za-z0-9\.\-]+:\d{1,5}$`)
	if !hostPortRe.MatchString(cfg.BaseURL) {
		cfg.BaseURL = "localhost:8080"
	}
	if cfg.StorageRegion == "" {
		cfg.StorageRegion = "ap-guangzhou"
	}
	if cfg.AIBaseURL == "" {
		cfg.AIBaseURL = "https://ark.cn-beijing.volces.com/api/v3"
	}
	if cfg.StoragePublicURL == "" && cfg.StorageEndpoint != "" && cfg.StorageBucket != "" {
		scheme := "http"
		if cfg.StorageUseSSL {
			scheme = "https"
		}
		cfg.StoragePublicURL = scheme + "://" + cfg.StorageBucket + "." + cfg.StorageEndpoint
	}

	return cfg
}

// StorageConfigured сообщает, достаточно ли настроек для объектного хранилища.
func (c *Config) StorageConfigured() bool {
	return c.StorageEndpoint != "" && c.StorageAccessKey != "" && c.StorageSecretKey != "" && c.StorageBucket != ""
}

// AIConfigured сообщает, достаточно ли настроек для вызова модели.
func (c *Config) AIConfigured() bool {
	return c.AIAPIKey != "" && c.AIModel != ""
}
