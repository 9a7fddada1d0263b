// config реализует конфигурацию YaNews: загрузка из YAML/ENV с предсказуемым приоритетом.
package config

import (
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Драйверы хранилища.
const (
	// DriverPersistent — новости и пользователи в PostgreSQL, комментарии в MongoDB.
	DriverPersistent = "persistent"
	// DriverMemory — всё в памяти процесса (локальный запуск, тесты).
	DriverMemory = "memory"
)

// Config — корневая конфигурация сервиса.
// Приоритет источников:
//  1. явный путь, переданный в MustLoad/Load;
//  2. переменная окружения CONFIG_PATH;
//  3. файл ./local.yaml из рабочей директории;
//  4. переменные окружения.
type Config struct {
	Env        string           `yaml:"env" env:"ENV" env-default:"local"`
	HTTP       HTTPConfig       `yaml:"http"`
	Storage    StorageConfig    `yaml:"storage"`
	DB         DBConfig         `yaml:"db"`
	Mongo      MongoConfig      `yaml:"mongo"`
	Cache      CacheConfig      `yaml:"cache"`
	Kafka      KafkaConfig      `yaml:"kafka"`
	News       NewsConfig       `yaml:"news"`
	Moderation ModerationConfig `yaml:"moderation"`
	Auth       AuthConfig       `yaml:"auth"`
	Timeouts   TimeoutConfig    `yaml:"timeouts"`
}

// HTTPConfig — сетевые настройки HTTP-сервера (API + health/metrics).
type HTTPConfig struct {
	Host string `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
}

// Addr возвращает адрес в формате host:port.
func (h HTTPConfig) Addr() string {
	return net.JoinHostPort(h.Host, h.Port)
}

// StorageConfig — выбор реализации хранилищ.
type StorageConfig struct {
	Driver string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"persistent"`
}

// DBConfig — подключение к PostgreSQL (новости, пользователи).
type DBConfig struct {
	URL string `yaml:"url" env:"DATABASE_URL"`
}

// MongoConfig — подключение к MongoDB (комментарии).
type MongoConfig struct {
	URL string `yaml:"url" env:"MONGO_URL"`
}

// CacheConfig — Redis для реестра отозванных токенов.
// Пустой URL — реестр в памяти процесса.
type CacheConfig struct {
	URL    string `yaml:"url"    env:"REDIS_URL"`
	Prefix string `yaml:"prefix" env:"REDIS_PREFIX" env-default:"yanews:revoked:"`
}

// KafkaConfig — публикация событий жизненного цикла комментариев.
type KafkaConfig struct {
	Enabled bool     `yaml:"enabled" env:"KAFKA_ENABLED" env-default:"false"`
	Brokers []string `yaml:"brokers" env:"KAFKA_BROKERS" env-separator:","`
	Topic   string   `yaml:"topic"   env:"KAFKA_TOPIC"   env-default:"yanews.comments"`
}

// NewsConfig — параметры ленты.
type NewsConfig struct {
	// PageSize — число новостей на главной странице.
	PageSize int32 `yaml:"page_size" env:"NEWS_PAGE_SIZE" env-default:"10"`
}

// ModerationConfig — запрещённые слова и текст предупреждения.
// Загружается один раз при старте и дальше только читается.
type ModerationConfig struct {
	BannedWords []string `yaml:"banned_words" env:"BANNED_WORDS"       env-separator:"," env-default:"редиска,негодяй"`
	Warning     string   `yaml:"warning"      env:"MODERATION_WARNING" env-default:"Не ругайтесь!"`
}

// AuthConfig — выпуск и проверка access-токенов.
type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret" env:"JWT_SECRET"`
	TokenTTL  time.Duration `yaml:"token_ttl"  env:"TOKEN_TTL"  env-default:"24h"`
	Issuer    string        `yaml:"issuer"     env:"JWT_ISSUER" env-default:"yanews"`
}

// TimeoutConfig — общий дедлайн обработки запроса.
type TimeoutConfig struct {
	Service time.Duration `yaml:"service" env:"SERVICE_TIMEOUT" env-default:"5s"`
}

// MustLoad — обёртка над Load с panic при ошибке.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}

	return cfg
}

// Load загружает конфигурацию по приоритету:
// 1) явный путь; 2) CONFIG_PATH; 3) ./local.yaml; 4) ENV.
// После чтения файла накладываем ENV-переменные поверх значений из YAML.
func Load(path string) (*Config, error) {
	var cfg Config

	readFile := func(p string) error {
		if _, err := os.Stat(p); err != nil {
			return fmt.Errorf("config file %q stat failed: %w", p, err)
		}

		if err := cleanenv.ReadConfig(p, &cfg); err != nil {
			return fmt.Errorf("failed to read config %q: %w", p, err)
		}

		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return fmt.Errorf("failed to overlay env: %w", err)
		}

		return nil
	}

	switch {
	case path != "":
		if err := readFile(path); err != nil {
			return nil, err
		}
	case os.Getenv("CONFIG_PATH") != "":
		if err := readFile(os.Getenv("CONFIG_PATH")); err != nil {
			return nil, err
		}
	default:
		if _, err := os.Stat("local.yaml"); err == nil {
			if err := readFile("local.yaml"); err != nil {
				return nil, err
			}
		} else if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("config not found: provide --config, CONFIG_PATH, local.yaml or env vars: %w", err)
		}
	}

	cfg.normalize()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// normalize убирает пробелы вокруг значений списков (частая ошибка в ENV: "a, b").
func (c *Config) normalize() {
	c.Storage.Driver = strings.ToLower(strings.TrimSpace(c.Storage.Driver))

	for i, w := range c.Moderation.BannedWords {
		c.Moderation.BannedWords[i] = strings.TrimSpace(w)
	}

	brokers := c.Kafka.Brokers[:0]
	for _, b := range c.Kafka.Brokers {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	c.Kafka.Brokers = brokers
}

// validate — базовая валидация значений.
func (c *Config) validate() error {
	switch c.Storage.Driver {
	case DriverPersistent:
		if c.DB.URL == "" {
			return fmt.Errorf("db.url is required for storage.driver=%s", DriverPersistent)
		}

		if c.Mongo.URL == "" {
			return fmt.Errorf("mongo.url is required for storage.driver=%s", DriverPersistent)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("storage.driver must be %q or %q", DriverPersistent, DriverMemory)
	}

	if c.News.PageSize <= 0 {
		return fmt.Errorf("news.page_size must be > 0")
	}

	if len(c.Moderation.BannedWords) == 0 {
		return fmt.Errorf("moderation.banned_words must contain at least one word")
	}

	for _, w := range c.Moderation.BannedWords {
		if w == "" {
			return fmt.Errorf("moderation.banned_words must not contain empty entries")
		}
	}

	if strings.TrimSpace(c.Moderation.Warning) == "" {
		return fmt.Errorf("moderation.warning is required")
	}

	if len(c.Auth.JWTSecret) < 16 {
		return fmt.Errorf("auth.jwt_secret must be at least 16 bytes")
	}

	if c.Auth.TokenTTL < time.Minute {
		return fmt.Errorf("auth.token_ttl must be at least 1m")
	}

	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers is required when kafka.enabled=true")
	}

	if c.Kafka.Enabled && strings.TrimSpace(c.Kafka.Topic) == "" {
		return fmt.Errorf("kafka.topic is required when kafka.enabled=true")
	}

	return nil
}
