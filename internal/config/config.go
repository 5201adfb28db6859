package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Cache    CacheConfig
	Log      LogConfig
	Nostr    NostrConfig
	Worker   WorkerConfig
}

type ServerConfig struct {
	Host        string
	Port        int
	Env         string
	CORSOrigins string
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxConns        int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CacheConfig struct {
	PlaceCacheTTL   time.Duration
	ProfileCacheTTL time.Duration
}

type LogConfig struct {
	Level string
}

// NostrConfig - релеи и ключ, которым сервис подписывает места
type NostrConfig struct {
	Relays           []string
	RelayHints       []string
	SecretKey        string
	QueryTimeout     time.Duration
	PublishTimeout   time.Duration
	PublishRate      float64
	GeohashPrecision uint
}

type WorkerConfig struct {
	Enabled       bool
	ConsumerGroup string
	MaxRetries    int
	SyncLookback  time.Duration
}

var defaultRelays = []string{
	"wss://relay.damus.io",
	"wss://nos.lol",
	"wss://relay.nostr.band",
}

func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// без .env работаем только на переменных окружения
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:        viper.GetString("API_HOST"),
			Port:        viper.GetInt("API_PORT"),
			Env:         viper.GetString("API_ENV"),
			CORSOrigins: viper.GetString("API_CORS_ORIGINS"),
		},
		Database: DatabaseConfig{
			Host:            viper.GetString("DB_HOST"),
			Port:            viper.GetInt("DB_PORT"),
			User:            viper.GetString("DB_USER"),
			Password:        viper.GetString("DB_PASSWORD"),
			DBName:          viper.GetString("DB_NAME"),
			SSLMode:         viper.GetString("DB_SSLMODE"),
			MaxConns:        viper.GetInt("DB_MAX_CONNS"),
			MaxIdleConns:    viper.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: time.Duration(viper.GetInt("DB_CONN_MAX_LIFETIME")) * time.Second,
			ConnMaxIdleTime: time.Duration(viper.GetInt("DB_CONN_MAX_IDLE_TIME")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetInt("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Cache: CacheConfig{
			PlaceCacheTTL:   time.Duration(viper.GetInt("PLACE_CACHE_TTL")) * time.Second,
			ProfileCacheTTL: time.Duration(viper.GetInt("PROFILE_CACHE_TTL")) * time.Second,
		},
		Log: LogConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
		Nostr: NostrConfig{
			Relays:           parseList(viper.GetString("NOSTR_RELAYS")),
			RelayHints:       parseList(viper.GetString("NOSTR_RELAY_HINTS")),
			SecretKey:        viper.GetString("NOSTR_SECRET_KEY"),
			QueryTimeout:     time.Duration(viper.GetInt("NOSTR_QUERY_TIMEOUT")) * time.Millisecond,
			PublishTimeout:   time.Duration(viper.GetInt("NOSTR_PUBLISH_TIMEOUT")) * time.Millisecond,
			PublishRate:      viper.GetFloat64("NOSTR_PUBLISH_RATE"),
			GeohashPrecision: viper.GetUint("GEOHASH_PRECISION"),
		},
		Worker: WorkerConfig{
			Enabled:       viper.GetBool("WORKER_ENABLED"),
			ConsumerGroup: viper.GetString("WORKER_CONSUMER_GROUP"),
			MaxRetries:    viper.GetInt("WORKER_MAX_RETRIES"),
			SyncLookback:  time.Duration(viper.GetInt("WORKER_SYNC_LOOKBACK")) * time.Second,
		},
	}

	cfg.applyDefaults()
	return cfg, nil
}

// applyDefaults - значения по умолчанию для незаданных параметров
func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.CORSOrigins == "" {
		c.Server.CORSOrigins = "http://localhost:3000,http://localhost:5173"
	}
	if c.Cache.PlaceCacheTTL == 0 {
		c.Cache.PlaceCacheTTL = 10 * time.Minute
	}
	if c.Cache.ProfileCacheTTL == 0 {
		c.Cache.ProfileCacheTTL = time.Hour
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if len(c.Nostr.Relays) == 0 {
		c.Nostr.Relays = append([]string(nil), defaultRelays...)
	}
	// подсказки в naddr по умолчанию совпадают с релеями публикации
	if len(c.Nostr.RelayHints) == 0 {
		c.Nostr.RelayHints = append([]string(nil), c.Nostr.Relays...)
	}
	if c.Nostr.QueryTimeout == 0 {
		c.Nostr.QueryTimeout = 5000 * time.Millisecond
	}
	if c.Nostr.PublishTimeout == 0 {
		c.Nostr.PublishTimeout = 7000 * time.Millisecond
	}
	if c.Nostr.PublishRate == 0 {
		c.Nostr.PublishRate = 5
	}
	if c.Nostr.GeohashPrecision == 0 {
		c.Nostr.GeohashPrecision = 8
	}
	if c.Worker.ConsumerGroup == "" {
		c.Worker.ConsumerGroup = "place-index-workers"
	}
	if c.Worker.MaxRetries == 0 {
		c.Worker.MaxRetries = 3
	}
	if c.Worker.SyncLookback == 0 {
		c.Worker.SyncLookback = 24 * time.Hour
	}
}

func parseList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}

func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}
