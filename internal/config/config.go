package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig
	Redis  RedisConfig
	Cache  CacheConfig
	Log    LogConfig
	Google GoogleConfig
	Search SearchConfig
	Worker WorkerConfig
}

type ServerConfig struct {
	Host string
	Port int
	Env  string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CacheConfig struct {
	GeocodeCacheTTL      time.Duration
	SearchResultCacheTTL time.Duration
}

type LogConfig struct {
	Level string
}

// GoogleConfig holds Google Maps Platform API settings.
type GoogleConfig struct {
	APIKey            string
	GeocodeURL        string
	NearbySearchURL   string
	TextSearchURL     string
	RequestTimeout    time.Duration
	PageTokenDelay    time.Duration
	NearbyPageLimit   int
	TextPageLimit     int
	RequestsPerSecond int
}

type SearchConfig struct {
	WorkerPoolSize      int
	DefaultRadiusMeters int
	MaxRadiusMeters     int
}

type WorkerConfig struct {
	Enabled       bool
	ConsumerGroup string
	MaxBatchSize  int
	MaxRetries    int
}

func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	// .env is optional, environment variables take over when it is absent
	_ = viper.ReadInConfig()

	cfg := &Config{
		Server: ServerConfig{
			Host: viper.GetString("API_HOST"),
			Port: viper.GetInt("API_PORT"),
			Env:  viper.GetString("API_ENV"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetInt("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Cache: CacheConfig{
			GeocodeCacheTTL:      time.Duration(viper.GetInt("GEOCODE_CACHE_TTL")) * time.Second,
			SearchResultCacheTTL: time.Duration(viper.GetInt("SEARCH_RESULT_CACHE_TTL")) * time.Second,
		},
		Log: LogConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
		Google: GoogleConfig{
			APIKey:            viper.GetString("GOOGLE_API_KEY"),
			GeocodeURL:        viper.GetString("GOOGLE_GEOCODE_URL"),
			NearbySearchURL:   viper.GetString("GOOGLE_NEARBY_URL"),
			TextSearchURL:     viper.GetString("GOOGLE_TEXTSEARCH_URL"),
			RequestTimeout:    time.Duration(viper.GetInt("GOOGLE_REQUEST_TIMEOUT")) * time.Second,
			PageTokenDelay:    time.Duration(viper.GetInt("GOOGLE_PAGETOKEN_DELAY_MS")) * time.Millisecond,
			NearbyPageLimit:   viper.GetInt("GOOGLE_NEARBY_PAGE_LIMIT"),
			TextPageLimit:     viper.GetInt("GOOGLE_TEXT_PAGE_LIMIT"),
			RequestsPerSecond: viper.GetInt("GOOGLE_REQUESTS_PER_SECOND"),
		},
		Search: SearchConfig{
			WorkerPoolSize:      viper.GetInt("SEARCH_WORKER_POOL_SIZE"),
			DefaultRadiusMeters: viper.GetInt("SEARCH_DEFAULT_RADIUS_METERS"),
			MaxRadiusMeters:     viper.GetInt("SEARCH_MAX_RADIUS_METERS"),
		},
		Worker: WorkerConfig{
			Enabled:       viper.GetBool("WORKER_ENABLED"),
			ConsumerGroup: viper.GetString("WORKER_CONSUMER_GROUP"),
			MaxBatchSize:  viper.GetInt("WORKER_MAX_BATCH_SIZE"),
			MaxRetries:    viper.GetInt("WORKER_MAX_RETRIES"),
		},
	}

	// Set default values if not provided
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Google.GeocodeURL == "" {
		cfg.Google.GeocodeURL = "https://maps.googleapis.com/maps/api/geocode/json"
	}
	if cfg.Google.NearbySearchURL == "" {
		cfg.Google.NearbySearchURL = "https://maps.googleapis.com/maps/api/place/nearbysearch/json"
	}
	if cfg.Google.TextSearchURL == "" {
		cfg.Google.TextSearchURL = "https://maps.googleapis.com/maps/api/place/textsearch/json"
	}
	if cfg.Google.RequestTimeout == 0 {
		cfg.Google.RequestTimeout = 10 * time.Second
	}
	if cfg.Google.PageTokenDelay == 0 {
		// Google activates next_page_token asynchronously, immediate reuse fails
		cfg.Google.PageTokenDelay = 2 * time.Second
	}
	if cfg.Google.NearbyPageLimit == 0 {
		cfg.Google.NearbyPageLimit = 3
	}
	if cfg.Google.TextPageLimit == 0 {
		cfg.Google.TextPageLimit = 1
	}
	if cfg.Google.RequestsPerSecond == 0 {
		cfg.Google.RequestsPerSecond = 10
	}
	if cfg.Search.WorkerPoolSize == 0 {
		cfg.Search.WorkerPoolSize = 4
	}
	if cfg.Search.DefaultRadiusMeters == 0 {
		cfg.Search.DefaultRadiusMeters = 1609
	}
	if cfg.Search.MaxRadiusMeters == 0 {
		cfg.Search.MaxRadiusMeters = 50000
	}
	if cfg.Cache.GeocodeCacheTTL == 0 {
		cfg.Cache.GeocodeCacheTTL = 24 * time.Hour
	}
	if cfg.Cache.SearchResultCacheTTL == 0 {
		cfg.Cache.SearchResultCacheTTL = time.Hour
	}
	if cfg.Worker.ConsumerGroup == "" {
		cfg.Worker.ConsumerGroup = "prospect-discovery-workers"
	}
	if cfg.Worker.MaxBatchSize == 0 {
		cfg.Worker.MaxBatchSize = 10
	}
	if cfg.Worker.MaxRetries == 0 {
		cfg.Worker.MaxRetries = 3
	}

	return cfg, nil
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}
