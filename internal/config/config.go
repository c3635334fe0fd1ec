package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Cache      CacheConfig
	Log        LogConfig
	Amap       AmapConfig
	GoogleMaps GoogleMapsConfig
	Maps       MapsConfig
	Enrichment EnrichmentConfig
	Editor     EditorConfig
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
	AutoMigrate     bool
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CacheConfig struct {
	SearchCacheTTL time.Duration
}

type LogConfig struct {
	Level string
}

// AmapConfig - внутренний провайдер (Gaode)
type AmapConfig struct {
	APIKey       string
	SecurityCode string
	BaseURL      string
	LoaderURL    string
	Version      string
	City         string
}

// GoogleMapsConfig - международный провайдер
type GoogleMapsConfig struct {
	APIKey    string
	BaseURL   string
	PlacesURL string
	LoaderURL string
	MapID     string
}

// MapsConfig - общие параметры HTTP-клиентов провайдеров
type MapsConfig struct {
	RequestTimeout time.Duration
	LoadAttempts   int
	LoadInterval   time.Duration
}

type EnrichmentConfig struct {
	BaseURL        string
	RequestTimeout time.Duration
}

type EditorConfig struct {
	DetailZoom    int
	SessionTTL    time.Duration
	SweepInterval time.Duration
}

func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// .env не обязателен: в контейнере все приходит из окружения
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
			AutoMigrate:     viper.GetBool("DB_AUTO_MIGRATE"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetInt("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Cache: CacheConfig{
			SearchCacheTTL: time.Duration(viper.GetInt("SEARCH_CACHE_TTL")) * time.Second,
		},
		Log: LogConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
		Amap: AmapConfig{
			APIKey:       viper.GetString("AMAP_API_KEY"),
			SecurityCode: viper.GetString("AMAP_SECURITY_CODE"),
			BaseURL:      viper.GetString("AMAP_BASE_URL"),
			LoaderURL:    viper.GetString("AMAP_LOADER_URL"),
			Version:      viper.GetString("AMAP_VERSION"),
			City:         viper.GetString("AMAP_CITY"),
		},
		GoogleMaps: GoogleMapsConfig{
			APIKey:    viper.GetString("GOOGLE_MAPS_API_KEY"),
			BaseURL:   viper.GetString("GOOGLE_MAPS_BASE_URL"),
			PlacesURL: viper.GetString("GOOGLE_PLACES_URL"),
			LoaderURL: viper.GetString("GOOGLE_LOADER_URL"),
			MapID:     viper.GetString("GOOGLE_MAP_ID"),
		},
		Maps: MapsConfig{
			RequestTimeout: time.Duration(viper.GetInt("MAPS_REQUEST_TIMEOUT")) * time.Second,
			LoadAttempts:   viper.GetInt("MAPS_LOAD_ATTEMPTS"),
			LoadInterval:   time.Duration(viper.GetInt("MAPS_LOAD_INTERVAL_MS")) * time.Millisecond,
		},
		Enrichment: EnrichmentConfig{
			BaseURL:        viper.GetString("ENRICHMENT_BASE_URL"),
			RequestTimeout: time.Duration(viper.GetInt("ENRICHMENT_TIMEOUT")) * time.Second,
		},
		Editor: EditorConfig{
			DetailZoom:    viper.GetInt("EDITOR_DETAIL_ZOOM"),
			SessionTTL:    time.Duration(viper.GetInt("EDITOR_SESSION_TTL")) * time.Second,
			SweepInterval: time.Duration(viper.GetInt("EDITOR_SWEEP_INTERVAL")) * time.Second,
		},
	}

	cfg.applyDefaults()

	return cfg, nil
}

// applyDefaults - значения по умолчанию для незаданных параметров
func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.Env == "" {
		c.Server.Env = "development"
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.MaxConns == 0 {
		c.Database.MaxConns = 10
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Cache.SearchCacheTTL == 0 {
		c.Cache.SearchCacheTTL = 10 * time.Minute
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}

	if c.Amap.BaseURL == "" {
		c.Amap.BaseURL = "https://restapi.amap.com"
	}
	if c.Amap.LoaderURL == "" {
		c.Amap.LoaderURL = "https://webapi.amap.com/maps"
	}
	if c.Amap.Version == "" {
		c.Amap.Version = "1.4.15"
	}
	if c.Amap.City == "" {
		c.Amap.City = "全国"
	}

	if c.GoogleMaps.BaseURL == "" {
		c.GoogleMaps.BaseURL = "https://maps.googleapis.com"
	}
	if c.GoogleMaps.PlacesURL == "" {
		c.GoogleMaps.PlacesURL = "https://places.googleapis.com"
	}
	if c.GoogleMaps.LoaderURL == "" {
		c.GoogleMaps.LoaderURL = "https://maps.googleapis.com/maps/api/js"
	}

	if c.Maps.RequestTimeout == 0 {
		c.Maps.RequestTimeout = 10 * time.Second
	}
	if c.Maps.LoadAttempts == 0 {
		c.Maps.LoadAttempts = 60
	}
	if c.Maps.LoadInterval == 0 {
		c.Maps.LoadInterval = 100 * time.Millisecond
	}

	if c.Enrichment.RequestTimeout == 0 {
		c.Enrichment.RequestTimeout = 30 * time.Second
	}

	if c.Editor.DetailZoom == 0 {
		c.Editor.DetailZoom = 15
	}
	if c.Editor.SessionTTL == 0 {
		c.Editor.SessionTTL = 2 * time.Hour
	}
	if c.Editor.SweepInterval == 0 {
		c.Editor.SweepInterval = time.Minute
	}
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// DSN - строка подключения к хранилищу поездок
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// Addr - адрес Redis в виде host:port
func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
