// Package config loads service configuration from struct defaults, an
// optional YAML file and the environment, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const ConfigPathEnvVar = "CONFIG_PATH"

var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
}

type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Database   DatabaseConfig   `koanf:"database"`
	Redis      RedisConfig      `koanf:"redis"`
	Kakao      KakaoConfig      `koanf:"kakao"`
	Library    LibraryConfig    `koanf:"library"`
	Overpass   OverpassConfig   `koanf:"overpass"`
	Graph      GraphConfig      `koanf:"graph"`
	Routing    RoutingConfig    `koanf:"routing"`
	Facilities FacilitiesConfig `koanf:"facilities"`
	Log        LogConfig        `koanf:"log"`
}

type ServerConfig struct {
	Port               int      `koanf:"port" validate:"min=1,max=65535"`
	CORSOrigins        []string `koanf:"cors_origins"`
	RateLimitPerMinute int      `koanf:"rate_limit_per_minute" validate:"min=0"`
}

type DatabaseConfig struct {
	URL string `koanf:"url"`
}

type RedisConfig struct {
	Addr     string        `koanf:"addr"`
	Password string        `koanf:"password"`
	DB       int           `koanf:"db" validate:"min=0"`
	GraphTTL time.Duration `koanf:"graph_ttl" validate:"min=0"`
}

type KakaoConfig struct {
	APIKey  string `koanf:"api_key"`
	BaseURL string `koanf:"base_url" validate:"required,url"`
}

type LibraryConfig struct {
	APIKey   string `koanf:"api_key"`
	BaseURL  string `koanf:"base_url" validate:"required,url"`
	PageSize int    `koanf:"page_size" validate:"min=1,max=1000"`
}

type OverpassConfig struct {
	URL               string        `koanf:"url" validate:"required,url"`
	RequestsPerMinute int           `koanf:"requests_per_minute" validate:"min=0"`
	Timeout           time.Duration `koanf:"timeout" validate:"min=0"`
}

type GraphConfig struct {
	Source          string  `koanf:"source" validate:"oneof=overpass pbf file"`
	PBFPath         string  `koanf:"pbf_path" validate:"required_if=Source pbf"`
	FilePath        string  `koanf:"file_path" validate:"required_if=Source file"`
	RadiusFactor    float64 `koanf:"radius_factor" validate:"gt=0"`
	MinRadiusMeters float64 `koanf:"min_radius_meters" validate:"gt=0"`
}

type RoutingConfig struct {
	DefaultSpeedKmh float64       `koanf:"default_speed_kmh" validate:"gt=0"`
	SearchTimeout   time.Duration `koanf:"search_timeout" validate:"min=0"`
}

type FacilitiesConfig struct {
	Source string `koanf:"source" validate:"oneof=api db"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format" validate:"oneof=json console"`
}

func defaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Port:               8000,
			CORSOrigins:        []string{"*"},
			RateLimitPerMinute: 120,
		},
		Redis: RedisConfig{
			GraphTTL: 6 * time.Hour,
		},
		Kakao: KakaoConfig{
			BaseURL: "https://dapi.kakao.com",
		},
		Library: LibraryConfig{
			BaseURL:  "http://data4library.kr/api",
			PageSize: 200,
		},
		Overpass: OverpassConfig{
			URL:               "https://overpass-api.de/api/interpreter",
			RequestsPerMinute: 30,
			Timeout:           60 * time.Second,
		},
		Graph: GraphConfig{
			Source:          "overpass",
			RadiusFactor:    1.5,
			MinRadiusMeters: 500,
		},
		Routing: RoutingConfig{
			DefaultSpeedKmh: 4.5,
			SearchTimeout:   10 * time.Second,
		},
		Facilities: FacilitiesConfig{
			Source: "api",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// envKeys maps environment variable names to config keys. Variables not
// listed here are ignored.
var envKeys = map[string]string{
	"port":                      "server.port",
	"cors_origins":              "server.cors_origins",
	"rate_limit_per_minute":     "server.rate_limit_per_minute",
	"database_url":              "database.url",
	"redis_addr":                "redis.addr",
	"redis_password":            "redis.password",
	"redis_db":                  "redis.db",
	"redis_graph_ttl":           "redis.graph_ttl",
	"kakao_api_key":             "kakao.api_key",
	"kakao_base_url":            "kakao.base_url",
	"library_api_key":           "library.api_key",
	"library_base_url":          "library.base_url",
	"library_page_size":         "library.page_size",
	"overpass_url":              "overpass.url",
	"overpass_requests_per_min": "overpass.requests_per_minute",
	"overpass_timeout":          "overpass.timeout",
	"graph_source":              "graph.source",
	"graph_pbf_path":            "graph.pbf_path",
	"graph_file_path":           "graph.file_path",
	"graph_radius_factor":       "graph.radius_factor",
	"graph_min_radius_meters":   "graph.min_radius_meters",
	"routing_default_speed_kmh": "routing.default_speed_kmh",
	"routing_search_timeout":    "routing.search_timeout",
	"facilities_source":         "facilities.source",
	"log_level":                 "log.level",
	"log_format":                "log.format",
}

func envTransform(key string) string {
	return envKeys[strings.ToLower(key)]
}

// Load builds the configuration. Environment variables win over the YAML
// file, which wins over defaults.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load config: defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config: file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("load config: environment: %w", err)
	}

	// Comma-separated origins arrive from the environment as one string.
	if raw, ok := k.Get("server.cors_origins").(string); ok {
		if err := k.Set("server.cors_origins", splitList(raw)); err != nil {
			return nil, fmt.Errorf("load config: cors origins: %w", err)
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("load config: unmarshal: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		return p
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
