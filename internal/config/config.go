package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// AppConfig 汇总运行服务所需的基础配置。
type AppConfig struct {
	ListenAddr      string        `mapstructure:"listen_addr"`
	Port            string        `mapstructure:"port"`
	DatabasePath    string        `mapstructure:"database_path"`
	SessionSecret   string        `mapstructure:"session_secret"`
	GinMode         string        `mapstructure:"gin_mode"`
	StaticDir       string        `mapstructure:"static_dir"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	AIProvider      string        `mapstructure:"ai_provider"`
	OpenAIAPIKey    string        `mapstructure:"openai_api_key"`
	OpenAIModel     string        `mapstructure:"openai_model"`
	DeepSeekAPIKey  string        `mapstructure:"deepseek_api_key"`
	DeepSeekModel   string        `mapstructure:"deepseek_model"`
	ShareBucket     string        `mapstructure:"share_bucket"`
	ShareRegion     string        `mapstructure:"aws_region"`
}

var defaults = map[string]any{
	"port":             "3000",
	"listen_addr":      "",
	"database_path":    "mealstreak.db",
	"session_secret":   "mealstreak-dev-secret",
	"gin_mode":         "release",
	"static_dir":       "dist",
	"shutdown_timeout": "10s",
	"ai_provider":      "openai",
	"openai_api_key":   "",
	"openai_model":     "gpt-4o-mini",
	"deepseek_api_key": "",
	"deepseek_model":   "deepseek-chat",
	"share_bucket":     "",
	"aws_region":       "us-east-1",
}

// LoadFile 从环境变量读取应用配置，缺失项使用默认值。
// path 非空时额外读取一个 YAML/JSON 配置文件，环境变量优先。
func LoadFile(path string) (AppConfig, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
		// AutomaticEnv 只在 Get 时生效，Unmarshal 需要显式绑定
		if err := v.BindEnv(key, strings.ToUpper(key)); err != nil {
			return AppConfig{}, fmt.Errorf("bind env %s: %w", key, err)
		}
	}
	v.AutomaticEnv()

	if path = strings.TrimSpace(path); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return AppConfig{}, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	var cfg AppConfig
	decoderOption := viper.DecoderConfigOption(func(dc *mapstructure.DecoderConfig) {
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			dc.DecodeHook,
			mapstructure.StringToTimeDurationHookFunc(),
		)
	})
	if err := v.Unmarshal(&cfg, decoderOption); err != nil {
		return AppConfig{}, fmt.Errorf("decode config: %w", err)
	}

	return normalize(cfg), nil
}

func normalize(cfg AppConfig) AppConfig {
	cfg.Port = strings.TrimSpace(cfg.Port)
	if cfg.Port == "" {
		cfg.Port = "3000"
	}

	// 未指定监听地址时绑定所有网卡
	cfg.ListenAddr = strings.TrimSpace(cfg.ListenAddr)
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = fmt.Sprintf(":%s", cfg.Port)
	}

	cfg.DatabasePath = strings.TrimSpace(cfg.DatabasePath)
	if cfg.DatabasePath == "" {
		cfg.DatabasePath = "mealstreak.db"
	}

	cfg.SessionSecret = strings.TrimSpace(cfg.SessionSecret)
	if cfg.SessionSecret == "" {
		cfg.SessionSecret = "mealstreak-dev-secret"
	}

	cfg.GinMode = strings.TrimSpace(cfg.GinMode)
	if cfg.GinMode == "" {
		cfg.GinMode = "release"
	}

	cfg.StaticDir = strings.TrimSpace(cfg.StaticDir)
	if cfg.StaticDir == "" {
		cfg.StaticDir = "dist"
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}

	cfg.AIProvider = strings.ToLower(strings.TrimSpace(cfg.AIProvider))
	cfg.OpenAIAPIKey = strings.TrimSpace(cfg.OpenAIAPIKey)
	cfg.DeepSeekAPIKey = strings.TrimSpace(cfg.DeepSeekAPIKey)
	cfg.OpenAIModel = strings.TrimSpace(cfg.OpenAIModel)
	cfg.DeepSeekModel = strings.TrimSpace(cfg.DeepSeekModel)
	cfg.ShareBucket = strings.TrimSpace(cfg.ShareBucket)
	cfg.ShareRegion = strings.TrimSpace(cfg.ShareRegion)
	if cfg.ShareRegion == "" {
		cfg.ShareRegion = "us-east-1"
	}

	return cfg
}
