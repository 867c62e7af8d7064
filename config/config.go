package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the application-wide configuration tree.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Log     LogConfig     `mapstructure:"log"`
	LLM     LLMConfig     `mapstructure:"llm"`
	Planner PlannerConfig `mapstructure:"planner"`
}

type ServerConfig struct {
	Port         int      `mapstructure:"port"`
	AllowOrigins []string `mapstructure:"allow_origins"`
}

type LogConfig struct {
	Mode string `mapstructure:"mode"`
}

// LLMConfig configures the YandexGPT completion client.
type LLMConfig struct {
	APIKey         string `mapstructure:"api_key"`
	FolderID       string `mapstructure:"folder_id"`
	BaseURL        string `mapstructure:"base_url"`
	Model          string `mapstructure:"model"`
	LiteModel      string `mapstructure:"lite_model"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	MaxRetries     int    `mapstructure:"max_retries"`
}

func (c LLMConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// PlannerConfig selects pipeline behavior that the source left as
// divergent variants.
type PlannerConfig struct {
	// TermPolicy is "round_robin" or "capacity".
	TermPolicy string `mapstructure:"term_policy"`
	// UseModelHours overlays model-suggested hours and assessment forms
	// on top of the deterministic defaults.
	UseModelHours bool `mapstructure:"use_model_hours"`
	// EnrichConcurrency bounds parallel enrichment calls; 1 reproduces
	// the sequential reference behavior.
	EnrichConcurrency int `mapstructure:"enrich_concurrency"`
}

// Load reads config.yaml (optional) and CURRICULA_* environment
// overrides.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allow_origins", []string{"http://localhost:3000"})
	v.SetDefault("log.mode", "development")
	v.SetDefault("llm.base_url", "https://llm.api.cloud.yandex.net")
	v.SetDefault("llm.model", "yandexgpt")
	v.SetDefault("llm.lite_model", "yandexgpt-lite")
	v.SetDefault("llm.timeout_seconds", 90)
	v.SetDefault("llm.max_retries", 3)
	v.SetDefault("planner.term_policy", "round_robin")
	v.SetDefault("planner.use_model_hours", false)
	v.SetDefault("planner.enrich_concurrency", 4)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if path != "" {
		v.AddConfigPath(path)
	}
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix("CURRICULA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}
