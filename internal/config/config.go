// Package config loads application configuration from file and environment
// and owns global logger initialization.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	OpenAI    OpenAIConfig    `yaml:"openai" mapstructure:"openai"`
	Gemini    GeminiConfig    `yaml:"gemini" mapstructure:"gemini"`
	Ollama    OllamaConfig    `yaml:"ollama" mapstructure:"ollama"`
	Prompt    PromptConfig    `yaml:"prompt" mapstructure:"prompt"`
	Upload    UploadConfig    `yaml:"upload" mapstructure:"upload"`
	Dispatch  DispatchConfig  `yaml:"dispatch" mapstructure:"dispatch"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the report store backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	Path        string `yaml:"path" mapstructure:"path"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	Key       string `yaml:"key" mapstructure:"key"`
	Model     string `yaml:"model" mapstructure:"model"`
	MaxTokens int64  `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// OpenAIConfig holds OpenAI API settings.
type OpenAIConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	Model   string `yaml:"model" mapstructure:"model"`
}

// GeminiConfig holds Google Gemini API settings.
type GeminiConfig struct {
	Key   string `yaml:"key" mapstructure:"key"`
	Model string `yaml:"model" mapstructure:"model"`
}

// OllamaConfig holds local Ollama settings. Ollama is considered configured
// whenever a base URL is set; there is no API key.
type OllamaConfig struct {
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	Model   string `yaml:"model" mapstructure:"model"`
}

// PromptConfig configures the grading system prompt. Path overrides the
// embedded default; the prompt is read once at startup and injected into
// providers, never re-read per call.
type PromptConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// UploadConfig bounds incoming image uploads.
type UploadConfig struct {
	MaxFiles    int   `yaml:"max_files" mapstructure:"max_files"`
	MaxFileSize int64 `yaml:"max_file_size" mapstructure:"max_file_size"`
}

// DispatchConfig tunes resilience around provider calls.
type DispatchConfig struct {
	MaxAttempts      int     `yaml:"max_attempts" mapstructure:"max_attempts"`
	RatePerSecond    float64 `yaml:"rate_per_second" mapstructure:"rate_per_second"`
	RateBurst        int     `yaml:"rate_burst" mapstructure:"rate_burst"`
	BreakerThreshold int     `yaml:"breaker_threshold" mapstructure:"breaker_threshold"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("GRADER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults. API keys default to empty so env-only values bind through
	// AutomaticEnv without a config file entry.
	v.SetDefault("anthropic.key", "")
	v.SetDefault("openai.key", "")
	v.SetDefault("gemini.key", "")
	v.SetDefault("prompt.path", "")
	v.SetDefault("store.database_url", "")
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.path", "grader.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 5000)
	v.SetDefault("anthropic.model", "claude-3-5-sonnet-20241022")
	v.SetDefault("anthropic.max_tokens", 2000)
	v.SetDefault("openai.base_url", "https://api.openai.com/v1")
	v.SetDefault("openai.model", "gpt-4o")
	v.SetDefault("gemini.model", "gemini-1.5-flash")
	v.SetDefault("ollama.base_url", "http://localhost:11434")
	v.SetDefault("ollama.model", "llama3-vision")
	v.SetDefault("upload.max_files", 10)
	v.SetDefault("upload.max_file_size", 10*1024*1024)
	v.SetDefault("dispatch.max_attempts", 3)
	v.SetDefault("dispatch.rate_per_second", 2.0)
	v.SetDefault("dispatch.rate_burst", 4)
	v.SetDefault("dispatch.breaker_threshold", 5)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
