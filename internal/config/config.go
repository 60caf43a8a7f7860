package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. PORTFOLIO_SERVER_PORT.
const EnvPrefix = "PORTFOLIO"

// ClientType selects how an MCP server is reached.
type ClientType string

const (
	ClientTypeSSE            ClientType = "sse"
	ClientTypeStreamableHTTP ClientType = "streamable_http"
	ClientTypeStdio          ClientType = "stdio"
)

// Config holds the application configuration
type Config struct {
	LLM        LLMConfig
	Server     ServerConfig
	Widget     WidgetConfig
	History    HistoryConfig
	Portfolio  PortfolioConfig
	Log        LogConfig
	MCPServers []MCPServerConfig `mapstructure:"mcp_servers"`
}

// LLMConfig holds the LLM configuration
type LLMConfig struct {
	Provider     string `mapstructure:"provider"`
	BaseURL      string `mapstructure:"base_url"`
	APIKey       string `mapstructure:"api_key"`
	Model        string `mapstructure:"model"`
	SystemPrompt string `mapstructure:"system_prompt"`
	HistoryLimit int    `mapstructure:"history_limit"`
	MaxTurns     int    `mapstructure:"max_turns"`
}

// ServerConfig holds the assistant endpoint configuration
type ServerConfig struct {
	Host   string `mapstructure:"host"`
	Port   string `mapstructure:"port"`
	APIKey string `mapstructure:"api_key"`
}

// WidgetConfig configures the terminal chat widget and its remote client.
type WidgetConfig struct {
	AssistantURL string        `mapstructure:"assistant_url"`
	APIKey       string        `mapstructure:"api_key"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

// PortfolioConfig describes the person the site and the assistant speak for.
type PortfolioConfig struct {
	Owner string `mapstructure:"owner"`
	About string `mapstructure:"about"`
}

// HistoryConfig locates the sqlite history database.
type HistoryConfig struct {
	DBPath string `mapstructure:"db_path"`
}

// LogConfig holds logging options.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// MCPServerConfig describes one MCP server offering tools to the assistant.
type MCPServerConfig struct {
	Name    string            `mapstructure:"name"`
	Type    ClientType        `mapstructure:"type"`
	URL     string            `mapstructure:"url"`
	Command string            `mapstructure:"command"`
	Args    []string          `mapstructure:"args"`
	Env     map[string]string `mapstructure:"env"`
	Headers map[string]string `mapstructure:"headers"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("llm.provider", "openai")
	v.SetDefault("llm.base_url", "https://api.openai.com/v1")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.model", "gpt-4o-mini")
	v.SetDefault("llm.system_prompt", "")
	v.SetDefault("llm.history_limit", 10)
	v.SetDefault("llm.max_turns", 5)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.api_key", "")
	v.SetDefault("widget.assistant_url", "http://localhost:8080")
	v.SetDefault("widget.api_key", "")
	v.SetDefault("widget.timeout", "30s")
	v.SetDefault("portfolio.owner", "Henry")
	v.SetDefault("portfolio.about", "")
	v.SetDefault("history.db_path", "history.db")
	v.SetDefault("log.level", "info")
}

// Load reads config.yaml from the working directory, or the file named by
// CONFIG_PATH. A missing file is not an error; defaults and PORTFOLIO_*
// environment variables still apply.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
