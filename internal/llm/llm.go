package llm

import (
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/comigor/portfolio-chat/internal/config"
)

// NewClient creates an OpenAI-compatible client. Provider "azure" switches
// to Azure OpenAI authentication; anything else is treated as OpenAI or a
// server speaking its API at BaseURL.
func NewClient(cfg config.LLMConfig) *openai.Client {
	if strings.EqualFold(cfg.Provider, "azure") {
		return openai.NewClientWithConfig(openai.DefaultAzureConfig(cfg.APIKey, cfg.BaseURL))
	}

	c := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		c.BaseURL = cfg.BaseURL
	}
	return openai.NewClientWithConfig(c)
}
