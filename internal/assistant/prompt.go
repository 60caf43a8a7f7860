package assistant

import (
	"fmt"
	"strings"

	"github.com/comigor/portfolio-chat/internal/config"
)

const defaultSystemPrompt = `You are the assistant on %[1]s's personal portfolio website.
Answer visitors' questions about %[1]s's skills, projects, career, design philosophy and how to get in touch.
Be accurate and concise. If you do not know something about %[1]s, say so instead of guessing.
Visitors can also restyle the page by asking (for example "change background to blue" or "make text bigger"); those requests are handled by the page itself, so just acknowledge them briefly when they appear alongside a question.`

// buildSystemPrompt combines the configured or default prompt, the owner's
// about text and any prompts discovered from MCP servers.
func buildSystemPrompt(llmCfg config.LLMConfig, portfolio config.PortfolioConfig, extra []string) string {
	owner := portfolio.Owner
	if owner == "" {
		owner = "the site owner"
	}

	var b strings.Builder
	if llmCfg.SystemPrompt != "" {
		b.WriteString(llmCfg.SystemPrompt)
	} else {
		fmt.Fprintf(&b, defaultSystemPrompt, owner)
	}
	if about := strings.TrimSpace(portfolio.About); about != "" {
		fmt.Fprintf(&b, "\n\nAbout %s:\n%s", owner, about)
	}
	for _, p := range extra {
		b.WriteString("\n\n")
		b.WriteString(p)
	}
	return b.String()
}
