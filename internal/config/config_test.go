package config

import (
	"os"
	"testing"
	"time"
)

const sampleConfig = `
llm:
  provider: openai
  base_url: https://api.example.com
  api_key: dummy
  model: gpt-4o
server:
  host: 127.0.0.1
  port: "9090"
  api_key: shared
widget:
  assistant_url: http://localhost:9090
  timeout: 5s
mcp_servers:
  - name: portfolio-data
    type: stdio
    command: ./mock
    args: ["--flag"]
    env:
      FOO: bar
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	tmp, err := os.CreateTemp(t.TempDir(), "cfg-*.yaml")
	if err != nil {
		t.Fatalf("temp file: %v", err)
	}
	if _, err := tmp.WriteString(body); err != nil {
		t.Fatalf("write: %v", err)
	}
	tmp.Close()
	return tmp.Name()
}

// TestLoad_File verifies that Load unmarshals every section of the file.
func TestLoad_File(t *testing.T) {
	t.Setenv("CONFIG_PATH", writeConfig(t, sampleConfig))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server.Port != "9090" || cfg.Server.APIKey != "shared" {
		t.Fatalf("unexpected server config: %+v", cfg.Server)
	}
	if cfg.Widget.Timeout != 5*time.Second {
		t.Fatalf("unexpected widget timeout: %v", cfg.Widget.Timeout)
	}
	if cfg.LLM.HistoryLimit != 10 {
		t.Fatalf("default history limit not applied: %d", cfg.LLM.HistoryLimit)
	}
	if len(cfg.MCPServers) != 1 {
		t.Fatalf("expected 1 server, got %d", len(cfg.MCPServers))
	}
	s := cfg.MCPServers[0]
	if s.Type != ClientTypeStdio {
		t.Fatalf("expected type stdio, got %s", s.Type)
	}
	if len(s.Args) != 1 || s.Args[0] != "--flag" {
		t.Fatalf("unexpected args: %v", s.Args)
	}
	// viper lowercases map keys.
	if v := s.Env["foo"]; v != "bar" {
		t.Fatalf("env not parsed: %v", s.Env)
	}
}

// TestLoad_EnvOverride verifies PORTFOLIO_* variables win over the file.
func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("CONFIG_PATH", writeConfig(t, sampleConfig))
	t.Setenv("PORTFOLIO_SERVER_PORT", "7070")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server.Port != "7070" {
		t.Fatalf("env override ignored: %s", cfg.Server.Port)
	}
}

// TestLoad_MissingFileUsesDefaults verifies defaults apply without a config file.
func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CONFIG_PATH", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server.Port != "8080" || cfg.Portfolio.Owner != "Henry" {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
}
