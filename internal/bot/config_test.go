package bot

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

const validConfig = `
telegram:
  token: "12345:test-token"
database:
  host: localhost
  port: "5432"
  user: bot
  password: secret
  name: intakebot
openai:
  api_key: sk-test
`

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, validConfig))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Telegram.RunMode != "longpoll" {
		t.Fatalf("run_mode = %q, want longpoll default", cfg.Telegram.RunMode)
	}
	if cfg.OpenAI.Model != "gpt-3.5-turbo" {
		t.Fatalf("model = %q, want default", cfg.OpenAI.Model)
	}
	if cfg.OpenAI.Temperature != 0.7 || cfg.OpenAI.MaxTokens != 100 {
		t.Fatalf("openai defaults not applied: %+v", cfg.OpenAI)
	}
	if cfg.CoreConfig() == nil {
		t.Fatal("core config is nil")
	}
}

func TestLoadMissingToken(t *testing.T) {
	_, err := Load(writeConfig(t, `
openai:
  api_key: sk-test
`))
	if err == nil || !strings.Contains(err.Error(), "token") {
		t.Fatalf("expected token error, got %v", err)
	}
}

func TestLoadMissingAPIKey(t *testing.T) {
	_, err := Load(writeConfig(t, `
telegram:
  token: "12345:test-token"
`))
	if err == nil || !strings.Contains(err.Error(), "api_key") {
		t.Fatalf("expected api_key error, got %v", err)
	}
}

func TestLoadInvalidRunMode(t *testing.T) {
	_, err := Load(writeConfig(t, `
telegram:
  token: "12345:test-token"
  run_mode: carrier-pigeon
openai:
  api_key: sk-test
`))
	if err == nil {
		t.Fatal("expected run_mode error")
	}
}
