package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		EnvServerHost, EnvServerPort, EnvLLMAPIKey, EnvLLMBaseURL, EnvLLMModel,
		EnvLLMTemperature, EnvLLMTimeout, EnvMailUser, EnvMailPassword,
		EnvSMTPHost, EnvSMTPPort, EnvSMTPInsecure, EnvSMTPTimeout, EnvMetricsAddr,
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, "https://api.groq.com/openai/v1", cfg.LLM.BaseURL)
	assert.InDelta(t, 0.7, cfg.LLM.Temperature, 1e-9)
	assert.ElementsMatch(t, []string{EnvLLMAPIKey, EnvMailUser, EnvMailPassword}, cfg.Missing())
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 8080
llm:
  model: llama3-70b-8192
  timeout: 45s
mail:
  user: file@example.com
  port: 465
`), 0o600))

	t.Setenv(EnvMailUser, "env@example.com")
	t.Setenv(EnvLLMTemperature, "0.2")
	t.Setenv(EnvSMTPInsecure, "false")
	t.Setenv(EnvSMTPTimeout, "90s")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "llama3-70b-8192", cfg.LLM.Model)
	assert.Equal(t, 45*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 465, cfg.Mail.Port)
	assert.Equal(t, "env@example.com", cfg.Mail.User)
	assert.InDelta(t, 0.2, cfg.LLM.Temperature, 1e-9)
	assert.False(t, cfg.Mail.InsecureTLS)
	assert.Equal(t, 90*time.Second, cfg.Mail.Timeout)
	assert.Equal(t, "smtp.gmail.com", cfg.Mail.Host)
}

// The example file documents every default; keep it in step with Default.
func TestLoad_ExampleFileMatchesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join("..", "..", "config.example.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_InvalidEnv(t *testing.T) {
	for _, key := range []string{EnvServerPort, EnvSMTPTimeout} {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, "not-a-number")

			_, err := Load("")
			require.Error(t, err)
			assert.Contains(t, err.Error(), key)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)

	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("EMAIL_USER=dotenv@example.com\nGROQ_API_KEY=gsk_test\n"), 0o600))

	// godotenv does not override variables that are already set, and
	// t.Setenv("") counts as set, so unset them first.
	require.NoError(t, os.Unsetenv(EnvMailUser))
	require.NoError(t, os.Unsetenv(EnvLLMAPIKey))
	t.Cleanup(func() {
		_ = os.Unsetenv(EnvMailUser)
		_ = os.Unsetenv(EnvLLMAPIKey)
	})

	require.NoError(t, LoadDotEnv(path, filepath.Join(dir, "missing.env")))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "dotenv@example.com", cfg.Mail.User)
	assert.Equal(t, "gsk_test", cfg.LLM.APIKey)
	assert.Equal(t, []string{EnvMailPassword}, cfg.Missing())
}
