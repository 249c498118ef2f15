package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/learneye/internal/llm"
)

func noEnv(string) string { return "" }

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Chdir(dir)
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load(Options{Getenv: noEnv})
	require.NoError(t, err)

	assert.Equal(t, llm.ProviderGemini, cfg.LLM.Provider)
	assert.Equal(t, 3, cfg.LLM.Retry.MaxAttempts)
	assert.Equal(t, 90*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 3, cfg.Course.PassThreshold)
	assert.Equal(t, 5, cfg.Course.TotalQuestions)
	assert.Equal(t, 500, cfg.Course.XPReward)
	assert.Equal(t, 5, cfg.Content.QuestionsPerQuiz)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Empty(t, cfg.File)
	assert.False(t, cfg.Discovered)
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
llm:
  provider: openai
  openai:
    api_key: from-file
    model: gpt-4o
  timeout: 30s
course:
  xp_reward: 250
log:
  level: debug
`), 0o600))

	t.Setenv("LEARNEYE_LLM_OPENAI_MODEL", "gpt-4.1")
	t.Setenv("LEARNEYE_STORE_PATH", "/tmp/le.db")

	cfg, err := Load(Options{File: path, Getenv: noEnv})
	require.NoError(t, err)

	assert.Equal(t, path, cfg.File)
	assert.Equal(t, llm.ProviderOpenAI, cfg.LLM.Provider)
	assert.Equal(t, "from-file", cfg.LLM.OpenAI.APIKey)
	assert.Equal(t, "gpt-4.1", cfg.LLM.OpenAI.Model)
	assert.Equal(t, 30*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 250, cfg.Course.XPReward)
	assert.Equal(t, "/tmp/le.db", cfg.Store.Path)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_DiscoversProviderKey(t *testing.T) {
	isolate(t)
	env := map[string]string{"ANTHROPIC_API_KEY": "sk-ant"}

	cfg, err := Load(Options{Getenv: func(k string) string { return env[k] }})
	require.NoError(t, err)

	assert.True(t, cfg.Discovered)
	assert.Equal(t, llm.ProviderAnthropic, cfg.LLM.Provider)
	assert.Equal(t, "sk-ant", cfg.LLM.Anthropic.APIKey)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := isolate(t)
	envFile := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("LEARNEYE_COURSE_PASS_THRESHOLD=4\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("LEARNEYE_COURSE_PASS_THRESHOLD") })

	cfg, err := Load(Options{EnvFile: envFile, Getenv: noEnv})
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Course.PassThreshold)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	dir := isolate(t)
	_, err := Load(Options{File: filepath.Join(dir, "nope.yaml"), Getenv: noEnv})
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	isolate(t)
	cfg, err := Load(Options{Getenv: noEnv})
	require.NoError(t, err)

	cfg.Course.PassThreshold = 6
	assert.Error(t, cfg.Validate())

	cfg.Course.PassThreshold = 3
	cfg.Course.XPReward = -1
	assert.Error(t, cfg.Validate())
}
