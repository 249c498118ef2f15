// Package config loads settings from defaults, an optional YAML file, a
// .env file and LEARNEYE_ environment variables, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/abhisek/learneye/internal/content"
	"github.com/abhisek/learneye/internal/course"
	"github.com/abhisek/learneye/internal/llm"
	"github.com/abhisek/learneye/internal/logging"
)

// EnvPrefix is prepended to every environment override, e.g.
// LEARNEYE_LLM_PROVIDER or LEARNEYE_STORE_PATH.
const EnvPrefix = "LEARNEYE"

// Config is the complete application configuration.
type Config struct {
	LLM     llm.Config     `mapstructure:"llm"`
	Store   StoreConfig    `mapstructure:"store"`
	Log     logging.Config `mapstructure:"log"`
	Course  course.Policy  `mapstructure:"course"`
	Content content.Config `mapstructure:"content"`

	// File is the config file that was read, if any.
	File string `mapstructure:"-"`

	// Discovered is set when the LLM provider came from a conventional
	// API key variable instead of explicit configuration.
	Discovered bool `mapstructure:"-"`
}

// StoreConfig locates the database.
type StoreConfig struct {
	Path string `mapstructure:"path"`
}

// Options override where configuration is read from.
type Options struct {
	// File is an explicit config file. Empty means the default location,
	// which may be absent.
	File string

	// EnvFile is loaded into the process environment first. Defaults to
	// ".env"; a missing file is ignored.
	EnvFile string

	// Getenv defaults to os.Getenv.
	Getenv func(string) string
}

// DefaultPath returns $XDG_CONFIG_HOME/learneye/config.yaml, falling back
// to ~/.config.
func DefaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "learneye", "config.yaml")
}

// Load resolves the configuration.
func Load(opts Options) (*Config, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}
	getenv := opts.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	file := opts.File
	explicit := file != ""
	if !explicit {
		file = DefaultPath()
	}
	v.SetConfigFile(file)
	v.SetConfigType("yaml")

	readFile := ""
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound), !explicit && errors.Is(err, fs.ErrNotExist):
		default:
			return nil, fmt.Errorf("read config %s: %w", file, err)
		}
	} else {
		readFile = v.ConfigFileUsed()
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.File = readFile
	cfg.Content.QuestionsPerQuiz = cfg.Course.TotalQuestions

	if !cfg.LLM.HasKey() {
		if found, ok := cfg.LLM.Discover(getenv); ok {
			cfg.LLM = found
			cfg.Discovered = true
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks settings that do not depend on credentials. A missing
// API key is reported by llm.Config.Validate when the provider is built.
func (c *Config) Validate() error {
	if c.Course.TotalQuestions < 1 {
		return fmt.Errorf("course.total_questions must be positive, got %d", c.Course.TotalQuestions)
	}
	if c.Course.PassThreshold < 1 || c.Course.PassThreshold > c.Course.TotalQuestions {
		return fmt.Errorf("course.pass_threshold must be between 1 and %d, got %d",
			c.Course.TotalQuestions, c.Course.PassThreshold)
	}
	if c.Course.XPReward < 0 {
		return fmt.Errorf("course.xp_reward must not be negative, got %d", c.Course.XPReward)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	l := llm.DefaultConfig()
	v.SetDefault("llm.provider", l.Provider)
	v.SetDefault("llm.gemini.api_key", "")
	v.SetDefault("llm.gemini.model", l.Gemini.Model)
	v.SetDefault("llm.openai.api_key", "")
	v.SetDefault("llm.openai.model", l.OpenAI.Model)
	v.SetDefault("llm.openai.base_url", "")
	v.SetDefault("llm.anthropic.api_key", "")
	v.SetDefault("llm.anthropic.model", l.Anthropic.Model)
	v.SetDefault("llm.openrouter.api_key", "")
	v.SetDefault("llm.openrouter.model", l.OpenRouter.Model)
	v.SetDefault("llm.openrouter.base_url", "")
	v.SetDefault("llm.retry.max_attempts", l.Retry.MaxAttempts)
	v.SetDefault("llm.retry.initial_wait", l.Retry.InitialWait)
	v.SetDefault("llm.retry.max_wait", l.Retry.MaxWait)
	v.SetDefault("llm.retry.multiplier", l.Retry.Multiplier)
	v.SetDefault("llm.timeout", l.Timeout)

	v.SetDefault("store.path", "")

	lg := logging.DefaultConfig()
	v.SetDefault("log.level", lg.Level)
	v.SetDefault("log.file", lg.File)
	v.SetDefault("log.max_size_mb", lg.MaxSizeMB)
	v.SetDefault("log.max_backups", lg.MaxBackups)
	v.SetDefault("log.max_age_days", lg.MaxAgeDays)

	p := course.DefaultPolicy()
	v.SetDefault("course.pass_threshold", p.PassThreshold)
	v.SetDefault("course.total_questions", p.TotalQuestions)
	v.SetDefault("course.xp_reward", p.XPReward)

	c := content.DefaultConfig()
	v.SetDefault("content.course_max_tokens", c.CourseMaxTokens)
	v.SetDefault("content.tutor_max_tokens", c.TutorMaxTokens)
	v.SetDefault("content.temperature", c.Temperature)
}
