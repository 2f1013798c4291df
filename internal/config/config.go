package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultTimezone  = "UTC"
	configPathEnv    = "ARTICLE_COMPOSER_CONFIG"
	databaseDSNEnv   = "DATABASE_DSN"
	databaseDriveEnv = "DATABASE_DRIVER"
	llmAPIKeyEnv     = "LLM_API_KEY"
	llmModelEnv      = "LLM_MODEL"
	imageAPIKeyEnv   = "IMAGE_API_KEY"
	authorIDEnv      = "ARTICLE_AUTHOR_ID"
	telegramTokenEnv = "TELEGRAM_BOT_TOKEN"
	telegramChatEnv  = "TELEGRAM_CHAT_ID"
	logLevelEnv      = "LOG_LEVEL"
)

// Config holds high-level settings required across the application.
type Config struct {
	Database      DatabaseConfig     `yaml:"database"`
	Schedule      ScheduleConfig     `yaml:"schedule"`
	Generator     GeneratorConfig    `yaml:"generator"`
	Images        ImagesConfig       `yaml:"images"`
	Session       SessionConfig      `yaml:"session"`
	Notifications NotificationConfig `yaml:"notifications"`
	Metrics       MetricsConfig      `yaml:"metrics"`
	Logging       LoggingConfig      `yaml:"logging"`
	LockPath      string             `yaml:"lockPath"`
}

// DatabaseConfig describes the article store connection.
type DatabaseConfig struct {
	Driver string `yaml:"driver"` // postgres | sqlite
	DSN    string `yaml:"dsn"`
}

// ScheduleConfig defines how auto-scheduled articles are spaced.
type ScheduleConfig struct {
	IntervalDays int            `yaml:"intervalDays"`
	Timezone     string         `yaml:"timezone"`
	location     *time.Location `yaml:"-"`
}

// Interval converts IntervalDays to a duration.
func (s ScheduleConfig) Interval() time.Duration {
	if s.IntervalDays <= 0 {
		return 7 * 24 * time.Hour
	}
	return time.Duration(s.IntervalDays) * 24 * time.Hour
}

// Location resolves the schedule timezone string to a time.Location.
func (s ScheduleConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// GeneratorConfig defines how to contact the OpenAI-compatible API.
type GeneratorConfig struct {
	Endpoint          string  `yaml:"endpoint"`
	Model             string  `yaml:"model"`
	APIKey            string  `yaml:"apiKey"`
	SystemPrompt      string  `yaml:"systemPrompt"`
	TimeoutSeconds    int     `yaml:"timeoutSeconds"`
	RequestsPerMinute float64 `yaml:"requestsPerMinute"`
}

// ImagesConfig selects and configures the image search backend.
type ImagesConfig struct {
	Provider string `yaml:"provider"` // api | html | static
	Endpoint string `yaml:"endpoint"`
	APIKey   string `yaml:"apiKey"`
	Selector string `yaml:"selector"`
	// Placeholder is the static backend's answer and the image used when search fails.
	Placeholder string `yaml:"placeholder"`
}

// SessionConfig carries the operator identity used as author_id.
type SessionConfig struct {
	AuthorID string `yaml:"authorId"`
}

// NotificationConfig encapsulates outbound channels (Telegram, etc.).
type NotificationConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
}

// TelegramConfig wires all data required to send messages.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
}

// MetricsConfig optionally pushes run metrics to a Prometheus Pushgateway.
type MetricsConfig struct {
	PushgatewayURL string `yaml:"pushgatewayUrl"`
	Job            string `yaml:"job"`
}

// LoggingConfig controls the slog level.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads YAML configuration (if present), .env files and applies
// environment overrides.
func Load() Config {
	return LoadFile(os.Getenv(configPathEnv))
}

// LoadFile is Load with an explicit YAML path; empty means defaults only.
func LoadFile(path string) Config {
	cfg := defaultConfig()

	if path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	// A missing .env is the normal case in production.
	_ = godotenv.Load()

	cfg.applyEnvOverrides()
	cfg.bindTimezone()

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv(databaseDriveEnv); v != "" {
		c.Database.Driver = strings.ToLower(v)
	}

	if v := os.Getenv(llmAPIKeyEnv); v != "" {
		c.Generator.APIKey = v
	}
	if v := os.Getenv(llmModelEnv); v != "" {
		c.Generator.Model = v
	}

	if v := os.Getenv(imageAPIKeyEnv); v != "" {
		c.Images.APIKey = v
	}

	if v := os.Getenv(authorIDEnv); v != "" {
		c.Session.AuthorID = v
	}

	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Notifications.Telegram.BotToken = v
	}
	if v := os.Getenv(telegramChatEnv); v != "" {
		c.Notifications.Telegram.ChatID = v
	}

	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}
}

func (c *Config) bindTimezone() {
	tz := c.Schedule.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to %s", tz, defaultTimezone)
		loc, _ = time.LoadLocation(defaultTimezone)
	}
	c.Schedule.location = loc
}

func mergeConfig(base, override Config) Config {
	if override.Database.DSN != "" {
		base.Database.DSN = override.Database.DSN
	}
	if override.Database.Driver != "" {
		base.Database.Driver = strings.ToLower(override.Database.Driver)
	}

	if override.Schedule.IntervalDays > 0 {
		base.Schedule.IntervalDays = override.Schedule.IntervalDays
	}
	if override.Schedule.Timezone != "" {
		base.Schedule.Timezone = override.Schedule.Timezone
	}

	if override.Generator.Endpoint != "" {
		base.Generator.Endpoint = override.Generator.Endpoint
	}
	if override.Generator.Model != "" {
		base.Generator.Model = override.Generator.Model
	}
	if override.Generator.APIKey != "" {
		base.Generator.APIKey = override.Generator.APIKey
	}
	if override.Generator.SystemPrompt != "" {
		base.Generator.SystemPrompt = override.Generator.SystemPrompt
	}
	if override.Generator.TimeoutSeconds > 0 {
		base.Generator.TimeoutSeconds = override.Generator.TimeoutSeconds
	}
	if override.Generator.RequestsPerMinute > 0 {
		base.Generator.RequestsPerMinute = override.Generator.RequestsPerMinute
	}

	if override.Images.Provider != "" {
		base.Images.Provider = override.Images.Provider
	}
	if override.Images.Endpoint != "" {
		base.Images.Endpoint = override.Images.Endpoint
	}
	if override.Images.APIKey != "" {
		base.Images.APIKey = override.Images.APIKey
	}
	if override.Images.Selector != "" {
		base.Images.Selector = override.Images.Selector
	}
	if override.Images.Placeholder != "" {
		base.Images.Placeholder = override.Images.Placeholder
	}

	if override.Session.AuthorID != "" {
		base.Session.AuthorID = override.Session.AuthorID
	}

	if override.Notifications.Telegram.BotToken != "" {
		base.Notifications.Telegram.BotToken = override.Notifications.Telegram.BotToken
	}
	if override.Notifications.Telegram.ChatID != "" {
		base.Notifications.Telegram.ChatID = override.Notifications.Telegram.ChatID
	}

	if override.Metrics.PushgatewayURL != "" {
		base.Metrics.PushgatewayURL = override.Metrics.PushgatewayURL
	}
	if override.Metrics.Job != "" {
		base.Metrics.Job = override.Metrics.Job
	}

	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	if override.LockPath != "" {
		base.LockPath = override.LockPath
	}

	return base
}

func defaultConfig() Config {
	tz, _ := time.LoadLocation(defaultTimezone)
	return Config{
		Database: DatabaseConfig{Driver: "sqlite", DSN: "file:articles.db?_pragma=busy_timeout(5000)"},
		Schedule: ScheduleConfig{IntervalDays: 7, Timezone: defaultTimezone, location: tz},
		Generator: GeneratorConfig{
			Endpoint:          "https://api.openai.com/v1/chat/completions",
			Model:             "gpt-4o-mini",
			SystemPrompt:      "You are an editor writing articles about video games.",
			TimeoutSeconds:    60,
			RequestsPerMinute: 20,
		},
		Images: ImagesConfig{
			Provider: "api",
			Endpoint: "https://api.unsplash.com/search/photos",
			Selector: "img",
		},
		Metrics:  MetricsConfig{Job: "article_composer"},
		Logging:  LoggingConfig{Level: "info"},
		LockPath: "articlecomposer.lock",
	}
}
