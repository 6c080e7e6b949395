package config

import "time"

type Config struct {
	Env        string          `yaml:"env" env-default:"local"`
	DBConfig   DBConfig        `yaml:"db" env-required:"true"`
	BotConfig  BotConfig       `yaml:"bot" env-required:"true"`
	Broadcast  BroadcastConfig `yaml:"broadcast"`
	Generator  GeneratorConfig `yaml:"generator"`
	configPath string
}

type DBConfig struct {
	Host     string `yaml:"host" env:"DB_HOST" env-default:"localhost"`
	Port     string `yaml:"port" env:"DB_PORT" env-default:"5432"`
	Name     string `yaml:"name" env:"DB_NAME" env-default:"postgres"`
	User     string `yaml:"user" env:"DB_USER" env-default:"user"`
	Password string `yaml:"password" env:"DB_PASSWORD" env-default:"password"`
	Schema   string `yaml:"schema" env:"DB_SCHEMA" env-default:"ort_bot"`
}

type BotConfig struct {
	TgbotApiToken string `yaml:"tgbot_apitoken" env:"TGBOT_APITOKEN" env-required:"true"`
	// OwnerID is the bootstrap administrator: always an admin, receives
	// profile moderation requests, cannot be removed.
	OwnerID int64   `yaml:"owner_id" env:"BOT_OWNER_ID" env-required:"true"`
	Admins  []int64 `yaml:"admins"`
}

type BroadcastConfig struct {
	ChunkSize       int           `yaml:"chunk_size" env-default:"30"`
	InterChunkDelay time.Duration `yaml:"inter_chunk_delay" env-default:"50ms"`
	GroupsCacheTTL  time.Duration `yaml:"groups_cache_ttl" env-default:"5m"`
}

type GeneratorConfig struct {
	Enabled  bool          `yaml:"enabled" env-default:"false"`
	APIKey   string        `yaml:"api_key" env:"OPENROUTER_API_KEY"`
	Model    string        `yaml:"model" env-default:"openai/gpt-4o-mini"`
	Interval time.Duration `yaml:"interval" env-default:"5m"`
	Subjects []Subject     `yaml:"subjects"`
}

// Subject binds a generated-task topic to the group chat it is posted in.
type Subject struct {
	Name   string `yaml:"name"`
	ChatID int64  `yaml:"chat_id"`
	Prompt string `yaml:"prompt"`
}
