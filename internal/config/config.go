package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Client   ClientConfig   `mapstructure:"client"`
	API      APIConfig      `mapstructure:"api"`
	Progress ProgressConfig `mapstructure:"progress"`
	Quiz     QuizConfig     `mapstructure:"quiz"`
	Log      LogConfig      `mapstructure:"log"`
}

type ClientConfig struct {
	Mode string `mapstructure:"mode"`
}

type APIConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	Timeout        time.Duration `mapstructure:"timeout_seconds"`
	RequestsPerSec float64       `mapstructure:"requests_per_sec"`
	Burst          int           `mapstructure:"burst"`
}

type ProgressConfig struct {
	AutosaveInterval time.Duration `mapstructure:"autosave_seconds"`
}

type QuizConfig struct {
	TimeLimit    time.Duration `mapstructure:"time_limit_minutes"`
	PassingScore float64       `mapstructure:"passing_score"`
}

type LogConfig struct {
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

func LoadConfig(path string) (*Config, error) {
	// .env is optional; real env vars win over it either way
	_ = godotenv.Load()

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix("STARCOMM")
	v.AutomaticEnv()

	v.BindEnv("client.mode", "STARCOMM_CLIENT_MODE")
	v.BindEnv("api.base_url", "STARCOMM_API_BASE_URL")

	v.SetDefault("client.mode", "release")
	v.SetDefault("api.base_url", "http://localhost:8080")
	v.SetDefault("api.timeout_seconds", 15)
	v.SetDefault("api.requests_per_sec", 10)
	v.SetDefault("api.burst", 20)
	v.SetDefault("progress.autosave_seconds", 30)
	v.SetDefault("quiz.time_limit_minutes", 30)
	v.SetDefault("quiz.passing_score", 80)
	v.SetDefault("log.file", "logs/client.log")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age_days", 30)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.API.Timeout = cfg.API.Timeout * time.Second
	cfg.Progress.AutosaveInterval = cfg.Progress.AutosaveInterval * time.Second
	cfg.Quiz.TimeLimit = cfg.Quiz.TimeLimit * time.Minute

	if cfg.Quiz.PassingScore < 0 || cfg.Quiz.PassingScore > 100 {
		return nil, fmt.Errorf("quiz passing score %v out of range [0,100]", cfg.Quiz.PassingScore)
	}

	return &cfg, nil
}
