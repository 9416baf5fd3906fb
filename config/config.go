package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Port              string `yaml:"port"`
	Env               string `yaml:"env"`
	DBPath            string `yaml:"db_path"`
	LogLevel          string `yaml:"log_level"`
	WorkerConcurrency int    `yaml:"worker_concurrency"`
	MainLoopBuffer    int    `yaml:"main_loop_buffer"`
	CORSOrigins       string `yaml:"cors_origins"`
	APIToken          string `yaml:"api_token"`
}

func defaults() *Config {
	return &Config{
		Port:              "3000",
		Env:               "development",
		DBPath:            "./data/callerinfo.db",
		LogLevel:          "info",
		WorkerConcurrency: 4,
		MainLoopBuffer:    64,
		CORSOrigins:       "*",
	}
}

// Load reads .env, then the optional YAML file named by CONFIG_FILE,
// then environment variables. Later sources win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	cfg.Port = GetEnv("PORT", cfg.Port)
	cfg.Env = GetEnv("ENV", cfg.Env)
	cfg.DBPath = GetEnv("DB_PATH", cfg.DBPath)
	cfg.LogLevel = GetEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.WorkerConcurrency = GetEnvInt("WORKER_CONCURRENCY", cfg.WorkerConcurrency)
	cfg.MainLoopBuffer = GetEnvInt("MAIN_LOOP_BUFFER", cfg.MainLoopBuffer)
	cfg.CORSOrigins = GetEnv("CORS_ORIGINS", cfg.CORSOrigins)
	cfg.APIToken = GetEnv("API_TOKEN", cfg.APIToken)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) Validate() error {
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("invalid port %q", c.Port)
	}
	if c.DBPath == "" {
		return fmt.Errorf("db path is required")
	}
	if c.WorkerConcurrency <= 0 {
		return fmt.Errorf("worker concurrency must be positive, got %d", c.WorkerConcurrency)
	}
	if c.MainLoopBuffer < 0 {
		return fmt.Errorf("main loop buffer must not be negative, got %d", c.MainLoopBuffer)
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetEnvInt falls back to defaultValue when the variable is unset or not a number
func GetEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
