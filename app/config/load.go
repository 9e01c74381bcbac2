package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	EnvConfigFile     = "CONFIG_FILE"
	EnvServerHost     = "SERVER_HOST"
	EnvServerPort     = "SERVER_PORT"
	EnvLLMAPIKey      = "GROQ_API_KEY"
	EnvLLMBaseURL     = "LLM_BASE_URL"
	EnvLLMModel       = "LLM_MODEL"
	EnvLLMTemperature = "LLM_TEMPERATURE"
	EnvLLMTimeout     = "LLM_TIMEOUT"
	EnvMailUser       = "EMAIL_USER"
	EnvMailPassword   = "EMAIL_PASS"
	EnvSMTPHost       = "SMTP_HOST"
	EnvSMTPPort       = "SMTP_PORT"
	EnvSMTPInsecure   = "SMTP_INSECURE_TLS"
	EnvSMTPTimeout    = "SMTP_TIMEOUT"
	EnvMetricsAddr    = "METRICS_ADDR"
)

// LoadDotEnv loads variables from the given .env files (".env" when none are
// given) without overriding variables already set. Missing files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// Load builds the configuration: defaults, then the optional YAML file named
// by path, then the process environment.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if err := overrideFromEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func overrideFromEnv(cfg *Config) error {
	cfg.Server.Host = getEnv(EnvServerHost, cfg.Server.Host)
	cfg.LLM.APIKey = getEnv(EnvLLMAPIKey, cfg.LLM.APIKey)
	cfg.LLM.BaseURL = getEnv(EnvLLMBaseURL, cfg.LLM.BaseURL)
	cfg.LLM.Model = getEnv(EnvLLMModel, cfg.LLM.Model)
	cfg.Mail.User = getEnv(EnvMailUser, cfg.Mail.User)
	cfg.Mail.Password = getEnv(EnvMailPassword, cfg.Mail.Password)
	cfg.Mail.Host = getEnv(EnvSMTPHost, cfg.Mail.Host)
	cfg.Metrics.Addr = getEnv(EnvMetricsAddr, cfg.Metrics.Addr)

	var err error
	if cfg.Server.Port, err = getEnvInt(EnvServerPort, cfg.Server.Port); err != nil {
		return err
	}
	if cfg.Mail.Port, err = getEnvInt(EnvSMTPPort, cfg.Mail.Port); err != nil {
		return err
	}
	if cfg.LLM.Temperature, err = getEnvFloat(EnvLLMTemperature, cfg.LLM.Temperature); err != nil {
		return err
	}
	if cfg.LLM.Timeout, err = getEnvDuration(EnvLLMTimeout, cfg.LLM.Timeout); err != nil {
		return err
	}
	if cfg.Mail.Timeout, err = getEnvDuration(EnvSMTPTimeout, cfg.Mail.Timeout); err != nil {
		return err
	}
	if cfg.Mail.InsecureTLS, err = getEnvBool(EnvSMTPInsecure, cfg.Mail.InsecureTLS); err != nil {
		return err
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}
