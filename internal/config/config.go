package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	ServerAddr       string
	LogLevel         string
	BaseURL          string
	CompletionModel  string
	CompletionAPI    string
	CredentialPrefix string
	MapConcurrency   int
	RequestTimeout   time.Duration
	MaxUploadBytes   int
}

// Load reads configuration from the environment. Unset or malformed values
// fall back to defaults.
func Load() *Config {
	return &Config{
		ServerAddr:       getenv("SERVER_ADDR", ":8080"),
		LogLevel:         strings.ToLower(getenv("LOG_LEVEL", "info")),
		BaseURL:          getenv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		CompletionModel:  getenv("COMPLETION_MODEL", "gpt-3.5-turbo-instruct"),
		CompletionAPI:    strings.ToLower(getenv("COMPLETION_API", "completions")),
		CredentialPrefix: getenvAllowEmpty("CREDENTIAL_PREFIX", "sk-"),
		MapConcurrency:   getenvInt("MAP_CONCURRENCY", 1),
		RequestTimeout:   getenvDuration("REQUEST_TIMEOUT", 2*time.Minute),
		MaxUploadBytes:   getenvInt("MAX_UPLOAD_BYTES", 4<<20),
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// getenvAllowEmpty distinguishes an unset variable from one explicitly set
// to the empty string.
func getenvAllowEmpty(k, def string) string {
	if v, ok := os.LookupEnv(k); ok {
		return v
	}
	return def
}

func getenvInt(k string, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(os.Getenv(k)))
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func getenvDuration(k string, def time.Duration) time.Duration {
	v, err := time.ParseDuration(strings.TrimSpace(os.Getenv(k)))
	if err != nil || v <= 0 {
		return def
	}
	return v
}
