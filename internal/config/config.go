package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"alfredoptarigan/profile-generator/internal/logger"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Gemini   GeminiConfig
	GitHub   GitHubConfig
	Storage  StorageConfig
	Worker   WorkerConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// GeminiConfig holds the key pool and per-call limits for text generation.
type GeminiConfig struct {
	APIKeys     []string
	Model       string
	Temperature float32
	Timeout     time.Duration
	Cooldown    time.Duration
}

type GitHubConfig struct {
	BaseURL  string
	Token    string
	Timeout  time.Duration
	MaxRepos int
	PerPage  int
}

type StorageConfig struct {
	UploadPath    string
	GeneratedPath string
	TemplatePath  string
	MaxFileSize   int64
}

type WorkerConfig struct {
	ProjectConcurrency int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		logger.Log.Info("No .env file found. Using default values.")
	}

	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "5000"),
			Env:  getEnv("ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "profile_generator"),
		},
		Gemini: GeminiConfig{
			APIKeys:     getEnvAsList("GEMINI_API_KEYS", getEnv("GEMINI_API_KEY", "")),
			Model:       getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
			Temperature: getEnvAsFloat32("GEMINI_TEMPERATURE", 0.7),
			Timeout:     getEnvAsDuration("GEMINI_TIMEOUT", "30s"),
			Cooldown:    getEnvAsDuration("CREDENTIAL_COOLDOWN", "1h"),
		},
		GitHub: GitHubConfig{
			BaseURL:  strings.TrimRight(getEnv("GITHUB_API_URL", "https://api.github.com"), "/"),
			Token:    getEnv("GITHUB_TOKEN", ""),
			Timeout:  getEnvAsDuration("GITHUB_TIMEOUT", "15s"),
			MaxRepos: getEnvAsInt("GITHUB_MAX_REPOS", 6),
			PerPage:  getEnvAsInt("GITHUB_PER_PAGE", 10),
		},
		Storage: StorageConfig{
			UploadPath:    getEnv("UPLOAD_PATH", "./storage/uploads"),
			GeneratedPath: getEnv("GENERATED_PATH", "./storage/generated"),
			TemplatePath:  getEnv("TEMPLATE_PATH", "./templates"),
			MaxFileSize:   getEnvAsInt64("MAX_FILE_SIZE", 10485760),
		},
		Worker: WorkerConfig{
			ProjectConcurrency: getEnvAsInt("PROJECT_CONCURRENCY", 3),
		},
	}
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 32); err == nil {
		return float32(value)
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}

// getEnvAsList splits a comma-separated value, dropping blank items.
func getEnvAsList(key string, defaultValue string) []string {
	valueStr := getEnv(key, defaultValue)

	var items []string
	for _, item := range strings.Split(valueStr, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}
