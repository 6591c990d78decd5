package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	DBDriver      string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBLogLevel    string
	RedisHost     string
	RedisPort     string
	RedisPassword string
	MessageEvents bool
	SessionSecret string
	GinMode       string
	LogLevel      string
	ServerAddr    string
	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string
	StorageDriver string
	StoragePath   string
	S3Bucket      string
	S3Region      string
	S3Endpoint    string
}

var defaults = map[string]any{
	"DB_DRIVER":       "mysql",
	"DB_HOST":         "localhost",
	"DB_PORT":         "3306",
	"DB_USER":         "hruser",
	"DB_PASSWORD":     "hrpassword",
	"DB_NAME":         "hr_operations",
	"DB_LOG_LEVEL":    "warn",
	"REDIS_HOST":      "localhost",
	"REDIS_PORT":      "6379",
	"REDIS_PASSWORD":  "",
	"MESSAGE_EVENTS":  true,
	"SESSION_SECRET":  "default-secret-key-change-me",
	"GIN_MODE":        "debug",
	"LOG_LEVEL":       "info",
	"SERVER_ADDR":     ":8080",
	"OPENAI_API_KEY":  "",
	"OPENAI_MODEL":    "gpt-4o",
	"OPENAI_BASE_URL": "",
	"STORAGE_DRIVER":  "local",
	"STORAGE_PATH":    "./data/documents",
	"S3_BUCKET":       "",
	"S3_REGION":       "ap-northeast-1",
	"S3_ENDPOINT":     "",
}

// Load reads configuration from the environment. When configFile is not empty
// its values are read first and environment variables still take precedence.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return &Config{
		DBDriver:      v.GetString("DB_DRIVER"),
		DBHost:        v.GetString("DB_HOST"),
		DBPort:        v.GetString("DB_PORT"),
		DBUser:        v.GetString("DB_USER"),
		DBPassword:    v.GetString("DB_PASSWORD"),
		DBName:        v.GetString("DB_NAME"),
		DBLogLevel:    v.GetString("DB_LOG_LEVEL"),
		RedisHost:     v.GetString("REDIS_HOST"),
		RedisPort:     v.GetString("REDIS_PORT"),
		RedisPassword: v.GetString("REDIS_PASSWORD"),
		MessageEvents: v.GetBool("MESSAGE_EVENTS"),
		SessionSecret: v.GetString("SESSION_SECRET"),
		GinMode:       v.GetString("GIN_MODE"),
		LogLevel:      v.GetString("LOG_LEVEL"),
		ServerAddr:    v.GetString("SERVER_ADDR"),
		OpenAIAPIKey:  v.GetString("OPENAI_API_KEY"),
		OpenAIModel:   v.GetString("OPENAI_MODEL"),
		OpenAIBaseURL: v.GetString("OPENAI_BASE_URL"),
		StorageDriver: v.GetString("STORAGE_DRIVER"),
		StoragePath:   v.GetString("STORAGE_PATH"),
		S3Bucket:      v.GetString("S3_BUCKET"),
		S3Region:      v.GetString("S3_REGION"),
		S3Endpoint:    v.GetString("S3_ENDPOINT"),
	}, nil
}

// RedisAddr returns host:port of the redis server
func (c *Config) RedisAddr() string {
	return c.RedisHost + ":" + c.RedisPort
}

// IsProduction reports whether gin runs in release mode
func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}
