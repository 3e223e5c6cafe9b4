package config

import (
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds client configuration.
type Config struct {
	Env             string
	BaseURL         string
	PushURL         string
	HTTPTimeout     time.Duration
	Port            string
	OutputDir       string
	DownloadDir     string
	ObjectStoreType string
	AWSRegion       string
	S3Bucket        string
	S3Prefix        string
	SSEKMSKeyID     string
	SQSQueueURL     string
	DatabaseURL     string
	LogLevel        string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	baseURL := strings.TrimRight(getEnv("CAREERBERT_BASE_URL", "http://127.0.0.1:5000"), "/")
	pushURL := getEnv("CAREERBERT_PUSH_URL", "")
	if pushURL == "" {
		pushURL = DerivePushURL(baseURL)
	}

	cfg := Config{
		Env:             normalizeEnv(getEnv("ENV", "dev")),
		BaseURL:         baseURL,
		PushURL:         pushURL,
		HTTPTimeout:     time.Duration(getEnvInt("HTTP_TIMEOUT_SECONDS", 30)) * time.Second,
		Port:            getEnv("PORT", "8090"),
		OutputDir:       getEnv("OUTPUT_DIR", "./out"),
		DownloadDir:     getEnv("DOWNLOAD_DIR", "./downloads"),
		ObjectStoreType: normalizeStoreType(getEnv("OBJECT_STORE", "local")),
		AWSRegion:       getEnv("AWS_REGION", ""),
		S3Bucket:        getEnv("S3_BUCKET", ""),
		S3Prefix:        getEnv("S3_PREFIX", "reports/"),
		SSEKMSKeyID:     getEnv("SSE_KMS_KEY_ID", ""),
		SQSQueueURL:     strings.TrimSpace(os.Getenv("CAREERBERT_SQS_QUEUE_URL")),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		LogLevel:        strings.ToLower(getEnv("LOG_LEVEL", "info")),
	}

	if cfg.ObjectStoreType == "s3" && cfg.S3Bucket == "" {
		log.Printf("OBJECT_STORE=s3 without S3_BUCKET; reports will be saved locally")
		cfg.ObjectStoreType = "local"
	}
	return cfg
}

// DerivePushURL maps an http(s) base URL onto the websocket endpoint of the push channel.
func DerivePushURL(baseURL string) string {
	u, err := url.Parse(baseURL)
	if err != nil || u.Host == "" {
		return "ws://127.0.0.1:5000/ws"
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/ws"
	u.RawQuery = ""
	return u.String()
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil || val <= 0 {
		log.Printf("config %s invalid int %q; using %d", key, raw, def)
		return def
	}
	return val
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "development", "dev":
		return "dev"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	default:
		return "local"
	}
}
