package common

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Store backends understood by LoadConfig.
const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendDynamoDB = "dynamodb"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Store    StoreConfig
	Database DatabaseConfig
	Dynamo   DynamoConfig
	OCR      OCRConfig
	Queue    QueueConfig
	Events   EventsConfig
	Log      LogConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	HTTPAddr   string
	GRPCAddr   string
	UploadsDir string
}

// StoreConfig selects the ledger repository implementation.
type StoreConfig struct {
	Backend    string
	SQLitePath string
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	DSN              string
	MaxConns         int32
	MinConns         int32
	MaxConnLifetime  time.Duration
	MaxConnIdleTime  time.Duration
	DialTimeout      time.Duration
	StatementTimeout time.Duration
}

// DynamoConfig holds DynamoDB-related configuration
type DynamoConfig struct {
	Table    string
	Region   string
	Endpoint string
}

// OCRConfig holds OCR-related configuration
type OCRConfig struct {
	Pdftoppm    string
	Tesseract   string
	TessdataDir string
	Lang        string
	Scale       float64
	Timeout     time.Duration
}

// QueueConfig sizes the background re-extraction queue.
type QueueConfig struct {
	Workers    int
	Size       int
	JobTimeout time.Duration
}

// EventsConfig holds event publishing configuration; no brokers disables publishing.
type EventsConfig struct {
	Brokers []string
	Topic   string
}

type LogConfig struct {
	Level  string
	Format string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPAddr:   getEnv("HTTP_ADDR", ":5000"),
			GRPCAddr:   getEnv("GRPC_ADDR", ":9090"),
			UploadsDir: getEnv("UPLOADS_DIR", "static/uploads"),
		},
		Store: StoreConfig{
			Backend:    strings.ToLower(getEnv("STORE_BACKEND", BackendMemory)),
			SQLitePath: getEnv("SQLITE_PATH", "ledger.db"),
		},
		Database: DatabaseConfig{
			DSN:              getEnv("DB_URL", ""),
			MaxConns:         getEnvAsInt32("DB_MAX_CONNS", 20),
			MinConns:         getEnvAsInt32("DB_MIN_CONNS", 5),
			MaxConnLifetime:  getEnvAsDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute),
			MaxConnIdleTime:  getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 5*time.Minute),
			DialTimeout:      getEnvAsDuration("DB_DIAL_TIMEOUT", 3*time.Second),
			StatementTimeout: getEnvAsDuration("DB_STATEMENT_TIMEOUT", 0),
		},
		Dynamo: DynamoConfig{
			Table:    getEnv("DYNAMODB_TABLE", "ledger_entries"),
			Region:   getEnv("AWS_REGION", "us-east-1"),
			Endpoint: getEnv("DYNAMODB_ENDPOINT", ""),
		},
		OCR: OCRConfig{
			Pdftoppm:    getEnv("PDFTOPPM", "pdftoppm"),
			Tesseract:   getEnv("TESSERACT", "tesseract"),
			TessdataDir: getEnv("TESSDATA_PREFIX", ""),
			Lang:        getEnv("OCR_LANG", "eng"),
			Scale:       getEnvAsFloat64("OCR_SCALE", 2.0),
			Timeout:     getEnvAsDuration("OCR_TIMEOUT", 0),
		},
		Queue: QueueConfig{
			Workers:    getEnvAsInt("QUEUE_WORKERS", 2),
			Size:       getEnvAsInt("QUEUE_SIZE", 128),
			JobTimeout: getEnvAsDuration("QUEUE_JOB_TIMEOUT", 3*time.Minute),
		},
		Events: EventsConfig{
			Brokers: getEnvAsList("KAFKA_BROKERS"),
			Topic:   getEnv("KAFKA_TOPIC", "ledger.entry.extracted"),
		},
		Log: LogConfig{
			Level:  strings.ToLower(getEnv("LOG_LEVEL", "info")),
			Format: strings.ToLower(getEnv("LOG_FORMAT", "text")),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt32(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intVal)
		}
	}
	return defaultValue
}

func getEnvAsFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate checks the loaded configuration for the selected backend.
func (c *Config) Validate() error {
	if c.Server.HTTPAddr == "" {
		return NewAppError("CONFIG_ERROR", "HTTP_ADDR is required", ErrInvalidInput)
	}
	if c.Server.UploadsDir == "" {
		return NewAppError("CONFIG_ERROR", "UPLOADS_DIR is required", ErrInvalidInput)
	}
	switch c.Store.Backend {
	case BackendMemory:
	case BackendSQLite:
		if c.Store.SQLitePath == "" {
			return NewAppError("CONFIG_ERROR", "SQLITE_PATH is required for the sqlite backend", ErrInvalidInput)
		}
	case BackendPostgres:
		if c.Database.DSN == "" {
			return NewAppError("CONFIG_ERROR", "DB_URL is required for the postgres backend", ErrInvalidInput)
		}
	case BackendDynamoDB:
		if c.Dynamo.Table == "" {
			return NewAppError("CONFIG_ERROR", "DYNAMODB_TABLE is required for the dynamodb backend", ErrInvalidInput)
		}
	default:
		return NewAppError("CONFIG_ERROR", "unknown STORE_BACKEND "+c.Store.Backend, ErrInvalidInput)
	}
	if c.OCR.Scale <= 0 {
		return NewAppError("CONFIG_ERROR", "OCR_SCALE must be positive", ErrInvalidInput)
	}
	return nil
}
