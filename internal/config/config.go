package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"resultex/internal/logger"
)

// Provider names accepted for OCR_PROVIDER.
const (
	ProviderOCRSpace   = "ocrspace"
	ProviderVision     = "vision"
	ProviderDocumentAI = "documentai"
)

type Config struct {
	// OCR provider selection
	OCRProvider string

	// OCR.space Configuration
	OCRSpaceAPIKey   string
	OCRSpaceEndpoint string
	OCRLanguage      string
	OCREngine        int

	// Google Cloud Configuration (vision / documentai providers)
	GoogleCloudProject    string
	GoogleCloudLocation   string
	DocumentAIProcessorID string

	// Recognition timeouts
	OCRTimeout           time.Duration
	AttendanceOCRTimeout time.Duration

	// Attendance heuristics
	AttendanceThreshold float64
	AttendanceLookahead int

	// Logging Configuration
	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

func Load() (*Config, error) {
	config := &Config{
		OCRProvider:           getEnv("OCR_PROVIDER", ProviderOCRSpace),
		OCRSpaceAPIKey:        getEnv("OCR_SPACE_API_KEY", ""),
		OCRSpaceEndpoint:      getEnv("OCR_SPACE_ENDPOINT", "https://api.ocr.space/parse/image"),
		OCRLanguage:           getEnv("OCR_LANGUAGE", "eng"),
		OCREngine:             getEnvInt("OCR_ENGINE", 2),
		GoogleCloudProject:    getEnv("GOOGLE_CLOUD_PROJECT", ""),
		GoogleCloudLocation:   getEnv("GOOGLE_CLOUD_LOCATION", "us"),
		DocumentAIProcessorID: getEnv("DOCUMENT_AI_PROCESSOR_ID", ""),
		OCRTimeout:            getEnvSeconds("OCR_TIMEOUT_SECONDS", 30),
		AttendanceOCRTimeout:  getEnvSeconds("ATTENDANCE_OCR_TIMEOUT_SECONDS", 60),
		AttendanceThreshold:   getEnvFloat("ATTENDANCE_THRESHOLD", 75),
		AttendanceLookahead:   getEnvInt("ATTENDANCE_LOOKAHEAD", 50),
		LogLevel:              getEnv("LOG_LEVEL", "info"),
		LogFormat:             getEnv("LOG_FORMAT", "console"),
		LogTimeFormat:         getEnv("LOG_TIME_FORMAT", "2006-01-02T15:04:05Z07:00"),
		LogOutput:             getEnv("LOG_OUTPUT", "stderr"),
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// validate rejects settings that cannot work at all. A missing OCR credential
// is deliberately not an error here: recognition degrades to empty text at
// call time instead of blocking native-only extraction.
func (c *Config) validate() error {
	switch c.OCRProvider {
	case ProviderOCRSpace, ProviderVision, ProviderDocumentAI:
	default:
		return fmt.Errorf("unknown OCR_PROVIDER %q", c.OCRProvider)
	}
	if c.OCRTimeout <= 0 {
		return fmt.Errorf("OCR_TIMEOUT_SECONDS must be positive")
	}
	if c.AttendanceOCRTimeout <= 0 {
		return fmt.Errorf("ATTENDANCE_OCR_TIMEOUT_SECONDS must be positive")
	}
	if c.AttendanceThreshold <= 0 || c.AttendanceThreshold > 100 {
		return fmt.Errorf("ATTENDANCE_THRESHOLD must be in (0, 100]")
	}
	if c.AttendanceLookahead <= 0 {
		return fmt.Errorf("ATTENDANCE_LOOKAHEAD must be positive")
	}
	return nil
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvSeconds(key string, defaultValue int) time.Duration {
	return time.Duration(getEnvInt(key, defaultValue)) * time.Second
}
