package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	HTTPAddr        string
	CORSAllowAll    bool
	ShutdownTimeout time.Duration

	JobDataPath string
	SampleLimit int

	TracesEnabled bool
	OTLPEndpoint  string

	MetricsBackend    string
	MetricsTags       string
	MetricsFlushEvery time.Duration
}

func LoadConfig() (*Config, error) {
	config := &Config{
		HTTPAddr:        getEnvString("HTTP_ADDR", ":5000"),
		CORSAllowAll:    getEnvBool("CORS_ALLOW_ALL", true),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),

		JobDataPath: getEnvString("JOB_DATA_PATH", "job_descriptions.csv"),
		SampleLimit: getEnvInt("SAMPLE_LIMIT", 100),

		TracesEnabled: getEnvBool("OTEL_TRACES_ENABLED", false),
		OTLPEndpoint:  getEnvString("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),

		MetricsBackend:    getEnvString("METRICS_BACKEND", "none"),
		MetricsTags:       getEnvString("METRICS_TAGS", ""),
		MetricsFlushEvery: getEnvDuration("METRICS_FLUSH_EVERY", 60*time.Second),
	}

	return config, nil
}

func getEnvString(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
