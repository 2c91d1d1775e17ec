package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvConfig mirrors Config for envconfig. Unset variables leave cfg untouched.
type EnvConfig struct {
	APIBaseURL      *string        `envconfig:"API_BASE_URL"`
	StatePath       *string        `envconfig:"STATE_PATH"`
	LogLevel        *string        `envconfig:"LOG_LEVEL"`
	RequestTimeout  *time.Duration `envconfig:"REQUEST_TIMEOUT"`
	MetricsAddr     *string        `envconfig:"METRICS_ADDR"`
	DownloadDir     *string        `envconfig:"DOWNLOAD_DIR"`
	GitHubPreflight *bool          `envconfig:"GITHUB_PREFLIGHT"`
	GitHubToken     string         `envconfig:"GITHUB_TOKEN"`
	S3Bucket        *string        `envconfig:"S3_BUCKET"`
	S3Region        *string        `envconfig:"S3_REGION"`
	S3Endpoint      *string        `envconfig:"S3_ENDPOINT"`
	S3AccessKey     string         `envconfig:"S3_ACCESS_KEY"`
	S3SecretKey     string         `envconfig:"S3_SECRET_KEY"`
}

const envPrefix = "DOCSMITH"

// parseEnv overlays cfg with DOCSMITH_* variables. Malformed values panic,
// matching the file loader.
func parseEnv(cfg *Config) {
	var ec EnvConfig
	if err := envconfig.Process(envPrefix, &ec); err != nil {
		panic(err)
	}

	if ec.APIBaseURL != nil {
		cfg.APIBaseURL = *ec.APIBaseURL
	}
	if ec.StatePath != nil {
		cfg.StatePath = *ec.StatePath
	}
	if ec.LogLevel != nil {
		cfg.LogLevel = *ec.LogLevel
	}
	if ec.RequestTimeout != nil {
		cfg.RequestTimeout = *ec.RequestTimeout
	}
	if ec.MetricsAddr != nil {
		cfg.MetricsAddr = *ec.MetricsAddr
	}
	if ec.DownloadDir != nil {
		cfg.DownloadDir = *ec.DownloadDir
	}
	if ec.GitHubPreflight != nil {
		cfg.GitHubPreflight = *ec.GitHubPreflight
	}
	if ec.GitHubToken != "" {
		cfg.GitHubToken = ec.GitHubToken
	}
	if ec.S3Bucket != nil {
		cfg.S3.Bucket = *ec.S3Bucket
	}
	if ec.S3Region != nil {
		cfg.S3.Region = *ec.S3Region
	}
	if ec.S3Endpoint != nil {
		cfg.S3.Endpoint = *ec.S3Endpoint
	}
	if ec.S3AccessKey != "" {
		cfg.S3.AccessKey = ec.S3AccessKey
	}
	if ec.S3SecretKey != "" {
		cfg.S3.SecretKey = ec.S3SecretKey
	}
}
