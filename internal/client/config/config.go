package config

import (
	"os"
	"time"
)

// S3Config describes the optional bucket README downloads are exported to.
type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// Enabled reports whether a bucket has been configured.
func (c S3Config) Enabled() bool {
	return c.Bucket != ""
}

// Config holds runtime settings for the docsmith CLI.
type Config struct {
	APIBaseURL      string
	StatePath       string
	LogLevel        string
	RequestTimeout  time.Duration
	MetricsAddr     string
	DownloadDir     string
	GitHubPreflight bool
	GitHubToken     string
	S3              S3Config
}

// LoadDefaults populates c with defaults suitable for a local backend.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:8000/api"
	c.StatePath = "docsmith.db"
	c.LogLevel = "info"
	c.RequestTimeout = 0
	c.MetricsAddr = ""
	c.DownloadDir = "downloads"
	c.GitHubPreflight = false
	c.S3.Region = "us-east-1"
}

// LoadConfig builds a Config from defaults, the optional config file, the
// environment and the process flags, in that order.
func LoadConfig() *Config {
	return Load(os.Args[1:])
}

// Load is LoadConfig over an explicit argument list.
func Load(args []string) *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseFile(cfg, args)
	parseEnv(cfg)
	parseFlags(cfg, args)
	return cfg
}
