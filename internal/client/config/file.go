package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/docsmith/internal/flagx"
	"github.com/dmitrijs2005/docsmith/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig is the DTO decoded from a JSON or YAML config file. Pointer
// fields distinguish "absent" from "zero" so a file can leave values alone.
type FileConfig struct {
	APIBaseURL      *string         `json:"api_base_url" yaml:"api_base_url"`
	StatePath       *string         `json:"state_path" yaml:"state_path"`
	LogLevel        *string         `json:"log_level" yaml:"log_level"`
	RequestTimeout  *timex.Duration `json:"request_timeout" yaml:"request_timeout"`
	MetricsAddr     *string         `json:"metrics_addr" yaml:"metrics_addr"`
	DownloadDir     *string         `json:"download_dir" yaml:"download_dir"`
	GitHubPreflight *bool           `json:"github_preflight" yaml:"github_preflight"`
	S3              *FileS3Config   `json:"s3" yaml:"s3"`
}

type FileS3Config struct {
	Bucket   string `json:"bucket" yaml:"bucket"`
	Region   string `json:"region" yaml:"region"`
	Endpoint string `json:"endpoint" yaml:"endpoint"`
}

// parseFile overlays cfg with the file named by -c/-config in args.
// It panics on read or decode errors; a broken config file is fatal.
func parseFile(cfg *Config, args []string) {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var fc FileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		panic(err)
	}

	fc.apply(cfg)
}

func (fc *FileConfig) apply(cfg *Config) {
	if fc.APIBaseURL != nil {
		cfg.APIBaseURL = *fc.APIBaseURL
	}
	if fc.StatePath != nil {
		cfg.StatePath = *fc.StatePath
	}
	if fc.LogLevel != nil {
		cfg.LogLevel = *fc.LogLevel
	}
	if fc.RequestTimeout != nil {
		cfg.RequestTimeout = fc.RequestTimeout.Duration
	}
	if fc.MetricsAddr != nil {
		cfg.MetricsAddr = *fc.MetricsAddr
	}
	if fc.DownloadDir != nil {
		cfg.DownloadDir = *fc.DownloadDir
	}
	if fc.GitHubPreflight != nil {
		cfg.GitHubPreflight = *fc.GitHubPreflight
	}
	if fc.S3 != nil {
		cfg.S3.Bucket = fc.S3.Bucket
		if fc.S3.Region != "" {
			cfg.S3.Region = fc.S3.Region
		}
		cfg.S3.Endpoint = fc.S3.Endpoint
	}
}
