// Package config loads runtime configuration for the docsmith CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON or YAML file selected with -c or -config; the format is
//     picked by extension (.yaml/.yml → YAML, anything else → JSON).
//  3. Environment variables prefixed with DOCSMITH_ (see parseEnv).
//  4. Command-line flags (see parseFlags), which override everything else.
//
// Supported flags
//
//	-a string   backend API base address, e.g. http://localhost:8000/api
//	-d string   path of the local state database (holds the access token)
//	-l string   log level: debug, info, warn, error
//	-m string   listen address for the Prometheus /metrics endpoint (empty = off)
//
// # File schema
//
//	{
//	  "api_base_url": "http://localhost:8000/api",
//	  "state_path": "docsmith.db",
//	  "log_level": "info",
//	  "request_timeout": "0s",
//	  "metrics_addr": "",
//	  "download_dir": "downloads",
//	  "github_preflight": false,
//	  "s3": {"bucket": "", "region": "us-east-1", "endpoint": ""}
//	}
//
// request_timeout accepts "30s"-style strings or integer nanoseconds. Zero
// means requests are never timed out by the client.
package config
