// Package config loads runtime configuration for the labelscan CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. A .env file in the working directory, if present (godotenv).
//  3. Environment variables (see EnvConfig for names).
//  4. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  5. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   backend base URL
//	-d string   session database path
//	-t int      request timeout (seconds)
//	-l string   log level
//
// # JSON schema
//
// The JSON loader uses timex.Duration for the timeout, so it can be either a
// string like "30s" or integer nanoseconds:
//
//	{
//	  "api_base_url": "https://api.example.org",
//	  "firebase_api_key": "AIza...",
//	  "db_path": "labelscan.db",
//	  "request_timeout": "30s",
//	  "log_level": "info",
//	  "log_format": "console",
//	  "archive_bucket": "label-captures",
//	  "aws_region": "ap-south-1"
//	}
//
// Primary API
//
//   - type Config                     - runtime settings
//   - func LoadConfig() *Config       - defaults, .env, environment, JSON, then flags
//   - func (*Config) LoadDefaults()   - sets sensible defaults
//   - func (*Config) Validate() error - checks URLs, levels and limits
package config
