// Package config loads runtime configuration for the patrimoine CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   backend API base URL
//	-t int      request timeout (seconds)
//	-i int      online status check interval (seconds)
//	-d string   local database file
//	-k string   device key file
//	-b string   biometric helper executable
//	-r int      extra verification attempts
//	-l string   log level
//	-strict-pin keep the PIN lock without biometrics
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "3s" or integer nanoseconds:
//
//	{
//	  "api_base_url": "http://127.0.0.1:5000/api",
//	  "request_timeout": "10s",
//	  "online_check_interval": "30s",
//	  "database_path": "patrimoine.db",
//	  "biometric_helper": "/usr/local/bin/patrimoine-bio",
//	  "strict_pin_lock": false,
//	  "verify_retries": 2,
//	  "retry_delay": "1s",
//	  "log_level": "info"
//	}
//
// This package does not read environment variables; use the JSON file or
// flags to configure values.
package config
