package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/patrimoine/internal/flagx"
	"github.com/dmitrijs2005/patrimoine/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify intervals either as
// strings like "3s" or as integer nanoseconds. After parsing, values
// are copied into the runtime Config (which uses time.Duration).
type JsonConfig struct {
	APIBaseURL          string         `json:"api_base_url"`
	RequestTimeout      timex.Duration `json:"request_timeout"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
	DatabasePath        string         `json:"database_path"`
	KeyFile             string         `json:"key_file"`
	BiometricHelper     string         `json:"biometric_helper"`
	StrictPinLock       bool           `json:"strict_pin_lock"`
	VerifyRetries       uint64         `json:"verify_retries"`
	RetryDelay          timex.Duration `json:"retry_delay"`
	LogLevel            string         `json:"log_level"`
}

// parseJson overlays Config with values loaded from a JSON file named by
// -c or -config. Keys absent from the file keep their current value.
// Panics on read or unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.ConfigPath(os.Args[1:])
	if jsonConfigFile == "" {
		return
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	jc := JsonConfig{
		APIBaseURL:          cfg.APIBaseURL,
		RequestTimeout:      timex.Duration{Duration: cfg.RequestTimeout},
		OnlineCheckInterval: timex.Duration{Duration: cfg.OnlineCheckInterval},
		DatabasePath:        cfg.DatabasePath,
		KeyFile:             cfg.KeyFile,
		BiometricHelper:     cfg.BiometricHelper,
		StrictPinLock:       cfg.StrictPinLock,
		VerifyRetries:       cfg.VerifyRetries,
		RetryDelay:          timex.Duration{Duration: cfg.RetryDelay},
		LogLevel:            cfg.LogLevel,
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	cfg.APIBaseURL = jc.APIBaseURL
	cfg.RequestTimeout = time.Duration(jc.RequestTimeout.Duration)
	cfg.OnlineCheckInterval = time.Duration(jc.OnlineCheckInterval.Duration)
	cfg.DatabasePath = jc.DatabasePath
	cfg.KeyFile = jc.KeyFile
	cfg.BiometricHelper = jc.BiometricHelper
	cfg.StrictPinLock = jc.StrictPinLock
	cfg.VerifyRetries = jc.VerifyRetries
	cfg.RetryDelay = time.Duration(jc.RetryDelay.Duration)
	cfg.LogLevel = jc.LogLevel
}
