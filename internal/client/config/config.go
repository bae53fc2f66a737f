package config

import "time"

// Config holds runtime settings for the patrimoine CLI.
//
// Fields:
//   - APIBaseURL: base URL of the backend HTTP API, including the /api prefix.
//   - RequestTimeout: per-request timeout of the HTTP client.
//   - OnlineCheckInterval: how often the client probes server reachability.
//   - DatabasePath: SQLite file holding the token, preferences and secrets.
//   - KeyFile: device key used to seal the secret store. Empty means
//     DatabasePath + ".key".
//   - BiometricHelper: executable implementing the biometric helper
//     protocol. Empty means no biometric hardware.
//   - StrictPinLock: keep the PIN lock when biometrics are unavailable.
//   - VerifyRetries, RetryDelay: bounded retry of session verification on
//     transport failures.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	APIBaseURL          string
	RequestTimeout      time.Duration
	OnlineCheckInterval time.Duration
	DatabasePath        string
	KeyFile             string
	BiometricHelper     string
	StrictPinLock       bool
	VerifyRetries       uint64
	RetryDelay          time.Duration
	LogLevel            string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://127.0.0.1:5000/api"
	c.RequestTimeout = 10 * time.Second
	c.OnlineCheckInterval = 30 * time.Second
	c.DatabasePath = "patrimoine.db"
	c.KeyFile = ""
	c.BiometricHelper = ""
	c.StrictPinLock = false
	c.VerifyRetries = 0
	c.RetryDelay = time.Second
	c.LogLevel = "info"
}

// KeyFilePath resolves the device key location.
func (c *Config) KeyFilePath() string {
	if c.KeyFile != "" {
		return c.KeyFile
	}
	return c.DatabasePath + ".key"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
