package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/patrimoine/internal/flagx"
)

var valueFlags = []string{"-a", "-t", "-i", "-d", "-k", "-b", "-r", "-l"}

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   backend API base URL
//	-t int      request timeout (in seconds)
//	-i int      online check interval (in seconds)
//	-d string   local database file
//	-k string   device key file
//	-b string   biometric helper executable
//	-r int      extra verification attempts on transport failures
//	-l string   log level
//	-strict-pin keep the PIN lock without biometrics
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], valueFlags, "-strict-pin")

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "backend API base URL")
	requestTimeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "local database file")
	fs.StringVar(&cfg.KeyFile, "k", cfg.KeyFile, "device key file")
	fs.StringVar(&cfg.BiometricHelper, "b", cfg.BiometricHelper, "biometric helper executable")
	fs.Uint64Var(&cfg.VerifyRetries, "r", cfg.VerifyRetries, "extra session verification attempts")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.BoolVar(&cfg.StrictPinLock, "strict-pin", cfg.StrictPinLock, "keep the PIN lock when biometrics are unavailable")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*requestTimeout) * time.Second
	cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
}
