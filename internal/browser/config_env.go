package browser

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// ApplyEnvToConfig populates unset fields of cfg from environment variables.
// Explicit cfg values take precedence over env.
func ApplyEnvToConfig(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.UserAgent == "" {
		cfg.UserAgent = os.Getenv("VULPES_USER_AGENT")
	}
	if cfg.CacheDir == "" {
		cfg.CacheDir = os.Getenv("VULPES_CACHE_DIR")
	}
	if cfg.HistoryDir == "" {
		cfg.HistoryDir = os.Getenv("VULPES_HISTORY_DIR")
	}

	if cfg.RequestTimeout == 0 {
		if s := os.Getenv("VULPES_TIMEOUT"); s != "" {
			if d, err := time.ParseDuration(s); err == nil {
				cfg.RequestTimeout = d
			}
		}
	}
	if cfg.CacheMaxAge == 0 {
		if s := os.Getenv("VULPES_CACHE_MAX_AGE"); s != "" {
			if d, err := time.ParseDuration(s); err == nil {
				cfg.CacheMaxAge = d
			}
		}
	}
	if cfg.MaxBodyBytes == 0 {
		if s := os.Getenv("VULPES_MAX_BODY_BYTES"); s != "" {
			if n, err := strconv.ParseInt(s, 10, 64); err == nil && n > 0 {
				cfg.MaxBodyBytes = n
			}
		}
	}
	if cfg.HostRPS == 0 {
		if s := os.Getenv("VULPES_HOST_RPS"); s != "" {
			if f, err := strconv.ParseFloat(s, 64); err == nil && f > 0 {
				cfg.HostRPS = f
			}
		}
	}

	setBool := func(dst *bool, envKey string) {
		if *dst {
			return
		}
		if s := strings.ToLower(strings.TrimSpace(os.Getenv(envKey))); s != "" {
			if s == "1" || s == "true" || s == "yes" || s == "on" {
				*dst = true
			}
		}
	}
	setBool(&cfg.DisableHistory, "VULPES_HISTORY_OFF")
	setBool(&cfg.CacheClear, "VULPES_CACHE_CLEAR")
	setBool(&cfg.Verbose, "VULPES_VERBOSE")
}
